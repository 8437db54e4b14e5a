/*
Copyright 2011-2026 Frederic Langlet
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
you may obtain a copy of the License at

                http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package store

import (
	"io"

	"github.com/cvecio/cvec/wire"
)

// Serialize writes the container to w in the wire format: a varint
// element count, then one varint-length-prefixed block per bucket
// (compressed, except the last bucket's payload is raw bytes when N
// mod B != 0). checksum appends a trailing XXHash64 of the stream.
func (c *CVec[T]) Serialize(w io.Writer, checksum bool) error {
	wr := wire.NewWriter(w, checksum)

	if err := wr.PutUvarint(uint64(c.n)); err != nil {
		return err
	}

	for i, b := range c.buckets {
		payload, err := c.bucketPayload(i, b)

		if err != nil {
			return err
		}

		if err := wr.PutBytes(payload); err != nil {
			return err
		}
	}

	return wr.Close()
}

// CompressedBucket returns the on-wire bytes for bucket i, compressing
// a dirty attached context first if needed. Exposed for callers that
// archive evicted buckets externally (e.g. coldstore) without driving
// a full Serialize of the container.
func (c *CVec[T]) CompressedBucket(i int) ([]byte, error) {
	if i < 0 || i >= len(c.buckets) {
		return nil, ErrOutOfRange("bucket %d out of range [0, %d)", i, len(c.buckets))
	}

	return c.bucketPayload(i, c.buckets[i])
}

func (c *CVec[T]) bucketPayload(i int, b *Bucket) ([]byte, error) {
	isLast := i == len(c.buckets)-1
	partial := isLast && c.lastBucketSize(0) < blockSize

	if b.ctxIdx != -1 {
		ctx := c.pool.arena[b.ctxIdx]

		if partial {
			out := make([]byte, ctx.size*c.bpp)
			copy(out, ctx.storage[:ctx.size*c.bpp])
			return out, nil
		}

		if ctx.dirty || b.buffer == nil {
			if err := c.pool.compress(b, ctx); err != nil {
				return nil, err
			}
		}
	}

	out := make([]byte, len(b.buffer))
	copy(out, b.buffer)
	return out, nil
}

// Deserialize reads a stream written by Serialize back into a fresh
// CVec[T]. Full buckets are kept as compressed blobs without
// decompression; only the last, possibly-partial bucket is
// loaded directly into a live context, since its compressed form never
// exists.
func Deserialize[T any](r io.Reader, ec ElementCodec[T], checksum bool, opts ...Option) (*CVec[T], error) {
	rd := wire.NewReader(r, checksum)

	nVar, err := rd.Uvarint()

	if err != nil {
		return nil, ErrBadWire("read element count: %v", err)
	}

	n := int(nVar)
	c := New[T](ec, opts...)
	bucketCount := (n + blockSize - 1) / blockSize

	for i := 0; i < bucketCount; i++ {
		payload, err := rd.Bytes()

		if err != nil {
			return nil, ErrBadWire("read bucket %d: %v", i, err)
		}

		isLast := i == bucketCount-1
		size := blockSize

		if isLast {
			size = n - i*blockSize
		}

		b := &Bucket{ctxIdx: -1}

		if isLast && size < blockSize {
			idx := c.pool.alloc()
			c.pool.live++
			c.pool.pushFront(idx)
			ctx := c.pool.arena[idx]
			copy(ctx.storage, payload)
			ctx.size = size
			ctx.bucketIndex = i
			ctx.dirty = false
			b.ctxIdx = idx
		} else {
			b.buffer = payload
			b.csize = len(payload)
		}

		c.buckets = append(c.buckets, b)
	}

	c.n = n

	if err := rd.VerifyChecksum(); err != nil {
		return nil, ErrBadWire("checksum mismatch")
	}

	return c, nil
}
