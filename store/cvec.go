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

// Package store implements the compressed container engine: the
// bucket table, the context pool with its attach/steal/shrink policy
// and dispersion heuristic, and the Ref Wrapper lazy accessor that
// ties them to a generic CVec[T]. It is the orchestrator that wires
// codec, simd, pack and wire into one public surface.
//
// Memory-safety note: accessing any element through a Ref may evict any
// other bucket's context. Every value previously obtained via
// Ref.Load is a snapshot, not a live reference; holding two Refs across
// an intervening third access is safe, but holding a Go pointer into a
// Context's storage across any access is not. Clients needing two live
// slots at once (swap, compare) must use the pairwise primitives in
// ref.go, which attach both buckets under an exclude hint before either
// is touched.
package store

// CVec is a compressed random-access sequence of T. The zero value
// is not usable; construct with New.
type CVec[T any] struct {
	ec      ElementCodec[T]
	bpp     int
	buckets []*Bucket
	n       int
	pool    *pool
}

// New constructs an empty CVec[T] using ec to convert T to and from its
// BPP-byte wire representation.
func New[T any](ec ElementCodec[T], opts ...Option) *CVec[T] {
	cfg := defaultConfig()

	for _, o := range opts {
		o(&cfg)
	}

	c := &CVec[T]{ec: ec, bpp: ec.Size()}
	p := newPool(c.bpp, cfg.codec, cfg.accel, cfg.ceilingFn)
	p.lastSize = c.lastBucketSize
	p.listeners = cfg.listeners
	p.dispersionUp = cfg.dispersionUp
	p.dispersionDn = cfg.dispersionDn
	c.pool = p
	return c
}

// Len returns the element count N.
func (c *CVec[T]) Len() int { return c.n }

// BucketCount returns the number of buckets, ⌈N / B⌉ (0 when empty).
func (c *CVec[T]) BucketCount() int { return len(c.buckets) }

func (c *CVec[T]) lastBucketSize(_ int) int {
	if len(c.buckets) == 0 {
		return 0
	}

	full := (len(c.buckets) - 1) * blockSize
	return c.n - full
}

// PushBack appends v, creating a new bucket when the current last one
// is full. Strong exception guarantee: on a decompression
// failure while making room, the container is left unmodified.
func (c *CVec[T]) PushBack(v T) error {
	grew := len(c.buckets) == 0 || c.lastBucketSize(0) == blockSize

	if grew {
		c.buckets = append(c.buckets, &Bucket{ctxIdx: -1})
	}

	lastIdx := len(c.buckets) - 1
	ctx, err := c.pool.attach(c.buckets, lastIdx, true)

	if err != nil {
		if grew {
			c.buckets = c.buckets[:lastIdx]
		}

		return err
	}

	off := ctx.size * c.bpp
	c.ec.Encode(v, ctx.storage[off:off+c.bpp])
	ctx.size++
	c.n++
	c.pool.recordWrite()
	return nil
}

// PopBack removes the last element. Returns ErrOutOfRange if
// the container is empty.
func (c *CVec[T]) PopBack() error {
	if c.n == 0 {
		return ErrOutOfRange("pop_back: empty container")
	}

	lastIdx := len(c.buckets) - 1
	ctx, err := c.pool.attach(c.buckets, lastIdx, true)

	if err != nil {
		return err
	}

	ctx.size--
	c.n--

	if ctx.size == 0 {
		b := c.buckets[lastIdx]
		c.pool.destroy(b.ctxIdx)
		b.ctxIdx = -1
		c.buckets = c.buckets[:lastIdx]
	}

	return nil
}

// Clear empties the container and destroys every context.
func (c *CVec[T]) Clear() {
	for idx := c.pool.head; idx != -1; {
		next := c.pool.arena[idx].right
		c.pool.destroy(idx)
		idx = next
	}

	c.buckets = nil
	c.n = 0
}

// ShrinkToFit compresses every dirty context and destroys every context
// except at most one kept free.
func (c *CVec[T]) ShrinkToFit() error {
	if len(c.buckets) == 0 {
		return nil
	}

	lastIdx := len(c.buckets) - 1
	partial := c.lastBucketSize(0) < blockSize
	return c.pool.shrink(c.buckets, lastIdx, partial)
}

// MemoryFootprint breaks the container's resident memory into its
// three components; Total sums them.
type MemoryFootprint struct {
	CompressedBytes int
	ContextBytes    int
	Overhead        int // bucket table + pool bookkeeping, excl. self
}

// Total is the bytes used by the container, excluding the CVec header
// itself.
func (f MemoryFootprint) Total() int {
	return f.CompressedBytes + f.ContextBytes + f.Overhead
}

// MemoryFootprint reports the container's resident memory breakdown.
func (c *CVec[T]) MemoryFootprint() MemoryFootprint {
	var f MemoryFootprint

	for _, b := range c.buckets {
		f.CompressedBytes += len(b.buffer)
		f.Overhead += bucketOverhead
	}

	for _, ctx := range c.pool.arena {
		if ctx != nil {
			f.ContextBytes += len(ctx.storage)
			f.Overhead += contextOverhead
		}
	}

	return f
}

// bucketOverhead/contextOverhead are rough fixed per-record costs
// (slice header + lock + bookkeeping ints), reported for visibility in
// MemoryFootprint.Overhead rather than computed via unsafe.Sizeof on
// every call.
const (
	bucketOverhead  = 40
	contextOverhead = 48
)

// CompressionRatio is compressed size / raw size. Returns 0 for an
// empty container.
func (c *CVec[T]) CompressionRatio() float64 {
	if c.n == 0 {
		return 0
	}

	raw := c.n * c.bpp
	f := c.MemoryFootprint()
	compressed := f.CompressedBytes

	// An attached bucket with no compressed buffer (dirty, fresh, or
	// the partial last bucket) contributes its context's raw size.
	for _, b := range c.buckets {
		if b.ctxIdx != -1 {
			ctx := c.pool.arena[b.ctxIdx]

			if len(b.buffer) == 0 {
				compressed += ctx.size * c.bpp
			}
		}
	}

	return float64(compressed) / float64(raw)
}

// Front returns a Ref to the first element. Returns ErrOutOfRange if
// empty.
func (c *CVec[T]) Front() (Ref[T], error) {
	return c.At(0)
}

// Back returns a Ref to the last element. Returns ErrOutOfRange if
// empty.
func (c *CVec[T]) Back() (Ref[T], error) {
	return c.At(c.n - 1)
}

// At returns a Ref Wrapper for logical index i. The Ref itself
// never touches the pool; materialisation happens on Load/Store.
func (c *CVec[T]) At(i int) (Ref[T], error) {
	if i < 0 || i >= c.n {
		return Ref[T]{}, ErrOutOfRange("index %d out of range [0, %d)", i, c.n)
	}

	return Ref[T]{c: c, bucket: i / blockSize, slot: i % blockSize}, nil
}
