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

// Package wire implements the on-disk format a CVec is serialized to:
// a varint element count, then one
// varint-length-prefixed compressed block per bucket, with an optional
// trailing XXHash64 checksum. Framing stays over a plain
// io.Writer/io.Reader rather than a bitstream, since the payloads here
// are already byte-aligned blocks handed over by codec.Encode.
package wire

import (
	"bufio"
	"encoding/binary"
	"errors"
	"io"

	"github.com/cvecio/cvec/internal/xxhash"
)

// ErrBadWire is returned by Reader methods when the stream is
// structurally malformed (a length prefix would overrun, or the
// trailing checksum does not match).
var ErrBadWire = errors.New("wire: malformed stream")

const checksumSeed = 0x43564543 // "CVEC" as little-endian ascii, arbitrary seed

// Writer frames a serialized CVec onto an underlying io.Writer, tracking
// a running XXHash64 of everything written so Close can append a
// checksum trailer when requested.
type Writer struct {
	w        *bufio.Writer
	hasher   []byte // accumulated bytes, hashed lazily on Close
	checksum bool
	scratch  [binary.MaxVarintLen64]byte
}

// NewWriter wraps w. When checksum is true, Close appends a trailing
// 8-byte little-endian XXHash64 of everything previously written.
func NewWriter(w io.Writer, checksum bool) *Writer {
	return &Writer{w: bufio.NewWriter(w), checksum: checksum}
}

// PutUvarint writes v as a little-endian base-128 varint with
// high-bit continuation, the same encoding as encoding/binary.Uvarint.
func (wr *Writer) PutUvarint(v uint64) error {
	n := binary.PutUvarint(wr.scratch[:], v)
	return wr.write(wr.scratch[:n])
}

// PutBytes writes a varint length prefix followed by data verbatim.
func (wr *Writer) PutBytes(data []byte) error {
	if err := wr.PutUvarint(uint64(len(data))); err != nil {
		return err
	}

	return wr.write(data)
}

func (wr *Writer) write(p []byte) error {
	if wr.checksum {
		wr.hasher = append(wr.hasher, p...)
	}

	_, err := wr.w.Write(p)
	return err
}

// Close flushes the underlying buffer and, if checksumming was
// requested, appends the trailing XXHash64 of the stream.
func (wr *Writer) Close() error {
	if wr.checksum {
		var trailer [8]byte
		binary.LittleEndian.PutUint64(trailer[:], xxhash.Sum64(checksumSeed, wr.hasher))

		if _, err := wr.w.Write(trailer[:]); err != nil {
			return err
		}
	}

	return wr.w.Flush()
}

// Reader is the counterpart to Writer: it reads varints and
// length-prefixed byte blobs, tracking bytes read so a trailing
// checksum can be verified by VerifyChecksum.
type Reader struct {
	r        *bufio.Reader
	hasher   []byte
	checksum bool
}

// NewReader wraps r. When checksum is true, the caller must call
// VerifyChecksum after reading the structured payload.
func NewReader(r io.Reader, checksum bool) *Reader {
	return &Reader{r: bufio.NewReader(r), checksum: checksum}
}

// Uvarint reads a varint written by PutUvarint.
func (rd *Reader) Uvarint() (uint64, error) {
	v, err := binary.ReadUvarint(rd.byteReader())

	return v, err
}

// byteReader adapts Reader to io.ByteReader while feeding every read
// byte into the running checksum.
type trackingByteReader struct{ rd *Reader }

func (t trackingByteReader) ReadByte() (byte, error) {
	b, err := t.rd.r.ReadByte()

	if err == nil && t.rd.checksum {
		t.rd.hasher = append(t.rd.hasher, b)
	}

	return b, err
}

func (rd *Reader) byteReader() io.ByteReader { return trackingByteReader{rd} }

// Bytes reads a varint length prefix then that many bytes.
func (rd *Reader) Bytes() ([]byte, error) {
	n, err := rd.Uvarint()

	if err != nil {
		return nil, err
	}

	buf := make([]byte, n)

	if _, err := io.ReadFull(rd.r, buf); err != nil {
		return nil, ErrBadWire
	}

	if rd.checksum {
		rd.hasher = append(rd.hasher, buf...)
	}

	return buf, nil
}

// ReadFull reads exactly len(buf) unframed bytes. The store's own
// format does not use it: every bucket payload, including a raw partial
// last bucket, is length-prefixed and read with Bytes.
func (rd *Reader) ReadFull(buf []byte) error {
	if _, err := io.ReadFull(rd.r, buf); err != nil {
		return ErrBadWire
	}

	if rd.checksum {
		rd.hasher = append(rd.hasher, buf...)
	}

	return nil
}

// VerifyChecksum reads the trailing 8-byte XXHash64 and compares it
// against the hash of everything read so far.
func (rd *Reader) VerifyChecksum() error {
	if !rd.checksum {
		return nil
	}

	var trailer [8]byte

	if _, err := io.ReadFull(rd.r, trailer[:]); err != nil {
		return ErrBadWire
	}

	want := binary.LittleEndian.Uint64(trailer[:])
	got := xxhash.Sum64(checksumSeed, rd.hasher)

	if want != got {
		return ErrBadWire
	}

	return nil
}
