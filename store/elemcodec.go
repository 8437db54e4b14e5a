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

import "encoding/binary"

// ElementCodec gives CVec[T] a fixed-size byte view of T: the element
// size is fixed and known when the container is constructed. Go has no
// generic reinterpret-cast, so a CVec[T] instantiation names its
// element's byte layout explicitly through one of these values instead
// of relying on the object representation.
type ElementCodec[T any] interface {
	// Size is BPP, the fixed number of bytes one element occupies.
	Size() int
	// Encode writes v into dst, which has length exactly Size().
	Encode(v T, dst []byte)
	// Decode reads one element from src, which has length exactly Size().
	Decode(src []byte) T
}

// Uint32Codec is an ElementCodec for uint32, little-endian, BPP=4.
type Uint32Codec struct{}

func (Uint32Codec) Size() int                    { return 4 }
func (Uint32Codec) Encode(v uint32, dst []byte)   { binary.LittleEndian.PutUint32(dst, v) }
func (Uint32Codec) Decode(src []byte) uint32      { return binary.LittleEndian.Uint32(src) }

// Uint64Codec is an ElementCodec for uint64, little-endian, BPP=8.
type Uint64Codec struct{}

func (Uint64Codec) Size() int                  { return 8 }
func (Uint64Codec) Encode(v uint64, dst []byte) { binary.LittleEndian.PutUint64(dst, v) }
func (Uint64Codec) Decode(src []byte) uint64    { return binary.LittleEndian.Uint64(src) }

// Int32Codec is an ElementCodec for int32, little-endian two's
// complement, BPP=4.
type Int32Codec struct{}

func (Int32Codec) Size() int { return 4 }
func (Int32Codec) Encode(v int32, dst []byte) {
	binary.LittleEndian.PutUint32(dst, uint32(v))
}
func (Int32Codec) Decode(src []byte) int32 {
	return int32(binary.LittleEndian.Uint32(src))
}

// Int64Codec is an ElementCodec for int64, little-endian two's
// complement, BPP=8.
type Int64Codec struct{}

func (Int64Codec) Size() int { return 8 }
func (Int64Codec) Encode(v int64, dst []byte) {
	binary.LittleEndian.PutUint64(dst, uint64(v))
}
func (Int64Codec) Decode(src []byte) int64 {
	return int64(binary.LittleEndian.Uint64(src))
}

// NewByteNCodec returns an ElementCodec copying n-byte values verbatim,
// the general case for fixed-width POD-like element types up to ~256
// bytes.
func NewByteNCodec(n int) ElementCodec[[]byte] { return byteSliceCodec{n} }

type byteSliceCodec struct{ n int }

func (c byteSliceCodec) Size() int { return c.n }
func (c byteSliceCodec) Encode(v []byte, dst []byte) {
	copy(dst, v)
}
func (c byteSliceCodec) Decode(src []byte) []byte {
	out := make([]byte, c.n)
	copy(out, src)
	return out
}
