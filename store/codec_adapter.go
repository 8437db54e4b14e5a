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

import "github.com/cvecio/cvec/codec"

// BlockCodec is the contract CVec needs from a block compressor: the
// same Forward/Inverse shape as cvec.BlockTransform, specialised to the
// fixed B-element block and parameterised by bpp/acceleration per call
// instead of constructed once (so one codec value serves every bpp a
// CVec[T] instantiation might need).
type BlockCodec interface {
	MaxEncodedLen(bpp int) int
	Encode(block []byte, bpp, accel int, dst []byte) (int, error)
	Decode(src []byte, bpp int, dst []byte) (int, error)
}

// DefaultCodec is the row/sub-row block codec of package codec.
var DefaultCodec BlockCodec = defaultBlockCodec{}

// NullVectorCodec is the O(1) memcpy codec, a drop-in for
// DefaultCodec when the element stream is known to be incompressible.
var NullVectorCodec BlockCodec = nullBlockCodec{}

type defaultBlockCodec struct{}

func (defaultBlockCodec) MaxEncodedLen(bpp int) int { return codec.MaxEncodedLen(bpp) }

func (defaultBlockCodec) Encode(block []byte, bpp, accel int, dst []byte) (int, error) {
	return codec.Encode(block, bpp, accel, dst)
}

func (defaultBlockCodec) Decode(src []byte, bpp int, dst []byte) (int, error) {
	return codec.Decode(src, bpp, dst)
}

type nullBlockCodec struct{}

func (nullBlockCodec) MaxEncodedLen(bpp int) int { return codec.B * bpp }

func (nullBlockCodec) Encode(block []byte, bpp, _ int, dst []byte) (int, error) {
	var nc codec.NullCodec
	return nc.Encode(block, bpp, dst)
}

func (nullBlockCodec) Decode(src []byte, bpp int, dst []byte) (int, error) {
	var nc codec.NullCodec
	return nc.Decode(src, bpp, dst)
}
