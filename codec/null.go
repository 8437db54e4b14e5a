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

package codec

// NullCodec is a drop-in alternative to Encode/Decode that simply copies
// the block: csize is always B*bpp and restore is a memcpy. It exercises
// the same container pipeline as the default codec with O(1) cost,
// useful when the caller knows the element stream is incompressible.
type NullCodec struct{}

// Encode copies block into dst verbatim. Returns ErrDstOverflow if dst is
// too small.
func (NullCodec) Encode(block []byte, bpp int, dst []byte) (int, error) {
	if len(dst) < len(block) {
		return 0, ErrDstOverflow
	}

	return copy(dst, block), nil
}

// Decode copies src into dst verbatim.
func (NullCodec) Decode(src []byte, bpp int, dst []byte) (int, error) {
	if len(dst) < len(src) {
		return 0, ErrCorrupted
	}

	return copy(dst, src), nil
}
