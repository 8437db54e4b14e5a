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

// Package simd reorders a row-major 256xBPP byte matrix into BPP
// contiguous rows of 256 bytes (the "transposed view") and back,
// expressed as a scalar double loop. Go has no portable way to emit
// fixed-schedule 16x16 vector shuffles without cgo or per-arch
// assembly, so the contract (total, never fails, exact inverse) is
// kept and the vector-width detail is not.
package simd

// BlockSize is the number of elements per block.
const BlockSize = 256

// TransposeBlockToRows reorders src, a row-major BlockSize x bpp byte
// matrix (BlockSize elements of bpp bytes each), into bpp contiguous rows
// of BlockSize bytes: rows[k][i] = src[i*bpp+k]. dst must have length
// bpp*BlockSize; the k-th row occupies dst[k*BlockSize : (k+1)*BlockSize].
func TransposeBlockToRows(src []byte, bpp int, dst []byte) {
	for k := 0; k < bpp; k++ {
		row := dst[k*BlockSize : (k+1)*BlockSize]

		for i := 0; i < BlockSize; i++ {
			row[i] = src[i*bpp+k]
		}
	}
}

// InverseTransposeRowsToBlock is the exact inverse of
// TransposeBlockToRows: dst[i*bpp+k] = src[k*BlockSize+i].
func InverseTransposeRowsToBlock(src []byte, bpp int, dst []byte) {
	for k := 0; k < bpp; k++ {
		row := src[k*BlockSize : (k+1)*BlockSize]

		for i := 0; i < BlockSize; i++ {
			dst[i*bpp+k] = row[i]
		}
	}
}
