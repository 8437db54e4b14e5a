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

import "github.com/cvecio/cvec/sortkernel"

// Sort stably sorts the container in place according to less, using
// hint to size the kernel's scratch buffer. CVec
// satisfies sortkernel.Seq[T] directly through Get/Set, so the kernel
// touches elements only through the Ref Wrapper's invalidation-safe
// primitives, never a raw reference.
func (c *CVec[T]) Sort(less func(a, b T) bool, hint sortkernel.BufferHint) {
	sortkernel.NetSort[T](c, sortkernel.Less[T](less), hint)
}
