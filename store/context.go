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
	"sync"

	"github.com/cvecio/cvec/codec"
)

// Bucket is the container's record for one 256-element block. It
// holds either a compressed buffer, an attached Context, or both (a
// clean cache after a read). Lock guards the bucket's own data -
// buffer, ctxIdx and the pointed-to Context's slots - for external
// callers that partition work by bucket index; CVec itself does
// not take it during single-threaded mutation.
type Bucket struct {
	buffer []byte
	csize  int
	ctxIdx int // index into pool.arena, or -1 if unattached
	lock   sync.RWMutex
}

// Lock acquires the bucket's write lock for an external caller.
func (b *Bucket) Lock() { b.lock.Lock() }

// Unlock releases the bucket's write lock.
func (b *Bucket) Unlock() { b.lock.Unlock() }

// RLock acquires the bucket's read lock for an external caller.
func (b *Bucket) RLock() { b.lock.RLock() }

// RUnlock releases the bucket's read lock.
func (b *Bucket) RUnlock() { b.lock.RUnlock() }

// TryLock attempts to acquire the write lock without blocking,
// reporting whether it succeeded. Used by the pool's eviction scan to
// test "is this bucket's lock acquirable" without stalling a
// single-threaded container on an external holder.
func (b *Bucket) TryLock() bool { return b.lock.TryLock() }

// Context is a B*bpp scratch buffer holding one bucket's live,
// decompressed elements. Its left/right fields thread it through
// the context pool's intrusive doubly linked list by arena index,
// an arena of contexts plus a doubly linked list of indices, so no
// raw pointer aliases the bucket back-link.
type Context struct {
	storage     []byte
	size        int // valid elements; B unless this is the partial last bucket
	dirty       bool
	bucketIndex int // owning bucket, or -1 if unattached (e.g. the one free context shrink keeps)
	left, right int // arena indices, -1 at the list ends
}

func newContext(bpp int) *Context {
	return &Context{storage: make([]byte, blockSize*bpp), size: 0, bucketIndex: -1, left: -1, right: -1}
}

// blockSize is B, the fixed number of elements per block.
const blockSize = codec.B
