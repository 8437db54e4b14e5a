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

import "fmt"

// pool is the context pool: an intrusive doubly linked list of
// Contexts threaded by arena index, plus the attach/steal/shrink
// policy and the dispersion heuristic. arena entries are never
// compacted; a freed slot is recorded in free and reused by the next
// allocation, so bucket.ctxIdx values stay valid across the slot's
// lifetime.
type pool struct {
	arena []*Context
	free  []int
	head  int // most recently used, -1 if empty
	tail  int // least recently used (eviction starts here)
	live  int // number of non-nil, in-list arena slots

	bpp          int
	codec        BlockCodec
	accel        int
	ceiling      func(bucketCount int) int
	dispersion   int16
	dispersionUp int
	dispersionDn int
	listeners    []Listener

	// lastSize answers "how many valid elements does the current last
	// bucket hold", wired by CVec at construction time so attach can
	// resolve lastBucketSizeHint without the pool needing N.
	lastSize func(bucketIdx int) int
}

func newPool(bpp int, c BlockCodec, accel int, ceiling func(int) int) *pool {
	return &pool{
		head: -1, tail: -1, bpp: bpp, codec: c, accel: accel, ceiling: ceiling,
		dispersionUp: defaultDispersionUp, dispersionDn: defaultDispersionDn,
	}
}

func (p *pool) cMax(bucketCount int) int {
	n := p.ceiling(bucketCount)

	if n < 1 {
		n = 1
	}

	return n
}

// pushFront links arena[idx] at the head of the list.
func (p *pool) pushFront(idx int) {
	ctx := p.arena[idx]
	ctx.left = -1
	ctx.right = p.head

	if p.head != -1 {
		p.arena[p.head].left = idx
	}

	p.head = idx

	if p.tail == -1 {
		p.tail = idx
	}
}

// unlink removes arena[idx] from the list without freeing its slot.
func (p *pool) unlink(idx int) {
	ctx := p.arena[idx]

	if ctx.left != -1 {
		p.arena[ctx.left].right = ctx.right
	} else {
		p.head = ctx.right
	}

	if ctx.right != -1 {
		p.arena[ctx.right].left = ctx.left
	} else {
		p.tail = ctx.left
	}

	ctx.left, ctx.right = -1, -1
}

// moveToFront re-links an already-present context at the head, the
// "evicted context is moved to the front before being reused" step of
// the steal protocol.
func (p *pool) moveToFront(idx int) {
	if p.head == idx {
		return
	}

	p.unlink(idx)
	p.pushFront(idx)
}

// alloc returns a fresh arena index holding a newly allocated Context,
// reusing a freed slot when available.
func (p *pool) alloc() int {
	ctx := newContext(p.bpp)

	if n := len(p.free); n > 0 {
		idx := p.free[n-1]
		p.free = p.free[:n-1]
		p.arena[idx] = ctx
		return idx
	}

	p.arena = append(p.arena, ctx)
	return len(p.arena) - 1
}

// destroy unlinks and frees arena[idx].
func (p *pool) destroy(idx int) {
	p.unlink(idx)
	p.arena[idx] = nil
	p.free = append(p.free, idx)
	p.live--
}

// recordDecompress applies the dispersion heuristic's decompression
// term (default +512), saturating.
func (p *pool) recordDecompress() {
	p.dispersion = saturatingAdd16(p.dispersion, p.dispersionUp)
}

// recordWrite applies the dispersion heuristic's write term (default
// -4), saturating.
func (p *pool) recordWrite() {
	p.dispersion = saturatingAdd16(p.dispersion, -p.dispersionDn)
}

func saturatingAdd16(v int16, delta int) int16 {
	sum := int32(v) + int32(delta)

	if sum > 32767 {
		return 32767
	}

	if sum < -32768 {
		return -32768
	}

	return int16(sum)
}

// compress encodes ctx's storage back into bucket.buffer and marks it
// clean. Used whenever a dirty context must give up its compressed
// form: eviction, shrink, serialize.
func (p *pool) compress(bucket *Bucket, ctx *Context) error {
	if !ctx.dirty && bucket.buffer != nil {
		return nil
	}

	n := ctx.size

	if n == blockSize {
		// The destination is sized to the codec's worst case, so
		// ERR_DST_OVERFLOW cannot occur here: an incompressible block
		// degrades to ALL_RAW rows inside that bound, which is the raw
		// storage the overflow contract asks for. Any error is real.
		dst := make([]byte, p.codec.MaxEncodedLen(p.bpp))
		sz, err := p.codec.Encode(ctx.storage, p.bpp, p.accel, dst)

		if err != nil {
			return err
		}

		bucket.buffer = dst[:sz]
		bucket.csize = sz
		ctx.dirty = false
		p.notify(Event{Type: EvtBucketCompress, Bucket: ctx.bucketIndex, Detail: fmt.Sprintf("%d bytes", bucket.csize)})
		return nil
	}

	// Partial last bucket: no compressed form ever exists for it.
	ctx.dirty = false
	bucket.buffer = nil
	bucket.csize = 0
	return nil
}

// decompress fills ctx.storage from bucket.buffer.
func (p *pool) decompress(bucket *Bucket, ctx *Context, size int) error {
	ctx.storage = ctx.storage[:cap(ctx.storage)]

	if bucket.buffer == nil {
		// Freshly created bucket (e.g. a new last bucket): zero-valued.
		for i := range ctx.storage {
			ctx.storage[i] = 0
		}

		ctx.size = size
		ctx.dirty = false
		return nil
	}

	if size == blockSize {
		n, err := p.codec.Decode(bucket.buffer[:bucket.csize], p.bpp, ctx.storage)

		if err != nil {
			return ErrCorrupted("decode bucket: %v", err)
		}

		_ = n
	} else {
		copy(ctx.storage, bucket.buffer)
	}

	ctx.size = size
	ctx.dirty = false
	p.notify(Event{Type: EvtBucketDecompress, Bucket: ctx.bucketIndex})
	return nil
}

// evictable reports whether arena[idx] may be stolen: size in {0, B}
// (not a partial-last-bucket context) and its owning bucket's lock is
// acquirable.
func (p *pool) evictable(idx int, buckets []*Bucket, excluded map[int]bool) bool {
	ctx := p.arena[idx]

	if ctx == nil || ctx.bucketIndex < 0 {
		return false
	}

	if excluded[ctx.bucketIndex] {
		return false
	}

	if ctx.size != 0 && ctx.size != blockSize {
		return false
	}

	b := buckets[ctx.bucketIndex]

	if !b.TryLock() {
		return false
	}

	b.Unlock()
	return true
}

// scanFree returns the first unattached live context, or -1. Shrink
// leaves at most one of these behind for the next attach to reuse.
func (p *pool) scanFree() int {
	for idx := p.head; idx != -1; idx = p.arena[idx].right {
		if p.arena[idx].bucketIndex == -1 {
			return idx
		}
	}

	return -1
}

// scanEvictable walks the list tail-to-head looking for the first
// evictable context.
func (p *pool) scanEvictable(buckets []*Bucket, excluded map[int]bool) int {
	for idx := p.tail; idx != -1; idx = p.arena[idx].left {
		if p.evictable(idx, buckets, excluded) {
			return idx
		}
	}

	return -1
}

// attach implements attach-for-read/attach-for-write's shared core.
// forWrite marks the result dirty and drops the bucket's
// stale buffer. exclude names bucket indices that must never be
// evicted to satisfy this call (the Ref Wrapper's pairwise primitives).
func (p *pool) attach(buckets []*Bucket, bucketIdx int, forWrite bool, exclude ...int) (*Context, error) {
	b := buckets[bucketIdx]

	if b.ctxIdx != -1 {
		ctx := p.arena[b.ctxIdx]
		p.moveToFront(b.ctxIdx)

		if forWrite {
			ctx.dirty = true
			b.buffer = nil
		}

		return ctx, nil
	}

	size := blockSize

	if bucketIdx == len(buckets)-1 {
		size = lastBucketSizeHint
	}

	excluded := map[int]bool{bucketIdx: true}

	for _, e := range exclude {
		excluded[e] = true
	}

	var idx int
	stole := false

	if free := p.scanFree(); free != -1 {
		idx = free
		p.moveToFront(idx)
	} else if p.live < p.cMax(len(buckets)) || p.scanEvictable(buckets, excluded) == -1 {
		idx = p.alloc()
		p.live++
		p.pushFront(idx)
	} else {
		victim := p.scanEvictable(buckets, excluded)
		vctx := p.arena[victim]
		vb := buckets[vctx.bucketIndex]

		if err := p.compress(vb, vctx); err != nil {
			return nil, err
		}

		vb.ctxIdx = -1
		p.notify(Event{Type: EvtContextSteal, Bucket: bucketIdx, Detail: fmt.Sprintf("stolen from bucket %d", vctx.bucketIndex)})
		idx = victim
		stole = true
		p.moveToFront(idx)
	}

	ctx := p.arena[idx]
	ctx.bucketIndex = bucketIdx

	if size == lastBucketSizeHint {
		size = p.lastSizeFor(bucketIdx)
	}

	if err := p.decompress(b, ctx, size); err != nil {
		return nil, err
	}

	b.ctxIdx = idx

	if forWrite {
		ctx.dirty = true
		b.buffer = nil
	}

	p.recordDecompress()
	p.notify(Event{Type: EvtContextAttach, Bucket: bucketIdx})

	if stole && p.dispersion < 0 {
		p.shrinkOneIfPossible(buckets, excluded)
	}

	return ctx, nil
}

// lastBucketSizeHint is a sentinel telling attach to ask the owning
// CVec how many elements the last bucket actually holds; attach itself
// has no notion of N.
const lastBucketSizeHint = -1

// lastSizeFor asks the lastSize callback, set by CVec at construction
// time, so pool.attach can resolve lastBucketSizeHint without an import
// cycle.
func (p *pool) lastSizeFor(bucketIdx int) int {
	if p.lastSize == nil {
		return blockSize
	}

	return p.lastSize(bucketIdx)
}

// shrinkOneIfPossible implements the negative-dispersion branch of the
// access heuristic: on top of the steal that already happened, evict
// one more context.
func (p *pool) shrinkOneIfPossible(buckets []*Bucket, excluded map[int]bool) {
	victim := p.scanEvictable(buckets, excluded)

	if victim == -1 {
		return
	}

	vctx := p.arena[victim]
	vb := buckets[vctx.bucketIndex]

	if err := p.compress(vb, vctx); err != nil {
		return
	}

	vb.ctxIdx = -1
	p.destroy(victim)
	p.notify(Event{Type: EvtContextShrink, Bucket: vctx.bucketIndex})
}

// shrink compresses every dirty context back to its bucket and
// destroys every context except at most one kept free, skipping any
// context attached to a partial last bucket.
func (p *pool) shrink(buckets []*Bucket, lastBucketIdx int, lastIsPartial bool) error {
	idx := p.head
	kept := false

	for idx != -1 {
		next := p.arena[idx].right
		ctx := p.arena[idx]

		if ctx.bucketIndex == -1 {
			// Already free (kept by an earlier shrink): it counts as
			// the kept one, or is destroyed if one is already kept.
			if kept {
				p.destroy(idx)
			}

			kept = true
			idx = next
			continue
		}

		b := buckets[ctx.bucketIndex]

		if lastIsPartial && ctx.bucketIndex == lastBucketIdx {
			idx = next
			continue
		}

		if err := p.compress(b, ctx); err != nil {
			return err
		}

		b.ctxIdx = -1

		if !kept {
			// Fully detach the one context kept free for the next
			// attach; a stale bucket back-link here would let a later
			// steal clobber that bucket's live state.
			ctx.bucketIndex = -1
			ctx.size = 0
			kept = true
		} else {
			p.destroy(idx)
		}

		idx = next
	}

	p.notify(Event{Type: EvtContextShrink, Bucket: -1, Detail: "shrink_to_fit"})
	return nil
}
