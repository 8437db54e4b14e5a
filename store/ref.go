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

// Ref is the lazy accessor handle returned by CVec.At/Front/Back.
// It is not a reference: it captures
// (container, bucket, slot) and materialises the live element only on
// Load/Store. Any other Ref operation elsewhere in the container may
// invalidate a value previously returned by Load - it is a snapshot,
// not a live view - so generic algorithms written against raw
// references cannot be used on CVec without going through these
// primitives.
type Ref[T any] struct {
	c      *CVec[T]
	bucket int
	slot   int
}

// Load materialises the element: attach-for-read then decode.
func (r Ref[T]) Load() (T, error) {
	var zero T
	ctx, err := r.c.pool.attach(r.c.buckets, r.bucket, false)

	if err != nil {
		return zero, err
	}

	off := r.slot * r.c.bpp
	return r.c.ec.Decode(ctx.storage[off : off+r.c.bpp]), nil
}

// Store attach-for-writes the owning bucket, encodes v into the slot,
// and marks the context dirty.
func (r Ref[T]) Store(v T) error {
	ctx, err := r.c.pool.attach(r.c.buckets, r.bucket, true)

	if err != nil {
		return err
	}

	off := r.slot * r.c.bpp
	r.c.ec.Encode(v, ctx.storage[off:off+r.c.bpp])
	r.c.pool.recordWrite()
	return nil
}

// Swap exchanges the values at a and b. Both owning buckets are
// attached simultaneously, each passed as the other's exclude hint, so
// the pool cannot evict one while materialising the other.
func Swap[T any](a, b Ref[T]) error {
	if a.c != b.c {
		return ErrInvalidParam("swap: refs belong to different containers")
	}

	va, err := loadExcluding(a, b.bucket)

	if err != nil {
		return err
	}

	vb, err := loadExcluding(b, a.bucket)

	if err != nil {
		return err
	}

	if err := storeExcluding(a, vb, b.bucket); err != nil {
		return err
	}

	return storeExcluding(b, va, a.bucket)
}

// Compare applies less to the values at a and b, attaching both
// buckets for the duration of the call so a comparator that
// dereferences pointers into them never sees a dangling reference.
func Compare[T any](a, b Ref[T], less func(x, y T) bool) (bool, error) {
	if a.c != b.c {
		return false, ErrInvalidParam("compare: refs belong to different containers")
	}

	va, err := loadExcluding(a, b.bucket)

	if err != nil {
		return false, err
	}

	vb, err := loadExcluding(b, a.bucket)

	if err != nil {
		return false, err
	}

	return less(va, vb), nil
}

func loadExcluding[T any](r Ref[T], exclude int) (T, error) {
	var zero T
	ctx, err := r.c.pool.attach(r.c.buckets, r.bucket, false, exclude)

	if err != nil {
		return zero, err
	}

	off := r.slot * r.c.bpp
	return r.c.ec.Decode(ctx.storage[off : off+r.c.bpp]), nil
}

func storeExcluding[T any](r Ref[T], v T, exclude int) error {
	ctx, err := r.c.pool.attach(r.c.buckets, r.bucket, true, exclude)

	if err != nil {
		return err
	}

	off := r.slot * r.c.bpp
	r.c.ec.Encode(v, ctx.storage[off:off+r.c.bpp])
	r.c.pool.recordWrite()
	return nil
}

// Get and Set give CVec the sortkernel.Seq[T] shape directly: the
// sort kernel only ever needs value Get/Set, never a live reference,
// so it composes safely with the Ref Wrapper's invalidation rule
// above. Panics on error: comparator and constructor failures
// propagate anyway, and a correctly constructed CVec with
// bpp matching ec.Size() cannot fail attach short of allocation
// failure, which Go reports by panicking from make() itself.
func (c *CVec[T]) Get(i int) T {
	r, err := c.At(i)

	if err != nil {
		panic(err)
	}

	v, err := r.Load()

	if err != nil {
		panic(err)
	}

	return v
}

// Set is the Seq[T] write counterpart to Get.
func (c *CVec[T]) Set(i int, v T) {
	r, err := c.At(i)

	if err != nil {
		panic(err)
	}

	if err := r.Store(v); err != nil {
		panic(err)
	}
}
