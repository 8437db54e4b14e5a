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

package sortkernel

// unbalancedMergeFactor is the size ratio past which a buffered merge
// switches to binary-search skips over the larger side.
const unbalancedMergeFactor = 32

// mergeAdaptiveN merges the two adjacent sorted runs [lo,mid) and
// [mid,hi) in place, stably, using buf as scratch capacity.
// Equal prefixes and suffixes are pruned by binary search first, and a
// one-element run degenerates to a rotate. When one run fits entirely
// in buf it is moved aside and a buffered merge is used; otherwise the
// Dudzinsky-Dydek style recursive split picks the middle of the larger
// run, finds the matching boundary in the other run by binary search,
// rotates the two interior pieces together, and recurses on the two
// halves. With an empty buf this degrades to pure rotate-based
// in-place merging: O(n log^2 n) moves, still stable.
func mergeAdaptiveN[T any](data Seq[T], lo, mid, hi int, buf []T, less Less[T]) {
	if lo >= mid || mid >= hi {
		return
	}

	if !less(data.Get(mid), data.Get(mid-1)) {
		return // already in order
	}

	// Prune: left elements not greater than the right run's head are
	// already placed, as are right elements not less than the left
	// run's tail. Stable both ways (equal keys keep left-before-right).
	lo = upperBound(data, lo, mid, data.Get(mid), less)
	hi = lowerBound(data, mid, hi, data.Get(mid-1), less)

	n0 := mid - lo
	n1 := hi - mid

	if n0 == 1 || n1 == 1 {
		// After pruning, a one-element run crosses everything left on
		// the other side: the merge is a single rotation.
		rotate(data, lo, mid, hi)
		return
	}

	if n0 <= len(buf) {
		mergeBufferedLeft(data, lo, mid, hi, buf[:n0], less)
		return
	}

	if n1 <= len(buf) {
		mergeBufferedRight(data, lo, mid, hi, buf[:n1], less)
		return
	}

	var m0, m1 int

	if n0 >= n1 {
		// Pivot from the left run: only strictly smaller right elements
		// may cross it, so the matching boundary is a lower bound (an
		// upper bound would carry right-side equals past it, breaking
		// stability).
		m0 = lo + n0/2
		pivot := data.Get(m0)
		m1 = lowerBound(data, mid, hi, pivot, less)
	} else {
		m1 = mid + n1/2
		pivot := data.Get(m1)
		m0 = upperBound(data, lo, mid, pivot, less)
	}

	rotate(data, m0, mid, m1)
	newMid := m0 + (m1 - mid)
	mergeAdaptiveN(data, lo, m0, newMid, buf, less)
	mergeAdaptiveN(data, newMid, m1, hi, buf, less)
}

// mergeBufferedLeft copies the left run into buf, then merges buf and
// the right run forward into data starting at lo. When the right run
// dwarfs the left one, each buffered
// element's insertion point is found by binary search instead of a
// lane-by-lane comparison walk, skipping long monotone stretches of
// the larger side in O(log) comparisons.
func mergeBufferedLeft[T any](data Seq[T], lo, mid, hi int, buf []T, less Less[T]) {
	for i := range buf {
		buf[i] = data.Get(lo + i)
	}

	if hi-mid >= unbalancedMergeFactor*len(buf) {
		mergeUnbalancedLeft(data, lo, mid, hi, buf, less)
		return
	}

	bi, ri, out := 0, mid, lo

	for bi < len(buf) && ri < hi {
		if less(data.Get(ri), buf[bi]) {
			data.Set(out, data.Get(ri))
			ri++
		} else {
			data.Set(out, buf[bi])
			bi++
		}

		out++
	}

	for bi < len(buf) {
		data.Set(out, buf[bi])
		bi++
		out++
	}
	// any remaining right elements are already in place
}

// mergeUnbalancedLeft interleaves the buffered left run into a much
// larger right run: for each buffered element the run of smaller right
// elements is located with one lower-bound search and shifted down en
// bloc, so comparisons stay O(n0 log n1) rather than O(n1).
func mergeUnbalancedLeft[T any](data Seq[T], lo, mid, hi int, buf []T, less Less[T]) {
	ri, out := mid, lo

	for bi := 0; bi < len(buf); bi++ {
		stop := lowerBound(data, ri, hi, buf[bi], less)

		for ri < stop {
			data.Set(out, data.Get(ri))
			ri++
			out++
		}

		data.Set(out, buf[bi])
		out++
	}
	// any remaining right elements are already in place
}

// mergeBufferedRight copies the right run into buf, then merges the
// left run and buf backward into data ending at hi (the mirror-image
// backward merge), with the same binary-search skip as
// mergeBufferedLeft when the left run dwarfs the right one.
func mergeBufferedRight[T any](data Seq[T], lo, mid, hi int, buf []T, less Less[T]) {
	for i := range buf {
		buf[i] = data.Get(mid + i)
	}

	if mid-lo >= unbalancedMergeFactor*len(buf) {
		mergeUnbalancedRight(data, lo, mid, hi, buf, less)
		return
	}

	li, bi, out := mid-1, len(buf)-1, hi-1

	for li >= lo && bi >= 0 {
		if less(buf[bi], data.Get(li)) {
			data.Set(out, data.Get(li))
			li--
		} else {
			data.Set(out, buf[bi])
			bi--
		}

		out--
	}

	for bi >= 0 {
		data.Set(out, buf[bi])
		bi--
		out--
	}
}

// mergeUnbalancedRight is mergeUnbalancedLeft's backward mirror: each
// buffered right element's insertion point in the much larger left run
// is found with one upper-bound search, and the run of larger left
// elements is shifted up en bloc.
func mergeUnbalancedRight[T any](data Seq[T], lo, mid, hi int, buf []T, less Less[T]) {
	li, out := mid-1, hi-1

	for bi := len(buf) - 1; bi >= 0; bi-- {
		stop := upperBound(data, lo, li+1, buf[bi], less)

		for li >= stop {
			data.Set(out, data.Get(li))
			li--
			out--
		}

		data.Set(out, buf[bi])
		out--
	}
	// any remaining left elements are already in place
}

// rotate swaps the adjacent blocks [a,b) and [b,c) via three reversals.
func rotate[T any](data Seq[T], a, b, c int) {
	reverseRange(data, a, b)
	reverseRange(data, b, c)
	reverseRange(data, a, c)
}

func reverseRange[T any](data Seq[T], lo, hi int) {
	for lo < hi {
		hi--
		l, h := data.Get(lo), data.Get(hi)
		data.Set(lo, h)
		data.Set(hi, l)
		lo++
	}
}

// lowerBound returns the first index in [lo,hi) whose element is not
// less than pivot under less, or hi if none.
func lowerBound[T any](data Seq[T], lo, hi int, pivot T, less Less[T]) int {
	for lo < hi {
		m := lo + (hi-lo)/2

		if less(data.Get(m), pivot) {
			lo = m + 1
		} else {
			hi = m
		}
	}

	return lo
}

// upperBound returns the first index in [lo,hi) whose element is
// strictly greater than pivot under less, or hi if none.
func upperBound[T any](data Seq[T], lo, hi int, pivot T, less Less[T]) int {
	for lo < hi {
		m := lo + (hi-lo)/2

		if less(pivot, data.Get(m)) {
			hi = m
		} else {
			lo = m + 1
		}
	}

	return lo
}
