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

const waveMaxSegments = 4

// waveRunLength returns the length of the single maximal
// strictly-ascending or strictly-descending run starting at lo (at
// least 1; 0 only if lo >= hi). It performs no mutation; callers reverse
// descending segments separately (reverseIfDescending).
func waveRunLength[T any](data Seq[T], lo, hi int, less Less[T]) int {
	if lo >= hi {
		return 0
	}

	if hi-lo == 1 {
		return 1
	}

	pos := lo + 1
	descending := less(data.Get(lo+1), data.Get(lo))

	if descending {
		for pos < hi-1 && less(data.Get(pos+1), data.Get(pos)) {
			pos++
		}
	} else {
		for pos < hi-1 && less(data.Get(pos), data.Get(pos+1)) {
			pos++
		}
	}

	return pos + 1 - lo
}

// reverseIfDescending stably reverses data[lo:lo+n) if it is strictly
// descending. A strictly descending run has no adjacent equal elements,
// so a plain reversal cannot reorder equal keys relative to each other.
func reverseIfDescending[T any](data Seq[T], lo, n int, less Less[T]) {
	if n < 2 {
		return
	}

	if !less(data.Get(lo+1), data.Get(lo)) {
		return
	}

	reverseRange(data, lo, lo+n)
}

// tryWaveSort attempts to sort data[lo:hi) by identifying at most
// waveMaxSegments maximal ascending/descending runs and merging them
// with mergeAllRuns. It reports failure when hi-lo is below minLen, or
// when those runs do not cover the whole range, without mutating
// anything beyond the segments it already reversed-in-place (those
// reversals are self-contained no-ops on the overall sortedness since
// each is independently sorted on return).
func tryWaveSort[T any](data Seq[T], lo, hi int, less Less[T], buf []T, minLen int) bool {
	n := hi - lo

	if n < minLen || n < 2 {
		return false
	}

	var runs []run
	pos := lo

	for len(runs) < waveMaxSegments && pos < hi {
		l := waveRunLength(data, pos, hi, less)
		reverseIfDescending(data, pos, l, less)
		runs = append(runs, run{pos, pos + l})
		pos += l
	}

	if pos < hi {
		return false
	}

	mergeAllRuns(data, runs, less, buf)
	return true
}
