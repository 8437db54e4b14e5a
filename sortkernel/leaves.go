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

// insertionSort stably sorts data[lo:hi]. Used for ranges smaller than
// insertionSortThreshold.
func insertionSort[T any](data Seq[T], lo, hi int, less Less[T]) {
	for i := lo + 1; i < hi; i++ {
		v := data.Get(i)
		j := i - 1

		for j >= lo && less(v, data.Get(j)) {
			data.Set(j+1, data.Get(j))
			j--
		}

		data.Set(j+1, v)
	}
}

// sortingNetwork8 sorts exactly 8 elements starting at lo using a fixed
// Bose-Nelson compare-and-conditional-swap schedule. The
// schedule is the standard 19-comparator optimal network for n=8.
// Equal elements are ordered by their original position, so the leaf
// is stable.
var network8 = [19][2]int{
	{0, 1}, {2, 3}, {4, 5}, {6, 7},
	{0, 2}, {1, 3}, {4, 6}, {5, 7},
	{1, 2}, {5, 6}, {0, 4}, {3, 7},
	{1, 5}, {2, 6},
	{1, 4}, {3, 6},
	{2, 4}, {3, 5},
	{3, 4},
}

func sortingNetwork8[T any](data Seq[T], lo int, less Less[T]) {
	var v [sortingNetworkSize]T
	var pos [sortingNetworkSize]int

	for k := range v {
		v[k], pos[k] = data.Get(lo+k), k
	}

	for _, cs := range network8 {
		i, j := cs[0], cs[1]

		if less(v[j], v[i]) || (!less(v[i], v[j]) && pos[j] < pos[i]) {
			v[i], v[j] = v[j], v[i]
			pos[i], pos[j] = pos[j], pos[i]
		}
	}

	for k := range v {
		data.Set(lo+k, v[k])
	}
}

// sort128 sorts data[lo:hi) (hi-lo <= wavePatternCap) by splitting into
// 8-wide sorting-network leaves (falling back to insertion sort for the
// short remainder) and merging them back together with buf as scratch.
func sort128[T any](data Seq[T], lo, hi int, less Less[T], buf []T) {
	n := hi - lo

	if n < insertionSortThreshold {
		insertionSort(data, lo, hi, less)
		return
	}

	runs := make([]run, 0, n/sortingNetworkSize+1)
	i := lo

	for i+sortingNetworkSize <= hi {
		sortingNetwork8(data, i, less)
		runs = append(runs, run{i, i + sortingNetworkSize})
		i += sortingNetworkSize
	}

	if i < hi {
		insertionSort(data, i, hi, less)
		runs = append(runs, run{i, hi})
	}

	mergeAllRuns(data, runs, less, buf)
}
