package sortkernel

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func requireSorted(t *testing.T, data intSeq) {
	t.Helper()

	for i := 1; i < len(data); i++ {
		require.LessOrEqual(t, data[i-1], data[i], "index %d", i)
	}
}

func TestMergeAdaptiveStabilityAcrossSplit(t *testing.T) {
	// Left-pivot splits must not carry right-side equals past the
	// pivot. Exercised with an empty buffer so the recursive rotate
	// path runs all the way down.
	data := kvSeq{
		{1, 0}, {3, 1}, {3, 2}, {4, 3}, // left run
		{2, 4}, {3, 5}, {3, 6}, {5, 7}, // right run
	}

	less := func(a, b kv) bool { return a.key < b.key }
	mergeAdaptiveN[kv](&data, 0, 4, 8, nil, less)

	want := kvSeq{
		{1, 0}, {2, 4}, {3, 1}, {3, 2}, {3, 5}, {3, 6}, {4, 3}, {5, 7},
	}
	require.Equal(t, want, data)
}

func TestMergeAdaptiveBufferTiers(t *testing.T) {
	rng := rand.New(rand.NewSource(11))

	for _, bufLen := range []int{0, 1, 4, 64, 512} {
		n := 1024
		data := make(intSeq, n)

		for i := range data {
			data[i] = rng.Intn(100)
		}

		mid := 400
		sort.Ints(data[:mid])
		sort.Ints(data[mid:])

		want := append(intSeq{}, data...)
		sort.Ints(want)

		buf := make([]int, bufLen)
		mergeAdaptiveN[int](&data, 0, mid, n, buf, lessInt)
		require.Equal(t, []int(want), []int(data), "bufLen=%d", bufLen)
	}
}

func TestMergeUnbalancedRuns(t *testing.T) {
	// One tiny run against one huge run takes the binary-search skip
	// path in both directions.
	rng := rand.New(rand.NewSource(12))

	for _, flip := range []bool{false, true} {
		small := []int{5, 500, 5000}
		large := make([]int, 4096)

		for i := range large {
			large[i] = rng.Intn(10000)
		}

		sort.Ints(large)

		var data intSeq
		var mid int

		if flip {
			data = append(append(intSeq{}, large...), small...)
			mid = len(large)
		} else {
			data = append(append(intSeq{}, small...), large...)
			mid = len(small)
		}

		want := append(intSeq{}, data...)
		sort.Ints(want)

		buf := make([]int, 8)
		mergeAdaptiveN[int](&data, 0, mid, len(data), buf, lessInt)
		require.Equal(t, []int(want), []int(data), "flip=%v", flip)
	}
}

func TestPingPongMerge3(t *testing.T) {
	data := intSeq{1, 4, 7, 2, 5, 8, 0, 3, 6}
	buf := make([]int, 4)

	PingPongMerge3[int](&data, 0, 3, 6, 9, lessInt, buf)
	requireSorted(t, data)
}

func TestPingPongMerge4(t *testing.T) {
	rng := rand.New(rand.NewSource(13))
	data := make(intSeq, 256)

	for i := range data {
		data[i] = rng.Intn(1000)
	}

	bounds := []int{0, 64, 128, 192, 256}

	for i := 0; i+1 < len(bounds); i++ {
		sort.Ints(data[bounds[i]:bounds[i+1]])
	}

	want := append(intSeq{}, data...)
	sort.Ints(want)

	buf := make([]int, 128)
	PingPongMerge4[int](&data, bounds[0], bounds[1], bounds[2], bounds[3], bounds[4], lessInt, buf)
	require.Equal(t, []int(want), []int(data))
}

func TestSortedPrefixThenRandomSuffix(t *testing.T) {
	// A strictly ascending prefix shorter than the wave cap followed by
	// random data: the wave attempt must fail cleanly and the fallback
	// sort must still produce the right multiset, fully sorted.
	rng := rand.New(rand.NewSource(14))

	for _, prefix := range []int{10, 60, 120} {
		n := prefix + 80
		data := make(intSeq, n)

		for i := 0; i < prefix; i++ {
			data[i] = i
		}

		for i := prefix; i < n; i++ {
			data[i] = rng.Intn(1000)
		}

		want := append(intSeq{}, data...)
		sort.Ints(want)

		NetSort[int](&data, lessInt, BufferDefault)
		require.Equal(t, []int(want), []int(data), "prefix=%d", prefix)
	}
}
