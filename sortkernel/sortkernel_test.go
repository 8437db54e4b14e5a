package sortkernel

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

type intSeq []int

func (s intSeq) Len() int          { return len(s) }
func (s intSeq) Get(i int) int     { return s[i] }
func (s *intSeq) Set(i int, v int) { (*s)[i] = v }

type kv struct {
	key, orig int
}

type kvSeq []kv

func (s kvSeq) Len() int      { return len(s) }
func (s kvSeq) Get(i int) kv   { return s[i] }
func (s *kvSeq) Set(i int, v kv) { (*s)[i] = v }

func lessInt(a, b int) bool { return a < b }

func TestNetSortRandom(t *testing.T) {
	for _, n := range []int{0, 1, 2, 3, 15, 16, 17, 127, 128, 129, 1000, 5000} {
		rng := rand.New(rand.NewSource(int64(n)))
		data := make(intSeq, n)

		for i := range data {
			data[i] = rng.Intn(1000)
		}

		want := append(intSeq{}, data...)
		sort.Ints(want)

		NetSort[int](&data, lessInt, BufferDefault)
		require.Equal(t, []int(want), []int(data))
	}
}

func TestNetSortAlreadySorted(t *testing.T) {
	n := 1000
	data := make(intSeq, n)

	for i := range data {
		data[i] = i
	}

	NetSort[int](&data, lessInt, BufferMedium)

	for i := range data {
		require.Equal(t, i, data[i])
	}
}

func TestNetSortReverseSorted(t *testing.T) {
	n := 500
	data := make(intSeq, n)

	for i := range data {
		data[i] = n - i
	}

	NetSort[int](&data, lessInt, BufferSmall)

	for i := 1; i < len(data); i++ {
		require.LessOrEqual(t, data[i-1], data[i])
	}
}

func TestNetSortAllEqual(t *testing.T) {
	n := 300
	data := make(intSeq, n)

	for i := range data {
		data[i] = 7
	}

	NetSort[int](&data, lessInt, BufferTiny)

	for _, v := range data {
		require.Equal(t, 7, v)
	}
}

func TestNetSortStability(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	n := 2000
	data := make(kvSeq, n)

	for i := range data {
		data[i] = kv{key: rng.Intn(10), orig: i}
	}

	less := func(a, b kv) bool { return a.key < b.key }
	NetSort[kv](&data, less, BufferNull)

	lastKey := -1
	lastOrigByKey := map[int]int{}

	for _, e := range data {
		if e.key < lastKey {
			t.Fatalf("not sorted: %v", e)
		}

		if prevOrig, ok := lastOrigByKey[e.key]; ok && e.orig < prevOrig {
			t.Fatalf("stability violated for key %d: orig %d after %d", e.key, e.orig, prevOrig)
		}

		lastOrigByKey[e.key] = e.orig
		lastKey = e.key
	}
}

func TestNetSortBufferHints(t *testing.T) {
	for _, hint := range []BufferHint{BufferDefault, BufferMedium, BufferSmall, BufferTiny, BufferNull} {
		rng := rand.New(rand.NewSource(7))
		n := 800
		data := make(intSeq, n)

		for i := range data {
			data[i] = rng.Intn(500)
		}

		want := append(intSeq{}, data...)
		sort.Ints(want)

		NetSort[int](&data, lessInt, hint)
		require.Equal(t, []int(want), []int(data), "hint=%v", hint)
	}
}
