package store

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/cvecio/cvec/sortkernel"
	"github.com/stretchr/testify/require"
)

// A partial last bucket must always be live (attached context, no
// compressed buffer), while full buckets settle into stored state
// after a shrink.
func TestLastBucketPartialAlwaysLive(t *testing.T) {
	for _, n := range []int{blockSize - 1, blockSize, blockSize + 1} {
		c := newTestVec(t, WithContextCeiling(4))

		for i := 0; i < n; i++ {
			require.NoError(t, c.PushBack(uint32(i)))
		}

		require.NoError(t, c.ShrinkToFit())

		last := c.buckets[len(c.buckets)-1]
		partial := n%blockSize != 0

		if partial {
			require.NotEqual(t, -1, last.ctxIdx, "n=%d: partial last bucket must stay live", n)
			require.Empty(t, last.buffer, "n=%d: partial last bucket has no compressed form", n)
		} else {
			require.NotEmpty(t, last.buffer, "n=%d: full last bucket is stored after shrink", n)
		}

		for i := 0; i < len(c.buckets)-1; i++ {
			require.NotEmpty(t, c.buckets[i].buffer, "n=%d: full bucket %d stored after shrink", n, i)
			require.Equal(t, -1, c.buckets[i].ctxIdx, "n=%d: full bucket %d detached after shrink", n, i)
		}

		for i := 0; i < n; i++ {
			r, err := c.At(i)
			require.NoError(t, err)
			v, err := r.Load()
			require.NoError(t, err)
			require.Equal(t, uint32(i), v)
		}
	}
}

func TestAscendingCompressesWell(t *testing.T) {
	c := newTestVec(t, WithContextCeiling(4))
	n := 100 * blockSize

	for i := 0; i < n; i++ {
		require.NoError(t, c.PushBack(uint32(i)))
	}

	require.NoError(t, c.ShrinkToFit())
	require.Less(t, c.CompressionRatio(), 0.05)
}

// Scenario: random 64-bit integers are near-incompressible; the encoder
// falls back to raw rows and a serialize round trip still reproduces
// the container.
func TestRandomUint64Incompressible(t *testing.T) {
	c := New[uint64](Uint64Codec{}, WithContextCeiling(4))
	rng := rand.New(rand.NewSource(5))
	n := 40 * blockSize

	vals := make([]uint64, n)

	for i := range vals {
		vals[i] = rng.Uint64()
		require.NoError(t, c.PushBack(vals[i]))
	}

	require.NoError(t, c.ShrinkToFit())
	require.Greater(t, c.CompressionRatio(), 0.9)

	var buf bytes.Buffer
	require.NoError(t, c.Serialize(&buf, true))

	back, err := Deserialize[uint64](&buf, Uint64Codec{}, true)
	require.NoError(t, err)
	require.Equal(t, n, back.Len())

	for i := 0; i < n; i++ {
		r, err := back.At(i)
		require.NoError(t, err)
		v, err := r.Load()
		require.NoError(t, err)
		require.Equal(t, vals[i], v)
	}
}

// Scenario: the compression ratio tracks element order. Ascending data
// compresses, a shuffle destroys the ratio, sorting restores it.
func TestRatioTracksOrder(t *testing.T) {
	c := newTestVec(t, WithContextCeiling(8))
	n := 50 * blockSize

	for i := 0; i < n; i++ {
		require.NoError(t, c.PushBack(uint32(i)))
	}

	require.NoError(t, c.ShrinkToFit())
	sortedRatio := c.CompressionRatio()
	require.Less(t, sortedRatio, 0.05)

	rng := rand.New(rand.NewSource(6))

	for i := n - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		a, _ := c.At(i)
		b, _ := c.At(j)
		require.NoError(t, Swap[uint32](a, b))
	}

	require.NoError(t, c.ShrinkToFit())
	shuffledRatio := c.CompressionRatio()
	require.Greater(t, shuffledRatio, 5*sortedRatio)

	c.Sort(func(a, b uint32) bool { return a < b }, sortkernel.BufferMedium)
	require.NoError(t, c.ShrinkToFit())
	require.Less(t, c.CompressionRatio(), 0.05)

	for i := 0; i < n; i++ {
		r, _ := c.At(i)
		v, _ := r.Load()
		require.Equal(t, uint32(i), v)
	}
}

func TestFrontBack(t *testing.T) {
	c := newTestVec(t)

	_, err := c.Front()
	require.Error(t, err)

	for i := 0; i < 300; i++ {
		require.NoError(t, c.PushBack(uint32(i+1)))
	}

	f, err := c.Front()
	require.NoError(t, err)
	v, err := f.Load()
	require.NoError(t, err)
	require.Equal(t, uint32(1), v)

	b, err := c.Back()
	require.NoError(t, err)
	v, err = b.Load()
	require.NoError(t, err)
	require.Equal(t, uint32(300), v)
}

func TestMemoryFootprintBreakdown(t *testing.T) {
	c := newTestVec(t, WithContextCeiling(2))

	for i := 0; i < 4*blockSize; i++ {
		require.NoError(t, c.PushBack(uint32(i)))
	}

	fp := c.MemoryFootprint()
	require.Equal(t, fp.CompressedBytes+fp.ContextBytes+fp.Overhead, fp.Total())
	require.Greater(t, fp.Total(), 0)
	require.Greater(t, fp.ContextBytes, 0)
}

func TestContextCeilingRatio(t *testing.T) {
	c := newTestVec(t, WithContextCeilingRatio(4))

	for i := 0; i < 16*blockSize; i++ {
		require.NoError(t, c.PushBack(uint32(i)))
	}

	rng := rand.New(rand.NewSource(7))

	for k := 0; k < 500; k++ {
		r, err := c.At(rng.Intn(c.Len()))
		require.NoError(t, err)
		_, err = r.Load()
		require.NoError(t, err)

		// C_max = ceil(16 / 4) = 4; at most C_max + 1 live mid-steal.
		require.LessOrEqual(t, c.pool.live, 5)
	}
}

func TestResizeBlockFastPath(t *testing.T) {
	c := newTestVec(t, WithContextCeiling(2))

	// Grow by many whole blocks: appended buckets arrive pre-compressed,
	// so the context count stays flat no matter how many blocks appear.
	require.NoError(t, c.ResizeFill(40*blockSize+17, 9))
	require.Equal(t, 40*blockSize+17, c.Len())
	require.LessOrEqual(t, c.pool.live, 3)

	for _, i := range []int{0, blockSize, 20*blockSize + 5, 40*blockSize + 16} {
		r, err := c.At(i)
		require.NoError(t, err)
		v, err := r.Load()
		require.NoError(t, err)
		require.Equal(t, uint32(9), v)
	}

	// Shrink across many blocks drops whole buckets without attaching.
	require.NoError(t, c.Resize(2*blockSize + 3))
	require.Equal(t, 2*blockSize+3, c.Len())
	require.Equal(t, 3, c.BucketCount())

	r, err := c.At(2*blockSize + 2)
	require.NoError(t, err)
	v, err := r.Load()
	require.NoError(t, err)
	require.Equal(t, uint32(9), v)
}

func TestDeserializeGarbageFails(t *testing.T) {
	garbage := bytes.NewReader([]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x01, 0x02})
	_, err := Deserialize[uint32](garbage, Uint32Codec{}, false)
	require.Error(t, err)
}

func TestClearThenReuse(t *testing.T) {
	c := newTestVec(t, WithContextCeiling(2))

	for i := 0; i < 3*blockSize; i++ {
		require.NoError(t, c.PushBack(uint32(i)))
	}

	c.Clear()
	require.Equal(t, 0, c.Len())
	require.Equal(t, 0, c.BucketCount())

	for i := 0; i < blockSize; i++ {
		require.NoError(t, c.PushBack(uint32(i * 3)))
	}

	require.Equal(t, blockSize, c.Len())

	r, _ := c.At(10)
	v, _ := r.Load()
	require.Equal(t, uint32(30), v)
}
