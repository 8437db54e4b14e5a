package internal

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCeilLog2Range(t *testing.T) {
	cases := []struct {
		in   uint32
		want uint32
	}{
		{0, 0}, {1, 0}, {2, 1}, {3, 2}, {4, 2}, {5, 3},
		{8, 3}, {9, 4}, {16, 4}, {17, 5}, {64, 6}, {65, 7},
		{128, 7}, {129, 8}, {256, 8}, {257, 8}, {1 << 20, 8},
	}

	for _, c := range cases {
		require.Equal(t, c.want, CeilLog2Range(c.in), "range=%d", c.in)
	}
}

func TestPopCount16(t *testing.T) {
	require.Equal(t, 0, PopCount16(0))
	require.Equal(t, 16, PopCount16(0xFFFF))
	require.Equal(t, 1, PopCount16(0x8000))
	require.Equal(t, 8, PopCount16(0x5555))
}
