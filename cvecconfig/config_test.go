package cvecconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cvecio/cvec/sortkernel"
	"github.com/cvecio/cvec/store"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

// Whole-Config comparisons use cmp.Diff rather than require.Equal so a
// future field addition reports exactly which field regressed.
func TestDefaultWhenNoPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("Load(\"\") mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultWhenMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.jsonc"))
	require.NoError(t, err)

	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("Load(missing) mismatch (-want +got):\n%s", diff)
	}
}

func TestParseOverridesSubsetOfFields(t *testing.T) {
	cfg, err := Parse([]byte(`{
		// acceleration tuning for the codec
		"acceleration": 3,
		"context_ceiling": 64,
		"checksum": true,
	}`))
	require.NoError(t, err)
	require.Equal(t, 3, cfg.Acceleration)
	require.Equal(t, 64, cfg.ContextCeiling)
	require.True(t, cfg.Checksum)
	require.Equal(t, Default().DispersionIncDecomp, cfg.DispersionIncDecomp)
	require.Equal(t, Default().BufferHint, cfg.BufferHint)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cvec.jsonc")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"context_ceiling_ratio": 8,
		"buffer_hint": "wide",
	}`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 8, cfg.ContextCeilingRatio)
	require.Equal(t, "wide", cfg.BufferHint)
	require.Equal(t, Default().Acceleration, cfg.Acceleration)
}

func TestParseRejectsInvalidJSONC(t *testing.T) {
	_, err := Parse([]byte(`{ not valid`))
	require.Error(t, err)
}

func TestOptionsPrefersRatioOverAbsolute(t *testing.T) {
	cfg := Default()
	cfg.ContextCeiling = 16
	cfg.ContextCeilingRatio = 4

	opts := cfg.Options()
	require.NotEmpty(t, opts)

	c := store.New[uint32](store.Uint32Codec{}, opts...)

	for i := 0; i < 16*256; i++ {
		require.NoError(t, c.PushBack(uint32(i)))
	}

	for i := 0; i < c.Len(); i += 256 {
		r, err := c.At(i)
		require.NoError(t, err)
		_, err = r.Load()
		require.NoError(t, err)
	}

	// Ratio 4 over 16 buckets caps the pool at 4 contexts (plus at most
	// one transient), where the absolute ceiling would allow 16.
	require.LessOrEqual(t, c.MemoryFootprint().ContextBytes, 5*256*4)
}

func TestSortHintMapping(t *testing.T) {
	cases := map[string]sortkernel.BufferHint{
		"default": sortkernel.BufferDefault,
		"medium":  sortkernel.BufferMedium,
		"small":   sortkernel.BufferSmall,
		"tiny":    sortkernel.BufferTiny,
		"null":    sortkernel.BufferNull,
		"wide":    sortkernel.BufferDefault, // unrecognized falls back
		"":        sortkernel.BufferDefault,
	}

	for in, want := range cases {
		cfg := Default()
		cfg.BufferHint = in
		require.Equal(t, want, cfg.SortHint(), "hint=%q", in)
	}
}

func TestOptionsBuildsUsableVec(t *testing.T) {
	cfg, err := Parse([]byte(`{"acceleration": 2, "context_ceiling": 3}`))
	require.NoError(t, err)

	c := store.New[uint32](store.Uint32Codec{}, cfg.Options()...)

	for i := 0; i < 2000; i++ {
		require.NoError(t, c.PushBack(uint32(i)))
	}

	require.Equal(t, 2000, c.Len())
}
