package coldstore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeyWithPrefix(t *testing.T) {
	a := &Archiver{bucket: "cvec-archive", prefix: "orders"}
	require.Equal(t, "orders/bucket-00000042.bin", a.key(42))
}

func TestKeyWithoutPrefix(t *testing.T) {
	a := &Archiver{bucket: "cvec-archive"}
	require.Equal(t, "bucket-00000000.bin", a.key(0))
}
