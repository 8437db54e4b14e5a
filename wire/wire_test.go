package wire

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	for _, checksum := range []bool{false, true} {
		var buf bytes.Buffer
		wr := NewWriter(&buf, checksum)

		require.NoError(t, wr.PutUvarint(1000000))
		require.NoError(t, wr.PutBytes([]byte("hello")))
		require.NoError(t, wr.PutBytes(nil))
		require.NoError(t, wr.PutBytes(bytes.Repeat([]byte{0xAB}, 300)))
		require.NoError(t, wr.Close())

		rd := NewReader(&buf, checksum)

		n, err := rd.Uvarint()
		require.NoError(t, err)
		require.Equal(t, uint64(1000000), n)

		b, err := rd.Bytes()
		require.NoError(t, err)
		require.Equal(t, []byte("hello"), b)

		b, err = rd.Bytes()
		require.NoError(t, err)
		require.Empty(t, b)

		b, err = rd.Bytes()
		require.NoError(t, err)
		require.Equal(t, bytes.Repeat([]byte{0xAB}, 300), b)

		require.NoError(t, rd.VerifyChecksum())
	}
}

func TestChecksumDetectsCorruption(t *testing.T) {
	var buf bytes.Buffer
	wr := NewWriter(&buf, true)
	require.NoError(t, wr.PutBytes([]byte("payload bytes here")))
	require.NoError(t, wr.Close())

	raw := buf.Bytes()
	raw[3] ^= 0x01

	rd := NewReader(bytes.NewReader(raw), true)
	_, err := rd.Bytes()
	require.NoError(t, err)
	require.ErrorIs(t, rd.VerifyChecksum(), ErrBadWire)
}

func TestTruncatedStream(t *testing.T) {
	var buf bytes.Buffer
	wr := NewWriter(&buf, false)
	require.NoError(t, wr.PutBytes(make([]byte, 100)))
	require.NoError(t, wr.Close())

	raw := buf.Bytes()[:20]
	rd := NewReader(bytes.NewReader(raw), false)
	_, err := rd.Bytes()
	require.ErrorIs(t, err, ErrBadWire)
}

func TestReadFull(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	payload := make([]byte, 64)
	rng.Read(payload)

	var buf bytes.Buffer
	wr := NewWriter(&buf, false)
	require.NoError(t, wr.PutUvarint(7))
	require.NoError(t, wr.Close())

	_, err := buf.Write(payload) // raw unframed tail, no length prefix
	require.NoError(t, err)

	rd := NewReader(&buf, false)
	n, err := rd.Uvarint()
	require.NoError(t, err)
	require.Equal(t, uint64(7), n)

	got := make([]byte, 64)
	require.NoError(t, rd.ReadFull(got))
	require.Equal(t, payload, got)
}
