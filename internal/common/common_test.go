package common

import (
	"math"
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVarUintRoundTrip(t *testing.T) {
	condition := func(x uint64) bool {
		buf := WriteVarUint(nil, x)
		got, n, err := ReadVarUint(buf)
		require.NoError(t, err)
		return got == x && n == len(buf)
	}
	require.NoError(t, quick.Check(condition, &quick.Config{}))
}

func TestVarIntRoundTrip(t *testing.T) {
	for _, x := range []int64{0, -1, 1, -2, 63, -64, math.MaxInt64, math.MinInt64} {
		buf := WriteVarInt(nil, x)
		got, n, err := ReadVarInt(buf)
		require.NoError(t, err)
		assert.Equal(t, x, got)
		assert.Equal(t, len(buf), n)
	}
	assert.Len(t, WriteVarInt(nil, -1), 1)
}

func TestReadVarUintTruncated(t *testing.T) {
	_, _, err := ReadVarUint([]byte{0x80, 0x80})
	require.ErrorIs(t, err, ErrTruncated)
	_, _, err = ReadVarUint(nil)
	require.ErrorIs(t, err, ErrTruncated)
}

func TestBytesRoundTrip(t *testing.T) {
	buf := WriteBytes(nil, []byte("zlib"))
	buf = WriteBytes(buf, nil)
	p, n, err := ReadBytes(buf)
	require.NoError(t, err)
	assert.Equal(t, []byte("zlib"), p)
	p, _, err = ReadBytes(buf[n:])
	require.NoError(t, err)
	assert.Empty(t, p)
}

func TestReadBytesShort(t *testing.T) {
	buf := WriteVarUint(nil, 10)
	buf = append(buf, "abc"...)
	_, _, err := ReadBytes(buf)
	require.ErrorIs(t, err, ErrTruncated)
}
