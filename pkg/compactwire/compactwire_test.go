package compactwire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameRoundTrip(t *testing.T) {
	in := Frame{Flags: FlagCompressed, Compressor: "zlib", Level: -1, Count: 3, Payload: []byte("payload-bytes")}
	data := EncodeFrame(in)
	out, err := DecodeFrame(data)
	require.NoError(t, err)
	assert.Equal(t, in, out)
	assert.True(t, out.Compressed())
}

func TestFrameEmptyPayload(t *testing.T) {
	in := Frame{Compressor: "snappy", Level: 9}
	out, err := DecodeFrame(EncodeFrame(in))
	require.NoError(t, err)
	assert.Equal(t, "snappy", out.Compressor)
	assert.Equal(t, 9, out.Level)
	assert.Empty(t, out.Payload)
	assert.False(t, out.Compressed())
}

func TestFrameRejectsDamage(t *testing.T) {
	data := EncodeFrame(Frame{Compressor: "zlib", Count: 1, Payload: []byte{1, 2, 3, 4}})

	_, err := DecodeFrame(data[:5])
	require.ErrorIs(t, err, ErrShortFrame)

	bad := append([]byte(nil), data...)
	bad[0] = 'X'
	_, err = DecodeFrame(bad)
	require.ErrorIs(t, err, ErrBadMagic)

	bad = append([]byte(nil), data...)
	bad[2] = 9
	_, err = DecodeFrame(bad)
	require.ErrorIs(t, err, ErrBadVersion)

	bad = append([]byte(nil), data...)
	bad[len(bad)-6] ^= 0xFF
	_, err = DecodeFrame(bad)
	require.ErrorIs(t, err, ErrCRCMismatch)

	_, err = DecodeFrame(append(append([]byte(nil), data...), 0))
	require.ErrorIs(t, err, ErrLength)
}

func FuzzDecodeFrame(f *testing.F) {
	f.Add(EncodeFrame(Frame{Compressor: "zlib", Count: 2, Payload: []byte("abc")}))
	f.Add([]byte("ZD"))
	f.Fuzz(func(t *testing.T, data []byte) {
		fr, err := DecodeFrame(data)
		if err != nil {
			return
		}
		again, err := DecodeFrame(EncodeFrame(fr))
		require.NoError(t, err)
		require.Equal(t, fr.Compressor, again.Compressor)
		require.Equal(t, fr.Count, again.Count)
	})
}
