package compression

import (
	"bytes"
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// Zstd maps the 0..9 deflate scale onto zstd's four encoder speeds.
type Zstd struct{}

func (Zstd) Name() string { return "zstd" }

func (Zstd) Compress(src []byte, level int) ([]byte, error) {
	if err := checkLevel(level); err != nil {
		return nil, err
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstdLevel(level)))
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(src, nil), nil
}

func (Zstd) Decompress(src []byte, limit int) ([]byte, error) {
	dec, err := zstd.NewReader(bytes.NewReader(src), zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	defer dec.Close()
	return readLimited(dec, limit)
}

func zstdLevel(level int) zstd.EncoderLevel {
	switch {
	case level == DefaultLevel:
		return zstd.SpeedDefault
	case level <= 2:
		return zstd.SpeedFastest
	case level <= 5:
		return zstd.SpeedDefault
	case level <= 8:
		return zstd.SpeedBetterCompression
	default:
		return zstd.SpeedBestCompression
	}
}
