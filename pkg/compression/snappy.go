package compression

import (
	"fmt"

	"github.com/golang/snappy"
)

const maxSnappyRatio = 32

// Snappy trades ratio for speed and has no levels.
type Snappy struct{}

func (Snappy) Name() string { return "snappy" }

func (Snappy) Compress(src []byte, level int) ([]byte, error) {
	if err := checkLevel(level); err != nil {
		return nil, err
	}
	return snappy.Encode(nil, src), nil
}

func (Snappy) Decompress(src []byte, limit int) ([]byte, error) {
	n, err := snappy.DecodedLen(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	// no snappy stream expands by more than ~22x; anything larger is garbage
	if n > len(src)*maxSnappyRatio+64 {
		return nil, fmt.Errorf("%w: implausible decoded length %d", ErrCorrupt, n)
	}
	if limit > 0 && n > limit {
		return nil, fmt.Errorf("%w: %d > %d", ErrLimitExceeded, n, limit)
	}
	out, err := snappy.Decode(nil, src)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return out, nil
}
