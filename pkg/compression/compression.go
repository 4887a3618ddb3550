// Package compression holds the byte compressors a zdict.Map can seal its
// serialized form with. Every compressor is a pure transform: the same input
// and level always yield output that decompresses to the same bytes.
package compression

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
)

// Compression levels shared by all compressors. Compressors without a
// notion of level accept and ignore them.
const (
	HuffmanOnly     = -2
	DefaultLevel    = -1
	NoCompression   = 0
	BestSpeed       = 1
	BestCompression = 9
)

var (
	ErrUnknownCompressor = errors.New("unknown compressor")
	ErrInvalidLevel      = errors.New("invalid compression level")
	ErrLimitExceeded     = errors.New("decompressed payload exceeds limit")
	ErrCorrupt           = errors.New("corrupt compressed payload")
)

// Compressor compresses whole buffers. limit caps the decompressed size
// when positive.
type Compressor interface {
	Name() string
	Compress(src []byte, level int) ([]byte, error)
	Decompress(src []byte, limit int) ([]byte, error)
}

// ValidLevel reports whether level is in HuffmanOnly..BestCompression.
func ValidLevel(level int) bool {
	return level >= HuffmanOnly && level <= BestCompression
}

var (
	mu       sync.RWMutex
	registry = map[string]Compressor{}
)

func init() {
	for _, c := range []Compressor{Zlib{}, Gzip{}, Flate{}, Zstd{}, Snappy{}} {
		Register(c)
	}
}

// Register makes c available to Lookup under c.Name(), replacing any
// compressor previously registered with that name.
func Register(c Compressor) {
	mu.Lock()
	defer mu.Unlock()
	registry[c.Name()] = c
}

// Lookup returns the compressor registered as name.
func Lookup(name string) (Compressor, error) {
	mu.RLock()
	defer mu.RUnlock()
	c, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCompressor, name)
	}
	return c, nil
}

// Names lists the registered compressors in lexical order.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// readLimited drains r, failing once more than limit bytes come out.
func readLimited(r io.Reader, limit int) ([]byte, error) {
	if limit <= 0 {
		b, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		return b, nil
	}
	b, err := io.ReadAll(io.LimitReader(r, int64(limit)+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if len(b) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrLimitExceeded, limit)
	}
	return b, nil
}

func checkLevel(level int) error {
	if !ValidLevel(level) {
		return fmt.Errorf("%w: %d", ErrInvalidLevel, level)
	}
	return nil
}
