package zdict

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/rawbytedev/zdict/pkg/codec"
	"github.com/rawbytedev/zdict/pkg/compression"
)

// Options configures a Map. The zero value is valid: zlib at the default
// level, JSON serialization, no decompression limit and no logging.
type Options struct {
	// Compress seals the map right after the initial entries are loaded.
	Compress bool
	// Level is used by Compress and by MarshalBinary of an expanded map.
	// nil selects compression.DefaultLevel.
	Level *int
	// Compressor defaults to compression.Zlib.
	Compressor compression.Compressor
	// Codec defaults to codec.JSON.
	Codec codec.Codec
	// MaxDecompressedSize caps the inflated size of the buffer, guarding
	// against decompression bombs in restored buffers. Zero means no cap.
	MaxDecompressedSize int
	Logger              *zap.Logger
}

// LevelOf returns a pointer to level, for use in Options.Level.
func LevelOf(level int) *int { return &level }

func (o Options) validate() error {
	if o.Level != nil && !compression.ValidLevel(*o.Level) {
		return fmt.Errorf("%w: compression level %d", ErrInvalidInput, *o.Level)
	}
	if o.MaxDecompressedSize < 0 {
		return fmt.Errorf("%w: negative MaxDecompressedSize %d", ErrInvalidInput, o.MaxDecompressedSize)
	}
	return nil
}

// Config is the file form of Options.
//
//	compressor: zstd
//	level: 6
//	compressed: true
//	max_decompressed_size: 8388608
type Config struct {
	Compressor          string `yaml:"compressor"`
	Level               *int   `yaml:"level"`
	Compressed          bool   `yaml:"compressed"`
	MaxDecompressedSize int    `yaml:"max_decompressed_size"`
}

// ParseConfig decodes a YAML config. Unknown keys are rejected.
func ParseConfig(data []byte) (Config, error) {
	var c Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: config: %w", ErrInvalidInput, err)
	}
	return c, nil
}

// LoadConfig reads and parses the YAML config at path.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return ParseConfig(data)
}

// Options resolves the compressor name and validates the values.
// An empty compressor name keeps the default.
func (c Config) Options() (Options, error) {
	o := Options{
		Compress:            c.Compressed,
		Level:               c.Level,
		MaxDecompressedSize: c.MaxDecompressedSize,
	}
	if c.Compressor != "" {
		comp, err := compression.Lookup(c.Compressor)
		if err != nil {
			return Options{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		o.Compressor = comp
	}
	if err := o.validate(); err != nil {
		return Options{}, err
	}
	return o, nil
}
