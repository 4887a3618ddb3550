package zdict

import (
	"bytes"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/rawbytedev/zdict/pkg/codec"
	"github.com/rawbytedev/zdict/pkg/compression"
)

// Mapping is the expanded representation: an insertion-ordered map.
type Mapping = codec.Mapping

// Entry is a key/value pair used to build or update a Map.
type Entry = codec.Entry

// Stats counts the codec passes a Map has made.
type Stats struct {
	Compressions   int // serialize + compress passes
	Decompressions int // decompress passes, transient ones included
	Reseals        int // mutations applied while compressed
}

// Map is a string-keyed map that is either expanded (an in-memory
// Mapping) or compressed (a compressed serialized buffer plus a cached
// entry count). Every operation behaves the same in both states.
//
// Exactly one of data and zdata is set. The zero Map is an empty expanded
// map with default options. A Map is not safe for concurrent use.
type Map struct {
	data   *Mapping
	zdata  []byte
	length int // entry count of zdata
	level  int // level zdata was sealed with
	opts   Options
	log    *zap.Logger
	stats  Stats
}

// New builds a Map from init, which may be nil, a *Map, a *Mapping, a
// []Entry or a map[string]any. Plain Go maps have no order, so their keys
// are loaded sorted.
func New(init any, opts Options) (*Map, error) {
	m, err := newMap(opts)
	if err != nil {
		return nil, err
	}
	entries, err := entriesOf(init)
	if err != nil {
		return nil, err
	}
	if err := m.Update(entries...); err != nil {
		return nil, err
	}
	if opts.Compress {
		if err := m.Compress(); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// FromJSON builds a Map from a serialized object, keeping its key order.
func FromJSON(data []byte, opts Options) (*Map, error) {
	m, err := newMap(opts)
	if err != nil {
		return nil, err
	}
	parsed, err := m.serializer().Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	m.data = parsed
	if opts.Compress {
		if err := m.Compress(); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// FromCompressed adopts buf as the compressed buffer of a map holding
// length entries. buf is copied but not opened: Len answers length right
// away, and a bad buffer or a wrong length surfaces as ErrCorruptData on
// the first read or write.
func FromCompressed(buf []byte, length int, opts Options) (*Map, error) {
	if len(buf) == 0 {
		return nil, fmt.Errorf("%w: empty compressed buffer", ErrInvalidInput)
	}
	if length < 0 {
		return nil, fmt.Errorf("%w: negative length %d", ErrInvalidInput, length)
	}
	m, err := newMap(opts)
	if err != nil {
		return nil, err
	}
	m.data = nil
	m.zdata = bytes.Clone(buf)
	m.length = length
	m.level = m.defaultLevel()
	return m, nil
}

func newMap(opts Options) (*Map, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Map{
		data: codec.NewMapping(),
		opts: opts,
		log:  log.With(zap.String("component", "zdict")),
	}, nil
}

func entriesOf(init any) ([]Entry, error) {
	switch v := init.(type) {
	case nil:
		return nil, nil
	case *Map:
		if v == nil {
			return nil, fmt.Errorf("%w: nil *Map", ErrInvalidInput)
		}
		snap, err := v.Snapshot()
		if err != nil {
			return nil, err
		}
		return codec.Entries(snap), nil
	case *Mapping:
		return codec.Entries(v), nil
	case []Entry:
		return v, nil
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make([]Entry, len(keys))
		for i, k := range keys {
			out[i] = Entry{Key: k, Value: v[k]}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: cannot build a map from %T", ErrInvalidInput, init)
	}
}

func (m *Map) compressor() compression.Compressor {
	if m.opts.Compressor == nil {
		return compression.Zlib{}
	}
	return m.opts.Compressor
}

func (m *Map) serializer() codec.Codec {
	if m.opts.Codec == nil {
		return codec.JSON{}
	}
	return m.opts.Codec
}

func (m *Map) logger() *zap.Logger {
	if m.log == nil {
		m.log = zap.NewNop()
	}
	return m.log
}

func (m *Map) defaultLevel() int {
	if m.opts.Level == nil {
		return compression.DefaultLevel
	}
	return *m.opts.Level
}

// view returns the expanded mapping, creating it for the zero Map.
func (m *Map) view() *Mapping {
	if m.data == nil {
		m.data = codec.NewMapping()
	}
	return m.data
}

// IsCompressed reports whether the map is in the compressed state.
func (m *Map) IsCompressed() bool { return m.zdata != nil }

// Level returns the level the buffer was sealed with, or -1 when expanded.
func (m *Map) Level() int {
	if !m.IsCompressed() {
		return compression.DefaultLevel
	}
	return m.level
}

// Bytes returns the compressed buffer, or nil when expanded. The slice
// must not be modified.
func (m *Map) Bytes() []byte { return m.zdata }

// Stats returns the codec pass counters.
func (m *Map) Stats() Stats { return m.stats }

// Compress seals the map at the configured level.
func (m *Map) Compress() error { return m.CompressLevel(m.defaultLevel()) }

// CompressLevel serializes and compresses the map, then drops the
// expanded mapping. It is a no-op when already compressed, whatever the
// level. On failure the map stays expanded and unchanged.
func (m *Map) CompressLevel(level int) error {
	if m.IsCompressed() {
		return nil
	}
	if !compression.ValidLevel(level) {
		return fmt.Errorf("%w: compression level %d", ErrInvalidInput, level)
	}
	data := m.view()
	buf, err := m.seal(data, level)
	if err != nil {
		return err
	}
	m.zdata, m.length, m.level = buf, data.Len(), level
	m.data = nil
	return nil
}

// Decompress restores the expanded mapping and returns it. It is a no-op
// returning the current mapping when already expanded. On failure the
// buffer is kept.
func (m *Map) Decompress() (*Mapping, error) {
	if !m.IsCompressed() {
		return m.view(), nil
	}
	data, err := m.open()
	if err != nil {
		return nil, err
	}
	m.data = data
	m.zdata, m.length = nil, 0
	return m.data, nil
}

// JSON returns the serialized form. When compressed this is the inflated
// buffer as stored, not a fresh encoding.
func (m *Map) JSON() ([]byte, error) {
	if m.IsCompressed() {
		return m.inflate()
	}
	out, err := m.serializer().Marshal(m.view())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCodec, err)
	}
	return out, nil
}

// Snapshot returns the logical mapping. When compressed it is a fresh
// copy and the state is left alone; when expanded it is the live mapping.
func (m *Map) Snapshot() (*Mapping, error) {
	if m.IsCompressed() {
		return m.open()
	}
	return m.view(), nil
}

// Len returns the entry count. A compressed map answers from its cache.
func (m *Map) Len() int {
	if m.IsCompressed() {
		return m.length
	}
	if m.data == nil {
		return 0
	}
	return m.data.Len()
}

// String renders the logical mapping as its serialized text.
func (m *Map) String() string {
	b, err := m.JSON()
	if err != nil {
		return fmt.Sprintf("%%!zdict(%v)", err)
	}
	return string(b)
}

func (m *Map) seal(data *Mapping, level int) ([]byte, error) {
	raw, err := m.serializer().Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCodec, err)
	}
	c := m.compressor()
	buf, err := c.Compress(raw, level)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCodec, c.Name(), err)
	}
	m.stats.Compressions++
	m.logger().Debug("compress",
		zap.String("compressor", c.Name()),
		zap.Int("level", level),
		zap.Int("entries", data.Len()),
		zap.Int("raw_bytes", len(raw)),
		zap.Int("compressed_bytes", len(buf)))
	return buf, nil
}

func (m *Map) inflate() ([]byte, error) {
	c := m.compressor()
	raw, err := c.Decompress(m.zdata, m.opts.MaxDecompressedSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCorruptData, c.Name(), err)
	}
	m.stats.Decompressions++
	m.logger().Debug("decompress",
		zap.String("compressor", c.Name()),
		zap.Int("compressed_bytes", len(m.zdata)),
		zap.Int("raw_bytes", len(raw)))
	return raw, nil
}

// open inflates and parses the buffer into a fresh mapping, checking it
// against the cached entry count.
func (m *Map) open() (*Mapping, error) {
	raw, err := m.inflate()
	if err != nil {
		return nil, err
	}
	data, err := m.serializer().Unmarshal(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptData, err)
	}
	if data.Len() != m.length {
		return nil, fmt.Errorf("%w: buffer holds %d entries, expected %d", ErrCorruptData, data.Len(), m.length)
	}
	return data, nil
}
