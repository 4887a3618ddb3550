package zdict

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/rawbytedev/zdict/pkg/compactwire"
	"github.com/rawbytedev/zdict/pkg/compression"
)

// MarshalBinary frames the compressed buffer together with the compressor
// name, level and entry count. An expanded map is sealed into the frame
// without changing state; UnmarshalBinary restores the same state.
func (m *Map) MarshalBinary() ([]byte, error) {
	f := compactwire.Frame{Compressor: m.compressor().Name()}
	if m.IsCompressed() {
		f.Flags = compactwire.FlagCompressed
		f.Level, f.Count, f.Payload = m.level, m.length, m.zdata
	} else {
		level := m.defaultLevel()
		buf, err := m.seal(m.view(), level)
		if err != nil {
			return nil, err
		}
		f.Level, f.Count, f.Payload = level, m.Len(), buf
	}
	return compactwire.EncodeFrame(f), nil
}

// UnmarshalBinary replaces the content of m with a frame produced by
// MarshalBinary. The frame's compressor replaces the configured one; the
// other options are kept. On error m is unchanged.
func (m *Map) UnmarshalBinary(data []byte) error {
	f, err := compactwire.DecodeFrame(data)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCorruptData, err)
	}
	comp, err := compression.Lookup(f.Compressor)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCorruptData, err)
	}
	if !compression.ValidLevel(f.Level) {
		return fmt.Errorf("%w: level %d", ErrCorruptData, f.Level)
	}
	if len(f.Payload) == 0 {
		return fmt.Errorf("%w: empty payload", ErrCorruptData)
	}
	next := Map{
		zdata:  bytes.Clone(f.Payload),
		length: f.Count,
		level:  f.Level,
		opts:   m.opts,
		log:    m.logger(),
		stats:  m.stats,
	}
	next.opts.Compressor = comp
	if !f.Compressed() {
		if _, err := next.Decompress(); err != nil {
			return err
		}
	}
	*m = next
	return nil
}

// MarshalJSON returns the serialized form, so a Map nests inside other
// JSON documents as a plain object.
func (m *Map) MarshalJSON() ([]byte, error) {
	return m.JSON()
}

// UnmarshalJSON replaces the content of m with the object in data,
// keeping the current state: a compressed map is resealed.
func (m *Map) UnmarshalJSON(data []byte) error {
	parsed, err := m.serializer().Unmarshal(data)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return m.mutate("unmarshal", func(view *Mapping) error {
		for view.Len() > 0 {
			view.Delete(view.Oldest().Key)
		}
		for p := parsed.Oldest(); p != nil; p = p.Next() {
			view.Set(p.Key, p.Value)
		}
		return nil
	})
}

// MarshalYAML emits the logical mapping as an ordered YAML mapping.
func (m *Map) MarshalYAML() (any, error) {
	snap, err := m.Snapshot()
	if err != nil {
		return nil, err
	}
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for p := snap.Oldest(); p != nil; p = p.Next() {
		val := &yaml.Node{}
		if err := val.Encode(p.Value); err != nil {
			return nil, fmt.Errorf("%w: key %q: %w", ErrCodec, p.Key, err)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: p.Key},
			val)
	}
	return node, nil
}
