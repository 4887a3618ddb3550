// Package codec turns an ordered string-keyed mapping into text and back.
//
// The Mapping type keeps insertion order, so a mapping that goes through
// Marshal and Unmarshal comes back with the same keys in the same order.
package codec

import (
	"errors"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

var (
	ErrUnsupported = errors.New("unsupported value")
	ErrMalformed   = errors.New("malformed document")
)

// Mapping is an insertion-ordered map from string keys to decoded values.
type Mapping = orderedmap.OrderedMap[string, any]

// Entry is a single key/value pair.
type Entry struct {
	Key   string
	Value any
}

// Codec serializes whole mappings. Canonical returns v as it would look
// after a Marshal/Unmarshal cycle, so callers can store values in the
// same shape whether or not they were ever serialized.
type Codec interface {
	Name() string
	Marshal(m *Mapping) ([]byte, error)
	Unmarshal(data []byte) (*Mapping, error)
	Canonical(v any) (any, error)
}

// NewMapping builds a mapping holding entries in order. Later duplicates
// overwrite the value but keep the first position.
func NewMapping(entries ...Entry) *Mapping {
	m := orderedmap.New[string, any]()
	for _, e := range entries {
		m.Set(e.Key, e.Value)
	}
	return m
}

// Clone copies the pairs of m into a new mapping. Values are shared.
func Clone(m *Mapping) *Mapping {
	out := orderedmap.New[string, any]()
	if m == nil {
		return out
	}
	for p := m.Oldest(); p != nil; p = p.Next() {
		out.Set(p.Key, p.Value)
	}
	return out
}

// Entries lists the pairs of m in order.
func Entries(m *Mapping) []Entry {
	if m == nil {
		return nil
	}
	out := make([]Entry, 0, m.Len())
	for p := m.Oldest(); p != nil; p = p.Next() {
		out = append(out, Entry{Key: p.Key, Value: p.Value})
	}
	return out
}
