package zdict

import (
	"bytes"
	"errors"
	"fmt"
	"iter"
	"reflect"

	"go.uber.org/zap"

	"github.com/rawbytedev/zdict/pkg/codec"
)

// Mapper is the mapping surface shared by both states of a Map.
type Mapper interface {
	Get(key string) (any, error)
	Set(key string, value any) error
	Delete(key string) error
	Len() int
	Keys() (iter.Seq[string], error)
}

var _ Mapper = (*Map)(nil)

// mutate materializes a working mapping, applies fn and, if the map was
// compressed, reseals the result at the recorded level. fn must leave the
// view untouched when it fails. Nothing is committed unless fn and the
// reseal both succeed.
func (m *Map) mutate(op string, fn func(view *Mapping) error) error {
	if !m.IsCompressed() {
		return fn(m.view())
	}
	view, err := m.open()
	if err != nil {
		return err
	}
	if err := fn(view); err != nil {
		return err
	}
	buf, err := m.seal(view, m.level)
	if err != nil {
		return err
	}
	m.zdata, m.length = buf, view.Len()
	m.stats.Reseals++
	m.logger().Debug("reseal", zap.String("op", op), zap.Int("entries", m.length))
	return nil
}

// canonical checks key and converts v to its stored shape. Every insert
// goes through it before mutate, so a rejected entry changes nothing.
func (m *Map) canonical(key string, v any) (any, error) {
	if err := codec.CheckKey(key); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCodec, err)
	}
	out, err := m.serializer().Canonical(v)
	if err != nil {
		return nil, fmt.Errorf("%w: key %q: %w", ErrCodec, key, err)
	}
	return out, nil
}

func missing(key string) error {
	return fmt.Errorf("%w: %q", ErrKeyNotFound, key)
}

func isMissing(err error) bool { return errors.Is(err, ErrKeyNotFound) }

// Get returns the value stored under key.
func (m *Map) Get(key string) (any, error) {
	snap, err := m.Snapshot()
	if err != nil {
		return nil, err
	}
	v, ok := snap.Get(key)
	if !ok {
		return nil, missing(key)
	}
	return v, nil
}

// Has reports whether key is present.
func (m *Map) Has(key string) (bool, error) {
	snap, err := m.Snapshot()
	if err != nil {
		return false, err
	}
	_, ok := snap.Get(key)
	return ok, nil
}

// Set stores value under key. The value is kept in its serialized shape
// (numbers become float64, objects map[string]any), so reads return the
// same thing in either state.
func (m *Map) Set(key string, value any) error {
	v, err := m.canonical(key, value)
	if err != nil {
		return err
	}
	return m.mutate("set", func(view *Mapping) error {
		view.Set(key, v)
		return nil
	})
}

// SetDefault returns the value under key, storing def first if the key is
// absent.
func (m *Map) SetDefault(key string, def any) (any, error) {
	v, err := m.Get(key)
	if err == nil {
		return v, nil
	}
	if !isMissing(err) {
		return nil, err
	}
	cv, err := m.canonical(key, def)
	if err != nil {
		return nil, err
	}
	err = m.mutate("setdefault", func(view *Mapping) error {
		view.Set(key, cv)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cv, nil
}

// Delete removes key, failing with ErrKeyNotFound if it is absent.
func (m *Map) Delete(key string) error {
	_, err := m.Pop(key)
	return err
}

// Pop removes key and returns its value.
func (m *Map) Pop(key string) (any, error) {
	var old any
	err := m.mutate("delete", func(view *Mapping) error {
		v, ok := view.Delete(key)
		if !ok {
			return missing(key)
		}
		old = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return old, nil
}

// Update merges entries in order. Existing keys keep their position and
// take the new value; new keys are appended.
func (m *Map) Update(entries ...Entry) error {
	if len(entries) == 0 {
		return nil
	}
	prepared := make([]Entry, len(entries))
	for i, e := range entries {
		v, err := m.canonical(e.Key, e.Value)
		if err != nil {
			return err
		}
		prepared[i] = Entry{Key: e.Key, Value: v}
	}
	return m.mutate("update", func(view *Mapping) error {
		for _, e := range prepared {
			view.Set(e.Key, e.Value)
		}
		return nil
	})
}

// UpdateFrom merges the entries of other.
func (m *Map) UpdateFrom(other *Map) error {
	if other == nil {
		return fmt.Errorf("%w: nil *Map", ErrInvalidInput)
	}
	snap, err := other.Snapshot()
	if err != nil {
		return err
	}
	return m.Update(codec.Entries(snap)...)
}

// Clear removes every entry, keeping the current state.
func (m *Map) Clear() error {
	return m.mutate("clear", func(view *Mapping) error {
		for _, e := range codec.Entries(view) {
			view.Delete(e.Key)
		}
		return nil
	})
}

// Keys returns the keys in order. The sequence walks a copy taken when
// Keys is called, so it is safe to mutate the map while ranging; call
// Keys again to observe the new state.
func (m *Map) Keys() (iter.Seq[string], error) {
	snap, err := m.Snapshot()
	if err != nil {
		return nil, err
	}
	entries := codec.Entries(snap)
	return func(yield func(string) bool) {
		for _, e := range entries {
			if !yield(e.Key) {
				return
			}
		}
	}, nil
}

// Values returns the values in key order.
func (m *Map) Values() (iter.Seq[any], error) {
	snap, err := m.Snapshot()
	if err != nil {
		return nil, err
	}
	entries := codec.Entries(snap)
	return func(yield func(any) bool) {
		for _, e := range entries {
			if !yield(e.Value) {
				return
			}
		}
	}, nil
}

// All returns the key/value pairs in order.
func (m *Map) All() (iter.Seq2[string, any], error) {
	snap, err := m.Snapshot()
	if err != nil {
		return nil, err
	}
	entries := codec.Entries(snap)
	return func(yield func(string, any) bool) {
		for _, e := range entries {
			if !yield(e.Key, e.Value) {
				return
			}
		}
	}, nil
}

// Equal compares the logical mappings of m and other. Key order is not
// significant.
func (m *Map) Equal(other *Map) (bool, error) {
	if other == nil {
		return false, fmt.Errorf("%w: nil *Map", ErrInvalidInput)
	}
	if m.Len() != other.Len() {
		return false, nil
	}
	a, err := m.Snapshot()
	if err != nil {
		return false, err
	}
	b, err := other.Snapshot()
	if err != nil {
		return false, err
	}
	for p := a.Oldest(); p != nil; p = p.Next() {
		v, ok := b.Get(p.Key)
		if !ok || !reflect.DeepEqual(p.Value, v) {
			return false, nil
		}
	}
	return true, nil
}

// Clone returns a map in the same state whose entries can be changed
// independently. A compressed map is cloned by copying its buffer, without
// decompressing; an expanded clone shares nested values with m.
func (m *Map) Clone() *Map {
	out := &Map{
		opts:   m.opts,
		log:    m.logger(),
		level:  m.level,
		length: m.length,
	}
	if m.IsCompressed() {
		out.zdata = bytes.Clone(m.zdata)
		return out
	}
	out.data = codec.Clone(m.view())
	return out
}
