package codec

import (
	"bytes"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/goccy/go-json"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// JSON writes mappings as a single JSON object with keys in insertion
// order. Decoded values use the generic JSON model: float64, string, bool,
// nil, []any and map[string]any.
//
// Keys must be valid UTF-8 and integers must fit a float64 exactly;
// anything else would not survive a round trip unchanged and is rejected.
type JSON struct{}

func (JSON) Name() string { return "json" }

func (JSON) Marshal(m *Mapping) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if m != nil {
		first := true
		for p := m.Oldest(); p != nil; p = p.Next() {
			if err := CheckKey(p.Key); err != nil {
				return nil, err
			}
			k, err := json.Marshal(p.Key)
			if err != nil {
				return nil, fmt.Errorf("%w: key %q: %w", ErrUnsupported, p.Key, err)
			}
			v, err := json.Marshal(p.Value)
			if err != nil {
				return nil, fmt.Errorf("%w: key %q: %w", ErrUnsupported, p.Key, err)
			}
			if !first {
				buf.WriteString(", ")
			}
			first = false
			buf.Write(k)
			buf.WriteString(": ")
			buf.Write(v)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (JSON) Unmarshal(data []byte) (*Mapping, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("%w: not a JSON object", ErrMalformed)
	}
	if !json.Valid(trimmed) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrMalformed)
	}
	// values stay raw so numbers can be checked before they become float64
	raw := orderedmap.New[string, json.RawMessage]()
	if err := raw.UnmarshalJSON(trimmed); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	m := orderedmap.New[string, any](orderedmap.WithCapacity[string, any](raw.Len()))
	for p := raw.Oldest(); p != nil; p = p.Next() {
		v, err := decodeValue(p.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: key %q: %w", ErrMalformed, p.Key, err)
		}
		m.Set(p.Key, v)
	}
	return m, nil
}

func (JSON) Canonical(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %T: %w", ErrUnsupported, v, err)
	}
	out, err := decodeValue(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %T: %w", ErrUnsupported, v, err)
	}
	return out, nil
}

// CheckKey rejects keys that JSON cannot carry unchanged.
func CheckKey(key string) error {
	if !utf8.ValidString(key) {
		return fmt.Errorf("%w: key %q is not valid UTF-8", ErrUnsupported, key)
	}
	return nil
}

func decodeValue(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return toFloats(v)
}

// toFloats replaces json.Number with float64, failing on integers that
// would be rounded.
func toFloats(v any) (any, error) {
	switch x := v.(type) {
	case json.Number:
		return exactFloat(string(x))
	case map[string]any:
		for k, e := range x {
			f, err := toFloats(e)
			if err != nil {
				return nil, err
			}
			x[k] = f
		}
		return x, nil
	case []any:
		for i, e := range x {
			f, err := toFloats(e)
			if err != nil {
				return nil, err
			}
			x[i] = f
		}
		return x, nil
	default:
		return v, nil
	}
}

func exactFloat(lit string) (float64, error) {
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return 0, fmt.Errorf("number %s: %w", lit, err)
	}
	if strings.ContainsAny(lit, ".eE") {
		return f, nil
	}
	want, ok := new(big.Int).SetString(lit, 10)
	if !ok {
		return 0, fmt.Errorf("number %s: not an integer", lit)
	}
	got, acc := new(big.Float).SetFloat64(f).Int(nil)
	if acc != big.Exact || got.Cmp(want) != 0 {
		return 0, fmt.Errorf("integer %s has no exact float64 form", lit)
	}
	return f, nil
}
