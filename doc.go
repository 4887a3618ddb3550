// Package zdict provides Map, a string-keyed map that can be held either
// expanded in memory or as a compressed serialized buffer.
//
// A compressed Map keeps only the buffer and its entry count. Reads
// inflate a transient copy; writes inflate, apply the change and reseal at
// the level the buffer was created with, so the map stays compressed.
// Len never inflates.
//
//	m, _ := zdict.New(map[string]any{"a": 1, "b": 2}, zdict.Options{})
//	_ = m.CompressLevel(compression.BestCompression)
//	_ = m.Set("c", 3)
//	v, _ := m.Get("c") // 3.0, still compressed
//
// Values are stored in their serialized shape: numbers read back as
// float64, objects as map[string]any and arrays as []any, whatever the
// state. Keys must be valid UTF-8, and integers that float64 cannot hold
// exactly are rejected with ErrCodec rather than rounded.
//
// Compressors live in pkg/compression (zlib by default, plus gzip, flate,
// zstd and snappy); the serialized form comes from pkg/codec. A Map is not
// safe for concurrent use.
package zdict
