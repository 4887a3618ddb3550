package zdict

import (
	"fmt"
	"testing"

	"github.com/rawbytedev/zdict/pkg/compression"
)

func benchEntries(n int) []Entry {
	entries := make([]Entry, n)
	for i := range entries {
		entries[i] = Entry{Key: fmt.Sprintf("user:%05d", i), Value: map[string]any{
			"name":   "azerty",
			"visits": i,
			"tags":   []any{"hello", "world", "random"},
		}}
	}
	return entries
}

func benchMap(b *testing.B, n int, opts Options) *Map {
	b.Helper()
	m, err := New(benchEntries(n), opts)
	if err != nil {
		b.Fatal(err)
	}
	return m
}

func BenchmarkCompress(b *testing.B) {
	for _, name := range []string{"zlib", "zstd", "snappy"} {
		c, err := compression.Lookup(name)
		if err != nil {
			b.Fatal(err)
		}
		b.Run(name, func(b *testing.B) {
			m := benchMap(b, 256, Options{Compressor: c})
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if err := m.Compress(); err != nil {
					b.Fatal(err)
				}
				if _, err := m.Decompress(); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkGetCompressed(b *testing.B) {
	m := benchMap(b, 256, Options{Compress: true})
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := m.Get("user:00128"); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkGetExpanded(b *testing.B) {
	m := benchMap(b, 256, Options{})
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := m.Get("user:00128"); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSetCompressed(b *testing.B) {
	m := benchMap(b, 256, Options{Compress: true, Level: LevelOf(compression.BestSpeed)})
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := m.Set("counter", i); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkLenCompressed(b *testing.B) {
	m := benchMap(b, 256, Options{Compress: true})
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = m.Len()
	}
}

func BenchmarkMarshalBinary(b *testing.B) {
	m := benchMap(b, 256, Options{Compress: true})
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := m.MarshalBinary(); err != nil {
			b.Fatal(err)
		}
	}
}
