package compression

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
)

// Zlib is the default compressor: deflate with the RFC 1950 header and
// Adler-32 trailer.
type Zlib struct{}

func (Zlib) Name() string { return "zlib" }

func (Zlib) Compress(src []byte, level int) ([]byte, error) {
	if err := checkLevel(level); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, level)
	if err != nil {
		return nil, err
	}
	return finish(&buf, w, src)
}

func (Zlib) Decompress(src []byte, limit int) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	defer r.Close()
	return readLimited(r, limit)
}

// Gzip wraps deflate in the RFC 1952 container.
type Gzip struct{}

func (Gzip) Name() string { return "gzip" }

func (Gzip) Compress(src []byte, level int) ([]byte, error) {
	if err := checkLevel(level); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	w, err := gzip.NewWriterLevel(&buf, level)
	if err != nil {
		return nil, err
	}
	return finish(&buf, w, src)
}

func (Gzip) Decompress(src []byte, limit int) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	defer r.Close()
	return readLimited(r, limit)
}

// Flate is raw deflate without framing or checksum.
type Flate struct{}

func (Flate) Name() string { return "flate" }

func (Flate) Compress(src []byte, level int) ([]byte, error) {
	if err := checkLevel(level); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, level)
	if err != nil {
		return nil, err
	}
	return finish(&buf, w, src)
}

func (Flate) Decompress(src []byte, limit int) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(src))
	defer r.Close()
	return readLimited(r, limit)
}

func finish(buf *bytes.Buffer, w io.WriteCloser, src []byte) ([]byte, error) {
	if _, err := w.Write(src); err != nil {
		w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
