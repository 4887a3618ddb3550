package common

import "errors"

// ErrTruncated is returned when a varint runs past the end of the buffer.
var ErrTruncated = errors.New("truncated varint")

// MaxVarintLen is the longest encoding of a 64-bit varint.
const MaxVarintLen = 10

// WriteVarUint appends varint-encoded x to dst using a small stack scratch.
func WriteVarUint(dst []byte, x uint64) []byte {
	var scratch [MaxVarintLen]byte
	i := 0
	for x >= 0x80 {
		scratch[i] = byte(x) | 0x80
		x >>= 7
		i++
	}
	scratch[i] = byte(x)
	i++
	return append(dst, scratch[:i]...)
}

// ReadVarUint decodes a varint from b returning value and bytes consumed.
func ReadVarUint(b []byte) (uint64, int, error) {
	var x uint64
	var s uint
	for i, c := range b {
		if i == MaxVarintLen {
			return 0, 0, ErrTruncated
		}
		x |= uint64(c&0x7F) << s
		if c&0x80 == 0 {
			return x, i + 1, nil
		}
		s += 7
	}
	return 0, 0, ErrTruncated
}

// WriteVarInt zigzag-encodes x so small negative values stay short.
func WriteVarInt(dst []byte, x int64) []byte {
	ux := uint64(x) << 1
	if x < 0 {
		ux = ^ux
	}
	return WriteVarUint(dst, ux)
}

// ReadVarInt is the inverse of WriteVarInt.
func ReadVarInt(b []byte) (int64, int, error) {
	ux, n, err := ReadVarUint(b)
	if err != nil {
		return 0, 0, err
	}
	x := int64(ux >> 1)
	if ux&1 != 0 {
		x = ^x
	}
	return x, n, nil
}

// WriteBytes appends a uvarint length prefix followed by p.
func WriteBytes(dst []byte, p []byte) []byte {
	dst = WriteVarUint(dst, uint64(len(p)))
	return append(dst, p...)
}

// ReadBytes reads a length-prefixed slice. The result aliases b.
func ReadBytes(b []byte) ([]byte, int, error) {
	l, n, err := ReadVarUint(b)
	if err != nil {
		return nil, 0, err
	}
	end := n + int(l)
	if l > uint64(len(b)) || end > len(b) {
		return nil, 0, ErrTruncated
	}
	return b[n:end], end, nil
}
