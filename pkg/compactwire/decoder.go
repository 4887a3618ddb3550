package compactwire

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"

	"github.com/rawbytedev/zdict/internal/common"
)

// DecodeFrame parses and verifies data. The returned payload aliases data.
func DecodeFrame(data []byte) (Frame, error) {
	var f Frame
	if len(data) < headerSize+crcSize {
		return f, ErrShortFrame
	}
	if data[0] != Magic0 || data[1] != Magic1 {
		return f, ErrBadMagic
	}
	if data[2] != Version {
		return f, fmt.Errorf("%w: %d", ErrBadVersion, data[2])
	}
	length := binary.LittleEndian.Uint32(data[4:])
	if int(length) != len(data) {
		return f, fmt.Errorf("%w: header says %d, have %d", ErrLength, length, len(data))
	}
	end := len(data) - crcSize
	want := binary.LittleEndian.Uint32(data[end:])
	if crc32.ChecksumIEEE(data[2:end]) != want {
		return f, ErrCRCMismatch
	}
	f.Flags = data[3]

	body := data[headerSize:end]
	name, n, err := common.ReadBytes(body)
	if err != nil {
		return f, fmt.Errorf("%w: compressor: %w", ErrMalformed, err)
	}
	f.Compressor = string(name)
	body = body[n:]

	level, n, err := common.ReadVarInt(body)
	if err != nil {
		return f, fmt.Errorf("%w: level: %w", ErrMalformed, err)
	}
	f.Level = int(level)
	body = body[n:]

	count, n, err := common.ReadVarUint(body)
	if err != nil {
		return f, fmt.Errorf("%w: count: %w", ErrMalformed, err)
	}
	if count > uint64(len(data))*8 {
		// distinct keys cannot pack below one bit each
		return f, fmt.Errorf("%w: count %d", ErrMalformed, count)
	}
	f.Count = int(count)
	f.Payload = body[n:]
	return f, nil
}
