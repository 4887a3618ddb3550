// Package compactwire frames a sealed map buffer for transport or storage.
//
// Layout (little endian):
//
//	magic   2B  "ZD"
//	version 1B
//	flags   1B
//	length  4B  whole frame, CRC included
//	name    varint length + compressor name
//	level   zigzag varint
//	count   varint entry count
//	payload compressed serialized mapping, up to the CRC
//	crc     4B  CRC-32 (IEEE) of everything after the magic
package compactwire

import "errors"

const (
	Magic0  = 'Z'
	Magic1  = 'D'
	Version = 1

	// FlagCompressed marks a frame taken from a map in the compressed state.
	FlagCompressed = 0x01

	preambleSize = 4 // magic + version + flags
	headerSize   = preambleSize + 4
	crcSize      = 4
)

var (
	ErrShortFrame  = errors.New("frame too short")
	ErrBadMagic    = errors.New("bad frame magic")
	ErrBadVersion  = errors.New("unsupported frame version")
	ErrLength      = errors.New("frame length mismatch")
	ErrCRCMismatch = errors.New("crc mismatch")
	ErrMalformed   = errors.New("malformed frame field")
)

// Frame is the decoded form of a sealed map.
type Frame struct {
	Flags      byte
	Compressor string
	Level      int
	Count      int
	Payload    []byte
}

// Compressed reports whether FlagCompressed is set.
func (f Frame) Compressed() bool { return f.Flags&FlagCompressed != 0 }
