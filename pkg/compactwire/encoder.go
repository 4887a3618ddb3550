package compactwire

import (
	"encoding/binary"
	"hash/crc32"

	"github.com/rawbytedev/zdict/internal/common"
)

// EncodeFrame serializes f. The payload is copied, not aliased.
func EncodeFrame(f Frame) []byte {
	out := make([]byte, headerSize, headerSize+len(f.Compressor)+len(f.Payload)+24)
	out[0], out[1] = Magic0, Magic1
	out[2] = Version
	out[3] = f.Flags
	// out[4:8] is the length placeholder

	out = common.WriteBytes(out, []byte(f.Compressor))
	out = common.WriteVarInt(out, int64(f.Level))
	out = common.WriteVarUint(out, uint64(f.Count))
	out = append(out, f.Payload...)

	// fill in length (includes everything up to + including CRC)
	binary.LittleEndian.PutUint32(out[4:], uint32(len(out)+crcSize))

	crc := crc32.ChecksumIEEE(out[2:])
	out = binary.LittleEndian.AppendUint32(out, crc)
	return out
}
