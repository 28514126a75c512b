// Package endian provides the byte order helpers used by the sample accessors
// and the frame header.
//
// EndianEngine combines the ByteOrder and AppendByteOrder interfaces from
// encoding/binary so one value can both read fixed-width integers and append
// them to a buffer. Samples of 24 bits have no counterpart in encoding/binary
// and are handled by Uint24 and PutUint24.
//
// # Basic Usage
//
//	engine := endian.ForMSB(true) // big endian sample layout
//	v := engine.Uint16(buf)
//
// # Thread Safety
//
// All functions in this package are safe for concurrent use. The returned
// EndianEngine instances are immutable and stateless.
package endian

import "encoding/binary"

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from encoding/binary
// into a single interface for convenient byte order operations.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// ForMSB returns the big-endian engine when msb is true and the little-endian
// engine otherwise.
func ForMSB(msb bool) EndianEngine {
	if msb {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// Uint24 reads a 24-bit unsigned integer from the first three bytes of b.
func Uint24(b []byte, msb bool) uint32 {
	_ = b[2] // bounds check hint to compiler
	if msb {
		return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
	}

	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16
}

// PutUint24 stores the low 24 bits of v into the first three bytes of b.
func PutUint24(b []byte, v uint32, msb bool) {
	_ = b[2] // bounds check hint to compiler
	if msb {
		b[0] = byte(v >> 16)
		b[1] = byte(v >> 8)
		b[2] = byte(v)

		return
	}
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
}
