// Package sample reads and writes fixed-width integer samples stored in byte
// buffers.
//
// A sample occupies 1, 2, 3 or 4 bytes depending on its bit width, in either
// most significant byte first (MSB) or least significant byte first order.
// The codec selects one Accessor per stream and uses it for every sample, so
// the width and byte order checks happen once.
package sample

import (
	"fmt"

	"github.com/arloliu/aec/endian"
	"github.com/arloliu/aec/errs"
)

// Accessor reads and writes samples of one storage width and byte order.
type Accessor interface {
	// Size returns the number of bytes one sample occupies.
	Size() int
	// Get reads one sample from the start of b.
	Get(b []byte) uint32
	// Put writes the low Size()*8 bits of v to the start of b.
	Put(b []byte, v uint32)
	// GetRSI reads len(dst) consecutive samples from src.
	GetRSI(dst []uint32, src []byte)
	// PutRSI writes len(src) consecutive samples to dst.
	PutRSI(dst []byte, src []uint32)
}

// BytesPerSample returns the storage width in bytes of a bitsPerSample-wide
// sample. Samples wider than 16 bits take 3 bytes only when threeByte is set
// and the width is at most 24 bits.
func BytesPerSample(bitsPerSample int, threeByte bool) int {
	switch {
	case bitsPerSample > 16:
		if bitsPerSample <= 24 && threeByte {
			return 3
		}

		return 4
	case bitsPerSample > 8:
		return 2
	default:
		return 1
	}
}

// New returns the accessor for the given storage width and byte order.
//
// Parameters:
//   - bytesPerSample: Storage width, one of 1, 2, 3 or 4
//   - msb: True for most significant byte first
//
// Returns:
//   - Accessor: The accessor for this layout
//   - error: errs.ErrConfig if the width is not supported
func New(bytesPerSample int, msb bool) (Accessor, error) {
	switch bytesPerSample {
	case 1:
		return accessor8{}, nil
	case 2:
		return accessor16{engine: endian.ForMSB(msb)}, nil
	case 3:
		return accessor24{msb: msb}, nil
	case 4:
		return accessor32{engine: endian.ForMSB(msb)}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported sample width %d bytes", errs.ErrConfig, bytesPerSample)
	}
}

type accessor8 struct{}

func (accessor8) Size() int { return 1 }

func (accessor8) Get(b []byte) uint32 { return uint32(b[0]) }

func (accessor8) Put(b []byte, v uint32) { b[0] = byte(v) }

func (accessor8) GetRSI(dst []uint32, src []byte) {
	src = src[:len(dst)]
	for i, b := range src {
		dst[i] = uint32(b)
	}
}

func (accessor8) PutRSI(dst []byte, src []uint32) {
	dst = dst[:len(src)]
	for i, v := range src {
		dst[i] = byte(v)
	}
}

type accessor16 struct {
	engine endian.EndianEngine
}

func (accessor16) Size() int { return 2 }

func (a accessor16) Get(b []byte) uint32 { return uint32(a.engine.Uint16(b)) }

func (a accessor16) Put(b []byte, v uint32) { a.engine.PutUint16(b, uint16(v)) }

func (a accessor16) GetRSI(dst []uint32, src []byte) {
	src = src[:2*len(dst)]
	for i := range dst {
		dst[i] = uint32(a.engine.Uint16(src[2*i:]))
	}
}

func (a accessor16) PutRSI(dst []byte, src []uint32) {
	dst = dst[:2*len(src)]
	for i, v := range src {
		a.engine.PutUint16(dst[2*i:], uint16(v))
	}
}

type accessor24 struct {
	msb bool
}

func (accessor24) Size() int { return 3 }

func (a accessor24) Get(b []byte) uint32 { return endian.Uint24(b, a.msb) }

func (a accessor24) Put(b []byte, v uint32) { endian.PutUint24(b, v, a.msb) }

func (a accessor24) GetRSI(dst []uint32, src []byte) {
	src = src[:3*len(dst)]
	for i := range dst {
		dst[i] = endian.Uint24(src[3*i:], a.msb)
	}
}

func (a accessor24) PutRSI(dst []byte, src []uint32) {
	dst = dst[:3*len(src)]
	for i, v := range src {
		endian.PutUint24(dst[3*i:], v, a.msb)
	}
}

type accessor32 struct {
	engine endian.EndianEngine
}

func (accessor32) Size() int { return 4 }

func (a accessor32) Get(b []byte) uint32 { return a.engine.Uint32(b) }

func (a accessor32) Put(b []byte, v uint32) { a.engine.PutUint32(b, v) }

func (a accessor32) GetRSI(dst []uint32, src []byte) {
	src = src[:4*len(dst)]
	for i := range dst {
		dst[i] = a.engine.Uint32(src[4*i:])
	}
}

func (a accessor32) PutRSI(dst []byte, src []uint32) {
	dst = dst[:4*len(src)]
	for i, v := range src {
		a.engine.PutUint32(dst[4*i:], v)
	}
}
