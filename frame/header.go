package frame

import (
	"fmt"

	"github.com/arloliu/aec/codec"
	"github.com/arloliu/aec/endian"
	"github.com/arloliu/aec/errs"
	"github.com/arloliu/aec/format"
)

const (
	// HeaderSize is the encoded size of a Header in bytes.
	HeaderSize = 32

	// MagicNumber occupies bits 4-15 of the first header word; bits 0-3 hold
	// the version.
	MagicNumber     = 0xAEC0
	MagicNumberMask = 0xFFF0
	VersionMask     = 0x000F

	// Version is the only frame layout this package writes and reads.
	Version = 1
)

// Header describes one frame. It is stored little endian in front of the
// payload:
//
//	offset 0-1   magic number and version
//	offset 2     codec flags
//	offset 3     bits per sample
//	offset 4     block size
//	offset 5     payload compression
//	offset 6-7   RSI
//	offset 8-11  sample count
//	offset 12-15 coded length, the entropy coded stream before compression
//	offset 16-19 stored length, the payload as written after the header
//	offset 20-23 reserved, zero
//	offset 24-31 xxHash64 of the raw sample bytes
type Header struct {
	Flags         format.Flag
	BitsPerSample uint8
	BlockSize     uint8
	Compression   format.CompressionType
	RSI           uint16
	SampleCount   uint32
	CodedLength   uint32
	StoredLength  uint32
	Checksum      uint64
}

// NewHeader returns a Header for a stream coded with cfg and compressed with
// compression. Sizes and checksum are filled in when the frame is complete.
func NewHeader(cfg codec.Config, compression format.CompressionType) Header {
	return Header{
		Flags:         cfg.Flags,
		BitsPerSample: uint8(cfg.BitsPerSample),
		BlockSize:     uint8(cfg.BlockSize),
		Compression:   compression,
		RSI:           uint16(cfg.RSI),
	}
}

// Config returns the codec parameters recorded in the header.
func (h Header) Config() codec.Config {
	return codec.Config{
		BitsPerSample: int(h.BitsPerSample),
		BlockSize:     int(h.BlockSize),
		RSI:           int(h.RSI),
		Flags:         h.Flags,
	}
}

// RawLength returns the size of the decoded samples in bytes.
func (h Header) RawLength() uint64 {
	return uint64(h.SampleCount) * uint64(h.Config().BytesPerSample())
}

// Validate checks the header fields that do not depend on the payload.
//
// Returns:
//   - error: errs.ErrInvalidHeaderFlags for unknown flag bits,
//     errs.ErrUnsupportedCompression for an unknown compression type, an
//     errs.ErrConfig wrapped error for invalid codec parameters, or
//     errs.ErrFrameTooLarge for a coded length the samples cannot reach
func (h Header) Validate() error {
	if h.Flags&^format.FlagMask != 0 {
		return fmt.Errorf("%w: %#x", errs.ErrInvalidHeaderFlags, uint8(h.Flags))
	}

	switch h.Compression {
	case format.CompressionNone, format.CompressionZstd, format.CompressionS2, format.CompressionLZ4:
	default:
		return fmt.Errorf("%w: %d", errs.ErrUnsupportedCompression, h.Compression)
	}
	if h.Compression == format.CompressionNone && h.StoredLength != h.CodedLength {
		return fmt.Errorf("%w: stored length %d differs from coded length %d without compression",
			errs.ErrInvalidHeaderFlags, h.StoredLength, h.CodedLength)
	}
	if err := h.Config().Validate(); err != nil {
		return err
	}
	if limit := h.MaxCodedLength(); uint64(h.CodedLength) > limit {
		return fmt.Errorf("%w: coded length %d, %d samples code to at most %d bytes",
			errs.ErrFrameTooLarge, h.CodedLength, h.SampleCount, limit)
	}

	return nil
}

// MaxCodedLength returns the longest coded stream the header's samples can
// produce: every block uncompressed, every RSI padded and one final byte.
// The header's codec parameters must be valid.
func (h Header) MaxCodedLength() uint64 {
	cfg := h.Config()
	blockSize := uint64(cfg.BlockSize)
	blocks := (uint64(h.SampleCount) + blockSize - 1) / blockSize
	rsis := (blocks + uint64(cfg.RSI) - 1) / uint64(cfg.RSI)
	bits := blocks*(uint64(cfg.IDLength())+blockSize*uint64(cfg.BitsPerSample)) + rsis*7

	return bits/8 + 1
}

// Bytes serializes the header.
func (h Header) Bytes() []byte {
	return h.AppendTo(make([]byte, 0, HeaderSize))
}

// AppendTo appends the serialized header to b.
func (h Header) AppendTo(b []byte) []byte {
	engine := endian.GetLittleEndianEngine()

	b = engine.AppendUint16(b, MagicNumber|Version)
	b = append(b, byte(h.Flags), h.BitsPerSample, h.BlockSize, byte(h.Compression))
	b = engine.AppendUint16(b, h.RSI)
	b = engine.AppendUint32(b, h.SampleCount)
	b = engine.AppendUint32(b, h.CodedLength)
	b = engine.AppendUint32(b, h.StoredLength)
	b = engine.AppendUint32(b, 0)
	b = engine.AppendUint64(b, h.Checksum)

	return b
}

// Parse decodes and validates a header.
//
// Parameters:
//   - data: Exactly HeaderSize bytes
//
// Returns:
//   - error: errs.ErrInvalidHeaderSize, errs.ErrInvalidMagicNumber,
//     errs.ErrUnsupportedVersion, or any error from Validate
func (h *Header) Parse(data []byte) error {
	if len(data) != HeaderSize {
		return errs.ErrInvalidHeaderSize
	}

	engine := endian.GetLittleEndianEngine()

	word := engine.Uint16(data[0:2])
	if word&MagicNumberMask != MagicNumber {
		return fmt.Errorf("%w: %#04x", errs.ErrInvalidMagicNumber, word)
	}
	if word&VersionMask != Version {
		return fmt.Errorf("%w: %d", errs.ErrUnsupportedVersion, word&VersionMask)
	}
	if engine.Uint32(data[20:24]) != 0 {
		return fmt.Errorf("%w: reserved bytes are set", errs.ErrInvalidHeaderFlags)
	}

	h.Flags = format.Flag(data[2])
	h.BitsPerSample = data[3]
	h.BlockSize = data[4]
	h.Compression = format.CompressionType(data[5])
	h.RSI = engine.Uint16(data[6:8])
	h.SampleCount = engine.Uint32(data[8:12])
	h.CodedLength = engine.Uint32(data[12:16])
	h.StoredLength = engine.Uint32(data[16:20])
	h.Checksum = engine.Uint64(data[24:32])

	return h.Validate()
}

// ParseHeader parses the header at the start of data.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, errs.ErrInvalidHeaderSize
	}

	var h Header
	if err := h.Parse(data[:HeaderSize]); err != nil {
		return Header{}, err
	}

	return h, nil
}
