package compress

import (
	"fmt"

	"github.com/arloliu/aec/errs"
	"github.com/arloliu/aec/format"
)

// Compressor applies a general purpose compressor to a coded frame payload.
type Compressor interface {
	// Compress appends the compressed form of src to dst and returns the
	// extended slice. src is not modified.
	Compress(dst, src []byte) ([]byte, error)
}

// Decompressor reverses a Compressor.
type Decompressor interface {
	// Decompress appends the decompressed form of src to dst. size is the
	// exact decompressed length recorded by the writer; any other length is
	// reported as errs.ErrUnexpectedEOF.
	Decompress(dst, src []byte, size int) ([]byte, error)
}

// Codec combines both directions. All built-in codecs are safe for
// concurrent use.
type Codec interface {
	Compressor
	Decompressor
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
}

// GetCodec returns the built-in Codec for compressionType.
//
// Parameters:
//   - compressionType: One of the format.Compression* constants
//
// Returns:
//   - Codec: The shared codec instance
//   - error: errs.ErrUnsupportedCompression for unknown types
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedCompression, compressionType)
}

func checkSize(name string, got, want int) error {
	if got != want {
		return fmt.Errorf("%w: %s payload decompressed to %d bytes, want %d", errs.ErrUnexpectedEOF, name, got, want)
	}

	return nil
}
