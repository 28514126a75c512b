package frame

import (
	"fmt"

	"github.com/arloliu/aec/compress"
	"github.com/arloliu/aec/errs"
	"github.com/arloliu/aec/format"
	"github.com/arloliu/aec/internal/options"
)

// DefaultChunkSize is the number of raw bytes handed to the encoder per call.
const DefaultChunkSize = 32 * 1024

// WriterOptions holds the Writer settings that are not codec parameters.
type WriterOptions struct {
	// Compression is applied to the coded stream before it is written.
	Compression format.CompressionType
	// ChunkSize bounds the raw input passed to one Encode call.
	ChunkSize int
}

// Option represents a functional option for configuring a Writer.
type Option = options.Option[*WriterOptions]

func defaultWriterOptions() WriterOptions {
	return WriterOptions{
		Compression: format.CompressionNone,
		ChunkSize:   DefaultChunkSize,
	}
}

// WithCompression selects the compressor applied to the frame payload.
//
// Parameters:
//   - compression: One of the format.Compression* constants
//
// Returns:
//   - Option: Fails with errs.ErrUnsupportedCompression for unknown types
func WithCompression(compression format.CompressionType) Option {
	return options.New(func(o *WriterOptions) error {
		if _, err := compress.GetCodec(compression); err != nil {
			return err
		}
		o.Compression = compression

		return nil
	})
}

// WithChunkSize sets how many raw bytes are encoded per step. It is rounded
// down to whole samples, but never below one sample.
func WithChunkSize(size int) Option {
	return options.New(func(o *WriterOptions) error {
		if size < 1 {
			return fmt.Errorf("%w: chunk size %d", errs.ErrConfig, size)
		}
		o.ChunkSize = size

		return nil
	})
}
