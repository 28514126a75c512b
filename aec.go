// Package aec implements CCSDS 121.0 adaptive entropy coding, the lossless
// Rice-family compressor used for spacecraft and instrument telemetry.
//
// Samples of 1 to 32 bits are coded block by block. For every block the
// encoder chooses between a run of zero blocks, the second extension, Rice
// splitting with a per-block parameter, or the raw samples, whichever is
// shortest. An optional predictor turns slowly varying signals into small
// mapped residuals first.
//
// # Basic Usage
//
// One-shot coding of a buffer:
//
//	opts := []codec.Option{codec.WithBitsPerSample(12), codec.WithMSB(true)}
//	coded, err := aec.Compress(raw, opts...)
//	if err != nil {
//	    return err
//	}
//	restored, err := aec.Decompress(coded, len(raw), opts...)
//
// Framed streams that record their own parameters and checksum:
//
//	fw, err := aec.NewFrameWriter(file, cfg, frame.WithCompression(format.CompressionZstd))
//	...
//	raw, err := io.ReadAll(aec.NewFrameReader(file))
//
// # Package Structure
//
// This package provides top-level wrappers for the common cases. The codec
// package exposes the resumable Encoder and Decoder state machines, frame the
// container format, and compress the optional payload compressors.
package aec

import (
	"fmt"
	"io"

	"github.com/arloliu/aec/codec"
	"github.com/arloliu/aec/errs"
	"github.com/arloliu/aec/frame"
	"github.com/arloliu/aec/internal/hash"
)

// NewEncoder creates a streaming encoder.
//
// Parameters:
//   - opts: Codec options applied over codec.DefaultConfig
//
// Returns:
//   - *codec.Encoder: Encoder driven by repeated Encode calls
//   - error: errs.ErrConfig wrapped error for invalid parameters
func NewEncoder(opts ...codec.Option) (*codec.Encoder, error) {
	return codec.NewEncoder(opts...)
}

// NewDecoder creates a streaming decoder. The options must match the ones
// the stream was encoded with.
func NewDecoder(opts ...codec.Option) (*codec.Decoder, error) {
	return codec.NewDecoder(opts...)
}

// NewFrameWriter returns a frame writer coding with cfg into w.
//
// Parameters:
//   - w: Destination of the frame
//   - cfg: Codec parameters stored in the frame header
//   - opts: Frame options such as frame.WithCompression
//
// Returns:
//   - *frame.Writer: Writer to feed raw samples; Close writes the frame
//   - error: Configuration errors
func NewFrameWriter(w io.Writer, cfg codec.Config, opts ...frame.Option) (*frame.Writer, error) {
	return frame.NewWriter(w, cfg, opts...)
}

// NewFrameReader returns a reader over the frames in r.
func NewFrameReader(r io.Reader) *frame.Reader {
	return frame.NewReader(r)
}

// Compress codes raw in one call.
//
// Parameters:
//   - raw: Samples in the layout selected by opts; a trailing partial sample
//     is an error
//   - opts: Codec options applied over codec.DefaultConfig
//
// Returns:
//   - []byte: The coded stream, without any header
//   - error: Configuration or stream errors
func Compress(raw []byte, opts ...codec.Option) ([]byte, error) {
	enc, err := codec.NewEncoder(opts...)
	if err != nil {
		return nil, err
	}
	defer enc.Close()

	if size := enc.Config().BytesPerSample(); len(raw)%size != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a whole number of %d-byte samples", errs.ErrStream, len(raw), size)
	}

	in := &codec.Input{Buf: raw}
	out := &codec.Output{Buf: make([]byte, len(raw)/2+64)}
	for {
		if err := enc.Encode(in, out, codec.Flush); err != nil {
			return nil, err
		}
		if enc.Done() {
			return out.Bytes(), nil
		}

		grown := make([]byte, 2*len(out.Buf))
		copy(grown, out.Bytes())
		out.Buf = grown
	}
}

// Decompress decodes rawLen bytes of samples from coded.
//
// Returns:
//   - []byte: The samples
//   - error: errs.ErrData for corrupt input, errs.ErrUnexpectedEOF if coded
//     ends before rawLen bytes were produced
func Decompress(coded []byte, rawLen int, opts ...codec.Option) ([]byte, error) {
	dec, err := codec.NewDecoder(opts...)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	out := &codec.Output{Buf: make([]byte, rawLen)}
	if err := dec.Decode(&codec.Input{Buf: coded}, out, codec.Flush); err != nil {
		return nil, err
	}
	if out.Pos < rawLen {
		return nil, fmt.Errorf("%w: decoded %d of %d bytes", errs.ErrUnexpectedEOF, out.Pos, rawLen)
	}

	return out.Bytes(), nil
}

// Checksum returns the xxHash64 digest that frames store for raw samples.
func Checksum(raw []byte) uint64 {
	return hash.Sum(raw)
}
