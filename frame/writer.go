package frame

import (
	"fmt"
	"io"
	"math"

	"github.com/arloliu/aec/codec"
	"github.com/arloliu/aec/compress"
	"github.com/arloliu/aec/errs"
	"github.com/arloliu/aec/format"
	"github.com/arloliu/aec/internal/hash"
	"github.com/arloliu/aec/internal/options"
	"github.com/arloliu/aec/internal/pool"
	"github.com/pkg/errors"
)

// Writer encodes raw samples into a single frame.
//
// Samples are entropy coded as they are written; the coded stream is held in
// memory until Close, which completes the stream, compresses it and writes
// the header followed by the payload. Several frames may be written back to
// back to the same io.Writer, each by its own Writer.
//
// A Writer is not safe for concurrent use.
type Writer struct {
	w      io.Writer
	opts   WriterOptions
	header Header

	enc    *codec.Encoder
	comp   compress.Codec
	coded  *pool.ByteBuffer
	digest *hash.Digest

	size    int    // bytes per sample
	chunk   int    // multiple of size
	tail    []byte // partial sample carried to the next Write
	samples uint64

	closed bool
	err    error
}

// NewWriter returns a Writer that writes one frame coded with cfg to w.
//
// Parameters:
//   - w: Destination of the frame
//   - cfg: Codec parameters, validated here
//   - opts: WithCompression, WithChunkSize
//
// Returns:
//   - *Writer: The frame writer
//   - error: errs.ErrConfig or errs.ErrUnsupportedCompression wrapped errors
//
// Example:
//
//	fw, err := frame.NewWriter(f, cfg, frame.WithCompression(format.CompressionZstd))
//	if err != nil {
//	    return err
//	}
//	if _, err := fw.Write(samples); err != nil {
//	    return err
//	}
//	return fw.Close()
func NewWriter(w io.Writer, cfg codec.Config, opts ...Option) (*Writer, error) {
	o := defaultWriterOptions()
	if err := options.Apply(&o, opts...); err != nil {
		return nil, err
	}

	c, err := compress.GetCodec(o.Compression)
	if err != nil {
		return nil, err
	}

	enc, err := codec.NewEncoder(codec.WithConfig(cfg))
	if err != nil {
		return nil, err
	}

	size := cfg.BytesPerSample()
	fw := &Writer{
		w:      w,
		opts:   o,
		header: NewHeader(cfg, o.Compression),
		enc:    enc,
		comp:   c,
		coded:  pool.GetFrameBuffer(),
		digest: hash.NewDigest(),
		size:   size,
		chunk:  max(o.ChunkSize-o.ChunkSize%size, size),
		tail:   make([]byte, 0, size),
	}

	return fw, nil
}

// Write encodes p. Bytes that do not complete a sample are kept until the
// next Write.
func (w *Writer) Write(p []byte) (int, error) {
	if w.closed {
		return 0, errs.ErrWriterClosed
	}
	if w.err != nil {
		return 0, w.err
	}

	n := len(p)
	_, _ = w.digest.Write(p)

	if len(w.tail) > 0 {
		need := w.size - len(w.tail)
		if len(p) < need {
			w.tail = append(w.tail, p...)
			return n, nil
		}
		w.tail = append(w.tail, p[:need]...)
		p = p[need:]
		if err := w.encode(w.tail, codec.NoFlush); err != nil {
			return 0, err
		}
		w.tail = w.tail[:0]
	}

	whole := len(p) - len(p)%w.size
	for off := 0; off < whole; off += w.chunk {
		if err := w.encode(p[off:min(off+w.chunk, whole)], codec.NoFlush); err != nil {
			return 0, err
		}
	}
	w.tail = append(w.tail, p[whole:]...)

	return n, nil
}

func (w *Writer) encode(data []byte, flush codec.FlushMode) error {
	if flush == codec.NoFlush {
		w.samples += uint64(len(data) / w.size)
		if w.samples > math.MaxUint32 {
			w.err = fmt.Errorf("%w: frame exceeds %d samples", errs.ErrFrameTooLarge, uint32(math.MaxUint32))
			return w.err
		}
	}

	in := &codec.Input{Buf: data}
	for {
		w.coded.Grow(max(len(data), 4096))
		out := &codec.Output{Buf: w.coded.Free()}
		if err := w.enc.Encode(in, out, flush); err != nil {
			w.err = err
			return err
		}
		w.coded.SetLength(w.coded.Len() + out.Pos)

		if flush == codec.Flush {
			if w.enc.Done() {
				break
			}
		} else if in.Avail() == 0 {
			break
		}
	}

	if uint64(w.coded.Len()) > math.MaxUint32 {
		w.err = fmt.Errorf("%w: coded frame exceeds %d bytes", errs.ErrFrameTooLarge, uint32(math.MaxUint32))
		return w.err
	}

	return nil
}

// Close completes the frame and writes it. The underlying io.Writer is not
// closed. Calling Close again returns nil.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	defer w.release()

	if w.err != nil {
		return w.err
	}
	if len(w.tail) > 0 {
		return fmt.Errorf("%w: %d trailing bytes do not form a sample", errs.ErrStream, len(w.tail))
	}

	if err := w.encode(nil, codec.Flush); err != nil {
		return err
	}

	coded := w.coded.Bytes()
	stored := coded
	var compressed *pool.ByteBuffer
	if w.opts.Compression != format.CompressionNone {
		compressed = pool.GetFrameBuffer()
		defer pool.PutFrameBuffer(compressed)

		var err error
		compressed.B, err = w.comp.Compress(compressed.B[:0], coded)
		if err != nil {
			return errors.Wrapf(err, "compress frame payload with %s", w.opts.Compression)
		}
		stored = compressed.B
		if uint64(len(stored)) > math.MaxUint32 {
			return fmt.Errorf("%w: stored frame exceeds %d bytes", errs.ErrFrameTooLarge, uint32(math.MaxUint32))
		}
	}

	w.header.SampleCount = uint32(w.samples)
	w.header.CodedLength = uint32(len(coded))
	w.header.StoredLength = uint32(len(stored))
	w.header.Checksum = w.digest.Sum64()

	if _, err := w.w.Write(w.header.Bytes()); err != nil {
		return errors.WithStack(err)
	}
	if _, err := w.w.Write(stored); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

func (w *Writer) release() {
	if w.enc != nil {
		w.enc.Close()
	}
	if w.coded != nil {
		pool.PutFrameBuffer(w.coded)
		w.coded = nil
	}
}

// Header returns the frame header. Sizes and checksum are set once Close
// has succeeded.
func (w *Writer) Header() Header {
	return w.header
}

// Stats returns the code option counters of the underlying encoder.
func (w *Writer) Stats() codec.EncoderStats {
	return w.enc.Stats()
}
