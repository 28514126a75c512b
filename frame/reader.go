package frame

import (
	"fmt"
	"io"

	"github.com/arloliu/aec/codec"
	"github.com/arloliu/aec/compress"
	"github.com/arloliu/aec/errs"
	"github.com/arloliu/aec/format"
	"github.com/arloliu/aec/internal/hash"
	"github.com/arloliu/aec/internal/pool"
	"github.com/pkg/errors"
)

// Reader decodes the raw samples of consecutive frames.
//
// Each frame is read and decompressed whole, then decoded incrementally into
// the buffers passed to Read. The checksum of a frame is verified once its
// last sample has been returned. Read returns io.EOF at a frame boundary when
// the underlying reader is exhausted.
//
// A Reader is not safe for concurrent use.
type Reader struct {
	r      io.Reader
	header Header

	dec     *codec.Decoder
	stored  *pool.ByteBuffer
	coded   *pool.ByteBuffer
	in      codec.Input
	digest  *hash.Digest
	size    int
	remain  uint64 // raw bytes left in the current frame
	scratch [4]byte
	pending []byte // decoded bytes of a split sample not yet returned
	frames  int

	inFrame bool
	err     error
}

// NewReader returns a Reader for the frames in r.
func NewReader(r io.Reader) *Reader {
	return &Reader{
		r:      r,
		digest: hash.NewDigest(),
	}
}

// Header returns the header of the frame being read, or of the last frame
// once it has been consumed.
func (r *Reader) Header() Header {
	return r.header
}

// Frames returns the number of frames read completely.
func (r *Reader) Frames() int {
	return r.frames
}

// Read fills p with decoded sample bytes.
//
// Returns:
//   - int: Number of bytes placed in p
//   - error: io.EOF after the last frame, errs.ErrChecksumMismatch,
//     errs.ErrUnexpectedEOF for truncated frames, header errors from Parse,
//     or errs.ErrData for corrupt coded data
func (r *Reader) Read(p []byte) (int, error) {
	if r.err != nil {
		return 0, r.err
	}
	if len(p) == 0 {
		return 0, nil
	}

	if len(r.pending) > 0 {
		n := copy(p, r.pending)
		r.pending = r.pending[n:]

		return n, r.finishFrame()
	}

	for !r.inFrame || r.remain == 0 {
		if r.inFrame {
			if err := r.finishFrame(); err != nil {
				return 0, err
			}
		}
		if err := r.nextFrame(); err != nil {
			r.err = err
			return 0, err
		}
	}

	n := min(uint64(len(p)), r.remain)
	if n < uint64(r.size) {
		got, err := r.decode(r.scratch[:r.size])
		if err != nil {
			return 0, err
		}
		k := copy(p, got)
		r.pending = got[k:]

		return k, r.finishFrame()
	}

	n -= n % uint64(r.size)
	got, err := r.decode(p[:n])
	if err != nil {
		return 0, err
	}

	return len(got), r.finishFrame()
}

// decode fills dst completely from the current frame.
func (r *Reader) decode(dst []byte) ([]byte, error) {
	out := &codec.Output{Buf: dst}
	if err := r.dec.Decode(&r.in, out, codec.Flush); err != nil {
		r.err = err
		return nil, err
	}
	if out.Pos < len(dst) {
		r.err = fmt.Errorf("%w: coded data ends %d bytes short of the frame's %d samples",
			errs.ErrUnexpectedEOF, r.remain-uint64(out.Pos), r.header.SampleCount)

		return nil, r.err
	}

	got := out.Bytes()
	_, _ = r.digest.Write(got)
	r.remain -= uint64(len(got))

	return got, nil
}

// finishFrame verifies the checksum once every byte of the frame, including
// a split sample, has been returned.
func (r *Reader) finishFrame() error {
	if !r.inFrame || r.remain > 0 || len(r.pending) > 0 {
		return nil
	}
	r.inFrame = false
	r.closeDecoder()

	if sum := r.digest.Sum64(); sum != r.header.Checksum {
		r.err = fmt.Errorf("%w: frame %d has %#016x, header says %#016x",
			errs.ErrChecksumMismatch, r.frames, sum, r.header.Checksum)

		return r.err
	}
	r.frames++

	return nil
}

func (r *Reader) nextFrame() error {
	var buf [HeaderSize]byte
	if _, err := io.ReadFull(r.r, buf[:]); err != nil {
		if errors.Is(err, io.EOF) {
			r.release()
			return io.EOF
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return errors.Wrapf(errs.ErrUnexpectedEOF, "frame %d header", r.frames)
		}

		return errors.WithStack(err)
	}

	if err := r.header.Parse(buf[:]); err != nil {
		return errors.Wrapf(err, "frame %d header", r.frames)
	}

	if r.stored == nil {
		r.stored = pool.GetFrameBuffer()
	}
	r.stored.Reset()
	// The buffer grows as payload bytes arrive, not by the header's claim.
	if _, err := io.CopyN(r.stored, r.r, int64(r.header.StoredLength)); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return errors.Wrapf(errs.ErrUnexpectedEOF, "frame %d payload", r.frames)
		}

		return errors.WithStack(err)
	}

	coded := r.stored.B
	if r.header.Compression != format.CompressionNone {
		c, err := compress.GetCodec(r.header.Compression)
		if err != nil {
			return err
		}
		if r.coded == nil {
			r.coded = pool.GetFrameBuffer()
		}
		r.coded.B, err = c.Decompress(r.coded.B[:0], coded, int(r.header.CodedLength))
		if err != nil {
			return errors.Wrapf(err, "frame %d payload", r.frames)
		}
		coded = r.coded.B
	}

	dec, err := codec.NewDecoder(codec.WithConfig(r.header.Config()))
	if err != nil {
		return err
	}

	r.dec = dec
	r.in = codec.Input{Buf: coded}
	r.size = r.header.Config().BytesPerSample()
	r.remain = r.header.RawLength()
	r.digest.Reset()
	r.inFrame = true

	return nil
}

func (r *Reader) closeDecoder() {
	if r.dec != nil {
		r.dec.Close()
		r.dec = nil
	}
}

func (r *Reader) release() {
	r.closeDecoder()
	if r.stored != nil {
		pool.PutFrameBuffer(r.stored)
		r.stored = nil
	}
	if r.coded != nil {
		pool.PutFrameBuffer(r.coded)
		r.coded = nil
	}
}

// Close releases the pooled buffers. It does not close the underlying
// io.Reader.
func (r *Reader) Close() error {
	r.release()
	if r.err == nil {
		r.err = errs.ErrStream
	}

	return nil
}
