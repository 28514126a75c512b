package compress

import (
	"slices"

	"github.com/klauspost/compress/s2"
)

// S2Compressor uses the S2 block format, an extension of Snappy.
type S2Compressor struct{}

var _ Codec = (*S2Compressor)(nil)

// NewS2Compressor returns the S2 codec.
func NewS2Compressor() S2Compressor {
	return S2Compressor{}
}

// Compress appends the S2 block encoding of src to dst.
func (c S2Compressor) Compress(dst, src []byte) ([]byte, error) {
	n := s2.MaxEncodedLen(len(src))
	if n < 0 {
		return dst, s2.ErrTooLarge
	}

	start := len(dst)
	dst = slices.Grow(dst, n)
	encoded := s2.Encode(dst[start:start+n], src)

	return dst[:start+len(encoded)], nil
}

// Decompress appends the decoded S2 block src to dst.
func (c S2Compressor) Decompress(dst, src []byte, size int) ([]byte, error) {
	n, err := s2.DecodedLen(src)
	if err != nil {
		return dst, err
	}
	if err := checkSize("s2", n, size); err != nil {
		return dst, err
	}

	start := len(dst)
	dst = slices.Grow(dst, n)
	decoded, err := s2.Decode(dst[start:start+n], src)
	if err != nil {
		return dst[:start], err
	}

	return dst[:start+len(decoded)], nil
}
