package compress

import (
	"slices"
	"sync"

	"github.com/pierrec/lz4/v4"
)

var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

// LZ4Compressor uses the raw LZ4 block format. The block carries no length,
// so decompression relies on the size stored in the frame header.
type LZ4Compressor struct{}

var _ Codec = (*LZ4Compressor)(nil)

// NewLZ4Compressor returns the LZ4 codec.
func NewLZ4Compressor() LZ4Compressor {
	return LZ4Compressor{}
}

// Compress appends the LZ4 block encoding of src to dst. An empty src
// produces no bytes.
func (c LZ4Compressor) Compress(dst, src []byte) ([]byte, error) {
	if len(src) == 0 {
		return dst, nil
	}

	bound := lz4.CompressBlockBound(len(src))
	start := len(dst)
	dst = slices.Grow(dst, bound)

	lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	n, err := lc.CompressBlock(src, dst[start:start+bound])
	if err != nil {
		return dst[:start], err
	}

	return dst[:start+n], nil
}

// Decompress appends the decoded LZ4 block src, exactly size bytes, to dst.
func (c LZ4Compressor) Decompress(dst, src []byte, size int) ([]byte, error) {
	if size == 0 {
		return dst, checkSize("lz4", len(src), 0)
	}

	start := len(dst)
	dst = slices.Grow(dst, size)
	n, err := lz4.UncompressBlock(src, dst[start:start+size])
	if err != nil {
		return dst[:start], err
	}
	if err := checkSize("lz4", n, size); err != nil {
		return dst[:start], err
	}

	return dst[:start+n], nil
}
