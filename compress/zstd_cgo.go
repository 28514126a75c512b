//go:build gozstd && cgo

package compress

import (
	"fmt"

	"github.com/valyala/gozstd"
)

// Compress appends the Zstandard frame of src to dst.
func (c ZstdCompressor) Compress(dst, src []byte) ([]byte, error) {
	return gozstd.CompressLevel(dst, src, zstdLevel), nil
}

// Decompress appends the decoded Zstandard frame src to dst.
func (c ZstdCompressor) Decompress(dst, src []byte, size int) ([]byte, error) {
	if len(src) == 0 {
		return dst, checkSize("zstd", 0, size)
	}

	start := len(dst)
	out, err := gozstd.Decompress(dst, src)
	if err != nil {
		return dst, fmt.Errorf("zstd decompression failed: %w", err)
	}
	if err := checkSize("zstd", len(out)-start, size); err != nil {
		return out[:start], err
	}

	return out, nil
}
