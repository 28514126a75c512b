package compress

// ZstdCompressor uses Zstandard frames. The implementation is
// github.com/klauspost/compress/zstd unless the module is built with the
// gozstd tag and cgo, which selects github.com/valyala/gozstd.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// zstdLevel is the compression level used by both implementations.
const zstdLevel = 3

// NewZstdCompressor returns the Zstandard codec.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
