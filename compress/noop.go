package compress

// NoOpCompressor stores payloads unchanged.
type NoOpCompressor struct{}

var _ Codec = (*NoOpCompressor)(nil)

// NewNoOpCompressor returns the pass-through codec.
func NewNoOpCompressor() NoOpCompressor {
	return NoOpCompressor{}
}

// Compress appends src to dst.
func (c NoOpCompressor) Compress(dst, src []byte) ([]byte, error) {
	return append(dst, src...), nil
}

// Decompress appends src to dst after checking its length.
func (c NoOpCompressor) Decompress(dst, src []byte, size int) ([]byte, error) {
	if err := checkSize("stored", len(src), size); err != nil {
		return dst, err
	}

	return append(dst, src...), nil
}
