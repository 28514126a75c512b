// Package compress provides the general purpose compressors that a frame can
// apply on top of adaptive entropy coding.
//
// Entropy coding removes the redundancy between neighbouring samples, but
// long repeated patterns across RSIs survive it. A byte-oriented compressor
// such as Zstandard can pick those up. Payloads are compressed one frame at a
// time and the frame header records the compressed and uncompressed sizes,
// so decompressors know the exact output length up front.
//
// Supported algorithms:
//   - None: payload stored as is
//   - Zstd: best ratio, moderate speed
//   - S2: balanced ratio and speed
//   - LZ4: fastest decompression
//
// Every codec appends to a caller supplied slice, which lets the frame
// writer and reader reuse pooled buffers:
//
//	c, err := compress.GetCodec(format.CompressionZstd)
//	if err != nil {
//	    return err
//	}
//	buf, err = c.Compress(buf[:0], payload)
//
// # Build tags
//
// Zstandard uses the pure Go github.com/klauspost/compress/zstd by default.
// Building with -tags gozstd and cgo enabled switches to the libzstd binding
// github.com/valyala/gozstd. Both produce standard Zstandard frames.
package compress
