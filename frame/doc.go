// Package frame wraps adaptive entropy coded streams in self-describing
// frames.
//
// A raw coded stream carries no parameters, sample count or integrity check.
// A frame adds a fixed 32-byte Header with the codec configuration, the
// number of samples, the payload sizes and an xxHash64 checksum of the raw
// samples. The payload can additionally be compressed with one of the
// algorithms in package compress.
//
// Writer implements io.WriteCloser and Reader implements io.Reader, so frames
// plug into ordinary io pipelines:
//
//	fw, err := frame.NewWriter(file, cfg, frame.WithCompression(format.CompressionZstd))
//	if err != nil {
//	    return err
//	}
//	if _, err := io.Copy(fw, samples); err != nil {
//	    return err
//	}
//	if err := fw.Close(); err != nil {
//	    return err
//	}
//
//	raw, err := io.ReadAll(frame.NewReader(file))
package frame
