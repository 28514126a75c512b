// Package errs defines the sentinel errors returned by the aec packages.
//
// Callers should compare with errors.Is, since most errors are wrapped with
// additional context before they are returned.
package errs

import "errors"

// Stream-level errors returned by the codec package.
var (
	// ErrConfig is returned when an encoder or decoder is created with an
	// invalid parameter combination.
	ErrConfig = errors.New("aec: invalid configuration")
	// ErrStream is returned when a stream is driven into an impossible state,
	// such as feeding input after the final flush.
	ErrStream = errors.New("aec: stream error")
	// ErrData is returned when coded input is corrupt.
	ErrData = errors.New("aec: corrupt coded data")
	// ErrMem is returned when the output window passed to Decode is too
	// small to hold a single sample.
	ErrMem = errors.New("aec: output buffer too small")
)

// Frame-level errors returned by the frame package.
var (
	ErrInvalidHeaderSize      = errors.New("invalid header size")
	ErrInvalidMagicNumber     = errors.New("invalid magic number")
	ErrInvalidHeaderFlags     = errors.New("invalid header flags")
	ErrUnsupportedVersion     = errors.New("unsupported frame version")
	ErrChecksumMismatch       = errors.New("checksum mismatch")
	ErrUnexpectedEOF          = errors.New("unexpected end of frame")
	ErrUnsupportedCompression = errors.New("unsupported compression type")
	ErrWriterClosed           = errors.New("writer already closed")
	ErrFrameTooLarge          = errors.New("frame exceeds size limits")
)
