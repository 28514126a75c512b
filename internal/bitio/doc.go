// Package bitio implements the MSB-first bit writer and reader used by the
// adaptive entropy coder.
//
// Both types work on a caller supplied byte window that can be swapped between
// calls with Bind, while the partially filled byte (writer) or the bit
// accumulator (reader) survives the swap. This is what lets the codec suspend
// at any buffer boundary and resume on the next call.
//
// The reader offers two sets of primitives:
//   - Ask/Get/Drop and AskFS/FS/DropFS never read past the window and report
//     exhaustion by returning false, so callers can suspend and retry.
//   - DirectGet and DirectFS assume the window holds enough data. If it does
//     not, they return zeros and record an overrun that the caller checks with
//     Overrun.
package bitio
