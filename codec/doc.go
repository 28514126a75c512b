// Package codec implements the CCSDS 121.0 adaptive entropy coder.
//
// Samples of 1 to 32 bits are grouped into blocks of 8, 16, 32 or 64 and
// blocks into reference sample intervals (RSI). Each RSI optionally starts
// with a raw reference sample, after which every sample is replaced by its
// mapped difference to the previous one. For every block the Encoder picks
// the shortest of four code options: a run of all-zero blocks, the second
// extension, Rice sample splitting with parameter k, or the raw samples.
//
// Both Encoder and Decoder are streaming state machines. They work on caller
// supplied Input and Output windows, suspend when either runs out and resume
// exactly where they stopped on the next call:
//
//	enc, err := codec.NewEncoder(codec.WithBitsPerSample(12), codec.WithMSB(true))
//	if err != nil {
//	    return err
//	}
//	defer enc.Close()
//
//	in := &codec.Input{Buf: raw}
//	out := &codec.Output{Buf: make([]byte, 2*len(raw)+64)}
//	for !enc.Done() {
//	    if err := enc.Encode(in, out, codec.Flush); err != nil {
//	        return err
//	    }
//	    // drain or grow out.Buf here
//	}
//
// The coded stream carries no header. The decoder must be created with the
// same Config as the encoder, and the caller tracks how many samples to
// expect.
package codec
