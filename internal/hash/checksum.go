// Package hash computes the frame checksum, xxHash64 with seed 0.
package hash

import "github.com/cespare/xxhash/v2"

// Sum returns the checksum of data.
func Sum(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// Digest accumulates a checksum over data written in pieces.
type Digest struct {
	d *xxhash.Digest
}

// NewDigest returns an empty Digest.
func NewDigest() *Digest {
	return &Digest{d: xxhash.New()}
}

// Write adds p to the checksum. It never fails.
func (d *Digest) Write(p []byte) (int, error) {
	return d.d.Write(p)
}

// Sum64 returns the checksum of everything written so far.
func (d *Digest) Sum64() uint64 {
	return d.d.Sum64()
}

// Reset clears the Digest for reuse.
func (d *Digest) Reset() {
	d.d.Reset()
}
