package bitio

import "math/bits"

// Reader extracts bit fields most significant bit first from a byte window.
type Reader struct {
	buf     []byte
	pos     int
	acc     uint64
	bitp    int    // valid low bits in acc
	fs      uint32 // zeros counted by an unfinished AskFS
	overrun bool
}

// NewReader returns a Reader bound to buf.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Reset drops all buffered bits and binds buf.
func (r *Reader) Reset(buf []byte) {
	*r = Reader{buf: buf}
}

// Bind switches input to buf, keeping the buffered bits.
func (r *Reader) Bind(buf []byte) {
	r.buf = buf
	r.pos = 0
}

// Pos returns the number of bytes consumed from the bound window.
func (r *Reader) Pos() int {
	return r.pos
}

// Avail returns the number of bytes left in the bound window.
func (r *Reader) Avail() int {
	return len(r.buf) - r.pos
}

// buffered returns the number of bits held in the accumulator.
func (r *Reader) buffered() int {
	return r.bitp
}

// Overrun reports whether a direct read ran past the end of the window.
func (r *Reader) Overrun() bool {
	return r.overrun
}

// Ask makes sure at least n bits, n <= 32, are buffered. It reports false when
// the window is exhausted first; the bytes pulled so far stay buffered.
func (r *Reader) Ask(n int) bool {
	for r.bitp < n {
		if r.pos == len(r.buf) {
			return false
		}
		r.acc = r.acc<<8 | uint64(r.buf[r.pos])
		r.pos++
		r.bitp += 8
	}

	return true
}

// Get returns the next n buffered bits without consuming them.
func (r *Reader) Get(n int) uint32 {
	return uint32((r.acc >> uint(r.bitp-n)) & (uint64(1)<<uint(n) - 1))
}

// Drop consumes n buffered bits.
func (r *Reader) Drop(n int) {
	r.bitp -= n
}

// AskFS scans for the terminating one bit of a fundamental sequence. It may be
// called again after returning false; the zeros seen so far are remembered.
func (r *Reader) AskFS() bool {
	if !r.Ask(1) {
		return false
	}
	for r.acc&(uint64(1)<<uint(r.bitp-1)) == 0 {
		if r.bitp == 1 {
			if r.pos == len(r.buf) {
				return false
			}
			r.acc = r.acc<<8 | uint64(r.buf[r.pos])
			r.pos++
			r.bitp += 8
		}
		r.fs++
		r.bitp--
	}

	return true
}

// FS returns the value found by a successful AskFS.
func (r *Reader) FS() uint32 {
	return r.fs
}

// DropFS consumes the terminating one bit and clears the FS counter.
func (r *Reader) DropFS() {
	r.fs = 0
	r.bitp--
}

// AlignByte discards buffered bits up to the next byte boundary.
func (r *Reader) AlignByte() {
	r.bitp -= r.bitp % 8
}

func (r *Reader) refill() bool {
	if r.pos == len(r.buf) {
		return false
	}
	for r.bitp <= 56 && r.pos < len(r.buf) {
		r.acc = r.acc<<8 | uint64(r.buf[r.pos])
		r.pos++
		r.bitp += 8
	}

	return true
}

// DirectGet reads and consumes n bits, n <= 32, refilling in bulk.
func (r *Reader) DirectGet(n int) uint32 {
	if r.bitp < n {
		r.refill()
		if r.bitp < n {
			r.overrun = true
			return 0
		}
	}
	r.bitp -= n

	return uint32((r.acc >> uint(r.bitp)) & (uint64(1)<<uint(n) - 1))
}

// DirectFS reads and consumes a fundamental sequence.
func (r *Reader) DirectFS() uint32 {
	var fs uint32
	for {
		if r.bitp == 0 && !r.refill() {
			r.overrun = true
			return fs
		}

		v := r.acc << uint(64-r.bitp)
		if v != 0 {
			lz := bits.LeadingZeros64(v)
			r.bitp -= lz + 1

			return fs + uint32(lz)
		}
		fs += uint32(r.bitp)
		r.bitp = 0
	}
}
