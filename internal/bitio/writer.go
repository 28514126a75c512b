package bitio

// Writer packs bit fields most significant bit first into a byte window.
//
// Complete bytes are stored into the bound window. The byte being filled is
// kept inside the Writer until it is complete or Pad is called, so rebinding
// to another window never loses bits.
type Writer struct {
	buf  []byte
	pos  int
	cur  byte
	free int // unused low bits of cur, 1..8
}

// NewWriter returns a Writer with an empty pending byte bound to buf.
func NewWriter(buf []byte) *Writer {
	return &Writer{buf: buf, free: 8}
}

// Reset clears the pending byte and binds buf.
func (w *Writer) Reset(buf []byte) {
	w.buf = buf
	w.pos = 0
	w.cur = 0
	w.free = 8
}

// Bind switches output to buf, keeping the pending partial byte.
func (w *Writer) Bind(buf []byte) {
	w.buf = buf
	w.pos = 0
}

// Pos returns the number of complete bytes stored into the bound window.
func (w *Writer) Pos() int {
	return w.pos
}

// Pending returns the number of bits held in the partial byte.
func (w *Writer) Pending() int {
	return 8 - w.free
}

// Emit writes the n low bits of data, 0 <= n <= 32.
func (w *Writer) Emit(data uint32, n int) {
	v := uint64(data) & (uint64(1)<<uint(n) - 1)
	if n < w.free {
		w.free -= n
		w.cur |= byte(v << uint(w.free))

		return
	}

	n -= w.free
	w.buf[w.pos] = w.cur | byte(v>>uint(n))
	w.pos++
	for n >= 8 {
		n -= 8
		w.buf[w.pos] = byte(v >> uint(n))
		w.pos++
	}
	w.free = 8 - n
	w.cur = byte(v << uint(w.free))
}

// EmitFS writes the fundamental sequence of fs: fs zero bits followed by a one.
func (w *Writer) EmitFS(fs uint32) {
	for fs >= uint32(w.free) {
		fs -= uint32(w.free)
		w.buf[w.pos] = w.cur
		w.pos++
		w.cur = 0
		w.free = 8
	}
	w.free -= int(fs) + 1
	w.cur |= 1 << uint(w.free)
}

// Pad fills the partial byte with zero bits and stores it.
func (w *Writer) Pad() {
	if w.free < 8 {
		w.Emit(0, w.free)
	}
}
