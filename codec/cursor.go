package codec

// FlushMode tells the encoder whether more input will follow.
type FlushMode uint8

const (
	// NoFlush suspends when input runs out; the next call resumes.
	NoFlush FlushMode = iota
	// Flush codes all buffered input, pads the last RSI and the last byte.
	Flush
)

func (f FlushMode) String() string {
	switch f {
	case NoFlush:
		return "NoFlush"
	case Flush:
		return "Flush"
	default:
		return "Unknown"
	}
}

// Input is a read window over caller memory. The codec consumes Buf[Pos:]
// and advances Pos past every byte it has taken.
type Input struct {
	Buf []byte
	Pos int
}

// Avail returns the number of unread bytes.
func (in *Input) Avail() int {
	return len(in.Buf) - in.Pos
}

// Output is a write window over caller memory. The codec fills Buf[Pos:]
// and advances Pos past every byte it has produced.
type Output struct {
	Buf []byte
	Pos int
}

// Avail returns the number of free bytes.
func (out *Output) Avail() int {
	return len(out.Buf) - out.Pos
}

// Bytes returns the produced bytes.
func (out *Output) Bytes() []byte {
	return out.Buf[:out.Pos]
}
