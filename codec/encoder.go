package codec

import (
	"fmt"

	"github.com/arloliu/aec/errs"
	"github.com/arloliu/aec/internal/bitio"
	"github.com/arloliu/aec/internal/pool"
	"github.com/arloliu/aec/sample"
)

// rosMarker stands in for a zero run that reaches the end of a 64-block
// segment or of the RSI (remainder of segment).
const rosMarker = -1

// segmentBlocks is the number of blocks after which a zero run is cut.
const segmentBlocks = 64

type encStage uint8

const (
	encGetBlock encStage = iota
	encGetRSIResumable
	encFlushBlockResumable
	encFlushFinal
	encDone
)

// EncoderStats counts the coded data sets an Encoder has emitted per option.
type EncoderStats struct {
	ZeroRuns        uint64 // zero-block CDSs
	ZeroBlocks      uint64 // blocks covered by zero-block CDSs
	SecondExtension uint64
	Split           uint64
	Uncompressed    uint64
}

// Encoder compresses a stream of samples.
//
// An Encoder is driven by repeated Encode calls. Each call consumes as much of
// the input window and fills as much of the output window as it can, then
// returns so the caller can refill or drain the windows. All intermediate
// state survives between calls, so windows of any size, down to one byte,
// produce the same coded stream.
//
// An Encoder is not safe for concurrent use.
type Encoder struct {
	p     params
	acc   sample.Accessor
	stage encStage
	flush FlushMode
	in    *Input
	out   *Output

	w      bitio.Writer
	direct bool   // w writes straight into out
	cds    []byte // staging buffer for one coded data set
	cdsPos int    // bytes of cds already copied out

	data    []uint32 // one RSI of samples, preprocessed in place
	release func()
	i       int // samples read by getRSIResumable

	block           int // offset of the current block in data
	blocksAvail     int
	blocksDispensed int
	ref             bool
	refSample       uint32
	uncompLen       uint64
	k               int

	zeroBlocks    int
	zeroRef       bool
	zeroRefSample uint32
	blockNonzero  bool

	stats    EncoderStats
	totalIn  uint64
	totalOut uint64
}

// NewEncoder creates an Encoder for the stream parameters given by opts,
// applied over DefaultConfig.
//
// Parameters:
//   - opts: Stream parameters such as WithBitsPerSample and WithBlockSize
//
// Returns:
//   - *Encoder: The encoder, ready for the first Encode call
//   - error: An errs.ErrConfig wrapped error if the parameters are invalid
//
// Example:
//
//	enc, err := codec.NewEncoder(codec.WithBitsPerSample(12), codec.WithBlockSize(16))
//	if err != nil {
//	    return err
//	}
//	defer enc.Close()
func NewEncoder(opts ...Option) (*Encoder, error) {
	p, err := newParams(opts)
	if err != nil {
		return nil, err
	}

	acc, err := sample.New(p.bytesPerSample, p.msb)
	if err != nil {
		return nil, err
	}

	data, release := pool.GetUint32Slice(p.rsiSamples)

	e := &Encoder{
		p:         p,
		acc:       acc,
		stage:     encGetBlock,
		cds:       make([]byte, cdsLength(p)),
		data:      data,
		release:   release,
		uncompLen: uint64(p.BlockSize * p.BitsPerSample),
	}
	e.w.Reset(e.cds)

	return e, nil
}

// cdsLength returns a staging size that holds any single coded data set plus
// the bits pending from the previous one and an RSI padding byte.
func cdsLength(p params) int {
	return (p.idLen+1+p.BitsPerSample+p.BlockSize*p.BitsPerSample+72)/8 + 2
}

// Config returns the stream parameters.
func (e *Encoder) Config() Config {
	return e.p.Config
}

// TotalIn returns the number of input bytes consumed so far.
func (e *Encoder) TotalIn() uint64 {
	return e.totalIn
}

// TotalOut returns the number of coded bytes produced so far.
func (e *Encoder) TotalOut() uint64 {
	return e.totalOut
}

// Stats returns the per-option counters.
func (e *Encoder) Stats() EncoderStats {
	return e.stats
}

// Done reports whether the final flush has completed.
func (e *Encoder) Done() bool {
	return e.stage == encDone
}

// Close releases the working buffers. The Encoder must not be used after.
func (e *Encoder) Close() {
	if e.release != nil {
		e.release()
		e.release = nil
	}
	e.data = nil
	e.stage = encDone
}

// Encode consumes samples from in and writes coded bytes to out.
//
// With NoFlush, Encode returns nil once in is exhausted; samples that do not
// fill an RSI yet are buffered. With Flush, the buffered samples are coded,
// the last RSI is padded by repeating its final sample and the last byte is
// padded with zero bits. Encode also returns nil, with the stream unfinished,
// whenever out is full; call it again with more room and the same flush mode.
// Done reports when a Flush has completed.
//
// Parameters:
//   - in: Raw samples, BytesPerSample bytes each in the configured byte order
//   - out: Destination for coded bytes
//   - flush: NoFlush while more input follows, Flush for the last call(s)
//
// Returns:
//   - error: errs.ErrStream if input arrives after the final flush
func (e *Encoder) Encode(in *Input, out *Output, flush FlushMode) error {
	if e.stage == encDone {
		if in.Avail() > 0 {
			return fmt.Errorf("%w: encode after final flush", errs.ErrStream)
		}

		return nil
	}

	e.in, e.out, e.flush = in, out, flush
	inStart, outStart := in.Pos, out.Pos

	var err error
	for cont := true; cont; {
		switch e.stage {
		case encGetBlock:
			cont = e.getBlock()
		case encGetRSIResumable:
			cont = e.getRSIResumable()
		case encFlushBlockResumable:
			cont = e.flushBlockResumable()
		case encFlushFinal:
			cont = e.flushFinal()
		case encDone:
			cont = false
		default:
			err = fmt.Errorf("%w: unknown encoder stage %d", errs.ErrStream, e.stage)
			cont = false
		}
	}

	if e.direct {
		out.Pos += e.w.Pos()
		e.w.Bind(e.cds)
		e.direct = false
	}

	e.totalIn += uint64(in.Pos - inStart)
	e.totalOut += uint64(out.Pos - outStart)
	e.in, e.out = nil, nil

	return err
}

// initOutput points the bit writer at the caller's window when a whole CDS
// fits there, and at the staging buffer otherwise.
func (e *Encoder) initOutput() {
	if e.out.Avail() > len(e.cds) {
		e.direct = true
		e.w.Bind(e.out.Buf[e.out.Pos:])
	} else {
		e.direct = false
		e.w.Bind(e.cds)
	}
}

func (e *Encoder) getBlock() bool {
	e.initOutput()

	if e.blockNonzero {
		e.blockNonzero = false
		return e.selectCodeOption()
	}

	if e.blocksAvail == 0 {
		e.blocksAvail = e.p.RSI - 1
		e.block = 0
		e.blocksDispensed = 1

		if e.in.Avail() >= e.p.rsiBytes {
			e.acc.GetRSI(e.data, e.in.Buf[e.in.Pos:])
			e.in.Pos += e.p.rsiBytes
			for i, v := range e.data {
				e.data[i] = v & e.p.mask
			}
			e.prepareRSI()

			return e.checkZeroBlock()
		}

		e.i = 0
		e.stage = encGetRSIResumable

		return true
	}

	if e.ref {
		e.ref = false
		e.uncompLen = uint64(e.p.BlockSize * e.p.BitsPerSample)
	}
	e.block += e.p.BlockSize
	e.blocksAvail--
	e.blocksDispensed++

	return e.checkZeroBlock()
}

func (e *Encoder) getRSIResumable() bool {
	size := e.p.bytesPerSample
	for e.i < len(e.data) {
		if e.in.Avail() >= size {
			e.data[e.i] = e.acc.Get(e.in.Buf[e.in.Pos:]) & e.p.mask
			e.in.Pos += size
			e.i++

			continue
		}

		if e.flush != Flush {
			return false
		}
		if e.i == 0 {
			e.stage = encFlushFinal
			return true
		}

		// Code only the blocks holding real samples; pad the last one.
		e.blocksAvail = (e.i+e.p.BlockSize-1)/e.p.BlockSize - 1
		for ; e.i < len(e.data); e.i++ {
			e.data[e.i] = e.data[e.i-1]
		}
	}
	e.prepareRSI()

	return e.checkZeroBlock()
}

func (e *Encoder) prepareRSI() {
	if !e.p.pp {
		e.ref = false
		e.uncompLen = uint64(e.p.BlockSize * e.p.BitsPerSample)

		return
	}

	e.refSample = e.data[0]
	if e.p.signed {
		preprocessSigned(e.data, e.p.signBit)
	} else {
		preprocessUnsigned(e.data, e.p.mask)
	}
	e.ref = true
	e.uncompLen = uint64((e.p.BlockSize - 1) * e.p.BitsPerSample)
}

func (e *Encoder) currentBlock() []uint32 {
	return e.data[e.block : e.block+e.p.BlockSize]
}

func (e *Encoder) checkZeroBlock() bool {
	blk := e.currentBlock()
	i := 0
	if e.ref {
		i = 1
	}
	for i < len(blk) && blk[i] == 0 {
		i++
	}

	if i == len(blk) {
		if e.zeroBlocks == 0 {
			e.zeroRef = e.ref
			e.zeroRefSample = e.refSample
		}
		e.zeroBlocks++
		e.stats.ZeroBlocks++

		if e.blocksDispensed%segmentBlocks == 0 || e.blocksAvail == 0 {
			if e.zeroBlocks > 4 {
				e.zeroBlocks = rosMarker
			}

			return e.encodeZero()
		}
		e.stage = encGetBlock

		return true
	}

	if e.zeroBlocks > 0 {
		// Emit the pending run first and come back for this block.
		e.blockNonzero = true
		return e.encodeZero()
	}

	return e.selectCodeOption()
}

func (e *Encoder) selectCodeOption() bool {
	blk := e.currentBlock()
	ref := 0
	if e.ref {
		ref = 1
	}

	split := uint64(costInfinite)
	if e.p.idLen > 1 {
		split = assessSplitting(blk, ref, &e.k, e.p.kmax)
	}
	se := assessSecondExtension(blk, min(split, e.uncompLen))

	if split < e.uncompLen {
		if split <= se {
			return e.encodeSplitting()
		}

		return e.encodeSE()
	}
	if e.uncompLen <= se {
		return e.encodeUncomp()
	}

	return e.encodeSE()
}

func (e *Encoder) encodeSplitting() bool {
	blk := e.currentBlock()
	k := e.k
	ref := 0

	e.w.Emit(uint32(k+1), e.p.idLen)
	if e.ref {
		e.w.Emit(e.refSample, e.p.BitsPerSample)
		ref = 1
	}
	for _, v := range blk[ref:] {
		e.w.EmitFS(v >> uint(k))
	}
	if k > 0 {
		for _, v := range blk[ref:] {
			e.w.Emit(v, k)
		}
	}
	e.stats.Split++

	return e.flushBlock()
}

func (e *Encoder) encodeUncomp() bool {
	blk := e.currentBlock()

	e.w.Emit(1<<uint(e.p.idLen)-1, e.p.idLen)
	if e.ref {
		blk[0] = e.refSample
	}
	for _, v := range blk {
		e.w.Emit(v, e.p.BitsPerSample)
	}
	e.stats.Uncompressed++

	return e.flushBlock()
}

func (e *Encoder) encodeSE() bool {
	blk := e.currentBlock()

	e.w.Emit(1, e.p.idLen+1)
	if e.ref {
		e.w.Emit(e.refSample, e.p.BitsPerSample)
	}
	for i := 0; i < len(blk); i += 2 {
		d := uint64(blk[i]) + uint64(blk[i+1])
		e.w.EmitFS(uint32(d*(d+1)/2 + uint64(blk[i+1])))
	}
	e.stats.SecondExtension++

	return e.flushBlock()
}

func (e *Encoder) encodeZero() bool {
	e.w.Emit(0, e.p.idLen+1)
	if e.zeroRef {
		e.w.Emit(e.zeroRefSample, e.p.BitsPerSample)
	}

	switch {
	case e.zeroBlocks == rosMarker:
		e.w.EmitFS(4)
	case e.zeroBlocks >= 5:
		e.w.EmitFS(uint32(e.zeroBlocks))
	default:
		e.w.EmitFS(uint32(e.zeroBlocks - 1))
	}
	e.zeroBlocks = 0
	e.stats.ZeroRuns++

	return e.flushBlock()
}

func (e *Encoder) flushBlock() bool {
	if e.p.padRSI && e.blocksAvail == 0 && !e.blockNonzero {
		e.w.Pad()
	}

	if e.direct {
		e.out.Pos += e.w.Pos()
		e.w.Bind(e.out.Buf[e.out.Pos:])
		e.stage = encGetBlock

		return true
	}

	e.cdsPos = 0
	e.stage = encFlushBlockResumable

	return true
}

func (e *Encoder) flushBlockResumable() bool {
	n := copy(e.out.Buf[e.out.Pos:], e.cds[e.cdsPos:e.w.Pos()])
	e.out.Pos += n
	e.cdsPos += n
	if e.cdsPos < e.w.Pos() {
		return false
	}
	e.stage = encGetBlock

	return true
}

func (e *Encoder) flushFinal() bool {
	if e.direct {
		e.out.Pos += e.w.Pos()
		e.direct = false
	}

	if e.w.Pending() > 0 {
		if e.out.Avail() == 0 {
			e.w.Bind(e.cds)
			return false
		}
		e.w.Bind(e.out.Buf[e.out.Pos:])
		e.w.Pad()
		e.out.Pos += e.w.Pos()
	}
	e.w.Reset(e.cds)
	e.stage = encDone

	return false
}
