package codec

import (
	"fmt"

	"github.com/arloliu/aec/errs"
	"github.com/arloliu/aec/internal/bitio"
	"github.com/arloliu/aec/internal/pool"
	"github.com/arloliu/aec/sample"
)

// rosCode is the decoded zero-run length that means "remainder of segment".
const rosCode = 5

// seTableSize is the largest valid second extension code value.
const seTableSize = 90

// seTable maps a second extension code m to the pair sum beta at index 2m and
// to the smallest code with that beta at index 2m+1.
var seTable = buildSETable()

func buildSETable() [2 * (seTableSize + 1)]uint32 {
	var table [2 * (seTableSize + 1)]uint32
	k := 0
	for i := range 13 {
		ms := k
		for range i + 1 {
			table[2*k] = uint32(i)
			table[2*k+1] = uint32(ms)
			k++
		}
	}

	return table
}

type decStage uint8

const (
	decID decStage = iota
	decSplit
	decSplitFS
	decSplitOutput
	decLowEntropy
	decLowEntropyRef
	decZeroBlock
	decZeroOutput
	decSE
	decSEDecode
	decUncomp
	decUncompCopy
)

// Decoder reconstructs samples from a coded stream.
//
// Like Encoder, a Decoder is driven by repeated Decode calls and suspends
// whenever the input runs dry or the output fills up. Samples are written
// to the output as soon as they are complete.
//
// A Decoder is not safe for concurrent use.
type Decoder struct {
	p       params
	acc     sample.Accessor
	stage   decStage
	idTable []decStage
	err     error

	r        bitio.Reader
	out      *Output
	availOut int // output bytes not yet claimed by a decoded sample

	rsiBuf     []uint32
	release    func()
	rsip       int // next free slot in rsiBuf
	flushStart int // first slot not yet written to out
	lastOut    int64

	ref          bool
	id           uint32
	secondExt    bool
	n            int
	i            int
	pendingZeros int

	inBlkLen  int
	outBlkLen int
	xmax      uint32

	totalIn  uint64
	totalOut uint64
}

// NewDecoder creates a Decoder for the stream parameters given by opts,
// applied over DefaultConfig. The parameters must match the encoder's.
func NewDecoder(opts ...Option) (*Decoder, error) {
	p, err := newParams(opts)
	if err != nil {
		return nil, err
	}

	acc, err := sample.New(p.bytesPerSample, p.msb)
	if err != nil {
		return nil, err
	}

	buf, release := pool.GetUint32Slice(p.rsiSamples)

	d := &Decoder{
		p:         p,
		acc:       acc,
		stage:     decID,
		rsiBuf:    buf,
		release:   release,
		inBlkLen:  (p.BlockSize*p.BitsPerSample+p.idLen)/8 + 9,
		outBlkLen: p.BlockSize * p.bytesPerSample,
		xmax:      p.mask,
	}

	modi := 1 << uint(p.idLen)
	d.idTable = make([]decStage, modi)
	d.idTable[0] = decLowEntropy
	for i := 1; i < modi-1; i++ {
		d.idTable[i] = decSplit
	}
	d.idTable[modi-1] = decUncomp

	return d, nil
}

// Config returns the stream parameters.
func (d *Decoder) Config() Config {
	return d.p.Config
}

// TotalIn returns the number of coded bytes consumed so far.
func (d *Decoder) TotalIn() uint64 {
	return d.totalIn
}

// TotalOut returns the number of sample bytes produced so far.
func (d *Decoder) TotalOut() uint64 {
	return d.totalOut
}

// Close releases the working buffers. The Decoder must not be used after.
func (d *Decoder) Close() {
	if d.release != nil {
		d.release()
		d.release = nil
	}
	d.rsiBuf = nil
	if d.err == nil {
		d.err = fmt.Errorf("%w: decoder closed", errs.ErrStream)
	}
}

// Decode consumes coded bytes from in and writes samples to out.
//
// Decode returns nil when in is exhausted or out has no room for another
// sample; both cursors are advanced past what was used. The caller decides
// when the stream is complete, usually from the number of samples it
// expects. The flush mode is accepted for symmetry with Encode: decoded
// samples are always written out before Decode returns.
//
// Parameters:
//   - in: Coded bytes
//   - out: Destination for samples, BytesPerSample bytes each
//   - flush: NoFlush or Flush; both behave the same
//
// Returns:
//   - error: errs.ErrData wrapped error for a corrupt stream. The error is
//     sticky; every later call returns it as well. errs.ErrMem if out has
//     room left but less than one sample; nothing is consumed then.
func (d *Decoder) Decode(in *Input, out *Output, _ FlushMode) error {
	if d.err != nil {
		return d.err
	}
	if avail := out.Avail(); avail > 0 && avail < d.p.bytesPerSample {
		return fmt.Errorf("%w: %d bytes of output for %d-byte samples", errs.ErrMem, avail, d.p.bytesPerSample)
	}

	d.out = out
	d.r.Bind(in.Buf[in.Pos:])
	d.availOut = out.Avail()
	outStart := out.Pos

	for cont := true; cont; {
		switch d.stage {
		case decID:
			cont = d.decodeID()
		case decSplit:
			cont = d.split()
		case decSplitFS:
			cont = d.splitFS()
		case decSplitOutput:
			cont = d.splitOutput()
		case decLowEntropy:
			cont = d.lowEntropy()
		case decLowEntropyRef:
			cont = d.lowEntropyRef()
		case decZeroBlock:
			cont = d.zeroBlock()
		case decZeroOutput:
			cont = d.zeroOutput()
		case decSE:
			cont = d.secondExtension()
		case decSEDecode:
			cont = d.secondExtensionDecode()
		case decUncomp:
			cont = d.uncomp()
		case decUncompCopy:
			cont = d.uncompCopy()
		default:
			d.err = fmt.Errorf("%w: unknown decoder stage %d", errs.ErrStream, d.stage)
			cont = false
		}
	}

	d.flushOutput()

	consumed := d.r.Pos()
	in.Pos += consumed
	d.r.Bind(nil)
	d.totalIn += uint64(consumed)
	d.totalOut += uint64(out.Pos - outStart)
	d.out = nil

	return d.err
}

func (d *Decoder) fail(err error) bool {
	d.err = err
	return false
}

func (d *Decoder) bufferSpace() bool {
	return d.r.Avail() >= d.inBlkLen && d.availOut >= d.outBlkLen
}

func (d *Decoder) refCount() int {
	if d.ref {
		return 1
	}

	return 0
}

func (d *Decoder) putSample(v uint32) {
	d.rsiBuf[d.rsip] = v
	d.rsip++
	d.availOut -= d.p.bytesPerSample
	d.checkRSIEnd()
}

func (d *Decoder) checkRSIEnd() {
	if d.rsip == len(d.rsiBuf) {
		d.flushOutput()
		d.flushStart = 0
		d.rsip = 0
	}
}

func (d *Decoder) copySample() bool {
	if !d.r.Ask(d.p.BitsPerSample) || d.availOut < d.p.bytesPerSample {
		return false
	}
	d.putSample(d.r.Get(d.p.BitsPerSample))
	d.r.Drop(d.p.BitsPerSample)

	return true
}

// flushOutput writes the decoded samples not yet written to out, undoing the
// prediction if the stream is preprocessed.
func (d *Decoder) flushOutput() {
	pending := d.rsiBuf[d.flushStart:d.rsip]
	if len(pending) == 0 {
		return
	}

	size := d.p.bytesPerSample
	dst := d.out.Buf[d.out.Pos:]

	switch {
	case d.p.pp && d.p.signed:
		i := 0
		if d.flushStart == 0 {
			d.lastOut = signExtend(pending[0], d.p.signBit)
			d.acc.Put(dst, uint32(d.lastOut))
			i = 1
		}
		x := d.lastOut
		for ; i < len(pending); i++ {
			x = postprocessSigned(x, pending[i], d.p.signBit)
			x = signExtend(uint32(x)&d.p.mask, d.p.signBit)
			d.acc.Put(dst[i*size:], uint32(x))
		}
		d.lastOut = x
	case d.p.pp:
		i := 0
		if d.flushStart == 0 {
			d.lastOut = int64(pending[0])
			d.acc.Put(dst, pending[0])
			i = 1
		}
		x := uint32(d.lastOut)
		for ; i < len(pending); i++ {
			x = postprocessUnsigned(x, pending[i], d.xmax) & d.p.mask
			d.acc.Put(dst[i*size:], x)
		}
		d.lastOut = int64(x)
	case d.p.signed:
		for i, v := range pending {
			d.acc.Put(dst[i*size:], uint32(signExtend(v, d.p.signBit)))
		}
	default:
		d.acc.PutRSI(dst, pending)
	}

	d.out.Pos += len(pending) * size
	d.flushStart = d.rsip
}

func (d *Decoder) decodeID() bool {
	if d.rsip == 0 {
		if d.p.padRSI {
			d.r.AlignByte()
		}
		d.ref = d.p.pp
	} else {
		d.ref = false
	}

	if !d.r.Ask(d.p.idLen) {
		return false
	}
	d.id = d.r.Get(d.p.idLen)
	d.r.Drop(d.p.idLen)
	d.stage = d.idTable[d.id]

	return true
}

func (d *Decoder) split() bool {
	if d.bufferSpace() && d.splitDirect() {
		d.stage = decID
		return true
	}

	if d.ref {
		if !d.copySample() {
			return false
		}
		d.n = d.p.BlockSize - 1
	} else {
		d.n = d.p.BlockSize
	}
	d.i = 0
	d.stage = decSplitFS

	return true
}

// splitDirect decodes a whole split block with the unchecked reader. It
// rewinds and reports false if the block runs past the input window.
func (d *Decoder) splitDirect() bool {
	saved := d.r
	k := uint(d.id - 1)
	bps := d.p.BitsPerSample

	pos := d.rsip
	if d.ref {
		d.rsiBuf[pos] = d.r.DirectGet(bps)
		pos++
	}
	blk := d.rsiBuf[pos : d.rsip+d.p.BlockSize]
	for i := range blk {
		blk[i] = d.r.DirectFS() << k
	}
	if k > 0 {
		for i := range blk {
			blk[i] += d.r.DirectGet(int(k))
		}
	}
	if d.r.Overrun() {
		d.r = saved
		return false
	}

	d.rsip += d.p.BlockSize
	d.availOut -= d.outBlkLen
	d.checkRSIEnd()

	return true
}

func (d *Decoder) splitFS() bool {
	k := uint(d.id - 1)
	for d.i < d.n {
		if !d.r.AskFS() {
			return false
		}
		d.rsiBuf[d.rsip+d.i] = d.r.FS() << k
		d.r.DropFS()
		d.i++
	}
	d.i = 0
	d.stage = decSplitOutput

	return true
}

func (d *Decoder) splitOutput() bool {
	k := int(d.id - 1)
	for d.i < d.n {
		if !d.r.Ask(k) || d.availOut < d.p.bytesPerSample {
			return false
		}
		d.rsiBuf[d.rsip] += d.r.Get(k)
		d.r.Drop(k)
		d.rsip++
		d.availOut -= d.p.bytesPerSample
		d.i++
	}
	d.checkRSIEnd()
	d.stage = decID

	return true
}

func (d *Decoder) lowEntropy() bool {
	if !d.r.Ask(1) {
		return false
	}
	d.secondExt = d.r.Get(1) == 1
	d.r.Drop(1)
	d.stage = decLowEntropyRef

	return true
}

func (d *Decoder) lowEntropyRef() bool {
	if d.ref && !d.copySample() {
		return false
	}
	if d.secondExt {
		d.stage = decSE
	} else {
		d.stage = decZeroBlock
	}

	return true
}

func (d *Decoder) zeroBlock() bool {
	if !d.r.AskFS() {
		return false
	}
	fs := uint64(d.r.FS())
	d.r.DropFS()

	bs := uint64(d.p.BlockSize)
	zeroBlocks := fs + 1
	switch {
	case zeroBlocks == rosCode:
		b := uint64(d.rsip) / bs
		zeroBlocks = min(uint64(d.p.RSI)-b, segmentBlocks-b%segmentBlocks)
	case zeroBlocks > rosCode:
		zeroBlocks--
	}

	zeroSamples := zeroBlocks*bs - uint64(d.refCount())
	if uint64(len(d.rsiBuf)-d.rsip) < zeroSamples {
		return d.fail(fmt.Errorf("%w: zero run of %d blocks overflows the RSI", errs.ErrData, zeroBlocks))
	}

	n := int(zeroSamples)
	if d.availOut >= n*d.p.bytesPerSample {
		clear(d.rsiBuf[d.rsip : d.rsip+n])
		d.rsip += n
		d.availOut -= n * d.p.bytesPerSample
		d.checkRSIEnd()
		d.stage = decID

		return true
	}

	d.pendingZeros = n
	d.stage = decZeroOutput

	return true
}

func (d *Decoder) zeroOutput() bool {
	for d.pendingZeros > 0 {
		if d.availOut < d.p.bytesPerSample {
			return false
		}
		d.putSample(0)
		d.pendingZeros--
	}
	d.stage = decID

	return true
}

func (d *Decoder) secondExtension() bool {
	if d.bufferSpace() && d.secondExtensionDirect() {
		d.stage = decID
		return true
	}
	if d.err != nil {
		return false
	}

	d.i = d.refCount()
	d.stage = decSEDecode

	return true
}

// secondExtensionDirect decodes a whole second extension block with the
// unchecked reader, rewinding on overrun like splitDirect.
func (d *Decoder) secondExtensionDirect() bool {
	saved := d.r
	pos := d.rsip

	for i := d.refCount(); i < d.p.BlockSize; {
		m := d.r.DirectFS()
		if d.r.Overrun() {
			break
		}
		if m > seTableSize {
			return d.fail(fmt.Errorf("%w: second extension code %d out of range", errs.ErrData, m))
		}
		d1 := m - seTable[2*m+1]
		if i&1 == 0 {
			d.rsiBuf[pos] = seTable[2*m] - d1
			pos++
			i++
		}
		d.rsiBuf[pos] = d1
		pos++
		i++
	}
	if d.r.Overrun() {
		d.r = saved
		return false
	}

	d.availOut -= (pos - d.rsip) * d.p.bytesPerSample
	d.rsip = pos
	d.checkRSIEnd()

	return true
}

func (d *Decoder) secondExtensionDecode() bool {
	for d.i < d.p.BlockSize {
		if !d.r.AskFS() {
			return false
		}
		m := d.r.FS()
		if m > seTableSize {
			return d.fail(fmt.Errorf("%w: second extension code %d out of range", errs.ErrData, m))
		}
		d1 := m - seTable[2*m+1]
		if d.i&1 == 0 {
			if d.availOut < d.p.bytesPerSample {
				return false
			}
			d.putSample(seTable[2*m] - d1)
			d.i++
		}
		if d.availOut < d.p.bytesPerSample {
			return false
		}
		d.putSample(d1)
		d.i++
		d.r.DropFS()
	}
	d.stage = decID

	return true
}

func (d *Decoder) uncomp() bool {
	if d.bufferSpace() && d.uncompDirect() {
		d.stage = decID
		return true
	}
	d.n = d.p.BlockSize
	d.stage = decUncompCopy

	return true
}

func (d *Decoder) uncompDirect() bool {
	saved := d.r
	blk := d.rsiBuf[d.rsip : d.rsip+d.p.BlockSize]
	for i := range blk {
		blk[i] = d.r.DirectGet(d.p.BitsPerSample)
	}
	if d.r.Overrun() {
		d.r = saved
		return false
	}

	d.rsip += d.p.BlockSize
	d.availOut -= d.outBlkLen
	d.checkRSIEnd()

	return true
}

func (d *Decoder) uncompCopy() bool {
	for d.n > 0 {
		if !d.copySample() {
			return false
		}
		d.n--
	}
	d.stage = decID

	return true
}
