package codec

import (
	"math/rand"
	"testing"

	"github.com/arloliu/aec/format"
	"github.com/arloliu/aec/sample"
	"github.com/stretchr/testify/require"
)

// packSamples stores values in the raw sample layout described by cfg.
// Negative values end up sign-extended to the storage width.
func packSamples(t testing.TB, cfg Config, values []int64) []byte {
	t.Helper()

	acc, err := sample.New(cfg.BytesPerSample(), cfg.Flags.Has(format.FlagMSB))
	require.NoError(t, err)

	size := acc.Size()
	buf := make([]byte, len(values)*size)
	for i, v := range values {
		acc.Put(buf[i*size:], uint32(v))
	}

	return buf
}

func codedCapacity(rawLen int) int {
	return 2*rawLen + 256
}

func encodeAll(t testing.TB, cfg Config, raw []byte) []byte {
	t.Helper()

	enc, err := NewEncoder(WithConfig(cfg))
	require.NoError(t, err)
	defer enc.Close()

	in := &Input{Buf: raw}
	out := &Output{Buf: make([]byte, codedCapacity(len(raw)))}
	require.NoError(t, enc.Encode(in, out, Flush))
	require.True(t, enc.Done())
	require.Equal(t, len(raw), in.Pos)
	require.Equal(t, uint64(len(raw)), enc.TotalIn())
	require.Equal(t, uint64(out.Pos), enc.TotalOut())

	return out.Bytes()
}

func decodeAll(t testing.TB, cfg Config, coded []byte, rawLen int) []byte {
	t.Helper()

	dec, err := NewDecoder(WithConfig(cfg))
	require.NoError(t, err)
	defer dec.Close()

	in := &Input{Buf: coded}
	out := &Output{Buf: make([]byte, rawLen)}
	require.NoError(t, dec.Decode(in, out, Flush))
	require.Equal(t, rawLen, out.Pos)

	return out.Bytes()
}

// encodeChunked drives the encoder with input and output windows that grow
// by inStep and outStep bytes per call.
func encodeChunked(t testing.TB, cfg Config, raw []byte, inStep, outStep int) []byte {
	t.Helper()

	enc, err := NewEncoder(WithConfig(cfg))
	require.NoError(t, err)
	defer enc.Close()

	dst := make([]byte, codedCapacity(len(raw)))
	in := &Input{}
	out := &Output{}
	limit := 0

	for calls := 0; !enc.Done(); calls++ {
		require.Less(t, calls, 4*(len(raw)+len(dst))+100, "encoder made no progress")

		limit = min(limit+inStep, len(raw))
		in.Buf = raw[:limit]
		out.Buf = dst[:min(out.Pos+outStep, len(dst))]

		flush := NoFlush
		if limit == len(raw) {
			flush = Flush
		}
		require.NoError(t, enc.Encode(in, out, flush))
	}
	require.Equal(t, len(raw), in.Pos)

	return dst[:out.Pos]
}

// decodeChunked is encodeChunked for the decoder; it stops once rawLen bytes
// have been produced. The output window always has room for at least one
// whole sample, since Decode rejects anything smaller.
func decodeChunked(t testing.TB, cfg Config, coded []byte, rawLen int, inStep, outStep int) []byte {
	t.Helper()

	dec, err := NewDecoder(WithConfig(cfg))
	require.NoError(t, err)
	defer dec.Close()

	outStep = max(outStep, cfg.BytesPerSample())
	dst := make([]byte, rawLen)
	in := &Input{}
	out := &Output{}
	limit := 0

	for calls := 0; out.Pos < rawLen; calls++ {
		require.Less(t, calls, 4*(len(coded)+rawLen)+100, "decoder made no progress")

		limit = min(limit+inStep, len(coded))
		in.Buf = coded[:limit]
		out.Buf = dst[:min(out.Pos+outStep, rawLen)]
		require.NoError(t, dec.Decode(in, out, NoFlush))
	}

	return dst
}

// genSamples produces n bps-bit samples: white noise (mode 0), a slow random
// walk (mode 1) or runs of constant values (mode 2).
func genSamples(rng *rand.Rand, n, bps int, signed bool, mode int) []int64 {
	mask := uint64(1)<<uint(bps) - 1
	values := make([]int64, n)
	v := rng.Uint64() & mask

	for i := range values {
		switch mode {
		case 0:
			v = rng.Uint64() & mask
		case 1:
			v = (v + uint64(rng.Intn(7)) - 3) & mask
		default:
			if rng.Intn(50) == 0 {
				v = rng.Uint64() & mask
			}
		}
		values[i] = int64(v)
		if signed {
			values[i] = signExtend(uint32(v), uint32(1)<<uint(bps-1))
		}
	}

	return values
}

func sampleRange(bps int, signed bool) (int64, int64) {
	if signed {
		return -(int64(1) << uint(bps-1)), int64(1)<<uint(bps-1) - 1
	}

	return 0, int64(1)<<uint(bps) - 1
}

func tile(pattern []int64, n int) []int64 {
	values := make([]int64, n)
	for i := range values {
		values[i] = pattern[i%len(pattern)]
	}

	return values
}
