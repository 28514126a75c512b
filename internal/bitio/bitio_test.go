package bitio

import (
	"bytes"
	"math/rand"
	"testing"

	ibitio "github.com/icza/bitio"
	"github.com/stretchr/testify/require"
)

type field struct {
	value uint32
	n     int
	fs    bool
}

func randomFields(rng *rand.Rand, count int) []field {
	fields := make([]field, count)
	for i := range fields {
		if rng.Intn(3) == 0 {
			fields[i] = field{value: uint32(rng.Intn(40)), fs: true}
			continue
		}
		n := rng.Intn(33)
		fields[i] = field{value: rng.Uint32(), n: n}
	}

	return fields
}

func referenceBytes(t *testing.T, fields []field) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := ibitio.NewWriter(&buf)
	for _, f := range fields {
		if f.fs {
			for range f.value {
				require.NoError(t, w.WriteBool(false))
			}
			require.NoError(t, w.WriteBool(true))

			continue
		}
		require.NoError(t, w.WriteBits(uint64(f.value), uint8(f.n)))
	}
	require.NoError(t, w.Close())

	return buf.Bytes()
}

func TestWriterMatchesReference(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for iter := range 50 {
		fields := randomFields(rng, 200)
		want := referenceBytes(t, fields)

		out := make([]byte, len(want)+8)
		w := NewWriter(out)
		for _, f := range fields {
			if f.fs {
				w.EmitFS(f.value)
			} else {
				w.Emit(f.value, f.n)
			}
		}
		w.Pad()

		require.Equal(t, want, out[:w.Pos()], "iteration %d", iter)
		require.Zero(t, w.Pending())
	}
}

func TestWriterBindKeepsPartialByte(t *testing.T) {
	require := require.New(t)

	first := make([]byte, 4)
	second := make([]byte, 4)

	w := NewWriter(first)
	w.Emit(0x5, 3)
	w.EmitFS(2)
	require.Equal(0, w.Pos())
	require.Equal(6, w.Pending())

	w.Bind(second)
	w.Emit(0x3, 2)
	require.Equal(1, w.Pos())
	require.Equal(byte(0b10100111), second[0])
	require.Equal(make([]byte, 4), first)

	w.Emit(0x1, 1)
	w.Pad()
	require.Equal(2, w.Pos())
	require.Equal(byte(0x80), second[1])
}

func TestWriterFullWidth(t *testing.T) {
	require := require.New(t)

	out := make([]byte, 9)
	w := NewWriter(out)
	w.Emit(1, 1)
	w.Emit(0xffffffff, 32)
	w.Emit(0, 32)
	w.Pad()
	require.Equal(9, w.Pos())
	require.Equal([]byte{0xff, 0xff, 0xff, 0xff, 0x80, 0, 0, 0, 0}, out)
}

func TestReaderMatchesReference(t *testing.T) {
	rng := rand.New(rand.NewSource(2))

	for iter := range 50 {
		fields := randomFields(rng, 200)
		data := referenceBytes(t, fields)

		r := NewReader(data)
		for i, f := range fields {
			if f.fs {
				require.True(t, r.AskFS())
				require.Equal(t, f.value, r.FS(), "iteration %d field %d", iter, i)
				r.DropFS()

				continue
			}
			require.True(t, r.Ask(f.n))
			mask := uint32(uint64(1)<<uint(f.n) - 1)
			require.Equal(t, f.value&mask, r.Get(f.n), "iteration %d field %d", iter, i)
			r.Drop(f.n)
		}
	}
}

func TestReaderDirectMatchesReference(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	for iter := range 50 {
		fields := randomFields(rng, 200)
		data := referenceBytes(t, fields)

		r := NewReader(data)
		for i, f := range fields {
			if f.fs {
				require.Equal(t, f.value, r.DirectFS(), "iteration %d field %d", iter, i)
				continue
			}
			mask := uint32(uint64(1)<<uint(f.n) - 1)
			require.Equal(t, f.value&mask, r.DirectGet(f.n), "iteration %d field %d", iter, i)
		}
		require.False(t, r.Overrun())
	}
}

func TestReaderResumesAcrossWindows(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	fields := randomFields(rng, 300)
	data := referenceBytes(t, fields)

	// Feed the reader one byte at a time; every primitive must resume.
	r := NewReader(nil)
	next := 0
	feed := func() bool {
		if next == len(data) {
			return false
		}
		r.Bind(data[next : next+1])
		next++

		return true
	}

	for i, f := range fields {
		if f.fs {
			for !r.AskFS() {
				require.True(t, feed(), "field %d", i)
			}
			require.Equal(t, f.value, r.FS(), "field %d", i)
			r.DropFS()

			continue
		}
		for !r.Ask(f.n) {
			require.True(t, feed(), "field %d", i)
		}
		mask := uint32(uint64(1)<<uint(f.n) - 1)
		require.Equal(t, f.value&mask, r.Get(f.n), "field %d", i)
		r.Drop(f.n)
	}
}

func TestReaderAlignByte(t *testing.T) {
	require := require.New(t)

	r := NewReader([]byte{0b10100000, 0xab})
	require.True(r.Ask(3))
	require.Equal(uint32(0b101), r.Get(3))
	r.Drop(3)
	r.AlignByte()
	require.Equal(0, r.buffered())
	require.True(r.Ask(8))
	require.Equal(uint32(0xab), r.Get(8))
}

func TestReaderDirectOverrun(t *testing.T) {
	require := require.New(t)

	r := NewReader([]byte{0x00, 0x00})
	require.Equal(uint32(16), r.DirectFS())
	require.True(r.Overrun())

	r.Reset([]byte{0xff})
	require.False(r.Overrun())
	require.Equal(uint32(0), r.DirectGet(12))
	require.True(r.Overrun())
}

func TestReaderAskExhausted(t *testing.T) {
	require := require.New(t)

	r := NewReader([]byte{0x01})
	require.False(r.Ask(9))
	require.Equal(8, r.buffered())
	require.Equal(1, r.Pos())
	require.Equal(0, r.Avail())

	r = NewReader([]byte{0x00})
	require.False(r.AskFS())
	r.Bind([]byte{0x40})
	require.True(r.AskFS())
	require.Equal(uint32(9), r.FS())
}
