package codec

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPreprocessUnsignedValues(t *testing.T) {
	tests := []struct {
		prev, x uint32
		want    uint32
	}{
		{prev: 2, x: 0, want: 3},
		{prev: 0, x: 2, want: 2},
		{prev: 100, x: 101, want: 2},
		{prev: 100, x: 99, want: 1},
		{prev: 100, x: 100, want: 0},
		{prev: 250, x: 10, want: 245},
		{prev: 255, x: 0, want: 255},
	}

	for _, tt := range tests {
		data := []uint32{tt.prev, tt.x}
		preprocessUnsigned(data, 255)
		require.Equal(t, []uint32{0, tt.want}, data, "prev=%d x=%d", tt.prev, tt.x)
	}
}

func TestPreprocessInverseExhaustive(t *testing.T) {
	const bps = 5
	mask := uint32(1)<<bps - 1
	signBit := uint32(1) << (bps - 1)

	t.Run("unsigned", func(t *testing.T) {
		for prev := uint32(0); prev <= mask; prev++ {
			for x := uint32(0); x <= mask; x++ {
				data := []uint32{prev, x}
				preprocessUnsigned(data, mask)
				require.LessOrEqual(t, data[1], mask)
				require.Equal(t, x, postprocessUnsigned(prev, data[1], mask), "prev=%d x=%d", prev, x)
			}
		}
	})

	t.Run("signed", func(t *testing.T) {
		for prev := uint32(0); prev <= mask; prev++ {
			for x := uint32(0); x <= mask; x++ {
				data := []uint32{prev, x}
				preprocessSigned(data, signBit)
				require.LessOrEqual(t, data[1], mask)

				got := postprocessSigned(signExtend(prev, signBit), data[1], signBit)
				require.Equal(t, signExtend(x, signBit), got, "prev=%d x=%d", prev, x)
			}
		}
	})
}

func TestPreprocessInverseRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	for _, bps := range []int{1, 7, 16, 24, 31, 32} {
		mask := uint32(uint64(1)<<uint(bps) - 1)
		signBit := uint32(1) << uint(bps-1)

		raw := make([]uint32, 512)
		for i := range raw {
			raw[i] = rng.Uint32() & mask
		}

		data := append([]uint32(nil), raw...)
		preprocessUnsigned(data, mask)
		require.Zero(t, data[0])
		x := raw[0]
		for i := 1; i < len(raw); i++ {
			x = postprocessUnsigned(x, data[i], mask)
			require.Equal(t, raw[i], x, "unsigned bps=%d i=%d", bps, i)
		}

		data = append(data[:0], raw...)
		preprocessSigned(data, signBit)
		sx := signExtend(raw[0], signBit)
		for i := 1; i < len(raw); i++ {
			sx = postprocessSigned(sx, data[i], signBit)
			require.Equal(t, signExtend(raw[i], signBit), sx, "signed bps=%d i=%d", bps, i)
		}
	}
}

func TestSignExtend(t *testing.T) {
	require := require.New(t)

	require.Equal(int64(-1), signExtend(0xff, 0x80))
	require.Equal(int64(127), signExtend(0x7f, 0x80))
	require.Equal(int64(-2048), signExtend(0x800, 0x800))
	require.Equal(int64(-1), signExtend(1, 1))
	require.Equal(int64(0), signExtend(0, 1))
	require.Equal(int64(-1<<31), signExtend(0x80000000, 0x80000000))
	require.Equal(int64(1<<31-1), signExtend(0x7fffffff, 0x80000000))
}
