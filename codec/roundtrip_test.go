package codec

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/arloliu/aec/format"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func requireRoundTrip(t *testing.T, cfg Config, raw []byte) []byte {
	t.Helper()

	coded := encodeAll(t, cfg, raw)
	decoded := decodeAll(t, cfg, coded, len(raw))
	if diff := cmp.Diff(raw, decoded); diff != "" {
		t.Fatalf("round trip mismatch for %+v (-want +got):\n%s", cfg, diff)
	}

	return coded
}

func TestRoundTripMatrix(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for _, bps := range []int{8, 16, 24, 32} {
		for _, bs := range BlockSizes {
			for _, signed := range []bool{false, true} {
				for _, msb := range []bool{false, true} {
					flags := format.FlagPreprocess
					if signed {
						flags |= format.FlagSigned
					}
					if msb {
						flags |= format.FlagMSB
					}
					cfg := Config{BitsPerSample: bps, BlockSize: bs, RSI: 16, Flags: flags}

					t.Run(fmt.Sprintf("bps%d_bs%d_%s", bps, bs, flags), func(t *testing.T) {
						for mode := range 3 {
							values := genSamples(rng, 3*bs*16+5, bps, signed, mode)
							requireRoundTrip(t, cfg, packSamples(t, cfg, values))
						}
					})
				}
			}
		}
	}
}

func TestRoundTripRandomConfigs(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	widths := []int{1, 2, 3, 5, 7, 8, 12, 16, 17, 24, 31, 32}
	rsis := []int{1, 2, 3, 5, 70}

	for trial := range 200 {
		bps := widths[rng.Intn(len(widths))]
		cfg := Config{
			BitsPerSample: bps,
			BlockSize:     BlockSizes[rng.Intn(len(BlockSizes))],
			RSI:           rsis[rng.Intn(len(rsis))],
		}
		if rng.Intn(10) < 7 {
			cfg.Flags |= format.FlagPreprocess
		}
		if rng.Intn(2) == 0 {
			cfg.Flags |= format.FlagSigned
		}
		if rng.Intn(2) == 0 {
			cfg.Flags |= format.FlagMSB
		}
		if rng.Intn(2) == 0 {
			cfg.Flags |= format.Flag3Byte
		}
		if rng.Intn(4) == 0 {
			cfg.Flags |= format.FlagPadRSI
		}
		if bps <= MaxRestrictedBits && rng.Intn(2) == 0 {
			cfg.Flags |= format.FlagRestricted
		}

		n := 1 + rng.Intn(3000)
		values := genSamples(rng, n, bps, cfg.Flags.Has(format.FlagSigned), rng.Intn(3))

		t.Run(fmt.Sprintf("%03d_bps%d_bs%d_rsi%d", trial, bps, cfg.BlockSize, cfg.RSI), func(t *testing.T) {
			requireRoundTrip(t, cfg, packSamples(t, cfg, values))
		})
	}
}

func TestRoundTripBoundaries(t *testing.T) {
	rng := rand.New(rand.NewSource(13))

	tests := []struct {
		name string
		cfg  Config
		n    int
	}{
		{name: "rsi_1", cfg: Config{BitsPerSample: 16, BlockSize: 8, RSI: 1, Flags: format.FlagPreprocess}, n: 1001},
		{name: "bs64_rsi4096", cfg: Config{BitsPerSample: 8, BlockSize: 64, RSI: MaxRSI, Flags: format.FlagPreprocess}, n: 64*MaxRSI + 77},
		{name: "bps_1", cfg: Config{BitsPerSample: 1, BlockSize: 16, RSI: 32, Flags: format.FlagPreprocess}, n: 5000},
		{name: "bps_1_raw", cfg: Config{BitsPerSample: 1, BlockSize: 8, RSI: 3}, n: 999},
		{name: "bps_32", cfg: Config{BitsPerSample: 32, BlockSize: 32, RSI: 8, Flags: format.FlagPreprocess}, n: 4000},
		{name: "bps_32_signed_raw", cfg: Config{BitsPerSample: 32, BlockSize: 16, RSI: 4, Flags: format.FlagSigned}, n: 1500},
		{name: "single_sample", cfg: Config{BitsPerSample: 12, BlockSize: 64, RSI: 64, Flags: format.FlagPreprocess}, n: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for mode := range 3 {
				values := genSamples(rng, tt.n, tt.cfg.BitsPerSample, tt.cfg.Flags.Has(format.FlagSigned), mode)
				requireRoundTrip(t, tt.cfg, packSamples(t, tt.cfg, values))
			}
		})
	}
}

func TestRoundTripExtremes(t *testing.T) {
	for _, signed := range []bool{false, true} {
		for _, bps := range []int{1, 8, 13, 32} {
			flags := format.FlagPreprocess
			if signed {
				flags |= format.FlagSigned
			}
			cfg := Config{BitsPerSample: bps, BlockSize: 16, RSI: 4, Flags: flags}
			xmin, xmax := sampleRange(bps, signed)

			t.Run(fmt.Sprintf("bps%d_%s", bps, flags), func(t *testing.T) {
				values := tile([]int64{xmin, xmax, xmax, xmin, xmin, xmin + 1, xmax - 1, xmax}, 16*4*2+3)
				requireRoundTrip(t, cfg, packSamples(t, cfg, values))
			})
		}
	}
}

func TestEmptyInput(t *testing.T) {
	require := require.New(t)

	cfg := DefaultConfig()
	coded := encodeAll(t, cfg, nil)
	require.Empty(coded)

	dec, err := NewDecoder(WithConfig(cfg))
	require.NoError(err)
	defer dec.Close()

	out := &Output{Buf: make([]byte, 16)}
	require.NoError(dec.Decode(&Input{}, out, Flush))
	require.Zero(out.Pos)
}

func TestPadRSIAlignsIntervals(t *testing.T) {
	require := require.New(t)

	cfg := Config{BitsPerSample: 5, BlockSize: 8, RSI: 1, Flags: format.FlagPreprocess | format.FlagPadRSI}
	values := tile([]int64{3, 3, 3, 3, 3, 3, 3, 3, 9, 9, 9, 9, 9, 9, 9, 9}, 32)
	raw := packSamples(t, cfg, values)

	coded := requireRoundTrip(t, cfg, raw)

	// Every RSI is a single zero block: 3 id bits, 1 extension bit, a 5-bit
	// reference and FS "1", padded to two bytes.
	require.Len(coded, 4*2)
	for i := 0; i < len(coded); i += 2 {
		require.Equal(byte(0), coded[i]>>4)
	}

	unpadded := cfg
	unpadded.Flags &^= format.FlagPadRSI
	require.Less(len(encodeAll(t, unpadded, raw)), len(coded))
}
