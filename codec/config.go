package codec

import (
	"fmt"
	"slices"

	"github.com/arloliu/aec/errs"
	"github.com/arloliu/aec/format"
	"github.com/arloliu/aec/internal/options"
	"github.com/arloliu/aec/sample"
)

// Parameter limits accepted by Config.Validate.
const (
	MinBitsPerSample = 1
	MaxBitsPerSample = 32
	MaxRSI           = 4096
	// MaxRestrictedBits is the widest sample allowed with format.FlagRestricted.
	MaxRestrictedBits = 4
)

// BlockSizes lists the supported block sizes in samples.
var BlockSizes = []int{8, 16, 32, 64}

// Config holds the stream parameters shared by the encoder and the decoder.
// Both sides of a stream must use identical values.
type Config struct {
	// BitsPerSample is the sample width, 1 to 32.
	BitsPerSample int
	// BlockSize is the number of samples per block: 8, 16, 32 or 64.
	BlockSize int
	// RSI is the number of blocks per reference sample interval, 1 to 4096.
	RSI int
	// Flags selects signedness, byte order, storage width and coding variants.
	Flags format.Flag
}

// DefaultConfig returns 8-bit unsigned samples, 16-sample blocks, 128 blocks
// per RSI, with preprocessing enabled.
func DefaultConfig() Config {
	return Config{
		BitsPerSample: 8,
		BlockSize:     16,
		RSI:           128,
		Flags:         format.FlagPreprocess,
	}
}

// Validate checks the parameter ranges and flag combinations.
func (c Config) Validate() error {
	if c.BitsPerSample < MinBitsPerSample || c.BitsPerSample > MaxBitsPerSample {
		return fmt.Errorf("%w: bits per sample %d out of range [%d, %d]",
			errs.ErrConfig, c.BitsPerSample, MinBitsPerSample, MaxBitsPerSample)
	}
	if !slices.Contains(BlockSizes, c.BlockSize) {
		return fmt.Errorf("%w: block size %d not in %v", errs.ErrConfig, c.BlockSize, BlockSizes)
	}
	if c.RSI < 1 || c.RSI > MaxRSI {
		return fmt.Errorf("%w: rsi %d out of range [1, %d]", errs.ErrConfig, c.RSI, MaxRSI)
	}
	if c.Flags&^format.FlagMask != 0 {
		return fmt.Errorf("%w: unknown flags %#x", errs.ErrConfig, uint8(c.Flags&^format.FlagMask))
	}
	if c.Flags.Has(format.FlagRestricted) && c.BitsPerSample > MaxRestrictedBits {
		return fmt.Errorf("%w: restricted mode needs at most %d bits per sample, got %d",
			errs.ErrConfig, MaxRestrictedBits, c.BitsPerSample)
	}

	return nil
}

// BytesPerSample returns the storage width of one sample in the raw buffers.
func (c Config) BytesPerSample() int {
	return sample.BytesPerSample(c.BitsPerSample, c.Flags.Has(format.Flag3Byte))
}

// IDLength returns the width in bits of the code option identifier.
func (c Config) IDLength() int {
	switch {
	case c.BitsPerSample > 16:
		return 5
	case c.BitsPerSample > 8:
		return 4
	case c.Flags.Has(format.FlagRestricted) && c.BitsPerSample <= 2:
		return 1
	case c.Flags.Has(format.FlagRestricted):
		return 2
	default:
		return 3
	}
}

// Option represents a functional option for configuring a Config.
type Option = options.Option[*Config]

// NewConfig applies opts over DefaultConfig and validates the result.
func NewConfig(opts ...Option) (Config, error) {
	cfg := DefaultConfig()
	if err := options.Apply(&cfg, opts...); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// WithConfig replaces every parameter with cfg.
func WithConfig(cfg Config) Option {
	return options.NoError(func(c *Config) {
		*c = cfg
	})
}

// WithBitsPerSample sets the sample width in bits.
func WithBitsPerSample(bps int) Option {
	return options.NoError(func(c *Config) {
		c.BitsPerSample = bps
	})
}

// WithBlockSize sets the number of samples per block.
func WithBlockSize(size int) Option {
	return options.NoError(func(c *Config) {
		c.BlockSize = size
	})
}

// WithRSI sets the number of blocks per reference sample interval.
func WithRSI(rsi int) Option {
	return options.NoError(func(c *Config) {
		c.RSI = rsi
	})
}

// WithFlags replaces the flag set.
func WithFlags(flags format.Flag) Option {
	return options.New(func(c *Config) error {
		if flags&^format.FlagMask != 0 {
			return fmt.Errorf("%w: unknown flags %#x", errs.ErrConfig, uint8(flags&^format.FlagMask))
		}
		c.Flags = flags

		return nil
	})
}

func withFlag(flag format.Flag, enabled bool) Option {
	return options.NoError(func(c *Config) {
		if enabled {
			c.Flags |= flag
		} else {
			c.Flags &^= flag
		}
	})
}

// WithSigned treats samples as two's complement integers.
func WithSigned(enabled bool) Option { return withFlag(format.FlagSigned, enabled) }

// WithMSB stores samples most significant byte first.
func WithMSB(enabled bool) Option { return withFlag(format.FlagMSB, enabled) }

// WithPreprocess enables the unit-delay predictor and prediction error mapper.
func WithPreprocess(enabled bool) Option { return withFlag(format.FlagPreprocess, enabled) }

// With3Byte stores 17 to 24 bit samples in three bytes.
func With3Byte(enabled bool) Option { return withFlag(format.Flag3Byte, enabled) }

// WithRestricted uses the shortened option identifiers for samples of at most 4 bits.
func WithRestricted(enabled bool) Option { return withFlag(format.FlagRestricted, enabled) }

// WithPadRSI byte-aligns the coded stream at the start of every RSI.
func WithPadRSI(enabled bool) Option { return withFlag(format.FlagPadRSI, enabled) }

// params holds values derived once from a validated Config.
type params struct {
	Config

	idLen          int
	bytesPerSample int
	kmax           int
	mask           uint32 // low BitsPerSample bits
	signBit        uint32 // 1 << (BitsPerSample-1)
	rsiSamples     int
	rsiBytes       int
	pp             bool
	signed         bool
	padRSI         bool
	msb            bool
}

func newParams(opts []Option) (params, error) {
	cfg, err := NewConfig(opts...)
	if err != nil {
		return params{}, err
	}

	p := params{
		Config:         cfg,
		idLen:          cfg.IDLength(),
		bytesPerSample: cfg.BytesPerSample(),
		mask:           uint32(uint64(1)<<uint(cfg.BitsPerSample) - 1),
		signBit:        uint32(1) << uint(cfg.BitsPerSample-1),
		rsiSamples:     cfg.BlockSize * cfg.RSI,
		pp:             cfg.Flags.Has(format.FlagPreprocess),
		signed:         cfg.Flags.Has(format.FlagSigned),
		padRSI:         cfg.Flags.Has(format.FlagPadRSI),
		msb:            cfg.Flags.Has(format.FlagMSB),
	}
	p.kmax = 1<<uint(p.idLen) - 3
	p.rsiBytes = p.rsiSamples * p.bytesPerSample

	return p, nil
}
