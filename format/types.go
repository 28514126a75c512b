package format

import "strings"

type (
	// Flag is a bit set of stream options shared by encoder and decoder.
	Flag uint8
	// CompressionType selects the outer compression applied to frame payloads.
	CompressionType uint8
)

const (
	FlagSigned     Flag = 1 << 0 // FlagSigned treats samples as two's complement.
	Flag3Byte      Flag = 1 << 1 // Flag3Byte stores 17-24 bit samples in 3 bytes instead of 4.
	FlagMSB        Flag = 1 << 2 // FlagMSB stores samples most significant byte first.
	FlagPreprocess Flag = 1 << 3 // FlagPreprocess enables the unit-delay predictor and mapper.
	FlagRestricted Flag = 1 << 4 // FlagRestricted uses the short option ids for samples of at most 4 bits.
	FlagPadRSI     Flag = 1 << 5 // FlagPadRSI byte-aligns the coded stream at every RSI.

	// FlagMask covers every defined flag bit.
	FlagMask = FlagSigned | Flag3Byte | FlagMSB | FlagPreprocess | FlagRestricted | FlagPadRSI

	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

// Has reports whether every bit of o is set in f.
func (f Flag) Has(o Flag) bool {
	return f&o == o
}

var flagNames = [...]string{"Signed", "3Byte", "MSB", "Preprocess", "Restricted", "PadRSI"}

func (f Flag) String() string {
	if f == 0 {
		return "None"
	}

	var parts []string
	for i, name := range flagNames {
		if f&(1<<i) != 0 {
			parts = append(parts, name)
		}
	}
	if f&^FlagMask != 0 {
		parts = append(parts, "Unknown")
	}

	return strings.Join(parts, "|")
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}
