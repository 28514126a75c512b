package aec

import (
	"bytes"
	"io"
	"math/rand"
	"testing"

	"github.com/arloliu/aec/codec"
	"github.com/arloliu/aec/errs"
	"github.com/arloliu/aec/format"
	"github.com/arloliu/aec/frame"
	"github.com/stretchr/testify/require"
)

func walk(n int, seed int64) []byte {
	rng := rand.New(rand.NewSource(seed))
	raw := make([]byte, 2*n)
	v := 2000
	for i := range n {
		v = (v + rng.Intn(11) - 5) & 0xfff
		raw[2*i] = byte(v >> 8)
		raw[2*i+1] = byte(v)
	}

	return raw
}

func TestCompressDecompress(t *testing.T) {
	require := require.New(t)

	opts := []codec.Option{codec.WithBitsPerSample(12), codec.WithMSB(true), codec.WithRSI(32)}
	raw := walk(10000, 1)

	coded, err := Compress(raw, opts...)
	require.NoError(err)
	require.Less(len(coded), len(raw)/2)

	restored, err := Decompress(coded, len(raw), opts...)
	require.NoError(err)
	require.Equal(raw, restored)
}

func TestCompressGrowsOutput(t *testing.T) {
	require := require.New(t)

	// White noise expands slightly, forcing the output buffer to grow.
	raw := make([]byte, 4096)
	rand.New(rand.NewSource(2)).Read(raw)

	coded, err := Compress(raw, codec.WithPreprocess(false))
	require.NoError(err)
	require.Greater(len(coded), len(raw)/2+64)

	restored, err := Decompress(coded, len(raw), codec.WithPreprocess(false))
	require.NoError(err)
	require.Equal(raw, restored)
}

func TestCompressErrors(t *testing.T) {
	require := require.New(t)

	_, err := Compress([]byte{1, 2, 3}, codec.WithBitsPerSample(16))
	require.ErrorIs(err, errs.ErrStream)

	_, err = Compress(nil, codec.WithBlockSize(10))
	require.ErrorIs(err, errs.ErrConfig)

	coded, err := Compress(walk(100, 3), codec.WithBitsPerSample(12), codec.WithMSB(true))
	require.NoError(err)
	_, err = Decompress(coded[:len(coded)/2], 200, codec.WithBitsPerSample(12), codec.WithMSB(true))
	require.ErrorIs(err, errs.ErrUnexpectedEOF)
}

func TestStreamingFacade(t *testing.T) {
	require := require.New(t)

	enc, err := NewEncoder(codec.WithBitsPerSample(16), codec.WithMSB(true))
	require.NoError(err)
	defer enc.Close()

	raw := walk(3000, 4)
	out := &codec.Output{Buf: make([]byte, len(raw))}
	require.NoError(enc.Encode(&codec.Input{Buf: raw}, out, codec.Flush))
	require.True(enc.Done())

	dec, err := NewDecoder(codec.WithConfig(enc.Config()))
	require.NoError(err)
	defer dec.Close()

	got := &codec.Output{Buf: make([]byte, len(raw))}
	require.NoError(dec.Decode(&codec.Input{Buf: out.Bytes()}, got, codec.Flush))
	require.Equal(raw, got.Bytes())
}

func TestFrameFacade(t *testing.T) {
	require := require.New(t)

	cfg, err := codec.NewConfig(codec.WithBitsPerSample(12), codec.WithMSB(true))
	require.NoError(err)
	raw := walk(5000, 5)

	var buf bytes.Buffer
	fw, err := NewFrameWriter(&buf, cfg, frame.WithCompression(format.CompressionZstd))
	require.NoError(err)
	_, err = fw.Write(raw)
	require.NoError(err)
	require.NoError(fw.Close())
	require.Equal(Checksum(raw), fw.Header().Checksum)

	got, err := io.ReadAll(NewFrameReader(&buf))
	require.NoError(err)
	require.Equal(raw, got)
}
