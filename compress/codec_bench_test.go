package compress

import (
	"testing"
)

func generateBenchmarkData(size int) []byte {
	data := make([]byte, size)
	for i := range data {
		if i%100 < 50 {
			data[i] = byte(i % 256)
		} else {
			data[i] = byte((i*7 + i*i) % 256)
		}
	}

	return data
}

func BenchmarkAllCodecs_Compress(b *testing.B) {
	data := generateBenchmarkData(64 * 1024)

	for ct, c := range getAllCodecs() {
		b.Run(ct.String(), func(b *testing.B) {
			dst := make([]byte, 0, 2*len(data))
			b.ReportAllocs()
			b.SetBytes(int64(len(data)))
			for b.Loop() {
				if _, err := c.Compress(dst[:0], data); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkAllCodecs_Decompress(b *testing.B) {
	data := generateBenchmarkData(64 * 1024)

	for ct, c := range getAllCodecs() {
		compressed, err := c.Compress(nil, data)
		if err != nil {
			b.Fatal(err)
		}

		b.Run(ct.String(), func(b *testing.B) {
			dst := make([]byte, 0, len(data))
			b.ReportAllocs()
			b.SetBytes(int64(len(data)))
			for b.Loop() {
				if _, err := c.Decompress(dst[:0], compressed, len(data)); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
