package cascade

import (
	"fmt"
	"testing"
)

func BenchmarkUpdate(b *testing.B) {
	for _, order := range []int{1, 3, MaxOrder} {
		c, err := NewBandPass(order, 1000, 400, testRate)
		if err != nil {
			b.Fatal(err)
		}
		b.Run(fmt.Sprintf("bandpass_order_%d", order), func(b *testing.B) {
			x := 0.5
			b.ReportAllocs()
			for b.Loop() {
				x = c.Update(x) + 0.25
			}
		})
	}
}

func BenchmarkProcessBlock(b *testing.B) {
	c, err := NewLowPass(4, 1000, testRate)
	if err != nil {
		b.Fatal(err)
	}
	buf := noise(4096, 1)

	b.ReportAllocs()
	b.SetBytes(int64(len(buf) * 8))
	for b.Loop() {
		c.ProcessBlock(buf)
	}
}
