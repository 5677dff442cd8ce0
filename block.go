package cascade

import "github.com/tphakala/go-cascade-filter/internal/simdops"

// ProcessBlock filters buf in place, one Update per sample.
func (c *FilterCascade) ProcessBlock(buf []float64) {
	for i, x := range buf {
		buf[i] = c.Update(x)
	}
}

// Process filters src into dst and returns the number of samples written,
// which is min(len(dst), len(src)). dst and src may be the same slice.
func (c *FilterCascade) Process(dst, src []float64) int {
	return processInto(c, dst, src)
}

// ProcessFloat32 is like Process but for float32 samples.
// The recurrence runs in float64; only the I/O is float32.
func (c *FilterCascade) ProcessFloat32(dst, src []float32) int {
	return processInto(c, dst, src)
}

func processInto[F simdops.Float](c *FilterCascade, dst, src []F) int {
	n := min(len(dst), len(src))
	for i := range n {
		dst[i] = F(c.Update(float64(src[i])))
	}
	return n
}
