package cascade

import (
	"math"
	"math/cmplx"

	"github.com/tphakala/go-cascade-filter/internal/mathutil"
)

// Response computes the complex frequency response H(e^jw) of the cascade
// at freqHz, using the configured sample rate.
//
// Each high-pass stage contributes a(1 - z⁻¹)/(1 - a·z⁻¹) and each low-pass
// stage a/(1 - (1-a)·z⁻¹). Sections in series multiply; a parallel band-stop
// adds the two section responses. An uninitialised cascade responds with 0.
func (c *FilterCascade) Response(freqHz float64) complex128 {
	if !c.Initialised() {
		return 0
	}

	w := 2 * math.Pi * freqHz / c.config.SampleRate
	zInv := cmplx.Exp(complex(0, -w))

	switch {
	case c.filterType == HighPass:
		return c.highPassResponse(zInv)
	case c.filterType == LowPass:
		return c.lowPassResponse(zInv)
	case c.filterType == BandStop && c.bandStopMode == BandStopParallel:
		return c.highPassResponse(zInv) + c.lowPassResponse(zInv)
	default:
		return c.highPassResponse(zInv) * c.lowPassResponse(zInv)
	}
}

// MagnitudeDB returns 20·log10|H(f)|.
func (c *FilterCascade) MagnitudeDB(freqHz float64) float64 {
	return mathutil.AmplitudeToDB(cmplx.Abs(c.Response(freqHz)))
}

// Phase returns the phase response in radians at the given frequency,
// in [-π, π].
func (c *FilterCascade) Phase(freqHz float64) float64 {
	return cmplx.Phase(c.Response(freqHz))
}

func (c *FilterCascade) highPassResponse(zInv complex128) complex128 {
	a := complex(c.highPassCoefficient, 0)
	stage := a * (1 - zInv) / (1 - a*zInv)
	return stagePower(stage, c.order)
}

func (c *FilterCascade) lowPassResponse(zInv complex128) complex128 {
	a := complex(c.lowPassCoefficient, 0)
	stage := a / (1 - (1-a)*zInv)
	return stagePower(stage, c.order)
}

// stagePower multiplies n identical stage responses.
func stagePower(h complex128, n int) complex128 {
	out := complex(1, 0)
	for range n {
		out *= h
	}
	return out
}
