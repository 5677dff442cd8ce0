// Package analysis measures the behaviour of sample-by-sample filters:
// impulse responses, FFT magnitude responses, steady-state tone gain and
// -3 dB corner search.
package analysis

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/tphakala/go-cascade-filter/internal/mathutil"
	"github.com/tphakala/go-cascade-filter/internal/simdops"
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"
)

const (
	// defaultBisectIterations narrows a corner search to ~1e-15 of the range.
	defaultBisectIterations = 60
)

// ErrNoCrossing is returned when a response never crosses the target level
// inside the searched range.
var ErrNoCrossing = errors.New("response does not cross target level")

// Processor is a single-sample filter.
type Processor interface {
	Update(x float64) float64
}

// ImpulseResponse feeds a unit impulse followed by n-1 zeros through p.
func ImpulseResponse(p Processor, n int) []float64 {
	out := make([]float64, max(n, 0))
	for i := range out {
		x := 0.0
		if i == 0 {
			x = 1
		}
		out[i] = p.Update(x)
	}
	return out
}

// Spectrum is a magnitude response sampled at FFT bin frequencies.
type Spectrum struct {
	Freqs []float64 // Bin frequencies in Hz, 0..sampleRate/2
	DB    []float64 // Magnitude in dB
}

// MagnitudeResponse measures the magnitude response of p from an n-sample
// impulse response using a real FFT. n should be long enough for the
// impulse response to decay, otherwise truncation shows up as ripple.
func MagnitudeResponse(p Processor, n int, sampleRate float64) Spectrum {
	ir := ImpulseResponse(p, n)

	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, ir)

	s := Spectrum{
		Freqs: make([]float64, len(coeffs)),
		DB:    make([]float64, len(coeffs)),
	}
	for k, c := range coeffs {
		s.Freqs[k] = fft.Freq(k) * sampleRate
		s.DB[k] = mathutil.AmplitudeToDB(cmplx.Abs(c))
	}
	return s
}

// Peak returns the frequency and level of the loudest bin.
func (s Spectrum) Peak() (freqHz, db float64) {
	if len(s.DB) == 0 {
		return 0, mathutil.SilenceDB
	}
	i := floats.MaxIdx(s.DB)
	return s.Freqs[i], s.DB[i]
}

// ToneGainDB drives p with a unit sine at freqHz for settle+measure samples
// and returns the RMS level ratio over the last measure samples in dB.
// Choose measure as a whole number of periods for an exact result.
func ToneGainDB(p Processor, freqHz, sampleRate float64, settle, measure int) float64 {
	omega := 2 * math.Pi * freqHz / sampleRate
	total := settle + measure

	in := make([]float64, measure)
	out := make([]float64, measure)
	for i := range total {
		x := math.Sin(omega * float64(i))
		y := p.Update(x)
		if i >= settle {
			in[i-settle] = x
			out[i-settle] = y
		}
	}

	inRMS := simdops.RMS(in)
	if inRMS == 0 {
		return mathutil.SilenceDB
	}
	return mathutil.AmplitudeToDB(simdops.RMS(out) / inRMS)
}

// PeakAbs returns the largest absolute value in s.
func PeakAbs(s []float64) float64 {
	if len(s) == 0 {
		return 0
	}
	return math.Max(math.Abs(floats.Max(s)), math.Abs(floats.Min(s)))
}

// FindCorner bisects [loHz, hiHz] for the frequency where response crosses
// targetDB. response must be monotonic over the range.
func FindCorner(response func(freqHz float64) float64, loHz, hiHz, targetDB float64) (float64, error) {
	fLo := response(loHz) - targetDB
	fHi := response(hiHz) - targetDB
	if fLo == 0 {
		return loHz, nil
	}
	if fHi == 0 {
		return hiHz, nil
	}
	if math.Signbit(fLo) == math.Signbit(fHi) {
		return 0, fmt.Errorf("%w: %g dB between %g Hz and %g Hz", ErrNoCrossing, targetDB, loHz, hiHz)
	}

	for range defaultBisectIterations {
		mid := (loHz + hiHz) / 2
		fMid := response(mid) - targetDB
		if math.Signbit(fMid) == math.Signbit(fLo) {
			loHz, fLo = mid, fMid
		} else {
			hiHz = mid
		}
	}
	return (loHz + hiHz) / 2, nil
}
