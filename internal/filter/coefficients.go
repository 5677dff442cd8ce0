// Package filter derives the per-stage coefficients of cascaded first-order
// IIR sections.
//
// N identical first-order sections in series do not share the -3 dB point of
// a single section at the same corner: each section contributes attenuation,
// so the cascade rolls off earlier. The corner handed to each section is
// therefore warped by sqrt(2^(1/N) - 1) so that the cascade as a whole
// crosses -3 dB at the requested frequency.
package filter

import (
	"errors"
	"fmt"
	"math"
)

const (
	// bandHalfDivisor splits a bandwidth symmetrically around its center.
	bandHalfDivisor = 2.0

	// warpBase is the power-sum base of the Butterworth-style warp: a cascade
	// of N sections hits -3 dB when each section is at 2^(1/N) power loss.
	warpBase = 2.0
)

var (
	// ErrInvalidOrder indicates a non-positive or oversized cascade order.
	ErrInvalidOrder = errors.New("invalid filter order")

	// ErrInvalidFrequency indicates a non-positive or non-finite frequency,
	// or a band whose low corner is not positive.
	ErrInvalidFrequency = errors.New("invalid filter frequency")
)

// WarpFactor returns sqrt(2^(1/order) - 1), the ratio between the corner of a
// single section and the corner of the whole cascade.
//
// For order 1 the factor is exactly 1.
func WarpFactor(order int) (float64, error) {
	if order < 1 {
		return 0, fmt.Errorf("%w: order %d must be at least 1", ErrInvalidOrder, order)
	}
	return math.Sqrt(math.Pow(warpBase, 1.0/float64(order)) - 1), nil
}

// HighPassCoefficient returns the feedback coefficient a of the first-order
// high-pass recurrence y[n] = a*(y[n-1] + x[n] - x[n-1]) such that order
// cascaded sections cross -3 dB at cornerHz.
//
// The per-section corner is lowered to cornerHz*WarpFactor(order), then
//
//	a = 1 / (2π·fc'·T + 1)
//
// with T the sample period. The result is strictly inside (0, 1).
func HighPassCoefficient(order int, cornerHz, sampleRate float64) (float64, error) {
	if err := checkFrequencies(cornerHz, sampleRate); err != nil {
		return 0, err
	}
	warp, err := WarpFactor(order)
	if err != nil {
		return 0, err
	}

	warped := cornerHz * warp
	return 1 / (2*math.Pi*warped*(1.0/sampleRate) + 1), nil
}

// LowPassCoefficient returns the smoothing coefficient a of the first-order
// low-pass recurrence y[n] = y[n-1] + (x[n] - y[n-1])*a such that order
// cascaded sections cross -3 dB at cornerHz.
//
// The per-section corner is raised to cornerHz/WarpFactor(order), then
//
//	a = T / (RC + T),  RC = 1/(2π·fc')
//
// with T the sample period. The result is strictly inside (0, 1).
func LowPassCoefficient(order int, cornerHz, sampleRate float64) (float64, error) {
	if err := checkFrequencies(cornerHz, sampleRate); err != nil {
		return 0, err
	}
	warp, err := WarpFactor(order)
	if err != nil {
		return 0, err
	}

	samplePeriod := 1.0 / sampleRate
	warped := cornerHz / warp
	return samplePeriod / ((1.0 / (2 * math.Pi * warped)) + samplePeriod), nil
}

// BandCorners splits a band into its low and high corner frequencies.
func BandCorners(centerHz, bandwidthHz float64) (low, high float64) {
	half := bandwidthHz / bandHalfDivisor
	return centerHz - half, centerHz + half
}

// ValidateBand checks that a band configuration yields two positive corners.
func ValidateBand(centerHz, bandwidthHz float64) error {
	if !isPositiveFinite(centerHz) {
		return fmt.Errorf("%w: center frequency %g Hz must be positive and finite", ErrInvalidFrequency, centerHz)
	}
	if !isPositiveFinite(bandwidthHz) {
		return fmt.Errorf("%w: bandwidth %g Hz must be positive and finite", ErrInvalidFrequency, bandwidthHz)
	}

	low, _ := BandCorners(centerHz, bandwidthHz)
	if low <= 0 {
		return fmt.Errorf("%w: bandwidth %g Hz around %g Hz gives low corner %g Hz",
			ErrInvalidFrequency, bandwidthHz, centerHz, low)
	}
	return nil
}

func checkFrequencies(cornerHz, sampleRate float64) error {
	if !isPositiveFinite(sampleRate) {
		return fmt.Errorf("%w: sample rate %g Hz must be positive and finite", ErrInvalidFrequency, sampleRate)
	}
	if !isPositiveFinite(cornerHz) {
		return fmt.Errorf("%w: corner frequency %g Hz must be positive and finite", ErrInvalidFrequency, cornerHz)
	}
	return nil
}

func isPositiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
