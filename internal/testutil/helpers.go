// Package testutil provides signal generators and assertions shared by the
// cascade filter tests.
package testutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Default tolerances for various test scenarios.
const (
	DefaultTolerance = 1e-12
	DBTolerance      = 0.01
)

// SineWave returns n samples of a unit-amplitude sine at freq Hz.
func SineWave(freq, sampleRate float64, n int) []float64 {
	out := make([]float64, n)
	omega := 2 * math.Pi * freq / sampleRate
	for i := range out {
		out[i] = math.Sin(omega * float64(i))
	}
	return out
}

// Impulse returns a unit impulse of length n: [1, 0, 0, ...].
func Impulse(n int) []float64 {
	out := make([]float64, n)
	if n > 0 {
		out[0] = 1
	}
	return out
}

// AssertNoNaNOrInf verifies that no elements in the slice are NaN or Inf.
func AssertNoNaNOrInf(t *testing.T, s []float64, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range s {
		if math.IsNaN(v) {
			return assert.Fail(t, "found NaN", "s[%d] is NaN", i)
		}
		if math.IsInf(v, 0) {
			return assert.Fail(t, "found Inf", "s[%d] is Inf", i)
		}
	}
	return true
}

// AssertAllZero verifies every element is exactly zero.
func AssertAllZero(t *testing.T, s []float64, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range s {
		if v != 0 {
			return assert.Fail(t, "non-zero sample", "s[%d]=%g", i, v)
		}
	}
	return true
}

// AssertMagnitudeAtMost verifies |s[i]| <= limit for every element.
func AssertMagnitudeAtMost(t *testing.T, s []float64, limit float64, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range s {
		if math.Abs(v) > limit {
			return assert.Fail(t, "magnitude exceeds limit",
				"|s[%d]|=%g > %g", i, math.Abs(v), limit)
		}
	}
	return true
}

// AssertNonIncreasing verifies s[i] <= s[i-1] for every i >= 1.
func AssertNonIncreasing(t *testing.T, s []float64, msgAndArgs ...any) bool {
	t.Helper()
	for i := 1; i < len(s); i++ {
		if s[i] > s[i-1] {
			return assert.Fail(t, "not non-increasing",
				"s[%d]=%g > s[%d]=%g", i, s[i], i-1, s[i-1])
		}
	}
	return true
}

// AssertSameSequence verifies two sequences are identical sample for sample.
func AssertSameSequence(t *testing.T, want, got []float64, msgAndArgs ...any) bool {
	t.Helper()
	if !assert.Len(t, got, len(want), msgAndArgs...) {
		return false
	}
	for i := range want {
		if want[i] != got[i] {
			return assert.Fail(t, "sequences differ",
				"index %d: want %g, got %g", i, want[i], got[i])
		}
	}
	return true
}

// AssertRelativeError verifies that the relative error between actual and expected is within tolerance.
func AssertRelativeError(t *testing.T, expected, actual, tolerance float64, msgAndArgs ...any) bool {
	t.Helper()
	if expected == 0 {
		return assert.InDelta(t, expected, actual, tolerance, msgAndArgs...)
	}
	relError := math.Abs(actual-expected) / math.Abs(expected)
	return assert.LessOrEqual(t, relError, tolerance,
		"relative error %e exceeds tolerance %e (expected=%f, actual=%f)",
		relError, tolerance, expected, actual)
}

// AssertInRange verifies that a value is within [min, max].
func AssertInRange(t *testing.T, value, minVal, maxVal float64, msgAndArgs ...any) bool {
	t.Helper()
	if value < minVal || value > maxVal {
		return assert.Fail(t, "value out of range",
			"value %f is outside range [%f, %f]", value, minVal, maxVal)
	}
	return true
}
