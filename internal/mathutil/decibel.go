// Package mathutil provides level conversions used when measuring filter responses.
package mathutil

import "math"

// Decibel conversion constants.
const (
	amplitudeDBFactor = 20.0
	powerDBFactor     = 10.0
	halfPowerRatio    = 0.5

	// SilenceDB is returned for zero or negative magnitudes instead of -Inf
	// so that tables and comparisons stay finite.
	SilenceDB = -400.0
)

// HalfPowerDB is the level of the -3 dB corner: 10·log10(0.5) ≈ -3.0103 dB.
var HalfPowerDB = PowerToDB(halfPowerRatio)

// AmplitudeToDB converts a linear amplitude ratio to decibels.
// Non-positive input maps to SilenceDB.
func AmplitudeToDB(amplitude float64) float64 {
	if amplitude <= 0 {
		return SilenceDB
	}
	return math.Max(amplitudeDBFactor*math.Log10(amplitude), SilenceDB)
}

// PowerToDB converts a linear power ratio to decibels.
// Non-positive input maps to SilenceDB.
func PowerToDB(power float64) float64 {
	if power <= 0 {
		return SilenceDB
	}
	return math.Max(powerDBFactor*math.Log10(power), SilenceDB)
}

// DBToAmplitude converts decibels to a linear amplitude ratio.
func DBToAmplitude(db float64) float64 {
	return math.Pow(10, db/amplitudeDBFactor)
}
