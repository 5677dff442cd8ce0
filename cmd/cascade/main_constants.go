package main

// Default command-line flag values
const (
	defaultType      = "lowpass"
	defaultCorner    = 1000.0 // Hz
	defaultBandwidth = 400.0  // Hz, band types only
	defaultPoints    = 12     // Rows in the response table
)

// Response table range
const (
	tableMinHz = 20.0
	nyquistDiv = 2.0
)

// Measurement parameters
const (
	fftSize         = 16384
	cornerSearchMin = 1.0 // Hz
	nyquistWarnFrac = 0.45
)
