package cascade

import "fmt"

// Common sample rates for convenience functions.
const (
	// RateCD is the CD quality sample rate (Red Book standard).
	RateCD = 44100

	// RateDAT is the DAT/DVD sample rate.
	RateDAT = 48000

	// RateHiRes96 is the high-resolution 2x DAT sample rate.
	RateHiRes96 = 96000

	// RateVoIP is the VoIP wideband sample rate.
	RateVoIP = 16000
)

// NewLowPass creates a low-pass cascade with the given -3 dB corner.
func NewLowPass(order int, cornerHz, sampleRate float64) (*FilterCascade, error) {
	return New(&Config{
		Type:            LowPass,
		Order:           order,
		CenterFrequency: cornerHz,
		SampleRate:      sampleRate,
	})
}

// NewHighPass creates a high-pass cascade with the given -3 dB corner.
func NewHighPass(order int, cornerHz, sampleRate float64) (*FilterCascade, error) {
	return New(&Config{
		Type:            HighPass,
		Order:           order,
		CenterFrequency: cornerHz,
		SampleRate:      sampleRate,
	})
}

// NewBandPass creates a band-pass cascade passing centerHz ± bandwidthHz/2.
func NewBandPass(order int, centerHz, bandwidthHz, sampleRate float64) (*FilterCascade, error) {
	return New(&Config{
		Type:            BandPass,
		Order:           order,
		CenterFrequency: centerHz,
		Bandwidth:       bandwidthHz,
		SampleRate:      sampleRate,
	})
}

// NewBandStop creates a band-stop cascade around centerHz ± bandwidthHz/2.
//
// With BandStopSeries the cascade keeps the default behaviour, which
// is identical to NewBandPass. Use BandStopParallel to reject the band.
func NewBandStop(order int, centerHz, bandwidthHz, sampleRate float64, mode BandStopMode) (*FilterCascade, error) {
	return New(&Config{
		Type:            BandStop,
		Order:           order,
		CenterFrequency: centerHz,
		Bandwidth:       bandwidthHz,
		SampleRate:      sampleRate,
		BandStopMode:    mode,
	})
}

// NewDCBlocker creates a first-order high-pass cascade with a 10 Hz corner,
// a common DC removal setting.
func NewDCBlocker(sampleRate float64) (*FilterCascade, error) {
	return NewHighPass(1, dcBlockerCornerHz, sampleRate)
}

// FilterMono filters a whole signal with a freshly initialised cascade.
// The input slice is not modified.
func FilterMono(input []float64, config *Config) ([]float64, error) {
	c, err := New(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create cascade: %w", err)
	}

	output := make([]float64, len(input))
	c.Process(output, input)
	return output, nil
}

// FilterMonoFloat32 is like FilterMono but for float32 samples.
func FilterMonoFloat32(input []float32, config *Config) ([]float32, error) {
	c, err := New(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create cascade: %w", err)
	}

	output := make([]float32, len(input))
	c.ProcessFloat32(output, input)
	return output, nil
}
