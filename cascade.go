package cascade

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/tphakala/go-cascade-filter/internal/filter"
)

// FilterType selects which sections of the cascade are active.
type FilterType int

const (
	// HighPass runs only the high-pass section.
	HighPass FilterType = iota

	// LowPass runs only the low-pass section.
	LowPass

	// BandPass runs the high-pass section (at the low band corner) into the
	// low-pass section (at the high band corner).
	BandPass

	// BandStop is configured by BandStopMode. With the default
	// BandStopSeries it behaves exactly like BandPass.
	BandStop
)

// String returns the lower-case name of the filter type.
func (t FilterType) String() string {
	switch t {
	case HighPass:
		return "highpass"
	case LowPass:
		return "lowpass"
	case BandPass:
		return "bandpass"
	case BandStop:
		return "bandstop"
	default:
		return fmt.Sprintf("FilterType(%d)", int(t))
	}
}

// ParseFilterType converts a name such as "lowpass" or "bp" to a FilterType.
func ParseFilterType(s string) (FilterType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "highpass", "high-pass", "hp":
		return HighPass, nil
	case "lowpass", "low-pass", "lp":
		return LowPass, nil
	case "bandpass", "band-pass", "bp":
		return BandPass, nil
	case "bandstop", "band-stop", "bs", "notch":
		return BandStop, nil
	default:
		return 0, fmt.Errorf("%w: unknown filter type %q", ErrInvalidConfig, s)
	}
}

// BandStopMode chooses how a BandStop cascade combines its two sections.
type BandStopMode int

const (
	// BandStopSeries chains the high-pass section into the low-pass section
	// with band-pass coefficients. The output is identical to BandPass; this
	// is the default behaviour and the zero value.
	BandStopSeries BandStopMode = iota

	// BandStopParallel feeds the input to a low-pass section at the low band
	// corner and a high-pass section at the high band corner and sums the
	// two outputs, which rejects the band instead of passing it.
	BandStopParallel
)

// String returns the name of the band-stop mode.
func (m BandStopMode) String() string {
	switch m {
	case BandStopSeries:
		return "series"
	case BandStopParallel:
		return "parallel"
	default:
		return fmt.Sprintf("BandStopMode(%d)", int(m))
	}
}

// Errors returned by Initialise, New and Config.Validate.
var (
	// ErrInvalidOrder indicates an order outside 1..MaxOrder.
	ErrInvalidOrder = filter.ErrInvalidOrder

	// ErrInvalidFrequency indicates a non-positive or non-finite corner,
	// center, bandwidth or sample rate, or a band whose low corner is not
	// positive.
	ErrInvalidFrequency = filter.ErrInvalidFrequency

	// ErrInvalidConfig indicates a missing config, unknown filter type or
	// unknown band-stop mode.
	ErrInvalidConfig = errors.New("invalid cascade configuration")
)

// Config describes a filter cascade.
type Config struct {
	// Type selects the response shape.
	Type FilterType

	// Order is the number of cascaded first-order stages per section,
	// 1..MaxOrder.
	Order int

	// CenterFrequency is the -3 dB corner in Hz for HighPass and LowPass,
	// and the band center in Hz for BandPass and BandStop.
	CenterFrequency float64

	// Bandwidth is the band width in Hz. Only used by BandPass and BandStop;
	// the band corners are CenterFrequency ± Bandwidth/2.
	Bandwidth float64

	// SampleRate is the sample rate of the processed signal in Hz.
	SampleRate float64

	// BandStopMode selects series (default) or parallel band-stop
	// behaviour. Ignored by other types.
	BandStopMode BandStopMode
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	_, _, err := c.coefficients()
	return err
}

// coefficients validates the configuration and derives the high-pass and
// low-pass coefficients. The coefficient of an inactive section is zero.
func (c *Config) coefficients() (highPass, lowPass float64, err error) {
	if c.Order < 1 || c.Order > MaxOrder {
		return 0, 0, fmt.Errorf("%w: order %d outside 1..%d", ErrInvalidOrder, c.Order, MaxOrder)
	}
	if c.SampleRate <= 0 || math.IsInf(c.SampleRate, 0) || math.IsNaN(c.SampleRate) {
		return 0, 0, fmt.Errorf("%w: sample rate %g Hz must be positive and finite", ErrInvalidFrequency, c.SampleRate)
	}
	if c.BandStopMode != BandStopSeries && c.BandStopMode != BandStopParallel {
		return 0, 0, fmt.Errorf("%w: unknown band-stop mode %d", ErrInvalidConfig, int(c.BandStopMode))
	}

	switch c.Type {
	case HighPass:
		highPass, err = filter.HighPassCoefficient(c.Order, c.CenterFrequency, c.SampleRate)
		return highPass, 0, err

	case LowPass:
		lowPass, err = filter.LowPassCoefficient(c.Order, c.CenterFrequency, c.SampleRate)
		return 0, lowPass, err

	case BandPass, BandStop:
		if err := filter.ValidateBand(c.CenterFrequency, c.Bandwidth); err != nil {
			return 0, 0, err
		}
		lowCorner, highCorner := filter.BandCorners(c.CenterFrequency, c.Bandwidth)
		if c.Type == BandStop && c.BandStopMode == BandStopParallel {
			lowCorner, highCorner = highCorner, lowCorner
		}

		highPass, err = filter.HighPassCoefficient(c.Order, lowCorner, c.SampleRate)
		if err != nil {
			return 0, 0, err
		}
		lowPass, err = filter.LowPassCoefficient(c.Order, highCorner, c.SampleRate)
		if err != nil {
			return 0, 0, err
		}
		return highPass, lowPass, nil

	default:
		return 0, 0, fmt.Errorf("%w: unknown filter type %d", ErrInvalidConfig, int(c.Type))
	}
}

// FilterCascade is a chain of identical first-order IIR stages.
//
// A high-pass section and a low-pass section each hold up to MaxOrder
// stages; which sections run depends on the filter type. Every stage of a
// section shares one coefficient. The zero value is uninitialised: call
// Initialise (or use New) before Update.
//
// A FilterCascade is not safe for concurrent use.
type FilterCascade struct {
	config Config

	filterType   FilterType
	order        int
	bandStopMode BandStopMode

	highPassCoefficient float64
	lowPassCoefficient  float64

	highPassInputs  [MaxOrder]float64
	highPassOutputs [MaxOrder]float64
	lowPassInputs   [MaxOrder]float64
	lowPassOutputs  [MaxOrder]float64
}

// New creates a cascade with the specified configuration and cleared state.
func New(config *Config) (*FilterCascade, error) {
	if config == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}

	c := &FilterCascade{}
	if err := c.Initialise(*config); err != nil {
		return nil, err
	}
	return c, nil
}

// Initialise configures type, order and coefficients from config.
//
// The configuration is validated first; on error the cascade is left
// unchanged. Stored samples are not cleared, so a cascade reused with a new
// configuration should be Reset as well. The coefficient of a section the
// new type does not use is set to zero.
func (c *FilterCascade) Initialise(config Config) error {
	highPass, lowPass, err := config.coefficients()
	if err != nil {
		return err
	}

	c.config = config
	c.filterType = config.Type
	c.order = config.Order
	c.bandStopMode = config.BandStopMode
	c.highPassCoefficient = highPass
	c.lowPassCoefficient = lowPass
	return nil
}

// Update filters one sample and returns the output, advancing every active
// stage by one sample.
//
// Update panics if the cascade has not been initialised.
func (c *FilterCascade) Update(input float64) float64 {
	if c.order < 1 || c.order > MaxOrder {
		panic(fmt.Sprintf("cascade: Update on uninitialised cascade (order %d)", c.order))
	}

	switch {
	case c.filterType == HighPass:
		return c.updateHighPass(input)
	case c.filterType == LowPass:
		return c.updateLowPass(input)
	case c.filterType == BandStop && c.bandStopMode == BandStopParallel:
		return c.updateHighPass(input) + c.updateLowPass(input)
	default:
		return c.updateLowPass(c.updateHighPass(input))
	}
}

// updateHighPass runs y = a*(y + x - xPrev) through each stage in turn.
func (c *FilterCascade) updateHighPass(input float64) float64 {
	a := c.highPassCoefficient
	for i := range c.order {
		c.highPassOutputs[i] = a * (c.highPassOutputs[i] + input - c.highPassInputs[i])
		c.highPassInputs[i] = input
		input = c.highPassOutputs[i]
	}
	return input
}

// updateLowPass runs y = y + (x - y)*a through each stage in turn.
func (c *FilterCascade) updateLowPass(input float64) float64 {
	a := c.lowPassCoefficient
	for i := range c.order {
		c.lowPassOutputs[i] += (input - c.lowPassOutputs[i]) * a
		c.lowPassInputs[i] = input
		input = c.lowPassOutputs[i]
	}
	return input
}

// Reset zeroes the stored samples of both sections. Coefficients, type and
// order are kept. Calling Reset on a nil cascade does nothing.
func (c *FilterCascade) Reset() {
	if c == nil {
		return
	}
	c.highPassInputs = [MaxOrder]float64{}
	c.highPassOutputs = [MaxOrder]float64{}
	c.lowPassInputs = [MaxOrder]float64{}
	c.lowPassOutputs = [MaxOrder]float64{}
}

// Type returns the configured filter type.
func (c *FilterCascade) Type() FilterType {
	return c.filterType
}

// Order returns the number of stages per section, or 0 when uninitialised.
func (c *FilterCascade) Order() int {
	return c.order
}

// BandStopMode returns the configured band-stop mode.
func (c *FilterCascade) BandStopMode() BandStopMode {
	return c.bandStopMode
}

// HighPassCoefficient returns the coefficient shared by all high-pass stages.
// It is zero when the high-pass section is inactive.
func (c *FilterCascade) HighPassCoefficient() float64 {
	return c.highPassCoefficient
}

// LowPassCoefficient returns the coefficient shared by all low-pass stages.
// It is zero when the low-pass section is inactive.
func (c *FilterCascade) LowPassCoefficient() float64 {
	return c.lowPassCoefficient
}

// Config returns the configuration the cascade was initialised with.
func (c *FilterCascade) Config() Config {
	return c.config
}

// Initialised reports whether Initialise has succeeded at least once.
func (c *FilterCascade) Initialised() bool {
	return c != nil && c.order > 0
}
