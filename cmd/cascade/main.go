// Command cascade prints the coefficients and frequency response of a
// cascaded single-pole filter.
//
// Usage:
//
//	cascade -type lowpass -order 2 -fc 1000 -rate 48000
//	cascade -type bandpass -order 4 -fc 1000 -bw 400 -measure
//	cascade -type bandstop -bandstop parallel -fc 3000 -bw 2000
//	cascade -type highpass -fc 100 -sweep
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"strings"

	cascade "github.com/tphakala/go-cascade-filter"
	"github.com/tphakala/go-cascade-filter/internal/analysis"
	"github.com/tphakala/go-cascade-filter/internal/mathutil"
	"github.com/tphakala/go-cascade-filter/internal/simdops"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	var (
		filterType = flag.String("type", defaultType, "Filter type: lowpass, highpass, bandpass, bandstop")
		order      = flag.Int("order", cascade.DefaultOrder, fmt.Sprintf("Stages per section (1-%d)", cascade.MaxOrder))
		corner     = flag.Float64("fc", defaultCorner, "Corner (low/high-pass) or center (band types) frequency in Hz")
		bandwidth  = flag.Float64("bw", defaultBandwidth, "Bandwidth in Hz for band types")
		rate       = flag.Float64("rate", cascade.DefaultSampleRate, "Sample rate in Hz")
		bandStop   = flag.String("bandstop", "series", "Band-stop mode: series (default) or parallel")
		points     = flag.Int("points", defaultPoints, "Number of rows in the response table")
		measure    = flag.Bool("measure", false, "Compare the analytic response with an FFT of the impulse response")
		sweep      = flag.Bool("sweep", false, "Show the -3 dB corner for every order")
		verbose    = flag.Bool("v", false, "Verbose output")
	)
	flag.Parse()

	ft, err := cascade.ParseFilterType(*filterType)
	if err != nil {
		return err
	}
	mode, err := parseBandStopMode(*bandStop)
	if err != nil {
		return err
	}

	config := cascade.Config{
		Type:            ft,
		Order:           *order,
		CenterFrequency: *corner,
		Bandwidth:       *bandwidth,
		SampleRate:      *rate,
		BandStopMode:    mode,
	}

	if *verbose {
		log.Printf("SIMD: %s", simdops.CPUInfo())
		log.Printf("Config: %+v", config)
	}
	if *corner > *rate*nyquistWarnFrac {
		log.Printf("Warning: %g Hz is close to or above Nyquist (%g Hz); the warp assumes fc << fs",
			*corner, *rate/nyquistDiv)
	}

	if *sweep {
		return printSweep(config)
	}

	c, err := cascade.New(&config)
	if err != nil {
		return fmt.Errorf("failed to create cascade: %w", err)
	}

	printSummary(c)
	printResponseTable(c, *points, *measure)
	return nil
}

func parseBandStopMode(s string) (cascade.BandStopMode, error) {
	switch strings.ToLower(s) {
	case "series", "":
		return cascade.BandStopSeries, nil
	case "parallel":
		return cascade.BandStopParallel, nil
	default:
		return 0, fmt.Errorf("%w: unknown band-stop mode %q", cascade.ErrInvalidConfig, s)
	}
}

func printSummary(c *cascade.FilterCascade) {
	cfg := c.Config()
	fmt.Printf("Filter cascade:\n")
	fmt.Printf("  Type: %s", c.Type())
	if c.Type() == cascade.BandStop {
		fmt.Printf(" (%s)", c.BandStopMode())
	}
	fmt.Println()
	fmt.Printf("  Order: %d stages per section\n", c.Order())
	fmt.Printf("  Sample rate: %g Hz\n", cfg.SampleRate)
	switch c.Type() {
	case cascade.HighPass, cascade.LowPass:
		fmt.Printf("  Corner: %g Hz\n", cfg.CenterFrequency)
	default:
		fmt.Printf("  Band: %g Hz ± %g Hz\n", cfg.CenterFrequency, cfg.Bandwidth/nyquistDiv)
	}
	if c.Type() != cascade.LowPass {
		fmt.Printf("  High-pass coefficient: %.12f\n", c.HighPassCoefficient())
	}
	if c.Type() != cascade.HighPass {
		fmt.Printf("  Low-pass coefficient:  %.12f\n", c.LowPassCoefficient())
	}
}

// printResponseTable prints the analytic magnitude at log-spaced frequencies,
// optionally next to the FFT measurement of the impulse response.
func printResponseTable(c *cascade.FilterCascade, points int, measure bool) {
	nyquist := c.Config().SampleRate / nyquistDiv
	freqs := logSpace(tableMinHz, nyquist, points)

	var spec analysis.Spectrum
	if measure {
		cfg := c.Config()
		probe, err := cascade.New(&cfg)
		if err == nil {
			spec = analysis.MagnitudeResponse(probe, fftSize, c.Config().SampleRate)
		}
	}

	fmt.Println("\nMagnitude response:")
	if measure {
		fmt.Printf("  %10s  %10s  %10s\n", "Hz", "analytic", "measured")
	} else {
		fmt.Printf("  %10s  %10s\n", "Hz", "dB")
	}

	for _, f := range freqs {
		db := c.MagnitudeDB(f)
		if !measure || len(spec.Freqs) == 0 {
			fmt.Printf("  %10.1f  %10.3f\n", f, db)
			continue
		}
		k := nearestBin(spec.Freqs, f)
		fmt.Printf("  %10.1f  %10.3f  %10.3f  (bin %.1f Hz: %.3f)\n",
			f, db, spec.DB[k], spec.Freqs[k], c.MagnitudeDB(spec.Freqs[k]))
	}

	if measure && len(spec.Freqs) > 0 {
		peakHz, peakDB := spec.Peak()
		fmt.Printf("\nMeasured peak: %.3f dB at %.1f Hz\n", peakDB, peakHz)
	}
}

// printSweep reports where each order actually crosses -3 dB.
func printSweep(config cascade.Config) error {
	if config.Type != cascade.LowPass && config.Type != cascade.HighPass {
		return fmt.Errorf("%w: -sweep supports lowpass and highpass only", cascade.ErrInvalidConfig)
	}

	nyquist := config.SampleRate / nyquistDiv
	fmt.Printf("Order sweep for %s at %g Hz (fs %g Hz):\n", config.Type, config.CenterFrequency, config.SampleRate)
	fmt.Printf("  %5s  %12s  %12s  %10s\n", "order", "coefficient", "-3dB at Hz", "dB at fc")

	for order := 1; order <= cascade.MaxOrder; order++ {
		config.Order = order
		c, err := cascade.New(&config)
		if err != nil {
			return err
		}

		coeff := c.LowPassCoefficient()
		if config.Type == cascade.HighPass {
			coeff = c.HighPassCoefficient()
		}

		corner, err := analysis.FindCorner(c.MagnitudeDB, cornerSearchMin, nyquist, mathutil.HalfPowerDB)
		if err != nil {
			fmt.Printf("  %5d  %12.9f  %12s  %10.3f\n", order, coeff, "n/a", c.MagnitudeDB(config.CenterFrequency))
			continue
		}
		fmt.Printf("  %5d  %12.9f  %12.2f  %10.3f\n", order, coeff, corner, c.MagnitudeDB(config.CenterFrequency))
	}
	return nil
}

func logSpace(lo, hi float64, n int) []float64 {
	if n < 2 {
		return []float64{lo}
	}
	out := make([]float64, n)
	ratio := math.Log(hi / lo)
	for i := range out {
		out[i] = lo * math.Exp(ratio*float64(i)/float64(n-1))
	}
	return out
}

func nearestBin(freqs []float64, f float64) int {
	best := 0
	for i, bin := range freqs {
		if math.Abs(bin-f) < math.Abs(freqs[best]-f) {
			best = i
		}
	}
	return best
}

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\nOptions:\n", os.Args[0])
		flag.PrintDefaults()
	}
}
