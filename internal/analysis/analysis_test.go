package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	cascade "github.com/tphakala/go-cascade-filter"
	"github.com/tphakala/go-cascade-filter/internal/mathutil"
	"github.com/tphakala/go-cascade-filter/internal/testutil"
)

const (
	testRate = 48000.0

	// 100 Hz at 48 kHz has a 480-sample period.
	lowCorner    = 100.0
	settleLen    = 48000
	measureLen   = 480 * 50
	toneTolDB    = 1e-3
	cornerTolDB  = 0.15
	spectrumSize = 4096
)

func TestImpulseResponse_FirstOrderLowPass(t *testing.T) {
	lp, err := cascade.NewLowPass(1, 1000, testRate)
	require.NoError(t, err)
	a := lp.LowPassCoefficient()

	ir := ImpulseResponse(lp, 64)
	require.Len(t, ir, 64)
	for n, v := range ir {
		want := a * math.Pow(1-a, float64(n))
		assert.InDelta(t, want, v, 1e-15, "ir[%d]", n)
	}
}

func TestImpulseResponse_EmptyLength(t *testing.T) {
	lp, err := cascade.NewLowPass(1, 1000, testRate)
	require.NoError(t, err)
	assert.Empty(t, ImpulseResponse(lp, 0))
	assert.Empty(t, ImpulseResponse(lp, -5))
}

// TestMagnitudeResponse_MatchesAnalytic compares the FFT of the impulse
// response with the closed-form transfer function.
func TestMagnitudeResponse_MatchesAnalytic(t *testing.T) {
	configs := []cascade.Config{
		{Type: cascade.LowPass, Order: 4, CenterFrequency: 1000, SampleRate: testRate},
		{Type: cascade.HighPass, Order: 3, CenterFrequency: 2000, SampleRate: testRate},
		{Type: cascade.BandPass, Order: 2, CenterFrequency: 1000, Bandwidth: 400, SampleRate: testRate},
		{
			Type: cascade.BandStop, Order: 2, CenterFrequency: 3000, Bandwidth: 2000,
			SampleRate: testRate, BandStopMode: cascade.BandStopParallel,
		},
	}

	for _, cfg := range configs {
		t.Run(cfg.Type.String()+"_"+cfg.BandStopMode.String(), func(t *testing.T) {
			measured, err := cascade.New(&cfg)
			require.NoError(t, err)
			reference, err := cascade.New(&cfg)
			require.NoError(t, err)

			spec := MagnitudeResponse(measured, spectrumSize, testRate)
			require.Len(t, spec.Freqs, spectrumSize/2+1)
			assert.InDelta(t, testRate/2, spec.Freqs[len(spec.Freqs)-1], 1e-9)

			for k, f := range spec.Freqs {
				want := reference.MagnitudeDB(f)
				if want < -120 {
					continue
				}
				assert.InDelta(t, want, spec.DB[k], 1e-6, "bin %d (%.1f Hz)", k, f)
			}
		})
	}
}

func TestSpectrum_PeakInsideBand(t *testing.T) {
	bp, err := cascade.NewBandPass(3, 1000, 400, testRate)
	require.NoError(t, err)

	freq, db := MagnitudeResponse(bp, spectrumSize, testRate).Peak()
	testutil.AssertInRange(t, freq, 800, 1200)
	assert.Less(t, db, 0.0, "a series band-pass never gains")
}

func TestSpectrum_PeakEmpty(t *testing.T) {
	freq, db := Spectrum{}.Peak()
	assert.Zero(t, freq)
	assert.Equal(t, mathutil.SilenceDB, db)
}

// TestToneGainDB_CornerAttenuation drives each low-pass order with a tone at
// its corner and expects close to half-power attenuation.
func TestToneGainDB_CornerAttenuation(t *testing.T) {
	for order := 1; order <= cascade.MaxOrder; order++ {
		lp, err := cascade.NewLowPass(order, lowCorner, testRate)
		require.NoError(t, err)

		got := ToneGainDB(lp, lowCorner, testRate, settleLen, measureLen)
		assert.InDelta(t, mathutil.HalfPowerDB, got, cornerTolDB, "order %d", order)
		assert.InDelta(t, lp.MagnitudeDB(lowCorner), got, toneTolDB, "order %d", order)
	}
}

func TestFindCorner(t *testing.T) {
	lp, err := cascade.NewLowPass(2, lowCorner, testRate)
	require.NoError(t, err)

	corner, err := FindCorner(lp.MagnitudeDB, 10, 1000, mathutil.HalfPowerDB)
	require.NoError(t, err)
	assert.InDelta(t, lowCorner, corner, 2.0)
	assert.InDelta(t, mathutil.HalfPowerDB, lp.MagnitudeDB(corner), 1e-6)
}

func TestFindCorner_NoCrossing(t *testing.T) {
	lp, err := cascade.NewLowPass(2, 10000, testRate)
	require.NoError(t, err)

	_, err = FindCorner(lp.MagnitudeDB, 10, 100, mathutil.HalfPowerDB)
	require.ErrorIs(t, err, ErrNoCrossing)
}

func TestPeakAbs(t *testing.T) {
	assert.Zero(t, PeakAbs(nil))
	assert.InDelta(t, 3.0, PeakAbs([]float64{1, -3, 2}), 0)
	assert.InDelta(t, 2.0, PeakAbs([]float64{1, -0.5, 2}), 0)
}
