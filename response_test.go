package cascade

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/go-cascade-filter/internal/analysis"
	"github.com/tphakala/go-cascade-filter/internal/mathutil"
)

const (
	// A corner far below Nyquist keeps the bilinear-free discretisation
	// error small; 1 kHz at 48 kHz drifts up to ~1 dB at order 6.
	warpTestCorner = 100.0
	cornerTolDB    = 0.15

	toneSettle = 48000
	// 24000 samples hold a whole number of periods for every tone below.
	toneMeasure = 24000
)

// TestMagnitudeDB_CornerIsHalfPower validates the frequency warp: every
// order must land close to -3 dB at the requested corner.
func TestMagnitudeDB_CornerIsHalfPower(t *testing.T) {
	for order := 1; order <= MaxOrder; order++ {
		lp, err := NewLowPass(order, warpTestCorner, testRate)
		require.NoError(t, err)
		hp, err := NewHighPass(order, warpTestCorner, testRate)
		require.NoError(t, err)

		assert.InDelta(t, mathutil.HalfPowerDB, lp.MagnitudeDB(warpTestCorner), cornerTolDB, "low-pass order %d", order)
		assert.InDelta(t, mathutil.HalfPowerDB, hp.MagnitudeDB(warpTestCorner), cornerTolDB, "high-pass order %d", order)
	}
}

// TestToneGain_LowPassCorner drives each order with a steady sine at the
// corner and measures the output level.
func TestToneGain_LowPassCorner(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping tone sweep in short mode")
	}

	for order := 1; order <= MaxOrder; order++ {
		lp, err := NewLowPass(order, warpTestCorner, testRate)
		require.NoError(t, err)

		got := analysis.ToneGainDB(lp, warpTestCorner, testRate, toneSettle, toneMeasure)
		assert.InDelta(t, mathutil.HalfPowerDB, got, cornerTolDB, "order %d", order)
	}
}

// TestWarp_OutperformsNaiveCascade shows that without the warp the cascade
// corner drifts with the order.
func TestWarp_OutperformsNaiveCascade(t *testing.T) {
	lp, err := NewLowPass(4, warpTestCorner, testRate)
	require.NoError(t, err)

	naive, err := NewLowPass(1, warpTestCorner, testRate)
	require.NoError(t, err)
	naiveDB := 4 * naive.MagnitudeDB(warpTestCorner)

	assert.Less(t, naiveDB, -11.0, "four unwarped stages attenuate ~12 dB at the corner")
	assert.Greater(t, lp.MagnitudeDB(warpTestCorner), -3.2)
}

func TestBandPass_PassesBandRejectsOutside(t *testing.T) {
	bp, err := NewBandPass(4, 1000, 400, testRate)
	require.NoError(t, err)

	center := analysis.ToneGainDB(bp, 1000, testRate, toneSettle, toneMeasure)
	bp.Reset()
	low := analysis.ToneGainDB(bp, 20, testRate, toneSettle, toneMeasure)
	bp.Reset()
	high := analysis.ToneGainDB(bp, 20000, testRate, toneSettle, toneMeasure)

	assert.Greater(t, center, -8.0, "center of band should pass")
	assert.Less(t, center, 0.0, "series sections never gain")
	assert.Less(t, low, -80.0, "20 Hz is far below the band")
	assert.Less(t, high, -50.0, "20 kHz is far above the band")
}

// TestBandPass_ChangesInBandSignal checks that both sections act on an
// in-band tone.
func TestBandPass_ChangesInBandSignal(t *testing.T) {
	bp, err := NewBandPass(2, 1000, 400, testRate)
	require.NoError(t, err)

	omega := 2 * math.Pi * 1000 / testRate
	var maxDiff float64
	for i := range 4800 {
		x := math.Sin(omega * float64(i))
		maxDiff = math.Max(maxDiff, math.Abs(bp.Update(x)-x))
	}
	assert.Greater(t, maxDiff, 0.1)
}

func TestBandStopParallel_RejectsBand(t *testing.T) {
	bs, err := NewBandStop(2, 3000, 2000, testRate, BandStopParallel)
	require.NoError(t, err)
	series, err := NewBandStop(2, 3000, 2000, testRate, BandStopSeries)
	require.NoError(t, err)

	assert.Greater(t, bs.MagnitudeDB(20), -0.1, "DC region passes")
	assert.Less(t, bs.MagnitudeDB(3000), -10.0, "band center is rejected")
	assert.Greater(t, series.MagnitudeDB(3000), -8.0, "series mode passes the band center")
	assert.Greater(t, series.MagnitudeDB(3000)-bs.MagnitudeDB(3000), 5.0)

	measured := analysis.ToneGainDB(bs, 3000, testRate, toneSettle, toneMeasure)
	assert.InDelta(t, bs.MagnitudeDB(3000), measured, 1e-3)
}

func TestPhase(t *testing.T) {
	lp, err := NewLowPass(1, testCorner, testRate)
	require.NoError(t, err)
	hp, err := NewHighPass(1, testCorner, testRate)
	require.NoError(t, err)

	lpPhase := lp.Phase(testCorner)
	hpPhase := hp.Phase(testCorner)
	assert.True(t, lpPhase < 0 && lpPhase > -math.Pi/2, "low-pass lags: %g", lpPhase)
	assert.True(t, hpPhase > 0 && hpPhase < math.Pi/2, "high-pass leads: %g", hpPhase)
}

func TestResponse_Uninitialised(t *testing.T) {
	var c FilterCascade
	assert.Equal(t, complex128(0), c.Response(1000))
	assert.Equal(t, mathutil.SilenceDB, c.MagnitudeDB(1000))
}
