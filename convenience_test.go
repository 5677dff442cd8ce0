package cascade

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/go-cascade-filter/internal/testutil"
)

func TestConvenienceConstructors(t *testing.T) {
	tests := []struct {
		name     string
		create   func() (*FilterCascade, error)
		wantType FilterType
	}{
		{"lowpass", func() (*FilterCascade, error) { return NewLowPass(2, 1000, RateDAT) }, LowPass},
		{"highpass", func() (*FilterCascade, error) { return NewHighPass(2, 1000, RateCD) }, HighPass},
		{"bandpass", func() (*FilterCascade, error) { return NewBandPass(2, 1000, 200, RateHiRes96) }, BandPass},
		{"bandstop", func() (*FilterCascade, error) { return NewBandStop(2, 1000, 200, RateVoIP, BandStopParallel) }, BandStop},
		{"dc_blocker", func() (*FilterCascade, error) { return NewDCBlocker(RateDAT) }, HighPass},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := tt.create()
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, c.Type())
			assert.True(t, c.Initialised())
		})
	}
}

func TestConvenienceConstructors_PropagateErrors(t *testing.T) {
	_, err := NewLowPass(0, 1000, RateDAT)
	require.ErrorIs(t, err, ErrInvalidOrder)

	_, err = NewBandPass(2, 100, 400, RateDAT)
	require.ErrorIs(t, err, ErrInvalidFrequency)

	_, err = NewDCBlocker(0)
	require.ErrorIs(t, err, ErrInvalidFrequency)
}

func TestFilterMono(t *testing.T) {
	cfg := &Config{Type: LowPass, Order: 2, CenterFrequency: 1000, SampleRate: RateDAT}
	input := testutil.SineWave(440, RateDAT, 1000)
	original := append([]float64(nil), input...)

	out, err := FilterMono(input, cfg)
	require.NoError(t, err)
	require.Len(t, out, len(input))
	testutil.AssertSameSequence(t, original, input, "input must not be modified")

	c, err := New(cfg)
	require.NoError(t, err)
	testutil.AssertSameSequence(t, run(c, input), out)

	_, err = FilterMono(input, nil)
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestFilterMonoFloat32(t *testing.T) {
	cfg := &Config{Type: HighPass, Order: 1, CenterFrequency: 50, SampleRate: RateDAT}
	input := []float32{1, 1, 1, 1}

	out, err := FilterMonoFloat32(input, cfg)
	require.NoError(t, err)
	require.Len(t, out, 4)
	for i := 1; i < len(out); i++ {
		assert.Less(t, out[i], out[i-1], "step response of a high-pass decays")
	}
}
