// Package cascade provides cascaded single-pole IIR filters in pure Go.
//
// A FilterCascade chains up to [MaxOrder] identical first-order stages to
// approximate higher-order Butterworth-style low-pass, high-pass, band-pass
// and band-stop responses. It processes one sample at a time, never
// allocates after construction and never blocks, so it can sit inside a
// real-time audio or sensor loop.
//
// # Corner Frequency Warping
//
// N identical first-order stages in series reach -3 dB earlier than a single
// stage at the same corner. The per-stage corner is therefore warped by
// sqrt(2^(1/N) - 1): lowered for high-pass stages and raised for low-pass
// stages, so the whole cascade crosses -3 dB at the requested frequency.
//
// # Quick Start
//
//	lp, err := cascade.NewLowPass(4, 1000, 48000)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for i, x := range samples {
//	    samples[i] = lp.Update(x)
//	}
//
// Or with an explicit configuration:
//
//	c, err := cascade.New(&cascade.Config{
//	    Type:            cascade.BandPass,
//	    Order:           3,
//	    CenterFrequency: 1000,
//	    Bandwidth:       400,
//	    SampleRate:      48000,
//	})
//
// # Band-Stop
//
// By default ([BandStopSeries]) band-stop is built exactly like band-pass,
// chaining the high-pass section into the low-pass section. [BandStopParallel] instead runs a low-pass
// section at the low corner and a high-pass section at the high corner side
// by side and sums them, which actually rejects the band.
//
// # Errors
//
// [New] and [FilterCascade.Initialise] validate their input and return
// errors wrapping [ErrInvalidOrder], [ErrInvalidFrequency] or
// [ErrInvalidConfig]. Once initialised, Update and Reset cannot fail.
//
// # Thread Safety
//
// A [FilterCascade] mutates its state on every Update and must not be shared
// between goroutines without external synchronisation. Independent channels
// should each own a cascade.
package cascade
