// Command cascade-wav filters a WAV file through a cascaded single-pole filter.
//
// Usage:
//
//	cascade-wav -type lowpass -order 2 -fc 1000 input.wav output.wav
//	cascade-wav -type bandpass -order 4 -fc 1000 -bw 400 input.wav output.wav
//	cascade-wav -type bandstop -bandstop parallel -fc 50 -bw 10 hum.wav clean.wav
//	cascade-wav -type highpass -fc 20 -gain -3 -parallel=false in.wav out.wav
//
// Each channel runs through its own cascade. Channels are filtered
// concurrently when -parallel is set and the file has more than one channel.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	cascade "github.com/tphakala/go-cascade-filter"
	"github.com/tphakala/go-cascade-filter/internal/mathutil"
	"github.com/tphakala/go-cascade-filter/internal/simdops"
)

const (
	// Frames per processing chunk
	bufferSize = 65536

	// Channel count constants for fast paths
	monoChannels   = 1
	stereoChannels = 2

	// Sample format constants
	bitsPerSample16 = 16
	bitsPerSample24 = 24
	bitsPerSample32 = 32

	// Conversion constants
	maxInt16         = 32767.0
	maxInt24         = 8388607.0
	maxInt32         = 2147483647.0
	progressInterval = 10 // Print progress every N%
	percentScale     = 100

	// CLI defaults
	defaultType      = "lowpass"
	defaultCorner    = 1000.0
	defaultBandwidth = 400.0
	minRequiredArgs  = 2

	// WAVE_FORMAT_PCM
	pcmAudioFormat = 1
)

type filterOptions struct {
	config   cascade.Config
	gainDB   float64
	parallel bool
	verbose  bool
}

type filterStats struct {
	sampleRate int
	channels   int
	bitDepth   int
	frames     int64
	clipped    int64
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	filterType := flag.String("type", defaultType, "Filter type: lowpass, highpass, bandpass, bandstop")
	order := flag.Int("order", cascade.DefaultOrder, fmt.Sprintf("Stages per section (1-%d)", cascade.MaxOrder))
	corner := flag.Float64("fc", defaultCorner, "Corner (low/high-pass) or center (band types) frequency in Hz")
	bandwidth := flag.Float64("bw", defaultBandwidth, "Bandwidth in Hz for band types")
	bandStop := flag.String("bandstop", "series", "Band-stop mode: series (default) or parallel")
	gain := flag.Float64("gain", 0, "Output gain in dB applied after filtering")
	parallel := flag.Bool("parallel", true, "Filter channels concurrently")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	args := flag.Args()
	if len(args) < minRequiredArgs {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] input.wav output.wav\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -type highpass -fc 80 voice.wav voice_hp.wav\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -type bandpass -order 4 -fc 1000 -bw 400 in.wav out.wav\n", os.Args[0])
		return errors.New("insufficient arguments")
	}

	ft, err := cascade.ParseFilterType(*filterType)
	if err != nil {
		return err
	}
	mode, err := parseBandStopMode(*bandStop)
	if err != nil {
		return err
	}

	inputPath := args[0]
	outputPath := args[1]

	opts := filterOptions{
		// SampleRate is taken from the input file.
		config: cascade.Config{
			Type:            ft,
			Order:           *order,
			CenterFrequency: *corner,
			Bandwidth:       *bandwidth,
			BandStopMode:    mode,
		},
		gainDB:   *gain,
		parallel: *parallel,
		verbose:  *verbose,
	}

	if *verbose {
		log.Printf("Input: %s", inputPath)
		log.Printf("Output: %s", outputPath)
		log.Printf("Filter: %s, order %d, %g Hz", ft, *order, *corner)
		if ft == cascade.BandPass || ft == cascade.BandStop {
			log.Printf("Bandwidth: %g Hz", *bandwidth)
		}
		if ft == cascade.BandStop {
			log.Printf("Band-stop mode: %s", mode)
		}
		log.Printf("SIMD: %s", simdops.CPUInfo())
	}

	start := time.Now()
	stats, err := filterWAV(inputPath, outputPath, opts)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("Filtered %s -> %s\n", filepath.Base(inputPath), filepath.Base(outputPath))
	fmt.Printf("  %s order %d (%d Hz, %d channels, %d-bit)\n",
		ft, *order, stats.sampleRate, stats.channels, stats.bitDepth)
	fmt.Printf("  %d frames", stats.frames)
	if stats.clipped > 0 {
		fmt.Printf(", %d samples clipped", stats.clipped)
	}
	fmt.Println()
	if secs := elapsed.Seconds(); secs > 0 {
		fmt.Printf("  Duration: %.2fs, Speed: %.1fx realtime\n",
			secs, float64(stats.frames)/float64(stats.sampleRate)/secs)
	}

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

func filterWAV(inputPath, outputPath string, opts filterOptions) (stats *filterStats, err error) {
	input, err := openWAVInput(inputPath, opts.verbose)
	if err != nil {
		return nil, err
	}
	defer func() { _ = input.Close() }()

	opts.config.SampleRate = float64(input.rate)
	cascades, err := createChannelCascades(input.channels, opts.config)
	if err != nil {
		return nil, err
	}

	output, err := createWAVOutput(outputPath, input.rate, input.bitDepth, input.channels)
	if err != nil {
		return nil, err
	}
	// The encoder patches the header sizes on Close.
	defer func() {
		if closeErr := output.Close(); err == nil {
			err = closeErr
		}
	}()

	buffers := newFilterBuffers(input.channels, input.bitDepth, input.format)
	gain := mathutil.DBToAmplitude(opts.gainDB)

	stats = &filterStats{
		sampleRate: input.rate,
		channels:   input.channels,
		bitDepth:   input.bitDepth,
	}
	progress := newProgressTracker(input.totalFrames, opts.verbose)
	lastFrames := 0

	for {
		// n counts interleaved samples, not frames.
		n, readErr := input.decoder.PCMBuffer(buffers.intBuffer)
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return nil, fmt.Errorf("failed to read audio data: %w", readErr)
		}
		frames := n / input.channels
		if frames == 0 {
			break
		}
		stats.frames += int64(frames)
		lastFrames = frames

		deinterleaveInto(buffers.intBuffer.Data[:frames*input.channels], buffers.channelBufs,
			input.channels, frames, buffers.invMaxVal)

		filterChannelData(cascades, buffers.channelBufs, frames, opts.parallel)

		if gain != 1 {
			ops := simdops.Float64Ops()
			for ch := range input.channels {
				buf := buffers.channelBufs[ch][:frames]
				ops.Scale(buf, buf, gain)
			}
		}

		outLen, clipped := interleaveInto(buffers.channelBufs, frames, buffers.outputIntBuf.Data,
			buffers.interleaved, buffers.maxVal)
		stats.clipped += int64(clipped)

		buffers.outputIntBuf.Data = buffers.outputIntBuf.Data[:outLen]
		if err := output.Write(buffers.outputIntBuf); err != nil {
			return nil, fmt.Errorf("failed to write audio data: %w", err)
		}
		buffers.outputIntBuf.Data = buffers.outputIntBuf.Data[:cap(buffers.outputIntBuf.Data)]

		progress.reportIfNeeded(stats.frames)

		if errors.Is(readErr, io.EOF) {
			break
		}
	}

	if opts.verbose {
		for ch := range input.channels {
			log.Printf("Channel %d: DC offset %.6f over the final %d frames",
				ch, simdops.Mean(buffers.channelBufs[ch][:lastFrames]), lastFrames)
		}
	}
	if opts.verbose && stats.clipped > 0 {
		log.Printf("Warning: %d samples clipped; consider a negative -gain", stats.clipped)
	}

	return stats, nil
}
