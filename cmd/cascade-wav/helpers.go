package main

import (
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	cascade "github.com/tphakala/go-cascade-filter"
	"github.com/tphakala/go-cascade-filter/internal/simdops"
)

// wavInputInfo holds validated input file information.
type wavInputInfo struct {
	file        *os.File
	decoder     *wav.Decoder
	rate        int
	channels    int
	bitDepth    int
	totalFrames int64
	format      *audio.Format
}

// openWAVInput opens and validates a WAV file, returning format information.
func openWAVInput(path string, verbose bool) (*wavInputInfo, error) {
	inputFile, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}

	decoder := wav.NewDecoder(inputFile)
	if !decoder.IsValidFile() {
		_ = inputFile.Close()
		return nil, fmt.Errorf("invalid WAV file: %s", path)
	}

	format := decoder.Format()
	bitDepth := int(decoder.BitDepth)
	if !supportedBitDepth(bitDepth) {
		_ = inputFile.Close()
		return nil, fmt.Errorf("unsupported bit depth %d in %s (want 16, 24 or 32)", bitDepth, path)
	}
	if format.NumChannels < 1 {
		_ = inputFile.Close()
		return nil, fmt.Errorf("invalid channel count %d in %s", format.NumChannels, path)
	}

	if verbose {
		log.Printf("Input format: %d Hz, %d channels, %d-bit", format.SampleRate, format.NumChannels, bitDepth)
	}

	// Duration is only used for progress reporting.
	duration, err := decoder.Duration()
	if err != nil {
		duration = 0
	}

	return &wavInputInfo{
		file:        inputFile,
		decoder:     decoder,
		rate:        format.SampleRate,
		channels:    format.NumChannels,
		bitDepth:    bitDepth,
		totalFrames: int64(duration.Seconds() * float64(format.SampleRate)),
		format:      format,
	}, nil
}

// Close closes the input file.
func (w *wavInputInfo) Close() error {
	return w.file.Close()
}

func supportedBitDepth(bitDepth int) bool {
	switch bitDepth {
	case bitsPerSample16, bitsPerSample24, bitsPerSample32:
		return true
	default:
		return false
	}
}

// createChannelCascades creates one independently configured cascade per channel.
func createChannelCascades(numChannels int, config cascade.Config) ([]*cascade.FilterCascade, error) {
	cascades := make([]*cascade.FilterCascade, numChannels)
	for ch := range numChannels {
		c, err := cascade.New(&config)
		if err != nil {
			return nil, fmt.Errorf("failed to create cascade for channel %d: %w", ch, err)
		}
		cascades[ch] = c
	}
	return cascades, nil
}

// wavOutputWriter wraps the output file and its encoder.
type wavOutputWriter struct {
	file    *os.File
	encoder *wav.Encoder
}

// createWAVOutput creates the output file and a PCM encoder for it.
func createWAVOutput(path string, sampleRate, bitDepth, channels int) (*wavOutputWriter, error) {
	outputFile, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	return &wavOutputWriter{
		file:    outputFile,
		encoder: wav.NewEncoder(outputFile, sampleRate, bitDepth, channels, pcmAudioFormat),
	}, nil
}

// Write encodes one buffer of interleaved samples.
func (w *wavOutputWriter) Write(buf *audio.IntBuffer) error {
	return w.encoder.Write(buf)
}

// Close finalises the WAV header and closes the file.
func (w *wavOutputWriter) Close() error {
	if err := w.encoder.Close(); err != nil {
		_ = w.file.Close()
		return err
	}
	return w.file.Close()
}

// filterBuffers holds all preallocated buffers for one pass.
type filterBuffers struct {
	intBuffer    *audio.IntBuffer
	outputIntBuf *audio.IntBuffer
	channelBufs  [][]float64
	interleaved  []float64
	invMaxVal    float64
	maxVal       float64
}

// newFilterBuffers creates and preallocates all processing buffers.
func newFilterBuffers(channels, bitDepth int, format *audio.Format) *filterBuffers {
	channelBufs := make([][]float64, channels)
	for ch := range channels {
		channelBufs[ch] = make([]float64, bufferSize)
	}

	maxVal := getMaxValue(bitDepth)

	return &filterBuffers{
		intBuffer: &audio.IntBuffer{
			Data:           make([]int, bufferSize*channels),
			Format:         format,
			SourceBitDepth: bitDepth,
		},
		outputIntBuf: &audio.IntBuffer{
			Data:           make([]int, bufferSize*channels),
			Format:         format,
			SourceBitDepth: bitDepth,
		},
		channelBufs: channelBufs,
		interleaved: make([]float64, bufferSize*channels),
		invMaxVal:   1.0 / maxVal,
		maxVal:      maxVal,
	}
}

// progressTracker handles progress reporting.
type progressTracker struct {
	totalFrames  int64
	lastProgress int
	verbose      bool
}

func newProgressTracker(totalFrames int64, verbose bool) *progressTracker {
	return &progressTracker{
		totalFrames: totalFrames,
		verbose:     verbose,
	}
}

// reportIfNeeded reports progress if threshold crossed.
func (p *progressTracker) reportIfNeeded(currentFrames int64) {
	if !p.verbose || p.totalFrames == 0 {
		return
	}

	progress := int(float64(currentFrames) / float64(p.totalFrames) * percentScale)
	if progress >= p.lastProgress+progressInterval {
		log.Printf("Progress: %d%%", progress)
		p.lastProgress = progress
	}
}

// filterChannelData filters the first numFrames of each channel buffer in place.
func filterChannelData(cascades []*cascade.FilterCascade, channelBufs [][]float64, numFrames int, parallel bool) {
	if parallel && len(cascades) > 1 {
		filterParallel(cascades, channelBufs, numFrames)
		return
	}
	filterSequential(cascades, channelBufs, numFrames)
}

// filterParallel runs each channel's cascade on its own goroutine. Cascades
// are never shared, so no locking is needed.
func filterParallel(cascades []*cascade.FilterCascade, channelBufs [][]float64, numFrames int) {
	var wg sync.WaitGroup
	for ch, c := range cascades {
		wg.Go(func() {
			c.ProcessBlock(channelBufs[ch][:numFrames])
		})
	}
	wg.Wait()
}

func filterSequential(cascades []*cascade.FilterCascade, channelBufs [][]float64, numFrames int) {
	for ch, c := range cascades {
		c.ProcessBlock(channelBufs[ch][:numFrames])
	}
}

// getMaxValue returns the maximum sample value for the given bit depth.
func getMaxValue(bitDepth int) float64 {
	switch bitDepth {
	case bitsPerSample16:
		return maxInt16
	case bitsPerSample24:
		return maxInt24
	case bitsPerSample32:
		return maxInt32
	default:
		return maxInt16
	}
}

// deinterleaveInto converts interleaved int samples into preallocated per-channel buffers.
func deinterleaveInto(data []int, channelBufs [][]float64, numChannels, numFrames int, invMaxVal float64) {
	if numChannels == monoChannels {
		buf := channelBufs[0]
		for i := range numFrames {
			buf[i] = float64(data[i]) * invMaxVal
		}
		return
	}

	if numChannels == stereoChannels {
		buf0, buf1 := channelBufs[0], channelBufs[1]
		for i := range numFrames {
			idx := i * stereoChannels
			buf0[i] = float64(data[idx]) * invMaxVal
			buf1[i] = float64(data[idx+1]) * invMaxVal
		}
		return
	}

	for i := range numFrames {
		base := i * numChannels
		for ch := range numChannels {
			channelBufs[ch][i] = float64(data[base+ch]) * invMaxVal
		}
	}
}

// interleaveInto converts the first numFrames of each channel into dst,
// clamping to full scale. scratch must hold numFrames*len(channels) values.
// It returns the number of ints written and how many samples were clipped.
func interleaveInto(channels [][]float64, numFrames int, dst []int, scratch []float64, maxVal float64) (n, clipped int) {
	numChannels := len(channels)
	total := numFrames * numChannels
	if numChannels == 0 || len(dst) < total || len(scratch) < total {
		return 0, 0
	}
	scratch = scratch[:total]

	switch numChannels {
	case monoChannels:
		copy(scratch, channels[0][:numFrames])
	case stereoChannels:
		simdops.Float64Ops().Interleave2(scratch, channels[0][:numFrames], channels[1][:numFrames])
	default:
		for i := range numFrames {
			base := i * numChannels
			for ch := range numChannels {
				scratch[base+ch] = channels[ch][i]
			}
		}
	}

	for i, sample := range scratch {
		if sample > 1.0 {
			sample = 1.0
			clipped++
		} else if sample < -1.0 {
			sample = -1.0
			clipped++
		}
		dst[i] = int(sample * maxVal)
	}
	return total, clipped
}
