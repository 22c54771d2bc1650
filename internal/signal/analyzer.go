package signal

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"

	"github.com/cybre/neon-skyline/internal/utils"
)

// Options tunes the Analyzer. Zero values pick analyser-node defaults.
type Options struct {
	// FFTSize must be a power of two; the analyser exposes FFTSize/2 bins.
	FFTSize               int
	MinDecibels           float64
	MaxDecibels           float64
	SmoothingTimeConstant float64
}

// Analyzer turns the newest samples of a Tap into a byte spectrum, scaled the way
// a browser analyser node does: Blackman window, magnitude/N, temporal smoothing,
// then decibels mapped linearly onto [0,255] between MinDecibels and MaxDecibels.
// Scratch buffers are reused across calls.
type Analyzer struct {
	opts Options
	tap  *Tap

	window   []float64
	input    []float64
	windowed []float64
	smoothed []float64
	bytes    []uint8
	average  float64
}

// NewAnalyzer constructs an Analyzer reading from tap.
func NewAnalyzer(tap *Tap, opts Options) *Analyzer {
	if opts.FFTSize <= 0 {
		opts.FFTSize = 2 * BinCount
	}
	if opts.FFTSize&(opts.FFTSize-1) != 0 {
		panic("signal: FFTSize must be a power of two")
	}
	if opts.MinDecibels == 0 {
		opts.MinDecibels = -100
	}
	if opts.MaxDecibels == 0 {
		opts.MaxDecibels = -30
	}
	if opts.MaxDecibels <= opts.MinDecibels {
		panic("signal: MaxDecibels must exceed MinDecibels")
	}
	if opts.SmoothingTimeConstant <= 0 || opts.SmoothingTimeConstant >= 1 {
		opts.SmoothingTimeConstant = 0.8
	}

	bins := opts.FFTSize / 2
	return &Analyzer{
		opts:     opts,
		tap:      tap,
		window:   window.Blackman(opts.FFTSize),
		input:    make([]float64, opts.FFTSize),
		windowed: make([]float64, opts.FFTSize),
		smoothed: make([]float64, bins),
		bytes:    make([]uint8, bins),
	}
}

// FrequencyData analyses the newest window and returns the byte spectrum.
func (a *Analyzer) FrequencyData() []uint8 {
	input := a.input[:0]
	if a.tap != nil {
		input = a.tap.Latest(a.input[:cap(a.input)])
	}
	return a.Process(input)
}

// AverageFrequency returns the mean of the spectrum computed by the last
// FrequencyData call.
func (a *Analyzer) AverageFrequency() float64 {
	return a.average
}

// Process computes the spectrum of frame (shorter frames are zero padded).
func (a *Analyzer) Process(frame []float64) []uint8 {
	n := a.opts.FFTSize
	windowed := a.windowed
	if len(frame) < n {
		copy(windowed, frame)
		clear(windowed[len(frame):])
	} else {
		copy(windowed, frame[len(frame)-n:])
	}
	ApplyWindowInPlace(windowed, a.window)

	spectrum := fft.FFTReal(windowed)

	tau := a.opts.SmoothingTimeConstant
	span := a.opts.MaxDecibels - a.opts.MinDecibels
	var sum int
	for k := range a.smoothed {
		mag := cmplx.Abs(spectrum[k]) / float64(n)
		a.smoothed[k] = tau*a.smoothed[k] + (1-tau)*mag

		db := math.Inf(-1)
		if a.smoothed[k] > 0 {
			db = 20 * math.Log10(a.smoothed[k])
		}
		scaled := 255 * (db - a.opts.MinDecibels) / span
		a.bytes[k] = uint8(utils.Clamp(math.Floor(scaled), 0.0, 255.0))
		sum += int(a.bytes[k])
	}
	a.average = float64(sum) / float64(len(a.bytes))
	return a.bytes
}

// ApplyWindowInPlace multiplies samples by a window function in-place.
func ApplyWindowInPlace(samples []float64, window []float64) {
	switch {
	case len(samples) == 0:
		return
	case len(samples) != len(window):
		panic("signal: window length mismatch")
	}
	for i := range samples {
		samples[i] *= window[i]
	}
}
