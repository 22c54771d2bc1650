// Package signal samples an audio analyser once per frame into immutable
// frequency snapshots.
package signal

// BinCount is the number of intensity samples in a Frame.
const BinCount = 64

// Frame is one sampled snapshot of frequency-bin intensities in [0,255] plus
// their mean. It is a value type and is recomputed every frame.
type Frame struct {
	Bins          [BinCount]uint8
	AverageEnergy float64
}

// Normalized returns bin i scaled by 1/256.
func (f Frame) Normalized(i int) float64 {
	return float64(f.Bins[i]) / 256
}

// UniformFrame returns a frame whose bins all hold v.
func UniformFrame(v uint8) Frame {
	var f Frame
	for i := range f.Bins {
		f.Bins[i] = v
	}
	f.AverageEnergy = float64(v)
	return f
}

// Source is the frequency analyser collaborator.
type Source interface {
	// FrequencyData returns the current byte spectrum. The slice may be reused
	// by the source on the next call.
	FrequencyData() []uint8
	// AverageFrequency returns the mean of the last spectrum.
	AverageFrequency() float64
}

// Sampler snapshots a Source into Frames.
type Sampler struct {
	src Source
}

// NewSampler wraps src.
func NewSampler(src Source) *Sampler {
	return &Sampler{src: src}
}

// Sample reads the source once. Bins beyond BinCount are ignored and missing
// bins read as zero.
func (s *Sampler) Sample() Frame {
	var f Frame
	if s == nil || s.src == nil {
		return f
	}
	copy(f.Bins[:], s.src.FrequencyData())
	f.AverageEnergy = s.src.AverageFrequency()
	return f
}

// StaticSource replays a fixed spectrum. Useful for idle scenes and tests.
type StaticSource struct {
	Bins []uint8
}

func (s *StaticSource) FrequencyData() []uint8 {
	return s.Bins
}

func (s *StaticSource) AverageFrequency() float64 {
	return Average(s.Bins)
}

// Average returns the arithmetic mean of bins.
func Average(bins []uint8) float64 {
	if len(bins) == 0 {
		return 0
	}
	var sum int
	for _, b := range bins {
		sum += int(b)
	}
	return float64(sum) / float64(len(bins))
}
