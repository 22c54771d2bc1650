package signal

import "sync"

// Tap keeps the most recent mono samples written by an audio callback so the
// frame loop can analyse them. Write and Latest may run on different goroutines.
type Tap struct {
	mu       sync.Mutex
	ring     []float64
	pos      int
	channels int
	mono     []float64
}

// NewTap returns a Tap retaining size mono samples mixed from channels.
func NewTap(size, channels int) *Tap {
	if size <= 0 {
		size = 2048
	}
	if channels <= 0 {
		channels = 1
	}
	return &Tap{ring: make([]float64, size), channels: channels}
}

// Write appends interleaved samples.
func (t *Tap) Write(interleaved []float32) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.mono = ToMono(interleaved, t.channels, t.mono)
	for _, v := range t.mono {
		t.ring[t.pos] = v
		t.pos = (t.pos + 1) % len(t.ring)
	}
}

// Latest fills dst with the newest len(dst) samples in chronological order.
func (t *Tap) Latest(dst []float64) []float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := min(len(dst), len(t.ring))
	start := t.pos - n
	if start < 0 {
		start += len(t.ring)
	}
	for i := 0; i < n; i++ {
		dst[i] = t.ring[(start+i)%len(t.ring)]
	}
	return dst[:n]
}

// ToMono averages interleaved multi-channel data into a mono frame.
func ToMono(samples []float32, channels int, dst []float64) []float64 {
	if channels <= 0 {
		channels = 1
	}
	frameLen := len(samples) / channels
	if cap(dst) < frameLen {
		dst = make([]float64, frameLen)
	} else {
		dst = dst[:frameLen]
	}
	if frameLen == 0 {
		return dst
	}
	idx := 0
	for i := 0; i < frameLen; i++ {
		sum := 0.0
		for c := 0; c < channels; c++ {
			sum += float64(samples[idx])
			idx++
		}
		dst[i] = sum / float64(channels)
	}
	return dst
}
