// Package mapper maps a signal frame onto the visual state of decorative
// objects and stars.
package mapper

import (
	"math"

	"github.com/rotisserie/eris"

	"github.com/cybre/neon-skyline/internal/graph"
	"github.com/cybre/neon-skyline/internal/layout"
	"github.com/cybre/neon-skyline/internal/signal"
	"github.com/cybre/neon-skyline/internal/utils"
)

// Mode selects how intensity drives an object.
type Mode int

const (
	// ModeHeight recolors and rescales buildings.
	ModeHeight Mode = iota
	// ModeRotationVisibility tilts lasers and hides silent ones.
	ModeRotationVisibility
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeHeight:
		return "height"
	case ModeRotationVisibility:
		return "rotation-visibility"
	default:
		return "unknown"
	}
}

// Range is the frequency window spread across the object indices.
type Range struct {
	MinFrequency float64
	MaxFrequency float64
}

// Validate rejects empty or inverted ranges.
func (r Range) Validate() error {
	if math.IsNaN(r.MinFrequency) || math.IsNaN(r.MaxFrequency) || r.MaxFrequency <= r.MinFrequency {
		return eris.Wrapf(layout.ErrConfiguration, "frequency range [%v, %v] is empty", r.MinFrequency, r.MaxFrequency)
	}
	return nil
}

// BinIndex returns the spectrum bin assigned to object i of count.
func (r Range) BinIndex(i, count, bins int) int {
	if count <= 0 {
		return 0
	}
	span := r.MaxFrequency - r.MinFrequency
	freq := float64(i)/float64(count)*span + r.MinFrequency
	return utils.ClampIndex(int(math.Floor(freq/span*float64(bins))), bins)
}

// Options configures a Mapper. Zero values take the defaults.
type Options struct {
	Mode      Mode
	Range     Range
	MaxHeight float64
}

// Mapper applies frames to object collections. It holds no per-frame state.
type Mapper struct {
	opts Options
}

// New returns a Mapper. A zero Range maps 0..10000 Hz.
func New(opts Options) (*Mapper, error) {
	if opts.Range == (Range{}) {
		opts.Range = Range{MinFrequency: 0, MaxFrequency: 10000}
	}
	if err := opts.Range.Validate(); err != nil {
		return nil, err
	}
	if opts.MaxHeight <= 0 {
		opts.MaxHeight = 50
	}
	return &Mapper{opts: opts}, nil
}

// Mode returns the configured mode.
func (m *Mapper) Mode() Mode {
	return m.opts.Mode
}

// Apply updates every object from frame in place.
func (m *Mapper) Apply(frame signal.Frame, objects []layout.Object) {
	count := len(objects)
	for i := range objects {
		obj := &objects[i]
		n := frame.Normalized(m.opts.Range.BinIndex(i, count, signal.BinCount))
		obj.Color = graph.HSL{H: n, S: 1, L: 0.5}

		switch m.opts.Mode {
		case ModeRotationVisibility:
			rotation := n * math.Pi
			// Zero rotation doubles as the silence marker.
			if rotation == 0 {
				obj.Visible = false
			} else {
				obj.Visible = true
				obj.RotationX = rotation
			}
		default:
			obj.Height = math.Max(n*(frame.AverageEnergy/10)*m.opts.MaxHeight, 1)
		}
	}
}

// ApplyStars tints colors (one slot per star) along the star ramp.
func ApplyStars(frame signal.Frame, colors []graph.Color) {
	count := len(colors)
	for i := range colors {
		idx := utils.ClampIndex(int(math.Floor(float64(i)/float64(count)*signal.BinCount)), signal.BinCount)
		colors[i] = graph.StarRamp(frame.Normalized(idx))
	}
}
