package layout

import (
	"math"

	"github.com/rotisserie/eris"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/cybre/neon-skyline/internal/graph"
	"github.com/cybre/neon-skyline/internal/utils"
)

// Mode selects the kind of decorative object.
type Mode int

const (
	Buildings Mode = iota
	Lasers
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case Buildings:
		return "buildings"
	case Lasers:
		return "lasers"
	default:
		return "unknown"
	}
}

// ItemConfig controls object sizing.
type ItemConfig struct {
	Mode      Mode
	MinHeight float64
	MaxHeight float64
}

// Validate reports an inverted or negative height range.
func (c ItemConfig) Validate() error {
	if !finite(c.MinHeight, c.MaxHeight) || c.MinHeight < 0 || c.MaxHeight < c.MinHeight {
		return eris.Wrapf(ErrConfiguration, "height range [%v, %v] is invalid", c.MinHeight, c.MaxHeight)
	}
	return nil
}

// Object is the visual state of one building or laser. Layout creates it;
// the signal mapper mutates Height, Color, RotationX and Visible every frame.
type Object struct {
	Index int
	// Side is -1 for the left of the track and +1 for the right.
	Side int
	// Base is the foot position; Base.Y is always 0.
	Base      r3.Vec
	Height    float64
	Color     graph.HSL
	RotationX float64
	Visible   bool
}

// Decorations lays out track.Count() objects. Objects alternate sides by
// index parity; hues sweep the full rainbow over the index range.
func Decorations(track TrackConfig, items ItemConfig, rng utils.Rand) ([]Object, error) {
	if err := items.Validate(); err != nil {
		return nil, err
	}
	perSide, err := track.ItemsPerSide()
	if err != nil {
		return nil, err
	}
	count := perSide * 2
	objects := make([]Object, count)
	if count == 0 {
		return objects, nil
	}
	if rng == nil {
		return nil, eris.New("layout: nil random source")
	}

	lateral := track.Width/2 + track.OffsetFromTrack
	for i := range objects {
		side := 1
		if i%2 == 0 {
			side = -1
		}
		obj := &objects[i]
		obj.Index = i
		obj.Side = side
		obj.Base = r3.Vec{
			X: track.CenterX + float64(side)*lateral,
			Z: track.CenterZ + float64(i%perSide)*track.Pitch() - track.Length/2,
		}
		obj.Height = utils.Uniform(rng, items.MinHeight, items.MaxHeight)
		obj.Color = graph.HSL{H: float64(i) / float64(count), S: 1, L: 0.5}
		obj.Visible = true
		if items.Mode == Lasers {
			obj.RotationX = rng.Float64() * 2 * math.Pi
		}
	}
	return objects, nil
}
