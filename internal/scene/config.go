// Package scene assembles a playable visualizer scene from a Config and owns
// every resource it allocates until Teardown.
package scene

import (
	"math"

	"github.com/rotisserie/eris"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/cybre/neon-skyline/internal/agent"
	"github.com/cybre/neon-skyline/internal/camera"
	"github.com/cybre/neon-skyline/internal/layout"
	"github.com/cybre/neon-skyline/internal/mapper"
)

// Config selects the behaviour of one scene.
type Config struct {
	Name string

	Layout layout.Mode
	Map    mapper.Mode

	Track       layout.TrackConfig
	Items       layout.ItemConfig
	Frequencies mapper.Range
	// MaxHeight is the mapper height scale; defaults to 50.
	MaxHeight float64

	// LaserLength and LaserThickness shape lasers. Defaults 10000 and 0.1.
	LaserLength    float64
	LaserThickness float64

	SpecialZoneEnabled bool
	HeadlightsEnabled  bool
	StarsEnabled       bool
	Stars              layout.StarConfig

	// GroundSize is the edge of the square ground; defaults to 200.
	GroundSize float64

	Camera camera.Options
	Agent  agent.Params
	// Start is the initial agent position.
	Start r3.Vec

	AssetURL string
	// FlipModel turns the first child of the loaded model half a turn on z.
	FlipModel bool
	AudioURL  string
	Volume    float64
	Loop      bool

	Seed int64
}

func (c Config) withDefaults() Config {
	if c.MaxHeight <= 0 {
		c.MaxHeight = 50
	}
	if c.LaserLength <= 0 {
		c.LaserLength = 10000
	}
	if c.LaserThickness <= 0 {
		c.LaserThickness = 0.1
	}
	if c.GroundSize <= 0 {
		c.GroundSize = 200
	}
	if c.Start == (r3.Vec{}) {
		c.Start = r3.Vec{X: c.Track.CenterX, Y: 1, Z: c.Track.CenterZ}
	}
	if c.AssetURL == "" {
		c.AssetURL = BuiltinCarURL
	}
	if c.Volume == 0 {
		c.Volume = 0.5
	}
	c.Items.Mode = c.Layout
	c.Agent = agent.ParamsForTrack(c.Agent, c.Track)
	c.Agent.SpecialZone = c.SpecialZoneEnabled
	return c
}

// Validate reports degenerate values as ErrConfiguration.
func (c Config) Validate() error {
	c = c.withDefaults()
	if err := c.Track.Validate(); err != nil {
		return err
	}
	if err := c.Items.Validate(); err != nil {
		return err
	}
	if c.Frequencies != (mapper.Range{}) {
		if err := c.Frequencies.Validate(); err != nil {
			return err
		}
	}
	if c.Volume < 0 || c.Volume > 1 || math.IsNaN(c.Volume) {
		return eris.Wrapf(ErrConfiguration, "volume must be within [0, 1], got %v", c.Volume)
	}
	if c.SpecialZoneEnabled && c.Track.LapDistance <= 0 {
		return eris.Wrap(ErrConfiguration, "special zone needs a positive lap distance")
	}
	return nil
}
