package layout

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/cybre/neon-skyline/internal/utils"
)

// StarConfig shapes the starfield. Zero values take the defaults.
type StarConfig struct {
	Count int
	// Spread is the half-extent of the square the stars occupy on x and z.
	Spread float64
	// NearBand keeps stars with |z| below it at or above NearAltitude so
	// they never hang over the track.
	NearBand     float64
	NearAltitude float64
	MaxAltitude  float64
}

func (c StarConfig) withDefaults() StarConfig {
	if c.Count <= 0 {
		c.Count = 1000
	}
	if c.Spread <= 0 {
		c.Spread = 1000
	}
	if c.NearBand <= 0 {
		c.NearBand = 200
	}
	if c.MaxAltitude <= 0 {
		c.MaxAltitude = 1000
	}
	if c.NearAltitude <= 0 || c.NearAltitude > c.MaxAltitude {
		c.NearAltitude = c.MaxAltitude / 2
	}
	return c
}

// Starfield scatters stars uniformly over the configured volume.
func Starfield(cfg StarConfig, rng utils.Rand) []r3.Vec {
	cfg = cfg.withDefaults()
	stars := make([]r3.Vec, cfg.Count)
	for i := range stars {
		p := r3.Vec{
			X: utils.Uniform(rng, -cfg.Spread, cfg.Spread),
			Z: utils.Uniform(rng, -cfg.Spread, cfg.Spread),
		}
		if math.Abs(p.Z) < cfg.NearBand {
			p.Y = utils.Uniform(rng, cfg.NearAltitude, cfg.MaxAltitude)
		} else {
			p.Y = utils.Uniform(rng, 0, cfg.MaxAltitude)
		}
		stars[i] = p
	}
	return stars
}
