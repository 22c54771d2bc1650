// Package camera derives the chase camera and the moon position from the
// agent state.
package camera

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/cybre/neon-skyline/internal/agent"
	"github.com/cybre/neon-skyline/internal/graph"
)

// Orientation selects how the camera is aimed.
type Orientation int

const (
	// OrientLookAt aims at the look-ahead target.
	OrientLookAt Orientation = iota
	// OrientYawLock forces yaw to the agent yaw plus π; the renderer must
	// prefer it over the target.
	OrientYawLock
)

// String returns the orientation name.
func (o Orientation) String() string {
	switch o {
	case OrientLookAt:
		return "look-at"
	case OrientYawLock:
		return "yaw-lock"
	default:
		return "unknown"
	}
}

// Options configures a Rig. Zero values take the defaults.
type Options struct {
	Orientation Orientation
	// TrailingDistance defaults to 10.
	TrailingDistance float64
	// LookUpBias raises the target and defaults to 5.
	LookUpBias float64
	// Nudge is added to the camera position after trailing.
	Nudge r3.Vec

	// MoonDistance defaults to 100 and MoonAltitude to 50.
	MoonDistance float64
	MoonAltitude float64

	FOV  float64
	Near float64
	Far  float64
}

// Rig is a stateless chase camera.
type Rig struct {
	opts Options
}

// NewRig returns a Rig.
func NewRig(opts Options) *Rig {
	if opts.TrailingDistance <= 0 {
		opts.TrailingDistance = 10
	}
	if opts.LookUpBias == 0 {
		opts.LookUpBias = 5
	}
	if opts.MoonDistance <= 0 {
		opts.MoonDistance = 100
	}
	if opts.MoonAltitude == 0 {
		opts.MoonAltitude = 50
	}
	if opts.FOV <= 0 {
		opts.FOV = 75
	}
	if opts.Near <= 0 {
		opts.Near = 0.1
	}
	if opts.Far <= opts.Near {
		opts.Far = 1000
	}
	return &Rig{opts: opts}
}

// Options returns the effective options.
func (r *Rig) Options() Options {
	return r.opts
}

// Follow computes the camera for s.
func (r *Rig) Follow(s agent.State) graph.Camera {
	negated := s.Negated()
	offset := r3.Scale(-r.opts.TrailingDistance, negated)

	cam := graph.Camera{
		Position: r3.Add(r3.Add(s.Position, offset), r.opts.Nudge),
		Target:   r3.Add(s.Position, negated),
		FOV:      r.opts.FOV,
		Near:     r.opts.Near,
		Far:      r.opts.Far,
	}
	cam.Target.Y += r.opts.LookUpBias

	if r.opts.Orientation == OrientYawLock {
		cam.Yaw = s.Yaw() + math.Pi
		cam.YawLocked = true
	}
	return cam
}

// Moon returns the moon position ahead of the agent at fixed altitude.
func (r *Rig) Moon(s agent.State) r3.Vec {
	p := r3.Add(s.Position, r3.Scale(r.opts.MoonDistance, s.Negated()))
	p.Y = r.opts.MoonAltitude
	return p
}
