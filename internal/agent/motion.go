// Package agent moves the autonomous vehicle along the track.
package agent

import (
	"math"

	"github.com/rotisserie/eris"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/cybre/neon-skyline/internal/layout"
	"github.com/cybre/neon-skyline/internal/utils"
)

// Phase is the lap state of the agent.
type Phase int

const (
	// PhaseCruising is normal lapping between the track ends.
	PhaseCruising Phase = iota
	// PhaseBoundaryReached is reported for the tick in which a lap wrapped.
	// Motion never stays in it across ticks.
	PhaseBoundaryReached
	// PhaseEntering means the lap distance is covered and the next crossing of
	// the near end leads into the deep zone.
	PhaseEntering
	// PhaseReturning means the agent is beyond the track, inside the deep zone.
	PhaseReturning
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseCruising:
		return "cruising"
	case PhaseBoundaryReached:
		return "boundary-reached"
	case PhaseEntering:
		return "entering"
	case PhaseReturning:
		return "returning"
	default:
		return "unknown"
	}
}

var up = r3.Vec{Y: 1}

// Params configures Motion. Zero values take the defaults listed per field.
type Params struct {
	// Speed defaults to 25 units/s.
	Speed float64
	// TurnAmount defaults to π/4.
	TurnAmount float64
	// TurnProbability is per grounded frame and defaults to 0.1. Negative disables.
	TurnProbability float64
	TrackX          float64
	MinZ            float64
	MaxZ            float64
	// SpecialZone enables the lap -> deep zone -> return cycle.
	SpecialZone bool
	LapDistance float64
	// DeepZoneDepth is how far past MinZ the deep zone extends. Defaults to 100.
	DeepZoneDepth float64
	// MinY floors the vertical position. Defaults to 1.
	MinY float64
}

// ParamsForTrack fills the track bounds of p from track.
func ParamsForTrack(p Params, track layout.TrackConfig) Params {
	p.TrackX = track.CenterX
	p.MinZ = track.MinZ()
	p.MaxZ = track.MaxZ()
	p.LapDistance = track.LapDistance
	return p
}

func (p Params) withDefaults() Params {
	if p.Speed <= 0 {
		p.Speed = 25
	}
	if p.TurnAmount == 0 {
		p.TurnAmount = math.Pi / 4
	}
	if p.TurnProbability == 0 {
		p.TurnProbability = 0.1
	}
	if p.DeepZoneDepth <= 0 {
		p.DeepZoneDepth = 100
	}
	if p.MinY == 0 {
		p.MinY = 1
	}
	return p
}

// DeepZoneMinZ is the far end of the deep zone.
func (p Params) DeepZoneMinZ() float64 {
	return p.MinZ - p.DeepZoneDepth
}

// State is the kinematic state of the agent.
type State struct {
	Position r3.Vec
	// Forward is the reversible axis velocity is built from. Travel is biased
	// toward -Z regardless of its sign.
	Forward  r3.Vec
	// Facing is the unit +Z axis of the vehicle model, opposite to the
	// horizontal travel of the last step. Wraps and reversals never flip it.
	Facing   r3.Vec
	Velocity r3.Vec
	Speed    float64
	Phase    Phase
	// Heading is the yaw of the velocity, for presentation only.
	Heading        float64
	Odometer       float64
	Laps           int
	SpecialEngaged bool
}

// Negated returns the direction the agent travels toward, -Facing.
func (s State) Negated() r3.Vec {
	return r3.Scale(-1, s.Facing)
}

// Events are the one-shot transitions raised by a Step.
type Events struct {
	Turned   bool
	Wrapped  bool
	Reversed bool
	// SpecialEngaged fires once per deep-zone excursion.
	SpecialEngaged bool
	Returned       bool
}

// Probe reports whether a point is above the ground the agent may turn on.
type Probe interface {
	Grounded(p r3.Vec) bool
}

// GroundPlane is a rectangular ground footprint centred on (CenterX, CenterZ).
type GroundPlane struct {
	CenterX float64
	CenterZ float64
	Width   float64
	Depth   float64
}

// Grounded implements Probe.
func (g GroundPlane) Grounded(p r3.Vec) bool {
	return math.Abs(p.X-g.CenterX) <= g.Width/2 && math.Abs(p.Z-g.CenterZ) <= g.Depth/2
}

// Motion is the agent kinematic model. It is not safe for concurrent use.
type Motion struct {
	params Params
	rng    utils.Rand
	probe  Probe
	state  State
}

// New places the agent at start facing +Z.
func New(params Params, start r3.Vec, rng utils.Rand, probe Probe) (*Motion, error) {
	params = params.withDefaults()
	switch {
	case rng == nil:
		return nil, eris.New("agent: nil random source")
	case params.MaxZ <= params.MinZ:
		return nil, eris.Wrapf(layout.ErrConfiguration, "track bounds [%v, %v] are empty", params.MinZ, params.MaxZ)
	}
	if probe == nil {
		probe = GroundPlane{CenterX: params.TrackX, CenterZ: (params.MinZ + params.MaxZ) / 2, Width: math.Inf(1), Depth: params.MaxZ - params.MinZ}
	}

	m := &Motion{params: params, rng: rng, probe: probe}
	m.state = State{
		Position: start,
		Forward:  r3.Vec{Z: 1},
		Facing:   r3.Vec{Z: 1},
		Speed:    params.Speed,
		Phase:    PhaseCruising,
	}
	m.clamp()
	return m, nil
}

// State returns a copy of the current state.
func (m *Motion) State() State {
	return m.state
}

// Params returns the effective parameters.
func (m *Motion) Params() Params {
	return m.params
}

// Step advances the agent by dt seconds.
func (m *Motion) Step(dt float64) Events {
	var ev Events
	s := &m.state
	if dt < 0 || math.IsNaN(dt) {
		dt = 0
	}

	s.Velocity = r3.Scale(s.Speed, s.Forward)
	s.Velocity.Z = -s.Speed

	if m.params.TurnProbability > 0 && m.probe.Grounded(s.Position) {
		if m.rng.Float64() < m.params.TurnProbability {
			angle := m.params.TurnAmount * utils.CoinFlip(m.rng)
			s.Velocity = r3.NewRotation(angle, up).Rotate(s.Velocity)
			ev.Turned = true
		}
	}

	travel := s.Velocity
	s.Position = r3.Add(s.Position, r3.Scale(dt, travel))
	s.Odometer += r3.Norm(travel) * dt

	m.transition(&ev)
	m.clamp()
	s.Heading = math.Atan2(travel.X, travel.Z)
	if flat := (r3.Vec{X: travel.X, Z: travel.Z}); r3.Norm(flat) > 0 {
		s.Facing = r3.Scale(-1/r3.Norm(flat), flat)
	}
	return ev
}

func (m *Motion) transition(ev *Events) {
	s := &m.state
	p := m.params
	z := s.Position.Z

	switch {
	case z < p.MinZ && s.Phase == PhaseCruising:
		s.Phase = PhaseBoundaryReached
		s.Position.Z = p.MaxZ
		s.Forward = r3.Scale(-1, s.Forward)
		s.Velocity = r3.Scale(s.Speed, s.Forward)
		s.Laps++
		ev.Wrapped = true

		s.Phase = PhaseCruising
		if p.SpecialZone && s.Odometer >= p.LapDistance {
			s.Phase = PhaseEntering
		}
	case z < p.MinZ && !s.SpecialEngaged:
		s.SpecialEngaged = true
		s.Phase = PhaseReturning
		ev.SpecialEngaged = true
	case z < p.DeepZoneMinZ() && s.Phase == PhaseReturning:
		s.Position.Z = p.MaxZ
		s.Phase = PhaseCruising
		s.Odometer = 0
		s.SpecialEngaged = false
		ev.Returned = true
	case z > p.MaxZ:
		s.Forward = r3.Scale(-1, s.Forward)
		ev.Reversed = true
	}
}

func (m *Motion) clamp() {
	m.state.Position.X = m.params.TrackX
	m.state.Position.Y = math.Max(m.state.Position.Y, m.params.MinY)
}

// Yaw is the rotation about +Y that maps +Z onto Facing.
func (s State) Yaw() float64 {
	return math.Atan2(s.Facing.X, s.Facing.Z)
}
