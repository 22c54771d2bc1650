package agent

import (
	"math"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/cybre/neon-skyline/internal/layout"
	"github.com/cybre/neon-skyline/internal/utils"
)

// sequence replays fixed draws, repeating the last one.
type sequence struct {
	values []float64
	next   int
}

func (s *sequence) Float64() float64 {
	v := s.values[min(s.next, len(s.values)-1)]
	s.next++
	return v
}

type probeFunc func(r3.Vec) bool

func (f probeFunc) Grounded(p r3.Vec) bool { return f(p) }

var track = layout.TrackConfig{Width: 10, Length: 200, Spacing: 10, ItemWidth: 5}

func newMotion(t *testing.T, p Params, start r3.Vec, rng utils.Rand) *Motion {
	t.Helper()
	m, err := New(ParamsForTrack(p, track), start, rng, nil)
	require.NoError(t, err)
	return m
}

func TestWrapAtNearEnd(t *testing.T) {
	m := newMotion(t, Params{TurnProbability: -1}, r3.Vec{Y: 1, Z: track.MinZ()}, utils.NewRand(1))
	before := m.State().Forward.Z

	ev := m.Step(1.0 / 60)

	s := m.State()
	assert.True(t, ev.Wrapped)
	assert.Equal(t, track.MaxZ(), s.Position.Z)
	assert.Equal(t, -before, s.Forward.Z)
	assert.Equal(t, PhaseCruising, s.Phase)
	assert.Equal(t, 1, s.Laps)
	assert.Equal(t, r3.Vec{Z: 1}, s.Facing)

	// The next tick travels away from the far end without reversing again.
	ev = m.Step(1.0 / 60)
	assert.False(t, ev.Wrapped)
	assert.False(t, ev.Reversed)
	assert.Equal(t, -before, m.State().Forward.Z)
	assert.Less(t, m.State().Position.Z, track.MaxZ())
}

func TestVelocityAlwaysBiasedForward(t *testing.T) {
	m := newMotion(t, Params{TurnProbability: -1}, r3.Vec{Y: 1}, utils.NewRand(1))
	m.Step(0.1)
	assert.Equal(t, -25.0, m.State().Velocity.Z)
	assert.InDelta(t, -2.5, m.State().Position.Z, 1e-12)
}

func TestTurnRotatesVelocityOnly(t *testing.T) {
	// First draw triggers the turn, second picks the positive sign.
	rng := &sequence{values: []float64{0.05, 0.9}}
	m := newMotion(t, Params{}, r3.Vec{Y: 1}, rng)

	ev := m.Step(0.1)
	s := m.State()

	require.True(t, ev.Turned)
	want := r3.NewRotation(math.Pi/4, r3.Vec{Y: 1}).Rotate(r3.Vec{Z: -25})
	assert.InDelta(t, want.X, s.Velocity.X, 1e-9)
	assert.InDelta(t, want.Z, s.Velocity.Z, 1e-9)
	assert.Equal(t, 0.0, s.Position.X)
	assert.Equal(t, r3.Vec{Z: 1}, s.Forward)
	assert.NotZero(t, s.Heading)
	assert.InDelta(t, -want.X/25, s.Facing.X, 1e-9)
	assert.InDelta(t, -want.Z/25, s.Facing.Z, 1e-9)
}

func TestFacingSurvivesWraps(t *testing.T) {
	m := newMotion(t, Params{TurnProbability: -1}, r3.Vec{Y: 1}, utils.NewRand(1))

	var wraps int
	for i := 0; i < 400; i++ {
		if m.Step(0.1).Wrapped {
			wraps++
		}
		s := m.State()
		require.Equal(t, r3.Vec{Z: 1}, s.Facing)
		require.Equal(t, r3.Vec{Z: -1}, s.Negated())
		require.InDelta(t, 0, s.Yaw(), 1e-12)
	}
	assert.GreaterOrEqual(t, wraps, 2)
}

func TestNoTurnWhenAirborne(t *testing.T) {
	p := ParamsForTrack(Params{TurnProbability: 1}, track)
	m, err := New(p, r3.Vec{Y: 1}, utils.NewRand(1), probeFunc(func(r3.Vec) bool { return false }))
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		assert.False(t, m.Step(0.01).Turned)
	}
}

func TestVerticalFloor(t *testing.T) {
	m := newMotion(t, Params{}, r3.Vec{Y: -5}, utils.NewRand(2))
	assert.Equal(t, 1.0, m.State().Position.Y)
	for i := 0; i < 500; i++ {
		m.Step(1.0 / 30)
		require.GreaterOrEqual(t, m.State().Position.Y, 1.0)
		require.Equal(t, 0.0, m.State().Position.X)
	}
}

func TestReverseBeyondFarEnd(t *testing.T) {
	m := newMotion(t, Params{TurnProbability: -1}, r3.Vec{Y: 1, Z: track.MaxZ() + 50}, utils.NewRand(1))

	ev := m.Step(0.01)

	assert.True(t, ev.Reversed)
	assert.False(t, ev.Wrapped)
	assert.Equal(t, -1.0, m.State().Forward.Z)
	assert.Greater(t, m.State().Position.Z, track.MaxZ())
}

func TestSpecialZoneCycle(t *testing.T) {
	p := Params{TurnProbability: -1, SpecialZone: true, DeepZoneDepth: 50}
	tr := track
	tr.LapDistance = 150
	m, err := New(ParamsForTrack(p, tr), r3.Vec{Y: 1, Z: tr.MinZ() + 1}, utils.NewRand(1), nil)
	require.NoError(t, err)

	var wraps, engages, returns int
	var phases []Phase
	for i := 0; i < 2000; i++ {
		ev := m.Step(0.1)
		if ev.Wrapped {
			wraps++
		}
		if ev.SpecialEngaged {
			engages++
		}
		if ev.Returned {
			returns++
		}
		if n := len(phases); n == 0 || phases[n-1] != m.State().Phase {
			phases = append(phases, m.State().Phase)
		}
		assert.NotEqual(t, PhaseBoundaryReached, m.State().Phase)
	}

	assert.Positive(t, wraps)
	assert.Positive(t, engages)
	assert.Equal(t, engages, returns+boolToInt(m.State().Phase == PhaseReturning))
	require.GreaterOrEqual(t, len(phases), 4)
	assert.Equal(t, []Phase{PhaseCruising, PhaseEntering, PhaseReturning, PhaseCruising}, phases[:4])
}

func TestSpecialEngageIsOneShot(t *testing.T) {
	p := ParamsForTrack(Params{TurnProbability: -1, SpecialZone: true, DeepZoneDepth: 100}, track)
	m, err := New(p, r3.Vec{Y: 1, Z: track.MinZ() + 0.1}, utils.NewRand(1), nil)
	require.NoError(t, err)
	m.state.Phase = PhaseEntering

	first := m.Step(0.1)
	second := m.Step(0.1)

	assert.True(t, first.SpecialEngaged)
	assert.False(t, second.SpecialEngaged)
	assert.Equal(t, PhaseReturning, m.State().Phase)
	assert.Less(t, m.State().Position.Z, track.MinZ())
}

func TestNewRejectsEmptyBounds(t *testing.T) {
	_, err := New(Params{MinZ: 5, MaxZ: 5}, r3.Vec{}, utils.NewRand(1), nil)
	assert.True(t, eris.Is(err, layout.ErrConfiguration))

	_, err = New(ParamsForTrack(Params{}, track), r3.Vec{}, nil, nil)
	assert.Error(t, err)
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "returning", PhaseReturning.String())
	assert.Equal(t, "unknown", Phase(42).String())
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
