package scene

import (
	"log/slog"

	"github.com/rotisserie/eris"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/cybre/neon-skyline/internal/agent"
	"github.com/cybre/neon-skyline/internal/camera"
	"github.com/cybre/neon-skyline/internal/graph"
	"github.com/cybre/neon-skyline/internal/layout"
	"github.com/cybre/neon-skyline/internal/mapper"
	"github.com/cybre/neon-skyline/internal/signal"
)

// State is the lifecycle stage of a Handle.
type State int

const (
	StateUnbuilt State = iota
	StateBuilt
	StateRunning
	StateTornDown
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUnbuilt:
		return "unbuilt"
	case StateBuilt:
		return "built"
	case StateRunning:
		return "running"
	case StateTornDown:
		return "torn down"
	default:
		return "unknown"
	}
}

// Handle owns a built scene. It is driven from a single goroutine.
type Handle struct {
	cfg    Config
	logger *slog.Logger
	state  State

	renderer graph.Renderer
	ledger   *ledger

	root       *graph.Node
	decor      *graph.Node
	starGroup  *graph.Node
	cameraNode *graph.Node
	moonLight  *graph.Node
	moonGlow   *graph.Node
	headlights []*graph.Node
	overlay    *graph.Node
	vehicle    *graph.Node

	// objects[i] is drawn by nodes[i]; both are created together.
	objects []layout.Object
	nodes   []*graph.Node
	// starColors[i] colors stars[i].
	stars      []*graph.Node
	starColors []graph.Color

	sampler *signal.Sampler
	mapper  *mapper.Mapper
	motion  *agent.Motion
	rig     *camera.Rig
	camera  graph.Camera

	audio  AudioBuffer
	frames int
}

// Config returns the effective configuration.
func (h *Handle) Config() Config {
	return h.cfg
}

// State returns the lifecycle stage.
func (h *Handle) State() State {
	return h.state
}

// Audio returns the loaded track.
func (h *Handle) Audio() AudioBuffer {
	return h.audio
}

// Root returns the scene graph root.
func (h *Handle) Root() *graph.Node {
	return h.root
}

// Objects returns the live decorative objects. Callers must not modify them.
func (h *Handle) Objects() []layout.Object {
	return h.objects
}

// StarColors returns the live star colors. Callers must not modify them.
func (h *Handle) StarColors() []graph.Color {
	return h.starColors
}

// Agent returns the current agent state.
func (h *Handle) Agent() agent.State {
	return h.motion.State()
}

// Camera returns the camera of the last frame.
func (h *Handle) Camera() graph.Camera {
	return h.camera
}

// Frames returns the number of rendered frames.
func (h *Handle) Frames() int {
	return h.frames
}

// Start begins the frame loop stage.
func (h *Handle) Start() error {
	switch h.state {
	case StateBuilt:
		h.state = StateRunning
		h.logger.Debug("scene started")
		return nil
	case StateRunning:
		return nil
	case StateTornDown:
		return ErrTornDown
	default:
		return ErrNotBuilt
	}
}

// Tick advances the scene by dt seconds and renders one frame.
func (h *Handle) Tick(dt float64) (agent.Events, error) {
	switch h.state {
	case StateRunning:
	case StateTornDown:
		return agent.Events{}, ErrTornDown
	default:
		return agent.Events{}, ErrNotRunning
	}

	frame := h.sampler.Sample()
	h.mapper.Apply(frame, h.objects)
	h.syncDecorations()
	if len(h.starColors) > 0 {
		mapper.ApplyStars(frame, h.starColors)
		for i, n := range h.stars {
			n.Material().SetColor(h.starColors[i])
		}
	}

	ev := h.motion.Step(dt)
	s := h.motion.State()
	h.sync(s, ev)

	if err := h.renderer.Render(h.root, h.camera); err != nil {
		return ev, eris.Wrap(err, "render frame")
	}
	h.frames++
	return ev, nil
}

// syncDecorations copies object state onto the meshes.
func (h *Handle) syncDecorations() {
	lasers := h.cfg.Layout == layout.Lasers
	for i := range h.objects {
		obj := &h.objects[i]
		n := h.nodes[i]

		n.Visible = obj.Visible
		n.Rotation.X = obj.RotationX
		if lasers {
			n.Position = obj.Base
			n.Scale = r3.Vec{X: h.cfg.LaserThickness, Y: h.cfg.LaserThickness, Z: h.cfg.LaserLength}
		} else {
			// Scaled about the centre, so lift by half to keep the foot at y=0.
			n.Position = r3.Add(obj.Base, r3.Vec{Y: obj.Height / 2})
			n.Scale = r3.Vec{X: h.cfg.Track.ItemWidth, Y: obj.Height, Z: h.cfg.Track.ItemWidth}
		}

		if c, err := obj.Color.RGB(); err == nil {
			mat := n.Material()
			mat.SetColor(c)
			mat.SetEmissive(c)
		}
	}
}

// sync moves the vehicle, camera, moon, headlights and overlay to s.
func (h *Handle) sync(s agent.State, ev agent.Events) {
	if h.vehicle != nil {
		h.vehicle.Position = s.Position
		h.vehicle.Rotation.Y = s.Yaw()
	}

	h.camera = h.rig.Follow(s)
	h.cameraNode.Position = h.camera.Position
	h.cameraNode.Rotation.Y = h.camera.Yaw

	moon := h.rig.Moon(s)
	h.moonGlow.Position = moon
	h.moonLight.Position = moon

	if len(h.headlights) == 2 {
		ahead := s.Negated()
		side := r3.Cross(r3.Vec{Y: 1}, ahead)
		if norm := r3.Norm(side); norm > 0 {
			side = r3.Scale(1/norm, side)
		}
		base := r3.Add(s.Position, r3.Add(ahead, r3.Vec{Y: 0.5}))
		h.headlights[0].Position = r3.Add(base, r3.Scale(-0.4, side))
		h.headlights[1].Position = r3.Add(base, r3.Scale(0.4, side))
	}

	if h.overlay != nil {
		switch {
		case ev.Returned:
			h.overlay.Visible = false
			h.logger.Debug("returned from deep zone", slog.Int("laps", s.Laps))
		case ev.SpecialEngaged:
			h.overlay.Visible = true
			h.logger.Debug("deep zone engaged", slog.Float64("odometer", s.Odometer))
		case ev.Wrapped && s.Phase == agent.PhaseEntering:
			h.overlay.Visible = true
		}
	}

	if ev.Wrapped {
		h.logger.Debug("lap", slog.Int("laps", s.Laps), slog.String("phase", s.Phase.String()))
	}
}

// Teardown releases everything the scene allocated. It is idempotent and
// never fails.
func (h *Handle) Teardown() {
	if h.state == StateTornDown {
		return
	}

	for _, n := range h.nodes {
		n.Detach()
		h.ledger.releaseMesh(n)
	}
	if h.root != nil {
		h.root.Walk(func(n *graph.Node) bool {
			h.ledger.releaseMesh(n)
			return true
		})
	}
	h.ledger.releaseAll()

	if h.root != nil {
		h.root.RemoveIf(func(n *graph.Node) bool {
			return n.Kind == graph.KindLight || n.Kind == graph.KindCamera
		})
	}

	h.objects = nil
	h.nodes = nil
	h.stars = nil
	h.starColors = nil

	if h.renderer != nil {
		h.renderer.DetachSurface()
		h.renderer.Dispose()
	}

	h.logger.Debug("scene torn down", slog.Int("released", h.ledger.releasedCount()), slog.Int("frames", h.frames))
	h.state = StateTornDown
}
