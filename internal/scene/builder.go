package scene

import (
	"context"
	"log/slog"
	"math"

	"github.com/rotisserie/eris"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/cybre/neon-skyline/internal/agent"
	"github.com/cybre/neon-skyline/internal/camera"
	"github.com/cybre/neon-skyline/internal/graph"
	"github.com/cybre/neon-skyline/internal/layout"
	"github.com/cybre/neon-skyline/internal/mapper"
	"github.com/cybre/neon-skyline/internal/signal"
	"github.com/cybre/neon-skyline/internal/utils"
)

// Deps are the collaborators shared by every scene a Builder produces.
type Deps struct {
	Backend graph.Backend
	// NewRenderer creates the renderer of one scene.
	NewRenderer func() (graph.Renderer, error)
	Assets      AssetLoader
	Audio       AudioLoader
	Source      signal.Source
	// Rand overrides the per-scene generator seeded from Config.Seed.
	Rand   utils.Rand
	Logger *slog.Logger
}

// Builder turns Configs into Handles.
type Builder struct {
	deps Deps
}

// NewBuilder validates deps. Assets defaults to BuiltinLoader and Audio to
// SilentAudio.
func NewBuilder(deps Deps) (*Builder, error) {
	if deps.Backend == nil {
		return nil, eris.New("scene: nil backend")
	}
	if deps.NewRenderer == nil {
		return nil, eris.New("scene: nil renderer factory")
	}
	if deps.Assets == nil {
		deps.Assets = BuiltinLoader{}
	}
	if deps.Audio == nil {
		deps.Audio = SilentAudio{}
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Builder{deps: deps}, nil
}

// Build constructs a scene and waits for its audio and model. On failure
// everything allocated so far is released and no Handle is returned.
func (b *Builder) Build(ctx context.Context, cfg Config) (*Handle, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	rng := b.deps.Rand
	if rng == nil {
		rng = utils.NewRand(cfg.Seed)
	}

	renderer, err := b.deps.NewRenderer()
	if err != nil {
		return nil, eris.Wrap(err, "create renderer")
	}

	h := &Handle{
		cfg:      cfg,
		logger:   b.deps.Logger.With(slog.String("scene", cfg.Name)),
		renderer: renderer,
		ledger:   newLedger(),
		root:     graph.NewGroup(cfg.Name),
		sampler:  signal.NewSampler(b.deps.Source),
	}

	if err := b.construct(h, rng); err != nil {
		h.Teardown()
		return nil, err
	}
	if err := b.load(ctx, h); err != nil {
		h.Teardown()
		return nil, err
	}

	h.state = StateBuilt
	h.logger.Info("scene built",
		slog.Int("objects", len(h.objects)),
		slog.Int("stars", len(h.starColors)),
		slog.Int("resources", len(h.ledger.owned)),
	)
	return h, nil
}

func (b *Builder) construct(h *Handle, rng utils.Rand) error {
	cfg := h.cfg

	m, err := mapper.New(mapper.Options{Mode: cfg.Map, Range: cfg.Frequencies, MaxHeight: cfg.MaxHeight})
	if err != nil {
		return err
	}
	h.mapper = m
	h.rig = camera.NewRig(cfg.Camera)

	probe := agent.GroundPlane{
		CenterX: cfg.Track.CenterX,
		CenterZ: cfg.Track.CenterZ,
		Width:   cfg.GroundSize,
		Depth:   cfg.GroundSize,
	}
	if h.motion, err = agent.New(cfg.Agent, cfg.Start, rng, probe); err != nil {
		return err
	}

	if err := b.environment(h); err != nil {
		return err
	}
	if err := b.decorations(h, rng); err != nil {
		return err
	}
	if cfg.StarsEnabled {
		if err := b.stars(h, rng); err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) geometry(h *Handle, shape graph.Shape) (graph.Geometry, error) {
	g, err := b.deps.Backend.NewGeometry(shape)
	if err != nil {
		return nil, err
	}
	h.ledger.own(g)
	return g, nil
}

func (b *Builder) material(h *Handle, spec graph.MaterialSpec) (graph.Material, error) {
	m, err := b.deps.Backend.NewMaterial(spec)
	if err != nil {
		return nil, err
	}
	h.ledger.own(m)
	if t := m.Map(); t != nil {
		h.ledger.own(t)
	}
	return m, nil
}

func (b *Builder) mesh(h *Handle, name string, shape graph.Shape, spec graph.MaterialSpec) (*graph.Node, error) {
	g, err := b.geometry(h, shape)
	if err != nil {
		return nil, err
	}
	m, err := b.material(h, spec)
	if err != nil {
		return nil, err
	}
	return graph.NewMesh(name, g, m), nil
}

func (b *Builder) environment(h *Handle) error {
	cfg := h.cfg
	track := cfg.Track

	ground, err := b.mesh(h, NodeGround, graph.Plane(cfg.GroundSize, cfg.GroundSize),
		graph.MaterialSpec{Kind: graph.MaterialPhong, Color: graph.Hex(0x333333)})
	if err != nil {
		return err
	}
	ground.Rotation.X = -math.Pi / 2
	ground.Position = r3.Vec{X: track.CenterX, Z: track.CenterZ}

	road, err := b.mesh(h, NodeRoad, graph.Plane(track.Width, track.Length),
		graph.MaterialSpec{Kind: graph.MaterialPhong, Color: graph.Hex(0x404040)})
	if err != nil {
		return err
	}
	road.Rotation.X = -math.Pi / 2
	road.Position = r3.Vec{X: track.CenterX, Y: 0.01, Z: track.CenterZ}

	glow, err := b.mesh(h, NodeMoon, graph.Sphere(10, 32),
		graph.MaterialSpec{Kind: graph.MaterialBasic, Color: graph.Hex(0xaaaaaa)})
	if err != nil {
		return err
	}
	glow.Position = r3.Vec{X: track.CenterX, Y: 50, Z: track.CenterZ + track.Length/2}
	h.moonGlow = glow

	ambient := graph.NewLight("ambient", graph.LightSpec{Kind: graph.LightAmbient, Color: graph.White, Intensity: 0.3})
	point := graph.NewLight("sun", graph.LightSpec{Kind: graph.LightPoint, Color: graph.White, Intensity: 1})
	point.Position = r3.Vec{Y: 20}
	h.moonLight = graph.NewLight("moonlight", graph.LightSpec{Kind: graph.LightPoint, Color: graph.Hex(0xaaaaaa), Intensity: 0.5})
	h.moonLight.Position = glow.Position

	h.cameraNode = graph.NewCamera(NodeCamera)

	h.decor = graph.NewGroup(NodeDecorations)
	h.starGroup = graph.NewGroup(NodeStars)
	h.root.Add(ground, road, glow, ambient, point, h.moonLight, h.cameraNode, h.decor, h.starGroup)

	if cfg.HeadlightsEnabled {
		for _, name := range []string{"headlight-left", "headlight-right"} {
			l := graph.NewLight(name, graph.LightSpec{Kind: graph.LightSpot, Color: graph.White, Intensity: 1, Distance: 50})
			h.headlights = append(h.headlights, l)
			h.root.Add(l)
		}
	}

	if cfg.SpecialZoneEnabled {
		portal, err := b.mesh(h, NodePortal, graph.Box(track.Width+2, 12, 0.5), graph.MaterialSpec{
			Kind:        graph.MaterialBasic,
			Color:       graph.Hex(0x00ffff),
			Transparent: true,
			Opacity:     0.6,
		})
		if err != nil {
			return err
		}
		portal.Position = r3.Vec{X: track.CenterX, Y: 6, Z: track.MinZ()}
		portal.Visible = false
		h.overlay = portal
		h.root.Add(portal)
	}
	return nil
}

// decorations creates one mesh per layout object, sharing a unit box.
func (b *Builder) decorations(h *Handle, rng utils.Rand) error {
	cfg := h.cfg
	objects, err := layout.Decorations(cfg.Track, cfg.Items, rng)
	if err != nil {
		return err
	}
	if len(objects) == 0 {
		h.objects = objects
		return nil
	}

	box, err := b.geometry(h, graph.Box(1, 1, 1))
	if err != nil {
		return err
	}

	nodes := make([]*graph.Node, 0, len(objects))
	for i := range objects {
		obj := &objects[i]
		c, err := obj.Color.RGB()
		if err != nil {
			return eris.Wrapf(err, "color object %d", obj.Index)
		}
		mat, err := b.material(h, graph.MaterialSpec{
			Kind:              graph.MaterialStandard,
			Color:             c,
			Emissive:          c,
			EmissiveIntensity: 1,
		})
		if err != nil {
			return err
		}
		n := graph.NewMesh(NodeDecoration, box, mat)
		nodes = append(nodes, n)
		h.decor.Add(n)
	}
	if len(nodes) != len(objects) {
		return eris.Wrapf(ErrConfiguration, "%d objects but %d meshes", len(objects), len(nodes))
	}

	h.objects = objects
	h.nodes = nodes
	h.syncDecorations()
	return nil
}

func (b *Builder) stars(h *Handle, rng utils.Rand) error {
	positions := layout.Starfield(h.cfg.Stars, rng)
	if len(positions) == 0 {
		return nil
	}
	sphere, err := b.geometry(h, graph.Sphere(1, 8))
	if err != nil {
		return err
	}

	colors := make([]graph.Color, 0, len(positions))
	nodes := make([]*graph.Node, 0, len(positions))
	for _, p := range positions {
		c := graph.StarRamp(0)
		mat, err := b.material(h, graph.MaterialSpec{Kind: graph.MaterialBasic, Color: c})
		if err != nil {
			return err
		}
		n := graph.NewMesh(NodeStar, sphere, mat)
		n.Position = p
		colors = append(colors, c)
		nodes = append(nodes, n)
		h.starGroup.Add(n)
	}
	if len(colors) != len(nodes) {
		return eris.Wrapf(ErrConfiguration, "%d star colors but %d stars", len(colors), len(nodes))
	}
	h.stars = nodes
	h.starColors = colors
	return nil
}

// load fetches audio and model concurrently and joins both.
func (b *Builder) load(ctx context.Context, h *Handle) error {
	cfg := h.cfg
	var (
		buffer AudioBuffer
		model  *graph.Node
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		buf, err := b.deps.Audio.Load(gctx, cfg.AudioURL)
		if err != nil {
			return Stage(ErrAudioLoad, err, "load %q", cfg.AudioURL)
		}
		buffer = buf
		return nil
	})
	g.Go(func() error {
		root, err := b.deps.Assets.Load(gctx, b.deps.Backend, cfg.AssetURL)
		if err != nil {
			return Stage(ErrAssetLoad, err, "load %q", cfg.AssetURL)
		}
		if root == nil {
			return eris.Wrapf(ErrAssetLoad, "load %q: empty model", cfg.AssetURL)
		}
		model = root
		return nil
	})
	err := g.Wait()

	// A model that arrived alongside a failed track is still ours to release.
	if model != nil {
		h.ledger.ownTree(model)
	}
	if err != nil {
		return err
	}

	if kids := model.Children(); cfg.FlipModel && len(kids) > 0 {
		kids[0].Rotation.Z = math.Pi
	}
	h.vehicle = model
	h.root.Add(model)
	h.audio = buffer
	h.sync(h.motion.State(), agent.Events{})
	return nil
}
