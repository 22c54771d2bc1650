// Package playback glues the menu, the audio player and the scene lifecycle
// together, keeping at most one scene alive.
package playback

import (
	"context"
	"log/slog"
	"time"

	"github.com/rotisserie/eris"

	"github.com/cybre/neon-skyline/internal/scene"
)

// Player plays a loaded track.
type Player interface {
	Play(buf scene.AudioBuffer, loop bool, volume float64) error
	Stop() error
	IsPlaying() bool
}

// EventKind enumerates menu requests.
type EventKind int

const (
	EventPlay EventKind = iota
	EventBack
	EventNext
)

// String returns the event name.
func (k EventKind) String() string {
	switch k {
	case EventPlay:
		return "play"
	case EventBack:
		return "back"
	case EventNext:
		return "next"
	default:
		return "unknown"
	}
}

// Event is a menu request. Song is only read for EventPlay.
type Event struct {
	Kind EventKind
	Song string
}

// Options configures a Controller. Zero values take the defaults.
type Options struct {
	// FPS defaults to 60.
	FPS int
	// Songs defaults to DefaultCatalogue.
	Songs []Song
	// MaxFrames stops Run after that many rendered frames. Zero runs until
	// the context ends.
	MaxFrames int
	// MaxDelta caps the tick delta after a stall. Defaults to 100ms.
	MaxDelta time.Duration
}

// ErrUnknownSong marks a Play request for a title missing from the catalogue.
var ErrUnknownSong = eris.New("unknown song")

// Controller owns the active scene. Its methods must be called from the
// goroutine that runs the frame loop; other goroutines talk to it via Send.
type Controller struct {
	builder *scene.Builder
	player  Player
	logger  *slog.Logger
	opts    Options

	events   chan Event
	active   *scene.Handle
	current  int
	building bool
	frames   int
}

// New returns a Controller with nothing playing.
func New(builder *scene.Builder, player Player, logger *slog.Logger, opts Options) (*Controller, error) {
	if builder == nil {
		return nil, eris.New("playback: nil scene builder")
	}
	if player == nil {
		return nil, eris.New("playback: nil player")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	if len(opts.Songs) == 0 {
		opts.Songs = DefaultCatalogue()
	}
	if opts.MaxDelta <= 0 {
		opts.MaxDelta = 100 * time.Millisecond
	}
	return &Controller{
		builder: builder,
		player:  player,
		logger:  logger,
		opts:    opts,
		events:  make(chan Event, 8),
		current: -1,
	}, nil
}

// Songs returns the catalogue.
func (c *Controller) Songs() []Song {
	return c.opts.Songs
}

// Active returns the running scene, or nil when on the menu.
func (c *Controller) Active() *scene.Handle {
	return c.active
}

// Current returns the catalogue index of the active song, or -1.
func (c *Controller) Current() int {
	if c.active == nil {
		return -1
	}
	return c.current
}

// Frames returns the number of frames rendered across all scenes.
func (c *Controller) Frames() int {
	return c.frames
}

// Send queues a menu request. It is safe for concurrent use and drops the
// request when the queue is full.
func (c *Controller) Send(ev Event) bool {
	select {
	case c.events <- ev:
		return true
	default:
		c.logger.Warn("dropping menu event", slog.String("event", ev.Kind.String()))
		return false
	}
}

// Play tears down the active scene and starts title. On failure the
// controller is back on the menu.
func (c *Controller) Play(ctx context.Context, title string) error {
	idx := find(c.opts.Songs, title)
	if idx < 0 {
		return eris.Wrapf(ErrUnknownSong, "play %q", title)
	}
	return c.playIndex(ctx, idx)
}

// Next plays the catalogue entry after the current one, wrapping around.
func (c *Controller) Next(ctx context.Context) error {
	return c.playIndex(ctx, (c.current+1)%len(c.opts.Songs))
}

// Back stops audio and tears the active scene down.
func (c *Controller) Back() {
	if c.active == nil {
		return
	}
	if c.player.IsPlaying() {
		if err := c.player.Stop(); err != nil {
			c.logger.Warn("failed to stop audio", slog.Any("error", err))
		}
	}
	c.active.Teardown()
	c.logger.Info("back to menu", slog.String("song", c.active.Config().Name))
	c.active = nil
}

func (c *Controller) playIndex(ctx context.Context, idx int) error {
	if c.building {
		return scene.ErrSceneActive
	}
	c.Back()

	song := c.opts.Songs[idx]
	c.building = true
	h, err := c.builder.Build(ctx, song.Config())
	c.building = false
	if err != nil {
		c.logger.Error("failed to build scene", slog.String("song", song.Title), slog.Any("error", err))
		return err
	}

	if err := h.Start(); err != nil {
		h.Teardown()
		return err
	}
	cfg := h.Config()
	if err := c.player.Play(h.Audio(), cfg.Loop, cfg.Volume); err != nil {
		h.Teardown()
		return scene.Stage(scene.ErrAudioLoad, err, "play %q", song.Title)
	}

	c.active = h
	c.current = idx
	c.logger.Info("scene running", slog.String("song", song.Title), slog.String("preset", cfg.Layout.String()))
	return nil
}

// Tick advances the active scene by dt. A failing frame returns to the menu.
func (c *Controller) Tick(dt time.Duration) error {
	if c.active == nil {
		return nil
	}
	if _, err := c.active.Tick(dt.Seconds()); err != nil {
		c.logger.Error("frame failed", slog.Any("error", err))
		c.Back()
		return err
	}
	c.frames++
	return nil
}

// Run drives the frame loop and handles menu requests between frames until
// ctx ends or MaxFrames is reached. The active scene is torn down on return.
func (c *Controller) Run(ctx context.Context) error {
	defer c.Back()

	ticker := time.NewTicker(time.Second / time.Duration(c.opts.FPS))
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-c.events:
			c.handle(ctx, ev)
			last = time.Now()
		case now := <-ticker.C:
			dt := min(now.Sub(last), c.opts.MaxDelta)
			last = now
			// Frame errors already returned the controller to the menu.
			_ = c.Tick(dt)
			if c.opts.MaxFrames > 0 && c.frames >= c.opts.MaxFrames {
				return nil
			}
		}
	}
}

func (c *Controller) handle(ctx context.Context, ev Event) {
	c.logger.Debug("menu event", slog.String("event", ev.Kind.String()), slog.String("song", ev.Song))

	var err error
	switch ev.Kind {
	case EventPlay:
		err = c.Play(ctx, ev.Song)
	case EventNext:
		err = c.Next(ctx)
	case EventBack:
		c.Back()
	}
	if err != nil && !eris.Is(err, context.Canceled) {
		c.logger.Warn("menu request failed", slog.String("event", ev.Kind.String()), slog.Any("error", err))
	}
}

// NullPlayer tracks play state without producing sound.
type NullPlayer struct {
	playing bool
}

func (p *NullPlayer) Play(scene.AudioBuffer, bool, float64) error {
	p.playing = true
	return nil
}

func (p *NullPlayer) Stop() error {
	p.playing = false
	return nil
}

func (p *NullPlayer) IsPlaying() bool {
	return p.playing
}
