package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gordonklaus/portaudio"
	"github.com/rotisserie/eris"
	"golang.org/x/sync/errgroup"

	"github.com/cybre/neon-skyline/internal/capture"
	"github.com/cybre/neon-skyline/internal/graph"
	"github.com/cybre/neon-skyline/internal/graph/headless"
	"github.com/cybre/neon-skyline/internal/playback"
	"github.com/cybre/neon-skyline/internal/scene"
	audiosignal "github.com/cybre/neon-skyline/internal/signal"
	"github.com/cybre/neon-skyline/internal/ui"
	"github.com/cybre/neon-skyline/internal/utils"
)

func main() {
	cfg := parseCLIFlags()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := runVisualizer(ctx, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func runVisualizer(ctx context.Context, opts runtimeOptions) error {
	if opts.renderer != rendererTerminal && opts.renderer != rendererHeadless {
		return eris.Errorf("unknown renderer %q", opts.renderer)
	}

	logger := setupLogger(opts.debug, opts.renderer == rendererTerminal)
	songs := playback.DefaultCatalogue()

	if opts.renderer == rendererHeadless {
		song, err := selectSong(songs, opts)
		if err != nil {
			return eris.Wrap(err, "select song")
		}
		silence := &audiosignal.StaticSource{Bins: make([]uint8, audiosignal.BinCount)}
		return finish(logger, run(ctx, logger, opts, songs, song, scene.SilentAudio{}, &playback.NullPlayer{}, silence))
	}

	if err := portaudio.Initialize(); err != nil {
		return eris.Wrap(err, "initialize PortAudio")
	}
	defer portaudio.Terminate()

	devices, err := portaudio.Devices()
	if err != nil {
		return eris.Wrap(err, "enumerate audio devices")
	}

	defaultDevice, err := portaudio.DefaultInputDevice()
	if err != nil {
		return eris.Wrap(err, "resolve default audio input device")
	}

	song, device, err := selectSongAndDevice(songs, devices, defaultDevice.Index, opts)
	if err != nil {
		return eris.Wrap(err, "select song/device")
	}

	captureCfg := buildCaptureConfig(device, opts)
	if opts.channels > 0 && opts.channels > device.MaxInputChannels {
		logger.Warn("requested channels exceed device capabilities",
			slog.Int("requested", opts.channels),
			slog.Int("max", device.MaxInputChannels),
			slog.Int("using", captureCfg.Channels),
		)
	}

	tap := audiosignal.NewTap(4*captureCfg.FrameSize, captureCfg.Channels)
	stream, err := capture.New(captureCfg, tap, logger)
	if err != nil {
		return err
	}

	return finish(logger, run(ctx, logger, opts, songs, song, stream, stream, audiosignal.NewAnalyzer(tap, audiosignal.Options{})))
}

func finish(logger *slog.Logger, err error) error {
	if err != nil && !eris.Is(err, context.Canceled) {
		logger.Error("visualizer failed", slog.Any("error", err))
		return err
	}
	return nil
}

func setupLogger(debug, terminal bool) *slog.Logger {
	logOutput := os.Stdout
	logLevel := slog.LevelInfo
	if debug {
		logLevel = slog.LevelDebug
	}
	if terminal && !debug {
		logLevel = slog.LevelWarn
	}
	if terminal {
		logOutput = os.Stderr
	}

	logger := slog.New(slog.NewTextHandler(logOutput, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	return logger
}

func run(
	ctx context.Context,
	logger *slog.Logger,
	opts runtimeOptions,
	songs []playback.Song,
	song string,
	audio scene.AudioLoader,
	player playback.Player,
	source audiosignal.Source,
) error {
	loopCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	backend := headless.NewBackend()
	seed := effectiveSeed(opts.seed)
	logger.Info("starting visualizer",
		slog.String("renderer", opts.renderer),
		slog.Int64("seed", seed),
		slog.Int("fps", effectiveFPS(opts.fps)))

	var (
		terminal    *ui.Terminal
		controller  *playback.Controller
		newRenderer = func() (graph.Renderer, error) { return headless.NewRenderer(), nil }
	)
	if opts.renderer == rendererTerminal {
		terminal = ui.NewTerminal(songTitles(songs), ui.Controls{
			OnPlay: func(title string) { controller.Send(playback.Event{Kind: playback.EventPlay, Song: title}) },
			OnBack: func() { controller.Send(playback.Event{Kind: playback.EventBack}) },
			OnNext: func() { controller.Send(playback.Event{Kind: playback.EventNext}) },
			OnExit: cancel,
		})
		defer terminal.Close()
		newRenderer = terminal.NewRenderer
	}

	builder, err := scene.NewBuilder(scene.Deps{
		Backend:     backend,
		NewRenderer: newRenderer,
		Assets:      scene.BuiltinLoader{},
		Audio:       audio,
		Source:      source,
		Rand:        utils.NewRand(seed),
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	controller, err = playback.New(builder, player, logger, playback.Options{
		FPS:       effectiveFPS(opts.fps),
		Songs:     songs,
		MaxFrames: effectiveFrameBudget(opts.renderer, opts.frames),
	})
	if err != nil {
		return err
	}

	if song != "" {
		controller.Send(playback.Event{Kind: playback.EventPlay, Song: song})
	}

	g, gctx := errgroup.WithContext(loopCtx)

	g.Go(func() error {
		defer cancel()
		return controller.Run(gctx)
	})

	if terminal != nil {
		g.Go(func() error {
			defer cancel()
			return terminal.Run()
		})
		g.Go(func() error {
			<-gctx.Done()
			terminal.Close()
			return nil
		})
	}

	err = g.Wait()
	logger.Info("visualizer stopped",
		slog.Int("frames", controller.Frames()),
		slog.Int("allocated", backend.Created()),
		slog.Int("leaked", backend.Live()))
	if err != nil && !eris.Is(err, context.Canceled) {
		return err
	}

	return nil
}
