package main

import (
	"flag"
	"time"
)

const (
	rendererTerminal = "terminal"
	rendererHeadless = "headless"
)

type runtimeOptions struct {
	song        string
	deviceIndex int
	sampleRate  float64
	frameSize   int
	channels    int
	latency     time.Duration
	fps         int
	seed        int64
	renderer    string
	frames      int
	debug       bool
}

func parseCLIFlags() runtimeOptions {
	var (
		cfg       runtimeOptions
		latencyMs int
	)

	flag.StringVar(&cfg.song, "song", "", "song title to start with (leave blank to pick from the menu)")
	flag.IntVar(&cfg.deviceIndex, "device", -1, "audio input device index (leave blank to choose interactively)")
	flag.Float64Var(&cfg.sampleRate, "sample-rate", 0, "capture sample rate (0 = device default)")
	flag.IntVar(&cfg.frameSize, "frame-size", 1024, "capture buffer size in samples")
	flag.IntVar(&cfg.channels, "channels", 2, "number of input channels to capture (<= device max)")
	flag.IntVar(&latencyMs, "latency-ms", 0, "override input latency in milliseconds (0 = device default)")
	flag.IntVar(&cfg.fps, "fps", 60, "frame loop rate")
	flag.Int64Var(&cfg.seed, "seed", 0, "layout and turn seed (0 = random)")
	flag.StringVar(&cfg.renderer, "renderer", rendererTerminal, "renderer: terminal or headless")
	flag.IntVar(&cfg.frames, "frames", 600, "frames to render before exiting (headless only, 0 = unlimited)")
	flag.BoolVar(&cfg.debug, "debug", false, "enable debug logging")
	flag.Parse()

	cfg.latency = time.Duration(latencyMs) * time.Millisecond

	return cfg
}
