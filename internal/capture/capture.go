// Package capture feeds a PortAudio input stream (typically a loopback or
// monitor device carrying the song) into a signal.Tap.
package capture

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gordonklaus/portaudio"
	"github.com/rotisserie/eris"

	"github.com/cybre/neon-skyline/internal/scene"
	"github.com/cybre/neon-skyline/internal/signal"
)

// Config selects the capture device and stream shape.
type Config struct {
	Device     *portaudio.DeviceInfo
	SampleRate float64
	FrameSize  int
	Channels   int
	// Latency overrides the device's low input latency when positive.
	Latency time.Duration
}

// Buffer is the live stream standing in for a decoded track.
type Buffer struct {
	URL    string
	Device string
}

func (b Buffer) Name() string {
	return b.URL
}

// Stream is both the scene.AudioLoader and the playback.Player of the live
// visualizer: loading resolves immediately and playing opens the device.
type Stream struct {
	cfg    Config
	tap    *signal.Tap
	logger *slog.Logger

	mu      sync.Mutex
	stream  *portaudio.Stream
	scratch []float32
	gain    float32
}

// New returns a stopped Stream writing into tap.
func New(cfg Config, tap *signal.Tap, logger *slog.Logger) (*Stream, error) {
	if cfg.Device == nil {
		return nil, eris.New("audio device is not specified")
	}
	if cfg.Device.MaxInputChannels < 1 {
		return nil, eris.Errorf("device %s has no input channels; select a loopback/monitor device", cfg.Device.Name)
	}
	if tap == nil {
		return nil, eris.New("capture: nil tap")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Stream{cfg: cfg, tap: tap, logger: logger, gain: 1}, nil
}

// Load implements scene.AudioLoader.
func (s *Stream) Load(ctx context.Context, url string) (scene.AudioBuffer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Buffer{URL: url, Device: s.cfg.Device.Name}, nil
}

// Play opens and starts the input stream. Volume scales the samples handed
// to the analyser. Looping is the player's concern on the output side.
func (s *Stream) Play(buf scene.AudioBuffer, loop bool, volume float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stream != nil {
		return nil
	}

	track := ""
	if buf != nil {
		track = buf.Name()
	}
	s.logger.Info("using audio input device",
		slog.String("name", s.cfg.Device.Name),
		slog.String("track", track),
		slog.Float64("sample_rate", s.cfg.SampleRate),
		slog.Int("channels", s.cfg.Channels),
		slog.Int("frame_size", s.cfg.FrameSize),
		slog.Bool("loop", loop))

	params := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   s.cfg.Device,
			Channels: s.cfg.Channels,
			Latency:  s.cfg.Device.DefaultLowInputLatency,
		},
		SampleRate:      s.cfg.SampleRate,
		FramesPerBuffer: s.cfg.FrameSize,
	}
	if s.cfg.Latency > 0 {
		params.Input.Latency = s.cfg.Latency
	}

	s.gain = float32(volume)
	s.scratch = make([]float32, s.cfg.FrameSize*max(s.cfg.Channels, 1))
	gain, scratch := s.gain, s.scratch

	stream, err := portaudio.OpenStream(params, func(in []float32) {
		if len(in) > len(scratch) {
			in = in[:len(scratch)]
		}
		frame := scratch[:len(in)]
		scale(frame, in, gain)
		s.tap.Write(frame)
	})
	if err != nil {
		return eris.Wrap(err, "open audio stream")
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		return eris.Wrap(err, "start audio stream")
	}

	s.stream = stream
	return nil
}

// Stop stops and closes the input stream.
func (s *Stream) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stream == nil {
		return nil
	}
	stream := s.stream
	s.stream = nil

	stopErr := stream.Stop()
	closeErr := stream.Close()
	if stopErr != nil {
		return eris.Wrap(stopErr, "stop audio stream")
	}
	if closeErr != nil {
		return eris.Wrap(closeErr, "close audio stream")
	}
	return nil
}

// IsPlaying reports whether the input stream is open.
func (s *Stream) IsPlaying() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stream != nil
}

func scale(dst, src []float32, gain float32) {
	for i, v := range src {
		dst[i] = v * gain
	}
}
