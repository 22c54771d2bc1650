package main

import (
	"context"
	"testing"
	"time"

	"github.com/gordonklaus/portaudio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cybre/neon-skyline/internal/playback"
)

func TestSanitizeChannelCount(t *testing.T) {
	assert.Equal(t, 1, sanitizeChannelCount(0, 2))
	assert.Equal(t, 2, sanitizeChannelCount(4, 2))
	assert.Equal(t, 2, sanitizeChannelCount(2, 0))
}

func TestEffectiveDefaults(t *testing.T) {
	assert.Equal(t, 48000.0, effectiveSampleRate(0, 48000))
	assert.Equal(t, 44100.0, effectiveSampleRate(0, 0))
	assert.Equal(t, 1024, effectiveFrameSize(0))
	assert.Equal(t, 60, effectiveFPS(-1))
	assert.Equal(t, int64(7), effectiveSeed(7))
	assert.NotZero(t, effectiveSeed(0))
	assert.Equal(t, 0, effectiveFrameBudget(rendererTerminal, 600))
	assert.Equal(t, 600, effectiveFrameBudget(rendererHeadless, 600))
}

func TestEffectiveInitialDeviceIndex(t *testing.T) {
	assert.Equal(t, 2, effectiveInitialDeviceIndex(2, 0, 3))
	assert.Equal(t, 1, effectiveInitialDeviceIndex(5, 1, 3))
	assert.Equal(t, 0, effectiveInitialDeviceIndex(-1, -1, 3))
}

func TestSelectSongAndDeviceFromFlags(t *testing.T) {
	devices := []*portaudio.DeviceInfo{{Name: "mic", MaxInputChannels: 1}, {Name: "monitor", MaxInputChannels: 2}}
	songs := playback.DefaultCatalogue()

	song, device, err := selectSongAndDevice(songs, devices, 0, runtimeOptions{song: "Dirty", deviceIndex: 1, renderer: rendererHeadless})
	require.NoError(t, err)
	assert.Equal(t, "Dirty", song)
	assert.Equal(t, "monitor", device.Name)

	_, _, err = selectSongAndDevice(songs, devices, 0, runtimeOptions{song: "Nope", deviceIndex: 1})
	assert.ErrorIs(t, err, playback.ErrUnknownSong)

	_, _, err = selectSongAndDevice(songs, devices, 0, runtimeOptions{deviceIndex: 9})
	assert.Error(t, err)

	_, _, err = selectSongAndDevice(songs, nil, 0, runtimeOptions{})
	assert.Error(t, err)
}

func TestSelectSongFromFlag(t *testing.T) {
	songs := playback.DefaultCatalogue()

	song, err := selectSong(songs, runtimeOptions{song: "Nitrous"})
	require.NoError(t, err)
	assert.Equal(t, "Nitrous", song)

	_, err = selectSong(songs, runtimeOptions{song: "Nope"})
	assert.ErrorIs(t, err, playback.ErrUnknownSong)

	_, err = selectSong(nil, runtimeOptions{song: "Nitrous"})
	assert.Error(t, err)
}

func TestHeadlessRunSkipsAudioDevices(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := runVisualizer(ctx, runtimeOptions{
		song:        "Dirty",
		deviceIndex: -1,
		fps:         120,
		seed:        1,
		renderer:    rendererHeadless,
		frames:      5,
	})
	require.NoError(t, err)
	assert.NoError(t, ctx.Err())
}

func TestBuildCaptureConfig(t *testing.T) {
	dev := &portaudio.DeviceInfo{Name: "monitor", MaxInputChannels: 2, DefaultSampleRate: 48000}
	cfg := buildCaptureConfig(dev, runtimeOptions{channels: 6})
	assert.Equal(t, 2, cfg.Channels)
	assert.Equal(t, 48000.0, cfg.SampleRate)
	assert.Equal(t, 1024, cfg.FrameSize)
	assert.Same(t, dev, cfg.Device)
}
