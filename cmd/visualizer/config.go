package main

import (
	"fmt"
	"time"

	"github.com/gordonklaus/portaudio"
	"github.com/rotisserie/eris"

	"github.com/cybre/neon-skyline/internal/capture"
	"github.com/cybre/neon-skyline/internal/playback"
	"github.com/cybre/neon-skyline/internal/ui"
)

// selectSong resolves the song a headless run plays, asking interactively when
// the flag is empty. Without a terminal the first catalogue entry is used.
func selectSong(songs []playback.Song, opts runtimeOptions) (string, error) {
	if len(songs) == 0 {
		return "", eris.New("empty song catalogue")
	}
	if opts.song != "" {
		if !hasSong(songs, opts.song) {
			return "", eris.Wrapf(playback.ErrUnknownSong, "song %q", opts.song)
		}
		return opts.song, nil
	}

	picked, err := ui.RunSetup([]ui.Step{{Label: "Song", Title: "Select a song", Options: buildSongOptions(songs)}})
	if err != nil && !eris.Is(err, ui.ErrNoInteractiveTTY) {
		return "", err
	}
	return songs[picked[0]].Title, nil
}

// selectSongAndDevice resolves the optional starting song and the capture
// device for the terminal renderer, asking for the device when the flag is
// missing. Songs are picked from the terminal menu.
func selectSongAndDevice(
	songs []playback.Song,
	devices []*portaudio.DeviceInfo,
	defaultDeviceIndex int,
	opts runtimeOptions,
) (string, *portaudio.DeviceInfo, error) {
	if len(devices) == 0 {
		return "", nil, eris.New("no input devices available")
	}

	song := opts.song
	if song != "" && !hasSong(songs, song) {
		return "", nil, eris.Wrapf(playback.ErrUnknownSong, "song %q", song)
	}

	var selectedDevice *portaudio.DeviceInfo
	deviceIndex := -1
	if opts.deviceIndex >= 0 {
		if opts.deviceIndex >= len(devices) {
			return "", nil, eris.Errorf("invalid device index %d", opts.deviceIndex)
		}
		selectedDevice = devices[opts.deviceIndex]
		deviceIndex = opts.deviceIndex
	}

	if selectedDevice != nil {
		return song, selectedDevice, nil
	}

	picked, err := ui.RunSetup([]ui.Step{{
		Label:   "Device",
		Title:   "Select an audio input device",
		Options: buildDeviceOptions(devices),
		Initial: effectiveInitialDeviceIndex(deviceIndex, defaultDeviceIndex, len(devices)),
	}})
	if err != nil && !eris.Is(err, ui.ErrNoInteractiveTTY) {
		return "", nil, err
	}
	return song, devices[picked[0]], nil
}

func hasSong(songs []playback.Song, title string) bool {
	for _, s := range songs {
		if s.Title == title {
			return true
		}
	}
	return false
}

func buildSongOptions(songs []playback.Song) []ui.Option {
	options := make([]ui.Option, len(songs))
	for i, s := range songs {
		options[i] = ui.Option{Label: s.Title}
	}
	return options
}

func songTitles(songs []playback.Song) []string {
	titles := make([]string, len(songs))
	for i, s := range songs {
		titles[i] = s.Title
	}
	return titles
}

func buildDeviceOptions(devices []*portaudio.DeviceInfo) []ui.Option {
	options := make([]ui.Option, len(devices))
	for i, dev := range devices {
		options[i] = ui.Option{
			Label: fmt.Sprintf(
				"[%d] %s · %.0fHz · in:%d · latency:%.1fms",
				i,
				dev.Name,
				dev.DefaultSampleRate,
				dev.MaxInputChannels,
				dev.DefaultLowInputLatency.Seconds()*1000,
			),
		}
	}
	return options
}

func effectiveInitialDeviceIndex(requested, fallback, length int) int {
	if length == 0 {
		return 0
	}
	if requested >= 0 && requested < length {
		return requested
	}
	if fallback >= 0 && fallback < length {
		return fallback
	}
	return 0
}

func buildCaptureConfig(device *portaudio.DeviceInfo, opts runtimeOptions) capture.Config {
	return capture.Config{
		Device:     device,
		SampleRate: effectiveSampleRate(opts.sampleRate, device.DefaultSampleRate),
		FrameSize:  effectiveFrameSize(opts.frameSize),
		Channels:   sanitizeChannelCount(opts.channels, device.MaxInputChannels),
		Latency:    opts.latency,
	}
}

func sanitizeChannelCount(requested, max int) int {
	if requested <= 0 {
		return 1
	}

	if max > 0 && requested > max {
		return max
	}

	return requested
}

func effectiveSampleRate(requested, deviceDefault float64) float64 {
	if requested > 0 {
		return requested
	}

	if deviceDefault > 0 {
		return deviceDefault
	}

	return 44100
}

func effectiveFrameSize(requested int) int {
	if requested > 0 {
		return requested
	}

	return 1024
}

func effectiveFPS(requested int) int {
	if requested > 0 {
		return requested
	}
	return 60
}

func effectiveSeed(requested int64) int64 {
	if requested != 0 {
		return requested
	}
	return time.Now().UnixNano()
}

// effectiveFrameBudget only bounds headless runs.
func effectiveFrameBudget(renderer string, frames int) int {
	if renderer != rendererHeadless || frames < 0 {
		return 0
	}
	return frames
}
