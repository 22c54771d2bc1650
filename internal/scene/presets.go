package scene

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/cybre/neon-skyline/internal/camera"
	"github.com/cybre/neon-skyline/internal/layout"
	"github.com/cybre/neon-skyline/internal/mapper"
)

var skylineTrack = layout.TrackConfig{
	Width:           10,
	Length:          200,
	OffsetFromTrack: 20,
	Spacing:         10,
	ItemWidth:       5,
}

var chaseNudge = r3.Vec{Y: 1, Z: -1.5}

// Skyline is the default building scene.
func Skyline(audioURL string) Config {
	return Config{
		Name:         "skyline",
		Layout:       layout.Buildings,
		Map:          mapper.ModeHeight,
		Track:        skylineTrack,
		Items:        layout.ItemConfig{MinHeight: 1, MaxHeight: 51},
		Frequencies:  mapper.Range{MinFrequency: 0, MaxFrequency: 10000},
		StarsEnabled: true,
		Camera:       camera.Options{Orientation: camera.OrientYawLock, Nudge: chaseNudge},
		AssetURL:     BuiltinCarURL,
		FlipModel:    true,
		AudioURL:     audioURL,
		Loop:         true,
	}
}

// Lasers sweeps thin beams whose pitch and visibility follow the bins.
func Lasers(audioURL string) Config {
	track := skylineTrack
	track.Spacing = 5
	track.ItemWidth = 0.1

	cfg := Skyline(audioURL)
	cfg.Name = "lasers"
	cfg.Layout = layout.Lasers
	cfg.Map = mapper.ModeRotationVisibility
	cfg.Track = track
	return cfg
}

// Evolution is the plain building scene with a narrower band and a look-at
// camera.
func Evolution(audioURL string) Config {
	cfg := Skyline(audioURL)
	cfg.Name = "evolution"
	cfg.Frequencies = mapper.Range{MinFrequency: 100, MaxFrequency: 8000}
	cfg.StarsEnabled = false
	cfg.Camera = camera.Options{Orientation: camera.OrientLookAt}
	cfg.FlipModel = false
	return cfg
}

// Nitrous runs laps into the deep zone with headlights on.
func Nitrous(audioURL string) Config {
	cfg := Skyline(audioURL)
	cfg.Name = "nitrous"
	cfg.Track.LapDistance = 400
	cfg.SpecialZoneEnabled = true
	cfg.HeadlightsEnabled = true
	return cfg
}
