// Package layout generates the static placement of decorative objects and
// stars around a track.
package layout

import (
	"math"

	"github.com/rotisserie/eris"
)

// ErrConfiguration marks a degenerate track or item configuration.
var ErrConfiguration = eris.New("invalid layout configuration")

// MaxObjects bounds the decorative object count of a single track.
const MaxObjects = 1 << 16

// TrackConfig describes the track and the spacing of the objects flanking it.
type TrackConfig struct {
	Width  float64
	Length float64
	// LapDistance is the travelled distance after which the agent heads for
	// the deep zone (special-zone scenes only).
	LapDistance     float64
	OffsetFromTrack float64
	Spacing         float64
	ItemWidth       float64
	// CenterX and CenterZ place the track centre in world space.
	CenterX float64
	CenterZ float64
}

// Validate reports degenerate values as ErrConfiguration.
func (t TrackConfig) Validate() error {
	switch {
	case !finite(t.Width, t.Length, t.LapDistance, t.OffsetFromTrack, t.Spacing, t.ItemWidth, t.CenterX, t.CenterZ):
		return eris.Wrap(ErrConfiguration, "track values must be finite")
	case t.Width <= 0:
		return eris.Wrapf(ErrConfiguration, "track width must be > 0, got %v", t.Width)
	case t.Length <= 0:
		return eris.Wrapf(ErrConfiguration, "track length must be > 0, got %v", t.Length)
	case t.ItemWidth < 0 || t.Spacing < 0:
		return eris.Wrapf(ErrConfiguration, "item width and spacing must be >= 0, got %v/%v", t.ItemWidth, t.Spacing)
	case t.Pitch() <= 0:
		return eris.Wrap(ErrConfiguration, "item width plus spacing must be > 0")
	case t.LapDistance < 0:
		return eris.Wrapf(ErrConfiguration, "lap distance must be >= 0, got %v", t.LapDistance)
	}
	if perSide := math.Floor(t.Length / t.Pitch()); perSide*2 > MaxObjects {
		return eris.Wrapf(ErrConfiguration, "track would hold %v objects (max %d)", perSide*2, MaxObjects)
	}
	return nil
}

// Pitch is the longitudinal distance between neighbouring objects on a side.
func (t TrackConfig) Pitch() float64 {
	return t.ItemWidth + t.Spacing
}

// ItemsPerSide returns floor(length/pitch).
func (t TrackConfig) ItemsPerSide() (int, error) {
	if err := t.Validate(); err != nil {
		return 0, err
	}
	return int(math.Floor(t.Length / t.Pitch())), nil
}

// Count returns the total number of decorative objects, always even.
func (t TrackConfig) Count() (int, error) {
	perSide, err := t.ItemsPerSide()
	if err != nil {
		return 0, err
	}
	return perSide * 2, nil
}

// MinZ is the near end of the track along the travel direction.
func (t TrackConfig) MinZ() float64 {
	return t.CenterZ - t.Length/2
}

// MaxZ is the far end of the track.
func (t TrackConfig) MaxZ() float64 {
	return t.CenterZ + t.Length/2
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
