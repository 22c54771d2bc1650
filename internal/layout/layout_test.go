package layout

import (
	"math"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cybre/neon-skyline/internal/utils"
)

var skylineItems = ItemConfig{Mode: Buildings, MinHeight: 1, MaxHeight: 51}

func TestDecorationsCountAndSides(t *testing.T) {
	tests := []struct {
		name  string
		track TrackConfig
		want  int
	}{
		{"skyline", TrackConfig{Width: 10, Length: 200, Spacing: 10, ItemWidth: 5, OffsetFromTrack: 20}, 26},
		{"lasers", TrackConfig{Width: 10, Length: 200, Spacing: 5, ItemWidth: 0.1, OffsetFromTrack: 20}, 78},
		{"single pair", TrackConfig{Width: 4, Length: 10, Spacing: 9, ItemWidth: 1}, 2},
		{"spacing exceeds length", TrackConfig{Width: 4, Length: 10, Spacing: 20, ItemWidth: 1}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			objects, err := Decorations(tt.track, skylineItems, utils.NewRand(1))
			require.NoError(t, err)
			require.Len(t, objects, tt.want)
			assert.Zero(t, len(objects)%2)

			left := 0
			for i, obj := range objects {
				assert.Equal(t, i, obj.Index)
				if obj.Side == -1 {
					left++
				}
			}
			assert.Equal(t, tt.want/2, left)
		})
	}
}

func TestDecorationsPlacement(t *testing.T) {
	track := TrackConfig{Width: 10, Length: 200, Spacing: 10, ItemWidth: 5, OffsetFromTrack: 20}
	objects, err := Decorations(track, skylineItems, utils.NewRand(3))
	require.NoError(t, err)

	perSide := 13
	for i, obj := range objects {
		wantX := 25.0
		if i%2 == 0 {
			wantX = -25
		}
		assert.Equal(t, wantX, obj.Base.X)
		assert.Equal(t, float64(i%perSide)*15-100, obj.Base.Z)
		assert.Zero(t, obj.Base.Y)
		assert.GreaterOrEqual(t, obj.Height, 1.0)
		assert.Less(t, obj.Height, 51.0)
		assert.InDelta(t, float64(i)/26, obj.Color.H, 1e-12)
		assert.Equal(t, 1.0, obj.Color.S)
		assert.Equal(t, 0.5, obj.Color.L)
		assert.True(t, obj.Visible)
		assert.Zero(t, obj.RotationX)
	}
}

func TestDecorationsDeterministicWithSeed(t *testing.T) {
	track := TrackConfig{Width: 10, Length: 200, Spacing: 10, ItemWidth: 5}
	a, err := Decorations(track, skylineItems, utils.NewRand(42))
	require.NoError(t, err)
	b, err := Decorations(track, skylineItems, utils.NewRand(42))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestLaserRotation(t *testing.T) {
	track := TrackConfig{Width: 10, Length: 200, Spacing: 5, ItemWidth: 0.1}
	objects, err := Decorations(track, ItemConfig{Mode: Lasers, MinHeight: 1, MaxHeight: 51}, utils.NewRand(9))
	require.NoError(t, err)
	for _, obj := range objects {
		assert.GreaterOrEqual(t, obj.RotationX, 0.0)
		assert.Less(t, obj.RotationX, 2*math.Pi)
	}
}

func TestDecorationsRejectsDegenerateTracks(t *testing.T) {
	tests := []struct {
		name  string
		track TrackConfig
		items ItemConfig
	}{
		{"zero width", TrackConfig{Length: 10, Spacing: 1, ItemWidth: 1}, skylineItems},
		{"negative length", TrackConfig{Width: 1, Length: -5, Spacing: 1, ItemWidth: 1}, skylineItems},
		{"zero pitch", TrackConfig{Width: 1, Length: 10}, skylineItems},
		{"nan spacing", TrackConfig{Width: 1, Length: 10, Spacing: math.NaN(), ItemWidth: 1}, skylineItems},
		{"too many", TrackConfig{Width: 1, Length: 1e9, Spacing: 1, ItemWidth: 1}, skylineItems},
		{"inverted heights", TrackConfig{Width: 1, Length: 10, Spacing: 1, ItemWidth: 1}, ItemConfig{MinHeight: 5, MaxHeight: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			objects, err := Decorations(tt.track, tt.items, utils.NewRand(1))
			assert.Nil(t, objects)
			assert.True(t, eris.Is(err, ErrConfiguration))
		})
	}
}

func TestTrackBounds(t *testing.T) {
	track := TrackConfig{Width: 10, Length: 200, CenterZ: 5}
	assert.Equal(t, -95.0, track.MinZ())
	assert.Equal(t, 105.0, track.MaxZ())
}

func TestStarfieldDistribution(t *testing.T) {
	stars := Starfield(StarConfig{}, utils.NewRand(5))
	require.Len(t, stars, 1000)

	for _, s := range stars {
		assert.GreaterOrEqual(t, s.X, -1000.0)
		assert.Less(t, s.X, 1000.0)
		assert.GreaterOrEqual(t, s.Z, -1000.0)
		assert.Less(t, s.Z, 1000.0)
		if math.Abs(s.Z) < 200 {
			assert.GreaterOrEqual(t, s.Y, 500.0)
		}
		assert.Less(t, s.Y, 1000.0)
		assert.GreaterOrEqual(t, s.Y, 0.0)
	}
}
