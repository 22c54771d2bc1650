package mapper

import (
	"math"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cybre/neon-skyline/internal/graph"
	"github.com/cybre/neon-skyline/internal/layout"
	"github.com/cybre/neon-skyline/internal/signal"
	"github.com/cybre/neon-skyline/internal/utils"
)

func newObjects(t *testing.T, count int) []layout.Object {
	t.Helper()
	track := layout.TrackConfig{Width: 10, Length: float64(count / 2 * 15), Spacing: 10, ItemWidth: 5}
	objects, err := layout.Decorations(track, layout.ItemConfig{MinHeight: 1, MaxHeight: 51}, utils.NewRand(1))
	require.NoError(t, err)
	require.Len(t, objects, count)
	return objects
}

func TestBinIndex(t *testing.T) {
	full := Range{MinFrequency: 0, MaxFrequency: 10000}
	assert.Equal(t, 0, full.BinIndex(0, 26, 64))
	assert.Equal(t, 32, full.BinIndex(13, 26, 64))
	assert.Equal(t, 61, full.BinIndex(25, 26, 64))

	// An offset range pushes late indices past the end; they clamp.
	offset := Range{MinFrequency: 5000, MaxFrequency: 6000}
	assert.Equal(t, 63, offset.BinIndex(25, 26, 64))
	assert.Equal(t, 0, offset.BinIndex(0, 0, 64))
}

func TestRangeValidate(t *testing.T) {
	assert.NoError(t, Range{MinFrequency: 100, MaxFrequency: 8000}.Validate())
	err := Range{MinFrequency: 10, MaxFrequency: 10}.Validate()
	assert.True(t, eris.Is(err, layout.ErrConfiguration))
}

func TestHeightModeSilence(t *testing.T) {
	m, err := New(Options{Mode: ModeHeight})
	require.NoError(t, err)
	objects := newObjects(t, 26)

	m.Apply(signal.UniformFrame(0), objects)

	for _, obj := range objects {
		assert.Equal(t, 1.0, obj.Height)
		assert.Zero(t, obj.Color.H)
		assert.True(t, obj.Visible)
	}
}

func TestHeightModeLoud(t *testing.T) {
	m, err := New(Options{Mode: ModeHeight, MaxHeight: 50})
	require.NoError(t, err)
	objects := newObjects(t, 26)

	frame := signal.UniformFrame(128)
	m.Apply(frame, objects)

	want := 0.5 * (128.0 / 10) * 50
	for _, obj := range objects {
		assert.InDelta(t, want, obj.Height, 1e-9)
		assert.InDelta(t, 0.5, obj.Color.H, 1e-12)
		assert.Equal(t, graph.HSL{H: 0.5, S: 1, L: 0.5}, obj.Color)
	}
}

func TestRotationModeSilenceHides(t *testing.T) {
	m, err := New(Options{Mode: ModeRotationVisibility})
	require.NoError(t, err)
	objects := newObjects(t, 26)
	for i := range objects {
		objects[i].RotationX = 1.25
	}

	m.Apply(signal.UniformFrame(0), objects)

	for _, obj := range objects {
		assert.False(t, obj.Visible)
		assert.Equal(t, 1.25, obj.RotationX)
	}
}

func TestRotationModeSmallestIntensityIsVisible(t *testing.T) {
	m, err := New(Options{Mode: ModeRotationVisibility})
	require.NoError(t, err)
	objects := newObjects(t, 26)

	m.Apply(signal.UniformFrame(1), objects)

	for _, obj := range objects {
		assert.True(t, obj.Visible)
		assert.InDelta(t, math.Pi/256, obj.RotationX, 1e-12)
	}
}

func TestRotationModePerBin(t *testing.T) {
	m, err := New(Options{Mode: ModeRotationVisibility})
	require.NoError(t, err)
	objects := newObjects(t, 2)

	var frame signal.Frame
	frame.Bins[32] = 255
	m.Apply(frame, objects)

	assert.False(t, objects[0].Visible)
	assert.True(t, objects[1].Visible)
	assert.InDelta(t, 255.0/256*math.Pi, objects[1].RotationX, 1e-12)
}

func TestApplyStars(t *testing.T) {
	colors := make([]graph.Color, 128)

	ApplyStars(signal.UniformFrame(0), colors)
	for _, c := range colors {
		assert.Equal(t, graph.White, c)
	}

	var frame signal.Frame
	frame.Bins[0] = 255
	ApplyStars(frame, colors)
	assert.Equal(t, graph.StarRamp(255.0/256), colors[0])
	assert.Equal(t, graph.StarRamp(255.0/256), colors[1])
	assert.Equal(t, graph.White, colors[2])
}

func TestApplyDoesNotAllocate(t *testing.T) {
	m, err := New(Options{Mode: ModeHeight})
	require.NoError(t, err)
	objects := newObjects(t, 26)
	colors := make([]graph.Color, 1000)
	frame := signal.UniformFrame(200)

	allocs := testing.AllocsPerRun(20, func() {
		m.Apply(frame, objects)
		ApplyStars(frame, colors)
	})
	assert.Zero(t, allocs)
}
