package capture

import (
	"context"
	"testing"

	"github.com/gordonklaus/portaudio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cybre/neon-skyline/internal/signal"
)

func TestNewRejectsOutputOnlyDevice(t *testing.T) {
	_, err := New(Config{Device: &portaudio.DeviceInfo{Name: "speakers"}}, signal.NewTap(128, 1), nil)
	assert.Error(t, err)

	_, err = New(Config{}, signal.NewTap(128, 1), nil)
	assert.Error(t, err)
}

func TestLoadNamesTheTrack(t *testing.T) {
	s, err := New(Config{Device: &portaudio.DeviceInfo{Name: "monitor", MaxInputChannels: 2}}, signal.NewTap(128, 2), nil)
	require.NoError(t, err)

	buf, err := s.Load(context.Background(), "songs/up.mp3")
	require.NoError(t, err)
	assert.Equal(t, "songs/up.mp3", buf.Name())
	assert.Equal(t, "monitor", buf.(Buffer).Device)
	assert.False(t, s.IsPlaying())
	assert.NoError(t, s.Stop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Load(ctx, "songs/up.mp3")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScale(t *testing.T) {
	dst := make([]float32, 3)
	scale(dst, []float32{1, -0.5, 0.25}, 0.5)
	assert.Equal(t, []float32{0.5, -0.25, 0.125}, dst)
}
