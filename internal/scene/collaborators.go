package scene

import (
	"context"

	"github.com/cybre/neon-skyline/internal/graph"
)

// AssetLoader fetches a model and returns its positioned root node. Every
// resource of the returned tree must be allocated from backend.
type AssetLoader interface {
	Load(ctx context.Context, backend graph.Backend, url string) (*graph.Node, error)
}

// AudioBuffer is a loaded, playable track.
type AudioBuffer interface {
	Name() string
}

// AudioLoader fetches and decodes a track.
type AudioLoader interface {
	Load(ctx context.Context, url string) (AudioBuffer, error)
}

// NamedBuffer is an AudioBuffer that is nothing but its name.
type NamedBuffer string

func (b NamedBuffer) Name() string {
	return string(b)
}

// SilentAudio "loads" every URL instantly. It backs scenes driven by a live
// analyser rather than a decoded file.
type SilentAudio struct{}

func (SilentAudio) Load(ctx context.Context, url string) (AudioBuffer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return NamedBuffer(url), nil
}
