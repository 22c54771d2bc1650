package headless

import (
	"github.com/rotisserie/eris"

	"github.com/cybre/neon-skyline/internal/graph"
)

var ErrRendererDisposed = eris.New("renderer disposed")

// Renderer counts draws and keeps the last camera and visible mesh count.
type Renderer struct {
	Frames        int
	LastCamera    graph.Camera
	VisibleMeshes int
	Attached      bool
	Disposed      bool
	// OnRender, when set, observes every drawn frame.
	OnRender func(root *graph.Node, cam graph.Camera)
}

// NewRenderer returns a renderer with its surface attached.
func NewRenderer() *Renderer {
	return &Renderer{Attached: true}
}

// Render implements graph.Renderer.
func (r *Renderer) Render(root *graph.Node, cam graph.Camera) error {
	if r.Disposed {
		return ErrRendererDisposed
	}
	if root == nil {
		return eris.New("render: nil scene")
	}

	visible := 0
	root.Walk(func(n *graph.Node) bool {
		if !n.Visible {
			return false
		}
		if n.Kind == graph.KindMesh {
			visible++
		}
		return true
	})

	r.Frames++
	r.LastCamera = cam
	r.VisibleMeshes = visible
	if r.OnRender != nil {
		r.OnRender(root, cam)
	}
	return nil
}

// DetachSurface implements graph.Renderer.
func (r *Renderer) DetachSurface() {
	r.Attached = false
}

// Dispose implements graph.Renderer.
func (r *Renderer) Dispose() {
	r.Disposed = true
}
