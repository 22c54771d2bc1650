package scene

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/cybre/neon-skyline/internal/graph"
)

// BuiltinCarURL names the procedural box car.
const BuiltinCarURL = "builtin:car"

// BuiltinLoader serves procedural models by URL.
type BuiltinLoader struct{}

// Load implements AssetLoader.
func (BuiltinLoader) Load(ctx context.Context, backend graph.Backend, url string) (*graph.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if url != BuiltinCarURL {
		return nil, eris.Errorf("unknown builtin asset %q", url)
	}

	geometry, err := backend.NewGeometry(graph.Box(1, 1, 2))
	if err != nil {
		return nil, err
	}
	material, err := backend.NewMaterial(graph.MaterialSpec{Kind: graph.MaterialPhong, Color: graph.Hex(0xff0000)})
	if err != nil {
		geometry.Dispose()
		return nil, err
	}

	root := graph.NewGroup(NodeVehicle)
	root.Add(graph.NewMesh("car-body", geometry, material))
	return root, nil
}
