// Package headless provides a GPU-less graph backend and renderer that keep an
// exact ledger of allocations and releases.
package headless

import (
	"sync"

	"github.com/rotisserie/eris"

	"github.com/cybre/neon-skyline/internal/graph"
)

// Backend allocates in-memory resources and counts their lifecycle.
type Backend struct {
	mu sync.Mutex

	nextID          int
	live            map[int]struct{}
	created         int
	disposed        int
	doubleDisposals int

	// FailAfter makes allocation fail once this many resources exist. Zero disables.
	FailAfter int
	// TextureMaterials binds a texture to every material allocated.
	TextureMaterials bool
}

// NewBackend returns an empty Backend.
func NewBackend() *Backend {
	return &Backend{live: make(map[int]struct{})}
}

var ErrAllocation = eris.New("headless allocation refused")

func (b *Backend) allocate() (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.FailAfter > 0 && b.created >= b.FailAfter {
		return 0, ErrAllocation
	}
	b.nextID++
	b.created++
	b.live[b.nextID] = struct{}{}
	return b.nextID, nil
}

func (b *Backend) release(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.live[id]; !ok {
		b.doubleDisposals++
		return
	}
	delete(b.live, id)
	b.disposed++
}

// NewGeometry implements graph.Backend.
func (b *Backend) NewGeometry(shape graph.Shape) (graph.Geometry, error) {
	id, err := b.allocate()
	if err != nil {
		return nil, eris.Wrapf(err, "allocate %s geometry", shape.Kind)
	}
	return &Geometry{resource: resource{id: id, backend: b}, shape: shape}, nil
}

// NewMaterial implements graph.Backend.
func (b *Backend) NewMaterial(spec graph.MaterialSpec) (graph.Material, error) {
	id, err := b.allocate()
	if err != nil {
		return nil, eris.Wrap(err, "allocate material")
	}
	m := &Material{resource: resource{id: id, backend: b}, spec: spec}
	if b.TextureMaterials {
		texID, err := b.allocate()
		if err != nil {
			b.release(id)
			return nil, eris.Wrap(err, "allocate texture")
		}
		m.texture = &Texture{resource: resource{id: texID, backend: b}}
	}
	return m, nil
}

// Live returns the number of resources allocated and not yet released.
func (b *Backend) Live() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.live)
}

// Created returns the total number of allocations.
func (b *Backend) Created() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.created
}

// Disposed returns the number of successful releases.
func (b *Backend) Disposed() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.disposed
}

// DoubleDisposals returns how many releases targeted an already released resource.
func (b *Backend) DoubleDisposals() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.doubleDisposals
}

type resource struct {
	id      int
	backend *Backend
}

func (r *resource) Dispose() {
	r.backend.release(r.id)
}

// Geometry is a headless graph.Geometry.
type Geometry struct {
	resource
	shape graph.Shape
}

func (g *Geometry) Shape() graph.Shape {
	return g.shape
}

// Texture is a headless graph.Texture.
type Texture struct {
	resource
}

// Material is a headless graph.Material.
type Material struct {
	resource
	spec    graph.MaterialSpec
	texture *Texture
}

func (m *Material) Spec() graph.MaterialSpec {
	return m.spec
}

func (m *Material) SetColor(c graph.Color) {
	m.spec.Color = c
}

func (m *Material) SetEmissive(c graph.Color) {
	m.spec.Emissive = c
}

func (m *Material) Map() graph.Texture {
	if m.texture == nil {
		return nil
	}
	return m.texture
}
