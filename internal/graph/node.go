package graph

import "gonum.org/v1/gonum/spatial/r3"

// NodeKind classifies scene-graph nodes.
type NodeKind int

const (
	KindGroup NodeKind = iota
	KindMesh
	KindLight
	KindCamera
)

// String returns the kind name.
func (k NodeKind) String() string {
	switch k {
	case KindGroup:
		return "group"
	case KindMesh:
		return "mesh"
	case KindLight:
		return "light"
	case KindCamera:
		return "camera"
	default:
		return "unknown"
	}
}

// Node is a transform in the scene graph. Meshes carry a geometry and one or
// more materials; lights carry a LightSpec.
type Node struct {
	Name     string
	Kind     NodeKind
	Position r3.Vec
	// Rotation holds Euler angles in radians (XYZ order).
	Rotation r3.Vec
	Scale    r3.Vec
	Visible  bool

	Geometry  Geometry
	Materials []Material
	Light     LightSpec

	parent   *Node
	children []*Node
}

func newNode(name string, kind NodeKind) *Node {
	return &Node{
		Name:    name,
		Kind:    kind,
		Scale:   r3.Vec{X: 1, Y: 1, Z: 1},
		Visible: true,
	}
}

// NewGroup returns an empty transform node.
func NewGroup(name string) *Node {
	return newNode(name, KindGroup)
}

// NewMesh returns a mesh node drawing geometry with materials.
func NewMesh(name string, geometry Geometry, materials ...Material) *Node {
	n := newNode(name, KindMesh)
	n.Geometry = geometry
	n.Materials = materials
	return n
}

// NewLight returns a light node.
func NewLight(name string, spec LightSpec) *Node {
	n := newNode(name, KindLight)
	n.Light = spec
	return n
}

// NewCamera returns a camera node. Its transform mirrors the rig output.
func NewCamera(name string) *Node {
	return newNode(name, KindCamera)
}

// Material returns the first material of a mesh, or nil.
func (n *Node) Material() Material {
	if len(n.Materials) == 0 {
		return nil
	}
	return n.Materials[0]
}

// Parent returns the node this one is attached to.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns the attached children. The slice must not be modified.
func (n *Node) Children() []*Node {
	return n.children
}

// Add attaches children, detaching them from any previous parent.
func (n *Node) Add(children ...*Node) {
	for _, child := range children {
		if child == nil || child == n {
			continue
		}
		child.Detach()
		child.parent = n
		n.children = append(n.children, child)
	}
}

// Remove detaches child from n. It reports whether child was attached.
func (n *Node) Remove(child *Node) bool {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return true
		}
	}
	return false
}

// RemoveIf detaches every direct child matching pred and returns them.
func (n *Node) RemoveIf(pred func(*Node) bool) []*Node {
	var removed []*Node
	kept := n.children[:0]
	for _, c := range n.children {
		if pred(c) {
			c.parent = nil
			removed = append(removed, c)
			continue
		}
		kept = append(kept, c)
	}
	clear(n.children[len(kept):])
	n.children = kept
	return removed
}

// Detach removes n from its parent, if any.
func (n *Node) Detach() {
	if n.parent != nil {
		n.parent.Remove(n)
	}
}

// Walk visits n and its descendants depth-first. Returning false from fn
// skips the node's subtree.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		c.Walk(fn)
	}
}

// Find returns the first descendant (or n itself) with the given name.
func (n *Node) Find(name string) *Node {
	var found *Node
	n.Walk(func(c *Node) bool {
		if found != nil {
			return false
		}
		if c.Name == name {
			found = c
			return false
		}
		return true
	})
	return found
}

// Camera is the per-frame view handed to the renderer.
type Camera struct {
	Position r3.Vec
	Target   r3.Vec
	// Yaw overrides the look-at orientation when YawLocked is set.
	Yaw       float64
	YawLocked bool
	FOV       float64
	Near      float64
	Far       float64
}
