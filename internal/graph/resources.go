// Package graph is the opaque scene vocabulary handed to a renderer: nodes,
// GPU-backed geometries and materials, lights and the camera.
package graph

// Disposable is a GPU-backed resource that must be released exactly once.
type Disposable interface {
	Dispose()
}

// Geometry is an allocated vertex buffer.
type Geometry interface {
	Disposable
	Shape() Shape
}

// Texture is an image bound to a material.
type Texture interface {
	Disposable
}

// Material is an allocated shading program instance. Color and emissive are
// mutable so per-frame mapping can recolor without reallocating.
type Material interface {
	Disposable
	Spec() MaterialSpec
	SetColor(c Color)
	SetEmissive(c Color)
	// Map returns the texture bound to the material, or nil.
	Map() Texture
}

// Backend allocates GPU resources.
type Backend interface {
	NewGeometry(shape Shape) (Geometry, error)
	NewMaterial(spec MaterialSpec) (Material, error)
}

// Renderer draws a scene graph from a camera, once per call.
type Renderer interface {
	Render(root *Node, cam Camera) error
	// DetachSurface removes the drawing surface from its host.
	DetachSurface()
	Dispose()
}

// ShapeKind enumerates the primitive geometries used by the scenes.
type ShapeKind int

const (
	ShapeBox ShapeKind = iota
	ShapePlane
	ShapeSphere
)

// String returns the shape name.
func (k ShapeKind) String() string {
	switch k {
	case ShapeBox:
		return "box"
	case ShapePlane:
		return "plane"
	case ShapeSphere:
		return "sphere"
	default:
		return "unknown"
	}
}

// Shape describes a geometry to allocate.
type Shape struct {
	Kind     ShapeKind
	Width    float64
	Height   float64
	Depth    float64
	Radius   float64
	Segments int
}

func Box(width, height, depth float64) Shape {
	return Shape{Kind: ShapeBox, Width: width, Height: height, Depth: depth}
}

func Plane(width, height float64) Shape {
	return Shape{Kind: ShapePlane, Width: width, Height: height}
}

func Sphere(radius float64, segments int) Shape {
	return Shape{Kind: ShapeSphere, Radius: radius, Segments: segments}
}

// MaterialKind selects the lighting model.
type MaterialKind int

const (
	MaterialBasic MaterialKind = iota
	MaterialPhong
	MaterialStandard
)

// MaterialSpec describes a material to allocate.
type MaterialSpec struct {
	Kind              MaterialKind
	Color             Color
	Emissive          Color
	EmissiveIntensity float64
	Transparent       bool
	Opacity           float64
}

// LightKind enumerates light types.
type LightKind int

const (
	LightAmbient LightKind = iota
	LightPoint
	LightSpot
)

// LightSpec describes a light node.
type LightSpec struct {
	Kind       LightKind
	Color      Color
	Intensity  float64
	Distance   float64
	CastShadow bool
}
