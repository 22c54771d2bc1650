package ui

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/cybre/neon-skyline/internal/graph"
	"github.com/cybre/neon-skyline/internal/scene"
	"github.com/cybre/neon-skyline/internal/utils"
)

// Column is one decorative object as seen from the side.
type Column struct {
	Level   float64
	Color   string
	Visible bool
}

// SceneFrame is what the terminal draws of one rendered frame.
type SceneFrame struct {
	Title   string
	Columns []Column
	// Energy is the mean level of the visible columns.
	Energy float64
	Stars  int
	// StarGlow grows as the stars shift from white toward blue.
	StarGlow float64
	Vehicle  r3.Vec
	// Progress is how far along the road the vehicle is, 0 at the far end.
	Progress float64
	Camera   graph.Camera
	Portal   bool
	Frame    int
}

// minReferenceHeight keeps quiet frames from filling the column chart.
const minReferenceHeight = 60

// Snapshot reduces a scene graph to a SceneFrame in dst, reusing dst.Columns.
func Snapshot(root *graph.Node, cam graph.Camera, dst *SceneFrame) {
	*dst = SceneFrame{Columns: dst.Columns[:0], Camera: cam}
	if root == nil {
		return
	}
	dst.Title = root.Name

	tallest := float64(minReferenceHeight)
	if decor := root.Find(scene.NodeDecorations); decor != nil {
		for _, n := range decor.Children() {
			if !isLaser(n) {
				tallest = math.Max(tallest, n.Scale.Y)
			}
		}

		visible := 0
		for _, n := range decor.Children() {
			col := Column{Visible: n.Visible}
			if isLaser(n) {
				col.Level = utils.Clamp(math.Mod(n.Rotation.X, 2*math.Pi)/math.Pi, 0.0, 1.0)
			} else {
				col.Level = utils.Clamp(n.Scale.Y/tallest, 0.0, 1.0)
			}
			if m := n.Material(); m != nil {
				col.Color = m.Spec().Color.String()
			}
			if col.Visible {
				dst.Energy += col.Level
				visible++
			}
			dst.Columns = append(dst.Columns, col)
		}
		if visible > 0 {
			dst.Energy /= float64(visible)
		}
	}

	if stars := root.Find(scene.NodeStars); stars != nil {
		kids := stars.Children()
		dst.Stars = len(kids)
		var glow float64
		for _, n := range kids {
			if m := n.Material(); m != nil {
				glow += 1 - float64(m.Spec().Color.G)/255
			}
		}
		if len(kids) > 0 {
			dst.StarGlow = glow / float64(len(kids))
		}
	}

	if car := root.Find(scene.NodeVehicle); car != nil {
		dst.Vehicle = car.Position
		if road := root.Find(scene.NodeRoad); road != nil && road.Geometry != nil {
			length := road.Geometry.Shape().Height
			if length > 0 {
				maxZ := road.Position.Z + length/2
				dst.Progress = utils.Clamp((maxZ-car.Position.Z)/length, 0.0, 1.0)
			}
		}
	}

	if portal := root.Find(scene.NodePortal); portal != nil {
		dst.Portal = portal.Visible
	}
}

func isLaser(n *graph.Node) bool {
	return n.Scale.Z > 100*n.Scale.Y
}
