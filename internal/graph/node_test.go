package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddReparents(t *testing.T) {
	a := NewGroup("a")
	b := NewGroup("b")
	child := NewGroup("child")

	a.Add(child)
	b.Add(child)

	assert.Empty(t, a.Children())
	assert.Equal(t, []*Node{child}, b.Children())
	assert.Same(t, b, child.Parent())
}

func TestRemoveIf(t *testing.T) {
	root := NewGroup("root")
	light := NewLight("sun", LightSpec{Kind: LightPoint})
	cam := NewCamera("cam")
	mesh := NewMesh("box", nil)
	root.Add(light, mesh, cam)

	removed := root.RemoveIf(func(n *Node) bool {
		return n.Kind == KindLight || n.Kind == KindCamera
	})

	assert.Equal(t, []*Node{light, cam}, removed)
	assert.Equal(t, []*Node{mesh}, root.Children())
	assert.Nil(t, light.Parent())
	assert.Nil(t, cam.Parent())
}

func TestFind(t *testing.T) {
	root := NewGroup("root")
	inner := NewGroup("inner")
	leaf := NewMesh("leaf", nil)
	inner.Add(leaf)
	root.Add(inner)

	assert.Same(t, leaf, root.Find("leaf"))
	assert.Nil(t, root.Find("missing"))
}

func TestNewNodeDefaults(t *testing.T) {
	n := NewMesh("m", nil)
	assert.True(t, n.Visible)
	assert.Equal(t, 1.0, n.Scale.Y)
	assert.Nil(t, n.Material())
}
