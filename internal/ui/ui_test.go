package ui

import (
	"math"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/cybre/neon-skyline/internal/graph"
	"github.com/cybre/neon-skyline/internal/graph/headless"
	"github.com/cybre/neon-skyline/internal/scene"
)

func mesh(t *testing.T, b *headless.Backend, name string, shape graph.Shape, c graph.Color) *graph.Node {
	t.Helper()
	g, err := b.NewGeometry(shape)
	require.NoError(t, err)
	m, err := b.NewMaterial(graph.MaterialSpec{Kind: graph.MaterialBasic, Color: c})
	require.NoError(t, err)
	return graph.NewMesh(name, g, m)
}

func TestSnapshot(t *testing.T) {
	b := headless.NewBackend()
	root := graph.NewGroup("Up")

	decor := graph.NewGroup(scene.NodeDecorations)
	short := mesh(t, b, scene.NodeDecoration, graph.Box(1, 1, 1), graph.Hex(0xff0000))
	short.Scale = r3.Vec{X: 5, Y: 30, Z: 5}
	tall := mesh(t, b, scene.NodeDecoration, graph.Box(1, 1, 1), graph.Hex(0x00ff00))
	tall.Scale = r3.Vec{X: 5, Y: 120, Z: 5}
	tall.Visible = false
	laser := mesh(t, b, scene.NodeDecoration, graph.Box(1, 1, 1), graph.Hex(0x0000ff))
	laser.Scale = r3.Vec{X: 0.1, Y: 0.1, Z: 10000}
	laser.Rotation.X = math.Pi / 2
	decor.Add(short, tall, laser)

	stars := graph.NewGroup(scene.NodeStars)
	stars.Add(mesh(t, b, scene.NodeStar, graph.Sphere(1, 8), graph.White))

	road := mesh(t, b, scene.NodeRoad, graph.Plane(10, 200), graph.Hex(0x404040))
	car := graph.NewGroup(scene.NodeVehicle)
	car.Position = r3.Vec{Y: 1, Z: 50}
	portal := mesh(t, b, scene.NodePortal, graph.Box(12, 12, 0.5), graph.Hex(0x00ffff))

	root.Add(decor, stars, road, car, portal)

	cam := graph.Camera{Yaw: math.Pi}
	var f SceneFrame
	Snapshot(root, cam, &f)

	assert.Equal(t, "Up", f.Title)
	require.Len(t, f.Columns, 3)
	assert.InDelta(t, 0.25, f.Columns[0].Level, 1e-9)
	assert.Equal(t, "#ff0000", f.Columns[0].Color)
	assert.False(t, f.Columns[1].Visible)
	assert.InDelta(t, 1.0, f.Columns[1].Level, 1e-9)
	assert.InDelta(t, 0.5, f.Columns[2].Level, 1e-9)
	assert.InDelta(t, (0.25+0.5)/2, f.Energy, 1e-9)

	assert.Equal(t, 1, f.Stars)
	assert.Zero(t, f.StarGlow)
	assert.InDelta(t, 0.25, f.Progress, 1e-9)
	assert.True(t, f.Portal)
	assert.Equal(t, cam, f.Camera)

	cols := f.Columns
	Snapshot(root, cam, &f)
	assert.Same(t, &cols[0], &f.Columns[0])
}

func TestSnapshotEmptyRoot(t *testing.T) {
	var f SceneFrame
	Snapshot(nil, graph.Camera{}, &f)
	assert.Empty(t, f.Columns)
	assert.Empty(t, f.Title)
}

func TestTerminalModelKeys(t *testing.T) {
	var played []string
	var backs, nexts, exits int
	m := newTerminalModel([]string{"Up", "Dirty"}, Controls{
		OnPlay: func(title string) { played = append(played, title) },
		OnBack: func() { backs++ },
		OnNext: func() { nexts++ },
		OnExit: func() { exits++ },
	})

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, []string{"Dirty"}, played)

	m.Update(frameMsg{frame: SceneFrame{Title: "Dirty", Frame: 1}, receivedAt: time.Now()})
	assert.True(t, m.live)
	assert.Contains(t, m.View(), "Dirty")

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	assert.Equal(t, 1, nexts)
	assert.Equal(t, 1, backs)
	assert.Zero(t, exits)

	m.Update(detachMsg{})
	assert.False(t, m.live)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.NotNil(t, cmd)
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.Equal(t, 1, exits)
}

func TestSetupModelWalksSteps(t *testing.T) {
	steps := []Step{
		{Label: "Song", Title: "Select a song", Options: []Option{{Label: "Up"}, {Label: "Dirty"}}},
		{Label: "Device", Title: "Select an audio input device"},
		{Label: "Renderer", Title: "Select a renderer", Options: []Option{{Label: "terminal"}, {Label: "headless"}}, Initial: 1},
	}
	var model tea.Model = newSetupModel(steps)

	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyDown})
	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m := model.(setupModel)
	assert.Equal(t, 2, m.step)
	assert.Equal(t, 1, m.cursor)

	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, model.(setupModel).onSummary())
	assert.Contains(t, model.View(), "Dirty")

	model, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.NotNil(t, cmd)
	assert.Equal(t, []int{1, 0, 1}, model.(setupModel).picked)
}

func TestSetupModelAbort(t *testing.T) {
	var model tea.Model = newSetupModel([]Step{{Options: []Option{{Label: "Up"}}}})
	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.ErrorIs(t, model.(setupModel).err, ErrSelectionAborted)
}

func TestRenderColumns(t *testing.T) {
	out := renderColumns([]Column{{Level: 1, Color: "#ff0000", Visible: true}, {Level: 0, Visible: true}}, 4)
	assert.Contains(t, out, "█")
	assert.Contains(t, out, "▀")
	assert.Contains(t, renderColumns(nil, 4), "No decorations")
}
