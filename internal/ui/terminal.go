package ui

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/crazy3lf/colorconv"
	"github.com/rotisserie/eris"

	"github.com/cybre/neon-skyline/internal/graph"
	"github.com/cybre/neon-skyline/internal/utils"
)

// Controls are the menu callbacks. They are invoked on the UI goroutine and
// must not block.
type Controls struct {
	OnPlay func(title string)
	OnBack func()
	OnNext func()
	OnExit func()
}

// Terminal is the full-screen song menu and scene view.
type Terminal struct {
	program   *tea.Program
	mu        sync.Mutex
	lastSend  time.Time
	throttle  time.Duration
	closeOnce sync.Once
}

type frameMsg struct {
	frame      SceneFrame
	receivedAt time.Time
}

type detachMsg struct{}

const (
	sceneRows     = 10
	maxColumns    = 96
	vizBarWidth   = 32
	renderLatency = 45 * time.Millisecond
)

var ErrRendererDisposed = eris.New("terminal renderer disposed")

var (
	vizContainerStyle   = lipgloss.NewStyle().Padding(0, 2)
	vizTimestampStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	vizMetricLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	vizMetricValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true)
	vizPortalStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("51")).Bold(true)
	vizWaitingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)
	vizHintStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("239"))
	vizGroundStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("237"))
)

// NewTerminal prepares the program; Run starts it.
func NewTerminal(songs []string, controls Controls) *Terminal {
	model := newTerminalModel(songs, controls)
	return &Terminal{
		program:  tea.NewProgram(model, tea.WithAltScreen(), tea.WithoutSignalHandler()),
		throttle: renderLatency,
	}
}

// Run blocks until the program exits.
func (t *Terminal) Run() error {
	if _, err := t.program.Run(); err != nil {
		return eris.Wrap(err, "run terminal ui")
	}
	return nil
}

// Close quits the program.
func (t *Terminal) Close() {
	t.closeOnce.Do(func() {
		t.program.Quit()
	})
}

// NewRenderer returns a graph.Renderer drawing into the terminal.
func (t *Terminal) NewRenderer() (graph.Renderer, error) {
	return &Renderer{term: t}, nil
}

func (t *Terminal) due() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if time.Since(t.lastSend) < t.throttle {
		return false
	}
	t.lastSend = time.Now()
	return true
}

// Renderer draws one scene into a Terminal.
type Renderer struct {
	term     *Terminal
	frames   int
	disposed bool
}

// Render implements graph.Renderer. Frames beyond the UI refresh rate are
// counted but not drawn.
func (r *Renderer) Render(root *graph.Node, cam graph.Camera) error {
	if r.disposed {
		return ErrRendererDisposed
	}
	r.frames++
	if !r.term.due() {
		return nil
	}

	var f SceneFrame
	Snapshot(root, cam, &f)
	f.Frame = r.frames
	r.term.program.Send(frameMsg{frame: f, receivedAt: time.Now()})
	return nil
}

// DetachSurface implements graph.Renderer and returns the view to the menu.
func (r *Renderer) DetachSurface() {
	r.term.program.Send(detachMsg{})
}

// Dispose implements graph.Renderer.
func (r *Renderer) Dispose() {
	r.disposed = true
}

type terminalModel struct {
	songs    []string
	cursor   int
	controls Controls

	live        bool
	frame       SceneFrame
	lastUpdated time.Time
	width       int
	height      int
	exitOnce    sync.Once
}

func newTerminalModel(songs []string, controls Controls) *terminalModel {
	return &terminalModel{songs: songs, controls: controls}
}

func (m *terminalModel) Init() tea.Cmd {
	return nil
}

func (m *terminalModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case frameMsg:
		m.frame = msg.frame
		m.lastUpdated = msg.receivedAt
		m.live = true
	case detachMsg:
		m.live = false
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.invokeExit()
			return m, tea.Quit
		}
		if m.live {
			return m, m.sceneKey(msg.String())
		}
		return m, m.menuKey(msg.String())
	case tea.QuitMsg:
		return m, tea.Quit
	}
	return m, nil
}

func (m *terminalModel) sceneKey(key string) tea.Cmd {
	switch key {
	case "q", "esc", "backspace", "b":
		call(m.controls.OnBack)
	case " ", "n", "tab":
		call(m.controls.OnNext)
	}
	return nil
}

func (m *terminalModel) menuKey(key string) tea.Cmd {
	switch key {
	case "q", "esc":
		m.invokeExit()
		return tea.Quit
	case "up", "k":
		m.cursor = wrapIndex(m.cursor-1, len(m.songs))
	case "down", "j":
		m.cursor = wrapIndex(m.cursor+1, len(m.songs))
	case "enter", " ":
		if len(m.songs) > 0 && m.controls.OnPlay != nil {
			m.controls.OnPlay(m.songs[m.cursor])
		}
	}
	return nil
}

func (m *terminalModel) View() string {
	if !m.live {
		return vizContainerStyle.Render(renderMenu(m.songs, m.cursor))
	}
	return vizContainerStyle.Render(renderSceneView(m.frame, m.lastUpdated))
}

func renderMenu(songs []string, cursor int) string {
	options := make([]Option, len(songs))
	for i, s := range songs {
		options[i] = Option{Label: s}
	}
	return lipgloss.JoinVertical(
		lipgloss.Left,
		"",
		titleStyle.Render("Neon Skyline"),
		subtitleStyle.Render("Pick a track"),
		"",
		renderOptionList(options, cursor),
		"",
		renderInstructions([]string{"↑/k ↓/j move", "enter play", "q quit"}),
	)
}

func renderSceneView(frame SceneFrame, updatedAt time.Time) string {
	if frame.Frame == 0 {
		return lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render(frame.Title),
			"",
			vizWaitingStyle.Render("Waiting for frames…"),
		)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		renderHeader(frame, updatedAt),
		renderMetrics(frame),
		"",
		renderColumns(frame.Columns, sceneRows),
		"",
		renderBar("Energy", frame.Energy, vizThemes["Energy"]),
		renderBar("Stars", frame.StarGlow, vizThemes["Stars"]),
		renderBar("Lap", frame.Progress, vizThemes["Lap"]),
		"",
		vizHintStyle.Render("q/esc back to menu · space next track · ctrl+c quit"),
	)
}

func renderHeader(frame SceneFrame, updatedAt time.Time) string {
	hue := math.Mod(float64(frame.Frame), 360)
	title := titleStyle.
		Foreground(lipgloss.Color(hexColorFromHSV(hue, 0.8, 1))).
		Render(frame.Title)
	timestamp := vizTimestampStyle.Render(updatedAt.Format("15:04:05.000"))

	parts := []string{title, "  ", timestamp}
	if frame.Portal {
		parts = append(parts, "  ", vizPortalStyle.Render("◎ portal open"))
	}
	return lipgloss.JoinHorizontal(lipgloss.Left, parts...)
}

func renderMetrics(frame SceneFrame) string {
	frames := renderMetric("Frame", fmt.Sprintf("%6d", frame.Frame))
	objects := renderMetric("Objects", fmt.Sprintf("%4d", len(frame.Columns)))
	stars := renderMetric("Stars", fmt.Sprintf("%4d", frame.Stars))

	car := renderMetric("Car", fmt.Sprintf("z=%7.1f", frame.Vehicle.Z))
	yaw := renderMetric("Yaw", fmt.Sprintf("%4.0f°", frame.Camera.Yaw*180/math.Pi))
	cam := renderMetric("Camera", fmt.Sprintf("(%.1f, %.1f, %.1f)",
		frame.Camera.Position.X, frame.Camera.Position.Y, frame.Camera.Position.Z))

	top := lipgloss.JoinHorizontal(lipgloss.Left, frames, "   ", objects, "   ", stars)
	bottom := lipgloss.JoinHorizontal(lipgloss.Left, car, "   ", yaw, "   ", cam)
	return lipgloss.JoinVertical(lipgloss.Left, top, bottom)
}

func renderMetric(label, value string) string {
	return lipgloss.JoinHorizontal(
		lipgloss.Left,
		vizMetricLabelStyle.Render(label+":"),
		" ",
		vizMetricValueStyle.Render(value),
	)
}

// renderColumns draws the decorations as a side-on skyline, sampling down to
// maxColumns when there are more objects than that.
func renderColumns(columns []Column, rows int) string {
	if len(columns) == 0 {
		return vizWaitingStyle.Render("No decorations")
	}

	width := min(len(columns), maxColumns)
	lines := make([]string, rows+1)
	for row := 0; row < rows; row++ {
		threshold := float64(rows-row) / float64(rows)
		var b strings.Builder
		for x := 0; x < width; x++ {
			col := columns[x*len(columns)/width]
			if !col.Visible || col.Level < threshold-0.5/float64(rows) {
				b.WriteString(" ")
				continue
			}
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(col.Color)).Render("█"))
		}
		lines[row] = b.String()
	}
	lines[rows] = vizGroundStyle.Render(strings.Repeat("▀", width))
	return strings.Join(lines, "\n")
}

func renderBar(label string, value float64, theme barTheme) string {
	theme = normalizeBarTheme(theme)

	clamped := utils.Clamp(value, 0.0, 1.0)
	filled := int(math.Round(clamped * vizBarWidth))
	if clamped > 0 && filled == 0 {
		filled = 1
	}
	filled = min(filled, vizBarWidth)

	builder := strings.Builder{}
	builder.Grow(128)
	builder.WriteString(theme.LabelStyle.Render(fmt.Sprintf("%-8s", label)))
	builder.WriteString(" [")

	steps := max(filled-1, 1)
	for i := 0; i < filled; i++ {
		progress := float64(i) / float64(steps)
		hue := theme.HueStart + (theme.HueEnd-theme.HueStart)*progress
		value := utils.Clamp(theme.ValueBase+theme.ValueSpan*progress, 0.0, 1.0)
		color := lipgloss.Color(hexColorFromHSV(hue, theme.Saturation, value))
		builder.WriteString(lipgloss.NewStyle().Foreground(color).Render(theme.FilledChar))
	}

	if empty := vizBarWidth - filled; empty > 0 {
		builder.WriteString(theme.EmptyStyle.Render(strings.Repeat(theme.EmptyChar, empty)))
	}

	builder.WriteString("] ")
	builder.WriteString(theme.ValueStyle.Render(fmt.Sprintf("%3.0f%%", clamped*100)))
	return builder.String()
}

type barTheme struct {
	LabelStyle lipgloss.Style
	ValueStyle lipgloss.Style
	EmptyStyle lipgloss.Style

	HueStart   float64
	HueEnd     float64
	Saturation float64
	ValueBase  float64
	ValueSpan  float64

	FilledChar string
	EmptyChar  string
}

var defaultBarTheme = barTheme{
	LabelStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
	ValueStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
	EmptyStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("236")),
	HueStart:   210,
	HueEnd:     210,
	Saturation: 0.8,
	ValueBase:  0.35,
	ValueSpan:  0.45,
	FilledChar: "█",
	EmptyChar:  "░",
}

var vizThemes = map[string]barTheme{
	"Energy": {
		LabelStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("45")).Bold(true),
		ValueStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("159")),
		EmptyStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		HueStart:   190,
		HueEnd:     300,
		Saturation: 0.85,
		ValueBase:  0.35,
		ValueSpan:  0.55,
	},
	"Stars": {
		LabelStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("123")).Bold(true),
		ValueStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("159")),
		EmptyStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("236")),
		HueStart:   210,
		HueEnd:     240,
		Saturation: 0.85,
		ValueBase:  0.35,
		ValueSpan:  0.5,
	},
	"Lap": {
		LabelStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true),
		ValueStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("215")),
		EmptyStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("237")),
		HueStart:   0,
		HueEnd:     45,
		Saturation: 0.92,
		ValueBase:  0.4,
		ValueSpan:  0.5,
	},
}

func normalizeBarTheme(theme barTheme) barTheme {
	if theme.FilledChar == "" {
		theme.FilledChar = defaultBarTheme.FilledChar
	}
	if theme.EmptyChar == "" {
		theme.EmptyChar = defaultBarTheme.EmptyChar
	}
	if theme.Saturation <= 0 {
		theme.Saturation = defaultBarTheme.Saturation
	}
	if theme.ValueSpan <= 0 {
		theme.ValueSpan = defaultBarTheme.ValueSpan
	}
	if theme.ValueBase <= 0 {
		theme.ValueBase = defaultBarTheme.ValueBase
	}
	return theme
}

func hexColorFromHSV(h, s, v float64) string {
	s = utils.Clamp(s, 0.0, 1.0)
	v = utils.Clamp(v, 0.0, 1.0)
	r, g, b, err := colorconv.HSVToRGB(h, s, v)
	if err != nil {
		return "#FFFFFF"
	}
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func call(fn func()) {
	if fn != nil {
		fn()
	}
}

func (m *terminalModel) invokeExit() {
	m.exitOnce.Do(func() {
		call(m.controls.OnExit)
	})
}
