package ui

import (
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rotisserie/eris"
	"golang.org/x/term"

	"github.com/cybre/neon-skyline/internal/utils"
)

var (
	ErrSelectionAborted = eris.New("selection aborted")
	ErrNoInteractiveTTY = eris.New("no interactive terminal available")
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("213")).
			Bold(true)
	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("246"))
	pointerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("213"))
	inactivePointerStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240"))
	itemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))
	selectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("219")).
				Bold(true)
	instructionKeyStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("213")).
				Bold(true)
	instructionTextStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245"))
	instructionDividerStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240"))
	summaryLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("246"))
	summaryValueStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252")).
				Bold(true)
	emptyStateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

type Option struct {
	Label string
}

// Step is one page of the setup wizard.
type Step struct {
	// Label names the choice on the summary page, e.g. "Song".
	Label   string
	Title   string
	Options []Option
	Initial int
}

// RunSetup walks the user through steps and returns the chosen index of each.
// Steps without options are skipped and keep their initial index.
func RunSetup(steps []Step) ([]int, error) {
	picked := make([]int, len(steps))
	pending := 0
	for i, s := range steps {
		picked[i] = utils.ClampIndex(s.Initial, len(s.Options))
		if len(s.Options) > 0 {
			pending++
		}
	}
	if pending == 0 {
		return picked, nil
	}

	if !isInteractiveTerminal() {
		return picked, ErrNoInteractiveTTY
	}

	program := tea.NewProgram(newSetupModel(steps))
	finalModel, err := program.Run()
	if err != nil {
		return nil, err
	}

	result := finalModel.(setupModel)
	if result.err != nil {
		return nil, result.err
	}
	return result.picked, nil
}

type setupModel struct {
	steps []Step
	// step indexes steps; len(steps) is the summary page.
	step   int
	cursor int
	picked []int
	done   bool
	err    error
}

func newSetupModel(steps []Step) setupModel {
	m := setupModel{steps: steps, picked: make([]int, len(steps))}
	for i, s := range steps {
		m.picked[i] = utils.ClampIndex(s.Initial, len(s.Options))
	}
	m.step = m.nextStep(-1)
	m.enter()
	return m
}

// nextStep returns the first selectable step after from, or the summary.
func (m setupModel) nextStep(from int) int {
	for i := from + 1; i < len(m.steps); i++ {
		if len(m.steps[i].Options) > 0 {
			return i
		}
	}
	return len(m.steps)
}

// prevStep returns the last selectable step before from, or -1.
func (m setupModel) prevStep(from int) int {
	for i := from - 1; i >= 0; i-- {
		if len(m.steps[i].Options) > 0 {
			return i
		}
	}
	return -1
}

func (m *setupModel) enter() {
	m.cursor = 0
	if m.step < len(m.steps) {
		m.cursor = m.picked[m.step]
	}
}

func (m setupModel) onSummary() bool {
	return m.step >= len(m.steps)
}

func (m setupModel) Init() tea.Cmd {
	return nil
}

func (m setupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.done {
		return m, tea.Quit
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "esc", "q":
		m.err = ErrSelectionAborted
		return m, tea.Quit
	case "up", "k":
		if items := m.currentItems(); len(items) > 0 {
			m.cursor = wrapIndex(m.cursor-1, len(items))
		}
	case "down", "j":
		if items := m.currentItems(); len(items) > 0 {
			m.cursor = wrapIndex(m.cursor+1, len(items))
		}
	case "tab", "right", "l", "enter":
		if m.onSummary() {
			if key.String() == "enter" {
				m.done = true
				return m, tea.Quit
			}
			break
		}
		m.picked[m.step] = m.cursor
		m.step = m.nextStep(m.step)
		m.enter()
	case "shift+tab", "left", "h", "backspace", "b":
		if !m.onSummary() {
			m.picked[m.step] = m.cursor
		}
		if prev := m.prevStep(m.step); prev >= 0 {
			m.step = prev
			m.enter()
		}
	}

	return m, nil
}

func (m setupModel) View() string {
	if m.done {
		return ""
	}
	if m.onSummary() {
		return renderSummaryView(m)
	}
	return renderStepView(m)
}

func (m setupModel) currentItems() []Option {
	if m.onSummary() {
		return nil
	}
	return m.steps[m.step].Options
}

func renderStepView(m setupModel) string {
	step := m.steps[m.step]
	instructions := []string{"↑/k ↓/j move", "enter confirm"}
	if m.prevStep(m.step) >= 0 {
		instructions = append(instructions, "shift+tab/left back")
	}
	instructions = append(instructions, "esc cancel")

	lines := []string{"", titleStyle.Render(step.Title)}
	for i := 0; i < m.step; i++ {
		if len(m.steps[i].Options) > 0 {
			lines = append(lines, renderSummaryRow(m.steps[i].Label, m.selectedLabel(i)))
		}
	}
	lines = append(lines,
		"",
		renderOptionList(step.Options, m.cursor),
		"",
		renderInstructions(instructions),
		"",
	)
	return strings.Join(lines, "\n")
}

func renderSummaryView(m setupModel) string {
	lines := []string{"", titleStyle.Render("Ready to start"), ""}
	for i, s := range m.steps {
		lines = append(lines, renderSummaryRow(s.Label, m.selectedLabel(i)))
	}
	lines = append(lines,
		"",
		renderInstructions([]string{"enter start", "←/h/b/backspace edit", "esc cancel"}),
		"",
	)
	return strings.Join(lines, "\n")
}

func (m setupModel) selectedLabel(step int) string {
	options := m.steps[step].Options
	if idx := m.picked[step]; idx >= 0 && idx < len(options) {
		return options[idx].Label
	}
	return "not selected"
}

func renderPointer(active bool) string {
	if active {
		return pointerStyle.Render("›")
	}
	return inactivePointerStyle.Render(" ")
}

func renderOptionLabel(text string, active bool) string {
	if active {
		return selectedItemStyle.Render(text)
	}
	return itemStyle.Render(text)
}

func renderOptionList(items []Option, cursor int) string {
	if len(items) == 0 {
		return emptyStateStyle.Render("No options detected")
	}

	rows := make([]string, len(items))
	for i, item := range items {
		rows[i] = lipgloss.JoinHorizontal(lipgloss.Left,
			renderPointer(cursor == i),
			" ",
			renderOptionLabel(item.Label, cursor == i),
		)
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderInstructions(parts []string) string {
	var segments []string
	for i, part := range parts {
		if i > 0 {
			segments = append(segments, instructionDividerStyle.Render(" · "))
		}
		segments = append(segments, renderInstruction(part))
	}
	return lipgloss.JoinHorizontal(lipgloss.Left, segments...)
}

func renderInstruction(part string) string {
	tokens := strings.Fields(part)
	if len(tokens) == 0 {
		return ""
	}
	if len(tokens) == 1 {
		return instructionTextStyle.Render(tokens[0])
	}

	var segments []string
	keyTokens := tokens[:len(tokens)-1]
	for i, token := range keyTokens {
		if i > 0 {
			segments = append(segments, instructionTextStyle.Render(" "))
		}
		segments = append(segments, instructionKeyStyle.Render(token))
	}
	segments = append(segments, instructionTextStyle.Render(" "))
	segments = append(segments, instructionTextStyle.Render(tokens[len(tokens)-1]))
	return lipgloss.JoinHorizontal(lipgloss.Left, segments...)
}

func renderSummaryRow(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Left,
		summaryLabelStyle.Render(label+": "),
		summaryValueStyle.Render(value),
	)
}

func wrapIndex(idx, length int) int {
	if length <= 0 {
		return 0
	}
	idx = idx % length
	if idx < 0 {
		idx += length
	}
	return idx
}

func isInteractiveTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}
