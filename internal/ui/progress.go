// Package ui renders run progress in the terminal.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"nbcheck/internal/driver"
)

type notebookRow struct {
	path  string
	label string
	stage driver.Stage
	final bool
}

// board tracks per-notebook state independently of rendering.
type board struct {
	rows     []notebookRow
	index    map[string]int
	runLabel string
}

func newBoard(files []string) *board {
	b := &board{rows: make([]notebookRow, len(files)), index: make(map[string]int, len(files))}
	for i, f := range files {
		b.rows[i] = notebookRow{path: f, label: "queued"}
		b.index[f] = i
	}
	return b
}

// apply records ev and reports whether the completion fraction moved.
func (b *board) apply(ev driver.Event) bool {
	label := statusLabel(ev.Stage, ev.Status)
	if ev.File == "" {
		if label != "" {
			b.runLabel = label
		}
		return false
	}
	i, ok := b.index[ev.File]
	if !ok || label == "" {
		return false
	}
	row := &b.rows[i]
	row.label = label
	row.stage = ev.Stage
	row.final = ev.Status == driver.StatusDone || ev.Status == driver.StatusSkipped || ev.Status == driver.StatusError
	return true
}

func (b *board) fraction() float64 {
	if len(b.rows) == 0 {
		return 1
	}
	total := 0.0
	for _, r := range b.rows {
		if r.final {
			total++
			continue
		}
		total += stageWeight(r.stage)
	}
	return total / float64(len(b.rows))
}

func stageWeight(stage driver.Stage) float64 {
	switch stage {
	case driver.StageRead:
		return 0.2
	case driver.StageTranspile:
		return 0.5
	case driver.StageWrite:
		return 0.8
	default:
		return 0
	}
}

func statusLabel(stage driver.Stage, status driver.Status) string {
	switch status {
	case driver.StatusQueued:
		return "queued"
	case driver.StatusDone:
		if stage == driver.StageCheck {
			return "checked"
		}
		return "done"
	case driver.StatusSkipped:
		return "skipped"
	case driver.StatusError:
		return "error"
	case driver.StatusWorking:
		switch stage {
		case driver.StageRead:
			return "reading"
		case driver.StageTranspile:
			return "transpiling"
		case driver.StageWrite:
			return "writing"
		case driver.StageCheck:
			return "checking"
		case driver.StageRemap:
			return "mapping"
		}
	}
	return ""
}

type eventMsg driver.Event
type doneMsg struct{}

type progressModel struct {
	title   string
	events  <-chan driver.Event
	spinner spinner.Model
	bar     progress.Model
	board   *board
	width   int
	done    bool
}

// NewProgressModel returns a Bubble Tea model showing one row per notebook.
// It quits when events is closed.
func NewProgressModel(title string, files []string, events <-chan driver.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 76

	return &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		bar:     bar,
		board:   newBoard(files),
		width:   80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		var cmd tea.Cmd
		if m.board.apply(driver.Event(msg)) {
			cmd = m.bar.SetPercent(m.board.fraction())
		}
		return m, tea.Batch(cmd, m.next())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.board.rows) == 0 {
		return ""
	}
	header := m.title
	if m.board.runLabel != "" {
		header = fmt.Sprintf("%s (%s)", header, m.board.runLabel)
	}
	if m.done {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(header))
	b.WriteString("\n\n")

	nameWidth := max(m.width-16, 20)
	for _, r := range m.board.rows {
		status := labelStyle(r.label).Render(fmt.Sprintf("%12s", r.label))
		fmt.Fprintf(&b, "  %s %s\n", status, truncate(r.path, nameWidth))
	}
	b.WriteString("\n")
	if m.done {
		b.WriteString(m.bar.ViewAs(1.0))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteString("\n")
	return b.String()
}

func (m *progressModel) next() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func labelStyle(label string) lipgloss.Style {
	switch label {
	case "done", "checked":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case "error":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case "queued", "skipped":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
