// ABOUTME: Bubbletea model for batch and playlist progress
// ABOUTME: Tracks per-item state and renders a progress bar with results
package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// State of one work item
type State int

const (
	Pending State = iota
	Running
	Succeeded
	Failed
	Skipped
)

type item struct {
	name   string
	state  State
	detail string
}

// Model represents the TUI state
type Model struct {
	title    string
	items    []item
	quitChan chan struct{}

	finished bool
	quitting bool
	width    int
}

// NewModel creates a model for the named work items
func NewModel(title string, names []string, quitChan chan struct{}) Model {
	items := make([]item, len(names))
	for i, name := range names {
		items[i] = item{name: name}
	}
	return Model{title: title, items: items, quitChan: quitChan}
}

// StartedMsg marks an item as running
type StartedMsg struct {
	Index int
}

// FinishedMsg records the outcome of an item. A non-empty Skip marks it
// skipped with that reason.
type FinishedMsg struct {
	Index int
	Err   error
	Skip  string
}

// doneMsg ends the program once all work is over
type doneMsg struct{}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			if m.quitChan != nil {
				select {
				case m.quitChan <- struct{}{}:
				default:
				}
			}
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case StartedMsg:
		if m.valid(msg.Index) {
			m.items[msg.Index].state = Running
		}
	case FinishedMsg:
		if m.valid(msg.Index) {
			it := &m.items[msg.Index]
			switch {
			case msg.Skip != "":
				it.state, it.detail = Skipped, msg.Skip
			case msg.Err != nil:
				it.state, it.detail = Failed, msg.Err.Error()
			default:
				it.state, it.detail = Succeeded, ""
			}
		}
	case doneMsg:
		m.finished = true
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) valid(i int) bool {
	return i >= 0 && i < len(m.items)
}

// Counts returns how many items ended in each terminal state
func (m Model) Counts() (succeeded, failed, skipped int) {
	for _, it := range m.items {
		switch it.state {
		case Succeeded:
			succeeded++
		case Failed:
			failed++
		case Skipped:
			skipped++
		}
	}
	return succeeded, failed, skipped
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	skipStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	detailStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	hintStyle   = lipgloss.NewStyle().Faint(true)
)

// View renders the TUI
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")

	succeeded, failed, skipped := m.Counts()
	done := succeeded + failed + skipped
	b.WriteString(fmt.Sprintf("[%s] %d/%d\n\n", renderBar(done, len(m.items), 30), done, len(m.items)))

	for _, it := range m.items {
		b.WriteString(renderItem(it))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case m.quitting:
		b.WriteString("Cancelling...\n")
	case m.finished:
		b.WriteString(fmt.Sprintf("Done: %d ok, %d failed, %d skipped\n", succeeded, failed, skipped))
	default:
		b.WriteString(hintStyle.Render("Press 'q' or Ctrl+C to cancel"))
		b.WriteString("\n")
	}

	return b.String()
}

func renderItem(it item) string {
	name := truncate(it.name, 50)
	switch it.state {
	case Running:
		return "  ▶ " + name
	case Succeeded:
		return okStyle.Render("  ✓ " + name)
	case Failed:
		return failStyle.Render("  ✗ "+name) + detailStyle.Render("  "+truncate(it.detail, 60))
	case Skipped:
		return skipStyle.Render("  ↷ "+name) + detailStyle.Render("  "+it.detail)
	default:
		return "    " + name
	}
}

// Utility functions
func renderBar(value, max, width int) string {
	if max <= 0 {
		return strings.Repeat("░", width)
	}
	filled := (value * width) / max
	bar := ""
	for i := 0; i < width; i++ {
		if i < filled {
			bar += "█"
		} else {
			bar += "░"
		}
	}
	return bar
}

func truncate(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length-3] + "..."
}
