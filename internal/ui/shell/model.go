// Package shell is the root Bubble Tea model: two text panels above the
// command console.
package shell

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/abelbrown/gameconsole/internal/ui/console"
	"github.com/abelbrown/gameconsole/internal/ui/panel"
)

// Stream names routed to the two panels.
const (
	StreamOut        = "out"
	StreamCommandOut = "command_out"
)

// consoleHeight is the input line plus its status line.
const consoleHeight = 2

// Model composes the panels and the console. Besides the terminal size it
// only tracks which panel receives page up/down; tab switches it.
type Model struct {
	out        panel.Model
	commandOut panel.Model
	console    console.Model
	scroll     string // stream name of the panel receiving pgup/pgdown
	width      int
	height     int
	ready      bool
}

// New creates the shell. submit posts a command to the backend.
func New(submit console.SubmitFunc) Model {
	m := Model{
		out:        panel.New(StreamOut),
		commandOut: panel.New(StreamCommandOut),
		console:    console.New(submit),
	}
	m.setScroll(StreamOut)
	return m
}

func (m *Model) setScroll(stream string) {
	m.scroll = stream
	m.out.SetFocused(stream == StreamOut)
	m.commandOut.SetFocused(stream == StreamCommandOut)
}

// Init starts the input cursor blinking.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update routes messages to the child that owns them.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab":
			if m.scroll == StreamOut {
				m.setScroll(StreamCommandOut)
			} else {
				m.setScroll(StreamOut)
			}
			return m, nil
		case "pgup", "pgdown":
			var cmd tea.Cmd
			if m.scroll == StreamCommandOut {
				m.commandOut, cmd = m.commandOut.Update(msg)
			} else {
				m.out, cmd = m.out.Update(msg)
			}
			return m, cmd
		}
		var cmd tea.Cmd
		m.console, cmd = m.console.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layout()
		return m, nil

	case panel.TextUpdated:
		switch msg.Stream {
		case StreamOut:
			m.out, _ = m.out.Update(msg)
		case StreamCommandOut:
			m.commandOut, _ = m.commandOut.Update(msg)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.console, cmd = m.console.Update(msg)
	return m, cmd
}

// layout splits the height between the panels; out gets the larger half.
func (m *Model) layout() {
	avail := max(m.height-consoleHeight, 0)
	commandOutHeight := avail / 3
	outHeight := avail - commandOutHeight

	m.out.SetSize(m.width, outHeight)
	m.commandOut.SetSize(m.width, commandOutHeight)
	m.console.SetWidth(m.width)
}

// View renders panels and console stacked vertically.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.out.View(),
		m.commandOut.View(),
		m.console.View(),
	)
}

// ScrollTarget returns the stream name of the panel that pages.
func (m Model) ScrollTarget() string { return m.scroll }

// Out returns the out panel (for testing).
func (m Model) Out() panel.Model { return m.out }

// CommandOut returns the command_out panel (for testing).
func (m Model) CommandOut() panel.Model { return m.commandOut }

// Console returns the console (for testing).
func (m Model) Console() console.Model { return m.console }
