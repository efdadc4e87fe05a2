// Package console is the command input line with shell-style history recall.
package console

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/abelbrown/gameconsole/internal/history"
)

// Submitted is sent when the backend has answered a submitted command.
type Submitted struct {
	Command string
	Err     error
}

// SubmitFunc returns a Cmd that posts command and reports a Submitted.
type SubmitFunc func(command string) tea.Cmd

// KeyMap holds the console bindings.
type KeyMap struct {
	Submit key.Binding
	Prev   key.Binding
	Next   key.Binding
}

// DefaultKeyMap binds enter, up and down.
var DefaultKeyMap = KeyMap{
	Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "send")),
	Prev:   key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "previous")),
	Next:   key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "next")),
}

var (
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Model is the command form: one input plus its history.
type Model struct {
	input   textinput.Model
	history *history.History
	submit  SubmitFunc
	keys    KeyMap
	err     error
	pending int
	width   int
}

// New creates a focused console that sends commands through submit.
func New(submit SubmitFunc) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "command"
	ti.Focus()

	return Model{
		input:   ti,
		history: history.New(),
		submit:  submit,
		keys:    DefaultKeyMap,
	}
}

// Value returns the current input text.
func (m Model) Value() string { return m.input.Value() }

// History exposes the command history (for the shell and tests).
func (m Model) History() *history.History { return m.history }

// Err returns the last submit failure, if it has not been cleared.
func (m Model) Err() error { return m.err }

// Pending returns the number of submits awaiting a response.
func (m Model) Pending() int { return m.pending }

// Update handles submit, recall and editing.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Submit):
			return m.handleSubmit()

		case key.Matches(msg, m.keys.Prev):
			if v, ok := m.history.Prev(); ok {
				m.input.SetValue(v)
				m.input.CursorEnd()
			}
			return m, nil

		case key.Matches(msg, m.keys.Next):
			m.input.SetValue(m.history.Next())
			m.input.CursorEnd()
			return m, nil
		}

	case Submitted:
		m.pending = max(m.pending-1, 0)
		if msg.Err != nil {
			// The entry stays in history and the input is left as is.
			m.err = msg.Err
			return m, nil
		}
		m.err = nil
		// Keep whatever was typed or recalled while the request was out.
		if m.input.Value() == msg.Command {
			m.input.SetValue("")
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleSubmit records the command before the backend has answered, then
// posts it.
func (m Model) handleSubmit() (Model, tea.Cmd) {
	command := m.input.Value()
	m.history.Append(command)

	if m.submit == nil {
		return m, nil
	}
	m.pending++
	return m, m.submit(command)
}

// SetWidth sizes the input line.
func (m *Model) SetWidth(width int) {
	m.width = width
	m.input.Width = max(width-len(m.input.Prompt)-1, 0)
}

// View renders the input line and, below it, either the last error or the
// key hints.
func (m Model) View() string {
	status := hintStyle.Render("enter send · ↑/↓ history · tab scroll panel · ctrl+c quit")
	if m.err != nil {
		status = errorStyle.Render("Error: " + m.err.Error())
	}
	if m.width > 0 {
		status = lipgloss.NewStyle().MaxWidth(m.width).Render(status)
	}
	return m.input.View() + "\n" + status
}
