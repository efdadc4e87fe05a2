// Package panel renders one polled text stream as a line-by-line list.
package panel

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// TextUpdated carries a freshly polled text for the named stream.
type TextUpdated struct {
	Stream string
	Text   string
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")).
			Padding(0, 1)

	bulletStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62"))

	focusedBorderStyle = borderStyle.BorderForeground(lipgloss.Color("212"))
)

// Model displays the latest text of a single stream.
// Its state is replaced wholesale by each TextUpdated for its stream and is
// never touched by failed polls, which produce no message at all.
type Model struct {
	stream   string
	text     string
	items    []string
	viewport viewport.Model
	width    int
	height   int
	focused  bool
}

// New creates a panel for the named stream.
func New(stream string) Model {
	return Model{
		stream:   stream,
		items:    Lines(""),
		viewport: viewport.New(0, 0),
	}
}

// Lines splits text into list items on "\n" or "\r\n". A lone "\r" is kept.
// Empty text yields a single empty item.
func Lines(text string) []string {
	parts := strings.Split(text, "\n")
	for i := 0; i < len(parts)-1; i++ {
		parts[i] = strings.TrimSuffix(parts[i], "\r")
	}
	return parts
}

// Stream returns the stream name this panel listens to.
func (m Model) Stream() string { return m.stream }

// Text returns the current PollState text.
func (m Model) Text() string { return m.text }

// Items returns the rendered list items, one per line.
func (m Model) Items() []string { return m.items }

// SetFocused marks the panel as the scroll target; only its border changes.
func (m *Model) SetFocused(focused bool) { m.focused = focused }

// Focused reports whether the panel is the scroll target.
func (m Model) Focused() bool { return m.focused }

// AtBottom reports whether the last item is in view.
func (m Model) AtBottom() bool { return m.viewport.AtBottom() }

// Update applies TextUpdated messages addressed to this stream and forwards
// scrolling input to the viewport.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TextUpdated:
		if msg.Stream != m.stream {
			return m, nil
		}
		m.text = msg.Text
		m.items = Lines(msg.Text)
		m.syncViewport()
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// SetSize sets the outer dimensions including border and title.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	// Border takes 2 columns and 2 rows, title one more row.
	m.viewport.Width = max(width-2, 0)
	m.viewport.Height = max(height-3, 0)
	m.syncViewport()
}

// syncViewport re-renders the list and follows the tail if the user was
// already at the bottom.
func (m *Model) syncViewport() {
	follow := m.viewport.AtBottom()
	m.viewport.SetContent(renderItems(m.items, m.viewport.Width))
	if follow {
		m.viewport.GotoBottom()
	}
}

func renderItems(items []string, width int) string {
	bullet := bulletStyle.Render("• ")
	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			b.WriteByte('\n')
		}
		line := bullet + item
		if width > 0 {
			line = lipgloss.NewStyle().MaxWidth(width).Render(line)
		}
		b.WriteString(line)
	}
	return b.String()
}

// View renders the titled, bordered list.
func (m Model) View() string {
	body := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(m.stream),
		m.viewport.View(),
	)
	style := borderStyle
	if m.focused {
		style = focusedBorderStyle
	}
	if m.width <= 0 {
		return style.Render(body)
	}
	return style.Width(max(m.width-2, 0)).Render(body)
}
