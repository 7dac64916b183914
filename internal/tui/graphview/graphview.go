// Package graphview is a thin bubbletea model wrapping internal/viewport:
// it translates key presses into cursor moves, page and half-page
// scrolls, and jumps to the top or bottom (Recenter has no key binding),
// and renders through internal/render, nothing more. Modals, diffs, and
// commit actions stay out of this package.
package graphview

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/yourusername/graphline/internal/render"
	gvp "github.com/yourusername/graphline/internal/viewport"
)

// KeyMap names the keys bound to each viewport operation: navigation
// only, no Commit/Push/Pull/Fetch/Branch or other repository actions.
type KeyMap struct {
	Up       []string
	Down     []string
	Top      []string
	Bottom   []string
	PageUp   []string
	PageDown []string
	HalfUp   []string
	HalfDown []string
}

// DefaultKeyMap returns the default navigation key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:       []string{"k", "up"},
		Down:     []string{"j", "down"},
		Top:      []string{"g", "home"},
		Bottom:   []string{"G", "end"},
		PageUp:   []string{"ctrl+b"},
		PageDown: []string{"ctrl+f"},
		HalfUp:   []string{"ctrl+u"},
		HalfDown: []string{"ctrl+d"},
	}
}

func matchesKey(msg tea.KeyMsg, keys []string) bool {
	for _, k := range keys {
		if msg.String() == k {
			return true
		}
	}
	return false
}

// SelectionChangedMsg is emitted whenever the cursor lands on a
// different commit.
type SelectionChangedMsg struct {
	Index int
}

// Model is the thin tea.Model. It owns no commit data of its own — that
// lives in the dagmodel.Dag the underlying viewport.Viewport was built
// against.
type Model struct {
	vp         *gvp.Viewport
	buf        *render.Buffer
	keys       KeyMap
	width      int
	height     int
	lastCursor int
	// indicator backs the ScrollPercent position indicator, computed with
	// bubbles/viewport's own percentage helper rather than hand-rolled
	// arithmetic.
	indicator viewport.Model
}

// New wraps vp for bubbletea. width/height are the initial terminal size;
// a tea.WindowSizeMsg updates them later.
func New(vp *gvp.Viewport, keys KeyMap, width, height int) Model {
	ind := viewport.New(width, height)
	ind.SetContent("")
	return Model{
		vp:         vp,
		buf:        render.NewBuffer(width, height),
		keys:       keys,
		width:      width,
		height:     height,
		lastCursor: vp.CursorIndex(),
		indicator:  ind,
	}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.buf = render.NewBuffer(m.width, m.height)
		m.indicator.Width, m.indicator.Height = msg.Width, msg.Height
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case matchesKey(msg, m.keys.Down):
		m.vp.MoveCursor(1)
	case matchesKey(msg, m.keys.Up):
		m.vp.MoveCursor(-1)
	case matchesKey(msg, m.keys.Top):
		_ = m.vp.JumpToTop()
	case matchesKey(msg, m.keys.Bottom):
		_ = m.vp.JumpToBottom()
	case matchesKey(msg, m.keys.PageDown):
		m.vp.ScrollPage(1)
	case matchesKey(msg, m.keys.PageUp):
		m.vp.ScrollPage(-1)
	case matchesKey(msg, m.keys.HalfDown):
		m.vp.ScrollHalfPage(1)
	case matchesKey(msg, m.keys.HalfUp):
		m.vp.ScrollHalfPage(-1)
	default:
		return m, nil
	}
	return m.emitSelectionChanged()
}

func (m Model) emitSelectionChanged() (Model, tea.Cmd) {
	if m.vp.CursorIndex() == m.lastCursor {
		return m, nil
	}
	m.lastCursor = m.vp.CursorIndex()
	idx := m.lastCursor
	return m, func() tea.Msg {
		return SelectionChangedMsg{Index: idx}
	}
}

// ScrollPercent reports how far through the history the viewport sits,
// via bubbles/viewport's own percentage computation rather than
// hand-rolled arithmetic over top_index/total.
func (m Model) ScrollPercent() float64 {
	total := m.vp.Total()
	if total == 0 {
		return 0
	}
	m.indicator.SetContent(strings.Repeat("\n", total))
	m.indicator.YOffset = m.vp.TopIndex()
	return m.indicator.ScrollPercent()
}

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if err := m.vp.Render(m.buf); err != nil {
		return ""
	}

	lines := make([]string, m.height)
	for i := 0; i < m.height; i++ {
		lines[i] = m.buf.StyledRow(i)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
