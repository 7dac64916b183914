package graphview

import (
	"context"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/graphline/internal/dagmodel"
	"github.com/yourusername/graphline/internal/render"
	"github.com/yourusername/graphline/internal/theme"
	gvp "github.com/yourusername/graphline/internal/viewport"
)

func buildChainDag(t *testing.T, n int) *dagmodel.Dag {
	t.Helper()
	commits := make([]dagmodel.RawCommit, 0, n)
	for i := 0; i < n; i++ {
		var parents []string
		if i < n-1 {
			parents = []string{fmt.Sprintf("c%d", i+1)}
		}
		commits = append(commits, dagmodel.RawCommit{ID: fmt.Sprintf("c%d", i), Parents: parents})
	}
	d, err := dagmodel.Build(context.Background(), dagmodel.NewSliceSource(commits), 0, zerolog.Nop())
	require.NoError(t, err)
	return d
}

func newTestModel(t *testing.T, n, height int) Model {
	dag := buildChainDag(t, n)
	r := render.New(theme.CatppuccinMocha(), render.Unicode(), true)
	vp := gvp.New(dag, nil, r, "", 8, height, 64, zerolog.Nop())
	return New(vp, DefaultKeyMap(), 40, height)
}

func TestGraphview_DownKeyMovesCursorAndEmitsSelectionChanged(t *testing.T) {
	m := newTestModel(t, 50, 10)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	gm := updated.(Model)
	assert.Equal(t, 1, gm.vp.CursorIndex())
	require.NotNil(t, cmd)

	msg := cmd()
	sel, ok := msg.(SelectionChangedMsg)
	require.True(t, ok)
	assert.Equal(t, 1, sel.Index)
}

func TestGraphview_UnboundKeyIsNoOp(t *testing.T) {
	m := newTestModel(t, 50, 10)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("z")})
	gm := updated.(Model)
	assert.Equal(t, 0, gm.vp.CursorIndex())
	assert.Nil(t, cmd)
}

func TestGraphview_BottomKeyJumpsToLastCommit(t *testing.T) {
	m := newTestModel(t, 50, 10)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("G")})
	gm := updated.(Model)
	assert.Equal(t, 49, gm.vp.CursorIndex())
}

func TestGraphview_ViewRendersExactlyHeightLines(t *testing.T) {
	m := newTestModel(t, 50, 10)
	out := m.View()
	assert.NotEmpty(t, out)
	assert.Len(t, strings.Split(out, "\n"), 10)
}

func TestGraphview_ScrollPercentTracksTopIndex(t *testing.T) {
	m := newTestModel(t, 200, 20)
	atTop := m.ScrollPercent()

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("G")})
	gm := updated.(Model)
	atBottom := gm.ScrollPercent()

	assert.Less(t, atTop, atBottom)
}

func TestGraphview_WindowResizeReallocatesBuffer(t *testing.T) {
	m := newTestModel(t, 50, 10)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	gm := updated.(Model)
	assert.Equal(t, 80, gm.width)
	assert.Equal(t, 24, gm.height)
	assert.Equal(t, 80, gm.buf.Width())
	assert.Equal(t, 24, gm.buf.Height())
}
