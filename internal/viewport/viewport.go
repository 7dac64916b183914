// Package viewport implements the O(height) rendering window over a
// streaming commit DAG. It is the only place carry_in state is kept
// between renders — the DAG itself is read-only and the lane allocator
// is otherwise stateless per call.
package viewport

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/yourusername/graphline/internal/dagmodel"
	"github.com/yourusername/graphline/internal/lanes"
	"github.com/yourusername/graphline/internal/render"
	"github.com/yourusername/graphline/internal/rows"
)

// ErrOutOfBounds is returned when a seek targets an index outside
// [0, dag.Len()). Recoverable: the viewport does not move and the caller
// may retry with a valid index.
var ErrOutOfBounds = errors.New("viewport: index out of bounds")

// DefaultCheckpointInterval is a typical checkpoint spacing (K = 128).
const DefaultCheckpointInterval = 128

// Viewport drives on-screen rendering: top_index/cursor_index/height plus
// carry_in, the allocator state the lane allocator would hold just before
// processing topo[top_index].
type Viewport struct {
	dag       *dagmodel.Dag
	decorator rows.Decorator
	renderer  *render.Renderer
	numColors int

	checkpointInterval int
	height             int
	topIndex           int
	cursorIndex        int
	carryIn            lanes.State
	checkpoints        map[int]lanes.State

	logger zerolog.Logger
}

// New constructs a Viewport. privilegedTip, if non-empty, is pre-seeded
// into lane 0 exactly once, at construction — see internal/lanes and
// rows.EarliestPrivilegedTip for how callers compute it.
func New(dag *dagmodel.Dag, decorator rows.Decorator, renderer *render.Renderer, privilegedTip string, numColors, height, checkpointInterval int, logger zerolog.Logger) *Viewport {
	if height < 1 {
		height = 1
	}
	if checkpointInterval < 1 {
		checkpointInterval = DefaultCheckpointInterval
	}
	alloc := lanes.NewAllocator(privilegedTip, numColors)
	initial := alloc.Save()
	return &Viewport{
		dag:                dag,
		decorator:          decorator,
		renderer:           renderer,
		numColors:          numColors,
		checkpointInterval: checkpointInterval,
		height:             height,
		carryIn:            initial,
		checkpoints:        map[int]lanes.State{0: initial},
		logger:             logger,
	}
}

func (v *Viewport) TopIndex() int    { return v.topIndex }
func (v *Viewport) CursorIndex() int { return v.cursorIndex }
func (v *Viewport) Height() int      { return v.height }

// Total returns the number of commits in the underlying Dag, e.g. for a
// caller computing a scroll-position indicator.
func (v *Viewport) Total() int { return v.dag.Len() }

func clampInt(x, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func (v *Viewport) maxTop() int {
	if v.dag.Len() <= v.height {
		return 0
	}
	return v.dag.Len() - v.height
}

// setTop moves top_index to newTop, advancing carry_in forward by replay
// (O(delta)) when newTop > top_index, or rewinding from the nearest
// checkpoint and replaying forward (O(checkpoint + delta)) otherwise.
func (v *Viewport) setTop(newTop int) {
	newTop = clampInt(newTop, 0, v.maxTop())
	if newTop == v.topIndex {
		return
	}
	if newTop > v.topIndex {
		v.carryIn = v.replayForward(v.carryIn, v.topIndex, newTop)
	} else {
		v.carryIn = v.rebuildCarryIn(newTop)
	}
	v.topIndex = newTop
}

// replayForward steps the allocator loaded from `from` across
// [start, target), caching a checkpoint at every multiple of
// checkpointInterval it passes, and returns the resulting state.
func (v *Viewport) replayForward(from lanes.State, start, target int) lanes.State {
	alloc := lanes.NewAllocator("", v.numColors)
	alloc.Load(from)
	topo := v.dag.Topo()
	for i := start; i < target; i++ {
		node, ok := v.dag.Node(topo[i])
		if !ok {
			continue
		}
		alloc.Step(topo[i], node.Parents)
		if (i+1)%v.checkpointInterval == 0 {
			v.checkpoints[i+1] = alloc.Save()
		}
	}
	return alloc.Save()
}

// rebuildCarryIn restarts from the nearest checkpoint <= target and
// replays forward, keeping rewind at O(checkpoint_interval + delta).
func (v *Viewport) rebuildCarryIn(target int) lanes.State {
	best := 0
	for k := range v.checkpoints {
		if k <= target && k > best {
			best = k
		}
	}
	v.logger.Debug().Int("checkpoint", best).Int("target", target).Msg("viewport: rewind replay")
	return v.replayForward(v.checkpoints[best], best, target)
}

// MoveCursor shifts cursor_index by delta, scrolling the window by the
// minimum amount needed to keep it in view.
func (v *Viewport) MoveCursor(delta int) {
	target := clampInt(v.cursorIndex+delta, 0, v.dag.Len()-1)
	switch {
	case target < v.topIndex:
		v.setTop(target)
	case target >= v.topIndex+v.height:
		v.setTop(target - v.height + 1)
	}
	v.cursorIndex = target
}

// Scroll adjusts top_index by delta and clamps cursor_index back into the
// (possibly shifted) window.
func (v *Viewport) Scroll(delta int) {
	v.setTop(v.topIndex + delta)
	v.cursorIndex = clampInt(v.cursorIndex, v.topIndex, v.topIndex+v.height-1)
	v.cursorIndex = clampInt(v.cursorIndex, 0, v.dag.Len()-1)
}

// ScrollHalfPage scrolls by height/2 rows in the given direction (+1 down,
// -1 up).
func (v *Viewport) ScrollHalfPage(dir int) { v.Scroll(dir * (v.height / 2)) }

// ScrollPage scrolls by a full height in the given direction.
func (v *Viewport) ScrollPage(dir int) { v.Scroll(dir * v.height) }

// JumpTo moves cursor_index to index and makes index the top row of the
// window (clamped so the window stays full), so the window matches the
// one reached by scrolling down index rows from the top.
func (v *Viewport) JumpTo(index int) error {
	if index < 0 || index >= v.dag.Len() {
		return errors.Wrapf(ErrOutOfBounds, "index %d out of [0,%d)", index, v.dag.Len())
	}
	v.setTop(index)
	v.cursorIndex = index
	return nil
}

// JumpToTop moves to the first commit.
func (v *Viewport) JumpToTop() error { return v.JumpTo(0) }

// JumpToBottom moves to the last commit.
func (v *Viewport) JumpToBottom() error {
	if v.dag.Len() == 0 {
		return nil
	}
	return v.JumpTo(v.dag.Len() - 1)
}

// Recenter makes cursor_index the middle of the window.
func (v *Viewport) Recenter() {
	v.setTop(v.cursorIndex - v.height/2)
}

// Render replays the lane allocator and row builder from carry_in for
// exactly height commit rows, feeds each row to the renderer, and writes
// into buf. Cost is O(height x width): carry_in is never rebuilt from
// scratch here.
func (v *Viewport) Render(buf render.RenderBuffer) error {
	builder := rows.NewBuilder(v.dag, v.decorator, "", v.numColors)
	builder.LoadState(v.carryIn)

	width := buf.Width()
	termRow := 0
	for i := v.topIndex; i < v.topIndex+v.height && i < v.dag.Len(); i++ {
		row, ok := builder.BuildRow(i)
		if !ok {
			break
		}
		if termRow >= buf.Height() {
			break
		}
		res, err := v.renderer.RenderRow(buf, termRow, row, width)
		if err != nil {
			renderFallback(buf, termRow, row, width)
			termRow++
			continue
		}
		termRow += res.LinesUsed
	}
	return nil
}

// renderFallback guarantees forward progress: when a row can't be
// rendered (RenderCapacity), it is replaced by a single-line fallback
// containing the short id and a '?' glyph.
func renderFallback(buf render.RenderBuffer, termRow int, row rows.Row, width int) {
	text := row.CommitID
	if len(text) > 8 {
		text = text[:8]
	}
	text += " ?"
	style := lipgloss.NewStyle()
	for i, ru := range text {
		if i >= width {
			break
		}
		buf.SetCell(termRow, i, string(ru), style)
	}
}
