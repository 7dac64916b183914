// Package rows implements the row builder: it wraps the lane
// allocator to produce Row objects carrying each commit's lane layout,
// the ActiveEdge set crossing into the next row, and any ref decoration.
package rows

import (
	"github.com/yourusername/graphline/internal/dagmodel"
	"github.com/yourusername/graphline/internal/lanes"
)

// Decoration annotates a commit with non-structural ref information.
type Decoration struct {
	IsHead     bool
	Branches   []string
	Tags       []string
	ColorIndex int
}

// Decorator resolves a commit id to its Decoration, if any.
type Decorator interface {
	Decorate(id string) (Decoration, bool)
}

// MapDecorator is the simplest Decorator: a pre-built lookup table.
type MapDecorator map[string]Decoration

func (m MapDecorator) Decorate(id string) (Decoration, bool) {
	d, ok := m[id]
	return d, ok
}

// ActiveEdge describes an edge crossing from one row into the next.
type ActiveEdge struct {
	FromLane int
	ToLane   int
	ParentID string
}

// Row is a single commit's lane layout plus its decoration and the edges
// that exit the bottom of the row into the next one.
type Row struct {
	CommitID    string
	TopoIndex   int
	PrimaryLane int
	Slots       []lanes.Slot
	LaneColor   []int
	Terminated  []int
	Transitions []ActiveEdge
	Decoration  Decoration
	HasDecor    bool
	// IsMerge reports whether the commit was recorded with two or more
	// present parents, selecting the "Commit (merge)" glyph variant.
	IsMerge bool
	// ParentCount is the number of present parents (0 for a root).
	ParentCount int
}

// Builder wraps an Allocator and a Dag to produce Rows in topo order.
type Builder struct {
	dag       *dagmodel.Dag
	decorator Decorator
	alloc     *lanes.Allocator
}

// NewBuilder constructs a row builder. privilegedTip, if non-empty, is the
// single commit id that should be forced onto lane 0 — the tip of
// whichever configured privileged branch appears first (lowest topo
// index) in dag, as computed by EarliestPrivilegedTip. This is a pre-scan
// decision, never a retroactive reassignment.
func NewBuilder(dag *dagmodel.Dag, decorator Decorator, privilegedTip string, numColors int) *Builder {
	return &Builder{
		dag:       dag,
		decorator: decorator,
		alloc:     lanes.NewAllocator(privilegedTip, numColors),
	}
}

// Allocator exposes the underlying allocator, e.g. for checkpoint capture
// by the viewport.
func (b *Builder) Allocator() *lanes.Allocator { return b.alloc }

// LoadState overwrites the builder's allocator state, e.g. to resume from
// a viewport checkpoint rather than the empty initial state NewBuilder
// constructs. The builder is otherwise unaware of carry_in bookkeeping;
// that belongs entirely to internal/viewport.
func (b *Builder) LoadState(s lanes.State) { b.alloc.Load(s) }

// BuildRow processes the commit at topo index i and returns its Row. The
// caller must call BuildRow in increasing topo-index order (the
// allocator is stateful); the viewport is responsible for replaying from
// a checkpoint when a caller needs a non-sequential index.
func (b *Builder) BuildRow(i int) (Row, bool) {
	topo := b.dag.Topo()
	if i < 0 || i >= len(topo) {
		return Row{}, false
	}
	id := topo[i]
	node, ok := b.dag.Node(id)
	if !ok {
		return Row{}, false
	}

	lr := b.alloc.Step(id, node.Parents)

	transitions := make([]ActiveEdge, 0, len(lr.ParentLane))
	for parentID, lane := range lr.ParentLane {
		transitions = append(transitions, ActiveEdge{
			FromLane: lr.PrimaryLane,
			ToLane:   lane,
			ParentID: parentID,
		})
	}
	// Also include pass-through edges untouched by this commit, so every
	// lane active after this row has a corresponding transition entry:
	// every ActiveEdge in Row_i.transitions corresponds to a
	// Pass/Commit/Merge cell in Row_{i+1}.
	for lane, from := range lr.FromLane {
		if from == lr.PrimaryLane {
			continue // already added above via ParentLane
		}
		active := b.alloc.Active
		if lane >= len(active) || active[lane].ID == "" {
			continue
		}
		transitions = append(transitions, ActiveEdge{
			FromLane: from,
			ToLane:   lane,
			ParentID: active[lane].ID,
		})
	}

	row := Row{
		CommitID:    id,
		TopoIndex:   i,
		PrimaryLane: lr.PrimaryLane,
		Slots:       lr.Slots,
		LaneColor:   lr.LaneColor,
		Terminated:  lr.Terminated,
		Transitions: transitions,
		IsMerge:     len(node.Parents) >= 2,
		ParentCount: len(node.Parents),
	}
	if b.decorator != nil {
		if d, ok := b.decorator.Decorate(id); ok {
			row.Decoration = d
			row.HasDecor = true
		}
	}
	return row, true
}

// PrivilegedTips pre-scans a decorator-backed branch-tip map (branch name
// -> commit id) and returns the commit ids whose branch name is
// privileged, so the caller can force the earliest one onto lane 0
// before allocation begins. The caller typically derives branchTipID
// from an external ref enumeration (see internal/gitsource).
func PrivilegedTips(branchTipID map[string]string, privilegedNames []string) map[string]bool {
	want := make(map[string]bool, len(privilegedNames))
	for _, n := range privilegedNames {
		want[n] = true
	}
	out := make(map[string]bool)
	for branch, id := range branchTipID {
		if want[branch] {
			out[id] = true
		}
	}
	return out
}

// EarliestPrivilegedTip reduces a set of privileged branch tip ids (as
// returned by PrivilegedTips) to the single id NewBuilder should seed into
// lane 0: the one with the lowest topo index (the "newest" of the
// privileged tips, e.g. main's HEAD rather than a stale release branch's).
// Returns "" if tips is empty or none resolve in dag.
func EarliestPrivilegedTip(dag *dagmodel.Dag, tips map[string]bool) string {
	best := ""
	bestIdx := -1
	for id := range tips {
		idx, ok := dag.TopoIndex(id)
		if !ok {
			continue
		}
		if bestIdx == -1 || idx < bestIdx {
			bestIdx = idx
			best = id
		}
	}
	return best
}
