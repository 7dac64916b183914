// Package dagmodel builds and owns the in-memory commit DAG.
//
// A Dag is constructed once per repository snapshot from an external
// commit iterator and is immutable thereafter; lane allocation, row
// building, and rendering all read from it without mutating it.
package dagmodel

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// ErrCorruptGraph is returned by Build when the input parent graph
// contains a cycle. It is fatal: no Dag is produced.
var ErrCorruptGraph = errors.New("dagmodel: cyclic parent graph")

// RawCommit is the shape a CommitSource yields for each commit, in
// reverse-chronological order.
type RawCommit struct {
	ID        string
	Parents   []string
	Author    string
	Email     string
	Message   string
	Timestamp int64 // unix seconds
}

// CommitNode is an immutable commit record inside a Dag.
type CommitNode struct {
	ID        string
	Parents   []string // present parent IDs, in original order; dangling ones are dropped here
	RawParents []string // original parent list, including dangling (virtual-leaf) IDs
	Author    string
	Email     string
	Message   string
	Subject   string
	Timestamp int64
}

// IsRoot reports whether the commit was recorded with no parents. A commit
// whose parents are all dangling references is not a root.
func (c *CommitNode) IsRoot() bool { return len(c.RawParents) == 0 }

// IsMerge reports whether the commit was recorded with two or more parents.
func (c *CommitNode) IsMerge() bool { return len(c.RawParents) >= 2 }

// Stats summarizes a built Dag.
type Stats struct {
	Total      int
	Edges      int
	Merges     int
	Roots      int
	Leaves     int
	HasOrphans bool
	Truncated  bool
}

// Dag is an immutable, in-memory commit graph plus a topological order.
type Dag struct {
	nodes    map[string]*CommitNode
	topo     []string
	index    map[string]int
	children map[string][]string
	stats    Stats
}

// CommitSource yields raw commits in reverse-chronological (source-native)
// order. Implementations may be backed by a real repository (see
// internal/gitsource) or by a synthetic/test iterator.
type CommitSource interface {
	// Next returns the next commit, or ok=false when exhausted. err is
	// non-nil only on an unrecoverable source failure.
	Next() (rc RawCommit, ok bool, err error)
}

// SliceSource adapts a pre-materialized slice of RawCommit into a
// CommitSource, useful for tests and for sources that already buffer the
// full log in memory.
type SliceSource struct {
	commits []RawCommit
	pos     int
}

func NewSliceSource(commits []RawCommit) *SliceSource {
	return &SliceSource{commits: commits}
}

func (s *SliceSource) Next() (RawCommit, bool, error) {
	if s.pos >= len(s.commits) {
		return RawCommit{}, false, nil
	}
	rc := s.commits[s.pos]
	s.pos++
	return rc, true, nil
}

// Build reads commits from source in the source's natural order, stores
// them, and computes a valid topological order (newest/tip first,
// ancestors later): for every edge child -> parent, index(child) <
// index(parent). If the source's natural order is already such a
// linearization, it is preserved as-is; otherwise a Kahn sort is run.
//
// ctx is checked cooperatively between ingested commits: if it is
// canceled mid-ingest, Build returns the partial Dag with Stats().Truncated
// set, not an error. limit <= 0 means unbounded.
func Build(ctx context.Context, source CommitSource, limit int, logger zerolog.Logger) (*Dag, error) {
	nodes := make(map[string]*CommitNode)
	var order []string
	truncated := false

	for {
		if limit > 0 && len(order) >= limit {
			break
		}
		select {
		case <-ctx.Done():
			truncated = true
		default:
		}
		if truncated {
			break
		}

		rc, ok, err := source.Next()
		if err != nil {
			return nil, errors.Wrap(err, "dagmodel: commit source failed")
		}
		if !ok {
			break
		}
		if _, dup := nodes[rc.ID]; dup {
			continue
		}

		nodes[rc.ID] = &CommitNode{
			ID:         rc.ID,
			RawParents: rc.Parents,
			Author:     rc.Author,
			Email:      rc.Email,
			Message:    rc.Message,
			Subject:    firstLine(rc.Message),
			Timestamp:  rc.Timestamp,
		}
		order = append(order, rc.ID)
	}

	// Resolve each node's Parents to only those present in the graph;
	// dangling references remain in RawParents and become virtual leaves.
	hasOrphans := false
	for _, n := range nodes {
		for _, p := range n.RawParents {
			if _, ok := nodes[p]; ok {
				n.Parents = append(n.Parents, p)
			} else {
				hasOrphans = true
			}
		}
	}

	topo, err := linearize(order, nodes)
	if err != nil {
		return nil, err
	}

	children := make(map[string][]string)
	for _, n := range nodes {
		for _, p := range n.Parents {
			children[p] = append(children[p], n.ID)
		}
	}

	index := make(map[string]int, len(topo))
	for i, id := range topo {
		index[id] = i
	}

	roots, leaves, merges, edges := 0, 0, 0, 0
	for _, n := range nodes {
		if n.IsRoot() {
			roots++
		}
		if len(children[n.ID]) == 0 {
			leaves++
		}
		if n.IsMerge() {
			merges++
		}
		edges += len(n.Parents)
	}

	d := &Dag{
		nodes:    nodes,
		topo:     topo,
		index:    index,
		children: children,
		stats: Stats{
			Total:      len(nodes),
			Edges:      edges,
			Merges:     merges,
			Roots:      roots,
			Leaves:     leaves,
			HasOrphans: hasOrphans,
			Truncated:  truncated,
		},
	}

	logger.Info().
		Int("total", d.stats.Total).
		Int("edges", d.stats.Edges).
		Int("merges", d.stats.Merges).
		Bool("has_orphans", d.stats.HasOrphans).
		Bool("truncated", d.stats.Truncated).
		Msg("dagmodel: build complete")

	return d, nil
}

// linearize returns order unchanged if it is already a valid
// linearization (no commit precedes a present parent); otherwise it
// computes one via a Kahn topological sort, with ties broken by the
// original order so results stay deterministic.
func linearize(order []string, nodes map[string]*CommitNode) ([]string, error) {
	pos := make(map[string]int, len(order))
	for i, id := range order {
		pos[id] = i
	}

	alreadyValid := true
	for i, id := range order {
		for _, p := range nodes[id].Parents {
			if pos[p] <= i {
				alreadyValid = false
				break
			}
		}
		if !alreadyValid {
			break
		}
	}
	if alreadyValid {
		return order, nil
	}

	// Kahn's algorithm over the reversed edge direction (child -> parent
	// means parent must come after child in topo[], i.e. parent depends
	// on child being emitted first — we sort so that a node's children
	// are all emitted before it once their other dependencies clear).
	// We process "ready" = commits whose children have all already been
	// placed ahead of them.
	remainingChildren := make(map[string]int, len(nodes))
	childrenOf := make(map[string][]string, len(nodes))
	for _, id := range order {
		remainingChildren[id] = 0
	}
	for _, id := range order {
		for _, p := range nodes[id].Parents {
			childrenOf[p] = append(childrenOf[p], id)
		}
	}
	for p, kids := range childrenOf {
		remainingChildren[p] = len(kids)
	}

	var ready []string
	for _, id := range order {
		if remainingChildren[id] == 0 {
			ready = append(ready, id)
		}
	}

	result := make([]string, 0, len(order))
	visited := make(map[string]bool, len(order))
	for len(ready) > 0 {
		// Pop in original-order-preserving fashion: scan ready for the
		// earliest-original-position id to keep determinism.
		bestIdx := 0
		for i := 1; i < len(ready); i++ {
			if pos[ready[i]] < pos[ready[bestIdx]] {
				bestIdx = i
			}
		}
		id := ready[bestIdx]
		ready = append(ready[:bestIdx], ready[bestIdx+1:]...)
		if visited[id] {
			continue
		}
		visited[id] = true
		result = append(result, id)

		for _, p := range nodes[id].Parents {
			remainingChildren[p]--
			if remainingChildren[p] == 0 {
				ready = append(ready, p)
			}
		}
	}

	if len(result) != len(order) {
		return nil, ErrCorruptGraph
	}
	return result, nil
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}

// Stats returns summary statistics over the built graph.
func (d *Dag) Stats() Stats { return d.stats }

// Topo returns the topological order (newest/tip first). Callers must
// not mutate the returned slice.
func (d *Dag) Topo() []string { return d.topo }

// Node looks up a commit by id.
func (d *Dag) Node(id string) (*CommitNode, bool) {
	n, ok := d.nodes[id]
	return n, ok
}

// ChildrenOf returns the ids of commits that list id as a present parent.
func (d *Dag) ChildrenOf(id string) []string { return d.children[id] }

// ParentsOf returns the present parent ids of id, in original order.
func (d *Dag) ParentsOf(id string) []string {
	n, ok := d.nodes[id]
	if !ok {
		return nil
	}
	return n.Parents
}

// TopoIndex returns the position of id in Topo(), or (-1, false) if absent.
func (d *Dag) TopoIndex(id string) (int, bool) {
	i, ok := d.index[id]
	return i, ok
}

// Len returns the number of commits in the Dag.
func (d *Dag) Len() int { return len(d.topo) }
