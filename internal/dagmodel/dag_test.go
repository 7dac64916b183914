package dagmodel

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawChain() []RawCommit {
	// D (newest) -> C -> B -> A (oldest), A is a root.
	return []RawCommit{
		{ID: "D", Parents: []string{"C"}, Message: "d"},
		{ID: "C", Parents: []string{"B"}, Message: "c"},
		{ID: "B", Parents: []string{"A"}, Message: "b"},
		{ID: "A", Parents: nil, Message: "a"},
	}
}

func TestBuild_LinearHistory(t *testing.T) {
	d, err := Build(context.Background(), NewSliceSource(rawChain()), 0, zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, []string{"D", "C", "B", "A"}, d.Topo())
	assert.Equal(t, 4, d.Stats().Total)
	assert.Equal(t, 1, d.Stats().Roots)
	assert.False(t, d.Stats().HasOrphans)

	for i, id := range d.Topo() {
		for _, p := range d.ParentsOf(id) {
			pi, ok := d.TopoIndex(p)
			require.True(t, ok)
			assert.Less(t, i, pi, "parent %s of %s must come later in topo order", p, id)
		}
	}
}

func TestBuild_OutOfOrderSourceIsLinearized(t *testing.T) {
	// Source yields B before D, even though D depends on C which depends on B:
	// not itself a valid linearization (B appears before its child C).
	commits := []RawCommit{
		{ID: "B", Parents: []string{"A"}},
		{ID: "D", Parents: []string{"C"}},
		{ID: "C", Parents: []string{"B"}},
		{ID: "A"},
	}
	d, err := Build(context.Background(), NewSliceSource(commits), 0, zerolog.Nop())
	require.NoError(t, err)

	idx := func(id string) int { i, _ := d.TopoIndex(id); return i }
	assert.Less(t, idx("D"), idx("C"))
	assert.Less(t, idx("C"), idx("B"))
	assert.Less(t, idx("B"), idx("A"))
}

func TestBuild_CycleIsCorruptGraph(t *testing.T) {
	commits := []RawCommit{
		{ID: "X", Parents: []string{"Y"}},
		{ID: "Y", Parents: []string{"X"}},
	}
	_, err := Build(context.Background(), NewSliceSource(commits), 0, zerolog.Nop())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCorruptGraph)
}

func TestBuild_OrphanParentBecomesVirtualLeaf(t *testing.T) {
	commits := []RawCommit{
		{ID: "X", Parents: []string{"missing"}},
	}
	d, err := Build(context.Background(), NewSliceSource(commits), 0, zerolog.Nop())
	require.NoError(t, err)

	node, ok := d.Node("X")
	require.True(t, ok)
	assert.Empty(t, node.Parents)
	assert.Equal(t, []string{"missing"}, node.RawParents)
	assert.True(t, d.Stats().HasOrphans)
}

func TestBuild_LimitTruncatesNotErrors(t *testing.T) {
	d, err := Build(context.Background(), NewSliceSource(rawChain()), 2, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 2, d.Len())
}

func TestBuild_CancellationTruncates(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d, err := Build(ctx, NewSliceSource(rawChain()), 0, zerolog.Nop())
	require.NoError(t, err)
	assert.True(t, d.Stats().Truncated)
}

func TestCommitNode_IsRootIsMerge(t *testing.T) {
	root := &CommitNode{RawParents: nil}
	assert.True(t, root.IsRoot())
	assert.False(t, root.IsMerge())

	merge := &CommitNode{RawParents: []string{"a", "b"}}
	assert.False(t, merge.IsRoot())
	assert.True(t, merge.IsMerge())
}
