package rows

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/graphline/internal/dagmodel"
)

func buildForkMergeDag(t *testing.T) *dagmodel.Dag {
	t.Helper()
	commits := []dagmodel.RawCommit{
		{ID: "M", Parents: []string{"B", "C"}, Message: "merge"},
		{ID: "B", Parents: []string{"A"}, Message: "b"},
		{ID: "C", Parents: []string{"A"}, Message: "c"},
		{ID: "A", Parents: nil, Message: "a"},
	}
	d, err := dagmodel.Build(context.Background(), dagmodel.NewSliceSource(commits), 0, zerolog.Nop())
	require.NoError(t, err)
	return d
}

func TestBuildRow_TransitionsCoverEveryActiveLane(t *testing.T) {
	dag := buildForkMergeDag(t)
	b := NewBuilder(dag, nil, "", 4)

	row, ok := b.BuildRow(0) // M
	require.True(t, ok)
	assert.Equal(t, "M", row.CommitID)
	assert.True(t, row.IsMerge)
	assert.Len(t, row.Transitions, 2)

	toLanes := map[int]bool{}
	for _, e := range row.Transitions {
		toLanes[e.ToLane] = true
		assert.Equal(t, row.PrimaryLane, e.FromLane)
	}
	assert.Len(t, toLanes, 2)

	row, ok = b.BuildRow(1) // B
	require.True(t, ok)
	// B's own primary-lane continuation plus the pass-through edge for C's
	// still-open reservation must both appear.
	assert.Len(t, row.Transitions, 2)
}

func TestBuildRow_DecorationAttachedWhenPresent(t *testing.T) {
	dag := buildForkMergeDag(t)
	deco := MapDecorator{
		"M": {IsHead: true, Branches: []string{"main"}},
	}
	b := NewBuilder(dag, deco, "", 4)

	row, ok := b.BuildRow(0)
	require.True(t, ok)
	require.True(t, row.HasDecor)
	assert.True(t, row.Decoration.IsHead)
	assert.Equal(t, []string{"main"}, row.Decoration.Branches)

	row, ok = b.BuildRow(1)
	require.True(t, ok)
	assert.False(t, row.HasDecor)
}

func TestBuildRow_OutOfRangeIndexFails(t *testing.T) {
	dag := buildForkMergeDag(t)
	b := NewBuilder(dag, nil, "", 4)

	_, ok := b.BuildRow(-1)
	assert.False(t, ok)
	_, ok = b.BuildRow(dag.Len())
	assert.False(t, ok)
}

func TestPrivilegedTips_FiltersByConfiguredBranchNames(t *testing.T) {
	tips := PrivilegedTips(map[string]string{
		"main":    "m1",
		"develop": "d1",
		"feature": "f1",
	}, []string{"main", "develop"})

	assert.True(t, tips["m1"])
	assert.True(t, tips["d1"])
	assert.False(t, tips["f1"])
}

func TestEarliestPrivilegedTip_PicksLowestTopoIndex(t *testing.T) {
	dag := buildForkMergeDag(t)
	tips := map[string]bool{"B": true, "A": true}

	got := EarliestPrivilegedTip(dag, tips)
	assert.Equal(t, "B", got, "B precedes A in topo order")
}

func TestPrivilegedTip_ForcesLaneZeroAcrossRows(t *testing.T) {
	dag := buildForkMergeDag(t)
	b := NewBuilder(dag, nil, "C", 4)

	// C is processed third; it must still land on lane 0, which stays
	// reserved for it while M and B are placed on lane 1.
	b.BuildRow(0)
	b.BuildRow(1)
	row, ok := b.BuildRow(2)
	require.True(t, ok)
	assert.Equal(t, 0, row.PrimaryLane)
}
