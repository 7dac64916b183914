package gitsource

import (
	"os/exec"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/graphline/internal/dagmodel"
)

// initRepo creates a tiny real git repository with two commits and a
// branch, so Source and RefMap can be exercised against the actual git
// binary rather than a fake.
func initRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	run := func(args ...string) {
		cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
		out, err := cmd.CombinedOutput()
		require.NoErrorf(t, err, "git %v: %s", args, out)
	}

	run("init", "-q")
	run("config", "user.email", "test@example.com")
	run("config", "user.name", "Test")
	run("commit", "--allow-empty", "-q", "-m", "first")
	run("branch", "feature")
	run("commit", "--allow-empty", "-q", "-m", "second")

	return dir
}

func TestSource_NextYieldsCommitsInTopoOrder(t *testing.T) {
	dir := initRepo(t)
	src, err := Open(dir, 0, zerolog.Nop())
	require.NoError(t, err)
	defer func() { _ = src.Close() }()

	var commits []dagmodel.RawCommit
	for {
		rc, ok, err := src.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		commits = append(commits, rc)
	}

	require.Len(t, commits, 2)
	assert.Equal(t, "second", commits[0].Message)
	assert.Equal(t, "first", commits[1].Message)
	assert.Equal(t, []string{commits[1].ID}, commits[0].Parents)
	assert.Empty(t, commits[1].Parents)
}

func TestSource_LimitCapsYieldedCommits(t *testing.T) {
	dir := initRepo(t)
	src, err := Open(dir, 1, zerolog.Nop())
	require.NoError(t, err)
	defer func() { _ = src.Close() }()

	rc, ok, err := src.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "second", rc.Message)

	_, ok, err = src.Next()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRefMap_ResolvesBranchesAndHead(t *testing.T) {
	dir := initRepo(t)
	deco, tips, err := RefMap(dir)
	require.NoError(t, err)

	src, err := Open(dir, 0, zerolog.Nop())
	require.NoError(t, err)
	defer func() { _ = src.Close() }()
	head, _, err := src.Next()
	require.NoError(t, err)

	d, ok := deco[head.ID]
	require.True(t, ok)
	assert.True(t, d.IsHead)
	assert.NotEmpty(t, d.Branches, "HEAD's commit must resolve to the default branch name")

	_, ok = tips["feature"]
	assert.True(t, ok, "feature branch tip must resolve")
}
