package graphline

import (
	"context"
	"os/exec"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/graphline/internal/config"
	"github.com/yourusername/graphline/internal/render"
)

// initRepo creates a tiny real git repository so Open can be exercised
// end to end against the actual git binary.
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
	run("commit", "--allow-empty", "-q", "-m", "second")

	return dir
}

func TestOpen_WiresConfigAndRendersWithoutError(t *testing.T) {
	dir := initRepo(t)

	vp, err := Open(context.Background(), dir, config.Default(), 10, zerolog.Nop())
	require.NoError(t, err)
	require.NotNil(t, vp)
	require.Equal(t, 2, vp.Total())

	buf := render.NewBuffer(40, 10)
	require.NoError(t, vp.Render(buf))
}
