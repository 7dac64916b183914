// Package gitsource adapts a real repository into dagmodel.CommitSource
// and rows.Decorator: the only place this module shells out to git or
// touches go-git.
package gitsource

import (
	"bufio"
	"io"
	"os/exec"
	"strconv"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/yourusername/graphline/internal/dagmodel"
	"github.com/yourusername/graphline/internal/rows"
)

// logFormat pulls hash, parents, author name/email, timestamp, and
// subject, NUL-delimited since NUL cannot appear in commit metadata.
const logFormat = "%H%x00%P%x00%an%x00%ae%x00%at%x00%s"

// Source streams commits from `git log --all --topo-order` one line at a
// time, implementing dagmodel.CommitSource without materializing the
// whole history up front — go-git's own Log walker does not guarantee a
// topological order across all refs, so this shells out to the git
// binary instead.
type Source struct {
	cmd     *exec.Cmd
	scanner *bufio.Scanner
	stdout  io.ReadCloser
	path    string
	logger  zerolog.Logger
}

// Open starts the log stream for the repository at path. limit <= 0 means
// unbounded (git log with no -N cap).
func Open(path string, limit int, logger zerolog.Logger) (*Source, error) {
	args := []string{"-C", path, "log", "--all", "--topo-order", "--format=" + logFormat}
	if limit > 0 {
		args = append(args, "-"+strconv.Itoa(limit))
	}

	cmd := exec.Command("git", args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, errors.Wrap(err, "gitsource: stdout pipe")
	}
	if err := cmd.Start(); err != nil {
		return nil, errors.Wrap(err, "gitsource: git log")
	}

	logger.Debug().Str("path", path).Int("limit", limit).Msg("gitsource: log stream started")

	return &Source{
		cmd:     cmd,
		scanner: bufio.NewScanner(stdout),
		stdout:  stdout,
		path:    path,
		logger:  logger,
	}, nil
}

// Next implements dagmodel.CommitSource.
func (s *Source) Next() (dagmodel.RawCommit, bool, error) {
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return dagmodel.RawCommit{}, false, errors.Wrap(err, "gitsource: read log stream")
		}
		return dagmodel.RawCommit{}, false, nil
	}

	line := s.scanner.Text()
	if line == "" {
		return s.Next()
	}

	parts := strings.SplitN(line, "\x00", 6)
	if len(parts) < 6 {
		return s.Next() // malformed line, skip
	}

	var parents []string
	if parts[1] != "" {
		parents = strings.Split(parts[1], " ")
	}

	ts, err := strconv.ParseInt(parts[4], 10, 64)
	if err != nil {
		ts = 0
	}

	return dagmodel.RawCommit{
		ID:        parts[0],
		Parents:   parents,
		Author:    parts[2],
		Email:     parts[3],
		Message:   parts[5],
		Timestamp: ts,
	}, true, nil
}

// Close waits for the underlying git process to exit and releases its
// pipe. Callers should defer this once Dag.Build has drained Next.
func (s *Source) Close() error {
	_ = s.stdout.Close()
	if err := s.cmd.Wait(); err != nil {
		return errors.Wrap(err, "gitsource: git log exited with error")
	}
	return nil
}

// RefMap builds the Decorator and the branch-tip table (branch name ->
// commit id) used to compute the single privileged tip, via go-git's
// reference walker — unlike the commit log itself, reference enumeration
// doesn't need topological ordering, so go-git's own API is a good fit.
func RefMap(path string) (rows.MapDecorator, map[string]string, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "gitsource: open repository")
	}

	headName := ""
	if head, err := repo.Head(); err == nil {
		headName = head.Name().String()
	}

	deco := rows.MapDecorator{}
	branchTips := map[string]string{}

	refs, err := repo.References()
	if err != nil {
		return nil, nil, errors.Wrap(err, "gitsource: enumerate references")
	}

	err = refs.ForEach(func(ref *plumbing.Reference) error {
		hash := ref.Hash().String()
		name := ref.Name()

		d := deco[hash]
		switch {
		case name.IsBranch():
			d.Branches = append(d.Branches, name.Short())
			d.IsHead = d.IsHead || name.String() == headName
			branchTips[name.Short()] = hash
		case name.IsRemote():
			d.Branches = append(d.Branches, name.Short())
		case name.IsTag():
			d.Tags = append(d.Tags, name.Short())
		default:
			return nil
		}
		deco[hash] = d
		return nil
	})
	if err != nil {
		return nil, nil, errors.Wrap(err, "gitsource: walk references")
	}

	return deco, branchTips, nil
}
