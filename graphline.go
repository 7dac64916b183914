// Package graphline is the convenience entry point: it wires the engine's
// own config, theme, and git adapter together into a ready-to-render
// Viewport so a caller doesn't have to hand-assemble internal/dagmodel,
// internal/lanes, internal/rows, internal/render, and internal/viewport
// itself.
package graphline

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/yourusername/graphline/internal/config"
	"github.com/yourusername/graphline/internal/dagmodel"
	"github.com/yourusername/graphline/internal/gitsource"
	"github.com/yourusername/graphline/internal/render"
	"github.com/yourusername/graphline/internal/rows"
	"github.com/yourusername/graphline/internal/theme"
	"github.com/yourusername/graphline/internal/viewport"
)

// Open reads the commit history at repoPath, applies opts (use
// config.Default() for the documented defaults, or config.Load() to layer
// ~/.config/graphline/config.yaml on top), and returns a Viewport ready
// to render at the given terminal height.
func Open(ctx context.Context, repoPath string, opts *config.Options, height int, logger zerolog.Logger) (*viewport.Viewport, error) {
	if opts == nil {
		opts = config.Default()
	}

	src, err := gitsource.Open(repoPath, opts.IngestLimit, logger)
	if err != nil {
		return nil, err
	}
	defer func() { _ = src.Close() }()

	dag, err := dagmodel.Build(ctx, src, opts.IngestLimit, logger)
	if err != nil {
		return nil, err
	}

	decorator, branchTips, err := gitsource.RefMap(repoPath)
	if err != nil {
		return nil, err
	}

	privileged := rows.PrivilegedTips(branchTips, opts.PrivilegedBranches)
	privilegedTip := rows.EarliestPrivilegedTip(dag, privileged)

	renderer := render.New(theme.GetTheme(opts.Theme), render.Profile(opts.Charset), opts.TruncateMessageCJKAware)

	vp := viewport.New(dag, decorator, renderer, privilegedTip, opts.LaneColors, height, opts.CheckpointInterval, logger)
	return vp, nil
}
