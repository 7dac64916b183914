// Package config loads the engine's own option table — charset, lane
// colors, ingest/checkpoint tuning — independently of any TUI-shell
// configuration layered on top of it.
package config

// Options covers every row of the engine's configuration table: charset,
// lane layout, privileged branches, ingest limits, checkpoint interval,
// and message truncation mode.
type Options struct {
	// Charset selects the glyph table: "unicode", "ascii", or
	// "ascii-rich".
	Charset string `yaml:"charset"`
	// LaneColors is the palette size used for lane color cycling (>= 6).
	LaneColors int `yaml:"lane_colors" mapstructure:"lane_colors"`
	// LaneWidthCells is the number of display columns per lane. It is not
	// read anywhere: internal/render always uses two columns per lane.
	LaneWidthCells int `yaml:"lane_width_cells" mapstructure:"lane_width_cells"`
	// PrivilegedBranches lists branch names forced onto lane 0.
	PrivilegedBranches []string `yaml:"privileged_branches" mapstructure:"privileged_branches"`
	// IngestLimit caps the number of commits Dag.Build reads; 0 means
	// unbounded.
	IngestLimit int `yaml:"ingest_limit" mapstructure:"ingest_limit"`
	// CheckpointInterval is the number of rows between viewport
	// checkpoints.
	CheckpointInterval int `yaml:"checkpoint_interval" mapstructure:"checkpoint_interval"`
	// TruncateMessageCJKAware selects display-width-aware truncation over
	// code-point-count truncation.
	TruncateMessageCJKAware bool `yaml:"truncate_message_cjk_aware" mapstructure:"truncate_message_cjk_aware"`
	// Theme names the color palette (e.g. "catppuccin-mocha").
	Theme string `yaml:"theme"`
}
