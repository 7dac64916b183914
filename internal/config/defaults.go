package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Default returns the documented option defaults.
func Default() *Options {
	return &Options{
		Charset:                 "unicode",
		LaneColors:              8,
		LaneWidthCells:          2,
		PrivilegedBranches:      []string{"main", "master"},
		IngestLimit:             0,
		CheckpointInterval:      128,
		TruncateMessageCJKAware: true,
		Theme:                   "catppuccin-mocha",
	}
}

// Load reads ~/.config/graphline/config.yaml over the documented
// defaults, layering any keys present in the file on top.
func Load() (*Options, error) {
	opts := Default()

	home, err := os.UserHomeDir()
	if err != nil {
		return opts, nil
	}

	configPath := filepath.Join(home, ".config", "graphline")
	v := viper.New()
	v.AddConfigPath(configPath)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return opts, nil
		}
		return nil, err
	}

	if err := v.Unmarshal(opts); err != nil {
		return nil, err
	}

	return opts, nil
}
