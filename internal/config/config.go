// Package config loads the optional .nmrc.yaml project file: search
// paths for `use`, a color preference, and REPL preferences.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the decoded shape of .nmrc.yaml.
type Config struct {
	// SearchPath lists directories for `use` module resolution. It is
	// decoded but not consulted: `use` resolves against the single
	// directory the interpreter was created with.
	SearchPath []string `yaml:"search_path"`

	// Color records whether diagnostics should be colored. It is decoded
	// but not consulted: diagnostics follow fatih/color's own terminal
	// detection.
	Color *bool `yaml:"color"`

	// Repl holds settings specific to the `nm repl` subcommand.
	Repl ReplConfig `yaml:"repl"`
}

// ReplConfig configures the interactive REPL (internal/interp driven
// through cmd/nm/cmd/repl.go's peterh/liner session).
type ReplConfig struct {
	HistoryFile string `yaml:"history_file"`
	Prompt      string `yaml:"prompt"`
}

// Default returns the configuration used when no .nmrc.yaml is found.
func Default() *Config {
	return &Config{
		Repl: ReplConfig{HistoryFile: ".nm_history", Prompt: "nm> "},
	}
}

// Load reads .nmrc.yaml starting at dir and walking up to the
// filesystem root, the same discovery convention most dotfile-driven CLI
// tools use. It returns Default() unmodified if no config file is found.
func Load(dir string) (*Config, error) {
	cfg := Default()
	path, err := find(dir)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func find(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(dir, ".nmrc.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}
