// Package config loads game settings from an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// DifficultyLevels lists the accepted difficulty names, mildest first.
var DifficultyLevels = []string{"Easy", "Normal", "Hard", "Nightmare"}

// Config holds game configuration options.
type Config struct {
	// Seed for random number generation. Used for reproducible world
	// generation. A seed of 0 means a time-based seed will be used.
	Seed int64 `yaml:"seed"`

	// AutoSave saves the game every tenth turn and once on exit.
	AutoSave bool `yaml:"autoSave"`

	// Difficulty must be one of DifficultyLevels.
	Difficulty string `yaml:"difficulty"`

	// ShowHints enables gameplay hints in the session output.
	ShowHints bool `yaml:"showHints"`

	// SaveDir is the directory save files are written to.
	SaveDir string `yaml:"saveDir"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		AutoSave:   true,
		Difficulty: "Normal",
		ShowHints:  true,
		SaveDir:    "game_saves",
	}
}

// Load reads the configuration file at path. A missing file is not an
// error: defaults apply, and fields absent from the file keep their
// default values.
func Load(path string) (*Config, error) {
	cfg := Default()

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	for _, level := range DifficultyLevels {
		if c.Difficulty == level {
			return nil
		}
	}
	return fmt.Errorf("unknown difficulty %q (want one of %v)", c.Difficulty, DifficultyLevels)
}
