// Package config loads watch panel configuration from TOML files and
// supports live reload via filesystem notification.
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/pcullen/watchpanel/internal/watch"
)

// Config is the watch panel configuration.
type Config struct {
	Watch   WatchConfig   `toml:"watch"`
	Panel   PanelConfig   `toml:"panel"`
	Persist PersistConfig `toml:"persist"`
	Format  FormatConfig  `toml:"format"`
}

// WatchConfig configures watch store behavior.
type WatchConfig struct {
	// DefaultExpanded controls whether new expressions start expanded.
	DefaultExpanded bool `toml:"default_expanded"`

	// InsertPosition is where new expressions sort: "append" or "prepend".
	InsertPosition string `toml:"insert_position"`

	// RefreshOnStop re-evaluates all expressions on stopped events.
	RefreshOnStop bool `toml:"refresh_on_stop"`
}

// PanelConfig configures the reference renderer.
type PanelConfig struct {
	// Indent is the number of columns per tree depth level.
	Indent int `toml:"indent"`

	// ShowTypes renders the adapter-reported type next to values.
	ShowTypes bool `toml:"show_types"`

	// ExpandHint is the placeholder for compound values with no inline text.
	ExpandHint string `toml:"expand_hint"`
}

// PersistConfig configures watch-list persistence.
type PersistConfig struct {
	// Path is the persistence file; empty disables persistence.
	Path string `toml:"path"`
}

// FormatConfig configures value formatting.
type FormatConfig struct {
	// Script is a Lua formatter script path; empty renders raw values.
	Script string `toml:"script"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Watch: WatchConfig{
			InsertPosition: "append",
			RefreshOnStop:  true,
		},
		Panel: PanelConfig{
			Indent:     2,
			ShowTypes:  true,
			ExpandHint: "...",
		},
	}
}

// Load reads configuration from a TOML file, applying defaults for absent
// keys. A missing file is not an error; defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// Validate checks field values.
func (c Config) Validate() error {
	switch c.Watch.InsertPosition {
	case "append", "prepend":
	default:
		return fmt.Errorf("invalid insert_position %q (want \"append\" or \"prepend\")", c.Watch.InsertPosition)
	}
	if c.Panel.Indent < 1 {
		return fmt.Errorf("invalid indent %d (want >= 1)", c.Panel.Indent)
	}
	return nil
}

// Position returns the watch store position for new expressions.
func (c Config) Position() watch.Position {
	if c.Watch.InsertPosition == "prepend" {
		return watch.Prepend
	}
	return watch.Append
}
