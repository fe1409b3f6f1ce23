// Package config loads and stores user preferences as a TOML file in the
// platform config directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const (
	appDirName = "kplabel"
	fileName   = "config.toml"
)

// Config holds the persisted user preferences.
type Config struct {
	// RecentFolder is reopened on start when no path is given.
	RecentFolder string `toml:"recent_folder"`
	// Autosave writes the sidecar on every image switch and on exit.
	Autosave bool `toml:"autosave"`
	// ShowLabels draws the point index next to each marker.
	ShowLabels bool `toml:"show_labels"`
	// KeepBackups bounds the timestamped sidecar backups per image.
	KeepBackups int `toml:"keep_backups"`

	Window WindowConfig `toml:"window"`
}

// WindowConfig remembers the main window geometry.
type WindowConfig struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// Default returns the preferences used before any config file exists.
func Default() Config {
	return Config{
		Autosave:    true,
		ShowLabels:  true,
		KeepBackups: 5,
		Window:      WindowConfig{Width: 1200, Height: 800},
	}
}

// Path returns the config file location.
func Path() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(base, appDirName, fileName), nil
}

// Load reads the config file at `path`, filling unset keys from the
// defaults. A missing file yields the defaults without error.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return Default(), fmt.Errorf("parse config %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return cfg, fmt.Errorf("config %s: unknown key %q", path, undecoded[0].String())
	}
	return cfg, nil
}

// Save writes the config to `path`, creating parent directories as needed.
func Save(cfg Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create config %s: %w", path, err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}
