// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for the
// Mingle client.
//
// Configuration sources (in order of precedence):
//   - Environment variables (MINGLE_SERVER_URL, MINGLE_RECORDER)
//   - ~/.mingle/config.toml
//   - Built-in defaults
package config

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/mingle-social/mingle-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete client configuration.
type Config struct {
	// Server settings
	Server ServerConfig `toml:"server"`

	// Voice capture settings
	Voice VoiceConfig `toml:"voice"`

	// Local transcript cache settings
	Cache CacheConfig `toml:"cache"`

	// UI settings
	UI UIConfig `toml:"ui"`
}

// ServerConfig contains Mingle server connection settings.
type ServerConfig struct {
	// URL is the base URL of the Mingle server.
	URL string `toml:"url"`
	// GenerateTurns is the number of turns requested when generating a
	// multi-agent exchange in the General room.
	GenerateTurns int `toml:"generate_turns"`
}

// VoiceConfig contains voice interview capture settings.
type VoiceConfig struct {
	// Recorder forces a specific recording command ("arecord", "rec",
	// "sox", "ffmpeg"). Empty means autodetect in that order.
	Recorder string `toml:"recorder"`
	// MaxSeconds caps a single recording; 0 means no cap.
	MaxSeconds int `toml:"max_seconds"`
}

// CacheConfig contains local transcript cache settings.
type CacheConfig struct {
	// Enabled controls whether fetched transcripts are cached locally.
	Enabled bool `toml:"enabled"`
	// Path overrides the cache database location (empty = default
	// ~/.mingle/cache.db).
	Path string `toml:"path"`
}

// UIConfig contains UI settings.
type UIConfig struct {
	// Theme is the UI theme: "dark", "light", "auto"
	Theme string `toml:"theme"`
	// ShowTimestamps displays message timestamps in the transcript.
	ShowTimestamps bool `toml:"show_timestamps"`
	// CompactMode uses a more compact transcript layout.
	CompactMode bool `toml:"compact_mode"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			URL:           "http://localhost:8000",
			GenerateTurns: 10,
		},
		Voice: VoiceConfig{
			Recorder:   "",
			MaxSeconds: 120,
		},
		Cache: CacheConfig{
			Enabled: true,
			Path:    "",
		},
		UI: UIConfig{
			Theme:          "dark",
			ShowTimestamps: false,
			CompactMode:    false,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the Mingle configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".mingle"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// CachePath returns the transcript cache database path, honoring the
// configured override.
func (c *Config) CachePath() (string, error) {
	if c.Cache.Path != "" {
		return c.Cache.Path, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "cache.db"), nil
}

// LogPath returns the client log file path. The TUI owns stdout, so
// logging goes to a file.
func LogPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "mingle.log"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// =============================================================================
// LOAD & SAVE
// =============================================================================

// Load loads configuration from the config file, falling back to
// defaults when no file exists. Environment overrides are applied last.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom loads configuration from a specific TOML file.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config %s: %w", path, err)
		}
	}

	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnvOverrides applies environment variable overrides. Env vars
// win over the config file so one-off runs against another server need
// no editing.
func (c *Config) ApplyEnvOverrides() {
	if v := strings.TrimSpace(os.Getenv("MINGLE_SERVER_URL")); v != "" {
		c.Server.URL = v
	}
	if v := strings.TrimSpace(os.Getenv("MINGLE_RECORDER")); v != "" {
		c.Voice.Recorder = v
	}
}

// Save writes the configuration to the default path atomically.
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the configuration to a specific path atomically.
// SECURITY: Config files are 0600, owner read/write only.
func (c *Config) SaveTo(path string) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return util.AtomicWriteFile(path, buf.Bytes(), 0600)
}

// =============================================================================
// VALIDATION
// =============================================================================

// knownRecorders are the recording commands the voice pipeline can
// drive. Keep in sync with the voice package's probe order.
var knownRecorders = map[string]bool{
	"":        true, // autodetect
	"arecord": true,
	"rec":     true,
	"sox":     true,
	"ffmpeg":  true,
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Server.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid server URL %q", c.Server.URL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("server URL scheme must be http or https, got %q", u.Scheme)
	}

	if c.Server.GenerateTurns <= 0 {
		c.Server.GenerateTurns = Default().Server.GenerateTurns
	}

	if !knownRecorders[c.Voice.Recorder] {
		return fmt.Errorf("unknown recorder %q (want arecord, rec, sox, or ffmpeg)", c.Voice.Recorder)
	}
	if c.Voice.MaxSeconds < 0 {
		return fmt.Errorf("voice max_seconds must be non-negative, got %d", c.Voice.MaxSeconds)
	}

	switch c.UI.Theme {
	case "dark", "light", "auto":
	default:
		return fmt.Errorf("unknown theme %q (want dark, light, or auto)", c.UI.Theme)
	}

	return nil
}
