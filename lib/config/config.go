// Copyright 2026 The Jira-Lite Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for the jiralite CLI.
//
// Configuration is loaded from a single file specified by:
//   - JIRALITE_CONFIG environment variable, or
//   - --config flag passed to the command
//
// There are no fallbacks or automatic discovery. Server URL, local
// file locations, and refresh tuning all live here; environment
// variables do not override individual values.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvVar names the environment variable holding the config file path.
const EnvVar = "JIRALITE_CONFIG"

// Config is the master configuration for the jiralite client.
type Config struct {
	// Server is the base URL of the remote API, e.g.
	// "https://tracker.example.com/api".
	Server string `yaml:"server"`

	// Paths configures local file locations.
	Paths PathsConfig `yaml:"paths"`

	// Session configures token refresh behavior.
	Session SessionConfig `yaml:"session"`
}

// PathsConfig configures local file locations. Empty fields fall back
// to the XDG-derived defaults of their packages.
type PathsConfig struct {
	// SessionFile is where the serialized session is persisted.
	SessionFile string `yaml:"session_file"`

	// StateCache is where the warm-start entity cache is written.
	StateCache string `yaml:"state_cache"`

	// FilterPresets is the saved filter preset file (JSONC,
	// hand-editable).
	FilterPresets string `yaml:"filter_presets"`

	// ExportDir is where CSV exports are written. Defaults to the
	// working directory.
	ExportDir string `yaml:"export_dir"`
}

// SessionConfig tunes token refresh. Zero values use the package
// defaults (60s skew, 20s poll).
type SessionConfig struct {
	// ExpirySkew is how long before expiry a token counts as stale.
	ExpirySkew Duration `yaml:"expiry_skew"`

	// PollInterval is the proactive refresh check cadence.
	PollInterval Duration `yaml:"poll_interval"`
}

// Duration is a time.Duration that unmarshals from the Go duration
// syntax ("90s", "1m30s") rather than integer nanoseconds.
type Duration time.Duration

// UnmarshalYAML implements custom unmarshaling for duration strings.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the duration as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Load reads the config from the file named by JIRALITE_CONFIG.
func Load() (*Config, error) {
	path := os.Getenv(EnvVar)
	if path == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of your jiralite.yaml config file, or use --config flag", EnvVar)
	}
	return LoadFile(path)
}

// LoadFile loads configuration from a specific file path. The only
// expansion performed is ${HOME} in paths, for portability of shared
// config files.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	cfg.expandVariables()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks that required fields are present and well formed.
func (c *Config) Validate() error {
	if c.Server == "" {
		return fmt.Errorf("server is required")
	}
	parsed, err := url.Parse(c.Server)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("server %q is not an absolute URL", c.Server)
	}
	if c.Session.ExpirySkew < 0 || c.Session.PollInterval < 0 {
		return fmt.Errorf("session durations must not be negative")
	}
	return nil
}

func (c *Config) expandVariables() {
	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	for _, field := range []*string{
		&c.Paths.SessionFile, &c.Paths.StateCache,
		&c.Paths.FilterPresets, &c.Paths.ExportDir,
	} {
		*field = strings.ReplaceAll(*field, "${HOME}", home)
	}
}

// ExportPath resolves an export file name against the configured
// export directory.
func (c *Config) ExportPath(fileName string) string {
	if c.Paths.ExportDir == "" {
		return fileName
	}
	return filepath.Join(c.Paths.ExportDir, fileName)
}
