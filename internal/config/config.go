// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete chatlore configuration.
type Config struct {
	// API configuration
	API APIConfig `toml:"api"`

	// Store configuration
	Store StoreConfig `toml:"store"`

	// Index configuration
	Index IndexConfig `toml:"index"`

	// UI configuration
	UI UIConfig `toml:"ui"`
}

// APIConfig contains processing backend configuration.
type APIConfig struct {
	// BaseURL is the processing backend base URL
	BaseURL string `toml:"base_url"`
	// TimeoutSecs is the per-request timeout in seconds (0 = default,
	// negative = no client-side timeout)
	TimeoutSecs int `toml:"timeout_secs"`
}

// StoreConfig contains local store configuration.
type StoreConfig struct {
	// Path is the store file location (empty = ~/.chatlore/chatlore.json)
	Path string `toml:"path"`
	// Encrypted seals the store with a passphrase prompted at startup
	Encrypted bool `toml:"encrypted"`
}

// IndexConfig contains local search index configuration.
type IndexConfig struct {
	// Enabled turns on the offline full-text index
	Enabled bool `toml:"enabled"`
	// Path is the index database location (empty = ~/.chatlore/index.db)
	Path string `toml:"path"`
}

// UIConfig contains presentation configuration.
type UIConfig struct {
	// Theme selects the color theme: "dark", "light", "auto"
	Theme string `toml:"theme"`
	// RedactByDefault shows redacted content in transcript views
	RedactByDefault bool `toml:"redact_by_default"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:     "http://localhost:8000",
			TimeoutSecs: 60,
		},
		Index: IndexConfig{
			Enabled: true,
		},
		UI: UIConfig{
			Theme: "auto",
		},
	}
}

// RequestTimeout converts the configured timeout to a duration.
func (c *Config) RequestTimeout() time.Duration {
	if c.API.TimeoutSecs < 0 {
		return -1
	}
	if c.API.TimeoutSecs == 0 {
		return 60 * time.Second
	}
	return time.Duration(c.API.TimeoutSecs) * time.Second
}

// =============================================================================
// PATHS
// =============================================================================

// AppDir returns the chatlore application directory.
func AppDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".chatlore"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := AppDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// StorePath returns the configured store file path, defaulting into the
// application directory.
func (c *Config) StorePath() (string, error) {
	if c.Store.Path != "" {
		return c.Store.Path, nil
	}
	dir, err := AppDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "chatlore.json"), nil
}

// IndexPath returns the configured index database path, defaulting into
// the application directory.
func (c *Config) IndexPath() (string, error) {
	if c.Index.Path != "" {
		return c.Index.Path, nil
	}
	dir, err := AppDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "index.db"), nil
}

// EnsureAppDir ensures the application directory exists.
func EnsureAppDir() error {
	dir, err := AppDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// =============================================================================
// LOAD AND SAVE
// =============================================================================

// Load reads the config file, applies environment overrides, and
// validates. A missing file yields defaults, not an error.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads configuration from an explicit file path.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config file: %w", err)
		}
	}
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to the default config path with
// restrictive permissions.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveToPath(cfg, path)
}

// SaveToPath writes the configuration as TOML to an explicit path.
func SaveToPath(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	fmt.Fprintln(file, "# chatlore configuration file")
	fmt.Fprintln(file, "# Generated by chatlore - edit with care")
	fmt.Fprintln(file, "")

	if err := toml.NewEncoder(file).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies CHATLORE_* environment variables on top of
// the loaded values. Environment always wins over the file.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("CHATLORE_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("CHATLORE_API_TIMEOUT_SECS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.API.TimeoutSecs = n
		}
	}
	if v := os.Getenv("CHATLORE_STORE_PATH"); v != "" {
		c.Store.Path = v
	}
	if v := os.Getenv("CHATLORE_STORE_ENCRYPTED"); v != "" {
		c.Store.Encrypted = isTruthy(v)
	}
	if v := os.Getenv("CHATLORE_INDEX_ENABLED"); v != "" {
		c.Index.Enabled = isTruthy(v)
	}
	if v := os.Getenv("CHATLORE_THEME"); v != "" {
		c.UI.Theme = v
	}
}

func isTruthy(v string) bool {
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// Validate checks the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if c.API.BaseURL == "" {
		errs = append(errs, ValidationError{Field: "api.base_url", Message: "must not be empty"})
	} else if u, err := url.Parse(c.API.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, ValidationError{Field: "api.base_url", Message: "must be an absolute http(s) URL"})
	} else if u.Scheme != "http" && u.Scheme != "https" {
		errs = append(errs, ValidationError{Field: "api.base_url", Message: "scheme must be http or https"})
	}

	switch c.UI.Theme {
	case "", "auto", "dark", "light":
	default:
		errs = append(errs, ValidationError{Field: "ui.theme", Message: "must be auto, dark, or light"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
