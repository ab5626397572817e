// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.API.BaseURL != "http://localhost:8000" {
		t.Errorf("base URL = %q", cfg.API.BaseURL)
	}
	if cfg.RequestTimeout() != 60*time.Second {
		t.Errorf("timeout = %v", cfg.RequestTimeout())
	}
	if !cfg.Index.Enabled {
		t.Error("index should default on")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults fail validation: %v", err)
	}
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.API.BaseURL != "http://localhost:8000" {
		t.Errorf("base URL = %q", cfg.API.BaseURL)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := Default()
	cfg.API.BaseURL = "http://example.com:9000"
	cfg.API.TimeoutSecs = 120
	cfg.Store.Encrypted = true
	cfg.UI.Theme = "dark"
	if err := SaveToPath(cfg, path); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.API.BaseURL != "http://example.com:9000" {
		t.Errorf("base URL = %q", loaded.API.BaseURL)
	}
	if loaded.API.TimeoutSecs != 120 {
		t.Errorf("timeout = %d", loaded.API.TimeoutSecs)
	}
	if !loaded.Store.Encrypted {
		t.Error("encrypted flag lost")
	}
	if loaded.UI.Theme != "dark" {
		t.Errorf("theme = %q", loaded.UI.Theme)
	}
}

func TestSavePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := SaveToPath(Default(), path); err != nil {
		t.Fatalf("save: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("permissions = %o, want 0600", perm)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CHATLORE_API_URL", "http://override:7000")
	t.Setenv("CHATLORE_API_TIMEOUT_SECS", "5")
	t.Setenv("CHATLORE_INDEX_ENABLED", "false")
	t.Setenv("CHATLORE_THEME", "light")

	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.API.BaseURL != "http://override:7000" {
		t.Errorf("base URL = %q", cfg.API.BaseURL)
	}
	if cfg.API.TimeoutSecs != 5 {
		t.Errorf("timeout = %d", cfg.API.TimeoutSecs)
	}
	if cfg.Index.Enabled {
		t.Error("index override ignored")
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("theme = %q", cfg.UI.Theme)
	}
}

func TestValidateRejectsBadURL(t *testing.T) {
	cfg := Default()
	cfg.API.BaseURL = "not a url"
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error")
	}

	cfg.API.BaseURL = "ftp://example.com"
	if err := cfg.Validate(); err == nil {
		t.Error("expected scheme validation error")
	}
}

func TestValidateRejectsBadTheme(t *testing.T) {
	cfg := Default()
	cfg.UI.Theme = "solarized"
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error")
	}
}

func TestNegativeTimeoutDisables(t *testing.T) {
	cfg := Default()
	cfg.API.TimeoutSecs = -1
	if cfg.RequestTimeout() >= 0 {
		t.Errorf("timeout = %v, want negative sentinel", cfg.RequestTimeout())
	}
}
