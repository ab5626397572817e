// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - Show and edit chatlore configuration.

package cli

import (
	"fmt"
	"strconv"

	"github.com/chatlore/chatlore-tui/internal/config"
)

// HandleConfig shows or modifies the configuration file.
//
// Usage:
//
//	chatlore config               Show current configuration
//	chatlore config path          Print the config file location
//	chatlore config set KEY VALUE Set a value and save
func HandleConfig(args []string) error {
	p := NewArgParser(args)
	jsonMode := p.BoolFlag("json")

	switch p.Positional(0) {
	case "", "show":
		return configShow(jsonMode)
	case "path":
		path, err := config.ConfigPath()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	case "set":
		return configSet(p.Positional(1), p.Positional(2))
	default:
		return ErrMissingArgument("subcommand", "chatlore config [show|path|set]")
	}
}

func configShow(jsonMode bool) error {
	cfg, err := config.Load()
	if err != nil {
		return WrapError(err, "failed to load config")
	}

	if jsonMode {
		OutputJSON("config", cfg)
		return nil
	}

	path, _ := config.ConfigPath()
	storePath, _ := cfg.StorePath()
	indexPath, _ := cfg.IndexPath()
	fmt.Println(TitleStyle.Render("Configuration"))
	fmt.Printf("%s%s\n", LabelStyle.Render("File"), path)
	fmt.Printf("%s%s\n", LabelStyle.Render("api.base_url"), cfg.API.BaseURL)
	fmt.Printf("%s%d\n", LabelStyle.Render("api.timeout_secs"), cfg.API.TimeoutSecs)
	fmt.Printf("%s%s\n", LabelStyle.Render("store.path"), storePath)
	fmt.Printf("%s%t\n", LabelStyle.Render("store.encrypted"), cfg.Store.Encrypted)
	fmt.Printf("%s%t\n", LabelStyle.Render("index.enabled"), cfg.Index.Enabled)
	fmt.Printf("%s%s\n", LabelStyle.Render("index.path"), indexPath)
	fmt.Printf("%s%s\n", LabelStyle.Render("ui.theme"), cfg.UI.Theme)
	fmt.Printf("%s%t\n", LabelStyle.Render("ui.redact_by_default"), cfg.UI.RedactByDefault)
	return nil
}

func configSet(key, value string) error {
	if key == "" || value == "" {
		return ErrMissingArgument("key/value", "chatlore config set api.base_url http://localhost:8000")
	}

	cfg, err := config.Load()
	if err != nil {
		return WrapError(err, "failed to load config")
	}

	switch key {
	case "api.base_url":
		cfg.API.BaseURL = value
	case "api.timeout_secs":
		n, err := strconv.Atoi(value)
		if err != nil {
			return &ValidationError{Field: key, Value: value, Reason: "must be an integer"}
		}
		cfg.API.TimeoutSecs = n
	case "store.path":
		cfg.Store.Path = value
	case "store.encrypted":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return &ValidationError{Field: key, Value: value, Reason: "must be true or false"}
		}
		cfg.Store.Encrypted = b
	case "index.enabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return &ValidationError{Field: key, Value: value, Reason: "must be true or false"}
		}
		cfg.Index.Enabled = b
	case "index.path":
		cfg.Index.Path = value
	case "ui.theme":
		cfg.UI.Theme = value
	case "ui.redact_by_default":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return &ValidationError{Field: key, Value: value, Reason: "must be true or false"}
		}
		cfg.UI.RedactByDefault = b
	default:
		return &ValidationError{
			Field:   "key",
			Value:   key,
			Reason:  "unknown config key",
			Example: "api.base_url, api.timeout_secs, store.path, store.encrypted, index.enabled, index.path, ui.theme, ui.redact_by_default",
		}
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return WrapError(err, "failed to save config")
	}

	fmt.Printf("%s %s = %s\n", SuccessStyle.Render("[OK]"), key, value)
	return nil
}
