// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for chatlore.
//
// Configuration is TOML at ~/.chatlore/config.toml with sensible defaults,
// CHATLORE_* environment variable overrides, and validation.
package config
