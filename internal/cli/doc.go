// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the chatlore command line surface: argument
// parsing, command handlers, shared output styling, and the interactive
// search prompt. Bare invocation hands off to the TUI; every handler is
// also usable from scripts via the --json flag.
package cli
