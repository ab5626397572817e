// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export provides chat export functionality for chatlore.
// Supports exporting transcripts and security reports to Markdown and
// JSON, plus a redacted transcript variant with sensitive content
// blanked by the backend redactor.
package export
