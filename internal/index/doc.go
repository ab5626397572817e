// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package index provides a local full-text search index over cached chat
// messages, so transcripts stay searchable when the processing backend is
// unreachable.
//
// The index is a SQLite database with an FTS5 virtual table kept in sync
// by triggers. It is rebuilt per chat on upload and pruned on delete; it
// is derived data and can always be regenerated from the store.
package index
