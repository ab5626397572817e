// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package repo provides typed, entity-aware CRUD over the local table store.
//
// The repository owns the mapping between the typed entities in
// internal/model and their flat row representation: instants become Unix
// milliseconds on write and time.Time again on read; nested structures
// (findings, recommendations, message ID lists) are JSON-encoded into
// string fields and validated on read, failing explicitly on malformed
// data rather than returning garbage.
//
// Two lookups the browser client resolved by scan order are modelled as
// real 1:1 relations here: a chat's security analysis row is keyed by the
// chat ID, and a context entry by (chat ID, type), so a refresh is an
// upsert and lookups are deterministic. Sensitive data items are replaced
// wholesale per refresh instead of accumulating.
package repo
