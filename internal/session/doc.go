// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session holds the live application state: the chat list, the
// selected chat, and its cached messages, analysis, and sensitive data.
//
// A Session is an explicit object constructed once at startup and passed
// by reference; there is no package-level state. Mutating operations
// (upload, select, delete, refresh) are serialized by an operation mutex,
// so at most one is in flight at a time. State reads use a separate
// short-lived lock and stay responsive while an upload is talking to the
// backend.
//
// In-memory state is published all-or-nothing: an operation that fails
// partway leaves the previously published state untouched. Local writes
// already committed by a failed operation are not rolled back; the next
// successful operation reconciles them.
package session
