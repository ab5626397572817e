// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chats, messages, and
// security analysis results.
//
// All entities are identified by opaque UUID strings generated client-side.
// The repository layer (internal/repo) owns the mapping between these typed
// structures and their flat row representation in the local table store;
// this package deliberately knows nothing about persistence.
//
// # Entity Relationships
//
//	Chat 1──* Message
//	Chat 1──1 SecurityAnalysis   (latest analysis wins)
//	Chat 1──* SensitiveDataItem  (replaced wholesale on each refresh)
//	Chat 1──* ContextData        (keyed by chat + type)
package model
