// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui implements the chatlore terminal interface.
//
// The interface is a Bubble Tea program with a chat sidebar on the left
// and a content pane on the right. The content pane switches between the
// transcript, the security report, search results, and topic clusters.
// All persistent state changes flow through the session layer; the UI
// never touches the repository directly.
package ui
