// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// messages.go - Bubble Tea messages and async commands.
//
// Every network or store operation runs inside a tea.Cmd so the event
// loop never blocks. Results come back as one of the *DoneMsg types.

package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/chatlore/chatlore-tui/internal/api"
	"github.com/chatlore/chatlore-tui/internal/session"
)

// sessionChangedMsg signals that the session published new state.
type sessionChangedMsg struct{}

// selectDoneMsg signals that a chat selection finished loading.
type selectDoneMsg struct {
	err error
}

// analyzeDoneMsg signals that a security analysis refresh finished.
type analyzeDoneMsg struct {
	err error
}

// searchDoneMsg delivers semantic search results.
type searchDoneMsg struct {
	query   string
	results []api.SearchResult
	err     error
}

// topicsDoneMsg delivers topic clustering results.
type topicsDoneMsg struct {
	clusters []api.TopicCluster
	err      error
}

// redactDoneMsg delivers the redacted transcript.
type redactDoneMsg struct {
	redacted []api.RedactedMessage
	err      error
}

// deleteDoneMsg signals that a chat deletion finished.
type deleteDoneMsg struct {
	err error
}

// selectChatCmd selects a chat and loads its cached state.
func selectChatCmd(sess *session.Session, chatID string) tea.Cmd {
	return func() tea.Msg {
		return selectDoneMsg{err: sess.SelectChat(chatID)}
	}
}

// analyzeCmd refreshes the security analysis for the selected chat.
func analyzeCmd(sess *session.Session) tea.Cmd {
	return func() tea.Msg {
		return analyzeDoneMsg{err: sess.RefreshAnalysis(context.Background())}
	}
}

// searchCmd runs a semantic search over the selected chat's messages.
func searchCmd(sess *session.Session, query string, limit int) tea.Cmd {
	return func() tea.Msg {
		results, err := sess.Search(context.Background(), query, limit)
		return searchDoneMsg{query: query, results: results, err: err}
	}
}

// topicsCmd clusters the selected chat's messages into topics.
func topicsCmd(client *api.Client, msgs []api.Message) tea.Cmd {
	return func() tea.Msg {
		clusters, err := client.TopicClusters(context.Background(), msgs)
		return topicsDoneMsg{clusters: clusters, err: err}
	}
}

// redactCmd fetches the redacted transcript from the backend.
func redactCmd(client *api.Client, msgs []api.Message) tea.Cmd {
	return func() tea.Msg {
		redacted, err := client.RedactedMessages(context.Background(), msgs)
		return redactDoneMsg{redacted: redacted, err: err}
	}
}

// deleteChatCmd deletes a chat and reselects the next one.
func deleteChatCmd(sess *session.Session, chatID string) tea.Cmd {
	return func() tea.Msg {
		return deleteDoneMsg{err: sess.DeleteChat(chatID)}
	}
}
