// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// update.go - Event handling for the chatlore TUI.

package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/chatlore/chatlore-tui/internal/api"
)

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.theme.SetSize(msg.Width, msg.Height)
		w, h := m.contentSize()
		m.content.Width = w
		m.content.Height = h
		m.searchInput.Width = w - 4
		m.refreshContent()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if m.busy {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil

	case sessionChangedMsg:
		m.syncCursor()
		m.refreshContent()
		return m, nil

	case selectDoneMsg:
		m.clearBusy()
		if msg.err != nil {
			m.fail(msg.err)
			return m, nil
		}
		m.redacted = false
		m.redactedSet = nil
		m.view = viewTranscript
		m.syncCursor()
		m.refreshContent()
		return m, nil

	case analyzeDoneMsg:
		m.clearBusy()
		if msg.err != nil {
			m.fail(msg.err)
			return m, nil
		}
		m.view = viewReport
		m.status = "analysis complete"
		m.refreshContent()
		return m, nil

	case searchDoneMsg:
		m.clearBusy()
		if msg.err != nil {
			m.fail(msg.err)
			return m, nil
		}
		m.results = msg.results
		m.lastQuery = msg.query
		m.view = viewSearch
		m.refreshContent()
		return m, nil

	case topicsDoneMsg:
		m.clearBusy()
		if msg.err != nil {
			m.fail(msg.err)
			return m, nil
		}
		m.clusters = msg.clusters
		m.view = viewTopics
		m.refreshContent()
		return m, nil

	case redactDoneMsg:
		m.clearBusy()
		if msg.err != nil {
			m.fail(msg.err)
			return m, nil
		}
		m.redacted = true
		m.redactedSet = msg.redacted
		m.view = viewTranscript
		m.refreshContent()
		return m, nil

	case deleteDoneMsg:
		m.clearBusy()
		if msg.err != nil {
			m.fail(msg.err)
			return m, nil
		}
		m.status = "chat deleted"
		m.view = viewTranscript
		m.syncCursor()
		m.refreshContent()
		return m, nil
	}

	var cmd tea.Cmd
	m.content, cmd = m.content.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// handleKey routes keyboard input.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Search input captures everything while focused.
	if m.searching {
		switch msg.String() {
		case "enter":
			query := strings.TrimSpace(m.searchInput.Value())
			m.searching = false
			m.searchInput.Blur()
			if query == "" {
				return m, nil
			}
			m.setBusy("searching")
			return m, tea.Batch(searchCmd(m.sess, query, 10), m.spin.Tick)
		case "esc", "ctrl+c":
			m.searching = false
			m.searchInput.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		return m, cmd
	}

	// Delete confirmation.
	if m.confirming {
		switch msg.String() {
		case "y", "Y":
			m.confirming = false
			if chat := m.cursorChat(); chat != nil {
				m.setBusy("deleting")
				return m, tea.Batch(deleteChatCmd(m.sess, chat.ID), m.spin.Tick)
			}
			return m, nil
		default:
			m.confirming = false
			return m, nil
		}
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		if m.view == viewHelp {
			m.view = m.prevView
		} else {
			m.prevView = m.view
			m.view = viewHelp
		}
		m.refreshContent()
		return m, nil

	case key.Matches(msg, m.keys.Back):
		m.view = viewTranscript
		m.errText = ""
		m.refreshContent()
		return m, nil

	case key.Matches(msg, m.keys.NextChat):
		if chats := m.chats(); len(chats) > 0 {
			m.cursor = (m.cursor + 1) % len(chats)
		}
		return m, nil

	case key.Matches(msg, m.keys.PrevChat):
		if chats := m.chats(); len(chats) > 0 {
			m.cursor = (m.cursor - 1 + len(chats)) % len(chats)
		}
		return m, nil

	case key.Matches(msg, m.keys.Select):
		if m.busy {
			return m, nil
		}
		if chat := m.cursorChat(); chat != nil {
			m.setBusy("loading")
			return m, tea.Batch(selectChatCmd(m.sess, chat.ID), m.spin.Tick)
		}
		return m, nil

	case key.Matches(msg, m.keys.Search):
		if m.sess.Selected() == nil {
			m.errText = "select a chat first"
			return m, nil
		}
		m.searching = true
		m.searchInput.SetValue("")
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.Analyze):
		if m.busy {
			return m, nil
		}
		m.setBusy("analyzing")
		return m, tea.Batch(analyzeCmd(m.sess), m.spin.Tick)

	case key.Matches(msg, m.keys.Topics):
		if m.busy {
			return m, nil
		}
		msgs := m.sess.Messages()
		if len(msgs) == 0 {
			m.errText = "no messages to cluster"
			return m, nil
		}
		m.setBusy("clustering")
		return m, tea.Batch(topicsCmd(m.client, api.FromModels(msgs)), m.spin.Tick)

	case key.Matches(msg, m.keys.Redact):
		if m.redacted {
			m.redacted = false
			m.redactedSet = nil
			m.refreshContent()
			return m, nil
		}
		msgs := m.sess.Messages()
		if len(msgs) == 0 {
			m.errText = "no messages to redact"
			return m, nil
		}
		m.setBusy("redacting")
		return m, tea.Batch(redactCmd(m.client, api.FromModels(msgs)), m.spin.Tick)

	case key.Matches(msg, m.keys.Delete):
		if m.cursorChat() != nil {
			m.confirming = true
		}
		return m, nil
	}

	// Everything else scrolls the content pane.
	var cmd tea.Cmd
	m.content, cmd = m.content.Update(msg)
	return m, cmd
}
