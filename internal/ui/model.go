// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// model.go - The root Bubble Tea model for the chatlore TUI.

package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/chatlore/chatlore-tui/internal/api"
	"github.com/chatlore/chatlore-tui/internal/model"
	"github.com/chatlore/chatlore-tui/internal/session"
	"github.com/chatlore/chatlore-tui/internal/ui/styles"
)

// view identifies what the content pane is showing.
type view int

const (
	viewTranscript view = iota
	viewReport
	viewSearch
	viewTopics
	viewHelp
)

const sidebarWidth = 30

// Model is the root Bubble Tea model.
type Model struct {
	theme  *styles.Theme
	sess   *session.Session
	client *api.Client
	keys   KeyMap

	// Layout
	width  int
	height int

	// Components
	content     viewport.Model
	searchInput textinput.Model
	spin        spinner.Model

	// State
	view        view
	prevView    view
	cursor      int
	busy        bool
	busyLabel   string
	status      string
	errText     string
	searching   bool
	confirming  bool
	redacted    bool
	redactedSet []api.RedactedMessage
	results     []api.SearchResult
	lastQuery   string
	clusters    []api.TopicCluster
}

// New creates the root model around an already-loaded session.
func New(theme *styles.Theme, sess *session.Session, client *api.Client) *Model {
	input := textinput.New()
	input.Placeholder = "search this chat..."
	input.Prompt = "/ "
	input.PromptStyle = theme.InputPrompt
	input.PlaceholderStyle = theme.InputPlaceholder
	input.CharLimit = 200

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Spinner

	m := &Model{
		theme:       theme,
		sess:        sess,
		client:      client,
		keys:        DefaultKeyMap(),
		content:     viewport.New(0, 0),
		searchInput: input,
		spin:        sp,
	}
	m.syncCursor()
	return m
}

// SessionChanged builds the message main wires into Session.Subscribe so
// external updates repaint the interface.
func SessionChanged() tea.Msg {
	return sessionChangedMsg{}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.spin.Tick
}

// chats returns the session's chat list.
func (m *Model) chats() []*model.Chat {
	return m.sess.Chats()
}

// cursorChat returns the chat under the sidebar cursor.
func (m *Model) cursorChat() *model.Chat {
	chats := m.chats()
	if m.cursor < 0 || m.cursor >= len(chats) {
		return nil
	}
	return chats[m.cursor]
}

// syncCursor moves the sidebar cursor to the session's selected chat.
func (m *Model) syncCursor() {
	selected := m.sess.Selected()
	if selected == nil {
		m.cursor = 0
		return
	}
	for i, c := range m.chats() {
		if c.ID == selected.ID {
			m.cursor = i
			return
		}
	}
	m.cursor = 0
}

// setBusy marks a background operation in flight.
func (m *Model) setBusy(label string) {
	m.busy = true
	m.busyLabel = label
	m.errText = ""
}

// clearBusy ends the in-flight marker.
func (m *Model) clearBusy() {
	m.busy = false
	m.busyLabel = ""
}

// fail records an operation error for the status bar.
func (m *Model) fail(err error) {
	m.clearBusy()
	if err != nil {
		m.errText = err.Error()
	}
}

// contentSize returns the dimensions available for the content pane.
func (m *Model) contentSize() (int, int) {
	w := m.width - sidebarWidth - 3
	if w < 20 {
		w = 20
	}
	h := m.height - 4
	if h < 5 {
		h = 5
	}
	return w, h
}
