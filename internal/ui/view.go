// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// view.go - Rendering for the chatlore TUI.

package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/chatlore/chatlore-tui/internal/export"
	"github.com/chatlore/chatlore-tui/internal/model"
)

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 {
		return "loading..."
	}

	sidebar := m.renderSidebar()
	content := m.content.View()

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		m.theme.Sidebar.Height(m.content.Height).Render(sidebar),
		m.theme.Transcript.Render(content),
	)

	var bottom string
	if m.searching {
		bottom = m.theme.InputContainer.Width(m.width - 2).Render(m.searchInput.View())
	} else {
		bottom = m.renderStatusBar()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		body,
		bottom,
	)
}

// renderHeader draws the top title bar.
func (m *Model) renderHeader() string {
	title := m.theme.HeaderTitle.Render("chatlore")
	sub := ""
	if chat := m.sess.Selected(); chat != nil {
		sub = m.theme.HeaderSubtitle.Render(
			fmt.Sprintf("  %s (%d messages)", chat.Name, chat.MessageCount))
	}
	return m.theme.Header.Width(m.width).Render(title + sub)
}

// renderSidebar draws the chat list.
func (m *Model) renderSidebar() string {
	var sb strings.Builder
	sb.WriteString(m.theme.SidebarTitle.Render("Chats"))
	sb.WriteString("\n")

	chats := m.chats()
	if len(chats) == 0 {
		sb.WriteString(m.theme.ChatMeta.Render("no chats yet"))
		return sb.String()
	}

	selected := m.sess.Selected()
	for i, c := range chats {
		name := runewidth.Truncate(c.Name, sidebarWidth-4, "...")
		line := name
		if selected != nil && selected.ID == c.ID {
			line = "* " + line
		} else {
			line = "  " + line
		}

		style := m.theme.ChatItem
		if i == m.cursor {
			style = m.theme.ChatItemSelected
		}
		sb.WriteString(style.Render(line))
		sb.WriteString("\n")
		sb.WriteString(m.theme.ChatMeta.Render(
			fmt.Sprintf("    %s - %d msgs", c.UploadDate.Format("Jan 2"), c.MessageCount)))
		sb.WriteString("\n")
	}
	return sb.String()
}

// renderStatusBar draws the bottom status line.
func (m *Model) renderStatusBar() string {
	var left string
	switch {
	case m.confirming:
		left = m.theme.WarningStyle.Render("delete this chat? (y/N)")
	case m.busy:
		left = m.spin.View() + " " + m.busyLabel
	case m.errText != "":
		left = m.theme.ErrorStyle.Render("[X] " + m.errText)
	case m.status != "":
		left = m.status
	}

	var hints []string
	for _, b := range m.keys.ShortHelp() {
		hints = append(hints,
			m.theme.ShortcutKey.Render(b.Help().Key)+" "+
				m.theme.ShortcutDesc.Render(b.Help().Desc))
	}
	right := strings.Join(hints, "  ")

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return m.theme.StatusBar.Width(m.width).Render(
		left + strings.Repeat(" ", gap) + right)
}

// refreshContent rebuilds the content pane for the active view.
func (m *Model) refreshContent() {
	switch m.view {
	case viewReport:
		m.content.SetContent(m.renderReport())
	case viewSearch:
		m.content.SetContent(m.renderSearchResults())
	case viewTopics:
		m.content.SetContent(m.renderTopics())
	case viewHelp:
		m.content.SetContent(m.renderHelp())
	default:
		m.content.SetContent(m.renderTranscript())
		m.content.GotoBottom()
	}
}

// renderTranscript draws the selected chat's messages.
func (m *Model) renderTranscript() string {
	if m.redacted && len(m.redactedSet) > 0 {
		var sb strings.Builder
		sb.WriteString(m.theme.SensitiveTag.Render("redacted view"))
		sb.WriteString("\n\n")
		for _, rm := range m.redactedSet {
			sb.WriteString(fmt.Sprintf("%s %s: %s\n",
				m.theme.Timestamp.Render(rm.Original.Timestamp),
				m.theme.SenderStyle(rm.Original.Sender).Render(rm.Original.Sender),
				rm.RedactedContent))
		}
		return sb.String()
	}

	msgs := m.sess.Messages()
	if len(msgs) == 0 {
		if m.sess.Selected() == nil {
			return m.theme.ChatMeta.Render("No chat selected. Upload one with: chatlore upload <file>")
		}
		return m.theme.ChatMeta.Render("This chat has no messages.")
	}

	var sb strings.Builder
	for _, msg := range msgs {
		ts := m.theme.Timestamp.Render(msg.Timestamp.Format("2006-01-02 15:04"))
		if msg.IsSystemMessage {
			sb.WriteString(fmt.Sprintf("%s %s\n", ts, m.theme.SystemMessage.Render(msg.Content)))
			continue
		}
		body := msg.Content
		if body == "" && msg.Type != model.TypeText {
			body = m.theme.MediaLabel.Render(msg.Type.DisplayLabel())
		}
		sb.WriteString(fmt.Sprintf("%s %s: %s\n",
			ts, m.theme.SenderStyle(msg.Sender).Render(msg.Sender), body))
	}
	return sb.String()
}

// renderReport draws the cached security report through glamour.
func (m *Model) renderReport() string {
	analysis := m.sess.Analysis()
	if analysis == nil {
		return m.theme.ChatMeta.Render("No analysis yet. Press 'a' to analyze this chat.")
	}

	var md strings.Builder
	export.WriteSecurityReport(&md, analysis, m.sess.SensitiveItems())

	w, _ := m.contentSize()
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(w-2),
	)
	if err != nil {
		return md.String()
	}
	out, err := r.Render(md.String())
	if err != nil {
		return md.String()
	}
	return out
}

// renderSearchResults draws the last semantic search.
func (m *Model) renderSearchResults() string {
	var sb strings.Builder
	sb.WriteString(m.theme.SidebarTitle.Render(fmt.Sprintf("Search: %q", m.lastQuery)))
	sb.WriteString("\n\n")

	if len(m.results) == 0 {
		sb.WriteString(m.theme.ChatMeta.Render("No matches."))
		return sb.String()
	}

	for i, r := range m.results {
		sb.WriteString(fmt.Sprintf("%d. %s %s: %s %s\n",
			i+1,
			m.theme.Timestamp.Render(r.Message.Timestamp),
			m.theme.SenderStyle(r.Message.Sender).Render(r.Message.Sender),
			m.theme.SearchHit.Render(r.Message.Content),
			m.theme.Timestamp.Render(fmt.Sprintf("(%.0f%%)", r.Similarity*100))))
		for _, b := range r.Context.Before {
			sb.WriteString(m.theme.SearchContext.Render("     ^ " + b))
			sb.WriteString("\n")
		}
		for _, a := range r.Context.After {
			sb.WriteString(m.theme.SearchContext.Render("     v " + a))
			sb.WriteString("\n")
		}
		if r.Explanation != "" {
			sb.WriteString("     " + r.Explanation + "\n")
		}
	}
	return sb.String()
}

// renderTopics draws the topic clusters.
func (m *Model) renderTopics() string {
	var sb strings.Builder
	sb.WriteString(m.theme.SidebarTitle.Render("Topics"))
	sb.WriteString("\n\n")

	if len(m.clusters) == 0 {
		sb.WriteString(m.theme.ChatMeta.Render("No topics found."))
		return sb.String()
	}

	for _, c := range m.clusters {
		sb.WriteString(m.theme.HeaderTitle.Render(
			fmt.Sprintf("Topic %d (%d messages)", c.TopicID, len(c.Messages))))
		sb.WriteString("\n")
		if c.Summary != "" {
			sb.WriteString("  " + c.Summary + "\n")
		}
		for i, msg := range c.Messages {
			if i >= 3 {
				sb.WriteString(m.theme.ChatMeta.Render(
					fmt.Sprintf("  ... and %d more\n", len(c.Messages)-i)))
				break
			}
			sb.WriteString(fmt.Sprintf("  %s: %s\n",
				m.theme.SenderStyle(msg.Sender).Render(msg.Sender),
				runewidth.Truncate(msg.Content, 70, "...")))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// renderHelp draws the full keybinding reference.
func (m *Model) renderHelp() string {
	var sb strings.Builder
	sb.WriteString(m.theme.SidebarTitle.Render("Keyboard Shortcuts"))
	sb.WriteString("\n\n")
	for _, group := range m.keys.FullHelp() {
		for _, b := range group {
			sb.WriteString(fmt.Sprintf("  %s  %s\n",
				m.theme.ShortcutKey.Render(runewidth.FillRight(b.Help().Key, 10)),
				m.theme.ShortcutDesc.Render(b.Help().Desc)))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
