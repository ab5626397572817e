// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/chatlore/chatlore-tui/internal/model"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter exports chats to Markdown: transcript first, then the
// security report when one is cached.
type MarkdownExporter struct {
	options *Options
}

// NewMarkdownExporter creates a new Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MarkdownExporter{options: opts}
}

// Export converts a chat to Markdown format.
func (e *MarkdownExporter) Export(ce *ChatExport) ([]byte, error) {
	if ce == nil || ce.Chat == nil {
		return nil, fmt.Errorf("chat is nil")
	}
	if len(ce.Messages) == 0 {
		return nil, fmt.Errorf("chat has no messages")
	}

	var sb strings.Builder

	if e.options.IncludeMetadata {
		sb.WriteString("---\n")
		sb.WriteString(fmt.Sprintf("title: %s\n", escapeYAML(ce.Chat.Name)))
		sb.WriteString(fmt.Sprintf("uploaded: %s\n", ce.Chat.UploadDate.Format(time.RFC3339)))
		sb.WriteString(fmt.Sprintf("messages: %d\n", len(ce.Messages)))
		sb.WriteString(fmt.Sprintf("exported: %s\n", time.Now().Format(time.RFC3339)))
		sb.WriteString("generator: chatlore\n")
		sb.WriteString("---\n\n")
	}

	sb.WriteString(fmt.Sprintf("# %s\n\n", escapeMarkdown(ce.Chat.Name)))

	e.writeTranscript(&sb, ce.Messages)

	if e.options.IncludeAnalysis && ce.Analysis != nil {
		WriteSecurityReport(&sb, ce.Analysis, ce.Sensitive)
	}

	return []byte(sb.String()), nil
}

func (e *MarkdownExporter) writeTranscript(sb *strings.Builder, msgs []*model.Message) {
	sb.WriteString("## Transcript\n\n")
	for _, m := range msgs {
		writeMessage(sb, m.Sender, m.Timestamp, messageBody(m), e.options.IncludeTimestamps)
	}
}

func messageBody(m *model.Message) string {
	if m.Content == "" && m.Type != model.TypeText {
		return m.Type.DisplayLabel()
	}
	body := m.Content
	if m.Type.IsCall() && m.Duration != "" {
		body += " (" + m.Duration + ")"
	}
	return body
}

func writeMessage(sb *strings.Builder, sender string, ts time.Time, body string, withTimestamp bool) {
	if withTimestamp && !ts.IsZero() {
		sb.WriteString(fmt.Sprintf("**%s** _%s_\n\n", escapeMarkdown(sender), formatTimestamp(ts)))
	} else {
		sb.WriteString(fmt.Sprintf("**%s**\n\n", escapeMarkdown(sender)))
	}
	sb.WriteString(body)
	sb.WriteString("\n\n")
}

// FileExtension returns the file extension for Markdown.
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

// MimeType returns the MIME type for Markdown.
func (e *MarkdownExporter) MimeType() string {
	return "text/markdown"
}

// =============================================================================
// SECURITY REPORT
// =============================================================================

// WriteSecurityReport renders the cached analysis as Markdown sections.
// Shared with the TUI, which feeds the result through glamour.
func WriteSecurityReport(sb *strings.Builder, a *model.SecurityAnalysis, sensitive []*model.SensitiveDataItem) {
	sb.WriteString("## Security Report\n\n")
	sb.WriteString(fmt.Sprintf("- **Score**: %d/100 (%s)\n", a.SecurityScore, a.ScoreGrade()))
	if !a.Timestamp.IsZero() {
		sb.WriteString(fmt.Sprintf("- **Analyzed**: %s\n", formatTimestamp(a.Timestamp)))
	}
	sb.WriteString(fmt.Sprintf("- **Findings**: %d high, %d medium, %d low\n\n",
		a.CountByRisk(model.RiskHigh), a.CountByRisk(model.RiskMedium), a.CountByRisk(model.RiskLow)))

	if len(a.Findings) > 0 {
		sb.WriteString("### Findings\n\n")
		for _, f := range a.Findings {
			sb.WriteString(fmt.Sprintf("- **[%s]** %s", strings.ToUpper(f.RiskLevel.String()), escapeMarkdown(f.Type)))
			if f.Description != "" {
				sb.WriteString(": " + escapeMarkdown(f.Description))
			}
			if f.Sender != "" {
				sb.WriteString(fmt.Sprintf(" (%s)", escapeMarkdown(f.Sender)))
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	if len(a.Recommendations) > 0 {
		sb.WriteString("### Recommendations\n\n")
		for _, r := range a.Recommendations {
			sb.WriteString(fmt.Sprintf("- **%s**", escapeMarkdown(r.Title)))
			if r.Description != "" {
				sb.WriteString(": " + escapeMarkdown(r.Description))
			}
			sb.WriteString("\n")
			for _, step := range r.Steps {
				sb.WriteString("  - " + escapeMarkdown(step) + "\n")
			}
		}
		sb.WriteString("\n")
	}

	if len(sensitive) > 0 {
		sb.WriteString("### Sensitive Data\n\n")
		for _, item := range sensitive {
			sb.WriteString(fmt.Sprintf("- **%s**: %s\n", escapeMarkdown(item.Type), escapeMarkdown(item.Value)))
		}
		sb.WriteString("\n")
	}
}

// =============================================================================
// FORMAT HELPERS
// =============================================================================

func formatTimestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}

// escapeMarkdown escapes characters that would change Markdown structure.
func escapeMarkdown(s string) string {
	replacer := strings.NewReplacer(
		"*", "\\*",
		"_", "\\_",
		"`", "\\`",
		"#", "\\#",
		"[", "\\[",
		"]", "\\]",
	)
	return replacer.Replace(s)
}

// escapeYAML quotes a string for a YAML frontmatter value when needed.
func escapeYAML(s string) string {
	if strings.ContainsAny(s, ":#{}[]&*!|>'\"%@`") || strings.TrimSpace(s) != s {
		return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
	}
	return s
}
