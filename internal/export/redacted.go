// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"
)

// =============================================================================
// REDACTED TRANSCRIPT EXPORTER
// =============================================================================

// RedactedExporter exports a transcript with each message's content
// replaced by the backend redactor's rendering. Requires ce.Redacted.
type RedactedExporter struct {
	options *Options
}

// NewRedactedExporter creates a redacted transcript exporter.
func NewRedactedExporter(opts *Options) *RedactedExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &RedactedExporter{options: opts}
}

// Export renders the redacted transcript as Markdown.
func (e *RedactedExporter) Export(ce *ChatExport) ([]byte, error) {
	if ce == nil || ce.Chat == nil {
		return nil, fmt.Errorf("chat is nil")
	}
	if len(ce.Redacted) == 0 {
		return nil, fmt.Errorf("no redacted messages; fetch them from the backend first")
	}

	var sb strings.Builder

	if e.options.IncludeMetadata {
		sb.WriteString("---\n")
		sb.WriteString(fmt.Sprintf("title: %s (redacted)\n", escapeYAML(ce.Chat.Name)))
		sb.WriteString(fmt.Sprintf("messages: %d\n", len(ce.Redacted)))
		sb.WriteString(fmt.Sprintf("exported: %s\n", time.Now().Format(time.RFC3339)))
		sb.WriteString("generator: chatlore\n")
		sb.WriteString("---\n\n")
	}

	sb.WriteString(fmt.Sprintf("# %s (redacted)\n\n", escapeMarkdown(ce.Chat.Name)))
	sb.WriteString("## Transcript\n\n")

	for _, rm := range ce.Redacted {
		var ts time.Time
		if rm.Original.Timestamp != "" {
			if parsed, err := time.Parse(time.RFC3339, rm.Original.Timestamp); err == nil {
				ts = parsed
			}
		}
		writeMessage(&sb, rm.Original.Sender, ts, rm.RedactedContent, e.options.IncludeTimestamps)
	}

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for the redacted transcript.
func (e *RedactedExporter) FileExtension() string {
	return ".redacted.md"
}

// MimeType returns the MIME type for Markdown.
func (e *RedactedExporter) MimeType() string {
	return "text/markdown"
}
