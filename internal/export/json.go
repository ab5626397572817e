// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"fmt"

	"github.com/chatlore/chatlore-tui/internal/model"
)

// =============================================================================
// JSON EXPORTER
// =============================================================================

// JSONExporter exports chats to JSON format.
// NOTE: JSON exports always include the complete cached data and do not
// respect filtering options, so the output is a faithful dump that can be
// processed by other tools.
type JSONExporter struct {
	options *Options
}

// NewJSONExporter creates a new JSON exporter. The options parameter is
// accepted for consistency with other exporters.
func NewJSONExporter(opts *Options) *JSONExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &JSONExporter{options: opts}
}

// jsonDocument is the export envelope.
type jsonDocument struct {
	Chat      *model.Chat                `json:"chat"`
	Messages  []*model.Message           `json:"messages"`
	Analysis  *model.SecurityAnalysis    `json:"security_analysis,omitempty"`
	Sensitive []*model.SensitiveDataItem `json:"sensitive_data,omitempty"`
}

// Export converts a chat to JSON format.
func (e *JSONExporter) Export(ce *ChatExport) ([]byte, error) {
	if ce == nil || ce.Chat == nil {
		return nil, fmt.Errorf("chat is nil")
	}
	return json.MarshalIndent(jsonDocument{
		Chat:      ce.Chat,
		Messages:  ce.Messages,
		Analysis:  ce.Analysis,
		Sensitive: ce.Sensitive,
	}, "", "  ")
}

// FileExtension returns the file extension for JSON.
func (e *JSONExporter) FileExtension() string {
	return ".json"
}

// MimeType returns the MIME type for JSON.
func (e *JSONExporter) MimeType() string {
	return "application/json"
}
