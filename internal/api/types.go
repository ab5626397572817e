// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"encoding/json"
	"time"

	"github.com/chatlore/chatlore-tui/internal/model"
)

// =============================================================================
// WIRE MESSAGE
// =============================================================================

// Message is the wire shape shared by every backend endpoint. Timestamps
// travel as ISO-8601 strings, field names as snake_case.
type Message struct {
	ID              string `json:"id,omitempty"`
	Timestamp       string `json:"timestamp"`
	Sender          string `json:"sender"`
	Content         string `json:"content"`
	MessageType     string `json:"message_type"`
	Duration        string `json:"duration,omitempty"`
	URL             string `json:"url,omitempty"`
	Language        string `json:"language,omitempty"`
	IsSystemMessage bool   `json:"is_system_message"`
}

// FromModel converts a stored message to its wire form.
func FromModel(m *model.Message) Message {
	wire := Message{
		ID:              m.ID,
		Sender:          m.Sender,
		Content:         m.Content,
		MessageType:     string(m.Type),
		Duration:        m.Duration,
		URL:             m.URL,
		Language:        m.Language,
		IsSystemMessage: m.IsSystemMessage,
	}
	if !m.Timestamp.IsZero() {
		wire.Timestamp = m.Timestamp.UTC().Format(time.RFC3339)
	}
	return wire
}

// FromModels converts a message slice to wire form, preserving order.
func FromModels(msgs []*model.Message) []Message {
	out := make([]Message, len(msgs))
	for i, m := range msgs {
		out[i] = FromModel(m)
	}
	return out
}

// ToModel converts a wire message into a stored message for the given
// chat. An unparseable timestamp yields the zero time; the message is
// kept rather than dropped so transcripts stay complete.
func (m Message) ToModel(chatID string) *model.Message {
	msg := &model.Message{
		ID:              m.ID,
		ChatID:          chatID,
		Sender:          m.Sender,
		Content:         m.Content,
		Type:            model.MessageType(m.MessageType),
		Duration:        m.Duration,
		URL:             m.URL,
		Language:        m.Language,
		IsSystemMessage: m.IsSystemMessage,
	}
	if m.Timestamp != "" {
		if ts, err := parseTimestamp(m.Timestamp); err == nil {
			msg.Timestamp = ts
		}
	}
	return msg
}

// parseTimestamp accepts the formats the parser backend has been seen to
// emit. RFC 3339 first, then the fraction-less Python isoformat.
func parseTimestamp(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	return time.Parse("2006-01-02T15:04:05", s)
}

// =============================================================================
// CHAT PROCESSING
// =============================================================================

// ProcessChatRequest carries a raw transcript for parsing.
type ProcessChatRequest struct {
	ChatText string `json:"chat_text"`
}

// ProcessChatResponse is the parsed transcript. Statistics is kept as raw
// JSON; it is cached verbatim as parser context, never interpreted here.
type ProcessChatResponse struct {
	Messages      []Message       `json:"messages"`
	TotalMessages int             `json:"total_messages"`
	Statistics    json.RawMessage `json:"statistics,omitempty"`
}

// =============================================================================
// SECURITY ANALYSIS
// =============================================================================

// AnalyzeRequest asks for a security analysis over the given messages.
type AnalyzeRequest struct {
	Messages []Message `json:"messages"`
}

// WireFinding mirrors one analyzer finding on the wire.
type WireFinding struct {
	Type         string `json:"type"`
	Description  string `json:"description,omitempty"`
	MessageIndex int    `json:"message_index,omitempty"`
	RiskLevel    string `json:"risk_level"`
	Sender       string `json:"sender,omitempty"`
	Timestamp    string `json:"timestamp,omitempty"`
}

// WireRecommendation mirrors one analyzer recommendation on the wire.
type WireRecommendation struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Steps       []string `json:"steps,omitempty"`
	Priority    string   `json:"priority,omitempty"`
}

// RiskLevelCounts buckets findings per severity.
type RiskLevelCounts struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// AnalyzeResponse is the full analyzer result.
type AnalyzeResponse struct {
	SecurityScore   int                  `json:"security_score"`
	TotalFindings   int                  `json:"total_findings"`
	Findings        []WireFinding        `json:"findings"`
	RiskLevels      RiskLevelCounts      `json:"risk_levels"`
	Recommendations []WireRecommendation `json:"recommendations"`
}

// ToModel converts the response into a stored analysis record for a chat.
func (r *AnalyzeResponse) ToModel(chatID string) *model.SecurityAnalysis {
	findings := make([]model.Finding, len(r.Findings))
	for i, f := range r.Findings {
		findings[i] = model.Finding{
			Type:         f.Type,
			Description:  f.Description,
			MessageIndex: f.MessageIndex,
			RiskLevel:    model.RiskLevel(f.RiskLevel),
			Sender:       f.Sender,
			Timestamp:    f.Timestamp,
		}
	}
	recs := make([]model.Recommendation, len(r.Recommendations))
	for i, rec := range r.Recommendations {
		recs[i] = model.Recommendation{
			Title:       rec.Title,
			Description: rec.Description,
			Steps:       rec.Steps,
			Priority:    rec.Priority,
		}
	}
	return model.NewSecurityAnalysis(chatID, r.SecurityScore, findings, recs)
}

// SensitiveDataResponse maps a category label ("Phone Numbers", "Email
// Addresses", ...) to the example values found for it.
type SensitiveDataResponse map[string][]string

// RedactedMessage pairs an original message with its redacted content.
type RedactedMessage struct {
	Original        Message `json:"original"`
	RedactedContent string  `json:"redacted_content"`
}

// =============================================================================
// SEARCH
// =============================================================================

// SemanticSearchRequest carries a free-text query plus the candidate
// messages. Zero-valued optional fields are omitted and the backend
// applies its defaults.
type SemanticSearchRequest struct {
	Query           string    `json:"query"`
	Messages        []Message `json:"messages"`
	MinSimilarity   float64   `json:"min_similarity,omitempty"`
	Limit           int       `json:"limit,omitempty"`
	WithExplanation bool      `json:"with_explanation,omitempty"`
}

// SimilarMessagesRequest asks for messages similar to a reference message.
type SimilarMessagesRequest struct {
	Message  Message   `json:"message"`
	Messages []Message `json:"messages"`
	Limit    int       `json:"limit,omitempty"`
}

// SearchContext is the surrounding conversation for a search hit.
type SearchContext struct {
	Before []string `json:"before"`
	After  []string `json:"after"`
}

// SearchResult is one semantic search hit.
type SearchResult struct {
	Message     Message       `json:"message"`
	Similarity  float64       `json:"similarity"`
	Context     SearchContext `json:"context"`
	Explanation string        `json:"explanation,omitempty"`
}

// TopicCluster groups thematically related messages.
type TopicCluster struct {
	TopicID  int       `json:"topic_id"`
	Messages []Message `json:"messages"`
	Summary  string    `json:"summary"`
}
