// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"time"
)

// =============================================================================
// RISK LEVELS
// =============================================================================

// RiskLevel grades a security finding.
type RiskLevel string

const (
	RiskHigh   RiskLevel = "high"
	RiskMedium RiskLevel = "medium"
	RiskLow    RiskLevel = "low"
)

// String returns the string representation of the risk level.
func (r RiskLevel) String() string {
	return string(r)
}

// =============================================================================
// FINDINGS AND RECOMMENDATIONS
// =============================================================================

// Finding is one issue flagged by the security analyzer.
type Finding struct {
	Type         string    `json:"type"`
	Description  string    `json:"description,omitempty"`
	MessageIndex int       `json:"message_index,omitempty"`
	RiskLevel    RiskLevel `json:"risk_level"`
	Sender       string    `json:"sender,omitempty"`
	Timestamp    string    `json:"timestamp,omitempty"`
}

// Recommendation is an analyzer suggestion for reducing exposure.
type Recommendation struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Steps       []string `json:"steps,omitempty"`
	Priority    string   `json:"priority,omitempty"`
}

// =============================================================================
// SECURITY ANALYSIS
// =============================================================================

// SecurityAnalysis is the cached result of one analyzer run for a chat.
// At most one live analysis exists per chat; a refresh replaces it.
type SecurityAnalysis struct {
	ID        string    `json:"id"`
	ChatID    string    `json:"chat_id"`
	Timestamp time.Time `json:"timestamp"`

	// SecurityScore is 0-100, higher is safer.
	SecurityScore int `json:"security_score"`

	Findings        []Finding        `json:"findings"`
	Recommendations []Recommendation `json:"recommendations"`
}

// NewSecurityAnalysis creates an analysis record with a generated ID and
// the current instant.
func NewSecurityAnalysis(chatID string, score int, findings []Finding, recs []Recommendation) *SecurityAnalysis {
	return &SecurityAnalysis{
		ID:              NewID(),
		ChatID:          chatID,
		Timestamp:       time.Now(),
		SecurityScore:   score,
		Findings:        findings,
		Recommendations: recs,
	}
}

// CountByRisk returns how many findings carry the given risk level.
func (a *SecurityAnalysis) CountByRisk(level RiskLevel) int {
	n := 0
	for _, f := range a.Findings {
		if f.RiskLevel == level {
			n++
		}
	}
	return n
}

// ScoreGrade buckets the security score for display.
func (a *SecurityAnalysis) ScoreGrade() string {
	switch {
	case a.SecurityScore >= 80:
		return "good"
	case a.SecurityScore >= 50:
		return "fair"
	default:
		return "poor"
	}
}

// =============================================================================
// SENSITIVE DATA
// =============================================================================

// SensitiveDataItem groups detected sensitive values of one category
// (e.g. "Phone Numbers") found in a chat. Items are regenerated wholesale
// on every analysis refresh.
type SensitiveDataItem struct {
	ID     string `json:"id"`
	ChatID string `json:"chat_id"`
	Type   string `json:"type"`

	// Value is the comma-joined example list as produced by the detector.
	Value string `json:"value"`

	// MessageIDs links back to the messages the values came from.
	// The detector does not report source positions yet, so this is
	// usually empty.
	MessageIDs []string `json:"message_ids"`
}

// NewSensitiveDataItem creates an item with a generated ID, joining the
// detected example values into the stored form.
func NewSensitiveDataItem(chatID, typ string, values []string) *SensitiveDataItem {
	return &SensitiveDataItem{
		ID:     NewID(),
		ChatID: chatID,
		Type:   typ,
		Value:  strings.Join(values, ", "),
	}
}

// Values splits the stored comma-joined examples back into a slice.
func (s *SensitiveDataItem) Values() []string {
	if s.Value == "" {
		return nil
	}
	parts := strings.Split(s.Value, ", ")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
