// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// styles.go - Centralized styling for all CLI commands in chatlore.
//
// Colors are automatically disabled for non-TTY output and respect the
// NO_COLOR and FORCE_COLOR environment variables.
package cli

import (
	"github.com/charmbracelet/lipgloss"
)

func init() {
	lipgloss.SetColorProfile(GetColorProfile())
}

// =============================================================================
// SHARED STYLES FOR ALL CLI COMMANDS
// =============================================================================

var (
	// TitleStyle is used for command titles and headers
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")). // Cyan
			MarginBottom(1)

	// SectionStyle is used for section headers within commands
	SectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("255")). // White
			MarginTop(1)

	// LabelStyle is used for field labels
	LabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")). // Light gray
			Width(16)

	// SenderStyle highlights message senders
	SenderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")) // Pink

	// TimestampStyle dims message timestamps
	TimestampStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // Dark gray

	// SuccessStyle marks successful operations
	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")) // Green

	// WarningStyle marks warnings
	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // Orange

	// ErrorStyle marks errors
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")) // Red

	// RiskHighStyle, RiskMediumStyle, RiskLowStyle grade findings
	RiskHighStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")) // Red

	RiskMediumStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // Orange

	RiskLowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")) // Gray

	// PromptStyle is used for interactive prompts
	PromptStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")) // Cyan
)

// riskStyle returns the style matching a risk level string.
func riskStyle(level string) lipgloss.Style {
	switch level {
	case "high":
		return RiskHighStyle
	case "medium":
		return RiskMediumStyle
	default:
		return RiskLowStyle
	}
}
