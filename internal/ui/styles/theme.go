// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"hash/fnv"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// APPLICATION CONTAINER STYLES
	// ==========================================================================

	App       lipgloss.Style
	Container lipgloss.Style

	// ==========================================================================
	// HEADER AND STATUS BAR STYLES
	// ==========================================================================

	Header         lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style
	StatusBar      lipgloss.Style
	ShortcutKey    lipgloss.Style
	ShortcutDesc   lipgloss.Style

	// ==========================================================================
	// CHAT SIDEBAR STYLES
	// ==========================================================================

	Sidebar          lipgloss.Style
	SidebarTitle     lipgloss.Style
	ChatItem         lipgloss.Style
	ChatItemSelected lipgloss.Style
	ChatMeta         lipgloss.Style

	// ==========================================================================
	// TRANSCRIPT STYLES
	// ==========================================================================

	Transcript    lipgloss.Style
	Timestamp     lipgloss.Style
	SystemMessage lipgloss.Style
	MediaLabel    lipgloss.Style

	// ==========================================================================
	// SECURITY REPORT STYLES
	// ==========================================================================

	ReportPane   lipgloss.Style
	ScoreGood    lipgloss.Style
	ScoreFair    lipgloss.Style
	ScorePoor    lipgloss.Style
	RiskHigh     lipgloss.Style
	RiskMedium   lipgloss.Style
	RiskLow      lipgloss.Style
	SensitiveTag lipgloss.Style

	// ==========================================================================
	// SEARCH AND INPUT STYLES
	// ==========================================================================

	InputContainer   lipgloss.Style
	InputPrompt      lipgloss.Style
	InputPlaceholder lipgloss.Style
	SearchHit        lipgloss.Style
	SearchContext    lipgloss.Style

	// ==========================================================================
	// STATUS STYLES
	// ==========================================================================

	Spinner      lipgloss.Style
	SuccessStyle lipgloss.Style
	ErrorStyle   lipgloss.Style
	WarningStyle lipgloss.Style
}

// NewTheme creates a new theme with all styles configured.
func NewTheme() *Theme {
	colorProfile := termenv.ColorProfile()

	t := &Theme{
		IsDark:       termenv.HasDarkBackground(),
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}

	t.initStyles()
	return t
}

// SetSize updates the theme's layout dimensions.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// SenderStyle returns a stable style for a sender name. The same sender
// always maps to the same palette entry.
func (t *Theme) SenderStyle(sender string) lipgloss.Style {
	h := fnv.New32a()
	h.Write([]byte(sender))
	color := SenderPalette[int(h.Sum32())%len(SenderPalette)]
	return lipgloss.NewStyle().Bold(true).Foreground(color)
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	t.App = lipgloss.NewStyle()
	t.Container = lipgloss.NewStyle().Padding(0, 1)

	// Header
	t.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(Teal).
		Background(SurfaceDim).
		Padding(0, 2)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Teal)

	t.HeaderSubtitle = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Teal).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Sidebar
	t.Sidebar = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderRight(true).
		BorderForeground(Overlay).
		PaddingRight(1)

	t.SidebarTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Purple)

	t.ChatItem = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Padding(0, 1)

	t.ChatItemSelected = lipgloss.NewStyle().
		Background(SelectionBg).
		Foreground(TextPrimary).
		Bold(true).
		Padding(0, 1)

	t.ChatMeta = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Transcript
	t.Transcript = lipgloss.NewStyle().
		Padding(0, 1)

	t.Timestamp = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.SystemMessage = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.MediaLabel = lipgloss.NewStyle().
		Foreground(Purple).
		Italic(true)

	// Security report
	t.ReportPane = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Purple).
		Padding(0, 1)

	t.ScoreGood = lipgloss.NewStyle().Bold(true).Foreground(Emerald)
	t.ScoreFair = lipgloss.NewStyle().Bold(true).Foreground(Amber)
	t.ScorePoor = lipgloss.NewStyle().Bold(true).Foreground(Rose)

	t.RiskHigh = lipgloss.NewStyle().Bold(true).Foreground(Rose)
	t.RiskMedium = lipgloss.NewStyle().Foreground(Amber)
	t.RiskLow = lipgloss.NewStyle().Foreground(TextMuted)

	t.SensitiveTag = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Amber).
		Padding(0, 1)

	// Search and input
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.InputPrompt = lipgloss.NewStyle().
		Foreground(Teal).
		Bold(true)

	t.InputPlaceholder = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.SearchHit = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.SearchContext = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Status
	t.Spinner = lipgloss.NewStyle().Foreground(Teal)
	t.SuccessStyle = lipgloss.NewStyle().Bold(true).Foreground(SuccessHighContrast)
	t.ErrorStyle = lipgloss.NewStyle().Bold(true).Foreground(ErrorHighContrast)
	t.WarningStyle = lipgloss.NewStyle().Bold(true).Foreground(WarningHighContrast)
}

// ScoreStyle grades a 0-100 security score into a style.
func (t *Theme) ScoreStyle(score int) lipgloss.Style {
	switch {
	case score >= 80:
		return t.ScoreGood
	case score >= 50:
		return t.ScoreFair
	default:
		return t.ScorePoor
	}
}

// RiskStyle maps a risk level string to its style.
func (t *Theme) RiskStyle(level string) lipgloss.Style {
	switch level {
	case "high":
		return t.RiskHigh
	case "medium":
		return t.RiskMedium
	default:
		return t.RiskLow
	}
}
