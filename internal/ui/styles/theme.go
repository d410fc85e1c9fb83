// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
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
	// HEADER & TAB BAR STYLES
	// ==========================================================================

	Header      lipgloss.Style
	HeaderBrand lipgloss.Style
	Tab         lipgloss.Style
	TabActive   lipgloss.Style
	TabAdd      lipgloss.Style

	// ==========================================================================
	// MESSAGE BUBBLE STYLES
	// ==========================================================================

	SelfBubble    lipgloss.Style
	OtherBubble   lipgloss.Style
	SpeakerName   lipgloss.Style
	Timestamp     lipgloss.Style
	EmptyNotice   lipgloss.Style
	ReactionBadge lipgloss.Style
	ReactionAdd   lipgloss.Style

	// ==========================================================================
	// MATCH CARD STYLES
	// ==========================================================================

	MatchCard         lipgloss.Style
	MatchCardSelected lipgloss.Style
	MatchName         lipgloss.Style
	MatchScoreHigh    lipgloss.Style
	MatchScoreMid     lipgloss.Style
	MatchReason       lipgloss.Style
	SimulatedTag      lipgloss.Style
	DetailPanel       lipgloss.Style

	// ==========================================================================
	// VOICE INTERVIEW STYLES
	// ==========================================================================

	QuestionRow      lipgloss.Style
	QuestionSelected lipgloss.Style
	AnswerText       lipgloss.Style
	RecordingMark    lipgloss.Style
	InlineError      lipgloss.Style

	// ==========================================================================
	// INPUT AREA STYLES
	// ==========================================================================

	InputContainer   lipgloss.Style
	InputPrompt      lipgloss.Style
	InputPlaceholder lipgloss.Style

	// ==========================================================================
	// STATUS BAR STYLES
	// ==========================================================================

	StatusBar    lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style
	OfflineMark  lipgloss.Style

	// ==========================================================================
	// ALERT OVERLAY STYLES
	// ==========================================================================

	AlertBox     lipgloss.Style
	AlertTitle   lipgloss.Style
	AlertMessage lipgloss.Style
	AlertHint    lipgloss.Style

	// Spinner and loading
	Spinner      lipgloss.Style
	ThinkingText lipgloss.Style
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

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	// App container
	t.App = lipgloss.NewStyle()
	t.Container = lipgloss.NewStyle().Padding(0, 1)

	// Header and tab bar
	t.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan).
		Background(SurfaceDim).
		Padding(0, 2)

	t.HeaderBrand = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan)

	t.Tab = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Padding(0, 2)

	t.TabActive = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Purple).
		Bold(true).
		Padding(0, 2)

	t.TabAdd = lipgloss.NewStyle().
		Foreground(TextMuted).
		Padding(0, 1)

	// Message bubbles
	t.SelfBubble = lipgloss.NewStyle().
		Foreground(SelfBubbleFg).
		Background(SelfBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(SelfBubbleBorder).
		Padding(0, 2).
		MarginLeft(4)

	t.OtherBubble = lipgloss.NewStyle().
		Foreground(OtherBubbleFg).
		Background(OtherBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(OtherBubbleBorder).
		Padding(0, 2).
		MarginRight(4)

	t.SpeakerName = lipgloss.NewStyle().
		Foreground(Purple).
		Bold(true)

	t.Timestamp = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.EmptyNotice = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true).
		Padding(1, 2)

	t.ReactionBadge = lipgloss.NewStyle().
		Foreground(ReactionFg).
		Background(ReactionBg).
		Padding(0, 1).
		MarginRight(1)

	t.ReactionAdd = lipgloss.NewStyle().
		Foreground(TextMuted).
		MarginRight(1)

	// Match cards
	t.MatchCard = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 2)

	t.MatchCardSelected = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Purple).
		Background(SelectionBg).
		Padding(0, 2)

	t.MatchName = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Bold(true)

	t.MatchScoreHigh = lipgloss.NewStyle().
		Foreground(ScoreHigh).
		Bold(true)

	t.MatchScoreMid = lipgloss.NewStyle().
		Foreground(ScoreMid).
		Bold(true)

	t.MatchReason = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.SimulatedTag = lipgloss.NewStyle().
		Foreground(Amber).
		Italic(true)

	t.DetailPanel = lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(Purple).
		Padding(1, 2)

	// Voice interview
	t.QuestionRow = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Padding(0, 1)

	t.QuestionSelected = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Purple).
		Bold(true).
		Padding(0, 1)

	t.AnswerText = lipgloss.NewStyle().
		Foreground(TextSecondary).
		PaddingLeft(3)

	t.RecordingMark = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)

	t.InlineError = lipgloss.NewStyle().
		Foreground(Rose).
		PaddingLeft(3)

	// Input area
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.InputPrompt = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.InputPlaceholder = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Status bar
	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.OfflineMark = lipgloss.NewStyle().
		Foreground(Amber).
		Bold(true)

	// Alert overlay
	t.AlertBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(Rose).
		Background(Surface).
		Padding(1, 2)

	t.AlertTitle = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)

	t.AlertMessage = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.AlertHint = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Spinner and loading
	t.Spinner = lipgloss.NewStyle().
		Foreground(Purple)

	t.ThinkingText = lipgloss.NewStyle().
		Foreground(TextSecondary)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // > 100 columns
)

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}
