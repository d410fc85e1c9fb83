// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mingle-social/mingle-tui/internal/model"
	"github.com/mingle-social/mingle-tui/internal/ui/styles"
	"github.com/mingle-social/mingle-tui/internal/util"
)

// scoreHighThreshold splits score coloring.
const scoreHighThreshold = 85

// RenderMatchList renders the match cards, highlighting the selection.
// selected is -1 for no selection. simulated marks the built-in
// fallback list.
func RenderMatchList(theme *styles.Theme, matches []model.Match, selected int, simulated bool, width int) string {
	if len(matches) == 0 {
		return theme.EmptyNotice.Render("No matches yet.")
	}

	var b strings.Builder
	if simulated {
		b.WriteString(theme.SimulatedTag.Render("Showing example matches"))
		b.WriteString("\n")
	}

	for i, match := range matches {
		card := theme.MatchCard
		if i == selected {
			card = theme.MatchCardSelected
		}
		b.WriteString(card.Width(width - 4).Render(renderMatchCard(theme, match)))
		b.WriteString("\n")
	}
	return b.String()
}

func renderMatchCard(theme *styles.Theme, match model.Match) string {
	name := util.Sanitize(match.Other(""))
	score := theme.MatchScoreMid
	if match.Score >= scoreHighThreshold {
		score = theme.MatchScoreHigh
	}

	header := lipgloss.JoinHorizontal(lipgloss.Top,
		theme.MatchName.Render(name),
		"  ",
		score.Render(fmt.Sprintf("%.0f%%", match.Score)),
	)
	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		theme.MatchReason.Render(util.Sanitize(match.Reason)),
	)
}

// RenderMatchDetail renders the detail panel for one match. The
// optional persona appends a read-only profile fragment; when the
// lookup missed, the stored reason stands in.
func RenderMatchDetail(theme *styles.Theme, match model.Match, persona *model.Persona, width int) string {
	name := util.Sanitize(match.Other(""))

	lines := []string{
		theme.MatchName.Render(name),
		theme.MatchScoreHigh.Render(fmt.Sprintf("Compatibility: %.0f%%", match.Score)),
		"",
		theme.MatchReason.Render(util.Sanitize(match.Reason)),
	}

	if persona != nil {
		lines = append(lines, "",
			theme.SpeakerName.Render("About "+util.Sanitize(persona.Name)),
			wordWrap(util.Sanitize(persona.PersonalitySummary), width-8),
		)
		if len(persona.Interests) > 0 {
			interests := make([]string, len(persona.Interests))
			for i, interest := range persona.Interests {
				interests[i] = util.Sanitize(interest)
			}
			lines = append(lines, theme.MatchReason.Render("Interests: "+strings.Join(interests, ", ")))
		}
	}

	panelWidth := width - 4
	if panelWidth < 30 {
		panelWidth = 30
	}
	return theme.DetailPanel.Width(panelWidth).Render(strings.Join(lines, "\n"))
}
