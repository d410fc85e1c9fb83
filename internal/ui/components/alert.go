// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mingle-social/mingle-tui/internal/ui/styles"
	"github.com/mingle-social/mingle-tui/internal/util"
)

// Alert is a blocking modal notice. While visible it captures all
// input; the owning view dismisses it on enter or esc.
type Alert struct {
	Title   string
	Message string
	// Confirm turns the alert into a yes/no prompt.
	Confirm bool
}

// RenderAlert renders the alert centered in the given area.
func RenderAlert(theme *styles.Theme, alert Alert, width, height int) string {
	boxWidth := width / 2
	if boxWidth < 30 {
		boxWidth = 30
	}

	hint := "enter to dismiss"
	if alert.Confirm {
		hint = "y confirm · n cancel"
	}

	lines := []string{}
	if alert.Title != "" {
		lines = append(lines, theme.AlertTitle.Render(util.Sanitize(alert.Title)), "")
	}
	lines = append(lines,
		theme.AlertMessage.Render(wordWrap(util.Sanitize(alert.Message), boxWidth-6)),
		"",
		theme.AlertHint.Render(hint),
	)

	box := theme.AlertBox.Width(boxWidth).Render(strings.Join(lines, "\n"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
