// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mingle-social/mingle-tui/internal/ui/styles"
	"github.com/mingle-social/mingle-tui/internal/util"
)

// Shortcut is one key hint in the status bar.
type Shortcut struct {
	Key  string
	Desc string
}

// RenderStatusBar renders the bottom status bar: connection state,
// offline marker, and the key hints for the current view.
func RenderStatusBar(theme *styles.Theme, serverURL string, offline bool, shortcuts []Shortcut, width int) string {
	var left string
	if offline {
		left = theme.OfflineMark.Render("OFFLINE") + theme.ShortcutDesc.Render(" · cached transcripts")
	} else {
		left = theme.ShortcutDesc.Render(serverURL)
	}

	hints := make([]string, 0, len(shortcuts))
	for _, s := range shortcuts {
		hints = append(hints, theme.ShortcutKey.Render(s.Key)+theme.ShortcutDesc.Render(" "+s.Desc))
	}
	right := strings.Join(hints, theme.ShortcutDesc.Render(" · "))

	bar := left
	gap := width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap > 0 {
		bar += strings.Repeat(" ", gap) + right
	} else if right != "" {
		bar += " " + right
	}
	return theme.StatusBar.Render(util.TruncateWidth(bar, width))
}
