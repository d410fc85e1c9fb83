// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mingle-social/mingle-tui/internal/model"
	"github.com/mingle-social/mingle-tui/internal/ui/styles"
	"github.com/mingle-social/mingle-tui/internal/util"
)

// Tab is one entry in the conversation tab bar.
type Tab struct {
	Key   string
	Label string
}

// BaseTabs are the tabs every session starts with; added topic rooms
// follow them in add order.
var BaseTabs = []Tab{
	{Key: model.KeyHuman, Label: "You & Claude"},
	{Key: model.KeyGeneral, Label: "General"},
}

// RenderTabBar renders the tab bar with the active tab highlighted and
// a trailing add-topic affordance.
func RenderTabBar(theme *styles.Theme, tabs []Tab, activeKey string, width int) string {
	parts := make([]string, 0, len(tabs)+1)
	for _, tab := range tabs {
		style := theme.Tab
		if tab.Key == activeKey {
			style = theme.TabActive
		}
		parts = append(parts, style.Render(util.TruncateWidth(tab.Label, 20)))
	}
	parts = append(parts, theme.TabAdd.Render("+ topic"))

	bar := lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	if width > 0 {
		bar = util.TruncateWidth(bar, width)
	}
	return bar
}

// RenderTopicPicker renders the add-topic catalog with the selection
// highlighted. Topics already added are marked and skipped on select.
func RenderTopicPicker(theme *styles.Theme, added map[string]bool, selected int) string {
	var b strings.Builder
	b.WriteString(theme.SpeakerName.Render("Add a topic room"))
	b.WriteString("\n")

	for i, topic := range model.AddableTopics {
		style := theme.QuestionRow
		if i == selected {
			style = theme.QuestionSelected
		}
		label := topic
		if added[model.TopicKey(topic)] {
			label += " (added)"
		}
		b.WriteString(style.Render(label))
		b.WriteString("\n")
	}
	b.WriteString(theme.ShortcutDesc.Render("enter select · esc cancel"))
	return b.String()
}
