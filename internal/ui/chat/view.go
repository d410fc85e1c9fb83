// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mingle-social/mingle-tui/internal/model"
	"github.com/mingle-social/mingle-tui/internal/ui/components"
)

// View renders the full screen for the current state. It is pure: no
// state changes, no I/O.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(components.RenderTabBar(m.theme, m.tabs, m.activeTabKey(), m.width))
	b.WriteString("\n")

	switch m.viewMode {
	case ViewChat:
		b.WriteString(m.viewport.View())
		b.WriteString("\n")
		b.WriteString(m.renderInput())
	case ViewMatches:
		b.WriteString(components.RenderMatchList(m.theme, m.matches, m.selectedMatchIndex, m.matchesSimulated, m.width))
	case ViewMatchDetail:
		// Transcript and input are hidden while the detail panel is up.
		if m.selectedMatchIndex >= 0 && m.selectedMatchIndex < len(m.matches) {
			b.WriteString(components.RenderMatchDetail(m.theme, m.matches[m.selectedMatchIndex], m.matchPersona, m.width))
		}
	case ViewTopicPicker:
		b.WriteString(components.RenderTopicPicker(m.theme, m.addedTopics(), m.topicCursor))
	case ViewProfileForm:
		b.WriteString(m.renderProfileForm())
	case ViewInterview:
		b.WriteString(m.renderInterview())
	}

	b.WriteString("\n")
	b.WriteString(components.RenderStatusBar(m.theme, m.serverURL(), m.offline, m.shortcuts(), m.width))

	out := b.String()
	if m.alert != nil {
		return components.RenderAlert(m.theme, *m.alert, m.width, m.height)
	}
	return out
}

func (m Model) renderHeader() string {
	brand := m.theme.HeaderBrand.Render("Mingle")
	sub := m.theme.Header.Render(" · conversational matching")
	line := brand + sub
	if m.loading || m.generating || m.creating {
		line += " " + m.spinner.View()
	}
	return line
}

func (m Model) renderInput() string {
	var b strings.Builder
	if m.lastErr != "" {
		b.WriteString(m.theme.InlineError.Render(m.lastErr))
		b.WriteString("\n")
	}
	prompt := m.theme.InputPrompt.Render("> ")
	b.WriteString(m.theme.InputContainer.Render(prompt + m.input.View()))
	return b.String()
}

func (m Model) renderProfileForm() string {
	var b strings.Builder
	b.WriteString(m.theme.HeaderBrand.Render("Your profile"))
	b.WriteString("\n")
	for i, in := range m.form {
		label := formLabels[i]
		if i == m.formFocus {
			b.WriteString(m.theme.QuestionSelected.Render(label))
		} else {
			b.WriteString(m.theme.QuestionRow.Render(label))
		}
		b.WriteString("\n")
		b.WriteString(in.View())
		b.WriteString("\n")
	}
	if m.lastErr != "" {
		b.WriteString(m.theme.InlineError.Render(m.lastErr))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderInterview() string {
	var b strings.Builder
	if m.notice != "" {
		b.WriteString(m.theme.ThinkingText.Render(m.notice))
		b.WriteString("\n")
	}
	b.WriteString(components.RenderInterview(m.theme, m.rows, m.questionIndex, m.width))
	if n := components.AnsweredCount(m.rows); n > 0 {
		b.WriteString(m.theme.ShortcutDesc.Render(fmt.Sprintf("%d of %d answered", n, len(m.rows))))
		b.WriteString("\n")
	}
	if m.lastErr != "" {
		b.WriteString(m.theme.InlineError.Render(m.lastErr))
		b.WriteString("\n")
	}
	return b.String()
}

// activeTabKey is the key the tab bar highlights: the chat tab, except
// while a non-chat view is up, when nothing in the bar is active.
func (m Model) activeTabKey() string {
	if m.viewMode == ViewChat {
		return m.activeChatKey
	}
	return ""
}

// addedTopics returns the topic keys already present as tabs.
func (m Model) addedTopics() map[string]bool {
	added := make(map[string]bool, len(m.tabs))
	for _, tab := range m.tabs {
		if tab.Key != model.KeyHuman && tab.Key != model.KeyGeneral {
			added[tab.Key] = true
		}
	}
	return added
}

func (m Model) serverURL() string {
	if m.cfg != nil {
		return m.cfg.Server.URL
	}
	return ""
}

// shortcuts returns the status bar hints for the current view.
func (m Model) shortcuts() []components.Shortcut {
	switch m.viewMode {
	case ViewMatches:
		return []components.Shortcut{
			{Key: "↑↓", Desc: "move"},
			{Key: "enter", Desc: "detail"},
			{Key: "r", Desc: "refresh"},
			{Key: "esc", Desc: "chat"},
		}
	case ViewMatchDetail:
		return []components.Shortcut{
			{Key: "c", Desc: "connect"},
			{Key: "esc", Desc: "matches"},
			{Key: "b", Desc: "chat"},
		}
	case ViewTopicPicker:
		return []components.Shortcut{
			{Key: "↑↓", Desc: "move"},
			{Key: "enter", Desc: "add"},
			{Key: "esc", Desc: "cancel"},
		}
	case ViewProfileForm:
		return []components.Shortcut{
			{Key: "tab", Desc: "next field"},
			{Key: "^s", Desc: "save"},
			{Key: "esc", Desc: "chat"},
		}
	case ViewInterview:
		return []components.Shortcut{
			{Key: "r", Desc: "record/stop"},
			{Key: "s", Desc: "edit profile"},
			{Key: "enter", Desc: "create persona"},
			{Key: "esc", Desc: "chat"},
		}
	}

	hints := []components.Shortcut{
		{Key: "tab", Desc: "switch"},
		{Key: "^t", Desc: "topics"},
		{Key: "^f", Desc: "matches"},
		{Key: "^p", Desc: "profile"},
	}
	switch m.activeChatKey {
	case model.KeyHuman:
		hints = append(hints,
			components.Shortcut{Key: "↑↓", Desc: "select"},
			components.Shortcut{Key: "1-4", Desc: "react"},
			components.Shortcut{Key: "^l", Desc: "clear"},
		)
	case model.KeyGeneral:
		hints = append(hints, components.Shortcut{Key: "^g", Desc: "generate"})
	}
	return hints
}

// syncTranscript re-renders the active transcript into the viewport.
// Called after every transcript mutation; the viewport follows the
// bottom unless a message is selected for reacting.
func (m *Model) syncTranscript() {
	conv := m.conversation(m.activeChatKey)
	opts := components.TranscriptOptions{
		Width:         m.viewport.Width,
		WithReactions: m.activeChatKey == model.KeyHuman,
		SelfSpeaker:   "You",
		SelectedIndex: m.selectedMessage,
	}
	if m.cfg != nil {
		opts.ShowTimestamps = m.cfg.UI.ShowTimestamps
	}
	content := components.RenderTranscript(m.theme, conv.Key, conv.Messages, opts)
	if m.loading && conv.IsEmpty() {
		content = m.theme.ThinkingText.Render("Loading conversation...")
	}
	m.viewport.SetContent(lipgloss.NewStyle().Width(m.viewport.Width).Render(content))
	if m.selectedMessage == -1 {
		m.viewport.GotoBottom()
	}
}
