// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mingle-social/mingle-tui/internal/model"
	"github.com/mingle-social/mingle-tui/internal/ui/components"
)

// chromeHeight is the rows consumed around the transcript viewport:
// tab bar, input container, status bar.
const chromeHeight = 7

// offlineNotice is shown when a mutation key is pressed in offline
// mode.
const offlineNotice = "Unavailable offline."

// =============================================================================
// RESIZE
// =============================================================================

func (m Model) handleResize(msg tea.WindowSizeMsg) (Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.theme.SetSize(msg.Width, msg.Height)

	vpHeight := msg.Height - chromeHeight
	if vpHeight < 1 {
		vpHeight = 1
	}
	if !m.ready {
		m.viewport.Width = msg.Width
		m.viewport.Height = vpHeight
		m.ready = true
	} else {
		m.viewport.Width = msg.Width
		m.viewport.Height = vpHeight
	}
	m.input.Width = msg.Width - 6
	m.syncTranscript()
	return m, nil
}

// =============================================================================
// KEY DISPATCH
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	// The alert is modal: while open, only its own keys apply.
	if m.alert != nil {
		return m.handleAlertKey(msg)
	}

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	}

	switch m.viewMode {
	case ViewChat:
		return m.handleChatKey(msg)
	case ViewMatches:
		return m.handleMatchesKey(msg)
	case ViewMatchDetail:
		return m.handleMatchDetailKey(msg)
	case ViewTopicPicker:
		return m.handleTopicPickerKey(msg)
	case ViewProfileForm:
		return m.handleProfileFormKey(msg)
	case ViewInterview:
		return m.handleInterviewKey(msg)
	}
	return m, nil
}

func (m Model) handleAlertKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.alert.Confirm {
		switch msg.String() {
		case "y", "Y":
			action := m.alertDo
			m.dismissAlert()
			if action == alertClearHuman {
				m.loading = true
				return m, m.clearHumanCmd()
			}
			return m, nil
		case "n", "N", "esc":
			m.dismissAlert()
			return m, nil
		}
		return m, nil
	}
	switch msg.String() {
	case "enter", "esc":
		m.dismissAlert()
	}
	return m, nil
}

func (m *Model) dismissAlert() {
	m.alert = nil
	m.alertDo = alertNone
	m.viewMode = m.alertReturn
}

// =============================================================================
// CHAT KEYS
// =============================================================================

func (m Model) handleChatKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return m.submitInput()

	case "tab":
		return m.cycleTab(1)
	case "shift+tab":
		return m.cycleTab(-1)

	case "ctrl+t":
		m.viewMode = ViewTopicPicker
		m.topicCursor = 0
		return m, nil

	case "ctrl+f":
		m.viewMode = ViewMatches
		m.selectedMatchIndex = 0
		return m, m.loadMatchesCmd()

	case "ctrl+p":
		// Onboarding order: the profile form comes before the interview.
		if !m.profileSaved {
			return m.openProfileForm()
		}
		m.viewMode = ViewInterview
		m.questionIndex = 0
		m.notice = ""
		if len(m.rows) == 0 {
			return m, m.loadQuestionsCmd()
		}
		return m, nil

	case "ctrl+g":
		return m.triggerGenerate()

	case "ctrl+l":
		if m.activeChatKey != model.KeyHuman {
			return m, nil
		}
		if m.offline {
			m.lastErr = offlineNotice
			return m, nil
		}
		m.showAlert("Clear conversation", "Clear your conversation with Claude? This cannot be undone.", true, alertClearHuman)
		return m, nil

	case "up":
		return m.moveMessageSelection(-1)
	case "down":
		return m.moveMessageSelection(1)
	case "esc":
		m.selectedMessage = -1
		m.syncTranscript()
		return m, nil

	case "1", "2", "3", "4":
		return m.reactWithKey(msg.String())

	case "pgup":
		m.viewport.HalfViewUp()
		return m, nil
	case "pgdown":
		m.viewport.HalfViewDown()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submitInput sends the typed text as a human turn.
func (m Model) submitInput() (Model, tea.Cmd) {
	if m.activeChatKey != model.KeyHuman {
		return m, nil
	}
	text := strings.TrimSpace(m.input.Value())
	if text == "" || m.loading {
		return m, nil
	}
	if m.offline {
		m.lastErr = offlineNotice
		return m, nil
	}
	m.input.Reset()
	m.loading = true
	m.lastErr = ""
	return m, m.sendHumanCmd(text)
}

// cycleTab moves the active tab by delta, wrapping.
func (m Model) cycleTab(delta int) (Model, tea.Cmd) {
	cur := 0
	for i, tab := range m.tabs {
		if tab.Key == m.activeChatKey {
			cur = i
			break
		}
	}
	next := (cur + delta + len(m.tabs)) % len(m.tabs)
	return m.selectTab(m.tabs[next].Key)
}

// triggerGenerate starts a multi-agent run in the General room. A run
// already in flight is not doubled.
func (m Model) triggerGenerate() (Model, tea.Cmd) {
	if m.activeChatKey != model.KeyGeneral || m.generating {
		return m, nil
	}
	if m.offline {
		m.lastErr = offlineNotice
		return m, nil
	}
	m.generating = true
	m.lastErr = ""
	return m, tea.Batch(m.generateCmd(), m.spinner.Tick)
}

// moveMessageSelection moves the reaction cursor. Selection only
// applies to the human conversation; elsewhere the keys scroll.
func (m Model) moveMessageSelection(delta int) (Model, tea.Cmd) {
	if m.activeChatKey != model.KeyHuman {
		if delta < 0 {
			m.viewport.LineUp(1)
		} else {
			m.viewport.LineDown(1)
		}
		return m, nil
	}
	n := m.conversation(model.KeyHuman).MessageCount()
	if n == 0 {
		return m, nil
	}
	if m.selectedMessage == -1 {
		m.selectedMessage = n - 1
	} else {
		m.selectedMessage += delta
		if m.selectedMessage < 0 {
			m.selectedMessage = 0
		}
		if m.selectedMessage >= n {
			m.selectedMessage = n - 1
		}
	}
	m.syncTranscript()
	return m, nil
}

// reactWithKey posts the palette emoji at the pressed digit for the
// selected message. With no selection the digit is ordinary input.
func (m Model) reactWithKey(key string) (Model, tea.Cmd) {
	if m.selectedMessage < 0 || m.activeChatKey != model.KeyHuman {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
		return m, cmd
	}
	if m.offline {
		m.lastErr = offlineNotice
		return m, nil
	}
	idx := int(key[0] - '1')
	if idx < 0 || idx >= len(model.ReactionPalette) {
		return m, nil
	}
	conv := m.conversation(model.KeyHuman)
	if m.selectedMessage >= conv.MessageCount() {
		return m, nil
	}
	target := conv.Messages[m.selectedMessage]
	m.loading = true
	return m, m.reactCmd(target.DisplayID(m.selectedMessage), model.ReactionPalette[idx])
}

// =============================================================================
// MATCH KEYS
// =============================================================================

func (m Model) handleMatchesKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.selectedMatchIndex > 0 {
			m.selectedMatchIndex--
		}
		return m, nil
	case "down", "j":
		if m.selectedMatchIndex < len(m.matches)-1 {
			m.selectedMatchIndex++
		}
		return m, nil
	case "enter":
		return m.selectMatch(m.selectedMatchIndex)
	case "r":
		return m, m.loadMatchesCmd()
	case "esc", "b":
		return m.backToChat()
	}
	return m, nil
}

func (m Model) handleMatchDetailKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.viewMode = ViewMatches
		m.matchPersona = nil
		return m, nil
	case "b":
		return m.backToChat()
	case "c":
		if m.selectedMatchIndex < 0 || m.selectedMatchIndex >= len(m.matches) {
			return m, nil
		}
		if m.matchesSimulated {
			m.showAlert("Example match", "This is an example match; connection requests need a real one.", false, alertNone)
			return m, nil
		}
		if m.offline {
			m.lastErr = offlineNotice
			return m, nil
		}
		return m, m.connectionRequestCmd(m.matches[m.selectedMatchIndex].Other(""))
	}
	return m, nil
}

// =============================================================================
// TOPIC PICKER KEYS
// =============================================================================

func (m Model) handleTopicPickerKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.topicCursor > 0 {
			m.topicCursor--
		}
		return m, nil
	case "down", "j":
		if m.topicCursor < len(model.AddableTopics)-1 {
			m.topicCursor++
		}
		return m, nil
	case "enter":
		return m.addTopic(model.AddableTopics[m.topicCursor])
	case "esc":
		m.viewMode = ViewChat
		return m, nil
	}
	return m, nil
}

// =============================================================================
// INTERVIEW KEYS
// =============================================================================

func (m Model) handleInterviewKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.questionIndex > 0 {
			m.questionIndex--
		}
		return m, nil
	case "down", "j":
		if m.questionIndex < len(m.rows)-1 {
			m.questionIndex++
		}
		return m, nil

	case "r", " ":
		return m.toggleRecording()

	case "s":
		// Edit (or fill in) the profile; submitting it returns here.
		return m.openProfileForm()

	case "enter":
		return m.triggerCreatePersona()

	case "esc":
		// Leaving the interview abandons any in-flight recording.
		if m.capture != nil && m.capture.Active() != nil {
			m.capture.Abort()
		}
		for i := range m.rows {
			if m.rows[i].State == components.RowRecording {
				m.rows[i].State = components.RowIdle
			}
		}
		m.viewMode = ViewChat
		return m, nil
	}
	return m, nil
}

// toggleRecording starts or stops capture for the focused question.
func (m Model) toggleRecording() (Model, tea.Cmd) {
	if m.questionIndex < 0 || m.questionIndex >= len(m.rows) {
		return m, nil
	}
	if m.offline {
		m.lastErr = offlineNotice
		return m, nil
	}
	row := &m.rows[m.questionIndex]
	switch row.State {
	case components.RowIdle:
		row.Err = ""
		return m, m.startRecordingCmd(m.questionIndex)
	case components.RowRecording:
		row.State = components.RowTranscribing
		return m, tea.Batch(m.stopRecordingCmd(m.questionIndex), m.spinner.Tick)
	default:
		// Transcribing: wait for the result.
		return m, nil
	}
}

// triggerCreatePersona submits the persona, guarded on a saved profile
// and a single in-flight request.
func (m Model) triggerCreatePersona() (Model, tea.Cmd) {
	if m.creating {
		return m, nil
	}
	if m.offline {
		m.lastErr = offlineNotice
		return m, nil
	}
	if !m.profileSaved {
		m.showAlert("Profile required", "Submit the profile form first.", false, alertNone)
		return m, nil
	}
	m.creating = true
	m.lastErr = ""
	return m, tea.Batch(m.createPersonaCmd(), m.spinner.Tick)
}
