// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mingle-social/mingle-tui/internal/model"
	"github.com/mingle-social/mingle-tui/internal/ui/components"
)

// Update is the single reducer: every transition of view state happens
// here, in response to one message at a time.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case ConversationLoadedMsg:
		m.loading = false
		m.lastErr = ""
		m.conversation(msg.Key).Replace(msg.Messages)
		m.clampSelectedMessage()
		if msg.Key == m.activeChatKey {
			m.syncTranscript()
		}
		return m, m.cacheReplaceCmd(msg.Key, msg.Messages)

	case ConversationLoadFailedMsg:
		m.loading = false
		if msg.Key == m.activeChatKey {
			m.lastErr = msg.Err.Error()
		}
		return m, nil

	case HumanSentMsg:
		m.loading = false
		m.conversation(model.KeyHuman).Replace(msg.Messages)
		if m.activeChatKey == model.KeyHuman {
			m.syncTranscript()
		}
		return m, m.cacheReplaceCmd(model.KeyHuman, msg.Messages)

	case SendFailedMsg:
		m.loading = false
		m.lastErr = msg.Err.Error()
		return m, nil

	case ClearDoneMsg:
		if msg.Err != nil {
			m.showAlert("Clear failed", msg.Err.Error(), false, alertNone)
			return m, nil
		}
		m.loading = true
		return m, m.loadConversationCmd(model.KeyHuman)

	case ReactDoneMsg:
		if msg.Err != nil {
			// Failure leaves the transcript untouched; the tallies the
			// user sees are still the server's.
			m.showAlert("Reaction failed", msg.Err.Error(), false, alertNone)
			return m, nil
		}
		m.loading = true
		return m, m.loadConversationCmd(model.KeyHuman)

	case GenerateDoneMsg:
		m.generating = false
		if msg.Err != nil {
			m.lastErr = msg.Err.Error()
			return m, nil
		}
		if len(msg.Messages) == 0 {
			// The server had no personas to converse with.
			m.lastErr = "No personas yet. Create personas first, then generate."
			return m, nil
		}
		m.lastErr = ""
		m.conversation(model.KeyGeneral).Replace(msg.Messages)
		if m.activeChatKey == model.KeyGeneral {
			m.syncTranscript()
		}
		return m, m.cacheReplaceCmd(model.KeyGeneral, msg.Messages)

	case StreamMessageMsg:
		// Pushed messages land in whatever transcript is active,
		// appended in arrival order; a duplicate server ID is dropped,
		// so a push racing a reload cannot double an entry. The first
		// append also clears the empty-state notice implicitly: the
		// transcript is no longer empty.
		if m.conversation(m.activeChatKey).Append(msg.Message) {
			m.syncTranscript()
			return m, m.cacheAppendCmd(m.activeChatKey, msg.Message)
		}
		return m, nil

	case StreamClosedMsg:
		// Terminal for the session: no reconnect, no banner.
		return m, nil

	case MatchesLoadedMsg:
		m.matches = msg.Matches
		m.matchesSimulated = msg.Simulated
		// Positional selection does not survive a refetch.
		m.selectedMatchIndex = -1
		m.matchPersona = nil
		return m, nil

	case PersonaLookupMsg:
		if msg.MatchIndex != m.selectedMatchIndex {
			return m, nil // stale lookup for a deselected match
		}
		if msg.Err != nil {
			m.showAlert("Profile unavailable", msg.Err.Error(), false, alertNone)
			return m, nil
		}
		if msg.Persona == nil {
			// Lookup miss: the stored match reason is all we have.
			m.showAlert("Profile unavailable", m.matches[msg.MatchIndex].Reason, false, alertNone)
			return m, nil
		}
		m.matchPersona = msg.Persona
		return m, nil

	case ConnectionRequestDoneMsg:
		if msg.Err != nil {
			m.showAlert("Request failed", msg.Err.Error(), false, alertNone)
		} else {
			m.showAlert("Request sent", "Connection request sent to "+msg.To+".", false, alertNone)
		}
		return m, nil

	case QuestionsLoadedMsg:
		if msg.Err != nil {
			m.lastErr = msg.Err.Error()
			return m, nil
		}
		m.rows = make([]components.InterviewRow, len(msg.Questions))
		for i, q := range msg.Questions {
			m.rows[i].Question = q
		}
		m.questionIndex = 0
		return m, nil

	case RecordingStartedMsg:
		return m.handleRecordingStarted(msg)

	case RecordingTimeoutMsg:
		return m.handleRecordingTimeout(msg)

	case TranscriptionDoneMsg:
		return m.handleTranscriptionDone(msg)

	case ProfileSavedMsg:
		if msg.Err != nil {
			m.notice = ""
			m.showAlert("Profile save failed", msg.Err.Error(), false, alertNone)
			return m, nil
		}
		m.profileSaved = true
		m.notice = "Profile saved."
		// Saving moves onboarding forward: form, then interview.
		m.viewMode = ViewInterview
		m.questionIndex = 0
		if len(m.rows) == 0 {
			return m, m.loadQuestionsCmd()
		}
		return m, nil

	case PersonaCreatedMsg:
		m.creating = false
		if msg.Err != nil {
			// The trigger re-enables; the error stays inline.
			m.lastErr = msg.Err.Error()
			return m, nil
		}
		m.notice = "Persona created! Returning to chat..."
		return m, returnToChatCmd()

	case ReturnToChatMsg:
		m.notice = ""
		return m.selectTab(model.KeyHuman)

	default:
		// Widget housekeeping: spinner frames and cursor blink.
		var cmds []tea.Cmd
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)
	}
}

// =============================================================================
// TRANSITIONS
// =============================================================================

// selectTab activates a conversation tab: view mode returns to chat,
// any match detail is hidden, and the transcript reloads in full.
func (m Model) selectTab(key string) (Model, tea.Cmd) {
	m.activeChatKey = key
	m.viewMode = ViewChat
	m.selectedMatchIndex = -1
	m.matchPersona = nil
	m.selectedMessage = -1
	m.lastErr = ""
	m.loading = true
	m.syncTranscript()
	return m, m.loadConversationCmd(key)
}

// addTopic adds a topic room tab and selects it. Idempotent on the
// lowercased key: a second add of the same topic only selects.
func (m Model) addTopic(name string) (Model, tea.Cmd) {
	key := model.TopicKey(name)
	if !m.hasTab(key) {
		m.tabs = append(m.tabs, components.Tab{Key: key, Label: name})
	}
	return m.selectTab(key)
}

// selectMatch opens the detail panel for match i and resolves its
// persona in the background.
func (m Model) selectMatch(i int) (Model, tea.Cmd) {
	if i < 0 || i >= len(m.matches) {
		return m, nil
	}
	m.viewMode = ViewMatchDetail
	m.selectedMatchIndex = i
	m.matchPersona = nil
	if m.matchesSimulated || m.offline {
		// Simulated matches have no persona behind them.
		return m, nil
	}
	return m, m.lookupPersonaCmd(i, m.matches[i].Other(""))
}

// backToChat leaves the match detail for the human conversation.
func (m Model) backToChat() (Model, tea.Cmd) {
	return m.selectTab(model.KeyHuman)
}

// showAlert opens the blocking modal.
func (m *Model) showAlert(title, message string, confirm bool, action alertAction) {
	m.alert = &components.Alert{Title: title, Message: message, Confirm: confirm}
	m.alertDo = action
	m.alertReturn = m.viewMode
}

// clampSelectedMessage keeps the reaction cursor inside the
// transcript after a reload shrinks it.
func (m *Model) clampSelectedMessage() {
	n := m.conversation(m.activeChatKey).MessageCount()
	if m.selectedMessage >= n {
		m.selectedMessage = n - 1
	}
}

// =============================================================================
// VOICE TRANSITIONS
// =============================================================================

func (m Model) handleRecordingStarted(msg RecordingStartedMsg) (Model, tea.Cmd) {
	if msg.Question < 0 || msg.Question >= len(m.rows) {
		return m, nil
	}
	row := &m.rows[msg.Question]
	if msg.Err != nil {
		// Row-scoped: this question reverts to idle, others are
		// untouched.
		row.State = components.RowIdle
		row.Err = msg.Err.Error()
		return m, nil
	}
	row.State = components.RowRecording
	row.Err = ""
	if m.cfg != nil && m.cfg.Voice.MaxSeconds > 0 {
		limit := time.Duration(m.cfg.Voice.MaxSeconds) * time.Second
		return m, recordingTimeoutCmd(msg.Question, msg.SessionID, limit)
	}
	return m, nil
}

// handleRecordingTimeout stops a recording that hit the configured cap.
// A timer whose session has already ended is ignored.
func (m Model) handleRecordingTimeout(msg RecordingTimeoutMsg) (Model, tea.Cmd) {
	if m.capture == nil {
		return m, nil
	}
	active := m.capture.Active()
	if active == nil || active.ID != msg.SessionID {
		return m, nil
	}
	if msg.Question < 0 || msg.Question >= len(m.rows) {
		return m, nil
	}
	m.rows[msg.Question].State = components.RowTranscribing
	return m, tea.Batch(m.stopRecordingCmd(msg.Question), m.spinner.Tick)
}

func (m Model) handleTranscriptionDone(msg TranscriptionDoneMsg) (Model, tea.Cmd) {
	if msg.Question < 0 || msg.Question >= len(m.rows) {
		return m, nil
	}
	row := &m.rows[msg.Question]
	row.State = components.RowIdle
	if msg.Err != nil {
		row.Err = msg.Err.Error()
		return m, nil
	}
	// Empty text is a valid transcription result; the row shows the
	// no-speech notice.
	row.Err = ""
	row.Answer = msg.Text
	return m, nil
}
