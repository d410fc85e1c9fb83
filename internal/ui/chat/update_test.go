// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"reflect"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mingle-social/mingle-tui/internal/config"
	"github.com/mingle-social/mingle-tui/internal/model"
	"github.com/mingle-social/mingle-tui/internal/ui/components"
	"github.com/mingle-social/mingle-tui/internal/ui/styles"
	"github.com/mingle-social/mingle-tui/internal/voice"
)

// fakeServer satisfies Server; unset methods fail loudly so a test
// exercising one path cannot silently hit another.
type fakeServer struct {
	conversation func(key string) ([]model.Message, error)
	send         func(text string) ([]model.Message, error)
	react        func(id model.MessageID, emoji string) error
	matches      func() ([]model.Match, error)
	personas     func() ([]model.Persona, error)
	saveProfile  func(p model.Profile) error
}

func (f *fakeServer) Conversation(_ context.Context, key string) ([]model.Message, error) {
	if f.conversation == nil {
		return nil, nil
	}
	return f.conversation(key)
}

func (f *fakeServer) SendHumanMessage(_ context.Context, text string) ([]model.Message, error) {
	if f.send == nil {
		return nil, errors.New("unexpected send")
	}
	return f.send(text)
}

func (f *fakeServer) ClearHumanConversation(context.Context) error { return nil }

func (f *fakeServer) React(_ context.Context, id model.MessageID, emoji string) error {
	if f.react == nil {
		return errors.New("unexpected react")
	}
	return f.react(id, emoji)
}

func (f *fakeServer) Generate(context.Context, int) ([]model.Message, error) { return nil, nil }

func (f *fakeServer) Matches(context.Context) ([]model.Match, error) {
	if f.matches == nil {
		return nil, nil
	}
	return f.matches()
}

func (f *fakeServer) Personas(context.Context) ([]model.Persona, error) {
	if f.personas == nil {
		return nil, nil
	}
	return f.personas()
}

func (f *fakeServer) SendConnectionRequest(context.Context, string) error { return nil }

func (f *fakeServer) SaveProfile(_ context.Context, p model.Profile) error {
	if f.saveProfile == nil {
		return nil
	}
	return f.saveProfile(p)
}
func (f *fakeServer) Questions(context.Context) ([]string, error)        { return nil, nil }
func (f *fakeServer) Transcribe(context.Context, string) (string, error) { return "", nil }
func (f *fakeServer) CreatePersona(context.Context, model.Profile, []model.QAEntry) error {
	return nil
}

func newTestModel(t *testing.T, srv Server) Model {
	t.Helper()
	if srv == nil {
		srv = &fakeServer{}
	}
	m := New(styles.NewTheme(), Options{Server: srv})
	nm, _ := m.handleResize(tea.WindowSizeMsg{Width: 100, Height: 30})
	return nm
}

func step(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	nm, cmd := m.Update(msg)
	got, ok := nm.(Model)
	require.True(t, ok, "Update must return chat.Model")
	return got, cmd
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+l":
		return tea.KeyMsg{Type: tea.KeyCtrlL}
	case "ctrl+f":
		return tea.KeyMsg{Type: tea.KeyCtrlF}
	case "ctrl+t":
		return tea.KeyMsg{Type: tea.KeyCtrlT}
	case "ctrl+g":
		return tea.KeyMsg{Type: tea.KeyCtrlG}
	case "ctrl+p":
		return tea.KeyMsg{Type: tea.KeyCtrlP}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

// =============================================================================
// CONVERSATION + STREAM
// =============================================================================

func TestConversationLoadedReplacesTranscript(t *testing.T) {
	m := newTestModel(t, nil)
	m.loading = true

	m, _ = step(t, m, ConversationLoadedMsg{
		Key:      model.KeyHuman,
		Messages: []model.Message{{ID: "1", Speaker: "You", Text: "hi"}},
	})

	assert.False(t, m.loading)
	assert.Equal(t, 1, m.conversation(model.KeyHuman).MessageCount())
}

func TestStreamAppendDeduplicatesByID(t *testing.T) {
	m := newTestModel(t, nil)
	m, _ = step(t, m, ConversationLoadedMsg{
		Key:      model.KeyHuman,
		Messages: []model.Message{{ID: "7", Speaker: "Claude", Text: "hello"}},
	})

	// Same server ID pushed again: dropped.
	m, _ = step(t, m, StreamMessageMsg{Message: model.Message{ID: "7", Speaker: "Claude", Text: "hello"}})
	assert.Equal(t, 1, m.conversation(model.KeyHuman).MessageCount())

	// New ID: appended.
	m, _ = step(t, m, StreamMessageMsg{Message: model.Message{ID: "8", Speaker: "Claude", Text: "more"}})
	assert.Equal(t, 2, m.conversation(model.KeyHuman).MessageCount())
}

func TestStreamAppendsToActiveTranscript(t *testing.T) {
	m := newTestModel(t, nil)
	m, _ = m.selectTab(model.KeyGeneral)

	m, _ = step(t, m, StreamMessageMsg{Message: model.Message{ID: "9", Speaker: "Luna", Text: "hi all"}})
	assert.Equal(t, 1, m.conversation(model.KeyGeneral).MessageCount())
	assert.Equal(t, 0, m.conversation(model.KeyHuman).MessageCount())
}

func TestStreamClosedIsTerminalAndQuiet(t *testing.T) {
	m := newTestModel(t, nil)
	m, cmd := step(t, m, StreamClosedMsg{})
	assert.Nil(t, cmd)
	assert.Nil(t, m.alert)
	assert.Empty(t, m.lastErr)
}

func TestLoadFailureForInactiveTabIsSilent(t *testing.T) {
	m := newTestModel(t, nil)
	m, _ = step(t, m, ConversationLoadFailedMsg{Key: "finance", Err: errors.New("boom")})
	assert.Empty(t, m.lastErr)

	m, _ = step(t, m, ConversationLoadFailedMsg{Key: model.KeyHuman, Err: errors.New("boom")})
	assert.Equal(t, "boom", m.lastErr)
}

// =============================================================================
// REACTIONS
// =============================================================================

func TestReactSuccessTriggersFullReload(t *testing.T) {
	var gotID model.MessageID
	var gotEmoji string
	srv := &fakeServer{react: func(id model.MessageID, emoji string) error {
		gotID, gotEmoji = id, emoji
		return nil
	}}
	m := newTestModel(t, srv)
	m, _ = step(t, m, ConversationLoadedMsg{
		Key:      model.KeyHuman,
		Messages: []model.Message{{ID: "42", Speaker: "Claude", Text: "hi"}},
	})

	// Select the last message, react with palette slot 1.
	m, _ = step(t, m, key("up"))
	require.Equal(t, 0, m.selectedMessage)
	m, cmd := step(t, m, key("1"))
	require.NotNil(t, cmd)

	done := cmd()
	require.IsType(t, ReactDoneMsg{}, done)
	assert.Equal(t, model.MessageID("42"), gotID)
	assert.Equal(t, "👍", gotEmoji)

	// Success path issues a reload, never a local tally bump.
	m, reload := step(t, m, done)
	assert.True(t, m.loading)
	assert.NotNil(t, reload)
}

func TestReactFailureShowsAlert(t *testing.T) {
	m := newTestModel(t, nil)
	m, _ = step(t, m, ReactDoneMsg{Err: errors.New("404 Not Found")})
	require.NotNil(t, m.alert)
	assert.Contains(t, m.alert.Message, "404")
}

func TestDigitsTypeWhenNothingSelected(t *testing.T) {
	m := newTestModel(t, nil)
	// The textinput returns its cursor-blink cmd; only the value and
	// the absence of a selection matter here.
	m, _ = step(t, m, key("1"))
	assert.Equal(t, -1, m.selectedMessage)
	assert.Equal(t, "1", m.input.Value())
}

// =============================================================================
// TABS + TOPICS
// =============================================================================

func TestAddTopicIsIdempotent(t *testing.T) {
	m := newTestModel(t, nil)

	m, _ = m.addTopic("Finance")
	require.Len(t, m.tabs, 3)
	assert.Equal(t, "finance", m.activeChatKey)
	assert.Equal(t, ViewChat, m.viewMode)

	// Second add of the same topic only selects.
	m, _ = m.selectTab(model.KeyHuman)
	m, _ = m.addTopic("Finance")
	assert.Len(t, m.tabs, 3)
	assert.Equal(t, "finance", m.activeChatKey)
}

func TestSelectTabReloadsAndLeavesMatchDetail(t *testing.T) {
	loaded := map[string]int{}
	srv := &fakeServer{conversation: func(k string) ([]model.Message, error) {
		loaded[k]++
		return nil, nil
	}}
	m := newTestModel(t, srv)
	m.viewMode = ViewMatchDetail
	m.selectedMatchIndex = 2

	m, cmd := m.selectTab(model.KeyGeneral)
	assert.Equal(t, ViewChat, m.viewMode)
	assert.Equal(t, -1, m.selectedMatchIndex)
	require.NotNil(t, cmd)
	cmd()
	assert.Equal(t, 1, loaded[model.KeyGeneral])
}

func TestClearHumanRequiresConfirmation(t *testing.T) {
	m := newTestModel(t, nil)

	m, _ = step(t, m, key("ctrl+l"))
	require.NotNil(t, m.alert)
	assert.True(t, m.alert.Confirm)

	// n cancels without clearing.
	m, cmd := step(t, m, key("n"))
	assert.Nil(t, m.alert)
	assert.Nil(t, cmd)

	// y runs the clear.
	m, _ = step(t, m, key("ctrl+l"))
	m, cmd = step(t, m, key("y"))
	assert.Nil(t, m.alert)
	assert.NotNil(t, cmd)
	assert.True(t, m.loading)
}

// =============================================================================
// MATCHES
// =============================================================================

func TestMatchesLoadedResetsSelection(t *testing.T) {
	m := newTestModel(t, nil)
	m.selectedMatchIndex = 3
	m.matchPersona = &model.Persona{Name: "stale"}

	m, _ = step(t, m, MatchesLoadedMsg{Matches: model.SimulatedMatches, Simulated: true})
	assert.Equal(t, -1, m.selectedMatchIndex)
	assert.Nil(t, m.matchPersona)
	assert.True(t, m.matchesSimulated)
}

func TestSelectMatchOpensDetail(t *testing.T) {
	m := newTestModel(t, nil)
	m, _ = step(t, m, MatchesLoadedMsg{Matches: model.SimulatedMatches, Simulated: true})

	m, cmd := m.selectMatch(1)
	assert.Equal(t, ViewMatchDetail, m.viewMode)
	assert.Equal(t, 1, m.selectedMatchIndex)
	// Simulated matches have no persona to resolve.
	assert.Nil(t, cmd)

	// Re-selecting the same match is just a re-render.
	m, _ = m.selectMatch(1)
	assert.Equal(t, ViewMatchDetail, m.viewMode)
	assert.Equal(t, 1, m.selectedMatchIndex)
}

func TestStalePersonaLookupIgnored(t *testing.T) {
	m := newTestModel(t, nil)
	m.matches = model.SimulatedMatches
	m.selectedMatchIndex = 0

	m, _ = step(t, m, PersonaLookupMsg{MatchIndex: 3, Persona: &model.Persona{Name: "wrong"}})
	assert.Nil(t, m.matchPersona)

	m, _ = step(t, m, PersonaLookupMsg{MatchIndex: 0, Persona: &model.Persona{Name: "Alex Chen"}})
	require.NotNil(t, m.matchPersona)
	assert.Equal(t, "Alex Chen", m.matchPersona.Name)
}

func TestPersonaLookupMissFallsBackToReason(t *testing.T) {
	m := newTestModel(t, nil)
	m.matches = model.SimulatedMatches
	m.selectedMatchIndex = 2

	m, _ = step(t, m, PersonaLookupMsg{MatchIndex: 2})
	require.NotNil(t, m.alert)
	assert.Contains(t, m.alert.Message, model.SimulatedMatches[2].Reason)
	assert.Nil(t, m.matchPersona)
}

func TestConnectionRequestOutcomeAlwaysAlerts(t *testing.T) {
	m := newTestModel(t, nil)

	m, _ = step(t, m, ConnectionRequestDoneMsg{To: "Alex Chen"})
	require.NotNil(t, m.alert)
	assert.Contains(t, m.alert.Message, "Alex Chen")
	m, _ = step(t, m, key("enter"))
	assert.Nil(t, m.alert)

	m, _ = step(t, m, ConnectionRequestDoneMsg{To: "Alex Chen", Err: errors.New("503 Service Unavailable")})
	require.NotNil(t, m.alert)
	assert.Contains(t, m.alert.Message, "503")
}

// =============================================================================
// PROFILE FORM
// =============================================================================

func TestProfileKeyOpensFormBeforeInterview(t *testing.T) {
	m := newTestModel(t, nil)

	m, _ = step(t, m, key("ctrl+p"))
	assert.Equal(t, ViewProfileForm, m.viewMode)
	require.Len(t, m.form, fieldCount)

	// Once saved, the same key goes straight to the interview.
	m, _ = step(t, m, key("esc"))
	m.profileSaved = true
	m, _ = step(t, m, key("ctrl+p"))
	assert.Equal(t, ViewInterview, m.viewMode)
}

func TestProfileFormSubmitsFilledProfile(t *testing.T) {
	var saved model.Profile
	srv := &fakeServer{saveProfile: func(p model.Profile) error {
		saved = p
		return nil
	}}
	m := newTestModel(t, srv)
	m, _ = step(t, m, key("ctrl+p"))
	require.Equal(t, ViewProfileForm, m.viewMode)

	m.form[fieldFullName].SetValue("Ada Lovelace")
	m.form[fieldEmail].SetValue("ada@example.com")
	m.form[fieldLocation].SetValue("London")
	m.form[fieldJobTitle].SetValue("Engineer")
	m.form[fieldSkills].SetValue("go, sql , ,writing")
	m.form[fieldInterests].SetValue("mathematics")
	m.form[fieldSeeking].SetValue("interesting conversations")

	m, cmd := step(t, m, key("ctrl+s"))
	require.NotNil(t, cmd)

	// The posted payload is the form's content, lists split on commas.
	done := runBatch(t, cmd, ProfileSavedMsg{})
	assert.Equal(t, "Ada Lovelace", saved.Profile.FullName)
	assert.Equal(t, "ada@example.com", saved.Profile.Email)
	assert.Equal(t, "Engineer", saved.Professional.JobTitle)
	assert.Equal(t, []string{"go", "sql", "writing"}, saved.Professional.Skills)
	assert.Equal(t, []string{"mathematics"}, saved.Interests)
	assert.Equal(t, "interesting conversations", saved.Seeking)

	// Saving moves onboarding to the interview.
	m, _ = step(t, m, done)
	assert.True(t, m.profileSaved)
	assert.Equal(t, ViewInterview, m.viewMode)
}

func TestProfileFormRequiresFullName(t *testing.T) {
	m := newTestModel(t, nil)
	m, _ = step(t, m, key("ctrl+p"))

	m, cmd := step(t, m, key("ctrl+s"))
	assert.Nil(t, cmd)
	assert.Equal(t, ViewProfileForm, m.viewMode)
	assert.NotEmpty(t, m.lastErr)
}

func TestProfileFormFocusWraps(t *testing.T) {
	m := newTestModel(t, nil)
	m, _ = step(t, m, key("ctrl+p"))
	require.Equal(t, 0, m.formFocus)

	m, _ = step(t, m, key("up"))
	assert.Equal(t, fieldCount-1, m.formFocus)
	m, _ = step(t, m, key("down"))
	assert.Equal(t, 0, m.formFocus)
	m, _ = step(t, m, key("tab"))
	assert.Equal(t, 1, m.formFocus)
}

func TestInterviewProfileKeyReopensForm(t *testing.T) {
	m := interviewModel(t)
	m.profile.Profile.FullName = "Ada Lovelace"

	m, _ = step(t, m, key("s"))
	assert.Equal(t, ViewProfileForm, m.viewMode)
	// Reopening seeds the form from the stored profile.
	assert.Equal(t, "Ada Lovelace", m.form[fieldFullName].Value())
}

// runBatch executes a batched cmd and returns the message of want's
// type, failing if none of the batch produced one.
func runBatch(t *testing.T, cmd tea.Cmd, want tea.Msg) tea.Msg {
	t.Helper()
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		require.IsType(t, want, msg)
		return msg
	}
	for _, c := range batch {
		if got := c(); reflect.TypeOf(got) == reflect.TypeOf(want) {
			return got
		}
	}
	t.Fatalf("no %T in batch", want)
	return nil
}

// =============================================================================
// VOICE INTERVIEW
// =============================================================================

func interviewModel(t *testing.T) Model {
	m := newTestModel(t, nil)
	m.viewMode = ViewInterview
	m, _ = step(t, m, QuestionsLoadedMsg{Questions: []string{"Q1", "Q2", "Q3"}})
	return m
}

func TestRecordingStartFailureIsRowScoped(t *testing.T) {
	m := interviewModel(t)
	m, _ = step(t, m, RecordingStartedMsg{Question: 1, Err: errors.New("no recorder found")})

	assert.Equal(t, components.RowIdle, m.rows[1].State)
	assert.Equal(t, "no recorder found", m.rows[1].Err)
	assert.Empty(t, m.rows[0].Err)
	assert.Empty(t, m.rows[2].Err)
}

func TestTranscriptionRoundTrip(t *testing.T) {
	m := interviewModel(t)

	m, _ = step(t, m, RecordingStartedMsg{Question: 0})
	assert.Equal(t, components.RowRecording, m.rows[0].State)

	m, _ = step(t, m, TranscriptionDoneMsg{Question: 0, Text: "spoken answer"})
	assert.Equal(t, components.RowIdle, m.rows[0].State)
	assert.Equal(t, "spoken answer", m.rows[0].Answer)
	assert.Empty(t, m.rows[0].Err)
}

func TestTranscriptionEmptyTextIsValid(t *testing.T) {
	m := interviewModel(t)
	m, _ = step(t, m, TranscriptionDoneMsg{Question: 2, Text: ""})
	assert.Equal(t, components.RowIdle, m.rows[2].State)
	assert.Empty(t, m.rows[2].Err)
}

type stubRecorder struct{}

func (stubRecorder) Start() error         { return nil }
func (stubRecorder) Stop() ([]byte, error) { return []byte("RIFF"), nil }

func TestRecordingCapSchedulesTimer(t *testing.T) {
	m := interviewModel(t)
	m.cfg = config.Default()

	m, cmd := step(t, m, RecordingStartedMsg{Question: 0, SessionID: "s-1"})
	assert.Equal(t, components.RowRecording, m.rows[0].State)
	assert.NotNil(t, cmd)
}

func TestRecordingTimeoutStopsOnlyItsOwnSession(t *testing.T) {
	m := interviewModel(t)
	capture := voice.NewCapture(func() (voice.Recorder, error) { return stubRecorder{}, nil })
	m.capture = capture

	s, err := capture.Start(1)
	require.NoError(t, err)
	m.rows[1].State = components.RowRecording

	// A timer from an earlier, already-ended session is ignored.
	m, cmd := step(t, m, RecordingTimeoutMsg{Question: 1, SessionID: "stale"})
	assert.Nil(t, cmd)
	assert.Equal(t, components.RowRecording, m.rows[1].State)

	m, cmd = step(t, m, RecordingTimeoutMsg{Question: 1, SessionID: s.ID})
	assert.NotNil(t, cmd)
	assert.Equal(t, components.RowTranscribing, m.rows[1].State)
}

func TestLeavingInterviewAbandonsRecording(t *testing.T) {
	m := interviewModel(t)
	capture := voice.NewCapture(func() (voice.Recorder, error) { return stubRecorder{}, nil })
	m.capture = capture

	_, err := capture.Start(0)
	require.NoError(t, err)
	m.rows[0].State = components.RowRecording

	m, _ = step(t, m, key("esc"))
	assert.Equal(t, ViewChat, m.viewMode)
	assert.Equal(t, components.RowIdle, m.rows[0].State)
	assert.Nil(t, capture.Active())
}

func TestCreatePersonaRequiresSavedProfile(t *testing.T) {
	m := interviewModel(t)

	m, cmd := step(t, m, key("enter"))
	assert.Nil(t, cmd)
	require.NotNil(t, m.alert)
	assert.Contains(t, m.alert.Message, "profile")

	m, _ = step(t, m, key("esc"))
	m, _ = step(t, m, ProfileSavedMsg{})
	require.True(t, m.profileSaved)

	m, cmd = step(t, m, key("enter"))
	assert.NotNil(t, cmd)
	assert.True(t, m.creating)

	// Second enter while in flight is a no-op.
	m, cmd = step(t, m, key("enter"))
	assert.Nil(t, cmd)
}

func TestPersonaCreatedReturnsToChat(t *testing.T) {
	m := interviewModel(t)
	m.creating = true

	m, cmd := step(t, m, PersonaCreatedMsg{})
	assert.False(t, m.creating)
	assert.NotEmpty(t, m.notice)
	require.NotNil(t, cmd)

	m, _ = step(t, m, ReturnToChatMsg{})
	assert.Equal(t, ViewChat, m.viewMode)
	assert.Equal(t, model.KeyHuman, m.activeChatKey)
	assert.Empty(t, m.notice)
}

func TestPersonaCreationFailureReenables(t *testing.T) {
	m := interviewModel(t)
	m.creating = true
	m.profileSaved = true

	m, cmd := step(t, m, PersonaCreatedMsg{Err: errors.New("500 Internal Server Error")})
	assert.False(t, m.creating)
	assert.Nil(t, cmd)
	assert.Contains(t, m.lastErr, "500")
}

// =============================================================================
// OFFLINE
// =============================================================================

func TestOfflineDisablesMutations(t *testing.T) {
	m := New(styles.NewTheme(), Options{Server: &fakeServer{}, Offline: true})
	m, _ = m.handleResize(tea.WindowSizeMsg{Width: 100, Height: 30})

	m.input.SetValue("hello")
	m, cmd := step(t, m, key("enter"))
	assert.Nil(t, cmd)
	assert.Equal(t, offlineNotice, m.lastErr)
	// The draft survives; nothing was sent.
	assert.Equal(t, "hello", m.input.Value())

	m.lastErr = ""
	m, cmd = step(t, m, key("ctrl+l"))
	assert.Nil(t, cmd)
	assert.Nil(t, m.alert)
	assert.Equal(t, offlineNotice, m.lastErr)
}

func TestGenerateEmptyResultShowsPersonaNotice(t *testing.T) {
	m := newTestModel(t, nil)
	m.generating = true

	m, _ = step(t, m, GenerateDoneMsg{})
	assert.False(t, m.generating)
	assert.Contains(t, m.lastErr, "personas")
}

func TestGenerateOnlyInGeneralAndNotDoubled(t *testing.T) {
	m := newTestModel(t, nil)

	// Human tab: no-op.
	m, cmd := step(t, m, key("ctrl+g"))
	assert.Nil(t, cmd)
	assert.False(t, m.generating)

	m, _ = m.selectTab(model.KeyGeneral)
	m, cmd = step(t, m, key("ctrl+g"))
	assert.NotNil(t, cmd)
	assert.True(t, m.generating)

	m, cmd = step(t, m, key("ctrl+g"))
	assert.Nil(t, cmd)
}
