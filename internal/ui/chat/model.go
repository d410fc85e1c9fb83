// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the main Mingle view: conversation tabs, the
// match list and detail panel, the add-topic picker, and the voice
// interview.
//
// The package follows the Elm architecture: all view state lives in
// Model, every transition happens in Update, and View is a pure
// function of the current state. Network work runs in commands and
// re-enters Update as messages.
package chat

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mingle-social/mingle-tui/internal/config"
	"github.com/mingle-social/mingle-tui/internal/model"
	"github.com/mingle-social/mingle-tui/internal/storage"
	"github.com/mingle-social/mingle-tui/internal/ui/components"
	"github.com/mingle-social/mingle-tui/internal/ui/styles"
	"github.com/mingle-social/mingle-tui/internal/voice"
)

// =============================================================================
// SERVER INTERFACE
// =============================================================================

// Server is the slice of the API client the view uses. Tests provide
// fakes; production passes *api.Client.
type Server interface {
	Conversation(ctx context.Context, key string) ([]model.Message, error)
	SendHumanMessage(ctx context.Context, text string) ([]model.Message, error)
	ClearHumanConversation(ctx context.Context) error
	React(ctx context.Context, messageID model.MessageID, emoji string) error
	Generate(ctx context.Context, turns int) ([]model.Message, error)
	Matches(ctx context.Context) ([]model.Match, error)
	Personas(ctx context.Context) ([]model.Persona, error)
	SendConnectionRequest(ctx context.Context, to string) error
	SaveProfile(ctx context.Context, p model.Profile) error
	Questions(ctx context.Context) ([]string, error)
	Transcribe(ctx context.Context, audioBase64 string) (string, error)
	CreatePersona(ctx context.Context, profile model.Profile, conversation []model.QAEntry) error
}

// =============================================================================
// VIEW MODE
// =============================================================================

// ViewMode selects which panel fills the content area. Chat and
// MatchDetail are mutually exclusive; switching to a chat tab always
// leaves MatchDetail.
type ViewMode int

const (
	// ViewChat shows the active conversation's transcript and input.
	ViewChat ViewMode = iota
	// ViewMatches shows the match card list.
	ViewMatches
	// ViewMatchDetail shows one match's detail panel; transcript and
	// input are hidden.
	ViewMatchDetail
	// ViewTopicPicker shows the add-topic catalog.
	ViewTopicPicker
	// ViewProfileForm shows the onboarding profile form.
	ViewProfileForm
	// ViewInterview shows the voice interview.
	ViewInterview
)

// =============================================================================
// MODEL
// =============================================================================

// alertAction is what a confirmed alert does.
type alertAction int

const (
	alertNone alertAction = iota
	alertClearHuman
)

// Model is the complete view state.
type Model struct {
	theme  *styles.Theme
	server Server
	cache  *storage.TranscriptCache
	cfg    *config.Config

	// Layout
	width  int
	height int
	ready  bool

	// Widgets
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	// Conversation state
	tabs          []components.Tab
	activeChatKey string
	conversations map[string]*model.Conversation
	loading       bool
	lastErr       string

	// View mode
	viewMode ViewMode

	// Reaction targeting: index into the active transcript, -1 none.
	selectedMessage int

	// Match state
	matches            []model.Match
	matchesSimulated   bool
	selectedMatchIndex int
	matchPersona       *model.Persona

	// Topic picker
	topicCursor int

	// Profile form
	form      []textinput.Model
	formFocus int

	// Voice interview
	rows          []components.InterviewRow
	questionIndex int
	capture       *voice.Capture
	profile       model.Profile
	profileSaved  bool
	creating      bool
	notice        string

	// In-flight guards
	generating bool

	// Modal alert
	alert       *components.Alert
	alertDo     alertAction
	alertReturn ViewMode

	// Offline mode renders cached transcripts and disables mutations.
	offline bool
}

// Options configures a new chat model.
type Options struct {
	Server  Server
	Cache   *storage.TranscriptCache
	Config  *config.Config
	Capture *voice.Capture
	Offline bool
}

// New creates the chat model with the human conversation active.
func New(theme *styles.Theme, opts Options) Model {
	input := textinput.New()
	input.Placeholder = "Type a message..."
	input.CharLimit = 4000
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Spinner

	return Model{
		theme:  theme,
		server: opts.Server,
		cache:  opts.Cache,
		cfg:    opts.Config,

		input:   input,
		spinner: sp,

		tabs:          append([]components.Tab{}, components.BaseTabs...),
		activeChatKey: model.KeyHuman,
		conversations: map[string]*model.Conversation{},

		viewMode:           ViewChat,
		loading:            true,
		selectedMessage:    -1,
		selectedMatchIndex: -1,

		capture: opts.Capture,
		offline: opts.Offline,
	}
}

// Init starts widget ticks and, offline, loads the active conversation
// from the cache. Online, the history runner delivers the initial
// transcript before attaching the push stream.
func (m Model) Init() tea.Cmd {
	if m.offline {
		return tea.Batch(
			m.loadConversationCmd(m.activeChatKey),
			m.spinner.Tick,
		)
	}
	return m.spinner.Tick
}

// conversation returns (creating if needed) the transcript for key.
func (m *Model) conversation(key string) *model.Conversation {
	c, ok := m.conversations[key]
	if !ok {
		c = model.NewConversation(key)
		m.conversations[key] = c
	}
	return c
}

// hasTab reports whether a tab with key exists.
func (m *Model) hasTab(key string) bool {
	for _, tab := range m.tabs {
		if tab.Key == key {
			return true
		}
	}
	return false
}

// ActiveChatKey returns the key of the active conversation tab.
func (m Model) ActiveChatKey() string {
	return m.activeChatKey
}

// Mode returns the current view mode.
func (m Model) Mode() ViewMode {
	return m.viewMode
}
