// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/mingle-social/mingle-tui/internal/model"
)

// =============================================================================
// CONVERSATION MESSAGES
// =============================================================================

// ConversationLoadedMsg carries a full transcript reload.
type ConversationLoadedMsg struct {
	Key      string
	Messages []model.Message
}

// ConversationLoadFailedMsg reports a failed transcript load.
type ConversationLoadFailedMsg struct {
	Key string
	Err error
}

// HumanSentMsg carries the transcript returned after sending a human
// turn, reply included.
type HumanSentMsg struct {
	Messages []model.Message
}

// SendFailedMsg reports a failed human send.
type SendFailedMsg struct {
	Err error
}

// ClearDoneMsg reports the outcome of clearing the human transcript.
type ClearDoneMsg struct {
	Err error
}

// ReactDoneMsg reports the outcome of posting a reaction. On success
// the reducer issues a full human reload; tallies are never updated
// locally.
type ReactDoneMsg struct {
	Err error
}

// GenerateDoneMsg carries the transcript produced by a multi-agent
// generation run.
type GenerateDoneMsg struct {
	Messages []model.Message
	Err      error
}

// =============================================================================
// STREAM MESSAGES
// =============================================================================

// StreamMessageMsg is one message pushed over the history stream.
type StreamMessageMsg struct {
	Message model.Message
}

// StreamClosedMsg reports that the history stream ended. The stream is
// never reopened within a session.
type StreamClosedMsg struct{}

// =============================================================================
// MATCH MESSAGES
// =============================================================================

// MatchesLoadedMsg carries the fetched match list. Failed or empty
// fetches arrive with Simulated set and the built-in fallback list.
type MatchesLoadedMsg struct {
	Matches   []model.Match
	Simulated bool
}

// PersonaLookupMsg carries the result of resolving a match's persona.
// Persona is nil on a miss; the reducer falls back to the stored match
// reason.
type PersonaLookupMsg struct {
	MatchIndex int
	Persona    *model.Persona
	Err        error
}

// ConnectionRequestDoneMsg reports the outcome of a connection request.
type ConnectionRequestDoneMsg struct {
	To  string
	Err error
}

// =============================================================================
// VOICE INTERVIEW MESSAGES
// =============================================================================

// QuestionsLoadedMsg carries the interview question list.
type QuestionsLoadedMsg struct {
	Questions []string
	Err       error
}

// RecordingStartedMsg reports a capture start attempt for one question.
type RecordingStartedMsg struct {
	Question  int
	SessionID string
	Err       error
}

// RecordingTimeoutMsg fires when a recording hits the configured cap.
// SessionID guards against a stale timer stopping a later recording.
type RecordingTimeoutMsg struct {
	Question  int
	SessionID string
}

// TranscriptionDoneMsg carries the transcript for one question's
// recording. Empty text is a legitimate result.
type TranscriptionDoneMsg struct {
	Question int
	Text     string
	Err      error
}

// ProfileSavedMsg reports the outcome of saving the profile.
type ProfileSavedMsg struct {
	Err error
}

// PersonaCreatedMsg reports the outcome of persona creation.
type PersonaCreatedMsg struct {
	Err error
}

// ReturnToChatMsg fires after the post-creation confirmation delay.
type ReturnToChatMsg struct{}
