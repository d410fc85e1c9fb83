// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mingle-social/mingle-tui/internal/model"
	"github.com/mingle-social/mingle-tui/internal/storage"
	"github.com/mingle-social/mingle-tui/internal/ui/components"
)

// requestTimeout bounds every command-issued API call.
const requestTimeout = 30 * time.Second

// noticeDuration is how long the persona-created confirmation shows
// before returning to the chat view.
const noticeDuration = 2 * time.Second

// =============================================================================
// CONVERSATION COMMANDS
// =============================================================================

// loadConversationCmd fetches a transcript. Offline mode reads the
// local cache instead.
func (m Model) loadConversationCmd(key string) tea.Cmd {
	cache := m.cache
	server := m.server
	offline := m.offline
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if offline {
			if cache == nil {
				return ConversationLoadedMsg{Key: key}
			}
			msgs, err := cache.Load(ctx, key)
			if err != nil {
				if errors.Is(err, storage.ErrConversationNotCached) {
					return ConversationLoadedMsg{Key: key}
				}
				return ConversationLoadFailedMsg{Key: key, Err: err}
			}
			return ConversationLoadedMsg{Key: key, Messages: msgs}
		}

		msgs, err := server.Conversation(ctx, key)
		if err != nil {
			return ConversationLoadFailedMsg{Key: key, Err: err}
		}
		return ConversationLoadedMsg{Key: key, Messages: msgs}
	}
}

// sendHumanCmd sends one human turn.
func (m Model) sendHumanCmd(text string) tea.Cmd {
	server := m.server
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		msgs, err := server.SendHumanMessage(ctx, text)
		if err != nil {
			return SendFailedMsg{Err: err}
		}
		return HumanSentMsg{Messages: msgs}
	}
}

// clearHumanCmd deletes the human transcript on the server.
func (m Model) clearHumanCmd() tea.Cmd {
	server := m.server
	cache := m.cache
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if err := server.ClearHumanConversation(ctx); err != nil {
			return ClearDoneMsg{Err: err}
		}
		if cache != nil {
			if err := cache.Delete(ctx, model.KeyHuman); err != nil {
				log.Printf("chat: cache delete failed: %v", err)
			}
		}
		return ClearDoneMsg{}
	}
}

// reactCmd posts one reaction. The transcript is reloaded on success;
// nothing is adjusted locally.
func (m Model) reactCmd(messageID model.MessageID, emoji string) tea.Cmd {
	server := m.server
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return ReactDoneMsg{Err: server.React(ctx, messageID, emoji)}
	}
}

// generateCmd runs a multi-agent exchange in the General room.
func (m Model) generateCmd() tea.Cmd {
	server := m.server
	turns := 10
	if m.cfg != nil {
		turns = m.cfg.Server.GenerateTurns
	}
	return func() tea.Msg {
		// Generation drives several model turns server-side; give it
		// more room than a plain fetch.
		ctx, cancel := context.WithTimeout(context.Background(), 3*requestTimeout)
		defer cancel()

		msgs, err := server.Generate(ctx, turns)
		return GenerateDoneMsg{Messages: msgs, Err: err}
	}
}

// cacheReplaceCmd mirrors a reloaded transcript into the local cache.
// Cache failures are logged, never surfaced.
func (m Model) cacheReplaceCmd(key string, msgs []model.Message) tea.Cmd {
	cache := m.cache
	if cache == nil || m.offline {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if err := cache.Replace(ctx, key, msgs); err != nil {
			log.Printf("chat: cache replace failed: %v", err)
		}
		return nil
	}
}

// cacheAppendCmd mirrors one streamed message into the local cache.
func (m Model) cacheAppendCmd(key string, msg model.Message) tea.Cmd {
	cache := m.cache
	if cache == nil || m.offline {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if err := cache.Append(ctx, key, msg); err != nil {
			log.Printf("chat: cache append failed: %v", err)
		}
		return nil
	}
}

// =============================================================================
// MATCH COMMANDS
// =============================================================================

// loadMatchesCmd fetches matches, falling back to the built-in
// simulated list when the server fails or has nothing.
func (m Model) loadMatchesCmd() tea.Cmd {
	server := m.server
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		matches, err := server.Matches(ctx)
		if err != nil || len(matches) == 0 {
			if err != nil {
				log.Printf("chat: match fetch failed, using simulated list: %v", err)
			}
			return MatchesLoadedMsg{Matches: model.SimulatedMatches, Simulated: true}
		}
		return MatchesLoadedMsg{Matches: matches}
	}
}

// lookupPersonaCmd resolves a match's persona by case-insensitive
// exact name match.
func (m Model) lookupPersonaCmd(matchIndex int, name string) tea.Cmd {
	server := m.server
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		personas, err := server.Personas(ctx)
		if err != nil {
			return PersonaLookupMsg{MatchIndex: matchIndex, Err: err}
		}
		for i := range personas {
			if strings.EqualFold(personas[i].Name, name) {
				return PersonaLookupMsg{MatchIndex: matchIndex, Persona: &personas[i]}
			}
		}
		return PersonaLookupMsg{MatchIndex: matchIndex}
	}
}

// connectionRequestCmd sends a connection request.
func (m Model) connectionRequestCmd(to string) tea.Cmd {
	server := m.server
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return ConnectionRequestDoneMsg{To: to, Err: server.SendConnectionRequest(ctx, to)}
	}
}

// =============================================================================
// VOICE INTERVIEW COMMANDS
// =============================================================================

// loadQuestionsCmd fetches the interview questions.
func (m Model) loadQuestionsCmd() tea.Cmd {
	server := m.server
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		questions, err := server.Questions(ctx)
		return QuestionsLoadedMsg{Questions: questions, Err: err}
	}
}

// startRecordingCmd acquires the capture session for one question.
func (m Model) startRecordingCmd(question int) tea.Cmd {
	capture := m.capture
	return func() tea.Msg {
		if capture == nil {
			return RecordingStartedMsg{Question: question, Err: errors.New("voice capture unavailable")}
		}
		s, err := capture.Start(question)
		if err != nil {
			return RecordingStartedMsg{Question: question, Err: err}
		}
		return RecordingStartedMsg{Question: question, SessionID: s.ID}
	}
}

// recordingTimeoutCmd fires the configured recording cap for a session.
func recordingTimeoutCmd(question int, sessionID string, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return RecordingTimeoutMsg{Question: question, SessionID: sessionID}
	})
}

// stopRecordingCmd finalizes the capture and uploads it for
// transcription.
func (m Model) stopRecordingCmd(question int) tea.Cmd {
	capture := m.capture
	server := m.server
	return func() tea.Msg {
		audio, err := capture.Stop(question)
		if err != nil {
			return TranscriptionDoneMsg{Question: question, Err: err}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 2*requestTimeout)
		defer cancel()

		text, err := server.Transcribe(ctx, audio)
		if err != nil {
			return TranscriptionDoneMsg{Question: question, Err: err}
		}
		return TranscriptionDoneMsg{Question: question, Text: strings.TrimSpace(text)}
	}
}

// saveProfileCmd stores the profile on the server.
func (m Model) saveProfileCmd() tea.Cmd {
	server := m.server
	profile := m.profile
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return ProfileSavedMsg{Err: server.SaveProfile(ctx, profile)}
	}
}

// createPersonaCmd builds the user's agent from the profile and the
// answered interview entries.
func (m Model) createPersonaCmd() tea.Cmd {
	server := m.server
	profile := m.profile
	entries := model.AnsweredEntries(components.ToQAEntries(m.rows))
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*requestTimeout)
		defer cancel()
		return PersonaCreatedMsg{Err: server.CreatePersona(ctx, profile, entries)}
	}
}

// returnToChatCmd fires after the confirmation notice delay.
func returnToChatCmd() tea.Cmd {
	return tea.Tick(noticeDuration, func(time.Time) tea.Msg {
		return ReturnToChatMsg{}
	})
}
