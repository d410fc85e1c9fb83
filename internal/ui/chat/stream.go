// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mingle-social/mingle-tui/internal/model"
)

// Sender is the slice of *tea.Program the stream runner needs.
type Sender interface {
	Send(msg tea.Msg)
}

// StreamSource serves the startup history fetch and the push stream
// that follows it.
type StreamSource interface {
	History(ctx context.Context) ([]model.Message, error)
	OpenHistoryStream(ctx context.Context) (<-chan model.Message, error)
}

// RunHistoryStream delivers the initial human transcript and then
// bridges the push stream into the program's message loop. It returns
// immediately; the forwarding goroutine runs until the stream ends or
// ctx is canceled. The full fetch lands before any pushed message, so
// the transcript never starts mid-stream. The stream is opened once
// per session: when it closes, for any reason, it stays closed.
func RunHistoryStream(ctx context.Context, p Sender, src StreamSource) {
	go func() {
		history, err := src.History(ctx)
		if err != nil {
			p.Send(ConversationLoadFailedMsg{Key: model.KeyHuman, Err: err})
		} else {
			p.Send(ConversationLoadedMsg{Key: model.KeyHuman, Messages: history})
		}

		ch, err := src.OpenHistoryStream(ctx)
		if err != nil {
			log.Printf("chat: history stream unavailable: %v", err)
			p.Send(StreamClosedMsg{})
			return
		}
		for msg := range ch {
			p.Send(StreamMessageMsg{Message: msg})
		}
		p.Send(StreamClosedMsg{})
	}()
}
