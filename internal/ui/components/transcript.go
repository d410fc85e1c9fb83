// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides reusable UI components for the Mingle TUI.
//
// Every component is a pure function from state to a styled string;
// nothing in this package mutates state or performs I/O.
package components

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mingle-social/mingle-tui/internal/model"
	"github.com/mingle-social/mingle-tui/internal/ui/styles"
	"github.com/mingle-social/mingle-tui/internal/util"
)

// Empty-state notices per conversation.
const (
	EmptyHumanNotice   = "No messages yet. Say something! Claude will reply."
	EmptyGeneralNotice = "No multi-agent conversation yet."
	EmptyTopicNotice   = "No conversation for this topic yet."
)

// EmptyNotice returns the empty-state text for a conversation key.
func EmptyNotice(key string) string {
	switch key {
	case model.KeyHuman:
		return EmptyHumanNotice
	case model.KeyGeneral:
		return EmptyGeneralNotice
	default:
		return EmptyTopicNotice
	}
}

// TranscriptOptions controls transcript rendering.
type TranscriptOptions struct {
	// Width is the available column width.
	Width int
	// WithReactions renders tallies and the quick-react palette
	// (human conversation only).
	WithReactions bool
	// SelfSpeaker marks which speaker renders as "own" bubbles.
	SelfSpeaker string
	// ShowTimestamps renders message timestamps when present.
	ShowTimestamps bool
	// SelectedIndex highlights one message for reaction targeting;
	// -1 selects none.
	SelectedIndex int
	// EmptyNotice overrides the default empty-state text.
	EmptyNotice string
}

// RenderTranscript renders a full conversation transcript. It is total:
// any input renders, and server text is sanitized before styling.
func RenderTranscript(theme *styles.Theme, key string, msgs []model.Message, opts TranscriptOptions) string {
	if opts.Width <= 0 {
		opts.Width = 80
	}

	if len(msgs) == 0 {
		notice := opts.EmptyNotice
		if notice == "" {
			notice = EmptyNotice(key)
		}
		return theme.EmptyNotice.Render(notice)
	}

	var b strings.Builder
	for i, msg := range msgs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(RenderMessage(theme, msg, i, opts))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderMessage renders one message bubble with its reactions.
func RenderMessage(theme *styles.Theme, msg model.Message, position int, opts TranscriptOptions) string {
	speaker := util.Sanitize(msg.Speaker)
	if speaker == "" {
		speaker = fmt.Sprintf("#%s", msg.DisplayID(position))
	}
	text := util.Sanitize(msg.Text)

	bubbleWidth := opts.Width - 8
	if bubbleWidth < 20 {
		bubbleWidth = 20
	}
	body := wordWrap(text, bubbleWidth)

	header := theme.SpeakerName.Render(speaker)
	if opts.ShowTimestamps && msg.Timestamp != "" {
		header += " " + theme.Timestamp.Render(util.Sanitize(msg.Timestamp))
	}

	bubble := theme.OtherBubble
	if opts.SelfSpeaker != "" && strings.EqualFold(msg.Speaker, opts.SelfSpeaker) {
		bubble = theme.SelfBubble
	}
	if position == opts.SelectedIndex {
		bubble = bubble.BorderForeground(styles.Cyan)
	}

	rendered := lipgloss.JoinVertical(lipgloss.Left, header, bubble.Render(body))

	if opts.WithReactions {
		if line := RenderReactions(theme, msg); line != "" {
			rendered = lipgloss.JoinVertical(lipgloss.Left, rendered, line)
		}
	}
	return rendered
}

// RenderReactions renders the existing tallies followed by the
// quick-react palette. Tallies are sorted by emoji for a stable
// layout; the wire map has no order.
func RenderReactions(theme *styles.Theme, msg model.Message) string {
	var parts []string

	if msg.HasReactions() {
		emojis := make([]string, 0, len(msg.Reactions))
		for emoji := range msg.Reactions {
			emojis = append(emojis, emoji)
		}
		sort.Strings(emojis)
		for _, emoji := range emojis {
			parts = append(parts, theme.ReactionBadge.Render(fmt.Sprintf("%s %d", emoji, msg.Reactions[emoji])))
		}
	}

	for _, emoji := range model.ReactionPalette {
		parts = append(parts, theme.ReactionAdd.Render("+"+emoji))
	}

	if len(parts) == 0 {
		return ""
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// wordWrap wraps text to the given display width, preserving existing
// line breaks. UNICODE: widths are measured in terminal columns, not
// bytes or runes.
func wordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	var out []string
	for _, line := range strings.Split(text, "\n") {
		if util.StringWidth(line) <= width {
			out = append(out, line)
			continue
		}

		var current string
		for _, word := range strings.Fields(line) {
			if current == "" {
				current = word
			} else if util.StringWidth(current)+1+util.StringWidth(word) <= width {
				current += " " + word
			} else {
				out = append(out, current)
				current = word
			}
		}
		if current != "" {
			out = append(out, current)
		}
	}
	return strings.Join(out, "\n")
}
