// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/mingle-social/mingle-tui/internal/model"
	"github.com/mingle-social/mingle-tui/internal/ui/styles"
	"github.com/mingle-social/mingle-tui/internal/util"
)

// RowState is the capture state of one interview question row.
type RowState int

const (
	RowIdle RowState = iota
	RowRecording
	RowTranscribing
)

// InterviewRow is the render state for one question.
type InterviewRow struct {
	Question string
	Answer   string
	State    RowState
	// Err is a row-scoped error; it never leaks to other rows.
	Err string
}

// NoSpeechNotice is shown for an answer that transcribed to nothing.
const NoSpeechNotice = "(no speech detected)"

// TranscribingNotice is shown while the upload is in flight.
const TranscribingNotice = "Transcribing…"

// RenderInterview renders the voice interview: one row per question
// with its capture state and answer.
func RenderInterview(theme *styles.Theme, rows []InterviewRow, selected int, width int) string {
	if len(rows) == 0 {
		return theme.EmptyNotice.Render("No interview questions available.")
	}

	var b strings.Builder
	for i, row := range rows {
		style := theme.QuestionRow
		if i == selected {
			style = theme.QuestionSelected
		}

		label := util.Sanitize(row.Question)
		switch row.State {
		case RowRecording:
			label = theme.RecordingMark.Render(styles.StatusIndicators.Recording) + " " + label
		case RowTranscribing:
			label += " " + theme.ThinkingText.Render(TranscribingNotice)
		}
		b.WriteString(style.Render(util.TruncateWidth(label, width-2)))
		b.WriteString("\n")

		if row.Err != "" {
			b.WriteString(theme.InlineError.Render(util.Sanitize(row.Err)))
			b.WriteString("\n")
		} else if row.State == RowIdle && row.Answer != "" {
			answer := row.Answer
			if strings.TrimSpace(answer) == "" {
				answer = NoSpeechNotice
			}
			b.WriteString(theme.AnswerText.Render(util.TruncateWidth(util.Sanitize(answer), width-4)))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// AnsweredCount returns how many rows carry a non-empty answer, the
// number sent along with persona creation.
func AnsweredCount(rows []InterviewRow) int {
	n := 0
	for _, row := range rows {
		if strings.TrimSpace(row.Answer) != "" {
			n++
		}
	}
	return n
}

// ToQAEntries converts rows to the persona-creation payload entries.
func ToQAEntries(rows []InterviewRow) []model.QAEntry {
	entries := make([]model.QAEntry, len(rows))
	for i, row := range rows {
		entries[i] = model.QAEntry{Question: row.Question, Answer: row.Answer}
	}
	return entries
}
