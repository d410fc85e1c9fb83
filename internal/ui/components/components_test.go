// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	"github.com/mingle-social/mingle-tui/internal/model"
	"github.com/mingle-social/mingle-tui/internal/ui/styles"
)

func testTheme() *styles.Theme {
	return styles.NewTheme()
}

func TestEmptyNoticePerConversation(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{model.KeyHuman, EmptyHumanNotice},
		{model.KeyGeneral, EmptyGeneralNotice},
		{"finance", EmptyTopicNotice},
	}
	for _, tc := range tests {
		if got := EmptyNotice(tc.key); got != tc.want {
			t.Errorf("EmptyNotice(%q) = %q, want %q", tc.key, got, tc.want)
		}
	}
}

func TestRenderTranscriptEmpty(t *testing.T) {
	out := RenderTranscript(testTheme(), model.KeyGeneral, nil, TranscriptOptions{Width: 80, SelectedIndex: -1})
	if !strings.Contains(out, EmptyGeneralNotice) {
		t.Errorf("empty transcript should show notice, got %q", out)
	}
}

func TestRenderTranscriptShowsSpeakerAndText(t *testing.T) {
	msgs := []model.Message{
		{Speaker: "Alex", Text: "Hi"},
	}
	out := RenderTranscript(testTheme(), model.KeyGeneral, msgs, TranscriptOptions{Width: 80, SelectedIndex: -1})
	if !strings.Contains(out, "Alex") || !strings.Contains(out, "Hi") {
		t.Errorf("transcript missing speaker or text: %q", out)
	}
}

func TestRenderTranscriptSanitizesServerText(t *testing.T) {
	// Escaping requirement: server text must not reach the terminal
	// with control sequences intact.
	msgs := []model.Message{
		{Speaker: "evil\x1b]0;owned\x07", Text: "hi\x1b[2J there"},
	}
	out := RenderTranscript(testTheme(), model.KeyHuman, msgs, TranscriptOptions{Width: 80, SelectedIndex: -1})
	if strings.Contains(out, "\x1b]") || strings.Contains(out, "[2J") {
		t.Errorf("unsanitized control sequences in output")
	}
	if !strings.Contains(out, "evil") || !strings.Contains(out, "hi") {
		t.Errorf("legitimate text was lost: %q", out)
	}
}

func TestRenderReactionsBadgesAndPalette(t *testing.T) {
	theme := testTheme()
	msg := model.Message{Reactions: map[string]int{"👍": 3}}
	out := RenderReactions(theme, msg)
	if !strings.Contains(out, "👍 3") {
		t.Errorf("missing tally badge: %q", out)
	}
	// The full 4-emoji add palette is always offered.
	for _, emoji := range model.ReactionPalette {
		if !strings.Contains(out, "+"+emoji) {
			t.Errorf("palette missing %s", emoji)
		}
	}
}

func TestReactionsOnlyWhenEnabled(t *testing.T) {
	msgs := []model.Message{{Speaker: "a", Text: "b"}}
	with := RenderTranscript(testTheme(), model.KeyHuman, msgs, TranscriptOptions{Width: 80, WithReactions: true, SelectedIndex: -1})
	without := RenderTranscript(testTheme(), model.KeyGeneral, msgs, TranscriptOptions{Width: 80, SelectedIndex: -1})
	if !strings.Contains(with, "+👍") {
		t.Error("reactions enabled but palette missing")
	}
	if strings.Contains(without, "+👍") {
		t.Error("palette rendered with reactions disabled")
	}
}

func TestRenderMatchList(t *testing.T) {
	out := RenderMatchList(testTheme(), model.SimulatedMatches, 1, true, 80)
	for _, m := range model.SimulatedMatches {
		if !strings.Contains(out, m.UserA) {
			t.Errorf("match list missing %s", m.UserA)
		}
	}
	if !strings.Contains(out, "92%") {
		t.Errorf("score missing: %q", out)
	}
	if !strings.Contains(out, "example matches") {
		t.Error("simulated marker missing")
	}
}

func TestRenderMatchDetail(t *testing.T) {
	match := model.Match{UserA: "Alex Chen", Score: 92, Reason: "Shared interest in AI and startups"}
	out := RenderMatchDetail(testTheme(), match, nil, 100)
	if !strings.Contains(out, "Alex Chen") || !strings.Contains(out, "Shared interest in AI and startups") {
		t.Errorf("detail missing fields: %q", out)
	}

	persona := &model.Persona{Name: "Alex Chen", PersonalitySummary: "Curious builder", Interests: []string{"AI", "startups"}}
	out = RenderMatchDetail(testTheme(), match, persona, 100)
	if !strings.Contains(out, "Curious builder") || !strings.Contains(out, "AI, startups") {
		t.Errorf("detail missing persona fragment: %q", out)
	}
}

func TestRenderTabBarHighlightsActive(t *testing.T) {
	tabs := append([]Tab{}, BaseTabs...)
	tabs = append(tabs, Tab{Key: "finance", Label: "Finance"})
	out := RenderTabBar(testTheme(), tabs, "finance", 120)
	if !strings.Contains(out, "Finance") || !strings.Contains(out, "General") {
		t.Errorf("tab bar missing labels: %q", out)
	}
	if !strings.Contains(out, "+ topic") {
		t.Error("add-topic affordance missing")
	}
}

func TestRenderTopicPickerMarksAdded(t *testing.T) {
	added := map[string]bool{"finance": true}
	out := RenderTopicPicker(testTheme(), added, 0)
	if !strings.Contains(out, "Finance (added)") {
		t.Errorf("added marker missing: %q", out)
	}
	for _, topic := range model.AddableTopics {
		if !strings.Contains(out, topic) {
			t.Errorf("catalog missing %s", topic)
		}
	}
}

func TestRenderInterviewStates(t *testing.T) {
	rows := []InterviewRow{
		{Question: "Q1", Answer: "spoken answer"},
		{Question: "Q2", State: RowRecording},
		{Question: "Q3", State: RowTranscribing},
		{Question: "Q4", Err: "no audio captured"},
	}
	out := RenderInterview(testTheme(), rows, 0, 100)

	if !strings.Contains(out, "spoken answer") {
		t.Error("answer missing")
	}
	if !strings.Contains(out, styles.StatusIndicators.Recording) {
		t.Error("recording marker missing")
	}
	if !strings.Contains(out, TranscribingNotice) {
		t.Error("transcribing notice missing")
	}
	if !strings.Contains(out, "no audio captured") {
		t.Error("row-scoped error missing")
	}
}

func TestRenderInterviewEmptyAnswerNotice(t *testing.T) {
	rows := []InterviewRow{{Question: "Q1", Answer: "   "}}
	out := RenderInterview(testTheme(), rows, -1, 100)
	if !strings.Contains(out, NoSpeechNotice) {
		t.Errorf("whitespace answer should show %q: %q", NoSpeechNotice, out)
	}
}

func TestAnsweredCount(t *testing.T) {
	rows := []InterviewRow{
		{Answer: "a"},
		{Answer: ""},
		{Answer: "  "},
		{Answer: "b"},
	}
	if got := AnsweredCount(rows); got != 2 {
		t.Errorf("AnsweredCount = %d, want 2", got)
	}
}

func TestRenderAlert(t *testing.T) {
	out := RenderAlert(testTheme(), Alert{Title: "Error", Message: "request failed"}, 80, 24)
	if !strings.Contains(out, "Error") || !strings.Contains(out, "request failed") {
		t.Errorf("alert missing content: %q", out)
	}
	if !strings.Contains(out, "enter to dismiss") {
		t.Error("dismiss hint missing")
	}

	confirm := RenderAlert(testTheme(), Alert{Message: "Clear conversation?", Confirm: true}, 80, 24)
	if !strings.Contains(confirm, "y confirm") {
		t.Error("confirm hint missing")
	}
}

func TestWordWrapPreservesBreaks(t *testing.T) {
	got := wordWrap("one two three four", 9)
	for _, line := range strings.Split(got, "\n") {
		if len(line) > 9 {
			t.Errorf("line %q exceeds width", line)
		}
	}
	if wordWrap("a\nb", 80) != "a\nb" {
		t.Error("existing breaks should be preserved")
	}
}
