// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"encoding/json"
	"strconv"
	"strings"
)

// =============================================================================
// MESSAGE ID
// =============================================================================

// MessageID is a message identifier assigned by the server. The wire
// format is either a JSON number or a JSON string; both are held as a
// string and numeric IDs round-trip back to numbers.
type MessageID string

// UnmarshalJSON accepts a number, a string, or null.
func (id *MessageID) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*id = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*id = MessageID(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = MessageID(n.String())
	return nil
}

// MarshalJSON emits a number when the ID is numeric, otherwise a string.
func (id MessageID) MarshalJSON() ([]byte, error) {
	if id.IsNumeric() {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// IsNumeric reports whether the ID is a decimal integer.
func (id MessageID) IsNumeric() bool {
	if id == "" {
		return false
	}
	_, err := strconv.ParseInt(string(id), 10, 64)
	return err == nil
}

// String returns the string form of the ID.
func (id MessageID) String() string {
	return string(id)
}

// =============================================================================
// MESSAGE
// =============================================================================

// Message is a single transcript entry. Reactions maps an emoji symbol
// to its tally; the key set is open but the UI only offers the fixed
// quick-react palette for adding.
type Message struct {
	ID        MessageID      `json:"id,omitempty"`
	Speaker   string         `json:"speaker"`
	Text      string         `json:"text"`
	Timestamp string         `json:"timestamp,omitempty"`
	Reactions map[string]int `json:"reactions,omitempty"`
}

// ReactionPalette is the fixed set of emoji offered as one-tap reactions.
var ReactionPalette = []string{"👍", "❤️", "😂", "🔥"}

// DisplayID returns the ID to address this message by: the server ID
// when present, otherwise the message's position in the transcript.
func (m Message) DisplayID(position int) MessageID {
	if m.ID != "" {
		return m.ID
	}
	return MessageID(strconv.Itoa(position))
}

// HasReactions reports whether any reaction tally is recorded.
func (m Message) HasReactions() bool {
	return len(m.Reactions) > 0
}

// Preview returns a short single-line preview of the message text.
func (m Message) Preview(maxRunes int) string {
	text := strings.ReplaceAll(m.Text, "\n", " ")
	runes := []rune(text)
	if len(runes) <= maxRunes {
		return text
	}
	if maxRunes <= 3 {
		return string(runes[:maxRunes])
	}
	return string(runes[:maxRunes-3]) + "..."
}
