// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "strings"

// =============================================================================
// CONVERSATION KEYS
// =============================================================================

// Well-known conversation keys. Topic rooms use TopicKey.
const (
	// KeyHuman is the direct human-to-assistant conversation.
	KeyHuman = "human"

	// KeyGeneral is the multi-agent "General" room.
	KeyGeneral = "general"
)

// TopicKey returns the conversation key for a topic room. Keys are the
// lowercased topic name; the server addresses rooms the same way.
func TopicKey(topic string) string {
	return strings.ToLower(strings.TrimSpace(topic))
}

// AddableTopics is the catalog of topic rooms a user may add. Rooms not
// yet added do not appear in the tab bar.
var AddableTopics = []string{
	"Finance",
	"Politics",
	"Science",
	"Books",
	"Music",
	"Gaming",
	"Startups",
	"Travel",
	"Food",
	"Fitness",
	"Art",
	"Movies",
}

// IsAddableTopic reports whether name is in the topic catalog,
// case-insensitively.
func IsAddableTopic(name string) bool {
	for _, t := range AddableTopics {
		if strings.EqualFold(t, name) {
			return true
		}
	}
	return false
}

// =============================================================================
// CONVERSATION
// =============================================================================

// Conversation holds the client's copy of one room's transcript. The
// server is authoritative; Replace installs a fresh server snapshot and
// Append adds incrementally pushed messages.
type Conversation struct {
	Key      string
	Messages []Message
}

// NewConversation returns an empty conversation for key.
func NewConversation(key string) *Conversation {
	return &Conversation{Key: key}
}

// Replace discards the current transcript and installs msgs wholesale.
// Used after any full reload from the server.
func (c *Conversation) Replace(msgs []Message) {
	c.Messages = append(c.Messages[:0:0], msgs...)
}

// Append adds msg to the transcript and reports whether it was added.
// A message whose server ID matches one already present is dropped, so
// a push that races a full reload cannot duplicate an entry. Messages
// without IDs are always appended.
func (c *Conversation) Append(msg Message) bool {
	if msg.ID != "" {
		for _, existing := range c.Messages {
			if existing.ID == msg.ID {
				return false
			}
		}
	}
	c.Messages = append(c.Messages, msg)
	return true
}

// Clear empties the transcript.
func (c *Conversation) Clear() {
	c.Messages = nil
}

// IsEmpty reports whether the transcript has no messages.
func (c *Conversation) IsEmpty() bool {
	return len(c.Messages) == 0
}

// MessageCount returns the number of messages in the transcript.
func (c *Conversation) MessageCount() int {
	return len(c.Messages)
}

// Last returns the most recent message, or false when empty.
func (c *Conversation) Last() (Message, bool) {
	if len(c.Messages) == 0 {
		return Message{}, false
	}
	return c.Messages[len(c.Messages)-1], true
}
