// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "strings"

// =============================================================================
// PERSONA
// =============================================================================

// Persona is the server-generated agent built from a user's profile and
// interview answers. It is what other users' agents converse with.
type Persona struct {
	Name               string   `json:"name"`
	PersonalitySummary string   `json:"personality_summary"`
	Interests          []string `json:"interests"`
}

// =============================================================================
// PROFILE
// =============================================================================

// Profile is the onboarding form payload. The nested shape matches what
// the persona builder expects.
type Profile struct {
	Profile struct {
		FullName string `json:"fullName"`
		Email    string `json:"email"`
		Location string `json:"location"`
	} `json:"profile"`
	Professional struct {
		JobTitle string   `json:"jobTitle"`
		Company  string   `json:"company"`
		Skills   []string `json:"skills"`
	} `json:"professional"`
	Interests          []string `json:"interests"`
	Weekend            string   `json:"weekend"`
	SocialEnergy       string   `json:"socialEnergy"`
	CommunicationStyle string   `json:"communicationStyle"`
	Seeking            string   `json:"seeking"`
}

// DisplayName returns the profile's full name, or "you" when unset.
func (p Profile) DisplayName() string {
	if name := strings.TrimSpace(p.Profile.FullName); name != "" {
		return name
	}
	return "you"
}

// =============================================================================
// INTERVIEW
// =============================================================================

// QAEntry is one interview question with the user's spoken answer.
type QAEntry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// AnsweredEntries filters entries down to those with a non-empty answer.
// Returns nil when nothing was answered, which the persona request
// encodes as a null conversation rather than an empty list.
func AnsweredEntries(entries []QAEntry) []QAEntry {
	var out []QAEntry
	for _, e := range entries {
		if strings.TrimSpace(e.Answer) != "" {
			out = append(out, e)
		}
	}
	return out
}
