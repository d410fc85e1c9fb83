// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// Match pairs two users with a compatibility score and the reason the
// matcher produced for the pairing.
type Match struct {
	UserA  string  `json:"user_a"`
	UserB  string  `json:"user_b"`
	Score  float64 `json:"score"`
	Reason string  `json:"reason"`
}

// Other returns the counterpart of self in the match, or UserA when
// self is neither side (a match list for another user).
func (m Match) Other(self string) string {
	if m.UserA == self && m.UserB != "" {
		return m.UserB
	}
	if m.UserB == self {
		return m.UserA
	}
	return m.UserA
}

// SimulatedMatches is shown when the server has no real matches yet, so
// the matches view demonstrates its layout instead of sitting empty.
// Simulated entries are rendered with a marker; they have no persona
// behind them and cannot receive connection requests.
var SimulatedMatches = []Match{
	{UserA: "Alex Chen", UserB: "You", Score: 92, Reason: "Shared interest in AI and startups"},
	{UserA: "Jordan Taylor", UserB: "You", Score: 88, Reason: "Both love hiking and outdoor activities"},
	{UserA: "Sam Rivera", UserB: "You", Score: 85, Reason: "Tech and gaming in common"},
	{UserA: "Morgan Lee", UserB: "You", Score: 81, Reason: "Similar communication style and values"},
	{UserA: "Casey Kim", UserB: "You", Score: 78, Reason: "Creative and design interests align"},
}
