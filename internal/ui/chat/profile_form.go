// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mingle-social/mingle-tui/internal/model"
)

// Profile form field order. Comma-separated fields are split into
// lists when the form is submitted.
const (
	fieldFullName = iota
	fieldEmail
	fieldLocation
	fieldJobTitle
	fieldCompany
	fieldSkills
	fieldInterests
	fieldWeekend
	fieldSocialEnergy
	fieldCommStyle
	fieldSeeking
	fieldCount
)

var formLabels = [fieldCount]string{
	fieldFullName:     "Full name",
	fieldEmail:        "Email",
	fieldLocation:     "Location",
	fieldJobTitle:     "Job title",
	fieldCompany:      "Company",
	fieldSkills:       "Skills (comma separated)",
	fieldInterests:    "Interests (comma separated)",
	fieldWeekend:      "A typical weekend",
	fieldSocialEnergy: "Social energy",
	fieldCommStyle:    "Communication style",
	fieldSeeking:      "What you're looking for",
}

var formPlaceholders = [fieldCount]string{
	fieldFullName:     "Ada Lovelace",
	fieldEmail:        "ada@example.com",
	fieldLocation:     "London",
	fieldJobTitle:     "Engineer",
	fieldCompany:      "Analytical Engines Ltd",
	fieldSkills:       "go, sql, writing",
	fieldInterests:    "mathematics, music",
	fieldWeekend:      "long walks and a good book",
	fieldSocialEnergy: "introvert / ambivert / extrovert",
	fieldCommStyle:    "direct / thoughtful / playful",
	fieldSeeking:      "interesting conversations",
}

// newProfileForm builds the onboarding inputs, seeded from any profile
// already assembled so reopening the form edits rather than resets.
func newProfileForm(p model.Profile) []textinput.Model {
	values := [fieldCount]string{
		fieldFullName:     p.Profile.FullName,
		fieldEmail:        p.Profile.Email,
		fieldLocation:     p.Profile.Location,
		fieldJobTitle:     p.Professional.JobTitle,
		fieldCompany:      p.Professional.Company,
		fieldSkills:       strings.Join(p.Professional.Skills, ", "),
		fieldInterests:    strings.Join(p.Interests, ", "),
		fieldWeekend:      p.Weekend,
		fieldSocialEnergy: p.SocialEnergy,
		fieldCommStyle:    p.CommunicationStyle,
		fieldSeeking:      p.Seeking,
	}

	form := make([]textinput.Model, fieldCount)
	for i := range form {
		in := textinput.New()
		in.Placeholder = formPlaceholders[i]
		in.CharLimit = 200
		in.SetValue(values[i])
		form[i] = in
	}
	form[0].Focus()
	return form
}

// assembleProfile turns the form values into the profile payload.
// Comma-separated fields split the way the onboarding always has:
// trimmed, empties dropped.
func assembleProfile(form []textinput.Model) model.Profile {
	var p model.Profile
	p.Profile.FullName = strings.TrimSpace(form[fieldFullName].Value())
	p.Profile.Email = strings.TrimSpace(form[fieldEmail].Value())
	p.Profile.Location = strings.TrimSpace(form[fieldLocation].Value())
	p.Professional.JobTitle = strings.TrimSpace(form[fieldJobTitle].Value())
	p.Professional.Company = strings.TrimSpace(form[fieldCompany].Value())
	p.Professional.Skills = splitList(form[fieldSkills].Value())
	p.Interests = splitList(form[fieldInterests].Value())
	p.Weekend = strings.TrimSpace(form[fieldWeekend].Value())
	p.SocialEnergy = strings.TrimSpace(form[fieldSocialEnergy].Value())
	p.CommunicationStyle = strings.TrimSpace(form[fieldCommStyle].Value())
	p.Seeking = strings.TrimSpace(form[fieldSeeking].Value())
	return p
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// openProfileForm switches to the form view, building the inputs on
// first open.
func (m Model) openProfileForm() (Model, tea.Cmd) {
	if m.form == nil {
		m.form = newProfileForm(m.profile)
		m.formFocus = 0
	}
	m.viewMode = ViewProfileForm
	m.notice = ""
	m.lastErr = ""
	return m, textinput.Blink
}

// =============================================================================
// PROFILE FORM KEYS
// =============================================================================

func (m Model) handleProfileFormKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		return m.focusFormField(m.formFocus + 1)
	case "shift+tab", "up":
		return m.focusFormField(m.formFocus - 1)

	case "enter":
		// Enter advances through the form; on the last field it submits.
		if m.formFocus < fieldCount-1 {
			return m.focusFormField(m.formFocus + 1)
		}
		return m.submitProfileForm()

	case "ctrl+s":
		return m.submitProfileForm()

	case "esc":
		m.viewMode = ViewChat
		return m, nil
	}

	var cmd tea.Cmd
	m.form[m.formFocus], cmd = m.form[m.formFocus].Update(msg)
	return m, cmd
}

func (m Model) focusFormField(i int) (Model, tea.Cmd) {
	if i < 0 {
		i = fieldCount - 1
	}
	if i >= fieldCount {
		i = 0
	}
	m.form[m.formFocus].Blur()
	m.formFocus = i
	return m, m.form[i].Focus()
}

// submitProfileForm assembles and posts the profile. The full name is
// the one field the persona builder cannot do without.
func (m Model) submitProfileForm() (Model, tea.Cmd) {
	if m.offline {
		m.lastErr = offlineNotice
		return m, nil
	}
	profile := assembleProfile(m.form)
	if profile.Profile.FullName == "" {
		m.lastErr = "Full name is required."
		return m, nil
	}
	m.profile = profile
	m.lastErr = ""
	m.notice = ""
	return m, tea.Batch(m.saveProfileCmd(), m.spinner.Tick)
}
