// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import "strings"

// SECURITY: Server-supplied text is untrusted. A speaker name or message
// body containing escape sequences could move the cursor, retitle the
// window, or restyle the transcript. Sanitize plays the role an HTML
// escaper plays in a browser: everything that is not printable text is
// removed before rendering.

// Sanitize strips terminal control sequences and non-printable control
// characters from s. Newlines and tabs are preserved; tabs because the
// renderer wraps on display width, newlines because messages may be
// multi-line. The result is safe to hand to lipgloss for styling.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(s))

	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		r := runes[i]

		if r == 0x1b { // ESC: start of an ANSI sequence
			i = skipEscapeSequence(runes, i)
			continue
		}

		// C0 controls other than newline and tab, plus DEL and the C1
		// range, are dropped.
		if (r < 0x20 && r != '\n' && r != '\t') || r == 0x7f || (r >= 0x80 && r <= 0x9f) {
			continue
		}

		b.WriteRune(r)
	}

	return b.String()
}

// skipEscapeSequence returns the index of the last rune belonging to the
// escape sequence starting at runes[start] (which is ESC).
func skipEscapeSequence(runes []rune, start int) int {
	i := start + 1
	if i >= len(runes) {
		return i
	}

	switch runes[i] {
	case '[': // CSI: parameters then a final byte in 0x40-0x7e
		for i++; i < len(runes); i++ {
			if runes[i] >= 0x40 && runes[i] <= 0x7e {
				return i
			}
		}
		return i
	case ']': // OSC: terminated by BEL or ST (ESC \)
		for i++; i < len(runes); i++ {
			if runes[i] == 0x07 {
				return i
			}
			if runes[i] == 0x1b && i+1 < len(runes) && runes[i+1] == '\\' {
				return i + 1
			}
		}
		return i
	default:
		// Two-character sequence (ESC + one byte).
		return i
	}
}
