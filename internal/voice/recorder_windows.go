// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

//go:build windows
// +build windows

package voice

// Audio capture is unsupported on Windows; the interview runs in
// unavailable mode, same as when no recorder binary is installed.

// FindRecorderCommand reports that no recorder is available.
func FindRecorderCommand(preferred string) (string, []string, error) {
	return "", nil, ErrNoRecorder
}

// NewExecRecorder builds a factory that always reports no recorder.
func NewExecRecorder(preferred string) RecorderFactory {
	return func() (Recorder, error) {
		return nil, ErrNoRecorder
	}
}
