// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package voice captures spoken interview answers.
//
// Recording shells out to whichever audio capture tool is installed
// (arecord, rec, sox, ffmpeg) and collects WAV bytes until stopped.
// One capture session holds the microphone at a time; a second
// question cannot start recording until the first releases it.
package voice

import "errors"

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNoRecorder indicates no supported recording tool is installed.
	// This is the client's version of a denied microphone: recording is
	// simply unavailable.
	ErrNoRecorder = errors.New("no audio recorder found (install arecord, sox, or ffmpeg)")

	// ErrNotRecording indicates Stop was called without a running capture.
	ErrNotRecording = errors.New("not recording")

	// ErrNoAudio indicates the recorder exited without producing audio,
	// typically a missing or busy capture device.
	ErrNoAudio = errors.New("no audio captured")
)

// =============================================================================
// RECORDER INTERFACE
// =============================================================================

// Recorder captures one stretch of audio. Start begins capture; Stop
// ends it and returns the WAV bytes. A Recorder is single-use.
type Recorder interface {
	Start() error
	Stop() ([]byte, error)
}

// RecorderFactory produces a fresh Recorder per capture session.
type RecorderFactory func() (Recorder, error)
