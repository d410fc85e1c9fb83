// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package voice

import (
	"encoding/base64"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// =============================================================================
// CAPTURE SESSION
// =============================================================================

var (
	// ErrSessionActive indicates another question already holds the
	// microphone. Starting a second capture fails fast instead of
	// silently stealing the device.
	ErrSessionActive = errors.New("another recording is in progress")

	// ErrNoSession indicates a stop for a question with no active capture.
	ErrNoSession = errors.New("no active recording for this question")
)

// Session is one active capture, tied to the interview question it
// answers.
type Session struct {
	ID       string
	Question int
}

// Capture owns the microphone. It enforces the single-session rule:
// at most one question records at a time, and start/stop are matched
// by question index.
type Capture struct {
	factory RecorderFactory

	mu       sync.Mutex
	active   *Session
	recorder Recorder
}

// NewCapture creates a capture manager using factory for recorders.
func NewCapture(factory RecorderFactory) *Capture {
	return &Capture{factory: factory}
}

// Active returns the current session, or nil when idle.
func (c *Capture) Active() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil {
		return nil
	}
	s := *c.active
	return &s
}

// Start begins recording an answer for question. Fails with
// ErrSessionActive when any question (including this one) is already
// recording; recorder construction or device failures release nothing
// and leave the capture idle.
func (c *Capture) Start(question int) (*Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active != nil {
		return nil, fmt.Errorf("%w (question %d)", ErrSessionActive, c.active.Question)
	}

	recorder, err := c.factory()
	if err != nil {
		return nil, err
	}
	if err := recorder.Start(); err != nil {
		return nil, err
	}

	c.active = &Session{
		ID:       uuid.NewString(),
		Question: question,
	}
	c.recorder = recorder

	s := *c.active
	return &s, nil
}

// Stop ends the capture for question and returns the audio encoded as
// base64 WAV, ready for the transcription upload. The session is
// released whether or not the recorder produced audio.
func (c *Capture) Stop(question int) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active == nil || c.active.Question != question {
		return "", ErrNoSession
	}

	recorder := c.recorder
	c.active = nil
	c.recorder = nil

	wav, err := recorder.Stop()
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(wav), nil
}

// Abort releases the active session without keeping the audio. Used
// when the interview view is left mid-recording.
func (c *Capture) Abort() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.recorder != nil {
		c.recorder.Stop()
	}
	c.active = nil
	c.recorder = nil
}
