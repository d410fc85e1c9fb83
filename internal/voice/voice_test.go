// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package voice

import (
	"encoding/base64"
	"errors"
	"testing"
)

// fakeRecorder captures nothing and returns canned bytes.
type fakeRecorder struct {
	wav       []byte
	startErr  error
	stopErr   error
	started   bool
	stopped   bool
}

func (f *fakeRecorder) Start() error {
	f.started = true
	return f.startErr
}

func (f *fakeRecorder) Stop() ([]byte, error) {
	f.stopped = true
	if f.stopErr != nil {
		return nil, f.stopErr
	}
	return f.wav, nil
}

func fakeFactory(r *fakeRecorder) RecorderFactory {
	return func() (Recorder, error) { return r, nil }
}

func TestCaptureStartStop(t *testing.T) {
	rec := &fakeRecorder{wav: []byte("RIFFfake")}
	c := NewCapture(fakeFactory(rec))

	sess, err := c.Start(2)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if sess.Question != 2 || sess.ID == "" {
		t.Errorf("session = %+v", sess)
	}
	if !rec.started {
		t.Error("recorder not started")
	}

	encoded, err := c.Stop(2)
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	decoded, _ := base64.StdEncoding.DecodeString(encoded)
	if string(decoded) != "RIFFfake" {
		t.Errorf("decoded audio = %q", decoded)
	}
	if c.Active() != nil {
		t.Error("session should be released after stop")
	}
}

func TestCaptureLockRejectsSecondQuestion(t *testing.T) {
	c := NewCapture(fakeFactory(&fakeRecorder{wav: []byte("x")}))

	if _, err := c.Start(0); err != nil {
		t.Fatal(err)
	}
	// Another question cannot take the microphone.
	if _, err := c.Start(1); !errors.Is(err, ErrSessionActive) {
		t.Errorf("err = %v, want ErrSessionActive", err)
	}
	// Nor can the same question start twice.
	if _, err := c.Start(0); !errors.Is(err, ErrSessionActive) {
		t.Errorf("err = %v, want ErrSessionActive", err)
	}

	if _, err := c.Stop(0); err != nil {
		t.Fatal(err)
	}
	// Released: anyone may record again.
	if _, err := c.Start(1); err != nil {
		t.Errorf("start after release: %v", err)
	}
}

func TestStopWrongQuestion(t *testing.T) {
	c := NewCapture(fakeFactory(&fakeRecorder{wav: []byte("x")}))
	c.Start(3)

	if _, err := c.Stop(5); !errors.Is(err, ErrNoSession) {
		t.Errorf("err = %v, want ErrNoSession", err)
	}
	// The real session is untouched.
	if c.Active() == nil || c.Active().Question != 3 {
		t.Error("active session lost after mismatched stop")
	}
}

func TestStartFailureLeavesIdle(t *testing.T) {
	c := NewCapture(func() (Recorder, error) { return nil, ErrNoRecorder })

	if _, err := c.Start(0); !errors.Is(err, ErrNoRecorder) {
		t.Fatalf("err = %v, want ErrNoRecorder", err)
	}
	if c.Active() != nil {
		t.Error("failed start must not hold the lock")
	}
	// A working factory can record afterwards.
	c2 := NewCapture(fakeFactory(&fakeRecorder{wav: []byte("x")}))
	if _, err := c2.Start(0); err != nil {
		t.Errorf("start: %v", err)
	}
}

func TestDeviceFailureReleasesSession(t *testing.T) {
	rec := &fakeRecorder{stopErr: ErrNoAudio}
	c := NewCapture(fakeFactory(rec))
	c.Start(1)

	if _, err := c.Stop(1); !errors.Is(err, ErrNoAudio) {
		t.Errorf("err = %v, want ErrNoAudio", err)
	}
	if c.Active() != nil {
		t.Error("session must release on device failure")
	}
}

func TestAbortReleasesSession(t *testing.T) {
	rec := &fakeRecorder{wav: []byte("x")}
	c := NewCapture(fakeFactory(rec))
	c.Start(0)

	c.Abort()
	if !rec.stopped {
		t.Error("abort should stop the recorder")
	}
	if c.Active() != nil {
		t.Error("abort should release the session")
	}
}

func TestSessionIDsUnique(t *testing.T) {
	c := NewCapture(fakeFactory(&fakeRecorder{wav: []byte("x")}))

	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		s, err := c.Start(0)
		if err != nil {
			t.Fatal(err)
		}
		if seen[s.ID] {
			t.Fatalf("duplicate session ID %s", s.ID)
		}
		seen[s.ID] = true
		c.Stop(0)
	}
}

func TestFindRecorderCommandUnknownPreferred(t *testing.T) {
	if _, _, err := FindRecorderCommand("not-a-real-recorder"); !errors.Is(err, ErrNoRecorder) {
		t.Errorf("err = %v, want ErrNoRecorder", err)
	}
}
