// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

//go:build !windows
// +build !windows

package voice

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"syscall"
	"time"
)

// =============================================================================
// EXEC RECORDER
// =============================================================================

// recorderCommand describes how to drive one capture tool. Each writes
// WAV to stdout until interrupted.
type recorderCommand struct {
	name string
	args []string
}

// recorderCommands is the probe order. arecord is the ALSA native
// choice on Linux; rec and sox are the same binary under two names;
// ffmpeg is the catch-all.
var recorderCommands = []recorderCommand{
	{"arecord", []string{"-f", "cd", "-t", "wav", "-q", "-"}},
	{"rec", []string{"-q", "-t", "wav", "-"}},
	{"sox", []string{"-q", "-d", "-t", "wav", "-"}},
	{"ffmpeg", []string{"-loglevel", "quiet", "-f", "alsa", "-i", "default", "-f", "wav", "pipe:1"}},
}

// FindRecorderCommand locates a usable capture tool. A non-empty
// preferred name restricts the search to that tool.
func FindRecorderCommand(preferred string) (string, []string, error) {
	for _, rc := range recorderCommands {
		if preferred != "" && rc.name != preferred {
			continue
		}
		if path, err := exec.LookPath(rc.name); err == nil {
			return path, rc.args, nil
		}
	}
	if preferred != "" {
		return "", nil, fmt.Errorf("%w: %q not in PATH", ErrNoRecorder, preferred)
	}
	return "", nil, ErrNoRecorder
}

// ExecRecorder captures audio by running an external tool and
// collecting its stdout.
type ExecRecorder struct {
	path string
	args []string

	cmd *exec.Cmd
	buf bytes.Buffer
}

// NewExecRecorder builds a recorder factory for the configured tool.
// The PATH probe runs once per capture, so a tool installed mid-session
// is picked up.
func NewExecRecorder(preferred string) RecorderFactory {
	return func() (Recorder, error) {
		path, args, err := FindRecorderCommand(preferred)
		if err != nil {
			return nil, err
		}
		return &ExecRecorder{path: path, args: args}, nil
	}
}

// Start launches the capture process.
func (r *ExecRecorder) Start() error {
	if r.cmd != nil {
		return errors.New("recorder already started")
	}

	cmd := exec.Command(r.path, r.args...)
	cmd.Stdout = &r.buf
	cmd.Stderr = nil
	cmd.Stdin = nil
	// Own process group so the interrupt on Stop does not reach us.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start recorder %s: %w", r.path, err)
	}
	r.cmd = cmd
	return nil
}

// Stop interrupts the capture process and returns the collected WAV
// bytes. The tools all finalize their WAV header on SIGINT; SIGKILL is
// the fallback when a tool ignores the interrupt.
func (r *ExecRecorder) Stop() ([]byte, error) {
	if r.cmd == nil || r.cmd.Process == nil {
		return nil, ErrNotRecording
	}

	r.cmd.Process.Signal(syscall.SIGINT)

	done := make(chan error, 1)
	go func() { done <- r.cmd.Wait() }()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		r.cmd.Process.Kill()
		<-done
	}
	// Exit status is ignored: SIGINT-terminated capture reports failure
	// on some tools even when the audio is fine. The buffer decides.

	if r.buf.Len() == 0 {
		return nil, ErrNoAudio
	}
	return r.buf.Bytes(), nil
}
