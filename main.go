// Mingle TUI - A terminal client for conversational social matching.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mingle-social/mingle-tui/internal/api"
	"github.com/mingle-social/mingle-tui/internal/config"
	"github.com/mingle-social/mingle-tui/internal/storage"
	"github.com/mingle-social/mingle-tui/internal/ui/chat"
	"github.com/mingle-social/mingle-tui/internal/ui/styles"
	"github.com/mingle-social/mingle-tui/internal/voice"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	serverURL := flag.String("server", "", "Mingle server URL (overrides config)")
	offline := flag.Bool("offline", false, "render cached transcripts without a server")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("mingle %s (%s, %s)\n", Version, GitCommit, BuildDate)
		return
	}

	if err := run(*serverURL, *offline); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(serverURL string, offline bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if serverURL != "" {
		cfg.Server.URL = serverURL
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	// The TUI owns stdout, so the standard logger goes to a file.
	if err := config.EnsureConfigDir(); err != nil {
		return err
	}
	if logPath, err := config.LogPath(); err == nil {
		if f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600); err == nil {
			log.SetOutput(f)
			defer f.Close()
		}
	}
	log.Printf("mingle %s starting (server=%s offline=%t)", Version, cfg.Server.URL, offline)

	var cache *storage.TranscriptCache
	if cfg.Cache.Enabled {
		path, err := cfg.CachePath()
		if err == nil {
			cache, err = storage.Open(path)
		}
		if err != nil {
			// The cache is an optimization plus the offline data source;
			// a broken cache never blocks an online session.
			if offline {
				return fmt.Errorf("offline mode needs the transcript cache: %w", err)
			}
			log.Printf("transcript cache unavailable: %v", err)
			cache = nil
		} else {
			defer cache.Close()
		}
	} else if offline {
		return fmt.Errorf("offline mode needs the transcript cache, but cache.enabled is false")
	}

	client := api.NewClient(cfg.Server.URL)
	capture := voice.NewCapture(voice.NewExecRecorder(cfg.Voice.Recorder))

	theme := styles.NewTheme()
	m := chat.New(theme, chat.Options{
		Server:  client,
		Cache:   cache,
		Config:  cfg,
		Capture: capture,
		Offline: offline,
	})

	p := tea.NewProgram(m, tea.WithAltScreen())

	// The history stream pushes messages for the program's lifetime;
	// canceling the context tears down the HTTP stream on exit.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if !offline {
		chat.RunHistoryStream(ctx, p, client)
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running mingle: %w", err)
	}
	return nil
}
