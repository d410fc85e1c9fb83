// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists a local copy of fetched transcripts so the
// last-seen conversations are reviewable offline.
//
// The cache mirrors, never leads: each successful full reload replaces
// a conversation wholesale, streamed messages are appended, and cache
// failures are logged without surfacing to the user.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/mingle-social/mingle-tui/internal/model"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrConversationNotCached indicates no cached copy exists for a key.
	ErrConversationNotCached = errors.New("conversation not cached")

	// ErrCacheClosed indicates the cache has been closed.
	ErrCacheClosed = errors.New("cache closed")
)

// =============================================================================
// TRANSCRIPT CACHE
// =============================================================================

// TranscriptCache stores conversation transcripts in a local SQLite
// database, one row per message with ordering preserved.
type TranscriptCache struct {
	db *sql.DB
	mu sync.Mutex

	closed bool
}

// Open opens (or creates) the transcript cache at path.
func Open(path string) (*TranscriptCache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	// SQLite supports one writer at a time; keep the pool at one
	// connection so writes never contend.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	cache := &TranscriptCache{db: db}
	if err := cache.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return cache, nil
}

// migrate creates the schema if it does not exist.
func (c *TranscriptCache) migrate() error {
	schema := `
CREATE TABLE IF NOT EXISTS messages (
	conversation TEXT NOT NULL,
	position     INTEGER NOT NULL,
	message_id   TEXT NOT NULL DEFAULT '',
	speaker      TEXT NOT NULL,
	text         TEXT NOT NULL,
	timestamp    TEXT NOT NULL DEFAULT '',
	reactions    TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (conversation, position)
);

CREATE TABLE IF NOT EXISTS conversations (
	key        TEXT PRIMARY KEY,
	updated_at INTEGER NOT NULL
);
`
	if _, err := c.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (c *TranscriptCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.db.Close()
}

// Replace stores msgs as the complete transcript for key, discarding
// any previous copy. Matches the reload-wholesale contract: the cache
// holds exactly what the last successful fetch returned.
func (c *TranscriptCache) Replace(ctx context.Context, key string, msgs []model.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrCacheClosed
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM messages WHERE conversation = ?", key); err != nil {
		return fmt.Errorf("failed to clear cached transcript: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO messages (conversation, position, message_id, speaker, text, timestamp, reactions) VALUES (?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, msg := range msgs {
		reactions, err := encodeReactions(msg.Reactions)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, key, i, string(msg.ID), msg.Speaker, msg.Text, msg.Timestamp, reactions); err != nil {
			return fmt.Errorf("failed to insert message: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO conversations (key, updated_at) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET updated_at = excluded.updated_at",
		key, time.Now().Unix()); err != nil {
		return fmt.Errorf("failed to record conversation: %w", err)
	}

	return tx.Commit()
}

// Append adds one streamed message to the end of a cached transcript.
// Works against an empty cache too: the conversation row is created on
// first append.
func (c *TranscriptCache) Append(ctx context.Context, key string, msg model.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrCacheClosed
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var next int
	err = tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(position) + 1, 0) FROM messages WHERE conversation = ?", key).Scan(&next)
	if err != nil {
		return fmt.Errorf("failed to find next position: %w", err)
	}

	reactions, err := encodeReactions(msg.Reactions)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO messages (conversation, position, message_id, speaker, text, timestamp, reactions) VALUES (?, ?, ?, ?, ?, ?, ?)",
		key, next, string(msg.ID), msg.Speaker, msg.Text, msg.Timestamp, reactions); err != nil {
		return fmt.Errorf("failed to append message: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO conversations (key, updated_at) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET updated_at = excluded.updated_at",
		key, time.Now().Unix()); err != nil {
		return fmt.Errorf("failed to record conversation: %w", err)
	}

	return tx.Commit()
}

// Load returns the cached transcript for key in stored order.
func (c *TranscriptCache) Load(ctx context.Context, key string) ([]model.Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, ErrCacheClosed
	}

	var exists int
	err := c.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM conversations WHERE key = ?", key).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversation: %w", err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("%w: %s", ErrConversationNotCached, key)
	}

	rows, err := c.db.QueryContext(ctx,
		"SELECT message_id, speaker, text, timestamp, reactions FROM messages WHERE conversation = ? ORDER BY position", key)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var msgs []model.Message
	for rows.Next() {
		var msg model.Message
		var id, reactions string
		if err := rows.Scan(&id, &msg.Speaker, &msg.Text, &msg.Timestamp, &reactions); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		msg.ID = model.MessageID(id)
		msg.Reactions, err = decodeReactions(reactions)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	return msgs, rows.Err()
}

// Keys lists all cached conversation keys, most recently updated first.
func (c *TranscriptCache) Keys(ctx context.Context) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, ErrCacheClosed
	}

	rows, err := c.db.QueryContext(ctx,
		"SELECT key FROM conversations ORDER BY updated_at DESC, key")
	if err != nil {
		return nil, fmt.Errorf("failed to query conversations: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan key: %w", err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// Delete removes one cached conversation. Used when the human
// transcript is cleared on the server.
func (c *TranscriptCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrCacheClosed
	}

	if _, err := c.db.ExecContext(ctx, "DELETE FROM messages WHERE conversation = ?", key); err != nil {
		return fmt.Errorf("failed to delete messages: %w", err)
	}
	if _, err := c.db.ExecContext(ctx, "DELETE FROM conversations WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete conversation: %w", err)
	}
	return nil
}

// =============================================================================
// REACTION ENCODING
// =============================================================================

func encodeReactions(reactions map[string]int) (string, error) {
	if len(reactions) == 0 {
		return "", nil
	}
	data, err := json.Marshal(reactions)
	if err != nil {
		return "", fmt.Errorf("failed to encode reactions: %w", err)
	}
	return string(data), nil
}

func decodeReactions(s string) (map[string]int, error) {
	if s == "" {
		return nil, nil
	}
	var reactions map[string]int
	if err := json.Unmarshal([]byte(s), &reactions); err != nil {
		return nil, fmt.Errorf("failed to decode reactions: %w", err)
	}
	return reactions, nil
}
