// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/mingle-social/mingle-tui/internal/model"
)

// STREAMING: Append-only history push over SSE.

// =============================================================================
// SSE READER
// =============================================================================

// SSEReader parses Server-Sent Events from a stream.
type SSEReader struct {
	reader *bufio.Reader
}

// NewSSEReader creates a new SSE reader from an io.Reader.
func NewSSEReader(r io.Reader) *SSEReader {
	return &SSEReader{reader: bufio.NewReader(r)}
}

// ReadEvent reads the next SSE event and returns its type and data.
// Returns io.EOF when the stream ends.
func (s *SSEReader) ReadEvent() (string, []byte, error) {
	var eventType string
	var dataLines [][]byte

	for {
		line, err := s.reader.ReadBytes('\n')
		if err != nil {
			if err == io.EOF {
				if len(dataLines) > 0 {
					return eventType, bytes.Join(dataLines, []byte("\n")), nil
				}
				return "", nil, io.EOF
			}
			return "", nil, err
		}

		line = bytes.TrimRight(line, "\r\n")

		// Empty line signals end of event.
		if len(line) == 0 {
			if len(dataLines) > 0 {
				return eventType, bytes.Join(dataLines, []byte("\n")), nil
			}
			continue
		}

		if bytes.HasPrefix(line, []byte("event:")) {
			eventType = string(bytes.TrimSpace(line[6:]))
		} else if bytes.HasPrefix(line, []byte("data:")) {
			dataLines = append(dataLines, bytes.TrimSpace(line[5:]))
		}
		// Ignore other fields (id:, retry:, comments starting with :).
	}
}

// =============================================================================
// EVENT FILTER
// =============================================================================

// streamEvent is the wire shape of a history push.
type streamEvent struct {
	Type    string          `json:"type"`
	Role    string          `json:"role"`
	Content string          `json:"content"`
	ID      model.MessageID `json:"id"`
}

// ParseStreamEvent applies the drop-malformed policy to one SSE data
// payload. Only JSON objects with type "message" and at least one of
// role or content become transcript entries; everything else — other
// event types, parse failures, empty payloads — is dropped without
// logging noise. Returns the message and whether it should be appended.
func ParseStreamEvent(data []byte) (model.Message, bool) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return model.Message{}, false
	}

	var ev streamEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return model.Message{}, false
	}
	if ev.Type != "message" {
		return model.Message{}, false
	}
	if ev.Role == "" && ev.Content == "" {
		return model.Message{}, false
	}

	return model.Message{
		ID:      ev.ID,
		Speaker: ev.Role,
		Text:    ev.Content,
	}, true
}

// =============================================================================
// HISTORY STREAM
// =============================================================================

// OpenHistoryStream connects to the history SSE endpoint and returns a
// channel of pushed messages. The channel closes when the stream ends,
// the context is canceled, or any transport error occurs; there is no
// reconnection. Malformed events are dropped per ParseStreamEvent.
func (c *Client) OpenHistoryStream(ctx context.Context) (<-chan model.Message, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/history/stream", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	c.logRequest(req)
	resp, err := sharedStreamingClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServerUnreachable, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, statusError(resp)
	}

	ct := resp.Header.Get("Content-Type")
	if ct != "" && !strings.HasPrefix(ct, "text/event-stream") {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected stream content type %q", ct)
	}

	out := make(chan model.Message, 16)
	go func() {
		defer close(out)
		defer resp.Body.Close()

		reader := NewSSEReader(resp.Body)
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			_, data, err := reader.ReadEvent()
			if err != nil {
				if err != io.EOF {
					// Terminal for the session: the channel closes and
					// stays closed.
					log.Printf("api: history stream closed: %v", err)
				}
				return
			}

			msg, ok := ParseStreamEvent(data)
			if !ok {
				continue
			}

			select {
			case out <- msg:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}
