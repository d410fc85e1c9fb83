// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api is the HTTP client for the Mingle server.
//
// Every call maps to one server endpoint: conversations, matches,
// personas, profile, interview questions, transcription. The server
// speaks plain JSON; history pushes arrive over SSE (see stream.go).
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mingle-social/mingle-tui/internal/model"
)

// Configuration constants for the Mingle server client.
const (
	// DefaultBaseURL is where a locally run server listens.
	DefaultBaseURL = "http://localhost:8000"

	// DefaultTimeout bounds a single non-streaming request.
	DefaultTimeout = 30 * time.Second

	// MaxResponseSize is the maximum allowed response body size.
	// SECURITY: Response size limit prevents memory exhaustion.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB
)

// PERFORMANCE: One pooled transport for all server requests.
var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     90 * time.Second,
	},
	Timeout: DefaultTimeout,
}

// sharedStreamingClient has no client timeout; the SSE connection lives
// as long as its context.
var sharedStreamingClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     90 * time.Second,
	},
}

// Error variables for common client failures.
var (
	// ErrServerUnreachable indicates the server could not be contacted.
	ErrServerUnreachable = errors.New("server unreachable")

	// ErrEmptyResponse indicates the server returned an empty body where
	// content was expected.
	ErrEmptyResponse = errors.New("empty response")
)

// StatusError is a non-2xx response. The message is the response's
// status text; bodies of failed requests are not interpreted.
type StatusError struct {
	Status int
	Text   string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	if e.Text != "" {
		return e.Text
	}
	return fmt.Sprintf("HTTP %d", e.Status)
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, status int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == status
}

// Client talks to one Mingle server.
type Client struct {
	baseURL string
}

// NewClient creates a client for the server at baseURL.
func NewClient(baseURL string) *Client {
	baseURL = strings.TrimSuffix(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{baseURL: baseURL}
}

// BaseURL returns the configured server base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// =============================================================================
// REQUEST PLUMBING
// =============================================================================

// logRequest logs an API request. Bodies are never logged; spoken
// answers and profile fields pass through here.
func (c *Client) logRequest(req *http.Request) {
	log.Printf("api: %s %s", req.Method, req.URL.Path)
}

// logResponse logs status and duration only.
func (c *Client) logResponse(resp *http.Response, duration time.Duration) {
	log.Printf("api: %d %s (%v)", resp.StatusCode, http.StatusText(resp.StatusCode), duration)
}

// readResponse reads the body with a size cap.
// SECURITY: Response size limit prevents memory exhaustion.
func readResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) == MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}
	return body, nil
}

// statusError builds the uniform non-2xx failure. The response's status
// line text is the user-facing message.
func statusError(resp *http.Response) error {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return &StatusError{Status: resp.StatusCode, Text: text}
}

// doJSON performs a request with an optional JSON body and decodes the
// response into out when out is non-nil.
func (c *Client) doJSON(ctx context.Context, method, path string, reqBody, out interface{}) error {
	var bodyReader io.Reader
	if reqBody != nil {
		bodyBytes, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	c.logRequest(req)
	start := time.Now()
	resp, err := sharedHTTPClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrServerUnreachable, err)
	}
	defer resp.Body.Close()
	c.logResponse(resp, time.Since(start))

	body, err := readResponse(resp)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}

	if out == nil {
		return nil
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return ErrEmptyResponse
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// messagesResponse wraps transcript endpoints' common shape.
type messagesResponse struct {
	Messages []model.Message `json:"messages"`
}

// =============================================================================
// CONVERSATIONS
// =============================================================================

// History fetches the full simple-history transcript.
func (c *Client) History(ctx context.Context) ([]model.Message, error) {
	var resp messagesResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/history", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Messages, nil
}

// Conversation fetches the transcript of one room by key.
func (c *Client) Conversation(ctx context.Context, key string) ([]model.Message, error) {
	var resp messagesResponse
	path := "/api/conversations/" + url.PathEscape(key)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Messages, nil
}

// SendHumanMessage appends a human turn and returns the updated
// transcript, reply included.
func (c *Client) SendHumanMessage(ctx context.Context, text string) ([]model.Message, error) {
	var resp messagesResponse
	reqBody := struct {
		Text string `json:"text"`
	}{Text: text}
	if err := c.doJSON(ctx, http.MethodPost, "/api/conversations/human", reqBody, &resp); err != nil {
		return nil, err
	}
	return resp.Messages, nil
}

// ClearHumanConversation deletes the human transcript on the server.
func (c *Client) ClearHumanConversation(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/conversations/human", nil, nil)
}

// React increments one reaction tally on a human-conversation message.
// The caller reloads the transcript afterwards; tallies are never
// adjusted locally.
func (c *Client) React(ctx context.Context, messageID model.MessageID, emoji string) error {
	reqBody := struct {
		MessageID model.MessageID `json:"message_id"`
		Emoji     string          `json:"emoji"`
	}{MessageID: messageID, Emoji: emoji}
	return c.doJSON(ctx, http.MethodPost, "/api/conversations/human/react", reqBody, nil)
}

// Generate asks the server to run a multi-agent exchange in the General
// room and returns the resulting transcript.
func (c *Client) Generate(ctx context.Context, turns int) ([]model.Message, error) {
	var resp messagesResponse
	path := fmt.Sprintf("/api/conversations/general/generate?turns=%d", turns)
	if err := c.doJSON(ctx, http.MethodPost, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Messages, nil
}

// =============================================================================
// MATCHES & PERSONAS
// =============================================================================

// Matches fetches the match list. Callers decide on the simulated
// fallback; the client just reports what the server said.
func (c *Client) Matches(ctx context.Context) ([]model.Match, error) {
	var matches []model.Match
	if err := c.doJSON(ctx, http.MethodGet, "/api/matches", nil, &matches); err != nil {
		return nil, err
	}
	return matches, nil
}

// Personas fetches all generated personas.
func (c *Client) Personas(ctx context.Context) ([]model.Persona, error) {
	var personas []model.Persona
	if err := c.doJSON(ctx, http.MethodGet, "/api/personas", nil, &personas); err != nil {
		return nil, err
	}
	return personas, nil
}

// SendConnectionRequest requests a connection with the named user.
func (c *Client) SendConnectionRequest(ctx context.Context, to string) error {
	reqBody := struct {
		To string `json:"to"`
	}{To: to}
	return c.doJSON(ctx, http.MethodPost, "/api/connection-requests", reqBody, nil)
}

// =============================================================================
// PROFILE & VOICE INTERVIEW
// =============================================================================

// SaveProfile stores the onboarding profile on the server.
func (c *Client) SaveProfile(ctx context.Context, p model.Profile) error {
	return c.doJSON(ctx, http.MethodPost, "/api/profile", p, nil)
}

// Questions fetches the interview question list.
func (c *Client) Questions(ctx context.Context) ([]string, error) {
	var resp struct {
		Questions []string `json:"questions"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/questions", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Questions, nil
}

// Transcribe uploads base64-encoded WAV audio and returns the
// transcript text, which may legitimately be empty.
func (c *Client) Transcribe(ctx context.Context, audioBase64 string) (string, error) {
	var resp struct {
		Text string `json:"text"`
	}
	reqBody := struct {
		AudioBase64 string `json:"audio_base64"`
	}{AudioBase64: audioBase64}
	if err := c.doJSON(ctx, http.MethodPost, "/api/transcribe", reqBody, &resp); err != nil {
		return "", err
	}
	return resp.Text, nil
}

// CreatePersona builds the user's agent from the saved profile and the
// answered interview entries. A nil or empty conversation is sent as
// JSON null, which the persona builder treats as "no interview".
func (c *Client) CreatePersona(ctx context.Context, profile model.Profile, conversation []model.QAEntry) error {
	reqBody := struct {
		Profile      model.Profile   `json:"profile"`
		Conversation []model.QAEntry `json:"conversation"`
	}{Profile: profile}
	if len(conversation) > 0 {
		reqBody.Conversation = conversation
	}
	return c.doJSON(ctx, http.MethodPost, "/api/create-persona", reqBody, nil)
}
