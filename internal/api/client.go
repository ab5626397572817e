// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the backend client.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeUnavailable
	ErrTypeTimeout
	ErrTypeBadRequest
	ErrTypeServer
	ErrTypeInvalidResponse
)

// Sentinel errors for easy checking.
var (
	ErrUnavailable = &ClientError{Type: ErrTypeUnavailable, Message: "processing backend is not reachable"}
	ErrTimeout     = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
)

// errorBody is the JSON error envelope the backend returns on failures.
type errorBody struct {
	Detail string `json:"detail"`
}

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the backend client.
type ClientConfig struct {
	// BaseURL is the backend base URL (default: http://localhost:8000)
	BaseURL string

	// Timeout per request (default: 60s; analysis over large transcripts
	// is slow). Negative disables the client-side timeout entirely and
	// leaves deadlines to the caller's context.
	Timeout time.Duration

	// RequestsPerSecond caps sustained request rate (default: 4)
	RequestsPerSecond float64

	// Burst allows short request bursts above the sustained rate (default: 8)
	Burst int
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:           "http://localhost:8000",
		Timeout:           60 * time.Second,
		RequestsPerSecond: 4,
		Burst:             8,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client handles communication with the ChatLore processing backend.
//
// The Client is thread-safe for concurrent use.
//
// Example:
//
//	client := api.NewClient()
//	parsed, err := client.ProcessChat(ctx, transcript)
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a new backend client with default configuration.
func NewClient() *Client {
	return NewClientWithConfig(DefaultConfig())
}

// NewClientWithConfig creates a new backend client with custom configuration.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}

	// Fill in defaults for any zero values
	if config.BaseURL == "" {
		config.BaseURL = "http://localhost:8000"
	}
	if config.Timeout == 0 {
		config.Timeout = 60 * time.Second
	}
	if config.RequestsPerSecond == 0 {
		config.RequestsPerSecond = 4
	}
	if config.Burst == 0 {
		config.Burst = 8
	}

	httpTimeout := config.Timeout
	if httpTimeout < 0 {
		httpTimeout = 0
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: httpTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(config.RequestsPerSecond), config.Burst),
	}
}

// BaseURL reports the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// CheckReachable verifies the backend answers at all. Any HTTP response
// counts; only transport failures are errors.
func (c *Client) CheckReachable(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"/", nil)
	if err != nil {
		return &ClientError{Type: ErrTypeUnavailable, Message: "failed to create request", Cause: err}
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrTimeout
		}
		return ErrUnavailable
	}
	resp.Body.Close()
	return nil
}

// =============================================================================
// REQUEST PLUMBING
// =============================================================================

// postJSON sends one JSON request and decodes the response into out.
// It waits on the politeness limiter first, so bulk callers are paced
// without coding their own delays.
func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &ClientError{Type: ErrTypeTimeout, Message: "canceled while rate limited", Cause: err}
	}

	body, err := json.Marshal(in)
	if err != nil {
		return &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return &ClientError{Type: ErrTypeUnavailable, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrTimeout
		}
		return &ClientError{Type: ErrTypeUnavailable, Message: "processing backend is not reachable", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.statusError(path, resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response from " + path, Cause: err}
	}
	return nil
}

// statusError maps a non-200 response to a typed error, surfacing the
// backend's detail string when one is present.
func (c *Client) statusError(path string, resp *http.Response) error {
	msg := "request to " + path + " failed: " + resp.Status
	if raw, err := io.ReadAll(io.LimitReader(resp.Body, 4096)); err == nil {
		var eb errorBody
		if json.Unmarshal(raw, &eb) == nil && eb.Detail != "" {
			msg += " (" + eb.Detail + ")"
		}
	}
	typ := ErrTypeServer
	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		typ = ErrTypeBadRequest
	}
	return &ClientError{Type: typ, Message: msg}
}

// =============================================================================
// CHAT OPERATIONS
// =============================================================================

// ProcessChat parses a raw transcript into structured messages.
func (c *Client) ProcessChat(ctx context.Context, chatText string) (*ProcessChatResponse, error) {
	var result ProcessChatResponse
	if err := c.postJSON(ctx, "/api/chat/process", ProcessChatRequest{ChatText: chatText}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// =============================================================================
// SECURITY OPERATIONS
// =============================================================================

// AnalyzeSecurity runs the security analyzer over the given messages.
func (c *Client) AnalyzeSecurity(ctx context.Context, msgs []Message) (*AnalyzeResponse, error) {
	var result AnalyzeResponse
	if err := c.postJSON(ctx, "/api/security/analyze", AnalyzeRequest{Messages: msgs}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SensitiveData extracts detected sensitive values grouped by category.
func (c *Client) SensitiveData(ctx context.Context, msgs []Message) (SensitiveDataResponse, error) {
	var result SensitiveDataResponse
	if err := c.postJSON(ctx, "/api/security/sensitive-data", AnalyzeRequest{Messages: msgs}, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// RedactedMessages returns each message paired with a redacted rendering
// of its content.
func (c *Client) RedactedMessages(ctx context.Context, msgs []Message) ([]RedactedMessage, error) {
	var result []RedactedMessage
	if err := c.postJSON(ctx, "/api/security/redacted", AnalyzeRequest{Messages: msgs}, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// =============================================================================
// SEARCH OPERATIONS
// =============================================================================

// SemanticSearch runs a meaning-based search over the given messages.
func (c *Client) SemanticSearch(ctx context.Context, req SemanticSearchRequest) ([]SearchResult, error) {
	var result []SearchResult
	if err := c.postJSON(ctx, "/api/search/semantic", req, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// SimilarMessages finds messages similar to a reference message.
func (c *Client) SimilarMessages(ctx context.Context, req SimilarMessagesRequest) ([]SearchResult, error) {
	var result []SearchResult
	if err := c.postJSON(ctx, "/api/search/similar", req, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// TopicClusters groups messages into topics with short summaries.
func (c *Client) TopicClusters(ctx context.Context, msgs []Message) ([]TopicCluster, error) {
	var result []TopicCluster
	if err := c.postJSON(ctx, "/api/search/topics", AnalyzeRequest{Messages: msgs}, &result); err != nil {
		return nil, err
	}
	return result, nil
}
