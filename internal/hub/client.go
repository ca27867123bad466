// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package hub provides the HTTP client for communicating with the local
// model-hub daemon.
package hub

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the hub client.
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

// ErrorType categorizes client errors for handling. The taxonomy mirrors the
// failure classes the tracker cares about: transport failures, daemon-reported
// logical errors, and malformed responses.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeNotRunning
	ErrTypeTimeout
	ErrTypeConnection
	ErrTypeDaemon
	ErrTypeInvalidResponse
)

// Sentinel errors for easy checking.
var (
	ErrNotRunning = &ClientError{Type: ErrTypeNotRunning, Message: "hub daemon is not running"}
	ErrTimeout    = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
)

// IsNotRunning checks if an error indicates the daemon is not running.
func IsNotRunning(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeNotRunning
	}
	return errors.Is(err, ErrNotRunning)
}

// IsTimeout checks if an error is a timeout error.
func IsTimeout(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeTimeout
	}
	return errors.Is(err, ErrTimeout)
}

// transportError maps a failed round trip to a typed error. Caller
// cancellation is reported as such, not as a daemon outage.
func transportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	if errors.Is(err, context.Canceled) {
		return &ClientError{Type: ErrTypeConnection, Message: "request cancelled", Cause: err}
	}
	return ErrNotRunning
}

// IsDaemonError checks if an error carries a daemon-reported message, as
// opposed to a transport or decode failure.
func IsDaemonError(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeDaemon
	}
	return false
}

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the hub client.
type ClientConfig struct {
	// BaseURL is the daemon API base URL (default: http://127.0.0.1:8900)
	// Note: Uses explicit IPv4 address instead of localhost to avoid IPv6
	// resolution issues on Windows
	BaseURL string

	// Timeout for requests (default: 30s)
	Timeout time.Duration

	// CommandRate and CommandBurst bound how fast command requests
	// (start/pause/resume/cancel/delete) may hit the daemon. Progress polls
	// are not limited; they are already paced by the poll interval.
	CommandRate  rate.Limit
	CommandBurst int
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:      "http://127.0.0.1:8900",
		Timeout:      30 * time.Second,
		CommandRate:  rate.Limit(20),
		CommandBurst: 40,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client handles communication with the model-hub daemon API.
//
// The Client is thread-safe for concurrent use.
//
// Example:
//
//	client := hub.NewClient()
//	if err := client.EnsureRunning(ctx); err != nil {
//	    log.Fatal("hub daemon not available:", err)
//	}
//	records, err := client.ListDownloads(ctx)
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a new hub client with default configuration.
func NewClient() *Client {
	return NewClientWithConfig(DefaultConfig())
}

// NewClientWithConfig creates a new hub client with custom configuration.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}

	// Fill in defaults for any zero values
	if config.BaseURL == "" {
		config.BaseURL = "http://127.0.0.1:8900"
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.CommandRate == 0 {
		config.CommandRate = rate.Limit(20)
	}
	if config.CommandBurst == 0 {
		config.CommandBurst = 40
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		limiter: rate.NewLimiter(config.CommandRate, config.CommandBurst),
	}
}

// GetConfig returns the client configuration.
func (c *Client) GetConfig() *ClientConfig {
	return c.config
}

// =============================================================================
// HEALTH CHECK
// =============================================================================

// CheckRunning verifies that the daemon is reachable and running.
func (c *Client) CheckRunning(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"/health", nil)
	if err != nil {
		return &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &ClientError{
			Type:    ErrTypeConnection,
			Message: "unexpected status from hub daemon: " + resp.Status,
		}
	}

	return nil
}

// EnsureRunning checks if the daemon is running, and starts it if not.
// The actual start logic is platform-specific (see start_windows.go and
// start_unix.go).
func (c *Client) EnsureRunning(ctx context.Context) error {
	if err := c.CheckRunning(ctx); err == nil {
		return nil
	}
	return c.startDaemonProcess(ctx)
}

// =============================================================================
// DOWNLOAD COMMANDS
// =============================================================================

// StartDownload asks the daemon to begin downloading a model. A nil error
// means the daemon accepted the request; a daemon-reported failure comes back
// as a ClientError with type ErrTypeDaemon carrying the daemon's message.
func (c *Client) StartDownload(ctx context.Context, req StartDownloadRequest) (*StartDownloadResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &ClientError{Type: ErrTypeConnection, Message: "rate limiter interrupted", Cause: err}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/downloads/download_model", bytes.NewReader(body))
	if err != nil {
		return nil, &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, transportError(err)
	}
	defer resp.Body.Close()

	var result StartDownloadResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}

	if result.Error != "" {
		return nil, &ClientError{Type: ErrTypeDaemon, Message: result.Error}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &ClientError{
			Type:    ErrTypeDaemon,
			Message: "start request failed: " + resp.Status,
		}
	}

	return &result, nil
}

// PauseDownload suspends the download for the given identifier.
func (c *Client) PauseDownload(ctx context.Context, uniqueID string) error {
	return c.command(ctx, http.MethodPost, "/downloads/pause_download", uniqueID)
}

// ResumeDownload resumes a paused download.
func (c *Client) ResumeDownload(ctx context.Context, uniqueID string) error {
	return c.command(ctx, http.MethodPost, "/downloads/resume_download", uniqueID)
}

// CancelDownload aborts an in-flight download.
func (c *Client) CancelDownload(ctx context.Context, uniqueID string) error {
	return c.command(ctx, http.MethodPost, "/downloads/cancel_download", uniqueID)
}

// DeleteModel removes a downloaded model from the daemon.
func (c *Client) DeleteModel(ctx context.Context, uniqueID string) error {
	return c.command(ctx, http.MethodDelete, "/downloads/delete_model", uniqueID)
}

// command issues a one-shot request carrying the identifier as a
// percent-encoded unique_id query parameter. Empty response bodies are fine;
// a body with an error field becomes a daemon error.
func (c *Client) command(ctx context.Context, method, path, uniqueID string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &ClientError{Type: ErrTypeConnection, Message: "rate limiter interrupted", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, uniqueID), nil)
	if err != nil {
		return &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return transportError(err)
	}
	defer resp.Body.Close()

	// The daemon usually answers these with an empty body. Decode failures on
	// an OK status are therefore not errors.
	data, err := io.ReadAll(resp.Body)
	if err == nil && len(data) > 0 {
		var cmdResp CommandResponse
		if jsonErr := json.Unmarshal(data, &cmdResp); jsonErr == nil && cmdResp.Error != "" {
			return &ClientError{Type: ErrTypeDaemon, Message: cmdResp.Error}
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &ClientError{
			Type:    ErrTypeDaemon,
			Message: "command failed: " + resp.Status,
		}
	}

	return nil
}

// =============================================================================
// PROGRESS & LISTING
// =============================================================================

// Progress fetches byte progress for one identifier.
func (c *Client) Progress(ctx context.Context, uniqueID string) (*ProgressResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("/downloads/progress", uniqueID), nil)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var derr daemonError
		if err := json.NewDecoder(resp.Body).Decode(&derr); err == nil && derr.Error != "" {
			return nil, &ClientError{Type: ErrTypeDaemon, Message: derr.Error}
		}
		return nil, &ClientError{
			Type:    ErrTypeInvalidResponse,
			Message: "progress request failed: " + resp.Status,
		}
	}

	var result ProgressResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}

	return &result, nil
}

// ListDownloads fetches every download the daemon knows about, keyed by
// unique identifier. Record IDs omitted from the body are filled from the
// map keys.
func (c *Client) ListDownloads(ctx context.Context) (map[string]DownloadRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"/downloads/downloads", nil)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var derr daemonError
		if err := json.NewDecoder(resp.Body).Decode(&derr); err == nil && derr.Error != "" {
			return nil, &ClientError{Type: ErrTypeDaemon, Message: derr.Error}
		}
		return nil, &ClientError{
			Type:    ErrTypeInvalidResponse,
			Message: "list request failed: " + resp.Status,
		}
	}

	var result map[string]DownloadRecord
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}

	for id, rec := range result {
		if rec.ID == "" {
			rec.ID = id
			result[id] = rec
		}
	}

	return result, nil
}

// endpoint builds a daemon URL with the identifier percent-encoded in the
// unique_id query parameter.
func (c *Client) endpoint(path, uniqueID string) string {
	q := url.Values{}
	q.Set("unique_id", uniqueID)
	return c.config.BaseURL + path + "?" + q.Encode()
}
