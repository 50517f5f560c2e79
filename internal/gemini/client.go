// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// Configuration constants for the Gemini API.
const (
	// DefaultBaseURL is the base URL for the generative language API.
	DefaultBaseURL = "https://generativelanguage.googleapis.com"

	// apiVersion is the REST API version path segment.
	apiVersion = "v1beta"

	// DefaultTimeout is the default timeout for non-streaming requests.
	DefaultTimeout = 120 * time.Second

	// DefaultMaxRetries is the default number of retry attempts for
	// transient errors.
	DefaultMaxRetries = 2

	// MaxResponseSize is the maximum allowed non-streaming response size.
	// SECURITY: Response size limit prevents memory exhaustion.
	MaxResponseSize = 10 * 1024 * 1024
)

var (
	// PERFORMANCE: Connection pooling reduces TCP handshake overhead.
	// Shared HTTP client for non-streaming requests.
	sharedHTTPClient = &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
		Timeout: DefaultTimeout,
	}

	// sharedStreamingClient has no timeout; streaming lifetime is
	// controlled via context.
	sharedStreamingClient = &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
	}
)

// =============================================================================
// CLIENT
// =============================================================================

// Client communicates with the Gemini REST API. The zero-credential client
// is still usable for construction; sends fail with ErrNotConfigured.
//
// The Client is safe for concurrent use.
type Client struct {
	apiKey     string
	keyName    string
	baseURL    string
	maxRetries int
}

// NewClient creates a client with the given API key. keyName is the
// environment variable the key came from, used in error messages.
func NewClient(apiKey, keyName string) *Client {
	if keyName == "" {
		keyName = "GEMCHAT_API_KEY"
	}
	return &Client{
		apiKey:     strings.TrimSpace(apiKey),
		keyName:    keyName,
		baseURL:    DefaultBaseURL,
		maxRetries: DefaultMaxRetries,
	}
}

// WithBaseURL sets a custom base URL for the API.
func (c *Client) WithBaseURL(url string) *Client {
	c.baseURL = strings.TrimSuffix(url, "/")
	return c
}

// WithMaxRetries sets the maximum number of retry attempts.
func (c *Client) WithMaxRetries(n int) *Client {
	c.maxRetries = n
	return c
}

// IsConfigured returns true if the client has an API key.
func (c *Client) IsConfigured() bool {
	return c.apiKey != ""
}

// KeyName returns the environment variable name the credential came from.
func (c *Client) KeyName() string {
	return c.keyName
}

// setHeaders sets the required headers for API requests.
// SECURITY: The key travels in a header, never in the URL, so it cannot
// leak through request logs.
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)
	req.Header.Set("User-Agent", "gemchat/1.0")
}

// logRequest logs an API request without exposing sensitive data.
func (c *Client) logRequest(req *http.Request) {
	log.Printf("API Request: %s %s", req.Method, req.URL.Path)
}

// =============================================================================
// STREAMING GENERATION
// =============================================================================

// StreamGenerate performs a streaming generateContent call. instruction is
// the system instruction; contents is the full turn history including the
// new user turn. Text fragments are forwarded to onToken in arrival order.
//
// Errors are returned as *ClientError with a user-presentable message.
func (c *Client) StreamGenerate(ctx context.Context, modelID, instruction string, contents []Content, onToken StreamCallback) error {
	if !c.IsConfigured() {
		return ErrNotConfigured
	}

	reqBody := generateContentRequest{Contents: contents}
	if instruction != "" {
		reqBody.SystemInstruction = &Content{Parts: []Part{TextPart(instruction)}}
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return classify(0, "", fmt.Errorf("failed to marshal request: %w", err), c.keyName, modelID)
	}

	url := fmt.Sprintf("%s/%s/models/%s:streamGenerateContent?alt=sse", c.baseURL, apiVersion, modelID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return classify(0, "", fmt.Errorf("failed to create request: %w", err), c.keyName, modelID)
	}

	c.setHeaders(req)
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	c.logRequest(req)

	// PERFORMANCE: Shared streaming client with connection pooling.
	resp, err := sharedStreamingClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return classify(0, "", err, c.keyName, modelID)
		}
		return classify(0, "", fmt.Errorf("request failed: %w", err), c.keyName, modelID)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
		return c.handleErrorResponse(resp.StatusCode, body, modelID)
	}

	if err := processStream(ctx, resp.Body, onToken); err != nil {
		var apiErr *streamAPIError
		if errors.As(err, &apiErr) {
			return classify(apiErr.code, apiErr.message, apiErr, c.keyName, modelID)
		}
		return classify(0, "", err, c.keyName, modelID)
	}
	return nil
}

// =============================================================================
// NON-STREAMING GENERATION
// =============================================================================

// Generate performs a blocking generateContent call and returns the full
// reply text. Retries transient failures with exponential backoff.
func (c *Client) Generate(ctx context.Context, modelID, instruction string, contents []Content) (string, error) {
	if !c.IsConfigured() {
		return "", ErrNotConfigured
	}

	reqBody := generateContentRequest{Contents: contents}
	if instruction != "" {
		reqBody.SystemInstruction = &Content{Parts: []Part{TextPart(instruction)}}
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", classify(0, "", fmt.Errorf("failed to marshal request: %w", err), c.keyName, modelID)
	}

	url := fmt.Sprintf("%s/%s/models/%s:generateContent", c.baseURL, apiVersion, modelID)

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			// Backoff: 1s, 2s, 4s...
			select {
			case <-ctx.Done():
				return "", classify(0, "", ctx.Err(), c.keyName, modelID)
			case <-time.After(time.Duration(1<<(attempt-1)) * time.Second):
			}
		}

		text, err := c.doGenerate(ctx, url, bodyBytes, modelID)
		if err == nil {
			return text, nil
		}
		lastErr = err

		// Only unclassified (transient) errors are worth retrying.
		if IsDefinitive(err) {
			return "", err
		}
	}
	return "", lastErr
}

func (c *Client) doGenerate(ctx context.Context, url string, body []byte, modelID string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", classify(0, "", fmt.Errorf("failed to create request: %w", err), c.keyName, modelID)
	}
	c.setHeaders(req)
	c.logRequest(req)

	resp, err := sharedHTTPClient.Do(req)
	if err != nil {
		return "", classify(0, "", fmt.Errorf("request failed: %w", err), c.keyName, modelID)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return "", classify(0, "", fmt.Errorf("failed to read response: %w", err), c.keyName, modelID)
	}

	if resp.StatusCode != http.StatusOK {
		return "", c.handleErrorResponse(resp.StatusCode, respBody, modelID)
	}

	var genResp GenerateContentResponse
	if err := json.Unmarshal(respBody, &genResp); err != nil {
		return "", classify(0, "", fmt.Errorf("failed to parse response: %w", err), c.keyName, modelID)
	}
	return genResp.Text(), nil
}

// handleErrorResponse converts HTTP error responses to *ClientError.
func (c *Client) handleErrorResponse(statusCode int, body []byte, modelID string) error {
	var envelope apiErrorResponse
	message := ""
	if err := json.Unmarshal(body, &envelope); err == nil {
		message = envelope.Error.Message
	}
	return classify(statusCode, message, fmt.Errorf("HTTP %d", statusCode), c.keyName, modelID)
}
