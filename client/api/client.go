// Package api is the HTTP client for the post scheduler API. Every call
// resolves to a Result, so callers never handle transport errors separately
// from API errors.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	DefaultBaseURL = "http://localhost:3000/"
	DefaultTimeout = 10 * time.Second

	// MsgNetworkError is reported when the server could not be reached.
	MsgNetworkError = "Network error: Unable to connect to server"
)

// TokenSource supplies the bearer token attached to outgoing requests. An
// empty token means the request is sent unauthenticated.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	logger     zerolog.Logger
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

func WithTokenSource(tokens TokenSource) Option {
	return func(c *Client) {
		c.tokens = tokens
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func New(baseURL string, options ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     log.Logger,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// URL joins endpoint onto the base URL without doubling the slash.
func (c *Client) URL(endpoint string) string {
	return c.baseURL + strings.TrimPrefix(endpoint, "/")
}

// Call sends data as a JSON body (when non-nil) and normalises the outcome.
func (c *Client) Call(ctx context.Context, method, endpoint string, data any) Result {
	fullURL := c.URL(endpoint)

	var body io.Reader
	if data != nil {
		encoded, err := json.Marshal(data)
		if err != nil {
			return Result{Error: true, Message: fmt.Sprintf("Invalid request: %v", err), Body: emptyBody()}
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return Result{Error: true, Message: fmt.Sprintf("Invalid request: %v", err), Body: emptyBody()}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	hasToken := false
	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			c.logger.Warn().Err(err).Msg("read session token")
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
			hasToken = true
		}
	}

	c.logger.Debug().
		Str("method", method).
		Str("url", fullURL).
		Bool("token", hasToken).
		Msg("api call")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("url", fullURL).Msg("api call failed")
		return Result{Error: true, Message: MsgNetworkError, Body: emptyBody()}
	}
	defer resp.Body.Close()

	return c.readResult(resp)
}

func (c *Client) readResult(resp *http.Response) Result {
	result := Result{Status: resp.StatusCode, Body: emptyBody()}

	raw, err := io.ReadAll(resp.Body)
	if err == nil && json.Valid(raw) {
		result.Body = raw
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		c.logger.Debug().Int("status", resp.StatusCode).Msg("api call succeeded")
		return result
	}

	var msg struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(result.Body, &msg)

	result.Error = true
	result.Message = msg.Message
	if result.Message == "" {
		result.Message = fmt.Sprintf("Request failed (%d)", resp.StatusCode)
	}
	c.logger.Warn().Int("status", resp.StatusCode).Str("message", result.Message).Msg("api call rejected")
	return result
}

func emptyBody() json.RawMessage {
	return json.RawMessage("{}")
}
