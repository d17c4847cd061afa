// Package backend provides the client that hands captured tokens to the
// backend API.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout is the default HTTP timeout for submissions.
	DefaultTimeout = 30 * time.Second

	// DefaultRateLimit bounds submissions per second. Manual triggers and
	// cron arms can coincide; the backend never needs more than this.
	DefaultRateLimit = 1
)

// SubmitResult carries the backend's acceptance metadata.
type SubmitResult struct {
	ExpiresAt *time.Time
}

// Client submits captured tokens to the backend API.
type Client struct {
	baseURL      string
	submitSecret string
	httpClient   *http.Client
	limiter      *rate.Limiter
	logger       arbor.ILogger
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the submission timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithLogger sets a logger.
func WithLogger(logger arbor.ILogger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a backend submission client. submitSecret may be empty;
// it selects which endpoint and payload shape is used.
func NewClient(baseURL, submitSecret string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		submitSecret: submitSecret,
		httpClient:   &http.Client{Timeout: DefaultTimeout},
		limiter:      rate.NewLimiter(rate.Limit(DefaultRateLimit), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type submitRequest struct {
	Token  string `json:"token"`
	Secret string `json:"secret,omitempty"`
}

type submitResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Data    struct {
		ExpiresAt int64 `json:"expiresAt"`
	} `json:"data"`
}

// Submit POSTs the token to the backend. A non-2xx response, a transport
// error, or a success:false body all count as submission failure.
func (c *Client) Submit(ctx context.Context, token string) (*SubmitResult, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	endpoint := c.baseURL + "/api/cloud/token"
	payload := submitRequest{Token: token}
	if c.submitSecret != "" {
		endpoint = c.baseURL + "/api/cloud/token-submit"
		payload.Secret = c.submitSecret
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal submission: %w", err)
	}

	if c.logger != nil {
		c.logger.Info().Str("url", endpoint).Msg("Submitting token to backend")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("backend returned status %d", resp.StatusCode)
	}

	var parsed submitResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode backend response: %w", err)
	}

	if !parsed.Success {
		if parsed.Error == "" {
			parsed.Error = "unknown error"
		}
		return nil, fmt.Errorf("backend rejected token: %s", parsed.Error)
	}

	result := &SubmitResult{}
	if parsed.Data.ExpiresAt > 0 {
		expires := time.Unix(parsed.Data.ExpiresAt, 0)
		result.ExpiresAt = &expires
		if c.logger != nil {
			c.logger.Info().Str("expires", expires.Format(time.RFC3339)).Msg("Token accepted by backend")
		}
	} else if c.logger != nil {
		c.logger.Info().Msg("Token accepted by backend")
	}

	return result, nil
}
