package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/ChathuminaK/SkillWave-sub000/credentials"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// UnauthorizedFunc is invoked when a request that carried credentials
// comes back 401. It returns true when a fresh credential is now in the
// store and the request may be retried; the retry happens exactly once.
// The session manager owns this decision so that refresh attempts stay
// bounded in one place.
type UnauthorizedFunc func(ctx context.Context) bool

// requestMode selects which pipeline stages apply to a request.
type requestMode int

const (
	// modeAuth attaches the stored bearer token and participates in the
	// unauthorized-recovery cascade.
	modeAuth requestMode = iota
	// modeAuthNoRecover attaches the bearer token but lets a 401 surface
	// directly (used for logout, where a cascade would be circular).
	modeAuthNoRecover
	// modePublic sends the request bare: login, register, and refresh
	// carry their credentials in the body, never the bearer header.
	modePublic
)

// Client is the single chokepoint for outbound HTTP calls to the
// SkillWave API. Every request passes its outbound stage (bearer header
// from the credential store, request ID) and its inbound stage (error
// classification, 401 signalling).
type Client struct {
	httpClient *http.Client
	baseURL    string
	store      credentials.Store
	logger     zerolog.Logger

	mu             sync.RWMutex
	onUnauthorized UnauthorizedFunc
}

// ClientOption defines a function type to modify the Client instance.
type ClientOption func(*Client)

// WithTimeout bounds every remote call; a timed-out call is reported the
// same way as any other network failure.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient replaces the underlying HTTP client (primarily for testing).
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient initializes a new API client against baseURL, reading access
// tokens from store on every outbound request.
func NewClient(baseURL string, store credentials.Store, options ...ClientOption) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("[NewClient] baseURL is required")
	}
	if store == nil {
		return nil, errors.New("[NewClient] store is required")
	}

	client := &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		store:      store,
		logger:     zerolog.Nop(),
	}
	for _, opt := range options {
		opt(client)
	}
	return client, nil
}

// SetUnauthorizedFunc installs the 401 handler. The session manager calls
// this once during its own construction.
func (c *Client) SetUnauthorizedFunc(fn UnauthorizedFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnauthorized = fn
}

func (c *Client) unauthorizedFunc() UnauthorizedFunc {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.onUnauthorized
}

// Get issues an authenticated GET and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out, modeAuth)
}

// Post issues an authenticated POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, payload, out any) error {
	return c.do(ctx, http.MethodPost, path, payload, out, modeAuth)
}

// Put issues an authenticated PUT with a JSON body.
func (c *Client) Put(ctx context.Context, path string, payload, out any) error {
	return c.do(ctx, http.MethodPut, path, payload, out, modeAuth)
}

// Delete issues an authenticated DELETE.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, modeAuth)
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any, mode requestMode) error {
	var body []byte
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		body = data
	}

	resp, err := c.send(ctx, method, path, body, mode, mode == modeAuth)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return newError(resp.StatusCode, data)
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}

// send is the outbound stage plus the 401 recovery hook. Network failures
// and non-auth error statuses pass through untouched; they are feature
// concerns, not authentication concerns.
func (c *Client) send(ctx context.Context, method, path string, body []byte, mode requestMode, allowRecover bool) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if mode != modePublic {
		if accessToken, ok := c.store.Get(credentials.KeyAccessToken); ok && accessToken != "" {
			req.Header.Set("Authorization", "Bearer "+accessToken)
		}
	}

	c.logger.Debug().Str("method", method).Str("path", path).Msg("api request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}

	if resp.StatusCode == http.StatusUnauthorized && allowRecover {
		if fn := c.unauthorizedFunc(); fn != nil && fn(ctx) {
			// A fresh token is in the store; retry once and never again.
			resp.Body.Close()
			c.logger.Debug().Str("method", method).Str("path", path).Msg("retrying after credential refresh")
			return c.send(ctx, method, path, body, mode, false)
		}
	}
	return resp, nil
}
