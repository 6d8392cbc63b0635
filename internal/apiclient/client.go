package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"disasterprep/internal/security"
)

// Client talks to the preparedness platform REST API.
// It is safe for concurrent use.
type Client struct {
	baseURL string
	base    *http.Client
	logger  *log.Logger
	debug   bool

	mu             sync.RWMutex
	token          string
	authed         *http.Client
	onUnauthorized func()
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client (tests use httptest clients)
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.base = hc
	}
}

// WithLogger sets the logger used for request logging
func WithLogger(logger *log.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables per-request logging
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// New creates a client for the API rooted at baseURL
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		base:    &http.Client{Timeout: timeout},
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken installs the bearer token attached to every authenticated call
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.token = token
	if token == "" {
		c.authed = nil
		return
	}

	transport := c.base.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	c.authed = &http.Client{
		Timeout: c.base.Timeout,
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}),
			Base:   transport,
		},
	}
}

// ClearToken removes the bearer token
func (c *Client) ClearToken() {
	c.SetToken("")
}

// HasToken reports whether a bearer token is installed
func (c *Client) HasToken() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token != ""
}

// OnUnauthorized registers a hook run whenever an authenticated call is
// rejected with 401 or 403
func (c *Client) OnUnauthorized(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnauthorized = fn
}

func (c *Client) httpClient(authenticated bool) *http.Client {
	if !authenticated {
		return c.base
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.authed == nil {
		return c.base
	}
	return c.authed
}

func (c *Client) unauthorizedHook() func() {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.onUnauthorized
}

// request describes one API call
type request struct {
	method        string
	path          string
	query         url.Values
	body          interface{}
	out           interface{}
	authenticated bool
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, request{method: http.MethodGet, path: path, out: out, authenticated: true})
}

func (c *Client) send(ctx context.Context, method, path string, body, out interface{}) error {
	return c.do(ctx, request{method: method, path: path, body: body, out: out, authenticated: true})
}

// do performs a single request/response exchange. No retries are attempted.
func (c *Client) do(ctx context.Context, r request) error {
	endpoint := c.baseURL + r.path
	if len(r.query) > 0 {
		endpoint += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		payload, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("failed to encode %s %s body: %w", r.method, r.path, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to build request %s %s: %w", r.method, r.path, err)
	}
	requestID := security.NewRequestID()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient(r.authenticated).Do(req)
	if err != nil {
		if c.debug {
			c.logger.Printf("[DEBUG] %s %s failed after %s [%s]: %v", r.method, r.path, time.Since(start), requestID, err)
		}
		return fmt.Errorf("%w: %s %s: %w", ErrNetwork, r.method, r.path, err)
	}
	defer resp.Body.Close()

	if c.debug {
		c.logger.Printf("[DEBUG] %s %s %d %s [%s]", r.method, r.path, resp.StatusCode, time.Since(start), requestID)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading %s %s response: %w", ErrNetwork, r.method, r.path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			Method:     r.method,
			Path:       r.path,
			Detail:     parseDetail(data),
		}
		if r.authenticated && apiErr.TokenRejected() {
			if hook := c.unauthorizedHook(); hook != nil {
				hook()
			}
		}
		return apiErr
	}

	if r.out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, r.out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", r.method, r.path, err)
	}
	return nil
}
