// Package client is a Go SDK for the YoruWear storefront API. It keeps the
// session tokens and the shopper's cart in a Storage, refreshes an expired
// access token once and replays the request that hit the 401.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/junaidrashid-git/yoruwear-api/cart"
	"github.com/junaidrashid-git/yoruwear-api/tracing"
	"github.com/sirupsen/logrus"
)

var ErrNoRefreshToken = errors.New("no refresh token available")

// APIError is a non-2xx answer from the API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("yoruwear api: %d %s", e.Status, e.Message)
}

// IsStatus reports whether err is an APIError with the given HTTP status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

type Client struct {
	baseURL string
	http    *http.Client
	store   Storage
	log     *logrus.Logger

	refreshMu sync.Mutex

	cartMu sync.Mutex
	cart   *cart.Store
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithLogger(log *logrus.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithTracing propagates the caller's trace context on every request. Pass
// it after WithHTTPClient.
func WithTracing() Option {
	return func(c *Client) {
		hc := *c.http
		hc.Transport = tracing.Transport(hc.Transport)
		c.http = &hc
	}
}

// New returns a client for baseURL, e.g. "http://localhost:3000". A nil store
// keeps state in memory.
func New(baseURL string, store Storage, opts ...Option) *Client {
	if store == nil {
		store = NewMemoryStorage()
	}
	log := logrus.New()
	log.SetOutput(io.Discard)

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		store:   store,
		log:     log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// these never carry a retry; a 401 from them is final
var noReplayPaths = map[string]bool{
	"/api/auth/login":    true,
	"/api/auth/register": true,
	"/api/auth/refresh":  true,
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body []byte
	if in != nil {
		var err error
		if body, err = json.Marshal(in); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	err := c.send(ctx, method, path, body, out)
	if !IsStatus(err, http.StatusUnauthorized) || noReplayPaths[path] {
		return err
	}

	refresh, _ := c.store.Get(KeyRefreshToken)
	if refresh == "" {
		return err
	}
	if rerr := c.refreshIfStale(ctx, refresh); rerr != nil {
		c.log.WithError(rerr).Debug("token refresh failed")
		return err
	}
	return c.send(ctx, method, path, body, out)
}

// refreshIfStale refreshes unless another goroutine already rotated the token
// that failed.
func (c *Client) refreshIfStale(ctx context.Context, used string) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()
	if current, _ := c.store.Get(KeyRefreshToken); current != used {
		return nil
	}
	_, err := c.Refresh(ctx)
	return err
}

func (c *Client) send(ctx context.Context, method, path string, body []byte, out interface{}) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if !noReplayPaths[path] {
		if token, _ := c.store.Get(KeyAccessToken); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var payload struct {
			Error string `json:"error"`
		}
		msg := http.StatusText(resp.StatusCode)
		if json.Unmarshal(data, &payload) == nil && payload.Error != "" {
			msg = payload.Error
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
