// Package aspace is the blocking HTTP client for the archival description
// backend. It owns session establishment, the raw get/post/delete verbs with
// their status and body checks, and the typed endpoint wrappers. Traversal
// and bulk logic live elsewhere and consume this package one round trip at a
// time.
package aspace

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// SessionHeader carries the authenticated session token on every request.
const SessionHeader = "X-ArchivesSpace-Session"

// RetryPolicy controls transport-level retries. Only GETs are retried, and
// only on connection errors: a status mismatch is a real answer, and
// repeating a non-idempotent write could double-apply it.
type RetryPolicy struct {
	Attempts int
	Backoff  time.Duration
}

// Config carries everything needed to open an authenticated client.
type Config struct {
	BaseURL     string
	FrontendURL string
	Username    string
	Password    string
	Repository  int
	// ExpiringSession requests a session the backend expires on idle.
	ExpiringSession bool
	Retry           RetryPolicy
	HTTPClient      *http.Client
	Logger          *slog.Logger
}

// Client is an authenticated connection to one backend instance. The session
// token is established once at construction and shared, read-only, across
// all calls.
type Client struct {
	baseURL     string
	frontendURL string
	repo        string
	session     string
	http        *http.Client
	retry       RetryPolicy
	log         *slog.Logger
}

type loginResponse struct {
	Session string `json:"session"`
	Error   string `json:"error"`
}

// New authenticates against the backend and returns a ready client.
func New(ctx context.Context, cfg Config) (*Client, error) {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	repository := cfg.Repository
	if repository == 0 {
		repository = 2
	}

	c := &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		frontendURL: strings.TrimRight(cfg.FrontendURL, "/"),
		repo:        fmt.Sprintf("/repositories/%d", repository),
		http:        httpClient,
		retry:       cfg.Retry,
		log:         logger,
	}

	if err := c.login(ctx, cfg.Username, cfg.Password, cfg.ExpiringSession); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Client) login(ctx context.Context, username, password string, expiring bool) error {
	params := url.Values{}
	params.Set("password", password)
	params.Set("expiring", fmt.Sprintf("%t", expiring))
	loginURL := fmt.Sprintf("%s/users/%s/login?%s", c.baseURL, url.PathEscape(username), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, loginURL, nil)
	if err != nil {
		return fmt.Errorf("aspace: build login request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return &ConnectionError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &ConnectionError{Err: err}
	}

	var login loginResponse
	if err := json.Unmarshal(body, &login); err != nil {
		return &ProtocolError{StatusCode: resp.StatusCode, Err: err}
	}
	if login.Session == "" {
		detail := login.Error
		if detail == "" {
			detail = fmt.Sprintf("no session in response (status %d)", resp.StatusCode)
		}
		return &AuthenticationError{Detail: detail}
	}

	c.session = login.Session
	c.log.Debug("aspace: session established", slog.String("user", username))
	return nil
}

// RepositoryURI returns the configured repository prefix, e.g.
// "/repositories/2".
func (c *Client) RepositoryURI() string { return c.repo }

// request performs one verb against uri, enforcing the expected status and
// that the body is structured data. GETs retry on connection errors per the
// configured policy.
func (c *Client) request(ctx context.Context, method, uri string, params url.Values, body []byte, expect int) ([]byte, error) {
	attempts := c.retry.Attempts
	if attempts < 1 || method != http.MethodGet {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			c.log.Debug("aspace: retrying request",
				slog.String("uri", uri),
				slog.Int("attempt", attempt+1))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.retry.Backoff):
			}
		}

		data, err := c.doOnce(ctx, method, uri, params, body, expect)
		if err == nil {
			return data, nil
		}
		lastErr = err
		var connErr *ConnectionError
		if !errors.As(err, &connErr) {
			return nil, err
		}
	}
	return nil, lastErr
}

func (c *Client) doOnce(ctx context.Context, method, uri string, params url.Values, body []byte, expect int) ([]byte, error) {
	reqURL := c.baseURL + uri
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return nil, fmt.Errorf("aspace: build request: %w", err)
	}
	req.Header.Set(SessionHeader, c.session)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &ConnectionError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ConnectionError{Err: err}
	}
	if resp.StatusCode != expect {
		return nil, &CommunicationError{StatusCode: resp.StatusCode, Body: data}
	}
	if !json.Valid(data) {
		return nil, &ProtocolError{StatusCode: resp.StatusCode, Err: fmt.Errorf("invalid JSON body")}
	}
	return data, nil
}

// GetJSON fetches uri and decodes the response into v.
func (c *Client) GetJSON(ctx context.Context, uri string, params url.Values, v any) error {
	data, err := c.request(ctx, http.MethodGet, uri, params, nil, http.StatusOK)
	if err != nil {
		return err
	}
	if v == nil {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return &ProtocolError{StatusCode: http.StatusOK, Err: err}
	}
	return nil
}

// PostJSON sends body as a full-document write to uri and decodes the
// response into v when non-nil. The backend has no partial-patch semantics:
// whatever document is posted replaces the stored one.
func (c *Client) PostJSON(ctx context.Context, uri string, body any, v any) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("aspace: encode body for %s: %w", uri, err)
	}
	data, err := c.request(ctx, http.MethodPost, uri, nil, encoded, http.StatusOK)
	if err != nil {
		return err
	}
	if v == nil {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return &ProtocolError{StatusCode: http.StatusOK, Err: err}
	}
	return nil
}

// PostRaw sends a pre-encoded payload with an explicit content type. Used by
// the EAD conversion plugin endpoint, which takes raw XML.
func (c *Client) PostRaw(ctx context.Context, uri, contentType string, body io.Reader) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+uri, body)
	if err != nil {
		return nil, fmt.Errorf("aspace: build request: %w", err)
	}
	req.Header.Set(SessionHeader, c.session)
	req.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &ConnectionError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ConnectionError{Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &CommunicationError{StatusCode: resp.StatusCode, Body: data}
	}
	if !json.Valid(data) {
		return nil, &ProtocolError{StatusCode: resp.StatusCode, Err: fmt.Errorf("invalid JSON body")}
	}
	return json.RawMessage(data), nil
}

// Delete removes the object at uri.
func (c *Client) Delete(ctx context.Context, uri string) error {
	_, err := c.request(ctx, http.MethodDelete, uri, nil, nil, http.StatusOK)
	return err
}

// Logout invalidates the session token.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.request(ctx, http.MethodPost, "/logout", nil, nil, http.StatusOK)
	return err
}
