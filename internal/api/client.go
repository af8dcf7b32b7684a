// Package api is a client for the WordFlow REST backend. The backend keeps
// the signed-in user in a session cookie, so every user gets a Session with
// its own cookie jar.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"wordflow/internal/repository"

	"go.uber.org/zap"
)

const maxErrorBody = 64 << 10

// Client holds the backend location and transport settings
type Client struct {
	baseURL   *url.URL
	timeout   time.Duration
	transport http.RoundTripper
	logger    *zap.Logger
}

// NewClient creates a client for the backend at baseURL
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid API base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid API base URL %q: scheme and host are required", baseURL)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:   u,
		timeout:   timeout,
		transport: http.DefaultTransport,
		logger:    logger,
	}, nil
}

// Session opens a session restored from serialized cookies (may be empty)
func (c *Client) Session(cookie string) *Session {
	jar, _ := cookiejar.New(nil)
	if cookie != "" {
		jar.SetCookies(c.baseURL, parseCookies(cookie))
	}
	return &Session{
		client: c,
		jar:    jar,
		http: &http.Client{
			Timeout:   c.timeout,
			Jar:       jar,
			Transport: c.transport,
		},
	}
}

// Backend implements repository.BackendProvider
func (c *Client) Backend(cookie string) repository.Backend {
	return c.Session(cookie)
}

// Session is one signed-in (or anonymous) conversation with the backend
type Session struct {
	client *Client
	jar    http.CookieJar
	http   *http.Client
}

// Cookie serializes the session cookies as "name=value; name=value"
func (s *Session) Cookie() string {
	cookies := s.jar.Cookies(s.client.baseURL)
	parts := make([]string, 0, len(cookies))
	for _, c := range cookies {
		parts = append(parts, c.Name+"="+c.Value)
	}
	return strings.Join(parts, "; ")
}

func parseCookies(raw string) []*http.Cookie {
	var cookies []*http.Cookie
	for _, part := range strings.Split(raw, ";") {
		name, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok || name == "" {
			continue
		}
		cookies = append(cookies, &http.Cookie{Name: name, Value: value})
	}
	return cookies
}

func (s *Session) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := s.client.baseURL.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	s.client.logger.Debug("API request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return readError(resp)
	}
	if resp.StatusCode == http.StatusNoContent || out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

var (
	_ repository.Backend         = (*Session)(nil)
	_ repository.BackendProvider = (*Client)(nil)
)
