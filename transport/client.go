// Package transport is the console's HTTP boundary to the cooperative API.
// One Client is configured per process: base endpoint and credential mode are
// fixed for the process lifetime, and every request carries the session
// credentials automatically.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	apperrors "github.com/Kihomy-Mariel/agrocoop-console/internal/errors"
)

// Mode selects how session credentials are attached to requests.
type Mode string

const (
	// ModeCookie stores the session cookie in a jar and re-sends it on every
	// request. This is what the cooperative API uses in production.
	ModeCookie Mode = "cookie"
	// ModeToken sends a bearer token in the Authorization header.
	ModeToken Mode = "token"
	// ModeNone sends no credentials (public endpoints, tests).
	ModeNone Mode = "none"
)

const defaultTimeout = 15 * time.Second

// Option customizes a Client.
type Option func(*Client)

// WithLogger sets the logger used for request diagnostics.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithToken seeds the bearer token for ModeToken clients.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// Client performs JSON round-trips against the cooperative API and maps
// responses to the engine's error kinds.
type Client struct {
	baseURL string
	mode    Mode
	http    *http.Client
	log     zerolog.Logger

	mu    sync.RWMutex
	token string
}

// New builds the process-wide client. baseURL must be absolute.
func New(baseURL string, mode Mode, options ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || !u.IsAbs() {
		return nil, errors.Errorf("[transport.New] invalid base URL %q", baseURL)
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		mode:    mode,
		http:    &http.Client{Timeout: defaultTimeout},
		log:     zerolog.Nop(),
	}

	if mode == ModeCookie {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, errors.Wrap(err, "[transport.New] cookie jar")
		}
		c.http.Jar = jar
	}

	for _, opt := range options {
		opt(c)
	}
	return c, nil
}

// SetToken replaces the bearer token after a token-mode login.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// Token returns the current bearer token ("" in cookie mode).
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// TokenExpiry reports the exp claim of the configured bearer token, when the
// token is a JWT. The claim is read without signature verification; the server
// remains the authority on validity. Diagnostics only.
func (c *Client) TokenExpiry() (time.Time, bool) {
	tok := c.Token()
	if tok == "" {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// Get performs a GET round-trip, decoding a 2xx response body into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

// Post performs a POST round-trip with a JSON body, decoding a 2xx response
// body into out.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

// Do performs a JSON round-trip. Response mapping:
//   - network-level failure: ErrUnavailable
//   - 401/403: ErrUnauthorized
//   - other non-2xx: ErrUnexpectedStatus
//   - 2xx: body decoded into out when out is non-nil
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return errors.Wrapf(err, "[Do] encode %s %s", method, path)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return errors.Wrapf(err, "[Do] build %s %s", method, path)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.mode == ModeToken {
		if tok := c.Token(); tok != "" {
			(&oauth2.Token{AccessToken: tok}).SetAuthHeader(req)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("method", method).Str("path", path).Msg("request failed")
		return apperrors.Wrapf(apperrors.ErrUnavailable, "[Do] %s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	c.log.Debug().Str("method", method).Str("path", path).Int("status", resp.StatusCode).Msg("request")

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		io.Copy(io.Discard, resp.Body)
		return apperrors.Wrapf(apperrors.ErrUnauthorized, "[Do] %s %s: status %d", method, path, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		io.Copy(io.Discard, resp.Body)
		return apperrors.Wrapf(apperrors.ErrUnexpectedStatus, "[Do] %s %s: status %d", method, path, resp.StatusCode)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "[Do] decode %s %s", method, path)
	}
	return nil
}
