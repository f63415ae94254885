package auth

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/Kihomy-Mariel/agrocoop-console/internal/errors"
	"github.com/Kihomy-Mariel/agrocoop-console/session"
	"github.com/Kihomy-Mariel/agrocoop-console/transport"
)

// Cooperative API session endpoints.
const (
	pathMe     = "/auth/me"
	pathLogin  = "/auth/login"
	pathLogout = "/auth/logout"
)

var _ Transport = (*HTTPTransport)(nil)

// HTTPTransport implements Transport over the process-wide API client.
// Credentials ride along automatically (cookie jar or bearer token, fixed at
// client construction).
type HTTPTransport struct {
	api *transport.Client
	log zerolog.Logger
}

// HTTPTransportOption customizes an HTTPTransport.
type HTTPTransportOption func(*HTTPTransport)

// WithTransportLogger sets the logger for session round-trip diagnostics.
func WithTransportLogger(log zerolog.Logger) HTTPTransportOption {
	return func(t *HTTPTransport) { t.log = log }
}

// NewHTTPTransport wraps the API client.
func NewHTTPTransport(api *transport.Client, options ...HTTPTransportOption) *HTTPTransport {
	t := &HTTPTransport{api: api, log: zerolog.Nop()}
	for _, opt := range options {
		opt(t)
	}
	return t
}

// ProbeSession asks the API who the current session belongs to. Any non-2xx
// answer means no recoverable session; only a network-level failure is an
// error.
func (t *HTTPTransport) ProbeSession(ctx context.Context) (*session.Principal, error) {
	var payload principalPayload
	err := t.api.Get(ctx, pathMe, &payload)
	switch {
	case err == nil:
		p := payload.principal()
		return &p, nil
	case errors.Is(err, errors.ErrUnauthorized) || errors.Is(err, errors.ErrUnexpectedStatus):
		t.log.Debug().Err(err).Msg("no recoverable session")
		return nil, nil
	default:
		return nil, errors.Wrapf(err, "[ProbeSession]")
	}
}

// Login exchanges credentials for a session. In token mode the returned token
// is installed on the API client so subsequent requests carry it.
func (t *HTTPTransport) Login(ctx context.Context, creds Credentials) (*session.Principal, error) {
	var payload loginPayload
	if err := t.api.Post(ctx, pathLogin, creds, &payload); err != nil {
		if errors.Is(err, errors.ErrUnauthorized) {
			return nil, errors.Wrapf(errors.ErrInvalidCredentials, "[Login] user %q", creds.Username)
		}
		return nil, errors.Wrapf(err, "[Login]")
	}

	if payload.Token != "" {
		t.api.SetToken(payload.Token)
	}
	p := payload.principal()
	p.Token = payload.Token
	return &p, nil
}

// Logout requests server-side termination and drops any local bearer token.
// The request outcome is reported but must not stop the caller from clearing
// local state.
func (t *HTTPTransport) Logout(ctx context.Context) error {
	err := t.api.Post(ctx, pathLogout, nil, nil)
	t.api.SetToken("")
	if err != nil {
		return errors.Wrapf(err, "[Logout]")
	}
	return nil
}
