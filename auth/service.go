package auth

import (
	"context"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/Kihomy-Mariel/agrocoop-console/internal/errors"
	"github.com/Kihomy-Mariel/agrocoop-console/session"
)

// Service drives the session store from transport outcomes. Each round-trip
// takes a sequence number from the store before dispatch; resolutions are
// applied in the order they arrive and stale ones are discarded, so a slow
// login can never overwrite a later logout or a newer login.
type Service struct {
	store     *session.Store
	transport Transport
	log       zerolog.Logger
}

// ServiceOption defines a function type to modify the Service instance.
type ServiceOption func(*Service)

// WithLogger sets the service logger.
func WithLogger(log zerolog.Logger) ServiceOption {
	return func(s *Service) { s.log = log }
}

// NewService initializes a Service with its required dependencies.
func NewService(store *session.Store, transport Transport, options ...ServiceOption) (*Service, error) {
	if store == nil {
		return nil, pkgerrors.New("[NewService] session store is required")
	}
	if transport == nil {
		return nil, pkgerrors.New("[NewService] transport is required")
	}

	s := &Service{store: store, transport: transport, log: zerolog.Nop()}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// Store exposes the session store for components that subscribe to it.
func (s *Service) Store() *session.Store {
	return s.store
}

// ProbeSession recovers an existing session at startup. No prior session
// resolves the store to anonymous; only a transport failure resolves it to
// failed.
func (s *Service) ProbeSession(ctx context.Context) error {
	seq := s.store.NextRequest()

	principal, err := s.transport.ProbeSession(ctx)
	switch {
	case err != nil:
		s.applied(s.store.SetFailed(seq, errors.ErrUnavailable))
		return errors.Wrapf(err, "[ProbeSession]")
	case principal == nil:
		s.applied(s.store.SetAnonymous(seq))
		return nil
	default:
		s.applied(s.store.SetAuthenticated(seq, *principal))
		return nil
	}
}

// Login authenticates the given credentials and, on success, installs the
// returned principal in the store.
func (s *Service) Login(ctx context.Context, creds Credentials) error {
	if err := s.store.BeginAuthenticating(); err != nil {
		return errors.Wrapf(err, "[Login]")
	}
	seq := s.store.NextRequest()

	principal, err := s.transport.Login(ctx, creds)
	if err != nil {
		kind := errors.ErrUnavailable
		if errors.Is(err, errors.ErrInvalidCredentials) {
			kind = errors.ErrInvalidCredentials
		}
		s.applied(s.store.SetFailed(seq, kind))
		return errors.Wrapf(err, "[Login]")
	}

	s.applied(s.store.SetAuthenticated(seq, *principal))
	return nil
}

// Logout terminates the session. The store is cleared no matter how the
// server call went: a failed logout request must never leave the client
// believing it is still authenticated.
func (s *Service) Logout(ctx context.Context) error {
	err := s.transport.Logout(ctx)
	s.store.Clear()
	if err != nil {
		s.log.Warn().Err(err).Msg("server-side logout failed; local session cleared")
		return errors.Wrapf(err, "[Logout]")
	}
	return nil
}

// applied logs discarded stale resolutions; they are expected under request
// races and are not surfaced to the caller.
func (s *Service) applied(err error) {
	if err == nil {
		return
	}
	if errors.Is(err, errors.ErrStaleResult) {
		s.log.Debug().Msg("discarded stale session resolution")
		return
	}
	s.log.Error().Err(err).Msg("session transition rejected")
}
