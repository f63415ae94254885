package directory

import (
	"context"
	"sync"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/Kihomy-Mariel/agrocoop-console/actions"
	"github.com/Kihomy-Mariel/agrocoop-console/internal/errors"
	"github.com/Kihomy-Mariel/agrocoop-console/session"
)

// Service backs the user-management view: it keeps the fetched list, routes
// every row-level action through the coordinator, and applies the optimistic
// local update only after the remote mutation succeeds.
type Service struct {
	api   API
	coord *actions.Coordinator
	store *session.Store
	log   zerolog.Logger

	mu    sync.RWMutex
	users []User
}

// ServiceOption customizes a Service.
type ServiceOption func(*Service)

// WithServiceLogger sets the service logger.
func WithServiceLogger(log zerolog.Logger) ServiceOption {
	return func(s *Service) { s.log = log }
}

// NewService initializes a Service with its required dependencies.
func NewService(api API, coord *actions.Coordinator, store *session.Store, options ...ServiceOption) (*Service, error) {
	if api == nil {
		return nil, pkgerrors.New("[NewService] directory API is required")
	}
	if coord == nil {
		return nil, pkgerrors.New("[NewService] coordinator is required")
	}
	if store == nil {
		return nil, pkgerrors.New("[NewService] session store is required")
	}

	s := &Service{api: api, coord: coord, store: store, log: zerolog.Nop()}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// Refresh reloads the user list from the API.
func (s *Service) Refresh(ctx context.Context) error {
	users, err := s.api.List(ctx)
	if err != nil {
		return s.surface(errors.Wrapf(err, "[Refresh]"))
	}

	s.mu.Lock()
	s.users = users
	s.mu.Unlock()
	return nil
}

// Users returns a copy of the cached list.
func (s *Service) Users() []User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]User, len(s.users))
	copy(out, s.users)
	return out
}

// Search returns the cached users matching the term.
func (s *Service) Search(term string) []User {
	return Filter(s.Users(), term)
}

// InFlight reports whether an action against the user is outstanding.
func (s *Service) InFlight(userID string) bool {
	return s.coord.InFlight(userID)
}

// ForceLogout terminates the target user's session. The coordinator ticket is
// taken before dispatch and released on every path.
func (s *Service) ForceLogout(ctx context.Context, userID string) error {
	ticket, err := s.coord.TryBegin(userID, actions.KindForceLogout)
	if err != nil {
		return errors.Wrapf(err, "[ForceLogout]")
	}
	defer s.coord.Complete(ticket)

	if err := s.api.ForceLogout(ctx, userID); err != nil {
		return s.surface(errors.Wrapf(err, "[ForceLogout]"))
	}

	s.applyLocal(userID, actions.KindForceLogout)
	return nil
}

// ToggleStatus flips the target account between active and inactive based on
// its cached state, the way the management screen's toggle button works.
func (s *Service) ToggleStatus(ctx context.Context, userID string) error {
	user, ok := s.lookup(userID)
	if !ok {
		return pkgerrors.Errorf("[ToggleStatus] unknown user %s", userID)
	}

	kind := actions.KindActivate
	if user.Active() {
		kind = actions.KindDeactivate
	}

	ticket, err := s.coord.TryBegin(userID, kind)
	if err != nil {
		return errors.Wrapf(err, "[ToggleStatus]")
	}
	defer s.coord.Complete(ticket)

	if err := s.api.SetStatus(ctx, userID, kind == actions.KindActivate); err != nil {
		return s.surface(errors.Wrapf(err, "[ToggleStatus]"))
	}

	s.applyLocal(userID, kind)
	return nil
}

func (s *Service) lookup(userID string) (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.ID == userID {
			return u, true
		}
	}
	return User{}, false
}

// applyLocal runs the reducer over the cached row after a successful
// mutation; failures leave the cache untouched.
func (s *Service) applyLocal(userID string, kind actions.Kind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, u := range s.users {
		if u.ID == userID {
			s.users[i] = Apply(u, kind)
			return
		}
	}
}

// surface reports an API failure to the caller. A downstream unauthorized
// answer means the session expired out from under us: the store is force
// cleared so protected actions cannot stay enabled on a dead session.
func (s *Service) surface(err error) error {
	if errors.Is(err, errors.ErrUnauthorized) {
		s.log.Warn().Msg("session rejected downstream; clearing local session")
		s.store.Clear()
	}
	return err
}
