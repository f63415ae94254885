package session

import (
	"sync"

	"github.com/Kihomy-Mariel/agrocoop-console/internal/errors"
)

// Listener receives a snapshot after every applied transition.
type Listener func(Session)

// Store holds the client's authentication state for the lifetime of the
// running console. It is constructed explicitly and handed to the components
// that need it; there is no package-level instance.
//
// The source environment ran transitions on a single-threaded cooperative
// scheduler. Here a mutex gives each transition the same
// run-to-completion atomicity.
type Store struct {
	mu      sync.Mutex
	current Session

	// Request sequencing. Resolutions are applied in the order they resolve,
	// and a resolution whose sequence number is at or below the applied
	// watermark is discarded so a slow login cannot overwrite a later
	// transition (or resurrect a logged-out session).
	nextSeq uint64
	applied uint64

	subs   []subscription
	nextID int
}

type subscription struct {
	id int
	fn Listener
}

// NewStore returns a store in StatusAuthenticating: the console probes for an
// existing session at startup, and the probe's resolution performs the first
// transition.
func NewStore() *Store {
	return &Store{current: Session{Status: StatusAuthenticating}}
}

// Current returns the freshest snapshot. Side-effect free.
func (s *Store) Current() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// NextRequest issues a sequence number for a network round-trip about to be
// dispatched. The resolution must be applied with the same number.
func (s *Store) NextRequest() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSeq++
	return s.nextSeq
}

// Subscribe registers a listener notified synchronously after every applied
// transition. The returned function removes the listener.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscription{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// BeginAuthenticating marks a login attempt as outstanding. Allowed from
// StatusAnonymous and StatusFailed; a no-op when already authenticating.
func (s *Store) BeginAuthenticating() error {
	s.mu.Lock()
	switch s.current.Status {
	case StatusAuthenticating:
		s.mu.Unlock()
		return nil
	case StatusAuthenticated:
		s.mu.Unlock()
		return errors.Wrapf(errors.ErrInvalidTransition, "[BeginAuthenticating] already authenticated")
	}
	s.apply(Session{Status: StatusAuthenticating})
	return nil
}

// SetAuthenticated applies a successful probe or login resolution.
// Re-authentication as a different principal must pass through Clear first so
// no state from the previous principal leaks into the new session.
func (s *Store) SetAuthenticated(seq uint64, p Principal) error {
	s.mu.Lock()
	if seq <= s.applied {
		s.mu.Unlock()
		return errors.ErrStaleResult
	}
	if cur := s.current.Principal; s.current.Status == StatusAuthenticated && cur != nil && cur.ID != p.ID {
		s.mu.Unlock()
		return errors.Wrapf(errors.ErrInvalidTransition,
			"[SetAuthenticated] principal %s still authenticated, clear before authenticating as %s", cur.ID, p.ID)
	}
	s.applied = seq
	s.apply(Session{Status: StatusAuthenticated, Principal: &p})
	return nil
}

// SetFailed applies a failed probe or login resolution. Clears any principal.
func (s *Store) SetFailed(seq uint64, kind error) error {
	s.mu.Lock()
	if seq <= s.applied {
		s.mu.Unlock()
		return errors.ErrStaleResult
	}
	s.applied = seq
	s.apply(Session{Status: StatusFailed, Err: kind})
	return nil
}

// SetAnonymous applies a resolution that found no session (a probe answered
// with an authorization failure: absence of a prior session is not an error).
func (s *Store) SetAnonymous(seq uint64) error {
	s.mu.Lock()
	if seq <= s.applied {
		s.mu.Unlock()
		return errors.ErrStaleResult
	}
	s.applied = seq
	s.apply(Session{Status: StatusAnonymous})
	return nil
}

// Clear resets the store to StatusAnonymous. Used by logout and by any
// downstream unauthorized signal. The applied watermark jumps past every
// sequence number issued so far, so outstanding resolutions become stale.
func (s *Store) Clear() {
	s.mu.Lock()
	s.applied = s.nextSeq
	s.apply(Session{Status: StatusAnonymous})
}

// apply installs the snapshot and notifies listeners. Called with mu held;
// releases it before invoking listeners so a listener may read the store.
func (s *Store) apply(next Session) {
	s.current = next
	subs := make([]subscription, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(next)
	}
}
