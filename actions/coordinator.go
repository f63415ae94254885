// Package actions serializes administrative mutations per target entity. A
// ticket is taken before the network call is dispatched and released when the
// result is observed, which closes the window where a second click during an
// in-flight request could dispatch a duplicate call.
package actions

import (
	"sync"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/Kihomy-Mariel/agrocoop-console/internal/errors"
	"github.com/Kihomy-Mariel/agrocoop-console/session"
)

// Kind is the administrative mutation type.
type Kind string

const (
	// KindForceLogout terminates another user's server-side session.
	KindForceLogout Kind = "force_logout"
	// KindActivate re-enables a deactivated account.
	KindActivate Kind = "activate"
	// KindDeactivate disables an account.
	KindDeactivate Kind = "deactivate"
)

// SelfRestricted reports whether a principal may not target itself with this
// kind. A principal cannot force-logout or deactivate its own account.
func (k Kind) SelfRestricted() bool {
	return k == KindForceLogout || k == KindDeactivate
}

// Ticket marks one in-flight administrative mutation.
type Ticket struct {
	ID        uuid.UUID
	EntityID  string
	Kind      Kind
	StartedAt time.Time
}

// Option customizes a Coordinator.
type Option func(*Coordinator)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) Option {
	return func(c *Coordinator) { c.nowTime = nowFunc }
}

// WithStaleAfter lets TryBegin reclaim a ticket older than d. The legacy
// behavior never reclaims (a ticket is only released by Complete); enable
// this only for callers that cannot guarantee Complete on every path.
func WithStaleAfter(d time.Duration) Option {
	return func(c *Coordinator) { c.staleAfter = d }
}

// WithLogger sets the coordinator logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Coordinator) { c.log = log }
}

// Coordinator tracks at most one ticket per entity ID. Coordination is keyed
// by entity ID alone: two different mutation kinds against the same entity
// are still mutually exclusive because they affect overlapping remote state.
type Coordinator struct {
	mu      sync.Mutex
	tickets map[string]*Ticket

	store      *session.Store
	nowTime    func() time.Time
	staleAfter time.Duration
	log        zerolog.Logger
}

// NewCoordinator initializes a Coordinator. The session store is required for
// the self-target check, and the ticket table resets whenever the store
// returns to anonymous (logout or forced clear).
func NewCoordinator(store *session.Store, options ...Option) (*Coordinator, error) {
	if store == nil {
		return nil, pkgerrors.New("[NewCoordinator] session store is required")
	}

	c := &Coordinator{
		tickets: make(map[string]*Ticket),
		store:   store,
		nowTime: time.Now,
		log:     zerolog.Nop(),
	}
	for _, opt := range options {
		opt(c)
	}

	store.Subscribe(func(s session.Session) {
		if s.Status == session.StatusAnonymous {
			c.Reset()
		}
	})
	return c, nil
}

// TryBegin creates a ticket for the entity, rejecting with ErrSelfTarget when
// a self-restricted kind targets the current principal and with
// ErrAlreadyInFlight when a ticket for the entity already exists. The ticket
// must be taken before the mutation is dispatched, and Complete must be
// called on every path, including transport failure.
func (c *Coordinator) TryBegin(entityID string, kind Kind) (*Ticket, error) {
	if kind.SelfRestricted() {
		if cur := c.store.Current(); cur.Authenticated() && cur.Principal.ID == entityID {
			return nil, errors.Wrapf(errors.ErrSelfTarget, "[TryBegin] %s on %s", kind, entityID)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.tickets[entityID]; ok {
		if c.staleAfter <= 0 || c.nowTime().Sub(existing.StartedAt) < c.staleAfter {
			return nil, errors.Wrapf(errors.ErrAlreadyInFlight, "[TryBegin] %s on %s (%s pending)",
				kind, entityID, existing.Kind)
		}
		c.log.Warn().Str("entity_id", entityID).Str("kind", string(existing.Kind)).
			Time("started_at", existing.StartedAt).Msg("reclaiming stale ticket")
	}

	t := &Ticket{
		ID:        uuid.New(),
		EntityID:  entityID,
		Kind:      kind,
		StartedAt: c.nowTime(),
	}
	c.tickets[entityID] = t
	return t, nil
}

// Complete releases the ticket once the mutation's result is observed,
// success or failure alike. Releasing a ticket that was already reclaimed or
// reset is a no-op.
func (c *Coordinator) Complete(t *Ticket) {
	if t == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if current, ok := c.tickets[t.EntityID]; ok && current.ID == t.ID {
		delete(c.tickets, t.EntityID)
	}
}

// InFlight reports whether a mutation against the entity is outstanding. The
// UI uses this to disable per-row controls.
func (c *Coordinator) InFlight(entityID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.tickets[entityID]
	return ok
}

// Reset drops every ticket. Called when the session ends; in-flight
// mutations resolve into no-op Complete calls.
func (c *Coordinator) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tickets = make(map[string]*Ticket)
}
