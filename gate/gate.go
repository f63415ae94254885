// Package gate decides whether a protected view may render for the current
// session. The decision is a pure mapping with no I/O and no retries; the
// presentation layer owns the literal navigation and loading UI.
package gate

import (
	"github.com/Kihomy-Mariel/agrocoop-console/session"
)

// Decision is the gate's verdict for a navigation attempt.
type Decision string

const (
	// Render means the session satisfies the view's requirement.
	Render Decision = "render"
	// ShowLoading means authentication is still being resolved.
	ShowLoading Decision = "show_loading"
	// RedirectToLogin means the session cannot satisfy the requirement.
	RedirectToLogin Decision = "redirect_to_login"
)

// Requirement describes a view's access requirement. Every protected view in
// the current routing table sets RequireAuth; AdminOnly is accepted so
// role-scoped routes can be added without touching the gate.
type Requirement struct {
	RequireAuth bool
	AdminOnly   bool
}

// Decide maps a session snapshot and a requirement to a verdict. A protected
// view never renders while the session is not authenticated, including the
// window during a state transition.
func Decide(s session.Session, req Requirement) Decision {
	if !req.RequireAuth && !req.AdminOnly {
		return Render
	}

	switch s.Status {
	case session.StatusAuthenticating:
		return ShowLoading
	case session.StatusAuthenticated:
		if s.Principal == nil {
			// A snapshot violating the store invariant never renders.
			return RedirectToLogin
		}
		if req.AdminOnly && !s.Principal.Staff {
			return RedirectToLogin
		}
		return Render
	default:
		return RedirectToLogin
	}
}

// Gate binds the decision to a store so callers always consult the freshest
// snapshot at render time rather than a value captured earlier.
type Gate struct {
	store *session.Store
}

// New returns a gate over the given store.
func New(store *session.Store) *Gate {
	return &Gate{store: store}
}

// Decide evaluates the requirement against the store's current snapshot.
func (g *Gate) Decide(req Requirement) Decision {
	return Decide(g.store.Current(), req)
}
