package auth

import (
	"context"
	"encoding/json"

	"github.com/Kihomy-Mariel/agrocoop-console/session"
)

// Credentials carries a login form submission.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Transport performs the network exchanges that establish, verify and
// terminate a session against the cooperative API.
type Transport interface {
	// ProbeSession attempts to recover an existing session without user
	// interaction (startup). A nil principal with a nil error means no prior
	// session exists; that is not a failure.
	ProbeSession(ctx context.Context) (*session.Principal, error)

	// Login establishes a session from credentials. Failures are
	// errors.ErrInvalidCredentials (rejected) or errors.ErrUnavailable
	// (transport failure).
	Login(ctx context.Context, creds Credentials) (*session.Principal, error)

	// Logout asks the server to terminate the session. Best effort: the
	// caller must clear local session state regardless of the outcome.
	Logout(ctx context.Context) error
}

// principalPayload is the wire shape of a principal as returned by the
// cooperative API. IDs arrive as JSON numbers.
type principalPayload struct {
	ID        json.Number `json:"id"`
	Username  string      `json:"username"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Email     string      `json:"email"`
	Staff     bool        `json:"is_staff"`
}

func (p principalPayload) principal() session.Principal {
	return session.Principal{
		ID:        p.ID.String(),
		Username:  p.Username,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Email:     p.Email,
		Staff:     p.Staff,
	}
}

// loginPayload is the login response: the principal plus, in token mode, the
// opaque session token.
type loginPayload struct {
	principalPayload
	Token string `json:"token"`
}
