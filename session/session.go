package session

// Status describes where the client currently stands in the authentication
// lifecycle.
type Status string

const (
	// StatusAnonymous means no session exists; protected views must redirect.
	StatusAnonymous Status = "anonymous"
	// StatusAuthenticating means a probe or login round-trip is outstanding.
	StatusAuthenticating Status = "authenticating"
	// StatusAuthenticated means a principal is established.
	StatusAuthenticated Status = "authenticated"
	// StatusFailed means the last authentication attempt failed.
	StatusFailed Status = "failed"
)

// Principal is the authenticated user's identity as returned by the
// cooperative API.
type Principal struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Email     string `json:"email,omitempty"`
	Staff     bool   `json:"is_staff,omitempty"` // administrator flag

	// Token is the opaque session validity token when the transport runs in
	// token mode. Empty in cookie mode.
	Token string `json:"-"`
}

// FullName returns the principal's display name.
func (p Principal) FullName() string {
	switch {
	case p.FirstName == "" && p.LastName == "":
		return p.Username
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// Session is a snapshot of the current authentication context.
//
// Invariant: Principal is non-nil if and only if Status is
// StatusAuthenticated; Err is non-nil only when Status is StatusFailed.
type Session struct {
	Status    Status
	Principal *Principal
	Err       error
}

// Authenticated reports whether the snapshot carries an established principal.
func (s Session) Authenticated() bool {
	return s.Status == StatusAuthenticated && s.Principal != nil
}
