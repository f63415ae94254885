// Package directory is the administrative user-management surface: listing
// the cooperative's console users and dispatching row-level actions (force
// logout, activate/deactivate) through the concurrency coordinator.
package directory

import (
	"encoding/json"
	"strings"
	"time"
)

// Status is an account's activation state, as the cooperative API spells it.
type Status string

const (
	StatusActive   Status = "ACTIVO"
	StatusInactive Status = "INACTIVO"
)

// User is one console account row.
type User struct {
	ID        string
	Username  string
	FirstName string
	LastName  string
	Email     string
	Staff     bool
	Status    Status
	LoggedIn  bool
	LastLogin *time.Time
}

// FullName returns the user's display name.
func (u User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

// Active reports whether the account is enabled.
func (u User) Active() bool {
	return u.Status == StatusActive
}

// userPayload is the wire shape of a user as the cooperative API returns it.
type userPayload struct {
	ID        json.Number `json:"id"`
	Username  string      `json:"usuario"`
	FirstName string      `json:"nombres"`
	LastName  string      `json:"apellidos"`
	Email     string      `json:"email"`
	Staff     bool        `json:"is_staff"`
	Status    Status      `json:"estado"`
	LoggedIn  bool        `json:"sesion_activa"`
	LastLogin *time.Time  `json:"ultimo_login"`
}

func (p userPayload) user() User {
	return User{
		ID:        p.ID.String(),
		Username:  p.Username,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Email:     p.Email,
		Staff:     p.Staff,
		Status:    p.Status,
		LoggedIn:  p.LoggedIn,
		LastLogin: p.LastLogin,
	}
}

// listPayload is the paginated list envelope.
type listPayload struct {
	Results []userPayload `json:"results"`
}

// Filter returns the users whose username, full name or email contains the
// term, case-insensitive. An empty term returns every user.
func Filter(users []User, term string) []User {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return users
	}

	var matched []User
	for _, u := range users {
		if strings.Contains(strings.ToLower(u.Username), term) ||
			strings.Contains(strings.ToLower(u.FullName()), term) ||
			strings.Contains(strings.ToLower(u.Email), term) {
			matched = append(matched, u)
		}
	}
	return matched
}
