package directory

import (
	"github.com/Kihomy-Mariel/agrocoop-console/actions"
)

// Apply maps a user's prior state and a successful action kind to the user's
// new state. Pure: callers run it against their cached list after the remote
// mutation succeeds, independent of network timing.
//
// Deactivation also drops the session flag: an account's status and its
// session validity are coupled on the server.
func Apply(u User, kind actions.Kind) User {
	switch kind {
	case actions.KindForceLogout:
		u.LoggedIn = false
	case actions.KindActivate:
		u.Status = StatusActive
	case actions.KindDeactivate:
		u.Status = StatusInactive
		u.LoggedIn = false
	}
	return u
}
