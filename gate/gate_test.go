package gate_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Kihomy-Mariel/agrocoop-console/gate"
	"github.com/Kihomy-Mariel/agrocoop-console/internal/errors"
	"github.com/Kihomy-Mariel/agrocoop-console/session"
)

func TestDecide(t *testing.T) {
	protected := gate.Requirement{RequireAuth: true}
	admin := session.Principal{ID: "1", Username: "admin", Staff: true}
	clerk := session.Principal{ID: "2", Username: "clerk"}

	tests := []struct {
		name string
		s    session.Session
		req  gate.Requirement
		want gate.Decision
	}{
		{"public view always renders", session.Session{Status: session.StatusAnonymous}, gate.Requirement{}, gate.Render},
		{"authenticating shows loading", session.Session{Status: session.StatusAuthenticating}, protected, gate.ShowLoading},
		{"authenticated renders", session.Session{Status: session.StatusAuthenticated, Principal: &clerk}, protected, gate.Render},
		{"anonymous redirects", session.Session{Status: session.StatusAnonymous}, protected, gate.RedirectToLogin},
		{"failed redirects", session.Session{Status: session.StatusFailed, Err: errors.ErrInvalidCredentials}, protected, gate.RedirectToLogin},
		{"admin-only renders for staff", session.Session{Status: session.StatusAuthenticated, Principal: &admin}, gate.Requirement{RequireAuth: true, AdminOnly: true}, gate.Render},
		{"admin-only redirects for non-staff", session.Session{Status: session.StatusAuthenticated, Principal: &clerk}, gate.Requirement{RequireAuth: true, AdminOnly: true}, gate.RedirectToLogin},
		{"authenticated without principal never renders", session.Session{Status: session.StatusAuthenticated}, protected, gate.RedirectToLogin},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, gate.Decide(tc.s, tc.req))
		})
	}
}

func TestGate_FreshSnapshot(t *testing.T) {
	t.Run("decision follows every store transition", func(t *testing.T) {
		store := session.NewStore()
		g := gate.New(store)
		protected := gate.Requirement{RequireAuth: true}

		require.Equal(t, gate.ShowLoading, g.Decide(protected))

		require.NoError(t, store.SetAuthenticated(store.NextRequest(), session.Principal{ID: "1"}))
		require.Equal(t, gate.Render, g.Decide(protected))

		store.Clear()
		require.Equal(t, gate.RedirectToLogin, g.Decide(protected))
	})
}
