package directory_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Kihomy-Mariel/agrocoop-console/actions"
	"github.com/Kihomy-Mariel/agrocoop-console/directory"
)

func TestApply(t *testing.T) {
	active := directory.User{ID: "2", Username: "jperez", Status: directory.StatusActive, LoggedIn: true}

	t.Run("force logout drops the session flag only", func(t *testing.T) {
		got := directory.Apply(active, actions.KindForceLogout)
		require.False(t, got.LoggedIn)
		require.Equal(t, directory.StatusActive, got.Status)
	})

	t.Run("deactivate flips status and drops the session flag", func(t *testing.T) {
		got := directory.Apply(active, actions.KindDeactivate)
		require.Equal(t, directory.StatusInactive, got.Status)
		require.False(t, got.LoggedIn)
	})

	t.Run("activate flips status", func(t *testing.T) {
		inactive := directory.User{ID: "2", Status: directory.StatusInactive}
		got := directory.Apply(inactive, actions.KindActivate)
		require.Equal(t, directory.StatusActive, got.Status)
	})

	t.Run("input is not mutated", func(t *testing.T) {
		directory.Apply(active, actions.KindDeactivate)
		require.Equal(t, directory.StatusActive, active.Status)
		require.True(t, active.LoggedIn)
	})
}

func TestFilter(t *testing.T) {
	users := []directory.User{
		{ID: "1", Username: "admin", FirstName: "Administrador", LastName: "Sistema", Email: "admin@cooperativa.com"},
		{ID: "2", Username: "jperez", FirstName: "Juan", LastName: "Perez", Email: "jperez@cooperativa.com"},
		{ID: "3", Username: "mquispe", FirstName: "Maria", LastName: "Quispe", Email: "maria.q@cooperativa.com"},
	}

	t.Run("empty term returns everyone", func(t *testing.T) {
		require.Len(t, directory.Filter(users, "  "), 3)
	})

	t.Run("matches username", func(t *testing.T) {
		got := directory.Filter(users, "jperez")
		require.Len(t, got, 1)
		require.Equal(t, "2", got[0].ID)
	})

	t.Run("matches full name case-insensitive", func(t *testing.T) {
		got := directory.Filter(users, "maria quispe")
		require.Len(t, got, 1)
		require.Equal(t, "3", got[0].ID)
	})

	t.Run("matches email fragment", func(t *testing.T) {
		got := directory.Filter(users, "maria.q@")
		require.Len(t, got, 1)
		require.Equal(t, "3", got[0].ID)
	})

	t.Run("no match yields empty", func(t *testing.T) {
		require.Empty(t, directory.Filter(users, "nadie"))
	})
}
