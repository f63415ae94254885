package directory_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Kihomy-Mariel/agrocoop-console/directory"
	"github.com/Kihomy-Mariel/agrocoop-console/internal/errors"
	"github.com/Kihomy-Mariel/agrocoop-console/transport"
)

func newDirectoryClient(t *testing.T, srv *httptest.Server) *directory.Client {
	t.Helper()
	api, err := transport.New(srv.URL, transport.ModeCookie)
	require.NoError(t, err)
	return directory.NewClient(api)
}

func TestClient_List(t *testing.T) {
	ctx := context.Background()

	t.Run("decodes the paginated user list", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/usuarios", r.URL.Path)
			json.NewEncoder(w).Encode(map[string]any{
				"results": []map[string]any{
					{
						"id": 1, "usuario": "admin", "nombres": "Administrador",
						"apellidos": "Sistema", "email": "admin@cooperativa.com",
						"is_staff": true, "estado": "ACTIVO", "sesion_activa": true,
						"ultimo_login": "2024-01-15T10:30:00Z",
					},
					{
						"id": 2, "usuario": "jperez", "nombres": "Juan",
						"apellidos": "Perez", "estado": "INACTIVO",
					},
				},
			})
		}))
		defer srv.Close()

		users, err := newDirectoryClient(t, srv).List(ctx)
		require.NoError(t, err)
		require.Len(t, users, 2)

		require.Equal(t, "1", users[0].ID)
		require.Equal(t, "admin", users[0].Username)
		require.Equal(t, "Administrador Sistema", users[0].FullName())
		require.True(t, users[0].Staff)
		require.True(t, users[0].Active())
		require.True(t, users[0].LoggedIn)
		require.NotNil(t, users[0].LastLogin)

		require.Equal(t, "2", users[1].ID)
		require.False(t, users[1].Active())
		require.Nil(t, users[1].LastLogin)
	})

	t.Run("surfaces unauthorized", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer srv.Close()

		_, err := newDirectoryClient(t, srv).List(ctx)
		require.ErrorIs(t, err, errors.ErrUnauthorized)
	})
}

func TestClient_Mutations(t *testing.T) {
	ctx := context.Background()

	t.Run("force logout posts to the user's endpoint", func(t *testing.T) {
		var path string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path = r.URL.Path
			require.Equal(t, http.MethodPost, r.Method)
			w.Write([]byte(`{}`))
		}))
		defer srv.Close()

		require.NoError(t, newDirectoryClient(t, srv).ForceLogout(ctx, "2"))
		require.Equal(t, "/usuarios/2/forzar-logout", path)
	})

	t.Run("set status posts the action", func(t *testing.T) {
		var body map[string]string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/usuarios/2/estado", r.URL.Path)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			w.Write([]byte(`{}`))
		}))
		defer srv.Close()

		client := newDirectoryClient(t, srv)
		require.NoError(t, client.SetStatus(ctx, "2", false))
		require.Equal(t, "desactivar", body["accion"])

		require.NoError(t, client.SetStatus(ctx, "2", true))
		require.Equal(t, "activar", body["accion"])
	})
}
