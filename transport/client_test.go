package transport_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/Kihomy-Mariel/agrocoop-console/internal/errors"
	"github.com/Kihomy-Mariel/agrocoop-console/transport"
)

func TestNew(t *testing.T) {
	t.Run("rejects a relative base URL", func(t *testing.T) {
		_, err := transport.New("/api", transport.ModeCookie)
		require.Error(t, err)
	})

	t.Run("trims the trailing slash", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/ping", r.URL.Path)
			w.Write([]byte(`{}`))
		}))
		defer srv.Close()

		c, err := transport.New(srv.URL+"/", transport.ModeNone)
		require.NoError(t, err)
		require.NoError(t, c.Get(context.Background(), "/ping", nil))
	})
}

func TestClient_ErrorMapping(t *testing.T) {
	ctx := context.Background()

	newServer := func(status int) *httptest.Server {
		return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))
	}

	t.Run("401 maps to unauthorized", func(t *testing.T) {
		srv := newServer(http.StatusUnauthorized)
		defer srv.Close()
		c, err := transport.New(srv.URL, transport.ModeNone)
		require.NoError(t, err)
		require.ErrorIs(t, c.Get(ctx, "/x", nil), errors.ErrUnauthorized)
	})

	t.Run("403 maps to unauthorized", func(t *testing.T) {
		srv := newServer(http.StatusForbidden)
		defer srv.Close()
		c, err := transport.New(srv.URL, transport.ModeNone)
		require.NoError(t, err)
		require.ErrorIs(t, c.Get(ctx, "/x", nil), errors.ErrUnauthorized)
	})

	t.Run("500 maps to unexpected status", func(t *testing.T) {
		srv := newServer(http.StatusInternalServerError)
		defer srv.Close()
		c, err := transport.New(srv.URL, transport.ModeNone)
		require.NoError(t, err)
		require.ErrorIs(t, c.Get(ctx, "/x", nil), errors.ErrUnexpectedStatus)
	})

	t.Run("connection failure maps to unavailable", func(t *testing.T) {
		srv := newServer(http.StatusOK)
		srv.Close()
		c, err := transport.New(srv.URL, transport.ModeNone)
		require.NoError(t, err)
		require.ErrorIs(t, c.Get(ctx, "/x", nil), errors.ErrUnavailable)
	})
}

func TestClient_CookieMode(t *testing.T) {
	ctx := context.Background()

	t.Run("session cookie set by the server rides along on later requests", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/auth/login":
				http.SetCookie(w, &http.Cookie{Name: "sessionid", Value: "abc", Path: "/"})
				w.Write([]byte(`{}`))
			default:
				cookie, err := r.Cookie("sessionid")
				if err != nil || cookie.Value != "abc" {
					w.WriteHeader(http.StatusUnauthorized)
					return
				}
				w.Write([]byte(`{}`))
			}
		}))
		defer srv.Close()

		c, err := transport.New(srv.URL, transport.ModeCookie)
		require.NoError(t, err)

		require.NoError(t, c.Post(ctx, "/auth/login", nil, nil))
		require.NoError(t, c.Get(ctx, "/usuarios", nil))
	})
}

func TestClient_TokenMode(t *testing.T) {
	ctx := context.Background()

	t.Run("bearer header carries the configured token", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
			w.Write([]byte(`{}`))
		}))
		defer srv.Close()

		c, err := transport.New(srv.URL, transport.ModeToken, transport.WithToken("tok-1"))
		require.NoError(t, err)
		require.NoError(t, c.Get(ctx, "/x", nil))
	})

	t.Run("no header without a token", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Empty(t, r.Header.Get("Authorization"))
			w.Write([]byte(`{}`))
		}))
		defer srv.Close()

		c, err := transport.New(srv.URL, transport.ModeToken)
		require.NoError(t, err)
		require.NoError(t, c.Get(ctx, "/x", nil))
	})
}

func TestClient_TokenExpiry(t *testing.T) {
	t.Run("reads the exp claim from a JWT token", func(t *testing.T) {
		exp := time.Now().Add(time.Hour).Truncate(time.Second)
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": "7",
			"exp": exp.Unix(),
		}).SignedString([]byte("test-key"))
		require.NoError(t, err)

		c, err := transport.New("http://localhost", transport.ModeToken, transport.WithToken(signed))
		require.NoError(t, err)

		got, ok := c.TokenExpiry()
		require.True(t, ok)
		require.Equal(t, exp.Unix(), got.Unix())
	})

	t.Run("opaque tokens report no expiry", func(t *testing.T) {
		c, err := transport.New("http://localhost", transport.ModeToken, transport.WithToken("opaque"))
		require.NoError(t, err)

		_, ok := c.TokenExpiry()
		require.False(t, ok)
	})
}
