package directory

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Kihomy-Mariel/agrocoop-console/internal/errors"
	"github.com/Kihomy-Mariel/agrocoop-console/transport"
)

// API is the mutation transport for user accounts. One call per entity and
// kind; the payload shape is owned by the remote API.
type API interface {
	List(ctx context.Context) ([]User, error)
	ForceLogout(ctx context.Context, userID string) error
	SetStatus(ctx context.Context, userID string, activate bool) error
}

var _ API = (*Client)(nil)

// Client implements API over the process-wide transport client, so mutations
// carry the same session credentials as every other call.
type Client struct {
	api *transport.Client
	log zerolog.Logger
}

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithClientLogger sets the logger for mutation diagnostics.
func WithClientLogger(log zerolog.Logger) ClientOption {
	return func(c *Client) { c.log = log }
}

// NewClient wraps the API client.
func NewClient(api *transport.Client, options ...ClientOption) *Client {
	c := &Client{api: api, log: zerolog.Nop()}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// List fetches the console user accounts.
func (c *Client) List(ctx context.Context) ([]User, error) {
	var payload listPayload
	if err := c.api.Get(ctx, "/usuarios", &payload); err != nil {
		return nil, errors.Wrapf(err, "[List]")
	}

	users := make([]User, 0, len(payload.Results))
	for _, p := range payload.Results {
		users = append(users, p.user())
	}
	return users, nil
}

// ForceLogout terminates the target user's server-side session.
func (c *Client) ForceLogout(ctx context.Context, userID string) error {
	path := fmt.Sprintf("/usuarios/%s/forzar-logout", userID)
	if err := c.api.Post(ctx, path, nil, nil); err != nil {
		return errors.Wrapf(err, "[ForceLogout] user %s", userID)
	}
	c.log.Info().Str("user_id", userID).Msg("forced logout")
	return nil
}

// SetStatus activates or deactivates the target account.
func (c *Client) SetStatus(ctx context.Context, userID string, activate bool) error {
	accion := "desactivar"
	if activate {
		accion = "activar"
	}
	path := fmt.Sprintf("/usuarios/%s/estado", userID)
	if err := c.api.Post(ctx, path, map[string]string{"accion": accion}, nil); err != nil {
		return errors.Wrapf(err, "[SetStatus] %s user %s", accion, userID)
	}
	c.log.Info().Str("user_id", userID).Str("accion", accion).Msg("status changed")
	return nil
}
