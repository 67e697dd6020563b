package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	m "coinboard/internal/model"
)

// Users lists every account. Admin-only endpoint; the server rejects
// callers without the admin role.
func (c *Client) Users(ctx context.Context) ([]m.AdminUser, error) {
	c.lg.Debug().Msg("Starting Users")

	var users []m.AdminUser
	if err := c.send(ctx, http.MethodGet, "/admin/users", nil, &users); err != nil {
		return nil, fmt.Errorf("error fetching user listing %w", err)
	}
	return users, nil
}

func (c *Client) Promote(ctx context.Context, username string) error {
	c.lg.Info().Str("username", username).Msg("Starting Promote")

	return c.send(ctx, http.MethodPost, "/admin/promote/"+url.PathEscape(username), nil, nil)
}

func (c *Client) Demote(ctx context.Context, username string) error {
	c.lg.Info().Str("username", username).Msg("Starting Demote")

	return c.send(ctx, http.MethodPost, "/admin/demote/"+url.PathEscape(username), nil, nil)
}

// AdjustFunds credits (positive delta) or debits (negative delta) a
// user's balance and returns the updated row.
func (c *Client) AdjustFunds(ctx context.Context, username string, delta float64) (*m.AdminUser, error) {
	c.lg.Info().Str("username", username).Float64("delta", delta).Msg("Starting AdjustFunds")

	body := map[string]float64{"delta": delta}

	var user m.AdminUser
	path := "/admin/funds/" + url.PathEscape(username)
	if err := c.send(ctx, http.MethodPatch, path, body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
