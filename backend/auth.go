package backend

import (
	"context"
	"errors"
	"net/http"
)

// LoginResult is the token grant returned by the backend. Roles may be
// empty; the session falls back to the token claims in that case.
type LoginResult struct {
	Token    string   `json:"token"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	c.lg.Info().Str("username", username).Msg("Starting Login")

	body := map[string]string{
		"username": username,
		"password": password,
	}

	var result LoginResult
	if err := c.send(ctx, http.MethodPost, "/auth/login", body, &result); err != nil {
		return nil, err
	}
	if result.Token == "" {
		return nil, errors.New("token missing in login response")
	}
	if result.Username == "" {
		result.Username = username
	}
	return &result, nil
}

func (c *Client) Register(ctx context.Context, username, email, password string) error {
	c.lg.Info().Str("username", username).Msg("Starting Register")

	body := map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}
	return c.send(ctx, http.MethodPost, "/auth/register", body, nil)
}
