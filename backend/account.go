package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	m "coinboard/internal/model"
)

// TradeResult is the server-confirmed outcome of a buy or sell. The
// balance it carries is authoritative and replaces the local one.
type TradeResult struct {
	Balance float64 `json:"balance"`
}

func (c *Client) Favorites(ctx context.Context) ([]string, error) {
	var ids []string
	if err := c.send(ctx, http.MethodGet, "/me/favorites", nil, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func (c *Client) AddFavorite(ctx context.Context, externalId string) error {
	return c.send(ctx, http.MethodPost, "/me/favorites/"+url.PathEscape(externalId), nil, nil)
}

func (c *Client) RemoveFavorite(ctx context.Context, externalId string) error {
	return c.send(ctx, http.MethodDelete, "/me/favorites/"+url.PathEscape(externalId), nil, nil)
}

func (c *Client) Balance(ctx context.Context) (float64, error) {
	var resp struct {
		Balance float64 `json:"balance"`
	}
	if err := c.send(ctx, http.MethodGet, "/me/balance", nil, &resp); err != nil {
		return 0, err
	}
	return resp.Balance, nil
}

func (c *Client) AddFunds(ctx context.Context, amount float64) (float64, error) {
	body := map[string]float64{"amount": amount}

	var resp struct {
		Balance float64 `json:"balance"`
	}
	if err := c.send(ctx, http.MethodPost, "/me/balance/add", body, &resp); err != nil {
		return 0, err
	}
	return resp.Balance, nil
}

func (c *Client) Holdings(ctx context.Context) ([]m.Holding, error) {
	var holdings []m.Holding
	if err := c.send(ctx, http.MethodGet, "/me/holdings", nil, &holdings); err != nil {
		return nil, err
	}
	return holdings, nil
}

func (c *Client) Buy(ctx context.Context, externalId string, qty int) (*TradeResult, error) {
	return c.trade(ctx, "buy", externalId, qty)
}

func (c *Client) Sell(ctx context.Context, externalId string, qty int) (*TradeResult, error) {
	return c.trade(ctx, "sell", externalId, qty)
}

func (c *Client) trade(ctx context.Context, side, externalId string, qty int) (*TradeResult, error) {
	c.lg.Info().Str("side", side).Str("externalId", externalId).Int("qty", qty).Msg("Starting trade")

	body := map[string]int{"qty": qty}
	path := fmt.Sprintf("/me/trade/%s/%s", side, url.PathEscape(externalId))

	var result TradeResult
	if err := c.send(ctx, http.MethodPost, path, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Alerts(ctx context.Context) ([]m.Alert, error) {
	var alerts []m.Alert
	if err := c.send(ctx, http.MethodGet, "/me/alerts", nil, &alerts); err != nil {
		return nil, err
	}
	return alerts, nil
}

func (c *Client) CreateAlert(ctx context.Context, alert m.Alert) error {
	return c.send(ctx, http.MethodPost, "/me/alerts", alert, nil)
}

// DeleteAlert treats both 200 and 204 as success.
func (c *Client) DeleteAlert(ctx context.Context, externalId string) error {
	return c.send(ctx, http.MethodDelete, "/me/alerts/"+url.PathEscape(externalId), nil, nil)
}
