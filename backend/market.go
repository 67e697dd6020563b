package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	m "coinboard/internal/model"
)

// Cryptos fetches the full market listing. Public endpoint, no token
// required.
func (c *Client) Cryptos(ctx context.Context) ([]m.Asset, error) {
	c.lg.Debug().Msg("Starting Cryptos")

	var assets []m.Asset
	if err := c.send(ctx, http.MethodGet, "/cryptos", nil, &assets); err != nil {
		return nil, fmt.Errorf("error fetching market listing %w", err)
	}
	return assets, nil
}

// History fetches the fixed-retention raw price series of one asset.
// Points come back unordered and possibly malformed; normalization is
// the caller's job.
func (c *Client) History(ctx context.Context, externalId string) ([]m.RawPoint, error) {
	c.lg.Debug().Str("externalId", externalId).Msg("Starting History")

	var points []m.RawPoint
	path := fmt.Sprintf("/crypto/%s/history?vs=usd", url.PathEscape(externalId))
	if err := c.send(ctx, http.MethodGet, path, nil, &points); err != nil {
		return nil, fmt.Errorf("error fetching history of %s %w", externalId, err)
	}
	return points, nil
}
