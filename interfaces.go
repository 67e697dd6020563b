package coinboard

import (
	"context"

	"coinboard/backend"
	m "coinboard/internal/model"
)

type marketAPI interface {
	Cryptos(ctx context.Context) ([]m.Asset, error)
}

type historyAPI interface {
	History(ctx context.Context, externalId string) ([]m.RawPoint, error)
}

type favoritesAPI interface {
	Favorites(ctx context.Context) ([]string, error)
	AddFavorite(ctx context.Context, externalId string) error
	RemoveFavorite(ctx context.Context, externalId string) error
}

type ledgerAPI interface {
	Balance(ctx context.Context) (float64, error)
	AddFunds(ctx context.Context, amount float64) (float64, error)
	Holdings(ctx context.Context) ([]m.Holding, error)
	Buy(ctx context.Context, externalId string, qty int) (*backend.TradeResult, error)
	Sell(ctx context.Context, externalId string, qty int) (*backend.TradeResult, error)
}

type alertAPI interface {
	Alerts(ctx context.Context) ([]m.Alert, error)
	CreateAlert(ctx context.Context, alert m.Alert) error
	DeleteAlert(ctx context.Context, externalId string) error
}

type adminAPI interface {
	Users(ctx context.Context) ([]m.AdminUser, error)
	Promote(ctx context.Context, username string) error
	Demote(ctx context.Context, username string) error
	AdjustFunds(ctx context.Context, username string, delta float64) (*m.AdminUser, error)
}

type authAPI interface {
	Login(ctx context.Context, username, password string) (*backend.LoginResult, error)
	Register(ctx context.Context, username, email, password string) error
	SetToken(token string)
	ClearToken()
}

// Backend is everything the session needs from the REST client.
// *backend.Client satisfies it.
type Backend interface {
	marketAPI
	historyAPI
	favoritesAPI
	ledgerAPI
	alertAPI
	adminAPI
	authAPI
}

// credentialStore persists the bearer token and minimal profile across
// restarts. Favorites, balance, holdings and alerts are deliberately
// not persisted; the server is their single source of truth.
type credentialStore interface {
	Load() (token string, profile *m.Profile, err error)
	Save(token string, profile m.Profile) error
	Clear() error
}
