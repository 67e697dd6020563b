package handler

import (
	"context"
	"time"

	"coinboard"
	m "coinboard/internal/model"
)

type PageViewer interface {
	Page() coinboard.PageView
	View() coinboard.ViewState
	SortBy(key string) error
	GoToPage(page int)
	SetFavoritesOnly(on bool) error
	Loading() bool
	LoadError() error
	LastUpdate() time.Time
}

type FavoriteManager interface {
	IsFavorite(externalId string) bool
	ToggleFavorite(ctx context.Context, externalId string) (bool, error)
	RemoveFavorite(ctx context.Context, externalId string) error
	FavoriteCharts(ctx context.Context) []coinboard.FavoriteChart
}

type Trader interface {
	Buy(ctx context.Context, externalId string, qty int) error
	Sell(ctx context.Context, externalId string, qty int) error
	Balance() float64
	Holdings() []m.Holding
	AddFunds(ctx context.Context, rawAmount string) error
}

type AlertManager interface {
	CreateAlert(ctx context.Context, externalId string, high, low *float64) error
	DeleteAlert(ctx context.Context, externalId string) error
	HasAlert(externalId string) bool
}

type ChartController interface {
	Chart() *coinboard.ChartView
	SetChartInterval(value string)
}

type AdminManager interface {
	AdminUsers(ctx context.Context, query string) ([]m.AdminUser, error)
	ToggleUserRole(ctx context.Context, username string) error
	AdjustUserFunds(ctx context.Context, username, rawAmount string, remove bool) error
}

type Authenticator interface {
	Login(ctx context.Context, username, password string) error
	Register(ctx context.Context, username, email, password string) error
	Logout()
	Authenticated() bool
	Profile() m.Profile
	IsAdmin() bool
}
