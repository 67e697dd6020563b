package handler

import (
	"context"
	"fmt"
	"time"

	"coinboard"
	m "coinboard/internal/model"

	"github.com/kr/pretty"
)

/***************************** Dashboard ***********************************/

type PageViewerMock struct {
	page    coinboard.PageView
	view    coinboard.ViewState
	loading bool
	loadErr error
	sortErr error
	filtErr error
}

func (mock *PageViewerMock) Page() coinboard.PageView {
	fmt.Println("Page Called")
	pretty.Println(mock.page)
	return mock.page
}

func (mock *PageViewerMock) View() coinboard.ViewState {
	return mock.view
}

func (mock *PageViewerMock) SortBy(key string) error {
	fmt.Println("SortBy Called", key)
	if mock.sortErr != nil {
		return mock.sortErr
	}
	k, ok := coinboard.ToSortKey(key)
	if !ok {
		return fmt.Errorf("unknown sort key %s", key)
	}
	mock.view.CycleSort(k)
	return nil
}

func (mock *PageViewerMock) GoToPage(page int) {
	fmt.Println("GoToPage Called", page)
	mock.view.GoToPage(page)
}

func (mock *PageViewerMock) SetFavoritesOnly(on bool) error {
	fmt.Println("SetFavoritesOnly Called", on)
	if mock.filtErr != nil {
		return mock.filtErr
	}
	mock.view.SetFavoritesOnly(on)
	return nil
}

func (mock *PageViewerMock) Loading() bool { return mock.loading }

func (mock *PageViewerMock) LoadError() error { return mock.loadErr }

func (mock *PageViewerMock) LastUpdate() time.Time { return time.Time{} }

/***************************** Favorites ***********************************/

type FavoriteManagerMock struct {
	favorites map[string]bool
	charts    []coinboard.FavoriteChart
	err       error
}

func (mock *FavoriteManagerMock) IsFavorite(externalId string) bool {
	return mock.favorites[externalId]
}

func (mock *FavoriteManagerMock) ToggleFavorite(ctx context.Context, externalId string) (bool, error) {
	fmt.Println("ToggleFavorite Called", externalId)

	if mock.err != nil {
		return false, mock.err
	}
	if mock.favorites == nil {
		mock.favorites = make(map[string]bool)
	}
	mock.favorites[externalId] = !mock.favorites[externalId]
	return mock.favorites[externalId], nil
}

func (mock *FavoriteManagerMock) RemoveFavorite(ctx context.Context, externalId string) error {
	fmt.Println("RemoveFavorite Called", externalId)

	if mock.err != nil {
		return mock.err
	}
	delete(mock.favorites, externalId)
	return nil
}

func (mock *FavoriteManagerMock) FavoriteCharts(ctx context.Context) []coinboard.FavoriteChart {
	fmt.Println("FavoriteCharts Called")
	return mock.charts
}

/***************************** Trader ***********************************/

type TraderMock struct {
	balance  float64
	holdings []m.Holding
	err      error
}

func (mock *TraderMock) Buy(ctx context.Context, externalId string, qty int) error {
	fmt.Println("Buy Called", externalId, qty)
	return mock.err
}

func (mock *TraderMock) Sell(ctx context.Context, externalId string, qty int) error {
	fmt.Println("Sell Called", externalId, qty)
	return mock.err
}

func (mock *TraderMock) Balance() float64 { return mock.balance }

func (mock *TraderMock) Holdings() []m.Holding { return mock.holdings }

func (mock *TraderMock) AddFunds(ctx context.Context, rawAmount string) error {
	fmt.Println("AddFunds Called", rawAmount)

	if mock.err != nil {
		return mock.err
	}
	amount, err := coinboard.ParseAmount(rawAmount)
	if err != nil {
		return err
	}
	mock.balance += amount
	return nil
}

/***************************** Alerts ***********************************/

type AlertManagerMock struct {
	active map[string]bool
	err    error
}

func (mock *AlertManagerMock) CreateAlert(ctx context.Context, externalId string, high, low *float64) error {
	fmt.Println("CreateAlert Called", externalId)

	if mock.err != nil {
		return mock.err
	}
	if mock.active == nil {
		mock.active = make(map[string]bool)
	}
	mock.active[externalId] = true
	return nil
}

func (mock *AlertManagerMock) DeleteAlert(ctx context.Context, externalId string) error {
	fmt.Println("DeleteAlert Called", externalId)

	if mock.err != nil {
		return mock.err
	}
	delete(mock.active, externalId)
	return nil
}

func (mock *AlertManagerMock) HasAlert(externalId string) bool {
	return mock.active[externalId]
}

/***************************** Admin ***********************************/

type AdminManagerMock struct {
	users []m.AdminUser
	err   error
}

func (mock *AdminManagerMock) AdminUsers(ctx context.Context, query string) ([]m.AdminUser, error) {
	fmt.Println("AdminUsers Called", query)
	pretty.Println(mock.users)

	if mock.err != nil {
		return nil, mock.err
	}
	if query == "" {
		return mock.users, nil
	}

	out := make([]m.AdminUser, 0, len(mock.users))
	for _, u := range mock.users {
		if u.Username == query {
			out = append(out, u)
		}
	}
	return out, nil
}

func (mock *AdminManagerMock) ToggleUserRole(ctx context.Context, username string) error {
	fmt.Println("ToggleUserRole Called", username)

	if mock.err != nil {
		return mock.err
	}
	for i := range mock.users {
		if mock.users[i].Username != username {
			continue
		}
		if mock.users[i].IsAdmin() {
			mock.users[i].Roles = []string{"ROLE_USER"}
		} else {
			mock.users[i].Roles = []string{"ROLE_USER", m.AdminRole}
		}
	}
	return nil
}

func (mock *AdminManagerMock) AdjustUserFunds(ctx context.Context, username, rawAmount string, remove bool) error {
	fmt.Println("AdjustUserFunds Called", username, rawAmount, remove)

	if mock.err != nil {
		return mock.err
	}
	amount, err := coinboard.ParseAmount(rawAmount)
	if err != nil {
		return err
	}
	if remove {
		amount = -amount
	}
	for i := range mock.users {
		if mock.users[i].Username == username {
			mock.users[i].Balance += amount
		}
	}
	return nil
}

/***************************** Chart ***********************************/

type ChartControllerMock struct {
	chart *coinboard.ChartView
}

func (mock *ChartControllerMock) Chart() *coinboard.ChartView { return mock.chart }

func (mock *ChartControllerMock) SetChartInterval(value string) {
	fmt.Println("SetChartInterval Called", value)
	mock.chart.SetInterval(value)
}

/***************************** Auth ***********************************/

type AuthenticatorMock struct {
	profile m.Profile
	authed  bool
	err     error
}

func (mock *AuthenticatorMock) Login(ctx context.Context, username, password string) error {
	fmt.Println("Login Called", username)

	if mock.err != nil {
		return mock.err
	}
	mock.authed = true
	mock.profile = m.Profile{Username: username, Roles: []string{"ROLE_USER"}}
	return nil
}

func (mock *AuthenticatorMock) Register(ctx context.Context, username, email, password string) error {
	fmt.Println("Register Called", username)
	return mock.err
}

func (mock *AuthenticatorMock) Logout() {
	fmt.Println("Logout Called")
	mock.authed = false
	mock.profile = m.Profile{}
}

func (mock *AuthenticatorMock) Authenticated() bool { return mock.authed }

func (mock *AuthenticatorMock) Profile() m.Profile { return mock.profile }

func (mock *AuthenticatorMock) IsAdmin() bool { return mock.profile.IsAdmin() }
