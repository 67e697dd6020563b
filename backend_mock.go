package coinboard

import (
	"context"
	"errors"
	"slices"
	"sync"

	"coinboard/backend"
	m "coinboard/internal/model"
)

// BackendMock is a hand-written stand-in for *backend.Client. Every
// call is recorded so tests can assert that an action reached the
// server — or, for blocked preconditions, that it never did.
type BackendMock struct {
	mu    sync.Mutex
	calls []string

	assets    []m.Asset
	assetsErr error

	history    map[string][]m.RawPoint
	historyErr error

	favorites []string
	favErr    error

	balance    float64
	fundsErr   error
	holdings   []m.Holding
	holdErr    error
	tradeBal   float64
	tradeErr   error

	alerts   []m.Alert
	alertErr error

	users    []m.AdminUser
	adminErr error

	loginResult *backend.LoginResult
	loginErr    error

	token string
}

func NewBackendMock() *BackendMock {
	return &BackendMock{history: make(map[string][]m.RawPoint)}
}

func (b *BackendMock) record(call string) {
	b.mu.Lock()
	b.calls = append(b.calls, call)
	b.mu.Unlock()
}

func (b *BackendMock) Calls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.calls)
}

func (b *BackendMock) CallCount(call string) int {
	n := 0
	for _, c := range b.Calls() {
		if c == call {
			n++
		}
	}
	return n
}

/***************************** market ***********************************/

func (b *BackendMock) Cryptos(ctx context.Context) ([]m.Asset, error) {
	b.record("Cryptos")
	if b.assetsErr != nil {
		return nil, b.assetsErr
	}
	return slices.Clone(b.assets), nil
}

func (b *BackendMock) History(ctx context.Context, externalId string) ([]m.RawPoint, error) {
	b.record("History " + externalId)
	if b.historyErr != nil {
		return nil, b.historyErr
	}
	return b.history[externalId], nil
}

/***************************** favorites ***********************************/

func (b *BackendMock) Favorites(ctx context.Context) ([]string, error) {
	b.record("Favorites")
	if b.favErr != nil {
		return nil, b.favErr
	}
	return slices.Clone(b.favorites), nil
}

func (b *BackendMock) AddFavorite(ctx context.Context, externalId string) error {
	b.record("AddFavorite " + externalId)
	return b.favErr
}

func (b *BackendMock) RemoveFavorite(ctx context.Context, externalId string) error {
	b.record("RemoveFavorite " + externalId)
	return b.favErr
}

/***************************** ledger ***********************************/

func (b *BackendMock) Balance(ctx context.Context) (float64, error) {
	b.record("Balance")
	return b.balance, b.fundsErr
}

func (b *BackendMock) AddFunds(ctx context.Context, amount float64) (float64, error) {
	b.record("AddFunds")
	if b.fundsErr != nil {
		return 0, b.fundsErr
	}
	return b.balance + amount, nil
}

func (b *BackendMock) Holdings(ctx context.Context) ([]m.Holding, error) {
	b.record("Holdings")
	if b.holdErr != nil {
		return nil, b.holdErr
	}
	return slices.Clone(b.holdings), nil
}

func (b *BackendMock) Buy(ctx context.Context, externalId string, qty int) (*backend.TradeResult, error) {
	b.record("Buy " + externalId)
	if b.tradeErr != nil {
		return nil, b.tradeErr
	}
	return &backend.TradeResult{Balance: b.tradeBal}, nil
}

func (b *BackendMock) Sell(ctx context.Context, externalId string, qty int) (*backend.TradeResult, error) {
	b.record("Sell " + externalId)
	if b.tradeErr != nil {
		return nil, b.tradeErr
	}
	return &backend.TradeResult{Balance: b.tradeBal}, nil
}

/***************************** alerts ***********************************/

func (b *BackendMock) Alerts(ctx context.Context) ([]m.Alert, error) {
	b.record("Alerts")
	if b.alertErr != nil {
		return nil, b.alertErr
	}
	return slices.Clone(b.alerts), nil
}

func (b *BackendMock) CreateAlert(ctx context.Context, alert m.Alert) error {
	b.record("CreateAlert " + alert.ExternalId)
	return b.alertErr
}

func (b *BackendMock) DeleteAlert(ctx context.Context, externalId string) error {
	b.record("DeleteAlert " + externalId)
	return b.alertErr
}

/***************************** admin ***********************************/

func (b *BackendMock) Users(ctx context.Context) ([]m.AdminUser, error) {
	b.record("Users")
	if b.adminErr != nil {
		return nil, b.adminErr
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.users), nil
}

func (b *BackendMock) Promote(ctx context.Context, username string) error {
	b.record("Promote " + username)
	if b.adminErr != nil {
		return b.adminErr
	}
	b.setRoles(username, []string{"ROLE_USER", m.AdminRole})
	return nil
}

func (b *BackendMock) Demote(ctx context.Context, username string) error {
	b.record("Demote " + username)
	if b.adminErr != nil {
		return b.adminErr
	}
	b.setRoles(username, []string{"ROLE_USER"})
	return nil
}

func (b *BackendMock) AdjustFunds(ctx context.Context, username string, delta float64) (*m.AdminUser, error) {
	b.record("AdjustFunds " + username)
	if b.adminErr != nil {
		return nil, b.adminErr
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.users {
		if b.users[i].Username == username {
			b.users[i].Balance += delta
			user := b.users[i]
			return &user, nil
		}
	}
	return nil, errors.New("User not found")
}

func (b *BackendMock) setRoles(username string, roles []string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.users {
		if b.users[i].Username == username {
			b.users[i].Roles = roles
		}
	}
}

/***************************** auth ***********************************/

func (b *BackendMock) Login(ctx context.Context, username, password string) (*backend.LoginResult, error) {
	b.record("Login " + username)
	if b.loginErr != nil {
		return nil, b.loginErr
	}
	if b.loginResult != nil {
		return b.loginResult, nil
	}
	return &backend.LoginResult{Token: "mock-token", Username: username}, nil
}

func (b *BackendMock) Register(ctx context.Context, username, email, password string) error {
	b.record("Register " + username)
	return b.loginErr
}

func (b *BackendMock) SetToken(token string) {
	b.mu.Lock()
	b.token = token
	b.mu.Unlock()
}

func (b *BackendMock) ClearToken() {
	b.SetToken("")
}

func (b *BackendMock) Token() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.token
}
