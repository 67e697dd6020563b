package coinboard

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"testing"

	"coinboard/backend"
	m "coinboard/internal/model"

	"github.com/stretchr/testify/assert"
)

func loginResult(token, username string, roles ...string) *backend.LoginResult {
	return &backend.LoginResult{Token: token, Username: username, Roles: roles}
}

// memCreds is an in-memory credentialStore.
type memCreds struct {
	token   string
	profile *m.Profile
}

func (c *memCreds) Load() (string, *m.Profile, error) { return c.token, c.profile, nil }

func (c *memCreds) Save(token string, profile m.Profile) error {
	c.token = token
	c.profile = &profile
	return nil
}

func (c *memCreds) Clear() error {
	c.token = ""
	c.profile = nil
	return nil
}

func newTestSession(mock *BackendMock) *Session {
	return NewSession(SessionConfig{Backend: mock})
}

func TestAnonymousSessionNeverCallsUserEndpoints(t *testing.T) {

	mock := NewBackendMock()
	s := newTestSession(mock)
	ctx := context.Background()

	assert.False(t, s.Authenticated())

	// refresh resets the stores without network traffic
	assert.NoError(t, s.Refresh(ctx))
	assert.Empty(t, mock.Calls())

	_, err := s.ToggleFavorite(ctx, "bitcoin")
	assert.EqualError(t, err, "login required")
	assert.EqualError(t, s.Buy(ctx, "bitcoin", 1), "login required")
	assert.EqualError(t, s.Sell(ctx, "bitcoin", 1), "login required")
	assert.EqualError(t, s.AddFunds(ctx, "100"), "login required")
	assert.EqualError(t, s.CreateAlert(ctx, "bitcoin", ptr(1), nil), "login required")
	assert.EqualError(t, s.DeleteAlert(ctx, "bitcoin"), "login required")
	assert.EqualError(t, s.SetFavoritesOnly(true), "login required")

	assert.Empty(t, mock.Calls())
}

func TestLoginLoadsUserStores(t *testing.T) {

	mock := NewBackendMock()
	mock.loginResult = loginResult("tok", "alice", "ROLE_USER", "ROLE_ADMIN")
	mock.favorites = []string{"bitcoin"}
	mock.balance = 1000
	s := newTestSession(mock)

	assert.NoError(t, s.Login(context.Background(), "alice", "secret"))

	assert.True(t, s.Authenticated())
	assert.True(t, s.IsAdmin())
	assert.Equal(t, "alice", s.Profile().Username)
	assert.Equal(t, "tok", mock.Token())

	assert.True(t, s.Favorites().Has("bitcoin"))
	assert.Equal(t, 1000.0, s.Balance())
	assert.Equal(t, 1, mock.CallCount("Favorites"))
	assert.Equal(t, 1, mock.CallCount("Alerts"))
	assert.Equal(t, 1, mock.CallCount("Balance"))
}

func TestLoginRecoversRolesFromTokenClaims(t *testing.T) {

	tok := unsignedToken(t, map[string]any{
		"sub":   "alice",
		"roles": []any{"ROLE_USER", "ROLE_ADMIN"},
	})

	mock := NewBackendMock()
	mock.loginResult = loginResult(tok, "")
	s := newTestSession(mock)

	assert.NoError(t, s.Login(context.Background(), "alice", "secret"))
	assert.Equal(t, "alice", s.Profile().Username)
	assert.True(t, s.IsAdmin())
}

func TestLogoutClearsEverything(t *testing.T) {

	creds := &memCreds{}
	mock := NewBackendMock()
	mock.loginResult = loginResult("tok", "alice", "ROLE_USER")
	mock.favorites = []string{"bitcoin"}
	mock.balance = 500
	s := NewSession(SessionConfig{Backend: mock, Credentials: creds})
	ctx := context.Background()

	assert.NoError(t, s.Login(ctx, "alice", "secret"))
	assert.NoError(t, s.SetFavoritesOnly(true))
	assert.Equal(t, "tok", creds.token)

	s.Logout()

	assert.False(t, s.Authenticated())
	assert.Empty(t, s.Profile().Username)
	assert.False(t, s.View().FavoritesOnly)
	assert.Equal(t, 0, s.Favorites().Count())
	assert.Equal(t, 0.0, s.Balance())
	assert.False(t, s.HasAlert("bitcoin"))
	assert.Empty(t, mock.Token())
	assert.Empty(t, creds.token)
}

func TestSessionRestoresPersistedCredentials(t *testing.T) {

	creds := &memCreds{
		token:   "persisted-tok",
		profile: &m.Profile{Username: "alice", Roles: []string{"ROLE_USER"}},
	}
	mock := NewBackendMock()
	s := NewSession(SessionConfig{Backend: mock, Credentials: creds})

	assert.True(t, s.Authenticated())
	assert.Equal(t, "alice", s.Profile().Username)
	assert.Equal(t, "persisted-tok", mock.Token())
}

func TestBuyRequiresKnownAsset(t *testing.T) {

	mock := NewBackendMock()
	mock.loginResult = loginResult("tok", "alice", "ROLE_USER")
	mock.balance = 1000
	s := newTestSession(mock)
	ctx := context.Background()

	assert.NoError(t, s.Login(ctx, "alice", "secret"))

	// no snapshot yet, nothing to price the order against
	err := s.Buy(ctx, "bitcoin", 1)
	assert.True(t, IsValidation(err))
	assert.EqualError(t, err, "unknown asset")

	mock.assets = []m.Asset{{ExternalId: "bitcoin", CurrentPrice: 100}}
	s.poller.poll(ctx)

	mock.tradeBal = 900
	assert.NoError(t, s.Buy(ctx, "bitcoin", 1))
	assert.Equal(t, 900.0, s.Balance())
}

func TestPageForcesFavoritesOffWhenLoggedOut(t *testing.T) {

	mock := NewBackendMock()
	mock.loginResult = loginResult("tok", "alice", "ROLE_USER")
	mock.assets = []m.Asset{
		{ExternalId: "bitcoin", MarketCapRank: 1},
		{ExternalId: "ethereum", MarketCapRank: 2},
	}
	mock.favorites = []string{"ethereum"}
	s := newTestSession(mock)
	ctx := context.Background()
	s.poller.poll(ctx)

	assert.NoError(t, s.Login(ctx, "alice", "secret"))
	assert.NoError(t, s.SetFavoritesOnly(true))
	page := s.Page()
	assert.Equal(t, []string{"ethereum"}, ids(page.Assets))

	s.Logout()
	page = s.Page()
	assert.Equal(t, 2, page.Filtered)
	assert.False(t, s.View().FavoritesOnly)
}

func TestSortByUnknownKey(t *testing.T) {

	s := newTestSession(NewBackendMock())
	assert.NoError(t, s.SortBy("name"))
	assert.Equal(t, SortByName, s.View().Key)

	err := s.SortBy("volume")
	assert.True(t, IsValidation(err))
}

func TestFavoriteChartsLazyLoadAndFailureCache(t *testing.T) {

	mock := NewBackendMock()
	mock.loginResult = loginResult("tok", "alice", "ROLE_USER")
	mock.assets = []m.Asset{{ExternalId: "bitcoin", Name: "Bitcoin", MarketCapRank: 1}}
	mock.favorites = []string{"bitcoin"}
	mock.historyErr = assert.AnError
	s := newTestSession(mock)
	ctx := context.Background()
	s.poller.poll(ctx)

	assert.NoError(t, s.Login(ctx, "alice", "secret"))

	charts := s.FavoriteCharts(ctx)
	assert.Len(t, charts, 1)
	assert.Empty(t, charts[0].Series)
	assert.True(t, charts[0].Domain.Auto)
	assert.Equal(t, 1, mock.CallCount("History bitcoin"))

	// the failure is cached, recomputes do not hammer the backend
	s.FavoriteCharts(ctx)
	assert.Equal(t, 1, mock.CallCount("History bitcoin"))

	// unfavorite drops the cached series, refavorite refetches
	_, err := s.ToggleFavorite(ctx, "bitcoin")
	assert.NoError(t, err)
	_, err = s.ToggleFavorite(ctx, "bitcoin")
	assert.NoError(t, err)

	mock.historyErr = nil
	now := s.LastUpdate()
	mock.history["bitcoin"] = []m.RawPoint{rawPoint(now.UnixMilli(), 50000)}

	charts = s.FavoriteCharts(ctx)
	assert.Len(t, charts, 1)
	assert.Len(t, charts[0].Series, 1)
	assert.Equal(t, 2, mock.CallCount("History bitcoin"))
}

func unsignedToken(t *testing.T, claims map[string]any) string {
	t.Helper()

	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	payload, err := json.Marshal(claims)
	if err != nil {
		t.Fatal(err)
	}
	return header + "." + base64.RawURLEncoding.EncodeToString(payload) + ".sig"
}
