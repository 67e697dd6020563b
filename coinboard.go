package coinboard

import (
	"context"
	"os"
	"sync"
	"time"

	m "coinboard/internal/model"
	"coinboard/internal/session"

	"github.com/rs/zerolog"
)

// Session is the per-user state engine behind the UI. It owns the
// snapshot poller, the favorites set, the portfolio ledger, the alert
// book and the chart views, and enforces the auth boundary: without a
// token no /me/* call ever leaves the process.
type Session struct {
	api   Backend
	creds credentialStore
	lg    zerolog.Logger

	poller    *SnapshotPoller
	favorites *FavoriteSet
	ledger    *Ledger
	alerts    *AlertBook
	admin     *AdminDesk
	chart     *ChartView

	pollInterval time.Duration

	mu        sync.Mutex
	view      ViewState
	token     string
	profile   m.Profile
	interval  Interval
	histories map[string][]m.HistoryPoint
}

type SessionConfig struct {
	Backend      Backend
	Credentials  credentialStore
	PollInterval time.Duration
}

func NewSession(conf SessionConfig) *Session {
	if conf.PollInterval <= 0 {
		conf.PollInterval = 10 * time.Second
	}

	s := &Session{
		api:          conf.Backend,
		creds:        conf.Credentials,
		pollInterval: conf.PollInterval,
		view:         NewViewState(),
		interval:     IntervalByValue("7d"),
		histories:    make(map[string][]m.HistoryPoint),
		lg:           zerolog.New(os.Stdout).With().Str("Module", "Session").Timestamp().Logger(),
	}
	s.poller = NewSnapshotPoller(conf.Backend)
	s.favorites = NewFavoriteSet(conf.Backend)
	s.ledger = NewLedger(conf.Backend)
	s.alerts = NewAlertBook(conf.Backend)
	s.admin = NewAdminDesk(conf.Backend)
	s.chart = NewChartView(conf.Backend)

	s.restore()
	return s
}

// restore rehydrates the persisted token and profile, if any. The user
// stores themselves are not persisted; Refresh fills them from the
// server.
func (s *Session) restore() {
	if s.creds == nil {
		return
	}

	token, profile, err := s.creds.Load()
	if err != nil {
		s.lg.Warn().Err(err).Msg("Could not restore credentials")
		return
	}
	if token == "" {
		return
	}

	s.token = token
	if profile != nil {
		s.profile = *profile
	}
	s.api.SetToken(token)
}

// Start begins snapshot polling at the configured interval. Stop with
// Close.
func (s *Session) Start() {
	s.poller.Start(s.pollInterval)
}

// Close stops background polling so nothing writes into a disposed
// session.
func (s *Session) Close() {
	s.poller.Stop()
}

func (s *Session) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token != ""
}

func (s *Session) Profile() m.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile
}

func (s *Session) IsAdmin() bool {
	return s.Profile().IsAdmin()
}

// Login exchanges credentials for a token, persists it, and loads the
// user-scoped stores. Roles missing from the response are recovered
// from the token claims.
func (s *Session) Login(ctx context.Context, username, password string) error {
	res, err := s.api.Login(ctx, username, password)
	if err != nil {
		return err
	}

	profile := m.Profile{Username: res.Username, Roles: res.Roles}
	if len(profile.Roles) == 0 {
		if claims := session.ProfileFromToken(res.Token); claims != nil {
			profile.Roles = claims.Roles
			if profile.Username == "" {
				profile.Username = claims.Username
			}
		}
	}

	s.mu.Lock()
	s.token = res.Token
	s.profile = profile
	s.mu.Unlock()
	s.api.SetToken(res.Token)

	if s.creds != nil {
		if err := s.creds.Save(res.Token, profile); err != nil {
			s.lg.Warn().Err(err).Msg("Could not persist credentials")
		}
	}

	return s.Refresh(ctx)
}

func (s *Session) Register(ctx context.Context, username, email, password string) error {
	return s.api.Register(ctx, username, email, password)
}

// Logout clears the token and every user store in one mutex section,
// forces the favorites filter off and wipes the persisted credentials.
// No reader holding the session lock can see a logged-out session with
// user data still in it.
func (s *Session) Logout() {
	s.mu.Lock()
	s.token = ""
	s.profile = m.Profile{}
	s.view.SetFavoritesOnly(false)
	s.histories = make(map[string][]m.HistoryPoint)
	s.api.ClearToken()
	s.favorites.Clear()
	s.ledger.Clear()
	s.alerts.Clear()
	s.admin.Clear()
	s.mu.Unlock()

	if s.creds != nil {
		if err := s.creds.Clear(); err != nil {
			s.lg.Warn().Err(err).Msg("Could not clear persisted credentials")
		}
	}
}

// Refresh reloads favorites, ledger and alerts from the server. For an
// unauthenticated session every store is reset to its empty default
// without a single network call.
func (s *Session) Refresh(ctx context.Context) error {
	authed := s.Authenticated()

	if err := s.favorites.Load(ctx, authed); err != nil {
		return err
	}
	if err := s.alerts.Load(ctx, authed); err != nil {
		return err
	}
	if !authed {
		s.ledger.Clear()
		return nil
	}
	return s.ledger.Load(ctx)
}

/***************************** dashboard ***********************************/

// Page recomputes the visible listing page. A logged-out session has
// the favorites filter forced off.
func (s *Session) Page() PageView {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token == "" && s.view.FavoritesOnly {
		s.view.SetFavoritesOnly(false)
	}

	var isFavorite func(string) bool
	if s.token != "" {
		isFavorite = s.favorites.Has
	}
	return ComputePage(s.poller.Snapshot(), &s.view, isFavorite)
}

func (s *Session) View() ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

func (s *Session) SortBy(key string) error {
	k, ok := ToSortKey(key)
	if !ok {
		return validationErr("unknown sort key")
	}

	s.mu.Lock()
	s.view.CycleSort(k)
	s.mu.Unlock()
	return nil
}

func (s *Session) GoToPage(page int) {
	s.mu.Lock()
	s.view.GoToPage(page)
	s.mu.Unlock()
}

func (s *Session) SetFavoritesOnly(on bool) error {
	if on && !s.Authenticated() {
		return validationErr("login required")
	}

	s.mu.Lock()
	s.view.SetFavoritesOnly(on)
	s.mu.Unlock()
	return nil
}

func (s *Session) Loading() bool {
	return s.poller.Loading()
}

func (s *Session) LoadError() error {
	return s.poller.Err()
}

func (s *Session) LastUpdate() time.Time {
	return s.poller.LastUpdate()
}

func (s *Session) Snapshot() *m.Snapshot {
	return s.poller.Snapshot()
}

/***************************** user actions ***********************************/

func (s *Session) requireAuth() error {
	if !s.Authenticated() {
		return validationErr("login required")
	}
	return nil
}

func (s *Session) ToggleFavorite(ctx context.Context, externalId string) (added bool, err error) {
	if err := s.requireAuth(); err != nil {
		return false, err
	}

	added, err = s.favorites.Toggle(ctx, externalId)
	if err == nil && !added {
		s.dropHistory(externalId)
	}
	return added, err
}

// RemoveFavorite also drops the cached chart series of the asset.
func (s *Session) RemoveFavorite(ctx context.Context, externalId string) error {
	if err := s.requireAuth(); err != nil {
		return err
	}
	if err := s.favorites.Remove(ctx, externalId); err != nil {
		return err
	}
	s.dropHistory(externalId)
	return nil
}

func (s *Session) Favorites() *FavoriteSet {
	return s.favorites
}

func (s *Session) IsFavorite(externalId string) bool {
	return s.Authenticated() && s.favorites.Has(externalId)
}

func (s *Session) Balance() float64 {
	return s.ledger.Balance()
}

func (s *Session) Holdings() []m.Holding {
	return s.ledger.Holdings()
}

func (s *Session) Buy(ctx context.Context, externalId string, qty int) error {
	if err := s.requireAuth(); err != nil {
		return err
	}

	asset, ok := s.assetById(externalId)
	if !ok {
		return validationErr("unknown asset")
	}
	return s.ledger.Buy(ctx, asset, qty)
}

func (s *Session) Sell(ctx context.Context, externalId string, qty int) error {
	if err := s.requireAuth(); err != nil {
		return err
	}

	asset, ok := s.assetById(externalId)
	if !ok {
		return validationErr("unknown asset")
	}
	return s.ledger.Sell(ctx, asset, qty)
}

func (s *Session) AddFunds(ctx context.Context, rawAmount string) error {
	if err := s.requireAuth(); err != nil {
		return err
	}
	return s.ledger.AddFunds(ctx, rawAmount)
}

func (s *Session) CreateAlert(ctx context.Context, externalId string, high, low *float64) error {
	if err := s.requireAuth(); err != nil {
		return err
	}
	return s.alerts.Create(ctx, externalId, high, low)
}

func (s *Session) DeleteAlert(ctx context.Context, externalId string) error {
	if err := s.requireAuth(); err != nil {
		return err
	}
	return s.alerts.Delete(ctx, externalId)
}

func (s *Session) HasAlert(externalId string) bool {
	return s.alerts.Has(externalId)
}

/***************************** admin ***********************************/

func (s *Session) requireAdmin() error {
	if err := s.requireAuth(); err != nil {
		return err
	}
	if !s.IsAdmin() {
		return validationErr("admin role required")
	}
	return nil
}

// AdminUsers reloads the account listing from the server and returns it
// filtered by the search query.
func (s *Session) AdminUsers(ctx context.Context, query string) ([]m.AdminUser, error) {
	if err := s.requireAdmin(); err != nil {
		return nil, err
	}
	if err := s.admin.Load(ctx); err != nil {
		return nil, err
	}
	return s.admin.Users(query), nil
}

// ToggleUserRole flips a user between plain user and admin. Admins
// cannot change their own role; the server enforces the same rule.
func (s *Session) ToggleUserRole(ctx context.Context, username string) error {
	if err := s.requireAdmin(); err != nil {
		return err
	}
	if username == s.Profile().Username {
		return validationErr("cannot change your own role")
	}
	return s.admin.ToggleRole(ctx, username)
}

// AdjustUserFunds credits or debits another user's balance.
func (s *Session) AdjustUserFunds(ctx context.Context, username, rawAmount string, remove bool) error {
	if err := s.requireAdmin(); err != nil {
		return err
	}
	return s.admin.AdjustFunds(ctx, username, rawAmount, remove)
}

/***************************** charts ***********************************/

func (s *Session) Chart() *ChartView {
	return s.chart
}

func (s *Session) SetChartInterval(value string) {
	s.mu.Lock()
	s.interval = IntervalByValue(value)
	s.mu.Unlock()
	s.chart.SetInterval(value)
}

// FavoriteChart is one favorites-page card: the asset, its windowed
// series, the padded chart domain, the owned quantity and whether an
// alert exists.
type FavoriteChart struct {
	Asset    m.Asset
	Series   []m.HistoryPoint
	Domain   YDomain
	Owned    float64
	HasAlert bool
}

// FavoriteCharts builds the favorites page. Series are fetched lazily,
// one per favorite without a cached series; a failed fetch caches an
// empty series so it is not retried on every recompute.
func (s *Session) FavoriteCharts(ctx context.Context) []FavoriteChart {
	known := s.favorites.Known(s.poller.Snapshot())

	s.loadMissingHistories(ctx, known)

	s.mu.Lock()
	interval := s.interval
	now := time.Now()
	charts := make([]FavoriteChart, 0, len(known))
	for _, asset := range known {
		series := WindowFilter(s.histories[asset.ExternalId], interval.Window, now)
		charts = append(charts, FavoriteChart{
			Asset:  asset,
			Series: series,
			Domain: ComputeYDomain(series),
		})
	}
	s.mu.Unlock()

	for i := range charts {
		charts[i].Owned = s.ledger.Owned(charts[i].Asset.ExternalId)
		charts[i].HasAlert = s.alerts.Has(charts[i].Asset.ExternalId)
	}
	return charts
}

func (s *Session) loadMissingHistories(ctx context.Context, known []m.Asset) {
	for _, asset := range known {
		s.mu.Lock()
		_, cached := s.histories[asset.ExternalId]
		s.mu.Unlock()
		if cached {
			continue
		}

		series := []m.HistoryPoint{}
		if raw, err := s.api.History(ctx, asset.ExternalId); err == nil {
			series = NormalizeSeries(raw)
		} else {
			s.lg.Warn().Err(err).Str("externalId", asset.ExternalId).Msg("History fetch failed")
		}

		s.mu.Lock()
		s.histories[asset.ExternalId] = series
		s.mu.Unlock()
	}
}

func (s *Session) dropHistory(externalId string) {
	s.mu.Lock()
	delete(s.histories, externalId)
	s.mu.Unlock()
}

func (s *Session) assetById(externalId string) (m.Asset, bool) {
	snap := s.poller.Snapshot()
	if snap == nil {
		return m.Asset{}, false
	}
	for _, a := range snap.Assets {
		if a.ExternalId == externalId {
			return a, true
		}
	}
	return m.Asset{}, false
}
