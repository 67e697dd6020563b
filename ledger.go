package coinboard

import (
	"context"
	"os"
	"slices"
	"strings"
	"sync"

	m "coinboard/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Ledger tracks the simulated portfolio: balance plus per-asset
// holdings. The server stays authoritative; the balance is only ever
// replaced with server-returned values, never incremented locally.
// The balance precheck before a buy is a latency optimization, the
// server may still reject on price movement.
type Ledger struct {
	api ledgerAPI
	lg  zerolog.Logger

	mu       sync.Mutex
	balance  float64
	holdings map[string]float64
}

func NewLedger(api ledgerAPI) *Ledger {
	return &Ledger{
		api:      api,
		holdings: make(map[string]float64),
		lg:       zerolog.New(os.Stdout).With().Str("Module", "Ledger").Timestamp().Logger(),
	}
}

// Load fetches balance and holdings. Unauthenticated sessions get a
// zeroed ledger without any network call.
func (l *Ledger) Load(ctx context.Context) error {
	balance, err := l.api.Balance(ctx)
	if err != nil {
		return err
	}

	holdings, err := l.api.Holdings(ctx)
	if err != nil {
		return err
	}

	l.mu.Lock()
	l.balance = balance
	l.holdings = holdingMap(holdings)
	l.mu.Unlock()
	return nil
}

func (l *Ledger) Balance() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balance
}

func (l *Ledger) Owned(externalId string) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.holdings[externalId]
}

// Holdings returns the owned positions ordered by asset id, so the
// listing renders the same way on every recompute.
func (l *Ledger) Holdings() []m.Holding {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]m.Holding, 0, len(l.holdings))
	for id, qty := range l.holdings {
		out = append(out, m.Holding{ExternalId: id, Quantity: qty})
	}
	slices.SortFunc(out, func(a, b m.Holding) int {
		return strings.Compare(a.ExternalId, b.ExternalId)
	})
	return out
}

// Buy purchases qty units at the current snapshot price. Preconditions
// are checked client side before any network call: a known positive
// price and a sufficient balance. On success the balance is replaced
// with the server's value and holdings are re-fetched wholesale to
// catch settlement side effects.
func (l *Ledger) Buy(ctx context.Context, asset m.Asset, qty int) error {
	if qty < 1 {
		return validationErr("quantity must be at least 1")
	}
	if asset.CurrentPrice <= 0 {
		return validationErr("price unavailable")
	}

	cost := decimal.NewFromFloat(asset.CurrentPrice).Mul(decimal.NewFromInt(int64(qty)))
	if decimal.NewFromFloat(l.Balance()).LessThan(cost) {
		return validationErr("insufficient balance")
	}

	result, err := l.api.Buy(ctx, asset.ExternalId, qty)
	if err != nil {
		return err
	}

	l.mu.Lock()
	l.balance = result.Balance
	l.mu.Unlock()

	l.refreshHoldings(ctx)
	return nil
}

// Sell works like Buy with an owned-quantity precondition.
func (l *Ledger) Sell(ctx context.Context, asset m.Asset, qty int) error {
	if qty < 1 {
		return validationErr("quantity must be at least 1")
	}
	if l.Owned(asset.ExternalId) < float64(qty) {
		return validationErr("insufficient quantity owned")
	}

	result, err := l.api.Sell(ctx, asset.ExternalId, qty)
	if err != nil {
		return err
	}

	l.mu.Lock()
	l.balance = result.Balance
	l.mu.Unlock()

	l.refreshHoldings(ctx)
	return nil
}

// AddFunds credits the account. The raw amount accepts a locale comma
// decimal separator and must parse as a positive number.
func (l *Ledger) AddFunds(ctx context.Context, raw string) error {
	amount, err := ParseAmount(raw)
	if err != nil {
		return err
	}

	balance, err := l.api.AddFunds(ctx, amount)
	if err != nil {
		return err
	}

	l.mu.Lock()
	l.balance = balance
	l.mu.Unlock()
	return nil
}

// ParseAmount parses a user-entered money amount, accepting "12,50" as
// well as "12.50".
func ParseAmount(raw string) (float64, error) {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, ",", "."))
	if raw == "" {
		return 0, validationErr("amount is required")
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, validationErr("amount must be a number")
	}
	if !d.IsPositive() {
		return 0, validationErr("amount must be positive")
	}
	return d.InexactFloat64(), nil
}

func (l *Ledger) Clear() {
	l.mu.Lock()
	l.balance = 0
	l.holdings = make(map[string]float64)
	l.mu.Unlock()
}

// refreshHoldings is best effort; a failed refresh keeps the previous
// holdings and the next load corrects them.
func (l *Ledger) refreshHoldings(ctx context.Context) {
	holdings, err := l.api.Holdings(ctx)
	if err != nil {
		l.lg.Warn().Err(err).Msg("Holdings refresh failed after trade")
		return
	}

	l.mu.Lock()
	l.holdings = holdingMap(holdings)
	l.mu.Unlock()
}

func holdingMap(holdings []m.Holding) map[string]float64 {
	byId := make(map[string]float64, len(holdings))
	for _, h := range holdings {
		if h.ExternalId == "" {
			continue
		}
		byId[h.ExternalId] = h.Quantity
	}
	return byId
}
