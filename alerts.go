package coinboard

import (
	"context"
	"math"
	"os"
	"sync"

	m "coinboard/internal/model"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// AlertBook mirrors which assets the user has a price alert on. The
// backend enforces at most one alert per (user, asset); the book only
// needs existence to enable or disable the delete control. Alert
// delivery itself is server side.
type AlertBook struct {
	api      alertAPI
	validate *validator.Validate
	lg       zerolog.Logger

	mu     sync.Mutex
	active map[string]bool
}

func NewAlertBook(api alertAPI) *AlertBook {
	return &AlertBook{
		api:      api,
		validate: validator.New(),
		active:   make(map[string]bool),
		lg:       zerolog.New(os.Stdout).With().Str("Module", "Alerts").Timestamp().Logger(),
	}
}

func (b *AlertBook) Load(ctx context.Context, authenticated bool) error {
	if !authenticated {
		b.Clear()
		return nil
	}

	alerts, err := b.api.Alerts(ctx)
	if err != nil {
		return err
	}

	active := make(map[string]bool, len(alerts))
	for _, a := range alerts {
		if a.ExternalId != "" {
			active[a.ExternalId] = true
		}
	}

	b.mu.Lock()
	b.active = active
	b.mu.Unlock()
	return nil
}

func (b *AlertBook) Has(externalId string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.active[externalId]
}

type thresholdPair struct {
	High *float64 `validate:"omitempty,gt=0"`
	Low  *float64 `validate:"omitempty,gt=0"`
}

// Create validates the thresholds client side and submits the alert.
// A validation failure blocks submission entirely; no request is sent.
func (b *AlertBook) Create(ctx context.Context, externalId string, high, low *float64) error {
	if err := b.checkThresholds(high, low); err != nil {
		return err
	}

	alert := m.Alert{
		ExternalId:    externalId,
		ThresholdHigh: high,
		ThresholdLow:  low,
	}
	if err := b.api.CreateAlert(ctx, alert); err != nil {
		return err
	}

	b.mu.Lock()
	b.active[externalId] = true
	b.mu.Unlock()
	return nil
}

func (b *AlertBook) checkThresholds(high, low *float64) error {
	if high == nil && low == nil {
		return validationErr("at least one threshold (high or low) is required")
	}
	for _, t := range []*float64{high, low} {
		if t != nil && (math.IsNaN(*t) || math.IsInf(*t, 0)) {
			return validationErr("threshold must be a finite number")
		}
	}

	if err := b.validate.Struct(thresholdPair{High: high, Low: low}); err != nil {
		for _, fe := range err.(validator.ValidationErrors) {
			if fe.Field() == "Low" {
				return validationErr("low threshold must be greater than 0")
			}
			return validationErr("high threshold must be greater than 0")
		}
	}

	if high != nil && low != nil && *low >= *high {
		return validationErr("low threshold must be below the high threshold")
	}
	return nil
}

// Delete is only issued when an alert exists; 200 and 204 both count
// as success.
func (b *AlertBook) Delete(ctx context.Context, externalId string) error {
	if !b.Has(externalId) {
		return validationErr("no alert to delete")
	}

	if err := b.api.DeleteAlert(ctx, externalId); err != nil {
		return err
	}

	b.mu.Lock()
	delete(b.active, externalId)
	b.mu.Unlock()
	return nil
}

func (b *AlertBook) Clear() {
	b.mu.Lock()
	b.active = make(map[string]bool)
	b.mu.Unlock()
}
