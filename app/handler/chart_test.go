package handler

import (
	"context"
	"testing"
	"time"

	"coinboard"
	"coinboard/app/middleware"
	m "coinboard/internal/model"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

type historyStub struct {
	series map[string][]m.RawPoint
	err    error
}

func (s *historyStub) History(ctx context.Context, externalId string) ([]m.RawPoint, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.series[externalId], nil
}

func point(ts int64, price float64) m.RawPoint {
	return m.RawPoint{Ts: &ts, Price: &price}
}

func TestChartHandler(t *testing.T) {

	app := fiber.New()
	middleware.SetupMiddleware(app)

	now := time.Now()
	history := &historyStub{series: map[string][]m.RawPoint{
		"bitcoin":  {point(now.Add(-time.Minute).UnixMilli(), 50000)},
		"ethereum": {point(now.Add(-time.Minute).UnixMilli(), 2000)},
	}}
	chartMock := &ChartControllerMock{chart: coinboard.NewChartView(history)}
	NewChartHandler(chartMock).InitRoute(app)

	t.Run("initial state is idle", func(t *testing.T) {
		var resp chartResponse
		code := sendRequest(t, app, "/charts/", "GET", nil, &resp)
		assert.Equal(t, fiber.StatusOK, code)
		assert.Equal(t, "idle", resp.State)
		assert.Equal(t, "off", resp.CompareState)
		assert.Equal(t, "7d", resp.Interval)
	})

	t.Run("select asset", func(t *testing.T) {
		var resp chartResponse
		code := sendRequest(t, app, "/charts/asset/bitcoin", "POST", nil, &resp)
		assert.Equal(t, fiber.StatusOK, code)
		assert.Equal(t, "ready", resp.State)
		assert.Equal(t, "bitcoin", resp.ExternalId)
		assert.Len(t, resp.Series, 1)
		assert.False(t, resp.Domain.Auto)
	})

	t.Run("interval change", func(t *testing.T) {
		var resp chartResponse
		code := sendRequest(t, app, "/charts/interval", "POST", IntervalReq{Interval: "1h"}, &resp)
		assert.Equal(t, fiber.StatusOK, code)
		assert.Equal(t, "1h", resp.Interval)
		assert.Len(t, resp.Series, 1)
	})

	t.Run("compare", func(t *testing.T) {
		var resp chartResponse
		code := sendRequest(t, app, "/charts/compare", "POST", CompareReq{ExternalId: "ethereum"}, &resp)
		assert.Equal(t, fiber.StatusOK, code)
		assert.Equal(t, "ready", resp.CompareState)
		assert.Equal(t, "ethereum", resp.CompareId)
		assert.Len(t, resp.CompareSeries, 1)
		// the primary side is untouched
		assert.Equal(t, "ready", resp.State)
	})

	t.Run("compare failure leaves primary alone", func(t *testing.T) {
		history.err = assert.AnError
		defer func() { history.err = nil }()

		var resp chartResponse
		code := sendRequest(t, app, "/charts/compare", "POST", CompareReq{ExternalId: "dogecoin"}, &resp)
		assert.Equal(t, fiber.StatusInternalServerError, code)

		sendRequest(t, app, "/charts/", "GET", nil, &resp)
		assert.Equal(t, "error", resp.CompareState)
		assert.Equal(t, "ready", resp.State)
	})

	t.Run("disable compare", func(t *testing.T) {
		var resp chartResponse
		code := sendRequest(t, app, "/charts/compare", "DELETE", nil, &resp)
		assert.Equal(t, fiber.StatusOK, code)
		assert.Equal(t, "off", resp.CompareState)
		assert.Empty(t, resp.CompareId)
	})

	t.Run("switching asset tears compare down", func(t *testing.T) {
		var resp chartResponse
		sendRequest(t, app, "/charts/compare", "POST", CompareReq{ExternalId: "ethereum"}, &resp)
		assert.Equal(t, "ready", resp.CompareState)

		sendRequest(t, app, "/charts/asset/ethereum", "POST", nil, &resp)
		assert.Equal(t, "ethereum", resp.ExternalId)
		assert.Equal(t, "off", resp.CompareState)
	})
}
