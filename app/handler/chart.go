package handler

import (
	"fmt"

	m "coinboard/internal/model"

	"github.com/gofiber/fiber/v2"
)

type ChartHandler struct {
	cc ChartController
}

func NewChartHandler(cc ChartController) *ChartHandler {
	return &ChartHandler{cc: cc}
}

func (h *ChartHandler) InitRoute(app *fiber.App) {

	router := app.Group("/charts")
	router.Get("/", h.Chart)
	router.Post("/asset/:id", h.SetAsset)
	router.Post("/interval", h.SetInterval)
	router.Post("/compare", h.SetCompare)
	router.Delete("/compare", h.DisableCompare)
}

func (h *ChartHandler) Chart(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(h.chartResponse())
}

// SetAsset switches the details chart to another asset. The response
// reflects the state after the fetch settles.
func (h *ChartHandler) SetAsset(c *fiber.Ctx) error {

	if err := h.cc.Chart().SetAsset(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return h.Chart(c)
}

func (h *ChartHandler) SetInterval(c *fiber.Ctx) error {

	var param IntervalReq
	if err := c.BodyParser(&param); err != nil {
		return fmt.Errorf("error parsing interval request. %w", err)
	}
	if err := validCheck(&param); err != nil {
		return fmt.Errorf("error validating interval request. %w", err)
	}

	h.cc.SetChartInterval(param.Interval)
	return h.Chart(c)
}

// SetCompare drives the comparison sub-machine. An empty externalId
// returns to the selector, a first call with the mode off enables it.
func (h *ChartHandler) SetCompare(c *fiber.Ctx) error {

	var param CompareReq
	if err := c.BodyParser(&param); err != nil {
		return fmt.Errorf("error parsing compare request. %w", err)
	}

	chart := h.cc.Chart()
	chart.EnableCompare()
	if err := chart.SetCompare(c.UserContext(), param.ExternalId); err != nil {
		return err
	}
	return h.Chart(c)
}

func (h *ChartHandler) DisableCompare(c *fiber.Ctx) error {
	h.cc.Chart().DisableCompare()
	return h.Chart(c)
}

func (h *ChartHandler) chartResponse() chartResponse {

	chart := h.cc.Chart()

	resp := chartResponse{
		ExternalId:    chart.AssetId(),
		State:         string(chart.State()),
		Series:        toPointResponses(chart.Series()),
		Domain:        domainResponse(chart.Domain()),
		Interval:      chart.Interval().Value,
		CompareId:     chart.CompareId(),
		CompareState:  string(chart.CompareState()),
		CompareSeries: toPointResponses(chart.CompareSeries()),
	}
	if err := chart.Err(); err != nil {
		resp.Error = err.Error()
	}
	if err := chart.CompareErr(); err != nil {
		resp.CompareError = err.Error()
	}
	return resp
}

func toPointResponses(series []m.HistoryPoint) []pointResponse {
	out := make([]pointResponse, 0, len(series))
	for _, p := range series {
		out = append(out, pointResponse{Ts: p.Ts, Price: p.Price})
	}
	return out
}
