package handler

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

type AccountHandler struct {
	fm FavoriteManager
	tr Trader
	am AlertManager
}

func NewAccountHandler(fm FavoriteManager, tr Trader, am AlertManager) *AccountHandler {
	return &AccountHandler{
		fm: fm,
		tr: tr,
		am: am,
	}
}

func (h *AccountHandler) InitRoute(app *fiber.App) {

	router := app.Group("/account")
	router.Get("/favorites", h.FavoriteCharts)
	router.Post("/favorites/:id", h.ToggleFavorite)
	router.Delete("/favorites/:id", h.RemoveFavorite)
	router.Get("/balance", h.Balance)
	router.Post("/balance", h.AddFunds)
	router.Get("/holdings", h.Holdings)
	router.Post("/trades", h.Trade)
	router.Post("/alerts", h.CreateAlert)
	router.Delete("/alerts/:id", h.DeleteAlert)
}

// FavoriteCharts returns one card per favorite: asset, windowed series,
// chart domain, owned quantity and alert flag.
func (h *AccountHandler) FavoriteCharts(c *fiber.Ctx) error {

	charts := h.fm.FavoriteCharts(c.UserContext())

	resp := make([]favoriteChartResponse, 0, len(charts))
	for _, chart := range charts {
		card := favoriteChartResponse{
			Asset:    toAssetResponse(chart.Asset, true),
			Series:   toPointResponses(chart.Series),
			Domain:   domainResponse(chart.Domain),
			Owned:    chart.Owned,
			HasAlert: chart.HasAlert,
		}
		resp = append(resp, card)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

func (h *AccountHandler) ToggleFavorite(c *fiber.Ctx) error {

	added, err := h.fm.ToggleFavorite(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(map[string]bool{"favorite": added})
}

func (h *AccountHandler) RemoveFavorite(c *fiber.Ctx) error {

	if err := h.fm.RemoveFavorite(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AccountHandler) Balance(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(balanceResponse{Balance: h.tr.Balance()})
}

func (h *AccountHandler) AddFunds(c *fiber.Ctx) error {

	var param AddFundsReq
	if err := c.BodyParser(&param); err != nil {
		return fmt.Errorf("error parsing add funds request. %w", err)
	}
	if err := validCheck(&param); err != nil {
		return fmt.Errorf("error validating add funds request. %w", err)
	}

	if err := h.tr.AddFunds(c.UserContext(), param.Amount); err != nil {
		return err
	}
	return h.Balance(c)
}

func (h *AccountHandler) Holdings(c *fiber.Ctx) error {

	holdings := h.tr.Holdings()
	resp := make([]holdingResponse, 0, len(holdings))
	for _, hold := range holdings {
		resp = append(resp, holdingResponse{ExternalId: hold.ExternalId, Quantity: hold.Quantity})
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

func (h *AccountHandler) Trade(c *fiber.Ctx) error {

	var param TradeReq
	if err := c.BodyParser(&param); err != nil {
		return fmt.Errorf("error parsing trade request. %w", err)
	}
	if err := validCheck(&param); err != nil {
		return fmt.Errorf("error validating trade request. %w", err)
	}

	var err error
	if param.Side == "buy" {
		err = h.tr.Buy(c.UserContext(), param.ExternalId, param.Qty)
	} else {
		err = h.tr.Sell(c.UserContext(), param.ExternalId, param.Qty)
	}
	if err != nil {
		return err
	}

	return h.Balance(c)
}

func (h *AccountHandler) CreateAlert(c *fiber.Ctx) error {

	var param AlertReq
	if err := c.BodyParser(&param); err != nil {
		return fmt.Errorf("error parsing alert request. %w", err)
	}
	if err := validCheck(&param); err != nil {
		return fmt.Errorf("error validating alert request. %w", err)
	}

	if err := h.am.CreateAlert(c.UserContext(), param.ExternalId, param.ThresholdHigh, param.ThresholdLow); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusCreated)
}

func (h *AccountHandler) DeleteAlert(c *fiber.Ctx) error {

	if err := h.am.DeleteAlert(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
