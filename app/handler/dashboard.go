package handler

import (
	"fmt"

	m "coinboard/internal/model"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	pv PageViewer
	fm FavoriteManager
}

func NewDashboardHandler(pv PageViewer, fm FavoriteManager) *DashboardHandler {
	return &DashboardHandler{
		pv: pv,
		fm: fm,
	}
}

func (h *DashboardHandler) InitRoute(app *fiber.App) {

	router := app.Group("/dashboard")
	router.Get("/", h.Dashboard)
	router.Post("/sort", h.Sort)
	router.Post("/page", h.Page)
	router.Post("/filter", h.Filter)
}

func (h *DashboardHandler) Dashboard(c *fiber.Ctx) error {

	page := h.pv.Page()
	view := h.pv.View()

	resp := dashboardResponse{
		Assets:        make([]assetResponse, 0, len(page.Assets)),
		Page:          page.Page,
		TotalPages:    page.TotalPages,
		Filtered:      page.Filtered,
		SortKey:       string(view.Key),
		SortDirection: string(view.Direction),
		FavoritesOnly: view.FavoritesOnly,
		Loading:       h.pv.Loading(),
	}
	if err := h.pv.LoadError(); err != nil {
		resp.Error = err.Error()
	}
	if last := h.pv.LastUpdate(); !last.IsZero() {
		resp.LastUpdate = last.UnixMilli()
	}
	for _, a := range page.Assets {
		resp.Assets = append(resp.Assets, toAssetResponse(a, h.fm.IsFavorite(a.ExternalId)))
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

func (h *DashboardHandler) Sort(c *fiber.Ctx) error {

	var param SortReq
	if err := c.BodyParser(&param); err != nil {
		return fmt.Errorf("error parsing sort request. %w", err)
	}
	if err := validCheck(&param); err != nil {
		return fmt.Errorf("error validating sort request. %w", err)
	}

	if err := h.pv.SortBy(param.Key); err != nil {
		return err
	}
	return h.Dashboard(c)
}

func (h *DashboardHandler) Page(c *fiber.Ctx) error {

	var param PageReq
	if err := c.BodyParser(&param); err != nil {
		return fmt.Errorf("error parsing page request. %w", err)
	}
	if err := validCheck(&param); err != nil {
		return fmt.Errorf("error validating page request. %w", err)
	}

	h.pv.GoToPage(param.Page)
	return h.Dashboard(c)
}

func (h *DashboardHandler) Filter(c *fiber.Ctx) error {

	var param FilterReq
	if err := c.BodyParser(&param); err != nil {
		return fmt.Errorf("error parsing filter request. %w", err)
	}

	if err := h.pv.SetFavoritesOnly(param.FavoritesOnly); err != nil {
		return err
	}
	return h.Dashboard(c)
}

func toAssetResponse(a m.Asset, favorite bool) assetResponse {
	return assetResponse{
		ExternalId:    a.ExternalId,
		Name:          a.Name,
		Symbol:        a.Symbol,
		CurrentPrice:  a.CurrentPrice,
		MarketCap:     a.MarketCap,
		MarketCapRank: a.MarketCapRank,
		ImageUrl:      a.ImageUrl,
		Favorite:      favorite,
	}
}
