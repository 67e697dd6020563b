package handler

import (
	"fmt"

	m "coinboard/internal/model"

	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	am AdminManager
}

func NewAdminHandler(am AdminManager) *AdminHandler {
	return &AdminHandler{am: am}
}

func (h *AdminHandler) InitRoute(app *fiber.App) {

	router := app.Group("/admin")
	router.Get("/users", h.Users)
	router.Post("/role/:username", h.ToggleRole)
	router.Post("/funds/:username", h.AdjustFunds)
}

// Users returns the account listing, filtered by the optional "q"
// search query.
func (h *AdminHandler) Users(c *fiber.Ctx) error {

	users, err := h.am.AdminUsers(c.UserContext(), c.Query("q"))
	if err != nil {
		return err
	}

	resp := make([]adminUserResponse, 0, len(users))
	for _, user := range users {
		resp = append(resp, toAdminUserResponse(user))
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

func (h *AdminHandler) ToggleRole(c *fiber.Ctx) error {

	if err := h.am.ToggleUserRole(c.UserContext(), c.Params("username")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AdminHandler) AdjustFunds(c *fiber.Ctx) error {

	var param AdminFundsReq
	if err := c.BodyParser(&param); err != nil {
		return fmt.Errorf("error parsing admin funds request. %w", err)
	}
	if err := validCheck(&param); err != nil {
		return fmt.Errorf("error validating admin funds request. %w", err)
	}

	remove := param.Mode == "remove"
	if err := h.am.AdjustUserFunds(c.UserContext(), c.Params("username"), param.Amount, remove); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func toAdminUserResponse(user m.AdminUser) adminUserResponse {
	return adminUserResponse{
		Id:       user.Id,
		Username: user.Username,
		Email:    user.Email,
		Balance:  user.Balance,
		Roles:    user.Roles,
		Enabled:  user.Enabled,
		Admin:    user.IsAdmin(),
	}
}
