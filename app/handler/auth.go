package handler

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	auth Authenticator
}

func NewAuthHandler(auth Authenticator) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func (h *AuthHandler) InitRoute(app *fiber.App) {

	router := app.Group("/auth")
	router.Post("/login", h.Login)
	router.Post("/register", h.Register)
	router.Post("/logout", h.Logout)
	router.Get("/profile", h.Profile)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {

	var param LoginReq
	if err := c.BodyParser(&param); err != nil {
		return fmt.Errorf("error parsing login request. %w", err)
	}
	if err := validCheck(&param); err != nil {
		return fmt.Errorf("error validating login request. %w", err)
	}

	if err := h.auth.Login(c.UserContext(), param.Username, param.Password); err != nil {
		return err
	}
	return h.Profile(c)
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {

	var param RegisterReq
	if err := c.BodyParser(&param); err != nil {
		return fmt.Errorf("error parsing register request. %w", err)
	}
	if err := validCheck(&param); err != nil {
		return fmt.Errorf("error validating register request. %w", err)
	}

	if err := h.auth.Register(c.UserContext(), param.Username, param.Email, param.Password); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusCreated)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.auth.Logout()
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AuthHandler) Profile(c *fiber.Ctx) error {

	profile := h.auth.Profile()
	return c.Status(fiber.StatusOK).JSON(profileResponse{
		Username:      profile.Username,
		Roles:         profile.Roles,
		Admin:         h.auth.IsAdmin(),
		Authenticated: h.auth.Authenticated(),
	})
}
