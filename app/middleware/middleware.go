package middleware

import (
	"errors"

	"coinboard"
	"coinboard/backend"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/rs/zerolog/log"
)

func SetupMiddleware(router fiber.Router) {

	router.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:5173",
		AllowHeaders:     "Origin, Content-Type, Accept",
		AllowMethods:     "*",
		AllowCredentials: true,
	}))
	router.Use(errorHandle)
	router.Use(logRequest)

}

// errorHandle maps engine errors onto status codes: client-side
// validation failures are 400, backend rejections keep the backend's
// status, everything else is 500.
func errorHandle(c *fiber.Ctx) error {

	err := c.Next()
	if err == nil {
		return nil
	}

	log.Error().Err(err).Str("endpoint", c.Path()).Msg("Error in middleware")

	var ve validator.ValidationErrors
	if coinboard.IsValidation(err) || errors.Is(err, coinboard.ErrToggleInFlight) || errors.As(err, &ve) {
		return c.Status(fiber.StatusBadRequest).JSON(map[string]string{"message": err.Error()})
	}

	var se *backend.StatusError
	if errors.As(err, &se) {
		return c.Status(se.Code).JSON(map[string]string{"message": se.Message})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(map[string]string{"message": err.Error()})
}

func logRequest(c *fiber.Ctx) error {
	log.Info().Str("endpoint", c.Path()).Msg("Request endpoint")
	log.Debug().Str("body", string(c.Body())).Msg("Request body")
	return c.Next()
}
