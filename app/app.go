package app

import (
	"fmt"

	"coinboard"
	"coinboard/app/handler"
	"coinboard/app/middleware"

	"github.com/gofiber/fiber/v2"
)

// Run serves the session engine over HTTP for the local UI. Every
// handler depends on the session through its own consumer interface.
func Run(port int, session *coinboard.Session) error {

	app := fiber.New()

	middleware.SetupMiddleware(app)

	handler.NewAuthHandler(session).InitRoute(app)
	handler.NewDashboardHandler(session, session).InitRoute(app)
	handler.NewAccountHandler(session, session, session).InitRoute(app)
	handler.NewChartHandler(session).InitRoute(app)
	handler.NewAdminHandler(session).InitRoute(app)

	return app.Listen(fmt.Sprintf(":%d", port))
}
