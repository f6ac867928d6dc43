package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/akozlov/accounts/api/http/handlers"
)

// Register wires all HTTP routes onto given Fiber app. Protected routes go
// through the auth middleware, so the token is validated before any database
// access.
func Register(app *fiber.App, auth *handlers.AuthHandler, users *handlers.UserHandler, health *handlers.HealthHandler, authMW fiber.Handler) {
	// Health and readiness endpoints for probes/monitoring
	app.Get("/health", health.Health)
	app.Get("/ready", health.Ready)

	app.Post("/register", auth.Register)
	app.Post("/login", auth.Login)

	app.Get("/get/:id", authMW, users.Get)
	app.Get("/search", authMW, users.Search)
}
