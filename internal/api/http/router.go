package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/auth-service/internal/api/http/handlers"
	"github.com/spec-kit/auth-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health *handlers.HealthHandler
	Auth   *handlers.AuthHandler
	Users  *handlers.UsersHandler
	Gate   *auth.Gate
}

// RegisterRoutes wires HTTP routes. The authentication gate runs on every
// route; it only attaches identity, so public endpoints are unaffected and
// protected ones layer an authorization guard on top.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api/v1", cfg.Gate.Handle)

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/authenticate", cfg.Auth.Authenticate)
	authGroup.Post("/refresh-token", cfg.Auth.RefreshToken)

	users := api.Group("/users", auth.RequireAuthenticated())
	users.Get("/me", cfg.Users.Me)
}
