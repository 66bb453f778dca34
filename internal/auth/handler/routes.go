package handler

import (
	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(app *fiber.App, h *AuthHandler, health *HealthHandler) {
	api := app.Group("/api")

	api.Get("/health", health.Check)

	api.Post("/auth/register", h.Register)
	api.Post("/auth/login", h.Login)

	user := api.Group("/user", h.RequireAuth())
	user.Get("/profile", h.Profile)
}
