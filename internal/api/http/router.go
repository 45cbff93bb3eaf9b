package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/specialist-marketplace/internal/api/http/handlers"
	"github.com/spec-kit/specialist-marketplace/internal/auth"
	"github.com/spec-kit/specialist-marketplace/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	PlatformFees   *handlers.PlatformFeeHandler
	Specialists    *handlers.SpecialistHandler
	Offerings      *handlers.OfferingHandler
	Users          *handlers.UserHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/refresh-token", cfg.Auth.Refresh)
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Post("/forget-password", cfg.Auth.ForgetPassword)
	authGroup.Post("/reset-password", cfg.Auth.ResetPassword)

	requireAdmin := []fiber.Handler{cfg.AuthMiddleware.Handle, auth.RequireRole(domain.UserRoleAdmin)}

	fees := api.Group("/platform-fees")
	fees.Get("/", cfg.PlatformFees.List)
	fees.Get("/:id", cfg.PlatformFees.Get)
	fees.Post("/", append(requireAdmin, cfg.PlatformFees.Create)...)
	fees.Patch("/:id", append(requireAdmin, cfg.PlatformFees.Update)...)
	fees.Delete("/:id", append(requireAdmin, cfg.PlatformFees.Delete)...)

	catalog := api.Group("/service-offerings-master-list")
	catalog.Get("/", cfg.Offerings.List)
	catalog.Get("/:id", cfg.Offerings.Get)
	catalog.Post("/", append(requireAdmin, cfg.Offerings.Create)...)
	catalog.Patch("/:id", append(requireAdmin, cfg.Offerings.Update)...)
	catalog.Delete("/:id", append(requireAdmin, cfg.Offerings.Delete)...)

	specialists := api.Group("/specialists")
	specialists.Get("/", cfg.Specialists.List)
	specialists.Get("/slug/:slug", cfg.Specialists.GetBySlug)
	specialists.Get("/:id", cfg.Specialists.Get)
	specialists.Post("/", append(requireAdmin, cfg.Specialists.Create)...)
	specialists.Patch("/:id", append(requireAdmin, cfg.Specialists.Update)...)
	specialists.Delete("/:id", append(requireAdmin, cfg.Specialists.Delete)...)
	specialists.Post("/:id/service-offerings", append(requireAdmin, cfg.Specialists.AddOfferings)...)
	specialists.Delete("/:id/service-offerings", append(requireAdmin, cfg.Specialists.RemoveOfferings)...)

	users := api.Group("/users", requireAdmin...)
	users.Get("/", cfg.Users.List)
	users.Get("/email/:email", cfg.Users.GetByEmail)
	users.Get("/:id", cfg.Users.Get)
	users.Post("/", cfg.Users.Create)
	users.Patch("/:id", cfg.Users.Update)
	users.Delete("/:id", cfg.Users.Delete)
}
