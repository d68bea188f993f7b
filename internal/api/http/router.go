package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/scholarlift/escalation-service/internal/api/http/handlers"
	"github.com/scholarlift/escalation-service/internal/auth"
	"github.com/scholarlift/escalation-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Escalations    *handlers.EscalationsHandler
	Dashboard      *handlers.DashboardHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/login", cfg.Auth.Login)

	escalations := app.Group("/escalations", cfg.AuthMiddleware.Handle)
	escalations.Post("", cfg.Escalations.Create)
	escalations.Get("", cfg.Escalations.List)
	escalations.Get("/:id", cfg.Escalations.Get)
	escalations.Patch("/:id", cfg.Escalations.Update)
	escalations.Post("/:id/assign", auth.RequireRole(domain.UserRoleRegionalLead, domain.UserRoleAdmin), cfg.Escalations.Assign)
	escalations.Post("/:id/resolve", auth.RequireRole(domain.UserRoleRegionalLead, domain.UserRoleAdmin), cfg.Escalations.Resolve)

	dashboard := app.Group("/dashboard", cfg.AuthMiddleware.Handle)
	dashboard.Get("/metrics", cfg.Dashboard.Metrics)
	dashboard.Get("/feed", cfg.Dashboard.Feed)
}
