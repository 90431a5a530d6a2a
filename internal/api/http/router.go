package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fieldready/locate-service/internal/api/http/handlers"
	"github.com/fieldready/locate-service/internal/auth"
	"github.com/fieldready/locate-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Roster         *handlers.RosterHandler
	Readiness      *handlers.ReadinessHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/login", cfg.Auth.Login)

	protected := app.Group("", cfg.AuthMiddleware.Handle)

	tickets := protected.Group("/tickets")
	tickets.Post("", auth.RequireRole(domain.RoleDispatcher, domain.RoleAdmin), cfg.Tickets.CreateTicket)
	tickets.Get("", cfg.Tickets.ListTickets)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Post("/:id/responses", auth.RequireRole(domain.RoleDispatcher, domain.RoleAdmin), cfg.Tickets.RecordResponse)
	tickets.Post("/:id/status", auth.RequireRole(domain.RoleDispatcher, domain.RoleAdmin), cfg.Tickets.UpdateStatus)
	tickets.Post("/:id/cancel", auth.RequireRole(domain.RoleDispatcher, domain.RoleAdmin), cfg.Tickets.CancelTicket)

	protected.Post("/ingest/wv811", auth.RequireRole(domain.RoleDispatcher, domain.RoleAdmin), cfg.Tickets.IngestNotification)

	protected.Get("/crew", cfg.Roster.ListCrew)
	protected.Post("/crew/:id/certifications", auth.RequireRole(domain.RoleSupervisor, domain.RoleAdmin), cfg.Roster.AddCrewCertification)
	protected.Get("/subcontractors", cfg.Roster.ListSubcontractorWorkers)

	protected.Post("/readiness/evaluate", cfg.Readiness.Evaluate)
	protected.Get("/readiness/checks/:id", cfg.Readiness.GetCheck)
}
