package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-service/internal/api/http/handlers"
	"github.com/spec-kit/complaint-service/internal/auth"
	"github.com/spec-kit/complaint-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Webhook        *handlers.WebhookHandler
	Chat           *handlers.ChatHandler
	Tickets        *handlers.TicketsHandler
	Staff          *handlers.StaffHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. The webhook is public (the provider
// authenticates via the verify token); everything under /api requires a
// staff token.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Get("/webhook/whatsapp", cfg.Webhook.Verify)
	app.Post("/webhook/whatsapp", cfg.Webhook.Receive)

	authGroup := app.Group("/auth")
	authGroup.Post("/staff/login", cfg.Staff.Login)

	authProtected := authGroup.Group("", cfg.AuthMiddleware.Handle, auth.RequireStaffRole())
	authProtected.Post("/password/change", cfg.Staff.ChangePassword)
	authProtected.Get("/me", cfg.Staff.Me)

	api := app.Group("/api", cfg.AuthMiddleware.Handle)

	anyStaff := auth.RequireStaffRole()
	reviewers := auth.RequireStaffRole(domain.StaffRoleTechnician, domain.StaffRoleManager, domain.StaffRoleAdmin)
	managers := auth.RequireStaffRole(domain.StaffRoleManager, domain.StaffRoleAdmin)

	api.Post("/chat", anyStaff, cfg.Chat.Chat)
	api.Get("/messages/:phone", anyStaff, cfg.Chat.Messages)
	api.Get("/customers/:phone", anyStaff, cfg.Chat.Customer)
	api.Get("/customers/:phone/tickets", anyStaff, cfg.Tickets.CustomerTickets)

	api.Get("/tickets", anyStaff, cfg.Tickets.List)
	api.Get("/tickets/:id", anyStaff, cfg.Tickets.Get)
	api.Get("/tickets/:id/photos/:media_id", anyStaff, cfg.Tickets.Photo)
	api.Post("/tickets/:id/decision", reviewers, cfg.Tickets.Decide)
	api.Post("/tickets/:id/complete", reviewers, cfg.Tickets.Complete)
	api.Post("/tickets/:id/cancel", managers, cfg.Tickets.Cancel)
	api.Post("/tickets/:id/assign", managers, cfg.Tickets.Assign)

	api.Get("/technicians", anyStaff, cfg.Tickets.Technicians)
	api.Get("/technicians/:id/tickets", anyStaff, cfg.Tickets.TechnicianTickets)

	api.Get("/stats", anyStaff, cfg.Tickets.Stats)
	api.Get("/stats/overdue", anyStaff, cfg.Tickets.Overdue)
}
