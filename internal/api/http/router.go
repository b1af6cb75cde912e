package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/saihakukei971/Discord-X-Support-Hub/internal/api/http/handlers"
	"github.com/saihakukei971/Discord-X-Support-Hub/internal/auth"
	"github.com/saihakukei971/Discord-X-Support-Hub/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Staff          *handlers.StaffHandler
	Tickets        *handlers.TicketsHandler
	Templates      *handlers.TemplatesHandler
	Stats          *handlers.StatsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Ticket commands are open to any staff
// role; account provisioning and reporting exports are admin only.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/staff/login", cfg.Staff.Login)
	authGroup.Post("/staff/register",
		cfg.AuthMiddleware.Handle, auth.RequireStaffRole(domain.StaffRoleAdmin), cfg.Staff.Register)

	staff := app.Group("", cfg.AuthMiddleware.Handle, auth.RequireStaffRole())

	tickets := staff.Group("/tickets")
	tickets.Get("/search", cfg.Tickets.Search)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Post("/:id/assign", cfg.Tickets.Assign)
	tickets.Post("/:id/respond", cfg.Tickets.Respond)
	tickets.Post("/:id/status", cfg.Tickets.SetStatus)
	tickets.Post("/:id/resolve", cfg.Tickets.Resolve)

	templates := staff.Group("/templates")
	templates.Get("/", cfg.Templates.List)
	templates.Post("/:id/apply", cfg.Templates.Apply)
	templates.Post("/",
		auth.RequireStaffRole(domain.StaffRoleAdmin), cfg.Templates.Add)
	templates.Delete("/:id",
		auth.RequireStaffRole(domain.StaffRoleAdmin), cfg.Templates.Delete)

	stats := staff.Group("/stats")
	stats.Get("/today", cfg.Stats.Today)
	stats.Post("/refresh", cfg.Stats.Refresh)
	stats.Get("/analyze",
		auth.RequireStaffRole(domain.StaffRoleAdmin), cfg.Stats.Analyze)
	stats.Get("/export",
		auth.RequireStaffRole(domain.StaffRoleAdmin), cfg.Stats.Export)
}
