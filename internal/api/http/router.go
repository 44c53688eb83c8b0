package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ticket-tally/helpdesk-service/internal/api/http/handlers"
	"github.com/ticket-tally/helpdesk-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Tickets        *handlers.TicketsHandler
	Projects       *handlers.ProjectsHandler
	Staff          *handlers.StaffHandler
	Settings       *handlers.SettingsHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authed := app.Group("", cfg.AuthMiddleware.Handle)

	tickets := authed.Group("/tickets", auth.RequireRole())
	tickets.Post("", cfg.Tickets.CreateTicket)
	tickets.Get("", cfg.Tickets.ListTickets)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Post("/:id/comments", cfg.Tickets.AddComment)
	tickets.Post("/:id/status", auth.RequireStaff(), cfg.Tickets.ChangeStatus)
	tickets.Post("/:id/priority", auth.RequireStaff(), cfg.Tickets.ChangePriority)

	projects := authed.Group("/projects", auth.RequireAdmin())
	projects.Post("", cfg.Projects.CreateProject)
	projects.Get("", cfg.Projects.ListProjects)
	projects.Get("/:id", cfg.Projects.GetProject)
	projects.Put("/:id", cfg.Projects.UpdateProject)
	projects.Post("/:id/progress", cfg.Projects.SetProgress)
	projects.Delete("/:id", cfg.Projects.DeleteProject)

	staff := authed.Group("/staff", auth.RequireAdmin())
	staff.Post("", cfg.Staff.AddStaff)
	staff.Get("", cfg.Staff.ListStaff)
	staff.Post("/:email/toggle", cfg.Staff.ToggleStatus)

	stats := authed.Group("/stats")
	stats.Get("/tickets", auth.RequireStaff(), cfg.Tickets.Stats)
	stats.Get("/projects", auth.RequireAdmin(), cfg.Projects.Stats)

	settings := authed.Group("/settings", auth.RequireRole())
	settings.Get("", cfg.Settings.GetSettings)
	settings.Put("", cfg.Settings.UpdateSettings)
}
