package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/armonia-platform/pqr-service/internal/api/http/handlers"
	"github.com/armonia-platform/pqr-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	PQR            *handlers.PQRHandler
	AdminPQR       *handlers.AdminPQRHandler
	Rules          *handlers.RulesHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)

	pqr := app.Group("/pqr", cfg.AuthMiddleware.Handle, auth.RequireRole())
	pqr.Post("/", cfg.PQR.Create)
	pqr.Get("/", cfg.PQR.List)
	pqr.Get("/:id", cfg.PQR.Get)
	pqr.Get("/:id/history", cfg.PQR.History)
	pqr.Post("/:id/reopen", cfg.PQR.Reopen)
	pqr.Post("/:id/cancel", cfg.PQR.Cancel)

	staff := pqr.Group("", auth.RequireStaff())
	staff.Put("/:id/status", cfg.AdminPQR.UpdateStatus)
	staff.Put("/:id/assign", cfg.AdminPQR.Assign)
	staff.Put("/:id/response", cfg.AdminPQR.Respond)
	staff.Get("/:id/notifications", cfg.AdminPQR.NotificationLog)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireAdmin())
	admin.Get("/pqr/summary", cfg.AdminPQR.Summary)
	admin.Get("/rules", cfg.Rules.ListRules)
	admin.Post("/rules", cfg.Rules.CreateRule)
	admin.Put("/rules/:id", cfg.Rules.UpdateRule)
	admin.Delete("/rules/:id", cfg.Rules.DeleteRule)
	admin.Get("/slas", cfg.Rules.ListSLAs)
	admin.Post("/slas", cfg.Rules.CreateSLA)
	admin.Put("/slas/:id", cfg.Rules.UpdateSLA)
	admin.Delete("/slas/:id", cfg.Rules.DeleteSLA)
}
