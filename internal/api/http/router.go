package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/workforce-portal/grievance-service/internal/api/http/handlers"
	"github.com/workforce-portal/grievance-service/internal/auth"
	"github.com/workforce-portal/grievance-service/internal/domain"
	"github.com/workforce-portal/grievance-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Grievances     *handlers.GrievancesHandler
	Metrics        *observability.Metrics
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)

	users := app.Group("/users", cfg.AuthMiddleware.Handle)
	users.Get("/", auth.RequireRole(domain.RoleHR), cfg.Users.ListUsers)
	users.Put("/:id/assignment", auth.RequireRole(domain.RoleHR), cfg.Users.UpdateAssignment)

	grievances := app.Group("/grievances", cfg.AuthMiddleware.Handle)
	grievances.Post("/", auth.RequireRole(domain.RoleWorker, domain.RoleSupervisor), cfg.Grievances.CreateGrievance)
	grievances.Get("/", cfg.Grievances.ListGrievances)
	grievances.Get("/department", auth.RequireRole(domain.RoleOfficial, domain.RoleHR), cfg.Grievances.ListDepartmentGrievances)
	grievances.Get("/hr", cfg.Grievances.ListHRGrievances)
	grievances.Get("/:id", cfg.Grievances.GetGrievance)
	grievances.Patch("/:id/status", cfg.Grievances.ChangeStatus)
	grievances.Post("/:id/replies", cfg.Grievances.AddReply)
}
