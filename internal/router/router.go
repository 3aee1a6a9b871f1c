package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/academico-latam/academico-api/internal/config"
	"github.com/academico-latam/academico-api/internal/handler"
	"github.com/academico-latam/academico-api/internal/middleware"
	"github.com/academico-latam/academico-api/internal/models"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler     *handler.AuthHandler
	AdminHandler    *handler.AdminHandler
	DirectorHandler *handler.DirectorHandler
	TeacherHandler  *handler.TeacherHandler
	GuardianHandler *handler.GuardianHandler
	StudentHandler  *handler.StudentHandler
	Authenticate    fiber.Handler
	DB              *gorm.DB
	Cache           *redis.Client
}

// Register wires the HTTP routes into the fiber application. Each role group
// sits behind the authentication gate plus its role gate.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg, deps.DB, deps.Cache))
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	authenticate := deps.Authenticate
	if authenticate == nil {
		authenticate = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.AuthHandler != nil {
		auth := api.Group("/auth")
		deps.AuthHandler.Register(auth)
		deps.AuthHandler.Protected(auth.Group("", authenticate))
	}

	if deps.AdminHandler != nil {
		admin := api.Group("/admin", authenticate, middleware.RequireRole(models.RoleAdministrator))
		deps.AdminHandler.Register(admin)
	}

	if deps.DirectorHandler != nil {
		director := api.Group("/director", authenticate, middleware.RequireRole(models.RoleDirector))
		deps.DirectorHandler.Register(director)
	}

	if deps.TeacherHandler != nil {
		teacher := api.Group("/teacher", authenticate, middleware.RequireRole(models.RoleTeacher))
		deps.TeacherHandler.Register(teacher)
	}

	if deps.GuardianHandler != nil {
		guardian := api.Group("/guardian", authenticate, middleware.RequireRole(models.RoleGuardian))
		deps.GuardianHandler.Register(guardian)
	}

	if deps.StudentHandler != nil {
		student := api.Group("/student", authenticate, middleware.RequireRole(models.RoleStudent))
		deps.StudentHandler.Register(student)
	}
}
