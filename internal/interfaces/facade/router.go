package facade

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/jhoicas/escolar/internal/application/schoolapp"
	"github.com/jhoicas/escolar/internal/domain/entity"
	"github.com/jhoicas/escolar/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	App     *schoolapp.App
	JWT     JWTConfig
	Metrics *Metrics // opcional
	Logger  *logger.Logger
}

// Router registra las rutas de la fachada.
func Router(app *fiber.App, deps RouterDeps) {
	h := NewHandler(deps.App, deps.JWT, deps.Logger)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "ready": deps.App.Ready()})
	})
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))
	}

	api := app.Group("/api")

	// Siempre disponibles: la presentación los necesita para mostrar el error de conexión.
	api.Get("/status", h.Status)
	api.Post("/bootstrap/retry", h.RetryBootstrap)

	ready := api.Group("/", h.RequireBootstrap)
	ready.Post("/login", h.Login)

	// Rutas protegidas (requieren Bearer Token de la sesión vigente)
	protected := ready.Group("/", AuthMiddleware(deps.JWT.Secret, deps.App))
	protected.Post("/logout", h.Logout)
	protected.Post("/reload", h.Reload)

	domains := protected.Group("/domains")
	domains.Delete("/students", h.ClearStudents)
	domains.Get("/:key", h.GetDomain)
	domains.Put("/:key", h.PutDomain)

	notifications := protected.Group("/notifications")
	notifications.Post("/", h.AddNotifications)
	notifications.Post("/:id/read", h.MarkNotificationRead)

	schools := protected.Group("/schools")
	schools.Get("/", h.ListSchools)
	schools.Put("/", RequireRole(string(entity.RoleSuperAdmin)), h.ReplaceSchools)
}
