package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/escolar/internal/application/auth"
	"github.com/jhoicas/escolar/internal/application/usecase"
	"github.com/jhoicas/escolar/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	SchoolUC   *usecase.SchoolUseCase
	SnapshotUC *usecase.SnapshotUseCase
	Logger     *logger.Logger
}

// Router registra las rutas del almacén remoto.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}
	log = log.Component("api")

	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC, log)
	api.Post("/auth/login", authHandler.Login)

	// Directorio de escuelas
	schoolHandler := NewSchoolHandler(deps.SchoolUC, log)
	api.Get("/schools", schoolHandler.List)
	api.Post("/schools/sync", schoolHandler.Sync)

	// Snapshots por escuela
	school := api.Group("/school/:id")
	snapshotHandler := NewSnapshotHandler(deps.SnapshotUC, log)
	school.Get("/full-data", snapshotHandler.FullData)
	school.Post("/sync/:key", snapshotHandler.Sync)
	school.Delete("/data/:key", snapshotHandler.Delete)
}
