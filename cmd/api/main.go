package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/escolar/internal/application/auth"
	"github.com/jhoicas/escolar/internal/application/usecase"
	"github.com/jhoicas/escolar/internal/domain/repository"
	"github.com/jhoicas/escolar/internal/infrastructure/memory"
	"github.com/jhoicas/escolar/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/escolar/internal/interfaces/http"
	"github.com/jhoicas/escolar/pkg/config"
	"github.com/jhoicas/escolar/pkg/logger"
)

// repos adaptadores de persistencia elegidos por STORE_DRIVER.
type repos struct {
	schools   repository.SchoolRepository
	snapshots repository.SnapshotRepository
	admins    repository.PlatformAdminRepository
	tx        usecase.DirectoryTxRunner
	close     func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: "escolar-api",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.DB.Driver).
		Msg("iniciando almacén remoto")

	ctx := context.Background()
	r, err := openRepos(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("persistencia")
	}
	defer r.close()

	authUC := auth.NewAuthUseCase(r.schools, r.snapshots, r.admins, cfg.Platform.SuperAdminAccessCode)
	schoolUC := usecase.NewSchoolUseCase(r.schools, r.tx)
	snapshotUC := usecase.NewSnapshotUseCase(r.schools, r.snapshots)
	if cfg.Platform.SuperAdminAccessCode == "" {
		log.Warn().Msg("SUPERADMIN_ACCESS_CODE vacío: login de SuperAdmin deshabilitado")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		Immutable:    true, // los repos en memoria guardan ids de la ruta
		BodyLimit:    16 * 1024 * 1024,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Escolar API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		SchoolUC:   schoolUC,
		SnapshotUC: snapshotUC,
		Logger:     log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func openRepos(ctx context.Context, cfg config.DBConfig, log *logger.Logger) (*repos, error) {
	if cfg.Driver == "memory" {
		db := memory.New()
		log.Warn().Msg("STORE_DRIVER=memory: los datos se pierden al reiniciar")
		return &repos{
			schools:   db.Schools(),
			snapshots: db.Snapshots(),
			admins:    db.Admins(),
			tx:        db,
			close:     func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if cfg.AutoMigrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Msg("migraciones aplicadas")
	}
	return &repos{
		schools:   postgres.NewSchoolRepository(pool),
		snapshots: postgres.NewSnapshotRepository(pool),
		admins:    postgres.NewPlatformAdminRepository(pool),
		tx:        postgres.NewTxRunner(pool),
		close:     pool.Close,
	}, nil
}
