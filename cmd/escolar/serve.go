package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/escolar/internal/application/schoolapp"
	"github.com/jhoicas/escolar/internal/interfaces/facade"
)

func serveCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Carga el directorio de escuelas y sirve la fachada local",
		RunE: func(cmd *cobra.Command, args []string) error {
			if e.cfg.JWT.Secret == "" {
				return errors.New("JWT_SECRET es requerido para firmar los tokens de sesión")
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			metrics := facade.NewMetrics()
			app := schoolapp.New(e.remote, schoolapp.Config{
				MinVisible: e.cfg.Sync.MinVisible(),
				Observer:   metrics,
			}, e.log)
			metrics.WatchIndicators(app)

			// Un fallo aquí no detiene el proceso: la fachada responde 503 y
			// la presentación reintenta con /api/bootstrap/retry.
			if err := app.Bootstrap(ctx); err != nil {
				e.log.Error().Err(err).Msg("bootstrap del directorio")
			}

			srv := fiber.New(fiber.Config{
				AppName:               e.cfg.App.Name,
				DisableStartupMessage: true,
				ReadTimeout:           10 * time.Second,
				IdleTimeout:           60 * time.Second,
			})
			srv.Use(recover.New())
			facade.Router(srv, facade.RouterDeps{
				App: app,
				JWT: facade.JWTConfig{
					Secret:     e.cfg.JWT.Secret,
					ExpMinutes: e.cfg.JWT.Expiration,
					Issuer:     e.cfg.JWT.Issuer,
				},
				Metrics: metrics,
				Logger:  e.log,
			})

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				e.log.Info().Str("addr", e.cfg.Client.Addr()).Str("remote", e.cfg.Remote.BaseURL).Msg("fachada escuchando")
				return srv.Listen(e.cfg.Client.Addr())
			})
			g.Go(func() error {
				<-gctx.Done()
				e.log.Info().Msg("señal de apagado recibida, cerrando fachada...")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				err := srv.ShutdownWithContext(shutdownCtx)
				// las sincronizaciones en vuelo terminan antes de salir
				app.Wait()
				return err
			})
			if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			e.log.Info().Msg("fachada detenida")
			return nil
		},
	}
}
