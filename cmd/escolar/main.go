// escolar cliente de la plataforma: sirve la fachada local para la presentación
// y ofrece comandos de consulta contra el almacén remoto.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/escolar/internal/infrastructure/remote"
	"github.com/jhoicas/escolar/pkg/config"
	"github.com/jhoicas/escolar/pkg/logger"
)

// env configuración + logger + cliente remoto compartidos por los subcomandos.
type env struct {
	cfg    *config.Config
	log    *logger.Logger
	remote *remote.Client
}

func main() {
	var (
		remoteURL string
		logLevel  string
		e         = &env{}
	)

	root := &cobra.Command{
		Use:           "escolar",
		Short:         "Cliente de la plataforma de gestión escolar",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if remoteURL != "" {
				cfg.Remote.BaseURL = remoteURL
			}
			if logLevel != "" {
				cfg.App.LogLevel = logLevel
			}
			e.cfg = cfg
			// stdout queda para la salida de los comandos
			e.log = logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "escolar", Output: os.Stderr})
			e.remote = remote.NewClient(remote.Options{BaseURL: cfg.Remote.BaseURL, Timeout: cfg.Remote.Timeout()}, e.log)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&remoteURL, "remote-url", "", "URL base del almacén remoto (env REMOTE_BASE_URL)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "Nivel de log (env LOG_LEVEL)")

	root.AddCommand(serveCmd(e), schoolsCmd(e), pullCmd(e))

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
