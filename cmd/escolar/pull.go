package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jhoicas/escolar/internal/application/schoolapp"
	"github.com/jhoicas/escolar/internal/domain/entity"
)

func pullCmd(e *env) *cobra.Command {
	var (
		code, email, password string
		outPath               string
	)
	cmd := &cobra.Command{
		Use:   "pull",
		Short: "Inicia sesión y vuelca todos los dominios cargados como JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = envOr("ESCOLAR_PASSWORD", "")
			}
			if email == "" || password == "" {
				return errors.New("--email y --password (o ESCOLAR_PASSWORD) son requeridos")
			}
			app := schoolapp.New(e.remote, schoolapp.Config{MinVisible: time.Millisecond}, e.log)
			if err := app.Bootstrap(cmd.Context()); err != nil {
				return err
			}
			user, err := app.Login(cmd.Context(), code, email, password)
			if err != nil {
				return err
			}
			defer app.Logout()

			dump := map[string]any{"user": user}
			if !user.IsSuperAdmin() {
				domains := make(map[entity.DomainKey]json.RawMessage, len(entity.DomainKeys))
				for _, k := range entity.DomainKeys {
					raw, err := app.RawDomain(k)
					if err != nil {
						return err
					}
					domains[k] = raw
				}
				dump["domains"] = domains
			} else {
				dump["schools"] = app.Schools()
			}

			if outPath == "" {
				return printJSON(cmd.OutOrStdout(), dump)
			}
			return writeJSONFile(outPath, dump)
		},
	}
	cmd.Flags().StringVar(&code, "code", "", "Código de acceso de la escuela")
	cmd.Flags().StringVar(&email, "email", "", "Email del usuario")
	cmd.Flags().StringVar(&password, "password", "", "Contraseña (o env ESCOLAR_PASSWORD)")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Archivo de salida (por defecto stdout)")
	return cmd
}

// writeJSONFile escribe v en path. El error de Close cuenta: es donde aparece una
// escritura incompleta.
func writeJSONFile(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("crear %s: %w", path, err)
	}
	if err := printJSON(f, v); err != nil {
		f.Close()
		return fmt.Errorf("escribir %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("cerrar %s: %w", path, err)
	}
	return nil
}
