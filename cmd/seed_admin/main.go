// seed_admin genera el SQL que registra un administrador de la plataforma (SuperAdmin)
// con la contraseña ya hasheada con bcrypt.
//
// Uso: go run ./cmd/seed_admin <email> <password> [nombre] > admin.sql
// El script es idempotente: si el email ya existe no hace nada.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jhoicas/escolar/internal/application/auth"
	"github.com/jhoicas/escolar/internal/domain/entity"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "uso: seed_admin <email> <password> [nombre]")
		os.Exit(2)
	}
	name := ""
	if len(os.Args) > 3 {
		name = strings.Join(os.Args[3:], " ")
	}
	admin, err := auth.NewPlatformAdmin(name, os.Args[1], os.Args[2])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear administrador: %v\n", err)
		os.Exit(1)
	}
	if err := writeSQL(os.Stdout, admin); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "SQL generado para %s\n", admin.Email)
}

func writeSQL(w io.Writer, a *entity.PlatformAdmin) error {
	_, err := fmt.Fprintf(w, `-- Administrador de la plataforma: %s
INSERT INTO platform_admins (id, name, email, password_hash, created_at)
SELECT '%s', %s, %s, %s, now()
WHERE NOT EXISTS (SELECT 1 FROM platform_admins WHERE lower(email) = %s);
`, a.Email, a.ID, quote(a.Name), quote(a.Email), quote(a.PasswordHash), quote(a.Email))
	return err
}

// quote literal SQL con comillas simples escapadas.
func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
