package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/escolar/internal/domain"
	"github.com/jhoicas/escolar/internal/domain/entity"
	"github.com/jhoicas/escolar/internal/domain/repository"
)

var _ repository.PlatformAdminRepository = (*PlatformAdminRepo)(nil)

// PlatformAdminRepo administradores de la plataforma sobre PostgreSQL.
type PlatformAdminRepo struct {
	q Querier
}

// NewPlatformAdminRepository construye el adaptador.
func NewPlatformAdminRepository(q Querier) *PlatformAdminRepo {
	return &PlatformAdminRepo{q: q}
}

// FindByEmail busca sin distinguir mayúsculas; nil si no existe.
func (r *PlatformAdminRepo) FindByEmail(ctx context.Context, email string) (*entity.PlatformAdmin, error) {
	var a entity.PlatformAdmin
	err := r.q.QueryRow(ctx,
		`SELECT id, name, email, password_hash, created_at FROM platform_admins WHERE lower(email) = $1`,
		entity.NormalizeKey(email),
	).Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get platform admin: %w", err)
	}
	return &a, nil
}

// Create persiste un administrador nuevo.
func (r *PlatformAdminRepo) Create(ctx context.Context, a *entity.PlatformAdmin) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO platform_admins (id, name, email, password_hash, created_at) VALUES ($1, $2, $3, $4, $5)`,
		a.ID, a.Name, a.Email, a.PasswordHash, a.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: email %q", domain.ErrDuplicate, a.Email)
		}
		return fmt.Errorf("insert platform admin: %w", err)
	}
	return nil
}
