package repository

import (
	"context"

	"github.com/jhoicas/escolar/internal/domain/entity"
)

// PlatformAdminRepository define el puerto de persistencia de los SuperAdmin.
type PlatformAdminRepository interface {
	FindByEmail(ctx context.Context, email string) (*entity.PlatformAdmin, error)
	Create(ctx context.Context, admin *entity.PlatformAdmin) error
}
