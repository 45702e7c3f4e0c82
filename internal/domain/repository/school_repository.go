package repository

import (
	"context"

	"github.com/jhoicas/escolar/internal/domain/entity"
)

// SchoolRepository define el puerto de persistencia del directorio de escuelas (DIP).
// La implementación vive en infrastructure.
type SchoolRepository interface {
	List(ctx context.Context) ([]entity.School, error)
	GetByID(ctx context.Context, id string) (*entity.School, error)
	GetByAccessCode(ctx context.Context, code string) (*entity.School, error)
	// ReplaceAll sustituye el directorio completo de forma atómica.
	ReplaceAll(ctx context.Context, schools []entity.School) error
}
