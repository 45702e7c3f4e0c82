package usecase

import (
	"context"
	"fmt"

	"github.com/jhoicas/escolar/internal/domain"
	"github.com/jhoicas/escolar/internal/domain/entity"
	"github.com/jhoicas/escolar/internal/domain/repository"
)

// DirectoryTxRunner ejecuta fn con el repo de escuelas dentro de una transacción.
type DirectoryTxRunner interface {
	RunDirectory(ctx context.Context, fn func(schools repository.SchoolRepository) error) error
}

// SchoolUseCase directorio de escuelas del almacén remoto.
type SchoolUseCase struct {
	repo repository.SchoolRepository
	tx   DirectoryTxRunner
}

// NewSchoolUseCase construye el caso de uso con el repo de lectura y el runner transaccional.
func NewSchoolUseCase(repo repository.SchoolRepository, tx DirectoryTxRunner) *SchoolUseCase {
	return &SchoolUseCase{repo: repo, tx: tx}
}

// List devuelve el directorio completo (nunca nil).
func (uc *SchoolUseCase) List(ctx context.Context) ([]entity.School, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []entity.School{}
	}
	return list, nil
}

// ReplaceAll valida la lista y la aplica en una transacción. Las escuelas que no vienen
// en la lista se conservan, así que sus códigos de acceso también cuentan para la unicidad.
func (uc *SchoolUseCase) ReplaceAll(ctx context.Context, schools []entity.School) ([]entity.School, error) {
	if err := entity.ValidateDirectory(schools); err != nil {
		return nil, err
	}
	var out []entity.School
	err := uc.tx.RunDirectory(ctx, func(repo repository.SchoolRepository) error {
		current, err := repo.List(ctx)
		if err != nil {
			return err
		}
		incoming := make(map[string]bool, len(schools))
		for _, s := range schools {
			incoming[s.ID] = true
		}
		merged := append([]entity.School(nil), schools...)
		for _, s := range current {
			if !incoming[s.ID] {
				merged = append(merged, s)
			}
		}
		if err := entity.ValidateDirectory(merged); err != nil {
			return fmt.Errorf("directorio resultante: %w", err)
		}
		if err := repo.ReplaceAll(ctx, schools); err != nil {
			return err
		}
		out, err = repo.List(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Exists informa si la escuela está en el directorio.
func (uc *SchoolUseCase) Exists(ctx context.Context, id string) error {
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if s == nil {
		return fmt.Errorf("%w: escuela %s", domain.ErrNotFound, id)
	}
	return nil
}
