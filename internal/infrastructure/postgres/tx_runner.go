package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/escolar/internal/application/usecase"
	"github.com/jhoicas/escolar/internal/domain/repository"
)

// Ensure TxRunner implements usecase.DirectoryTxRunner.
var _ usecase.DirectoryTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunDirectory inicia una transacción, ejecuta fn con el repo de escuelas atado a la tx
// y hace Commit o Rollback.
func (r *TxRunner) RunDirectory(ctx context.Context, fn func(schools repository.SchoolRepository) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Serializa los reemplazos concurrentes del directorio.
	if _, err := tx.Exec(ctx, `LOCK TABLE schools IN SHARE ROW EXCLUSIVE MODE`); err != nil {
		return fmt.Errorf("lock schools: %w", err)
	}
	if err := fn(NewSchoolRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
