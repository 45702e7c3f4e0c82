package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jhoicas/escolar/internal/domain"
	"github.com/jhoicas/escolar/internal/domain/entity"
	"github.com/jhoicas/escolar/internal/domain/repository"
)

var _ repository.SnapshotRepository = (*SnapshotRepo)(nil)

// SnapshotRepo un documento JSONB por (escuela, dominio) en school_domains.
type SnapshotRepo struct {
	q Querier
}

// NewSnapshotRepository construye el adaptador. Acepta pool o tx (Querier).
func NewSnapshotRepository(q Querier) *SnapshotRepo {
	return &SnapshotRepo{q: q}
}

// Get devuelve el snapshot; nil, nil si el dominio nunca se sincronizó.
func (r *SnapshotRepo) Get(ctx context.Context, schoolID string, key entity.DomainKey) (json.RawMessage, error) {
	var payload []byte
	err := r.q.QueryRow(ctx,
		`SELECT payload FROM school_domains WHERE school_id = $1 AND domain_key = $2`,
		schoolID, string(key),
	).Scan(&payload)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get snapshot %s/%s: %w", schoolID, key, err)
	}
	return payload, nil
}

// GetAll todos los dominios sincronizados de la escuela.
func (r *SnapshotRepo) GetAll(ctx context.Context, schoolID string) (map[entity.DomainKey]json.RawMessage, error) {
	rows, err := r.q.Query(ctx, `SELECT domain_key, payload FROM school_domains WHERE school_id = $1`, schoolID)
	if err != nil {
		return nil, fmt.Errorf("list snapshots %s: %w", schoolID, err)
	}
	defer rows.Close()

	out := make(map[entity.DomainKey]json.RawMessage)
	for rows.Next() {
		var (
			key     string
			payload []byte
		)
		if err := rows.Scan(&key, &payload); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		out[entity.DomainKey(key)] = payload
	}
	return out, rows.Err()
}

// Put reemplaza el snapshot completo del dominio.
func (r *SnapshotRepo) Put(ctx context.Context, schoolID string, key entity.DomainKey, payload json.RawMessage) error {
	const query = `
		INSERT INTO school_domains (school_id, domain_key, payload, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (school_id, domain_key) DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()`
	if _, err := r.q.Exec(ctx, query, schoolID, string(key), string(payload)); err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: escuela %s", domain.ErrNotFound, schoolID)
		}
		return fmt.Errorf("put snapshot %s/%s: %w", schoolID, key, err)
	}
	return nil
}

// Delete elimina el snapshot; no falla si no existía.
func (r *SnapshotRepo) Delete(ctx context.Context, schoolID string, key entity.DomainKey) error {
	_, err := r.q.Exec(ctx, `DELETE FROM school_domains WHERE school_id = $1 AND domain_key = $2`, schoolID, string(key))
	if err != nil {
		return fmt.Errorf("delete snapshot %s/%s: %w", schoolID, key, err)
	}
	return nil
}
