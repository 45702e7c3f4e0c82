package repository

import (
	"context"
	"encoding/json"

	"github.com/jhoicas/escolar/internal/domain/entity"
)

// SnapshotRepository guarda un documento JSON por (escuela, dominio).
type SnapshotRepository interface {
	// Get devuelve nil, nil si el dominio nunca se sincronizó.
	Get(ctx context.Context, schoolID string, key entity.DomainKey) (json.RawMessage, error)
	GetAll(ctx context.Context, schoolID string) (map[entity.DomainKey]json.RawMessage, error)
	Put(ctx context.Context, schoolID string, key entity.DomainKey, payload json.RawMessage) error
	Delete(ctx context.Context, schoolID string, key entity.DomainKey) error
}
