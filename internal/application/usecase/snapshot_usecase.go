package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jhoicas/escolar/internal/application/auth"
	"github.com/jhoicas/escolar/internal/domain"
	"github.com/jhoicas/escolar/internal/domain/entity"
	"github.com/jhoicas/escolar/internal/domain/repository"
)

// SnapshotUseCase lectura y escritura de los snapshots de dominio de una escuela.
type SnapshotUseCase struct {
	schools   repository.SchoolRepository
	snapshots repository.SnapshotRepository
}

// NewSnapshotUseCase construye el caso de uso.
func NewSnapshotUseCase(schools repository.SchoolRepository, snapshots repository.SnapshotRepository) *SnapshotUseCase {
	return &SnapshotUseCase{schools: schools, snapshots: snapshots}
}

// FullData devuelve el bundle de la escuela: solo los dominios que alguna vez se sincronizaron.
// Las contraseñas de "users" se eliminan.
func (uc *SnapshotUseCase) FullData(ctx context.Context, schoolID string) (map[entity.DomainKey]json.RawMessage, error) {
	if err := uc.requireSchool(ctx, schoolID); err != nil {
		return nil, err
	}
	bundle, err := uc.snapshots.GetAll(ctx, schoolID)
	if err != nil {
		return nil, err
	}
	if users, ok := bundle[entity.DomainUsers]; ok {
		stripped, err := stripPasswords(users)
		if err != nil {
			return nil, fmt.Errorf("snapshot users de %s: %w", schoolID, err)
		}
		bundle[entity.DomainUsers] = stripped
	}
	return bundle, nil
}

// Sync reemplaza el snapshot completo de un dominio. El payload debe ser una lista JSON,
// salvo en los registros únicos (settings, financial) que es un objeto. En "users" se hashean las contraseñas en texto plano.
func (uc *SnapshotUseCase) Sync(ctx context.Context, schoolID string, key entity.DomainKey, payload json.RawMessage) error {
	if _, err := entity.ParseDomainKey(string(key)); err != nil {
		return err
	}
	if err := uc.requireSchool(ctx, schoolID); err != nil {
		return err
	}
	if err := checkShape(key, payload); err != nil {
		return err
	}
	if key == entity.DomainUsers {
		hashed, err := uc.hashUsers(ctx, schoolID, payload)
		if err != nil {
			return err
		}
		payload = hashed
	}
	return uc.snapshots.Put(ctx, schoolID, key, payload)
}

// Delete elimina el snapshot de un dominio; la escuela vuelve a no tener datos para esa clave.
func (uc *SnapshotUseCase) Delete(ctx context.Context, schoolID string, key entity.DomainKey) error {
	if _, err := entity.ParseDomainKey(string(key)); err != nil {
		return err
	}
	if err := uc.requireSchool(ctx, schoolID); err != nil {
		return err
	}
	return uc.snapshots.Delete(ctx, schoolID, key)
}

func (uc *SnapshotUseCase) requireSchool(ctx context.Context, schoolID string) error {
	s, err := uc.schools.GetByID(ctx, schoolID)
	if err != nil {
		return err
	}
	if s == nil {
		return fmt.Errorf("%w: escuela %s", domain.ErrNotFound, schoolID)
	}
	return nil
}

func checkShape(key entity.DomainKey, payload json.RawMessage) error {
	if key.IsRecord() {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(payload, &obj); err != nil || obj == nil {
			return fmt.Errorf("%w: %s debe ser un objeto JSON", domain.ErrInvalidInput, key)
		}
		return nil
	}
	var list []json.RawMessage
	if err := json.Unmarshal(payload, &list); err != nil || list == nil {
		return fmt.Errorf("%w: %s debe ser una lista JSON", domain.ErrInvalidInput, key)
	}
	return nil
}

// hashUsers aplica bcrypt a las contraseñas en texto plano. Un usuario sin contraseña
// conserva el hash guardado (mismo id); un hash bcrypt entrante se guarda tal cual.
func (uc *SnapshotUseCase) hashUsers(ctx context.Context, schoolID string, payload json.RawMessage) (json.RawMessage, error) {
	var users []map[string]json.RawMessage
	if err := json.Unmarshal(payload, &users); err != nil {
		return nil, fmt.Errorf("%w: users: %v", domain.ErrInvalidInput, err)
	}
	var typed []entity.User
	if err := json.Unmarshal(payload, &typed); err != nil {
		return nil, fmt.Errorf("%w: users: %v", domain.ErrInvalidInput, err)
	}
	if err := entity.ValidateUsers(typed); err != nil {
		return nil, err
	}

	existing, err := uc.storedHashes(ctx, schoolID)
	if err != nil {
		return nil, err
	}
	for i, u := range users {
		if u == nil {
			return nil, fmt.Errorf("%w: users[%d] es null", domain.ErrInvalidInput, i)
		}
		plain := typed[i].Password
		switch {
		case plain == "":
			if h, ok := existing[typed[i].ID]; ok {
				u["password"] = mustString(h)
			} else {
				delete(u, "password")
			}
		case auth.IsHashed(plain):
			// se guarda tal cual
		default:
			h, err := auth.HashPassword(plain)
			if err != nil {
				return nil, err
			}
			u["password"] = mustString(h)
		}
	}
	return json.Marshal(users)
}

func (uc *SnapshotUseCase) storedHashes(ctx context.Context, schoolID string) (map[string]string, error) {
	raw, err := uc.snapshots.Get(ctx, schoolID, entity.DomainUsers)
	if err != nil || raw == nil {
		return map[string]string{}, err
	}
	var users []entity.User
	if err := json.Unmarshal(raw, &users); err != nil {
		return nil, fmt.Errorf("snapshot users de %s: %w", schoolID, err)
	}
	out := make(map[string]string, len(users))
	for _, u := range users {
		if u.ID != "" && u.Password != "" {
			out[u.ID] = u.Password
		}
	}
	return out, nil
}

func stripPasswords(raw json.RawMessage) (json.RawMessage, error) {
	var users []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &users); err != nil {
		return nil, err
	}
	for _, u := range users {
		delete(u, "password")
	}
	if users == nil {
		users = []map[string]json.RawMessage{}
	}
	return json.Marshal(users)
}

func mustString(s string) json.RawMessage {
	b, _ := json.Marshal(s)
	return b
}
