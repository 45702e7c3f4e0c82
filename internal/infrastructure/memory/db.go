// Package memory implementa los repositorios del servidor en memoria (STORE_DRIVER=memory y tests).
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/jhoicas/escolar/internal/domain"
	"github.com/jhoicas/escolar/internal/domain/entity"
	"github.com/jhoicas/escolar/internal/domain/repository"
)

var (
	_ repository.SchoolRepository        = (*SchoolRepo)(nil)
	_ repository.SnapshotRepository      = (*SnapshotRepo)(nil)
	_ repository.PlatformAdminRepository = (*PlatformAdminRepo)(nil)
)

type snapshotKey struct {
	schoolID string
	key      entity.DomainKey
}

// DB estado compartido por los tres repos. Un único mutex hace las veces de transacción.
type DB struct {
	mu        sync.Mutex
	schools   map[string]entity.School
	order     []string
	snapshots map[snapshotKey]json.RawMessage
	admins    map[string]entity.PlatformAdmin
}

// New base vacía.
func New() *DB {
	return &DB{
		schools:   make(map[string]entity.School),
		snapshots: make(map[snapshotKey]json.RawMessage),
		admins:    make(map[string]entity.PlatformAdmin),
	}
}

// Schools repo del directorio.
func (db *DB) Schools() *SchoolRepo { return &SchoolRepo{db: db} }

// Snapshots repo de snapshots por dominio.
func (db *DB) Snapshots() *SnapshotRepo { return &SnapshotRepo{db: db} }

// Admins repo de administradores de la plataforma.
func (db *DB) Admins() *PlatformAdminRepo { return &PlatformAdminRepo{db: db} }

// RunDirectory ejecuta fn con el directorio bloqueado. Si fn falla se restaura el estado previo.
func (db *DB) RunDirectory(ctx context.Context, fn func(schools repository.SchoolRepository) error) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	backup := make(map[string]entity.School, len(db.schools))
	for id, s := range db.schools {
		backup[id] = s
	}
	order := append([]string(nil), db.order...)

	if err := fn(&SchoolRepo{db: db, locked: true}); err != nil {
		db.schools, db.order = backup, order
		return err
	}
	return nil
}

func (db *DB) lock(locked bool) func() {
	if locked {
		return func() {}
	}
	db.mu.Lock()
	return db.mu.Unlock
}

// ── Escuelas ─────────────────────────────────────────────────────────────────

// SchoolRepo directorio en memoria.
type SchoolRepo struct {
	db     *DB
	locked bool
}

func (r *SchoolRepo) List(ctx context.Context) ([]entity.School, error) {
	defer r.db.lock(r.locked)()
	list := make([]entity.School, 0, len(r.db.order))
	for _, id := range r.db.order {
		list = append(list, cloneSchool(r.db.schools[id]))
	}
	return list, nil
}

func (r *SchoolRepo) GetByID(ctx context.Context, id string) (*entity.School, error) {
	defer r.db.lock(r.locked)()
	s, ok := r.db.schools[id]
	if !ok {
		return nil, nil
	}
	c := cloneSchool(s)
	return &c, nil
}

func (r *SchoolRepo) GetByAccessCode(ctx context.Context, code string) (*entity.School, error) {
	defer r.db.lock(r.locked)()
	code = entity.NormalizeKey(code)
	for _, id := range r.db.order {
		s := r.db.schools[id]
		if entity.NormalizeKey(s.AccessCode) == code {
			c := cloneSchool(s)
			return &c, nil
		}
	}
	return nil, nil
}

// ReplaceAll inserta o actualiza; las escuelas ausentes se conservan.
func (r *SchoolRepo) ReplaceAll(ctx context.Context, schools []entity.School) error {
	defer r.db.lock(r.locked)()
	for _, s := range schools {
		code := entity.NormalizeKey(s.AccessCode)
		for id, other := range r.db.schools {
			if id != s.ID && entity.NormalizeKey(other.AccessCode) == code {
				return fmt.Errorf("%w: código de acceso %q", domain.ErrDuplicate, s.AccessCode)
			}
		}
		if _, ok := r.db.schools[s.ID]; !ok {
			r.db.order = append(r.db.order, s.ID)
		}
		if s.Status == "" {
			s.Status = entity.SchoolActive
		}
		r.db.schools[s.ID] = cloneSchool(s)
	}
	return nil
}

func cloneSchool(s entity.School) entity.School {
	s.Subscription.PaymentHistory = append([]entity.SubscriptionPayment(nil), s.Subscription.PaymentHistory...)
	return s
}

// ── Snapshots ────────────────────────────────────────────────────────────────

// SnapshotRepo snapshots en memoria.
type SnapshotRepo struct {
	db *DB
}

func (r *SnapshotRepo) Get(ctx context.Context, schoolID string, key entity.DomainKey) (json.RawMessage, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.snapshots[snapshotKey{schoolID, key}]
	if !ok {
		return nil, nil
	}
	return append(json.RawMessage(nil), p...), nil
}

func (r *SnapshotRepo) GetAll(ctx context.Context, schoolID string) (map[entity.DomainKey]json.RawMessage, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make(map[entity.DomainKey]json.RawMessage)
	for k, p := range r.db.snapshots {
		if k.schoolID == schoolID {
			out[k.key] = append(json.RawMessage(nil), p...)
		}
	}
	return out, nil
}

// Put falla con ErrNotFound si la escuela no existe, igual que la FK en PostgreSQL.
func (r *SnapshotRepo) Put(ctx context.Context, schoolID string, key entity.DomainKey, payload json.RawMessage) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.schools[schoolID]; !ok {
		return fmt.Errorf("%w: escuela %s", domain.ErrNotFound, schoolID)
	}
	// las claves del mapa no pueden apuntar a buffers del llamador
	k := snapshotKey{strings.Clone(schoolID), entity.DomainKey(strings.Clone(string(key)))}
	r.db.snapshots[k] = append(json.RawMessage(nil), payload...)
	return nil
}

func (r *SnapshotRepo) Delete(ctx context.Context, schoolID string, key entity.DomainKey) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.snapshots, snapshotKey{schoolID, key})
	return nil
}

// ── Administradores ──────────────────────────────────────────────────────────

// PlatformAdminRepo administradores en memoria, indexados por email normalizado.
type PlatformAdminRepo struct {
	db *DB
}

func (r *PlatformAdminRepo) FindByEmail(ctx context.Context, email string) (*entity.PlatformAdmin, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	a, ok := r.db.admins[entity.NormalizeKey(email)]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *PlatformAdminRepo) Create(ctx context.Context, a *entity.PlatformAdmin) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	key := entity.NormalizeKey(a.Email)
	if _, ok := r.db.admins[key]; ok {
		return fmt.Errorf("%w: email %q", domain.ErrDuplicate, a.Email)
	}
	r.db.admins[key] = *a
	return nil
}

// SchoolIDs ids en orden de alta; para inspección en tests.
func (db *DB) SchoolIDs() []string {
	db.mu.Lock()
	defer db.mu.Unlock()
	return append([]string(nil), db.order...)
}
