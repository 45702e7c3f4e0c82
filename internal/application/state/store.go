// Package state implementa el Domain State Store: un slot por dominio de datos de la
// escuela, cargado en bloque desde el almacén remoto y modificado localmente.
//
// Política de recarga: merge-by-presence. Solo las claves presentes (y no null) en la
// respuesta full-data reemplazan su slot; las ausentes conservan el valor anterior.
// Un cambio de escuela, en cambio, vacía todos los slots antes de cargar.
package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sync"

	"github.com/jhoicas/escolar/internal/application/ports"
	"github.com/jhoicas/escolar/internal/domain"
	"github.com/jhoicas/escolar/internal/domain/entity"
	"github.com/jhoicas/escolar/pkg/logger"
)

// Store copia canónica en proceso de cada dominio de la escuela de la sesión.
type Store struct {
	remote ports.RemoteStore
	log    *logger.Logger

	mu       sync.RWMutex
	schoolID string
	slots    map[entity.DomainKey]slot
}

// NewStore construye el store con todos los slots en sus valores por defecto.
func NewStore(remote ports.RemoteStore, log *logger.Logger) *Store {
	if log == nil {
		log = logger.Nop()
	}
	s := &Store{
		remote: remote,
		log:    log.Component("state"),
		slots:  make(map[entity.DomainKey]slot, len(entity.DomainKeys)),
	}
	for _, sl := range []slot{
		newCollection[entity.User](entity.DomainUsers),
		newCollection[entity.Student](entity.DomainStudents),
		newCollection[entity.AcademicYear](entity.DomainAcademicYears),
		newRecord(entity.DomainSettings, entity.DefaultSchoolSettings),
		newRecord(entity.DomainFinancial, entity.DefaultFinancialSettings),
		newCollection[entity.Turma](entity.DomainTurmas),
		newCollection[entity.ExpenseRecord](entity.DomainExpenses),
		newCollection[entity.DiscussionTopic](entity.DomainTopics),
		newCollection[entity.DiscussionMessage](entity.DomainMessages),
		newCollection[entity.Notification](entity.DomainNotifications),
		newCollection[entity.SchoolRequest](entity.DomainRequests),
	} {
		s.slots[sl.key()] = sl
	}
	return s
}

// FullDataPath ruta del bundle de dominios de una escuela.
func FullDataPath(schoolID string) string {
	return fmt.Sprintf("/school/%s/full-data", url.PathEscape(schoolID))
}

// LoadAll pide el bundle completo de la escuela y reemplaza cada slot presente en la
// respuesta. Si el store pertenecía a otra escuela, primero vuelve a los valores por
// defecto. Un slot que no se puede decodificar se deja como estaba y se informa en el
// error devuelto junto con el resto.
func (s *Store) LoadAll(ctx context.Context, schoolID string) error {
	if schoolID == "" {
		return fmt.Errorf("%w: schoolID vacío", domain.ErrInvalidInput)
	}
	s.bind(schoolID)

	raw, err := s.remote.Get(ctx, FullDataPath(schoolID))
	if err != nil {
		return fmt.Errorf("cargar datos de la escuela %s: %w", schoolID, err)
	}

	var bundle map[string]json.RawMessage
	if err := json.Unmarshal(raw, &bundle); err != nil {
		return fmt.Errorf("%w: bundle full-data: %v", domain.ErrInvalidInput, err)
	}

	// Decodificar fuera del lock; aplicar todo junto.
	decoded := make(map[entity.DomainKey]any, len(bundle))
	var errs []error
	for _, k := range entity.DomainKeys {
		v, ok := bundle[string(k)]
		if !ok || isNull(v) {
			continue
		}
		d, err := s.slots[k].decode(v)
		if err != nil {
			s.log.Warn().Err(err).Str("domain", string(k)).Str("school_id", schoolID).Msg("slot ignorado en la carga")
			errs = append(errs, err)
			continue
		}
		decoded[k] = d
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.schoolID != schoolID {
		// Otra carga cambió de escuela mientras esperábamos la respuesta.
		return fmt.Errorf("carga de %s descartada: el store ahora pertenece a %s", schoolID, s.schoolID)
	}
	for k, v := range decoded {
		_ = s.slots[k].assign(v)
	}
	s.log.Debug().Str("school_id", schoolID).Int("domains", len(decoded)).Msg("datos de la escuela cargados")
	return errors.Join(errs...)
}

// bind asocia el store a schoolID, vaciando los slots si pertenecía a otra escuela.
func (s *Store) bind(schoolID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.schoolID == schoolID {
		return
	}
	s.resetLocked()
	s.schoolID = schoolID
}

func isNull(raw json.RawMessage) bool {
	var v any
	return json.Unmarshal(raw, &v) == nil && v == nil
}

// SchoolID escuela a la que pertenecen los datos actuales ("" si ninguna).
func (s *Store) SchoolID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.schoolID
}

// Reset devuelve todos los slots a sus valores por defecto y desasocia la escuela.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
	s.schoolID = ""
}

func (s *Store) resetLocked() {
	for _, sl := range s.slots {
		sl.reset()
	}
}

// Get snapshot actual de un dominio (copia).
func (s *Store) Get(key entity.DomainKey) (any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sl, ok := s.slots[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownDomain, key)
	}
	return sl.value(), nil
}

// Raw snapshot actual serializado a JSON.
func (s *Store) Raw(key entity.DomainKey) (json.RawMessage, error) {
	v, err := s.Get(key)
	if err != nil {
		return nil, err
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("serializar %s: %w", key, err)
	}
	return b, nil
}

// Set reemplaza localmente el snapshot de un dominio. value debe ser del tipo del
// dominio (p. ej. []entity.Student) o json.RawMessage. Devuelve el valor almacenado.
func (s *Store) Set(key entity.DomainKey, value any) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sl, ok := s.slots[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownDomain, key)
	}
	if err := sl.assign(value); err != nil {
		return nil, err
	}
	return sl.value(), nil
}

// AppendNotifications antepone added a la colección actual (más nuevas primero) y
// devuelve la colección resultante, que es la que debe sincronizarse.
func (s *Store) AppendNotifications(added []entity.Notification) []entity.Notification {
	return s.updateNotifications(func(cur []entity.Notification) []entity.Notification {
		return entity.PrependNotifications(cur, added)
	})
}

// MarkNotificationRead marca como leída solo la notificación id y devuelve la colección completa.
func (s *Store) MarkNotificationRead(id string) []entity.Notification {
	return s.updateNotifications(func(cur []entity.Notification) []entity.Notification {
		return entity.MarkNotificationRead(cur, id)
	})
}

func (s *Store) updateNotifications(fn func([]entity.Notification) []entity.Notification) []entity.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	sl := s.slots[entity.DomainNotifications].(*typedSlot[[]entity.Notification])
	sl.cur = fn(sl.cur)
	return sl.clone(sl.cur)
}
