// Package directory mantiene en memoria el directorio de escuelas (tenants) que el
// login necesita para resolver códigos de acceso.
package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"github.com/jhoicas/escolar/internal/application/ports"
	"github.com/jhoicas/escolar/internal/domain"
	"github.com/jhoicas/escolar/internal/domain/entity"
	"github.com/jhoicas/escolar/pkg/logger"
)

const (
	ListPath = "/schools"
	SyncPath = "/schools/sync"
)

// Pusher ejecuta un push remoto en segundo plano (lo implementa dispatch.Dispatcher).
type Pusher interface {
	Go(label string, push func(ctx context.Context) error)
}

// Cache directorio de escuelas.
type Cache struct {
	remote ports.RemoteStore
	pusher Pusher
	log    *logger.Logger

	mu      sync.RWMutex
	schools []entity.School
	loaded  bool
}

// New construye un directorio vacío.
func New(remote ports.RemoteStore, pusher Pusher, log *logger.Logger) *Cache {
	if log == nil {
		log = logger.Nop()
	}
	return &Cache{
		remote:  remote,
		pusher:  pusher,
		log:     log.Component("directory"),
		schools: []entity.School{},
	}
}

// Bootstrap descarga el directorio completo. Un fallo se devuelve como
// *domain.BootstrapError y deja el directorio como estaba. Una lista vacía es válida.
func (c *Cache) Bootstrap(ctx context.Context) ([]entity.School, error) {
	raw, err := c.remote.Get(ctx, ListPath)
	if err != nil {
		c.log.Error().Err(err).Msg("no se pudo obtener el directorio de escuelas")
		return nil, &domain.BootstrapError{Err: err}
	}
	var list []entity.School
	if err := json.Unmarshal(raw, &list); err != nil {
		c.log.Error().Err(err).Msg("directorio de escuelas con formato inválido")
		return nil, &domain.BootstrapError{Err: fmt.Errorf("%w: directorio: %v", domain.ErrInvalidInput, err)}
	}
	if list == nil {
		list = []entity.School{}
	}

	c.mu.Lock()
	c.schools = list
	c.loaded = true
	c.mu.Unlock()

	c.log.Info().Int("schools", len(list)).Msg("directorio de escuelas cargado")
	return slices.Clone(list), nil
}

// Loaded informa si algún Bootstrap terminó con éxito.
func (c *Cache) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// ReplaceAll reemplaza el directorio local tras validarlo. No toca el almacén remoto.
func (c *Cache) ReplaceAll(list []entity.School) error {
	if err := entity.ValidateDirectory(list); err != nil {
		return err
	}
	cp := slices.Clone(list)
	if cp == nil {
		cp = []entity.School{}
	}
	c.mu.Lock()
	c.schools = cp
	c.mu.Unlock()
	return nil
}

// Persist envía la lista completa al almacén remoto. El error se registra y se
// devuelve solo para quien observa el push; nunca revierte el estado local.
func (c *Cache) Persist(ctx context.Context, list []entity.School) error {
	if _, err := c.remote.Post(ctx, SyncPath, list); err != nil {
		c.log.Error().Err(err).Int("schools", len(list)).Msg("error al sincronizar el directorio")
		return err
	}
	return nil
}

// Update ReplaceAll + Persist en segundo plano. Solo devuelve errores de validación.
func (c *Cache) Update(list []entity.School) error {
	if err := c.ReplaceAll(list); err != nil {
		return err
	}
	snapshot := c.Schools()
	c.pusher.Go("schools", func(ctx context.Context) error {
		return c.Persist(ctx, snapshot)
	})
	return nil
}

// Schools copia del directorio actual.
func (c *Cache) Schools() []entity.School {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.schools)
}

// FindByAccessCode busca una escuela por código de acceso (trim + minúsculas).
func (c *Cache) FindByAccessCode(code string) (entity.School, bool) {
	key := entity.NormalizeKey(code)
	if key == "" {
		return entity.School{}, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, s := range c.schools {
		if entity.NormalizeKey(s.AccessCode) == key {
			return s, true
		}
	}
	return entity.School{}, false
}
