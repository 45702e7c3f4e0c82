// Package dispatch implementa el Sync Dispatcher: escritura optimista en dos fases.
//
//  1. ApplyLocal: reemplaza el snapshot en el store (síncrono).
//  2. SchedulePersist: empuja el snapshot al almacén remoto en segundo plano.
//
// El resultado remoto solo se registra (log / Observer); nunca revierte el valor
// local ni llega al llamador. El indicador "syncing" se apaga como muy pronto
// MinVisible después de que termine la petición.
package dispatch

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/juju/clock"

	"github.com/jhoicas/escolar/internal/application/ports"
	"github.com/jhoicas/escolar/internal/application/status"
	"github.com/jhoicas/escolar/internal/domain/entity"
	"github.com/jhoicas/escolar/pkg/logger"
)

// DefaultMinVisible duración mínima del indicador de sincronización.
const DefaultMinVisible = time.Second

// LocalStore lo que el dispatcher necesita del Domain State Store.
type LocalStore interface {
	Set(key entity.DomainKey, value any) (any, error)
}

// Observer recibe el resultado de cada push remoto. Solo para métricas/telemetría.
type Observer interface {
	ObserveSync(label string, elapsed time.Duration, err error)
}

// Config opciones del dispatcher.
type Config struct {
	MinVisible time.Duration // 0 = DefaultMinVisible
	Clock      clock.Clock   // nil = clock.WallClock
	Observer   Observer      // opcional
}

// Dispatcher aplica mutaciones locales y las propaga al almacén remoto.
type Dispatcher struct {
	store      LocalStore
	remote     ports.RemoteStore
	syncing    *status.Flag
	log        *logger.Logger
	clock      clock.Clock
	minVisible time.Duration
	observer   Observer

	wg sync.WaitGroup
}

// New construye el dispatcher. syncing es el indicador global compartido con la presentación.
func New(store LocalStore, remote ports.RemoteStore, syncing *status.Flag, cfg Config, log *logger.Logger) *Dispatcher {
	if cfg.MinVisible <= 0 {
		cfg.MinVisible = DefaultMinVisible
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.WallClock
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Dispatcher{
		store:      store,
		remote:     remote,
		syncing:    syncing,
		log:        log.Component("dispatch"),
		clock:      cfg.Clock,
		minVisible: cfg.MinVisible,
		observer:   cfg.Observer,
	}
}

// SyncPath ruta remota del snapshot de un dominio.
func SyncPath(schoolID string, key entity.DomainKey) string {
	return fmt.Sprintf("/school/%s/sync/%s", url.PathEscape(schoolID), key)
}

// ApplyLocal fase 1: reemplaza el valor en el store y devuelve la copia almacenada.
// Solo falla si la clave o el tipo del valor no corresponden a un dominio.
func (d *Dispatcher) ApplyLocal(key entity.DomainKey, value any) (any, error) {
	return d.store.Set(key, value)
}

// SchedulePersist fase 2: envía value a /school/{schoolID}/sync/{key} en segundo plano.
// Sin schoolID (SuperAdmin) no hay nada que propagar.
func (d *Dispatcher) SchedulePersist(schoolID string, key entity.DomainKey, value any) {
	if schoolID == "" {
		d.log.Debug().Str("domain", string(key)).Msg("sin escuela en sesión; cambio solo local")
		return
	}
	path := SyncPath(schoolID, key)
	d.Go(string(key), func(ctx context.Context) error {
		_, err := d.remote.Post(ctx, path, value)
		if err != nil {
			d.log.Error().Err(err).Str("domain", string(key)).Str("school_id", schoolID).Msg("error al sincronizar")
		}
		return err
	})
}

// Commit ApplyLocal + SchedulePersist. El error solo refleja la fase local.
func (d *Dispatcher) Commit(schoolID string, key entity.DomainKey, value any) error {
	stored, err := d.ApplyLocal(key, value)
	if err != nil {
		return err
	}
	d.SchedulePersist(schoolID, key, stored)
	return nil
}

// Go ejecuta push en segundo plano con el indicador "syncing" encendido. El indicador
// se apaga MinVisible después de que push termine, con éxito o con error. No hay
// reintentos ni cancelación.
func (d *Dispatcher) Go(label string, push func(ctx context.Context) error) {
	d.syncing.Raise()
	d.wg.Add(2) // push + cola del indicador
	start := d.clock.Now()
	go func() {
		defer d.wg.Done()
		err := push(context.Background())
		if d.observer != nil {
			d.observer.ObserveSync(label, d.clock.Now().Sub(start), err)
		}
		d.clock.AfterFunc(d.minVisible, func() {
			d.syncing.Lower()
			d.wg.Done()
		})
	}()
}

// Wait bloquea hasta que todos los push en curso y sus indicadores hayan terminado.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
