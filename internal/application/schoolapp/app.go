// Package schoolapp arma la capa de sesión y sincronización y expone la interfaz que
// consume la presentación: por dominio un par (valor actual, setter), login/logout,
// el directorio de escuelas y los indicadores loading/syncing.
package schoolapp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/juju/clock"

	"github.com/jhoicas/escolar/internal/application/directory"
	"github.com/jhoicas/escolar/internal/application/dispatch"
	"github.com/jhoicas/escolar/internal/application/ports"
	"github.com/jhoicas/escolar/internal/application/session"
	"github.com/jhoicas/escolar/internal/application/state"
	"github.com/jhoicas/escolar/internal/application/status"
	"github.com/jhoicas/escolar/internal/domain"
	"github.com/jhoicas/escolar/internal/domain/entity"
	"github.com/jhoicas/escolar/pkg/logger"
)

// Config opciones de armado.
type Config struct {
	MinVisible time.Duration
	Clock      clock.Clock
	Observer   dispatch.Observer
}

// App estado de la aplicación cliente.
type App struct {
	store      *state.Store
	sessions   *session.Manager
	directory  *directory.Cache
	dispatcher *dispatch.Dispatcher
	log        *logger.Logger

	loading status.Flag
	syncing status.Flag

	mu         sync.RWMutex
	connErr    string
	loginErr   string
	bootstrapd bool
}

// New arma todos los componentes sobre un único RemoteStore.
func New(remote ports.RemoteStore, cfg Config, log *logger.Logger) *App {
	if log == nil {
		log = logger.Nop()
	}
	a := &App{log: log.Component("app")}
	a.store = state.NewStore(remote, log)
	a.dispatcher = dispatch.New(a.store, remote, &a.syncing, dispatch.Config{
		MinVisible: cfg.MinVisible,
		Clock:      cfg.Clock,
		Observer:   cfg.Observer,
	}, log)
	a.directory = directory.New(remote, a.dispatcher, log)
	a.sessions = session.NewManager(remote, a.store, &a.loading, log)
	return a
}

// ── Ciclo de vida ────────────────────────────────────────────────────────────

// Bootstrap carga el directorio de escuelas con loading encendido. Un fallo queda
// como connectionError hasta el próximo Bootstrap exitoso.
func (a *App) Bootstrap(ctx context.Context) error {
	a.loading.Raise()
	defer a.loading.Lower()

	_, err := a.directory.Bootstrap(ctx)
	a.mu.Lock()
	defer a.mu.Unlock()
	if err != nil {
		a.connErr = domain.MsgBootstrapFailed
		return err
	}
	a.connErr = ""
	a.bootstrapd = true
	return nil
}

// RetryBootstrap reintento manual tras un fallo de bootstrap.
func (a *App) RetryBootstrap(ctx context.Context) error {
	a.log.Info().Msg("reintentando bootstrap")
	return a.Bootstrap(ctx)
}

// Ready informa si el directorio está disponible (bootstrap exitoso).
func (a *App) Ready() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.bootstrapd
}

// Wait espera a que terminen las sincronizaciones en curso.
func (a *App) Wait() { a.dispatcher.Wait() }

// ── Sesión ───────────────────────────────────────────────────────────────────

// Login inicia sesión. Un *domain.AuthError queda además como loginError.
func (a *App) Login(ctx context.Context, accessCode, email, password string) (*entity.User, error) {
	a.setLoginError("")
	u, err := a.sessions.Login(ctx, accessCode, email, password)
	if err != nil {
		var ae *domain.AuthError
		if errors.As(err, &ae) {
			a.setLoginError(ae.Message)
		}
		return nil, err
	}
	return u, nil
}

// Logout cierra la sesión y vacía los dominios.
func (a *App) Logout() {
	a.sessions.Logout()
	a.setLoginError("")
}

// Reload recarga los dominios de la escuela actual.
func (a *App) Reload(ctx context.Context) error { return a.sessions.Reload(ctx) }

// CurrentUser identidad de la sesión.
func (a *App) CurrentUser() (*entity.User, bool) { return a.sessions.Current() }

// Session sesión actual con su ID.
func (a *App) Session() (session.Session, bool) { return a.sessions.Session() }

func (a *App) setLoginError(msg string) {
	a.mu.Lock()
	a.loginErr = msg
	a.mu.Unlock()
}

// ── Indicadores ──────────────────────────────────────────────────────────────

func (a *App) Loading() bool { return a.loading.On() }

func (a *App) Syncing() bool { return a.syncing.On() }

func (a *App) ConnectionError() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.connErr
}

func (a *App) LoginError() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.loginErr
}

// ── Directorio de escuelas ───────────────────────────────────────────────────

func (a *App) Schools() []entity.School { return a.directory.Schools() }

// UpdateSchools reemplaza el directorio y lo sincroniza en segundo plano.
func (a *App) UpdateSchools(list []entity.School) error { return a.directory.Update(list) }

// ── Dominios ─────────────────────────────────────────────────────────────────

// Domain valor actual de un dominio.
func (a *App) Domain(key entity.DomainKey) (any, error) { return a.store.Get(key) }

// Set setter genérico: aplica localmente y sincroniza con la escuela de la sesión.
func (a *App) Set(key entity.DomainKey, value any) error {
	if key == entity.DomainUsers {
		if err := validateUsers(value); err != nil {
			return err
		}
	}
	return a.dispatcher.Commit(a.sessions.SchoolID(), key, value)
}

func validateUsers(value any) error {
	switch v := value.(type) {
	case []entity.User:
		return entity.ValidateUsers(v)
	case json.RawMessage:
		var users []entity.User
		if err := json.Unmarshal(v, &users); err != nil {
			return fmt.Errorf("%w: users: %v", domain.ErrInvalidInput, err)
		}
		return entity.ValidateUsers(users)
	}
	return nil
}

func (a *App) Users() []entity.User { return a.store.Users() }
func (a *App) Students() []entity.Student { return a.store.Students() }
func (a *App) AcademicYears() []entity.AcademicYear { return a.store.AcademicYears() }
func (a *App) Settings() entity.SchoolSettings { return a.store.Settings() }
func (a *App) Financial() entity.FinancialSettings { return a.store.Financial() }
func (a *App) Turmas() []entity.Turma { return a.store.Turmas() }
func (a *App) Expenses() []entity.ExpenseRecord { return a.store.Expenses() }
func (a *App) Topics() []entity.DiscussionTopic { return a.store.Topics() }
func (a *App) Messages() []entity.DiscussionMessage { return a.store.Messages() }
func (a *App) Notifications() []entity.Notification { return a.store.Notifications() }
func (a *App) Requests() []entity.SchoolRequest { return a.store.Requests() }
func (a *App) RawDomain(key entity.DomainKey) (json.RawMessage, error) { return a.store.Raw(key) }

func (a *App) SetUsers(v []entity.User) error { return a.Set(entity.DomainUsers, v) }

func (a *App) SetStudents(v []entity.Student) error { return a.Set(entity.DomainStudents, v) }

func (a *App) SetAcademicYears(v []entity.AcademicYear) error {
	return a.Set(entity.DomainAcademicYears, v)
}

func (a *App) SetSettings(v entity.SchoolSettings) error { return a.Set(entity.DomainSettings, v) }

func (a *App) SetFinancial(v entity.FinancialSettings) error {
	return a.Set(entity.DomainFinancial, v)
}

func (a *App) SetTurmas(v []entity.Turma) error { return a.Set(entity.DomainTurmas, v) }

func (a *App) SetExpenses(v []entity.ExpenseRecord) error { return a.Set(entity.DomainExpenses, v) }

func (a *App) SetTopics(v []entity.DiscussionTopic) error { return a.Set(entity.DomainTopics, v) }

func (a *App) SetMessages(v []entity.DiscussionMessage) error {
	return a.Set(entity.DomainMessages, v)
}

func (a *App) SetNotifications(v []entity.Notification) error {
	return a.Set(entity.DomainNotifications, v)
}

func (a *App) SetRequests(v []entity.SchoolRequest) error { return a.Set(entity.DomainRequests, v) }

// ClearStudents vacía la lista de estudiantes y sincroniza la lista vacía.
func (a *App) ClearStudents() error { return a.SetStudents([]entity.Student{}) }

// AddNotifications antepone added (más nuevas primero) y sincroniza la colección completa.
func (a *App) AddNotifications(added []entity.Notification) []entity.Notification {
	merged := a.store.AppendNotifications(added)
	a.dispatcher.SchedulePersist(a.sessions.SchoolID(), entity.DomainNotifications, merged)
	return merged
}

// MarkNotificationRead marca una notificación como leída y sincroniza la colección completa.
func (a *App) MarkNotificationRead(id string) []entity.Notification {
	updated := a.store.MarkNotificationRead(id)
	a.dispatcher.SchedulePersist(a.sessions.SchoolID(), entity.DomainNotifications, updated)
	return updated
}
