// Package session implementa el handshake de autenticación y el ciclo de vida de la
// sesión: Anonymous -> Authenticating -> Authenticated, y de vuelta a Anonymous al
// cerrar sesión.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/jhoicas/escolar/internal/application/dto"
	"github.com/jhoicas/escolar/internal/application/ports"
	"github.com/jhoicas/escolar/internal/application/status"
	"github.com/jhoicas/escolar/internal/domain"
	"github.com/jhoicas/escolar/internal/domain/entity"
	"github.com/jhoicas/escolar/pkg/logger"
)

// LoginPath endpoint de autenticación del almacén remoto.
const LoginPath = "/auth/login"

// State estado de la sesión.
type State int

const (
	Anonymous State = iota
	Authenticating
	Authenticated
)

func (s State) String() string {
	switch s {
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	default:
		return "anonymous"
	}
}

// DomainLoader lo que la sesión necesita del store de dominios.
type DomainLoader interface {
	LoadAll(ctx context.Context, schoolID string) error
	Reset()
}

// Session identidad autenticada. ID cambia en cada login y sirve para ligar tokens.
type Session struct {
	ID   string
	User entity.User
}

// Manager dueño de la sesión del proceso.
type Manager struct {
	remote  ports.RemoteStore
	store   DomainLoader
	loading *status.Flag
	log     *logger.Logger

	mu      sync.RWMutex
	state   State
	current *Session
	pending int // logins en curso
}

// settleLocked deriva el estado de los logins en curso y de la sesión actual.
func (m *Manager) settleLocked() {
	switch {
	case m.pending > 0:
		m.state = Authenticating
	case m.current != nil:
		m.state = Authenticated
	default:
		m.state = Anonymous
	}
}

// NewManager construye un Manager anónimo. loading es el indicador global de carga.
func NewManager(remote ports.RemoteStore, store DomainLoader, loading *status.Flag, log *logger.Logger) *Manager {
	if log == nil {
		log = logger.Nop()
	}
	return &Manager{
		remote:  remote,
		store:   store,
		loading: loading,
		log:     log.Component("session"),
	}
}

// Login autentica contra el almacén remoto. accessCode y email se normalizan (trim +
// minúsculas). Un rechazo o un fallo de red devuelve *domain.AuthError y no toca la
// sesión actual. Con éxito la sesión queda Authenticated y los dominios de la
// escuela se cargan antes de volver; errores de carga solo se registran.
func (m *Manager) Login(ctx context.Context, accessCode, email, password string) (*entity.User, error) {
	m.mu.Lock()
	m.pending++
	m.state = Authenticating
	m.mu.Unlock()

	user, err := m.authenticate(ctx, dto.LoginRequest{
		SchoolCode: entity.NormalizeKey(accessCode),
		Email:      entity.NormalizeKey(email),
		Password:   password,
	})
	if err != nil {
		m.mu.Lock()
		m.pending--
		m.settleLocked()
		m.mu.Unlock()
		m.log.Warn().Err(err).Str("school_code", entity.NormalizeKey(accessCode)).Msg("login rechazado")
		return nil, err
	}

	sess := &Session{ID: uuid.NewString(), User: user.WithoutPassword()}
	m.mu.Lock()
	m.current = sess
	m.pending--
	m.settleLocked()
	m.mu.Unlock()

	m.log.Info().Str("user_id", user.ID).Str("school_id", user.SchoolID).Str("role", string(user.Role)).Msg("sesión iniciada")
	m.loadDomains(ctx, sess.User)

	out := sess.User
	return &out, nil
}

func (m *Manager) authenticate(ctx context.Context, req dto.LoginRequest) (*entity.User, error) {
	raw, err := m.remote.Post(ctx, LoginPath, req)
	if err != nil {
		return nil, &domain.AuthError{Message: transportMessage(err), Err: err}
	}

	var resp dto.LoginResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, &domain.AuthError{Message: domain.MsgServerUnreachable, Err: fmt.Errorf("%w: respuesta de login: %v", domain.ErrInvalidInput, err)}
	}
	if !resp.Success || resp.User == nil {
		msg := resp.Message
		if msg == "" {
			msg = domain.MsgInvalidCredentials
		}
		return nil, &domain.AuthError{Message: msg, Err: domain.ErrUnauthorized}
	}
	if err := resp.User.ValidateScope(); err != nil {
		return nil, &domain.AuthError{Message: domain.MsgInvalidCredentials, Err: fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)}
	}
	return resp.User, nil
}

// transportMessage prefiere el mensaje del servidor; sin respuesta HTTP usa el genérico.
func transportMessage(err error) string {
	var re *domain.RemoteError
	if errors.As(err, &re) && re.StatusCode != 0 && re.Message != "" {
		return re.Message
	}
	return domain.MsgServerUnreachable
}

// loadDomains carga los dominios de la escuela con el indicador loading encendido.
// Un SuperAdmin no tiene escuela: el store solo se vacía.
func (m *Manager) loadDomains(ctx context.Context, u entity.User) {
	if u.IsSuperAdmin() {
		m.store.Reset()
		return
	}
	m.loading.Raise()
	defer m.loading.Lower()
	if err := m.store.LoadAll(ctx, u.SchoolID); err != nil {
		m.log.Error().Err(err).Str("school_id", u.SchoolID).Msg("error al cargar datos de la escuela")
	}
}

// Logout cierra la sesión y vacía todos los dominios. Idempotente.
func (m *Manager) Logout() {
	m.mu.Lock()
	had := m.current != nil
	m.current = nil
	m.settleLocked()
	m.mu.Unlock()

	m.store.Reset()
	if had {
		m.log.Info().Msg("sesión cerrada")
	}
}

// Current identidad de la sesión actual.
func (m *Manager) Current() (*entity.User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return nil, false
	}
	u := m.current.User
	return &u, true
}

// Session sesión actual (con su ID).
func (m *Manager) Session() (Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return Session{}, false
	}
	return *m.current, true
}

// State estado actual.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// SchoolID escuela de la sesión ("" si no hay sesión o es SuperAdmin).
func (m *Manager) SchoolID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return ""
	}
	return m.current.User.SchoolID
}

// Reload vuelve a cargar los dominios de la escuela actual (merge-by-presence).
func (m *Manager) Reload(ctx context.Context) error {
	u, ok := m.Current()
	if !ok {
		return domain.ErrNoSession
	}
	if u.IsSuperAdmin() {
		return nil
	}
	m.loading.Raise()
	defer m.loading.Lower()
	if err := m.store.LoadAll(ctx, u.SchoolID); err != nil {
		m.log.Error().Err(err).Str("school_id", u.SchoolID).Msg("error al recargar datos de la escuela")
		return err
	}
	return nil
}
