// Package facade expone la capa de sesión y sincronización a la presentación local
// sobre HTTP (Fiber).
package facade

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/escolar/internal/application/dto"
	"github.com/jhoicas/escolar/internal/application/schoolapp"
	"github.com/jhoicas/escolar/internal/domain"
	"github.com/jhoicas/escolar/internal/domain/entity"
	"github.com/jhoicas/escolar/pkg/jwt"
	"github.com/jhoicas/escolar/pkg/logger"
)

// JWTConfig configuración de los tokens de sesión.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// Handler maneja las peticiones de la presentación.
type Handler struct {
	app    *schoolapp.App
	jwtCfg JWTConfig
	log    *logger.Logger
}

// NewHandler construye el handler.
func NewHandler(app *schoolapp.App, jwtCfg JWTConfig, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{app: app, jwtCfg: jwtCfg, log: log.Component("facade")}
}

// Status godoc
// @Summary      Estado global (loading, syncing, errores, sesión)
// @Tags         status
// @Produce      json
// @Success      200  {object}  dto.StatusResponse
// @Router       /api/status [get]
func (h *Handler) Status(c *fiber.Ctx) error {
	out := dto.StatusResponse{
		Loading:         h.app.Loading(),
		Syncing:         h.app.Syncing(),
		ConnectionError: h.app.ConnectionError(),
		LoginError:      h.app.LoginError(),
	}
	if u, ok := h.app.CurrentUser(); ok {
		out.Authenticated = true
		out.User = u
	}
	return c.JSON(out)
}

// RetryBootstrap godoc
// @Summary      Reintentar la carga del directorio de escuelas
// @Tags         status
// @Produce      json
// @Success      200  {object}  dto.StatusResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/bootstrap/retry [post]
func (h *Handler) RetryBootstrap(c *fiber.Ctx) error {
	if err := h.app.RetryBootstrap(c.UserContext()); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "BOOTSTRAP_FAILED", Message: h.app.ConnectionError()})
	}
	return h.Status(c)
}

// RequireBootstrap responde 503 mientras el directorio de escuelas no esté disponible.
func (h *Handler) RequireBootstrap(c *fiber.Ctx) error {
	if !h.app.Ready() {
		msg := h.app.ConnectionError()
		if msg == "" {
			msg = domain.MsgBootstrapFailed
		}
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "BOOTSTRAP_FAILED", Message: msg})
	}
	return c.Next()
}

// Login godoc
// @Summary      Iniciar sesión (código de escuela + email + contraseña)
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "schoolCode, email, password"
// @Success      200   {object}  dto.SessionResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/login [post]
func (h *Handler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Email == "" || in.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "email y password son requeridos"})
	}
	user, err := h.app.Login(c.UserContext(), in.SchoolCode, in.Email, in.Password)
	if err != nil {
		var ae *domain.AuthError
		if errors.As(err, &ae) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "LOGIN_FAILED", Message: ae.Message})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	sess, ok := h.app.Session()
	if !ok {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "SESSION_CLOSED", Message: "la sesión se cerró durante el login"})
	}
	token, err := jwt.Generate(h.jwtCfg.Secret, user.ID, user.SchoolID, string(user.Role), sess.ID, h.jwtCfg.Issuer, h.jwtCfg.ExpMinutes)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.SessionResponse{Token: token, User: *user})
}

// Logout godoc
// @Summary      Cerrar sesión
// @Tags         session
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.AckResponse
// @Router       /api/logout [post]
func (h *Handler) Logout(c *fiber.Ctx) error {
	h.app.Logout()
	return c.JSON(dto.AckResponse{OK: true})
}

// Reload godoc
// @Summary      Recargar los datos de la escuela actual
// @Tags         session
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.AckResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/reload [post]
func (h *Handler) Reload(c *fiber.Ctx) error {
	if err := h.app.Reload(c.UserContext()); err != nil {
		if errors.Is(err, domain.ErrNoSession) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "NO_SESSION", Message: err.Error()})
		}
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "RELOAD_FAILED", Message: err.Error()})
	}
	return c.JSON(dto.AckResponse{OK: true})
}

// GetDomain godoc
// @Summary      Valor actual de un dominio
// @Tags         domains
// @Security     Bearer
// @Produce      json
// @Param        key  path  string  true  "users, students, academic_years, settings, financial, turmas, expenses, topics, messages, notifications, requests"
// @Success      200  {object}  object
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/domains/{key} [get]
func (h *Handler) GetDomain(c *fiber.Ctx) error {
	key, err := entity.ParseDomainKey(c.Params("key"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "UNKNOWN_DOMAIN", Message: err.Error()})
	}
	return h.sendDomain(c, key)
}

// PutDomain godoc
// @Summary      Reemplazar un dominio (aplica localmente y sincroniza en segundo plano)
// @Tags         domains
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        key   path  string  true  "clave del dominio"
// @Param        body  body  object  true  "snapshot completo del dominio"
// @Success      200   {object}  object
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/domains/{key} [put]
func (h *Handler) PutDomain(c *fiber.Ctx) error {
	key, err := entity.ParseDomainKey(c.Params("key"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "UNKNOWN_DOMAIN", Message: err.Error()})
	}
	body := append([]byte(nil), c.Body()...) // fiber reutiliza el buffer
	if !json.Valid(body) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.app.Set(key, json.RawMessage(body)); err != nil {
		return h.writeErr(c, err)
	}
	return h.sendDomain(c, key)
}

// ClearStudents godoc
// @Summary      Vaciar la lista de estudiantes
// @Tags         domains
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.AckResponse
// @Router       /api/domains/students [delete]
func (h *Handler) ClearStudents(c *fiber.Ctx) error {
	if err := h.app.ClearStudents(); err != nil {
		return h.writeErr(c, err)
	}
	return c.JSON(dto.AckResponse{OK: true})
}

// AddNotifications godoc
// @Summary      Agregar notificaciones (las nuevas quedan primero)
// @Tags         notifications
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  []entity.Notification  true  "notificaciones nuevas"
// @Success      200   {array}   entity.Notification
// @Router       /api/notifications [post]
func (h *Handler) AddNotifications(c *fiber.Ctx) error {
	var added []entity.Notification
	if err := c.BodyParser(&added); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	now := time.Now().UTC().Format(time.RFC3339)
	for i := range added {
		if added[i].ID == "" {
			added[i].ID = uuid.NewString()
		}
		if added[i].Timestamp == "" {
			added[i].Timestamp = now
		}
	}
	return c.JSON(h.app.AddNotifications(added))
}

// MarkNotificationRead godoc
// @Summary      Marcar una notificación como leída
// @Tags         notifications
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la notificación"
// @Success      200  {array}   entity.Notification
// @Router       /api/notifications/{id}/read [post]
func (h *Handler) MarkNotificationRead(c *fiber.Ctx) error {
	return c.JSON(h.app.MarkNotificationRead(c.Params("id")))
}

// ListSchools godoc
// @Summary      Directorio de escuelas
// @Tags         schools
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  entity.School
// @Router       /api/schools [get]
func (h *Handler) ListSchools(c *fiber.Ctx) error {
	return c.JSON(h.app.Schools())
}

// ReplaceSchools godoc
// @Summary      Reemplazar el directorio de escuelas (SuperAdmin)
// @Tags         schools
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  []entity.School  true  "directorio completo"
// @Success      200   {array}   entity.School
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/schools [put]
func (h *Handler) ReplaceSchools(c *fiber.Ctx) error {
	var list []entity.School
	if err := c.BodyParser(&list); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.app.UpdateSchools(list); err != nil {
		return h.writeErr(c, err)
	}
	return c.JSON(h.app.Schools())
}

func (h *Handler) sendDomain(c *fiber.Ctx, key entity.DomainKey) error {
	raw, err := h.app.RawDomain(key)
	if err != nil {
		return h.writeErr(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(raw)
}

func (h *Handler) writeErr(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()})
	case errors.Is(err, domain.ErrUnknownDomain):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "UNKNOWN_DOMAIN", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	h.log.Error().Err(err).Str("path", c.Path()).Msg("error no esperado")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
