package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/escolar/internal/application/auth"
	"github.com/jhoicas/escolar/internal/application/dto"
	"github.com/jhoicas/escolar/pkg/logger"
)

// AuthHandler maneja el login de usuarios de escuela y SuperAdmin.
type AuthHandler struct {
	uc  *auth.AuthUseCase
	log *logger.Logger
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase, log *logger.Logger) *AuthHandler {
	return &AuthHandler{uc: uc, log: log}
}

// Login godoc
// @Summary      Iniciar sesión
// @Description  Un rechazo de credenciales responde 200 con success=false y el motivo en message.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "schoolCode, email, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Email == "" || in.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "email y password son requeridos"})
	}
	out, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		return writeErr(c, h.log, err)
	}
	if !out.Success {
		h.log.Info().Str("school_code", in.SchoolCode).Msg("login rechazado")
	}
	return c.JSON(out)
}
