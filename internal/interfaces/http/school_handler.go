package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/escolar/internal/application/dto"
	"github.com/jhoicas/escolar/internal/application/usecase"
	"github.com/jhoicas/escolar/internal/domain/entity"
	"github.com/jhoicas/escolar/pkg/logger"
)

// SchoolHandler maneja el directorio de escuelas.
type SchoolHandler struct {
	uc  *usecase.SchoolUseCase
	log *logger.Logger
}

// NewSchoolHandler construye el handler inyectando el caso de uso.
func NewSchoolHandler(uc *usecase.SchoolUseCase, log *logger.Logger) *SchoolHandler {
	return &SchoolHandler{uc: uc, log: log}
}

// List godoc
// @Summary      Listar escuelas
// @Tags         schools
// @Produce      json
// @Success      200  {array}   entity.School
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/schools [get]
func (h *SchoolHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.UserContext())
	if err != nil {
		return writeErr(c, h.log, err)
	}
	return c.JSON(list)
}

// Sync godoc
// @Summary      Reemplazar el directorio de escuelas
// @Description  Inserta o actualiza cada escuela de la lista; las ausentes se conservan.
// @Tags         schools
// @Accept       json
// @Produce      json
// @Param        body  body  []entity.School  true  "Directorio completo"
// @Success      200   {object}  dto.AckResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/schools/sync [post]
func (h *SchoolHandler) Sync(c *fiber.Ctx) error {
	var in []entity.School
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "se esperaba una lista de escuelas"})
	}
	out, err := h.uc.ReplaceAll(c.UserContext(), in)
	if err != nil {
		return writeErr(c, h.log, err)
	}
	h.log.Info().Int("received", len(in)).Int("total", len(out)).Msg("directorio actualizado")
	return c.JSON(dto.AckResponse{OK: true})
}
