package http

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/jhoicas/escolar/internal/application/dto"
	"github.com/jhoicas/escolar/internal/application/usecase"
	"github.com/jhoicas/escolar/internal/domain/entity"
	"github.com/jhoicas/escolar/pkg/logger"
)

// SnapshotHandler maneja los snapshots de dominio de cada escuela.
type SnapshotHandler struct {
	uc  *usecase.SnapshotUseCase
	log *logger.Logger
}

// NewSnapshotHandler construye el handler.
func NewSnapshotHandler(uc *usecase.SnapshotUseCase, log *logger.Logger) *SnapshotHandler {
	return &SnapshotHandler{uc: uc, log: log}
}

// FullData godoc
// @Summary      Bundle de dominios de una escuela
// @Description  Solo incluye los dominios sincronizados alguna vez. users no lleva contraseñas.
// @Tags         school
// @Produce      json
// @Param        id   path  string  true  "ID de la escuela"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/school/{id}/full-data [get]
func (h *SnapshotHandler) FullData(c *fiber.Ctx) error {
	bundle, err := h.uc.FullData(c.UserContext(), utils.CopyString(c.Params("id")))
	if err != nil {
		return writeErr(c, h.log, err)
	}
	return c.JSON(bundle)
}

// Sync godoc
// @Summary      Reemplazar el snapshot de un dominio
// @Tags         school
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la escuela"
// @Param        key   path  string  true  "Clave de dominio (users, students, ...)"
// @Success      200   {object}  dto.AckResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/school/{id}/sync/{key} [post]
func (h *SnapshotHandler) Sync(c *fiber.Ctx) error {
	body := c.Body()
	if !json.Valid(body) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo JSON inválido"})
	}
	schoolID, key := pathParams(c)
	// fasthttp reutiliza el buffer del cuerpo.
	payload := append(json.RawMessage(nil), body...)
	if err := h.uc.Sync(c.UserContext(), schoolID, key, payload); err != nil {
		return writeErr(c, h.log, err)
	}
	h.log.Debug().Str("school_id", schoolID).Str("domain", string(key)).Int("bytes", len(payload)).Msg("snapshot guardado")
	return c.JSON(dto.AckResponse{OK: true})
}

// Delete godoc
// @Summary      Eliminar el snapshot de un dominio
// @Tags         school
// @Produce      json
// @Param        id   path  string  true  "ID de la escuela"
// @Param        key  path  string  true  "Clave de dominio"
// @Success      200  {object}  dto.AckResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/school/{id}/data/{key} [delete]
func (h *SnapshotHandler) Delete(c *fiber.Ctx) error {
	schoolID, key := pathParams(c)
	if err := h.uc.Delete(c.UserContext(), schoolID, key); err != nil {
		return writeErr(c, h.log, err)
	}
	return c.JSON(dto.AckResponse{OK: true})
}

// pathParams copia id y key: Fiber los devuelve apuntando al buffer de la petición,
// que se reutiliza en cuanto termina el handler.
func pathParams(c *fiber.Ctx) (string, entity.DomainKey) {
	return utils.CopyString(c.Params("id")), entity.DomainKey(utils.CopyString(c.Params("key")))
}
