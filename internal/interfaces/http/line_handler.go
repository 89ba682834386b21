package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Cotizador-api/internal/application/dto"
	"github.com/jhoicas/Cotizador-api/internal/application/quote"
)

// LineHandler partidas, marcas "Sin contenido" y semáforo de rubros.
type LineHandler struct {
	uc *quote.QuoteUseCase
}

// NewLineHandler construye el handler.
func NewLineHandler(uc *quote.QuoteUseCase) *LineHandler {
	return &LineHandler{uc: uc}
}

// Add godoc
// @Summary      Agregar partida
// @Tags         lines
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID de la cotización"
// @Param        body  body  dto.CreateLineRequest  true  "Rubro, producto, cantidad y tabulador"
// @Success      201  {object}  dto.LineResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/quotes/{id}/lines [post]
func (h *LineHandler) Add(c *fiber.Ctx) error {
	var in dto.CreateLineRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.AddLine(c.UserContext(), GetCompanyID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// AddBulk godoc
// @Summary      Agregar varias partidas de un rubro desde el catálogo
// @Tags         lines
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                true  "ID de la cotización"
// @Param        body  body  dto.BulkLinesRequest  true  "Rubro y productos"
// @Success      201  {array}   dto.LineResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/quotes/{id}/lines/bulk [post]
func (h *LineHandler) AddBulk(c *fiber.Ctx) error {
	var in dto.BulkLinesRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.AddLinesBulk(c.UserContext(), GetCompanyID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar partidas
// @Tags         lines
// @Security     Bearer
// @Produce      json
// @Param        id            path   string  true   "ID de la cotización"
// @Param        site_id       query  string  false  "Sitio"
// @Param        service_type  query  string  false  "Tipo de servicio"
// @Param        rubro_code    query  string  false  "Rubro"
// @Success      200  {array}  dto.LineResponse
// @Router       /api/quotes/{id}/lines [get]
func (h *LineHandler) List(c *fiber.Ctx) error {
	var f dto.LineFilter
	if err := c.QueryParser(&f); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "filtros inválidos"})
	}
	out, err := h.uc.ListLines(c.UserContext(), GetCompanyID(c), c.Params("id"), f)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update PATCH /api/quotes/:id/lines/:lineId
func (h *LineHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateLineRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateLine(c.UserContext(), GetCompanyID(c), c.Params("id"), c.Params("lineId"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete DELETE /api/quotes/:id/lines/:lineId
func (h *LineHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteLine(c.UserContext(), GetCompanyID(c), c.Params("id"), c.Params("lineId")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// FixServiceTypes POST /api/quotes/:id/lines/fix-service-types
func (h *LineHandler) FixServiceTypes(c *fiber.Ctx) error {
	out, err := h.uc.FixServiceTypes(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ─── Sin contenido ───────────────────────────────────────────────────────────

// MarkEmpty godoc
// @Summary      Marcar rubro "Sin contenido"
// @Tags         rubro-states
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string          true  "ID de la cotización"
// @Param        body  body  dto.AckRequest  true  "Rubro; sitio y tipo por defecto los actuales"
// @Success      201  {object}  dto.AckResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/quotes/{id}/acks [post]
func (h *LineHandler) MarkEmpty(c *fiber.Ctx) error {
	var in dto.AckRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.MarkEmpty(c.UserContext(), GetCompanyID(c), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UnmarkEmpty DELETE /api/quotes/:id/acks (mismo cuerpo que el alta).
func (h *LineHandler) UnmarkEmpty(c *fiber.Ctx) error {
	var in dto.AckRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.uc.UnmarkEmpty(c.UserContext(), GetCompanyID(c), c.Params("id"), in); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListAcks GET /api/quotes/:id/acks
func (h *LineHandler) ListAcks(c *fiber.Ctx) error {
	out, err := h.uc.ListAcks(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// RubroStates godoc
// @Summary      Semáforo de rubros del alcance
// @Tags         rubro-states
// @Security     Bearer
// @Produce      json
// @Param        id            path   string  true   "ID de la cotización"
// @Param        site_id       query  string  false  "Sitio (por defecto el actual)"
// @Param        service_type  query  string  false  "Tipo (por defecto el actual)"
// @Success      200  {object}  dto.RubroStatesResponse
// @Router       /api/quotes/{id}/rubro-states [get]
func (h *LineHandler) RubroStates(c *fiber.Ctx) error {
	out, err := h.uc.RubroStates(c.UserContext(), GetCompanyID(c), c.Params("id"), c.Query("site_id"), c.Query("service_type"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
