package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Cotizador-api/internal/application/dto"
	"github.com/jhoicas/Cotizador-api/internal/application/quote"
)

// QuoteHandler cabecera, flujo de estados y sitios de la cotización.
type QuoteHandler struct {
	uc *quote.QuoteUseCase
}

// NewQuoteHandler construye el handler.
func NewQuoteHandler(uc *quote.QuoteUseCase) *QuoteHandler {
	return &QuoteHandler{uc: uc}
}

// Create godoc
// @Summary      Crear cotización
// @Description  Crea la cotización con el sitio "General" como sitio actual.
// @Tags         quotes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateQuoteRequest  true  "Cliente y parámetros"
// @Success      201  {object}  dto.QuoteResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/quotes [post]
func (h *QuoteHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateQuoteRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), GetCompanyID(c), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Get godoc
// @Summary      Obtener cotización
// @Tags         quotes
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la cotización"
// @Success      200  {object}  dto.QuoteResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/quotes/{id} [get]
func (h *QuoteHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar cotizaciones
// @Tags         quotes
// @Security     Bearer
// @Produce      json
// @Param        customer_id  query  string  false  "Filtrar por cliente"
// @Param        limit        query  int     false  "Límite"  default(20)
// @Param        offset       query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.QuoteListResponse
// @Router       /api/quotes [get]
func (h *QuoteHandler) List(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	out, err := h.uc.List(c.UserContext(), GetCompanyID(c), c.Query("customer_id"), limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar cabecera y parámetros
// @Tags         quotes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID de la cotización"
// @Param        body  body  dto.UpdateQuoteRequest  true  "Campos a cambiar"
// @Success      200  {object}  dto.QuoteResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/quotes/{id} [patch]
func (h *QuoteHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateQuoteRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), GetCompanyID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// SetScope godoc
// @Summary      Cambiar sitio y tipo de servicio actuales
// @Tags         quotes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID de la cotización"
// @Param        body  body  dto.SetScopeRequest  true  "site_id, service_type"
// @Success      200  {object}  dto.QuoteResponse
// @Router       /api/quotes/{id}/scope [put]
func (h *QuoteHandler) SetScope(c *fiber.Ctx) error {
	var in dto.SetScopeRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.SetScope(c.UserContext(), GetCompanyID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Authorize godoc
// @Summary      Autorizar cotización (admin, autorizador)
// @Tags         quotes
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la cotización"
// @Success      200  {object}  dto.QuoteResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  PendingRubrosResponse
// @Router       /api/quotes/{id}/authorize [post]
func (h *QuoteHandler) Authorize(c *fiber.Ctx) error {
	out, err := h.uc.Authorize(c.UserContext(), GetCompanyID(c), GetUserID(c), GetRole(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Reopen godoc
// @Summary      Regresar a borrador (admin)
// @Tags         quotes
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la cotización"
// @Success      200  {object}  dto.QuoteResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/quotes/{id}/reopen [post]
func (h *QuoteHandler) Reopen(c *fiber.Ctx) error {
	out, err := h.uc.Reopen(c.UserContext(), GetCompanyID(c), GetRole(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Cancelar cotización en borrador
// @Tags         quotes
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la cotización"
// @Success      200  {object}  dto.QuoteResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/quotes/{id}/cancel [post]
func (h *QuoteHandler) Cancel(c *fiber.Ctx) error {
	out, err := h.uc.Cancel(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ─── Sitios ──────────────────────────────────────────────────────────────────

// CreateSite godoc
// @Summary      Agregar sitio
// @Tags         sites
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string           true  "ID de la cotización"
// @Param        body  body  dto.SiteRequest  true  "Nombre y secuencia"
// @Success      201  {object}  dto.SiteResponse
// @Router       /api/quotes/{id}/sites [post]
func (h *QuoteHandler) CreateSite(c *fiber.Ctx) error {
	var in dto.SiteRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.CreateSite(c.UserContext(), GetCompanyID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListSites GET /api/quotes/:id/sites
func (h *QuoteHandler) ListSites(c *fiber.Ctx) error {
	out, err := h.uc.ListSites(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpdateSite PUT /api/quotes/:id/sites/:siteId
func (h *QuoteHandler) UpdateSite(c *fiber.Ctx) error {
	var in dto.SiteRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateSite(c.UserContext(), GetCompanyID(c), c.Params("id"), c.Params("siteId"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// DeleteSite DELETE /api/quotes/:id/sites/:siteId. Las partidas del sitio pasan a General.
func (h *QuoteHandler) DeleteSite(c *fiber.Ctx) error {
	if err := h.uc.DeleteSite(c.UserContext(), GetCompanyID(c), c.Params("id"), c.Params("siteId")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// EnsureGeneralSite POST /api/quotes/:id/sites/general: unifica sitios "General" duplicados.
func (h *QuoteHandler) EnsureGeneralSite(c *fiber.Ctx) error {
	out, err := h.uc.EnsureGeneralSite(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
