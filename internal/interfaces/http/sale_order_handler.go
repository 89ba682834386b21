package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Cotizador-api/internal/application/dto"
	"github.com/jhoicas/Cotizador-api/internal/application/sales"
)

// SaleOrderHandler órdenes de venta: importación de cotizaciones, paquetes y envío a Odoo.
type SaleOrderHandler struct {
	uc *sales.SaleOrderUseCase
}

// NewSaleOrderHandler construye el handler.
func NewSaleOrderHandler(uc *sales.SaleOrderUseCase) *SaleOrderHandler {
	return &SaleOrderHandler{uc: uc}
}

// Create godoc
// @Summary      Crear orden de venta
// @Tags         sale-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleOrderRequest  true  "Cliente y nombre"
// @Success      201  {object}  dto.SaleOrderResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/sale-orders [post]
func (h *SaleOrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), GetCompanyID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Get GET /api/sale-orders/:id
func (h *SaleOrderHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List GET /api/sale-orders
func (h *SaleOrderHandler) List(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	out, err := h.uc.List(c.UserContext(), GetCompanyID(c), limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ImportQuote godoc
// @Summary      Importar cotización autorizada a la orden
// @Tags         sale-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID de la orden"
// @Param        body  body  dto.ImportQuoteRequest  true  "quote_id"
// @Success      200  {object}  dto.SaleOrderResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sale-orders/{id}/import-quote [post]
func (h *SaleOrderHandler) ImportQuote(c *fiber.Ctx) error {
	var in dto.ImportQuoteRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.ImportQuote(c.UserContext(), GetCompanyID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ApplyPackage POST /api/sale-orders/:id/apply-package
func (h *SaleOrderHandler) ApplyPackage(c *fiber.Ctx) error {
	var in dto.ApplyPackageRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.ApplyPackage(c.UserContext(), GetCompanyID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// PushToOdoo godoc
// @Summary      Enviar la orden a Odoo
// @Tags         sale-orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.PushOrderResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/sale-orders/{id}/push [post]
func (h *SaleOrderHandler) PushToOdoo(c *fiber.Ctx) error {
	out, err := h.uc.PushToOdoo(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
