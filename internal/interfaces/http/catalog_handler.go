package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Cotizador-api/internal/application/dto"
	"github.com/jhoicas/Cotizador-api/internal/application/usecase"
)

// CatalogHandler rubros y paquetes de servicio.
type CatalogHandler struct {
	uc *usecase.CatalogUseCase
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(uc *usecase.CatalogUseCase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// ListRubros godoc
// @Summary      Listar rubros
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        service_type  query  string  false  "jardineria | limpieza | mantenimiento | materiales"
// @Success      200  {array}   dto.RubroResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/rubros [get]
func (h *CatalogHandler) ListRubros(c *fiber.Ctx) error {
	out, err := h.uc.ListRubros(c.UserContext(), GetCompanyID(c), c.Query("service_type"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpdateRubro godoc
// @Summary      Ajustar un rubro (admin)
// @Description  El ajuste aplica solo a la empresa del token; el catálogo base no cambia.
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        code  path  string                  true  "Código del rubro"
// @Param        body  body  dto.UpdateRubroRequest  true  "Campos a cambiar"
// @Success      200  {object}  dto.RubroResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/rubros/{code} [put]
func (h *CatalogHandler) UpdateRubro(c *fiber.Ctx) error {
	var in dto.UpdateRubroRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateRubro(c.UserContext(), GetCompanyID(c), c.Params("code"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CreatePackage godoc
// @Summary      Crear paquete de servicio
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePackageRequest  true  "Nombre y líneas"
// @Success      201  {object}  dto.PackageResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/packages [post]
func (h *CatalogHandler) CreatePackage(c *fiber.Ctx) error {
	var in dto.CreatePackageRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.CreatePackage(c.UserContext(), GetCompanyID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListPackages GET /api/packages
func (h *CatalogHandler) ListPackages(c *fiber.Ctx) error {
	out, err := h.uc.ListPackages(c.UserContext(), GetCompanyID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetPackage GET /api/packages/:id
func (h *CatalogHandler) GetPackage(c *fiber.Ctx) error {
	out, err := h.uc.GetPackage(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
