package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Cotizador-api/internal/application/quote"
)

// ReportHandler indicadores, resumen general y documentos de la cotización.
type ReportHandler struct {
	quotes  *quote.QuoteUseCase
	reports *quote.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(quotes *quote.QuoteUseCase, reports *quote.ReportUseCase) *ReportHandler {
	return &ReportHandler{quotes: quotes, reports: reports}
}

// GeneralIndicators godoc
// @Summary      Indicadores generales de la cotización
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la cotización"
// @Success      200  {object}  dto.GeneralIndicatorsResponse
// @Router       /api/quotes/{id}/indicators [get]
func (h *ReportHandler) GeneralIndicators(c *fiber.Ctx) error {
	out, err := h.quotes.GeneralIndicators(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// SiteIndicators godoc
// @Summary      Resumen del sitio
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        id      path  string  true  "ID de la cotización"
// @Param        siteId  path  string  true  "ID del sitio"
// @Success      200  {object}  dto.SiteIndicatorsResponse
// @Router       /api/quotes/{id}/sites/{siteId}/indicators [get]
func (h *ReportHandler) SiteIndicators(c *fiber.Ctx) error {
	out, err := h.quotes.SiteIndicators(c.UserContext(), GetCompanyID(c), c.Params("id"), c.Params("siteId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ServiceIndicators godoc
// @Summary      Indicadores de un tipo de servicio en un sitio
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        id           path  string  true  "ID de la cotización"
// @Param        siteId       path  string  true  "ID del sitio"
// @Param        serviceType  path  string  true  "Tipo de servicio"
// @Success      200  {object}  dto.ServiceIndicatorsResponse
// @Router       /api/quotes/{id}/sites/{siteId}/services/{serviceType}/indicators [get]
func (h *ReportHandler) ServiceIndicators(c *fiber.Ctx) error {
	out, err := h.quotes.ServiceIndicators(c.UserContext(), GetCompanyID(c), c.Params("id"), c.Params("siteId"), c.Params("serviceType"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Summary godoc
// @Summary      Resumen general (rubros × sitios)
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la cotización"
// @Success      200  {object}  dto.SummaryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/quotes/{id}/summary [get]
func (h *ReportHandler) Summary(c *fiber.Ctx) error {
	out, err := h.reports.Summary(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// SummaryXLSX godoc
// @Summary      Resumen general en Excel
// @Tags         reports
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        id   path  string  true  "ID de la cotización"
// @Success      200  {file}  file
// @Router       /api/quotes/{id}/summary.xlsx [get]
func (h *ReportHandler) SummaryXLSX(c *fiber.Ctx) error {
	b, err := h.reports.SummaryXLSX(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Attachment("resumen_" + c.Params("id") + ".xlsx")
	return c.Send(b)
}

// SummaryPDF godoc
// @Summary      Resumen general en PDF
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la cotización"
// @Success      200  {file}  file
// @Router       /api/quotes/{id}/summary.pdf [get]
func (h *ReportHandler) SummaryPDF(c *fiber.Ctx) error {
	b, err := h.reports.SummaryPDF(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Attachment("resumen_" + c.Params("id") + ".pdf")
	return c.Send(b)
}

// QuotePDF godoc
// @Summary      Cotización para el cliente en PDF
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la cotización"
// @Success      200  {file}  file
// @Router       /api/quotes/{id}/pdf [get]
func (h *ReportHandler) QuotePDF(c *fiber.Ctx) error {
	b, err := h.reports.QuotePDF(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Attachment("cotizacion_" + c.Params("id") + ".pdf")
	return c.Send(b)
}
