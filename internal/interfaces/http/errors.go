package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/Cotizador-api/internal/application/dto"
	"github.com/jhoicas/Cotizador-api/internal/application/quote"
	"github.com/jhoicas/Cotizador-api/internal/application/sales"
	"github.com/jhoicas/Cotizador-api/internal/domain"
)

// PendingScope alcance (sitio, tipo de servicio) con rubros en rojo.
type PendingScope struct {
	SiteID      string `json:"site_id"`
	ServiceType string `json:"service_type"`
}

// PendingRubrosResponse 409 al autorizar con rubros pendientes.
type PendingRubrosResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Scopes  []PendingScope `json:"scopes"`
}

// respondError traduce los errores de dominio a código HTTP y dto.ErrorResponse.
func respondError(c *fiber.Ctx, err error) error {
	var pending *quote.PendingRubrosError
	if errors.As(err, &pending) {
		out := PendingRubrosResponse{Code: "RUBROS_PENDIENTES", Message: pending.Error(), Scopes: make([]PendingScope, 0, len(pending.Scopes))}
		for _, s := range pending.Scopes {
			out.Scopes = append(out.Scopes, PendingScope{SiteID: s.SiteID, ServiceType: s.ServiceType})
		}
		return c.Status(fiber.StatusConflict).JSON(out)
	}

	status, code := fiber.StatusInternalServerError, "INTERNAL"
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		status, code = fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		status, code = fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrDuplicate), errors.Is(err, domain.ErrEmailAlreadyExists):
		status, code = fiber.StatusConflict, "DUPLICATE"
	case errors.Is(err, domain.ErrQuoteLocked):
		status, code = fiber.StatusConflict, "QUOTE_LOCKED"
	case errors.Is(err, domain.ErrPartnerMismatch):
		status, code = fiber.StatusConflict, "PARTNER_MISMATCH"
	case errors.Is(err, domain.ErrConflict):
		status, code = fiber.StatusConflict, "CONFLICT"
	case errors.Is(err, domain.ErrForbidden):
		status, code = fiber.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, domain.ErrUnauthorized):
		status, code = fiber.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, sales.ErrOdooDisabled):
		status, code = fiber.StatusServiceUnavailable, "ODOO_DISABLED"
	}
	if status == fiber.StatusInternalServerError {
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error no controlado")
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

// pageParams lee limit/offset con límite de 100.
func pageParams(c *fiber.Ctx) (limit, offset int) {
	p := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	p.DefaultPage()
	return p.Limit, p.Offset
}
