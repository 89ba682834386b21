package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
)

// Errores propios del cotizador.
var (
	ErrQuoteLocked      = errors.New("la cotización autorizada o cancelada no admite cambios")
	ErrRubrosPendientes = errors.New("Aún hay rubros en ROJO para el sitio/tipo actuales. Completa líneas o marca explícitamente como 'Sin contenido'.")
	ErrPartnerMismatch  = errors.New("el cliente de la orden no coincide con el de la cotización")
)
