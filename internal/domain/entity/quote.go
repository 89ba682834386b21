package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de la cotización.
const (
	QuoteStateDraft      = "draft"
	QuoteStateAuthorized = "authorized"
	QuoteStateCancelled  = "cancelled"
)

// Modos de presentación (agrupación en PDF y orden de venta).
const (
	DisplayItemized  = "itemized"   // Resumen
	DisplayByRubro   = "by_rubro"   // Acumulado por rubro
	DisplayTotalOnly = "total_only" // Acumulado General
)

// DefaultQuoteName nombre asignado cuando no se indica uno.
const DefaultQuoteName = "Nueva Cotización"

// Quote cabecera de una cotización de servicios para un cliente.
type Quote struct {
	ID                  string
	CompanyID           string
	CustomerID          string
	UserID              string // responsable
	Name                string
	Currency            string
	DisplayMode         string
	AdminPercent        decimal.Decimal
	UtilityPercent      decimal.Decimal
	FinancialPercent    decimal.Decimal
	TransporteRate      decimal.Decimal // por colaborador
	BienestarRate       decimal.Decimal // por colaborador
	PrestacionesPercent decimal.Decimal
	NoteText            string
	CurrentSiteID       *string
	CurrentServiceType  string
	CurrentType         string
	State               string
	AuthorizedBy        *string
	AuthorizedAt        *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// IsLocked indica si la cotización ya no admite cambios de contenido.
func (q *Quote) IsLocked() bool {
	return q.State == QuoteStateAuthorized || q.State == QuoteStateCancelled
}

// IsDisplayMode valida el modo de presentación.
func IsDisplayMode(m string) bool {
	return m == DisplayItemized || m == DisplayByRubro || m == DisplayTotalOnly
}
