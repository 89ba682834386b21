package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateQuoteRequest body para POST /api/quotes.
type CreateQuoteRequest struct {
	CustomerID          string          `json:"customer_id"`
	UserID              string          `json:"user_id,omitempty"` // responsable; por defecto el usuario del token
	Name                string          `json:"name,omitempty"`
	Currency            string          `json:"currency,omitempty"`
	DisplayMode         string          `json:"display_mode,omitempty"`
	AdminPercent        decimal.Decimal `json:"admin_percent"`
	UtilityPercent      decimal.Decimal `json:"utility_percent"`
	FinancialPercent    decimal.Decimal `json:"financial_percent"`
	TransporteRate      decimal.Decimal `json:"transporte_rate"`
	BienestarRate       decimal.Decimal `json:"bienestar_rate"`
	PrestacionesPercent decimal.Decimal `json:"prestaciones_percent"`
	NoteText            string          `json:"note_text,omitempty"`
}

// UpdateQuoteRequest actualización parcial de cabecera y parámetros.
type UpdateQuoteRequest struct {
	CustomerID          *string          `json:"customer_id"`
	UserID              *string          `json:"user_id"`
	Name                *string          `json:"name"`
	Currency            *string          `json:"currency"`
	DisplayMode         *string          `json:"display_mode"`
	AdminPercent        *decimal.Decimal `json:"admin_percent"`
	UtilityPercent      *decimal.Decimal `json:"utility_percent"`
	FinancialPercent    *decimal.Decimal `json:"financial_percent"`
	TransporteRate      *decimal.Decimal `json:"transporte_rate"`
	BienestarRate       *decimal.Decimal `json:"bienestar_rate"`
	PrestacionesPercent *decimal.Decimal `json:"prestaciones_percent"`
	NoteText            *string          `json:"note_text"`
}

// SetScopeRequest navegación: sitio y tipo de servicio actuales.
type SetScopeRequest struct {
	SiteID      *string `json:"site_id"`
	ServiceType *string `json:"service_type"`
}

// QuoteResponse cabecera de cotización.
type QuoteResponse struct {
	ID                  string          `json:"id"`
	CompanyID           string          `json:"company_id"`
	CustomerID          string          `json:"customer_id"`
	UserID              string          `json:"user_id"`
	Name                string          `json:"name"`
	Currency            string          `json:"currency"`
	DisplayMode         string          `json:"display_mode"`
	AdminPercent        decimal.Decimal `json:"admin_percent"`
	UtilityPercent      decimal.Decimal `json:"utility_percent"`
	FinancialPercent    decimal.Decimal `json:"financial_percent"`
	TransporteRate      decimal.Decimal `json:"transporte_rate"`
	BienestarRate       decimal.Decimal `json:"bienestar_rate"`
	PrestacionesPercent decimal.Decimal `json:"prestaciones_percent"`
	NoteText            string          `json:"note_text,omitempty"`
	CurrentSiteID       *string         `json:"current_site_id"`
	CurrentServiceType  string          `json:"current_service_type,omitempty"`
	CurrentType         string          `json:"current_type"`
	State               string          `json:"state"`
	AuthorizedBy        *string         `json:"authorized_by,omitempty"`
	AuthorizedAt        *time.Time      `json:"authorized_at,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// QuoteListResponse lista paginada de cotizaciones.
type QuoteListResponse struct {
	Items []QuoteResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// SiteRequest alta o edición de un sitio.
type SiteRequest struct {
	Name     string `json:"name"`
	Sequence *int   `json:"sequence"`
	Active   *bool  `json:"active"`
}

// SiteResponse sitio de una cotización.
type SiteResponse struct {
	ID       string `json:"id"`
	QuoteID  string `json:"quote_id"`
	Name     string `json:"name"`
	Sequence int    `json:"sequence"`
	Active   bool   `json:"active"`
}

// CreateLineRequest alta de partida. Sitio y tipo vacíos toman los actuales de la cotización.
type CreateLineRequest struct {
	SiteID           string           `json:"site_id,omitempty"`
	ServiceType      string           `json:"service_type,omitempty"`
	RubroCode        string           `json:"rubro_code"`
	ProductID        string           `json:"product_id"`
	Quantity         *decimal.Decimal `json:"quantity,omitempty"` // omitido: 1
	TabulatorPercent int              `json:"tabulator_percent"`
}

// UpdateLineRequest edición parcial de partida.
type UpdateLineRequest struct {
	SiteID           *string          `json:"site_id"`
	ServiceType      *string          `json:"service_type"`
	RubroCode        *string          `json:"rubro_code"`
	ProductID        *string          `json:"product_id"`
	Quantity         *decimal.Decimal `json:"quantity"`
	TabulatorPercent *int             `json:"tabulator_percent"`
}

// BulkLineItem producto seleccionado desde el catálogo.
type BulkLineItem struct {
	ProductID string           `json:"product_id"`
	Quantity  *decimal.Decimal `json:"quantity,omitempty"`
}

// BulkLinesRequest alta múltiple de partidas de un mismo rubro.
type BulkLinesRequest struct {
	SiteID           string         `json:"site_id,omitempty"`
	ServiceType      string         `json:"service_type,omitempty"`
	RubroCode        string         `json:"rubro_code"`
	TabulatorPercent int            `json:"tabulator_percent"`
	Items            []BulkLineItem `json:"items"`
}

// LineResponse partida con importes calculados.
type LineResponse struct {
	ID               string          `json:"id"`
	QuoteID          string          `json:"quote_id"`
	SiteID           *string         `json:"site_id"`
	ServiceType      string          `json:"service_type"`
	Type             string          `json:"type"`
	RubroCode        string          `json:"rubro_code"`
	ProductID        string          `json:"product_id"`
	ProductName      string          `json:"product_name"`
	Quantity         decimal.Decimal `json:"quantity"`
	TabulatorPercent int             `json:"tabulator_percent"`
	BasePrice        decimal.Decimal `json:"base_price"`
	PriceUnitFinal   decimal.Decimal `json:"price_unit_final"`
	MonthlySubtotal  decimal.Decimal `json:"monthly_subtotal"`
	Prestaciones     decimal.Decimal `json:"prestaciones"`
	TotalPrice       decimal.Decimal `json:"total_price"`
	TaxRate          decimal.Decimal `json:"tax_rate"`
	AmountTax        decimal.Decimal `json:"amount_tax"`
}

// LineFilter filtros del listado de partidas (query string).
type LineFilter struct {
	SiteID      string `query:"site_id"`
	ServiceType string `query:"service_type"`
	RubroCode   string `query:"rubro_code"`
}

// AckRequest marca o desmarca "Sin contenido".
type AckRequest struct {
	SiteID      string `json:"site_id,omitempty"`
	ServiceType string `json:"service_type,omitempty"`
	RubroCode   string `json:"rubro_code"`
}

// AckResponse marca registrada.
type AckResponse struct {
	ID          string `json:"id"`
	SiteID      string `json:"site_id"`
	ServiceType string `json:"service_type"`
	RubroCode   string `json:"rubro_code"`
}

// RubroStateResponse semáforo de un rubro.
type RubroStateResponse struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Count int    `json:"count"`
	State string `json:"state"` // ok | empty | missing
	Color string `json:"color"` // green | amber | red
}

// RubroStatesResponse semáforo del alcance consultado.
type RubroStatesResponse struct {
	SiteID      string               `json:"site_id"`
	ServiceType string               `json:"service_type"`
	HasRed      bool                 `json:"has_red"`
	Rubros      []RubroStateResponse `json:"rubros"`
}

// FixServiceTypesResponse resultado de la corrección de tipos de servicio.
type FixServiceTypesResponse struct {
	Corrected int `json:"corrected"`
}

// TransitionRequest comentario opcional en cambios de estado.
type TransitionRequest struct {
	Comment string `json:"comment,omitempty"`
}
