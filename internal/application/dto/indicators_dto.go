package dto

import "github.com/shopspring/decimal"

// Amount importe con su valor por persona.
type Amount struct {
	Value     decimal.Decimal `json:"value"`
	PerPerson decimal.Decimal `json:"per_person"`
}

// GeneralIndicatorsResponse indicadores de toda la cotización.
type GeneralIndicatorsResponse struct {
	TotalElementos       int             `json:"total_elementos"`
	CostoMensual         decimal.Decimal `json:"costo_mensual"`
	PersonalRequerido    int             `json:"personal_requerido"`
	PorcentajeCompletado decimal.Decimal `json:"porcentaje_completado"`
}

// SiteIndicatorsResponse "Resumen del Sitio".
type SiteIndicatorsResponse struct {
	SiteID          string            `json:"site_id"`
	SiteName        string            `json:"site_name"`
	Colaboradores   int               `json:"colaboradores"`
	Rubros          map[string]Amount `json:"rubros"`
	Subtotal1       Amount            `json:"subtotal_1"`
	Administracion  Amount            `json:"administracion"`
	Utilidad        Amount            `json:"utilidad"`
	Subtotal2       Amount            `json:"subtotal_2"`
	Transporte      Amount            `json:"transporte"`
	Bienestar       Amount            `json:"bienestar"`
	CostoFinanciero Amount            `json:"costo_financiero"`
	TotalAntesIVA   Amount            `json:"total_antes_iva"`
	IVA             Amount            `json:"iva"`
	TotalConIVA     Amount            `json:"total_con_iva"`
	OtrosRubros     Amount            `json:"otros_rubros"`
	// Campos heredados para integraciones previas.
	CostoMensual  decimal.Decimal `json:"costo_mensual"`
	PersonalTotal int             `json:"personal_total"`
}

// ServiceIndicatorsResponse resumen por sitio y tipo de servicio.
type ServiceIndicatorsResponse struct {
	SiteID              string            `json:"site_id"`
	ServiceType         string            `json:"service_type"`
	Colaboradores       int               `json:"colaboradores"`
	PrestacionesPercent decimal.Decimal   `json:"prestaciones_percent"`
	SueldoBruto         Amount            `json:"sueldo_bruto"`
	Prestaciones        Amount            `json:"prestaciones"`
	Rubros              map[string]Amount `json:"rubros"`
	Total               Amount            `json:"total"`
}

// SummaryRowResponse fila del resumen general.
type SummaryRowResponse struct {
	Code   string            `json:"code"`
	Label  string            `json:"label"`
	Kind   string            `json:"kind"`
	Values []decimal.Decimal `json:"values"`
	Total  decimal.Decimal   `json:"total"`
}

// SummaryResponse matriz rubros × sitios.
type SummaryResponse struct {
	QuoteID  string               `json:"quote_id"`
	Customer string               `json:"customer"`
	Currency string               `json:"currency"`
	Columns  []string             `json:"columns"`
	Rows     []SummaryRowResponse `json:"rows"`
}
