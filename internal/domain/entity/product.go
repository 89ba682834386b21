package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o servicio cotizable.
// RubroCodes restringe en qué rubros puede usarse dentro de una cotización.
type Product struct {
	ID               string
	CompanyID        string
	DefaultCode      string // código interno, único por empresa cuando existe
	Name             string
	ListPrice        decimal.Decimal
	TaxRate          decimal.Decimal // porcentaje, ej. 16 = 16%
	RubroCodes       []string
	ExcludeFromQuote bool
	Active           bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// AllowsRubro informa si el producto puede cotizarse bajo el rubro indicado.
func (p *Product) AllowsRubro(code string) bool {
	if p.ExcludeFromQuote {
		return false
	}
	for _, c := range p.RubroCodes {
		if c == code {
			return true
		}
	}
	return false
}
