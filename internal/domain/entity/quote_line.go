package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tabuladores permitidos (porcentaje de ajuste sobre el precio base).
var Tabulators = []int{0, 3, 5, 10}

// IsTabulator valida el porcentaje del tabulador.
func IsTabulator(p int) bool {
	for _, t := range Tabulators {
		if t == p {
			return true
		}
	}
	return false
}

// QuoteLine partida de una cotización. Los importes se calculan en domain/pricing.
type QuoteLine struct {
	ID               string
	QuoteID          string
	SiteID           *string // nil = sin sitio (se agrupa en General)
	ServiceType      string
	Type             string
	RubroCode        string
	ProductID        string
	ProductName      string
	Quantity         decimal.Decimal
	TabulatorPercent int
	BasePrice        decimal.Decimal // precio de lista del producto al cotizar
	TaxRate          decimal.Decimal // porcentaje
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// InSite compara el sitio de la línea contra siteID (vacío = sin sitio).
func (l *QuoteLine) InSite(siteID string) bool {
	if l.SiteID == nil {
		return siteID == ""
	}
	return *l.SiteID == siteID
}
