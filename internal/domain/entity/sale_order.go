package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de línea de orden de venta.
const (
	OrderLineSection = "section"
	OrderLineProduct = "product"
)

// SaleOrder orden de venta local que recibe las cotizaciones exportadas.
type SaleOrder struct {
	ID         string
	CompanyID  string
	CustomerID string
	Name       string
	State      string
	QuoteID    *string // última cotización importada
	ExternalID *int64  // id remoto en Odoo (sale.order)
	Lines      []SaleOrderLine
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// SaleOrderLine línea de la orden. Las secciones solo llevan nombre.
type SaleOrderLine struct {
	ID          string
	OrderID     string
	Sequence    int
	DisplayType string
	Name        string
	ProductID   *string
	Quantity    decimal.Decimal
	PriceUnit   decimal.Decimal
	TaxRate     decimal.Decimal
}

// Subtotal cantidad por precio unitario (cero en secciones).
func (l SaleOrderLine) Subtotal() decimal.Decimal {
	if l.DisplayType == OrderLineSection {
		return decimal.Zero
	}
	return l.Quantity.Mul(l.PriceUnit)
}

// MaxSequence secuencia más alta de la orden (0 si no tiene líneas).
func (o *SaleOrder) MaxSequence() int {
	max := 0
	for _, l := range o.Lines {
		if l.Sequence > max {
			max = l.Sequence
		}
	}
	return max
}
