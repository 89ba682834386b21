package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateSaleOrderRequest body para POST /api/sale-orders.
type CreateSaleOrderRequest struct {
	CustomerID string `json:"customer_id"`
	Name       string `json:"name,omitempty"`
}

// ImportQuoteRequest body para importar una cotización a la orden.
type ImportQuoteRequest struct {
	QuoteID string `json:"quote_id"`
}

// ApplyPackageRequest body para agregar un paquete de servicio a la orden.
type ApplyPackageRequest struct {
	PackageID string `json:"package_id"`
}

// SaleOrderLineResponse línea de la orden.
type SaleOrderLineResponse struct {
	Sequence    int             `json:"sequence"`
	DisplayType string          `json:"display_type"`
	Name        string          `json:"name"`
	ProductID   *string         `json:"product_id,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	PriceUnit   decimal.Decimal `json:"price_unit"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// SaleOrderResponse orden de venta con totales.
type SaleOrderResponse struct {
	ID            string                  `json:"id"`
	CustomerID    string                  `json:"customer_id"`
	Name          string                  `json:"name"`
	State         string                  `json:"state"`
	QuoteID       *string                 `json:"quote_id,omitempty"`
	ExternalID    *int64                  `json:"external_id,omitempty"`
	Lines         []SaleOrderLineResponse `json:"lines"`
	AmountUntaxed decimal.Decimal         `json:"amount_untaxed"`
	AmountTax     decimal.Decimal         `json:"amount_tax"`
	AmountTotal   decimal.Decimal         `json:"amount_total"`
	CreatedAt     time.Time               `json:"created_at"`
}

// PushOrderResponse resultado del envío a Odoo.
type PushOrderResponse struct {
	OrderID    string `json:"order_id"`
	ExternalID int64  `json:"external_id"`
	Lines      int    `json:"lines"`
}
