package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto cotizable.
type CreateProductRequest struct {
	DefaultCode      string          `json:"default_code"`
	Name             string          `json:"name" validate:"required,min=1,max=200"`
	ListPrice        decimal.Decimal `json:"list_price"`
	TaxRate          decimal.Decimal `json:"tax_rate"`
	RubroCodes       []string        `json:"rubro_codes"`
	ExcludeFromQuote bool            `json:"exclude_from_quote"`
}

// UpdateProductRequest entrada para actualizar un producto (campos opcionales).
type UpdateProductRequest struct {
	Name             *string          `json:"name"`
	ListPrice        *decimal.Decimal `json:"list_price"`
	TaxRate          *decimal.Decimal `json:"tax_rate"`
	RubroCodes       []string         `json:"rubro_codes"`
	ExcludeFromQuote *bool            `json:"exclude_from_quote"`
	Active           *bool            `json:"active"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID               string          `json:"id"`
	CompanyID        string          `json:"company_id"`
	DefaultCode      string          `json:"default_code,omitempty"`
	Name             string          `json:"name"`
	ListPrice        decimal.Decimal `json:"list_price"`
	TaxRate          decimal.Decimal `json:"tax_rate"`
	RubroCodes       []string        `json:"rubro_codes"`
	ExcludeFromQuote bool            `json:"exclude_from_quote"`
	Active           bool            `json:"active"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// RubroResponse rubro del catálogo.
type RubroResponse struct {
	Code         string `json:"code"`
	Name         string `json:"name"`
	Sequence     int    `json:"sequence"`
	ApplyGarden  bool   `json:"apply_garden"`
	ApplyClean   bool   `json:"apply_clean"`
	InternalOnly bool   `json:"internal_only"`
	Active       bool   `json:"active"`
}

// UpdateRubroRequest ajustes editables del rubro (el código es fijo).
type UpdateRubroRequest struct {
	Name         *string `json:"name"`
	Sequence     *int    `json:"sequence"`
	ApplyGarden  *bool   `json:"apply_garden"`
	ApplyClean   *bool   `json:"apply_clean"`
	InternalOnly *bool   `json:"internal_only"`
	Active       *bool   `json:"active"`
}

// PackageLineRequest producto y cantidad de un paquete.
type PackageLineRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// CreatePackageRequest body para POST /api/packages.
type CreatePackageRequest struct {
	Name  string               `json:"name"`
	Lines []PackageLineRequest `json:"lines"`
}

// PackageResponse paquete de servicio.
type PackageResponse struct {
	ID    string               `json:"id"`
	Name  string               `json:"name"`
	Lines []PackageLineRequest `json:"lines"`
}
