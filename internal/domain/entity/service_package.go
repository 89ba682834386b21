package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ServicePackage paquete de productos reutilizable para órdenes de venta.
type ServicePackage struct {
	ID        string
	CompanyID string
	Name      string
	Lines     []ServicePackageLine
	CreatedAt time.Time
}

// ServicePackageLine producto y cantidad dentro de un paquete.
type ServicePackageLine struct {
	ProductID string
	Quantity  decimal.Decimal
}
