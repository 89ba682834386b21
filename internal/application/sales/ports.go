package sales

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
	"github.com/jhoicas/Cotizador-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción con los repos de órdenes y productos.
type TxRunner interface {
	RunSales(ctx context.Context, fn func(
		orderRepo repository.SaleOrderRepository,
		productRepo repository.ProductRepository,
	) error) error
}

// OdooOrder orden lista para enviarse a Odoo.
type OdooOrder struct {
	Order    *entity.SaleOrder
	Customer *entity.Customer
	Products map[string]*entity.Product // por ID local
}

// OdooSync envía órdenes de venta a Odoo (sale.order / sale.order.line).
type OdooSync interface {
	PushOrder(ctx context.Context, in OdooOrder) (int64, error)
}

// Config parámetros de exportación.
type Config struct {
	VATRate decimal.Decimal // fracción: 0.16
}
