package repository

import (
	"context"

	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
)

// SaleOrderRepository persistencia de órdenes de venta locales.
// GetByID devuelve la orden con sus líneas ordenadas por secuencia.
type SaleOrderRepository interface {
	Create(ctx context.Context, order *entity.SaleOrder) error
	GetByID(ctx context.Context, id string) (*entity.SaleOrder, error)
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.SaleOrder, error)
	Update(ctx context.Context, order *entity.SaleOrder) error
	AddLines(ctx context.Context, orderID string, lines []entity.SaleOrderLine) error
}

// ServicePackageRepository persistencia de paquetes de servicio.
type ServicePackageRepository interface {
	Create(ctx context.Context, pkg *entity.ServicePackage) error
	GetByID(ctx context.Context, id string) (*entity.ServicePackage, error)
	ListByCompany(ctx context.Context, companyID string) ([]*entity.ServicePackage, error)
}
