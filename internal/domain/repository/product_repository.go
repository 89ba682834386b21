package repository

import (
	"context"

	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
)

// ProductFilter filtros del listado de productos.
type ProductFilter struct {
	RubroCode     string // vacío = todos
	QuotableOnly  bool   // activos y no excluidos de cotización
	Limit, Offset int
}

// ProductRepository define el puerto de persistencia para Product.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByName(ctx context.Context, companyID, name string) (*entity.Product, error)
	ListByCompany(ctx context.Context, companyID string, f ProductFilter) ([]*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
}
