package repository

import (
	"context"

	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
)

// RubroRepository catálogo de rubros (sembrado por migración). Cada empresa ve el catálogo
// base con sus propios ajustes de nombre, orden y banderas; companyID vacío devuelve el base.
type RubroRepository interface {
	List(ctx context.Context, companyID string) ([]*entity.Rubro, error)
	GetByCode(ctx context.Context, companyID, code string) (*entity.Rubro, error)
	Update(ctx context.Context, companyID string, rubro *entity.Rubro) error
}
