package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Cotizador-api/internal/application/dto"
	"github.com/jhoicas/Cotizador-api/internal/domain"
	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
	"github.com/jhoicas/Cotizador-api/internal/domain/pricing"
	"github.com/jhoicas/Cotizador-api/internal/domain/repository"
)

// CatalogUseCase rubros y paquetes de servicio.
type CatalogUseCase struct {
	rubros   repository.RubroRepository
	packages repository.ServicePackageRepository
	products repository.ProductRepository
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(rubros repository.RubroRepository, packages repository.ServicePackageRepository, products repository.ProductRepository) *CatalogUseCase {
	return &CatalogUseCase{rubros: rubros, packages: packages, products: products}
}

// ListRubros rubros activos de la empresa ordenados por (secuencia, nombre). Jardinería solo ve
// los rubros que aplican a jardín y limpieza los que aplican a limpieza.
func (uc *CatalogUseCase) ListRubros(ctx context.Context, companyID, serviceType string) ([]dto.RubroResponse, error) {
	if serviceType != "" && !entity.IsServiceType(serviceType) {
		return nil, fmt.Errorf("%w: service_type inválido", domain.ErrInvalidInput)
	}
	list, err := uc.rubros.List(ctx, companyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RubroResponse, 0, len(list))
	for _, r := range pricing.SortRubros(list) {
		if !r.Active {
			continue
		}
		if serviceType == entity.ServiceJardineria && !r.ApplyGarden {
			continue
		}
		if serviceType == entity.ServiceLimpieza && !r.ApplyClean {
			continue
		}
		out = append(out, toRubroResponse(r))
	}
	return out, nil
}

// UpdateRubro ajusta nombre, orden y banderas de un rubro para la empresa. El código no cambia
// y las demás empresas conservan su configuración.
func (uc *CatalogUseCase) UpdateRubro(ctx context.Context, companyID, code string, in dto.UpdateRubroRequest) (*dto.RubroResponse, error) {
	r, err := uc.rubros.GetByCode(ctx, companyID, code)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, fmt.Errorf("%w: rubro", domain.ErrNotFound)
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name no puede ser vacío", domain.ErrInvalidInput)
		}
		r.Name = name
	}
	if in.Sequence != nil {
		r.Sequence = *in.Sequence
	}
	if in.ApplyGarden != nil {
		r.ApplyGarden = *in.ApplyGarden
	}
	if in.ApplyClean != nil {
		r.ApplyClean = *in.ApplyClean
	}
	if in.InternalOnly != nil {
		r.InternalOnly = *in.InternalOnly
	}
	if in.Active != nil {
		r.Active = *in.Active
	}
	if err := uc.rubros.Update(ctx, companyID, r); err != nil {
		return nil, err
	}
	out := toRubroResponse(r)
	return &out, nil
}

// CreatePackage crea un paquete con productos de la empresa.
func (uc *CatalogUseCase) CreatePackage(ctx context.Context, companyID string, in dto.CreatePackageRequest) (*dto.PackageResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name es requerido", domain.ErrInvalidInput)
	}
	if len(in.Lines) == 0 {
		return nil, fmt.Errorf("%w: el paquete requiere al menos un producto", domain.ErrInvalidInput)
	}
	pkg := &entity.ServicePackage{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Name:      name,
		Lines:     make([]entity.ServicePackageLine, 0, len(in.Lines)),
		CreatedAt: time.Now(),
	}
	for _, l := range in.Lines {
		p, err := uc.products.GetByID(ctx, l.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil || p.CompanyID != companyID {
			return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, l.ProductID)
		}
		if !l.Quantity.IsPositive() {
			return nil, fmt.Errorf("%w: quantity debe ser mayor a cero", domain.ErrInvalidInput)
		}
		pkg.Lines = append(pkg.Lines, entity.ServicePackageLine{ProductID: p.ID, Quantity: l.Quantity})
	}
	if err := uc.packages.Create(ctx, pkg); err != nil {
		return nil, err
	}
	return toPackageResponse(pkg), nil
}

// GetPackage obtiene un paquete de la empresa.
func (uc *CatalogUseCase) GetPackage(ctx context.Context, companyID, id string) (*dto.PackageResponse, error) {
	pkg, err := uc.packages.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if pkg == nil || pkg.CompanyID != companyID {
		return nil, fmt.Errorf("%w: paquete", domain.ErrNotFound)
	}
	return toPackageResponse(pkg), nil
}

// ListPackages paquetes de la empresa.
func (uc *CatalogUseCase) ListPackages(ctx context.Context, companyID string) ([]dto.PackageResponse, error) {
	list, err := uc.packages.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PackageResponse, 0, len(list))
	for _, p := range list {
		out = append(out, *toPackageResponse(p))
	}
	return out, nil
}

func toRubroResponse(r *entity.Rubro) dto.RubroResponse {
	return dto.RubroResponse{
		Code:         r.Code,
		Name:         r.Name,
		Sequence:     r.Sequence,
		ApplyGarden:  r.ApplyGarden,
		ApplyClean:   r.ApplyClean,
		InternalOnly: r.InternalOnly,
		Active:       r.Active,
	}
}

func toPackageResponse(p *entity.ServicePackage) *dto.PackageResponse {
	out := &dto.PackageResponse{ID: p.ID, Name: p.Name, Lines: make([]dto.PackageLineRequest, 0, len(p.Lines))}
	for _, l := range p.Lines {
		out.Lines = append(out.Lines, dto.PackageLineRequest{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	return out
}
