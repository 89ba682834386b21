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
	"github.com/jhoicas/Cotizador-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos cotizables.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Create crea un nuevo producto. Los rubros deben ser del catálogo fijo.
func (uc *ProductUseCase) Create(ctx context.Context, companyID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name es requerido", domain.ErrInvalidInput)
	}
	if in.ListPrice.IsNegative() || in.TaxRate.IsNegative() {
		return nil, fmt.Errorf("%w: precio e impuesto no pueden ser negativos", domain.ErrInvalidInput)
	}
	rubros, err := normalizeRubros(in.RubroCodes)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	product := &entity.Product{
		ID:               uuid.New().String(),
		CompanyID:        companyID,
		DefaultCode:      strings.TrimSpace(in.DefaultCode),
		Name:             name,
		ListPrice:        in.ListPrice,
		TaxRate:          in.TaxRate,
		RubroCodes:       rubros,
		ExcludeFromQuote: in.ExcludeFromQuote,
		Active:           true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto de la empresa.
func (uc *ProductUseCase) GetByID(ctx context.Context, companyID, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil || product.CompanyID != companyID {
		return nil, fmt.Errorf("%w: producto", domain.ErrNotFound)
	}
	return toProductResponse(product), nil
}

// List lista productos. Con rubroCode devuelve el catálogo del cotizador:
// activos, no excluidos y etiquetados con el rubro.
func (uc *ProductUseCase) List(ctx context.Context, companyID, rubroCode string, limit, offset int) (*dto.ProductListResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	if rubroCode != "" && !entity.IsRubroCode(rubroCode) {
		return nil, fmt.Errorf("%w: rubro inválido", domain.ErrInvalidInput)
	}
	list, err := uc.repo.ListByCompany(ctx, companyID, repository.ProductFilter{
		RubroCode:    rubroCode,
		QuotableOnly: rubroCode != "",
		Limit:        limit,
		Offset:       offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{Items: items, Page: dto.PageResponse{Limit: limit, Offset: offset}}, nil
}

// Update actualiza nombre, precio, impuesto, rubros y banderas.
func (uc *ProductUseCase) Update(ctx context.Context, companyID, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil || product.CompanyID != companyID {
		return nil, fmt.Errorf("%w: producto", domain.ErrNotFound)
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name no puede ser vacío", domain.ErrInvalidInput)
		}
		product.Name = name
	}
	if in.ListPrice != nil {
		if in.ListPrice.IsNegative() {
			return nil, fmt.Errorf("%w: precio negativo", domain.ErrInvalidInput)
		}
		product.ListPrice = *in.ListPrice
	}
	if in.TaxRate != nil {
		if in.TaxRate.IsNegative() {
			return nil, fmt.Errorf("%w: impuesto negativo", domain.ErrInvalidInput)
		}
		product.TaxRate = *in.TaxRate
	}
	if in.RubroCodes != nil {
		rubros, err := normalizeRubros(in.RubroCodes)
		if err != nil {
			return nil, err
		}
		product.RubroCodes = rubros
	}
	if in.ExcludeFromQuote != nil {
		product.ExcludeFromQuote = *in.ExcludeFromQuote
	}
	if in.Active != nil {
		product.Active = *in.Active
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// normalizeRubros valida y quita duplicados conservando el orden.
func normalizeRubros(codes []string) ([]string, error) {
	out := make([]string, 0, len(codes))
	seen := make(map[string]bool)
	for _, c := range codes {
		c = strings.TrimSpace(c)
		if !entity.IsRubroCode(c) {
			return nil, fmt.Errorf("%w: rubro desconocido %q", domain.ErrInvalidInput, c)
		}
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	rubros := p.RubroCodes
	if rubros == nil {
		rubros = []string{}
	}
	return &dto.ProductResponse{
		ID:               p.ID,
		CompanyID:        p.CompanyID,
		DefaultCode:      p.DefaultCode,
		Name:             p.Name,
		ListPrice:        p.ListPrice,
		TaxRate:          p.TaxRate,
		RubroCodes:       rubros,
		ExcludeFromQuote: p.ExcludeFromQuote,
		Active:           p.Active,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}
