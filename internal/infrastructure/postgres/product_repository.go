package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/Cotizador-api/internal/domain"
	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
	"github.com/jhoicas/Cotizador-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, company_id, default_code, name, list_price, tax_rate, rubro_codes,
	exclude_from_quote, active, created_at, updated_at`

func scanProduct(s scanner) (*entity.Product, error) {
	var p entity.Product
	err := s.Scan(
		&p.ID, &p.CompanyID, &p.DefaultCode, &p.Name, &p.ListPrice, &p.TaxRate, &p.RubroCodes,
		&p.ExcludeFromQuote, &p.Active, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func rubroArray(codes []string) []string {
	if codes == nil {
		return []string{}
	}
	return codes
}

// Create persiste un nuevo producto. default_code es único por empresa cuando no está vacío.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		product.ID, product.CompanyID, product.DefaultCode, product.Name, product.ListPrice, product.TaxRate,
		rubroArray(product.RubroCodes), product.ExcludeFromQuote, product.Active, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetByName obtiene el producto más antiguo de la empresa con ese nombre exacto.
func (r *ProductRepo) GetByName(ctx context.Context, companyID, name string) (*entity.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products WHERE company_id = $1 AND name = $2 ORDER BY created_at LIMIT 1`
	p, err := scanProduct(r.q.QueryRow(ctx, query, companyID, name))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by name: %w", err)
	}
	return p, nil
}

// ListByCompany lista el catálogo ordenado por nombre, con filtros opcionales de rubro y cotizables.
func (r *ProductRepo) ListByCompany(ctx context.Context, companyID string, f repository.ProductFilter) ([]*entity.Product, error) {
	where := []string{"company_id = $1"}
	args := []any{companyID}
	if f.QuotableOnly {
		where = append(where, "active = true", "exclude_from_quote = false")
	}
	if f.RubroCode != "" {
		args = append(args, f.RubroCode)
		where = append(where, fmt.Sprintf("$%d = ANY(rubro_codes)", len(args)), "exclude_from_quote = false")
	}
	lim, off := pageArgs(f.Limit, f.Offset)
	args = append(args, lim, off)
	query := fmt.Sprintf(`
		SELECT %s
		FROM products WHERE %s ORDER BY name, id LIMIT $%d OFFSET $%d`,
		productColumns, strings.Join(where, " AND "), len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Update actualiza un producto.
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	query := `
		UPDATE products SET default_code = $2, name = $3, list_price = $4, tax_rate = $5, rubro_codes = $6,
		       exclude_from_quote = $7, active = $8, updated_at = $9
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		product.ID, product.DefaultCode, product.Name, product.ListPrice, product.TaxRate,
		rubroArray(product.RubroCodes), product.ExcludeFromQuote, product.Active, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
