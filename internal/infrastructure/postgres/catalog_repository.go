package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Cotizador-api/internal/domain"
	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
	"github.com/jhoicas/Cotizador-api/internal/domain/repository"
)

var (
	_ repository.RubroRepository          = (*RubroRepo)(nil)
	_ repository.ServicePackageRepository = (*ServicePackageRepo)(nil)
)

// RubroRepo catálogo de rubros sembrado por la migración 00002, con los ajustes por
// empresa de company_rubros encima.
type RubroRepo struct {
	q Querier
}

// NewRubroRepository construye el adaptador de rubros.
func NewRubroRepository(q Querier) *RubroRepo {
	return &RubroRepo{q: q}
}

const rubroSelect = `
	SELECT r.id, r.code,
	       COALESCE(o.name, r.name), COALESCE(o.sequence, r.sequence),
	       COALESCE(o.apply_garden, r.apply_garden), COALESCE(o.apply_clean, r.apply_clean),
	       COALESCE(o.internal_only, r.internal_only), COALESCE(o.active, r.active)
	FROM rubros r
	LEFT JOIN company_rubros o ON o.code = r.code AND o.company_id::text = $1`

func scanRubro(s scanner) (*entity.Rubro, error) {
	var rb entity.Rubro
	if err := s.Scan(&rb.ID, &rb.Code, &rb.Name, &rb.Sequence, &rb.ApplyGarden, &rb.ApplyClean, &rb.InternalOnly, &rb.Active); err != nil {
		return nil, err
	}
	return &rb, nil
}

// List devuelve los rubros de la empresa por secuencia.
func (r *RubroRepo) List(ctx context.Context, companyID string) ([]*entity.Rubro, error) {
	rows, err := r.q.Query(ctx, rubroSelect+` ORDER BY 4, 3`, companyID)
	if err != nil {
		return nil, fmt.Errorf("list rubros: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Rubro, 0, len(entity.RubroCodes))
	for rows.Next() {
		rb, err := scanRubro(rows)
		if err != nil {
			return nil, fmt.Errorf("scan rubro: %w", err)
		}
		list = append(list, rb)
	}
	return list, rows.Err()
}

// GetByCode obtiene un rubro por código técnico.
func (r *RubroRepo) GetByCode(ctx context.Context, companyID, code string) (*entity.Rubro, error) {
	rb, err := scanRubro(r.q.QueryRow(ctx, rubroSelect+` WHERE r.code = $2`, companyID, code))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get rubro %s: %w", code, err)
	}
	return rb, nil
}

// Update guarda el ajuste de la empresa; el catálogo base no cambia.
func (r *RubroRepo) Update(ctx context.Context, companyID string, rb *entity.Rubro) error {
	if companyID == "" {
		return fmt.Errorf("%w: empresa requerida", domain.ErrInvalidInput)
	}
	query := `
		INSERT INTO company_rubros (company_id, code, name, sequence, apply_garden, apply_clean, internal_only, active)
		SELECT $1, code, $3, $4, $5, $6, $7, $8 FROM rubros WHERE code = $2
		ON CONFLICT (company_id, code) DO UPDATE SET
		       name = EXCLUDED.name, sequence = EXCLUDED.sequence,
		       apply_garden = EXCLUDED.apply_garden, apply_clean = EXCLUDED.apply_clean,
		       internal_only = EXCLUDED.internal_only, active = EXCLUDED.active`
	cmd, err := r.q.Exec(ctx, query, companyID, rb.Code, rb.Name, rb.Sequence, rb.ApplyGarden, rb.ApplyClean, rb.InternalOnly, rb.Active)
	if err != nil {
		return fmt.Errorf("update rubro %s: %w", rb.Code, err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ServicePackageRepo paquetes de servicio con sus líneas en service_package_lines.
type ServicePackageRepo struct {
	q Querier
}

// NewServicePackageRepository construye el adaptador de paquetes.
func NewServicePackageRepository(q Querier) *ServicePackageRepo {
	return &ServicePackageRepo{q: q}
}

// Create inserta la cabecera y las líneas en orden.
func (r *ServicePackageRepo) Create(ctx context.Context, pkg *entity.ServicePackage) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO service_packages (id, company_id, name, created_at) VALUES ($1, $2, $3, $4)`,
		pkg.ID, pkg.CompanyID, pkg.Name, pkg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert package: %w", err)
	}
	for i, l := range pkg.Lines {
		_, err := r.q.Exec(ctx,
			`INSERT INTO service_package_lines (package_id, position, product_id, quantity) VALUES ($1, $2, $3, $4)`,
			pkg.ID, i, l.ProductID, l.Quantity,
		)
		if err != nil {
			if isForeignKeyViolation(err) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("insert package line: %w", err)
		}
	}
	return nil
}

// GetByID obtiene un paquete con sus líneas.
func (r *ServicePackageRepo) GetByID(ctx context.Context, id string) (*entity.ServicePackage, error) {
	var p entity.ServicePackage
	err := r.q.QueryRow(ctx,
		`SELECT id, company_id, name, created_at FROM service_packages WHERE id = $1`, id,
	).Scan(&p.ID, &p.CompanyID, &p.Name, &p.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get package: %w", err)
	}
	if p.Lines, err = r.lines(ctx, p.ID); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListByCompany lista los paquetes en orden de alta, con líneas.
func (r *ServicePackageRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.ServicePackage, error) {
	rows, err := r.q.Query(ctx,
		`SELECT id, company_id, name, created_at FROM service_packages WHERE company_id = $1 ORDER BY created_at, id`,
		companyID,
	)
	if err != nil {
		return nil, fmt.Errorf("list packages: %w", err)
	}
	list := make([]*entity.ServicePackage, 0)
	for rows.Next() {
		var p entity.ServicePackage
		if err := rows.Scan(&p.ID, &p.CompanyID, &p.Name, &p.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan package: %w", err)
		}
		list = append(list, &p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list packages: %w", err)
	}
	// Las líneas se leen después de cerrar rows: dentro de una tx no puede haber dos consultas abiertas.
	for _, p := range list {
		if p.Lines, err = r.lines(ctx, p.ID); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (r *ServicePackageRepo) lines(ctx context.Context, packageID string) ([]entity.ServicePackageLine, error) {
	rows, err := r.q.Query(ctx,
		`SELECT product_id, quantity FROM service_package_lines WHERE package_id = $1 ORDER BY position`,
		packageID,
	)
	if err != nil {
		return nil, fmt.Errorf("list package lines: %w", err)
	}
	defer rows.Close()
	var out []entity.ServicePackageLine
	for rows.Next() {
		var l entity.ServicePackageLine
		if err := rows.Scan(&l.ProductID, &l.Quantity); err != nil {
			return nil, fmt.Errorf("scan package line: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
