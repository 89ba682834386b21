package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jhoicas/Cotizador-api/internal/domain"
	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
	"github.com/jhoicas/Cotizador-api/internal/domain/repository"
)

var _ repository.SaleOrderRepository = (*SaleOrderRepo)(nil)

// SaleOrderRepo órdenes de venta locales y sus líneas.
type SaleOrderRepo struct {
	q Querier
}

// NewSaleOrderRepository construye el adaptador de órdenes. Pasar pool o tx.
func NewSaleOrderRepository(q Querier) *SaleOrderRepo {
	return &SaleOrderRepo{q: q}
}

const orderColumns = `id, company_id, customer_id, name, state, quote_id, external_id, created_at, updated_at`

func scanOrder(s scanner) (*entity.SaleOrder, error) {
	var o entity.SaleOrder
	err := s.Scan(&o.ID, &o.CompanyID, &o.CustomerID, &o.Name, &o.State, &o.QuoteID, &o.ExternalID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Create persiste la cabecera y, si las trae, sus líneas.
func (r *SaleOrderRepo) Create(ctx context.Context, o *entity.SaleOrder) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO sale_orders (`+orderColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		o.ID, o.CompanyID, o.CustomerID, o.Name, o.State, o.QuoteID, o.ExternalID, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert sale order: %w", err)
	}
	if len(o.Lines) > 0 {
		return r.AddLines(ctx, o.ID, o.Lines)
	}
	return nil
}

// GetByID obtiene la orden con sus líneas ordenadas por secuencia.
func (r *SaleOrderRepo) GetByID(ctx context.Context, id string) (*entity.SaleOrder, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, `SELECT `+orderColumns+` FROM sale_orders WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale order: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT id, order_id, sequence, display_type, name, product_id, quantity, price_unit, tax_rate
		FROM sale_order_lines WHERE order_id = $1 ORDER BY sequence, id`, id)
	if err != nil {
		return nil, fmt.Errorf("list sale order lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.SaleOrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.Sequence, &l.DisplayType, &l.Name, &l.ProductID, &l.Quantity, &l.PriceUnit, &l.TaxRate); err != nil {
			return nil, fmt.Errorf("scan sale order line: %w", err)
		}
		o.Lines = append(o.Lines, l)
	}
	return o, rows.Err()
}

// ListByCompany lista cabeceras (sin líneas), más recientes primero.
func (r *SaleOrderRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.SaleOrder, error) {
	lim, off := pageArgs(limit, offset)
	query := `
		SELECT ` + orderColumns + `
		FROM sale_orders WHERE company_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, companyID, lim, off)
	if err != nil {
		return nil, fmt.Errorf("list sale orders: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.SaleOrder, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale order: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

// Update actualiza la cabecera; las líneas solo cambian con AddLines.
func (r *SaleOrderRepo) Update(ctx context.Context, o *entity.SaleOrder) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE sale_orders SET customer_id = $2, name = $3, state = $4, quote_id = $5, external_id = $6, updated_at = $7
		WHERE id = $1`,
		o.ID, o.CustomerID, o.Name, o.State, o.QuoteID, o.ExternalID, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update sale order: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AddLines agrega líneas al final de la orden.
func (r *SaleOrderRepo) AddLines(ctx context.Context, orderID string, lines []entity.SaleOrderLine) error {
	const query = `
		INSERT INTO sale_order_lines (id, order_id, sequence, display_type, name, product_id, quantity, price_unit, tax_rate)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	for _, l := range lines {
		if l.ID == "" {
			l.ID = uuid.New().String()
		}
		_, err := r.q.Exec(ctx, query,
			l.ID, orderID, l.Sequence, l.DisplayType, l.Name, l.ProductID, l.Quantity, l.PriceUnit, l.TaxRate,
		)
		if err != nil {
			if isForeignKeyViolation(err) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("insert sale order line: %w", err)
		}
	}
	return nil
}
