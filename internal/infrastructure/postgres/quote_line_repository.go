package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Cotizador-api/internal/domain"
	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
	"github.com/jhoicas/Cotizador-api/internal/domain/repository"
)

var (
	_ repository.QuoteLineRepository = (*QuoteLineRepo)(nil)
	_ repository.AckRepository       = (*AckRepo)(nil)
)

// QuoteLineRepo partidas de cotización. pos conserva el orden de captura.
type QuoteLineRepo struct {
	q Querier
}

// NewQuoteLineRepository construye el adaptador de partidas.
func NewQuoteLineRepository(q Querier) *QuoteLineRepo {
	return &QuoteLineRepo{q: q}
}

const lineColumns = `id, quote_id, site_id, service_type, type, rubro_code, product_id, product_name,
	quantity, tabulator_percent, base_price, tax_rate, created_at, updated_at`

func scanLine(s scanner) (*entity.QuoteLine, error) {
	var l entity.QuoteLine
	err := s.Scan(
		&l.ID, &l.QuoteID, &l.SiteID, &l.ServiceType, &l.Type, &l.RubroCode, &l.ProductID, &l.ProductName,
		&l.Quantity, &l.TabulatorPercent, &l.BasePrice, &l.TaxRate, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// Create persiste una partida.
func (r *QuoteLineRepo) Create(ctx context.Context, l *entity.QuoteLine) error {
	query := `
		INSERT INTO quote_lines (` + lineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		l.ID, l.QuoteID, l.SiteID, l.ServiceType, l.Type, l.RubroCode, l.ProductID, l.ProductName,
		l.Quantity, l.TabulatorPercent, l.BasePrice, l.TaxRate, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert quote line: %w", err)
	}
	return nil
}

// GetByID obtiene una partida por ID.
func (r *QuoteLineRepo) GetByID(ctx context.Context, id string) (*entity.QuoteLine, error) {
	l, err := scanLine(r.q.QueryRow(ctx, `SELECT `+lineColumns+` FROM quote_lines WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get quote line: %w", err)
	}
	return l, nil
}

// ListByQuote devuelve las partidas en orden de captura.
func (r *QuoteLineRepo) ListByQuote(ctx context.Context, quoteID string) ([]*entity.QuoteLine, error) {
	rows, err := r.q.Query(ctx, `SELECT `+lineColumns+` FROM quote_lines WHERE quote_id = $1 ORDER BY pos`, quoteID)
	if err != nil {
		return nil, fmt.Errorf("list quote lines: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.QuoteLine, 0)
	for rows.Next() {
		l, err := scanLine(rows)
		if err != nil {
			return nil, fmt.Errorf("scan quote line: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

// Update reescribe la partida; quote_id y pos no cambian.
func (r *QuoteLineRepo) Update(ctx context.Context, l *entity.QuoteLine) error {
	query := `
		UPDATE quote_lines SET site_id = $2, service_type = $3, type = $4, rubro_code = $5, product_id = $6,
		       product_name = $7, quantity = $8, tabulator_percent = $9, base_price = $10, tax_rate = $11,
		       updated_at = $12
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		l.ID, l.SiteID, l.ServiceType, l.Type, l.RubroCode, l.ProductID,
		l.ProductName, l.Quantity, l.TabulatorPercent, l.BasePrice, l.TaxRate,
		l.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update quote line: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina una partida.
func (r *QuoteLineRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM quote_lines WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete quote line: %w", err)
	}
	return nil
}

// MoveToSite reasigna las partidas de un sitio a otro. fromSiteID vacío mueve las partidas sin sitio.
func (r *QuoteLineRepo) MoveToSite(ctx context.Context, quoteID, fromSiteID, toSiteID string) (int, error) {
	query := `
		UPDATE quote_lines SET site_id = $3, updated_at = now()
		WHERE quote_id = $1 AND site_id IS NOT DISTINCT FROM NULLIF($2, '')::uuid`
	cmd, err := r.q.Exec(ctx, query, quoteID, fromSiteID, toSiteID)
	if err != nil {
		return 0, fmt.Errorf("move quote lines: %w", err)
	}
	return int(cmd.RowsAffected()), nil
}

// AckRepo marcas "Sin contenido" por (cotización, sitio, tipo de servicio, rubro).
type AckRepo struct {
	q Querier
}

// NewAckRepository construye el adaptador de marcas.
func NewAckRepository(q Querier) *AckRepo {
	return &AckRepo{q: q}
}

// Create persiste la marca; una marca repetida devuelve ErrDuplicate.
func (r *AckRepo) Create(ctx context.Context, a *entity.RubroAck) error {
	query := `
		INSERT INTO rubro_acks (id, quote_id, site_id, service_type, rubro_code, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, '')::uuid, $7)`
	_, err := r.q.Exec(ctx, query, a.ID, a.QuoteID, a.SiteID, a.ServiceType, a.RubroCode, a.CreatedBy, a.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert rubro ack: %w", err)
	}
	return nil
}

// Delete quita la marca del alcance indicado e informa si existía.
func (r *AckRepo) Delete(ctx context.Context, quoteID, siteID, serviceType, rubroCode string) (bool, error) {
	cmd, err := r.q.Exec(ctx,
		`DELETE FROM rubro_acks WHERE quote_id = $1 AND site_id = $2 AND service_type = $3 AND rubro_code = $4`,
		quoteID, siteID, serviceType, rubroCode,
	)
	if err != nil {
		return false, fmt.Errorf("delete rubro ack: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

// ListByQuote devuelve las marcas de la cotización en orden de alta.
func (r *AckRepo) ListByQuote(ctx context.Context, quoteID string) ([]*entity.RubroAck, error) {
	query := `
		SELECT id, quote_id, site_id, service_type, rubro_code, COALESCE(created_by::text, ''), created_at
		FROM rubro_acks WHERE quote_id = $1 ORDER BY pos`
	rows, err := r.q.Query(ctx, query, quoteID)
	if err != nil {
		return nil, fmt.Errorf("list rubro acks: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.RubroAck, 0)
	for rows.Next() {
		var a entity.RubroAck
		if err := rows.Scan(&a.ID, &a.QuoteID, &a.SiteID, &a.ServiceType, &a.RubroCode, &a.CreatedBy, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan rubro ack: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}

// DeleteBySite elimina todas las marcas de un sitio.
func (r *AckRepo) DeleteBySite(ctx context.Context, siteID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM rubro_acks WHERE site_id = $1`, siteID); err != nil {
		return fmt.Errorf("delete site acks: %w", err)
	}
	return nil
}
