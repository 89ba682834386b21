package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Cotizador-api/internal/domain"
	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
	"github.com/jhoicas/Cotizador-api/internal/domain/repository"
)

var (
	_ repository.QuoteRepository = (*QuoteRepo)(nil)
	_ repository.SiteRepository  = (*SiteRepo)(nil)
)

// QuoteRepo cabeceras de cotización. (customer_id, name) es único.
type QuoteRepo struct {
	q Querier
}

// NewQuoteRepository construye el adaptador de cotizaciones. Pasar pool o tx.
func NewQuoteRepository(q Querier) *QuoteRepo {
	return &QuoteRepo{q: q}
}

const quoteColumns = `id, company_id, customer_id, user_id, name, currency, display_mode,
	admin_percent, utility_percent, financial_percent, transporte_rate, bienestar_rate, prestaciones_percent,
	note_text, current_site_id, current_service_type, current_type, state, authorized_by, authorized_at,
	created_at, updated_at`

func scanQuote(s scanner) (*entity.Quote, error) {
	var q entity.Quote
	err := s.Scan(
		&q.ID, &q.CompanyID, &q.CustomerID, &q.UserID, &q.Name, &q.Currency, &q.DisplayMode,
		&q.AdminPercent, &q.UtilityPercent, &q.FinancialPercent, &q.TransporteRate, &q.BienestarRate, &q.PrestacionesPercent,
		&q.NoteText, &q.CurrentSiteID, &q.CurrentServiceType, &q.CurrentType, &q.State, &q.AuthorizedBy, &q.AuthorizedAt,
		&q.CreatedAt, &q.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// Create persiste la cabecera.
func (r *QuoteRepo) Create(ctx context.Context, q *entity.Quote) error {
	query := `
		INSERT INTO quotes (` + quoteColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)`
	_, err := r.q.Exec(ctx, query,
		q.ID, q.CompanyID, q.CustomerID, q.UserID, q.Name, q.Currency, q.DisplayMode,
		q.AdminPercent, q.UtilityPercent, q.FinancialPercent, q.TransporteRate, q.BienestarRate, q.PrestacionesPercent,
		q.NoteText, q.CurrentSiteID, q.CurrentServiceType, q.CurrentType, q.State, q.AuthorizedBy, q.AuthorizedAt,
		q.CreatedAt, q.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert quote: %w", err)
	}
	return nil
}

// GetByID obtiene una cotización por ID.
func (r *QuoteRepo) GetByID(ctx context.Context, id string) (*entity.Quote, error) {
	q, err := scanQuote(r.q.QueryRow(ctx, `SELECT `+quoteColumns+` FROM quotes WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get quote: %w", err)
	}
	return q, nil
}

// GetByCustomerAndName busca por la clave natural (cliente, nombre).
func (r *QuoteRepo) GetByCustomerAndName(ctx context.Context, customerID, name string) (*entity.Quote, error) {
	query := `SELECT ` + quoteColumns + ` FROM quotes WHERE customer_id = $1 AND name = $2`
	q, err := scanQuote(r.q.QueryRow(ctx, query, customerID, name))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get quote by name: %w", err)
	}
	return q, nil
}

// ListByCompany devuelve las más recientes primero; customerID vacío = todos los clientes.
func (r *QuoteRepo) ListByCompany(ctx context.Context, companyID, customerID string, limit, offset int) ([]*entity.Quote, error) {
	lim, off := pageArgs(limit, offset)
	query := `
		SELECT ` + quoteColumns + `
		FROM quotes
		WHERE company_id = $1 AND ($2 = '' OR customer_id::text = $2)
		ORDER BY created_at DESC, id DESC LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, companyID, customerID, lim, off)
	if err != nil {
		return nil, fmt.Errorf("list quotes: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Quote, 0)
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan quote: %w", err)
		}
		list = append(list, q)
	}
	return list, rows.Err()
}

// Update reescribe la cabecera completa salvo empresa y fecha de alta.
func (r *QuoteRepo) Update(ctx context.Context, q *entity.Quote) error {
	query := `
		UPDATE quotes SET customer_id = $2, user_id = $3, name = $4, currency = $5, display_mode = $6,
		       admin_percent = $7, utility_percent = $8, financial_percent = $9, transporte_rate = $10,
		       bienestar_rate = $11, prestaciones_percent = $12, note_text = $13, current_site_id = $14,
		       current_service_type = $15, current_type = $16, state = $17, authorized_by = $18,
		       authorized_at = $19, updated_at = $20
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		q.ID, q.CustomerID, q.UserID, q.Name, q.Currency, q.DisplayMode,
		q.AdminPercent, q.UtilityPercent, q.FinancialPercent, q.TransporteRate,
		q.BienestarRate, q.PrestacionesPercent, q.NoteText, q.CurrentSiteID,
		q.CurrentServiceType, q.CurrentType, q.State, q.AuthorizedBy,
		q.AuthorizedAt, q.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update quote: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SiteRepo sitios de una cotización.
type SiteRepo struct {
	q Querier
}

// NewSiteRepository construye el adaptador de sitios.
func NewSiteRepository(q Querier) *SiteRepo {
	return &SiteRepo{q: q}
}

const siteColumns = `id, quote_id, name, sequence, active, created_at`

func scanSite(s scanner) (*entity.Site, error) {
	var site entity.Site
	if err := s.Scan(&site.ID, &site.QuoteID, &site.Name, &site.Sequence, &site.Active, &site.CreatedAt); err != nil {
		return nil, err
	}
	return &site, nil
}

// Create persiste un sitio.
func (r *SiteRepo) Create(ctx context.Context, site *entity.Site) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO quote_sites (`+siteColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		site.ID, site.QuoteID, site.Name, site.Sequence, site.Active, site.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert site: %w", err)
	}
	return nil
}

// GetByID obtiene un sitio por ID.
func (r *SiteRepo) GetByID(ctx context.Context, id string) (*entity.Site, error) {
	site, err := scanSite(r.q.QueryRow(ctx, `SELECT `+siteColumns+` FROM quote_sites WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get site: %w", err)
	}
	return site, nil
}

// ListByQuote devuelve los sitios en orden de alta; el orden visible lo decide la capa de aplicación.
func (r *SiteRepo) ListByQuote(ctx context.Context, quoteID string) ([]*entity.Site, error) {
	rows, err := r.q.Query(ctx, `SELECT `+siteColumns+` FROM quote_sites WHERE quote_id = $1 ORDER BY pos`, quoteID)
	if err != nil {
		return nil, fmt.Errorf("list sites: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Site, 0)
	for rows.Next() {
		site, err := scanSite(rows)
		if err != nil {
			return nil, fmt.Errorf("scan site: %w", err)
		}
		list = append(list, site)
	}
	return list, rows.Err()
}

// Update modifica nombre, secuencia y estado.
func (r *SiteRepo) Update(ctx context.Context, site *entity.Site) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE quote_sites SET name = $2, sequence = $3, active = $4 WHERE id = $1`,
		site.ID, site.Name, site.Sequence, site.Active,
	)
	if err != nil {
		return fmt.Errorf("update site: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un sitio. Las partidas que aún lo referencien quedan sin sitio.
func (r *SiteRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM quote_sites WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete site: %w", err)
	}
	return nil
}
