// Package quote casos de uso del cotizador: cabecera, sitios, partidas, marcas
// "Sin contenido", semáforo de rubros, indicadores, flujo de autorización y reportes.
package quote

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cotizador-api/internal/application/dto"
	"github.com/jhoicas/Cotizador-api/internal/domain"
	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
	"github.com/jhoicas/Cotizador-api/internal/domain/quoting"
	"github.com/jhoicas/Cotizador-api/internal/domain/repository"
)

// PendingRubrosError detalle de los alcances que impiden autorizar.
type PendingRubrosError struct {
	Scopes []quoting.Scope
}

func (e *PendingRubrosError) Error() string { return domain.ErrRubrosPendientes.Error() }

// Unwrap permite errors.Is(err, domain.ErrRubrosPendientes).
func (e *PendingRubrosError) Unwrap() error { return domain.ErrRubrosPendientes }

// QuoteUseCase casos de uso de la cotización.
type QuoteUseCase struct {
	tx        TxRunner
	quotes    repository.QuoteRepository
	sites     repository.SiteRepository
	lines     repository.QuoteLineRepository
	acks      repository.AckRepository
	customers repository.CustomerRepository
	products  repository.ProductRepository
	rubros    repository.RubroRepository
	cfg       Config
}

// NewQuoteUseCase construye el caso de uso inyectando sus puertos.
func NewQuoteUseCase(
	tx TxRunner,
	quotes repository.QuoteRepository,
	sites repository.SiteRepository,
	lines repository.QuoteLineRepository,
	acks repository.AckRepository,
	customers repository.CustomerRepository,
	products repository.ProductRepository,
	rubros repository.RubroRepository,
	cfg Config,
) *QuoteUseCase {
	if cfg.Currency == "" {
		cfg.Currency = "MXN"
	}
	return &QuoteUseCase{
		tx: tx, quotes: quotes, sites: sites, lines: lines, acks: acks,
		customers: customers, products: products, rubros: rubros, cfg: cfg,
	}
}

// Create crea la cotización junto con su sitio "General", que queda como sitio actual.
func (uc *QuoteUseCase) Create(ctx context.Context, companyID, userID string, in dto.CreateQuoteRequest) (*dto.QuoteResponse, error) {
	if in.CustomerID == "" {
		return nil, fmt.Errorf("%w: customer_id es requerido", domain.ErrInvalidInput)
	}
	customer, err := uc.customers.GetByID(ctx, in.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil || customer.CompanyID != companyID {
		return nil, fmt.Errorf("%w: cliente", domain.ErrNotFound)
	}
	mode := in.DisplayMode
	if mode == "" {
		mode = entity.DisplayItemized
	}
	if !entity.IsDisplayMode(mode) {
		return nil, fmt.Errorf("%w: display_mode inválido", domain.ErrInvalidInput)
	}
	if err := nonNegative(in.AdminPercent, in.UtilityPercent, in.FinancialPercent,
		in.TransporteRate, in.BienestarRate, in.PrestacionesPercent); err != nil {
		return nil, err
	}
	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = uc.cfg.Currency
	}
	responsible := in.UserID
	if responsible == "" {
		responsible = userID
	}

	now := time.Now()
	q := &entity.Quote{
		ID:                  uuid.New().String(),
		CompanyID:           companyID,
		CustomerID:          customer.ID,
		UserID:              responsible,
		Currency:            currency,
		DisplayMode:         mode,
		AdminPercent:        in.AdminPercent,
		UtilityPercent:      in.UtilityPercent,
		FinancialPercent:    in.FinancialPercent,
		TransporteRate:      in.TransporteRate,
		BienestarRate:       in.BienestarRate,
		PrestacionesPercent: in.PrestacionesPercent,
		NoteText:            strings.TrimSpace(in.NoteText),
		CurrentType:         entity.LineTypeServicio,
		State:               entity.QuoteStateDraft,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	err = uc.tx.RunQuote(ctx, func(quotes repository.QuoteRepository, sites repository.SiteRepository, _ repository.QuoteLineRepository, _ repository.AckRepository) error {
		name, err := uniqueName(ctx, quotes, customer.ID, strings.TrimSpace(in.Name))
		if err != nil {
			return err
		}
		q.Name = name
		if err := quotes.Create(ctx, q); err != nil {
			return err
		}
		general := &entity.Site{
			ID:        uuid.New().String(),
			QuoteID:   q.ID,
			Name:      entity.GeneralSiteName,
			Sequence:  entity.GeneralSiteSequence,
			Active:    true,
			CreatedAt: now,
		}
		if err := sites.Create(ctx, general); err != nil {
			return err
		}
		q.CurrentSiteID = &general.ID
		return quotes.Update(ctx, q)
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("quote_id", q.ID).Str("company_id", companyID).Msg("cotización creada")
	return toQuoteResponse(q), nil
}

// uniqueName valida (cliente, nombre). El nombre por defecto se numera en lugar de fallar.
func uniqueName(ctx context.Context, quotes repository.QuoteRepository, customerID, name string) (string, error) {
	if name != "" {
		existing, err := quotes.GetByCustomerAndName(ctx, customerID, name)
		if err != nil {
			return "", err
		}
		if existing != nil {
			return "", fmt.Errorf("%w: ya existe una cotización con ese nombre para el cliente", domain.ErrDuplicate)
		}
		return name, nil
	}
	candidate := entity.DefaultQuoteName
	for i := 2; ; i++ {
		existing, err := quotes.GetByCustomerAndName(ctx, customerID, candidate)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s (%d)", entity.DefaultQuoteName, i)
	}
}

// Get obtiene una cotización de la empresa.
func (uc *QuoteUseCase) Get(ctx context.Context, companyID, id string) (*dto.QuoteResponse, error) {
	q, err := loadQuote(ctx, uc.quotes, companyID, id)
	if err != nil {
		return nil, err
	}
	return toQuoteResponse(q), nil
}

// List lista cotizaciones; customerID filtra las del cliente (selector de la orden de venta).
func (uc *QuoteUseCase) List(ctx context.Context, companyID, customerID string, limit, offset int) (*dto.QuoteListResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	list, err := uc.quotes.ListByCompany(ctx, companyID, customerID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.QuoteResponse, 0, len(list))
	for _, q := range list {
		items = append(items, *toQuoteResponse(q))
	}
	return &dto.QuoteListResponse{Items: items, Page: dto.PageResponse{Limit: limit, Offset: offset}}, nil
}

// Update actualiza cabecera y parámetros. El cliente no puede quedar vacío.
func (uc *QuoteUseCase) Update(ctx context.Context, companyID, id string, in dto.UpdateQuoteRequest) (*dto.QuoteResponse, error) {
	q, err := loadEditable(ctx, uc.quotes, companyID, id)
	if err != nil {
		return nil, err
	}
	if in.CustomerID != nil {
		if *in.CustomerID == "" {
			return nil, fmt.Errorf("%w: el cliente es obligatorio", domain.ErrInvalidInput)
		}
		customer, err := uc.customers.GetByID(ctx, *in.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil || customer.CompanyID != companyID {
			return nil, fmt.Errorf("%w: cliente", domain.ErrNotFound)
		}
		q.CustomerID = customer.ID
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name no puede ser vacío", domain.ErrInvalidInput)
		}
		q.Name = name
	}
	if in.Name != nil || in.CustomerID != nil {
		existing, err := uc.quotes.GetByCustomerAndName(ctx, q.CustomerID, q.Name)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != q.ID {
			return nil, fmt.Errorf("%w: ya existe una cotización con ese nombre para el cliente", domain.ErrDuplicate)
		}
	}
	if in.DisplayMode != nil {
		if !entity.IsDisplayMode(*in.DisplayMode) {
			return nil, fmt.Errorf("%w: display_mode inválido", domain.ErrInvalidInput)
		}
		q.DisplayMode = *in.DisplayMode
	}
	if in.Currency != nil && strings.TrimSpace(*in.Currency) != "" {
		q.Currency = strings.ToUpper(strings.TrimSpace(*in.Currency))
	}
	if in.UserID != nil && *in.UserID != "" {
		q.UserID = *in.UserID
	}
	if in.NoteText != nil {
		q.NoteText = strings.TrimSpace(*in.NoteText)
	}
	for _, p := range []struct {
		src *decimal.Decimal
		dst *decimal.Decimal
	}{
		{in.AdminPercent, &q.AdminPercent},
		{in.UtilityPercent, &q.UtilityPercent},
		{in.FinancialPercent, &q.FinancialPercent},
		{in.TransporteRate, &q.TransporteRate},
		{in.BienestarRate, &q.BienestarRate},
		{in.PrestacionesPercent, &q.PrestacionesPercent},
	} {
		if p.src == nil {
			continue
		}
		if err := nonNegative(*p.src); err != nil {
			return nil, err
		}
		*p.dst = *p.src
	}
	q.UpdatedAt = time.Now()
	if err := uc.quotes.Update(ctx, q); err != nil {
		return nil, err
	}
	return toQuoteResponse(q), nil
}

// SetScope cambia el sitio y tipo de servicio actuales. Se permite en cotizaciones autorizadas.
// Un sitio vacío vuelve a General.
func (uc *QuoteUseCase) SetScope(ctx context.Context, companyID, id string, in dto.SetScopeRequest) (*dto.QuoteResponse, error) {
	q, err := loadQuote(ctx, uc.quotes, companyID, id)
	if err != nil {
		return nil, err
	}
	if q.State == entity.QuoteStateCancelled {
		return nil, domain.ErrQuoteLocked
	}
	if in.SiteID != nil {
		site, err := uc.siteOrGeneral(ctx, q, *in.SiteID)
		if err != nil {
			return nil, err
		}
		q.CurrentSiteID = &site.ID
	}
	if in.ServiceType != nil {
		if *in.ServiceType != "" && !entity.IsServiceType(*in.ServiceType) {
			return nil, fmt.Errorf("%w: service_type inválido", domain.ErrInvalidInput)
		}
		q.CurrentServiceType = *in.ServiceType
		q.CurrentType = entity.LineTypeFor(*in.ServiceType)
	}
	q.UpdatedAt = time.Now()
	if err := uc.quotes.Update(ctx, q); err != nil {
		return nil, err
	}
	return toQuoteResponse(q), nil
}

// Authorize pasa la cotización de borrador a autorizada.
// Requiere rol admin o autorizador, al menos una partida y ningún rubro en rojo en los alcances con partidas.
func (uc *QuoteUseCase) Authorize(ctx context.Context, companyID, userID, role, id string) (*dto.QuoteResponse, error) {
	if !entity.CanAuthorize(role) {
		return nil, domain.ErrForbidden
	}
	q, err := loadQuote(ctx, uc.quotes, companyID, id)
	if err != nil {
		return nil, err
	}
	if q.State != entity.QuoteStateDraft {
		return nil, fmt.Errorf("%w: solo se autorizan cotizaciones en borrador", domain.ErrConflict)
	}
	lines, err := uc.scopedLines(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: la cotización no tiene líneas", domain.ErrInvalidInput)
	}
	acks, err := uc.acks.ListByQuote(ctx, q.ID)
	if err != nil {
		return nil, err
	}
	if pending := quoting.PendingScopes(lines, acks); len(pending) > 0 {
		return nil, &PendingRubrosError{Scopes: pending}
	}
	now := time.Now()
	q.State = entity.QuoteStateAuthorized
	q.AuthorizedBy = &userID
	q.AuthorizedAt = &now
	q.UpdatedAt = now
	if err := uc.quotes.Update(ctx, q); err != nil {
		return nil, err
	}
	log.Info().Str("quote_id", q.ID).Str("user_id", userID).Msg("cotización autorizada")
	return toQuoteResponse(q), nil
}

// Reopen regresa una cotización autorizada a borrador (solo admin).
func (uc *QuoteUseCase) Reopen(ctx context.Context, companyID, role, id string) (*dto.QuoteResponse, error) {
	if role != entity.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	q, err := loadQuote(ctx, uc.quotes, companyID, id)
	if err != nil {
		return nil, err
	}
	if q.State != entity.QuoteStateAuthorized {
		return nil, fmt.Errorf("%w: solo se reabren cotizaciones autorizadas", domain.ErrConflict)
	}
	q.State = entity.QuoteStateDraft
	q.AuthorizedBy = nil
	q.AuthorizedAt = nil
	q.UpdatedAt = time.Now()
	if err := uc.quotes.Update(ctx, q); err != nil {
		return nil, err
	}
	log.Info().Str("quote_id", q.ID).Msg("cotización reabierta")
	return toQuoteResponse(q), nil
}

// Cancel cancela una cotización en borrador.
func (uc *QuoteUseCase) Cancel(ctx context.Context, companyID, id string) (*dto.QuoteResponse, error) {
	q, err := loadQuote(ctx, uc.quotes, companyID, id)
	if err != nil {
		return nil, err
	}
	if q.State != entity.QuoteStateDraft {
		return nil, fmt.Errorf("%w: solo se cancelan cotizaciones en borrador", domain.ErrConflict)
	}
	q.State = entity.QuoteStateCancelled
	q.UpdatedAt = time.Now()
	if err := uc.quotes.Update(ctx, q); err != nil {
		return nil, err
	}
	return toQuoteResponse(q), nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

// loadQuote obtiene la cotización validando que pertenezca a la empresa.
func loadQuote(ctx context.Context, quotes repository.QuoteRepository, companyID, id string) (*entity.Quote, error) {
	q, err := quotes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if q == nil || q.CompanyID != companyID {
		return nil, fmt.Errorf("%w: cotización", domain.ErrNotFound)
	}
	return q, nil
}

// loadEditable como loadQuote pero rechaza cotizaciones autorizadas o canceladas.
func loadEditable(ctx context.Context, quotes repository.QuoteRepository, companyID, id string) (*entity.Quote, error) {
	q, err := loadQuote(ctx, quotes, companyID, id)
	if err != nil {
		return nil, err
	}
	if q.IsLocked() {
		return nil, domain.ErrQuoteLocked
	}
	return q, nil
}

// siteOf obtiene un sitio verificando que pertenezca a la cotización.
func (uc *QuoteUseCase) siteOf(ctx context.Context, q *entity.Quote, siteID string) (*entity.Site, error) {
	site, err := uc.sites.GetByID(ctx, siteID)
	if err != nil {
		return nil, err
	}
	if site == nil || site.QuoteID != q.ID {
		return nil, fmt.Errorf("%w: el sitio no pertenece a la cotización", domain.ErrInvalidInput)
	}
	return site, nil
}

func nonNegative(values ...decimal.Decimal) error {
	for _, v := range values {
		if v.IsNegative() {
			return fmt.Errorf("%w: porcentajes y tarifas no pueden ser negativos", domain.ErrInvalidInput)
		}
	}
	return nil
}

// IsPending informa si el error corresponde a rubros pendientes y devuelve el detalle.
func IsPending(err error) (*PendingRubrosError, bool) {
	var pe *PendingRubrosError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

func toQuoteResponse(q *entity.Quote) *dto.QuoteResponse {
	return &dto.QuoteResponse{
		ID:                  q.ID,
		CompanyID:           q.CompanyID,
		CustomerID:          q.CustomerID,
		UserID:              q.UserID,
		Name:                q.Name,
		Currency:            q.Currency,
		DisplayMode:         q.DisplayMode,
		AdminPercent:        q.AdminPercent,
		UtilityPercent:      q.UtilityPercent,
		FinancialPercent:    q.FinancialPercent,
		TransporteRate:      q.TransporteRate,
		BienestarRate:       q.BienestarRate,
		PrestacionesPercent: q.PrestacionesPercent,
		NoteText:            q.NoteText,
		CurrentSiteID:       q.CurrentSiteID,
		CurrentServiceType:  q.CurrentServiceType,
		CurrentType:         q.CurrentType,
		State:               q.State,
		AuthorizedBy:        q.AuthorizedBy,
		AuthorizedAt:        q.AuthorizedAt,
		CreatedAt:           q.CreatedAt,
		UpdatedAt:           q.UpdatedAt,
	}
}
