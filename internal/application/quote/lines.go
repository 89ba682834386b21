package quote

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cotizador-api/internal/application/dto"
	"github.com/jhoicas/Cotizador-api/internal/domain"
	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
	"github.com/jhoicas/Cotizador-api/internal/domain/pricing"
	"github.com/jhoicas/Cotizador-api/internal/domain/quoting"
	"github.com/jhoicas/Cotizador-api/internal/domain/repository"
)

// lineDraft datos ya resueltos de una partida antes de persistirla.
type lineDraft struct {
	siteID      *string
	serviceType string
	rubroCode   string
	tabulator   int
}

// AddLine agrega una partida. Sitio y tipo de servicio vacíos toman los actuales de la cotización.
func (uc *QuoteUseCase) AddLine(ctx context.Context, companyID, quoteID string, in dto.CreateLineRequest) (*dto.LineResponse, error) {
	q, err := loadEditable(ctx, uc.quotes, companyID, quoteID)
	if err != nil {
		return nil, err
	}
	d, err := uc.resolveDraft(ctx, q, in.SiteID, in.ServiceType, in.RubroCode, in.TabulatorPercent)
	if err != nil {
		return nil, err
	}
	product, err := uc.quotableProduct(ctx, companyID, in.ProductID, d.rubroCode)
	if err != nil {
		return nil, err
	}
	qty, err := lineQuantity(in.Quantity)
	if err != nil {
		return nil, err
	}
	l := newLine(q.ID, d, product, qty)
	if err := uc.lines.Create(ctx, l); err != nil {
		return nil, err
	}
	return toLineResponse(l, q.PrestacionesPercent), nil
}

// AddLinesBulk agrega varias partidas de un mismo rubro/sitio/tipo en una transacción.
func (uc *QuoteUseCase) AddLinesBulk(ctx context.Context, companyID, quoteID string, in dto.BulkLinesRequest) ([]dto.LineResponse, error) {
	q, err := loadEditable(ctx, uc.quotes, companyID, quoteID)
	if err != nil {
		return nil, err
	}
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: items es requerido", domain.ErrInvalidInput)
	}
	d, err := uc.resolveDraft(ctx, q, in.SiteID, in.ServiceType, in.RubroCode, in.TabulatorPercent)
	if err != nil {
		return nil, err
	}
	created := make([]*entity.QuoteLine, 0, len(in.Items))
	for i, item := range in.Items {
		product, err := uc.quotableProduct(ctx, companyID, item.ProductID, d.rubroCode)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}
		qty, err := lineQuantity(item.Quantity)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}
		created = append(created, newLine(q.ID, d, product, qty))
	}
	err = uc.tx.RunQuote(ctx, func(_ repository.QuoteRepository, _ repository.SiteRepository, lines repository.QuoteLineRepository, _ repository.AckRepository) error {
		for _, l := range created {
			if err := lines.Create(ctx, l); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("quote_id", q.ID).Str("rubro", d.rubroCode).Int("lines", len(created)).Msg("partidas agregadas desde catálogo")
	out := make([]dto.LineResponse, 0, len(created))
	for _, l := range created {
		out = append(out, *toLineResponse(l, q.PrestacionesPercent))
	}
	return out, nil
}

// UpdateLine edita una partida. Al cambiar el rubro sin tipo explícito se aplica el mapeo automático.
func (uc *QuoteUseCase) UpdateLine(ctx context.Context, companyID, quoteID, lineID string, in dto.UpdateLineRequest) (*dto.LineResponse, error) {
	q, err := loadEditable(ctx, uc.quotes, companyID, quoteID)
	if err != nil {
		return nil, err
	}
	l, err := uc.lineOf(ctx, q, lineID)
	if err != nil {
		return nil, err
	}
	if in.SiteID != nil {
		site, err := uc.siteOrGeneral(ctx, q, *in.SiteID)
		if err != nil {
			return nil, err
		}
		l.SiteID = &site.ID
	}
	if in.RubroCode != nil {
		if !entity.IsRubroCode(*in.RubroCode) {
			return nil, fmt.Errorf("%w: rubro inválido", domain.ErrInvalidInput)
		}
		if *in.RubroCode != l.RubroCode && in.ServiceType == nil {
			l.ServiceType = quoting.ResolveServiceType("", *in.RubroCode, l.ServiceType)
		}
		l.RubroCode = *in.RubroCode
	}
	if in.ServiceType != nil {
		if !entity.IsServiceType(*in.ServiceType) {
			return nil, fmt.Errorf("%w: service_type inválido", domain.ErrInvalidInput)
		}
		l.ServiceType = *in.ServiceType
	}
	l.Type = entity.LineTypeFor(l.ServiceType)
	if in.TabulatorPercent != nil {
		if !entity.IsTabulator(*in.TabulatorPercent) {
			return nil, fmt.Errorf("%w: tabulador debe ser 0, 3, 5 o 10", domain.ErrInvalidInput)
		}
		l.TabulatorPercent = *in.TabulatorPercent
	}
	if in.Quantity != nil {
		if !in.Quantity.IsPositive() {
			return nil, fmt.Errorf("%w: quantity debe ser mayor a cero", domain.ErrInvalidInput)
		}
		l.Quantity = *in.Quantity
	}
	productID := l.ProductID
	if in.ProductID != nil {
		productID = *in.ProductID
	}
	if in.ProductID != nil || in.RubroCode != nil {
		product, err := uc.quotableProduct(ctx, companyID, productID, l.RubroCode)
		if err != nil {
			return nil, err
		}
		if product.ID != l.ProductID {
			l.ProductID = product.ID
			l.ProductName = product.Name
			l.BasePrice = product.ListPrice
			l.TaxRate = product.TaxRate
		}
	}
	l.UpdatedAt = time.Now()
	if err := uc.lines.Update(ctx, l); err != nil {
		return nil, err
	}
	return toLineResponse(l, q.PrestacionesPercent), nil
}

// DeleteLine elimina una partida.
func (uc *QuoteUseCase) DeleteLine(ctx context.Context, companyID, quoteID, lineID string) error {
	q, err := loadEditable(ctx, uc.quotes, companyID, quoteID)
	if err != nil {
		return err
	}
	l, err := uc.lineOf(ctx, q, lineID)
	if err != nil {
		return err
	}
	return uc.lines.Delete(ctx, l.ID)
}

// ListLines partidas de la cotización con importes, filtradas por sitio, tipo y rubro.
func (uc *QuoteUseCase) ListLines(ctx context.Context, companyID, quoteID string, f dto.LineFilter) ([]dto.LineResponse, error) {
	q, err := loadQuote(ctx, uc.quotes, companyID, quoteID)
	if err != nil {
		return nil, err
	}
	lines, err := uc.lines.ListByQuote(ctx, q.ID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LineResponse, 0, len(lines))
	for _, l := range lines {
		if f.SiteID != "" && !l.InSite(f.SiteID) {
			continue
		}
		if f.ServiceType != "" && l.ServiceType != f.ServiceType {
			continue
		}
		if f.RubroCode != "" && l.RubroCode != f.RubroCode {
			continue
		}
		out = append(out, *toLineResponse(l, q.PrestacionesPercent))
	}
	return out, nil
}

// FixServiceTypes reaplica el mapeo rubro → tipo de servicio a las partidas existentes.
func (uc *QuoteUseCase) FixServiceTypes(ctx context.Context, companyID, quoteID string) (*dto.FixServiceTypesResponse, error) {
	q, err := loadEditable(ctx, uc.quotes, companyID, quoteID)
	if err != nil {
		return nil, err
	}
	lines, err := uc.lines.ListByQuote(ctx, q.ID)
	if err != nil {
		return nil, err
	}
	changed := quoting.FixServiceTypes(lines)
	if len(changed) > 0 {
		err = uc.tx.RunQuote(ctx, func(_ repository.QuoteRepository, _ repository.SiteRepository, repo repository.QuoteLineRepository, _ repository.AckRepository) error {
			now := time.Now()
			for _, l := range changed {
				l.UpdatedAt = now
				if err := repo.Update(ctx, l); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		log.Info().Str("quote_id", q.ID).Int("corrected", len(changed)).Msg("tipos de servicio corregidos")
	}
	return &dto.FixServiceTypesResponse{Corrected: len(changed)}, nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

// resolveDraft valida sitio, rubro, tipo de servicio y tabulador de una partida nueva.
func (uc *QuoteUseCase) resolveDraft(ctx context.Context, q *entity.Quote, siteID, serviceType, rubroCode string, tab int) (lineDraft, error) {
	var d lineDraft
	if rubroCode == "" {
		return d, fmt.Errorf("%w: rubro_code es requerido", domain.ErrInvalidInput)
	}
	if !entity.IsRubroCode(rubroCode) {
		return d, fmt.Errorf("%w: rubro inválido", domain.ErrInvalidInput)
	}
	if !entity.IsTabulator(tab) {
		return d, fmt.Errorf("%w: tabulador debe ser 0, 3, 5 o 10", domain.ErrInvalidInput)
	}
	if siteID == "" && q.CurrentSiteID != nil {
		siteID = *q.CurrentSiteID
	}
	site, err := uc.siteOrGeneral(ctx, q, siteID)
	if err != nil {
		return d, err
	}
	d.siteID = &site.ID
	d.serviceType = quoting.ResolveServiceType(serviceType, rubroCode, q.CurrentServiceType)
	if d.serviceType == "" {
		return d, fmt.Errorf("%w: selecciona un tipo de servicio", domain.ErrInvalidInput)
	}
	if !entity.IsServiceType(d.serviceType) {
		return d, fmt.Errorf("%w: service_type inválido", domain.ErrInvalidInput)
	}
	d.rubroCode = rubroCode
	d.tabulator = tab
	return d, nil
}

// quotableProduct obtiene un producto de la empresa que pueda cotizarse bajo el rubro.
func (uc *QuoteUseCase) quotableProduct(ctx context.Context, companyID, productID, rubroCode string) (*entity.Product, error) {
	if productID == "" {
		return nil, fmt.Errorf("%w: product_id es requerido", domain.ErrInvalidInput)
	}
	p, err := uc.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil || p.CompanyID != companyID {
		return nil, fmt.Errorf("%w: producto", domain.ErrNotFound)
	}
	if !p.Active || !p.AllowsRubro(rubroCode) {
		return nil, fmt.Errorf("%w: el producto %q no está habilitado para el rubro %s", domain.ErrInvalidInput, p.Name, entity.RubroLabel(rubroCode))
	}
	return p, nil
}

// lineOf obtiene una partida verificando que pertenezca a la cotización.
func (uc *QuoteUseCase) lineOf(ctx context.Context, q *entity.Quote, lineID string) (*entity.QuoteLine, error) {
	l, err := uc.lines.GetByID(ctx, lineID)
	if err != nil {
		return nil, err
	}
	if l == nil || l.QuoteID != q.ID {
		return nil, fmt.Errorf("%w: línea", domain.ErrNotFound)
	}
	return l, nil
}

// lineQuantity cantidad por defecto 1 si se omite; si viene debe ser positiva.
func lineQuantity(q *decimal.Decimal) (decimal.Decimal, error) {
	if q == nil {
		return decimal.NewFromInt(1), nil
	}
	if !q.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: quantity debe ser mayor a cero", domain.ErrInvalidInput)
	}
	return *q, nil
}

func newLine(quoteID string, d lineDraft, p *entity.Product, qty decimal.Decimal) *entity.QuoteLine {
	now := time.Now()
	return &entity.QuoteLine{
		ID:               uuid.New().String(),
		QuoteID:          quoteID,
		SiteID:           d.siteID,
		ServiceType:      d.serviceType,
		Type:             entity.LineTypeFor(d.serviceType),
		RubroCode:        d.rubroCode,
		ProductID:        p.ID,
		ProductName:      p.Name,
		Quantity:         qty,
		TabulatorPercent: d.tabulator,
		BasePrice:        p.ListPrice,
		TaxRate:          p.TaxRate,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func toLineResponse(l *entity.QuoteLine, prestacionesPercent decimal.Decimal) *dto.LineResponse {
	a := pricing.Line(l, prestacionesPercent)
	return &dto.LineResponse{
		ID:               l.ID,
		QuoteID:          l.QuoteID,
		SiteID:           l.SiteID,
		ServiceType:      l.ServiceType,
		Type:             l.Type,
		RubroCode:        l.RubroCode,
		ProductID:        l.ProductID,
		ProductName:      l.ProductName,
		Quantity:         l.Quantity,
		TabulatorPercent: l.TabulatorPercent,
		BasePrice:        a.BasePrice,
		PriceUnitFinal:   a.PriceUnitFinal,
		MonthlySubtotal:  a.MonthlySubtotal,
		Prestaciones:     a.Prestaciones,
		TotalPrice:       a.TotalPrice,
		TaxRate:          l.TaxRate,
		AmountTax:        a.AmountTax,
	}
}
