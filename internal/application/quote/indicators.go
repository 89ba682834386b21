package quote

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cotizador-api/internal/application/dto"
	"github.com/jhoicas/Cotizador-api/internal/domain"
	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
	"github.com/jhoicas/Cotizador-api/internal/domain/pricing"
)

// GeneralIndicators indicadores de toda la cotización.
func (uc *QuoteUseCase) GeneralIndicators(ctx context.Context, companyID, quoteID string) (*dto.GeneralIndicatorsResponse, error) {
	q, err := loadQuote(ctx, uc.quotes, companyID, quoteID)
	if err != nil {
		return nil, err
	}
	lines, err := uc.lines.ListByQuote(ctx, q.ID)
	if err != nil {
		return nil, err
	}
	g := pricing.GeneralIndicators(lines, pricing.ParamsFromQuote(q, uc.cfg.VATRate))
	return &dto.GeneralIndicatorsResponse{
		TotalElementos:       g.TotalElementos,
		CostoMensual:         g.CostoMensual,
		PersonalRequerido:    g.PersonalRequerido,
		PorcentajeCompletado: g.PorcentajeCompletado,
	}, nil
}

// SiteIndicators "Resumen del Sitio". Sin siteID usa el sitio actual.
func (uc *QuoteUseCase) SiteIndicators(ctx context.Context, companyID, quoteID, siteID string) (*dto.SiteIndicatorsResponse, error) {
	q, site, lines, err := uc.siteScope(ctx, companyID, quoteID, siteID)
	if err != nil {
		return nil, err
	}
	s := pricing.SiteIndicators(pricing.ForSite(lines, site.ID), pricing.ParamsFromQuote(q, uc.cfg.VATRate))
	amount := func(v decimal.Decimal) dto.Amount {
		return dto.Amount{Value: v, PerPerson: s.PerPerson(v)}
	}
	out := &dto.SiteIndicatorsResponse{
		SiteID:          site.ID,
		SiteName:        site.Name,
		Colaboradores:   s.Colaboradores,
		Rubros:          make(map[string]dto.Amount, len(entity.RubroCodes)),
		Subtotal1:       amount(s.Subtotal1),
		Administracion:  amount(s.Administracion),
		Utilidad:        amount(s.Utilidad),
		Subtotal2:       amount(s.Subtotal2),
		Transporte:      amount(s.Transporte),
		Bienestar:       amount(s.Bienestar),
		CostoFinanciero: amount(s.CostoFinanciero),
		TotalAntesIVA:   amount(s.TotalAntesIVA),
		IVA:             amount(s.IVA),
		TotalConIVA:     amount(s.TotalConIVA),
		OtrosRubros:     amount(s.OtrosRubros),
		CostoMensual:    s.TotalAntesIVA,
		PersonalTotal:   s.Colaboradores,
	}
	for _, code := range entity.RubroCodes {
		out.Rubros[code] = amount(s.Rubro(code))
	}
	return out, nil
}

// ServiceIndicators resumen de un sitio y tipo de servicio. Vacíos toman los actuales.
func (uc *QuoteUseCase) ServiceIndicators(ctx context.Context, companyID, quoteID, siteID, serviceType string) (*dto.ServiceIndicatorsResponse, error) {
	q, site, lines, err := uc.siteScope(ctx, companyID, quoteID, siteID)
	if err != nil {
		return nil, err
	}
	if serviceType == "" {
		serviceType = q.CurrentServiceType
	}
	if !entity.IsServiceType(serviceType) {
		return nil, fmt.Errorf("%w: selecciona un tipo de servicio", domain.ErrInvalidInput)
	}
	s := pricing.ServiceIndicators(pricing.ForScope(lines, site.ID, serviceType), pricing.ParamsFromQuote(q, uc.cfg.VATRate))
	amount := func(v decimal.Decimal) dto.Amount {
		return dto.Amount{Value: v, PerPerson: s.PerPerson(v)}
	}
	out := &dto.ServiceIndicatorsResponse{
		SiteID:              site.ID,
		ServiceType:         serviceType,
		Colaboradores:       s.Colaboradores,
		PrestacionesPercent: s.PrestacionesPercent,
		SueldoBruto:         amount(s.SueldoBruto),
		Prestaciones:        amount(s.Prestaciones),
		Rubros:              make(map[string]dto.Amount, len(entity.RubroCodes)),
		Total:               amount(s.Total),
	}
	for _, code := range entity.RubroCodes {
		out.Rubros[code] = amount(s.Rubro(code))
	}
	return out, nil
}

// siteScope carga cotización, sitio (o el actual) y las líneas con las huérfanas asignadas a General.
func (uc *QuoteUseCase) siteScope(ctx context.Context, companyID, quoteID, siteID string) (*entity.Quote, *entity.Site, []*entity.QuoteLine, error) {
	q, err := loadQuote(ctx, uc.quotes, companyID, quoteID)
	if err != nil {
		return nil, nil, nil, err
	}
	if siteID == "" && q.CurrentSiteID != nil {
		siteID = *q.CurrentSiteID
	}
	if siteID == "" {
		return nil, nil, nil, fmt.Errorf("%w: selecciona un sitio", domain.ErrInvalidInput)
	}
	site, err := uc.siteOf(ctx, q, siteID)
	if err != nil {
		return nil, nil, nil, err
	}
	lines, err := uc.scopedLines(ctx, q)
	if err != nil {
		return nil, nil, nil, err
	}
	return q, site, lines, nil
}

// scopedLines líneas de la cotización con las huérfanas asignadas a General.
func (uc *QuoteUseCase) scopedLines(ctx context.Context, q *entity.Quote) ([]*entity.QuoteLine, error) {
	sites, err := uc.sites.ListByQuote(ctx, q.ID)
	if err != nil {
		return nil, err
	}
	lines, err := uc.lines.ListByQuote(ctx, q.ID)
	if err != nil {
		return nil, err
	}
	return attachOrphans(lines, sites), nil
}

// attachOrphans asigna al sitio General las líneas sin sitio. No modifica las originales.
func attachOrphans(lines []*entity.QuoteLine, sites []*entity.Site) []*entity.QuoteLine {
	var generalID string
	sortSites(sites)
	for _, s := range sites {
		if s.IsGeneral() {
			generalID = s.ID
			break
		}
	}
	if generalID == "" {
		return lines
	}
	out := make([]*entity.QuoteLine, len(lines))
	for i, l := range lines {
		if l.SiteID != nil {
			out[i] = l
			continue
		}
		cp := *l
		cp.SiteID = &generalID
		out[i] = &cp
	}
	return out
}
