package quote

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cotizador-api/internal/application/dto"
	"github.com/jhoicas/Cotizador-api/internal/domain"
	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
	"github.com/jhoicas/Cotizador-api/internal/domain/pricing"
	"github.com/jhoicas/Cotizador-api/internal/domain/quoting"
	"github.com/jhoicas/Cotizador-api/internal/domain/repository"
)

// ReportUseCase resumen general (JSON, XLSX, PDF) y PDF de la cotización para el cliente.
type ReportUseCase struct {
	quotes    repository.QuoteRepository
	sites     repository.SiteRepository
	lines     repository.QuoteLineRepository
	rubros    repository.RubroRepository
	customers repository.CustomerRepository
	companies repository.CompanyRepository
	pdf       PDFGenerator
	xlsx      SpreadsheetGenerator
	cfg       Config
}

// NewReportUseCase construye el caso de uso de reportes.
func NewReportUseCase(
	quotes repository.QuoteRepository,
	sites repository.SiteRepository,
	lines repository.QuoteLineRepository,
	rubros repository.RubroRepository,
	customers repository.CustomerRepository,
	companies repository.CompanyRepository,
	pdf PDFGenerator,
	xlsx SpreadsheetGenerator,
	cfg Config,
) *ReportUseCase {
	return &ReportUseCase{
		quotes: quotes, sites: sites, lines: lines, rubros: rubros,
		customers: customers, companies: companies, pdf: pdf, xlsx: xlsx, cfg: cfg,
	}
}

// Summary matriz rubros × sitios.
func (uc *ReportUseCase) Summary(ctx context.Context, companyID, quoteID string) (*dto.SummaryResponse, error) {
	doc, err := uc.summaryDocument(ctx, companyID, quoteID)
	if err != nil {
		return nil, err
	}
	out := &dto.SummaryResponse{
		QuoteID:  doc.Quote.ID,
		Currency: doc.Quote.Currency,
		Columns:  doc.Summary.Columns,
		Rows:     make([]dto.SummaryRowResponse, 0, len(doc.Summary.Rows)),
	}
	if doc.Customer != nil {
		out.Customer = doc.Customer.Name
	}
	for _, r := range doc.Summary.Rows {
		out.Rows = append(out.Rows, dto.SummaryRowResponse{
			Code:   r.Code,
			Label:  r.Label,
			Kind:   r.Kind,
			Values: r.Values,
			Total:  r.Total,
		})
	}
	return out, nil
}

// SummaryXLSX resumen general como libro de Excel.
func (uc *ReportUseCase) SummaryXLSX(ctx context.Context, companyID, quoteID string) ([]byte, error) {
	if uc.xlsx == nil {
		return nil, fmt.Errorf("%w: exportación a Excel no configurada", domain.ErrInvalidInput)
	}
	doc, err := uc.summaryDocument(ctx, companyID, quoteID)
	if err != nil {
		return nil, err
	}
	return uc.xlsx.GenerateSummaryXLSX(ctx, *doc)
}

// SummaryPDF resumen general en PDF.
func (uc *ReportUseCase) SummaryPDF(ctx context.Context, companyID, quoteID string) ([]byte, error) {
	if uc.pdf == nil {
		return nil, fmt.Errorf("%w: generación de PDF no configurada", domain.ErrInvalidInput)
	}
	doc, err := uc.summaryDocument(ctx, companyID, quoteID)
	if err != nil {
		return nil, err
	}
	return uc.pdf.GenerateSummaryPDF(ctx, *doc)
}

// QuotePDF documento para el cliente agrupado según el modo de presentación, con totales por sitio e IVA.
func (uc *ReportUseCase) QuotePDF(ctx context.Context, companyID, quoteID string) ([]byte, error) {
	if uc.pdf == nil {
		return nil, fmt.Errorf("%w: generación de PDF no configurada", domain.ErrInvalidInput)
	}
	doc, err := uc.QuoteDocument(ctx, companyID, quoteID)
	if err != nil {
		return nil, err
	}
	return uc.pdf.GenerateQuotePDF(ctx, *doc)
}

// QuoteDocument arma los datos del PDF de la cotización.
func (uc *ReportUseCase) QuoteDocument(ctx context.Context, companyID, quoteID string) (*QuoteDocument, error) {
	q, sites, lines, err := uc.load(ctx, companyID, quoteID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: la cotización no tiene líneas", domain.ErrInvalidInput)
	}
	rubros, err := uc.rubros.List(ctx, q.CompanyID)
	if err != nil {
		return nil, err
	}
	company, customer, err := uc.parties(ctx, q)
	if err != nil {
		return nil, err
	}
	doc := &QuoteDocument{
		Company:  company,
		Customer: customer,
		Quote:    q,
		Lines: quoting.BuildExport(quoting.ExportInput{
			Quote:  q,
			Lines:  lines,
			Sites:  sites,
			Rubros: rubros,
		}),
	}
	for _, s := range sites {
		siteLines := pricing.ForSite(lines, s.ID)
		if len(siteLines) == 0 {
			continue
		}
		sub := pricing.Total(siteLines, q.PrestacionesPercent)
		iva := vatOf(sub, uc.cfg.VATRate)
		doc.SiteTotals = append(doc.SiteTotals, SiteTotal{Name: s.Name, Subtotal: sub, IVA: iva, Total: sub.Add(iva)})
		doc.Subtotal = doc.Subtotal.Add(sub)
		doc.IVA = doc.IVA.Add(iva)
	}
	doc.Total = doc.Subtotal.Add(doc.IVA)
	return doc, nil
}

func (uc *ReportUseCase) summaryDocument(ctx context.Context, companyID, quoteID string) (*SummaryDocument, error) {
	q, sites, lines, err := uc.load(ctx, companyID, quoteID)
	if err != nil {
		return nil, err
	}
	rubros, err := uc.rubros.List(ctx, q.CompanyID)
	if err != nil {
		return nil, err
	}
	summary, err := pricing.BuildSummary(sites, lines, rubros, pricing.ParamsFromQuote(q, uc.cfg.VATRate))
	if err != nil {
		return nil, err
	}
	company, customer, err := uc.parties(ctx, q)
	if err != nil {
		return nil, err
	}
	return &SummaryDocument{Company: company, Customer: customer, Quote: q, Summary: summary}, nil
}

// load cotización, sitios ordenados y líneas con las huérfanas en General.
func (uc *ReportUseCase) load(ctx context.Context, companyID, quoteID string) (*entity.Quote, []*entity.Site, []*entity.QuoteLine, error) {
	q, err := loadQuote(ctx, uc.quotes, companyID, quoteID)
	if err != nil {
		return nil, nil, nil, err
	}
	sites, err := uc.sites.ListByQuote(ctx, q.ID)
	if err != nil {
		return nil, nil, nil, err
	}
	lines, err := uc.lines.ListByQuote(ctx, q.ID)
	if err != nil {
		return nil, nil, nil, err
	}
	lines = attachOrphans(lines, sites)
	return q, sites, lines, nil
}

func (uc *ReportUseCase) parties(ctx context.Context, q *entity.Quote) (*entity.Company, *entity.Customer, error) {
	company, err := uc.companies.GetByID(ctx, q.CompanyID)
	if err != nil {
		return nil, nil, err
	}
	customer, err := uc.customers.GetByID(ctx, q.CustomerID)
	if err != nil {
		return nil, nil, err
	}
	// Los documentos se generan aunque falte la ficha: encabezados vacíos.
	if company == nil {
		company = &entity.Company{ID: q.CompanyID}
	}
	if customer == nil {
		customer = &entity.Customer{ID: q.CustomerID}
	}
	return company, customer, nil
}

// vatOf IVA de un importe con la tasa configurada.
func vatOf(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(rate).Round(2)
}
