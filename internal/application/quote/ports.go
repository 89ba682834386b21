package quote

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
	"github.com/jhoicas/Cotizador-api/internal/domain/pricing"
	"github.com/jhoicas/Cotizador-api/internal/domain/quoting"
	"github.com/jhoicas/Cotizador-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción con los repos de la cotización.
type TxRunner interface {
	RunQuote(ctx context.Context, fn func(
		quoteRepo repository.QuoteRepository,
		siteRepo repository.SiteRepository,
		lineRepo repository.QuoteLineRepository,
		ackRepo repository.AckRepository,
	) error) error
}

// Config valores por defecto de las cotizaciones.
type Config struct {
	VATRate  decimal.Decimal // fracción: 0.16
	Currency string
}

// SiteTotal totales de un sitio en el documento para el cliente.
type SiteTotal struct {
	Name     string
	Subtotal decimal.Decimal
	IVA      decimal.Decimal
	Total    decimal.Decimal
}

// QuoteDocument datos del PDF de la cotización (sin tabulador ni costos internos).
type QuoteDocument struct {
	Company    *entity.Company
	Customer   *entity.Customer
	Quote      *entity.Quote
	Lines      []quoting.ExportLine
	SiteTotals []SiteTotal
	Subtotal   decimal.Decimal
	IVA        decimal.Decimal
	Total      decimal.Decimal
}

// SummaryDocument datos del resumen general para PDF y XLSX.
type SummaryDocument struct {
	Company  *entity.Company
	Customer *entity.Customer
	Quote    *entity.Quote
	Summary  *pricing.Summary
}

// PDFGenerator genera los documentos PDF de la cotización.
type PDFGenerator interface {
	GenerateQuotePDF(ctx context.Context, doc QuoteDocument) ([]byte, error)
	GenerateSummaryPDF(ctx context.Context, doc SummaryDocument) ([]byte, error)
}

// SpreadsheetGenerator exporta el resumen general a hoja de cálculo.
type SpreadsheetGenerator interface {
	GenerateSummaryXLSX(ctx context.Context, doc SummaryDocument) ([]byte, error)
}
