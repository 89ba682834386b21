package pdf_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cotizador-api/internal/application/quote"
	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
	"github.com/jhoicas/Cotizador-api/internal/domain/pricing"
	"github.com/jhoicas/Cotizador-api/internal/domain/quoting"
	"github.com/jhoicas/Cotizador-api/internal/infrastructure/pdf"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func parties() (*entity.Company, *entity.Customer, *entity.Quote) {
	return &entity.Company{Name: "Servicios CCN", TaxID: "CCN010101AAA"},
		&entity.Customer{Name: "Plaza Norte", TaxID: "PNO020202BBB"},
		&entity.Quote{Name: "Limpieza 2026", Currency: "MXN"}
}

func assertPDF(t *testing.T, out []byte) {
	t.Helper()
	require.NotEmpty(t, out)
	assert.Equal(t, "%PDF-", string(out[:5]))
}

func TestGenerateQuotePDF(t *testing.T) {
	company, customer, q := parties()
	doc := quote.QuoteDocument{
		Company:  company,
		Customer: customer,
		Quote:    q,
		Lines: []quoting.ExportLine{
			{Sequence: 10, DisplayType: entity.OrderLineSection, Name: "SITIO: Torre A"},
			{Sequence: 20, DisplayType: entity.OrderLineProduct, Name: "Servicio de Limpieza", Amount: d("15400.50")},
			{Sequence: 30, DisplayType: entity.OrderLineSection, Name: "SITIO: Torre B"},
			{Sequence: 40, DisplayType: entity.OrderLineProduct, Name: "Servicio de Jardinería", Amount: d("8000")},
		},
		SiteTotals: []quote.SiteTotal{
			{Name: "Torre A", Subtotal: d("15400.50"), IVA: d("2464.08"), Total: d("17864.58")},
			{Name: "Torre B", Subtotal: d("8000"), IVA: d("1280"), Total: d("9280")},
		},
		Subtotal: d("23400.50"),
		IVA:      d("3744.08"),
		Total:    d("27144.58"),
	}

	out, err := pdf.NewMarotoPDFGenerator().GenerateQuotePDF(context.Background(), doc)
	require.NoError(t, err)
	assertPDF(t, out)
}

func TestGenerateSummaryPDF(t *testing.T) {
	company, customer, q := parties()
	doc := quote.SummaryDocument{
		Company:  company,
		Customer: customer,
		Quote:    q,
		Summary: &pricing.Summary{
			Columns: []string{"Torre A", "Torre B"},
			Rows: []pricing.SummaryRow{
				{Code: entity.RubroManoObra, Label: "Mano de Obra", Kind: pricing.RowRubro, Values: []decimal.Decimal{d("100"), d("200")}, Total: d("300")},
				{Code: "total_con_iva", Label: "TOTAL CON I.V.A.", Kind: pricing.RowTotal, Values: []decimal.Decimal{d("116"), d("232")}, Total: d("348")},
			},
		},
	}

	out, err := pdf.NewMarotoPDFGenerator().GenerateSummaryPDF(context.Background(), doc)
	require.NoError(t, err)
	assertPDF(t, out)
}
