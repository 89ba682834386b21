// Package pdf genera los documentos PDF para el cliente: la cotización agrupada
// según su modo de presentación y el resumen general rubros × sitios.
//
// Layout de la cotización (A4 vertical):
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Razón Social + RFC  │  COTIZACIÓN + nombre + fecha │
//	│  EMISOR / CLIENTE                                            │
//	│  TABLA: Concepto | Importe (secciones en negrita)            │
//	│  TOTALES POR SITIO: Sitio | Subtotal | IVA | Total           │
//	│  TOTALES: Subtotal / I.V.A. / TOTAL                          │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/Cotizador-api/internal/application/quote"
	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
	"github.com/jhoicas/Cotizador-api/internal/domain/pricing"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorLight   = &props.Color{Red: 230, Green: 238, Blue: 245}
)

var money = message.NewPrinter(language.MustParse("es-MX"))

// ── Generator ─────────────────────────────────────────────────────────────────

var _ quote.PDFGenerator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa quote.PDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	now func() time.Time
}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{now: time.Now} }

// GenerateQuotePDF genera la cotización para el cliente. El tabulador no aparece:
// las partidas ya vienen agrupadas con importes finales.
func (g *MarotoPDFGenerator) GenerateQuotePDF(_ context.Context, doc quote.QuoteDocument) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithPageNumber(props.PageNumber{
			Pattern: "Página {current} de {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   colorGray,
		}).
		WithTitle("Cotización "+doc.Quote.Name, true).
		WithAuthor(doc.Company.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(doc.Company, "COTIZACIÓN", doc.Quote.Name, g.now()))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(emisorRow(doc.Company))
	m.AddRows(clienteRow(doc.Customer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	cur := doc.Quote.Currency
	m.AddRows(tableHeaderRow(cur))
	for _, l := range doc.Lines {
		m.AddRows(conceptRow(l.DisplayType, l.Name, l.Amount))
	}

	if len(doc.SiteTotals) > 1 {
		m.AddRows(line.NewRow(3))
		m.AddRows(siteTotalsHeaderRow())
		for _, st := range doc.SiteTotals {
			m.AddRows(siteTotalRow(st))
		}
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(doc.Subtotal, doc.IVA, doc.Total, cur))
	m.AddRows(line.NewRow(3))
	m.AddRows(row.New(8).Add(col.New(12).Add(
		text.New(fmt.Sprintf("Importes mensuales en %s. Precios sujetos a la vigencia indicada en la cotización.", cur),
			props.Text{Size: 7, Color: colorGray, Top: 2}),
	)))

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar cotización: %w", err)
	}
	return out.GetBytes(), nil
}

// GenerateSummaryPDF genera el resumen general en horizontal: una columna por sitio más TOTAL.
func (g *MarotoPDFGenerator) GenerateSummaryPDF(_ context.Context, doc quote.SummaryDocument) ([]byte, error) {
	s := doc.Summary
	// Grilla: concepto (4) + 2 por sitio + 2 del total.
	grid := 4 + 2*(len(s.Columns)+1)
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithMaxGridSize(grid).
		WithLeftMargin(8).WithRightMargin(8).
		WithTopMargin(8).WithBottomMargin(8).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithPageNumber(props.PageNumber{
			Pattern: "Página {current} de {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   colorGray,
		}).
		WithTitle("Resumen "+doc.Quote.Name, true).
		WithAuthor(doc.Company.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(row.New(16).Add(
		col.New(grid/2).Add(
			text.New(doc.Company.Name, props.Text{Style: fontstyle.Bold, Size: 12, Color: colorPrimary, Top: 1}),
			text.New("Cliente: "+doc.Customer.Name, props.Text{Size: 8, Top: 8, Color: colorGray}),
		),
		col.New(grid-grid/2).Add(
			text.New("RESUMEN GENERAL", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1}),
			text.New(doc.Quote.Name, props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 7}),
		),
	))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	head := []core.Col{headerCol(4, "Concepto", align.Left)}
	for _, c := range s.Columns {
		head = append(head, headerCol(2, c, align.Right))
	}
	head = append(head, headerCol(2, "TOTAL", align.Right))
	m.AddRows(row.New(8).Add(head...))

	for _, r := range s.Rows {
		m.AddRows(summaryRow(r))
	}

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar resumen: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: Razón social + RFC (izq) y título + nombre + fecha (der).
func headerRow(company *entity.Company, title, name string, at time.Time) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(company.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("RFC: "+nonEmpty(company.TaxID, "—"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(name, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+at.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// emisorRow: datos de la empresa que cotiza.
func emisorRow(company *entity.Company) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("DATOS DEL EMISOR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Dirección: %s   |   Tel: %s   |   Email: %s",
				nonEmpty(company.Address, "—"),
				nonEmpty(company.Phone, "—"),
				nonEmpty(company.Email, "—"),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// clienteRow: datos del cliente.
func clienteRow(customer *entity.Customer) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(customer.Name, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("RFC: %s   |   Email: %s   |   Tel: %s",
				nonEmpty(customer.TaxID, "—"),
				nonEmpty(customer.Email, "—"),
				nonEmpty(customer.Phone, "—"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// headerCol celda de cabecera: texto blanco sobre el color primario.
func headerCol(size int, label string, a align.Type) core.Col {
	return col.New(size).Add(text.New(label, props.Text{
		Style: fontstyle.Bold, Size: 8, Align: a,
		Color: colorWhite, Top: 2, Left: 1, Right: 1,
	})).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

// tableHeaderRow: cabecera de la tabla de conceptos.
func tableHeaderRow(currency string) core.Row {
	return row.New(8).Add(
		headerCol(9, "Concepto", align.Left),
		headerCol(3, "Importe mensual ("+currency+")", align.Right),
	)
}

// conceptRow: las secciones ocupan todo el ancho en negrita; las partidas llevan importe.
func conceptRow(displayType, name string, amount decimal.Decimal) core.Row {
	if displayType == entity.OrderLineSection {
		return row.New(7).Add(col.New(12).Add(
			text.New(name, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1.5, Left: 1}),
		).WithStyle(&props.Cell{BackgroundColor: colorLight}))
	}
	return row.New(7).Add(
		col.New(9).Add(text.New(name, props.Text{Size: 8, Top: 1.5, Left: 3})),
		col.New(3).Add(text.New(formatMoney(amount), props.Text{Size: 8, Align: align.Right, Top: 1.5, Right: 1})),
	)
}

func siteTotalsHeaderRow() core.Row {
	return row.New(7).Add(
		headerCol(6, "Sitio", align.Left),
		headerCol(2, "Subtotal", align.Right),
		headerCol(2, "I.V.A.", align.Right),
		headerCol(2, "Total", align.Right),
	)
}

func siteTotalRow(st quote.SiteTotal) core.Row {
	v := func(d decimal.Decimal) core.Component {
		return text.New(formatMoney(d), props.Text{Size: 8, Align: align.Right, Top: 1.5, Right: 1})
	}
	return row.New(7).Add(
		col.New(6).Add(text.New(st.Name, props.Text{Size: 8, Top: 1.5, Left: 1})),
		col.New(2).Add(v(st.Subtotal)),
		col.New(2).Add(v(st.IVA)),
		col.New(2).Add(v(st.Total)),
	)
}

// totalsRow: bloque de totales alineado a la derecha.
func totalsRow(subtotal, iva, total decimal.Decimal, currency string) core.Row {
	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top,
		})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	grand := func(s string, right float64) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: right, Top: 11,
		})
	}

	return row.New(18).Add(
		col.New(4),
		col.New(4).Add(
			label("Subtotal:", 0),
			label("I.V.A.:", 5),
			grand("TOTAL "+currency+":", 2),
		),
		col.New(4).Add(
			value(formatMoney(subtotal), 0),
			value(formatMoney(iva), 5),
			grand(formatMoney(total), 1),
		),
	)
}

// summaryRow: filas de rubro normales; subtotales y totales resaltados.
func summaryRow(r pricing.SummaryRow) core.Row {
	style := props.Text{Size: 7.5, Top: 1.5, Right: 1}
	var bg *props.Cell
	switch r.Kind {
	case pricing.RowTotal:
		style.Style = fontstyle.Bold
		style.Color = colorPrimary
		bg = &props.Cell{BackgroundColor: colorLight}
	case pricing.RowSubtotal:
		style.Style = fontstyle.Bold
	}
	labelStyle := style
	labelStyle.Left = 1
	valueStyle := style
	valueStyle.Align = align.Right

	cell := func(size int, c core.Component) core.Col {
		out := col.New(size).Add(c)
		if bg != nil {
			out = out.WithStyle(bg)
		}
		return out
	}
	cols := []core.Col{cell(4, text.New(r.Label, labelStyle))}
	for _, v := range r.Values {
		cols = append(cols, cell(2, text.New(formatMoney(v), valueStyle)))
	}
	cols = append(cols, cell(2, text.New(formatMoney(r.Total), valueStyle)))
	return row.New(6).Add(cols...)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney "$1,234.50" con separadores de miles es-MX.
func formatMoney(d decimal.Decimal) string {
	return "$" + money.Sprintf("%.2f", d.Round(2).InexactFloat64())
}
