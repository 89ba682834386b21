// Package excel exporta el resumen general de una cotización a XLSX con excelize.
package excel

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Cotizador-api/internal/application/quote"
	"github.com/jhoicas/Cotizador-api/internal/domain/pricing"
)

// SheetName hoja única del libro.
const SheetName = "Resumen"

// headerRow fila de encabezados de columna; las filas del resumen empiezan debajo.
const headerRow = 5

// numFmtMoney "#,##0.00" de los formatos integrados de Excel.
const numFmtMoney = 4

var _ quote.SpreadsheetGenerator = (*SummaryExporter)(nil)

// SummaryExporter implementa quote.SpreadsheetGenerator.
type SummaryExporter struct{}

// NewSummaryExporter construye el exportador.
func NewSummaryExporter() *SummaryExporter { return &SummaryExporter{} }

type styles struct {
	title, subtitle, header, label, value, subLabel, subValue, totalLabel, totalValue int
}

// GenerateSummaryXLSX escribe la matriz rubros × sitios: columna A con el concepto,
// una columna por sitio y la columna TOTAL al final. Los importes quedan como números.
func (e *SummaryExporter) GenerateSummaryXLSX(_ context.Context, doc quote.SummaryDocument) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}
	st, err := newStyles(f)
	if err != nil {
		return nil, err
	}

	s := doc.Summary
	lastCol := len(s.Columns) + 2
	lastName, _ := excelize.ColumnNumberToName(lastCol)

	if err := f.SetColWidth(SheetName, "A", "A", 38); err != nil {
		return nil, fmt.Errorf("set col width: %w", err)
	}
	second, _ := excelize.ColumnNumberToName(2)
	if err := f.SetColWidth(SheetName, second, lastName, 18); err != nil {
		return nil, fmt.Errorf("set col width: %w", err)
	}

	// ── Encabezado ──────────────────────────────────────────────────────
	if err := f.MergeCell(SheetName, "A1", lastName+"1"); err != nil {
		return nil, fmt.Errorf("merge title: %w", err)
	}
	companyName := ""
	if doc.Company != nil {
		companyName = doc.Company.Name
	}
	customerName := ""
	if doc.Customer != nil {
		customerName = doc.Customer.Name
	}
	set(f, "A1", sanitizeExcelCell(companyName), st.title)
	set(f, "A2", "Cotización: "+sanitizeExcelCell(doc.Quote.Name), st.subtitle)
	set(f, "A3", "Cliente: "+sanitizeExcelCell(customerName), st.subtitle)

	set(f, cell(1, headerRow), "Concepto", st.header)
	for i, name := range s.Columns {
		set(f, cell(i+2, headerRow), sanitizeExcelCell(name), st.header)
	}
	set(f, cell(lastCol, headerRow), "TOTAL", st.header)

	// ── Filas ───────────────────────────────────────────────────────────
	for i, r := range s.Rows {
		y := headerRow + 1 + i
		label, value := st.label, st.value
		switch r.Kind {
		case pricing.RowSubtotal:
			label, value = st.subLabel, st.subValue
		case pricing.RowTotal:
			label, value = st.totalLabel, st.totalValue
		}
		set(f, cell(1, y), sanitizeExcelCell(r.Label), label)
		for j, v := range r.Values {
			set(f, cell(j+2, y), v.Round(2).InexactFloat64(), value)
		}
		set(f, cell(lastCol, y), r.Total.Round(2).InexactFloat64(), value)
	}

	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze: true, XSplit: 1, YSplit: headerRow,
		TopLeftCell: cell(2, headerRow+1), ActivePane: "bottomRight",
	}); err != nil {
		return nil, fmt.Errorf("freeze panes: %w", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

func newStyles(f *excelize.File) (styles, error) {
	var st styles
	defs := []struct {
		dst   *int
		style *excelize.Style
	}{
		{&st.title, &excelize.Style{Font: &excelize.Font{Bold: true, Size: 14, Color: "#00467F"}}},
		{&st.subtitle, &excelize.Style{Font: &excelize.Font{Size: 11, Color: "#646464"}}},
		{&st.header, &excelize.Style{
			Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
			Fill:      excelize.Fill{Type: "pattern", Color: []string{"#00467F"}, Pattern: 1},
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
			Border:    thinBorders(),
		}},
		{&st.label, &excelize.Style{Font: &excelize.Font{Size: 10}, Border: thinBorders()}},
		{&st.value, &excelize.Style{Font: &excelize.Font{Size: 10}, Border: thinBorders(), NumFmt: numFmtMoney}},
		{&st.subLabel, &excelize.Style{Font: &excelize.Font{Bold: true, Size: 10}, Border: thinBorders()}},
		{&st.subValue, &excelize.Style{Font: &excelize.Font{Bold: true, Size: 10}, Border: thinBorders(), NumFmt: numFmtMoney}},
		{&st.totalLabel, &excelize.Style{
			Font:   &excelize.Font{Bold: true, Size: 11, Color: "#00467F"},
			Fill:   excelize.Fill{Type: "pattern", Color: []string{"#E6EEF5"}, Pattern: 1},
			Border: thinBorders(),
		}},
		{&st.totalValue, &excelize.Style{
			Font:   &excelize.Font{Bold: true, Size: 11, Color: "#00467F"},
			Fill:   excelize.Fill{Type: "pattern", Color: []string{"#E6EEF5"}, Pattern: 1},
			Border: thinBorders(),
			NumFmt: numFmtMoney,
		}},
	}
	for _, d := range defs {
		id, err := f.NewStyle(d.style)
		if err != nil {
			return styles{}, fmt.Errorf("create style: %w", err)
		}
		*d.dst = id
	}
	return st, nil
}

// set escribe valor y estilo; las coordenadas las arma cell, nunca fallan.
func set(f *excelize.File, ref string, v any, style int) {
	_ = f.SetCellValue(SheetName, ref, v)
	_ = f.SetCellStyle(SheetName, ref, ref, style)
}

func cell(col, row int) string {
	ref, _ := excelize.CoordinatesToCellName(col, row)
	return ref
}

// sanitizeExcelCell evita inyección de fórmulas anteponiendo comilla simple
// a los textos que Excel interpretaría como fórmula.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// thinBorders bordes finos en los cuatro lados.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{Type: side, Color: "#BFBFBF", Style: 1}
	}
	return borders
}
