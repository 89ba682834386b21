package pricing

import (
	"fmt"
	"sort"

	"github.com/jhoicas/Cotizador-api/internal/domain"
	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Tipos de fila del resumen general.
const (
	RowRubro    = "rubro"
	RowSubtotal = "subtotal"
	RowTotal    = "total"
)

// SummaryRow fila del resumen: un valor por columna más el total.
type SummaryRow struct {
	Code   string
	Label  string
	Kind   string
	Values []decimal.Decimal
	Total  decimal.Decimal
}

// Summary matriz rubros × sitios de la cotización.
type Summary struct {
	Columns []string // nombres de sitio; la columna TOTAL va aparte
	Rows    []SummaryRow
}

// BuildSummary arma el resumen general. El sitio General solo aparece si tiene líneas.
// rubros define el orden y las etiquetas de las filas de rubro.
func BuildSummary(sites []*entity.Site, lines []*entity.QuoteLine, rubros []*entity.Rubro, p Params) (*Summary, error) {
	cols := make([]*entity.Site, 0, len(sites))
	for _, s := range sites {
		if !s.Active {
			continue
		}
		if s.IsGeneral() && len(ForSite(lines, s.ID)) == 0 {
			continue
		}
		cols = append(cols, s)
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("%w: No hay sitios configurados", domain.ErrInvalidInput)
	}
	sort.SliceStable(cols, func(i, j int) bool {
		if cols[i].Sequence != cols[j].Sequence {
			return cols[i].Sequence < cols[j].Sequence
		}
		return cols[i].Name < cols[j].Name
	})

	per := make([]Site, len(cols))
	out := &Summary{Columns: make([]string, len(cols))}
	for i, s := range cols {
		out.Columns[i] = s.Name
		per[i] = SiteIndicators(ForSite(lines, s.ID), p)
	}

	row := func(code, label, kind string, pick func(Site) decimal.Decimal) SummaryRow {
		r := SummaryRow{Code: code, Label: label, Kind: kind, Values: make([]decimal.Decimal, len(per))}
		for i, s := range per {
			r.Values[i] = pick(s)
			r.Total = r.Total.Add(r.Values[i])
		}
		return r
	}

	for _, rb := range SortRubros(rubros) {
		code := rb.Code
		r := row(code, rb.Name, RowRubro, func(s Site) decimal.Decimal { return s.Rubro(code) })
		if r.Total.IsZero() {
			continue
		}
		out.Rows = append(out.Rows, r)
	}
	out.Rows = append(out.Rows,
		row("subtotal", "SUBTOTAL", RowSubtotal, func(s Site) decimal.Decimal { return s.RubrosTotal }),
		row("administracion", "COORDINADOR", RowSubtotal, func(s Site) decimal.Decimal { return s.Administracion }),
		row("utilidad", "UTILIDAD", RowSubtotal, func(s Site) decimal.Decimal { return s.Utilidad }),
		row("transporte", "TRANSPORTE", RowSubtotal, func(s Site) decimal.Decimal { return s.Transporte }),
		row("bienestar", "BIENESTAR", RowSubtotal, func(s Site) decimal.Decimal { return s.Bienestar }),
		row("costo_financiero", "COSTO FINANCIERO", RowSubtotal, func(s Site) decimal.Decimal { return s.CostoFinanciero }),
		row("total_antes_iva", "TOTAL MENSUAL ANTES DE I.V.A.", RowTotal, func(s Site) decimal.Decimal { return s.TotalAntesIVA }),
		row("iva", "I.V.A.", RowSubtotal, func(s Site) decimal.Decimal { return s.IVA }),
		row("total_con_iva", "TOTAL CON I.V.A.", RowTotal, func(s Site) decimal.Decimal { return s.TotalConIVA }),
	)
	return out, nil
}

// SortRubros ordena por (secuencia, nombre) sin modificar la entrada.
func SortRubros(rubros []*entity.Rubro) []*entity.Rubro {
	out := make([]*entity.Rubro, len(rubros))
	copy(out, rubros)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Sequence != out[j].Sequence {
			return out[i].Sequence < out[j].Sequence
		}
		return out[i].Name < out[j].Name
	})
	return out
}
