// Package pricing concentra las fórmulas de precio e indicadores de la cotización.
// Son funciones puras sobre líneas en memoria; no hacen I/O.
package pricing

import (
	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Params parámetros de la cabecera que intervienen en las fórmulas.
type Params struct {
	AdminPercent        decimal.Decimal
	UtilityPercent      decimal.Decimal
	FinancialPercent    decimal.Decimal
	TransporteRate      decimal.Decimal
	BienestarRate       decimal.Decimal
	PrestacionesPercent decimal.Decimal
	VATRate             decimal.Decimal // fracción: 0.16 = 16%
}

// ParamsFromQuote arma los parámetros a partir de la cabecera y la tasa de IVA configurada.
func ParamsFromQuote(q *entity.Quote, vatRate decimal.Decimal) Params {
	return Params{
		AdminPercent:        q.AdminPercent,
		UtilityPercent:      q.UtilityPercent,
		FinancialPercent:    q.FinancialPercent,
		TransporteRate:      q.TransporteRate,
		BienestarRate:       q.BienestarRate,
		PrestacionesPercent: q.PrestacionesPercent,
		VATRate:             vatRate,
	}
}

// LineAmounts importes calculados de una partida.
type LineAmounts struct {
	BasePrice       decimal.Decimal
	PriceUnitFinal  decimal.Decimal
	MonthlySubtotal decimal.Decimal
	Prestaciones    decimal.Decimal
	TotalPrice      decimal.Decimal
	AmountTax       decimal.Decimal
}

// Line calcula los importes de una partida.
// PriceUnitFinal = base * (1 + tab/100); las prestaciones solo aplican a mano de obra.
func Line(l *entity.QuoteLine, prestacionesPercent decimal.Decimal) LineAmounts {
	base := l.BasePrice.Round(2)
	tab := decimal.NewFromInt(int64(l.TabulatorPercent))
	final := base.Mul(hundred.Add(tab)).Div(hundred).Round(2)
	monthly := final.Mul(l.Quantity).Round(2)

	prest := decimal.Zero
	if l.RubroCode == entity.RubroManoObra {
		prest = percentOf(monthly, prestacionesPercent)
	}
	return LineAmounts{
		BasePrice:       base,
		PriceUnitFinal:  final,
		MonthlySubtotal: monthly,
		Prestaciones:    prest,
		TotalPrice:      monthly.Add(prest),
		AmountTax:       percentOf(monthly, l.TaxRate),
	}
}

// ForSite filtra las líneas de un sitio.
func ForSite(lines []*entity.QuoteLine, siteID string) []*entity.QuoteLine {
	out := make([]*entity.QuoteLine, 0, len(lines))
	for _, l := range lines {
		if l.InSite(siteID) {
			out = append(out, l)
		}
	}
	return out
}

// ForScope filtra las líneas de un sitio y tipo de servicio.
func ForScope(lines []*entity.QuoteLine, siteID, serviceType string) []*entity.QuoteLine {
	out := make([]*entity.QuoteLine, 0, len(lines))
	for _, l := range lines {
		if l.InSite(siteID) && l.ServiceType == serviceType {
			out = append(out, l)
		}
	}
	return out
}

// Total suma TotalPrice de las líneas.
func Total(lines []*entity.QuoteLine, prestacionesPercent decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(Line(l, prestacionesPercent).TotalPrice)
	}
	return sum
}

func percentOf(amount, pct decimal.Decimal) decimal.Decimal {
	return amount.Mul(pct).Div(hundred).Round(2)
}
