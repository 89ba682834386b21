package pricing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cotizador-api/internal/domain"
	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
	"github.com/jhoicas/Cotizador-api/internal/domain/pricing"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func line(siteID, serviceType, rubro, qty, base string, tab int) *entity.QuoteLine {
	sid := siteID
	return &entity.QuoteLine{
		SiteID:           &sid,
		ServiceType:      serviceType,
		RubroCode:        rubro,
		Quantity:         dec(qty),
		BasePrice:        dec(base),
		TabulatorPercent: tab,
		TaxRate:          dec("16"),
	}
}

func params() pricing.Params {
	return pricing.Params{
		AdminPercent:        dec("10"),
		UtilityPercent:      dec("10"),
		FinancialPercent:    dec("2"),
		TransporteRate:      dec("500"),
		BienestarRate:       dec("200"),
		PrestacionesPercent: decimal.Zero,
		VATRate:             dec("0.16"),
	}
}

// sitio S1: 2 colaboradores, uniforme, perfil médico y maquinaria de jardinería.
func siteLines() []*entity.QuoteLine {
	return []*entity.QuoteLine{
		line("s1", entity.ServiceLimpieza, entity.RubroManoObra, "2", "10000", 0),
		line("s1", entity.ServiceLimpieza, entity.RubroUniforme, "4", "250", 0),
		line("s1", entity.ServiceLimpieza, entity.RubroPerfilMedico, "2", "500", 0),
		line("s1", entity.ServiceJardineria, entity.RubroMaquinariaJardineria, "1", "3000", 0),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Línea
// ──────────────────────────────────────────────────────────────────────────────

func TestLine_TabuladorSobrePrecioBase(t *testing.T) {
	l := line("s1", entity.ServiceLimpieza, entity.RubroUniforme, "3", "100", 10)
	a := pricing.Line(l, decimal.Zero)

	assert.Equal(t, "100.00", a.BasePrice.StringFixed(2))
	assert.Equal(t, "110.00", a.PriceUnitFinal.StringFixed(2))
	assert.Equal(t, "330.00", a.MonthlySubtotal.StringFixed(2))
	assert.Equal(t, "330.00", a.TotalPrice.StringFixed(2))
	assert.Equal(t, "52.80", a.AmountTax.StringFixed(2))
}

func TestLine_RedondeoAMoneda(t *testing.T) {
	a := pricing.Line(line("s1", "", entity.RubroEPP, "1", "33.33", 5), decimal.Zero)
	assert.Equal(t, "35.00", a.PriceUnitFinal.StringFixed(2), "33.33 * 1.05 = 34.9965 debe redondear a 35.00")

	b := pricing.Line(line("s1", "", entity.RubroEPP, "1", "99.999", 3), decimal.Zero)
	assert.Equal(t, "100.00", b.BasePrice.StringFixed(2))
	assert.Equal(t, "103.00", b.PriceUnitFinal.StringFixed(2))
}

func TestLine_PrestacionesSoloManoDeObra(t *testing.T) {
	mo := pricing.Line(line("s1", "", entity.RubroManoObra, "2", "10000", 0), dec("30"))
	assert.Equal(t, "20000.00", mo.MonthlySubtotal.StringFixed(2))
	assert.Equal(t, "6000.00", mo.Prestaciones.StringFixed(2))
	assert.Equal(t, "26000.00", mo.TotalPrice.StringFixed(2))

	uni := pricing.Line(line("s1", "", entity.RubroUniforme, "2", "10000", 0), dec("30"))
	assert.True(t, uni.Prestaciones.IsZero())
	assert.Equal(t, "20000.00", uni.TotalPrice.StringFixed(2))
}

// ──────────────────────────────────────────────────────────────────────────────
// Indicadores
// ──────────────────────────────────────────────────────────────────────────────

func TestSiteIndicators_ResumenDelSitio(t *testing.T) {
	s := pricing.SiteIndicators(siteLines(), params())

	assert.Equal(t, 2, s.Colaboradores)
	assert.Equal(t, "21000.00", s.Subtotal1.StringFixed(2))
	assert.Equal(t, "2100.00", s.Administracion.StringFixed(2))
	assert.Equal(t, "2100.00", s.Utilidad.StringFixed(2))
	assert.Equal(t, "25200.00", s.Subtotal2.StringFixed(2))
	assert.Equal(t, "1000.00", s.Transporte.StringFixed(2))
	assert.Equal(t, "400.00", s.Bienestar.StringFixed(2))
	assert.Equal(t, "460.00", s.CostoFinanciero.StringFixed(2))
	assert.Equal(t, "31060.00", s.TotalAntesIVA.StringFixed(2))
	assert.Equal(t, "4969.60", s.IVA.StringFixed(2))
	assert.Equal(t, "36029.60", s.TotalConIVA.StringFixed(2))
	assert.Equal(t, "25000.00", s.RubrosTotal.StringFixed(2))
	assert.True(t, s.OtrosRubros.IsZero())
	assert.Equal(t, "15530.00", s.PerPerson(s.TotalAntesIVA).StringFixed(2))
}

func TestSiteIndicators_SinColaboradoresPerPersonaCero(t *testing.T) {
	lines := []*entity.QuoteLine{line("s1", "", entity.RubroEPP, "3", "100", 0)}
	s := pricing.SiteIndicators(lines, params())

	assert.Equal(t, 0, s.Colaboradores)
	assert.True(t, s.Transporte.IsZero())
	assert.True(t, s.PerPerson(s.TotalAntesIVA).IsZero())
	assert.Equal(t, "300.00", s.OtrosRubros.StringFixed(2), "EPP no forma parte de otros rubros")
	assert.Equal(t, "300.00", s.Subtotal1.StringFixed(2))
}

func TestSiteIndicators_ColaboradoresTruncados(t *testing.T) {
	lines := []*entity.QuoteLine{line("s1", "", entity.RubroManoObra, "2.5", "100", 0)}
	s := pricing.SiteIndicators(lines, params())
	assert.Equal(t, 2, s.Colaboradores)
}

func TestServiceIndicators_SueldoYPrestaciones(t *testing.T) {
	p := params()
	p.PrestacionesPercent = dec("30")
	lines := []*entity.QuoteLine{
		line("s1", entity.ServiceLimpieza, entity.RubroManoObra, "2", "10000", 0),
		line("s1", entity.ServiceLimpieza, entity.RubroMaterialLimpieza, "1", "500", 0),
	}
	s := pricing.ServiceIndicators(lines, p)

	assert.Equal(t, 2, s.Colaboradores)
	assert.Equal(t, "20000.00", s.SueldoBruto.StringFixed(2))
	assert.Equal(t, "6000.00", s.Prestaciones.StringFixed(2))
	assert.Equal(t, "26000.00", s.Rubro(entity.RubroManoObra).StringFixed(2))
	assert.Equal(t, "26500.00", s.Total.StringFixed(2))
	assert.Equal(t, "13250.00", s.PerPerson(s.Total).StringFixed(2))
}

func TestGeneralIndicators(t *testing.T) {
	lines := append(siteLines(), line("s2", entity.ServiceLimpieza, entity.RubroEPP, "1", "100", 0))
	g := pricing.GeneralIndicators(lines, params())

	assert.Equal(t, 5, g.TotalElementos)
	assert.Equal(t, "25100.00", g.CostoMensual.StringFixed(2))
	assert.Equal(t, 2, g.PersonalRequerido)
	assert.Equal(t, "35.71", g.PorcentajeCompletado.StringFixed(2))
}

func TestForScope_FiltraSitioYTipo(t *testing.T) {
	lines := siteLines()
	assert.Len(t, pricing.ForScope(lines, "s1", entity.ServiceLimpieza), 3)
	assert.Len(t, pricing.ForScope(lines, "s1", entity.ServiceJardineria), 1)
	assert.Empty(t, pricing.ForScope(lines, "s2", entity.ServiceLimpieza))
}

// ──────────────────────────────────────────────────────────────────────────────
// Resumen general
// ──────────────────────────────────────────────────────────────────────────────

func testRubros() []*entity.Rubro {
	out := make([]*entity.Rubro, 0, len(entity.RubroCodes))
	for i, code := range entity.RubroCodes {
		out = append(out, &entity.Rubro{Code: code, Name: entity.RubroLabel(code), Sequence: (i + 1) * 10, Active: true})
	}
	return out
}

func TestBuildSummary_ColumnasYTotales(t *testing.T) {
	sites := []*entity.Site{
		{ID: "g", Name: entity.GeneralSiteName, Sequence: entity.GeneralSiteSequence, Active: true},
		{ID: "s2", Name: "Sitio B", Sequence: 20, Active: true},
		{ID: "s1", Name: "Sitio A", Sequence: 10, Active: true},
		{ID: "s3", Name: "Archivado", Sequence: 5, Active: false},
	}
	lines := append(siteLines(), line("s2", entity.ServiceLimpieza, entity.RubroEPP, "1", "100", 0))

	sum, err := pricing.BuildSummary(sites, lines, testRubros(), params())
	require.NoError(t, err)

	assert.Equal(t, []string{"Sitio A", "Sitio B"}, sum.Columns, "General vacío e inactivos no aparecen")

	byCode := map[string]pricing.SummaryRow{}
	for _, r := range sum.Rows {
		byCode[r.Code] = r
	}
	assert.NotContains(t, byCode, entity.RubroCapacitacion, "rubros en cero se omiten")

	mo := byCode[entity.RubroManoObra]
	assert.Equal(t, "Mano de Obra", mo.Label)
	assert.Equal(t, "20000.00", mo.Values[0].StringFixed(2))
	assert.True(t, mo.Values[1].IsZero())

	total := byCode["total_antes_iva"]
	assert.Equal(t, pricing.RowTotal, total.Kind)
	assert.Equal(t, "31060.00", total.Values[0].StringFixed(2))

	// SUBTOTAL + COORDINADOR + UTILIDAD + TRANSPORTE + BIENESTAR + FINANCIERO = TOTAL ANTES DE IVA
	recomposed := decimal.Zero
	for _, code := range []string{"subtotal", "administracion", "utilidad", "transporte", "bienestar", "costo_financiero"} {
		recomposed = recomposed.Add(byCode[code].Total)
	}
	assert.True(t, recomposed.Equal(total.Total), "las filas intermedias deben recomponer el total")
}

func TestBuildSummary_SinSitios(t *testing.T) {
	sites := []*entity.Site{{ID: "g", Name: entity.GeneralSiteName, Active: true}}
	_, err := pricing.BuildSummary(sites, nil, testRubros(), params())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
