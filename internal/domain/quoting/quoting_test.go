package quoting_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
	"github.com/jhoicas/Cotizador-api/internal/domain/quoting"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

func qline(siteID, serviceType, rubro, qty, base string) *entity.QuoteLine {
	sid := siteID
	return &entity.QuoteLine{
		SiteID:      &sid,
		ServiceType: serviceType,
		Type:        entity.LineTypeFor(serviceType),
		RubroCode:   rubro,
		Quantity:    decimal.RequireFromString(qty),
		BasePrice:   decimal.RequireFromString(base),
	}
}

func stateOf(states []quoting.RubroStatus, code string) quoting.RubroStatus {
	for _, s := range states {
		if s.Code == code {
			return s
		}
	}
	return quoting.RubroStatus{}
}

func rubroCatalog() []*entity.Rubro {
	out := make([]*entity.Rubro, 0, len(entity.RubroCodes))
	for i, code := range entity.RubroCodes {
		out = append(out, &entity.Rubro{Code: code, Name: entity.RubroLabel(code), Sequence: (i + 1) * 10, Active: true})
	}
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Semáforo de rubros
// ──────────────────────────────────────────────────────────────────────────────

func TestRubroStates_VerdeAmbarRojo(t *testing.T) {
	lines := []*entity.QuoteLine{
		qline("s1", entity.ServiceLimpieza, entity.RubroManoObra, "2", "100"),
		qline("s1", entity.ServiceLimpieza, entity.RubroManoObra, "1", "100"),
		qline("s1", entity.ServiceJardineria, entity.RubroUniforme, "1", "100"),
	}
	acks := []*entity.RubroAck{
		{SiteID: "s1", ServiceType: entity.ServiceLimpieza, RubroCode: entity.RubroEPP},
		{SiteID: "s2", ServiceType: entity.ServiceLimpieza, RubroCode: entity.RubroUniforme},
	}

	states := quoting.RubroStates(lines, acks, quoting.Scope{SiteID: "s1", ServiceType: entity.ServiceLimpieza})
	require.Len(t, states, len(entity.RubroCodes))

	mo := stateOf(states, entity.RubroManoObra)
	assert.Equal(t, quoting.StateOK, mo.State)
	assert.Equal(t, 2, mo.Count, "solo cuenta líneas del sitio/tipo consultado")
	assert.Equal(t, "green", mo.State.Color())

	assert.Equal(t, quoting.StateEmpty, stateOf(states, entity.RubroEPP).State)
	assert.Equal(t, "amber", stateOf(states, entity.RubroEPP).State.Color())

	uni := stateOf(states, entity.RubroUniforme)
	assert.Equal(t, quoting.StateMissing, uni.State, "la línea de jardinería y el ack de otro sitio no cuentan")
	assert.Equal(t, 0, uni.Count)
	assert.True(t, quoting.HasRed(states))
}

func TestRubroStates_SinAlcanceTodoRojo(t *testing.T) {
	lines := []*entity.QuoteLine{qline("s1", entity.ServiceLimpieza, entity.RubroManoObra, "1", "1")}

	for _, sc := range []quoting.Scope{{SiteID: "s1"}, {ServiceType: entity.ServiceLimpieza}} {
		states := quoting.RubroStates(lines, nil, sc)
		for _, s := range states {
			assert.Equal(t, quoting.StateMissing, s.State, "rubro %s", s.Code)
		}
	}
}

func TestPendingScopes_SoloAlcancesConLineas(t *testing.T) {
	lines := []*entity.QuoteLine{qline("s1", entity.ServiceLimpieza, entity.RubroManoObra, "1", "1")}
	var acks []*entity.RubroAck
	for _, code := range entity.RubroCodes {
		if code == entity.RubroManoObra || code == entity.RubroCapacitacion {
			continue
		}
		acks = append(acks, &entity.RubroAck{SiteID: "s1", ServiceType: entity.ServiceLimpieza, RubroCode: code})
	}

	pending := quoting.PendingScopes(lines, acks)
	require.Len(t, pending, 1)
	assert.Equal(t, quoting.Scope{SiteID: "s1", ServiceType: entity.ServiceLimpieza}, pending[0])

	acks = append(acks, &entity.RubroAck{SiteID: "s1", ServiceType: entity.ServiceLimpieza, RubroCode: entity.RubroCapacitacion})
	assert.Empty(t, quoting.PendingScopes(lines, acks))
}

// ──────────────────────────────────────────────────────────────────────────────
// Tipo de servicio automático
// ──────────────────────────────────────────────────────────────────────────────

func TestResolveServiceType(t *testing.T) {
	assert.Equal(t, entity.ServiceFletes, quoting.ResolveServiceType(entity.ServiceFletes, entity.RubroMaterialLimpieza, entity.ServiceJardineria),
		"el tipo explícito se respeta")
	assert.Equal(t, entity.ServiceJardineria, quoting.ResolveServiceType("", entity.RubroEPPAlturas, entity.ServiceLimpieza))
	assert.Equal(t, entity.ServiceLimpieza, quoting.ResolveServiceType("", entity.RubroMaquinariaLimpieza, entity.ServiceJardineria))
	assert.Equal(t, entity.ServiceMantenimiento, quoting.ResolveServiceType("", entity.RubroManoObra, entity.ServiceMantenimiento),
		"rubros compartidos toman el tipo actual")
}

func TestFixServiceTypes_CorrigeSoloExclusivos(t *testing.T) {
	lines := []*entity.QuoteLine{
		qline("s1", entity.ServiceLimpieza, entity.RubroFertilizantes, "1", "1"),
		qline("s1", entity.ServiceMateriales, entity.RubroMaterialLimpieza, "1", "1"),
		qline("s1", entity.ServiceLimpieza, entity.RubroManoObra, "1", "1"),
		qline("s1", entity.ServiceJardineria, entity.RubroConsumibles, "1", "1"),
	}
	changed := quoting.FixServiceTypes(lines)

	require.Len(t, changed, 2)
	assert.Equal(t, entity.ServiceJardineria, lines[0].ServiceType)
	assert.Equal(t, entity.ServiceLimpieza, lines[1].ServiceType)
	assert.Equal(t, entity.LineTypeServicio, lines[1].Type, "deja de ser material al pasar a limpieza")
	assert.Equal(t, entity.ServiceLimpieza, lines[2].ServiceType)
}

// ──────────────────────────────────────────────────────────────────────────────
// Exportación a orden de venta
// ──────────────────────────────────────────────────────────────────────────────

func exportFixture(mode string) quoting.ExportInput {
	return quoting.ExportInput{
		Quote: &entity.Quote{DisplayMode: mode, NoteText: "Vigencia 30 días", PrestacionesPercent: decimal.Zero},
		Lines: []*entity.QuoteLine{
			qline("b", entity.ServiceLimpieza, entity.RubroUniforme, "1", "100"),
			qline("a", entity.ServiceJardineria, entity.RubroManoObra, "1", "1000"),
			qline("a", entity.ServiceLimpieza, entity.RubroManoObra, "2", "500"),
			qline("a", entity.ServiceJardineria, entity.RubroEPP, "1", "50"),
		},
		Sites: []*entity.Site{
			{ID: "a", Name: "Planta Norte", Sequence: 10, Active: true},
			{ID: "b", Name: "Oficinas", Sequence: 20, Active: true},
		},
		Rubros:     rubroCatalog(),
		StartAfter: 20,
	}
}

func names(lines []quoting.ExportLine) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Name
	}
	return out
}

func TestBuildExport_Itemized(t *testing.T) {
	out := quoting.BuildExport(exportFixture(entity.DisplayItemized))

	assert.Equal(t, []string{
		"Vigencia 30 días",
		"SITIO: Oficinas",
		"Servicio de Limpieza",
		"SITIO: Planta Norte",
		"Servicio de Jardinería y Limpieza",
	}, names(out), "los sitios respetan el orden de primera aparición")

	assert.Equal(t, 30, out[0].Sequence, "arranca en máximo + 10")
	assert.Equal(t, 70, out[4].Sequence)
	assert.Equal(t, entity.OrderLineSection, out[0].DisplayType)
	assert.Equal(t, entity.OrderLineProduct, out[4].DisplayType)
	assert.Equal(t, "2050.00", out[4].Amount.StringFixed(2))
}

func TestBuildExport_TotalOnly(t *testing.T) {
	out := quoting.BuildExport(exportFixture(entity.DisplayTotalOnly))

	assert.Equal(t, []string{
		"Vigencia 30 días",
		"SITIO: Oficinas",
		"Servicio de Limpieza",
		"SITIO: Planta Norte",
		"Servicio de Jardinería",
		"Servicio de Limpieza",
	}, names(out))
	assert.Equal(t, "1050.00", out[4].Amount.StringFixed(2))
	assert.Equal(t, "1000.00", out[5].Amount.StringFixed(2))
}

func TestBuildExport_ByRubroOrdenaPorSecuencia(t *testing.T) {
	in := exportFixture(entity.DisplayByRubro)
	in.Quote.NoteText = ""
	out := quoting.BuildExport(in)

	assert.Equal(t, []string{
		"SITIO: Oficinas",
		"Servicio: Limpieza",
		"Uniforme",
		"SITIO: Planta Norte",
		"Servicio: Jardinería",
		"Mano de Obra",
		"EPP",
		"Servicio: Limpieza",
		"Mano de Obra",
	}, names(out))
}

func TestBuildExport_ByRubroOcultaRubrosInternos(t *testing.T) {
	in := exportFixture(entity.DisplayByRubro)
	in.Quote.NoteText = ""
	for _, r := range in.Rubros {
		if r.Code == entity.RubroEPP {
			r.InternalOnly = true
		}
	}
	out := quoting.BuildExport(in)

	assert.NotContains(t, names(out), "EPP")
	assert.Contains(t, names(out), quoting.HiddenRubrosLabel)
}

func TestBuildExport_UnSoloSitioSinSecciones(t *testing.T) {
	in := exportFixture(entity.DisplayItemized)
	in.Quote.NoteText = ""
	in.Lines = in.Lines[1:]
	out := quoting.BuildExport(in)

	require.Len(t, out, 1)
	assert.Equal(t, "Servicio de Jardinería y Limpieza", out[0].Name)
	assert.Equal(t, 30, out[0].Sequence)
}
