package quote_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cotizador-api/internal/application/dto"
	"github.com/jhoicas/Cotizador-api/internal/application/quote"
	"github.com/jhoicas/Cotizador-api/internal/domain"
	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
	"github.com/jhoicas/Cotizador-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

const (
	companyID = "company-1"
	userID    = "user-1"
)

type fixture struct {
	ctx      context.Context
	store    *memory.Store
	uc       *quote.QuoteUseCase
	reports  *quote.ReportUseCase
	customer *entity.Customer
	manoObra *entity.Product
	tijeras  *entity.Product
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func qty(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	now := time.Now()

	require.NoError(t, store.Companies().Create(ctx, &entity.Company{ID: companyID, Name: "CCN", TaxID: "CCN010101AAA", Status: "active"}))
	customer := &entity.Customer{ID: "customer-1", CompanyID: companyID, Name: "Plaza Norte", TaxID: "PNO010101BBB", CreatedAt: now}
	require.NoError(t, store.Customers().Create(ctx, customer))

	manoObra := &entity.Product{
		ID: "p-jardinero", CompanyID: companyID, Name: "Jardinero", ListPrice: dec("100"), TaxRate: dec("16"),
		RubroCodes: []string{entity.RubroManoObra}, Active: true,
	}
	tijeras := &entity.Product{
		ID: "p-tijeras", CompanyID: companyID, Name: "Tijeras de poda", ListPrice: dec("50"), TaxRate: dec("16"),
		RubroCodes: []string{entity.RubroHerramientaMenor}, Active: true,
	}
	require.NoError(t, store.Products().Create(ctx, manoObra))
	require.NoError(t, store.Products().Create(ctx, tijeras))

	cfg := quote.Config{VATRate: dec("0.16"), Currency: "MXN"}
	uc := quote.NewQuoteUseCase(store, store.Quotes(), store.Sites(), store.Lines(), store.Acks(),
		store.Customers(), store.Products(), store.Rubros(), cfg)
	reports := quote.NewReportUseCase(store.Quotes(), store.Sites(), store.Lines(), store.Rubros(),
		store.Customers(), store.Companies(), nil, nil, cfg)
	return &fixture{ctx: ctx, store: store, uc: uc, reports: reports, customer: customer, manoObra: manoObra, tijeras: tijeras}
}

func (f *fixture) newQuote(t *testing.T) *dto.QuoteResponse {
	t.Helper()
	q, err := f.uc.Create(f.ctx, companyID, userID, dto.CreateQuoteRequest{
		CustomerID:          f.customer.ID,
		AdminPercent:        dec("10"),
		PrestacionesPercent: dec("10"),
	})
	require.NoError(t, err)
	return q
}

func (f *fixture) setScope(t *testing.T, quoteID, siteID, serviceType string) {
	t.Helper()
	_, err := f.uc.SetScope(f.ctx, companyID, quoteID, dto.SetScopeRequest{SiteID: &siteID, ServiceType: &serviceType})
	require.NoError(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// Cotización
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_CreaSitioGeneralComoActual(t *testing.T) {
	f := newFixture(t)
	q := f.newQuote(t)

	assert.Equal(t, entity.DefaultQuoteName, q.Name)
	assert.Equal(t, entity.QuoteStateDraft, q.State)
	assert.Equal(t, entity.DisplayItemized, q.DisplayMode)
	assert.Equal(t, "MXN", q.Currency)
	require.NotNil(t, q.CurrentSiteID)

	sites, err := f.uc.ListSites(f.ctx, companyID, q.ID)
	require.NoError(t, err)
	require.Len(t, sites, 1)
	assert.Equal(t, entity.GeneralSiteName, sites[0].Name)
	assert.Equal(t, entity.GeneralSiteSequence, sites[0].Sequence)
	assert.Equal(t, *q.CurrentSiteID, sites[0].ID)
}

func TestCreate_NombrePorDefectoSeNumera(t *testing.T) {
	f := newFixture(t)
	f.newQuote(t)
	second := f.newQuote(t)
	assert.Equal(t, entity.DefaultQuoteName+" (2)", second.Name)

	_, err := f.uc.Create(f.ctx, companyID, userID, dto.CreateQuoteRequest{CustomerID: f.customer.ID, Name: second.Name})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestCreate_ClienteDeOtraEmpresa(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Create(f.ctx, "otra-empresa", userID, dto.CreateQuoteRequest{CustomerID: f.customer.ID})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.uc.Create(f.ctx, companyID, userID, dto.CreateQuoteRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdate_RechazaPorcentajesNegativosYClienteVacio(t *testing.T) {
	f := newFixture(t)
	q := f.newQuote(t)

	neg := dec("-1")
	_, err := f.uc.Update(f.ctx, companyID, q.ID, dto.UpdateQuoteRequest{UtilityPercent: &neg})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	empty := ""
	_, err = f.uc.Update(f.ctx, companyID, q.ID, dto.UpdateQuoteRequest{CustomerID: &empty})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	mode := entity.DisplayByRubro
	updated, err := f.uc.Update(f.ctx, companyID, q.ID, dto.UpdateQuoteRequest{DisplayMode: &mode})
	require.NoError(t, err)
	assert.Equal(t, entity.DisplayByRubro, updated.DisplayMode)
}

func TestSetScope_TipoMaterial(t *testing.T) {
	f := newFixture(t)
	q := f.newQuote(t)
	f.setScope(t, q.ID, *q.CurrentSiteID, entity.ServiceMateriales)

	got, err := f.uc.Get(f.ctx, companyID, q.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.LineTypeMaterial, got.CurrentType)

	other := "sitio-ajeno"
	_, err = f.uc.SetScope(f.ctx, companyID, q.ID, dto.SetScopeRequest{SiteID: &other})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Partidas
// ──────────────────────────────────────────────────────────────────────────────

func TestAddLine_CalculaImportes(t *testing.T) {
	f := newFixture(t)
	q := f.newQuote(t)
	f.setScope(t, q.ID, *q.CurrentSiteID, entity.ServiceMantenimiento)

	l, err := f.uc.AddLine(f.ctx, companyID, q.ID, dto.CreateLineRequest{
		RubroCode:        entity.RubroManoObra,
		ProductID:        f.manoObra.ID,
		Quantity:         qty("2"),
		TabulatorPercent: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, *q.CurrentSiteID, *l.SiteID)
	assert.Equal(t, entity.ServiceMantenimiento, l.ServiceType)
	assert.True(t, dec("110").Equal(l.PriceUnitFinal), "110 = 100 + 10%%, got %s", l.PriceUnitFinal)
	assert.True(t, dec("220").Equal(l.MonthlySubtotal))
	assert.True(t, dec("22").Equal(l.Prestaciones))
	assert.True(t, dec("242").Equal(l.TotalPrice))
	assert.True(t, dec("35.2").Equal(l.AmountTax))
}

func TestAddLine_Guardas(t *testing.T) {
	f := newFixture(t)
	q := f.newQuote(t)
	f.setScope(t, q.ID, *q.CurrentSiteID, entity.ServiceMantenimiento)

	cases := []struct {
		name string
		in   dto.CreateLineRequest
	}{
		{"sin rubro", dto.CreateLineRequest{ProductID: f.manoObra.ID}},
		{"producto no etiquetado", dto.CreateLineRequest{RubroCode: entity.RubroUniforme, ProductID: f.manoObra.ID}},
		{"tabulador inválido", dto.CreateLineRequest{RubroCode: entity.RubroManoObra, ProductID: f.manoObra.ID, TabulatorPercent: 7}},
		{"cantidad negativa", dto.CreateLineRequest{RubroCode: entity.RubroManoObra, ProductID: f.manoObra.ID, Quantity: qty("-1")}},
		{"cantidad cero", dto.CreateLineRequest{RubroCode: entity.RubroManoObra, ProductID: f.manoObra.ID, Quantity: qty("0")}},
		{"sin producto", dto.CreateLineRequest{RubroCode: entity.RubroManoObra}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.uc.AddLine(f.ctx, companyID, q.ID, tc.in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestAddLine_RubroDeJardineriaAsignaTipo(t *testing.T) {
	f := newFixture(t)
	q := f.newQuote(t)
	f.setScope(t, q.ID, *q.CurrentSiteID, entity.ServiceLimpieza)

	l, err := f.uc.AddLine(f.ctx, companyID, q.ID, dto.CreateLineRequest{
		RubroCode: entity.RubroHerramientaMenor,
		ProductID: f.tijeras.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.ServiceJardineria, l.ServiceType)
	assert.True(t, decimal.NewFromInt(1).Equal(l.Quantity), "cantidad por defecto 1")
}

func TestAddLinesBulk_ValidaTodoAntesDeGuardar(t *testing.T) {
	f := newFixture(t)
	q := f.newQuote(t)
	f.setScope(t, q.ID, *q.CurrentSiteID, entity.ServiceMantenimiento)

	_, err := f.uc.AddLinesBulk(f.ctx, companyID, q.ID, dto.BulkLinesRequest{
		RubroCode: entity.RubroManoObra,
		Items: []dto.BulkLineItem{
			{ProductID: f.manoObra.ID, Quantity: qty("1")},
			{ProductID: f.tijeras.ID, Quantity: qty("1")},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	lines, err := f.uc.ListLines(f.ctx, companyID, q.ID, dto.LineFilter{})
	require.NoError(t, err)
	assert.Empty(t, lines)

	created, err := f.uc.AddLinesBulk(f.ctx, companyID, q.ID, dto.BulkLinesRequest{
		RubroCode: entity.RubroManoObra,
		Items:     []dto.BulkLineItem{{ProductID: f.manoObra.ID, Quantity: qty("3")}, {ProductID: f.manoObra.ID}},
	})
	require.NoError(t, err)
	assert.Len(t, created, 2)
}

func TestFixServiceTypes_CorrigeLineasExistentes(t *testing.T) {
	f := newFixture(t)
	q := f.newQuote(t)
	f.setScope(t, q.ID, *q.CurrentSiteID, entity.ServiceLimpieza)

	l, err := f.uc.AddLine(f.ctx, companyID, q.ID, dto.CreateLineRequest{
		RubroCode: entity.RubroHerramientaMenor, ProductID: f.tijeras.ID, ServiceType: entity.ServiceLimpieza,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.ServiceLimpieza, l.ServiceType)

	res, err := f.uc.FixServiceTypes(f.ctx, companyID, q.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Corrected)

	lines, err := f.uc.ListLines(f.ctx, companyID, q.ID, dto.LineFilter{ServiceType: entity.ServiceJardineria})
	require.NoError(t, err)
	assert.Len(t, lines, 1)
}

// ──────────────────────────────────────────────────────────────────────────────
// Sitios
// ──────────────────────────────────────────────────────────────────────────────

func TestDeleteSite_MueveLineasAGeneral(t *testing.T) {
	f := newFixture(t)
	q := f.newQuote(t)
	site, err := f.uc.CreateSite(f.ctx, companyID, q.ID, dto.SiteRequest{Name: "Torre A"})
	require.NoError(t, err)
	assert.Equal(t, 10, site.Sequence)
	f.setScope(t, q.ID, site.ID, entity.ServiceMantenimiento)

	_, err = f.uc.AddLine(f.ctx, companyID, q.ID, dto.CreateLineRequest{RubroCode: entity.RubroManoObra, ProductID: f.manoObra.ID})
	require.NoError(t, err)

	require.NoError(t, f.uc.DeleteSite(f.ctx, companyID, q.ID, site.ID))

	lines, err := f.uc.ListLines(f.ctx, companyID, q.ID, dto.LineFilter{})
	require.NoError(t, err)
	require.Len(t, lines, 1)
	got, err := f.uc.Get(f.ctx, companyID, q.ID)
	require.NoError(t, err)
	assert.Equal(t, *got.CurrentSiteID, *lines[0].SiteID, "la línea y el sitio actual pasan a General")
}

func TestDeleteSite_GeneralNoSeElimina(t *testing.T) {
	f := newFixture(t)
	q := f.newQuote(t)
	err := f.uc.DeleteSite(f.ctx, companyID, q.ID, *q.CurrentSiteID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestEnsureGeneralSite_ConsolidaDuplicados(t *testing.T) {
	f := newFixture(t)
	q := f.newQuote(t)
	dup := &entity.Site{ID: "general-dup", QuoteID: q.ID, Name: entity.GeneralSiteName, Sequence: 0, Active: true}
	require.NoError(t, f.store.Sites().Create(f.ctx, dup))
	f.setScope(t, q.ID, dup.ID, entity.ServiceMantenimiento)
	_, err := f.uc.AddLine(f.ctx, companyID, q.ID, dto.CreateLineRequest{RubroCode: entity.RubroManoObra, ProductID: f.manoObra.ID})
	require.NoError(t, err)

	general, err := f.uc.EnsureGeneralSite(f.ctx, companyID, q.ID)
	require.NoError(t, err)
	assert.Equal(t, *q.CurrentSiteID, general.ID, "se conserva el de menor secuencia")

	sites, err := f.uc.ListSites(f.ctx, companyID, q.ID)
	require.NoError(t, err)
	assert.Len(t, sites, 1)
	lines, err := f.uc.ListLines(f.ctx, companyID, q.ID, dto.LineFilter{SiteID: general.ID})
	require.NoError(t, err)
	assert.Len(t, lines, 1)
}

func TestEnsureGeneralSite_CotizacionAutorizadaNoCambia(t *testing.T) {
	f := newFixture(t)
	q := f.newQuote(t)
	f.setScope(t, q.ID, *q.CurrentSiteID, entity.ServiceMantenimiento)
	_, err := f.uc.AddLine(f.ctx, companyID, q.ID, dto.CreateLineRequest{RubroCode: entity.RubroManoObra, ProductID: f.manoObra.ID})
	require.NoError(t, err)
	f.markRestEmpty(t, q.ID)
	_, err = f.uc.Authorize(f.ctx, companyID, userID, entity.RoleAutorizador, q.ID)
	require.NoError(t, err)

	dup := &entity.Site{ID: "general-dup", QuoteID: q.ID, Name: entity.GeneralSiteName, Sequence: 0, Active: true}
	require.NoError(t, f.store.Sites().Create(f.ctx, dup))

	_, err = f.uc.EnsureGeneralSite(f.ctx, companyID, q.ID)
	assert.ErrorIs(t, err, domain.ErrQuoteLocked)
	sites, err := f.uc.ListSites(f.ctx, companyID, q.ID)
	require.NoError(t, err)
	assert.Len(t, sites, 2, "no se consolidan sitios de una cotización autorizada")
}

func TestSetScope_SitioVacioVuelveAGeneral(t *testing.T) {
	f := newFixture(t)
	q := f.newQuote(t)
	site, err := f.uc.CreateSite(f.ctx, companyID, q.ID, dto.SiteRequest{Name: "Torre A"})
	require.NoError(t, err)
	f.setScope(t, q.ID, site.ID, entity.ServiceMantenimiento)

	f.setScope(t, q.ID, "", entity.ServiceMantenimiento)
	got, err := f.uc.Get(f.ctx, companyID, q.ID)
	require.NoError(t, err)
	require.NotNil(t, got.CurrentSiteID)
	assert.Equal(t, *q.CurrentSiteID, *got.CurrentSiteID)

	l, err := f.uc.AddLine(f.ctx, companyID, q.ID, dto.CreateLineRequest{RubroCode: entity.RubroManoObra, ProductID: f.manoObra.ID})
	require.NoError(t, err)
	require.NotNil(t, l.SiteID)
	assert.Equal(t, *q.CurrentSiteID, *l.SiteID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Semáforo y autorización
// ──────────────────────────────────────────────────────────────────────────────

// markRestEmpty marca "Sin contenido" todos los rubros del alcance actual sin líneas.
func (f *fixture) markRestEmpty(t *testing.T, quoteID string) {
	t.Helper()
	states, err := f.uc.RubroStates(f.ctx, companyID, quoteID, "", "")
	require.NoError(t, err)
	for _, s := range states.Rubros {
		if s.State == "missing" {
			_, err := f.uc.MarkEmpty(f.ctx, companyID, userID, quoteID, dto.AckRequest{RubroCode: s.Code})
			require.NoError(t, err)
		}
	}
}

func TestRubroStates_VerdeAmbarRojo(t *testing.T) {
	f := newFixture(t)
	q := f.newQuote(t)
	f.setScope(t, q.ID, *q.CurrentSiteID, entity.ServiceMantenimiento)
	_, err := f.uc.AddLine(f.ctx, companyID, q.ID, dto.CreateLineRequest{RubroCode: entity.RubroManoObra, ProductID: f.manoObra.ID})
	require.NoError(t, err)
	ack, err := f.uc.MarkEmpty(f.ctx, companyID, userID, q.ID, dto.AckRequest{RubroCode: entity.RubroUniforme})
	require.NoError(t, err)
	again, err := f.uc.MarkEmpty(f.ctx, companyID, userID, q.ID, dto.AckRequest{RubroCode: entity.RubroUniforme})
	require.NoError(t, err)
	assert.Equal(t, ack.ID, again.ID, "marcar dos veces devuelve la misma marca")

	states, err := f.uc.RubroStates(f.ctx, companyID, q.ID, "", "")
	require.NoError(t, err)
	require.Len(t, states.Rubros, len(entity.RubroCodes))
	byCode := map[string]dto.RubroStateResponse{}
	for _, s := range states.Rubros {
		byCode[s.Code] = s
	}
	assert.Equal(t, "green", byCode[entity.RubroManoObra].Color)
	assert.Equal(t, 1, byCode[entity.RubroManoObra].Count)
	assert.Equal(t, "amber", byCode[entity.RubroUniforme].Color)
	assert.Equal(t, "red", byCode[entity.RubroEPP].Color)
	assert.True(t, states.HasRed)

	require.NoError(t, f.uc.UnmarkEmpty(f.ctx, companyID, q.ID, dto.AckRequest{RubroCode: entity.RubroUniforme}))
	err = f.uc.UnmarkEmpty(f.ctx, companyID, q.ID, dto.AckRequest{RubroCode: entity.RubroUniforme})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAuthorize_FlujoCompleto(t *testing.T) {
	f := newFixture(t)
	q := f.newQuote(t)
	f.setScope(t, q.ID, *q.CurrentSiteID, entity.ServiceMantenimiento)

	_, err := f.uc.Authorize(f.ctx, companyID, userID, entity.RoleAutorizador, q.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin líneas no se autoriza")

	_, err = f.uc.AddLine(f.ctx, companyID, q.ID, dto.CreateLineRequest{RubroCode: entity.RubroManoObra, ProductID: f.manoObra.ID})
	require.NoError(t, err)

	_, err = f.uc.Authorize(f.ctx, companyID, userID, entity.RoleCotizador, q.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.uc.Authorize(f.ctx, companyID, userID, entity.RoleAutorizador, q.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrRubrosPendientes))
	pending, ok := quote.IsPending(err)
	require.True(t, ok)
	require.Len(t, pending.Scopes, 1)
	assert.Equal(t, entity.ServiceMantenimiento, pending.Scopes[0].ServiceType)

	f.markRestEmpty(t, q.ID)
	authorized, err := f.uc.Authorize(f.ctx, companyID, userID, entity.RoleAutorizador, q.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.QuoteStateAuthorized, authorized.State)
	require.NotNil(t, authorized.AuthorizedBy)
	assert.Equal(t, userID, *authorized.AuthorizedBy)

	// autorizada: solo navegación
	name := "Otro nombre"
	_, err = f.uc.Update(f.ctx, companyID, q.ID, dto.UpdateQuoteRequest{Name: &name})
	assert.ErrorIs(t, err, domain.ErrQuoteLocked)
	_, err = f.uc.AddLine(f.ctx, companyID, q.ID, dto.CreateLineRequest{RubroCode: entity.RubroManoObra, ProductID: f.manoObra.ID})
	assert.ErrorIs(t, err, domain.ErrQuoteLocked)
	f.setScope(t, q.ID, *q.CurrentSiteID, entity.ServiceJardineria)

	_, err = f.uc.Reopen(f.ctx, companyID, entity.RoleAutorizador, q.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	reopened, err := f.uc.Reopen(f.ctx, companyID, entity.RoleAdmin, q.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.QuoteStateDraft, reopened.State)
	assert.Nil(t, reopened.AuthorizedBy)
}

func TestUpdateLine_SitioVacioVuelveAGeneral(t *testing.T) {
	f := newFixture(t)
	q := f.newQuote(t)
	f.setScope(t, q.ID, *q.CurrentSiteID, entity.ServiceMantenimiento)
	l, err := f.uc.AddLine(f.ctx, companyID, q.ID, dto.CreateLineRequest{RubroCode: entity.RubroManoObra, ProductID: f.manoObra.ID})
	require.NoError(t, err)
	f.markRestEmpty(t, q.ID)

	empty := ""
	updated, err := f.uc.UpdateLine(f.ctx, companyID, q.ID, l.ID, dto.UpdateLineRequest{SiteID: &empty})
	require.NoError(t, err)
	require.NotNil(t, updated.SiteID)
	assert.Equal(t, *q.CurrentSiteID, *updated.SiteID)

	states, err := f.uc.RubroStates(f.ctx, companyID, q.ID, "", "")
	require.NoError(t, err)
	assert.False(t, states.HasRed)

	_, err = f.uc.Authorize(f.ctx, companyID, userID, entity.RoleAutorizador, q.ID)
	assert.NoError(t, err)
}

func TestAuthorize_LineaSinSitioCuentaEnGeneral(t *testing.T) {
	f := newFixture(t)
	q := f.newQuote(t)
	f.setScope(t, q.ID, *q.CurrentSiteID, entity.ServiceMantenimiento)
	l, err := f.uc.AddLine(f.ctx, companyID, q.ID, dto.CreateLineRequest{RubroCode: entity.RubroManoObra, ProductID: f.manoObra.ID})
	require.NoError(t, err)
	f.markRestEmpty(t, q.ID)

	// datos previos a la regla: línea guardada sin sitio
	stored, err := f.store.Lines().GetByID(f.ctx, l.ID)
	require.NoError(t, err)
	stored.SiteID = nil
	require.NoError(t, f.store.Lines().Update(f.ctx, stored))

	states, err := f.uc.RubroStates(f.ctx, companyID, q.ID, "", "")
	require.NoError(t, err)
	for _, s := range states.Rubros {
		if s.Code == entity.RubroManoObra {
			assert.Equal(t, 1, s.Count)
			assert.Equal(t, "green", s.Color)
		}
	}
	indicators, err := f.uc.SiteIndicators(f.ctx, companyID, q.ID, *q.CurrentSiteID)
	require.NoError(t, err)
	assert.Equal(t, 1, indicators.Colaboradores)

	_, err = f.uc.Authorize(f.ctx, companyID, userID, entity.RoleAutorizador, q.ID)
	assert.NoError(t, err)
}

func TestCancel_SoloBorrador(t *testing.T) {
	f := newFixture(t)
	q := f.newQuote(t)
	cancelled, err := f.uc.Cancel(f.ctx, companyID, q.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.QuoteStateCancelled, cancelled.State)

	_, err = f.uc.Cancel(f.ctx, companyID, q.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
	_, err = f.uc.SetScope(f.ctx, companyID, q.ID, dto.SetScopeRequest{})
	assert.ErrorIs(t, err, domain.ErrQuoteLocked)
}

// ──────────────────────────────────────────────────────────────────────────────
// Indicadores y resumen
// ──────────────────────────────────────────────────────────────────────────────

func TestIndicators_SitioYServicio(t *testing.T) {
	f := newFixture(t)
	q := f.newQuote(t)
	f.setScope(t, q.ID, *q.CurrentSiteID, entity.ServiceMantenimiento)
	_, err := f.uc.AddLine(f.ctx, companyID, q.ID, dto.CreateLineRequest{
		RubroCode: entity.RubroManoObra, ProductID: f.manoObra.ID, Quantity: qty("2"),
	})
	require.NoError(t, err)

	g, err := f.uc.GeneralIndicators(f.ctx, companyID, q.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, g.TotalElementos)
	assert.Equal(t, 2, g.PersonalRequerido)
	assert.True(t, dec("220").Equal(g.CostoMensual), "200 + 10%% prestaciones")
	assert.True(t, dec("7.14").Equal(g.PorcentajeCompletado))

	s, err := f.uc.SiteIndicators(f.ctx, companyID, q.ID, "")
	require.NoError(t, err)
	assert.Equal(t, 2, s.Colaboradores)
	assert.True(t, dec("220").Equal(s.Subtotal1.Value))
	assert.True(t, dec("22").Equal(s.Administracion.Value))
	assert.True(t, dec("110").Equal(s.Subtotal1.PerPerson))

	svc, err := f.uc.ServiceIndicators(f.ctx, companyID, q.ID, "", "")
	require.NoError(t, err)
	assert.True(t, dec("200").Equal(svc.SueldoBruto.Value))
	assert.True(t, dec("20").Equal(svc.Prestaciones.Value))
	assert.True(t, dec("220").Equal(svc.Total.Value))
}

func TestSummary_SinLineasNoHaySitios(t *testing.T) {
	f := newFixture(t)
	q := f.newQuote(t)
	_, err := f.reports.Summary(f.ctx, companyID, q.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "General sin líneas no cuenta como columna")

	f.setScope(t, q.ID, *q.CurrentSiteID, entity.ServiceMantenimiento)
	_, err = f.uc.AddLine(f.ctx, companyID, q.ID, dto.CreateLineRequest{RubroCode: entity.RubroManoObra, ProductID: f.manoObra.ID})
	require.NoError(t, err)

	sum, err := f.reports.Summary(f.ctx, companyID, q.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{entity.GeneralSiteName}, sum.Columns)
	assert.Equal(t, "Plaza Norte", sum.Customer)
	assert.Equal(t, entity.RubroManoObra, sum.Rows[0].Code)
}

func TestQuoteDocument_TotalesPorSitio(t *testing.T) {
	f := newFixture(t)
	q := f.newQuote(t)
	site, err := f.uc.CreateSite(f.ctx, companyID, q.ID, dto.SiteRequest{Name: "Torre A"})
	require.NoError(t, err)
	f.setScope(t, q.ID, *q.CurrentSiteID, entity.ServiceMantenimiento)
	_, err = f.uc.AddLine(f.ctx, companyID, q.ID, dto.CreateLineRequest{RubroCode: entity.RubroManoObra, ProductID: f.manoObra.ID})
	require.NoError(t, err)
	_, err = f.uc.AddLine(f.ctx, companyID, q.ID, dto.CreateLineRequest{SiteID: site.ID, RubroCode: entity.RubroManoObra, ProductID: f.manoObra.ID})
	require.NoError(t, err)

	doc, err := f.reports.QuoteDocument(f.ctx, companyID, q.ID)
	require.NoError(t, err)
	require.Len(t, doc.SiteTotals, 2)
	assert.True(t, dec("220").Equal(doc.Subtotal))
	assert.True(t, dec("35.2").Equal(doc.IVA))
	assert.True(t, dec("255.2").Equal(doc.Total))
	assert.Equal(t, "SITIO: "+entity.GeneralSiteName, doc.Lines[0].Name)
}
