package sales_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cotizador-api/internal/application/dto"
	"github.com/jhoicas/Cotizador-api/internal/application/sales"
	"github.com/jhoicas/Cotizador-api/internal/domain"
	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
	"github.com/jhoicas/Cotizador-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

const companyID = "company-1"

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// fakeOdoo registra las órdenes recibidas.
type fakeOdoo struct {
	pushed []sales.OdooOrder
	err    error
}

func (f *fakeOdoo) PushOrder(_ context.Context, in sales.OdooOrder) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.pushed = append(f.pushed, in)
	return 42, nil
}

type fixture struct {
	ctx   context.Context
	store *memory.Store
	uc    *sales.SaleOrderUseCase
	odoo  *fakeOdoo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	for _, c := range []*entity.Customer{
		{ID: "cust-a", CompanyID: companyID, Name: "Plaza Norte", TaxID: "A"},
		{ID: "cust-b", CompanyID: companyID, Name: "Hospital Sur", TaxID: "B"},
	} {
		require.NoError(t, store.Customers().Create(ctx, c))
	}
	odoo := &fakeOdoo{}
	uc := sales.NewSaleOrderUseCase(store, store.SaleOrders(), store.Quotes(), store.Sites(), store.Lines(),
		store.Rubros(), store.Customers(), store.Products(), store.Packages(), odoo,
		sales.Config{VATRate: dec("0.16")})
	return &fixture{ctx: ctx, store: store, uc: uc, odoo: odoo}
}

// seedQuote crea una cotización con dos sitios y líneas de jardinería y limpieza.
func (f *fixture) seedQuote(t *testing.T, customerID, state, mode string) *entity.Quote {
	t.Helper()
	now := time.Now()
	q := &entity.Quote{
		ID: "quote-" + customerID + "-" + state + "-" + mode, CompanyID: companyID, CustomerID: customerID,
		Name: "Q " + state + mode, DisplayMode: mode, State: state, NoteText: "Vigencia 30 días",
		CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, f.store.Quotes().Create(f.ctx, q))
	sites := []*entity.Site{
		{ID: q.ID + "-general", QuoteID: q.ID, Name: entity.GeneralSiteName, Sequence: entity.GeneralSiteSequence, Active: true},
		{ID: q.ID + "-torre", QuoteID: q.ID, Name: "Torre A", Sequence: 10, Active: true},
	}
	for _, s := range sites {
		require.NoError(t, f.store.Sites().Create(f.ctx, s))
	}
	add := func(site *entity.Site, serviceType, rubro, base string) {
		sid := site.ID
		require.NoError(t, f.store.Lines().Create(f.ctx, &entity.QuoteLine{
			ID: q.ID + site.ID + rubro, QuoteID: q.ID, SiteID: &sid, ServiceType: serviceType,
			Type: entity.LineTypeFor(serviceType), RubroCode: rubro, Quantity: dec("1"), BasePrice: dec(base),
			TabulatorPercent: 10,
		}))
	}
	add(sites[0], entity.ServiceJardineria, entity.RubroManoObra, "1000")
	add(sites[0], entity.ServiceLimpieza, entity.RubroMaterialLimpieza, "200")
	add(sites[1], entity.ServiceJardineria, entity.RubroManoObra, "500")
	return q
}

func (f *fixture) newOrder(t *testing.T, customerID string) *dto.SaleOrderResponse {
	t.Helper()
	o, err := f.uc.Create(f.ctx, companyID, dto.CreateSaleOrderRequest{CustomerID: customerID})
	require.NoError(t, err)
	return o
}

// ──────────────────────────────────────────────────────────────────────────────
// ImportQuote
// ──────────────────────────────────────────────────────────────────────────────

func TestImportQuote_ResumenPorSitio(t *testing.T) {
	f := newFixture(t)
	q := f.seedQuote(t, "cust-a", entity.QuoteStateAuthorized, entity.DisplayItemized)
	o := f.newOrder(t, "cust-a")

	got, err := f.uc.ImportQuote(f.ctx, companyID, o.ID, dto.ImportQuoteRequest{QuoteID: q.ID})
	require.NoError(t, err)

	names := make([]string, 0, len(got.Lines))
	for _, l := range got.Lines {
		names = append(names, l.Name)
	}
	assert.Equal(t, []string{
		"Vigencia 30 días",
		"SITIO: General",
		"Servicio de Jardinería y Limpieza",
		"SITIO: Torre A",
		"Servicio de Jardinería",
	}, names)
	assert.Equal(t, 10, got.Lines[0].Sequence)
	assert.Equal(t, 50, got.Lines[4].Sequence)
	// tabulador 10%: 1100 + 220 y 550
	assert.True(t, dec("1320").Equal(got.Lines[2].PriceUnit), got.Lines[2].PriceUnit.String())
	assert.True(t, dec("550").Equal(got.Lines[4].PriceUnit))
	assert.True(t, dec("1870").Equal(got.AmountUntaxed))
	assert.True(t, dec("299.2").Equal(got.AmountTax))
	require.NotNil(t, got.QuoteID)
	assert.Equal(t, q.ID, *got.QuoteID)

	// el producto contenedor no aparece en el catálogo del cotizador
	p, err := f.store.Products().GetByName(f.ctx, companyID, "Servicio de Jardinería")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.True(t, p.ExcludeFromQuote)
	assert.True(t, dec("16").Equal(p.TaxRate))
}

func TestImportQuote_SecuenciaContinuaTrasLineasExistentes(t *testing.T) {
	f := newFixture(t)
	q := f.seedQuote(t, "cust-a", entity.QuoteStateAuthorized, entity.DisplayTotalOnly)
	o := f.newOrder(t, "cust-a")

	_, err := f.uc.ImportQuote(f.ctx, companyID, o.ID, dto.ImportQuoteRequest{QuoteID: q.ID})
	require.NoError(t, err)
	got, err := f.uc.ImportQuote(f.ctx, companyID, o.ID, dto.ImportQuoteRequest{QuoteID: q.ID})
	require.NoError(t, err)

	half := len(got.Lines) / 2
	assert.Equal(t, got.Lines[half-1].Sequence+10, got.Lines[half].Sequence)
	assert.Equal(t, "Servicio de Limpieza", got.Lines[3].Name)
}

func TestImportQuote_Rechazos(t *testing.T) {
	f := newFixture(t)
	draft := f.seedQuote(t, "cust-a", entity.QuoteStateDraft, entity.DisplayItemized)
	other := f.seedQuote(t, "cust-b", entity.QuoteStateAuthorized, entity.DisplayItemized)
	o := f.newOrder(t, "cust-a")

	_, err := f.uc.ImportQuote(f.ctx, companyID, o.ID, dto.ImportQuoteRequest{QuoteID: draft.ID})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = f.uc.ImportQuote(f.ctx, companyID, o.ID, dto.ImportQuoteRequest{QuoteID: other.ID})
	assert.ErrorIs(t, err, domain.ErrPartnerMismatch)

	_, err = f.uc.ImportQuote(f.ctx, companyID, o.ID, dto.ImportQuoteRequest{QuoteID: "no-existe"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.uc.Create(f.ctx, companyID, dto.CreateSaleOrderRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Paquetes y Odoo
// ──────────────────────────────────────────────────────────────────────────────

func TestApplyPackage_PrecioDeLista(t *testing.T) {
	f := newFixture(t)
	p := &entity.Product{ID: "p-1", CompanyID: companyID, Name: "Poda mensual", ListPrice: dec("800"), TaxRate: dec("16"), Active: true}
	require.NoError(t, f.store.Products().Create(f.ctx, p))
	require.NoError(t, f.store.Packages().Create(f.ctx, &entity.ServicePackage{
		ID: "pkg-1", CompanyID: companyID, Name: "Jardín básico",
		Lines: []entity.ServicePackageLine{{ProductID: p.ID, Quantity: dec("2")}},
	}))
	o := f.newOrder(t, "cust-a")

	got, err := f.uc.ApplyPackage(f.ctx, companyID, o.ID, dto.ApplyPackageRequest{PackageID: "pkg-1"})
	require.NoError(t, err)
	require.Len(t, got.Lines, 1)
	assert.Equal(t, "Poda mensual", got.Lines[0].Name)
	assert.True(t, dec("1600").Equal(got.Lines[0].Subtotal))
	assert.True(t, dec("1856").Equal(got.AmountTotal))
}

func TestPushToOdoo_GuardaIDRemoto(t *testing.T) {
	f := newFixture(t)
	q := f.seedQuote(t, "cust-a", entity.QuoteStateAuthorized, entity.DisplayByRubro)
	o := f.newOrder(t, "cust-a")
	_, err := f.uc.ImportQuote(f.ctx, companyID, o.ID, dto.ImportQuoteRequest{QuoteID: q.ID})
	require.NoError(t, err)

	res, err := f.uc.PushToOdoo(f.ctx, companyID, o.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(42), res.ExternalID)
	require.Len(t, f.odoo.pushed, 1)
	assert.Equal(t, "Plaza Norte", f.odoo.pushed[0].Customer.Name)
	assert.NotEmpty(t, f.odoo.pushed[0].Products)

	got, err := f.uc.Get(f.ctx, companyID, o.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ExternalID)
	assert.Equal(t, int64(42), *got.ExternalID)
}

func TestPushToOdoo_ErroresRemotosYSinConfiguracion(t *testing.T) {
	f := newFixture(t)
	q := f.seedQuote(t, "cust-a", entity.QuoteStateAuthorized, entity.DisplayItemized)
	o := f.newOrder(t, "cust-a")
	_, err := f.uc.PushToOdoo(f.ctx, companyID, o.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "orden sin líneas")

	_, err = f.uc.ImportQuote(f.ctx, companyID, o.ID, dto.ImportQuoteRequest{QuoteID: q.ID})
	require.NoError(t, err)
	f.odoo.err = errors.New("connection refused")
	_, err = f.uc.PushToOdoo(f.ctx, companyID, o.ID)
	assert.ErrorContains(t, err, "connection refused")

	noOdoo := sales.NewSaleOrderUseCase(f.store, f.store.SaleOrders(), f.store.Quotes(), f.store.Sites(), f.store.Lines(),
		f.store.Rubros(), f.store.Customers(), f.store.Products(), f.store.Packages(), nil, sales.Config{})
	_, err = noOdoo.PushToOdoo(f.ctx, companyID, o.ID)
	assert.ErrorIs(t, err, sales.ErrOdooDisabled)
}
