package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cotizador-api/internal/application/auth"
	"github.com/jhoicas/Cotizador-api/internal/application/quote"
	"github.com/jhoicas/Cotizador-api/internal/application/sales"
	"github.com/jhoicas/Cotizador-api/internal/application/usecase"
	"github.com/jhoicas/Cotizador-api/internal/infrastructure/excel"
	"github.com/jhoicas/Cotizador-api/internal/infrastructure/memory"
	"github.com/jhoicas/Cotizador-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/Cotizador-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// API completa sobre el store en memoria
// ──────────────────────────────────────────────────────────────────────────────

type testAPI struct {
	t   *testing.T
	app *fiber.App
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	store := memory.NewStore()
	cfg := quote.Config{VATRate: decimal.RequireFromString("0.16"), Currency: "MXN"}

	quoteUC := quote.NewQuoteUseCase(store, store.Quotes(), store.Sites(), store.Lines(), store.Acks(),
		store.Customers(), store.Products(), store.Rubros(), cfg)
	reportUC := quote.NewReportUseCase(store.Quotes(), store.Sites(), store.Lines(), store.Rubros(),
		store.Customers(), store.Companies(), pdf.NewMarotoPDFGenerator(), excel.NewSummaryExporter(), cfg)
	salesUC := sales.NewSaleOrderUseCase(store, store.SaleOrders(), store.Quotes(), store.Sites(), store.Lines(),
		store.Rubros(), store.Customers(), store.Products(), store.Packages(), nil, sales.Config{VATRate: cfg.VATRate})

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:        auth.NewAuthUseCase(store.Users(), store.Companies(), auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}),
		CompanyUC:     usecase.NewCompanyUseCase(store.Companies(), store),
		ModuleService: usecase.NewModuleService(store.Companies()),
		UserUC:        usecase.NewUserUseCase(store.Users()),
		CustomerUC:    usecase.NewCustomerUseCase(store.Customers()),
		ProductUC:     usecase.NewProductUseCase(store.Products()),
		CatalogUC:     usecase.NewCatalogUseCase(store.Rubros(), store.Packages(), store.Products()),
		QuoteUC:       quoteUC,
		ReportUC:      reportUC,
		SaleOrderUC:   salesUC,
		JWTSecret:     testJWTSecret,
	})
	return &testAPI{t: t, app: app}
}

// call envía la petición y devuelve el status y el cuerpo.
func (a *testAPI) call(method, path, token string, body any) (int, []byte) {
	a.t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(a.t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(a.t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(a.t, err)
	return resp.StatusCode, out
}

// decode exige el status esperado y decodifica el cuerpo JSON.
func (a *testAPI) decode(method, path, token string, body any, want int) map[string]any {
	a.t.Helper()
	status, raw := a.call(method, path, token, body)
	require.Equal(a.t, want, status, string(raw))
	var out map[string]any
	require.NoError(a.t, json.Unmarshal(raw, &out))
	return out
}

// tenant crea empresa, usuario con el rol indicado y devuelve su token.
func (a *testAPI) tenant(role string) (companyID, token string) {
	a.t.Helper()
	company := a.decode(http.MethodPost, "/api/companies", "", map[string]any{"name": "CCN", "tax_id": "CCN010101" + strings.ToUpper(role[:3])}, http.StatusCreated)
	companyID = company["id"].(string)
	return companyID, a.user(companyID, role)
}

func (a *testAPI) user(companyID, role string) string {
	a.t.Helper()
	email := role + "@ccn.mx"
	a.decode(http.MethodPost, "/api/auth/register", "", map[string]any{
		"email": email, "password": "secreto123", "company_id": companyID, "role": role,
	}, http.StatusCreated)
	login := a.decode(http.MethodPost, "/api/auth/login", "", map[string]any{"email": email, "password": "secreto123"}, http.StatusOK)
	return login["token"].(string)
}

// quoteWithLine crea cliente, producto de mano de obra, cotización y una partida.
func (a *testAPI) quoteWithLine(token string) (quoteID string) {
	a.t.Helper()
	customer := a.decode(http.MethodPost, "/api/customers", token, map[string]any{"name": "Plaza Norte", "tax_id": "PNO010101AAA"}, http.StatusCreated)
	product := a.decode(http.MethodPost, "/api/products", token, map[string]any{
		"name": "Jardinero", "list_price": "12000", "tax_rate": "16", "rubro_codes": []string{"mano_obra"},
	}, http.StatusCreated)
	q := a.decode(http.MethodPost, "/api/quotes", token, map[string]any{"customer_id": customer["id"], "prestaciones_percent": "10"}, http.StatusCreated)
	quoteID = q["id"].(string)
	a.decode(http.MethodPost, "/api/quotes/"+quoteID+"/lines", token, map[string]any{
		"rubro_code": "mano_obra", "product_id": product["id"], "quantity": "2", "service_type": "jardineria",
	}, http.StatusCreated)
	return quoteID
}

// ──────────────────────────────────────────────────────────────────────────────
// Flujo de cotización
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_CotizacionConPartidaEIndicadores(t *testing.T) {
	api := newTestAPI(t)
	_, token := api.tenant("admin")
	quoteID := api.quoteWithLine(token)

	q := api.decode(http.MethodGet, "/api/quotes/"+quoteID, token, nil, http.StatusOK)
	assert.Equal(t, "Nueva Cotización", q["name"])
	assert.Equal(t, "draft", q["state"])

	ind := api.decode(http.MethodGet, "/api/quotes/"+quoteID+"/indicators", token, nil, http.StatusOK)
	assert.EqualValues(t, 1, ind["total_elementos"])
	assert.EqualValues(t, 2, ind["personal_requerido"])
}

func TestRouter_AutorizarConRubrosEnRojo_Retorna409(t *testing.T) {
	api := newTestAPI(t)
	_, token := api.tenant("admin")
	quoteID := api.quoteWithLine(token)

	body := api.decode(http.MethodPost, "/api/quotes/"+quoteID+"/authorize", token, nil, http.StatusConflict)
	assert.Equal(t, "RUBROS_PENDIENTES", body["code"])
	assert.Contains(t, body["message"], "ROJO")
	assert.NotEmpty(t, body["scopes"])
}

func TestRouter_CotizadorNoPuedeAutorizar(t *testing.T) {
	api := newTestAPI(t)
	companyID, adminToken := api.tenant("admin")
	quoteID := api.quoteWithLine(adminToken)
	cotizador := api.user(companyID, "cotizador")

	body := api.decode(http.MethodPost, "/api/quotes/"+quoteID+"/authorize", cotizador, nil, http.StatusForbidden)
	assert.Equal(t, "FORBIDDEN", body["code"])
}

func TestRouter_CancelarYLuegoEditar_Retorna409(t *testing.T) {
	api := newTestAPI(t)
	_, token := api.tenant("admin")
	quoteID := api.quoteWithLine(token)

	q := api.decode(http.MethodPost, "/api/quotes/"+quoteID+"/cancel", token, nil, http.StatusOK)
	assert.Equal(t, "cancelled", q["state"])

	status, _ := api.call(http.MethodPatch, "/api/quotes/"+quoteID, token, map[string]any{"note_text": "x"})
	assert.Equal(t, http.StatusConflict, status)
}

func TestRouter_PartidaConTabuladorInvalido_Retorna400(t *testing.T) {
	api := newTestAPI(t)
	_, token := api.tenant("admin")
	quoteID := api.quoteWithLine(token)

	body := api.decode(http.MethodPost, "/api/quotes/"+quoteID+"/lines", token, map[string]any{
		"rubro_code": "mano_obra", "product_id": "cualquiera", "tabulator_percent": 7,
	}, http.StatusBadRequest)
	assert.Equal(t, "VALIDATION", body["code"])
}

func TestRouter_CotizacionInexistente_Retorna404(t *testing.T) {
	api := newTestAPI(t)
	_, token := api.tenant("admin")

	body := api.decode(http.MethodGet, "/api/quotes/no-existe", token, nil, http.StatusNotFound)
	assert.Equal(t, "NOT_FOUND", body["code"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Reportes
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_ResumenEnExcelYPDF(t *testing.T) {
	api := newTestAPI(t)
	_, token := api.tenant("admin")
	quoteID := api.quoteWithLine(token)

	req := httptest.NewRequest(http.MethodGet, "/api/quotes/"+quoteID+"/summary.xlsx", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := api.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), ".xlsx")

	status, raw := api.call(http.MethodGet, "/api/quotes/"+quoteID+"/pdf", token, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF-")))
}

// ──────────────────────────────────────────────────────────────────────────────
// Módulos, órdenes de venta y Odoo
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_ModuloDesactivado_Retorna403(t *testing.T) {
	api := newTestAPI(t)
	companyID, token := api.tenant("admin")

	status, _ := api.call(http.MethodPut, "/api/companies/"+companyID+"/modules/quotes", token, map[string]any{"active": false})
	require.Equal(t, http.StatusNoContent, status)

	body := api.decode(http.MethodGet, "/api/quotes", token, nil, http.StatusForbidden)
	assert.Equal(t, "MODULE_DISABLED", body["code"])
}

func TestRouter_ModulosDeOtraEmpresa_Retorna403(t *testing.T) {
	api := newTestAPI(t)
	companyA, tokenA := api.tenant("admin")
	otra := api.decode(http.MethodPost, "/api/companies", "", map[string]any{"name": "Verde", "tax_id": "VER010101AAA"}, http.StatusCreated)
	companyB := otra["id"].(string)

	body := api.decode(http.MethodPut, "/api/companies/"+companyB+"/modules/quotes", tokenA, map[string]any{"active": false}, http.StatusForbidden)
	assert.Equal(t, "FORBIDDEN", body["code"])

	cotizador := api.user(companyA, "cotizador")
	status, _ := api.call(http.MethodPut, "/api/companies/"+companyA+"/modules/quotes", cotizador, map[string]any{"active": false})
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = api.call(http.MethodGet, "/api/quotes", tokenA, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestRouter_PushSinOdoo_Retorna503(t *testing.T) {
	api := newTestAPI(t)
	_, token := api.tenant("admin")
	customer := api.decode(http.MethodPost, "/api/customers", token, map[string]any{"name": "Plaza Sur", "tax_id": "PSU010101AAA"}, http.StatusCreated)
	order := api.decode(http.MethodPost, "/api/sale-orders", token, map[string]any{"customer_id": customer["id"]}, http.StatusCreated)

	body := api.decode(http.MethodPost, "/api/sale-orders/"+order["id"].(string)+"/push", token, nil, http.StatusServiceUnavailable)
	assert.Equal(t, "ODOO_DISABLED", body["code"])
}

func TestRouter_ImportarCotizacionEnBorrador_Retorna409(t *testing.T) {
	api := newTestAPI(t)
	_, token := api.tenant("admin")
	quoteID := api.quoteWithLine(token)
	q := api.decode(http.MethodGet, "/api/quotes/"+quoteID, token, nil, http.StatusOK)
	order := api.decode(http.MethodPost, "/api/sale-orders", token, map[string]any{"customer_id": q["customer_id"]}, http.StatusCreated)

	body := api.decode(http.MethodPost, "/api/sale-orders/"+order["id"].(string)+"/import-quote", token, map[string]any{"quote_id": quoteID}, http.StatusConflict)
	assert.Equal(t, "CONFLICT", body["code"])
}
