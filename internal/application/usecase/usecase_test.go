package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cotizador-api/internal/application/dto"
	"github.com/jhoicas/Cotizador-api/internal/application/usecase"
	"github.com/jhoicas/Cotizador-api/internal/domain"
	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
	"github.com/jhoicas/Cotizador-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

const (
	empresaA = "company-a"
	empresaB = "company-b"
)

func newStore(t *testing.T) *memory.Store {
	t.Helper()
	store := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, store.Companies().Create(ctx, &entity.Company{ID: empresaA, Name: "CCN", TaxID: "CCN010101AAA", Status: "active"}))
	require.NoError(t, store.Companies().Create(ctx, &entity.Company{ID: empresaB, Name: "Verde", TaxID: "VER010101BBB", Status: "active"}))
	return store
}

func codes(list []dto.RubroResponse) []string {
	out := make([]string, 0, len(list))
	for _, r := range list {
		out = append(out, r.Code)
	}
	return out
}

func ptr[T any](v T) *T { return &v }

// ──────────────────────────────────────────────────────────────────────────────
// Rubros
// ──────────────────────────────────────────────────────────────────────────────

func TestListRubros_FiltraPorTipoDeServicio(t *testing.T) {
	store := newStore(t)
	uc := usecase.NewCatalogUseCase(store.Rubros(), store.Packages(), store.Products())
	ctx := context.Background()

	todos, err := uc.ListRubros(ctx, empresaA, "")
	require.NoError(t, err)
	assert.Len(t, todos, len(entity.RubroCodes))

	jardin, err := uc.ListRubros(ctx, empresaA, entity.ServiceJardineria)
	require.NoError(t, err)
	assert.Contains(t, codes(jardin), entity.RubroFertilizantes)
	assert.NotContains(t, codes(jardin), entity.RubroMaterialLimpieza)

	limpieza, err := uc.ListRubros(ctx, empresaA, entity.ServiceLimpieza)
	require.NoError(t, err)
	assert.Contains(t, codes(limpieza), entity.RubroMaterialLimpieza)
	assert.NotContains(t, codes(limpieza), entity.RubroFertilizantes)

	for i := 1; i < len(todos); i++ {
		assert.LessOrEqual(t, todos[i-1].Sequence, todos[i].Sequence)
	}
}

func TestListRubros_TipoInvalido(t *testing.T) {
	store := newStore(t)
	uc := usecase.NewCatalogUseCase(store.Rubros(), store.Packages(), store.Products())

	_, err := uc.ListRubros(context.Background(), empresaA, "mantenimiento")
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestUpdateRubro_SoloAfectaALaEmpresa(t *testing.T) {
	store := newStore(t)
	uc := usecase.NewCatalogUseCase(store.Rubros(), store.Packages(), store.Products())
	ctx := context.Background()

	out, err := uc.UpdateRubro(ctx, empresaA, entity.RubroCapacitacion, dto.UpdateRubroRequest{
		Name:   ptr("Cursos"),
		Active: ptr(false),
	})
	require.NoError(t, err)
	assert.Equal(t, "Cursos", out.Name)
	assert.False(t, out.Active)

	listaA, err := uc.ListRubros(ctx, empresaA, "")
	require.NoError(t, err)
	assert.NotContains(t, codes(listaA), entity.RubroCapacitacion)

	listaB, err := uc.ListRubros(ctx, empresaB, "")
	require.NoError(t, err)
	assert.Contains(t, codes(listaB), entity.RubroCapacitacion)

	base, err := store.Rubros().GetByCode(ctx, empresaB, entity.RubroCapacitacion)
	require.NoError(t, err)
	assert.Equal(t, entity.RubroLabel(entity.RubroCapacitacion), base.Name)
}

func TestUpdateRubro_Guardas(t *testing.T) {
	store := newStore(t)
	uc := usecase.NewCatalogUseCase(store.Rubros(), store.Packages(), store.Products())
	ctx := context.Background()

	_, err := uc.UpdateRubro(ctx, empresaA, "inexistente", dto.UpdateRubroRequest{Name: ptr("X")})
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = uc.UpdateRubro(ctx, empresaA, entity.RubroEPP, dto.UpdateRubroRequest{Name: ptr("   ")})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

// ──────────────────────────────────────────────────────────────────────────────
// Productos
// ──────────────────────────────────────────────────────────────────────────────

func TestProductList_CatalogoDelCotizador(t *testing.T) {
	store := newStore(t)
	uc := usecase.NewProductUseCase(store.Products())
	ctx := context.Background()

	crear := func(name string, rubros []string, excluido bool) *dto.ProductResponse {
		p, err := uc.Create(ctx, empresaA, dto.CreateProductRequest{
			Name:             name,
			ListPrice:        decimal.NewFromInt(100),
			TaxRate:          decimal.NewFromInt(16),
			RubroCodes:       rubros,
			ExcludeFromQuote: excluido,
		})
		require.NoError(t, err)
		return p
	}
	crear("Botas", []string{entity.RubroEPP}, false)
	crear("Casco", []string{entity.RubroEPP}, true)
	inactivo := crear("Guantes", []string{entity.RubroEPP}, false)
	crear("Escoba", []string{entity.RubroMaterialLimpieza}, false)

	_, err := uc.Update(ctx, empresaA, inactivo.ID, dto.UpdateProductRequest{Active: ptr(false)})
	require.NoError(t, err)

	out, err := uc.List(ctx, empresaA, entity.RubroEPP, 0, 0)
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "Botas", out.Items[0].Name)
	assert.Equal(t, 20, out.Page.Limit)

	todos, err := uc.List(ctx, empresaA, "", 50, 0)
	require.NoError(t, err)
	assert.Len(t, todos.Items, 4)

	otra, err := uc.List(ctx, empresaB, "", 50, 0)
	require.NoError(t, err)
	assert.Empty(t, otra.Items)
}

func TestProductCreate_Guardas(t *testing.T) {
	store := newStore(t)
	uc := usecase.NewProductUseCase(store.Products())
	ctx := context.Background()

	cases := []struct {
		name string
		in   dto.CreateProductRequest
	}{
		{"sin nombre", dto.CreateProductRequest{Name: " "}},
		{"precio negativo", dto.CreateProductRequest{Name: "X", ListPrice: decimal.NewFromInt(-1)}},
		{"rubro desconocido", dto.CreateProductRequest{Name: "X", RubroCodes: []string{"otro"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Create(ctx, empresaA, tc.in)
			assert.True(t, errors.Is(err, domain.ErrInvalidInput))
		})
	}

	_, err := uc.List(ctx, empresaA, "otro", 10, 0)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

// ──────────────────────────────────────────────────────────────────────────────
// Clientes
// ──────────────────────────────────────────────────────────────────────────────

func TestCustomerCreate_RFCUnicoPorEmpresa(t *testing.T) {
	store := newStore(t)
	uc := usecase.NewCustomerUseCase(store.Customers())
	ctx := context.Background()

	c, err := uc.Create(ctx, empresaA, dto.CreateCustomerRequest{Name: "Plaza Norte", TaxID: " pno010101bbb "})
	require.NoError(t, err)
	assert.Equal(t, "PNO010101BBB", c.TaxID)

	_, err = uc.Create(ctx, empresaA, dto.CreateCustomerRequest{Name: "Otra razón", TaxID: "PNO010101BBB"})
	assert.True(t, errors.Is(err, domain.ErrDuplicate))

	_, err = uc.Create(ctx, empresaB, dto.CreateCustomerRequest{Name: "Plaza Norte", TaxID: "PNO010101BBB"})
	assert.NoError(t, err)

	_, err = uc.Create(ctx, empresaA, dto.CreateCustomerRequest{Name: "Sin RFC"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	listaA, err := uc.List(ctx, empresaA, 10, 0)
	require.NoError(t, err)
	assert.Len(t, listaA, 1)
}

// ──────────────────────────────────────────────────────────────────────────────
// Empresas y módulos
// ──────────────────────────────────────────────────────────────────────────────

func TestCompanyCreate_ActivaModulosPorDefecto(t *testing.T) {
	store := memory.NewStore()
	uc := usecase.NewCompanyUseCase(store.Companies(), store)
	modules := usecase.NewModuleService(store.Companies())
	ctx := context.Background()

	c, err := uc.Create(ctx, dto.CreateCompanyRequest{Name: "CCN", TaxID: "ccn010101aaa"})
	require.NoError(t, err)
	assert.Equal(t, "CCN010101AAA", c.TaxID)

	for _, m := range usecase.DefaultModules {
		ok, err := modules.HasActiveModule(ctx, c.ID, m)
		require.NoError(t, err)
		assert.True(t, ok, m)
	}

	_, err = uc.Create(ctx, dto.CreateCompanyRequest{Name: "Otra", TaxID: "CCN010101AAA"})
	assert.True(t, errors.Is(err, domain.ErrDuplicate))
}

func TestSetModule_ActivaYDesactiva(t *testing.T) {
	store := newStore(t)
	modules := usecase.NewModuleService(store.Companies())
	ctx := context.Background()

	require.NoError(t, modules.SetModule(ctx, empresaA, entity.ModuleSales, true, nil))
	ok, err := modules.HasActiveModule(ctx, empresaA, entity.ModuleSales)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, modules.SetModule(ctx, empresaA, entity.ModuleSales, false, nil))
	ok, err = modules.HasActiveModule(ctx, empresaA, entity.ModuleSales)
	require.NoError(t, err)
	assert.False(t, ok)

	vencido := time.Now().Add(-time.Hour)
	require.NoError(t, modules.SetModule(ctx, empresaA, entity.ModuleQuotes, true, &vencido))
	ok, err = modules.HasActiveModule(ctx, empresaA, entity.ModuleQuotes)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = modules.HasActiveModule(ctx, empresaB, entity.ModuleSales)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSetModule_Guardas(t *testing.T) {
	store := newStore(t)
	modules := usecase.NewModuleService(store.Companies())
	ctx := context.Background()

	err := modules.SetModule(ctx, empresaA, "inventario", true, nil)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	err = modules.SetModule(ctx, "no-existe", entity.ModuleQuotes, true, nil)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = modules.HasActiveModule(ctx, "", entity.ModuleQuotes)
	assert.Error(t, err)
}
