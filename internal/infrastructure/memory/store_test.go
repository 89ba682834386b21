package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cotizador-api/internal/domain"
	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
	"github.com/jhoicas/Cotizador-api/internal/domain/repository"
	"github.com/jhoicas/Cotizador-api/internal/infrastructure/memory"
)

func TestNewStore_SiembraRubros(t *testing.T) {
	s := memory.NewStore()
	rubros, err := s.Rubros().List(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, rubros, len(entity.RubroCodes))
	assert.Equal(t, entity.RubroManoObra, rubros[0].Code)
	assert.Equal(t, 10, rubros[0].Sequence)

	fert, err := s.Rubros().GetByCode(context.Background(), "", entity.RubroFertilizantes)
	require.NoError(t, err)
	assert.True(t, fert.ApplyGarden)
	assert.False(t, fert.ApplyClean)
}

func TestRunQuote_RevierteAnteError(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	boom := errors.New("boom")

	err := s.RunQuote(ctx, func(quotes repository.QuoteRepository, sites repository.SiteRepository, _ repository.QuoteLineRepository, _ repository.AckRepository) error {
		require.NoError(t, quotes.Create(ctx, &entity.Quote{ID: "q1", CompanyID: "c1", CustomerID: "cu1", Name: "A"}))
		require.NoError(t, sites.Create(ctx, &entity.Site{ID: "s1", QuoteID: "q1", Name: entity.GeneralSiteName}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	q, err := s.Quotes().GetByID(ctx, "q1")
	require.NoError(t, err)
	assert.Nil(t, q)
	sites, err := s.Sites().ListByQuote(ctx, "q1")
	require.NoError(t, err)
	assert.Empty(t, sites)
}

func TestRunQuote_RollbackConservaEscriturasAjenas(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	boom := errors.New("boom")

	err := s.RunQuote(ctx, func(quotes repository.QuoteRepository, _ repository.SiteRepository, _ repository.QuoteLineRepository, _ repository.AckRepository) error {
		require.NoError(t, quotes.Create(ctx, &entity.Quote{ID: "q1", CompanyID: "c1", CustomerID: "cu1", Name: "A"}))
		// escritura concurrente fuera de la transacción
		require.NoError(t, s.Customers().Create(ctx, &entity.Customer{ID: "cu2", CompanyID: "c1", Name: "Otro", TaxID: "OTR010101AAA"}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	q, err := s.Quotes().GetByID(ctx, "q1")
	require.NoError(t, err)
	assert.Nil(t, q)
	c, err := s.Customers().GetByID(ctx, "cu2")
	require.NoError(t, err)
	assert.NotNil(t, c, "la escritura ajena sobrevive al rollback")
}

func TestRunQuote_CommitAplicaSoloCambios(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	require.NoError(t, s.Quotes().Create(ctx, &entity.Quote{ID: "q0", CompanyID: "c1", CustomerID: "cu1", Name: "Base"}))

	err := s.RunQuote(ctx, func(quotes repository.QuoteRepository, sites repository.SiteRepository, _ repository.QuoteLineRepository, _ repository.AckRepository) error {
		require.NoError(t, sites.Create(ctx, &entity.Site{ID: "s1", QuoteID: "q0", Name: entity.GeneralSiteName}))
		// otra escritura fuera de la transacción sobre una fila que la transacción no toca
		require.NoError(t, s.Quotes().Update(ctx, &entity.Quote{ID: "q0", CompanyID: "c1", CustomerID: "cu1", Name: "Renombrada"}))
		return nil
	})
	require.NoError(t, err)

	sites, err := s.Sites().ListByQuote(ctx, "q0")
	require.NoError(t, err)
	assert.Len(t, sites, 1)
	q, err := s.Quotes().GetByID(ctx, "q0")
	require.NoError(t, err)
	require.NotNil(t, q)
	assert.Equal(t, "Renombrada", q.Name)
}

func TestQuotes_NombreUnicoPorCliente(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	require.NoError(t, s.Quotes().Create(ctx, &entity.Quote{ID: "q1", CustomerID: "cu1", Name: "A"}))
	assert.ErrorIs(t, s.Quotes().Create(ctx, &entity.Quote{ID: "q2", CustomerID: "cu1", Name: "A"}), domain.ErrDuplicate)
	assert.NoError(t, s.Quotes().Create(ctx, &entity.Quote{ID: "q3", CustomerID: "cu2", Name: "A"}))
}

func TestLines_MoveToSiteYOrdenDeCaptura(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	from, to := "s-from", "s-to"
	for _, id := range []string{"l3", "l1", "l2"} {
		sid := from
		require.NoError(t, s.Lines().Create(ctx, &entity.QuoteLine{ID: id, QuoteID: "q1", SiteID: &sid}))
	}
	moved, err := s.Lines().MoveToSite(ctx, "q1", from, to)
	require.NoError(t, err)
	assert.Equal(t, 3, moved)

	lines, err := s.Lines().ListByQuote(ctx, "q1")
	require.NoError(t, err)
	require.Len(t, lines, 3)
	assert.Equal(t, "l3", lines[0].ID)
	assert.Equal(t, "l2", lines[2].ID)
	for _, l := range lines {
		assert.Equal(t, to, *l.SiteID)
	}
}

func TestEntidadesDevueltasSonCopias(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	require.NoError(t, s.Products().Create(ctx, &entity.Product{ID: "p1", CompanyID: "c1", Name: "X", RubroCodes: []string{entity.RubroEPP}}))
	p, err := s.Products().GetByID(ctx, "p1")
	require.NoError(t, err)
	p.Name = "mutado"
	p.RubroCodes[0] = entity.RubroUniforme

	again, err := s.Products().GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "X", again.Name)
	assert.Equal(t, entity.RubroEPP, again.RubroCodes[0])
}
