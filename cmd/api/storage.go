package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/jhoicas/Cotizador-api/internal/application/quote"
	"github.com/jhoicas/Cotizador-api/internal/application/sales"
	"github.com/jhoicas/Cotizador-api/internal/application/usecase"
	"github.com/jhoicas/Cotizador-api/internal/domain/repository"
	"github.com/jhoicas/Cotizador-api/internal/infrastructure/memory"
	"github.com/jhoicas/Cotizador-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Cotizador-api/pkg/config"
)

// txRunner transacciones de registro, cotización y ventas.
type txRunner interface {
	usecase.TxRunner
	quote.TxRunner
	sales.TxRunner
}

// storage repositorios del driver elegido (postgres | memory).
type storage struct {
	companies repository.CompanyRepository
	users     repository.UserRepository
	customers repository.CustomerRepository
	rubros    repository.RubroRepository
	products  repository.ProductRepository
	packages  repository.ServicePackageRepository
	quotes    repository.QuoteRepository
	sites     repository.SiteRepository
	lines     repository.QuoteLineRepository
	acks      repository.AckRepository
	orders    repository.SaleOrderRepository
	tx        txRunner
	close     func()
}

func openStorage(ctx context.Context, cfg *config.Config) (*storage, error) {
	switch cfg.Storage.Driver {
	case "memory":
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		s := memory.NewStore()
		return &storage{
			companies: s.Companies(),
			users:     s.Users(),
			customers: s.Customers(),
			rubros:    s.Rubros(),
			products:  s.Products(),
			packages:  s.Packages(),
			quotes:    s.Quotes(),
			sites:     s.Sites(),
			lines:     s.Lines(),
			acks:      s.Acks(),
			orders:    s.SaleOrders(),
			tx:        s,
			close:     func() {},
		}, nil
	case "postgres":
		if cfg.Storage.AutoMigrate {
			if err := postgres.RunMigrations(ctx, postgres.ResolveDSN(cfg.DB)); err != nil {
				return nil, fmt.Errorf("migraciones: %w", err)
			}
		}
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		return &storage{
			companies: postgres.NewCompanyRepository(pool),
			users:     postgres.NewUserRepository(pool),
			customers: postgres.NewCustomerRepository(pool),
			rubros:    postgres.NewRubroRepository(pool),
			products:  postgres.NewProductRepository(pool),
			packages:  postgres.NewServicePackageRepository(pool),
			quotes:    postgres.NewQuoteRepository(pool),
			sites:     postgres.NewSiteRepository(pool),
			lines:     postgres.NewQuoteLineRepository(pool),
			acks:      postgres.NewAckRepository(pool),
			orders:    postgres.NewSaleOrderRepository(pool),
			tx:        postgres.NewTxRunner(pool),
			close:     pool.Close,
		}, nil
	default:
		return nil, fmt.Errorf("STORAGE_DRIVER desconocido %q", cfg.Storage.Driver)
	}
}
