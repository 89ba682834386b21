package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shopspring/decimal"

	_ "github.com/jhoicas/Cotizador-api/docs"
	"github.com/jhoicas/Cotizador-api/internal/application/auth"
	"github.com/jhoicas/Cotizador-api/internal/application/quote"
	"github.com/jhoicas/Cotizador-api/internal/application/sales"
	"github.com/jhoicas/Cotizador-api/internal/application/usecase"
	"github.com/jhoicas/Cotizador-api/internal/infrastructure/excel"
	"github.com/jhoicas/Cotizador-api/internal/infrastructure/odoo"
	infrapdf "github.com/jhoicas/Cotizador-api/internal/infrastructure/pdf"
	httpRouter "github.com/jhoicas/Cotizador-api/internal/interfaces/http"
	"github.com/jhoicas/Cotizador-api/pkg/config"
	"github.com/jhoicas/Cotizador-api/pkg/logger"
)

// @title        Cotizador CCN API
// @version      1.0
// @description  Cotizaciones de servicios por sitio y rubro, resumen general y exportación a órdenes de venta.
// @BasePath     /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, err := openStorage(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer store.close()

	vat := decimal.NewFromFloat(cfg.Quote.VATRate)
	quoteCfg := quote.Config{VATRate: vat, Currency: cfg.Quote.Currency}

	// Odoo solo si URL, base y usuario están configurados; sin él PushToOdoo responde 503.
	var odooSync sales.OdooSync
	if cfg.Odoo.Enabled() {
		client, err := odoo.New(cfg.Odoo)
		if err != nil {
			log.Fatal().Err(err).Msg("cliente Odoo")
		}
		defer client.Close()
		odooSync = client
		log.Info().Str("url", cfg.Odoo.URL).Str("db", cfg.Odoo.Database).Msg("integración Odoo habilitada")
	}

	authUC := auth.NewAuthUseCase(store.users, store.companies, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	quoteUC := quote.NewQuoteUseCase(store.tx, store.quotes, store.sites, store.lines, store.acks,
		store.customers, store.products, store.rubros, quoteCfg)
	reportUC := quote.NewReportUseCase(store.quotes, store.sites, store.lines, store.rubros,
		store.customers, store.companies, infrapdf.NewMarotoPDFGenerator(), excel.NewSummaryExporter(), quoteCfg)
	saleOrderUC := sales.NewSaleOrderUseCase(store.tx, store.orders, store.quotes, store.sites, store.lines,
		store.rubros, store.customers, store.products, store.packages, odooSync, sales.Config{VATRate: vat})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${status} ${method} ${path} ${latency}\n",
		Output: log.HTTPWriter(),
	}))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Cotizador CCN API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "storage": cfg.Storage.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		CompanyUC:     usecase.NewCompanyUseCase(store.companies, store.tx),
		ModuleService: usecase.NewModuleService(store.companies),
		UserUC:        usecase.NewUserUseCase(store.users),
		CustomerUC:    usecase.NewCustomerUseCase(store.customers),
		ProductUC:     usecase.NewProductUseCase(store.products),
		CatalogUC:     usecase.NewCatalogUseCase(store.rubros, store.packages, store.products),
		QuoteUC:       quoteUC,
		ReportUC:      reportUC,
		SaleOrderUC:   saleOrderUC,
		JWTSecret:     cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
