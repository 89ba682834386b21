package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Cotizador-api/internal/application/auth"
	"github.com/jhoicas/Cotizador-api/internal/application/quote"
	"github.com/jhoicas/Cotizador-api/internal/application/sales"
	"github.com/jhoicas/Cotizador-api/internal/application/usecase"
	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	CompanyUC     *usecase.CompanyUseCase
	ModuleService *usecase.ModuleService
	UserUC        *usecase.UserUseCase
	CustomerUC    *usecase.CustomerUseCase
	ProductUC     *usecase.ProductUseCase
	CatalogUC     *usecase.CatalogUseCase
	QuoteUC       *quote.QuoteUseCase
	ReportUC      *quote.ReportUseCase
	SaleOrderUC   *sales.SaleOrderUseCase
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	adminOnly := RequireRole(entity.RoleAdmin)

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Companies: alta y consulta públicas para el arranque del tenant
	companies := api.Group("/companies")
	companyHandler := NewCompanyHandler(deps.CompanyUC, deps.ModuleService)
	companies.Get("/", companyHandler.List)
	companies.Post("/", companyHandler.Create)
	companies.Get("/:id", companyHandler.GetByID)
	companies.Put("/:id/modules/:module", AuthMiddleware(deps.JWTSecret), adminOnly, companyHandler.SetModule)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	users := protected.Group("/users")
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/me", userHandler.Me)
	users.Get("/", adminOnly, userHandler.List)

	// Catálogo
	catalogHandler := NewCatalogHandler(deps.CatalogUC)
	rubros := protected.Group("/rubros")
	rubros.Get("/", catalogHandler.ListRubros)
	rubros.Put("/:code", adminOnly, catalogHandler.UpdateRubro)

	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)

	packages := protected.Group("/packages")
	packages.Post("/", catalogHandler.CreatePackage)
	packages.Get("/", catalogHandler.ListPackages)
	packages.Get("/:id", catalogHandler.GetPackage)

	// Clientes
	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC, deps.QuoteUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Get("/:id/quotes", RequireModule(entity.ModuleQuotes, deps.ModuleService), customerHandler.Quotes)

	// Cotizador (módulo quotes)
	quotes := protected.Group("/quotes", RequireModule(entity.ModuleQuotes, deps.ModuleService))
	quoteHandler := NewQuoteHandler(deps.QuoteUC)
	quotes.Post("/", quoteHandler.Create)
	quotes.Get("/", quoteHandler.List)
	quotes.Get("/:id", quoteHandler.Get)
	quotes.Patch("/:id", quoteHandler.Update)
	quotes.Put("/:id/scope", quoteHandler.SetScope)
	quotes.Post("/:id/authorize", RequireRole(entity.RoleAdmin, entity.RoleAutorizador), quoteHandler.Authorize)
	quotes.Post("/:id/reopen", adminOnly, quoteHandler.Reopen)
	quotes.Post("/:id/cancel", quoteHandler.Cancel)

	quotes.Post("/:id/sites", quoteHandler.CreateSite)
	quotes.Get("/:id/sites", quoteHandler.ListSites)
	quotes.Post("/:id/sites/general", quoteHandler.EnsureGeneralSite)
	quotes.Put("/:id/sites/:siteId", quoteHandler.UpdateSite)
	quotes.Delete("/:id/sites/:siteId", quoteHandler.DeleteSite)

	lineHandler := NewLineHandler(deps.QuoteUC)
	quotes.Post("/:id/lines", lineHandler.Add)
	quotes.Post("/:id/lines/bulk", lineHandler.AddBulk)
	quotes.Post("/:id/lines/fix-service-types", lineHandler.FixServiceTypes)
	quotes.Get("/:id/lines", lineHandler.List)
	quotes.Patch("/:id/lines/:lineId", lineHandler.Update)
	quotes.Delete("/:id/lines/:lineId", lineHandler.Delete)
	quotes.Post("/:id/acks", lineHandler.MarkEmpty)
	quotes.Delete("/:id/acks", lineHandler.UnmarkEmpty)
	quotes.Get("/:id/acks", lineHandler.ListAcks)
	quotes.Get("/:id/rubro-states", lineHandler.RubroStates)

	reportHandler := NewReportHandler(deps.QuoteUC, deps.ReportUC)
	quotes.Get("/:id/indicators", reportHandler.GeneralIndicators)
	quotes.Get("/:id/sites/:siteId/indicators", reportHandler.SiteIndicators)
	quotes.Get("/:id/sites/:siteId/services/:serviceType/indicators", reportHandler.ServiceIndicators)
	quotes.Get("/:id/summary", reportHandler.Summary)
	quotes.Get("/:id/summary.xlsx", reportHandler.SummaryXLSX)
	quotes.Get("/:id/summary.pdf", reportHandler.SummaryPDF)
	quotes.Get("/:id/pdf", reportHandler.QuotePDF)

	// Órdenes de venta (módulo sales)
	orders := protected.Group("/sale-orders", RequireModule(entity.ModuleSales, deps.ModuleService))
	orderHandler := NewSaleOrderHandler(deps.SaleOrderUC)
	orders.Post("/", orderHandler.Create)
	orders.Get("/", orderHandler.List)
	orders.Get("/:id", orderHandler.Get)
	orders.Post("/:id/import-quote", orderHandler.ImportQuote)
	orders.Post("/:id/apply-package", orderHandler.ApplyPackage)
	orders.Post("/:id/push", orderHandler.PushToOdoo)
}
