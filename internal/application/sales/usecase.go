// Package sales órdenes de venta locales: importación de cotizaciones autorizadas,
// paquetes de servicio y envío a Odoo.
package sales

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cotizador-api/internal/application/dto"
	"github.com/jhoicas/Cotizador-api/internal/domain"
	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
	"github.com/jhoicas/Cotizador-api/internal/domain/quoting"
	"github.com/jhoicas/Cotizador-api/internal/domain/repository"
)

// ErrOdooDisabled la integración con Odoo no está configurada.
var ErrOdooDisabled = errors.New("integración con Odoo no configurada")

// OrderStateDraft estado inicial de la orden.
const OrderStateDraft = "draft"

// SaleOrderUseCase casos de uso de órdenes de venta.
type SaleOrderUseCase struct {
	tx        TxRunner
	orders    repository.SaleOrderRepository
	quotes    repository.QuoteRepository
	sites     repository.SiteRepository
	lines     repository.QuoteLineRepository
	rubros    repository.RubroRepository
	customers repository.CustomerRepository
	products  repository.ProductRepository
	packages  repository.ServicePackageRepository
	odoo      OdooSync // nil = sin Odoo
	cfg       Config
}

// NewSaleOrderUseCase construye el caso de uso. odoo puede ser nil.
func NewSaleOrderUseCase(
	tx TxRunner,
	orders repository.SaleOrderRepository,
	quotes repository.QuoteRepository,
	sites repository.SiteRepository,
	lines repository.QuoteLineRepository,
	rubros repository.RubroRepository,
	customers repository.CustomerRepository,
	products repository.ProductRepository,
	packages repository.ServicePackageRepository,
	odoo OdooSync,
	cfg Config,
) *SaleOrderUseCase {
	return &SaleOrderUseCase{
		tx: tx, orders: orders, quotes: quotes, sites: sites, lines: lines, rubros: rubros,
		customers: customers, products: products, packages: packages, odoo: odoo, cfg: cfg,
	}
}

// Create crea una orden en borrador para un cliente de la empresa.
func (uc *SaleOrderUseCase) Create(ctx context.Context, companyID string, in dto.CreateSaleOrderRequest) (*dto.SaleOrderResponse, error) {
	if in.CustomerID == "" {
		return nil, fmt.Errorf("%w: la orden requiere cliente", domain.ErrInvalidInput)
	}
	customer, err := uc.customers.GetByID(ctx, in.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil || customer.CompanyID != companyID {
		return nil, fmt.Errorf("%w: cliente", domain.ErrNotFound)
	}
	now := time.Now()
	order := &entity.SaleOrder{
		ID:         uuid.New().String(),
		CompanyID:  companyID,
		CustomerID: customer.ID,
		Name:       strings.TrimSpace(in.Name),
		State:      OrderStateDraft,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if order.Name == "" {
		order.Name = "SO-" + strings.ToUpper(order.ID[:8])
	}
	if err := uc.orders.Create(ctx, order); err != nil {
		return nil, err
	}
	return toOrderResponse(order), nil
}

// Get obtiene una orden con sus líneas.
func (uc *SaleOrderUseCase) Get(ctx context.Context, companyID, id string) (*dto.SaleOrderResponse, error) {
	order, err := uc.loadOrder(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	return toOrderResponse(order), nil
}

// List órdenes de la empresa, las más recientes primero.
func (uc *SaleOrderUseCase) List(ctx context.Context, companyID string, limit, offset int) ([]dto.SaleOrderResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	list, err := uc.orders.ListByCompany(ctx, companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SaleOrderResponse, 0, len(list))
	for _, o := range list {
		out = append(out, *toOrderResponse(o))
	}
	return out, nil
}

// ImportQuote agrega a la orden las partidas de una cotización autorizada del mismo cliente,
// agrupadas según el modo de presentación de la cotización.
func (uc *SaleOrderUseCase) ImportQuote(ctx context.Context, companyID, orderID string, in dto.ImportQuoteRequest) (*dto.SaleOrderResponse, error) {
	order, err := uc.loadOrder(ctx, companyID, orderID)
	if err != nil {
		return nil, err
	}
	if order.CustomerID == "" {
		return nil, fmt.Errorf("%w: la orden no tiene cliente", domain.ErrInvalidInput)
	}
	if in.QuoteID == "" {
		return nil, fmt.Errorf("%w: quote_id es requerido", domain.ErrInvalidInput)
	}
	q, err := uc.quotes.GetByID(ctx, in.QuoteID)
	if err != nil {
		return nil, err
	}
	if q == nil || q.CompanyID != companyID {
		return nil, fmt.Errorf("%w: cotización", domain.ErrNotFound)
	}
	if q.CustomerID == "" {
		return nil, fmt.Errorf("%w: la cotización no tiene cliente", domain.ErrInvalidInput)
	}
	if q.CustomerID != order.CustomerID {
		return nil, domain.ErrPartnerMismatch
	}
	if q.State != entity.QuoteStateAuthorized {
		return nil, fmt.Errorf("%w: solo se importan cotizaciones autorizadas", domain.ErrConflict)
	}
	lines, err := uc.lines.ListByQuote(ctx, q.ID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: la cotización no tiene líneas", domain.ErrInvalidInput)
	}
	sites, err := uc.sites.ListByQuote(ctx, q.ID)
	if err != nil {
		return nil, err
	}
	rubros, err := uc.rubros.List(ctx, companyID)
	if err != nil {
		return nil, err
	}
	exported := quoting.BuildExport(quoting.ExportInput{
		Quote:      q,
		Lines:      lines,
		Sites:      sites,
		Rubros:     rubros,
		StartAfter: order.MaxSequence(),
	})

	taxRate := uc.cfg.VATRate.Mul(decimal.NewFromInt(100))
	err = uc.tx.RunSales(ctx, func(orders repository.SaleOrderRepository, products repository.ProductRepository) error {
		newLines := make([]entity.SaleOrderLine, 0, len(exported))
		for _, e := range exported {
			l := entity.SaleOrderLine{
				ID:          uuid.New().String(),
				OrderID:     order.ID,
				Sequence:    e.Sequence,
				DisplayType: e.DisplayType,
				Name:        e.Name,
			}
			if e.DisplayType == entity.OrderLineProduct {
				product, err := ensureContainerProduct(ctx, products, companyID, e.Name, taxRate)
				if err != nil {
					return err
				}
				l.ProductID = &product.ID
				l.Quantity = decimal.NewFromInt(1)
				l.PriceUnit = e.Amount
				l.TaxRate = product.TaxRate
			}
			newLines = append(newLines, l)
		}
		if err := orders.AddLines(ctx, order.ID, newLines); err != nil {
			return err
		}
		order.QuoteID = &q.ID
		order.UpdatedAt = time.Now()
		return orders.Update(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("order_id", order.ID).Str("quote_id", q.ID).Int("lines", len(exported)).Msg("cotización importada a orden de venta")
	return uc.Get(ctx, companyID, order.ID)
}

// ensureContainerProduct obtiene o crea el producto contenedor con el que se exporta una partida agrupada.
// Los contenedores quedan excluidos del catálogo del cotizador.
func ensureContainerProduct(ctx context.Context, products repository.ProductRepository, companyID, name string, taxRate decimal.Decimal) (*entity.Product, error) {
	p, err := products.GetByName(ctx, companyID, name)
	if err != nil {
		return nil, err
	}
	if p != nil {
		return p, nil
	}
	now := time.Now()
	p = &entity.Product{
		ID:               uuid.New().String(),
		CompanyID:        companyID,
		Name:             name,
		ListPrice:        decimal.Zero,
		TaxRate:          taxRate,
		ExcludeFromQuote: true,
		Active:           true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := products.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// ApplyPackage agrega una línea por producto del paquete al precio de lista y con su impuesto.
func (uc *SaleOrderUseCase) ApplyPackage(ctx context.Context, companyID, orderID string, in dto.ApplyPackageRequest) (*dto.SaleOrderResponse, error) {
	order, err := uc.loadOrder(ctx, companyID, orderID)
	if err != nil {
		return nil, err
	}
	pkg, err := uc.packages.GetByID(ctx, in.PackageID)
	if err != nil {
		return nil, err
	}
	if pkg == nil || pkg.CompanyID != companyID {
		return nil, fmt.Errorf("%w: paquete", domain.ErrNotFound)
	}
	seq := order.MaxSequence()
	newLines := make([]entity.SaleOrderLine, 0, len(pkg.Lines))
	for _, pl := range pkg.Lines {
		product, err := uc.products.GetByID(ctx, pl.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil || product.CompanyID != companyID {
			return nil, fmt.Errorf("%w: producto del paquete", domain.ErrNotFound)
		}
		seq += quoting.SequenceStep
		newLines = append(newLines, entity.SaleOrderLine{
			ID:          uuid.New().String(),
			OrderID:     order.ID,
			Sequence:    seq,
			DisplayType: entity.OrderLineProduct,
			Name:        product.Name,
			ProductID:   &product.ID,
			Quantity:    pl.Quantity,
			PriceUnit:   product.ListPrice,
			TaxRate:     product.TaxRate,
		})
	}
	if err := uc.orders.AddLines(ctx, order.ID, newLines); err != nil {
		return nil, err
	}
	return uc.Get(ctx, companyID, order.ID)
}

// PushToOdoo crea (o reutiliza) la sale.order remota y envía las líneas de la orden.
func (uc *SaleOrderUseCase) PushToOdoo(ctx context.Context, companyID, orderID string) (*dto.PushOrderResponse, error) {
	if uc.odoo == nil {
		return nil, ErrOdooDisabled
	}
	order, err := uc.loadOrder(ctx, companyID, orderID)
	if err != nil {
		return nil, err
	}
	if len(order.Lines) == 0 {
		return nil, fmt.Errorf("%w: la orden no tiene líneas", domain.ErrInvalidInput)
	}
	customer, err := uc.customers.GetByID(ctx, order.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, fmt.Errorf("%w: cliente", domain.ErrNotFound)
	}
	products := make(map[string]*entity.Product)
	for _, l := range order.Lines {
		if l.ProductID == nil {
			continue
		}
		if _, ok := products[*l.ProductID]; ok {
			continue
		}
		p, err := uc.products.GetByID(ctx, *l.ProductID)
		if err != nil {
			return nil, err
		}
		if p != nil {
			products[p.ID] = p
		}
	}
	externalID, err := uc.odoo.PushOrder(ctx, OdooOrder{Order: order, Customer: customer, Products: products})
	if err != nil {
		log.Error().Err(err).Str("order_id", order.ID).Msg("error enviando orden a Odoo")
		return nil, fmt.Errorf("odoo: %w", err)
	}
	order.ExternalID = &externalID
	order.UpdatedAt = time.Now()
	if err := uc.orders.Update(ctx, order); err != nil {
		return nil, err
	}
	log.Info().Str("order_id", order.ID).Int64("external_id", externalID).Msg("orden enviada a Odoo")
	return &dto.PushOrderResponse{OrderID: order.ID, ExternalID: externalID, Lines: len(order.Lines)}, nil
}

func (uc *SaleOrderUseCase) loadOrder(ctx context.Context, companyID, id string) (*entity.SaleOrder, error) {
	order, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil || order.CompanyID != companyID {
		return nil, fmt.Errorf("%w: orden de venta", domain.ErrNotFound)
	}
	return order, nil
}

func toOrderResponse(o *entity.SaleOrder) *dto.SaleOrderResponse {
	out := &dto.SaleOrderResponse{
		ID:         o.ID,
		CustomerID: o.CustomerID,
		Name:       o.Name,
		State:      o.State,
		QuoteID:    o.QuoteID,
		ExternalID: o.ExternalID,
		Lines:      make([]dto.SaleOrderLineResponse, 0, len(o.Lines)),
		CreatedAt:  o.CreatedAt,
	}
	for _, l := range o.Lines {
		sub := l.Subtotal()
		out.Lines = append(out.Lines, dto.SaleOrderLineResponse{
			Sequence:    l.Sequence,
			DisplayType: l.DisplayType,
			Name:        l.Name,
			ProductID:   l.ProductID,
			Quantity:    l.Quantity,
			PriceUnit:   l.PriceUnit,
			TaxRate:     l.TaxRate,
			Subtotal:    sub,
		})
		out.AmountUntaxed = out.AmountUntaxed.Add(sub)
		out.AmountTax = out.AmountTax.Add(sub.Mul(l.TaxRate).Div(decimal.NewFromInt(100)).Round(2))
	}
	out.AmountTotal = out.AmountUntaxed.Add(out.AmountTax)
	return out
}
