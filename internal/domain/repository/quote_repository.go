package repository

import (
	"context"

	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
)

// QuoteRepository persistencia de la cabecera de cotización.
type QuoteRepository interface {
	Create(ctx context.Context, quote *entity.Quote) error
	GetByID(ctx context.Context, id string) (*entity.Quote, error)
	GetByCustomerAndName(ctx context.Context, customerID, name string) (*entity.Quote, error)
	ListByCompany(ctx context.Context, companyID, customerID string, limit, offset int) ([]*entity.Quote, error)
	Update(ctx context.Context, quote *entity.Quote) error
}

// SiteRepository persistencia de sitios de una cotización.
type SiteRepository interface {
	Create(ctx context.Context, site *entity.Site) error
	GetByID(ctx context.Context, id string) (*entity.Site, error)
	ListByQuote(ctx context.Context, quoteID string) ([]*entity.Site, error)
	Update(ctx context.Context, site *entity.Site) error
	Delete(ctx context.Context, id string) error
}

// QuoteLineRepository persistencia de partidas. ListByQuote devuelve en orden de captura.
type QuoteLineRepository interface {
	Create(ctx context.Context, line *entity.QuoteLine) error
	GetByID(ctx context.Context, id string) (*entity.QuoteLine, error)
	ListByQuote(ctx context.Context, quoteID string) ([]*entity.QuoteLine, error)
	Update(ctx context.Context, line *entity.QuoteLine) error
	Delete(ctx context.Context, id string) error
	MoveToSite(ctx context.Context, quoteID, fromSiteID, toSiteID string) (int, error)
}

// AckRepository persistencia de marcas "Sin contenido".
type AckRepository interface {
	Create(ctx context.Context, ack *entity.RubroAck) error
	Delete(ctx context.Context, quoteID, siteID, serviceType, rubroCode string) (bool, error)
	ListByQuote(ctx context.Context, quoteID string) ([]*entity.RubroAck, error)
	DeleteBySite(ctx context.Context, siteID string) error
}
