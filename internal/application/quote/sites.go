package quote

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/Cotizador-api/internal/application/dto"
	"github.com/jhoicas/Cotizador-api/internal/domain"
	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
	"github.com/jhoicas/Cotizador-api/internal/domain/repository"
)

// CreateSite agrega un sitio a la cotización. Sin secuencia se coloca al final.
func (uc *QuoteUseCase) CreateSite(ctx context.Context, companyID, quoteID string, in dto.SiteRequest) (*dto.SiteResponse, error) {
	q, err := loadEditable(ctx, uc.quotes, companyID, quoteID)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name es requerido", domain.ErrInvalidInput)
	}
	if name == entity.GeneralSiteName {
		return nil, fmt.Errorf("%w: el sitio General ya existe", domain.ErrDuplicate)
	}
	sites, err := uc.sites.ListByQuote(ctx, q.ID)
	if err != nil {
		return nil, err
	}
	seq := 10
	for _, s := range sites {
		if s.Sequence >= seq {
			seq = s.Sequence + 10
		}
	}
	if in.Sequence != nil {
		seq = *in.Sequence
	}
	site := &entity.Site{
		ID:        uuid.New().String(),
		QuoteID:   q.ID,
		Name:      name,
		Sequence:  seq,
		Active:    in.Active == nil || *in.Active,
		CreatedAt: time.Now(),
	}
	if err := uc.sites.Create(ctx, site); err != nil {
		return nil, err
	}
	return toSiteResponse(site), nil
}

// ListSites sitios de la cotización ordenados por (secuencia, nombre).
func (uc *QuoteUseCase) ListSites(ctx context.Context, companyID, quoteID string) ([]dto.SiteResponse, error) {
	q, err := loadQuote(ctx, uc.quotes, companyID, quoteID)
	if err != nil {
		return nil, err
	}
	sites, err := uc.sites.ListByQuote(ctx, q.ID)
	if err != nil {
		return nil, err
	}
	sortSites(sites)
	out := make([]dto.SiteResponse, 0, len(sites))
	for _, s := range sites {
		out = append(out, *toSiteResponse(s))
	}
	return out, nil
}

// UpdateSite renombra, reordena o activa/desactiva un sitio. General no se renombra.
func (uc *QuoteUseCase) UpdateSite(ctx context.Context, companyID, quoteID, siteID string, in dto.SiteRequest) (*dto.SiteResponse, error) {
	q, err := loadEditable(ctx, uc.quotes, companyID, quoteID)
	if err != nil {
		return nil, err
	}
	site, err := uc.siteOf(ctx, q, siteID)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(in.Name); name != "" && name != site.Name {
		if site.IsGeneral() || name == entity.GeneralSiteName {
			return nil, fmt.Errorf("%w: el sitio General no se puede renombrar", domain.ErrInvalidInput)
		}
		site.Name = name
	}
	if in.Sequence != nil && !site.IsGeneral() {
		site.Sequence = *in.Sequence
	}
	if in.Active != nil {
		site.Active = *in.Active
	}
	if err := uc.sites.Update(ctx, site); err != nil {
		return nil, err
	}
	return toSiteResponse(site), nil
}

// DeleteSite elimina un sitio; sus líneas pasan al sitio General y sus marcas se descartan.
func (uc *QuoteUseCase) DeleteSite(ctx context.Context, companyID, quoteID, siteID string) error {
	q, err := loadEditable(ctx, uc.quotes, companyID, quoteID)
	if err != nil {
		return err
	}
	site, err := uc.siteOf(ctx, q, siteID)
	if err != nil {
		return err
	}
	if site.IsGeneral() {
		return fmt.Errorf("%w: el sitio General no se puede eliminar", domain.ErrInvalidInput)
	}
	return uc.tx.RunQuote(ctx, func(quotes repository.QuoteRepository, sites repository.SiteRepository, lines repository.QuoteLineRepository, acks repository.AckRepository) error {
		general, err := generalSite(ctx, sites, q.ID)
		if err != nil {
			return err
		}
		moved, err := lines.MoveToSite(ctx, q.ID, site.ID, general.ID)
		if err != nil {
			return err
		}
		if err := acks.DeleteBySite(ctx, site.ID); err != nil {
			return err
		}
		if err := sites.Delete(ctx, site.ID); err != nil {
			return err
		}
		if q.CurrentSiteID != nil && *q.CurrentSiteID == site.ID {
			q.CurrentSiteID = &general.ID
			q.UpdatedAt = time.Now()
			if err := quotes.Update(ctx, q); err != nil {
				return err
			}
		}
		log.Info().Str("quote_id", q.ID).Str("site_id", site.ID).Int("moved_lines", moved).Msg("sitio eliminado")
		return nil
	})
}

// EnsureGeneralSite deja un único sitio "General" por cotización: conserva el de menor
// secuencia, mueve las líneas de los duplicados y lo crea si no existe.
func (uc *QuoteUseCase) EnsureGeneralSite(ctx context.Context, companyID, quoteID string) (*dto.SiteResponse, error) {
	q, err := loadEditable(ctx, uc.quotes, companyID, quoteID)
	if err != nil {
		return nil, err
	}
	var canonical *entity.Site
	err = uc.tx.RunQuote(ctx, func(quotes repository.QuoteRepository, sites repository.SiteRepository, lines repository.QuoteLineRepository, acks repository.AckRepository) error {
		all, err := sites.ListByQuote(ctx, q.ID)
		if err != nil {
			return err
		}
		var generals []*entity.Site
		for _, s := range all {
			if s.IsGeneral() {
				generals = append(generals, s)
			}
		}
		if len(generals) == 0 {
			canonical = &entity.Site{
				ID:        uuid.New().String(),
				QuoteID:   q.ID,
				Name:      entity.GeneralSiteName,
				Sequence:  entity.GeneralSiteSequence,
				Active:    true,
				CreatedAt: time.Now(),
			}
			return sites.Create(ctx, canonical)
		}
		sortSites(generals)
		canonical = generals[0]
		for _, dup := range generals[1:] {
			if _, err := lines.MoveToSite(ctx, q.ID, dup.ID, canonical.ID); err != nil {
				return err
			}
			if err := acks.DeleteBySite(ctx, dup.ID); err != nil {
				return err
			}
			if err := sites.Delete(ctx, dup.ID); err != nil {
				return err
			}
			if q.CurrentSiteID != nil && *q.CurrentSiteID == dup.ID {
				q.CurrentSiteID = &canonical.ID
				if err := quotes.Update(ctx, q); err != nil {
					return err
				}
			}
		}
		if len(generals) > 1 {
			log.Warn().Str("quote_id", q.ID).Int("duplicates", len(generals)-1).Msg("sitios General duplicados consolidados")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toSiteResponse(canonical), nil
}

// generalSite devuelve el sitio General canónico de la cotización.
func generalSite(ctx context.Context, sites repository.SiteRepository, quoteID string) (*entity.Site, error) {
	all, err := sites.ListByQuote(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	sortSites(all)
	for _, s := range all {
		if s.IsGeneral() {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: sitio General", domain.ErrNotFound)
}

// siteOrGeneral resuelve un sitio de la cotización; vacío significa el sitio General.
func (uc *QuoteUseCase) siteOrGeneral(ctx context.Context, q *entity.Quote, siteID string) (*entity.Site, error) {
	if siteID != "" {
		return uc.siteOf(ctx, q, siteID)
	}
	return generalSite(ctx, uc.sites, q.ID)
}

func sortSites(sites []*entity.Site) {
	sort.SliceStable(sites, func(i, j int) bool {
		if sites[i].Sequence != sites[j].Sequence {
			return sites[i].Sequence < sites[j].Sequence
		}
		return sites[i].Name < sites[j].Name
	})
}

func toSiteResponse(s *entity.Site) *dto.SiteResponse {
	return &dto.SiteResponse{
		ID:       s.ID,
		QuoteID:  s.QuoteID,
		Name:     s.Name,
		Sequence: s.Sequence,
		Active:   s.Active,
	}
}
