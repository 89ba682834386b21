package memory

import (
	"context"

	"github.com/jhoicas/Cotizador-api/internal/domain"
	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
	"github.com/jhoicas/Cotizador-api/internal/domain/repository"
)

var (
	_ repository.QuoteRepository     = quoteRepo{}
	_ repository.SiteRepository      = siteRepo{}
	_ repository.QuoteLineRepository = lineRepo{}
	_ repository.AckRepository       = ackRepo{}
)

type quoteRepo struct{ s *Store }

func (r quoteRepo) Create(_ context.Context, q *entity.Quote) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.d.quotes {
		if existing.CustomerID == q.CustomerID && existing.Name == q.Name {
			return domain.ErrDuplicate
		}
	}
	r.s.d.quotes[q.ID] = *q
	r.s.touch(q.ID)
	return nil
}

func (r quoteRepo) GetByID(_ context.Context, id string) (*entity.Quote, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	q, ok := r.s.d.quotes[id]
	if !ok {
		return nil, nil
	}
	return &q, nil
}

func (r quoteRepo) GetByCustomerAndName(_ context.Context, customerID, name string) (*entity.Quote, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, q := range r.s.d.quotes {
		if q.CustomerID == customerID && q.Name == name {
			return &q, nil
		}
	}
	return nil, nil
}

// ListByCompany devuelve las más recientes primero.
func (r quoteRepo) ListByCompany(_ context.Context, companyID, customerID string, limit, offset int) ([]*entity.Quote, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var ids []string
	for id, q := range r.s.d.quotes {
		if q.CompanyID != companyID || (customerID != "" && q.CustomerID != customerID) {
			continue
		}
		ids = append(ids, id)
	}
	r.s.byInsertion(ids)
	for i, j := 0, len(ids)-1; i < j; i, j = i+1, j-1 {
		ids[i], ids[j] = ids[j], ids[i]
	}
	out := make([]*entity.Quote, 0, len(ids))
	for _, id := range page(ids, limit, offset) {
		q := r.s.d.quotes[id]
		out = append(out, &q)
	}
	return out, nil
}

func (r quoteRepo) Update(_ context.Context, q *entity.Quote) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.d.quotes[q.ID]; !ok {
		return domain.ErrNotFound
	}
	for id, existing := range r.s.d.quotes {
		if id != q.ID && existing.CustomerID == q.CustomerID && existing.Name == q.Name {
			return domain.ErrDuplicate
		}
	}
	r.s.d.quotes[q.ID] = *q
	return nil
}

type siteRepo struct{ s *Store }

func (r siteRepo) Create(_ context.Context, site *entity.Site) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.d.sites[site.ID] = *site
	r.s.touch(site.ID)
	return nil
}

func (r siteRepo) GetByID(_ context.Context, id string) (*entity.Site, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	site, ok := r.s.d.sites[id]
	if !ok {
		return nil, nil
	}
	return &site, nil
}

func (r siteRepo) ListByQuote(_ context.Context, quoteID string) ([]*entity.Site, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var ids []string
	for id, site := range r.s.d.sites {
		if site.QuoteID == quoteID {
			ids = append(ids, id)
		}
	}
	r.s.byInsertion(ids)
	out := make([]*entity.Site, 0, len(ids))
	for _, id := range ids {
		site := r.s.d.sites[id]
		out = append(out, &site)
	}
	return out, nil
}

func (r siteRepo) Update(_ context.Context, site *entity.Site) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.d.sites[site.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.d.sites[site.ID] = *site
	return nil
}

func (r siteRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.d.sites, id)
	delete(r.s.d.order, id)
	return nil
}

type lineRepo struct{ s *Store }

func (r lineRepo) Create(_ context.Context, l *entity.QuoteLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.d.lines[l.ID] = *l
	r.s.touch(l.ID)
	return nil
}

func (r lineRepo) GetByID(_ context.Context, id string) (*entity.QuoteLine, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	l, ok := r.s.d.lines[id]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (r lineRepo) ListByQuote(_ context.Context, quoteID string) ([]*entity.QuoteLine, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var ids []string
	for id, l := range r.s.d.lines {
		if l.QuoteID == quoteID {
			ids = append(ids, id)
		}
	}
	r.s.byInsertion(ids)
	out := make([]*entity.QuoteLine, 0, len(ids))
	for _, id := range ids {
		l := r.s.d.lines[id]
		out = append(out, &l)
	}
	return out, nil
}

func (r lineRepo) Update(_ context.Context, l *entity.QuoteLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.d.lines[l.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.d.lines[l.ID] = *l
	return nil
}

func (r lineRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.d.lines, id)
	delete(r.s.d.order, id)
	return nil
}

func (r lineRepo) MoveToSite(_ context.Context, quoteID, fromSiteID, toSiteID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	moved := 0
	for id, l := range r.s.d.lines {
		if l.QuoteID != quoteID || !l.InSite(fromSiteID) {
			continue
		}
		to := toSiteID
		l.SiteID = &to
		r.s.d.lines[id] = l
		moved++
	}
	return moved, nil
}

type ackRepo struct{ s *Store }

func (r ackRepo) Create(_ context.Context, a *entity.RubroAck) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.d.acks {
		if sameAck(existing, a.QuoteID, a.SiteID, a.ServiceType, a.RubroCode) {
			return domain.ErrDuplicate
		}
	}
	r.s.d.acks[a.ID] = *a
	r.s.touch(a.ID)
	return nil
}

func (r ackRepo) Delete(_ context.Context, quoteID, siteID, serviceType, rubroCode string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, a := range r.s.d.acks {
		if sameAck(a, quoteID, siteID, serviceType, rubroCode) {
			delete(r.s.d.acks, id)
			delete(r.s.d.order, id)
			return true, nil
		}
	}
	return false, nil
}

func (r ackRepo) ListByQuote(_ context.Context, quoteID string) ([]*entity.RubroAck, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var ids []string
	for id, a := range r.s.d.acks {
		if a.QuoteID == quoteID {
			ids = append(ids, id)
		}
	}
	r.s.byInsertion(ids)
	out := make([]*entity.RubroAck, 0, len(ids))
	for _, id := range ids {
		a := r.s.d.acks[id]
		out = append(out, &a)
	}
	return out, nil
}

func (r ackRepo) DeleteBySite(_ context.Context, siteID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, a := range r.s.d.acks {
		if a.SiteID == siteID {
			delete(r.s.d.acks, id)
			delete(r.s.d.order, id)
		}
	}
	return nil
}

func sameAck(a entity.RubroAck, quoteID, siteID, serviceType, rubroCode string) bool {
	return a.QuoteID == quoteID && a.SiteID == siteID && a.ServiceType == serviceType && a.RubroCode == rubroCode
}
