package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/Cotizador-api/internal/domain"
	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
	"github.com/jhoicas/Cotizador-api/internal/domain/repository"
)

var _ repository.SaleOrderRepository = orderRepo{}

type orderRepo struct{ s *Store }

func copyOrder(o entity.SaleOrder) *entity.SaleOrder {
	o.Lines = append([]entity.SaleOrderLine(nil), o.Lines...)
	sort.SliceStable(o.Lines, func(i, j int) bool { return o.Lines[i].Sequence < o.Lines[j].Sequence })
	return &o
}

func (r orderRepo) Create(_ context.Context, o *entity.SaleOrder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.d.orders[o.ID] = *copyOrder(*o)
	r.s.touch(o.ID)
	return nil
}

func (r orderRepo) GetByID(_ context.Context, id string) (*entity.SaleOrder, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	o, ok := r.s.d.orders[id]
	if !ok {
		return nil, nil
	}
	return copyOrder(o), nil
}

// ListByCompany devuelve las más recientes primero, sin líneas.
func (r orderRepo) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.SaleOrder, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var ids []string
	for id, o := range r.s.d.orders {
		if o.CompanyID == companyID {
			ids = append(ids, id)
		}
	}
	r.s.byInsertion(ids)
	for i, j := 0, len(ids)-1; i < j; i, j = i+1, j-1 {
		ids[i], ids[j] = ids[j], ids[i]
	}
	out := make([]*entity.SaleOrder, 0, len(ids))
	for _, id := range page(ids, limit, offset) {
		o := r.s.d.orders[id]
		o.Lines = nil
		out = append(out, &o)
	}
	return out, nil
}

// Update actualiza la cabecera; las líneas solo cambian con AddLines.
func (r orderRepo) Update(_ context.Context, o *entity.SaleOrder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.d.orders[o.ID]
	if !ok {
		return domain.ErrNotFound
	}
	updated := *o
	updated.Lines = existing.Lines
	r.s.d.orders[o.ID] = updated
	return nil
}

func (r orderRepo) AddLines(_ context.Context, orderID string, lines []entity.SaleOrderLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.d.orders[orderID]
	if !ok {
		return domain.ErrNotFound
	}
	merged := make([]entity.SaleOrderLine, 0, len(o.Lines)+len(lines))
	merged = append(merged, o.Lines...)
	for _, l := range lines {
		l.OrderID = orderID
		merged = append(merged, l)
	}
	o.Lines = merged
	r.s.d.orders[orderID] = o
	return nil
}
