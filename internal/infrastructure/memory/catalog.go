package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/Cotizador-api/internal/domain"
	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
	"github.com/jhoicas/Cotizador-api/internal/domain/repository"
)

var (
	_ repository.CustomerRepository       = customerRepo{}
	_ repository.RubroRepository          = rubroRepo{}
	_ repository.ProductRepository        = productRepo{}
	_ repository.ServicePackageRepository = packageRepo{}
)

type customerRepo struct{ s *Store }

func (r customerRepo) Create(_ context.Context, c *entity.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c.TaxID != "" {
		for _, existing := range r.s.d.customers {
			if existing.CompanyID == c.CompanyID && existing.TaxID == c.TaxID {
				return domain.ErrDuplicate
			}
		}
	}
	r.s.d.customers[c.ID] = *c
	r.s.touch(c.ID)
	return nil
}

func (r customerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.d.customers[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r customerRepo) GetByCompanyAndTaxID(_ context.Context, companyID, taxID string) (*entity.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, c := range r.s.d.customers {
		if c.CompanyID == companyID && c.TaxID == taxID {
			return &c, nil
		}
	}
	return nil, nil
}

func (r customerRepo) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var ids []string
	for id, c := range r.s.d.customers {
		if c.CompanyID == companyID {
			ids = append(ids, id)
		}
	}
	r.s.byInsertion(ids)
	out := make([]*entity.Customer, 0, len(ids))
	for _, id := range page(ids, limit, offset) {
		c := r.s.d.customers[id]
		out = append(out, &c)
	}
	return out, nil
}

func (r customerRepo) Update(_ context.Context, c *entity.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.d.customers[c.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.d.customers[c.ID] = *c
	return nil
}

type rubroRepo struct{ s *Store }

func overrideKey(companyID, code string) string { return companyID + "/" + code }

// rubro aplica el ajuste de la empresa, si lo hay. Requiere s.mu tomado.
func (r rubroRepo) rubro(companyID string, base entity.Rubro) entity.Rubro {
	if o, ok := r.s.d.overrides[overrideKey(companyID, base.Code)]; ok && companyID != "" {
		return o
	}
	return base
}

func (r rubroRepo) List(_ context.Context, companyID string) ([]*entity.Rubro, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Rubro, 0, len(r.s.d.rubros))
	for _, base := range r.s.d.rubros {
		rb := r.rubro(companyID, base)
		out = append(out, &rb)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Sequence != out[j].Sequence {
			return out[i].Sequence < out[j].Sequence
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r rubroRepo) GetByCode(_ context.Context, companyID, code string) (*entity.Rubro, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	base, ok := r.s.d.rubros[code]
	if !ok {
		return nil, nil
	}
	rb := r.rubro(companyID, base)
	return &rb, nil
}

func (r rubroRepo) Update(_ context.Context, companyID string, rb *entity.Rubro) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if companyID == "" {
		return fmt.Errorf("%w: empresa requerida", domain.ErrInvalidInput)
	}
	base, ok := r.s.d.rubros[rb.Code]
	if !ok {
		return domain.ErrNotFound
	}
	o := *rb
	o.ID = base.ID
	r.s.d.overrides[overrideKey(companyID, rb.Code)] = o
	return nil
}

type productRepo struct{ s *Store }

func copyProduct(p entity.Product) *entity.Product {
	p.RubroCodes = append([]string(nil), p.RubroCodes...)
	return &p
}

func (r productRepo) Create(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p.DefaultCode != "" {
		for _, existing := range r.s.d.products {
			if existing.CompanyID == p.CompanyID && existing.DefaultCode == p.DefaultCode {
				return domain.ErrDuplicate
			}
		}
	}
	r.s.d.products[p.ID] = *copyProduct(*p)
	r.s.touch(p.ID)
	return nil
}

func (r productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.d.products[id]
	if !ok {
		return nil, nil
	}
	return copyProduct(p), nil
}

func (r productRepo) GetByName(_ context.Context, companyID, name string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var ids []string
	for id, p := range r.s.d.products {
		if p.CompanyID == companyID && p.Name == name {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}
	r.s.byInsertion(ids)
	return copyProduct(r.s.d.products[ids[0]]), nil
}

// ListByCompany ordena por nombre, como el catálogo en PostgreSQL.
func (r productRepo) ListByCompany(_ context.Context, companyID string, f repository.ProductFilter) ([]*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.Product
	for _, p := range r.s.d.products {
		if p.CompanyID != companyID {
			continue
		}
		if f.QuotableOnly && (!p.Active || p.ExcludeFromQuote) {
			continue
		}
		if f.RubroCode != "" && !p.AllowsRubro(f.RubroCode) {
			continue
		}
		out = append(out, copyProduct(p))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return page(out, f.Limit, f.Offset), nil
}

func (r productRepo) Update(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.d.products[p.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.d.products[p.ID] = *copyProduct(*p)
	return nil
}

type packageRepo struct{ s *Store }

func copyPackage(p entity.ServicePackage) *entity.ServicePackage {
	p.Lines = append([]entity.ServicePackageLine(nil), p.Lines...)
	return &p
}

func (r packageRepo) Create(_ context.Context, p *entity.ServicePackage) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.d.packages[p.ID] = *copyPackage(*p)
	r.s.touch(p.ID)
	return nil
}

func (r packageRepo) GetByID(_ context.Context, id string) (*entity.ServicePackage, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.d.packages[id]
	if !ok {
		return nil, nil
	}
	return copyPackage(p), nil
}

func (r packageRepo) ListByCompany(_ context.Context, companyID string) ([]*entity.ServicePackage, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var ids []string
	for id, p := range r.s.d.packages {
		if p.CompanyID == companyID {
			ids = append(ids, id)
		}
	}
	r.s.byInsertion(ids)
	out := make([]*entity.ServicePackage, 0, len(ids))
	for _, id := range ids {
		out = append(out, copyPackage(r.s.d.packages[id]))
	}
	return out, nil
}
