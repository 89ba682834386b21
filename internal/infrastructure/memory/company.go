package memory

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/Cotizador-api/internal/domain"
	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
	"github.com/jhoicas/Cotizador-api/internal/domain/repository"
)

var (
	_ repository.CompanyRepository = companyRepo{}
	_ repository.UserRepository    = userRepo{}
)

type companyRepo struct{ s *Store }

func (r companyRepo) Create(_ context.Context, c *entity.Company) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.d.companies {
		if existing.TaxID == c.TaxID {
			return domain.ErrDuplicate
		}
	}
	r.s.d.companies[c.ID] = *c
	r.s.touch(c.ID)
	return nil
}

func (r companyRepo) GetByID(_ context.Context, id string) (*entity.Company, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.d.companies[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r companyRepo) GetByTaxID(_ context.Context, taxID string) (*entity.Company, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, c := range r.s.d.companies {
		if c.TaxID == taxID {
			return &c, nil
		}
	}
	return nil, nil
}

func (r companyRepo) List(_ context.Context, limit, offset int) ([]*entity.Company, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	ids := make([]string, 0, len(r.s.d.companies))
	for id := range r.s.d.companies {
		ids = append(ids, id)
	}
	r.s.byInsertion(ids)
	out := make([]*entity.Company, 0, len(ids))
	for _, id := range page(ids, limit, offset) {
		c := r.s.d.companies[id]
		out = append(out, &c)
	}
	return out, nil
}

// ActivateModule hace upsert por (empresa, módulo).
func (r companyRepo) ActivateModule(_ context.Context, m *entity.CompanyModule) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := m.CompanyID + "/" + m.ModuleName
	if existing, ok := r.s.d.modules[key]; ok {
		m.ID = existing.ID
		m.CreatedAt = existing.CreatedAt
	}
	r.s.d.modules[key] = *m
	return nil
}

func (r companyRepo) HasActiveModule(_ context.Context, companyID, moduleName string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	m, ok := r.s.d.modules[companyID+"/"+moduleName]
	if !ok || !m.IsActive {
		return false, nil
	}
	return m.ExpiresAt == nil || m.ExpiresAt.After(time.Now()), nil
}

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.d.users {
		if existing.CompanyID == u.CompanyID && strings.EqualFold(existing.Email, u.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	r.s.d.users[u.ID] = *u
	r.s.touch(u.ID)
	return nil
}

func (r userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.d.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return strings.EqualFold(u.Email, email) })
}

func (r userRepo) GetByEmailAndCompany(_ context.Context, email, companyID string) (*entity.User, error) {
	return r.find(func(u entity.User) bool {
		return u.CompanyID == companyID && strings.EqualFold(u.Email, email)
	})
}

func (r userRepo) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var ids []string
	for id, u := range r.s.d.users {
		if u.CompanyID == companyID {
			ids = append(ids, id)
		}
	}
	r.s.byInsertion(ids)
	out := make([]*entity.User, 0, len(ids))
	for _, id := range page(ids, limit, offset) {
		u := r.s.d.users[id]
		out = append(out, &u)
	}
	return out, nil
}

// find devuelve el primer usuario (por orden de alta) que cumple match.
func (r userRepo) find(match func(entity.User) bool) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var ids []string
	for id, u := range r.s.d.users {
		if match(u) {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}
	r.s.byInsertion(ids)
	u := r.s.d.users[ids[0]]
	return &u, nil
}
