// Package memory implementa los repositorios en memoria. Se usa con STORAGE_DRIVER=memory
// (desarrollo, demos) y en las pruebas de casos de uso y handlers.
package memory

import (
	"context"
	"reflect"
	"sort"
	"sync"

	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
	"github.com/jhoicas/Cotizador-api/internal/domain/repository"
)

// data tablas del store. Los valores se guardan por copia para que los punteros
// devueltos no compartan estado con el store.
type data struct {
	seq       int64
	order     map[string]int64
	companies map[string]entity.Company
	modules   map[string]entity.CompanyModule
	users     map[string]entity.User
	customers map[string]entity.Customer
	rubros    map[string]entity.Rubro
	overrides map[string]entity.Rubro // empresa/código
	products  map[string]entity.Product
	packages  map[string]entity.ServicePackage
	quotes    map[string]entity.Quote
	sites     map[string]entity.Site
	lines     map[string]entity.QuoteLine
	acks      map[string]entity.RubroAck
	orders    map[string]entity.SaleOrder
}

func newData() *data {
	return &data{
		order:     make(map[string]int64),
		companies: make(map[string]entity.Company),
		modules:   make(map[string]entity.CompanyModule),
		users:     make(map[string]entity.User),
		customers: make(map[string]entity.Customer),
		rubros:    make(map[string]entity.Rubro),
		overrides: make(map[string]entity.Rubro),
		products:  make(map[string]entity.Product),
		packages:  make(map[string]entity.ServicePackage),
		quotes:    make(map[string]entity.Quote),
		sites:     make(map[string]entity.Site),
		lines:     make(map[string]entity.QuoteLine),
		acks:      make(map[string]entity.RubroAck),
		orders:    make(map[string]entity.SaleOrder),
	}
}

// clone copia superficial de todas las tablas (los valores ya son copias).
func (d *data) clone() *data {
	c := &data{seq: d.seq}
	c.order = cloneMap(d.order)
	c.companies = cloneMap(d.companies)
	c.modules = cloneMap(d.modules)
	c.users = cloneMap(d.users)
	c.customers = cloneMap(d.customers)
	c.rubros = cloneMap(d.rubros)
	c.overrides = cloneMap(d.overrides)
	c.products = cloneMap(d.products)
	c.packages = cloneMap(d.packages)
	c.quotes = cloneMap(d.quotes)
	c.sites = cloneMap(d.sites)
	c.lines = cloneMap(d.lines)
	c.acks = cloneMap(d.acks)
	c.orders = cloneMap(d.orders)
	return c
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Store almacenamiento en memoria protegido por un RWMutex.
// txMu serializa las transacciones; mu protege d.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex
	d    *data
}

// NewStore crea un store con el catálogo de rubros sembrado.
func NewStore() *Store {
	s := &Store{d: newData()}
	for i, code := range entity.RubroCodes {
		r := entity.Rubro{
			ID:          code,
			Code:        code,
			Name:        entity.RubroLabel(code),
			Sequence:    (i + 1) * 10,
			ApplyGarden: true,
			ApplyClean:  true,
			Active:      true,
		}
		switch code {
		case entity.RubroHerramientaMenor, entity.RubroMaquinariaJardineria,
			entity.RubroFertilizantes, entity.RubroConsumibles, entity.RubroEPPAlturas:
			r.ApplyClean = false
		case entity.RubroMaterialLimpieza, entity.RubroMaquinariaLimpieza, entity.RubroEquipoEspecial:
			r.ApplyGarden = false
		}
		s.d.rubros[code] = r
	}
	return s
}

// touch registra el orden de inserción de una entidad. Requiere s.mu tomado.
func (s *Store) touch(id string) {
	if _, ok := s.d.order[id]; ok {
		return
	}
	s.d.seq++
	s.d.order[id] = s.d.seq
}

// byInsertion ordena ids por orden de inserción. Requiere s.mu tomado.
func (s *Store) byInsertion(ids []string) {
	sort.Slice(ids, func(i, j int) bool { return s.d.order[ids[i]] < s.d.order[ids[j]] })
}

// page aplica limit/offset a una lista ya ordenada.
func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

// Repos accesos a los repositorios del store.
func (s *Store) Companies() repository.CompanyRepository { return companyRepo{s} }
func (s *Store) Users() repository.UserRepository { return userRepo{s} }
func (s *Store) Customers() repository.CustomerRepository { return customerRepo{s} }
func (s *Store) Rubros() repository.RubroRepository { return rubroRepo{s} }
func (s *Store) Products() repository.ProductRepository { return productRepo{s} }
func (s *Store) Packages() repository.ServicePackageRepository { return packageRepo{s} }
func (s *Store) Quotes() repository.QuoteRepository { return quoteRepo{s} }
func (s *Store) Sites() repository.SiteRepository { return siteRepo{s} }
func (s *Store) Lines() repository.QuoteLineRepository { return lineRepo{s} }
func (s *Store) Acks() repository.AckRepository { return ackRepo{s} }
func (s *Store) SaleOrders() repository.SaleOrderRepository { return orderRepo{s} }

// run ejecuta fn como transacción sobre una copia de trabajo. Si fn termina bien, solo las
// filas que cambió se aplican al store; si devuelve error la copia se descarta. Las escrituras
// hechas fuera de la transacción mientras tanto se conservan. Las transacciones se serializan entre sí.
func (s *Store) run(ctx context.Context, fn func(tx *Store) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	base := s.d.clone()
	s.mu.RUnlock()

	tx := &Store{d: base.clone()}
	if err := fn(tx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.d.merge(base, tx.d)
	return nil
}

// merge aplica sobre d las diferencias entre base y work.
func (d *data) merge(base, work *data) {
	// las altas de la transacción van después de todo lo ya registrado
	var added []string
	for id := range work.order {
		if _, ok := base.order[id]; !ok {
			added = append(added, id)
		}
	}
	sort.Slice(added, func(i, j int) bool { return work.order[added[i]] < work.order[added[j]] })
	for _, id := range added {
		if _, ok := d.order[id]; !ok {
			d.seq++
			d.order[id] = d.seq
		}
	}
	applyDiff(d.companies, base.companies, work.companies)
	applyDiff(d.modules, base.modules, work.modules)
	applyDiff(d.users, base.users, work.users)
	applyDiff(d.customers, base.customers, work.customers)
	applyDiff(d.rubros, base.rubros, work.rubros)
	applyDiff(d.overrides, base.overrides, work.overrides)
	applyDiff(d.products, base.products, work.products)
	applyDiff(d.packages, base.packages, work.packages)
	applyDiff(d.quotes, base.quotes, work.quotes)
	applyDiff(d.sites, base.sites, work.sites)
	applyDiff(d.lines, base.lines, work.lines)
	applyDiff(d.acks, base.acks, work.acks)
	applyDiff(d.orders, base.orders, work.orders)
}

func applyDiff[K comparable, V any](dst, base, work map[K]V) {
	for k, v := range work {
		if old, ok := base[k]; ok && reflect.DeepEqual(old, v) {
			continue
		}
		dst[k] = v
	}
	for k := range base {
		if _, ok := work[k]; !ok {
			delete(dst, k)
		}
	}
}

// RunQuote implementa quote.TxRunner.
func (s *Store) RunQuote(ctx context.Context, fn func(
	quoteRepo repository.QuoteRepository,
	siteRepo repository.SiteRepository,
	lineRepo repository.QuoteLineRepository,
	ackRepo repository.AckRepository,
) error) error {
	return s.run(ctx, func(tx *Store) error {
		return fn(tx.Quotes(), tx.Sites(), tx.Lines(), tx.Acks())
	})
}

// RunSales implementa sales.TxRunner.
func (s *Store) RunSales(ctx context.Context, fn func(
	orderRepo repository.SaleOrderRepository,
	productRepo repository.ProductRepository,
) error) error {
	return s.run(ctx, func(tx *Store) error {
		return fn(tx.SaleOrders(), tx.Products())
	})
}

// RunRegistration implementa usecase.TxRunner (alta de empresa con su administrador).
func (s *Store) RunRegistration(ctx context.Context, fn func(
	companyRepo repository.CompanyRepository,
	userRepo repository.UserRepository,
) error) error {
	return s.run(ctx, func(tx *Store) error {
		return fn(tx.Companies(), tx.Users())
	})
}
