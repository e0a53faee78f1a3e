package inventory_test

import (
	"context"
	"sync"

	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria para los puertos del motor de inventario.
// El fake de producto aplica las operaciones condicionales bajo mutex, igual que
// la sentencia UPDATE condicional lo hace atómicamente en PostgreSQL.
// ──────────────────────────────────────────────────────────────────────────────

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[string]*entity.Product

	// deleteOnIncrement simula un borrado concurrente: el producto desaparece
	// justo antes de la mutación del contador (cero filas afectadas).
	deleteOnIncrement bool
}

func newFakeProductRepo(products ...*entity.Product) *fakeProductRepo {
	m := make(map[string]*entity.Product, len(products))
	for _, p := range products {
		cp := *p
		m[p.ID] = &cp
	}
	return &fakeProductRepo{products: m}
}

func (r *fakeProductRepo) Create(p *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []*entity.Product
	for _, p := range r.products {
		cp := *p
		list = append(list, &cp)
	}
	return list, nil
}

func (r *fakeProductRepo) Count() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.products), nil
}

func (r *fakeProductRepo) Update(p *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) IncrementStock(id string, amount int) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleteOnIncrement {
		delete(r.products, id)
	}
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	p.Stock += amount
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) ConditionalDecrementStock(id string, amount int) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok || p.Stock < amount {
		return nil, nil
	}
	p.Stock -= amount
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) AdjustStock(id string, delta int) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok || p.Stock+delta < 0 {
		return nil, nil
	}
	p.Stock += delta
	cp := *p
	return &cp, nil
}

// fakeMovementRepo ledger en memoria. Las lecturas arman el snapshot del
// producto desde el repo de productos, como el JOIN del adaptador real.
type fakeMovementRepo struct {
	mu            sync.Mutex
	movements     []entity.Movement
	products      *fakeProductRepo
	listByProduct int // llamadas a ListByProduct, para verificar orden de chequeos
}

func newFakeMovementRepo(products *fakeProductRepo) *fakeMovementRepo {
	return &fakeMovementRepo{products: products}
}

func (r *fakeMovementRepo) Create(m *entity.Movement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.movements = append(r.movements, *m)
	return nil
}

func (r *fakeMovementRepo) ListAll(limit, offset int) ([]*entity.MovementWithProduct, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	// Más recientes primero: los fakes insertan en orden cronológico.
	var list []*entity.MovementWithProduct
	for i := len(r.movements) - 1; i >= 0; i-- {
		if offset > 0 {
			offset--
			continue
		}
		if len(list) == limit {
			break
		}
		list = append(list, r.withProduct(r.movements[i]))
	}
	return list, nil
}

func (r *fakeMovementRepo) CountAll() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.movements), nil
}

func (r *fakeMovementRepo) ListByProduct(productID string) ([]*entity.MovementWithProduct, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listByProduct++
	var list []*entity.MovementWithProduct
	for i := len(r.movements) - 1; i >= 0; i-- {
		if r.movements[i].ProductID == productID {
			list = append(list, r.withProduct(r.movements[i]))
		}
	}
	return list, nil
}

func (r *fakeMovementRepo) CountByProduct(productID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, m := range r.movements {
		if m.ProductID == productID {
			n++
		}
	}
	return n, nil
}

func (r *fakeMovementRepo) withProduct(m entity.Movement) *entity.MovementWithProduct {
	mp := &entity.MovementWithProduct{Movement: m}
	if p, _ := r.products.GetByID(m.ProductID); p != nil {
		mp.Product = *p
	}
	return mp
}

func (r *fakeMovementRepo) all() []entity.Movement {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.Movement, len(r.movements))
	copy(out, r.movements)
	return out
}

// fakeTxRunner emula la transacción: los Create de movimientos se escriben en un
// staging y solo se publican si el callback termina sin error (commit). Un error
// descarta el staging (rollback), igual que la tx real.
type fakeTxRunner struct {
	movements *fakeMovementRepo
	products  *fakeProductRepo
}

func (r *fakeTxRunner) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	staged := newFakeMovementRepo(r.products)
	if err := fn(staged, r.products); err != nil {
		return err
	}
	for _, m := range staged.all() {
		mov := m
		_ = r.movements.Create(&mov)
	}
	return nil
}
