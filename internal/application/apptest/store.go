// Package apptest provee dobles en memoria de los puertos de persistencia
// para los tests de los casos de uso. El TxRunner de este paquete simula
// atomicidad real: toma una foto del estado antes del callback y la restaura
// si el callback falla, igual que un Rollback.
package apptest

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/puntoventa/kardex-api/internal/application/inventory"
	"github.com/puntoventa/kardex-api/internal/domain/entity"
	"github.com/puntoventa/kardex-api/internal/domain/repository"
	"github.com/puntoventa/kardex-api/pkg/normalize"
)

// Store base de datos en memoria compartida por todos los repos fake.
type Store struct {
	mu        sync.Mutex
	products  map[int64]*entity.Product
	movements map[int64]*entity.Movement
	sales     map[int64]*entity.Sale
	lines     []*entity.SaleLine
	users     map[int64]*entity.User
	nextID    int64

	// FailSaleLine fuerza un error al insertar la línea N (1-based) de una
	// venta, para probar el rollback de la transacción completa.
	FailSaleLine int
}

// ErrLineInjected error inyectado por FailSaleLine.
var ErrLineInjected = errors.New("fallo inyectado al insertar línea de venta")

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		products:  make(map[int64]*entity.Product),
		movements: make(map[int64]*entity.Movement),
		sales:     make(map[int64]*entity.Sale),
		users:     make(map[int64]*entity.User),
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

// SeedProduct inserta un producto y devuelve su ID.
func (s *Store) SeedProduct(p entity.Product) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == 0 {
		p.ID = s.id()
	}
	s.products[p.ID] = &p
	return p.ID
}

// SeedUser inserta un usuario y devuelve su ID.
func (s *Store) SeedUser(u entity.User) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == 0 {
		u.ID = s.id()
	}
	s.users[u.ID] = &u
	return u.ID
}

// Product devuelve una copia del producto o nil.
func (s *Store) Product(id int64) *entity.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return nil
	}
	cp := *p
	return &cp
}

// Movement devuelve una copia del movimiento o nil.
func (s *Store) Movement(id int64) *entity.Movement {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.movements[id]
	if !ok {
		return nil
	}
	cp := *m
	return &cp
}

// Movements devuelve copias de todos los movimientos, ordenados por ID.
func (s *Store) Movements() []*entity.Movement {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*entity.Movement, 0, len(s.movements))
	for _, m := range s.movements {
		cp := *m
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Sale devuelve una copia de la venta o nil.
func (s *Store) Sale(id int64) *entity.Sale {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.sales[id]
	if !ok {
		return nil
	}
	cp := *v
	return &cp
}

// SaleCount devuelve cuántas ventas hay registradas.
func (s *Store) SaleCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sales)
}

// SaleLines devuelve copias de las líneas de una venta.
func (s *Store) SaleLines(saleID int64) []*entity.SaleLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.SaleLine
	for _, l := range s.lines {
		if l.SaleID == saleID {
			cp := *l
			out = append(out, &cp)
		}
	}
	return out
}

// snapshot copia el estado completo para poder restaurarlo en un rollback.
func (s *Store) snapshot() *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := NewStore()
	snap.nextID = s.nextID
	for id, p := range s.products {
		cp := *p
		snap.products[id] = &cp
	}
	for id, m := range s.movements {
		cp := *m
		snap.movements[id] = &cp
	}
	for id, v := range s.sales {
		cp := *v
		snap.sales[id] = &cp
	}
	for _, l := range s.lines {
		cp := *l
		snap.lines = append(snap.lines, &cp)
	}
	for id, u := range s.users {
		cp := *u
		snap.users[id] = &cp
	}
	return snap
}

// restore vuelca el estado de snap sobre s.
func (s *Store) restore(snap *Store) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID = snap.nextID
	s.products = snap.products
	s.movements = snap.movements
	s.sales = snap.sales
	s.lines = snap.lines
	s.users = snap.users
}

// Repos devuelve los repos fake atados al store (fuera de transacción).
func (s *Store) Repos() inventory.TxRepos {
	return inventory.TxRepos{
		Products:  &productRepo{s: s},
		Movements: &movementRepo{s: s},
		Sales:     &saleRepo{s: s},
	}
}

// ProductRepo devuelve el repo fake de productos.
func (s *Store) ProductRepo() repository.ProductRepository { return &productRepo{s: s} }

// MovementRepo devuelve el repo fake de movimientos.
func (s *Store) MovementRepo() repository.MovementRepository { return &movementRepo{s: s} }

// SaleRepo devuelve el repo fake de ventas.
func (s *Store) SaleRepo() repository.SaleRepository { return &saleRepo{s: s} }

// ──────────────────────────────────────────────────────────────────────────────
// TxRunner fake con rollback por snapshot
// ──────────────────────────────────────────────────────────────────────────────

// TxRunner implementa inventory.TxRunner sobre el store en memoria.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner fake.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

var _ inventory.TxRunner = (*TxRunner)(nil)

// Run ejecuta fn contra el store; si fn falla, restaura la foto previa.
func (r *TxRunner) Run(ctx context.Context, fn func(repos inventory.TxRepos) error) error {
	snap := r.store.snapshot()
	if err := fn(r.store.Repos()); err != nil {
		r.store.restore(snap)
		return err
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Repos fake
// ──────────────────────────────────────────────────────────────────────────────

type productRepo struct{ s *Store }

func (r *productRepo) Create(product *entity.Product) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *product
	cp.ID = r.s.id()
	r.s.products[cp.ID] = &cp
	return cp.ID, nil
}

func (r *productRepo) GetByID(id int64) (*entity.Product, error) {
	return r.s.Product(id), nil
}

// GetForUpdate en memoria no bloquea nada; devuelve la fila como GetByID.
func (r *productRepo) GetForUpdate(id int64) (*entity.Product, error) {
	return r.s.Product(id), nil
}

func (r *productRepo) ExistsByName(name string, excludeID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	folded := normalize.Fold(name)
	for _, p := range r.s.products {
		if p.Active && p.ID != excludeID && normalize.Fold(p.Name) == folded {
			return true, nil
		}
	}
	return false, nil
}

func (r *productRepo) Update(product *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.products[product.ID]
	if !ok {
		return nil
	}
	cp := *product
	cp.Stock = stored.Stock // el stock solo lo muta el kardex
	r.s.products[product.ID] = &cp
	return nil
}

func (r *productRepo) UpdateStock(id int64, stock decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.products[id]; ok {
		p.Stock = stock
	}
	return nil
}

func (r *productRepo) List(limit, offset int) ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Product
	for _, p := range r.s.products {
		if p.Active {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return paginate(out, limit, offset), nil
}

func (r *productRepo) Search(foldedName string, limit, offset int) ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Product
	for _, p := range r.s.products {
		if p.Active && strings.Contains(normalize.Fold(p.Name), foldedName) {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return paginate(out, limit, offset), nil
}

func (r *productRepo) Deactivate(id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.products[id]; ok {
		p.Active = false
	}
	return nil
}

type movementRepo struct{ s *Store }

func (r *movementRepo) Create(movement *entity.Movement) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *movement
	cp.ID = r.s.id()
	r.s.movements[cp.ID] = &cp
	return cp.ID, nil
}

func (r *movementRepo) GetByID(id int64) (*entity.Movement, error) {
	return r.s.Movement(id), nil
}

func (r *movementRepo) GetKardexEntry(id int64) (*repository.KardexEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.movements[id]
	if !ok || !m.Active {
		return nil, nil
	}
	return r.toEntry(m), nil
}

func (r *movementRepo) Update(id int64, patch repository.MovementPatch) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.movements[id]
	if !ok {
		return nil
	}
	if patch.Type != nil {
		m.Type = *patch.Type
	}
	if patch.Quantity != nil {
		m.Quantity = *patch.Quantity
	}
	if patch.Motive != nil {
		m.Motive = *patch.Motive
	}
	if patch.Comment != nil {
		m.Comment = *patch.Comment
	}
	return nil
}

func (r *movementRepo) SoftDelete(id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if m, ok := r.s.movements[id]; ok {
		m.Active = false
	}
	return nil
}

func (r *movementRepo) ListKardex(filter repository.KardexFilter) ([]*repository.KardexEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*repository.KardexEntry
	for _, m := range r.s.movements {
		if !m.Active {
			continue
		}
		if filter.ProductID > 0 && m.ProductID != filter.ProductID {
			continue
		}
		if filter.Type != "" && m.Type != filter.Type {
			continue
		}
		out = append(out, r.toEntry(m))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MovementID > out[j].MovementID })
	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return nil, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// RecomputeProductStock suma ENTRADA − SALIDA de los movimientos activos del
// producto y persiste el resultado, igual que el adaptador real.
func (r *movementRepo) RecomputeProductStock(productID int64) (decimal.Decimal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stock := decimal.Zero
	for _, m := range r.s.movements {
		if !m.Active || m.ProductID != productID {
			continue
		}
		if m.Type == entity.MovementTypeEntrada {
			stock = stock.Add(m.Quantity)
		} else {
			stock = stock.Sub(m.Quantity)
		}
	}
	if p, ok := r.s.products[productID]; ok {
		p.Stock = stock
	}
	return stock, nil
}

func (r *movementRepo) toEntry(m *entity.Movement) *repository.KardexEntry {
	entry := &repository.KardexEntry{
		MovementID:      m.ID,
		Date:            m.Date,
		ProductID:       m.ProductID,
		Type:            m.Type,
		Quantity:        m.Quantity,
		HistoricalStock: m.HistoricalStock,
		Motive:          m.Motive,
		Comment:         m.Comment,
	}
	if p, ok := r.s.products[m.ProductID]; ok {
		entry.ProductName = p.Name
		entry.ProductCode = p.Code
	}
	if u, ok := r.s.users[m.UserID]; ok {
		entry.UserName = u.Name
	}
	return entry
}

type saleRepo struct{ s *Store }

func (r *saleRepo) CreateHeader(sale *entity.Sale) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *sale
	cp.ID = r.s.id()
	r.s.sales[cp.ID] = &cp
	return cp.ID, nil
}

func (r *saleRepo) CreateLine(line *entity.SaleLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.FailSaleLine > 0 {
		count := 0
		for _, l := range r.s.lines {
			if l.SaleID == line.SaleID {
				count++
			}
		}
		if count+1 == r.s.FailSaleLine {
			return ErrLineInjected
		}
	}
	cp := *line
	cp.ID = r.s.id()
	r.s.lines = append(r.s.lines, &cp)
	return nil
}

func (r *saleRepo) GetByID(id int64) (*entity.Sale, error) {
	return r.s.Sale(id), nil
}

func (r *saleRepo) ListLines(saleID int64) ([]*entity.SaleLine, error) {
	return r.s.SaleLines(saleID), nil
}

func paginate(products []*entity.Product, limit, offset int) []*entity.Product {
	if offset >= len(products) {
		return nil
	}
	products = products[offset:]
	if limit > 0 && len(products) > limit {
		products = products[:limit]
	}
	return products
}
