// Package inventorytest provee un almacén en memoria con transacciones (copia y
// reemplazo) que implementa los puertos de repositorio del motor de inventario.
package inventorytest

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/trufas-inventario-api/internal/application/inventory"
	"github.com/jhoicas/trufas-inventario-api/internal/domain"
	"github.com/jhoicas/trufas-inventario-api/internal/domain/entity"
	"github.com/jhoicas/trufas-inventario-api/internal/domain/repository"
)

type state struct {
	products   map[string]entity.Product
	categories map[string]entity.Category
	variants   map[string]entity.ProductWeightOption
	items      map[string]entity.SerializedInventoryItem
	movements  []entity.StockMovement
}

func newState() *state {
	return &state{
		products:   map[string]entity.Product{},
		categories: map[string]entity.Category{},
		variants:   map[string]entity.ProductWeightOption{},
		items:      map[string]entity.SerializedInventoryItem{},
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.categories {
		c.categories[k] = v
	}
	for k, v := range s.variants {
		c.variants[k] = v
	}
	for k, v := range s.items {
		c.items[k] = v
	}
	c.movements = append([]entity.StockMovement(nil), s.movements...)
	return c
}

// Store almacén en memoria. Run serializa las transacciones: trabaja sobre una copia
// y solo la publica si fn no devuelve error.
type Store struct {
	mu    sync.Mutex
	state *state
	// FailMovementCreate, si no es nil, se evalúa antes de insertar cada movimiento.
	FailMovementCreate func(m *entity.StockMovement) error
	// Commits cuenta las transacciones confirmadas.
	Commits int
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{state: newState()}
}

// Run implementa inventory.TxRunner.
func (s *Store) Run(ctx context.Context, fn func(repos inventory.Repos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx := s.state.clone()
	if err := fn(s.bind(func() *state { return tx })); err != nil {
		return err
	}
	s.state = tx
	s.Commits++
	return nil
}

// Repos devuelve repositorios de lectura sobre el estado confirmado.
func (s *Store) Repos() inventory.Repos {
	return s.bind(func() *state { return s.state })
}

func (s *Store) bind(ref func() *state) inventory.Repos {
	return inventory.Repos{
		Products:   &products{ref: ref},
		Categories: &categories{ref: ref},
		Variants:   &variants{ref: ref},
		Items:      &items{ref: ref},
		Movements:  &movements{ref: ref, store: s},
	}
}

// LedgerSum suma los deltas del libro confirmados para (productID, variantID).
func (s *Store) LedgerSum(productID, variantID string) int {
	total := 0
	for _, m := range s.state.movements {
		if m.ProductID == productID && m.VariantID == variantID {
			total += m.QuantityChange
		}
	}
	return total
}

// Movements devuelve una copia de las filas del libro confirmadas.
func (s *Store) Movements() []entity.StockMovement {
	return append([]entity.StockMovement(nil), s.state.movements...)
}

// Items devuelve los artículos confirmados ordenados por UID.
func (s *Store) Items() []entity.SerializedInventoryItem {
	out := make([]entity.SerializedInventoryItem, 0, len(s.state.items))
	for _, it := range s.state.items {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemUID < out[j].ItemUID })
	return out
}

// Product devuelve el producto confirmado con ese código.
func (s *Store) Product(code string) *entity.Product {
	for _, p := range s.state.products {
		if p.Code == code {
			p := p
			return &p
		}
	}
	return nil
}

// Variant devuelve la variante confirmada con ese SKU.
func (s *Store) Variant(sku string) *entity.ProductWeightOption {
	for _, v := range s.state.variants {
		if v.SKU == sku {
			v := v
			return &v
		}
	}
	return nil
}

// ForceStock fija un contador fuera de banda (simula una edición manual en BD).
func (s *Store) ForceStock(productCode, variantSKU string, qty int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if variantSKU != "" {
		for id, v := range s.state.variants {
			if v.SKU == variantSKU {
				v.AggregateStockQuantity = qty
				s.state.variants[id] = v
			}
		}
		return
	}
	for id, p := range s.state.products {
		if p.Code == productCode {
			p.StockQuantity = qty
			s.state.products[id] = p
		}
	}
}

// ── products ────────────────────────────────────────────────────────────────

type products struct{ ref func() *state }

func (r *products) Create(_ context.Context, p *entity.Product) error {
	st := r.ref()
	for _, other := range st.products {
		if other.Code == p.Code {
			return fmt.Errorf("%w: producto %s", domain.ErrDuplicate, p.Code)
		}
	}
	st.products[p.ID] = *p
	return nil
}

func (r *products) GetByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := r.ref().products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *products) GetByCode(_ context.Context, code string) (*entity.Product, error) {
	for _, p := range r.ref().products {
		if p.Code == code {
			p := p
			return &p, nil
		}
	}
	return nil, nil
}

func (r *products) GetByCodeForUpdate(ctx context.Context, code string) (*entity.Product, error) {
	return r.GetByCode(ctx, code)
}

func (r *products) Update(_ context.Context, p *entity.Product) error {
	st := r.ref()
	cur, ok := st.products[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	stock := cur.StockQuantity
	cur = *p
	cur.StockQuantity = stock
	st.products[p.ID] = cur
	return nil
}

func (r *products) AddStock(_ context.Context, id string, delta int) (int, error) {
	st := r.ref()
	p, ok := st.products[id]
	if !ok {
		return 0, domain.ErrNotFound
	}
	p.StockQuantity += delta
	st.products[id] = p
	return p.StockQuantity, nil
}

func (r *products) SetStock(_ context.Context, id string, qty int) error {
	st := r.ref()
	p, ok := st.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.StockQuantity = qty
	st.products[id] = p
	return nil
}

func (r *products) List(_ context.Context, limit, offset int) ([]*entity.Product, error) {
	all := make([]*entity.Product, 0, len(r.ref().products))
	for _, p := range r.ref().products {
		p := p
		all = append(all, &p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Code < all[j].Code })
	return page(all, limit, offset), nil
}

// ── categories ──────────────────────────────────────────────────────────────

type categories struct{ ref func() *state }

func (r *categories) Create(_ context.Context, c *entity.Category) error {
	st := r.ref()
	for _, other := range st.categories {
		if other.Code == c.Code {
			return fmt.Errorf("%w: categoría %s", domain.ErrDuplicate, c.Code)
		}
	}
	st.categories[c.ID] = *c
	return nil
}

func (r *categories) GetByID(_ context.Context, id string) (*entity.Category, error) {
	c, ok := r.ref().categories[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *categories) GetByCode(_ context.Context, code string) (*entity.Category, error) {
	for _, c := range r.ref().categories {
		if c.Code == code {
			c := c
			return &c, nil
		}
	}
	return nil, nil
}

func (r *categories) List(_ context.Context) ([]*entity.Category, error) {
	out := make([]*entity.Category, 0, len(r.ref().categories))
	for _, c := range r.ref().categories {
		c := c
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

// ── variants ────────────────────────────────────────────────────────────────

type variants struct{ ref func() *state }

func (r *variants) Create(_ context.Context, v *entity.ProductWeightOption) error {
	st := r.ref()
	for _, other := range st.variants {
		if other.SKU == v.SKU {
			return fmt.Errorf("%w: variante %s", domain.ErrDuplicate, v.SKU)
		}
	}
	st.variants[v.ID] = *v
	return nil
}

func (r *variants) GetByID(_ context.Context, id string) (*entity.ProductWeightOption, error) {
	v, ok := r.ref().variants[id]
	if !ok {
		return nil, nil
	}
	return &v, nil
}

func (r *variants) GetBySKU(_ context.Context, sku string) (*entity.ProductWeightOption, error) {
	for _, v := range r.ref().variants {
		if v.SKU == sku {
			v := v
			return &v, nil
		}
	}
	return nil, nil
}

func (r *variants) GetBySKUForUpdate(ctx context.Context, sku string) (*entity.ProductWeightOption, error) {
	return r.GetBySKU(ctx, sku)
}

func (r *variants) GetByProductAndSuffix(_ context.Context, productID, suffix string) (*entity.ProductWeightOption, error) {
	for _, v := range r.ref().variants {
		if v.ProductID == productID && v.SKUSuffix == suffix {
			v := v
			return &v, nil
		}
	}
	return nil, nil
}

func (r *variants) ListByProduct(_ context.Context, productID string) ([]*entity.ProductWeightOption, error) {
	out := []*entity.ProductWeightOption{}
	for _, v := range r.ref().variants {
		if v.ProductID == productID {
			v := v
			out = append(out, &v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out, nil
}

func (r *variants) AddStock(_ context.Context, id string, delta int) (int, error) {
	st := r.ref()
	v, ok := st.variants[id]
	if !ok {
		return 0, domain.ErrNotFound
	}
	v.AggregateStockQuantity += delta
	st.variants[id] = v
	return v.AggregateStockQuantity, nil
}

func (r *variants) SetStock(_ context.Context, id string, qty int) error {
	st := r.ref()
	v, ok := st.variants[id]
	if !ok {
		return domain.ErrNotFound
	}
	v.AggregateStockQuantity = qty
	st.variants[id] = v
	return nil
}

func (r *variants) SetActive(_ context.Context, id string, active bool) error {
	st := r.ref()
	v, ok := st.variants[id]
	if !ok {
		return domain.ErrNotFound
	}
	v.Active = active
	st.variants[id] = v
	return nil
}

func (r *variants) SumActiveStock(_ context.Context, productID string) (int, error) {
	total := 0
	for _, v := range r.ref().variants {
		if v.ProductID == productID && v.Active {
			total += v.AggregateStockQuantity
		}
	}
	return total, nil
}

// ── items ───────────────────────────────────────────────────────────────────

type items struct{ ref func() *state }

func (r *items) Create(_ context.Context, it *entity.SerializedInventoryItem) error {
	st := r.ref()
	for _, other := range st.items {
		if other.ItemUID == it.ItemUID {
			return fmt.Errorf("%w: artículo %s", domain.ErrDuplicate, it.ItemUID)
		}
	}
	st.items[it.ID] = *it
	return nil
}

func (r *items) GetByUID(_ context.Context, uid string) (*entity.SerializedInventoryItem, error) {
	for _, it := range r.ref().items {
		if it.ItemUID == uid {
			it := it
			return &it, nil
		}
	}
	return nil, nil
}

func (r *items) GetByUIDForUpdate(ctx context.Context, uid string) (*entity.SerializedInventoryItem, error) {
	return r.GetByUID(ctx, uid)
}

func (r *items) ExistsUID(ctx context.Context, uid string) (bool, error) {
	it, err := r.GetByUID(ctx, uid)
	return it != nil, err
}

func (r *items) Update(_ context.Context, it *entity.SerializedInventoryItem) error {
	st := r.ref()
	if _, ok := st.items[it.ID]; !ok {
		return domain.ErrNotFound
	}
	st.items[it.ID] = *it
	return nil
}

func (r *items) List(_ context.Context, f repository.ItemFilter) ([]*entity.SerializedInventoryItem, error) {
	out := []*entity.SerializedInventoryItem{}
	for _, it := range r.ref().items {
		if f.ProductID != "" && it.ProductID != f.ProductID {
			continue
		}
		if f.Status != "" && it.Status != f.Status {
			continue
		}
		it := it
		out = append(out, &it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemUID < out[j].ItemUID })
	return page(out, f.Limit, f.Offset), nil
}

func (r *items) CountByStatus(_ context.Context, productID string) (map[entity.ItemStatus]int, error) {
	out := map[entity.ItemStatus]int{}
	for _, it := range r.ref().items {
		if it.ProductID == productID {
			out[it.Status]++
		}
	}
	return out, nil
}

func (r *items) CountAvailableWithoutVariant(_ context.Context, productID string) (int, error) {
	n := 0
	for _, it := range r.ref().items {
		if it.ProductID == productID && it.VariantID == "" && it.Status == entity.ItemStatusAvailable {
			n++
		}
	}
	return n, nil
}

func (r *items) ListForExport(_ context.Context) ([]repository.ItemExportRow, error) {
	st := r.ref()
	out := []repository.ItemExportRow{}
	for _, it := range st.items {
		p := st.products[it.ProductID]
		row := repository.ItemExportRow{
			ItemUID:           it.ItemUID,
			ProductCode:       p.Code,
			ProductNameFR:     p.NameFR,
			ProductNameEN:     p.NameEN,
			Status:            it.Status,
			BatchNumber:       it.BatchNumber,
			ProductionDate:    it.ProductionDate,
			ExpiryDate:        it.ExpiryDate,
			CostPrice:         it.CostPrice,
			ActualWeightGrams: it.ActualWeightGrams,
			Notes:             it.Notes,
			ReceivedAt:        it.ReceivedAt,
		}
		if v, ok := st.variants[it.VariantID]; ok {
			w := v.WeightGrams
			row.VariantSKUSuffix = v.SKUSuffix
			row.VariantWeightGrams = &w
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemUID < out[j].ItemUID })
	return out, nil
}

// ── movements ───────────────────────────────────────────────────────────────

type movements struct {
	ref   func() *state
	store *Store
}

func (r *movements) Create(_ context.Context, m *entity.StockMovement) error {
	if r.store.FailMovementCreate != nil {
		if err := r.store.FailMovementCreate(m); err != nil {
			return err
		}
	}
	st := r.ref()
	st.movements = append(st.movements, *m)
	return nil
}

func (r *movements) ListByProduct(_ context.Context, productID, variantID string, limit, offset int) ([]*entity.StockMovement, error) {
	st := r.ref()
	out := []*entity.StockMovement{}
	for i := len(st.movements) - 1; i >= 0; i-- {
		m := st.movements[i]
		if m.ProductID != productID || (variantID != "" && m.VariantID != variantID) {
			continue
		}
		out = append(out, &m)
	}
	return page(out, limit, offset), nil
}

func (r *movements) SumByProductAndVariant(_ context.Context) ([]repository.LedgerSum, error) {
	type key struct{ p, v string }
	sums := map[key]int{}
	for _, m := range r.ref().movements {
		sums[key{m.ProductID, m.VariantID}] += m.QuantityChange
	}
	out := make([]repository.LedgerSum, 0, len(sums))
	for k, q := range sums {
		out = append(out, repository.LedgerSum{ProductID: k.p, VariantID: k.v, Quantity: q})
	}
	return out, nil
}

func page[T any](list []T, limit, offset int) []T {
	if offset > len(list) {
		return list[:0]
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

// ErrInjected error de prueba para simular fallos de infraestructura.
var ErrInjected = errors.New("fallo inyectado")

// SeedCategory inserta una categoría directamente en el estado confirmado.
func (s *Store) SeedCategory(code string) *entity.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := entity.Category{ID: "cat-" + code, Code: code, NameFR: "Truffes " + code, NameEN: "Truffles " + code}
	s.state.categories[c.ID] = c
	return &c
}

// SeedProduct inserta un producto activo (sin stock) y lo devuelve.
func (s *Store) SeedProduct(code, productType, categoryID string) *entity.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := entity.Product{
		ID:         "prod-" + code,
		Code:       code,
		CategoryID: categoryID,
		Type:       productType,
		NameFR:     "Truffe " + code,
		NameEN:     "Truffle " + code,
		Active:     true,
	}
	s.state.products[p.ID] = p
	return &p
}

// SeedVariant inserta una variante activa (sin stock) del producto.
func (s *Store) SeedVariant(product *entity.Product, suffix string, grams int64) *entity.ProductWeightOption {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := entity.ProductWeightOption{
		ID:          "var-" + product.Code + "-" + suffix,
		ProductID:   product.ID,
		SKU:         entity.VariantSKU(product.Code, suffix),
		SKUSuffix:   suffix,
		WeightGrams: decimal.NewFromInt(grams),
		Active:      true,
	}
	s.state.variants[v.ID] = v
	return &v
}
