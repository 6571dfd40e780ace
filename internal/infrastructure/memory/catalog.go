package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jhoicas/stockbill-api/internal/domain"
	"github.com/jhoicas/stockbill-api/internal/domain/entity"
	"github.com/jhoicas/stockbill-api/internal/domain/repository"
)

var (
	_ repository.CategoryRepository = (*CategoryRepo)(nil)
	_ repository.ProductRepository  = (*ProductRepo)(nil)
)

// CategoryRepo categorías en memoria.
type CategoryRepo struct{ conn }

func (r *CategoryRepo) Create(_ context.Context, c *entity.Category) error {
	st, unlock := r.lock()
	defer unlock()
	if findCategoryByName(st, c.UserID, c.Name) != nil {
		return fmt.Errorf("%w: ya existe una categoría llamada %s", domain.ErrDuplicate, c.Name)
	}
	st.categories[c.ID] = *c
	return nil
}

func (r *CategoryRepo) GetByID(_ context.Context, userID, id string) (*entity.Category, error) {
	st, unlock := r.lock()
	defer unlock()
	c, ok := st.categories[id]
	if !ok || c.UserID != userID {
		return nil, nil
	}
	return &c, nil
}

func (r *CategoryRepo) GetByName(_ context.Context, userID, name string) (*entity.Category, error) {
	st, unlock := r.lock()
	defer unlock()
	return findCategoryByName(st, userID, name), nil
}

func (r *CategoryRepo) ListByUser(_ context.Context, userID string) ([]*repository.CategoryWithCount, error) {
	st, unlock := r.lock()
	defer unlock()
	var out []*repository.CategoryWithCount
	for _, c := range st.categories {
		if c.UserID == userID {
			out = append(out, &repository.CategoryWithCount{Category: c, ProductCount: countProducts(st, c.ID)})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *CategoryRepo) Update(_ context.Context, c *entity.Category) error {
	st, unlock := r.lock()
	defer unlock()
	if other := findCategoryByName(st, c.UserID, c.Name); other != nil && other.ID != c.ID {
		return fmt.Errorf("%w: ya existe una categoría llamada %s", domain.ErrDuplicate, c.Name)
	}
	if existing, ok := st.categories[c.ID]; !ok || existing.UserID != c.UserID {
		return domain.ErrNotFound
	}
	st.categories[c.ID] = *c
	return nil
}

func (r *CategoryRepo) Delete(_ context.Context, userID, id string) error {
	st, unlock := r.lock()
	defer unlock()
	c, ok := st.categories[id]
	if !ok || c.UserID != userID {
		return domain.ErrNotFound
	}
	delete(st.categories, id)
	return nil
}

func (r *CategoryRepo) CountProducts(_ context.Context, categoryID string) (int, error) {
	st, unlock := r.lock()
	defer unlock()
	return countProducts(st, categoryID), nil
}

func findCategoryByName(st *state, userID, name string) *entity.Category {
	for _, c := range st.categories {
		if c.UserID == userID && c.Name == name {
			return &c
		}
	}
	return nil
}

func countProducts(st *state, categoryID string) int {
	n := 0
	for _, p := range st.products {
		if p.CategoryID == categoryID {
			n++
		}
	}
	return n
}

// ProductRepo productos en memoria.
type ProductRepo struct{ conn }

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	st, unlock := r.lock()
	defer unlock()
	if skuTaken(st, p.SKU, p.ID) {
		return fmt.Errorf("%w: ya existe un producto con el SKU %s", domain.ErrDuplicate, p.SKU)
	}
	if p.StockQuantity < 0 {
		return fmt.Errorf("%w: el stock no puede ser negativo", domain.ErrInvalidInput)
	}
	st.products[p.ID] = *p
	return nil
}

func (r *ProductRepo) GetByID(_ context.Context, userID, id string) (*entity.Product, error) {
	st, unlock := r.lock()
	defer unlock()
	p, ok := st.products[id]
	if !ok || p.UserID != userID {
		return nil, nil
	}
	return &p, nil
}

// GetForUpdate en memoria la transacción ya tiene el lock exclusivo.
func (r *ProductRepo) GetForUpdate(ctx context.Context, userID, id string) (*entity.Product, error) {
	return r.GetByID(ctx, userID, id)
}

func (r *ProductRepo) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	st, unlock := r.lock()
	defer unlock()
	for _, p := range st.products {
		if p.SKU == sku {
			return &p, nil
		}
	}
	return nil, nil
}

func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	st, unlock := r.lock()
	defer unlock()
	existing, ok := st.products[p.ID]
	if !ok || existing.UserID != p.UserID {
		return domain.ErrNotFound
	}
	if skuTaken(st, p.SKU, p.ID) {
		return fmt.Errorf("%w: ya existe un producto con el SKU %s", domain.ErrDuplicate, p.SKU)
	}
	if p.StockQuantity < 0 {
		return fmt.Errorf("%w: el stock no puede ser negativo", domain.ErrInvalidInput)
	}
	st.products[p.ID] = *p
	return nil
}

func (r *ProductRepo) UpdateStock(_ context.Context, productID string, quantity int) error {
	st, unlock := r.lock()
	defer unlock()
	p, ok := st.products[productID]
	if !ok {
		return domain.ErrNotFound
	}
	if quantity < 0 {
		return fmt.Errorf("%w: el stock no puede ser negativo", domain.ErrInvalidInput)
	}
	p.StockQuantity = quantity
	st.products[productID] = p
	return nil
}

func (r *ProductRepo) Deactivate(_ context.Context, userID, id string) error {
	st, unlock := r.lock()
	defer unlock()
	p, ok := st.products[id]
	if !ok || p.UserID != userID {
		return domain.ErrNotFound
	}
	p.IsActive = false
	st.products[id] = p
	return nil
}

func (r *ProductRepo) List(_ context.Context, f repository.ProductFilter) ([]*entity.Product, int, error) {
	st, unlock := r.lock()
	defer unlock()
	search := strings.ToLower(f.Search)
	var all []*entity.Product
	for _, p := range st.products {
		if p.UserID != f.UserID || !p.IsActive {
			continue
		}
		if f.CategoryID != "" && p.CategoryID != f.CategoryID {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) &&
			!strings.Contains(strings.ToLower(p.SKU), search) {
			continue
		}
		all = append(all, &p)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].SKU < all[j].SKU
	})
	from, to := page(len(all), f.Limit, f.Offset)
	return all[from:to], len(all), nil
}

func (r *ProductRepo) ListLowStock(_ context.Context, userID string) ([]*entity.Product, error) {
	st, unlock := r.lock()
	defer unlock()
	var out []*entity.Product
	for _, p := range st.products {
		if p.UserID == userID && p.IsActive && p.IsLowStock() {
			out = append(out, &p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StockQuantity != out[j].StockQuantity {
			return out[i].StockQuantity < out[j].StockQuantity
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func skuTaken(st *state, sku, selfID string) bool {
	for _, p := range st.products {
		if p.SKU == sku && p.ID != selfID {
			return true
		}
	}
	return false
}
