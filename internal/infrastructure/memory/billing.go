package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/stockbill-api/internal/domain"
	"github.com/jhoicas/stockbill-api/internal/domain/entity"
	"github.com/jhoicas/stockbill-api/internal/domain/repository"
)

var (
	_ repository.CustomerRepository = (*CustomerRepo)(nil)
	_ repository.InvoiceRepository  = (*InvoiceRepo)(nil)
)

// CustomerRepo clientes en memoria.
type CustomerRepo struct{ conn }

func (r *CustomerRepo) Create(_ context.Context, c *entity.Customer) error {
	st, unlock := r.lock()
	defer unlock()
	if c.IsActive && activeEmailTaken(st, c.UserID, c.Email, c.ID) {
		return fmt.Errorf("%w: ya existe un cliente con el email %s", domain.ErrDuplicate, c.Email)
	}
	st.customers[c.ID] = *c
	return nil
}

func (r *CustomerRepo) GetByID(_ context.Context, userID, id string) (*entity.Customer, error) {
	st, unlock := r.lock()
	defer unlock()
	c, ok := st.customers[id]
	if !ok || c.UserID != userID {
		return nil, nil
	}
	return &c, nil
}

func (r *CustomerRepo) GetActiveByEmail(_ context.Context, userID, email string) (*entity.Customer, error) {
	st, unlock := r.lock()
	defer unlock()
	for _, c := range st.customers {
		if c.UserID == userID && c.IsActive && c.Email != "" && strings.EqualFold(c.Email, email) {
			return &c, nil
		}
	}
	return nil, nil
}

func (r *CustomerRepo) List(_ context.Context, f repository.CustomerFilter) ([]*repository.CustomerWithStats, int, error) {
	st, unlock := r.lock()
	defer unlock()
	search := strings.ToLower(f.Search)
	var all []*repository.CustomerWithStats
	for _, c := range st.customers {
		if c.UserID != f.UserID || !c.IsActive {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(c.Name), search) &&
			!strings.Contains(strings.ToLower(c.Email), search) &&
			!strings.Contains(strings.ToLower(c.Phone), search) {
			continue
		}
		cs := &repository.CustomerWithStats{Customer: c}
		for _, inv := range st.invoices {
			if inv.CustomerID == c.ID {
				cs.TotalInvoices++
				cs.TotalSpent = cs.TotalSpent.Add(inv.TotalAmount)
			}
		}
		all = append(all, cs)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].Name < all[j].Name
	})
	from, to := page(len(all), f.Limit, f.Offset)
	return all[from:to], len(all), nil
}

func (r *CustomerRepo) CountActive(_ context.Context, userID string) (int, error) {
	st, unlock := r.lock()
	defer unlock()
	n := 0
	for _, c := range st.customers {
		if c.UserID == userID && c.IsActive {
			n++
		}
	}
	return n, nil
}

func (r *CustomerRepo) Update(_ context.Context, c *entity.Customer) error {
	st, unlock := r.lock()
	defer unlock()
	existing, ok := st.customers[c.ID]
	if !ok || existing.UserID != c.UserID {
		return domain.ErrNotFound
	}
	if c.IsActive && activeEmailTaken(st, c.UserID, c.Email, c.ID) {
		return fmt.Errorf("%w: ya existe un cliente con el email %s", domain.ErrDuplicate, c.Email)
	}
	st.customers[c.ID] = *c
	return nil
}

func (r *CustomerRepo) Deactivate(_ context.Context, userID, id string) error {
	st, unlock := r.lock()
	defer unlock()
	c, ok := st.customers[id]
	if !ok || c.UserID != userID {
		return domain.ErrNotFound
	}
	c.IsActive = false
	st.customers[id] = c
	return nil
}

func activeEmailTaken(st *state, userID, email, selfID string) bool {
	if email == "" {
		return false
	}
	for _, c := range st.customers {
		if c.UserID == userID && c.IsActive && c.ID != selfID && strings.EqualFold(c.Email, email) {
			return true
		}
	}
	return false
}

// InvoiceRepo facturas en memoria.
type InvoiceRepo struct{ conn }

func (r *InvoiceRepo) NextNumber(_ context.Context, userID string) (int, error) {
	st, unlock := r.lock()
	defer unlock()
	st.counters[userID]++
	return st.counters[userID], nil
}

func (r *InvoiceRepo) Create(_ context.Context, inv *entity.Invoice, items []*entity.InvoiceItem) error {
	st, unlock := r.lock()
	defer unlock()
	for _, existing := range st.invoices {
		if existing.UserID == inv.UserID && existing.InvoiceNo == inv.InvoiceNo {
			return fmt.Errorf("%w: el número %s ya existe", domain.ErrConflict, inv.InvoiceNo)
		}
	}
	st.invoices[inv.ID] = *inv
	lines := make([]entity.InvoiceItem, 0, len(items))
	for _, it := range items {
		lines = append(lines, *it)
	}
	sort.SliceStable(lines, func(i, j int) bool { return lines[i].Position < lines[j].Position })
	st.items[inv.ID] = lines
	return nil
}

func (r *InvoiceRepo) GetByID(_ context.Context, userID, id string) (*entity.Invoice, error) {
	st, unlock := r.lock()
	defer unlock()
	inv, ok := st.invoices[id]
	if !ok || inv.UserID != userID {
		return nil, nil
	}
	return &inv, nil
}

func (r *InvoiceRepo) GetItems(_ context.Context, invoiceID string) ([]*entity.InvoiceItem, error) {
	st, unlock := r.lock()
	defer unlock()
	var out []*entity.InvoiceItem
	for _, it := range st.items[invoiceID] {
		out = append(out, &it)
	}
	return out, nil
}

func (r *InvoiceRepo) GetDetail(_ context.Context, userID, id string) (*repository.InvoiceDetail, error) {
	st, unlock := r.lock()
	defer unlock()
	inv, ok := st.invoices[id]
	if !ok || inv.UserID != userID {
		return nil, nil
	}
	return detailOf(st, inv), nil
}

func (r *InvoiceRepo) List(_ context.Context, f repository.InvoiceFilter) ([]*repository.InvoiceDetail, int, error) {
	st, unlock := r.lock()
	defer unlock()
	var all []entity.Invoice
	for _, inv := range st.invoices {
		if inv.UserID != f.UserID {
			continue
		}
		if f.CustomerID != "" && inv.CustomerID != f.CustomerID {
			continue
		}
		if f.Status != "" && inv.Status != f.Status {
			continue
		}
		if f.From != nil && inv.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && inv.CreatedAt.After(*f.To) {
			continue
		}
		all = append(all, inv)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].InvoiceNo > all[j].InvoiceNo
	})
	from, to := page(len(all), f.Limit, f.Offset)
	out := make([]*repository.InvoiceDetail, 0, to-from)
	for _, inv := range all[from:to] {
		out = append(out, detailOf(st, inv))
	}
	return out, len(all), nil
}

func (r *InvoiceRepo) CountByCustomer(_ context.Context, customerID string) (int, error) {
	st, unlock := r.lock()
	defer unlock()
	n := 0
	for _, inv := range st.invoices {
		if inv.CustomerID == customerID {
			n++
		}
	}
	return n, nil
}

func (r *InvoiceRepo) UpdateStatus(_ context.Context, userID, id, status string, at time.Time) error {
	st, unlock := r.lock()
	defer unlock()
	inv, ok := st.invoices[id]
	if !ok || inv.UserID != userID {
		return domain.ErrNotFound
	}
	inv.Status = status
	inv.UpdatedAt = at
	st.invoices[id] = inv
	return nil
}

func (r *InvoiceRepo) Delete(_ context.Context, userID, id string) error {
	st, unlock := r.lock()
	defer unlock()
	inv, ok := st.invoices[id]
	if !ok || inv.UserID != userID {
		return domain.ErrNotFound
	}
	delete(st.invoices, id)
	delete(st.items, id)
	return nil
}

func detailOf(st *state, inv entity.Invoice) *repository.InvoiceDetail {
	d := &repository.InvoiceDetail{Invoice: inv}
	if c, ok := st.customers[inv.CustomerID]; ok {
		d.CustomerName = c.Name
		d.CustomerEmail = c.Email
	}
	for _, it := range st.items[inv.ID] {
		line := repository.InvoiceLine{InvoiceItem: it}
		if p, ok := st.products[it.ProductID]; ok {
			line.ProductName = p.Name
			line.ProductSKU = p.SKU
			line.CategoryID = p.CategoryID
			if c, ok := st.categories[p.CategoryID]; ok {
				line.CategoryName = c.Name
			}
		}
		d.Items = append(d.Items, line)
	}
	return d
}
