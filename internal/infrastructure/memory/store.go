// Package memory implementa los puertos de persistencia en memoria. Lo usan las pruebas
// y el modo demo sin base de datos.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/stockbill-api/internal/application/billing"
	"github.com/jhoicas/stockbill-api/internal/application/inventory"
	"github.com/jhoicas/stockbill-api/internal/domain/entity"
	"github.com/jhoicas/stockbill-api/internal/domain/repository"
)

var (
	_ inventory.TxRunner      = (*Store)(nil)
	_ billing.BillingTxRunner = (*Store)(nil)
)

type state struct {
	users      map[string]entity.User
	categories map[string]entity.Category
	products   map[string]entity.Product
	customers  map[string]entity.Customer
	invoices   map[string]entity.Invoice
	items      map[string][]entity.InvoiceItem // por invoice_id
	movements  []entity.StockMovement
	counters   map[string]int
}

func newState() *state {
	return &state{
		users:      map[string]entity.User{},
		categories: map[string]entity.Category{},
		products:   map[string]entity.Product{},
		customers:  map[string]entity.Customer{},
		invoices:   map[string]entity.Invoice{},
		items:      map[string][]entity.InvoiceItem{},
		counters:   map[string]int{},
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.categories {
		c.categories[k] = v
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.customers {
		c.customers[k] = v
	}
	for k, v := range s.invoices {
		c.invoices[k] = v
	}
	for k, v := range s.items {
		c.items[k] = append([]entity.InvoiceItem(nil), v...)
	}
	c.movements = append([]entity.StockMovement(nil), s.movements...)
	for k, v := range s.counters {
		c.counters[k] = v
	}
	return c
}

// Store base de datos en memoria. Las transacciones se serializan con un mutex
// y un error restaura la foto tomada al iniciarlas.
type Store struct {
	mu sync.Mutex
	st *state
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// Users repositorio de usuarios fuera de transacción.
func (s *Store) Users() *UserRepo { return &UserRepo{conn{s: s}} }

// Categories repositorio de categorías fuera de transacción.
func (s *Store) Categories() *CategoryRepo { return &CategoryRepo{conn{s: s}} }

// Products repositorio de productos fuera de transacción.
func (s *Store) Products() *ProductRepo { return &ProductRepo{conn{s: s}} }

// Customers repositorio de clientes fuera de transacción.
func (s *Store) Customers() *CustomerRepo { return &CustomerRepo{conn{s: s}} }

// Invoices repositorio de facturas fuera de transacción.
func (s *Store) Invoices() *InvoiceRepo { return &InvoiceRepo{conn{s: s}} }

// Movements libro de movimientos fuera de transacción.
func (s *Store) Movements() *StockMovementRepo { return &StockMovementRepo{conn{s: s}} }

// Run ejecuta fn con repos atados a la transacción en curso.
func (s *Store) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	return s.inTx(func(c conn) error {
		return fn(&ProductRepo{c}, &StockMovementRepo{c})
	})
}

// RunBilling igual que Run con los repos de facturación.
func (s *Store) RunBilling(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
	customerRepo repository.CustomerRepository,
	invoiceRepo repository.InvoiceRepository,
) error) error {
	return s.inTx(func(c conn) error {
		return fn(&ProductRepo{c}, &StockMovementRepo{c}, &CustomerRepo{c}, &InvoiceRepo{c})
	})
}

func (s *Store) inTx(fn func(c conn) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	if err := fn(conn{s: s, inTx: true}); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

// conn acceso al estado; dentro de una transacción el lock ya está tomado.
type conn struct {
	s    *Store
	inTx bool
}

func (c conn) lock() (*state, func()) {
	if c.inTx {
		return c.s.st, func() {}
	}
	c.s.mu.Lock()
	return c.s.st, c.s.mu.Unlock
}

// page aplica offset/limit (0 = sin límite) sobre n elementos.
func page(n, limit, offset int) (int, int) {
	if offset > n {
		offset = n
	}
	end := n
	if limit > 0 && offset+limit < n {
		end = offset + limit
	}
	return offset, end
}
