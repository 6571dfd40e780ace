package billing_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockbill-api/internal/application/billing"
	"github.com/jhoicas/stockbill-api/internal/application/dto"
	"github.com/jhoicas/stockbill-api/internal/application/inventory"
	"github.com/jhoicas/stockbill-api/internal/application/ports"
	"github.com/jhoicas/stockbill-api/internal/application/usecase"
	"github.com/jhoicas/stockbill-api/internal/domain"
	"github.com/jhoicas/stockbill-api/internal/domain/entity"
	"github.com/jhoicas/stockbill-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

const userID = "user-1"

type eventLog struct {
	mu     sync.Mutex
	events []ports.StockEvent
}

func (l *eventLog) PublishStockUpdated(_ context.Context, evs []ports.StockEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, evs...)
}

type fixture struct {
	store    *memory.Store
	stock    *inventory.StockUseCase
	products *usecase.ProductUseCase
	invoices *billing.InvoiceUseCase
	customer *billing.CustomerUseCase
	events   *eventLog
	category string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	events := &eventLog{}
	stock := inventory.NewStockUseCase(store.Products(), store.Movements())
	f := &fixture{
		store:    store,
		stock:    stock,
		products: usecase.NewProductUseCase(store.Products(), store.Categories(), store, stock, nil),
		invoices: billing.NewInvoiceUseCase(store, stock, store.Invoices(), events),
		customer: billing.NewCustomerUseCase(store.Customers(), store.Invoices()),
		events:   events,
	}
	cat, err := usecase.NewCategoryUseCase(store.Categories()).Create(context.Background(), userID, dto.CreateCategoryRequest{Name: "General", Description: "Varios"})
	require.NoError(t, err)
	f.category = cat.ID
	return f
}

func (f *fixture) product(t *testing.T, sku, price string, stock int) string {
	t.Helper()
	p := decimal.RequireFromString(price)
	cost := decimal.Zero
	out, err := f.products.Create(context.Background(), userID, dto.CreateProductRequest{
		Name: sku, Description: sku, SKU: sku, CategoryID: f.category,
		Price: &p, CostPrice: &cost, StockQuantity: &stock,
	})
	require.NoError(t, err)
	return out.ID
}

func (f *fixture) customerID(t *testing.T, name string) string {
	t.Helper()
	out, err := f.customer.Create(context.Background(), userID, dto.CreateCustomerRequest{Name: name})
	require.NoError(t, err)
	return out.ID
}

func (f *fixture) stockOf(t *testing.T, productID string) int {
	t.Helper()
	p, err := f.store.Products().GetByID(context.Background(), userID, productID)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.StockQuantity
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestInvoiceCreate_CalculaTotalYDescuentaStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.product(t, "A", "10", 5)
	b := f.product(t, "B", "5", 5)
	cust := f.customerID(t, "Ana")

	out, err := f.invoices.Create(ctx, userID, dto.CreateInvoiceRequest{
		CustomerID: cust,
		Items: []dto.InvoiceItemRequest{
			{ProductID: a, Quantity: 2, UnitPrice: decPtr("10")},
			{ProductID: b, Quantity: 1, UnitPrice: decPtr("5"), Discount: dec("1")},
		},
		TaxAmount: dec("3"),
	})
	require.NoError(t, err)

	assert.Equal(t, "INV-0001", out.InvoiceNo)
	assert.Equal(t, entity.InvoiceStatusPending, out.Status)
	assert.True(t, dec("27").Equal(out.TotalAmount), "20 + 4 + 3 = 27, obtenido %s", out.TotalAmount)
	require.Len(t, out.Items, 2)
	assert.True(t, dec("20").Equal(out.Items[0].Total))
	assert.True(t, dec("4").Equal(out.Items[1].Total))
	assert.Equal(t, "Ana", out.Customer.Name)

	assert.Equal(t, 3, f.stockOf(t, a))
	assert.Equal(t, 4, f.stockOf(t, b))

	require.Len(t, f.events.events, 2, "un evento por línea")
	assert.Equal(t, -2, f.events.events[0].Delta)
	assert.Equal(t, out.InvoiceNo, f.events.events[0].Reference)
}

func TestInvoiceCreate_PrecioPorDefectoDelProducto(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "A", "12.50", 4)

	out, err := f.invoices.Create(context.Background(), userID, dto.CreateInvoiceRequest{
		CustomerID: f.customerID(t, "Ana"),
		Items:      []dto.InvoiceItemRequest{{ProductID: p, Quantity: 2}},
	})
	require.NoError(t, err)
	assert.True(t, dec("12.50").Equal(out.Items[0].UnitPrice))
	assert.True(t, dec("25").Equal(out.TotalAmount))
}

func TestInvoiceCreate_StockInsuficienteNoDejaRastro(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.product(t, "A", "10", 5)
	b := f.product(t, "B", "10", 1)
	cust := f.customerID(t, "Ana")

	_, err := f.invoices.Create(ctx, userID, dto.CreateInvoiceRequest{
		CustomerID: cust,
		Items: []dto.InvoiceItemRequest{
			{ProductID: a, Quantity: 2},
			{ProductID: b, Quantity: 3},
		},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, 1, stockErr.Available)
	assert.Equal(t, 3, stockErr.Requested)

	assert.Equal(t, 5, f.stockOf(t, a), "la primera línea también se revierte")
	assert.Equal(t, 1, f.stockOf(t, b))

	list, err := f.invoices.List(ctx, userID, dto.InvoiceListRequest{})
	require.NoError(t, err)
	assert.Empty(t, list.Invoices)

	movs, err := f.store.Movements().ListByProduct(ctx, a, 0)
	require.NoError(t, err)
	assert.Len(t, movs, 1, "solo el stock inicial")
	assert.Empty(t, f.events.events, "sin commit no hay eventos")
}

func TestInvoiceCreate_ValidaEntrada(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "A", "10", 5)
	cust := f.customerID(t, "Ana")

	cases := map[string]dto.CreateInvoiceRequest{
		"sin items":         {CustomerID: cust},
		"cantidad cero":     {CustomerID: cust, Items: []dto.InvoiceItemRequest{{ProductID: p, Quantity: 0}}},
		"impuesto negativo": {CustomerID: cust, Items: []dto.InvoiceItemRequest{{ProductID: p, Quantity: 1}}, TaxAmount: dec("-1")},
		"cliente ajeno":     {CustomerID: "no-existe", Items: []dto.InvoiceItemRequest{{ProductID: p, Quantity: 1}}},
		"descuento > línea": {CustomerID: cust, Items: []dto.InvoiceItemRequest{{ProductID: p, Quantity: 1, Discount: dec("11")}}},
		"fecha inválida":    {CustomerID: cust, Items: []dto.InvoiceItemRequest{{ProductID: p, Quantity: 1}}, DueDate: "mañana"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.invoices.Create(context.Background(), userID, in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	assert.Equal(t, 5, f.stockOf(t, p), "ningún intento fallido toca el stock")
}

func TestInvoiceCreate_ConsecutivoPorUsuario(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "A", "1", 10)
	cust := f.customerID(t, "Ana")
	in := dto.CreateInvoiceRequest{CustomerID: cust, Items: []dto.InvoiceItemRequest{{ProductID: p, Quantity: 1}}}

	first, err := f.invoices.Create(context.Background(), userID, in)
	require.NoError(t, err)
	second, err := f.invoices.Create(context.Background(), userID, in)
	require.NoError(t, err)
	assert.Equal(t, "INV-0001", first.InvoiceNo)
	assert.Equal(t, "INV-0002", second.InvoiceNo)
}

func TestInvoiceCreate_ConservaOrdenDeLineas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.product(t, "C", "3", 5)
	a := f.product(t, "A", "1", 5)
	b := f.product(t, "B", "2", 5)
	cust := f.customerID(t, "Ana")

	out, err := f.invoices.Create(ctx, userID, dto.CreateInvoiceRequest{
		CustomerID: cust,
		Items: []dto.InvoiceItemRequest{
			{ProductID: c, Quantity: 1},
			{ProductID: a, Quantity: 1},
			{ProductID: b, Quantity: 1},
		},
	})
	require.NoError(t, err)

	items, err := f.store.Invoices().GetItems(ctx, out.ID)
	require.NoError(t, err)
	require.Len(t, items, 3)
	for i, want := range []string{c, a, b} {
		assert.Equal(t, i+1, items[i].Position, "posición de la línea %d", i)
		assert.Equal(t, want, items[i].ProductID)
	}

	got, err := f.invoices.Get(ctx, userID, out.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 3)
	assert.Equal(t, []string{c, a, b}, []string{got.Items[0].ProductID, got.Items[1].ProductID, got.Items[2].ProductID})
}

// ──────────────────────────────────────────────────────────────────────────────
// Delete / UpdateStatus
// ──────────────────────────────────────────────────────────────────────────────

func TestInvoiceDelete_DevuelveStockConMovimientosIN(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "A", "10", 5)
	inv, err := f.invoices.Create(ctx, userID, dto.CreateInvoiceRequest{
		CustomerID: f.customerID(t, "Ana"),
		Items:      []dto.InvoiceItemRequest{{ProductID: p, Quantity: 4}},
	})
	require.NoError(t, err)
	require.Equal(t, 1, f.stockOf(t, p))

	require.NoError(t, f.invoices.Delete(ctx, userID, inv.ID))
	assert.Equal(t, 5, f.stockOf(t, p))

	movs, err := f.store.Movements().ListByProduct(ctx, p, 0)
	require.NoError(t, err)
	require.Len(t, movs, 3)
	assert.Equal(t, entity.MovementTypeIn, movs[0].Type)
	assert.Equal(t, entity.ReasonInvoiceCancellation, movs[0].Reason)
	assert.Equal(t, inv.InvoiceNo, movs[0].Reference)

	_, err = f.invoices.Get(ctx, userID, inv.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	ledger, err := f.stock.Ledger(ctx, userID, p)
	require.NoError(t, err)
	assert.True(t, ledger.Consistent)
}

func TestInvoiceDelete_PagadaSeRechaza(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "A", "10", 5)
	inv, err := f.invoices.Create(ctx, userID, dto.CreateInvoiceRequest{
		CustomerID: f.customerID(t, "Ana"),
		Items:      []dto.InvoiceItemRequest{{ProductID: p, Quantity: 1}},
	})
	require.NoError(t, err)

	updated, err := f.invoices.UpdateStatus(ctx, userID, inv.ID, dto.UpdateInvoiceStatusRequest{Status: entity.InvoiceStatusPaid})
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusPaid, updated.Status)
	assert.Equal(t, 4, f.stockOf(t, p), "cambiar el estado no toca el stock")

	err = f.invoices.Delete(ctx, userID, inv.ID)
	assert.ErrorIs(t, err, domain.ErrPaidInvoice)
	assert.Equal(t, 4, f.stockOf(t, p))
}

func TestInvoiceUpdateStatus_EstadoInvalido(t *testing.T) {
	f := newFixture(t)
	_, err := f.invoices.UpdateStatus(context.Background(), userID, "x", dto.UpdateInvoiceStatusRequest{Status: "DRAFT"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.invoices.UpdateStatus(context.Background(), userID, "x", dto.UpdateInvoiceStatusRequest{Status: entity.InvoiceStatusPaid})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// List
// ──────────────────────────────────────────────────────────────────────────────

func TestInvoiceList_FiltrosAllYEstado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "A", "10", 10)
	ana := f.customerID(t, "Ana")
	luis := f.customerID(t, "Luis")
	for _, c := range []string{ana, ana, luis} {
		_, err := f.invoices.Create(ctx, userID, dto.CreateInvoiceRequest{
			CustomerID: c, Items: []dto.InvoiceItemRequest{{ProductID: p, Quantity: 1}},
		})
		require.NoError(t, err)
	}

	all, err := f.invoices.List(ctx, userID, dto.InvoiceListRequest{Customer: "all", Status: "all"})
	require.NoError(t, err)
	assert.Equal(t, 3, all.Pagination.Total)

	byCustomer, err := f.invoices.List(ctx, userID, dto.InvoiceListRequest{Customer: luis})
	require.NoError(t, err)
	assert.Equal(t, 1, byCustomer.Pagination.Total)

	paid, err := f.invoices.List(ctx, userID, dto.InvoiceListRequest{Status: entity.InvoiceStatusPaid})
	require.NoError(t, err)
	assert.Zero(t, paid.Pagination.Total)

	_, err = f.invoices.List(ctx, userID, dto.InvoiceListRequest{Status: "DRAFT"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	page, err := f.invoices.List(ctx, userID, dto.InvoiceListRequest{PageRequest: dto.PageRequest{Page: 2, Limit: 2}})
	require.NoError(t, err)
	assert.Len(t, page.Invoices, 1)
	assert.Equal(t, 2, page.Pagination.TotalPages)
}

// ──────────────────────────────────────────────────────────────────────────────
// Clientes
// ──────────────────────────────────────────────────────────────────────────────

func TestCustomerDelete_ConFacturasSeBloquea(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "A", "10", 5)
	cust := f.customerID(t, "Ana")
	_, err := f.invoices.Create(ctx, userID, dto.CreateInvoiceRequest{
		CustomerID: cust, Items: []dto.InvoiceItemRequest{{ProductID: p, Quantity: 1}},
	})
	require.NoError(t, err)

	err = f.customer.Delete(ctx, userID, cust)
	var deps *domain.DependentsError
	require.True(t, errors.As(err, &deps), "debe ser DependentsError, obtenido %v", err)
	assert.Equal(t, domain.ResourceInvoices, deps.Resource)
	assert.Equal(t, 1, deps.Count)

	free := f.customerID(t, "Luis")
	require.NoError(t, f.customer.Delete(ctx, userID, free))
	err = f.customer.Delete(ctx, userID, free)
	assert.ErrorIs(t, err, domain.ErrNotFound, "un cliente desactivado ya no existe")
}

func TestCustomerCreate_EmailDuplicado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.customer.Create(ctx, userID, dto.CreateCustomerRequest{Name: "Ana", Email: "ana@example.com"})
	require.NoError(t, err)

	_, err = f.customer.Create(ctx, userID, dto.CreateCustomerRequest{Name: "Otra Ana", Email: "ana@example.com"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = f.customer.Create(ctx, "user-2", dto.CreateCustomerRequest{Name: "Ana", Email: "ana@example.com"})
	assert.NoError(t, err, "el email es único por usuario")
}
