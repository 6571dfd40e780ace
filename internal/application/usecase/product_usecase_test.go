package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockbill-api/internal/application/dto"
	"github.com/jhoicas/stockbill-api/internal/application/inventory"
	"github.com/jhoicas/stockbill-api/internal/application/ports"
	"github.com/jhoicas/stockbill-api/internal/application/usecase"
	"github.com/jhoicas/stockbill-api/internal/domain"
	"github.com/jhoicas/stockbill-api/internal/domain/entity"
	"github.com/jhoicas/stockbill-api/internal/infrastructure/memory"
)

const userID = "user-1"

type capture struct{ events []ports.StockEvent }

func (c *capture) PublishStockUpdated(_ context.Context, evs []ports.StockEvent) {
	c.events = append(c.events, evs...)
}

type env struct {
	store      *memory.Store
	stock      *inventory.StockUseCase
	products   *usecase.ProductUseCase
	categories *usecase.CategoryUseCase
	published  *capture
}

func newEnv() *env {
	store := memory.NewStore()
	stock := inventory.NewStockUseCase(store.Products(), store.Movements())
	published := &capture{}
	return &env{
		store:      store,
		stock:      stock,
		products:   usecase.NewProductUseCase(store.Products(), store.Categories(), store, stock, published),
		categories: usecase.NewCategoryUseCase(store.Categories()),
		published:  published,
	}
}

func (e *env) category(t *testing.T, name string) string {
	t.Helper()
	out, err := e.categories.Create(context.Background(), userID, dto.CreateCategoryRequest{Name: name, Description: name})
	require.NoError(t, err)
	return out.ID
}

func newProduct(sku, categoryID string, stock int) dto.CreateProductRequest {
	price := decimal.NewFromInt(10)
	cost := decimal.NewFromInt(6)
	return dto.CreateProductRequest{
		Name: "Producto " + sku, Description: "desc", SKU: sku, CategoryID: categoryID,
		Price: &price, CostPrice: &cost, StockQuantity: &stock,
	}
}

func intPtr(n int) *int { return &n }

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestProductCreate_RegistraStockInicial(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	out, err := e.products.Create(ctx, userID, newProduct("SKU-1", e.category(t, "Cables"), 8))
	require.NoError(t, err)

	assert.Equal(t, 8, out.StockQuantity)
	assert.Equal(t, entity.DefaultLowStockThreshold, out.LowStockThreshold)
	assert.True(t, out.IsActive)
	require.NotNil(t, out.Category)
	assert.Equal(t, "Cables", out.Category.Name)

	detail, err := e.products.Get(ctx, userID, out.ID)
	require.NoError(t, err)
	require.Len(t, detail.StockMovements, 1)
	assert.Equal(t, entity.MovementTypeIn, detail.StockMovements[0].Type)
	assert.Equal(t, 8, detail.StockMovements[0].Quantity)
	assert.Equal(t, entity.ReasonInitialStock, detail.StockMovements[0].Reason)

	require.Len(t, e.published.events, 1)
	assert.Equal(t, 8, e.published.events[0].Delta)
}

func TestProductCreate_SinStockNoCreaMovimiento(t *testing.T) {
	e := newEnv()
	out, err := e.products.Create(context.Background(), userID, newProduct("SKU-1", e.category(t, "Cables"), 0))
	require.NoError(t, err)

	movs, err := e.store.Movements().ListByProduct(context.Background(), out.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, movs)
	assert.Empty(t, e.published.events)
}

func TestProductCreate_Validaciones(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	cat := e.category(t, "Cables")
	_, err := e.products.Create(ctx, userID, newProduct("SKU-1", cat, 1))
	require.NoError(t, err)

	_, err = e.products.Create(ctx, userID, newProduct("SKU-1", cat, 1))
	assert.ErrorIs(t, err, domain.ErrDuplicate, "SKU repetido")

	_, err = e.products.Create(ctx, userID, newProduct("SKU-2", "otra", 1))
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "categoría inexistente")

	_, err = e.products.Create(ctx, "user-2", newProduct("SKU-3", cat, 1))
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "categoría de otro usuario")

	in := newProduct("SKU-4", cat, 1)
	in.StockQuantity = intPtr(-1)
	_, err = e.products.Create(ctx, userID, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "stock negativo")

	in = newProduct("SKU-5", cat, 1)
	in.Price = nil
	_, err = e.products.Create(ctx, userID, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "precio obligatorio")
}

// ──────────────────────────────────────────────────────────────────────────────
// Update
// ──────────────────────────────────────────────────────────────────────────────

func TestProductUpdate_AjusteDejaMovimiento(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	p, err := e.products.Create(ctx, userID, newProduct("SKU-1", e.category(t, "Cables"), 10))
	require.NoError(t, err)

	out, err := e.products.Update(ctx, userID, p.ID, dto.UpdateProductRequest{StockQuantity: intPtr(4)})
	require.NoError(t, err)
	assert.Equal(t, 4, out.StockQuantity)

	_, err = e.products.Update(ctx, userID, p.ID, dto.UpdateProductRequest{StockQuantity: intPtr(7)})
	require.NoError(t, err)

	ledger, err := e.stock.Ledger(ctx, userID, p.ID)
	require.NoError(t, err)
	require.Len(t, ledger.Movements, 3)
	assert.Equal(t, entity.MovementTypeIn, ledger.Movements[0].Type)
	assert.Equal(t, 3, ledger.Movements[0].Quantity)
	assert.Equal(t, entity.MovementTypeOut, ledger.Movements[1].Type)
	assert.Equal(t, 6, ledger.Movements[1].Quantity)
	assert.Equal(t, entity.ReasonStockAdjustment, ledger.Movements[1].Reason)
	assert.True(t, ledger.Consistent, "stock %d, libro %d", ledger.StockQuantity, ledger.LedgerBalance)
	assert.Equal(t, 7, ledger.LedgerBalance)
}

func TestProductUpdate_MismoStockNoRegistra(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	p, err := e.products.Create(ctx, userID, newProduct("SKU-1", e.category(t, "Cables"), 5))
	require.NoError(t, err)

	name := "Nuevo nombre"
	out, err := e.products.Update(ctx, userID, p.ID, dto.UpdateProductRequest{Name: &name, StockQuantity: intPtr(5)})
	require.NoError(t, err)
	assert.Equal(t, name, out.Name)

	movs, err := e.store.Movements().ListByProduct(ctx, p.ID, 0)
	require.NoError(t, err)
	assert.Len(t, movs, 1)
}

func TestProductUpdate_FalloRevierteAjuste(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	cat := e.category(t, "Cables")
	_, err := e.products.Create(ctx, userID, newProduct("SKU-1", cat, 5))
	require.NoError(t, err)
	p, err := e.products.Create(ctx, userID, newProduct("SKU-2", cat, 5))
	require.NoError(t, err)

	taken := "SKU-1"
	_, err = e.products.Update(ctx, userID, p.ID, dto.UpdateProductRequest{SKU: &taken, StockQuantity: intPtr(1)})
	require.ErrorIs(t, err, domain.ErrDuplicate)

	ledger, err := e.stock.Ledger(ctx, userID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, ledger.StockQuantity, "el stock no cambia")
	assert.Len(t, ledger.Movements, 1, "no queda movimiento huérfano")
}

func TestProductUpdate_StockNegativoYAjeno(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	p, err := e.products.Create(ctx, userID, newProduct("SKU-1", e.category(t, "Cables"), 5))
	require.NoError(t, err)

	_, err = e.products.Update(ctx, userID, p.ID, dto.UpdateProductRequest{StockQuantity: intPtr(-3)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = e.products.Update(ctx, "user-2", p.ID, dto.UpdateProductRequest{StockQuantity: intPtr(1)})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Delete / List / LowStock
// ──────────────────────────────────────────────────────────────────────────────

func TestProductDelete_EsLogico(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	cat := e.category(t, "Cables")
	p, err := e.products.Create(ctx, userID, newProduct("SKU-1", cat, 5))
	require.NoError(t, err)

	require.NoError(t, e.products.Delete(ctx, userID, p.ID))
	assert.ErrorIs(t, e.products.Delete(ctx, userID, p.ID), domain.ErrNotFound)

	list, err := e.products.List(ctx, userID, dto.ProductListRequest{})
	require.NoError(t, err)
	assert.Empty(t, list.Products, "el listado solo muestra activos")

	ledger, err := e.stock.Ledger(ctx, userID, p.ID)
	require.NoError(t, err, "el libro sigue disponible")
	assert.Len(t, ledger.Movements, 1)
}

func TestProductList_BusquedaYCategoria(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	cables := e.category(t, "Cables")
	libros := e.category(t, "Libros")
	for _, in := range []dto.CreateProductRequest{
		newProduct("USB-C", cables, 1),
		newProduct("HDMI", cables, 1),
		newProduct("NOVELA", libros, 1),
	} {
		_, err := e.products.Create(ctx, userID, in)
		require.NoError(t, err)
	}

	out, err := e.products.List(ctx, userID, dto.ProductListRequest{Category: cables})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Pagination.Total)

	out, err = e.products.List(ctx, userID, dto.ProductListRequest{Category: "all", Search: "hdmi"})
	require.NoError(t, err)
	require.Len(t, out.Products, 1)
	assert.Equal(t, "HDMI", out.Products[0].SKU)
}

func TestProductLowStock(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	cat := e.category(t, "Cables")
	low := newProduct("BAJO", cat, 2)
	low.LowStockThreshold = intPtr(5)
	_, err := e.products.Create(ctx, userID, low)
	require.NoError(t, err)
	ok := newProduct("OK", cat, 50)
	ok.LowStockThreshold = intPtr(5)
	_, err = e.products.Create(ctx, userID, ok)
	require.NoError(t, err)

	out, err := e.products.LowStock(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, 1, out.Count)
	assert.Equal(t, "BAJO", out.Products[0].SKU)
	assert.True(t, out.Products[0].IsLowStock)
}

// ──────────────────────────────────────────────────────────────────────────────
// Categorías
// ──────────────────────────────────────────────────────────────────────────────

func TestCategoryDelete_ConProductosSeBloquea(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	cat := e.category(t, "Cables")
	for _, sku := range []string{"A", "B"} {
		_, err := e.products.Create(ctx, userID, newProduct(sku, cat, 1))
		require.NoError(t, err)
	}

	err := e.categories.Delete(ctx, userID, cat)
	var deps *domain.DependentsError
	require.True(t, errors.As(err, &deps), "debe ser DependentsError, obtenido %v", err)
	assert.Equal(t, domain.ResourceProducts, deps.Resource)
	assert.Equal(t, 2, deps.Count)
	assert.ErrorIs(t, err, domain.ErrHasDependents)

	empty := e.category(t, "Vacía")
	require.NoError(t, e.categories.Delete(ctx, userID, empty))
	_, err = e.categories.Get(ctx, userID, empty)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCategoryCreate_NombreUnicoPorUsuario(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	first, err := e.categories.Create(ctx, userID, dto.CreateCategoryRequest{Name: "Cables", Description: "x"})
	require.NoError(t, err)
	assert.Equal(t, entity.DefaultCategoryColor, first.Color)

	_, err = e.categories.Create(ctx, userID, dto.CreateCategoryRequest{Name: "Cables", Description: "y"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = e.categories.Create(ctx, "user-2", dto.CreateCategoryRequest{Name: "Cables", Description: "y"})
	assert.NoError(t, err)
}

func TestCategoryList_ConteoDeProductos(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	cat := e.category(t, "Cables")
	_, err := e.products.Create(ctx, userID, newProduct("A", cat, 1))
	require.NoError(t, err)

	out, err := e.categories.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, out.Categories, 1)
	assert.Equal(t, 1, out.Categories[0].ProductCount)
}
