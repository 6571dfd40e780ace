package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockbill-api/internal/application/analytics"
	"github.com/jhoicas/stockbill-api/internal/application/billing"
	"github.com/jhoicas/stockbill-api/internal/application/dto"
	"github.com/jhoicas/stockbill-api/internal/application/inventory"
	"github.com/jhoicas/stockbill-api/internal/application/usecase"
	"github.com/jhoicas/stockbill-api/internal/domain"
	"github.com/jhoicas/stockbill-api/internal/domain/entity"
	"github.com/jhoicas/stockbill-api/internal/infrastructure/memory"
)

const userID = "user-1"

type shop struct {
	store     *memory.Store
	dashboard *analytics.DashboardUseCase
	analytics *analytics.AnalyticsUseCase
	invoices  *billing.InvoiceUseCase
	products  map[string]string
	customer  string
	category  string
}

// newShop crea dos productos (A: 10 x 5 uds, B: 3 x 1 ud con umbral 2) y un cliente.
func newShop(t *testing.T) *shop {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	stock := inventory.NewStockUseCase(store.Products(), store.Movements())
	productUC := usecase.NewProductUseCase(store.Products(), store.Categories(), store, stock, nil)

	cat, err := usecase.NewCategoryUseCase(store.Categories()).Create(ctx, userID, dto.CreateCategoryRequest{Name: "Cables", Description: "x"})
	require.NoError(t, err)
	cust, err := billing.NewCustomerUseCase(store.Customers(), store.Invoices()).Create(ctx, userID, dto.CreateCustomerRequest{Name: "Ana"})
	require.NoError(t, err)

	s := &shop{
		store:     store,
		dashboard: analytics.NewDashboardUseCase(store.Products(), store.Categories(), store.Customers(), store.Invoices()),
		analytics: analytics.NewAnalyticsUseCase(store.Invoices()),
		invoices:  billing.NewInvoiceUseCase(store, stock, store.Invoices(), nil),
		products:  map[string]string{},
		customer:  cust.ID,
		category:  cat.ID,
	}
	for _, p := range []struct {
		sku              string
		price            int64
		stock, threshold int
	}{{"A", 10, 5, 1}, {"B", 3, 1, 2}} {
		price := decimal.NewFromInt(p.price)
		stock, threshold := p.stock, p.threshold
		out, err := productUC.Create(ctx, userID, dto.CreateProductRequest{
			Name: p.sku, Description: p.sku, SKU: p.sku, CategoryID: cat.ID,
			Price: &price, CostPrice: &price, StockQuantity: &stock, LowStockThreshold: &threshold,
		})
		require.NoError(t, err)
		s.products[p.sku] = out.ID
	}
	return s
}

func (s *shop) sell(t *testing.T, sku string, qty int) *dto.InvoiceResponse {
	t.Helper()
	out, err := s.invoices.Create(context.Background(), userID, dto.CreateInvoiceRequest{
		CustomerID: s.customer,
		Items:      []dto.InvoiceItemRequest{{ProductID: s.products[sku], Quantity: qty}},
	})
	require.NoError(t, err)
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Dashboard
// ──────────────────────────────────────────────────────────────────────────────

func TestDashboard_ValorDeInventarioYAlertas(t *testing.T) {
	s := newShop(t)

	out, err := s.dashboard.GetSummary(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 2, out.TotalProducts)
	assert.Equal(t, 1, out.TotalCategories)
	assert.Equal(t, 1, out.TotalCustomers)
	assert.Equal(t, 6, out.TotalStockQuantity)
	assert.True(t, decimal.NewFromInt(53).Equal(out.TotalInventoryValue), "10·5 + 3·1 = 53, obtenido %s", out.TotalInventoryValue)
	assert.Equal(t, 1, out.LowStockProducts)
	require.Len(t, out.LowStockItems, 1)
	assert.Equal(t, "Cables", out.LowStockItems[0].Category)
	assert.Zero(t, out.TotalInvoices)
	assert.True(t, out.TotalSales.IsZero())
}

func TestDashboard_VentasYEstados(t *testing.T) {
	s := newShop(t)
	ctx := context.Background()
	first := s.sell(t, "A", 2)
	s.sell(t, "A", 1)
	_, err := s.invoices.UpdateStatus(ctx, userID, first.ID, dto.UpdateInvoiceStatusRequest{Status: entity.InvoiceStatusPaid})
	require.NoError(t, err)

	out, err := s.dashboard.GetSummary(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 2, out.TotalInvoices)
	assert.Equal(t, 1, out.PaidInvoices)
	assert.Equal(t, 1, out.PendingInvoices)
	assert.True(t, decimal.NewFromInt(30).Equal(out.TotalSales))
	assert.Len(t, out.RecentInvoices, 2)
	assert.True(t, decimal.NewFromInt(23).Equal(out.TotalInventoryValue), "quedan 2 de A y 1 de B")
}

// ──────────────────────────────────────────────────────────────────────────────
// Analytics
// ──────────────────────────────────────────────────────────────────────────────

func TestAnalytics_SinFacturasTicketPromedioCero(t *testing.T) {
	s := newShop(t)
	out, err := s.analytics.GetReport(context.Background(), userID, dto.AnalyticsRequest{DateFrom: "all", Customer: "all", Category: "all"})
	require.NoError(t, err)
	assert.Zero(t, out.TotalInvoices)
	assert.True(t, out.AverageOrderValue.IsZero())
	assert.Empty(t, out.TopProducts)
}

func TestAnalytics_TotalesYTopProductos(t *testing.T) {
	s := newShop(t)
	s.sell(t, "A", 3)
	s.sell(t, "B", 1)

	out, err := s.analytics.GetReport(context.Background(), userID, dto.AnalyticsRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, out.TotalInvoices)
	assert.True(t, decimal.NewFromInt(33).Equal(out.TotalSales))
	assert.True(t, decimal.RequireFromString("16.5").Equal(out.AverageOrderValue))
	require.NotEmpty(t, out.TopProducts)
	assert.Equal(t, s.products["A"], out.TopProducts[0].ProductID)
	require.Len(t, out.TopCustomers, 1)
	assert.Equal(t, 2, out.TopCustomers[0].InvoiceCount)
}

func TestAnalytics_RangoDeFechas(t *testing.T) {
	s := newShop(t)
	s.sell(t, "A", 1)
	today := time.Now().UTC().Format("2006-01-02")

	out, err := s.analytics.GetReport(context.Background(), userID, dto.AnalyticsRequest{DateFrom: today, DateTo: today})
	require.NoError(t, err)
	assert.Equal(t, 1, out.TotalInvoices, "date_to sin hora incluye todo el día")

	tomorrow := time.Now().UTC().AddDate(0, 0, 1).Format("2006-01-02")
	out, err = s.analytics.GetReport(context.Background(), userID, dto.AnalyticsRequest{DateFrom: tomorrow})
	require.NoError(t, err)
	assert.Zero(t, out.TotalInvoices)

	_, err = s.analytics.GetReport(context.Background(), userID, dto.AnalyticsRequest{DateFrom: tomorrow, DateTo: today})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = s.analytics.GetReport(context.Background(), userID, dto.AnalyticsRequest{DateFrom: "ayer"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
