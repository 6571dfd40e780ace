package analytics_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockbill-api/internal/domain/analytics"
	"github.com/jhoicas/stockbill-api/internal/domain/entity"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func invoice(id, customerID, status, total string, created time.Time, items ...analytics.ItemRecord) analytics.InvoiceRecord {
	return analytics.InvoiceRecord{
		Invoice: entity.Invoice{
			ID: id, CustomerID: customerID, Status: status,
			TotalAmount: d(total), TaxAmount: d("1"), Discount: d("0.5"),
			CreatedAt: created,
		},
		CustomerName: "Cliente " + customerID,
		Items:        items,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Dashboard
// ──────────────────────────────────────────────────────────────────────────────

func TestBuildDashboard_ValorInventarioSoloProductosActivos(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	products := []*entity.Product{
		{ID: "p1", Name: "A", CategoryID: "c1", Price: d("10.50"), StockQuantity: 4, LowStockThreshold: 5, IsActive: true},
		{ID: "p2", Name: "B", CategoryID: "c1", Price: d("3"), StockQuantity: 100, LowStockThreshold: 10, IsActive: true},
		{ID: "p3", Name: "C", CategoryID: "c2", Price: d("7"), StockQuantity: 0, LowStockThreshold: 0, IsActive: true},
	}
	expected := decimal.Zero
	for _, p := range products {
		expected = expected.Add(p.Price.Mul(decimal.NewFromInt(int64(p.StockQuantity))))
	}

	got := analytics.BuildDashboard(analytics.DashboardInput{
		Products:      products,
		CategoryNames: map[string]string{"c1": "Electrónica", "c2": "Libros"},
		CategoryCount: 2,
		CustomerCount: 1,
		Now:           now,
	})

	assert.True(t, got.TotalInventoryValue.Equal(expected), "valor %s, esperado %s", got.TotalInventoryValue, expected)
	assert.Equal(t, 104, got.TotalStockQuantity)
	assert.Equal(t, 3, got.TotalProducts)
	require.Equal(t, 2, got.LowStockProducts, "p1 (4<=5) y p3 (0<=0) están en stock bajo")
	assert.Equal(t, "p3", got.LowStockItems[0].ID, "ordenado por stock ascendente")
	assert.Equal(t, "Electrónica", got.LowStockItems[1].Category)
}

func TestBuildDashboard_VentasYEstados(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	var invs []analytics.InvoiceRecord
	for i := 0; i < 7; i++ {
		status := entity.InvoiceStatusPending
		if i%2 == 0 {
			status = entity.InvoiceStatusPaid
		}
		invs = append(invs, invoice(string(rune('a'+i)), "c1", status, "10", now.Add(-time.Duration(i)*time.Hour)))
	}

	got := analytics.BuildDashboard(analytics.DashboardInput{Invoices: invs, Now: now})

	assert.True(t, got.TotalSales.Equal(d("70")))
	assert.Equal(t, 4, got.PaidInvoices)
	assert.Equal(t, 3, got.PendingInvoices)
	require.Len(t, got.RecentInvoices, 5)
	assert.Equal(t, "a", got.RecentInvoices[0].Invoice.ID, "la más reciente primero")
}

func TestMonthlySales_CubetasPorMesCalendario(t *testing.T) {
	now := time.Date(2026, 3, 31, 10, 0, 0, 0, time.UTC)
	invs := []analytics.InvoiceRecord{
		invoice("1", "c", entity.InvoiceStatusPaid, "5", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)),
		invoice("2", "c", entity.InvoiceStatusPaid, "7", time.Date(2026, 2, 28, 23, 0, 0, 0, time.UTC)),
		invoice("3", "c", entity.InvoiceStatusPaid, "9", time.Date(2025, 10, 2, 0, 0, 0, 0, time.UTC)),
		invoice("4", "c", entity.InvoiceStatusPaid, "100", time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC)),
		invoice("5", "c", entity.InvoiceStatusPaid, "100", time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)),
	}

	got := analytics.MonthlySales(invs, now, 6)

	require.Len(t, got, 6)
	assert.Equal(t, "Oct 2025", got[0].Month)
	assert.Equal(t, "Mar 2026", got[5].Month)
	assert.True(t, got[0].Sales.Equal(d("9")))
	assert.True(t, got[4].Sales.Equal(d("7")))
	assert.True(t, got[5].Sales.Equal(d("5")), "marzo del año anterior no cuenta")
	assert.Equal(t, 1, got[5].Invoices)
}

// ──────────────────────────────────────────────────────────────────────────────
// Analítica
// ──────────────────────────────────────────────────────────────────────────────

func TestBuildReport_SinFacturasPromedioCero(t *testing.T) {
	rep := analytics.BuildReport(nil, nil, time.Now())
	assert.True(t, rep.AverageOrderValue.IsZero())
	assert.Equal(t, 0, rep.TotalInvoices)
	assert.Len(t, rep.SalesByStatus, 4, "todos los estados presentes")
	assert.Len(t, rep.DailySales, 30)
}

func TestBuildReport_PromedioYRankings(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	laptop := analytics.ItemRecord{ProductID: "p1", ProductName: "Laptop", CategoryID: "c1", CategoryName: "Electrónica", Quantity: 1, Total: d("900")}
	book := analytics.ItemRecord{ProductID: "p2", ProductName: "Libro", CategoryID: "c2", CategoryName: "Libros", Quantity: 3, Total: d("60")}
	invs := []analytics.InvoiceRecord{
		invoice("1", "x", entity.InvoiceStatusPaid, "900", now, laptop),
		invoice("2", "y", entity.InvoiceStatusPending, "60", now.AddDate(0, 0, -1), book),
		invoice("3", "y", entity.InvoiceStatusPending, "40", now.AddDate(0, 0, -40), book),
	}

	rep := analytics.BuildReport(invs, invs, now)

	assert.True(t, rep.TotalSales.Equal(d("1000")))
	assert.True(t, rep.AverageOrderValue.Equal(rep.TotalSales.Div(decimal.NewFromInt(3))))
	assert.True(t, rep.TotalTax.Equal(d("3")))
	assert.True(t, rep.TotalDiscount.Equal(d("1.5")))
	assert.True(t, rep.SalesByStatus[entity.InvoiceStatusPending].Equal(d("100")))

	require.Len(t, rep.TopProducts, 2)
	assert.Equal(t, "Laptop", rep.TopProducts[0].Name)
	assert.Equal(t, 6, rep.TopProducts[1].Quantity)

	require.Len(t, rep.TopCustomers, 2)
	assert.Equal(t, "x", rep.TopCustomers[0].CustomerID)
	assert.Equal(t, 2, rep.TopCustomers[1].InvoiceCount)

	require.Len(t, rep.CategoryPerformance, 2)
	assert.Equal(t, "Electrónica", rep.CategoryPerformance[0].Name)

	last := rep.DailySales[len(rep.DailySales)-1]
	assert.Equal(t, "2026-03-15", last.Date)
	assert.Equal(t, 1, last.Invoices)
	total := 0
	for _, day := range rep.DailySales {
		total += day.Invoices
	}
	assert.Equal(t, 2, total, "la factura de hace 40 días queda fuera de la serie")
}

func TestFilterByCategory(t *testing.T) {
	now := time.Now()
	a := analytics.ItemRecord{ProductID: "p1", CategoryID: "c1", Quantity: 1, Total: d("10")}
	b := analytics.ItemRecord{ProductID: "p2", CategoryID: "c2", Quantity: 1, Total: d("20")}
	invs := []analytics.InvoiceRecord{
		invoice("1", "x", entity.InvoiceStatusPaid, "30", now, a, b),
		invoice("2", "x", entity.InvoiceStatusPaid, "20", now, b),
	}

	got := analytics.FilterByCategory(invs, "c1")
	require.Len(t, got, 1)
	assert.Len(t, got[0].Items, 1)
	assert.Len(t, invs[0].Items, 2, "no modifica la entrada")
	assert.Len(t, analytics.FilterByCategory(invs, ""), 2)
}
