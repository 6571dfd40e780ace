package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockbill-api/internal/domain/entity"
)

const (
	recentInvoicesLimit = 5
	monthlyWindow       = 6
)

// DashboardInput filas del tenant necesarias para el resumen.
type DashboardInput struct {
	Products      []*entity.Product // solo activos
	CategoryNames map[string]string // categoryID -> nombre
	CategoryCount int
	CustomerCount int
	Invoices      []InvoiceRecord
	Now           time.Time
}

// LowStockItem producto en o por debajo de su umbral.
type LowStockItem struct {
	ID           string
	Name         string
	CurrentStock int
	Threshold    int
	Category     string
}

// MonthBucket ventas de un mes calendario.
type MonthBucket struct {
	Month    string // "Jan 2026"
	Sales    decimal.Decimal
	Invoices int
}

// Dashboard resumen calculado en una sola pasada.
type Dashboard struct {
	TotalProducts       int
	TotalCategories     int
	TotalCustomers      int
	TotalInvoices       int
	TotalInventoryValue decimal.Decimal
	TotalStockQuantity  int
	LowStockProducts    int
	LowStockItems       []LowStockItem
	TotalSales          decimal.Decimal
	PendingInvoices     int
	PaidInvoices        int
	RecentInvoices      []InvoiceRecord
	MonthlySales        []MonthBucket
}

// BuildDashboard calcula el resumen del tenant.
func BuildDashboard(in DashboardInput) Dashboard {
	out := Dashboard{
		TotalProducts:   len(in.Products),
		TotalCategories: in.CategoryCount,
		TotalCustomers:  in.CustomerCount,
		TotalInvoices:   len(in.Invoices),
		LowStockItems:   []LowStockItem{},
	}

	for _, p := range in.Products {
		out.TotalInventoryValue = out.TotalInventoryValue.Add(p.InventoryValue())
		out.TotalStockQuantity += p.StockQuantity
		if p.IsLowStock() {
			out.LowStockItems = append(out.LowStockItems, LowStockItem{
				ID:           p.ID,
				Name:         p.Name,
				CurrentStock: p.StockQuantity,
				Threshold:    p.LowStockThreshold,
				Category:     in.CategoryNames[p.CategoryID],
			})
		}
	}
	sort.SliceStable(out.LowStockItems, func(i, j int) bool {
		return out.LowStockItems[i].CurrentStock < out.LowStockItems[j].CurrentStock
	})
	out.LowStockProducts = len(out.LowStockItems)

	for _, r := range in.Invoices {
		out.TotalSales = out.TotalSales.Add(r.Invoice.TotalAmount)
		switch r.Invoice.Status {
		case entity.InvoiceStatusPending:
			out.PendingInvoices++
		case entity.InvoiceStatusPaid:
			out.PaidInvoices++
		}
	}

	recent := make([]InvoiceRecord, len(in.Invoices))
	copy(recent, in.Invoices)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].Invoice.CreatedAt.After(recent[j].Invoice.CreatedAt)
	})
	if len(recent) > recentInvoicesLimit {
		recent = recent[:recentInvoicesLimit]
	}
	out.RecentInvoices = recent

	out.MonthlySales = MonthlySales(in.Invoices, in.Now, monthlyWindow)
	return out
}

// MonthlySales agrupa por mes calendario los últimos n meses, incluyendo el actual.
// La comparación es por mes y año, no por una ventana móvil de días.
func MonthlySales(invoices []InvoiceRecord, now time.Time, n int) []MonthBucket {
	buckets := make([]MonthBucket, 0, n)
	for i := n - 1; i >= 0; i-- {
		start := time.Date(now.Year(), now.Month()-time.Month(i), 1, 0, 0, 0, 0, now.Location())
		b := MonthBucket{Month: start.Format("Jan 2006")}
		for _, r := range invoices {
			created := r.Invoice.CreatedAt.In(now.Location())
			if created.Year() == start.Year() && created.Month() == start.Month() {
				b.Sales = b.Sales.Add(r.Invoice.TotalAmount)
				b.Invoices++
			}
		}
		buckets = append(buckets, b)
	}
	return buckets
}
