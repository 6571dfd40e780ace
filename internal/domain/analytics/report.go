package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockbill-api/internal/domain/entity"
)

const (
	topLimit    = 10
	dailyWindow = 30
)

// ProductSales ventas acumuladas de un producto.
type ProductSales struct {
	ProductID string
	Name      string
	Quantity  int
	Revenue   decimal.Decimal
	Category  string
}

// CustomerSales gasto acumulado de un cliente.
type CustomerSales struct {
	CustomerID   string
	Name         string
	TotalSpent   decimal.Decimal
	InvoiceCount int
}

// CategorySales desempeño de una categoría.
type CategorySales struct {
	CategoryID string
	Name       string
	Revenue    decimal.Decimal
	Quantity   int
}

// DaySales ventas de un día calendario (UTC).
type DaySales struct {
	Date     string // YYYY-MM-DD
	Sales    decimal.Decimal
	Invoices int
}

// Report resultado de la analítica de ventas.
type Report struct {
	TotalSales          decimal.Decimal
	TotalInvoices       int
	AverageOrderValue   decimal.Decimal
	TotalTax            decimal.Decimal
	TotalDiscount       decimal.Decimal
	SalesByStatus       map[string]decimal.Decimal
	TopProducts         []ProductSales
	TopCustomers        []CustomerSales
	CategoryPerformance []CategorySales
	DailySales          []DaySales
}

// FilterByCategory conserva las facturas con al menos una línea de la categoría y
// deja en ellas solo esas líneas. categoryID vacío no filtra.
func FilterByCategory(invoices []InvoiceRecord, categoryID string) []InvoiceRecord {
	if categoryID == "" {
		return invoices
	}
	out := make([]InvoiceRecord, 0, len(invoices))
	for _, r := range invoices {
		var items []ItemRecord
		for _, it := range r.Items {
			if it.CategoryID == categoryID {
				items = append(items, it)
			}
		}
		if len(items) == 0 {
			continue
		}
		r.Items = items
		out = append(out, r)
	}
	return out
}

// BuildReport agrega las facturas filtradas. recent alimenta la serie diaria de los últimos 30 días.
func BuildReport(invoices, recent []InvoiceRecord, now time.Time) Report {
	rep := Report{
		TotalInvoices: len(invoices),
		SalesByStatus: make(map[string]decimal.Decimal, len(entity.InvoiceStatuses)),
	}
	for _, st := range entity.InvoiceStatuses {
		rep.SalesByStatus[st] = decimal.Zero
	}

	products := map[string]*ProductSales{}
	customers := map[string]*CustomerSales{}
	categories := map[string]*CategorySales{}

	for _, r := range invoices {
		inv := r.Invoice
		rep.TotalSales = rep.TotalSales.Add(inv.TotalAmount)
		rep.TotalTax = rep.TotalTax.Add(inv.TaxAmount)
		rep.TotalDiscount = rep.TotalDiscount.Add(inv.Discount)
		rep.SalesByStatus[inv.Status] = rep.SalesByStatus[inv.Status].Add(inv.TotalAmount)

		cs, ok := customers[inv.CustomerID]
		if !ok {
			cs = &CustomerSales{CustomerID: inv.CustomerID, Name: r.CustomerName}
			customers[inv.CustomerID] = cs
		}
		cs.TotalSpent = cs.TotalSpent.Add(inv.TotalAmount)
		cs.InvoiceCount++

		for _, it := range r.Items {
			ps, ok := products[it.ProductID]
			if !ok {
				ps = &ProductSales{ProductID: it.ProductID, Name: it.ProductName, Category: it.CategoryName}
				products[it.ProductID] = ps
			}
			ps.Quantity += it.Quantity
			ps.Revenue = ps.Revenue.Add(it.Total)

			cat, ok := categories[it.CategoryID]
			if !ok {
				cat = &CategorySales{CategoryID: it.CategoryID, Name: it.CategoryName}
				categories[it.CategoryID] = cat
			}
			cat.Quantity += it.Quantity
			cat.Revenue = cat.Revenue.Add(it.Total)
		}
	}

	if rep.TotalInvoices > 0 {
		rep.AverageOrderValue = rep.TotalSales.Div(decimal.NewFromInt(int64(rep.TotalInvoices)))
	}

	rep.TopProducts = make([]ProductSales, 0, len(products))
	for _, p := range products {
		rep.TopProducts = append(rep.TopProducts, *p)
	}
	sort.Slice(rep.TopProducts, func(i, j int) bool {
		a, b := rep.TopProducts[i], rep.TopProducts[j]
		if c := a.Revenue.Cmp(b.Revenue); c != 0 {
			return c > 0
		}
		return a.Name < b.Name
	})
	if len(rep.TopProducts) > topLimit {
		rep.TopProducts = rep.TopProducts[:topLimit]
	}

	rep.TopCustomers = make([]CustomerSales, 0, len(customers))
	for _, c := range customers {
		rep.TopCustomers = append(rep.TopCustomers, *c)
	}
	sort.Slice(rep.TopCustomers, func(i, j int) bool {
		a, b := rep.TopCustomers[i], rep.TopCustomers[j]
		if c := a.TotalSpent.Cmp(b.TotalSpent); c != 0 {
			return c > 0
		}
		return a.Name < b.Name
	})
	if len(rep.TopCustomers) > topLimit {
		rep.TopCustomers = rep.TopCustomers[:topLimit]
	}

	rep.CategoryPerformance = make([]CategorySales, 0, len(categories))
	for _, c := range categories {
		rep.CategoryPerformance = append(rep.CategoryPerformance, *c)
	}
	sort.Slice(rep.CategoryPerformance, func(i, j int) bool {
		a, b := rep.CategoryPerformance[i], rep.CategoryPerformance[j]
		if c := a.Revenue.Cmp(b.Revenue); c != 0 {
			return c > 0
		}
		return a.Name < b.Name
	})

	rep.DailySales = DailySales(recent, now, dailyWindow)
	return rep
}

// DailySales agrupa por fecha UTC (YYYY-MM-DD) los últimos n días, incluyendo hoy.
func DailySales(invoices []InvoiceRecord, now time.Time, n int) []DaySales {
	index := make(map[string]int, n)
	days := make([]DaySales, 0, n)
	for i := n - 1; i >= 0; i-- {
		key := now.UTC().AddDate(0, 0, -i).Format("2006-01-02")
		index[key] = len(days)
		days = append(days, DaySales{Date: key})
	}
	for _, r := range invoices {
		key := r.Invoice.CreatedAt.UTC().Format("2006-01-02")
		if i, ok := index[key]; ok {
			days[i].Sales = days[i].Sales.Add(r.Invoice.TotalAmount)
			days[i].Invoices++
		}
	}
	return days
}
