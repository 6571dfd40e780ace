package dto

import "github.com/shopspring/decimal"

// AnalyticsRequest query params de GET /api/analytics. "all" equivale a sin filtro.
type AnalyticsRequest struct {
	DateFrom string `query:"date_from"`
	DateTo   string `query:"date_to"`
	Category string `query:"category"`
	Customer string `query:"customer"`
}

// AnalyticsResponse resultado de la analítica de ventas.
type AnalyticsResponse struct {
	TotalSales          decimal.Decimal            `json:"total_sales"`
	TotalInvoices       int                        `json:"total_invoices"`
	AverageOrderValue   decimal.Decimal            `json:"average_order_value"`
	TotalTax            decimal.Decimal            `json:"total_tax"`
	TotalDiscount       decimal.Decimal            `json:"total_discount"`
	SalesByStatus       map[string]decimal.Decimal `json:"sales_by_status"`
	TopProducts         []ProductSalesDTO          `json:"top_products"`
	TopCustomers        []CustomerSalesDTO         `json:"top_customers"`
	CategoryPerformance []CategorySalesDTO         `json:"category_performance"`
	DailySales          []DailySalesDTO            `json:"daily_sales"`
	DateRange           DateRangeDTO               `json:"date_range"`
	Filters             AnalyticsFiltersDTO        `json:"filters"`
}

// ProductSalesDTO ventas de un producto.
type ProductSalesDTO struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
	Category  string          `json:"category"`
}

// CustomerSalesDTO gasto de un cliente.
type CustomerSalesDTO struct {
	CustomerID   string          `json:"customer_id"`
	Name         string          `json:"name"`
	TotalSpent   decimal.Decimal `json:"total_spent"`
	InvoiceCount int             `json:"invoice_count"`
}

// CategorySalesDTO desempeño de una categoría.
type CategorySalesDTO struct {
	CategoryID string          `json:"category_id"`
	Name       string          `json:"name"`
	Revenue    decimal.Decimal `json:"revenue"`
	Quantity   int             `json:"quantity"`
}

// DailySalesDTO ventas de un día (UTC).
type DailySalesDTO struct {
	Date     string          `json:"date"`
	Sales    decimal.Decimal `json:"sales"`
	Invoices int             `json:"invoices"`
}

// DateRangeDTO eco del rango solicitado.
type DateRangeDTO struct {
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

// AnalyticsFiltersDTO eco de los filtros solicitados.
type AnalyticsFiltersDTO struct {
	Category string `json:"category,omitempty"`
	Customer string `json:"customer,omitempty"`
}
