package dto

import "github.com/shopspring/decimal"

// DashboardResponse respuesta de GET /api/dashboard.
type DashboardResponse struct {
	TotalProducts       int               `json:"total_products"`
	TotalCategories     int               `json:"total_categories"`
	TotalCustomers      int               `json:"total_customers"`
	TotalInvoices       int               `json:"total_invoices"`
	TotalInventoryValue decimal.Decimal   `json:"total_inventory_value"`
	TotalStockQuantity  int               `json:"total_stock_quantity"`
	LowStockProducts    int               `json:"low_stock_products"`
	LowStockItems       []LowStockItemDTO `json:"low_stock_items"`
	TotalSales          decimal.Decimal   `json:"total_sales"`
	PendingInvoices     int               `json:"pending_invoices"`
	PaidInvoices        int               `json:"paid_invoices"`
	RecentInvoices      []InvoiceResponse `json:"recent_invoices"`
	MonthlySales        []MonthlySalesDTO `json:"monthly_sales"`
}

// LowStockItemDTO producto en alerta dentro del dashboard.
type LowStockItemDTO struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	CurrentStock int    `json:"current_stock"`
	Threshold    int    `json:"threshold"`
	Category     string `json:"category"`
}

// MonthlySalesDTO ventas de un mes calendario.
type MonthlySalesDTO struct {
	Month    string          `json:"month"` // ej: "Jan 2026"
	Sales    decimal.Decimal `json:"sales"`
	Invoices int             `json:"invoices"`
}
