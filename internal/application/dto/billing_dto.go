package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateCustomerRequest body para POST /api/customers.
type CreateCustomerRequest struct {
	Name      string `json:"name" validate:"required,min=1,max=200"`
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	Notes     string `json:"notes"`
	PANNumber string `json:"pan_number"`
	VATNumber string `json:"vat_number"`
}

// UpdateCustomerRequest actualización parcial.
type UpdateCustomerRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=1,max=200"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Phone     *string `json:"phone"`
	Address   *string `json:"address"`
	Notes     *string `json:"notes"`
	PANNumber *string `json:"pan_number"`
	VATNumber *string `json:"vat_number"`
}

// CustomerListRequest query params de GET /api/customers.
type CustomerListRequest struct {
	PageRequest
	Search string `query:"search"`
}

// CustomerResponse cliente en respuestas, con sus totales de facturación.
type CustomerResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Email         string          `json:"email,omitempty"`
	Phone         string          `json:"phone,omitempty"`
	Address       string          `json:"address,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	PANNumber     string          `json:"pan_number,omitempty"`
	VATNumber     string          `json:"vat_number,omitempty"`
	IsActive      bool            `json:"is_active"`
	TotalInvoices int             `json:"total_invoices"`
	TotalSpent    decimal.Decimal `json:"total_spent"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// CustomerDetailResponse cliente con sus facturas.
type CustomerDetailResponse struct {
	CustomerResponse
	Invoices []InvoiceResponse `json:"invoices"`
}

// CustomerListResponse lista paginada de clientes.
type CustomerListResponse struct {
	Customers  []CustomerResponse `json:"customers"`
	Pagination Pagination         `json:"pagination"`
}

// CustomerMutationResponse respuesta de creación/actualización.
type CustomerMutationResponse struct {
	Message  string           `json:"message"`
	Customer CustomerResponse `json:"customer"`
}

// CustomerSummary datos del cliente embebidos en una factura.
type CustomerSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// CreateInvoiceRequest body para POST /api/invoices.
// DueDate acepta "2006-01-02" o RFC3339.
type CreateInvoiceRequest struct {
	CustomerID string               `json:"customer_id" validate:"required,uuid"`
	Items      []InvoiceItemRequest `json:"items" validate:"required,min=1,dive"`
	TaxAmount  decimal.Decimal      `json:"tax_amount" validate:"gte=0"`
	Discount   decimal.Decimal      `json:"discount" validate:"gte=0"`
	DueDate    string               `json:"due_date"`
	Notes      string               `json:"notes"`
}

// InvoiceItemRequest línea de factura. Sin unit_price se usa el precio actual del producto.
type InvoiceItemRequest struct {
	ProductID string           `json:"product_id" validate:"required,uuid"`
	Quantity  int              `json:"quantity" validate:"gt=0"`
	UnitPrice *decimal.Decimal `json:"unit_price" validate:"omitempty,gte=0"`
	Discount  decimal.Decimal  `json:"discount" validate:"gte=0"`
}

// UpdateInvoiceStatusRequest body para PUT /api/invoices/:id/status.
type UpdateInvoiceStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDING PAID CANCELLED OVERDUE"`
}

// InvoiceListRequest query params de GET /api/invoices.
type InvoiceListRequest struct {
	PageRequest
	Customer string `query:"customer"`
	Status   string `query:"status"`
	DateFrom string `query:"date_from"`
	DateTo   string `query:"date_to"`
}

// InvoiceResponse factura con cliente y líneas.
type InvoiceResponse struct {
	ID          string                `json:"id"`
	InvoiceNo   string                `json:"invoice_no"`
	CustomerID  string                `json:"customer_id"`
	Customer    *CustomerSummary      `json:"customer,omitempty"`
	TotalAmount decimal.Decimal       `json:"total_amount"`
	TaxAmount   decimal.Decimal       `json:"tax_amount"`
	Discount    decimal.Decimal       `json:"discount"`
	Status      string                `json:"status"`
	DueDate     *time.Time            `json:"due_date,omitempty"`
	Notes       string                `json:"notes,omitempty"`
	Items       []InvoiceItemResponse `json:"items"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// InvoiceItemResponse línea de detalle en la respuesta.
type InvoiceItemResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name,omitempty"`
	ProductSKU  string          `json:"product_sku,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Discount    decimal.Decimal `json:"discount"`
	Total       decimal.Decimal `json:"total"`
}

// InvoiceListResponse lista paginada de facturas.
type InvoiceListResponse struct {
	Invoices   []InvoiceResponse `json:"invoices"`
	Pagination Pagination        `json:"pagination"`
}

// InvoiceMutationResponse respuesta de creación/cambio de estado.
type InvoiceMutationResponse struct {
	Message string          `json:"message"`
	Invoice InvoiceResponse `json:"invoice"`
}
