package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una factura.
const (
	InvoiceStatusPending   = "PENDING"
	InvoiceStatusPaid      = "PAID"
	InvoiceStatusCancelled = "CANCELLED"
	InvoiceStatusOverdue   = "OVERDUE"
)

// InvoiceStatuses lista los estados válidos en orden de presentación.
var InvoiceStatuses = []string{
	InvoiceStatusPending, InvoiceStatusPaid, InvoiceStatusCancelled, InvoiceStatusOverdue,
}

// IsValidInvoiceStatus valida un estado recibido desde la API.
func IsValidInvoiceStatus(s string) bool {
	for _, st := range InvoiceStatuses {
		if st == s {
			return true
		}
	}
	return false
}

// FormatInvoiceNo construye el número legible, ej: INV-0007.
func FormatInvoiceNo(seq int) string {
	return fmt.Sprintf("INV-%04d", seq)
}

// Invoice cabecera de factura. Los montos se derivan de las líneas al crearla.
type Invoice struct {
	ID          string
	UserID      string
	InvoiceNo   string
	CustomerID  string
	TotalAmount decimal.Decimal
	TaxAmount   decimal.Decimal
	Discount    decimal.Decimal
	Status      string
	DueDate     *time.Time
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// InvoiceItem línea de factura. Total es una foto al momento de facturar.
type InvoiceItem struct {
	ID        string
	InvoiceID string
	ProductID string
	Position  int // orden de la línea en la factura, desde 1
	Quantity  int
	UnitPrice decimal.Decimal
	Discount  decimal.Decimal
	Total     decimal.Decimal
	CreatedAt time.Time
}
