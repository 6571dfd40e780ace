package entity

import "time"

// Tipos de movimiento de stock.
const (
	MovementTypeIn         = "IN"
	MovementTypeOut        = "OUT"
	MovementTypeAdjustment = "ADJUSTMENT"
)

// Motivos que escribe el sistema.
const (
	ReasonInitialStock        = "Initial stock"
	ReasonStockAdjustment     = "Stock adjustment"
	ReasonSale                = "Sale"
	ReasonInvoiceCancellation = "Invoice cancellation"
)

// StockMovement entrada del libro de movimientos (append-only).
// Quantity es positiva para IN/OUT; en ADJUSTMENT lleva su propio signo.
type StockMovement struct {
	ID        string
	UserID    string
	ProductID string
	Type      string
	Quantity  int
	Reason    string
	Reference string // número de factura u otra referencia
	CreatedAt time.Time
}
