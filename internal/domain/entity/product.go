package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultLowStockThreshold umbral usado cuando el producto se crea sin uno.
const DefaultLowStockThreshold = 10

// Product representa un producto del inventario de un usuario.
// StockQuantity es la fuente de verdad; cada cambio deja un StockMovement en la misma transacción.
type Product struct {
	ID                string
	UserID            string
	CategoryID        string
	Name              string
	Description       string
	SKU               string // único global
	Price             decimal.Decimal
	CostPrice         decimal.Decimal
	StockQuantity     int
	LowStockThreshold int
	Supplier          string
	IsActive          bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsLowStock indica si el stock está en o por debajo del umbral.
func (p *Product) IsLowStock() bool {
	return p.StockQuantity <= p.LowStockThreshold
}

// InventoryValue precio de venta por unidades en stock.
func (p *Product) InventoryValue() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(p.StockQuantity)))
}
