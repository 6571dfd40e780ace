// Package analytics agrega ventas e inventario en memoria a partir de filas ya cargadas.
package analytics

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockbill-api/internal/domain/entity"
)

// ItemRecord línea de factura con los nombres de producto y categoría resueltos.
type ItemRecord struct {
	ProductID    string
	ProductName  string
	CategoryID   string
	CategoryName string
	Quantity     int
	Total        decimal.Decimal
}

// InvoiceRecord factura con su cliente y sus líneas, tal como la entrega el repositorio.
type InvoiceRecord struct {
	Invoice      entity.Invoice
	CustomerName string
	Items        []ItemRecord
}
