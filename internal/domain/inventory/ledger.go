// Package inventory contiene las reglas de stock y del libro de movimientos (servicio de dominio).
package inventory

import (
	"fmt"

	"github.com/jhoicas/stockbill-api/internal/domain"
	"github.com/jhoicas/stockbill-api/internal/domain/entity"
)

// SignedQuantity efecto del movimiento sobre el stock: IN suma, OUT resta, ADJUSTMENT trae su signo.
func SignedQuantity(m *entity.StockMovement) int {
	switch m.Type {
	case entity.MovementTypeIn:
		return m.Quantity
	case entity.MovementTypeOut:
		return -m.Quantity
	default:
		return m.Quantity
	}
}

// LedgerBalance suma con signo de todos los movimientos de un producto.
func LedgerBalance(movements []*entity.StockMovement) int {
	total := 0
	for _, m := range movements {
		total += SignedQuantity(m)
	}
	return total
}

// AdjustmentFor devuelve el tipo y la cantidad del movimiento que lleva el stock de current a target.
// ok es false cuando no hay diferencia.
func AdjustmentFor(current, target int) (movementType string, quantity int, ok bool) {
	delta := target - current
	switch {
	case delta > 0:
		return entity.MovementTypeIn, delta, true
	case delta < 0:
		return entity.MovementTypeOut, -delta, true
	}
	return "", 0, false
}

// Withdraw descuenta qty del producto. Nunca deja el stock en negativo.
func Withdraw(p *entity.Product, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("%w: la cantidad debe ser mayor a cero", domain.ErrInvalidInput)
	}
	if qty > p.StockQuantity {
		return &domain.InsufficientStockError{Product: p.Name, Available: p.StockQuantity, Requested: qty}
	}
	p.StockQuantity -= qty
	return nil
}

// Restock devuelve qty unidades al producto.
func Restock(p *entity.Product, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("%w: la cantidad debe ser mayor a cero", domain.ErrInvalidInput)
	}
	p.StockQuantity += qty
	return nil
}
