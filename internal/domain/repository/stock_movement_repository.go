package repository

import (
	"context"

	"github.com/jhoicas/stockbill-api/internal/domain/entity"
)

// StockMovementRepository puerto del libro de movimientos (solo inserción y lectura).
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	// ListByProduct devuelve los movimientos más recientes primero. limit 0 = todos.
	ListByProduct(ctx context.Context, productID string, limit int) ([]*entity.StockMovement, error)
}
