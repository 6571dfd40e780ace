package repository

import (
	"context"

	"github.com/jhoicas/stockbill-api/internal/domain/entity"
)

// ProductFilter filtros del listado de productos. Limit 0 = sin límite.
type ProductFilter struct {
	UserID     string
	CategoryID string
	Search     string // coincide en name, description o sku (sin distinguir mayúsculas)
	Limit      int
	Offset     int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, userID, id string) (*entity.Product, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción (SELECT ... FOR UPDATE).
	GetForUpdate(ctx context.Context, userID, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	UpdateStock(ctx context.Context, productID string, quantity int) error
	Deactivate(ctx context.Context, userID, id string) error
	// List devuelve solo productos activos y el total sin paginar.
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, int, error)
	ListLowStock(ctx context.Context, userID string) ([]*entity.Product, error)
}
