package repository

import (
	"context"

	"github.com/jhoicas/stockbill-api/internal/domain/entity"
)

// CategoryWithCount categoría con el número de productos que la referencian.
type CategoryWithCount struct {
	entity.Category
	ProductCount int
}

// CategoryRepository define el puerto de persistencia para Category.
// Los getters devuelven (nil, nil) si la fila no existe o no pertenece al usuario.
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, userID, id string) (*entity.Category, error)
	GetByName(ctx context.Context, userID, name string) (*entity.Category, error)
	ListByUser(ctx context.Context, userID string) ([]*CategoryWithCount, error)
	Update(ctx context.Context, category *entity.Category) error
	Delete(ctx context.Context, userID, id string) error
	// CountProducts cuenta todos los productos de la categoría, activos o no.
	CountProducts(ctx context.Context, categoryID string) (int, error)
}
