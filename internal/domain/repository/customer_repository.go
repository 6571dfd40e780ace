package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockbill-api/internal/domain/entity"
)

// CustomerFilter filtros del listado de clientes activos. Limit 0 = sin límite.
type CustomerFilter struct {
	UserID string
	Search string // name, email o phone
	Limit  int
	Offset int
}

// CustomerWithStats cliente con sus totales de facturación.
type CustomerWithStats struct {
	entity.Customer
	TotalInvoices int
	TotalSpent    decimal.Decimal
}

// CustomerRepository define el puerto de persistencia para Customer (facturación).
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, userID, id string) (*entity.Customer, error)
	GetActiveByEmail(ctx context.Context, userID, email string) (*entity.Customer, error)
	List(ctx context.Context, filter CustomerFilter) ([]*CustomerWithStats, int, error)
	CountActive(ctx context.Context, userID string) (int, error)
	Update(ctx context.Context, customer *entity.Customer) error
	Deactivate(ctx context.Context, userID, id string) error
}
