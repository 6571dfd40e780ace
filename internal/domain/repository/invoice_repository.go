package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stockbill-api/internal/domain/entity"
)

// InvoiceFilter filtros del listado de facturas. Limit 0 = sin límite.
type InvoiceFilter struct {
	UserID     string
	CustomerID string
	Status     string
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// InvoiceLine línea con los datos del producto y su categoría.
type InvoiceLine struct {
	entity.InvoiceItem
	ProductName  string
	ProductSKU   string
	CategoryID   string
	CategoryName string
}

// InvoiceDetail factura con su cliente y sus líneas.
type InvoiceDetail struct {
	entity.Invoice
	CustomerName  string
	CustomerEmail string
	Items         []InvoiceLine
}

// InvoiceRepository define el puerto de persistencia para Invoice e InvoiceItem.
type InvoiceRepository interface {
	// NextNumber reserva el siguiente consecutivo del usuario. Debe llamarse dentro de la transacción de creación.
	NextNumber(ctx context.Context, userID string) (int, error)
	Create(ctx context.Context, invoice *entity.Invoice, items []*entity.InvoiceItem) error
	GetByID(ctx context.Context, userID, id string) (*entity.Invoice, error)
	GetItems(ctx context.Context, invoiceID string) ([]*entity.InvoiceItem, error)
	GetDetail(ctx context.Context, userID, id string) (*InvoiceDetail, error)
	// List devuelve las facturas ordenadas por fecha descendente y el total sin paginar.
	List(ctx context.Context, filter InvoiceFilter) ([]*InvoiceDetail, int, error)
	CountByCustomer(ctx context.Context, customerID string) (int, error)
	UpdateStatus(ctx context.Context, userID, id, status string, at time.Time) error
	// Delete borra la factura; las líneas se eliminan en cascada.
	Delete(ctx context.Context, userID, id string) error
}
