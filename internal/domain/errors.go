package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrHasDependents      = errors.New("el recurso tiene registros asociados")
	ErrPaidInvoice        = errors.New("no se puede eliminar una factura pagada")
)

// InsufficientStockError detalla qué producto no alcanzó a cubrir la línea solicitada.
type InsufficientStockError struct {
	Product   string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para %s. Disponible: %d, solicitado: %d", e.Product, e.Available, e.Requested)
}

// Is permite errors.Is(err, ErrInsufficientStock).
func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// Recursos dependientes que bloquean un borrado.
const (
	ResourceProducts = "products"
	ResourceInvoices = "invoices"
)

// DependentsError bloquea el borrado de una categoría o cliente con registros asociados.
type DependentsError struct {
	Resource string
	Count    int
}

func (e *DependentsError) Error() string {
	switch e.Resource {
	case ResourceProducts:
		return fmt.Sprintf("no se puede eliminar una categoría con productos asociados (%d)", e.Count)
	case ResourceInvoices:
		return fmt.Sprintf("no se puede eliminar un cliente con facturas asociadas (%d)", e.Count)
	}
	return fmt.Sprintf("%s (%d)", ErrHasDependents.Error(), e.Count)
}

// Is permite errors.Is(err, ErrHasDependents).
func (e *DependentsError) Is(target error) bool { return target == ErrHasDependents }
