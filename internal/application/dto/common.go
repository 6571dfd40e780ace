package dto

import (
	"fmt"
	"time"

	"github.com/jhoicas/stockbill-api/pkg/validator"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 200
)

// PageRequest paginación por número de página.
type PageRequest struct {
	Page  int `query:"page"`
	Limit int `query:"limit"`
}

// DefaultPage aplica valores por defecto si Page/Limit son cero o inválidos.
func (p *PageRequest) DefaultPage() {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = defaultPageLimit
	}
	if p.Limit > maxPageLimit {
		p.Limit = maxPageLimit
	}
}

// Offset filas a saltar para la página actual.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Pagination metadatos de página en respuestas.
type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"total_pages"`
}

// NewPagination calcula total_pages redondeando hacia arriba.
func NewPagination(total int, p PageRequest) Pagination {
	pages := 0
	if p.Limit > 0 {
		pages = (total + p.Limit - 1) / p.Limit
	}
	return Pagination{Total: total, Page: p.Page, Limit: p.Limit, TotalPages: pages}
}

// ErrorResponse cuerpo de error HTTP. Los contadores solo aparecen en los bloqueos de borrado.
type ErrorResponse struct {
	Error        string                  `json:"error"`
	Code         string                  `json:"code,omitempty"`
	Fields       []*validator.FieldError `json:"fields,omitempty"`
	ProductCount *int                    `json:"product_count,omitempty"`
	InvoiceCount *int                    `json:"invoice_count,omitempty"`
}

// MessageResponse respuesta de operaciones sin recurso (ej. borrado).
type MessageResponse struct {
	Message string `json:"message"`
}

// ParseDateParam interpreta "2006-01-02" o RFC3339. Vacío o "all" devuelve nil.
// Con endOfDay una fecha sin hora cubre hasta el último instante de ese día.
func ParseDateParam(value string, endOfDay bool) (*time.Time, error) {
	if value == "" || value == "all" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation("2006-01-02", value, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("fecha inválida %q: %w", value, err)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
