package entity

import "time"

// DefaultCategoryColor color asignado cuando la categoría se crea sin uno.
const DefaultCategoryColor = "#3B82F6"

// Category agrupa productos de un usuario. Name es único por usuario.
type Category struct {
	ID          string
	UserID      string
	Name        string
	Description string
	Color       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
