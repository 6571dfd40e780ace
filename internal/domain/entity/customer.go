package entity

import "time"

// Customer cliente de facturación. Se desactiva (IsActive=false) en lugar de borrarse.
type Customer struct {
	ID        string
	UserID    string
	Name      string
	Email     string
	Phone     string
	Address   string
	Notes     string
	PANNumber string
	VATNumber string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
