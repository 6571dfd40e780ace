package dto

import "time"

// StockMovementResponse movimiento del libro de stock.
type StockMovementResponse struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	Type      string    `json:"type"`
	Quantity  int       `json:"quantity"`
	Reason    string    `json:"reason"`
	Reference string    `json:"reference,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// LedgerResponse conciliación entre el stock guardado y el saldo del libro.
type LedgerResponse struct {
	ProductID     string                  `json:"product_id"`
	StockQuantity int                     `json:"stock_quantity"`
	LedgerBalance int                     `json:"ledger_balance"`
	Consistent    bool                    `json:"consistent"`
	Movements     []StockMovementResponse `json:"movements"`
}
