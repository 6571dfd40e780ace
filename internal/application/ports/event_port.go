package ports

import (
	"context"
	"time"
)

// EventStockUpdated tipo de evento emitido tras cada cambio de stock confirmado.
const EventStockUpdated = "stock.updated"

// StockEvent cambio de stock de un producto, publicado después del commit.
type StockEvent struct {
	Type          string    `json:"type"`
	UserID        string    `json:"user_id"`
	ProductID     string    `json:"product_id"`
	ProductName   string    `json:"product_name"`
	SKU           string    `json:"sku"`
	StockQuantity int       `json:"stock_quantity"`
	Delta         int       `json:"delta"`
	Reason        string    `json:"reason"`
	Reference     string    `json:"reference,omitempty"`
	LowStock      bool      `json:"low_stock"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// StockEventPublisher puerto de salida para notificar cambios de stock
// (websocket, Kafka o ambos). Publicar nunca debe hacer fallar la operación ya confirmada.
type StockEventPublisher interface {
	PublishStockUpdated(ctx context.Context, events []StockEvent)
}

// NopPublisher descarta los eventos.
type NopPublisher struct{}

// PublishStockUpdated no hace nada.
func (NopPublisher) PublishStockUpdated(context.Context, []StockEvent) {}
