package realtime

import (
	"context"

	"github.com/jhoicas/stockbill-api/internal/application/ports"
)

// Fanout reenvía los eventos a varios publicadores (hub, Kafka, Redis).
type Fanout []ports.StockEventPublisher

// NewFanout ignora los publicadores nil.
func NewFanout(publishers ...ports.StockEventPublisher) Fanout {
	out := make(Fanout, 0, len(publishers))
	for _, p := range publishers {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

// PublishStockUpdated implementa ports.StockEventPublisher.
func (f Fanout) PublishStockUpdated(ctx context.Context, events []ports.StockEvent) {
	if len(events) == 0 {
		return
	}
	for _, p := range f {
		p.PublishStockUpdated(ctx, events)
	}
}
