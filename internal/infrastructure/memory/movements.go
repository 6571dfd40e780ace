package memory

import (
	"context"

	"github.com/jhoicas/stockbill-api/internal/domain/entity"
	"github.com/jhoicas/stockbill-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo libro de movimientos en memoria (append-only).
type StockMovementRepo struct{ conn }

func (r *StockMovementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	st, unlock := r.lock()
	defer unlock()
	st.movements = append(st.movements, *m)
	return nil
}

// ListByProduct recorre el libro desde el final: el orden de inserción desempata fechas iguales.
func (r *StockMovementRepo) ListByProduct(_ context.Context, productID string, limit int) ([]*entity.StockMovement, error) {
	st, unlock := r.lock()
	defer unlock()
	var out []*entity.StockMovement
	for i := len(st.movements) - 1; i >= 0; i-- {
		if st.movements[i].ProductID != productID {
			continue
		}
		m := st.movements[i]
		out = append(out, &m)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}
