package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stockbill-api/internal/application/dto"
	"github.com/jhoicas/stockbill-api/internal/application/ports"
	"github.com/jhoicas/stockbill-api/internal/domain"
	"github.com/jhoicas/stockbill-api/internal/domain/entity"
	"github.com/jhoicas/stockbill-api/internal/domain/inventory"
	"github.com/jhoicas/stockbill-api/internal/domain/repository"
)

const ledgerPreview = 10 // movimientos que acompañan el detalle de producto

// StockUseCase aplica cambios de stock junto con su movimiento en el libro.
// Los métodos *InTx reciben los repositorios del caller para compartir su transacción.
type StockUseCase struct {
	productRepo repository.ProductRepository
	movRepo     repository.StockMovementRepository
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(productRepo repository.ProductRepository, movRepo repository.StockMovementRepository) *StockUseCase {
	return &StockUseCase{productRepo: productRepo, movRepo: movRepo}
}

// WithdrawInTx bloquea el producto, valida disponibilidad y registra una salida (OUT).
// Si retorna error (ej: stock insuficiente) el caller debe hacer rollback.
func (uc *StockUseCase) WithdrawInTx(
	ctx context.Context,
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
	userID, productID string,
	quantity int,
	reason, reference string,
	now time.Time,
) (*entity.Product, ports.StockEvent, error) {
	product, err := productRepo.GetForUpdate(ctx, userID, productID)
	if err != nil {
		return nil, ports.StockEvent{}, err
	}
	if product == nil || !product.IsActive {
		return nil, ports.StockEvent{}, fmt.Errorf("%w: producto %s no encontrado", domain.ErrInvalidInput, productID)
	}
	if err := inventory.Withdraw(product, quantity); err != nil {
		return nil, ports.StockEvent{}, err
	}
	if err := productRepo.UpdateStock(ctx, product.ID, product.StockQuantity); err != nil {
		return nil, ports.StockEvent{}, err
	}
	if err := uc.record(ctx, movRepo, product, entity.MovementTypeOut, quantity, reason, reference, now); err != nil {
		return nil, ports.StockEvent{}, err
	}
	return product, newEvent(product, -quantity, reason, reference, now), nil
}

// RestockInTx bloquea el producto y registra una entrada (IN). No exige que el producto esté activo.
func (uc *StockUseCase) RestockInTx(
	ctx context.Context,
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
	userID, productID string,
	quantity int,
	reason, reference string,
	now time.Time,
) (*entity.Product, ports.StockEvent, error) {
	product, err := productRepo.GetForUpdate(ctx, userID, productID)
	if err != nil {
		return nil, ports.StockEvent{}, err
	}
	if product == nil {
		return nil, ports.StockEvent{}, fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
	}
	if err := inventory.Restock(product, quantity); err != nil {
		return nil, ports.StockEvent{}, err
	}
	if err := productRepo.UpdateStock(ctx, product.ID, product.StockQuantity); err != nil {
		return nil, ports.StockEvent{}, err
	}
	if err := uc.record(ctx, movRepo, product, entity.MovementTypeIn, quantity, reason, reference, now); err != nil {
		return nil, ports.StockEvent{}, err
	}
	return product, newEvent(product, quantity, reason, reference, now), nil
}

// AdjustInTx lleva el stock del producto (ya bloqueado por el caller) a target y deja el movimiento
// IN u OUT por la diferencia. No persiste el producto: lo hace el caller con su Update.
// ok es false si no hubo cambio.
func (uc *StockUseCase) AdjustInTx(
	ctx context.Context,
	movRepo repository.StockMovementRepository,
	product *entity.Product,
	target int,
	reason string,
	now time.Time,
) (event ports.StockEvent, ok bool, err error) {
	if target < 0 {
		return ports.StockEvent{}, false, fmt.Errorf("%w: el stock no puede ser negativo", domain.ErrInvalidInput)
	}
	movType, qty, changed := inventory.AdjustmentFor(product.StockQuantity, target)
	if !changed {
		return ports.StockEvent{}, false, nil
	}
	delta := target - product.StockQuantity
	product.StockQuantity = target
	if err := uc.record(ctx, movRepo, product, movType, qty, reason, "", now); err != nil {
		return ports.StockEvent{}, false, err
	}
	return newEvent(product, delta, reason, "", now), true, nil
}

// RecordInitialInTx registra el stock inicial de un producto recién creado.
func (uc *StockUseCase) RecordInitialInTx(
	ctx context.Context,
	movRepo repository.StockMovementRepository,
	product *entity.Product,
	now time.Time,
) (ports.StockEvent, bool, error) {
	if product.StockQuantity <= 0 {
		return ports.StockEvent{}, false, nil
	}
	if err := uc.record(ctx, movRepo, product, entity.MovementTypeIn, product.StockQuantity, entity.ReasonInitialStock, "", now); err != nil {
		return ports.StockEvent{}, false, err
	}
	return newEvent(product, product.StockQuantity, entity.ReasonInitialStock, "", now), true, nil
}

// RecentMovements últimos movimientos de un producto para su detalle.
func (uc *StockUseCase) RecentMovements(ctx context.Context, productID string) ([]dto.StockMovementResponse, error) {
	movs, err := uc.movRepo.ListByProduct(ctx, productID, ledgerPreview)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockMovementResponse, 0, len(movs))
	for _, m := range movs {
		out = append(out, dto.ToStockMovementResponse(m))
	}
	return out, nil
}

// Ledger concilia el stock guardado con la suma del libro de movimientos.
func (uc *StockUseCase) Ledger(ctx context.Context, userID, productID string) (*dto.LedgerResponse, error) {
	product, err := uc.productRepo.GetByID(ctx, userID, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	movs, err := uc.movRepo.ListByProduct(ctx, productID, 0)
	if err != nil {
		return nil, err
	}
	balance := inventory.LedgerBalance(movs)
	out := &dto.LedgerResponse{
		ProductID:     product.ID,
		StockQuantity: product.StockQuantity,
		LedgerBalance: balance,
		Consistent:    balance == product.StockQuantity,
		Movements:     make([]dto.StockMovementResponse, 0, len(movs)),
	}
	for _, m := range movs {
		out.Movements = append(out.Movements, dto.ToStockMovementResponse(m))
	}
	return out, nil
}

func (uc *StockUseCase) record(
	ctx context.Context,
	movRepo repository.StockMovementRepository,
	product *entity.Product,
	movType string,
	quantity int,
	reason, reference string,
	now time.Time,
) error {
	return movRepo.Create(ctx, &entity.StockMovement{
		ID:        uuid.New().String(),
		UserID:    product.UserID,
		ProductID: product.ID,
		Type:      movType,
		Quantity:  quantity,
		Reason:    reason,
		Reference: reference,
		CreatedAt: now,
	})
}

func newEvent(p *entity.Product, delta int, reason, reference string, now time.Time) ports.StockEvent {
	return ports.StockEvent{
		Type:          ports.EventStockUpdated,
		UserID:        p.UserID,
		ProductID:     p.ID,
		ProductName:   p.Name,
		SKU:           p.SKU,
		StockQuantity: p.StockQuantity,
		Delta:         delta,
		Reason:        reason,
		Reference:     reference,
		LowStock:      p.IsLowStock(),
		OccurredAt:    now,
	}
}
