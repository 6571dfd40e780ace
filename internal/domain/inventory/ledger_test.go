package inventory_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockbill-api/internal/domain"
	"github.com/jhoicas/stockbill-api/internal/domain/entity"
	"github.com/jhoicas/stockbill-api/internal/domain/inventory"
)

func TestLedgerBalance_SumaConSigno(t *testing.T) {
	movs := []*entity.StockMovement{
		{Type: entity.MovementTypeIn, Quantity: 20},
		{Type: entity.MovementTypeOut, Quantity: 3},
		{Type: entity.MovementTypeOut, Quantity: 2},
		{Type: entity.MovementTypeIn, Quantity: 2},
		{Type: entity.MovementTypeAdjustment, Quantity: -4},
	}
	assert.Equal(t, 13, inventory.LedgerBalance(movs))
	assert.Equal(t, 0, inventory.LedgerBalance(nil), "sin movimientos el saldo es cero")
}

func TestAdjustmentFor(t *testing.T) {
	typ, qty, ok := inventory.AdjustmentFor(10, 15)
	assert.True(t, ok)
	assert.Equal(t, entity.MovementTypeIn, typ)
	assert.Equal(t, 5, qty)

	typ, qty, ok = inventory.AdjustmentFor(10, 4)
	assert.True(t, ok)
	assert.Equal(t, entity.MovementTypeOut, typ)
	assert.Equal(t, 6, qty, "la cantidad es el valor absoluto del delta")

	_, _, ok = inventory.AdjustmentFor(7, 7)
	assert.False(t, ok, "sin cambio no hay movimiento")
}

func TestWithdraw_StockInsuficienteNoModificaProducto(t *testing.T) {
	p := &entity.Product{Name: "Laptop", StockQuantity: 3}

	err := inventory.Withdraw(p, 5)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, 3, stockErr.Available)
	assert.Equal(t, 5, stockErr.Requested)
	assert.Contains(t, err.Error(), "Laptop")
	assert.Equal(t, 3, p.StockQuantity, "el stock no debe cambiar")
}

func TestWithdrawYRestock(t *testing.T) {
	p := &entity.Product{Name: "Mouse", StockQuantity: 10}
	require.NoError(t, inventory.Withdraw(p, 10))
	assert.Equal(t, 0, p.StockQuantity)
	require.NoError(t, inventory.Restock(p, 4))
	assert.Equal(t, 4, p.StockQuantity)

	assert.ErrorIs(t, inventory.Withdraw(p, 0), domain.ErrInvalidInput)
	assert.ErrorIs(t, inventory.Restock(p, -1), domain.ErrInvalidInput)
}
