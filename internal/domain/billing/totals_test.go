package billing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/stockbill-api/internal/domain/billing"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestComputeTotals_EjemploDeReferencia(t *testing.T) {
	lines := []billing.Line{
		{Quantity: 2, UnitPrice: d("10"), Discount: d("0")},
		{Quantity: 1, UnitPrice: d("5"), Discount: d("1")},
	}
	got := billing.ComputeTotals(lines, d("3"), d("0"))

	assert.True(t, got.LineTotals[0].Equal(d("20")))
	assert.True(t, got.LineTotals[1].Equal(d("4")))
	assert.True(t, got.Subtotal.Equal(d("24")))
	assert.True(t, got.TotalAmount.Equal(d("27")), "total esperado 27, obtenido %s", got.TotalAmount)
}

func TestComputeTotals_DescuentoGeneral(t *testing.T) {
	lines := []billing.Line{{Quantity: 3, UnitPrice: d("19.99"), Discount: d("0.97")}}
	got := billing.ComputeTotals(lines, d("5.50"), d("10"))

	assert.True(t, got.TotalAmount.Equal(d("54.50")), "obtenido %s", got.TotalAmount)
}

func TestComputeTotals_SinLineas(t *testing.T) {
	got := billing.ComputeTotals(nil, decimal.Zero, decimal.Zero)
	assert.True(t, got.TotalAmount.IsZero())
	assert.Empty(t, got.LineTotals)
}
