// Package billing contiene el cálculo de montos de factura (servicio de dominio).
package billing

import "github.com/shopspring/decimal"

// Line datos de una línea necesarios para calcular su total.
type Line struct {
	Quantity  int
	UnitPrice decimal.Decimal
	Discount  decimal.Decimal
}

// LineTotal = precio unitario · cantidad − descuento de la línea.
func LineTotal(l Line) decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))).Sub(l.Discount)
}

// Totals resultado del cálculo de una factura.
type Totals struct {
	LineTotals  []decimal.Decimal
	Subtotal    decimal.Decimal
	TotalAmount decimal.Decimal
}

// ComputeTotals suma las líneas, agrega el impuesto y resta el descuento general.
func ComputeTotals(lines []Line, taxAmount, discount decimal.Decimal) Totals {
	t := Totals{LineTotals: make([]decimal.Decimal, len(lines))}
	for i, l := range lines {
		lt := LineTotal(l)
		t.LineTotals[i] = lt
		t.Subtotal = t.Subtotal.Add(lt)
	}
	t.TotalAmount = t.Subtotal.Add(taxAmount).Sub(discount)
	return t
}
