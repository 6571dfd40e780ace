// Package csvexport escribe los reportes como CSV, en UTF-8 o Windows-1252 para Excel en español.
package csvexport

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/stockbill-api/internal/application/reports"
)

var _ reports.Renderer = (*Renderer)(nil)

// Renderer implementa reports.Renderer para CSV.
type Renderer struct{}

// NewRenderer crea el renderer.
func NewRenderer() *Renderer { return &Renderer{} }

// ContentType tipo MIME de los reportes CSV.
func (r *Renderer) ContentType() string { return "text/csv" }

// RenderInventory una fila por producto y una fila final de totales.
func (r *Renderer) RenderInventory(rep *reports.InventoryReport) ([]byte, error) {
	records := [][]string{{"sku", "name", "category", "stock_quantity", "low_stock_threshold", "price", "cost_price", "value", "low_stock"}}
	for _, it := range rep.Rows {
		records = append(records, []string{
			it.SKU,
			it.Name,
			it.Category,
			strconv.Itoa(it.StockQuantity),
			strconv.Itoa(it.LowStockThreshold),
			it.Price.StringFixed(2),
			it.CostPrice.StringFixed(2),
			it.Value.StringFixed(2),
			strconv.FormatBool(it.LowStock),
		})
	}
	records = append(records, []string{"TOTAL", "", "", strconv.Itoa(rep.TotalUnits), "", "", "", rep.TotalValue.StringFixed(2), ""})
	return write(records, rep.Encoding)
}

// RenderSales una fila por factura y una fila final de totales.
func (r *Renderer) RenderSales(rep *reports.SalesReport) ([]byte, error) {
	records := [][]string{{"invoice_no", "date", "customer", "status", "items", "tax_amount", "discount", "total"}}
	for _, s := range rep.Rows {
		records = append(records, []string{
			s.InvoiceNo,
			s.Date.Format("2006-01-02"),
			s.Customer,
			s.Status,
			strconv.Itoa(s.Items),
			s.TaxAmount.StringFixed(2),
			s.Discount.StringFixed(2),
			s.Total.StringFixed(2),
		})
	}
	records = append(records, []string{"TOTAL", "", "", "", "", rep.TotalTax.StringFixed(2), "", rep.TotalSales.StringFixed(2)})
	return write(records, rep.Encoding)
}

func write(records [][]string, enc string) ([]byte, error) {
	var buf bytes.Buffer
	var out io.Writer = &buf
	var tw *transform.Writer
	if enc == reports.EncodingLatin1 {
		// Los caracteres fuera de Windows-1252 se reemplazan en lugar de abortar el reporte.
		tw = transform.NewWriter(&buf, encoding.ReplaceUnsupported(charmap.Windows1252.NewEncoder()))
		out = tw
	}

	w := csv.NewWriter(out)
	if err := w.WriteAll(records); err != nil {
		return nil, fmt.Errorf("csv: escribir: %w", err)
	}
	if tw != nil {
		if err := tw.Close(); err != nil {
			return nil, fmt.Errorf("csv: codificar: %w", err)
		}
	}
	return buf.Bytes(), nil
}
