// Package excel genera los reportes como libros .xlsx con excelize.
package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/stockbill-api/internal/application/reports"
)

var _ reports.Renderer = (*Renderer)(nil)

const (
	sheetInventory = "Inventario"
	sheetSales     = "Ventas"
)

// Renderer implementa reports.Renderer para XLSX. Encoding se ignora: el formato siempre es UTF-8.
type Renderer struct{}

// NewRenderer crea el renderer.
func NewRenderer() *Renderer { return &Renderer{} }

// ContentType tipo MIME de los libros de Excel.
func (r *Renderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// RenderInventory hoja "Inventario" con una fila por producto y totales al final.
func (r *Renderer) RenderInventory(rep *reports.InventoryReport) ([]byte, error) {
	f, err := newBook(sheetInventory)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows := [][]any{{"SKU", "Producto", "Categoría", "Stock", "Umbral", "Precio", "Costo", "Valor", "Stock bajo"}}
	for _, it := range rep.Rows {
		rows = append(rows, []any{
			it.SKU, it.Name, it.Category, it.StockQuantity, it.LowStockThreshold,
			it.Price.InexactFloat64(), it.CostPrice.InexactFloat64(), it.Value.InexactFloat64(),
			lowStockLabel(it.LowStock),
		})
	}
	rows = append(rows, []any{"TOTAL", nil, nil, rep.TotalUnits, nil, nil, nil, rep.TotalValue.InexactFloat64(), nil})

	if err := fill(f, sheetInventory, rows, "F", "H"); err != nil {
		return nil, err
	}
	return bytesOf(f)
}

// RenderSales hoja "Ventas" con una fila por factura y totales al final.
func (r *Renderer) RenderSales(rep *reports.SalesReport) ([]byte, error) {
	f, err := newBook(sheetSales)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows := [][]any{{"Factura", "Fecha", "Cliente", "Estado", "Líneas", "Impuesto", "Descuento", "Total"}}
	for _, s := range rep.Rows {
		rows = append(rows, []any{
			s.InvoiceNo, s.Date.Format("2006-01-02"), s.Customer, s.Status, s.Items,
			s.TaxAmount.InexactFloat64(), s.Discount.InexactFloat64(), s.Total.InexactFloat64(),
		})
	}
	rows = append(rows, []any{"TOTAL", nil, nil, nil, nil, rep.TotalTax.InexactFloat64(), nil, rep.TotalSales.InexactFloat64()})

	if err := fill(f, sheetSales, rows, "F", "H"); err != nil {
		return nil, err
	}
	return bytesOf(f)
}

// newBook crea el libro renombrando la hoja por defecto.
func newBook(sheet string) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("excel: renombrar hoja: %w", err)
	}
	return f, nil
}

// fill escribe las filas desde A1, pone la cabecera en negrita y formato de moneda en las columnas dadas.
func fill(f *excelize.File, sheet string, rows [][]any, moneyFrom, moneyTo string) error {
	for i, values := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("excel: celda: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("excel: fila %d: %w", i+1, err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("excel: estilo: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(rows[0]), 1)
	if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
		return fmt.Errorf("excel: estilo cabecera: %w", err)
	}
	if err := f.SetCellStyle(sheet, fmt.Sprintf("A%d", len(rows)), fmt.Sprintf("%s%d", moneyTo, len(rows)), bold); err != nil {
		return fmt.Errorf("excel: estilo totales: %w", err)
	}

	money, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return fmt.Errorf("excel: estilo moneda: %w", err)
	}
	if len(rows) > 2 {
		if err := f.SetCellStyle(sheet, moneyFrom+"2", fmt.Sprintf("%s%d", moneyTo, len(rows)-1), money); err != nil {
			return fmt.Errorf("excel: estilo moneda: %w", err)
		}
	}
	return f.SetColWidth(sheet, "A", "I", 16)
}

func bytesOf(f *excelize.File) ([]byte, error) {
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("excel: serializar: %w", err)
	}
	return buf.Bytes(), nil
}

func lowStockLabel(low bool) string {
	if low {
		return "Sí"
	}
	return "No"
}
