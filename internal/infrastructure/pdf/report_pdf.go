package pdf

import (
	"fmt"

	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/stockbill-api/internal/application/reports"
)

var _ reports.Renderer = (*MarotoPDFGenerator)(nil)

// ContentType tipo MIME de los reportes PDF.
func (g *MarotoPDFGenerator) ContentType() string { return "application/pdf" }

// RenderInventory reporte de inventario valorizado, agrupado por categoría.
func (g *MarotoPDFGenerator) RenderInventory(r *reports.InventoryReport) ([]byte, error) {
	m := newDocument("Reporte de inventario", r.Owner)
	m.AddRows(reportTitleRow("REPORTE DE INVENTARIO", r.Owner, "Generado: "+r.GeneratedAt.Format("02/01/2006 15:04")))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(headerRow(
		headerCell{"SKU", 2, align.Left},
		headerCell{"Producto", 3, align.Left},
		headerCell{"Categoría", 2, align.Left},
		headerCell{"Stock", 1, align.Right},
		headerCell{"Precio", 2, align.Right},
		headerCell{"Valor", 2, align.Right},
	))
	for _, it := range r.Rows {
		stockColor := (*props.Color)(nil)
		if it.LowStock {
			stockColor = colorAlert
		}
		m.AddRows(row.New(6).Add(
			col.New(2).Add(text.New(it.SKU, props.Text{Size: 8, Top: 1, Color: colorGray})),
			col.New(3).Add(text.New(it.Name, props.Text{Size: 8, Top: 1})),
			col.New(2).Add(text.New(nonEmpty(it.Category, "-"), props.Text{Size: 8, Top: 1})),
			col.New(1).Add(text.New(fmt.Sprintf("%d", it.StockQuantity), props.Text{Size: 8, Align: align.Right, Top: 1, Color: stockColor})),
			col.New(2).Add(text.New(formatMoney(it.Price), props.Text{Size: 8, Align: align.Right, Top: 1})),
			col.New(2).Add(text.New(formatMoney(it.Value), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(summaryRow(
		fmt.Sprintf("Productos: %d   |   Unidades: %d", len(r.Rows), r.TotalUnits),
		"Valor total: "+formatMoney(r.TotalValue),
	))
	return render(m)
}

// RenderSales reporte de ventas del rango, una fila por factura.
func (g *MarotoPDFGenerator) RenderSales(r *reports.SalesReport) ([]byte, error) {
	period := "Todo el historial"
	switch {
	case r.From != nil && r.To != nil:
		period = fmt.Sprintf("Del %s al %s", r.From.Format("02/01/2006"), r.To.Format("02/01/2006"))
	case r.From != nil:
		period = "Desde " + r.From.Format("02/01/2006")
	case r.To != nil:
		period = "Hasta " + r.To.Format("02/01/2006")
	}

	m := newDocument("Reporte de ventas", r.Owner)
	m.AddRows(reportTitleRow("REPORTE DE VENTAS", r.Owner, period))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(headerRow(
		headerCell{"Factura", 2, align.Left},
		headerCell{"Fecha", 2, align.Left},
		headerCell{"Cliente", 3, align.Left},
		headerCell{"Estado", 2, align.Left},
		headerCell{"Impuesto", 1, align.Right},
		headerCell{"Total", 2, align.Right},
	))
	for _, s := range r.Rows {
		m.AddRows(row.New(6).Add(
			col.New(2).Add(text.New(s.InvoiceNo, props.Text{Size: 8, Top: 1})),
			col.New(2).Add(text.New(s.Date.Format("02/01/2006"), props.Text{Size: 8, Top: 1, Color: colorGray})),
			col.New(3).Add(text.New(nonEmpty(s.Customer, "-"), props.Text{Size: 8, Top: 1})),
			col.New(2).Add(text.New(s.Status, props.Text{Size: 8, Top: 1})),
			col.New(1).Add(text.New(formatMoney(s.TaxAmount), props.Text{Size: 8, Align: align.Right, Top: 1})),
			col.New(2).Add(text.New(formatMoney(s.Total), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(summaryRow(
		fmt.Sprintf("Facturas: %d   |   Impuestos: %s", len(r.Rows), formatMoney(r.TotalTax)),
		"Ventas: "+formatMoney(r.TotalSales),
	))
	return render(m)
}

func reportTitleRow(title, owner, subtitle string) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New(title, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New(subtitle, props.Text{Size: 8, Top: 9, Color: colorGray}),
		),
		col.New(4).Add(
			text.New(owner, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 2}),
		),
	)
}

func summaryRow(left, right string) core.Row {
	return row.New(10).Add(
		col.New(7).Add(text.New(left, props.Text{Size: 8, Top: 2, Color: colorGray})),
		col.New(5).Add(text.New(right, props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2, Right: 1})),
	)
}
