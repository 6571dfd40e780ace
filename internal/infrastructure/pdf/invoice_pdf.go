// Package pdf genera los PDF de facturas y reportes con Maroto v2.
//
// Layout de la factura (A4):
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Emisor + email      │  N° Factura + Fecha + Estado │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE: Nombre + PAN/VAT + contacto                       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Producto | SKU | P.Unit | Desc. | Total       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / Impuesto / Descuento / TOTAL            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR de verificación + notas + vencimiento            │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	appbilling "github.com/jhoicas/stockbill-api/internal/application/billing"
	"github.com/jhoicas/stockbill-api/internal/domain/entity"
	"github.com/jhoicas/stockbill-api/internal/domain/repository"
)

var _ appbilling.InvoicePDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 30, Green: 64, Blue: 175}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 185, Green: 28, Blue: 28}
)

// MarotoPDFGenerator implementa billing.InvoicePDFGenerator y reports.Renderer usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

func newDocument(title, author string) core.Maroto {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		WithAuthor(author, true).
		Build()
	return maroto.New(cfg)
}

func render(m core.Maroto) ([]byte, error) {
	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// GenerateInvoicePDF genera el PDF de la factura y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(
	_ context.Context,
	invoice *repository.InvoiceDetail,
	seller *entity.User,
	customer *entity.Customer,
) ([]byte, error) {
	m := newDocument("Factura "+invoice.InvoiceNo, seller.Name)

	m.AddRows(invoiceHeaderRow(invoice, seller))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(customerRow(customer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(itemsHeaderRow())
	m.AddRows(itemRows(invoice.Items)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(invoice))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(invoice))

	return render(m)
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func invoiceHeaderRow(invoice *repository.InvoiceDetail, seller *entity.User) core.Row {
	statusColor := colorGray
	if invoice.Status == entity.InvoiceStatusOverdue {
		statusColor = colorAlert
	}
	return row.New(20).Add(
		col.New(7).Add(
			text.New(seller.Name, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New(seller.Email, props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("FACTURA", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1}),
			text.New(invoice.InvoiceNo, props.Text{Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 6}),
			text.New("Fecha: "+invoice.CreatedAt.Format("02/01/2006"), props.Text{Size: 8, Align: align.Right, Top: 12, Color: colorGray}),
			text.New("Estado: "+invoice.Status, props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 16, Color: statusColor}),
		),
	)
}

func customerRow(customer *entity.Customer) core.Row {
	var ids []string
	if customer.PANNumber != "" {
		ids = append(ids, "PAN: "+customer.PANNumber)
	}
	if customer.VATNumber != "" {
		ids = append(ids, "VAT: "+customer.VATNumber)
	}
	return row.New(18).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(customer.Name, props.Text{Style: fontstyle.Bold, Size: 10, Top: 5}),
			text.New(fmt.Sprintf("Email: %s   |   Tel: %s   |   %s",
				nonEmpty(customer.Email, "-"),
				nonEmpty(customer.Phone, "-"),
				nonEmpty(strings.Join(ids, "  "), "Sin identificación fiscal"),
			), props.Text{Size: 8, Top: 11, Color: colorGray}),
			text.New(nonEmpty(customer.Address, ""), props.Text{Size: 8, Top: 15, Color: colorGray}),
		),
	)
}

func itemsHeaderRow() core.Row {
	return headerRow(
		headerCell{"Cant.", 1, align.Center},
		headerCell{"Producto", 4, align.Left},
		headerCell{"SKU", 2, align.Left},
		headerCell{"P. Unit.", 2, align.Right},
		headerCell{"Desc.", 1, align.Right},
		headerCell{"Total", 2, align.Right},
	)
}

func itemRows(items []repository.InvoiceLine) []core.Row {
	rows := make([]core.Row, 0, len(items))
	for _, it := range items {
		rows = append(rows, row.New(7).Add(
			col.New(1).Add(text.New(fmt.Sprintf("%d", it.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(4).Add(text.New(nonEmpty(it.ProductName, it.ProductID), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(it.ProductSKU, props.Text{Size: 8, Top: 1, Color: colorGray})),
			col.New(2).Add(text.New(formatMoney(it.UnitPrice), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(formatMoney(it.Discount), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(formatMoney(it.Total), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return rows
}

func totalsRow(invoice *repository.InvoiceDetail) core.Row {
	subtotal := decimal.Zero
	for _, it := range invoice.Items {
		subtotal = subtotal.Add(it.Total)
	}
	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top})
	}
	value := func(d decimal.Decimal, top float64) core.Component {
		return text.New(formatMoney(d), props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	return row.New(26).Add(
		col.New(6),
		col.New(3).Add(
			label("Subtotal:", 1),
			label("Impuesto:", 6),
			label("Descuento:", 11),
			text.New("TOTAL:", props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2, Top: 17}),
		),
		col.New(3).Add(
			value(subtotal, 1),
			value(invoice.TaxAmount, 6),
			value(invoice.Discount.Neg(), 11),
			text.New(formatMoney(invoice.TotalAmount), props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: 17}),
		),
	)
}

// footerRow QR con número, fecha y total para verificar la factura; notas y vencimiento al lado.
func footerRow(invoice *repository.InvoiceDetail) core.Row {
	qr := fmt.Sprintf("%s|%s|%s", invoice.InvoiceNo, invoice.CreatedAt.UTC().Format("2006-01-02"), invoice.TotalAmount.StringFixed(2))
	due := "Sin fecha de vencimiento"
	if invoice.DueDate != nil {
		due = "Vence: " + invoice.DueDate.Format("02/01/2006")
	}
	return row.New(40).Add(
		col.New(3).Add(code.NewQr(qr, props.Rect{Percent: 90, Center: true})),
		col.New(9).Add(
			text.New(due, props.Text{Style: fontstyle.Bold, Size: 9, Top: 3, Left: 3}),
			text.New(nonEmpty(invoice.Notes, "Gracias por su compra."), props.Text{Size: 8, Top: 10, Left: 3, Color: colorGray}),
		),
	)
}
