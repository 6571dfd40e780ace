// Package analytics orquesta las lecturas paralelas del dashboard y de la analítica de ventas.
package analytics

import (
	"github.com/jhoicas/stockbill-api/internal/domain/analytics"
	"github.com/jhoicas/stockbill-api/internal/domain/repository"
)

// toRecords adapta las facturas leídas del repositorio al modelo de agregación.
func toRecords(details []*repository.InvoiceDetail) []analytics.InvoiceRecord {
	out := make([]analytics.InvoiceRecord, 0, len(details))
	for _, d := range details {
		r := analytics.InvoiceRecord{
			Invoice:      d.Invoice,
			CustomerName: d.CustomerName,
			Items:        make([]analytics.ItemRecord, 0, len(d.Items)),
		}
		for _, it := range d.Items {
			r.Items = append(r.Items, analytics.ItemRecord{
				ProductID:    it.ProductID,
				ProductName:  it.ProductName,
				CategoryID:   it.CategoryID,
				CategoryName: it.CategoryName,
				Quantity:     it.Quantity,
				Total:        it.Total,
			})
		}
		out = append(out, r)
	}
	return out
}
