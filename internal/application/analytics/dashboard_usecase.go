package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/stockbill-api/internal/application/dto"
	"github.com/jhoicas/stockbill-api/internal/domain/analytics"
	"github.com/jhoicas/stockbill-api/internal/domain/entity"
	"github.com/jhoicas/stockbill-api/internal/domain/repository"
)

// DashboardUseCase arma el resumen del panel principal a partir de lecturas en paralelo.
type DashboardUseCase struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	customerRepo repository.CustomerRepository
	invoiceRepo  repository.InvoiceRepository
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	customerRepo repository.CustomerRepository,
	invoiceRepo repository.InvoiceRepository,
) *DashboardUseCase {
	return &DashboardUseCase{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		customerRepo: customerRepo,
		invoiceRepo:  invoiceRepo,
	}
}

// GetSummary construye el DashboardResponse del usuario.
//
// Cuatro lecturas en paralelo:
//  1. productos activos
//  2. categorías (nombres y conteo)
//  3. clientes activos (conteo)
//  4. facturas con cliente y líneas
func (uc *DashboardUseCase) GetSummary(ctx context.Context, userID string) (*dto.DashboardResponse, error) {
	now := time.Now()

	// ── Goroutines para paralelizar las lecturas ──────────────────────────────
	type productsResult struct {
		list []*entity.Product
		err  error
	}
	type categoriesResult struct {
		list []*repository.CategoryWithCount
		err  error
	}
	type countResult struct {
		n   int
		err error
	}
	type invoicesResult struct {
		list []*repository.InvoiceDetail
		err  error
	}

	productsCh := make(chan productsResult, 1)
	categoriesCh := make(chan categoriesResult, 1)
	customersCh := make(chan countResult, 1)
	invoicesCh := make(chan invoicesResult, 1)

	go func() {
		list, _, err := uc.productRepo.List(ctx, repository.ProductFilter{UserID: userID})
		productsCh <- productsResult{list, err}
	}()
	go func() {
		list, err := uc.categoryRepo.ListByUser(ctx, userID)
		categoriesCh <- categoriesResult{list, err}
	}()
	go func() {
		n, err := uc.customerRepo.CountActive(ctx, userID)
		customersCh <- countResult{n, err}
	}()
	go func() {
		list, _, err := uc.invoiceRepo.List(ctx, repository.InvoiceFilter{UserID: userID})
		invoicesCh <- invoicesResult{list, err}
	}()

	products := <-productsCh
	categories := <-categoriesCh
	customers := <-customersCh
	invoices := <-invoicesCh

	if products.err != nil {
		return nil, fmt.Errorf("dashboard: productos: %w", products.err)
	}
	if categories.err != nil {
		return nil, fmt.Errorf("dashboard: categorías: %w", categories.err)
	}
	if customers.err != nil {
		return nil, fmt.Errorf("dashboard: clientes: %w", customers.err)
	}
	if invoices.err != nil {
		return nil, fmt.Errorf("dashboard: facturas: %w", invoices.err)
	}

	// ── Agregar en memoria ────────────────────────────────────────────────────
	names := make(map[string]string, len(categories.list))
	for _, c := range categories.list {
		names[c.ID] = c.Name
	}
	summary := analytics.BuildDashboard(analytics.DashboardInput{
		Products:      products.list,
		CategoryNames: names,
		CategoryCount: len(categories.list),
		CustomerCount: customers.n,
		Invoices:      toRecords(invoices.list),
		Now:           now,
	})

	// ── Construir DTO ─────────────────────────────────────────────────────────
	byID := make(map[string]*repository.InvoiceDetail, len(invoices.list))
	for _, d := range invoices.list {
		byID[d.ID] = d
	}
	out := &dto.DashboardResponse{
		TotalProducts:       summary.TotalProducts,
		TotalCategories:     summary.TotalCategories,
		TotalCustomers:      summary.TotalCustomers,
		TotalInvoices:       summary.TotalInvoices,
		TotalInventoryValue: summary.TotalInventoryValue,
		TotalStockQuantity:  summary.TotalStockQuantity,
		LowStockProducts:    summary.LowStockProducts,
		LowStockItems:       make([]dto.LowStockItemDTO, 0, len(summary.LowStockItems)),
		TotalSales:          summary.TotalSales,
		PendingInvoices:     summary.PendingInvoices,
		PaidInvoices:        summary.PaidInvoices,
		RecentInvoices:      make([]dto.InvoiceResponse, 0, len(summary.RecentInvoices)),
		MonthlySales:        make([]dto.MonthlySalesDTO, 0, len(summary.MonthlySales)),
	}
	for _, it := range summary.LowStockItems {
		out.LowStockItems = append(out.LowStockItems, dto.LowStockItemDTO(it))
	}
	for _, r := range summary.RecentInvoices {
		if d, ok := byID[r.Invoice.ID]; ok {
			out.RecentInvoices = append(out.RecentInvoices, dto.ToInvoiceResponse(d))
		}
	}
	for _, m := range summary.MonthlySales {
		out.MonthlySales = append(out.MonthlySales, dto.MonthlySalesDTO(m))
	}
	return out, nil
}
