package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/stockbill-api/internal/application/dto"
	"github.com/jhoicas/stockbill-api/internal/domain"
	"github.com/jhoicas/stockbill-api/internal/domain/analytics"
	"github.com/jhoicas/stockbill-api/internal/domain/repository"
)

const dailyWindowDays = 30

// AnalyticsUseCase calcula la analítica de ventas sobre las facturas filtradas.
type AnalyticsUseCase struct {
	invoiceRepo repository.InvoiceRepository
}

// NewAnalyticsUseCase construye el caso de uso.
func NewAnalyticsUseCase(invoiceRepo repository.InvoiceRepository) *AnalyticsUseCase {
	return &AnalyticsUseCase{invoiceRepo: invoiceRepo}
}

// GetReport aplica los filtros (fecha, cliente y categoría; "all" = sin filtro) y agrega en memoria.
// La serie diaria cubre siempre los últimos 30 días de todas las facturas del usuario.
func (uc *AnalyticsUseCase) GetReport(ctx context.Context, userID string, in dto.AnalyticsRequest) (*dto.AnalyticsResponse, error) {
	now := time.Now()

	from, err := dto.ParseDateParam(in.DateFrom, false)
	if err != nil {
		return nil, fmt.Errorf("%w: date_from: %v", domain.ErrInvalidInput, err)
	}
	to, err := dto.ParseDateParam(in.DateTo, true)
	if err != nil {
		return nil, fmt.Errorf("%w: date_to: %v", domain.ErrInvalidInput, err)
	}
	if from != nil && to != nil && from.After(*to) {
		return nil, fmt.Errorf("%w: date_from no puede ser posterior a date_to", domain.ErrInvalidInput)
	}
	filter := repository.InvoiceFilter{UserID: userID, From: from, To: to}
	if in.Customer != "all" {
		filter.CustomerID = in.Customer
	}
	category := in.Category
	if category == "all" {
		category = ""
	}

	// ── Dos lecturas en paralelo: facturas filtradas y ventana diaria ─────────
	type invoicesResult struct {
		list []*repository.InvoiceDetail
		err  error
	}
	filteredCh := make(chan invoicesResult, 1)
	recentCh := make(chan invoicesResult, 1)

	go func() {
		list, _, err := uc.invoiceRepo.List(ctx, filter)
		filteredCh <- invoicesResult{list, err}
	}()
	go func() {
		start := time.Date(now.UTC().Year(), now.UTC().Month(), now.UTC().Day(), 0, 0, 0, 0, time.UTC).
			AddDate(0, 0, -(dailyWindowDays - 1))
		list, _, err := uc.invoiceRepo.List(ctx, repository.InvoiceFilter{UserID: userID, From: &start})
		recentCh <- invoicesResult{list, err}
	}()

	filtered := <-filteredCh
	recent := <-recentCh
	if filtered.err != nil {
		return nil, fmt.Errorf("analytics: facturas: %w", filtered.err)
	}
	if recent.err != nil {
		return nil, fmt.Errorf("analytics: ventas diarias: %w", recent.err)
	}

	records := analytics.FilterByCategory(toRecords(filtered.list), category)
	rep := analytics.BuildReport(records, toRecords(recent.list), now)

	out := &dto.AnalyticsResponse{
		TotalSales:          rep.TotalSales,
		TotalInvoices:       rep.TotalInvoices,
		AverageOrderValue:   rep.AverageOrderValue,
		TotalTax:            rep.TotalTax,
		TotalDiscount:       rep.TotalDiscount,
		SalesByStatus:       rep.SalesByStatus,
		TopProducts:         make([]dto.ProductSalesDTO, 0, len(rep.TopProducts)),
		TopCustomers:        make([]dto.CustomerSalesDTO, 0, len(rep.TopCustomers)),
		CategoryPerformance: make([]dto.CategorySalesDTO, 0, len(rep.CategoryPerformance)),
		DailySales:          make([]dto.DailySalesDTO, 0, len(rep.DailySales)),
		DateRange:           dto.DateRangeDTO{From: in.DateFrom, To: in.DateTo},
		Filters:             dto.AnalyticsFiltersDTO{Category: in.Category, Customer: in.Customer},
	}
	for _, p := range rep.TopProducts {
		out.TopProducts = append(out.TopProducts, dto.ProductSalesDTO(p))
	}
	for _, c := range rep.TopCustomers {
		out.TopCustomers = append(out.TopCustomers, dto.CustomerSalesDTO(c))
	}
	for _, c := range rep.CategoryPerformance {
		out.CategoryPerformance = append(out.CategoryPerformance, dto.CategorySalesDTO(c))
	}
	for _, d := range rep.DailySales {
		out.DailySales = append(out.DailySales, dto.DailySalesDTO(d))
	}
	return out, nil
}
