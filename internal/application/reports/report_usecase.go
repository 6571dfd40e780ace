// Package reports arma los reportes exportables de inventario y ventas.
package reports

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockbill-api/internal/application/dto"
	"github.com/jhoicas/stockbill-api/internal/domain"
	"github.com/jhoicas/stockbill-api/internal/domain/repository"
)

// Formatos y codificaciones soportados.
const (
	FormatPDF  = "pdf"
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"

	EncodingUTF8   = "utf-8"
	EncodingLatin1 = "latin1"
)

// InventoryRow fila del reporte de inventario.
type InventoryRow struct {
	SKU               string
	Name              string
	Category          string
	StockQuantity     int
	LowStockThreshold int
	Price             decimal.Decimal
	CostPrice         decimal.Decimal
	Value             decimal.Decimal // price · stock
	LowStock          bool
}

// InventoryReport productos activos del usuario con su valorización.
type InventoryReport struct {
	Owner       string
	GeneratedAt time.Time
	Encoding    string
	Rows        []InventoryRow
	TotalUnits  int
	TotalValue  decimal.Decimal
}

// SalesRow fila del reporte de ventas (una por factura).
type SalesRow struct {
	InvoiceNo string
	Date      time.Time
	Customer  string
	Status    string
	Items     int
	TaxAmount decimal.Decimal
	Discount  decimal.Decimal
	Total     decimal.Decimal
}

// SalesReport facturas del rango solicitado.
type SalesReport struct {
	Owner       string
	GeneratedAt time.Time
	Encoding    string
	From        *time.Time
	To          *time.Time
	Rows        []SalesRow
	TotalTax    decimal.Decimal
	TotalSales  decimal.Decimal
}

// Renderer serializa los reportes en un formato de archivo.
type Renderer interface {
	RenderInventory(r *InventoryReport) ([]byte, error)
	RenderSales(r *SalesReport) ([]byte, error)
	ContentType() string
}

// ReportFile archivo listo para descargar.
type ReportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ReportUseCase genera los reportes exportables.
type ReportUseCase struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	invoiceRepo  repository.InvoiceRepository
	userRepo     repository.UserRepository
	renderers    map[string]Renderer
}

// NewReportUseCase construye el caso de uso. renderers se indexa por formato (pdf, xlsx, csv).
func NewReportUseCase(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	invoiceRepo repository.InvoiceRepository,
	userRepo repository.UserRepository,
	renderers map[string]Renderer,
) *ReportUseCase {
	return &ReportUseCase{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		invoiceRepo:  invoiceRepo,
		userRepo:     userRepo,
		renderers:    renderers,
	}
}

// Inventory reporte de productos activos ordenado por categoría y nombre.
func (uc *ReportUseCase) Inventory(ctx context.Context, userID string, in dto.ReportRequest) (*ReportFile, error) {
	format, renderer, encoding, err := uc.resolve(in)
	if err != nil {
		return nil, err
	}
	owner, err := uc.owner(ctx, userID)
	if err != nil {
		return nil, err
	}
	products, _, err := uc.productRepo.List(ctx, repository.ProductFilter{UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("reporte inventario: productos: %w", err)
	}
	categories, err := uc.categoryRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("reporte inventario: categorías: %w", err)
	}
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	now := time.Now()
	rep := &InventoryReport{Owner: owner, GeneratedAt: now, Encoding: encoding, Rows: make([]InventoryRow, 0, len(products))}
	for _, p := range products {
		value := p.InventoryValue()
		rep.Rows = append(rep.Rows, InventoryRow{
			SKU:               p.SKU,
			Name:              p.Name,
			Category:          names[p.CategoryID],
			StockQuantity:     p.StockQuantity,
			LowStockThreshold: p.LowStockThreshold,
			Price:             p.Price,
			CostPrice:         p.CostPrice,
			Value:             value,
			LowStock:          p.IsLowStock(),
		})
		rep.TotalUnits += p.StockQuantity
		rep.TotalValue = rep.TotalValue.Add(value)
	}
	sort.SliceStable(rep.Rows, func(i, j int) bool {
		if rep.Rows[i].Category != rep.Rows[j].Category {
			return rep.Rows[i].Category < rep.Rows[j].Category
		}
		return rep.Rows[i].Name < rep.Rows[j].Name
	})

	data, err := renderer.RenderInventory(rep)
	if err != nil {
		return nil, fmt.Errorf("reporte inventario: %s: %w", format, err)
	}
	return &ReportFile{
		Filename:    fmt.Sprintf("inventario_%s.%s", now.Format("20060102"), format),
		ContentType: renderer.ContentType(),
		Data:        data,
	}, nil
}

// Sales reporte de facturas del rango, de la más antigua a la más reciente.
func (uc *ReportUseCase) Sales(ctx context.Context, userID string, in dto.ReportRequest) (*ReportFile, error) {
	format, renderer, encoding, err := uc.resolve(in)
	if err != nil {
		return nil, err
	}
	from, err := dto.ParseDateParam(in.DateFrom, false)
	if err != nil {
		return nil, fmt.Errorf("%w: date_from: %v", domain.ErrInvalidInput, err)
	}
	to, err := dto.ParseDateParam(in.DateTo, true)
	if err != nil {
		return nil, fmt.Errorf("%w: date_to: %v", domain.ErrInvalidInput, err)
	}
	owner, err := uc.owner(ctx, userID)
	if err != nil {
		return nil, err
	}
	invoices, _, err := uc.invoiceRepo.List(ctx, repository.InvoiceFilter{UserID: userID, From: from, To: to})
	if err != nil {
		return nil, fmt.Errorf("reporte ventas: facturas: %w", err)
	}

	now := time.Now()
	rep := &SalesReport{
		Owner:       owner,
		GeneratedAt: now,
		Encoding:    encoding,
		From:        from,
		To:          to,
		Rows:        make([]SalesRow, 0, len(invoices)),
	}
	for i := len(invoices) - 1; i >= 0; i-- {
		d := invoices[i]
		rep.Rows = append(rep.Rows, SalesRow{
			InvoiceNo: d.InvoiceNo,
			Date:      d.CreatedAt,
			Customer:  d.CustomerName,
			Status:    d.Status,
			Items:     len(d.Items),
			TaxAmount: d.TaxAmount,
			Discount:  d.Discount,
			Total:     d.TotalAmount,
		})
		rep.TotalTax = rep.TotalTax.Add(d.TaxAmount)
		rep.TotalSales = rep.TotalSales.Add(d.TotalAmount)
	}

	data, err := renderer.RenderSales(rep)
	if err != nil {
		return nil, fmt.Errorf("reporte ventas: %s: %w", format, err)
	}
	return &ReportFile{
		Filename:    fmt.Sprintf("ventas_%s.%s", now.Format("20060102"), format),
		ContentType: renderer.ContentType(),
		Data:        data,
	}, nil
}

func (uc *ReportUseCase) resolve(in dto.ReportRequest) (string, Renderer, string, error) {
	format := strings.ToLower(strings.TrimSpace(in.Format))
	if format == "" {
		format = FormatPDF
	}
	renderer, ok := uc.renderers[format]
	if !ok {
		return "", nil, "", fmt.Errorf("%w: formato %q no soportado", domain.ErrInvalidInput, in.Format)
	}
	encoding := strings.ToLower(strings.TrimSpace(in.Encoding))
	switch encoding {
	case "", "utf8", EncodingUTF8:
		encoding = EncodingUTF8
	case EncodingLatin1, "windows-1252", "cp1252":
		encoding = EncodingLatin1
	default:
		return "", nil, "", fmt.Errorf("%w: codificación %q no soportada", domain.ErrInvalidInput, in.Encoding)
	}
	return format, renderer, encoding, nil
}

func (uc *ReportUseCase) owner(ctx context.Context, userID string) (string, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", domain.ErrUserNotFound
	}
	return user.Name, nil
}
