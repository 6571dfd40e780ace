package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stockbill-api/internal/application/dto"
	"github.com/jhoicas/stockbill-api/internal/application/ports"
	"github.com/jhoicas/stockbill-api/internal/domain"
	"github.com/jhoicas/stockbill-api/internal/domain/billing"
	"github.com/jhoicas/stockbill-api/internal/domain/entity"
	"github.com/jhoicas/stockbill-api/internal/domain/repository"
)

// InvoiceUseCase crea, consulta y elimina facturas manteniendo el inventario consistente.
type InvoiceUseCase struct {
	txRunner    BillingTxRunner
	inventoryUC InventoryUseCase
	invoiceRepo repository.InvoiceRepository
	publisher   ports.StockEventPublisher
}

// NewInvoiceUseCase construye el caso de uso. publisher puede ser nil.
func NewInvoiceUseCase(
	txRunner BillingTxRunner,
	inventoryUC InventoryUseCase,
	invoiceRepo repository.InvoiceRepository,
	publisher ports.StockEventPublisher,
) *InvoiceUseCase {
	if publisher == nil {
		publisher = ports.NopPublisher{}
	}
	return &InvoiceUseCase{
		txRunner:    txRunner,
		inventoryUC: inventoryUC,
		invoiceRepo: invoiceRepo,
		publisher:   publisher,
	}
}

// Create valida cliente y productos, descuenta stock por cada línea y guarda cabecera y líneas
// en una sola transacción. Cualquier error deja el estado sin cambios.
func (uc *InvoiceUseCase) Create(ctx context.Context, userID string, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	// ── 1. Validar entrada ────────────────────────────────────────────────────
	if strings.TrimSpace(in.CustomerID) == "" || len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: customer_id e items son obligatorios", domain.ErrInvalidInput)
	}
	if in.TaxAmount.IsNegative() || in.Discount.IsNegative() {
		return nil, fmt.Errorf("%w: impuesto y descuento no pueden ser negativos", domain.ErrInvalidInput)
	}
	for _, item := range in.Items {
		if item.ProductID == "" || item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: cada línea requiere product_id y cantidad mayor a cero", domain.ErrInvalidInput)
		}
		if (item.UnitPrice != nil && item.UnitPrice.IsNegative()) || item.Discount.IsNegative() {
			return nil, fmt.Errorf("%w: precio y descuento de línea no pueden ser negativos", domain.ErrInvalidInput)
		}
	}
	dueDate, err := dto.ParseDateParam(in.DueDate, false)
	if err != nil {
		return nil, fmt.Errorf("%w: due_date: %v", domain.ErrInvalidInput, err)
	}

	now := time.Now()
	var detail *repository.InvoiceDetail
	var events []ports.StockEvent

	err = uc.txRunner.RunBilling(ctx, func(
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
		customerRepo repository.CustomerRepository,
		invoiceRepo repository.InvoiceRepository,
	) error {
		// ── 2. Cliente activo del usuario ──────────────────────────────────────
		customer, err := customerRepo.GetByID(ctx, userID, in.CustomerID)
		if err != nil {
			return err
		}
		if customer == nil || !customer.IsActive {
			return fmt.Errorf("%w: cliente no encontrado", domain.ErrInvalidInput)
		}

		// ── 3. Consecutivo ─────────────────────────────────────────────────────
		seq, err := invoiceRepo.NextNumber(ctx, userID)
		if err != nil {
			return err
		}
		invoiceNo := entity.FormatInvoiceNo(seq)

		// ── 4. Salidas de inventario (bloquea cada producto) ───────────────────
		lines := make([]billing.Line, 0, len(in.Items))
		products := make([]*entity.Product, 0, len(in.Items))
		for _, item := range in.Items {
			product, event, err := uc.inventoryUC.WithdrawInTx(
				ctx, productRepo, movRepo,
				userID, item.ProductID,
				item.Quantity,
				entity.ReasonSale, invoiceNo,
				now,
			)
			if err != nil {
				return err
			}
			unitPrice := product.Price
			if item.UnitPrice != nil {
				unitPrice = *item.UnitPrice
			}
			lines = append(lines, billing.Line{Quantity: item.Quantity, UnitPrice: unitPrice, Discount: item.Discount})
			products = append(products, product)
			events = append(events, event)
		}

		// ── 5. Totales ─────────────────────────────────────────────────────────
		totals := billing.ComputeTotals(lines, in.TaxAmount, in.Discount)
		for _, lt := range totals.LineTotals {
			if lt.IsNegative() {
				return fmt.Errorf("%w: el descuento de línea supera su importe", domain.ErrInvalidInput)
			}
		}
		if totals.TotalAmount.IsNegative() {
			return fmt.Errorf("%w: el total de la factura no puede ser negativo", domain.ErrInvalidInput)
		}

		// ── 6. Persistir cabecera y líneas ─────────────────────────────────────
		inv := &entity.Invoice{
			ID:          uuid.New().String(),
			UserID:      userID,
			InvoiceNo:   invoiceNo,
			CustomerID:  customer.ID,
			TotalAmount: totals.TotalAmount,
			TaxAmount:   in.TaxAmount,
			Discount:    in.Discount,
			Status:      entity.InvoiceStatusPending,
			DueDate:     dueDate,
			Notes:       in.Notes,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		items := make([]*entity.InvoiceItem, 0, len(lines))
		detail = &repository.InvoiceDetail{
			Invoice:       *inv,
			CustomerName:  customer.Name,
			CustomerEmail: customer.Email,
		}
		for i, l := range lines {
			item := &entity.InvoiceItem{
				ID:        uuid.New().String(),
				InvoiceID: inv.ID,
				ProductID: products[i].ID,
				Position:  i + 1,
				Quantity:  l.Quantity,
				UnitPrice: l.UnitPrice,
				Discount:  l.Discount,
				Total:     totals.LineTotals[i],
				CreatedAt: now,
			}
			items = append(items, item)
			detail.Items = append(detail.Items, repository.InvoiceLine{
				InvoiceItem: *item,
				ProductName: products[i].Name,
				ProductSKU:  products[i].SKU,
				CategoryID:  products[i].CategoryID,
			})
		}
		return invoiceRepo.Create(ctx, inv, items)
	})
	if err != nil {
		return nil, err
	}

	uc.publisher.PublishStockUpdated(ctx, events)
	out := dto.ToInvoiceResponse(detail)
	return &out, nil
}

// Get devuelve la factura con cliente y líneas.
func (uc *InvoiceUseCase) Get(ctx context.Context, userID, id string) (*dto.InvoiceResponse, error) {
	d, err := uc.invoiceRepo.GetDetail(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.ErrNotFound
	}
	out := dto.ToInvoiceResponse(d)
	return &out, nil
}

// List lista facturas con filtros de cliente, estado y rango de fechas.
func (uc *InvoiceUseCase) List(ctx context.Context, userID string, in dto.InvoiceListRequest) (*dto.InvoiceListResponse, error) {
	in.DefaultPage()
	filter := repository.InvoiceFilter{
		UserID: userID,
		Limit:  in.Limit,
		Offset: in.Offset(),
	}
	if in.Customer != "all" {
		filter.CustomerID = in.Customer
	}
	if in.Status != "" && in.Status != "all" {
		if !entity.IsValidInvoiceStatus(in.Status) {
			return nil, fmt.Errorf("%w: estado %q no válido", domain.ErrInvalidInput, in.Status)
		}
		filter.Status = in.Status
	}
	var err error
	if filter.From, err = dto.ParseDateParam(in.DateFrom, false); err != nil {
		return nil, fmt.Errorf("%w: date_from: %v", domain.ErrInvalidInput, err)
	}
	if filter.To, err = dto.ParseDateParam(in.DateTo, true); err != nil {
		return nil, fmt.Errorf("%w: date_to: %v", domain.ErrInvalidInput, err)
	}

	list, total, err := uc.invoiceRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := &dto.InvoiceListResponse{
		Invoices:   make([]dto.InvoiceResponse, 0, len(list)),
		Pagination: dto.NewPagination(total, in.PageRequest),
	}
	for _, d := range list {
		out.Invoices = append(out.Invoices, dto.ToInvoiceResponse(d))
	}
	return out, nil
}

// UpdateStatus cambia el estado de la factura. No toca el inventario.
func (uc *InvoiceUseCase) UpdateStatus(ctx context.Context, userID, id string, in dto.UpdateInvoiceStatusRequest) (*dto.InvoiceResponse, error) {
	if !entity.IsValidInvoiceStatus(in.Status) {
		return nil, fmt.Errorf("%w: estado %q no válido", domain.ErrInvalidInput, in.Status)
	}
	inv, err := uc.invoiceRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.invoiceRepo.UpdateStatus(ctx, userID, id, in.Status, time.Now()); err != nil {
		return nil, err
	}
	return uc.Get(ctx, userID, id)
}

// Delete devuelve el stock de cada línea, registra las entradas y borra la factura.
// Una factura PAID no se puede eliminar.
func (uc *InvoiceUseCase) Delete(ctx context.Context, userID, id string) error {
	now := time.Now()
	var events []ports.StockEvent

	err := uc.txRunner.RunBilling(ctx, func(
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
		_ repository.CustomerRepository,
		invoiceRepo repository.InvoiceRepository,
	) error {
		inv, err := invoiceRepo.GetByID(ctx, userID, id)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrNotFound
		}
		if inv.Status == entity.InvoiceStatusPaid {
			return domain.ErrPaidInvoice
		}
		items, err := invoiceRepo.GetItems(ctx, inv.ID)
		if err != nil {
			return err
		}
		for _, item := range items {
			_, event, err := uc.inventoryUC.RestockInTx(
				ctx, productRepo, movRepo,
				userID, item.ProductID,
				item.Quantity,
				entity.ReasonInvoiceCancellation, inv.InvoiceNo,
				now,
			)
			if err != nil {
				return err
			}
			events = append(events, event)
		}
		return invoiceRepo.Delete(ctx, userID, inv.ID)
	})
	if err != nil {
		return err
	}

	uc.publisher.PublishStockUpdated(ctx, events)
	return nil
}
