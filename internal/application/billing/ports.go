package billing

import (
	"context"
	"time"

	"github.com/jhoicas/stockbill-api/internal/application/ports"
	"github.com/jhoicas/stockbill-api/internal/domain/entity"
	"github.com/jhoicas/stockbill-api/internal/domain/repository"
)

// BillingTxRunner ejecuta una función dentro de una transacción que incluye repos de inventario y facturación.
type BillingTxRunner interface {
	RunBilling(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
		customerRepo repository.CustomerRepository,
		invoiceRepo repository.InvoiceRepository,
	) error) error
}

// InventoryUseCase interfaz para integrar facturación con inventario.
// Los métodos usan los repositorios del caller (misma transacción); si retornan error
// (ej: stock insuficiente) el caller debe hacer rollback.
type InventoryUseCase interface {
	WithdrawInTx(
		ctx context.Context,
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
		userID, productID string,
		quantity int,
		reason, reference string,
		now time.Time,
	) (*entity.Product, ports.StockEvent, error)
	RestockInTx(
		ctx context.Context,
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
		userID, productID string,
		quantity int,
		reason, reference string,
		now time.Time,
	) (*entity.Product, ports.StockEvent, error)
}

// InvoicePDFGenerator genera la representación PDF de una factura.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, invoice *repository.InvoiceDetail, seller *entity.User, customer *entity.Customer) ([]byte, error)
}

// InvoiceXMLBuilder arma el documento XML de una factura y calcula su digest canónico.
type InvoiceXMLBuilder interface {
	BuildInvoiceXML(invoice *repository.InvoiceDetail, seller *entity.User, customer *entity.Customer) ([]byte, error)
	Digest(xmlDoc []byte) (string, error)
}
