package billing

import (
	"context"
	"fmt"

	"github.com/jhoicas/stockbill-api/internal/domain"
	"github.com/jhoicas/stockbill-api/internal/domain/entity"
	"github.com/jhoicas/stockbill-api/internal/domain/repository"
)

// InvoiceDocument archivo generado a partir de una factura.
type InvoiceDocument struct {
	Filename    string
	ContentType string
	Data        []byte
	Digest      string // solo XML: SHA-256 en base64 de la forma canónica
}

// DocumentUseCase genera las representaciones descargables de una factura (PDF y XML).
type DocumentUseCase struct {
	invoiceRepo  repository.InvoiceRepository
	customerRepo repository.CustomerRepository
	userRepo     repository.UserRepository
	pdf          InvoicePDFGenerator
	xml          InvoiceXMLBuilder
}

// NewDocumentUseCase construye el caso de uso inyectando todas sus dependencias.
func NewDocumentUseCase(
	invoiceRepo repository.InvoiceRepository,
	customerRepo repository.CustomerRepository,
	userRepo repository.UserRepository,
	pdf InvoicePDFGenerator,
	xml InvoiceXMLBuilder,
) *DocumentUseCase {
	return &DocumentUseCase{
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		userRepo:     userRepo,
		pdf:          pdf,
		xml:          xml,
	}
}

// DownloadPDF genera el PDF de la factura.
//
// Retorna:
//   - el documento si todo sale bien.
//   - domain.ErrNotFound si la factura no existe o es de otro usuario.
func (uc *DocumentUseCase) DownloadPDF(ctx context.Context, userID, invoiceID string) (*InvoiceDocument, error) {
	detail, seller, customer, err := uc.load(ctx, userID, invoiceID)
	if err != nil {
		return nil, err
	}
	data, err := uc.pdf.GenerateInvoicePDF(ctx, detail, seller, customer)
	if err != nil {
		return nil, fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return &InvoiceDocument{
		Filename:    fmt.Sprintf("factura_%s.pdf", detail.InvoiceNo),
		ContentType: "application/pdf",
		Data:        data,
	}, nil
}

// ExportXML arma el XML de la factura y su digest canónico.
func (uc *DocumentUseCase) ExportXML(ctx context.Context, userID, invoiceID string) (*InvoiceDocument, error) {
	detail, seller, customer, err := uc.load(ctx, userID, invoiceID)
	if err != nil {
		return nil, err
	}
	data, err := uc.xml.BuildInvoiceXML(detail, seller, customer)
	if err != nil {
		return nil, fmt.Errorf("xml: construir documento: %w", err)
	}
	digest, err := uc.xml.Digest(data)
	if err != nil {
		return nil, fmt.Errorf("xml: digest: %w", err)
	}
	return &InvoiceDocument{
		Filename:    fmt.Sprintf("factura_%s.xml", detail.InvoiceNo),
		ContentType: "application/xml",
		Data:        data,
		Digest:      digest,
	}, nil
}

func (uc *DocumentUseCase) load(ctx context.Context, userID, invoiceID string) (*repository.InvoiceDetail, *entity.User, *entity.Customer, error) {
	// ── 1. Cargar factura ─────────────────────────────────────────────────────
	detail, err := uc.invoiceRepo.GetDetail(ctx, userID, invoiceID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("obtener factura: %w", err)
	}
	if detail == nil {
		return nil, nil, nil, domain.ErrNotFound
	}

	// ── 2. Emisor ─────────────────────────────────────────────────────────────
	seller, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("obtener emisor: %w", err)
	}
	if seller == nil {
		return nil, nil, nil, domain.ErrUserNotFound
	}

	// ── 3. Cliente (puede estar desactivado) ──────────────────────────────────
	customer, err := uc.customerRepo.GetByID(ctx, userID, detail.CustomerID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("obtener cliente: %w", err)
	}
	if customer == nil {
		customer = &entity.Customer{ID: detail.CustomerID, Name: detail.CustomerName, Email: detail.CustomerEmail}
	}
	return detail, seller, customer, nil
}
