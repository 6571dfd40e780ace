package dto

import (
	"github.com/jhoicas/stockbill-api/internal/domain/entity"
	"github.com/jhoicas/stockbill-api/internal/domain/repository"
)

// ToProductResponse convierte la entidad; category puede ser nil.
func ToProductResponse(p *entity.Product, category *entity.Category) ProductResponse {
	out := ProductResponse{
		ID:                p.ID,
		Name:              p.Name,
		Description:       p.Description,
		SKU:               p.SKU,
		CategoryID:        p.CategoryID,
		Price:             p.Price,
		CostPrice:         p.CostPrice,
		StockQuantity:     p.StockQuantity,
		LowStockThreshold: p.LowStockThreshold,
		Supplier:          p.Supplier,
		IsActive:          p.IsActive,
		IsLowStock:        p.IsLowStock(),
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
	if category != nil {
		out.Category = &CategorySummary{ID: category.ID, Name: category.Name, Color: category.Color}
	}
	return out
}

// ToCategoryResponse convierte la entidad con su conteo de productos.
func ToCategoryResponse(c *entity.Category, productCount int) CategoryResponse {
	return CategoryResponse{
		ID:           c.ID,
		Name:         c.Name,
		Description:  c.Description,
		Color:        c.Color,
		ProductCount: productCount,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

// ToCustomerResponse convierte el cliente con sus totales.
func ToCustomerResponse(c *repository.CustomerWithStats) CustomerResponse {
	return CustomerResponse{
		ID:            c.ID,
		Name:          c.Name,
		Email:         c.Email,
		Phone:         c.Phone,
		Address:       c.Address,
		Notes:         c.Notes,
		PANNumber:     c.PANNumber,
		VATNumber:     c.VATNumber,
		IsActive:      c.IsActive,
		TotalInvoices: c.TotalInvoices,
		TotalSpent:    c.TotalSpent,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

// ToInvoiceResponse convierte la factura con cliente y líneas.
func ToInvoiceResponse(d *repository.InvoiceDetail) InvoiceResponse {
	out := InvoiceResponse{
		ID:          d.ID,
		InvoiceNo:   d.InvoiceNo,
		CustomerID:  d.CustomerID,
		TotalAmount: d.TotalAmount,
		TaxAmount:   d.TaxAmount,
		Discount:    d.Discount,
		Status:      d.Status,
		DueDate:     d.DueDate,
		Notes:       d.Notes,
		Items:       make([]InvoiceItemResponse, 0, len(d.Items)),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
	if d.CustomerName != "" {
		out.Customer = &CustomerSummary{ID: d.CustomerID, Name: d.CustomerName, Email: d.CustomerEmail}
	}
	for _, it := range d.Items {
		out.Items = append(out.Items, InvoiceItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			ProductSKU:  it.ProductSKU,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Discount:    it.Discount,
			Total:       it.Total,
		})
	}
	return out
}

// ToStockMovementResponse convierte un movimiento del libro.
func ToStockMovementResponse(m *entity.StockMovement) StockMovementResponse {
	return StockMovementResponse{
		ID:        m.ID,
		ProductID: m.ProductID,
		Type:      m.Type,
		Quantity:  m.Quantity,
		Reason:    m.Reason,
		Reference: m.Reference,
		CreatedAt: m.CreatedAt,
	}
}
