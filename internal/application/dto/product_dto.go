package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Name              string           `json:"name" validate:"required,min=1,max=200"`
	Description       string           `json:"description" validate:"required"`
	SKU               string           `json:"sku" validate:"required,min=1,max=100"`
	CategoryID        string           `json:"category_id" validate:"required,uuid"`
	Price             *decimal.Decimal `json:"price" validate:"required,gte=0"`
	CostPrice         *decimal.Decimal `json:"cost_price" validate:"required,gte=0"`
	StockQuantity     *int             `json:"stock_quantity" validate:"required,gte=0"`
	LowStockThreshold *int             `json:"low_stock_threshold" validate:"omitempty,gte=0"`
	Supplier          string           `json:"supplier"`
}

// UpdateProductRequest actualización parcial. Un cambio de stock_quantity deja un movimiento de ajuste.
type UpdateProductRequest struct {
	Name              *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description       *string          `json:"description"`
	SKU               *string          `json:"sku" validate:"omitempty,min=1,max=100"`
	CategoryID        *string          `json:"category_id" validate:"omitempty,uuid"`
	Price             *decimal.Decimal `json:"price" validate:"omitempty,gte=0"`
	CostPrice         *decimal.Decimal `json:"cost_price" validate:"omitempty,gte=0"`
	StockQuantity     *int             `json:"stock_quantity" validate:"omitempty,gte=0"`
	LowStockThreshold *int             `json:"low_stock_threshold" validate:"omitempty,gte=0"`
	Supplier          *string          `json:"supplier"`
	IsActive          *bool            `json:"is_active"`
}

// ProductListRequest query params de GET /api/products.
type ProductListRequest struct {
	PageRequest
	Category string `query:"category"`
	Search   string `query:"search"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID                string           `json:"id"`
	Name              string           `json:"name"`
	Description       string           `json:"description"`
	SKU               string           `json:"sku"`
	CategoryID        string           `json:"category_id"`
	Category          *CategorySummary `json:"category,omitempty"`
	Price             decimal.Decimal  `json:"price"`
	CostPrice         decimal.Decimal  `json:"cost_price"`
	StockQuantity     int              `json:"stock_quantity"`
	LowStockThreshold int              `json:"low_stock_threshold"`
	Supplier          string           `json:"supplier,omitempty"`
	IsActive          bool             `json:"is_active"`
	IsLowStock        bool             `json:"is_low_stock"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// ProductDetailResponse producto con sus últimos movimientos.
type ProductDetailResponse struct {
	ProductResponse
	StockMovements []StockMovementResponse `json:"stock_movements"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Products   []ProductResponse `json:"products"`
	Pagination Pagination        `json:"pagination"`
}

// ProductMutationResponse respuesta de creación/actualización.
type ProductMutationResponse struct {
	Message string          `json:"message"`
	Product ProductResponse `json:"product"`
}

// LowStockResponse productos en alerta de stock bajo.
type LowStockResponse struct {
	Products []ProductResponse `json:"products"`
	Count    int               `json:"count"`
}
