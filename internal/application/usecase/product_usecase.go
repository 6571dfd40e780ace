package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stockbill-api/internal/application/dto"
	"github.com/jhoicas/stockbill-api/internal/application/inventory"
	"github.com/jhoicas/stockbill-api/internal/application/ports"
	"github.com/jhoicas/stockbill-api/internal/domain"
	"github.com/jhoicas/stockbill-api/internal/domain/entity"
	"github.com/jhoicas/stockbill-api/internal/domain/repository"
)

// StockLedger operaciones de stock que el CRUD de productos necesita dentro de su transacción.
type StockLedger interface {
	RecordInitialInTx(ctx context.Context, movRepo repository.StockMovementRepository, product *entity.Product, now time.Time) (ports.StockEvent, bool, error)
	AdjustInTx(ctx context.Context, movRepo repository.StockMovementRepository, product *entity.Product, target int, reason string, now time.Time) (ports.StockEvent, bool, error)
	RecentMovements(ctx context.Context, productID string) ([]dto.StockMovementResponse, error)
}

// ProductUseCase casos de uso CRUD para productos. Todo cambio de stock deja su movimiento en el libro.
type ProductUseCase struct {
	repo         repository.ProductRepository
	categoryRepo repository.CategoryRepository
	txRunner     inventory.TxRunner
	stock        StockLedger
	publisher    ports.StockEventPublisher
}

// NewProductUseCase construye el caso de uso. publisher puede ser nil.
func NewProductUseCase(
	repo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	txRunner inventory.TxRunner,
	stock StockLedger,
	publisher ports.StockEventPublisher,
) *ProductUseCase {
	if publisher == nil {
		publisher = ports.NopPublisher{}
	}
	return &ProductUseCase{
		repo:         repo,
		categoryRepo: categoryRepo,
		txRunner:     txRunner,
		stock:        stock,
		publisher:    publisher,
	}
}

// Create crea un producto y, si trae stock inicial, su movimiento IN en la misma transacción.
func (uc *ProductUseCase) Create(ctx context.Context, userID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.Price == nil || in.CostPrice == nil || in.StockQuantity == nil {
		return nil, fmt.Errorf("%w: price, cost_price y stock_quantity son obligatorios", domain.ErrInvalidInput)
	}
	if in.Price.IsNegative() || in.CostPrice.IsNegative() || *in.StockQuantity < 0 {
		return nil, fmt.Errorf("%w: precios y stock no pueden ser negativos", domain.ErrInvalidInput)
	}
	category, err := uc.ownedCategory(ctx, userID, in.CategoryID)
	if err != nil {
		return nil, err
	}
	sku := strings.TrimSpace(in.SKU)
	if err := uc.ensureSKUFree(ctx, uc.repo, sku, ""); err != nil {
		return nil, err
	}
	threshold := entity.DefaultLowStockThreshold
	if in.LowStockThreshold != nil {
		threshold = *in.LowStockThreshold
	}

	now := time.Now()
	product := &entity.Product{
		ID:                uuid.New().String(),
		UserID:            userID,
		CategoryID:        category.ID,
		Name:              strings.TrimSpace(in.Name),
		Description:       in.Description,
		SKU:               sku,
		Price:             *in.Price,
		CostPrice:         *in.CostPrice,
		StockQuantity:     *in.StockQuantity,
		LowStockThreshold: threshold,
		Supplier:          in.Supplier,
		IsActive:          true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	var events []ports.StockEvent
	err = uc.txRunner.Run(ctx, func(productRepo repository.ProductRepository, movRepo repository.StockMovementRepository) error {
		if err := productRepo.Create(ctx, product); err != nil {
			return err
		}
		event, ok, err := uc.stock.RecordInitialInTx(ctx, movRepo, product, now)
		if err != nil {
			return err
		}
		if ok {
			events = append(events, event)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.publisher.PublishStockUpdated(ctx, events)
	out := dto.ToProductResponse(product, category)
	return &out, nil
}

// Get devuelve el producto con su categoría y sus últimos movimientos.
func (uc *ProductUseCase) Get(ctx context.Context, userID, id string) (*dto.ProductDetailResponse, error) {
	product, err := uc.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	category, err := uc.categoryRepo.GetByID(ctx, userID, product.CategoryID)
	if err != nil {
		return nil, err
	}
	movements, err := uc.stock.RecentMovements(ctx, product.ID)
	if err != nil {
		return nil, err
	}
	return &dto.ProductDetailResponse{
		ProductResponse: dto.ToProductResponse(product, category),
		StockMovements:  movements,
	}, nil
}

// List lista productos activos con filtro de categoría, búsqueda y paginación.
func (uc *ProductUseCase) List(ctx context.Context, userID string, in dto.ProductListRequest) (*dto.ProductListResponse, error) {
	in.DefaultPage()
	filter := repository.ProductFilter{
		UserID: userID,
		Search: strings.TrimSpace(in.Search),
		Limit:  in.Limit,
		Offset: in.Offset(),
	}
	if in.Category != "all" {
		filter.CategoryID = in.Category
	}
	list, total, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	categories, err := uc.categoriesByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := &dto.ProductListResponse{
		Products:   make([]dto.ProductResponse, 0, len(list)),
		Pagination: dto.NewPagination(total, in.PageRequest),
	}
	for _, p := range list {
		out.Products = append(out.Products, dto.ToProductResponse(p, categories[p.CategoryID]))
	}
	return out, nil
}

// Update aplica una actualización parcial. Si cambia stock_quantity registra un movimiento
// "Stock adjustment" en la misma transacción.
func (uc *ProductUseCase) Update(ctx context.Context, userID, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if in.StockQuantity != nil && *in.StockQuantity < 0 {
		return nil, fmt.Errorf("%w: el stock no puede ser negativo", domain.ErrInvalidInput)
	}
	if (in.Price != nil && in.Price.IsNegative()) || (in.CostPrice != nil && in.CostPrice.IsNegative()) {
		return nil, fmt.Errorf("%w: los precios no pueden ser negativos", domain.ErrInvalidInput)
	}
	var category *entity.Category
	if in.CategoryID != nil {
		c, err := uc.ownedCategory(ctx, userID, *in.CategoryID)
		if err != nil {
			return nil, err
		}
		category = c
	}

	now := time.Now()
	var product *entity.Product
	var events []ports.StockEvent
	err := uc.txRunner.Run(ctx, func(productRepo repository.ProductRepository, movRepo repository.StockMovementRepository) error {
		p, err := productRepo.GetForUpdate(ctx, userID, id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		if in.SKU != nil {
			sku := strings.TrimSpace(*in.SKU)
			if err := uc.ensureSKUFree(ctx, productRepo, sku, p.ID); err != nil {
				return err
			}
			p.SKU = sku
		}
		applyProductUpdate(p, in, category)
		if in.StockQuantity != nil {
			event, ok, err := uc.stock.AdjustInTx(ctx, movRepo, p, *in.StockQuantity, entity.ReasonStockAdjustment, now)
			if err != nil {
				return err
			}
			if ok {
				events = append(events, event)
			}
		}
		p.UpdatedAt = now
		product = p
		return productRepo.Update(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	uc.publisher.PublishStockUpdated(ctx, events)
	if category == nil {
		if category, err = uc.categoryRepo.GetByID(ctx, userID, product.CategoryID); err != nil {
			return nil, err
		}
	}
	out := dto.ToProductResponse(product, category)
	return &out, nil
}

// Delete desactiva el producto (borrado lógico); las facturas y el libro lo siguen referenciando.
func (uc *ProductUseCase) Delete(ctx context.Context, userID, id string) error {
	product, err := uc.repo.GetByID(ctx, userID, id)
	if err != nil {
		return err
	}
	if product == nil || !product.IsActive {
		return domain.ErrNotFound
	}
	return uc.repo.Deactivate(ctx, userID, id)
}

// LowStock productos activos con stock <= umbral, de menor a mayor stock.
func (uc *ProductUseCase) LowStock(ctx context.Context, userID string) (*dto.LowStockResponse, error) {
	list, err := uc.repo.ListLowStock(ctx, userID)
	if err != nil {
		return nil, err
	}
	categories, err := uc.categoriesByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := &dto.LowStockResponse{Products: make([]dto.ProductResponse, 0, len(list)), Count: len(list)}
	for _, p := range list {
		out.Products = append(out.Products, dto.ToProductResponse(p, categories[p.CategoryID]))
	}
	return out, nil
}

func applyProductUpdate(p *entity.Product, in dto.UpdateProductRequest, category *entity.Category) {
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if category != nil {
		p.CategoryID = category.ID
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.CostPrice != nil {
		p.CostPrice = *in.CostPrice
	}
	if in.LowStockThreshold != nil {
		p.LowStockThreshold = *in.LowStockThreshold
	}
	if in.Supplier != nil {
		p.Supplier = *in.Supplier
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
}

func (uc *ProductUseCase) ownedCategory(ctx context.Context, userID, categoryID string) (*entity.Category, error) {
	if categoryID == "" {
		return nil, fmt.Errorf("%w: category_id es obligatorio", domain.ErrInvalidInput)
	}
	category, err := uc.categoryRepo.GetByID(ctx, userID, categoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, fmt.Errorf("%w: categoría no encontrada", domain.ErrInvalidInput)
	}
	return category, nil
}

func (uc *ProductUseCase) ensureSKUFree(ctx context.Context, repo repository.ProductRepository, sku, selfID string) error {
	if sku == "" {
		return fmt.Errorf("%w: el SKU es obligatorio", domain.ErrInvalidInput)
	}
	existing, err := repo.GetBySKU(ctx, sku)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return fmt.Errorf("%w: ya existe un producto con el SKU %s", domain.ErrDuplicate, sku)
	}
	return nil
}

func (uc *ProductUseCase) categoriesByID(ctx context.Context, userID string) (map[string]*entity.Category, error) {
	list, err := uc.categoryRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make(map[string]*entity.Category, len(list))
	for _, c := range list {
		cat := c.Category
		out[c.ID] = &cat
	}
	return out, nil
}
