package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stockbill-api/internal/domain"
	"github.com/jhoicas/stockbill-api/internal/domain/entity"
	"github.com/jhoicas/stockbill-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, user_id, category_id, name, description, sku, price, cost_price,
	stock_quantity, low_stock_threshold, COALESCE(supplier, ''), is_active, created_at, updated_at`

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.UserID, &p.CategoryID, &p.Name, &p.Description, &p.SKU, &p.Price, &p.CostPrice,
		&p.StockQuantity, &p.LowStockThreshold, &p.Supplier, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste un nuevo producto. SKU repetido -> ErrDuplicate.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO products (id, user_id, category_id, name, description, sku, price, cost_price,
			stock_quantity, low_stock_threshold, supplier, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		p.ID, p.UserID, p.CategoryID, p.Name, p.Description, p.SKU, p.Price, p.CostPrice,
		p.StockQuantity, p.LowStockThreshold, nullIfEmpty(p.Supplier), p.IsActive, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: ya existe un producto con el SKU %s", domain.ErrDuplicate, p.SKU)
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto del usuario (activo o no).
func (r *ProductRepo) GetByID(ctx context.Context, userID, id string) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE user_id = $1 AND id = $2`, userID, id)
}

// GetForUpdate obtiene el producto bloqueando la fila hasta el fin de la transacción.
func (r *ProductRepo) GetForUpdate(ctx context.Context, userID, id string) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE user_id = $1 AND id = $2 FOR UPDATE`, userID, id)
}

// GetBySKU obtiene un producto por SKU (único global).
func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE sku = $1`, sku)
}

// Update persiste todos los campos editables, incluido el stock ajustado.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE products SET category_id = $3, name = $4, description = $5, sku = $6, price = $7,
			cost_price = $8, stock_quantity = $9, low_stock_threshold = $10, supplier = $11,
			is_active = $12, updated_at = $13
		WHERE user_id = $1 AND id = $2`,
		p.UserID, p.ID, p.CategoryID, p.Name, p.Description, p.SKU, p.Price,
		p.CostPrice, p.StockQuantity, p.LowStockThreshold, nullIfEmpty(p.Supplier),
		p.IsActive, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: ya existe un producto con el SKU %s", domain.ErrDuplicate, p.SKU)
		}
		if isCheckViolation(err) {
			return fmt.Errorf("%w: el stock no puede ser negativo", domain.ErrInvalidInput)
		}
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateStock fija el stock del producto (dentro de la tx que registra el movimiento).
func (r *ProductRepo) UpdateStock(ctx context.Context, productID string, quantity int) error {
	_, err := r.q.Exec(ctx,
		`UPDATE products SET stock_quantity = $2, updated_at = now() WHERE id = $1`,
		productID, quantity,
	)
	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("%w: el stock no puede ser negativo", domain.ErrInvalidInput)
		}
		return fmt.Errorf("update product stock: %w", err)
	}
	return nil
}

// Deactivate borrado lógico.
func (r *ProductRepo) Deactivate(ctx context.Context, userID, id string) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE products SET is_active = FALSE, updated_at = now() WHERE user_id = $1 AND id = $2`,
		userID, id,
	)
	if err != nil {
		return fmt.Errorf("deactivate product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista productos activos con filtros; devuelve también el total sin paginar.
func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, int, error) {
	where := `user_id = $1 AND is_active AND ($2 = '' OR category_id::text = $2)
		AND ($3 = '' OR name ILIKE $4 OR description ILIKE $4 OR sku ILIKE $4)`
	args := []any{f.UserID, f.CategoryID, f.Search, likePattern(f.Search)}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM products WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	rows, err := r.q.Query(ctx,
		`SELECT `+productColumns+` FROM products WHERE `+where+` ORDER BY created_at DESC LIMIT $5 OFFSET $6`,
		append(args, limitArg(f.Limit), f.Offset)...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	list, err := collectProducts(rows)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ListLowStock productos activos con stock <= umbral, de menor a mayor stock.
func (r *ProductRepo) ListLowStock(ctx context.Context, userID string) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+productColumns+` FROM products
		WHERE user_id = $1 AND is_active AND stock_quantity <= low_stock_threshold
		ORDER BY stock_quantity ASC, name`, userID)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	return collectProducts(rows)
}

func (r *ProductRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func collectProducts(rows pgx.Rows) ([]*entity.Product, error) {
	defer rows.Close()
	var out []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
