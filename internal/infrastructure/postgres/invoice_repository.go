package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stockbill-api/internal/domain"
	"github.com/jhoicas/stockbill-api/internal/domain/entity"
	"github.com/jhoicas/stockbill-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `i.id, i.user_id, i.invoice_no, i.customer_id, i.total_amount, i.tax_amount,
	i.discount, i.status, i.due_date, COALESCE(i.notes, ''), i.created_at, i.updated_at`

func invoiceDest(inv *entity.Invoice) []any {
	return []any{
		&inv.ID, &inv.UserID, &inv.InvoiceNo, &inv.CustomerID, &inv.TotalAmount, &inv.TaxAmount,
		&inv.Discount, &inv.Status, &inv.DueDate, &inv.Notes, &inv.CreatedAt, &inv.UpdatedAt,
	}
}

// NextNumber incrementa el contador del usuario y devuelve el nuevo consecutivo.
// El UPSERT bloquea la fila del contador hasta el fin de la transacción.
func (r *InvoiceRepo) NextNumber(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `
		INSERT INTO invoice_counters (user_id, last_number) VALUES ($1, 1)
		ON CONFLICT (user_id) DO UPDATE SET last_number = invoice_counters.last_number + 1
		RETURNING last_number`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("next invoice number: %w", err)
	}
	return n, nil
}

// Create persiste la cabecera y sus líneas.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice, items []*entity.InvoiceItem) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO invoices (id, user_id, invoice_no, customer_id, total_amount, tax_amount, discount, status, due_date, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		inv.ID, inv.UserID, inv.InvoiceNo, inv.CustomerID, inv.TotalAmount, inv.TaxAmount,
		inv.Discount, inv.Status, inv.DueDate, nullIfEmpty(inv.Notes), inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: el número %s ya existe", domain.ErrConflict, inv.InvoiceNo)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	for _, it := range items {
		_, err := r.q.Exec(ctx, `
			INSERT INTO invoice_items (id, invoice_id, product_id, position, quantity, unit_price, discount, total, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			it.ID, it.InvoiceID, it.ProductID, it.Position, it.Quantity, it.UnitPrice, it.Discount, it.Total, it.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert invoice item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene la cabecera de una factura del usuario.
func (r *InvoiceRepo) GetByID(ctx context.Context, userID, id string) (*entity.Invoice, error) {
	var inv entity.Invoice
	err := r.q.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices i WHERE i.user_id = $1 AND i.id = $2`, userID, id).
		Scan(invoiceDest(&inv)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return &inv, nil
}

// GetItems obtiene las líneas de una factura.
func (r *InvoiceRepo) GetItems(ctx context.Context, invoiceID string) ([]*entity.InvoiceItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, invoice_id, product_id, position, quantity, unit_price, discount, total, created_at
		FROM invoice_items WHERE invoice_id = $1 ORDER BY position`, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("get invoice items: %w", err)
	}
	defer rows.Close()

	var out []*entity.InvoiceItem
	for rows.Next() {
		var it entity.InvoiceItem
		if err := rows.Scan(&it.ID, &it.InvoiceID, &it.ProductID, &it.Position, &it.Quantity, &it.UnitPrice, &it.Discount, &it.Total, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan invoice item: %w", err)
		}
		out = append(out, &it)
	}
	return out, rows.Err()
}

// GetDetail obtiene la factura con cliente y líneas enriquecidas.
func (r *InvoiceRepo) GetDetail(ctx context.Context, userID, id string) (*repository.InvoiceDetail, error) {
	list, _, err := r.list(ctx, `i.user_id = $1 AND i.id = $2`, []any{userID, id}, 0, 0, false)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// List lista facturas con filtros, más recientes primero.
func (r *InvoiceRepo) List(ctx context.Context, f repository.InvoiceFilter) ([]*repository.InvoiceDetail, int, error) {
	where := `i.user_id = $1
		AND ($2 = '' OR i.customer_id::text = $2)
		AND ($3 = '' OR i.status = $3)
		AND ($4::timestamptz IS NULL OR i.created_at >= $4)
		AND ($5::timestamptz IS NULL OR i.created_at <= $5)`
	args := []any{f.UserID, f.CustomerID, f.Status, f.From, f.To}
	return r.list(ctx, where, args, f.Limit, f.Offset, true)
}

// CountByCustomer cuenta las facturas de un cliente.
func (r *InvoiceRepo) CountByCustomer(ctx context.Context, customerID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM invoices WHERE customer_id = $1`, customerID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count customer invoices: %w", err)
	}
	return n, nil
}

// UpdateStatus cambia el estado de la factura.
func (r *InvoiceRepo) UpdateStatus(ctx context.Context, userID, id, status string, at time.Time) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE invoices SET status = $3, updated_at = $4 WHERE user_id = $1 AND id = $2`,
		userID, id, status, at,
	)
	if err != nil {
		return fmt.Errorf("update invoice status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete borra la factura; invoice_items se elimina por ON DELETE CASCADE.
func (r *InvoiceRepo) Delete(ctx context.Context, userID, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM invoices WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *InvoiceRepo) list(ctx context.Context, where string, args []any, limit, offset int, count bool) ([]*repository.InvoiceDetail, int, error) {
	total := 0
	if count {
		if err := r.q.QueryRow(ctx, `SELECT count(*) FROM invoices i WHERE `+where, args...).Scan(&total); err != nil {
			return nil, 0, fmt.Errorf("count invoices: %w", err)
		}
	}

	n := len(args)
	rows, err := r.q.Query(ctx, fmt.Sprintf(`
		SELECT %s, c.name, COALESCE(c.email, '')
		FROM invoices i
		JOIN customers c ON c.id = i.customer_id
		WHERE %s
		ORDER BY i.created_at DESC, i.invoice_no DESC
		LIMIT $%d OFFSET $%d`, invoiceColumns, where, n+1, n+2),
		append(args, limitArg(limit), offset)...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list invoices: %w", err)
	}
	var out []*repository.InvoiceDetail
	byID := map[string]*repository.InvoiceDetail{}
	ids := []string{}
	for rows.Next() {
		d := &repository.InvoiceDetail{}
		dest := append(invoiceDest(&d.Invoice), &d.CustomerName, &d.CustomerEmail)
		if err := rows.Scan(dest...); err != nil {
			rows.Close()
			return nil, 0, fmt.Errorf("scan invoice: %w", err)
		}
		out = append(out, d)
		byID[d.ID] = d
		ids = append(ids, d.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list invoices: %w", err)
	}
	if !count {
		total = len(out)
	}
	if len(ids) == 0 {
		return out, total, nil
	}

	// Líneas de todas las facturas de la página en una sola consulta.
	itemRows, err := r.q.Query(ctx, `
		SELECT it.id, it.invoice_id, it.product_id, it.position, it.quantity, it.unit_price, it.discount, it.total, it.created_at,
		       p.name, p.sku, p.category_id, COALESCE(cat.name, '')
		FROM invoice_items it
		JOIN products p ON p.id = it.product_id
		LEFT JOIN categories cat ON cat.id = p.category_id
		WHERE it.invoice_id::text = ANY($1)
		ORDER BY it.invoice_id, it.position`, ids)
	if err != nil {
		return nil, 0, fmt.Errorf("list invoice items: %w", err)
	}
	defer itemRows.Close()
	for itemRows.Next() {
		var l repository.InvoiceLine
		if err := itemRows.Scan(
			&l.ID, &l.InvoiceID, &l.ProductID, &l.Position, &l.Quantity, &l.UnitPrice, &l.Discount, &l.Total, &l.CreatedAt,
			&l.ProductName, &l.ProductSKU, &l.CategoryID, &l.CategoryName,
		); err != nil {
			return nil, 0, fmt.Errorf("scan invoice line: %w", err)
		}
		if d, ok := byID[l.InvoiceID]; ok {
			d.Items = append(d.Items, l)
		}
	}
	return out, total, itemRows.Err()
}
