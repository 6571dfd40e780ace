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

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo implementación de CustomerRepository (usable con pool o tx).
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

const customerColumns = `c.id, c.user_id, c.name, COALESCE(c.email, ''), COALESCE(c.phone, ''),
	COALESCE(c.address, ''), COALESCE(c.notes, ''), COALESCE(c.pan_number, ''),
	COALESCE(c.vat_number, ''), c.is_active, c.created_at, c.updated_at`

func customerDest(c *entity.Customer) []any {
	return []any{
		&c.ID, &c.UserID, &c.Name, &c.Email, &c.Phone,
		&c.Address, &c.Notes, &c.PANNumber,
		&c.VATNumber, &c.IsActive, &c.CreatedAt, &c.UpdatedAt,
	}
}

// Create persiste un cliente. Email activo repetido -> ErrDuplicate.
func (r *CustomerRepo) Create(ctx context.Context, c *entity.Customer) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO customers (id, user_id, name, email, phone, address, notes, pan_number, vat_number, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		c.ID, c.UserID, c.Name, nullIfEmpty(c.Email), nullIfEmpty(c.Phone), nullIfEmpty(c.Address),
		nullIfEmpty(c.Notes), nullIfEmpty(c.PANNumber), nullIfEmpty(c.VATNumber), c.IsActive, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: ya existe un cliente con el email %s", domain.ErrDuplicate, c.Email)
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente del usuario (activo o no).
func (r *CustomerRepo) GetByID(ctx context.Context, userID, id string) (*entity.Customer, error) {
	return r.getOne(ctx, `SELECT `+customerColumns+` FROM customers c WHERE c.user_id = $1 AND c.id = $2`, userID, id)
}

// GetActiveByEmail busca un cliente activo del usuario por email (sin distinguir mayúsculas).
func (r *CustomerRepo) GetActiveByEmail(ctx context.Context, userID, email string) (*entity.Customer, error) {
	return r.getOne(ctx, `
		SELECT `+customerColumns+` FROM customers c
		WHERE c.user_id = $1 AND c.is_active AND lower(c.email) = lower($2)`, userID, email)
}

// List lista clientes activos con sus totales de facturación.
func (r *CustomerRepo) List(ctx context.Context, f repository.CustomerFilter) ([]*repository.CustomerWithStats, int, error) {
	where := `c.user_id = $1 AND c.is_active
		AND ($2 = '' OR c.name ILIKE $3 OR c.email ILIKE $3 OR c.phone ILIKE $3)`
	args := []any{f.UserID, f.Search, likePattern(f.Search)}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM customers c WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count customers: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT `+customerColumns+`, COALESCE(s.n, 0), COALESCE(s.spent, 0)
		FROM customers c
		LEFT JOIN (
			SELECT customer_id, count(*) AS n, sum(total_amount) AS spent
			FROM invoices GROUP BY customer_id
		) s ON s.customer_id = c.id
		WHERE `+where+`
		ORDER BY c.created_at DESC
		LIMIT $4 OFFSET $5`,
		append(args, limitArg(f.Limit), f.Offset)...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	var out []*repository.CustomerWithStats
	for rows.Next() {
		var cs repository.CustomerWithStats
		dest := append(customerDest(&cs.Customer), &cs.TotalInvoices, &cs.TotalSpent)
		if err := rows.Scan(dest...); err != nil {
			return nil, 0, fmt.Errorf("scan customer: %w", err)
		}
		out = append(out, &cs)
	}
	return out, total, rows.Err()
}

// CountActive cuenta los clientes activos del usuario.
func (r *CustomerRepo) CountActive(ctx context.Context, userID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM customers WHERE user_id = $1 AND is_active`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count customers: %w", err)
	}
	return n, nil
}

// Update actualiza los datos de contacto.
func (r *CustomerRepo) Update(ctx context.Context, c *entity.Customer) error {
	_, err := r.q.Exec(ctx, `
		UPDATE customers SET name = $3, email = $4, phone = $5, address = $6, notes = $7,
			pan_number = $8, vat_number = $9, updated_at = $10
		WHERE user_id = $1 AND id = $2`,
		c.UserID, c.ID, c.Name, nullIfEmpty(c.Email), nullIfEmpty(c.Phone), nullIfEmpty(c.Address),
		nullIfEmpty(c.Notes), nullIfEmpty(c.PANNumber), nullIfEmpty(c.VATNumber), c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: ya existe un cliente con el email %s", domain.ErrDuplicate, c.Email)
		}
		return fmt.Errorf("update customer: %w", err)
	}
	return nil
}

// Deactivate borrado lógico.
func (r *CustomerRepo) Deactivate(ctx context.Context, userID, id string) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE customers SET is_active = FALSE, updated_at = now() WHERE user_id = $1 AND id = $2`,
		userID, id,
	)
	if err != nil {
		return fmt.Errorf("deactivate customer: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CustomerRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Customer, error) {
	var c entity.Customer
	if err := r.q.QueryRow(ctx, query, args...).Scan(customerDest(&c)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return &c, nil
}
