package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stockbill-api/internal/application/dto"
	"github.com/jhoicas/stockbill-api/internal/domain"
	"github.com/jhoicas/stockbill-api/internal/domain/entity"
	"github.com/jhoicas/stockbill-api/internal/domain/repository"
)

// CustomerUseCase casos de uso para clientes (facturación).
type CustomerUseCase struct {
	repo        repository.CustomerRepository
	invoiceRepo repository.InvoiceRepository
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(repo repository.CustomerRepository, invoiceRepo repository.InvoiceRepository) *CustomerUseCase {
	return &CustomerUseCase{repo: repo, invoiceRepo: invoiceRepo}
}

// Create crea un cliente. El email es único entre los clientes activos del usuario.
func (uc *CustomerUseCase) Create(ctx context.Context, userID string, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
	}
	email := strings.TrimSpace(in.Email)
	if err := uc.ensureEmailFree(ctx, userID, email, ""); err != nil {
		return nil, err
	}
	now := time.Now()
	customer := &entity.Customer{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      name,
		Email:     email,
		Phone:     in.Phone,
		Address:   in.Address,
		Notes:     in.Notes,
		PANNumber: in.PANNumber,
		VATNumber: in.VATNumber,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, customer); err != nil {
		return nil, err
	}
	out := dto.ToCustomerResponse(&repository.CustomerWithStats{Customer: *customer})
	return &out, nil
}

// Get devuelve el cliente con sus totales y sus facturas.
func (uc *CustomerUseCase) Get(ctx context.Context, userID, id string) (*dto.CustomerDetailResponse, error) {
	customer, err := uc.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if customer == nil || !customer.IsActive {
		return nil, domain.ErrNotFound
	}
	invoices, _, err := uc.invoiceRepo.List(ctx, repository.InvoiceFilter{UserID: userID, CustomerID: id})
	if err != nil {
		return nil, err
	}
	stats := &repository.CustomerWithStats{Customer: *customer, TotalInvoices: len(invoices)}
	out := &dto.CustomerDetailResponse{Invoices: make([]dto.InvoiceResponse, 0, len(invoices))}
	for _, inv := range invoices {
		stats.TotalSpent = stats.TotalSpent.Add(inv.TotalAmount)
		out.Invoices = append(out.Invoices, dto.ToInvoiceResponse(inv))
	}
	out.CustomerResponse = dto.ToCustomerResponse(stats)
	return out, nil
}

// List lista los clientes activos con búsqueda y paginación.
func (uc *CustomerUseCase) List(ctx context.Context, userID string, in dto.CustomerListRequest) (*dto.CustomerListResponse, error) {
	in.DefaultPage()
	list, total, err := uc.repo.List(ctx, repository.CustomerFilter{
		UserID: userID,
		Search: strings.TrimSpace(in.Search),
		Limit:  in.Limit,
		Offset: in.Offset(),
	})
	if err != nil {
		return nil, err
	}
	out := &dto.CustomerListResponse{
		Customers:  make([]dto.CustomerResponse, 0, len(list)),
		Pagination: dto.NewPagination(total, in.PageRequest),
	}
	for _, c := range list {
		out.Customers = append(out.Customers, dto.ToCustomerResponse(c))
	}
	return out, nil
}

// Update aplica una actualización parcial.
func (uc *CustomerUseCase) Update(ctx context.Context, userID, id string, in dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	customer, err := uc.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if customer == nil || !customer.IsActive {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
		}
		customer.Name = name
	}
	if in.Email != nil {
		email := strings.TrimSpace(*in.Email)
		if err := uc.ensureEmailFree(ctx, userID, email, customer.ID); err != nil {
			return nil, err
		}
		customer.Email = email
	}
	if in.Phone != nil {
		customer.Phone = *in.Phone
	}
	if in.Address != nil {
		customer.Address = *in.Address
	}
	if in.Notes != nil {
		customer.Notes = *in.Notes
	}
	if in.PANNumber != nil {
		customer.PANNumber = *in.PANNumber
	}
	if in.VATNumber != nil {
		customer.VATNumber = *in.VATNumber
	}
	customer.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, customer); err != nil {
		return nil, err
	}
	out := dto.ToCustomerResponse(&repository.CustomerWithStats{Customer: *customer})
	return &out, nil
}

// Delete desactiva el cliente. Si tiene facturas devuelve *domain.DependentsError.
func (uc *CustomerUseCase) Delete(ctx context.Context, userID, id string) error {
	customer, err := uc.repo.GetByID(ctx, userID, id)
	if err != nil {
		return err
	}
	if customer == nil || !customer.IsActive {
		return domain.ErrNotFound
	}
	count, err := uc.invoiceRepo.CountByCustomer(ctx, customer.ID)
	if err != nil {
		return err
	}
	if count > 0 {
		return &domain.DependentsError{Resource: domain.ResourceInvoices, Count: count}
	}
	return uc.repo.Deactivate(ctx, userID, customer.ID)
}

func (uc *CustomerUseCase) ensureEmailFree(ctx context.Context, userID, email, selfID string) error {
	if email == "" {
		return nil
	}
	existing, err := uc.repo.GetActiveByEmail(ctx, userID, email)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return fmt.Errorf("%w: ya existe un cliente con el email %s", domain.ErrDuplicate, email)
	}
	return nil
}
