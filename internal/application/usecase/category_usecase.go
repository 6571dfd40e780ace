package usecase

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

// CategoryUseCase casos de uso CRUD para categorías del usuario.
type CategoryUseCase struct {
	repo repository.CategoryRepository
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(repo repository.CategoryRepository) *CategoryUseCase {
	return &CategoryUseCase{repo: repo}
}

// Create crea una categoría. El nombre es único por usuario.
func (uc *CategoryUseCase) Create(ctx context.Context, userID string, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
	}
	if err := uc.ensureNameFree(ctx, userID, name, ""); err != nil {
		return nil, err
	}
	color := in.Color
	if color == "" {
		color = entity.DefaultCategoryColor
	}
	now := time.Now()
	category := &entity.Category{
		ID:          uuid.New().String(),
		UserID:      userID,
		Name:        name,
		Description: in.Description,
		Color:       color,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, category); err != nil {
		return nil, err
	}
	out := dto.ToCategoryResponse(category, 0)
	return &out, nil
}

// Get devuelve la categoría con su conteo de productos.
func (uc *CategoryUseCase) Get(ctx context.Context, userID, id string) (*dto.CategoryResponse, error) {
	category, err := uc.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, domain.ErrNotFound
	}
	count, err := uc.repo.CountProducts(ctx, category.ID)
	if err != nil {
		return nil, err
	}
	out := dto.ToCategoryResponse(category, count)
	return &out, nil
}

// List devuelve las categorías del usuario con su conteo de productos.
func (uc *CategoryUseCase) List(ctx context.Context, userID string) (*dto.CategoryListResponse, error) {
	list, err := uc.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := &dto.CategoryListResponse{Categories: make([]dto.CategoryResponse, 0, len(list))}
	for _, c := range list {
		out.Categories = append(out.Categories, dto.ToCategoryResponse(&c.Category, c.ProductCount))
	}
	return out, nil
}

// Update aplica una actualización parcial.
func (uc *CategoryUseCase) Update(ctx context.Context, userID, id string, in dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	category, err := uc.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
		}
		if err := uc.ensureNameFree(ctx, userID, name, category.ID); err != nil {
			return nil, err
		}
		category.Name = name
	}
	if in.Description != nil {
		category.Description = *in.Description
	}
	if in.Color != nil && *in.Color != "" {
		category.Color = *in.Color
	}
	category.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, category); err != nil {
		return nil, err
	}
	count, err := uc.repo.CountProducts(ctx, category.ID)
	if err != nil {
		return nil, err
	}
	out := dto.ToCategoryResponse(category, count)
	return &out, nil
}

// Delete elimina la categoría. Si tiene productos devuelve *domain.DependentsError con el conteo.
func (uc *CategoryUseCase) Delete(ctx context.Context, userID, id string) error {
	category, err := uc.repo.GetByID(ctx, userID, id)
	if err != nil {
		return err
	}
	if category == nil {
		return domain.ErrNotFound
	}
	count, err := uc.repo.CountProducts(ctx, category.ID)
	if err != nil {
		return err
	}
	if count > 0 {
		return &domain.DependentsError{Resource: domain.ResourceProducts, Count: count}
	}
	return uc.repo.Delete(ctx, userID, category.ID)
}

func (uc *CategoryUseCase) ensureNameFree(ctx context.Context, userID, name, selfID string) error {
	existing, err := uc.repo.GetByName(ctx, userID, name)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return fmt.Errorf("%w: ya existe una categoría llamada %s", domain.ErrDuplicate, name)
	}
	return nil
}
