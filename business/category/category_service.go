package category

import (
	"context"
	"easyShop/domain"
	"easyShop/pkg/logger"
	"fmt"
)

// CategoryRepository contract interface
type CategoryRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Category, error)
	FindAll(ctx context.Context) ([]domain.Category, error)
}

type CategoryService struct {
	categoryRepo CategoryRepository
}

func NewCategoryService(categoryRepo CategoryRepository) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
	}
}

func (s *CategoryService) GetAllCategories(ctx context.Context) ([]domain.Category, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when get all categories")
		return nil, fmt.Errorf("context error: %w", err)
	}

	categories, err := s.categoryRepo.FindAll(ctx)
	if err != nil {
		logger.Error("Failed to find all categories", "error", err)
		return nil, err
	}

	return categories, nil
}

func (s *CategoryService) GetCategoryByID(ctx context.Context, id uint) (domain.Category, error) {
	if id == 0 {
		return domain.Category{}, domain.Invalid("invalid category id")
	}

	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("Failed to find category", "id", id, "error", err)
		return domain.Category{}, err
	}

	return category, nil
}
