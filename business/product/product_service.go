package product

import (
	"context"
	"easyShop/domain"
	"easyShop/pkg/logger"
	"fmt"
)

// ProductRepository contract interface
type ProductRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Product, error)
	FindAll(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
}

type ProductService struct {
	productRepo ProductRepository
}

func NewProductService(productRepo ProductRepository) *ProductService {
	return &ProductService{
		productRepo: productRepo,
	}
}

func (s *ProductService) SearchProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when search products")
		return nil, fmt.Errorf("context error: %w", err)
	}

	if filter.MinPrice != nil && filter.MaxPrice != nil && filter.MinPrice.GreaterThan(*filter.MaxPrice) {
		return nil, domain.Invalid("minPrice cannot be greater than maxPrice")
	}

	products, err := s.productRepo.FindAll(ctx, filter)
	if err != nil {
		logger.Error("Failed to find products", "error", err)
		return nil, err
	}

	return products, nil
}

func (s *ProductService) GetProductByID(ctx context.Context, id uint) (domain.Product, error) {
	if id == 0 {
		return domain.Product{}, domain.Invalid("invalid product id")
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("failed to find product by id", "id", id, "error", err)
		return domain.Product{}, err
	}

	return product, nil
}
