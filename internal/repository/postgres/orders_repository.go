package postgres

import (
	"context"
	"easyShop/domain"
	"fmt"

	"gorm.io/gorm"
)

type OrdersRepository struct {
	DB *gorm.DB
}

func NewOrdersRepository(db *gorm.DB) *OrdersRepository {
	return &OrdersRepository{
		DB: db,
	}
}

// CreateOrder inserts the header and fills in the generated order id.
func (r *OrdersRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	if err := conn(ctx, r.DB).Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	return nil
}

func (r *OrdersRepository) AddLineItems(ctx context.Context, items []domain.OrderLineItem) error {
	if len(items) == 0 {
		return nil
	}

	if err := conn(ctx, r.DB).Create(&items).Error; err != nil {
		return fmt.Errorf("failed to add order line items: %w", err)
	}

	return nil
}

func (r *OrdersRepository) FindLineItems(ctx context.Context, orderID uint) ([]domain.OrderLineItem, error) {
	var items []domain.OrderLineItem

	err := conn(ctx, r.DB).Where("order_id = ?", orderID).Order("order_line_item_id").Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find order line items: %w", err)
	}

	return items, nil
}
