package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// CREATE TABLE orders (
//     order_id         BIGSERIAL PRIMARY KEY,
//     user_id          BIGINT NOT NULL REFERENCES users (user_id),
//     order_date       DATE NOT NULL,
//     address          VARCHAR(100) NOT NULL DEFAULT '',
//     shipping_amount  NUMERIC(10,2)
// );

type Order struct {
	OrderID         uint                `gorm:"column:order_id;primaryKey;autoIncrement" json:"orderId"`
	UserID          uint                `gorm:"column:user_id;not null" json:"userId"`
	OrderDate       datatypes.Date      `gorm:"column:order_date;not null" json:"orderDate"`
	ShippingAddress string              `gorm:"column:address" json:"shippingAddress"`
	ShippingAmount  decimal.NullDecimal `gorm:"column:shipping_amount;type:numeric(10,2)" json:"shippingAmount"`
}

func (Order) TableName() string {
	return "orders"
}

type OrderLineItem struct {
	ID         uint            `gorm:"column:order_line_item_id;primaryKey;autoIncrement" json:"orderLineItemId"`
	OrderID    uint            `gorm:"column:order_id;not null;index" json:"orderId"`
	ProductID  uint            `gorm:"column:product_id;not null" json:"productId"`
	SalesPrice decimal.Decimal `gorm:"column:sales_price;type:numeric(10,2);not null" json:"salesPrice"`
	Quantity   int             `gorm:"column:quantity;not null" json:"quantity"`
	Discount   decimal.Decimal `gorm:"column:discount;type:numeric(10,2);not null" json:"discount"`
}

func (OrderLineItem) TableName() string {
	return "order_line_items"
}

// OrderCreatedEvent is published after a checkout commits.
type OrderCreatedEvent struct {
	EventID    string          `json:"event_id"`
	OrderID    uint            `json:"order_id"`
	UserID     uint            `json:"user_id"`
	OrderDate  string          `json:"order_date"`
	LineItems  int             `json:"line_items"`
	Total      decimal.Decimal `json:"total"`
	OccurredAt time.Time       `json:"occurred_at"`
}
