package domain

import "github.com/shopspring/decimal"

// CartRow is one persisted (user, product) selection. The cart itself is
// never stored, it is rebuilt from these rows on every read.
type CartRow struct {
	UserID    uint `gorm:"column:user_id;primaryKey;autoIncrement:false"`
	ProductID uint `gorm:"column:product_id;primaryKey;autoIncrement:false"`
	Quantity  int  `gorm:"column:quantity;not null"`
}

func (CartRow) TableName() string {
	return "shopping_cart"
}

type ShoppingCartItem struct {
	Product         Product         `json:"product"`
	Quantity        int             `json:"quantity"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
}

func (i ShoppingCartItem) ProductID() uint {
	return i.Product.ID
}

// LineTotal is price * quantity less the discount fraction.
func (i ShoppingCartItem) LineTotal() decimal.Decimal {
	gross := i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
	return gross.Sub(gross.Mul(i.DiscountPercent))
}

// ShoppingCart maps product id to item.
type ShoppingCart struct {
	Items map[uint]ShoppingCartItem `json:"items"`
}

func NewShoppingCart() ShoppingCart {
	return ShoppingCart{Items: make(map[uint]ShoppingCartItem)}
}

func (c ShoppingCart) Add(item ShoppingCartItem) {
	c.Items[item.ProductID()] = item
}

func (c ShoppingCart) Contains(productID uint) bool {
	_, ok := c.Items[productID]
	return ok
}

func (c ShoppingCart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}
