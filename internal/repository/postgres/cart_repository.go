package postgres

import (
	"context"
	"easyShop/domain"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ShoppingCartRepository struct {
	DB *gorm.DB
}

func NewShoppingCartRepository(db *gorm.DB) *ShoppingCartRepository {
	return &ShoppingCartRepository{
		DB: db,
	}
}

type cartProductRow struct {
	ProductID   uint            `gorm:"column:product_id"`
	Name        string          `gorm:"column:name"`
	Price       decimal.Decimal `gorm:"column:price"`
	CategoryID  uint            `gorm:"column:category_id"`
	Description string          `gorm:"column:description"`
	Subcategory string          `gorm:"column:subcategory"`
	Stock       int             `gorm:"column:stock"`
	Featured    bool            `gorm:"column:featured"`
	ImageURL    string          `gorm:"column:image_url"`
	Quantity    int             `gorm:"column:quantity"`
}

// GetByUserID rebuilds the cart from its rows joined with the catalogue, so
// prices are the ones current at read time. Inside a transaction the cart
// rows are locked until commit.
func (r *ShoppingCartRepository) GetByUserID(ctx context.Context, userID uint) (domain.ShoppingCart, error) {
	query := conn(ctx, r.DB).
		Table("shopping_cart AS sc").
		Select(`p.product_id, p.name, p.price, p.category_id,
			COALESCE(p.description, '') AS description,
			COALESCE(p.subcategory, '') AS subcategory,
			p.stock, p.featured,
			COALESCE(p.image_url, '') AS image_url,
			sc.quantity`).
		Joins("JOIN products AS p ON p.product_id = sc.product_id").
		Where("sc.user_id = ?", userID)

	if _, ok := txFromContext(ctx); ok {
		query = query.Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: "sc"}})
	}

	var rows []cartProductRow
	if err := query.Scan(&rows).Error; err != nil {
		return domain.ShoppingCart{}, fmt.Errorf("failed to load shopping cart: %w", err)
	}

	cart := domain.NewShoppingCart()
	for _, row := range rows {
		cart.Add(domain.ShoppingCartItem{
			Product: domain.Product{
				ID:          row.ProductID,
				Name:        row.Name,
				Price:       row.Price,
				CategoryID:  row.CategoryID,
				Description: row.Description,
				Subcategory: row.Subcategory,
				Stock:       row.Stock,
				Featured:    row.Featured,
				ImageURL:    row.ImageURL,
			},
			Quantity:        row.Quantity,
			DiscountPercent: decimal.Zero,
		})
	}

	return cart, nil
}

// AddItem inserts the pair with quantity 1 or adds 1 to the existing row.
func (r *ShoppingCartRepository) AddItem(ctx context.Context, userID, productID uint) error {
	row := domain.CartRow{
		UserID:    userID,
		ProductID: productID,
		Quantity:  1,
	}

	err := conn(ctx, r.DB).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity": gorm.Expr("shopping_cart.quantity + ?", 1),
		}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to add item to cart: %w", err)
	}

	return nil
}

// SetQuantity overwrites the quantity of an existing row. A quantity of zero
// removes the row. Callers reject negative quantities.
func (r *ShoppingCartRepository) SetQuantity(ctx context.Context, userID, productID uint, quantity int) error {
	if quantity == 0 {
		return r.RemoveItem(ctx, userID, productID)
	}

	result := conn(ctx, r.DB).
		Model(&domain.CartRow{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Update("quantity", quantity)
	if result.Error != nil {
		return fmt.Errorf("failed to update cart item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NotFound("cart item not found")
	}

	return nil
}

func (r *ShoppingCartRepository) RemoveItem(ctx context.Context, userID, productID uint) error {
	err := conn(ctx, r.DB).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&domain.CartRow{}).Error
	if err != nil {
		return fmt.Errorf("failed to remove cart item: %w", err)
	}

	return nil
}

func (r *ShoppingCartRepository) Clear(ctx context.Context, userID uint) error {
	err := conn(ctx, r.DB).Where("user_id = ?", userID).Delete(&domain.CartRow{}).Error
	if err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	return nil
}

// ClearProducts deletes only the given products from the user's cart. Rows
// added after the cart was read stay in place.
func (r *ShoppingCartRepository) ClearProducts(ctx context.Context, userID uint, productIDs []uint) error {
	if len(productIDs) == 0 {
		return nil
	}

	err := conn(ctx, r.DB).
		Where("user_id = ? AND product_id IN ?", userID, productIDs).
		Delete(&domain.CartRow{}).Error
	if err != nil {
		return fmt.Errorf("failed to clear checked out cart items: %w", err)
	}

	return nil
}
