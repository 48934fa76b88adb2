package domain

import "github.com/shopspring/decimal"

// CREATE TABLE products (
//     product_id   BIGSERIAL PRIMARY KEY,
//     name         VARCHAR(200) NOT NULL,
//     price        NUMERIC(10,2) NOT NULL,
//     category_id  BIGINT NOT NULL REFERENCES categories (category_id),
//     description  TEXT,
//     subcategory  VARCHAR(50),
//     stock        INT NOT NULL DEFAULT 0,
//     featured     BOOLEAN NOT NULL DEFAULT FALSE,
//     image_url    TEXT
// );

type Product struct {
	ID          uint            `gorm:"column:product_id;primaryKey;autoIncrement" json:"productId"`
	Name        string          `gorm:"column:name;not null" json:"name"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null" json:"price"`
	CategoryID  uint            `gorm:"column:category_id" json:"categoryId"`
	Description string          `gorm:"column:description" json:"description"`
	Subcategory string          `gorm:"column:subcategory" json:"subCategory"`
	Stock       int             `gorm:"column:stock" json:"stock"`
	Featured    bool            `gorm:"column:featured" json:"isFeatured"`
	ImageURL    string          `gorm:"column:image_url" json:"imageUrl"`
}

func (Product) TableName() string {
	return "products"
}

// ProductFilter narrows a product listing. Zero values mean "no filter".
type ProductFilter struct {
	CategoryID  uint
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
	Subcategory string
}
