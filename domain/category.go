package domain

type Category struct {
	CategoryID  uint   `gorm:"column:category_id;primaryKey;autoIncrement" json:"categoryId"`
	Name        string `gorm:"column:name;not null" json:"name"`
	Description string `gorm:"column:description" json:"description"`
}

func (Category) TableName() string {
	return "categories"
}
