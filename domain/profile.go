package domain

type Profile struct {
	UserID    uint   `gorm:"column:user_id;primaryKey;autoIncrement:false" json:"userId"`
	FirstName string `gorm:"column:first_name" json:"firstName"`
	LastName  string `gorm:"column:last_name" json:"lastName"`
	Phone     string `gorm:"column:phone" json:"phone"`
	Email     string `gorm:"column:email" json:"email"`
	Address   string `gorm:"column:address" json:"address"`
	City      string `gorm:"column:city" json:"city"`
	State     string `gorm:"column:state" json:"state"`
	Zip       string `gorm:"column:zip" json:"zip"`
}

func (Profile) TableName() string {
	return "profiles"
}
