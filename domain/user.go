package domain

// CREATE TABLE users (
//     user_id          BIGSERIAL PRIMARY KEY,
//     username         VARCHAR(50) NOT NULL UNIQUE,
//     hashed_password  TEXT NOT NULL,
//     role             VARCHAR(20) NOT NULL DEFAULT 'ROLE_USER'
// );

type User struct {
	ID             uint   `gorm:"column:user_id;primaryKey;autoIncrement" json:"id"`
	Username       string `gorm:"column:username;uniqueIndex;not null" json:"username"`
	HashedPassword string `gorm:"column:hashed_password;not null" json:"-"`
	Role           string `gorm:"column:role;default:ROLE_USER" json:"role"`
}

func (User) TableName() string {
	return "users"
}
