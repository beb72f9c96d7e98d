package models

import (
	"time"
)

// User is a registered customer. Password holds the bcrypt hash and never
// leaves the server.
type User struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"_id"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	Email     string    `gorm:"type:varchar(191);uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"type:varchar(100);not null" json:"-"`
	Phone     string    `gorm:"type:varchar(30)" json:"phone,omitempty"`
	Address   string    `gorm:"type:varchar(255)" json:"address,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func (User) TableName() string {
	return "users"
}
