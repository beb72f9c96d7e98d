package models

import (
	"time"
)

type Category string

const (
	CategoryAppetizers Category = "Appetizers"
	CategoryMainCourse Category = "Main Course"
	CategorySeafood    Category = "Seafood"
	CategoryPasta      Category = "Pasta"
	CategoryVegetarian Category = "Vegetarian"
	CategoryDesserts   Category = "Desserts"
	CategoryBeverages  Category = "Beverages"
)

// Categories lists the menu sections in display order.
var Categories = []Category{
	CategoryAppetizers,
	CategoryMainCourse,
	CategorySeafood,
	CategoryPasta,
	CategoryVegetarian,
	CategoryDesserts,
	CategoryBeverages,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

type MenuItem struct {
	ID              string    `gorm:"primaryKey;type:varchar(36)" json:"_id"`
	Name            string    `gorm:"type:varchar(150);uniqueIndex;not null" json:"name"`
	Description     string    `gorm:"type:text" json:"description"`
	Price           float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	Image           string    `gorm:"type:varchar(500)" json:"image"`
	Category        Category  `gorm:"type:varchar(30);index;not null" json:"category"`
	Popular         bool      `gorm:"default:false" json:"popular"`
	Allergens       []string  `gorm:"type:text;serializer:json" json:"allergens"`
	PreparationTime string    `gorm:"type:varchar(50)" json:"preparationTime"`
	CreatedAt       time.Time `json:"createdAt"`
}

func (MenuItem) TableName() string {
	return "menu_items"
}
