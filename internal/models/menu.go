package models

import (
	"time"

	"restaurant_site/internal/money"
)

type MenuItem struct {
	ID           uint        `json:"id" gorm:"primaryKey"`
	Name         string      `json:"name" gorm:"size:100;not null"`
	Description  string      `json:"description" gorm:"type:text"`
	Price        money.Cents `json:"price" gorm:"column:price_cents;not null"`
	Category     string      `json:"category" gorm:"size:20;index;default:'main'"`
	IsVegetarian bool        `json:"is_vegetarian" gorm:"default:false"`
	IsAvailable  bool        `json:"is_available"`
	Image        string      `json:"image"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

type MenuCategory string

const (
	CategoryAppetizer MenuCategory = "appetizer"
	CategoryMain      MenuCategory = "main"
	CategoryDessert   MenuCategory = "dessert"
	CategoryBeverage  MenuCategory = "beverage"
	CategorySide      MenuCategory = "side"
)

// MenuCategories is the display order used by the menu page.
var MenuCategories = []MenuCategory{
	CategoryAppetizer,
	CategoryMain,
	CategorySide,
	CategoryDessert,
	CategoryBeverage,
}

func (c MenuCategory) Valid() bool {
	for _, known := range MenuCategories {
		if c == known {
			return true
		}
	}
	return false
}

func (c MenuCategory) Label() string {
	switch c {
	case CategoryAppetizer:
		return "Appetizers"
	case CategoryMain:
		return "Main Courses"
	case CategoryDessert:
		return "Desserts"
	case CategoryBeverage:
		return "Beverages"
	case CategorySide:
		return "Sides"
	}
	return string(c)
}
