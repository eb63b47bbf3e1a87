package models

import (
	"fmt"

	"gorm.io/gorm"
)

type Category string

const (
	CategoryBase    Category = "base"
	CategorySauce   Category = "sauce"
	CategoryCheese  Category = "cheese"
	CategoryTopping Category = "topping"
)

// ParseCategory maps the :type path segment to a catalog category.
func ParseCategory(value string) (Category, error) {
	switch Category(value) {
	case CategoryBase, CategorySauce, CategoryCheese, CategoryTopping:
		return Category(value), nil
	}
	return "", fmt.Errorf("invalid inventory type: %s", value)
}

// CatalogItem is a purchasable pizza component. A single table keyed by
// Category replaces separate base/sauce/cheese/topping collections.
type CatalogItem struct {
	gorm.Model
	Category  Category `json:"category" gorm:"index;size:16"`
	Name      string   `json:"name" binding:"required"`
	Price     float64  `json:"price"`
	Quantity  int      `json:"quantity"`
	Threshold int      `json:"threshold"`
	Available bool     `json:"available"`
}
