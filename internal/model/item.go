package model

import "time"

// ItemCategory is the fixed set of grocery item categories.
type ItemCategory string

const (
	CategoryProduce ItemCategory = "PRODUCE"
	CategoryDeli    ItemCategory = "DELI"
	CategoryBakery  ItemCategory = "BAKERY"
	CategoryPantry  ItemCategory = "PANTRY"
	CategoryFrozen  ItemCategory = "FROZEN"
	CategoryOther   ItemCategory = "OTHER"
)

// Categories returns all valid categories in display order.
func Categories() []ItemCategory {
	return []ItemCategory{
		CategoryProduce,
		CategoryDeli,
		CategoryBakery,
		CategoryPantry,
		CategoryFrozen,
		CategoryOther,
	}
}

// Valid reports whether c is one of the fixed categories.
func (c ItemCategory) Valid() bool {
	switch c {
	case CategoryProduce, CategoryDeli, CategoryBakery, CategoryPantry, CategoryFrozen, CategoryOther:
		return true
	}
	return false
}

type GroceryItem struct {
	ID        int64        `json:"id"`
	Name      string       `json:"name"`
	Price     float64      `json:"price"`
	Category  ItemCategory `json:"category"`
	PhotoURL  string       `json:"photo_url"`
	StoreID   *int64       `json:"store_id"`
	CreatedBy int64        `json:"created_by"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}
