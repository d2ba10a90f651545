package model

import "time"

type Category string

const (
	CategoryProduce Category = "produce"
	CategoryDairy   Category = "dairy"
	CategoryMeat    Category = "meat"
	CategoryPantry  Category = "pantry"
	CategoryFrozen  Category = "frozen"
	CategoryOther   Category = "other"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryProduce, CategoryDairy, CategoryMeat, CategoryPantry, CategoryFrozen, CategoryOther:
		return true
	}
	return false
}

type ShoppingItem struct {
	Name      string   `json:"name"`
	Amount    string   `json:"amount"`
	Unit      string   `json:"unit"`
	IsChecked bool     `json:"isChecked"`
	Category  Category `json:"category"`
}

type ShoppingList struct {
	ID         int64          `json:"id"`
	UserID     int64          `json:"user"`
	Name       string         `json:"name"`
	Items      []ShoppingItem `json:"items"`
	MealPlanID *int64         `json:"mealPlanId,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

func (l ShoppingList) OwnerID() int64 { return l.UserID }
