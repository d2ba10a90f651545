package model

import "time"

type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

func (t MealType) Valid() bool {
	switch t {
	case MealBreakfast, MealLunch, MealDinner, MealSnack:
		return true
	}
	return false
}

type Meal struct {
	Date     time.Time `json:"date"`
	MealType MealType  `json:"mealType"`
	RecipeID *int64    `json:"recipe,omitempty"`
	Servings int       `json:"servings"`

	// Recipe is only filled when a single plan is fetched with its recipes.
	Recipe *Recipe `json:"recipeDetails,omitempty"`
}

type MealPlan struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user"`
	Name      string    `json:"name"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	Meals     []Meal    `json:"meals"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (p MealPlan) OwnerID() int64 { return p.UserID }

// RecipeIDs returns the distinct recipe ids referenced by the plan's meals in
// the order they first appear. Meals without a recipe are skipped.
func (p MealPlan) RecipeIDs() []int64 {
	seen := make(map[int64]bool, len(p.Meals))
	var ids []int64
	for _, m := range p.Meals {
		if m.RecipeID == nil || seen[*m.RecipeID] {
			continue
		}
		seen[*m.RecipeID] = true
		ids = append(ids, *m.RecipeID)
	}
	return ids
}
