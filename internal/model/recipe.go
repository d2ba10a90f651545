package model

import "time"

type Ingredient struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
	Unit   string `json:"unit,omitempty"`
}

type Instruction struct {
	Step int    `json:"step"`
	Text string `json:"text"`
}

// Nutrition values are per serving; nil means unknown.
type Nutrition struct {
	Calories *float64 `json:"calories,omitempty"`
	Protein  *float64 `json:"protein,omitempty"`
	Carbs    *float64 `json:"carbs,omitempty"`
	Fat      *float64 `json:"fat,omitempty"`
}

type Recipe struct {
	ID           int64         `json:"id"`
	Title        string        `json:"title"`
	Description  string        `json:"description,omitempty"`
	Ingredients  []Ingredient  `json:"ingredients"`
	Instructions []Instruction `json:"instructions"`
	CookTime     *int          `json:"cookTime,omitempty"`
	PrepTime     *int          `json:"prepTime,omitempty"`
	Servings     *int          `json:"servings,omitempty"`
	ImageURL     string        `json:"imageUrl,omitempty"`
	Tags         []string      `json:"tags"`
	Nutrition    *Nutrition    `json:"nutrition,omitempty"`
	CreatedBy    int64         `json:"createdBy"`
	IsPublic     bool          `json:"isPublic"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

func (r Recipe) OwnerID() int64 { return r.CreatedBy }

// Public reports whether users other than the creator may read the recipe.
func (r Recipe) Public() bool { return r.IsPublic }
