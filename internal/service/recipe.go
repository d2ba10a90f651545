package service

import (
	"context"
	"strings"

	"github.com/dukerupert/platewise/internal/model"
	"github.com/dukerupert/platewise/internal/store"
)

type RecipeService struct {
	recipes *store.RecipeStore
}

func NewRecipeService(recipes *store.RecipeStore) *RecipeService {
	return &RecipeService{recipes: recipes}
}

func (s *RecipeService) Create(ctx context.Context, userID int64, r model.Recipe) (*model.Recipe, error) {
	if err := normalizeRecipe(&r); err != nil {
		return nil, err
	}
	r.CreatedBy = userID
	return s.recipes.Create(ctx, &r)
}

// ListVisible returns the caller's recipes and every public recipe.
func (s *RecipeService) ListVisible(ctx context.Context, userID int64) ([]model.Recipe, error) {
	return s.recipes.ListVisible(ctx, userID)
}

func (s *RecipeService) ListMine(ctx context.Context, userID int64) ([]model.Recipe, error) {
	return s.recipes.ListByOwner(ctx, userID)
}

// Get returns the recipe if the caller owns it or it is public.
func (s *RecipeService) Get(ctx context.Context, userID, id int64) (*model.Recipe, error) {
	r, err := s.recipes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(userID, r, true); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *RecipeService) Update(ctx context.Context, userID, id int64, r model.Recipe) (*model.Recipe, error) {
	existing, err := s.recipes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(userID, existing, false); err != nil {
		return nil, err
	}
	if err := normalizeRecipe(&r); err != nil {
		return nil, err
	}
	return s.recipes.Update(ctx, id, &r)
}

func (s *RecipeService) Delete(ctx context.Context, userID, id int64) error {
	existing, err := s.recipes.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := authorize(userID, existing, false); err != nil {
		return err
	}
	return s.recipes.Delete(ctx, id)
}

func normalizeRecipe(r *model.Recipe) error {
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		return invalidf("title is required")
	}
	r.Description = strings.TrimSpace(r.Description)

	for i := range r.Ingredients {
		ing := &r.Ingredients[i]
		ing.Name = strings.TrimSpace(ing.Name)
		ing.Amount = strings.TrimSpace(ing.Amount)
		ing.Unit = strings.TrimSpace(ing.Unit)
		if ing.Name == "" {
			return invalidf("ingredient %d: name is required", i+1)
		}
		if ing.Amount == "" {
			return invalidf("ingredient %q: amount is required", ing.Name)
		}
	}

	if r.CookTime != nil && *r.CookTime < 0 {
		return invalidf("cookTime must not be negative")
	}
	if r.PrepTime != nil && *r.PrepTime < 0 {
		return invalidf("prepTime must not be negative")
	}
	if r.Servings != nil && *r.Servings < 1 {
		return invalidf("servings must be at least 1")
	}

	tags := r.Tags[:0]
	for _, tag := range r.Tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	r.Tags = tags
	return nil
}
