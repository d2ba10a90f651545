package service

import (
	"context"
	"strings"

	"github.com/dukerupert/platewise/internal/model"
	"github.com/dukerupert/platewise/internal/store"
)

type MealPlanService struct {
	plans   *store.MealPlanStore
	recipes *store.RecipeStore
}

func NewMealPlanService(plans *store.MealPlanStore, recipes *store.RecipeStore) *MealPlanService {
	return &MealPlanService{plans: plans, recipes: recipes}
}

func (s *MealPlanService) Create(ctx context.Context, userID int64, p model.MealPlan) (*model.MealPlan, error) {
	if err := normalizeMealPlan(&p); err != nil {
		return nil, err
	}
	p.UserID = userID
	return s.plans.Create(ctx, &p)
}

func (s *MealPlanService) List(ctx context.Context, userID int64) ([]model.MealPlan, error) {
	return s.plans.ListByUser(ctx, userID)
}

// Get returns the plan with each meal's recipe embedded. Recipes the caller
// cannot read, and references to deleted recipes, are left unresolved.
func (s *MealPlanService) Get(ctx context.Context, userID, id int64) (*model.MealPlan, error) {
	p, err := s.plans.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(userID, p, false); err != nil {
		return nil, err
	}

	recipes, err := s.recipes.GetMany(ctx, p.RecipeIDs())
	if err != nil {
		return nil, err
	}
	recipes = readable(userID, recipes)
	byID := make(map[int64]*model.Recipe, len(recipes))
	for i := range recipes {
		byID[recipes[i].ID] = &recipes[i]
	}
	for i := range p.Meals {
		if rid := p.Meals[i].RecipeID; rid != nil {
			p.Meals[i].Recipe = byID[*rid]
		}
	}
	return p, nil
}

func (s *MealPlanService) Update(ctx context.Context, userID, id int64, p model.MealPlan) (*model.MealPlan, error) {
	existing, err := s.plans.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(userID, existing, false); err != nil {
		return nil, err
	}
	if err := normalizeMealPlan(&p); err != nil {
		return nil, err
	}
	return s.plans.Update(ctx, id, &p)
}

// Delete removes the plan. Shopping lists generated from it are kept.
func (s *MealPlanService) Delete(ctx context.Context, userID, id int64) error {
	existing, err := s.plans.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := authorize(userID, existing, false); err != nil {
		return err
	}
	return s.plans.Delete(ctx, id)
}

func normalizeMealPlan(p *model.MealPlan) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return invalidf("name is required")
	}
	if p.StartDate.IsZero() || p.EndDate.IsZero() {
		return invalidf("startDate and endDate are required")
	}
	if p.EndDate.Before(p.StartDate) {
		return invalidf("endDate must not be before startDate")
	}

	for i := range p.Meals {
		m := &p.Meals[i]
		m.Recipe = nil
		if m.Date.IsZero() {
			return invalidf("meal %d: date is required", i+1)
		}
		if !m.MealType.Valid() {
			return invalidf("meal %d: mealType must be one of breakfast, lunch, dinner, snack", i+1)
		}
		if m.Servings == 0 {
			m.Servings = 1
		}
		if m.Servings < 0 {
			return invalidf("meal %d: servings must be at least 1", i+1)
		}
	}
	return nil
}
