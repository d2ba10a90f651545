package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/dukerupert/platewise/internal/grocery"
	"github.com/dukerupert/platewise/internal/model"
	"github.com/dukerupert/platewise/internal/store"
)

type ShoppingListService struct {
	lists   *store.ShoppingListStore
	plans   *store.MealPlanStore
	recipes *store.RecipeStore
}

func NewShoppingListService(lists *store.ShoppingListStore, plans *store.MealPlanStore, recipes *store.RecipeStore) *ShoppingListService {
	return &ShoppingListService{lists: lists, plans: plans, recipes: recipes}
}

// Generate builds a shopping list from every recipe referenced by the meal
// plan and stores it for userID. Recipes userID cannot read are skipped, as
// are references to deleted recipes. A blank name falls back to
// "Shopping List for <plan name>".
//
// The plan and its recipes are read separately, so a recipe edited between
// the two reads is seen in its newer state.
func (s *ShoppingListService) Generate(ctx context.Context, userID, mealPlanID int64, name string) (*model.ShoppingList, error) {
	plan, err := s.plans.GetByID(ctx, mealPlanID)
	if err != nil {
		return nil, err
	}
	if err := authorize(userID, plan, false); err != nil {
		return nil, err
	}

	recipes, err := s.recipes.GetMany(ctx, plan.RecipeIDs())
	if err != nil {
		return nil, err
	}
	recipes = readable(userID, recipes)

	name = strings.TrimSpace(name)
	if name == "" {
		name = fmt.Sprintf("Shopping List for %s", plan.Name)
	}

	return s.lists.Create(ctx, &model.ShoppingList{
		UserID:     userID,
		Name:       name,
		Items:      grocery.Aggregate(recipes),
		MealPlanID: &plan.ID,
	})
}

func (s *ShoppingListService) Create(ctx context.Context, userID int64, l model.ShoppingList) (*model.ShoppingList, error) {
	if err := normalizeShoppingList(&l); err != nil {
		return nil, err
	}
	l.UserID = userID
	return s.lists.Create(ctx, &l)
}

// List returns the caller's lists. With a non-nil mealPlanID only lists
// generated from that plan are returned.
func (s *ShoppingListService) List(ctx context.Context, userID int64, mealPlanID *int64) ([]model.ShoppingList, error) {
	if mealPlanID == nil {
		return s.lists.ListByUser(ctx, userID)
	}
	lists, err := s.lists.ListByMealPlan(ctx, *mealPlanID)
	if err != nil {
		return nil, err
	}
	mine := lists[:0]
	for _, l := range lists {
		if l.UserID == userID {
			mine = append(mine, l)
		}
	}
	return mine, nil
}

func (s *ShoppingListService) Get(ctx context.Context, userID, id int64) (*model.ShoppingList, error) {
	l, err := s.lists.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(userID, l, false); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *ShoppingListService) Update(ctx context.Context, userID, id int64, l model.ShoppingList) (*model.ShoppingList, error) {
	existing, err := s.lists.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(userID, existing, false); err != nil {
		return nil, err
	}
	if err := normalizeShoppingList(&l); err != nil {
		return nil, err
	}
	return s.lists.Update(ctx, id, &l)
}

func (s *ShoppingListService) Delete(ctx context.Context, userID, id int64) error {
	existing, err := s.lists.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := authorize(userID, existing, false); err != nil {
		return err
	}
	return s.lists.Delete(ctx, id)
}

func normalizeShoppingList(l *model.ShoppingList) error {
	l.Name = strings.TrimSpace(l.Name)
	if l.Name == "" {
		return invalidf("name is required")
	}
	for i := range l.Items {
		item := &l.Items[i]
		item.Name = strings.TrimSpace(item.Name)
		if item.Name == "" {
			return invalidf("item %d: name is required", i+1)
		}
		if item.Category == "" {
			item.Category = model.CategoryOther
		}
		if !item.Category.Valid() {
			return invalidf("item %q: unknown category %q", item.Name, item.Category)
		}
	}
	if l.Items == nil {
		l.Items = []model.ShoppingItem{}
	}
	return nil
}
