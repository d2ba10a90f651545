package service

import (
	"context"
	"testing"
	"time"

	"github.com/dukerupert/platewise/internal/auth"
	"github.com/dukerupert/platewise/internal/database"
	"github.com/dukerupert/platewise/internal/model"
	"github.com/dukerupert/platewise/internal/store"
)

type testEnv struct {
	users    *UserService
	recipes  *RecipeService
	plans    *MealPlanService
	lists    *ShoppingListService
	listRepo *store.ShoppingListStore
	alice    int64
	bob      int64
}

func setupServices(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	userStore := store.NewUserStore(db)
	recipeStore := store.NewRecipeStore(db)
	planStore := store.NewMealPlanStore(db)
	listStore := store.NewShoppingListStore(db)

	env := &testEnv{
		users:    NewUserService(userStore, auth.NewTokens("test-secret", time.Hour)),
		recipes:  NewRecipeService(recipeStore),
		plans:    NewMealPlanService(planStore, recipeStore),
		lists:    NewShoppingListService(listStore, planStore, recipeStore),
		listRepo: listStore,
	}

	ctx := context.Background()
	alice, err := userStore.Create(ctx, "Alice", "alice@example.com", "x")
	if err != nil {
		t.Fatalf("create alice: %v", err)
	}
	bob, err := userStore.Create(ctx, "Bob", "bob@example.com", "x")
	if err != nil {
		t.Fatalf("create bob: %v", err)
	}
	env.alice, env.bob = alice.ID, bob.ID
	return env
}

func (e *testEnv) recipe(t *testing.T, owner int64, title string, ings ...model.Ingredient) *model.Recipe {
	t.Helper()
	r, err := e.recipes.Create(context.Background(), owner, model.Recipe{Title: title, Ingredients: ings})
	if err != nil {
		t.Fatalf("create recipe %q: %v", title, err)
	}
	return r
}

func (e *testEnv) plan(t *testing.T, owner int64, name string, recipeIDs ...int64) *model.MealPlan {
	t.Helper()
	day := time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)
	p := model.MealPlan{Name: name, StartDate: day, EndDate: day.AddDate(0, 0, 6)}
	for i, id := range recipeIDs {
		p.Meals = append(p.Meals, model.Meal{
			Date:     day.AddDate(0, 0, i),
			MealType: model.MealDinner,
			RecipeID: &id,
		})
	}
	created, err := e.plans.Create(context.Background(), owner, p)
	if err != nil {
		t.Fatalf("create plan %q: %v", name, err)
	}
	return created
}

func ing(name, amount, unit string) model.Ingredient {
	return model.Ingredient{Name: name, Amount: amount, Unit: unit}
}
