package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/dukerupert/platewise/internal/model"
)

func TestGenerateShoppingList(t *testing.T) {
	app := setupApp(t)

	a := createRecipe(t, app, app.alice, map[string]any{
		"title":       "Pizza night",
		"ingredients": []map[string]string{{"name": "Frozen Pizza", "amount": "1"}, {"name": "Cheese", "amount": "100", "unit": "g"}},
	})
	b := createRecipe(t, app, app.alice, map[string]any{
		"title":       "Cheese board",
		"ingredients": []map[string]string{{"name": "cheese", "amount": "200", "unit": "g"}, {"name": "Almond Flour", "amount": "1", "unit": "cup"}},
	})
	plan := createPlan(t, app, app.alice, map[string]any{
		"name": "Party", "startDate": "2024-02-01", "endDate": "2024-02-02",
		"meals": []map[string]any{
			{"date": "2024-02-01", "mealType": "dinner", "recipe": a.ID},
			{"date": "2024-02-02", "mealType": "snack", "recipe": b.ID},
		},
	})

	rec := app.do(t, app.alice, "POST", "/api/shoppinglists/generate", map[string]any{"mealPlanId": plan.ID})
	if rec.Code != http.StatusCreated {
		t.Fatalf("generate status = %d, body %s", rec.Code, rec.Body.String())
	}
	list := decode[model.ShoppingList](t, rec)

	if list.Name != "Shopping List for Party" {
		t.Errorf("name = %q", list.Name)
	}
	if list.MealPlanID == nil || *list.MealPlanID != plan.ID {
		t.Errorf("mealPlanId = %v", list.MealPlanID)
	}
	want := []model.ShoppingItem{
		{Name: "Frozen Pizza", Amount: "1", Category: model.CategoryFrozen},
		{Name: "Cheese", Amount: "100 + 200", Unit: "g", Category: model.CategoryDairy},
		{Name: "Almond Flour", Amount: "1", Unit: "cup", Category: model.CategoryPantry},
	}
	if len(list.Items) != len(want) {
		t.Fatalf("items = %+v", list.Items)
	}
	for i := range want {
		if list.Items[i] != want[i] {
			t.Errorf("item %d = %+v, want %+v", i, list.Items[i], want[i])
		}
	}

	rec = app.do(t, app.alice, "GET", fmt.Sprintf("/api/shoppinglists?mealPlanId=%d", plan.ID), nil)
	if lists := decode[[]model.ShoppingList](t, rec); len(lists) != 1 {
		t.Errorf("lists for plan = %d, want 1", len(lists))
	}

	rec = app.do(t, app.alice, "DELETE", fmt.Sprintf("/api/mealplans/%d", plan.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete plan status = %d", rec.Code)
	}
	rec = app.do(t, app.alice, "GET", fmt.Sprintf("/api/shoppinglists/%d", list.ID), nil)
	if rec.Code != http.StatusOK {
		t.Errorf("list after plan delete status = %d, want 200", rec.Code)
	}
}

func TestGenerateErrors(t *testing.T) {
	app := setupApp(t)

	plan := createPlan(t, app, app.alice, map[string]any{
		"name": "Private", "startDate": "2024-02-01", "endDate": "2024-02-02",
	})

	rec := app.do(t, app.bob, "POST", "/api/shoppinglists/generate", map[string]any{"mealPlanId": plan.ID})
	if rec.Code != http.StatusForbidden {
		t.Errorf("foreign plan status = %d, want 403", rec.Code)
	}
	if msg := message(t, rec); msg != "Not authorized" {
		t.Errorf("message = %q", msg)
	}
	rec = app.do(t, app.bob, "GET", "/api/shoppinglists", nil)
	if lists := decode[[]model.ShoppingList](t, rec); len(lists) != 0 {
		t.Errorf("bob has %d lists, want 0", len(lists))
	}

	rec = app.do(t, app.alice, "POST", "/api/shoppinglists/generate", map[string]any{"mealPlanId": 9999})
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown plan status = %d, want 404", rec.Code)
	}
	if msg := message(t, rec); msg != "Meal plan not found" {
		t.Errorf("message = %q", msg)
	}

	rec = app.do(t, app.alice, "POST", "/api/shoppinglists/generate", map[string]any{"name": "x"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing mealPlanId status = %d, want 400", rec.Code)
	}
}

func TestShoppingListLifecycle(t *testing.T) {
	app := setupApp(t)

	rec := app.do(t, app.alice, "POST", "/api/shoppinglists", map[string]any{
		"name":  "Quick shop",
		"items": []map[string]any{{"name": "Bread", "amount": "1"}},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	list := decode[model.ShoppingList](t, rec)
	if list.Items[0].Category != model.CategoryOther || list.Items[0].IsChecked {
		t.Errorf("defaults not applied: %+v", list.Items[0])
	}
	path := fmt.Sprintf("/api/shoppinglists/%d", list.ID)

	rec = app.do(t, app.alice, "PUT", path, map[string]any{
		"name":  "Quick shop",
		"items": []map[string]any{{"name": "Bread", "amount": "1", "isChecked": true, "category": "pantry"}},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", rec.Code, rec.Body.String())
	}
	if updated := decode[model.ShoppingList](t, rec); !updated.Items[0].IsChecked {
		t.Errorf("item not checked: %+v", updated.Items[0])
	}

	rec = app.do(t, app.bob, "PUT", path, map[string]any{"name": "Stolen"})
	if rec.Code != http.StatusForbidden {
		t.Errorf("bob update status = %d, want 403", rec.Code)
	}
	if msg := message(t, rec); msg != "Not authorized to update this shopping list" {
		t.Errorf("message = %q", msg)
	}

	rec = app.do(t, app.alice, "DELETE", path, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}
	if msg := message(t, rec); msg != "Shopping list removed" {
		t.Errorf("message = %q", msg)
	}

	rec = app.do(t, app.alice, "GET", "/api/shoppinglists?mealPlanId=abc", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad filter status = %d, want 400", rec.Code)
	}
}
