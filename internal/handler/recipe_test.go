package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/dukerupert/platewise/internal/model"
)

func createRecipe(t *testing.T, app *testApp, owner int64, body map[string]any) model.Recipe {
	t.Helper()
	rec := app.do(t, owner, "POST", "/api/recipes", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create recipe status = %d, body %s", rec.Code, rec.Body.String())
	}
	return decode[model.Recipe](t, rec)
}

func TestRecipeLifecycle(t *testing.T) {
	app := setupApp(t)

	r := createRecipe(t, app, app.alice, map[string]any{
		"title":       "Omelette",
		"ingredients": []map[string]string{{"name": "Egg", "amount": "3"}, {"name": "Milk", "amount": "2", "unit": "tbsp"}},
		"prepTime":    5,
	})
	if r.CreatedBy != app.alice || len(r.Ingredients) != 2 {
		t.Errorf("unexpected recipe: %+v", r)
	}
	path := fmt.Sprintf("/api/recipes/%d", r.ID)

	rec := app.do(t, app.bob, "GET", path, nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("bob get status = %d, want 403", rec.Code)
	}
	if msg := message(t, rec); msg != "Not authorized to access this recipe" {
		t.Errorf("message = %q", msg)
	}

	rec = app.do(t, app.alice, "PUT", path, map[string]any{"title": "Big omelette", "isPublic": true, "ingredients": []any{}})
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", rec.Code, rec.Body.String())
	}
	updated := decode[model.Recipe](t, rec)
	if updated.Title != "Big omelette" || !updated.IsPublic || len(updated.Ingredients) != 0 {
		t.Errorf("unexpected update: %+v", updated)
	}

	rec = app.do(t, app.bob, "GET", path, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("bob get public status = %d, want 200", rec.Code)
	}

	rec = app.do(t, app.bob, "GET", "/api/recipes", nil)
	if visible := decode[[]model.Recipe](t, rec); len(visible) != 1 {
		t.Errorf("bob sees %d recipes, want 1", len(visible))
	}
	rec = app.do(t, app.bob, "GET", "/api/recipes/myrecipes", nil)
	if mine := decode[[]model.Recipe](t, rec); len(mine) != 0 {
		t.Errorf("bob owns %d recipes, want 0", len(mine))
	}

	rec = app.do(t, app.bob, "DELETE", path, nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("bob delete status = %d, want 403", rec.Code)
	}

	rec = app.do(t, app.alice, "DELETE", path, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}
	if msg := message(t, rec); msg != "Recipe removed" {
		t.Errorf("message = %q", msg)
	}

	rec = app.do(t, app.alice, "GET", path, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", rec.Code)
	}
}

func TestRecipeBadRequests(t *testing.T) {
	app := setupApp(t)

	rec := app.do(t, app.alice, "POST", "/api/recipes", map[string]any{"title": ""})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing title status = %d, want 400", rec.Code)
	}
	if msg := message(t, rec); msg != "title is required" {
		t.Errorf("message = %q", msg)
	}

	rec = app.do(t, app.alice, "POST", "/api/recipes", "[")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad json status = %d, want 400", rec.Code)
	}

	rec = app.do(t, app.alice, "GET", "/api/recipes/not-a-number", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("non-numeric id status = %d, want 404", rec.Code)
	}
	if msg := message(t, rec); msg != "Recipe not found" {
		t.Errorf("message = %q", msg)
	}
}
