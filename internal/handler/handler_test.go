package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/dukerupert/platewise/internal/auth"
	"github.com/dukerupert/platewise/internal/database"
	"github.com/dukerupert/platewise/internal/service"
	"github.com/dukerupert/platewise/internal/store"
	"github.com/dukerupert/platewise/internal/websocket"
)

type testApp struct {
	mux   *http.ServeMux
	hub   *websocket.Hub
	alice int64
	bob   int64
}

// withUser stands in for the auth middleware; the caller is named by the
// X-Test-User header.
func withUser(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(r.Header.Get("X-Test-User"), 10, 64)
		ctx := auth.WithAuth(r.Context(), auth.AuthContext{UserID: id})
		h(w, r.WithContext(ctx))
	}
}

func setupApp(t *testing.T) *testApp {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	hub := websocket.NewHub(logger)

	userStore := store.NewUserStore(db)
	recipeStore := store.NewRecipeStore(db)
	planStore := store.NewMealPlanStore(db)
	listStore := store.NewShoppingListStore(db)

	users := NewUserHandler(service.NewUserService(userStore, auth.NewTokens("test-secret", time.Hour)), logger)
	recipes := NewRecipeHandler(service.NewRecipeService(recipeStore), hub, logger)
	plans := NewMealPlanHandler(service.NewMealPlanService(planStore, recipeStore), hub, logger)
	lists := NewShoppingListHandler(service.NewShoppingListService(listStore, planStore, recipeStore), hub, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/users", users.Register)
	mux.HandleFunc("POST /api/users/login", users.Login)
	mux.HandleFunc("GET /api/users/profile", withUser(users.Profile))

	mux.HandleFunc("POST /api/recipes", withUser(recipes.Create))
	mux.HandleFunc("GET /api/recipes", withUser(recipes.List))
	mux.HandleFunc("GET /api/recipes/myrecipes", withUser(recipes.ListMine))
	mux.HandleFunc("GET /api/recipes/{id}", withUser(recipes.Get))
	mux.HandleFunc("PUT /api/recipes/{id}", withUser(recipes.Update))
	mux.HandleFunc("DELETE /api/recipes/{id}", withUser(recipes.Delete))

	mux.HandleFunc("POST /api/mealplans", withUser(plans.Create))
	mux.HandleFunc("GET /api/mealplans", withUser(plans.List))
	mux.HandleFunc("GET /api/mealplans/{id}", withUser(plans.Get))
	mux.HandleFunc("PUT /api/mealplans/{id}", withUser(plans.Update))
	mux.HandleFunc("DELETE /api/mealplans/{id}", withUser(plans.Delete))

	mux.HandleFunc("POST /api/shoppinglists", withUser(lists.Create))
	mux.HandleFunc("POST /api/shoppinglists/generate", withUser(lists.Generate))
	mux.HandleFunc("GET /api/shoppinglists", withUser(lists.List))
	mux.HandleFunc("GET /api/shoppinglists/{id}", withUser(lists.Get))
	mux.HandleFunc("PUT /api/shoppinglists/{id}", withUser(lists.Update))
	mux.HandleFunc("DELETE /api/shoppinglists/{id}", withUser(lists.Delete))

	ctx := context.Background()
	alice, err := userStore.Create(ctx, "Alice", "alice@example.com", "x")
	if err != nil {
		t.Fatalf("create alice: %v", err)
	}
	bob, err := userStore.Create(ctx, "Bob", "bob@example.com", "x")
	if err != nil {
		t.Fatalf("create bob: %v", err)
	}

	return &testApp{mux: mux, hub: hub, alice: alice.ID, bob: bob.ID}
}

func (a *testApp) do(t *testing.T, userID int64, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	if userID != 0 {
		req.Header.Set("X-Test-User", strconv.FormatInt(userID, 10))
	}
	rec := httptest.NewRecorder()
	a.mux.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rec.Body.String())
	}
	return v
}

func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]string](t, rec)["message"]
}

func TestFlexTime(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{`"2024-03-04"`, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)},
		{`"2024-03-04T18:30:00Z"`, time.Date(2024, 3, 4, 18, 30, 0, 0, time.UTC)},
		{`"2024-03-04T18:30:00+02:00"`, time.Date(2024, 3, 4, 16, 30, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		var ft flexTime
		if err := json.Unmarshal([]byte(tt.in), &ft); err != nil {
			t.Errorf("unmarshal %s: %v", tt.in, err)
			continue
		}
		if !time.Time(ft).Equal(tt.want) {
			t.Errorf("unmarshal %s = %v, want %v", tt.in, time.Time(ft), tt.want)
		}
	}

	var ft flexTime
	if err := json.Unmarshal([]byte(`"next tuesday"`), &ft); err == nil {
		t.Error("expected error for unparseable date")
	}
}
