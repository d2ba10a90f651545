package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/platewise/internal/auth"
	"github.com/dukerupert/platewise/internal/config"
	"github.com/dukerupert/platewise/internal/handler"
	"github.com/dukerupert/platewise/internal/middleware"
	"github.com/dukerupert/platewise/internal/service"
	"github.com/dukerupert/platewise/internal/spoonacular"
	"github.com/dukerupert/platewise/internal/store"
	ws "github.com/dukerupert/platewise/internal/websocket"
)

const authRateWindow = time.Minute

type Server struct {
	hub           *ws.Hub
	userH         *handler.UserHandler
	recipeH       *handler.RecipeHandler
	mealPlanH     *handler.MealPlanHandler
	shoppingListH *handler.ShoppingListHandler
	externalH     *handler.ExternalHandler
	tokens        *auth.Tokens
	userStore     *store.UserStore
	rateLimiter   *middleware.RateLimiter
	authRateLimit int
	origins       []string
	logger        *slog.Logger
}

func New(db *sql.DB, cfg *config.Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))
	handlerLogger := logger.With("component", "handler")

	userStore := store.NewUserStore(db)
	recipeStore := store.NewRecipeStore(db)
	mealPlanStore := store.NewMealPlanStore(db)
	shoppingListStore := store.NewShoppingListStore(db)

	tokens := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL)

	spoon := spoonacular.NewClient(spoonacular.Config{
		APIKey:  cfg.Spoonacular.APIKey,
		BaseURL: cfg.Spoonacular.BaseURL,
		Timeout: cfg.Spoonacular.Timeout,
	})
	if cfg.Spoonacular.APIKey == "" {
		logger.Warn("SPOONACULAR_API_KEY not set, external recipe lookup will fail")
	}

	return &Server{
		hub:           hub,
		userH:         handler.NewUserHandler(service.NewUserService(userStore, tokens), handlerLogger),
		recipeH:       handler.NewRecipeHandler(service.NewRecipeService(recipeStore), hub, handlerLogger),
		mealPlanH:     handler.NewMealPlanHandler(service.NewMealPlanService(mealPlanStore, recipeStore), hub, handlerLogger),
		shoppingListH: handler.NewShoppingListHandler(service.NewShoppingListService(shoppingListStore, mealPlanStore, recipeStore), hub, handlerLogger),
		externalH:     handler.NewExternalHandler(spoon, handlerLogger),
		tokens:        tokens,
		userStore:     userStore,
		rateLimiter:   middleware.NewRateLimiter(),
		authRateLimit: cfg.AuthRateLimit,
		origins:       cfg.AllowedOrigins,
		logger:        logger,
	}
}

func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	outerMux.HandleFunc("GET /{$}", s.rootHandler)
	outerMux.HandleFunc("GET /health", s.healthHandler)
	outerMux.HandleFunc("POST /api/users", s.rateLimitedHandler("register", s.userH.Register))
	outerMux.HandleFunc("POST /api/users/login", s.rateLimitedHandler("login", s.userH.Login))

	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.tokens, s.userStore)
	outerMux.Handle("/", authMiddleware(protectedMux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) rootHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("API is running..."))
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// rateLimitedHandler limits each client to authRateLimit attempts per minute
// on one auth endpoint. Endpoints are counted separately.
func (s *Server) rateLimitedHandler(scope string, h http.HandlerFunc) http.HandlerFunc {
	rl := middleware.RateLimit(s.rateLimiter, middleware.Limit{
		Scope:    scope,
		Requests: s.authRateLimit,
		Period:   authRateWindow,
	})
	return rl(h).ServeHTTP
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/users/profile", s.userH.Profile)

	// Recipes
	mux.HandleFunc("POST /api/recipes", s.recipeH.Create)
	mux.HandleFunc("GET /api/recipes", s.recipeH.List)
	mux.HandleFunc("GET /api/recipes/myrecipes", s.recipeH.ListMine)
	mux.HandleFunc("GET /api/recipes/{id}", s.recipeH.Get)
	mux.HandleFunc("PUT /api/recipes/{id}", s.recipeH.Update)
	mux.HandleFunc("DELETE /api/recipes/{id}", s.recipeH.Delete)

	// Meal plans
	mux.HandleFunc("POST /api/mealplans", s.mealPlanH.Create)
	mux.HandleFunc("GET /api/mealplans", s.mealPlanH.List)
	mux.HandleFunc("GET /api/mealplans/{id}", s.mealPlanH.Get)
	mux.HandleFunc("PUT /api/mealplans/{id}", s.mealPlanH.Update)
	mux.HandleFunc("DELETE /api/mealplans/{id}", s.mealPlanH.Delete)

	// Shopping lists
	mux.HandleFunc("POST /api/shoppinglists", s.shoppingListH.Create)
	mux.HandleFunc("POST /api/shoppinglists/generate", s.shoppingListH.Generate)
	mux.HandleFunc("GET /api/shoppinglists", s.shoppingListH.List)
	mux.HandleFunc("GET /api/shoppinglists/{id}", s.shoppingListH.Get)
	mux.HandleFunc("PUT /api/shoppinglists/{id}", s.shoppingListH.Update)
	mux.HandleFunc("DELETE /api/shoppinglists/{id}", s.shoppingListH.Delete)

	// Spoonacular proxy
	mux.HandleFunc("GET /api/external/recipes/search", s.externalH.Search)
	mux.HandleFunc("GET /api/external/recipes/{id}", s.externalH.Get)
	mux.HandleFunc("POST /api/external/recipes/extract", s.externalH.Extract)

	// Live updates
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub, s.origins, s.logger.With("component", "websocket")))
}
