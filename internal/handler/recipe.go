package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/platewise/internal/auth"
	"github.com/dukerupert/platewise/internal/model"
	"github.com/dukerupert/platewise/internal/service"
	"github.com/dukerupert/platewise/internal/websocket"
)

var recipeResource = resource{title: "Recipe", noun: "recipe"}

type RecipeHandler struct {
	recipes *service.RecipeService
	notify  notifier
	logger  *slog.Logger
}

func NewRecipeHandler(recipes *service.RecipeService, hub *websocket.Hub, logger *slog.Logger) *RecipeHandler {
	return &RecipeHandler{recipes: recipes, notify: notifier{hub: hub}, logger: logger}
}

type recipeRequest struct {
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	Ingredients  []model.Ingredient  `json:"ingredients"`
	Instructions []model.Instruction `json:"instructions"`
	CookTime     *int                `json:"cookTime"`
	PrepTime     *int                `json:"prepTime"`
	Servings     *int                `json:"servings"`
	ImageURL     string              `json:"imageUrl"`
	Tags         []string            `json:"tags"`
	Nutrition    *model.Nutrition    `json:"nutrition"`
	IsPublic     bool                `json:"isPublic"`
}

func (req recipeRequest) toModel() model.Recipe {
	return model.Recipe{
		Title:        req.Title,
		Description:  req.Description,
		Ingredients:  req.Ingredients,
		Instructions: req.Instructions,
		CookTime:     req.CookTime,
		PrepTime:     req.PrepTime,
		Servings:     req.Servings,
		ImageURL:     req.ImageURL,
		Tags:         req.Tags,
		Nutrition:    req.Nutrition,
		IsPublic:     req.IsPublic,
	}
}

func (h *RecipeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req recipeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	userID := auth.UserID(r.Context())
	recipe, err := h.recipes.Create(r.Context(), userID, req.toModel())
	if err != nil {
		writeServiceError(w, r, h.logger, err, recipeResource, "create")
		return
	}

	h.notify.send(userID, "recipe", "created", recipe.ID, nil)
	writeJSON(w, http.StatusCreated, recipe)
}

// List returns the caller's recipes plus every public recipe.
func (h *RecipeHandler) List(w http.ResponseWriter, r *http.Request) {
	recipes, err := h.recipes.ListVisible(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		writeServiceError(w, r, h.logger, err, recipeResource, "access")
		return
	}
	writeJSON(w, http.StatusOK, recipes)
}

func (h *RecipeHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	recipes, err := h.recipes.ListMine(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		writeServiceError(w, r, h.logger, err, recipeResource, "access")
		return
	}
	writeJSON(w, http.StatusOK, recipes)
}

func (h *RecipeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeMessage(w, http.StatusNotFound, recipeResource.notFound())
		return
	}

	recipe, err := h.recipes.Get(r.Context(), auth.UserID(r.Context()), id)
	if err != nil {
		writeServiceError(w, r, h.logger, err, recipeResource, "access")
		return
	}
	writeJSON(w, http.StatusOK, recipe)
}

func (h *RecipeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeMessage(w, http.StatusNotFound, recipeResource.notFound())
		return
	}

	var req recipeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	userID := auth.UserID(r.Context())
	recipe, err := h.recipes.Update(r.Context(), userID, id, req.toModel())
	if err != nil {
		writeServiceError(w, r, h.logger, err, recipeResource, "update")
		return
	}

	h.notify.send(userID, "recipe", "updated", recipe.ID, nil)
	writeJSON(w, http.StatusOK, recipe)
}

func (h *RecipeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeMessage(w, http.StatusNotFound, recipeResource.notFound())
		return
	}

	userID := auth.UserID(r.Context())
	if err := h.recipes.Delete(r.Context(), userID, id); err != nil {
		writeServiceError(w, r, h.logger, err, recipeResource, "delete")
		return
	}

	h.notify.send(userID, "recipe", "deleted", id, nil)
	writeMessage(w, http.StatusOK, "Recipe removed")
}
