package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dukerupert/platewise/internal/auth"
	"github.com/dukerupert/platewise/internal/model"
	"github.com/dukerupert/platewise/internal/service"
	"github.com/dukerupert/platewise/internal/websocket"
)

var shoppingListResource = resource{title: "Shopping list", noun: "shopping list"}

type ShoppingListHandler struct {
	lists  *service.ShoppingListService
	notify notifier
	logger *slog.Logger
}

func NewShoppingListHandler(lists *service.ShoppingListService, hub *websocket.Hub, logger *slog.Logger) *ShoppingListHandler {
	return &ShoppingListHandler{lists: lists, notify: notifier{hub: hub}, logger: logger}
}

type shoppingListRequest struct {
	Name       string               `json:"name"`
	Items      []model.ShoppingItem `json:"items"`
	MealPlanID *int64               `json:"mealPlanId"`
}

func (req shoppingListRequest) toModel() model.ShoppingList {
	return model.ShoppingList{Name: req.Name, Items: req.Items, MealPlanID: req.MealPlanID}
}

type generateRequest struct {
	MealPlanID *int64 `json:"mealPlanId"`
	Name       string `json:"name"`
}

// Generate derives a new list from every recipe in a meal plan.
func (h *ShoppingListHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.MealPlanID == nil {
		writeMessage(w, http.StatusBadRequest, "mealPlanId is required")
		return
	}

	userID := auth.UserID(r.Context())
	list, err := h.lists.Generate(r.Context(), userID, *req.MealPlanID, req.Name)
	switch {
	case errors.Is(err, service.ErrNotFound):
		writeMessage(w, http.StatusNotFound, mealPlanResource.notFound())
		return
	case errors.Is(err, service.ErrForbidden):
		writeMessage(w, http.StatusForbidden, "Not authorized")
		return
	case err != nil:
		writeServiceError(w, r, h.logger, err, shoppingListResource, "create")
		return
	}

	h.notify.send(userID, "shopping_list", "generated", list.ID, map[string]any{"mealPlanId": *req.MealPlanID})
	writeJSON(w, http.StatusCreated, list)
}

func (h *ShoppingListHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req shoppingListRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	userID := auth.UserID(r.Context())
	list, err := h.lists.Create(r.Context(), userID, req.toModel())
	if err != nil {
		writeServiceError(w, r, h.logger, err, shoppingListResource, "create")
		return
	}

	h.notify.send(userID, "shopping_list", "created", list.ID, nil)
	writeJSON(w, http.StatusCreated, list)
}

// List returns the caller's lists, optionally only those generated from the
// meal plan named by the mealPlanId query parameter.
func (h *ShoppingListHandler) List(w http.ResponseWriter, r *http.Request) {
	var mealPlanID *int64
	if v := r.URL.Query().Get("mealPlanId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid mealPlanId")
			return
		}
		mealPlanID = &id
	}

	lists, err := h.lists.List(r.Context(), auth.UserID(r.Context()), mealPlanID)
	if err != nil {
		writeServiceError(w, r, h.logger, err, shoppingListResource, "access")
		return
	}
	writeJSON(w, http.StatusOK, lists)
}

func (h *ShoppingListHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeMessage(w, http.StatusNotFound, shoppingListResource.notFound())
		return
	}

	list, err := h.lists.Get(r.Context(), auth.UserID(r.Context()), id)
	if err != nil {
		writeServiceError(w, r, h.logger, err, shoppingListResource, "access")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *ShoppingListHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeMessage(w, http.StatusNotFound, shoppingListResource.notFound())
		return
	}

	var req shoppingListRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	userID := auth.UserID(r.Context())
	list, err := h.lists.Update(r.Context(), userID, id, req.toModel())
	if err != nil {
		writeServiceError(w, r, h.logger, err, shoppingListResource, "update")
		return
	}

	h.notify.send(userID, "shopping_list", "updated", list.ID, nil)
	writeJSON(w, http.StatusOK, list)
}

func (h *ShoppingListHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeMessage(w, http.StatusNotFound, shoppingListResource.notFound())
		return
	}

	userID := auth.UserID(r.Context())
	if err := h.lists.Delete(r.Context(), userID, id); err != nil {
		writeServiceError(w, r, h.logger, err, shoppingListResource, "delete")
		return
	}

	h.notify.send(userID, "shopping_list", "deleted", id, nil)
	writeMessage(w, http.StatusOK, "Shopping list removed")
}
