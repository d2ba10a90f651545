package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/platewise/internal/auth"
	"github.com/dukerupert/platewise/internal/model"
	"github.com/dukerupert/platewise/internal/service"
	"github.com/dukerupert/platewise/internal/websocket"
)

var mealPlanResource = resource{title: "Meal plan", noun: "meal plan"}

type MealPlanHandler struct {
	plans  *service.MealPlanService
	notify notifier
	logger *slog.Logger
}

func NewMealPlanHandler(plans *service.MealPlanService, hub *websocket.Hub, logger *slog.Logger) *MealPlanHandler {
	return &MealPlanHandler{plans: plans, notify: notifier{hub: hub}, logger: logger}
}

type mealRequest struct {
	Date     flexTime `json:"date"`
	MealType string   `json:"mealType"`
	Recipe   *int64   `json:"recipe"`
	Servings int      `json:"servings"`
}

type mealPlanRequest struct {
	Name      string        `json:"name"`
	StartDate flexTime      `json:"startDate"`
	EndDate   flexTime      `json:"endDate"`
	Meals     []mealRequest `json:"meals"`
}

func (req mealPlanRequest) toModel() model.MealPlan {
	p := model.MealPlan{
		Name:      req.Name,
		StartDate: time.Time(req.StartDate),
		EndDate:   time.Time(req.EndDate),
		Meals:     make([]model.Meal, 0, len(req.Meals)),
	}
	for _, m := range req.Meals {
		p.Meals = append(p.Meals, model.Meal{
			Date:     time.Time(m.Date),
			MealType: model.MealType(m.MealType),
			RecipeID: m.Recipe,
			Servings: m.Servings,
		})
	}
	return p
}

func (h *MealPlanHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req mealPlanRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	userID := auth.UserID(r.Context())
	plan, err := h.plans.Create(r.Context(), userID, req.toModel())
	if err != nil {
		writeServiceError(w, r, h.logger, err, mealPlanResource, "create")
		return
	}

	h.notify.send(userID, "meal_plan", "created", plan.ID, nil)
	writeJSON(w, http.StatusCreated, plan)
}

func (h *MealPlanHandler) List(w http.ResponseWriter, r *http.Request) {
	plans, err := h.plans.List(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		writeServiceError(w, r, h.logger, err, mealPlanResource, "access")
		return
	}
	writeJSON(w, http.StatusOK, plans)
}

// Get returns the plan with each meal's recipe embedded as recipeDetails.
func (h *MealPlanHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeMessage(w, http.StatusNotFound, mealPlanResource.notFound())
		return
	}

	plan, err := h.plans.Get(r.Context(), auth.UserID(r.Context()), id)
	if err != nil {
		writeServiceError(w, r, h.logger, err, mealPlanResource, "access")
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (h *MealPlanHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeMessage(w, http.StatusNotFound, mealPlanResource.notFound())
		return
	}

	var req mealPlanRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	userID := auth.UserID(r.Context())
	plan, err := h.plans.Update(r.Context(), userID, id, req.toModel())
	if err != nil {
		writeServiceError(w, r, h.logger, err, mealPlanResource, "update")
		return
	}

	h.notify.send(userID, "meal_plan", "updated", plan.ID, nil)
	writeJSON(w, http.StatusOK, plan)
}

func (h *MealPlanHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeMessage(w, http.StatusNotFound, mealPlanResource.notFound())
		return
	}

	userID := auth.UserID(r.Context())
	if err := h.plans.Delete(r.Context(), userID, id); err != nil {
		writeServiceError(w, r, h.logger, err, mealPlanResource, "delete")
		return
	}

	h.notify.send(userID, "meal_plan", "deleted", id, nil)
	writeMessage(w, http.StatusOK, "Meal plan removed")
}
