package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dukerupert/platewise/internal/model"
)

type MealPlanStore struct {
	db *sql.DB
}

func NewMealPlanStore(db *sql.DB) *MealPlanStore {
	return &MealPlanStore{db: db}
}

func scanMealPlan(s scanner) (*model.MealPlan, error) {
	var p model.MealPlan
	err := s.Scan(&p.ID, &p.UserID, &p.Name, &p.StartDate, &p.EndDate, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.Meals = []model.Meal{}
	return &p, nil
}

const mealPlanCols = `id, user_id, name, start_date, end_date, created_at, updated_at`

func insertMeals(ctx context.Context, tx *sql.Tx, planID int64, meals []model.Meal) error {
	for i, m := range meals {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO meal_plan_meals (meal_plan_id, position, date, meal_type, recipe_id, servings) VALUES (?, ?, ?, ?, ?, ?)`,
			planID, i, m.Date.UTC(), string(m.MealType), nullInt64(m.RecipeID), m.Servings,
		)
		if err != nil {
			return fmt.Errorf("insert meal: %w", err)
		}
	}
	return nil
}

// Create inserts a meal plan and its meals. UserID must be set.
func (s *MealPlanStore) Create(ctx context.Context, p *model.MealPlan) (*model.MealPlan, error) {
	var id int64
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			`INSERT INTO meal_plans (user_id, name, start_date, end_date) VALUES (?, ?, ?, ?)`,
			p.UserID, p.Name, p.StartDate.UTC(), p.EndDate.UTC(),
		)
		if err != nil {
			return fmt.Errorf("insert meal plan: %w", err)
		}
		id, err = result.LastInsertId()
		if err != nil {
			return fmt.Errorf("last insert id: %w", err)
		}
		return insertMeals(ctx, tx, id, p.Meals)
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func (s *MealPlanStore) GetByID(ctx context.Context, id int64) (*model.MealPlan, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+mealPlanCols+` FROM meal_plans WHERE id = ?`, id)
	p, err := scanMealPlan(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get meal plan: %w", err)
	}

	plans := []model.MealPlan{*p}
	if err := s.attachMeals(ctx, plans); err != nil {
		return nil, err
	}
	return &plans[0], nil
}

// ListByUser returns the user's meal plans, newest start date first.
func (s *MealPlanStore) ListByUser(ctx context.Context, userID int64) ([]model.MealPlan, error) {
	plans, err := s.queryPlans(ctx,
		`SELECT `+mealPlanCols+` FROM meal_plans WHERE user_id = ? ORDER BY start_date DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	if err := s.attachMeals(ctx, plans); err != nil {
		return nil, err
	}
	return plans, nil
}

func (s *MealPlanStore) queryPlans(ctx context.Context, query string, args ...any) ([]model.MealPlan, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list meal plans: %w", err)
	}
	defer rows.Close()

	plans := []model.MealPlan{}
	for rows.Next() {
		p, err := scanMealPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan meal plan: %w", err)
		}
		plans = append(plans, *p)
	}
	return plans, rows.Err()
}

func (s *MealPlanStore) attachMeals(ctx context.Context, plans []model.MealPlan) error {
	if len(plans) == 0 {
		return nil
	}
	ids := make([]int64, len(plans))
	byID := make(map[int64]int, len(plans))
	for i, p := range plans {
		ids[i] = p.ID
		byID[p.ID] = i
	}

	marks, args := inClause(ids)
	rows, err := s.db.QueryContext(ctx,
		`SELECT meal_plan_id, date, meal_type, recipe_id, servings FROM meal_plan_meals WHERE meal_plan_id IN (`+marks+`) ORDER BY meal_plan_id, position`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("list meals: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var planID int64
		var m model.Meal
		var mealType string
		var recipeID sql.NullInt64
		if err := rows.Scan(&planID, &m.Date, &mealType, &recipeID, &m.Servings); err != nil {
			return fmt.Errorf("scan meal: %w", err)
		}
		m.MealType = model.MealType(mealType)
		m.RecipeID = int64Ptr(recipeID)
		i := byID[planID]
		plans[i].Meals = append(plans[i].Meals, m)
	}
	return rows.Err()
}

// Update replaces the plan's name, dates and meals. The owner never changes.
func (s *MealPlanStore) Update(ctx context.Context, id int64, p *model.MealPlan) (*model.MealPlan, error) {
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`UPDATE meal_plans SET name = ?, start_date = ?, end_date = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
			p.Name, p.StartDate.UTC(), p.EndDate.UTC(), id,
		)
		if err != nil {
			return fmt.Errorf("update meal plan: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM meal_plan_meals WHERE meal_plan_id = ?`, id); err != nil {
			return fmt.Errorf("clear meals: %w", err)
		}
		return insertMeals(ctx, tx, id, p.Meals)
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// Delete removes the plan and its meals. Shopping lists generated from it
// keep their mealPlanId.
func (s *MealPlanStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM meal_plans WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete meal plan: %w", err)
	}
	return nil
}
