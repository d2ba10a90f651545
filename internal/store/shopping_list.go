package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dukerupert/platewise/internal/model"
)

type ShoppingListStore struct {
	db *sql.DB
}

func NewShoppingListStore(db *sql.DB) *ShoppingListStore {
	return &ShoppingListStore{db: db}
}

func scanShoppingList(s scanner) (*model.ShoppingList, error) {
	var l model.ShoppingList
	var mealPlanID sql.NullInt64
	err := s.Scan(&l.ID, &l.UserID, &l.Name, &mealPlanID, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	l.MealPlanID = int64Ptr(mealPlanID)
	l.Items = []model.ShoppingItem{}
	return &l, nil
}

const shoppingListCols = `id, user_id, name, meal_plan_id, created_at, updated_at`

func insertShoppingItems(ctx context.Context, tx *sql.Tx, listID int64, items []model.ShoppingItem) error {
	for i, item := range items {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO shopping_list_items (list_id, position, name, amount, unit, is_checked, category) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			listID, i, item.Name, item.Amount, item.Unit, boolInt(item.IsChecked), string(item.Category),
		)
		if err != nil {
			return fmt.Errorf("insert shopping item: %w", err)
		}
	}
	return nil
}

// Create inserts a shopping list and its items. UserID must be set.
func (s *ShoppingListStore) Create(ctx context.Context, l *model.ShoppingList) (*model.ShoppingList, error) {
	var id int64
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			`INSERT INTO shopping_lists (user_id, name, meal_plan_id) VALUES (?, ?, ?)`,
			l.UserID, l.Name, nullInt64(l.MealPlanID),
		)
		if err != nil {
			return fmt.Errorf("insert shopping list: %w", err)
		}
		id, err = result.LastInsertId()
		if err != nil {
			return fmt.Errorf("last insert id: %w", err)
		}
		return insertShoppingItems(ctx, tx, id, l.Items)
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func (s *ShoppingListStore) GetByID(ctx context.Context, id int64) (*model.ShoppingList, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+shoppingListCols+` FROM shopping_lists WHERE id = ?`, id)
	l, err := scanShoppingList(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get shopping list: %w", err)
	}

	lists := []model.ShoppingList{*l}
	if err := s.attachItems(ctx, lists); err != nil {
		return nil, err
	}
	return &lists[0], nil
}

// ListByUser returns the user's shopping lists, newest first.
func (s *ShoppingListStore) ListByUser(ctx context.Context, userID int64) ([]model.ShoppingList, error) {
	lists, err := s.queryLists(ctx,
		`SELECT `+shoppingListCols+` FROM shopping_lists WHERE user_id = ? ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	if err := s.attachItems(ctx, lists); err != nil {
		return nil, err
	}
	return lists, nil
}

// ListByMealPlan returns every list whose back-reference is mealPlanID.
func (s *ShoppingListStore) ListByMealPlan(ctx context.Context, mealPlanID int64) ([]model.ShoppingList, error) {
	lists, err := s.queryLists(ctx,
		`SELECT `+shoppingListCols+` FROM shopping_lists WHERE meal_plan_id = ? ORDER BY id ASC`,
		mealPlanID,
	)
	if err != nil {
		return nil, err
	}
	if err := s.attachItems(ctx, lists); err != nil {
		return nil, err
	}
	return lists, nil
}

func (s *ShoppingListStore) queryLists(ctx context.Context, query string, args ...any) ([]model.ShoppingList, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list shopping lists: %w", err)
	}
	defer rows.Close()

	lists := []model.ShoppingList{}
	for rows.Next() {
		l, err := scanShoppingList(rows)
		if err != nil {
			return nil, fmt.Errorf("scan shopping list: %w", err)
		}
		lists = append(lists, *l)
	}
	return lists, rows.Err()
}

func (s *ShoppingListStore) attachItems(ctx context.Context, lists []model.ShoppingList) error {
	if len(lists) == 0 {
		return nil
	}
	ids := make([]int64, len(lists))
	byID := make(map[int64]int, len(lists))
	for i, l := range lists {
		ids[i] = l.ID
		byID[l.ID] = i
	}

	marks, args := inClause(ids)
	rows, err := s.db.QueryContext(ctx,
		`SELECT list_id, name, amount, unit, is_checked, category FROM shopping_list_items WHERE list_id IN (`+marks+`) ORDER BY list_id, position`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("list shopping items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var listID int64
		var item model.ShoppingItem
		var checked int
		var category string
		if err := rows.Scan(&listID, &item.Name, &item.Amount, &item.Unit, &checked, &category); err != nil {
			return fmt.Errorf("scan shopping item: %w", err)
		}
		item.IsChecked = checked != 0
		item.Category = model.Category(category)
		i := byID[listID]
		lists[i].Items = append(lists[i].Items, item)
	}
	return rows.Err()
}

// Update replaces the list's name, items and meal plan reference.
func (s *ShoppingListStore) Update(ctx context.Context, id int64, l *model.ShoppingList) (*model.ShoppingList, error) {
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`UPDATE shopping_lists SET name = ?, meal_plan_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
			l.Name, nullInt64(l.MealPlanID), id,
		)
		if err != nil {
			return fmt.Errorf("update shopping list: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM shopping_list_items WHERE list_id = ?`, id); err != nil {
			return fmt.Errorf("clear shopping items: %w", err)
		}
		return insertShoppingItems(ctx, tx, id, l.Items)
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func (s *ShoppingListStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM shopping_lists WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete shopping list: %w", err)
	}
	return nil
}
