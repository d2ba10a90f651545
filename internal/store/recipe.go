package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/dukerupert/platewise/internal/model"
)

type RecipeStore struct {
	db *sql.DB
}

func NewRecipeStore(db *sql.DB) *RecipeStore {
	return &RecipeStore{db: db}
}

func scanRecipe(s scanner) (*model.Recipe, error) {
	var r model.Recipe
	var instructions, tags string
	var cookTime, prepTime, servings sql.NullInt64
	var calories, protein, carbs, fat sql.NullFloat64
	var public int

	err := s.Scan(
		&r.ID, &r.Title, &r.Description, &instructions, &cookTime, &prepTime,
		&servings, &r.ImageURL, &tags, &calories, &protein, &carbs, &fat,
		&r.CreatedBy, &public, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(instructions), &r.Instructions); err != nil {
		return nil, fmt.Errorf("decode instructions: %w", err)
	}
	if err := json.Unmarshal([]byte(tags), &r.Tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}

	r.CookTime = intPtr(cookTime)
	r.PrepTime = intPtr(prepTime)
	r.Servings = intPtr(servings)
	r.IsPublic = public != 0
	if calories.Valid || protein.Valid || carbs.Valid || fat.Valid {
		r.Nutrition = &model.Nutrition{
			Calories: floatPtr(calories),
			Protein:  floatPtr(protein),
			Carbs:    floatPtr(carbs),
			Fat:      floatPtr(fat),
		}
	}
	r.Ingredients = []model.Ingredient{}
	return &r, nil
}

const recipeCols = `id, title, description, instructions, cook_time, prep_time, servings, image_url, tags, calories, protein, carbs, fat, created_by, is_public, created_at, updated_at`

// recipeArgs returns the column values shared by insert and update, in the
// order title, description, instructions, cook_time, prep_time, servings,
// image_url, tags, calories, protein, carbs, fat, is_public.
func recipeArgs(r *model.Recipe) ([]any, error) {
	instructions := r.Instructions
	if instructions == nil {
		instructions = []model.Instruction{}
	}
	instructionsJSON, err := json.Marshal(instructions)
	if err != nil {
		return nil, fmt.Errorf("encode instructions: %w", err)
	}
	tags := r.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return nil, fmt.Errorf("encode tags: %w", err)
	}

	var n model.Nutrition
	if r.Nutrition != nil {
		n = *r.Nutrition
	}

	return []any{
		r.Title, r.Description, string(instructionsJSON),
		nullInt(r.CookTime), nullInt(r.PrepTime), nullInt(r.Servings),
		r.ImageURL, string(tagsJSON),
		nullFloat(n.Calories), nullFloat(n.Protein), nullFloat(n.Carbs), nullFloat(n.Fat),
		boolInt(r.IsPublic),
	}, nil
}

func insertIngredients(ctx context.Context, tx *sql.Tx, recipeID int64, ingredients []model.Ingredient) error {
	for i, ing := range ingredients {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO recipe_ingredients (recipe_id, position, name, amount, unit) VALUES (?, ?, ?, ?, ?)`,
			recipeID, i, ing.Name, ing.Amount, ing.Unit,
		)
		if err != nil {
			return fmt.Errorf("insert ingredient: %w", err)
		}
	}
	return nil
}

// Create inserts a recipe and its ingredients. CreatedBy must be set.
func (s *RecipeStore) Create(ctx context.Context, r *model.Recipe) (*model.Recipe, error) {
	args, err := recipeArgs(r)
	if err != nil {
		return nil, err
	}

	var id int64
	err = withTx(ctx, s.db, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			`INSERT INTO recipes (title, description, instructions, cook_time, prep_time, servings, image_url, tags, calories, protein, carbs, fat, is_public, created_by)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			append(args, r.CreatedBy)...,
		)
		if err != nil {
			return fmt.Errorf("insert recipe: %w", err)
		}
		id, err = result.LastInsertId()
		if err != nil {
			return fmt.Errorf("last insert id: %w", err)
		}
		return insertIngredients(ctx, tx, id, r.Ingredients)
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func (s *RecipeStore) GetByID(ctx context.Context, id int64) (*model.Recipe, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+recipeCols+` FROM recipes WHERE id = ?`, id)
	r, err := scanRecipe(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get recipe: %w", err)
	}

	recipes := []model.Recipe{*r}
	if err := s.attachIngredients(ctx, recipes); err != nil {
		return nil, err
	}
	return &recipes[0], nil
}

// ListByOwner returns the recipes created by userID.
func (s *RecipeStore) ListByOwner(ctx context.Context, userID int64) ([]model.Recipe, error) {
	return s.list(ctx, `WHERE created_by = ? ORDER BY created_at DESC, id DESC`, userID)
}

// ListVisible returns the recipes userID created plus every public recipe.
func (s *RecipeStore) ListVisible(ctx context.Context, userID int64) ([]model.Recipe, error) {
	return s.list(ctx, `WHERE created_by = ? OR is_public = 1 ORDER BY created_at DESC, id DESC`, userID)
}

// GetMany returns the recipes with the given ids in ascending id order.
// Unknown ids are skipped.
func (s *RecipeStore) GetMany(ctx context.Context, ids []int64) ([]model.Recipe, error) {
	if len(ids) == 0 {
		return []model.Recipe{}, nil
	}
	marks, args := inClause(ids)
	return s.list(ctx, `WHERE id IN (`+marks+`) ORDER BY id ASC`, args...)
}

func (s *RecipeStore) list(ctx context.Context, where string, args ...any) ([]model.Recipe, error) {
	recipes, err := s.queryRecipes(ctx, `SELECT `+recipeCols+` FROM recipes `+where, args...)
	if err != nil {
		return nil, err
	}
	if err := s.attachIngredients(ctx, recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

// queryRecipes reads every row before returning so the connection is free for
// the ingredient query that follows.
func (s *RecipeStore) queryRecipes(ctx context.Context, query string, args ...any) ([]model.Recipe, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	defer rows.Close()

	recipes := []model.Recipe{}
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recipe: %w", err)
		}
		recipes = append(recipes, *r)
	}
	return recipes, rows.Err()
}

func (s *RecipeStore) attachIngredients(ctx context.Context, recipes []model.Recipe) error {
	if len(recipes) == 0 {
		return nil
	}
	ids := make([]int64, len(recipes))
	byID := make(map[int64]int, len(recipes))
	for i, r := range recipes {
		ids[i] = r.ID
		byID[r.ID] = i
	}

	marks, args := inClause(ids)
	rows, err := s.db.QueryContext(ctx,
		`SELECT recipe_id, name, amount, unit FROM recipe_ingredients WHERE recipe_id IN (`+marks+`) ORDER BY recipe_id, position`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("list ingredients: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var recipeID int64
		var ing model.Ingredient
		if err := rows.Scan(&recipeID, &ing.Name, &ing.Amount, &ing.Unit); err != nil {
			return fmt.Errorf("scan ingredient: %w", err)
		}
		i := byID[recipeID]
		recipes[i].Ingredients = append(recipes[i].Ingredients, ing)
	}
	return rows.Err()
}

// Update replaces every field of the recipe except its id and creator.
func (s *RecipeStore) Update(ctx context.Context, id int64, r *model.Recipe) (*model.Recipe, error) {
	args, err := recipeArgs(r)
	if err != nil {
		return nil, err
	}

	err = withTx(ctx, s.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`UPDATE recipes SET title = ?, description = ?, instructions = ?, cook_time = ?, prep_time = ?, servings = ?,
			 image_url = ?, tags = ?, calories = ?, protein = ?, carbs = ?, fat = ?, is_public = ?, updated_at = CURRENT_TIMESTAMP
			 WHERE id = ?`,
			append(args, id)...,
		)
		if err != nil {
			return fmt.Errorf("update recipe: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM recipe_ingredients WHERE recipe_id = ?`, id); err != nil {
			return fmt.Errorf("clear ingredients: %w", err)
		}
		return insertIngredients(ctx, tx, id, r.Ingredients)
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func (s *RecipeStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM recipes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}
	return nil
}
