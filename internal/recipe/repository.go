package recipes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

type Repository interface {
	FindByTitle(ctx context.Context, title string) (*Recipe, error)
	Insert(ctx context.Context, recipe *Recipe) error
	FindByID(ctx context.Context, recipeID uuid.UUID) (*Recipe, error)
	UpdateByID(ctx context.Context, recipe *Recipe) (int64, error)
	DeleteByID(ctx context.Context, recipeID uuid.UUID) (*Recipe, error)
	ListAllSortedByCreatedDesc(ctx context.Context) ([]Recipe, error)
}

type recipeRepository struct {
	db *sql.DB
}

func NewRecipeRepository(db *sql.DB) Repository {
	return &recipeRepository{db: db}
}

const recipeColumns = `id, title, image_url, ingredients, steps, tags, niko_rating, albert_rating, created_at, updated_at`

func (r *recipeRepository) FindByTitle(ctx context.Context, title string) (*Recipe, error) {
	query := `SELECT ` + recipeColumns + ` FROM recipes WHERE title = $1`
	return r.findOne(ctx, query, title)
}

func (r *recipeRepository) FindByID(ctx context.Context, recipeID uuid.UUID) (*Recipe, error) {
	query := `SELECT ` + recipeColumns + ` FROM recipes WHERE id = $1`
	return r.findOne(ctx, query, recipeID)
}

func (r *recipeRepository) findOne(ctx context.Context, query string, arg any) (*Recipe, error) {
	recipe, err := scanRecipe(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	return recipe, nil
}

// Insert relies on the unique constraint on title; a violation is reported
// as ErrRecipeTitleTaken even when the caller's own existence check passed.
func (r *recipeRepository) Insert(ctx context.Context, recipe *Recipe) error {
	ingredientsJSON, stepsJSON, tagsJSON, err := encodeCollections(recipe)
	if err != nil {
		return err
	}

	query := `INSERT INTO recipes (` + recipeColumns + `)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err = r.db.ExecContext(ctx, query,
		recipe.ID, recipe.Title, recipe.ImageURL, ingredientsJSON, stepsJSON, tagsJSON,
		recipe.NikoRating, recipe.AlbertRating, recipe.CreatedAt, recipe.UpdatedAt)
	return mapWriteError(err)
}

func (r *recipeRepository) UpdateByID(ctx context.Context, recipe *Recipe) (int64, error) {
	ingredientsJSON, stepsJSON, tagsJSON, err := encodeCollections(recipe)
	if err != nil {
		return 0, err
	}

	query := `
        UPDATE recipes
        SET title = $1, image_url = $2, ingredients = $3, steps = $4, tags = $5,
            niko_rating = $6, albert_rating = $7, updated_at = $8
        WHERE id = $9
    `
	result, err := r.db.ExecContext(ctx, query,
		recipe.Title, recipe.ImageURL, ingredientsJSON, stepsJSON, tagsJSON,
		recipe.NikoRating, recipe.AlbertRating, recipe.UpdatedAt, recipe.ID)
	if err != nil {
		return 0, mapWriteError(err)
	}
	return result.RowsAffected()
}

func (r *recipeRepository) DeleteByID(ctx context.Context, recipeID uuid.UUID) (*Recipe, error) {
	query := `DELETE FROM recipes WHERE id = $1 RETURNING ` + recipeColumns
	return r.findOne(ctx, query, recipeID)
}

func (r *recipeRepository) ListAllSortedByCreatedDesc(ctx context.Context) ([]Recipe, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+recipeColumns+` FROM recipes ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recipeList []Recipe
	for rows.Next() {
		recipe, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		recipeList = append(recipeList, *recipe)
	}
	return recipeList, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecipe(row rowScanner) (*Recipe, error) {
	var recipe Recipe
	var imageURL sql.NullString
	var ingredientsJSON, stepsJSON, tagsJSON []byte

	err := row.Scan(&recipe.ID, &recipe.Title, &imageURL, &ingredientsJSON, &stepsJSON, &tagsJSON,
		&recipe.NikoRating, &recipe.AlbertRating, &recipe.CreatedAt, &recipe.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if imageURL.Valid {
		recipe.ImageURL = &imageURL.String
	}
	if err := decodeJSON(ingredientsJSON, &recipe.Ingredients); err != nil {
		return nil, fmt.Errorf("decode ingredients of recipe %s: %w", recipe.ID, err)
	}
	if err := decodeJSON(stepsJSON, &recipe.Steps); err != nil {
		return nil, fmt.Errorf("decode steps of recipe %s: %w", recipe.ID, err)
	}
	if err := decodeJSON(tagsJSON, &recipe.Tags); err != nil {
		return nil, fmt.Errorf("decode tags of recipe %s: %w", recipe.ID, err)
	}
	if recipe.Ingredients == nil {
		recipe.Ingredients = []RecipeIngredient{}
	}
	if recipe.Steps == nil {
		recipe.Steps = []string{}
	}
	if recipe.Tags == nil {
		recipe.Tags = []string{}
	}
	return &recipe, nil
}

func decodeJSON(raw []byte, dest any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dest)
}

// JSONB columns are sent as text; the driver casts them on the server.
func encodeCollections(recipe *Recipe) (string, string, string, error) {
	ingredientsJSON, err := marshalList(recipe.Ingredients)
	if err != nil {
		return "", "", "", err
	}
	stepsJSON, err := marshalList(recipe.Steps)
	if err != nil {
		return "", "", "", err
	}
	tagsJSON, err := marshalList(recipe.Tags)
	if err != nil {
		return "", "", "", err
	}
	return ingredientsJSON, stepsJSON, tagsJSON, nil
}

func marshalList[T any](values []T) (string, error) {
	if values == nil {
		values = []T{}
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func mapWriteError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrRecipeTitleTaken
	}
	return err
}
