package ingredients

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrIngredientNotFound = errors.New("ingredient not found")

// Ingredient is a catalog entry. Unit is only a hint and is never
// overwritten once the entry exists.
type Ingredient struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Unit      *string   `json:"unit,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Repository interface {
	FindByName(ctx context.Context, name string) (*Ingredient, error)
	// UpsertSetOnInsert creates the entry when no entry with name exists and
	// leaves an existing entry untouched. It reports whether a row was created.
	UpsertSetOnInsert(ctx context.Context, name string, unit *string) (bool, error)
	ListAllSortedByName(ctx context.Context) ([]Ingredient, error)
}

type ingredientRepository struct {
	db *sql.DB
}

func NewIngredientRepository(db *sql.DB) Repository {
	return &ingredientRepository{db: db}
}

func (r *ingredientRepository) FindByName(ctx context.Context, name string) (*Ingredient, error) {
	query := `SELECT id, name, unit, created_at, updated_at
              FROM ingredients WHERE name = $1`

	ingredient, err := scanIngredient(r.db.QueryRowContext(ctx, query, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrIngredientNotFound
		}
		return nil, err
	}
	return ingredient, nil
}

func (r *ingredientRepository) UpsertSetOnInsert(ctx context.Context, name string, unit *string) (bool, error) {
	query := `INSERT INTO ingredients (id, name, unit, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $4)
              ON CONFLICT (name) DO NOTHING`

	result, err := r.db.ExecContext(ctx, query, uuid.New(), name, unit, time.Now().UTC())
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *ingredientRepository) ListAllSortedByName(ctx context.Context) ([]Ingredient, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, unit, created_at, updated_at FROM ingredients ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ingredientList []Ingredient
	for rows.Next() {
		ingredient, err := scanIngredient(rows)
		if err != nil {
			return nil, err
		}
		ingredientList = append(ingredientList, *ingredient)
	}
	return ingredientList, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIngredient(row rowScanner) (*Ingredient, error) {
	var ingredient Ingredient
	var unit sql.NullString
	if err := row.Scan(&ingredient.ID, &ingredient.Name, &unit, &ingredient.CreatedAt, &ingredient.UpdatedAt); err != nil {
		return nil, err
	}
	if unit.Valid {
		ingredient.Unit = &unit.String
	}
	return &ingredient, nil
}
