package recipes

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	recipeErrors "github.com/sebuszqo/RecipeBook/internal/errors"
	ingredients "github.com/sebuszqo/RecipeBook/internal/ingredient"
)

const (
	minRating = 0
	maxRating = 5
)

var (
	ErrRecipeNotFound   = recipeErrors.NewNotFoundError("recipe not found")
	ErrRecipeTitleTaken = recipeErrors.NewConflictError("recipe with this title already exists")
	ErrTitleRequired    = recipeErrors.NewValidationError("Title is required")
)

// RecipeIngredient is a line item of a recipe. Amount is given for two people.
type RecipeIngredient struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

type Recipe struct {
	ID           uuid.UUID          `json:"id"`
	Title        string             `json:"title"`
	ImageURL     *string            `json:"imageUrl,omitempty"`
	Ingredients  []RecipeIngredient `json:"ingredients"`
	Steps        []string           `json:"steps"`
	Tags         []string           `json:"tags"`
	NikoRating   float64            `json:"nikoRating"`
	AlbertRating float64            `json:"albertRating"`
	CreatedAt    time.Time          `json:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt"`
}

type CreatePayload struct {
	Title        string             `json:"title"`
	ImageURL     *string            `json:"imageUrl"`
	Ingredients  []RecipeIngredient `json:"ingredients"`
	Steps        []string           `json:"steps"`
	Tags         []string           `json:"tags"`
	NikoRating   *float64           `json:"nikoRating"`
	AlbertRating *float64           `json:"albertRating"`
}

// UpdatePayload overwrites only the fields that are set.
type UpdatePayload struct {
	Title        *string             `json:"title"`
	ImageURL     *string             `json:"imageUrl"`
	Ingredients  *[]RecipeIngredient `json:"ingredients"`
	Steps        *[]string           `json:"steps"`
	Tags         *[]string           `json:"tags"`
	NikoRating   *float64            `json:"nikoRating"`
	AlbertRating *float64            `json:"albertRating"`
}

func newRecipe(payload CreatePayload) Recipe {
	recipe := Recipe{
		Title:       payload.Title,
		ImageURL:    payload.ImageURL,
		Ingredients: payload.Ingredients,
		Steps:       payload.Steps,
		Tags:        payload.Tags,
	}
	if payload.NikoRating != nil {
		recipe.NikoRating = *payload.NikoRating
	}
	if payload.AlbertRating != nil {
		recipe.AlbertRating = *payload.AlbertRating
	}
	return recipe
}

func (r *Recipe) apply(payload UpdatePayload) {
	if payload.Title != nil {
		r.Title = *payload.Title
	}
	if payload.ImageURL != nil {
		r.ImageURL = payload.ImageURL
	}
	if payload.Ingredients != nil {
		r.Ingredients = *payload.Ingredients
	}
	if payload.Steps != nil {
		r.Steps = *payload.Steps
	}
	if payload.Tags != nil {
		r.Tags = *payload.Tags
	}
	if payload.NikoRating != nil {
		r.NikoRating = *payload.NikoRating
	}
	if payload.AlbertRating != nil {
		r.AlbertRating = *payload.AlbertRating
	}
}

// normalize trims text fields, drops blank steps and tags and replaces nil
// collections with empty ones. Ingredient lines are trimmed but kept, so
// Validate can report blank names.
func (r *Recipe) normalize() {
	r.Title = strings.TrimSpace(r.Title)
	if r.ImageURL != nil {
		imageURL := strings.TrimSpace(*r.ImageURL)
		if imageURL == "" {
			r.ImageURL = nil
		} else {
			r.ImageURL = &imageURL
		}
	}

	lines := make([]RecipeIngredient, 0, len(r.Ingredients))
	for _, line := range r.Ingredients {
		lines = append(lines, RecipeIngredient{
			Name:   strings.TrimSpace(line.Name),
			Amount: line.Amount,
			Unit:   strings.TrimSpace(line.Unit),
		})
	}
	r.Ingredients = lines
	r.Steps = compact(r.Steps)
	r.Tags = compact(r.Tags)
}

func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func (r *Recipe) Validate() error {
	validationErrors := &recipeErrors.ValidationErrors{}
	if strings.TrimSpace(r.Title) == "" {
		validationErrors.Add(ErrTitleRequired)
	}
	for i, line := range r.Ingredients {
		if strings.TrimSpace(line.Name) == "" {
			validationErrors.Add(recipeErrors.NewIndexedValidationError(i+1, "name is required"))
		}
		if math.IsNaN(line.Amount) || math.IsInf(line.Amount, 0) {
			validationErrors.Add(recipeErrors.NewIndexedValidationError(i+1, "amount must be a finite number"))
		}
	}
	if !validRating(r.NikoRating) {
		validationErrors.Add(recipeErrors.NewValidationError("nikoRating must be between 0 and 5"))
	}
	if !validRating(r.AlbertRating) {
		validationErrors.Add(recipeErrors.NewValidationError("albertRating must be between 0 and 5"))
	}
	return validationErrors.Err()
}

func validRating(rating float64) bool {
	return rating >= minRating && rating <= maxRating
}

func refsOf(lines []RecipeIngredient) []ingredients.Ref {
	refs := make([]ingredients.Ref, 0, len(lines))
	for _, line := range lines {
		refs = append(refs, ingredients.Ref{Name: line.Name, Unit: line.Unit})
	}
	return refs
}
