package shopping

import (
	"context"

	"github.com/google/uuid"
	"github.com/sebuszqo/RecipeBook/internal/logger"
	recipes "github.com/sebuszqo/RecipeBook/internal/recipe"
)

type RecipeLister interface {
	ListRecipes(ctx context.Context) ([]recipes.Recipe, error)
}

// List is the shopping page: the selected recipes that still exist, newest
// first, and their merged ingredient lines.
type List struct {
	Recipes []recipes.Recipe `json:"recipes"`
	Entries []Entry          `json:"entries"`
	Count   int              `json:"count"`
}

type Service interface {
	ShoppingList(ctx context.Context) (*List, error)
	AddRecipe(recipeID uuid.UUID) int
	RemoveRecipe(recipeID uuid.UUID) int
	ClearSelection()
}

type service struct {
	recipeLister RecipeLister
	selection    *Selection
	log          *logger.Logger
}

func NewShoppingService(recipeLister RecipeLister, selection *Selection, log *logger.Logger) Service {
	return &service{
		recipeLister: recipeLister,
		selection:    selection,
		log:          log.With("service", "ShoppingService"),
	}
}

// ShoppingList ignores selected ids whose recipe no longer exists.
func (s *service) ShoppingList(ctx context.Context) (*List, error) {
	recipeList, err := s.recipeLister.ListRecipes(ctx)
	if err != nil {
		return nil, err
	}

	selected := []recipes.Recipe{}
	for _, recipe := range recipeList {
		if s.selection.Has(recipe.ID) {
			selected = append(selected, recipe)
		}
	}

	return &List{
		Recipes: selected,
		Entries: Aggregate(selected),
		Count:   s.selection.Count(),
	}, nil
}

func (s *service) AddRecipe(recipeID uuid.UUID) int {
	return s.selection.Add(recipeID)
}

func (s *service) RemoveRecipe(recipeID uuid.UUID) int {
	return s.selection.Remove(recipeID)
}

func (s *service) ClearSelection() {
	s.selection.Clear()
	s.log.Debug("Shopping selection cleared")
}
