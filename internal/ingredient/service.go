package ingredients

import (
	"context"

	recipeErrors "github.com/sebuszqo/RecipeBook/internal/errors"
	"github.com/sebuszqo/RecipeBook/internal/logger"
)

type Service interface {
	ListIngredients(ctx context.Context) ([]Ingredient, error)
}

type service struct {
	repo Repository
	log  *logger.Logger
}

func NewIngredientService(repo Repository, log *logger.Logger) Service {
	return &service{repo: repo, log: log.With("service", "IngredientService")}
}

func (s *service) ListIngredients(ctx context.Context) ([]Ingredient, error) {
	ingredientList, err := s.repo.ListAllSortedByName(ctx)
	if err != nil {
		s.log.Error("Failed to list ingredients", "error", err)
		return nil, recipeErrors.NewStorageFault("list ingredients", err)
	}
	if ingredientList == nil {
		return []Ingredient{}, nil
	}
	return ingredientList, nil
}
