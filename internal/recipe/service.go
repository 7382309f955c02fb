package recipes

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	recipeErrors "github.com/sebuszqo/RecipeBook/internal/errors"
	ingredients "github.com/sebuszqo/RecipeBook/internal/ingredient"
	"github.com/sebuszqo/RecipeBook/internal/logger"
)

type IngredientSyncer interface {
	Sync(ctx context.Context, refs []ingredients.Ref) error
}

type Service interface {
	CreateRecipe(ctx context.Context, payload CreatePayload) (*Recipe, error)
	GetRecipe(ctx context.Context, recipeID uuid.UUID) (*Recipe, error)
	UpdateRecipe(ctx context.Context, recipeID uuid.UUID, payload UpdatePayload) (*Recipe, error)
	DeleteRecipe(ctx context.Context, recipeID uuid.UUID) (*Recipe, error)
	ListRecipes(ctx context.Context) ([]Recipe, error)
	ResyncCatalog(ctx context.Context) error
}

type service struct {
	recipeRepo Repository
	syncer     IngredientSyncer
	now        func() time.Time
	log        *logger.Logger
}

func NewRecipeService(repo Repository, syncer IngredientSyncer, log *logger.Logger) Service {
	return &service{
		recipeRepo: repo,
		syncer:     syncer,
		now:        func() time.Time { return time.Now().UTC() },
		log:        log.With("service", "RecipeService"),
	}
}

// CreateRecipe validates the payload, rejects a taken title, syncs the
// catalog and only then stores the recipe. The title check is advisory;
// the unique constraint in the store settles concurrent creates.
func (s *service) CreateRecipe(ctx context.Context, payload CreatePayload) (*Recipe, error) {
	recipe := newRecipe(payload)
	recipe.normalize()
	if err := recipe.Validate(); err != nil {
		return nil, err
	}

	if err := s.ensureTitleAvailable(ctx, recipe.Title, uuid.Nil); err != nil {
		return nil, err
	}

	if err := s.syncer.Sync(ctx, refsOf(recipe.Ingredients)); err != nil {
		return nil, s.fault("sync ingredients", err)
	}

	now := s.now()
	recipe.ID = uuid.New()
	recipe.CreatedAt = now
	recipe.UpdatedAt = now
	if err := s.recipeRepo.Insert(ctx, &recipe); err != nil {
		return nil, s.fault("insert recipe", err)
	}

	s.log.Info("Recipe created", "id", recipe.ID, "title", recipe.Title, "ingredients", len(recipe.Ingredients))
	return &recipe, nil
}

func (s *service) GetRecipe(ctx context.Context, recipeID uuid.UUID) (*Recipe, error) {
	recipe, err := s.recipeRepo.FindByID(ctx, recipeID)
	if err != nil {
		return nil, s.fault("find recipe", err)
	}
	return recipe, nil
}

// UpdateRecipe syncs provided ingredients first, then merges the provided
// fields over the stored recipe and re-validates the result.
func (s *service) UpdateRecipe(ctx context.Context, recipeID uuid.UUID, payload UpdatePayload) (*Recipe, error) {
	if payload.Ingredients != nil {
		if err := s.syncer.Sync(ctx, refsOf(*payload.Ingredients)); err != nil {
			return nil, s.fault("sync ingredients", err)
		}
	}

	existing, err := s.recipeRepo.FindByID(ctx, recipeID)
	if err != nil {
		return nil, s.fault("find recipe", err)
	}

	updated := *existing
	updated.apply(payload)
	updated.normalize()
	if err := updated.Validate(); err != nil {
		return nil, err
	}

	if updated.Title != existing.Title {
		if err := s.ensureTitleAvailable(ctx, updated.Title, recipeID); err != nil {
			return nil, err
		}
	}

	updated.UpdatedAt = s.now()
	affected, err := s.recipeRepo.UpdateByID(ctx, &updated)
	if err != nil {
		return nil, s.fault("update recipe", err)
	}
	if affected == 0 {
		return nil, ErrRecipeNotFound
	}

	s.log.Info("Recipe updated", "id", updated.ID)
	return &updated, nil
}

// DeleteRecipe removes the recipe and returns it. Catalog entries stay.
func (s *service) DeleteRecipe(ctx context.Context, recipeID uuid.UUID) (*Recipe, error) {
	deleted, err := s.recipeRepo.DeleteByID(ctx, recipeID)
	if err != nil {
		return nil, s.fault("delete recipe", err)
	}
	s.log.Info("Recipe deleted", "id", deleted.ID, "title", deleted.Title)
	return deleted, nil
}

func (s *service) ListRecipes(ctx context.Context) ([]Recipe, error) {
	recipeList, err := s.recipeRepo.ListAllSortedByCreatedDesc(ctx)
	if err != nil {
		return nil, s.fault("list recipes", err)
	}
	if recipeList == nil {
		return []Recipe{}, nil
	}
	return recipeList, nil
}

// ResyncCatalog replays the ingredients of every stored recipe through the
// synchronizer. It repairs catalog gaps left behind by a sync that failed
// half way.
func (s *service) ResyncCatalog(ctx context.Context) error {
	recipeList, err := s.recipeRepo.ListAllSortedByCreatedDesc(ctx)
	if err != nil {
		return s.fault("list recipes", err)
	}

	var refs []ingredients.Ref
	for _, recipe := range recipeList {
		refs = append(refs, refsOf(recipe.Ingredients)...)
	}
	if err := s.syncer.Sync(ctx, refs); err != nil {
		return s.fault("resync catalog", err)
	}

	s.log.Info("Ingredient catalog resynced", "recipes", len(recipeList), "references", len(refs))
	return nil
}

func (s *service) ensureTitleAvailable(ctx context.Context, title string, self uuid.UUID) error {
	existing, err := s.recipeRepo.FindByTitle(ctx, title)
	if err != nil {
		if errors.Is(err, ErrRecipeNotFound) {
			return nil
		}
		return s.fault("find recipe by title", err)
	}
	if existing.ID != self {
		return ErrRecipeTitleTaken
	}
	return nil
}

// fault passes domain errors through and wraps everything else as a
// StorageFault.
func (s *service) fault(op string, err error) error {
	if recipeErrors.IsNotFoundError(err) || recipeErrors.IsConflictError(err) || recipeErrors.IsValidationError(err) {
		return err
	}
	s.log.Error("Storage operation failed", "op", op, "error", err)
	return recipeErrors.NewStorageFault(op, err)
}
