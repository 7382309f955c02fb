//go:build integration

package recipes

import (
	"context"
	"sync"
	"testing"
	"time"

	database "github.com/sebuszqo/RecipeBook/internal/db"
	recipeErrors "github.com/sebuszqo/RecipeBook/internal/errors"
	ingredients "github.com/sebuszqo/RecipeBook/internal/ingredient"
	"github.com/sebuszqo/RecipeBook/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startPostgres(t *testing.T) *database.DBService {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		postgres.WithDatabase("recipebook"),
		postgres.WithUsername("recipebook"),
		postgres.WithPassword("recipebook"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { container.Terminate(ctx) })

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	dbService, err := database.NewDBService(ctx, connStr, logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { dbService.Close() })

	require.NoError(t, dbService.EnsureSchema(ctx))
	return dbService
}

func TestIntegration_RecipeLifecycle(t *testing.T) {
	dbService := startPostgres(t)
	ctx := context.Background()

	ingredientRepo := ingredients.NewIngredientRepository(dbService.DB)
	syncer := ingredients.NewSynchronizer(ingredientRepo, 0, logger.NewNop())
	svc := NewRecipeService(NewRecipeRepository(dbService.DB), syncer, logger.NewNop())

	created, err := svc.CreateRecipe(ctx, CreatePayload{
		Title:       "Pasta",
		Ingredients: []RecipeIngredient{{Name: "flour", Amount: 200, Unit: "g"}, {Name: "egg", Amount: 2}},
		Steps:       []string{"knead", "boil"},
	})
	require.NoError(t, err)

	_, err = svc.CreateRecipe(ctx, CreatePayload{Title: "Pasta"})
	assert.True(t, recipeErrors.IsConflictError(err))

	catalog, err := ingredientRepo.ListAllSortedByName(ctx)
	require.NoError(t, err)
	require.Len(t, catalog, 2)
	assert.Equal(t, "egg", catalog[0].Name)
	assert.Nil(t, catalog[0].Unit)
	assert.Equal(t, "flour", catalog[1].Name)

	// the first unit recorded for a name wins
	lines := []RecipeIngredient{{Name: "flour", Amount: 1, Unit: "kg"}}
	updated, err := svc.UpdateRecipe(ctx, created.ID, UpdatePayload{Ingredients: &lines})
	require.NoError(t, err)
	assert.Equal(t, lines, updated.Ingredients)
	flour, err := ingredientRepo.FindByName(ctx, "flour")
	require.NoError(t, err)
	assert.Equal(t, "g", *flour.Unit)

	stored, err := svc.GetRecipe(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"knead", "boil"}, stored.Steps)
	assert.Equal(t, lines, stored.Ingredients)

	_, err = svc.DeleteRecipe(ctx, created.ID)
	require.NoError(t, err)
	_, err = svc.GetRecipe(ctx, created.ID)
	assert.True(t, recipeErrors.IsNotFoundError(err))

	catalog, err = ingredientRepo.ListAllSortedByName(ctx)
	require.NoError(t, err)
	assert.Len(t, catalog, 2)
}

func TestIntegration_ConcurrentCreateSameTitle(t *testing.T) {
	dbService := startPostgres(t)
	ctx := context.Background()

	syncer := ingredients.NewSynchronizer(ingredients.NewIngredientRepository(dbService.DB), 0, logger.NewNop())
	svc := NewRecipeService(NewRecipeRepository(dbService.DB), syncer, logger.NewNop())

	const workers = 10
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.CreateRecipe(ctx, CreatePayload{
				Title:       "Pasta",
				Ingredients: []RecipeIngredient{{Name: "salt", Amount: 1, Unit: "tsp"}},
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t, recipeErrors.IsConflictError(err), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, succeeded)

	recipeList, err := svc.ListRecipes(ctx)
	require.NoError(t, err)
	assert.Len(t, recipeList, 1)
}

func TestIntegration_ConcurrentSyncKeepsNamesUnique(t *testing.T) {
	dbService := startPostgres(t)
	ctx := context.Background()
	repo := ingredients.NewIngredientRepository(dbService.DB)
	syncer := ingredients.NewSynchronizer(repo, 0, logger.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, syncer.Sync(ctx, []ingredients.Ref{{Name: "basil"}, {Name: "garlic", Unit: "clove"}}))
		}()
	}
	wg.Wait()

	catalog, err := repo.ListAllSortedByName(ctx)
	require.NoError(t, err)
	assert.Len(t, catalog, 2)
}
