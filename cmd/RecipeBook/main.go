package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	analysis "github.com/sebuszqo/RecipeBook/internal/analysis"
	"github.com/sebuszqo/RecipeBook/internal/config"
	database "github.com/sebuszqo/RecipeBook/internal/db"
	ingredients "github.com/sebuszqo/RecipeBook/internal/ingredient"
	"github.com/sebuszqo/RecipeBook/internal/logger"
	recipes "github.com/sebuszqo/RecipeBook/internal/recipe"
	"github.com/sebuszqo/RecipeBook/internal/shopping"
)

func openSelectionStore(ctx context.Context, cfg *config.Config) (shopping.KeyValueStore, error) {
	switch cfg.SelectionStore {
	case config.SelectionStoreRedis:
		return shopping.NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	case config.SelectionStoreBolt:
		return shopping.NewBoltStore(cfg.SelectionBoltPath)
	default:
		return nil, fmt.Errorf("unknown selection store %q", cfg.SelectionStore)
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Missing configuration, update to start server: %v", err)
	}

	appLog, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("Could not initialize logger: %v", err)
	}
	defer appLog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbService, err := database.NewDBService(ctx, cfg.DBConnectionString, appLog)
	if err != nil {
		appLog.Fatal("Could not initialize database", "error", err)
	}
	defer dbService.Close()

	if err := dbService.EnsureSchema(ctx); err != nil {
		appLog.Fatal("Could not prepare database schema", "error", err)
	}

	selectionStore, err := openSelectionStore(ctx, cfg)
	if err != nil {
		appLog.Fatal("Could not open shopping selection store", "store", cfg.SelectionStore, "error", err)
	}
	defer selectionStore.Close()

	ingredientRepo := ingredients.NewIngredientRepository(dbService.DB)
	synchronizer := ingredients.NewSynchronizer(ingredientRepo, cfg.SyncMaxConcurrency, appLog)
	ingredientService := ingredients.NewIngredientService(ingredientRepo, appLog)
	ingredientHandler := ingredients.NewIngredientHandler(ingredientService, respondJSON, respondError)

	recipeRepo := recipes.NewRecipeRepository(dbService.DB)
	recipeService := recipes.NewRecipeService(recipeRepo, synchronizer, appLog)
	recipeHandler := recipes.NewRecipeHandler(recipeService, respondJSON, respondError, appLog)

	selection := shopping.LoadSelection(ctx, selectionStore, cfg.SelectionKey, appLog)
	defer selection.Flush()
	shoppingService := shopping.NewShoppingService(recipeService, selection, appLog)
	shoppingHandler := shopping.NewShoppingHandler(shoppingService, respondJSON, respondError, appLog)

	analysisHandler := analysis.NewAnalysisHandler(recipeService, respondJSON, respondError, appLog)

	server := NewServer(dbService, recipeHandler, ingredientHandler, shoppingHandler, analysisHandler)
	server.RegisterRoutes()

	appLog.Info("Starting initial ingredient catalog resync...")
	runCatalogResync(ctx, recipeService, appLog)

	scheduler, err := StartCatalogResyncScheduler(cfg.CatalogResyncSchedule, recipeService, appLog)
	if err != nil {
		appLog.Fatal("Scheduler didn't start, stopping the app ...", "error", err)
	}

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           loggingMiddleware(appLog, server.router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		appLog.Info("Server starting", "addr", cfg.HTTPAddr)
		serverErr <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			appLog.Error("Server failed", "error", err)
		}
	case <-ctx.Done():
		appLog.Info("Shutdown signal received")
	}

	<-scheduler.Stop().Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLog.Error("Server shutdown failed", "error", err)
	}
	appLog.Info("Server stopped")
}
