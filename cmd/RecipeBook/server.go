package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	analysis "github.com/sebuszqo/RecipeBook/internal/analysis"
	ingredients "github.com/sebuszqo/RecipeBook/internal/ingredient"
	"github.com/sebuszqo/RecipeBook/internal/logger"
	recipes "github.com/sebuszqo/RecipeBook/internal/recipe"
	"github.com/sebuszqo/RecipeBook/internal/shopping"
)

type Response struct {
	Message string `json:"message"`
}

type HealthChecker interface {
	Health(ctx context.Context) map[string]string
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func loggingMiddleware(log *logger.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		log.Info("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string, errors ...[]string) {
	payload := map[string]interface{}{
		"status":  "error",
		"message": message,
		"code":    status,
	}
	if len(errors) > 0 && len(errors[0]) > 0 {
		payload["errors"] = errors[0]
	}
	respondJSON(w, status, payload)
}

type Server struct {
	router            *http.ServeMux
	health            HealthChecker
	recipeHandler     recipes.Handler
	ingredientHandler ingredients.Handler
	shoppingHandler   shopping.Handler
	analysisHandler   analysis.Handler
}

func NewServer(
	health HealthChecker,
	recipeHandler recipes.Handler,
	ingredientHandler ingredients.Handler,
	shoppingHandler shopping.Handler,
	analysisHandler analysis.Handler,
) *Server {
	return &Server{
		router:            http.NewServeMux(),
		health:            health,
		recipeHandler:     recipeHandler,
		ingredientHandler: ingredientHandler,
		shoppingHandler:   shoppingHandler,
		analysisHandler:   analysisHandler,
	}
}

func notFoundHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	json.NewEncoder(w).Encode(Response{Message: "Path not found"})
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, Response{Message: "RecipeBook API is running"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	stats := s.health.Health(ctx)
	if stats["status"] != "up" {
		respondJSON(w, http.StatusServiceUnavailable, map[string]interface{}{"status": "not ready", "db": stats})
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"status": "ready", "db": stats})
}

func (s *Server) RegisterRoutes() {
	withRecipeID := func(next http.HandlerFunc) http.Handler {
		return s.recipeHandler.ValidateRecipePathParamsMiddleware(next, recipes.RecipeIDParam)
	}

	apiRoutes := http.NewServeMux()
	apiRoutes.Handle("GET /api/{$}", http.HandlerFunc(s.handleRoot))
	apiRoutes.Handle("GET /api/ready", http.HandlerFunc(s.handleReady))

	// RECIPES
	apiRoutes.Handle("GET /api/recipes", http.HandlerFunc(s.recipeHandler.GetRecipes))
	apiRoutes.Handle("POST /api/recipes", http.HandlerFunc(s.recipeHandler.CreateRecipe))
	apiRoutes.Handle("GET /api/recipes/{recipeID}", withRecipeID(s.recipeHandler.GetRecipe))
	apiRoutes.Handle("PUT /api/recipes/{recipeID}", withRecipeID(s.recipeHandler.UpdateRecipe))
	apiRoutes.Handle("DELETE /api/recipes/{recipeID}", withRecipeID(s.recipeHandler.DeleteRecipe))

	// INGREDIENT CATALOG
	apiRoutes.Handle("GET /api/ingredients", http.HandlerFunc(s.ingredientHandler.GetIngredients))

	// SHOPPING LIST
	apiRoutes.Handle("GET /api/shopping-list", http.HandlerFunc(s.shoppingHandler.GetShoppingList))
	apiRoutes.Handle("PUT /api/shopping-list/{recipeID}", http.HandlerFunc(s.shoppingHandler.AddRecipe))
	apiRoutes.Handle("DELETE /api/shopping-list/{recipeID}", http.HandlerFunc(s.shoppingHandler.RemoveRecipe))
	apiRoutes.Handle("DELETE /api/shopping-list", http.HandlerFunc(s.shoppingHandler.ClearSelection))

	// ANALYSIS
	apiRoutes.Handle("GET /api/analysis", http.HandlerFunc(s.analysisHandler.GetAnalysis))

	mainRouter := http.NewServeMux()
	mainRouter.Handle("/api/", apiRoutes)
	mainRouter.Handle("/", http.HandlerFunc(notFoundHandler))

	s.router = mainRouter
}
