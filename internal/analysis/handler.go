package analysis

import (
	"context"
	"net/http"

	"github.com/sebuszqo/RecipeBook/internal/logger"
	recipes "github.com/sebuszqo/RecipeBook/internal/recipe"
)

type RecipeLister interface {
	ListRecipes(ctx context.Context) ([]recipes.Recipe, error)
}

type Handler interface {
	GetAnalysis(w http.ResponseWriter, r *http.Request)
}

type handler struct {
	recipeLister RecipeLister
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string)
	log          *logger.Logger
}

func NewAnalysisHandler(
	recipeLister RecipeLister,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string),
	log *logger.Logger,
) Handler {
	if recipeLister == nil || respondJSON == nil || respondError == nil {
		panic("Recipe lister and response functions must not be nil")
	}
	return &handler{
		recipeLister: recipeLister,
		respondJSON:  respondJSON,
		respondError: respondError,
		log:          log.With("handler", "AnalysisHandler"),
	}
}

func (h *handler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	recipeList, err := h.recipeLister.ListRecipes(r.Context())
	if err != nil {
		h.log.Error("Failed to list recipes for analysis", "error", err)
		h.respondError(w, http.StatusInternalServerError, "Failed to build analysis")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Analysis retrieved successfully.",
		"data":    Summarize(recipeList),
	})
}
