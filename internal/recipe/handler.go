package recipes

import (
	"encoding/json"
	"errors"
	"net/http"

	recipeErrors "github.com/sebuszqo/RecipeBook/internal/errors"
	"github.com/sebuszqo/RecipeBook/internal/logger"
)

const RecipeIDParam = "recipeID"

type Handler interface {
	GetRecipes(w http.ResponseWriter, r *http.Request)
	GetRecipe(w http.ResponseWriter, r *http.Request)
	CreateRecipe(w http.ResponseWriter, r *http.Request)
	UpdateRecipe(w http.ResponseWriter, r *http.Request)
	DeleteRecipe(w http.ResponseWriter, r *http.Request)
	ValidateRecipePathParamsMiddleware(next http.Handler, params ...string) http.Handler
}

type handler struct {
	recipeService Service
	respondJSON   func(w http.ResponseWriter, status int, payload interface{})
	respondError  func(w http.ResponseWriter, status int, message string, errors ...[]string)
	log           *logger.Logger
}

func NewRecipeHandler(
	recipeService Service,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string),
	log *logger.Logger,
) Handler {
	if recipeService == nil || respondJSON == nil || respondError == nil {
		panic("Service and response functions must not be nil")
	}
	return &handler{
		recipeService: recipeService,
		respondJSON:   respondJSON,
		respondError:  respondError,
		log:           log.With("handler", "RecipeHandler"),
	}
}

func (h *handler) GetRecipes(w http.ResponseWriter, r *http.Request) {
	recipeList, err := h.recipeService.ListRecipes(r.Context())
	if err != nil {
		h.respondServiceError(w, err, "Failed to fetch recipes")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "List of recipes retrieved successfully.",
		"data":    recipeList,
	})
}

func (h *handler) GetRecipe(w http.ResponseWriter, r *http.Request) {
	recipeID, ok := pathUUID(r, RecipeIDParam)
	if !ok {
		h.respondError(w, http.StatusNotFound, "Recipe not found")
		return
	}

	recipe, err := h.recipeService.GetRecipe(r.Context(), recipeID)
	if err != nil {
		h.respondServiceError(w, err, "Failed to fetch recipe")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Recipe retrieved successfully.",
		"data":    recipe,
	})
}

func (h *handler) CreateRecipe(w http.ResponseWriter, r *http.Request) {
	var payload CreatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	recipe, err := h.recipeService.CreateRecipe(r.Context(), payload)
	if err != nil {
		h.respondServiceError(w, err, "Failed to create recipe")
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"message": "Recipe successfully created.",
		"data":    recipe,
	})
}

func (h *handler) UpdateRecipe(w http.ResponseWriter, r *http.Request) {
	recipeID, ok := pathUUID(r, RecipeIDParam)
	if !ok {
		h.respondError(w, http.StatusNotFound, "Recipe not found")
		return
	}

	var payload UpdatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	recipe, err := h.recipeService.UpdateRecipe(r.Context(), recipeID, payload)
	if err != nil {
		h.respondServiceError(w, err, "Failed to update recipe")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Recipe updated successfully.",
		"data":    recipe,
	})
}

func (h *handler) DeleteRecipe(w http.ResponseWriter, r *http.Request) {
	recipeID, ok := pathUUID(r, RecipeIDParam)
	if !ok {
		h.respondError(w, http.StatusNotFound, "Recipe not found")
		return
	}

	deleted, err := h.recipeService.DeleteRecipe(r.Context(), recipeID)
	if err != nil {
		h.respondServiceError(w, err, "Failed to delete recipe")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Recipe deleted successfully",
		"data":    deleted,
	})
}

func (h *handler) respondServiceError(w http.ResponseWriter, err error, fallback string) {
	var validationErrors *recipeErrors.ValidationErrors
	switch {
	case errors.As(err, &validationErrors):
		h.respondError(w, http.StatusBadRequest, "Validation errors occurred", validationErrors.Messages())
	case recipeErrors.IsValidationError(err):
		h.respondError(w, http.StatusBadRequest, err.Error())
	case recipeErrors.IsConflictError(err):
		h.respondError(w, http.StatusConflict, "Recipe with this title already exists")
	case recipeErrors.IsNotFoundError(err):
		h.respondError(w, http.StatusNotFound, "Recipe not found")
	default:
		h.log.Error(fallback, "error", err)
		h.respondError(w, http.StatusInternalServerError, fallback)
	}
}
