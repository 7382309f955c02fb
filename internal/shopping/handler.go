package shopping

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/sebuszqo/RecipeBook/internal/logger"
)

const RecipeIDParam = "recipeID"

type Handler interface {
	GetShoppingList(w http.ResponseWriter, r *http.Request)
	AddRecipe(w http.ResponseWriter, r *http.Request)
	RemoveRecipe(w http.ResponseWriter, r *http.Request)
	ClearSelection(w http.ResponseWriter, r *http.Request)
}

type handler struct {
	shoppingService Service
	respondJSON     func(w http.ResponseWriter, status int, payload interface{})
	respondError    func(w http.ResponseWriter, status int, message string, errors ...[]string)
	log             *logger.Logger
}

func NewShoppingHandler(
	shoppingService Service,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string),
	log *logger.Logger,
) Handler {
	if shoppingService == nil || respondJSON == nil || respondError == nil {
		panic("Service and response functions must not be nil")
	}
	return &handler{
		shoppingService: shoppingService,
		respondJSON:     respondJSON,
		respondError:    respondError,
		log:             log.With("handler", "ShoppingHandler"),
	}
}

func (h *handler) GetShoppingList(w http.ResponseWriter, r *http.Request) {
	list, err := h.shoppingService.ShoppingList(r.Context())
	if err != nil {
		h.log.Error("Failed to build shopping list", "error", err)
		h.respondError(w, http.StatusInternalServerError, "Failed to fetch shopping list")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Shopping list retrieved successfully.",
		"data":    list,
	})
}

func (h *handler) AddRecipe(w http.ResponseWriter, r *http.Request) {
	recipeID, ok := h.recipeID(w, r)
	if !ok {
		return
	}

	count := h.shoppingService.AddRecipe(recipeID)
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Recipe added to shopping list.",
		"data":    map[string]interface{}{"recipeId": recipeID, "selected": true, "count": count},
	})
}

func (h *handler) RemoveRecipe(w http.ResponseWriter, r *http.Request) {
	recipeID, ok := h.recipeID(w, r)
	if !ok {
		return
	}

	count := h.shoppingService.RemoveRecipe(recipeID)
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Recipe removed from shopping list.",
		"data":    map[string]interface{}{"recipeId": recipeID, "selected": false, "count": count},
	})
}

func (h *handler) ClearSelection(w http.ResponseWriter, r *http.Request) {
	h.shoppingService.ClearSelection()
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Shopping list cleared.",
		"data":    map[string]interface{}{"count": 0},
	})
}

func (h *handler) recipeID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	recipeID, err := uuid.Parse(r.PathValue(RecipeIDParam))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid recipe ID")
		return uuid.Nil, false
	}
	return recipeID, true
}
