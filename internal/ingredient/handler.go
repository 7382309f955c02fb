package ingredients

import (
	"net/http"
)

type Handler interface {
	GetIngredients(w http.ResponseWriter, r *http.Request)
}

type handler struct {
	ingredientService Service
	respondJSON       func(w http.ResponseWriter, status int, payload interface{})
	respondError      func(w http.ResponseWriter, status int, message string, errors ...[]string)
}

func NewIngredientHandler(ingredientService Service, respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string)) Handler {
	if ingredientService == nil || respondJSON == nil || respondError == nil {
		panic("Service and response functions must not be nil")
	}
	return &handler{
		ingredientService: ingredientService,
		respondJSON:       respondJSON,
		respondError:      respondError,
	}
}

func (h *handler) GetIngredients(w http.ResponseWriter, r *http.Request) {
	ingredientList, err := h.ingredientService.ListIngredients(r.Context())
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "Failed to fetch ingredients")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "List of ingredients retrieved successfully.",
		"data":    ingredientList,
	})
}
