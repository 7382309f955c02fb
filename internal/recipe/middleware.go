package recipes

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type pathParamKey string

// ValidateRecipePathParamsMiddleware parses the named path parameters as
// UUIDs and stores them in the request context. A malformed id cannot name
// an existing recipe, so it is answered with 404.
func (h *handler) ValidateRecipePathParamsMiddleware(next http.Handler, params ...string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, param := range params {
			paramValue := r.PathValue(param)
			parsedUUID, err := uuid.Parse(paramValue)
			if err != nil {
				h.log.Debug("Invalid path parameter", "param", param, "value", paramValue)
				h.respondError(w, http.StatusNotFound, "Recipe not found")
				return
			}
			r = r.WithContext(context.WithValue(r.Context(), pathParamKey(param), parsedUUID))
		}
		next.ServeHTTP(w, r)
	})
}

func pathUUID(r *http.Request, param string) (uuid.UUID, bool) {
	id, ok := r.Context().Value(pathParamKey(param)).(uuid.UUID)
	return id, ok
}
