package handler

import (
	"net/http"
	"strconv"

	"lesson-booking/internal/delivery/http/middleware"
	"lesson-booking/pkg/response"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// pathUUID parses a UUID route variable, writing a 400 when it is malformed.
func pathUUID(w http.ResponseWriter, r *http.Request, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid "+label, nil)
		return uuid.Nil, false
	}
	return id, true
}

// currentProvider returns the provider authenticated by AuthMiddleware.
func currentProvider(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	providerID, ok := middleware.GetProviderIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return uuid.Nil, false
	}
	return providerID, true
}

func queryInt(r *http.Request, key string, fallback int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
