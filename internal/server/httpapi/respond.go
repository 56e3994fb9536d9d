package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/philipbrowne/messagely/internal/common"
)

type errorBody struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError translates sentinel error kinds into status codes. Unexpected
// errors are logged server-side and surfaced as a generic 500 so internal
// detail never reaches the caller.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrMissingFields),
		errors.Is(err, common.ErrInvalidCredentials),
		errors.Is(err, common.ErrDuplicateUsername),
		errors.Is(err, common.ErrUnknownUsername):
		respondJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	case errors.Is(err, common.ErrUnauthenticated):
		respondJSON(w, http.StatusUnauthorized, errorBody{Error: err.Error()})
	case errors.Is(err, common.ErrForbidden):
		respondJSON(w, http.StatusForbidden, errorBody{Error: err.Error()})
	case errors.Is(err, common.ErrNotFound):
		respondJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
	default:
		h.logger.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		respondJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
	}
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return common.ErrMissingFields
	}
	return nil
}
