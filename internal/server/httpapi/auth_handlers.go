package httpapi

import (
	"net/http"

	"github.com/philipbrowne/messagely/internal/server/services"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// login and register return the same response shape, so a caller cannot
// tell from the body whether the account already existed.

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	token, err := h.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.logger.Info(r.Context(), "user logged in", "username", req.Username)
	respondJSON(w, http.StatusOK, tokenResponse{Token: token})
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	token, err := h.users.Register(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.logger.Info(r.Context(), "user registered", "username", req.Username)
	respondJSON(w, http.StatusOK, tokenResponse{Token: token})
}
