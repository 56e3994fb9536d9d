package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/philipbrowne/messagely/internal/server/auth"
	"github.com/philipbrowne/messagely/internal/server/models"
)

type userDetail struct {
	Username    string    `json:"username"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Phone       string    `json:"phone"`
	JoinAt      time.Time `json:"join_at"`
	LastLoginAt time.Time `json:"last_login_at"`
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	if _, err := auth.RequireAuthenticated(r.Context()); err != nil {
		h.writeError(w, r, err)
		return
	}

	profiles, err := h.users.All(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string][]models.Profile{"users": profiles})
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	id, err := auth.RequireAuthenticated(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := auth.RequireSelf(id, username); err != nil {
		h.writeError(w, r, err)
		return
	}

	user, err := h.users.Get(r.Context(), username)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]userDetail{"user": {
		Username:    user.Username,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Phone:       user.Phone,
		JoinAt:      user.JoinAt,
		LastLoginAt: user.LastLoginAt,
	}})
}

func (h *Handler) messagesTo(w http.ResponseWriter, r *http.Request) {
	h.listUserMessages(w, r, h.messages.To)
}

func (h *Handler) messagesFrom(w http.ResponseWriter, r *http.Request) {
	h.listUserMessages(w, r, h.messages.From)
}

func (h *Handler) listUserMessages(w http.ResponseWriter, r *http.Request,
	list func(context.Context, string) ([]*models.Message, error)) {

	username := chi.URLParam(r, "username")

	id, err := auth.RequireAuthenticated(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := auth.RequireSelf(id, username); err != nil {
		h.writeError(w, r, err)
		return
	}

	msgs, err := list(r.Context(), username)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	out := make([]messageJSON, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, toMessageJSON(m))
	}
	respondJSON(w, http.StatusOK, map[string][]messageJSON{"messages": out})
}
