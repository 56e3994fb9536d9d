package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/philipbrowne/messagely/internal/common"
	"github.com/philipbrowne/messagely/internal/server/auth"
	"github.com/philipbrowne/messagely/internal/server/models"
)

type sendMessageRequest struct {
	ToUsername string `json:"to_username"`
	Body       string `json:"body"`
}

type messageJSON struct {
	ID           int64           `json:"id"`
	FromUsername string          `json:"from_username,omitempty"`
	ToUsername   string          `json:"to_username,omitempty"`
	Body         string          `json:"body,omitempty"`
	SentAt       *time.Time      `json:"sent_at,omitempty"`
	ReadAt       *time.Time      `json:"read_at"`
	FromUser     *models.Profile `json:"from_user,omitempty"`
	ToUser       *models.Profile `json:"to_user,omitempty"`
}

func toMessageJSON(m *models.Message) messageJSON {
	out := messageJSON{
		ID:     m.ID,
		Body:   m.Body,
		ReadAt: m.ReadAt,
	}
	if !m.SentAt.IsZero() {
		sentAt := m.SentAt
		out.SentAt = &sentAt
	}
	if m.FromUser != nil {
		out.FromUser = m.FromUser
	} else {
		out.FromUsername = m.FromUsername
	}
	if m.ToUser != nil {
		out.ToUser = m.ToUser
	} else {
		out.ToUsername = m.ToUsername
	}
	return out
}

func messageID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, common.ErrNotFound
	}
	return id, nil
}

func (h *Handler) getMessage(w http.ResponseWriter, r *http.Request) {
	id, err := auth.RequireAuthenticated(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	msgID, err := messageID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	msg, err := h.messages.Get(r.Context(), msgID, id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]messageJSON{"message": toMessageJSON(msg)})
}

func (h *Handler) sendMessage(w http.ResponseWriter, r *http.Request) {
	id, err := auth.RequireAuthenticated(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req sendMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	msg, err := h.messages.Send(r.Context(), id, req.ToUsername, req.Body)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.logger.Info(r.Context(), "message sent", "from", msg.FromUsername, "to", msg.ToUsername, "id", msg.ID)
	respondJSON(w, http.StatusOK, map[string]messageJSON{"message": toMessageJSON(msg)})
}

func (h *Handler) markMessageRead(w http.ResponseWriter, r *http.Request) {
	id, err := auth.RequireAuthenticated(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	msgID, err := messageID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	msg, err := h.messages.MarkRead(r.Context(), msgID, id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]messageJSON{"message": {ID: msg.ID, ReadAt: msg.ReadAt}})
}
