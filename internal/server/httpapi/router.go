// Package httpapi exposes the service over HTTP: the auth endpoints, the
// user and message resources, and the health/metrics surface. It owns the
// mapping from error kinds to status codes; everything below it speaks
// sentinel errors.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/philipbrowne/messagely/internal/logging"
	"github.com/philipbrowne/messagely/internal/server/auth"
	"github.com/philipbrowne/messagely/internal/server/services"
)

// Handler bundles the use-case services behind the HTTP endpoints.
type Handler struct {
	users    *services.UserService
	messages *services.MessageService
	logger   logging.Logger
}

func NewHandler(users *services.UserService, messages *services.MessageService, logger logging.Logger) *Handler {
	return &Handler{users: users, messages: messages, logger: logger.With("module", "httpapi")}
}

// NewRouter builds the chi router. The auth middleware runs on every route
// and only attaches identity; each handler enforces its own guard.
func NewRouter(h *Handler, tokens *auth.TokenManager) http.Handler {
	r := chi.NewRouter()

	r.Use(requestLogger(h.logger))
	r.Use(metricsMiddleware)
	r.Use(auth.Middleware(tokens))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.login)
		r.Post("/register", h.register)
	})

	r.Route("/users", func(r chi.Router) {
		r.Get("/", h.listUsers)
		r.Get("/{username}", h.getUser)
		r.Get("/{username}/to", h.messagesTo)
		r.Get("/{username}/from", h.messagesFrom)
	})

	r.Route("/messages", func(r chi.Router) {
		r.Post("/", h.sendMessage)
		r.Get("/{id}", h.getMessage)
		r.Post("/{id}/read", h.markMessageRead)
	})

	return r
}
