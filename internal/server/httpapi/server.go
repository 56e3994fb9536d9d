package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/philipbrowne/messagely/internal/logging"
)

const shutdownTimeout = 5 * time.Second

// Server runs the HTTP API until the context is cancelled, then shuts
// down gracefully.
type Server struct {
	address string
	handler http.Handler
	logger  logging.Logger
}

func NewServer(address string, handler http.Handler, logger logging.Logger) *Server {
	return &Server{
		address: address,
		handler: handler,
		logger:  logger.With("module", "http_server"),
	}
}

func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.address, Handler: s.handler}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
