// Package server initializes and runs the messaging service: it opens the
// database, applies migrations, wires the auth core and use-case services
// into the HTTP API, and handles graceful shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/philipbrowne/messagely/internal/logging"
	"github.com/philipbrowne/messagely/internal/server/auth"
	"github.com/philipbrowne/messagely/internal/server/config"
	"github.com/philipbrowne/messagely/internal/server/httpapi"
	"github.com/philipbrowne/messagely/internal/server/repositories/repomanager"
	"github.com/philipbrowne/messagely/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	server *httpapi.Server
}

func NewApp(cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := repomanager.Open(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	repos := repomanager.NewPostgresRepositoryManager()
	if err := repos.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	tokens := auth.NewTokenManager([]byte(cfg.SecretKey), cfg.TokenValidityDuration)
	hasher := auth.NewPasswordHasher(cfg.BcryptCost)

	userService := services.NewUserService(db, repos, hasher, tokens)
	messageService := services.NewMessageService(db, repos)

	handler := httpapi.NewHandler(userService, messageService, logger)
	router := httpapi.NewRouter(handler, tokens)
	srv := httpapi.NewServer(cfg.Address, router, logger)

	return &App{config: cfg, logger: logger, server: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.server.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()
}
