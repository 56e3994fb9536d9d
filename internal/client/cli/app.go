package cli

import (
	"bufio"
	"context"
	"os"

	"github.com/philipbrowne/messagely/internal/client/api"
	"github.com/philipbrowne/messagely/internal/client/config"
)

type App struct {
	config   *config.Config
	api      *api.Client
	userName string
	reader   *bufio.Reader
}

func NewApp(c *config.Config) *App {
	return &App{
		config: c,
		api:    api.NewClient(c.ServerEndpointAddr),
		reader: bufio.NewReader(os.Stdin),
	}
}

func (a *App) Run(ctx context.Context) {
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.api.Token() != ""
}
