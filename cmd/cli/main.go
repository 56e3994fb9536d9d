package main

import (
	"context"

	"github.com/philipbrowne/messagely/internal/client/cli"
	"github.com/philipbrowne/messagely/internal/client/config"
)

func main() {
	ctx := context.Background()
	cfg := config.LoadConfig()
	app := cli.NewApp(cfg)
	app.Run(ctx)
}
