package main

import (
	"context"
	"os"

	"github.com/dmitrijs2005/farmportal/internal/logging"
	"github.com/dmitrijs2005/farmportal/internal/server"
	"github.com/dmitrijs2005/farmportal/internal/server/config"
)

func main() {
	ctx := context.Background()
	cfg := config.LoadConfig()

	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		logging.NewJSONLogger(os.Stderr, cfg.LogLevel).Error(ctx, "portal startup failed", "error", err)
		os.Exit(1)
	}

	app.Run(ctx)
}
