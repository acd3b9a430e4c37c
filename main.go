package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/studentcatalog/catalog-web/internal/config"
	"github.com/studentcatalog/catalog-web/internal/server"
	"github.com/studentcatalog/catalog-web/pkg/logger"
)

func main() {
	// LOG_LEVEL: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))
	logger.Debugf("startup: LOG_LEVEL=%s", logger.LevelString())

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: graphql=%s mongo=%v redis=%v", cfg.GraphQL.URL, cfg.MongoDB.URI != "", cfg.Redis.Host != "")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Serve(ctx, cfg); err != nil {
		logger.Fatalf("server: %v", err)
	}
	logger.Infof("server stopped")
}
