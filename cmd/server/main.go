package main

import (
	"context"

	"github.com/emberapp/ember/internal/app"
	"github.com/emberapp/ember/internal/cache"
	"github.com/emberapp/ember/internal/config"
	"github.com/emberapp/ember/internal/db"
	"github.com/emberapp/ember/internal/logger"
	"github.com/emberapp/ember/internal/server"
)

func main() {
	cfg := config.New()

	// Init logger (global singleton)
	logger.Init(cfg)
	log := logger.L()

	// Init DB
	database, err := db.NewDB(cfg)
	if err != nil {
		log.Error("failed to init db", "err", err)
		return
	}

	// Init Redis
	redisCache := cache.NewRedisCache(cfg)
	if err := redisCache.Ping(context.Background()); err != nil {
		log.Error("failed to connect to redis", "err", err)
		return
	}

	appCtx := app.New(database, redisCache, log)

	if cfg.App.ENV == "development" {
		if err := db.SeedTestData(database); err != nil {
			log.Error("failed to seed", "err", err)
		}
	}

	addr := cfg.HTTP.Host + ":" + cfg.HTTP.Port
	log.Info("starting HTTP server", "addr", addr)

	if err := server.StartHTTPServer(cfg, appCtx); err != nil {
		log.Error("failed to start HTTP server", "err", err)
	}
}
