package server

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/emberapp/ember/internal/app"
	"github.com/emberapp/ember/internal/config"
)

// StartHTTPServer boots the HTTP API on the configured address.
func StartHTTPServer(cfg *config.Config, appCtx *app.AppContext) error {
	if cfg.App.ENV != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := NewRouter(cfg, appCtx)
	addr := fmt.Sprintf("%s:%s", cfg.HTTP.Host, cfg.HTTP.Port)
	return router.Run(addr)
}
