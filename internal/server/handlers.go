package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emberapp/ember/internal/app"
	"github.com/emberapp/ember/internal/config"
	svcErr "github.com/emberapp/ember/internal/errors"
	"github.com/emberapp/ember/internal/service/account"
	"github.com/emberapp/ember/internal/service/chat"
	"github.com/emberapp/ember/internal/service/match"
)

// handlers bundles the services behind the HTTP surface.
type handlers struct {
	cfg      *config.Config
	appCtx   *app.AppContext
	accounts *account.Service
	matching *match.Service
	chats    *chat.Service
}

func newHandlers(cfg *config.Config, appCtx *app.AppContext) *handlers {
	return &handlers{
		cfg:      cfg,
		appCtx:   appCtx,
		accounts: account.NewService(appCtx),
		matching: match.NewService(appCtx),
		chats:    chat.NewService(appCtx),
	}
}

// writeError renders a typed service failure as a JSON error body.
// Persistence details never reach the client.
func writeError(c *gin.Context, err error) {
	msg := "internal error"
	var appErr *svcErr.Error
	if errors.As(err, &appErr) && appErr.Kind != svcErr.KindPersistence {
		msg = appErr.Message
	}
	c.JSON(svcErr.HTTPStatus(err), gin.H{"error": msg})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
