package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/emberapp/ember/internal/app"
	"github.com/emberapp/ember/internal/config"
)

// NewRouter wires all middleware and routes into a gin engine.
func NewRouter(cfg *config.Config, appCtx *app.AppContext) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:8080"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	h := newHandlers(cfg, appCtx)

	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public routes
	r.POST("/api/register", h.register)
	r.POST("/api/login", h.login)

	// Protected routes
	protected := r.Group("/api")
	protected.Use(JWTAuth(cfg))

	protected.GET("/profile", h.getProfile)
	protected.PUT("/profile", h.updateProfile)
	protected.GET("/users/:id", h.viewProfile)

	protected.GET("/discover", h.discover)
	protected.POST("/likes/:id", h.like)
	protected.DELETE("/likes/:id", h.unlike)
	protected.GET("/matches", h.listMatches)

	protected.GET("/chats/:id", h.openChat)
	protected.GET("/chats/:id/messages", h.listMessages)
	protected.POST("/chats/:id/messages", h.sendMessage)
	protected.POST("/chats/:id/read", h.markRead)
	protected.GET("/chats/:id/info", h.chatInfo)

	return r
}
