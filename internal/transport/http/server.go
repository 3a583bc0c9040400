package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/chatrelay/chatrelay-server/internal/config"
	"github.com/chatrelay/chatrelay-server/internal/core"
	"github.com/chatrelay/chatrelay-server/internal/upload"
)

// NewServer builds the HTTP server: WebSocket endpoint, read-only REST
// views, and the upload collaborator.
func NewServer(hub *core.Hub, uploads *upload.Store, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(LoggerMiddleware(logger), gin.Recovery())

	router.GET("/", func(c *gin.Context) {
		c.JSON(stdhttp.StatusOK, gin.H{"name": "chatrelay-server", "status": "running"})
	})
	router.GET("/healthz", func(c *gin.Context) {
		c.String(stdhttp.StatusOK, "ok")
	})

	wsHandler := NewWSHandler(hub, cfg.MaxMessageBytes, cfg.WSRateLimitPerMin, logger)
	router.GET("/ws", gin.WrapH(wsHandler))

	api := NewAPIHandlers(hub, logger)
	router.GET("/api/rooms", api.ListRooms)
	router.GET("/api/users", api.ListUsers)
	router.GET("/api/messages", api.AllMessages)
	router.GET("/api/messages/:room", api.RoomMessages)

	if uploads != nil {
		up := NewUploadHandlers(uploads, cfg.MaxUploadBytes, logger)
		router.POST("/api/upload", up.Upload)
		router.Static("/uploads", uploads.Dir())
	}

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}
