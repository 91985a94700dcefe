package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/okofalt/cellsync-server/internal/auth"
	"github.com/okofalt/cellsync-server/internal/config"
	"github.com/okofalt/cellsync-server/internal/core"
	"github.com/okofalt/cellsync-server/internal/store"
)

// NewServer builds the HTTP server: the game socket, health, metrics, and
// the optional admin API.
func NewServer(room *core.Room, authService *auth.Service, st store.Store, cfg config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		c.String(stdhttp.StatusOK, "ok")
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	ws := NewWSHandler(room, st, logger)
	router.GET("/ws", gin.WrapH(ws))

	if cfg.Admin.Enabled {
		admin := &AdminHandlers{room: room, auth: authService, store: st, log: logger}
		router.POST("/admin/login", admin.Login)

		authed := router.Group("/admin", AuthMiddleware(authService, logger))
		authed.GET("/players", admin.ListPlayers)
		authed.POST("/kick", admin.Kick)
		authed.GET("/bans", admin.ListBans)
		authed.POST("/bans", admin.Ban)
		authed.DELETE("/bans", admin.Unban)
	}

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}
