package router

import (
	"net/http"

	"github.com/callaa/drawpile-listing/internal/handler"
	"github.com/callaa/drawpile-listing/internal/middleware"
	"github.com/callaa/drawpile-listing/pkg/constants"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// New builds the HTTP router.
func New(
	sessions *handler.SessionHandler,
	watch *handler.WatchHandler,
	health *handler.HealthHandler,
	log *zap.Logger,
) http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log))

	r.GET(constants.PathRoot, sessions.Root)
	r.HEAD(constants.PathRoot, sessions.Root)
	r.GET(constants.PathHealth, health.Health)
	r.GET(constants.PathReady, health.Ready)

	// REST sessions
	s := r.Group(constants.PathSessions)
	{
		s.GET("", sessions.ListSessions)
		s.HEAD("", sessions.ListSessions)
		s.POST("", sessions.AnnounceSession)
		s.PUT("/:id", sessions.RefreshSession)
		s.DELETE("/:id", sessions.UnlistSession)
	}

	// WebSocket: listing change feed
	r.GET(constants.PathWatch, watch.ServeWS)

	return r
}
