package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mtosity/wirefires-tracker/internal/http/handlers"
	"github.com/mtosity/wirefires-tracker/internal/platform/logger"
	"github.com/mtosity/wirefires-tracker/internal/platform/middleware"
)

func NewRouter(log *logger.Logger, level logger.Level, sessions *handlers.Sessions, system *handlers.System) *gin.Engine {
	if level == logger.LevelDebug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Order matters
	r.Use(middleware.RequestID())
	r.Use(middleware.GinStructuredLogger(log, level))
	r.Use(middleware.Error(log))
	r.Use(middleware.Recovery(log))

	setupRoutes(r, sessions, system)
	return r
}

func setupRoutes(r *gin.Engine, sessions *handlers.Sessions, system *handlers.System) {
	r.GET("/health", system.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	{
		v1.POST("/sessions", sessions.Create)
		v1.DELETE("/sessions/:id", sessions.Remove)

		v1.GET("/sessions/:id/view", sessions.View)
		v1.GET("/sessions/:id/commands", sessions.DrainCommands)

		v1.POST("/sessions/:id/events/viewport", sessions.ViewportChanged)
		v1.POST("/sessions/:id/events/map-ready", sessions.MapReady)
		v1.POST("/sessions/:id/events/device", sessions.DeviceChanged)
		v1.POST("/sessions/:id/events/position", sessions.PositionResolved)

		v1.POST("/sessions/:id/select", sessions.Select)
		v1.POST("/sessions/:id/popup/close", sessions.ClosePopup)
		v1.POST("/sessions/:id/sheet/close", sessions.CloseSheet)

		v1.POST("/sessions/:id/alerts/:alertID/dismiss", sessions.DismissAlert)
		v1.POST("/sessions/:id/alerts/:alertID/open", sessions.OpenAlert)

		v1.POST("/sessions/:id/actions/locate", sessions.Locate)
		v1.POST("/sessions/:id/actions/zoom-in", sessions.ZoomIn)
		v1.POST("/sessions/:id/actions/zoom-out", sessions.ZoomOut)
		v1.POST("/sessions/:id/actions/directions", sessions.Directions)
		v1.POST("/sessions/:id/actions/share", sessions.Share)
		v1.POST("/sessions/:id/actions/share-failed", sessions.ShareFailed)
		v1.POST("/sessions/:id/actions/subscribe", sessions.Subscribe)
	}
}
