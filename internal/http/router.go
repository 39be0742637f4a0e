package http

import (
	"net/http"

	"farkle_server/internal/http/handlers"
	"farkle_server/internal/http/middleware"
	"farkle_server/internal/service"
	"farkle_server/internal/ws"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes вешает все маршруты приложения на роутер
func RegisterRoutes(r *gin.Engine, hub *ws.Hub, history *service.HistoryService, version string) {
	h := handlers.NewHandler(hub, history)

	api := r.Group("/api")
	api.POST("/auth/guest", middleware.RateLimit(), h.GuestAuth)
	api.POST("/rooms", middleware.RateLimit(), h.CreateRoom)
	api.GET("/rooms", h.ListRooms)
	api.GET("/rooms/:id", h.GetRoom)
	api.GET("/history", h.GetHistory)

	wsHandler := ws.NewWSHandler(hub)
	r.GET("/ws", wsHandler.HandleWS())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": version})
	})
}
