package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/roomsense/occupancy-backend-go/internal/config"
	"github.com/roomsense/occupancy-backend-go/internal/handler"
	"github.com/roomsense/occupancy-backend-go/internal/middleware"
)

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, rooms *handler.RoomHandler, plan *handler.FloorplanHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	// CORS 中间件: the dashboard is a static page served from anywhere
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, apikey")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Occupancy Backend API is running",
		})
	})

	// API 路由组
	api := r.Group("/api/v1")
	api.Use(middleware.ReadKey(cfg.ReadKeySecret))
	{
		api.GET("/rooms", rooms.GetRooms)
		api.GET("/summary", rooms.GetSummary)
		api.GET("/floorplan", plan.GetFloorplan)

		// Refresh is the only route that touches the store on demand;
		// rate limiting here is the UX debounce, the orchestrator's
		// in-flight guard is the real invariant.
		api.POST("/refresh", middleware.RateLimit(cfg.RefreshPerMinute), rooms.TriggerRefresh)
	}

	return r
}
