package routes

import (
	"fundadmin/internal/handlers"
	"fundadmin/internal/middleware"

	"github.com/gin-gonic/gin"
)

func SetupAuditRoutes(r *gin.Engine) {
	// Audit listing is read-heavy and queried by dashboards; keep a
	// modest per-IP ceiling on it.
	audit := r.Group("/audit-records")
	audit.Use(middleware.ActorMiddleware())
	audit.Use(middleware.RateLimiterMiddleware(middleware.RateLimiterConfig{
		RequestsPerSecond: 5,
		Burst:             10,
	}))
	audit.GET("", handlers.ListAuditRecords)

	// Live stream of committed audit records
	ws := r.Group("/ws")
	ws.Use(middleware.ActorMiddleware())
	ws.GET("/audit", handlers.StreamAuditRecords)
}
