package routes

import (
	"fundadmin/internal/handlers"
	"fundadmin/internal/middleware"

	"github.com/gin-gonic/gin"
)

func SetupDistributionRoutes(r *gin.Engine) {
	distributions := r.Group("/distributions")
	distributions.Use(middleware.ActorMiddleware())
	{
		distributions.POST("", handlers.CreateDistribution)
		distributions.GET("", handlers.ListDistributions)
		distributions.GET("/:id", handlers.GetDistribution)
		distributions.PUT("/:id/status", handlers.UpdateDistributionStatus)
		distributions.DELETE("/:id", handlers.DeleteDistribution)
	}

	items := r.Group("/distribution-items")
	items.Use(middleware.ActorMiddleware())
	{
		items.POST("/:id/process", handlers.ProcessDistributionItem)
	}
}
