package routes

import (
	"fundadmin/internal/handlers"
	"fundadmin/internal/middleware"

	"github.com/gin-gonic/gin"
)

func SetupFundRoutes(r *gin.Engine) {
	funds := r.Group("/funds")
	funds.Use(middleware.ActorMiddleware())
	{
		funds.POST("", handlers.CreateFund)
		funds.GET("", handlers.ListFunds)
		funds.GET("/:id", handlers.GetFund)
		funds.POST("/:id/members", handlers.AddFundMember)
	}
}
