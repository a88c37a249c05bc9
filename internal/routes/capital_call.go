package routes

import (
	"fundadmin/internal/handlers"
	"fundadmin/internal/middleware"

	"github.com/gin-gonic/gin"
)

func SetupCapitalCallRoutes(r *gin.Engine) {
	calls := r.Group("/capital-calls")
	calls.Use(middleware.ActorMiddleware())
	{
		calls.POST("", handlers.CreateCapitalCall)
		calls.GET("", handlers.ListCapitalCalls)
		calls.GET("/:id", handlers.GetCapitalCall)
		calls.PUT("/:id/status", handlers.UpdateCapitalCallStatus)
		calls.DELETE("/:id", handlers.DeleteCapitalCall)
	}

	items := r.Group("/call-items")
	items.Use(middleware.ActorMiddleware())
	{
		items.POST("/:id/payment", handlers.RecordCallItemPayment)
		items.POST("/:id/default", handlers.MarkCallItemDefaulted)
	}
}
