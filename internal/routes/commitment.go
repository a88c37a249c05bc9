package routes

import (
	"fundadmin/internal/handlers"
	"fundadmin/internal/middleware"

	"github.com/gin-gonic/gin"
)

func SetupCommitmentRoutes(r *gin.Engine) {
	commitments := r.Group("/commitments")
	commitments.Use(middleware.ActorMiddleware())
	{
		commitments.POST("", handlers.CreateCommitment)
		commitments.GET("", handlers.ListCommitments)
		commitments.PUT("/:id/status", handlers.UpdateCommitmentStatus)
		commitments.DELETE("/:id", handlers.DeleteCommitment)
	}
}
