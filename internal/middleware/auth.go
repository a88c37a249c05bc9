package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ActorHeader carries the authenticated user ID, set by the gateway
// in front of this service.
const ActorHeader = "X-User-ID"

// ActorMiddleware resolves the acting user from the gateway header
// and stores it in the request context. Requests without a valid
// actor are rejected before reaching any handler.
func ActorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(ActorHeader)
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}
		c.Set("actor_id", uint(id))
		c.Next()
	}
}
