package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"officials-rating-server/models"
	ws "officials-rating-server/websocket"
)

// RegisterFeedRoutes registers the live review feed WebSocket endpoint.
// Supervisors and admins watching the feed see new reviews as they arrive.
// Must be mounted behind WebSocketAuthMiddleware.
func RegisterFeedRoutes(router *gin.RouterGroup, hub *ws.Hub) {
	router.GET("/reviews", func(c *gin.Context) {
		value, exists := c.Get("user")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		user, ok := value.(models.User)
		if !ok || !user.CanModerate() {
			c.JSON(http.StatusForbidden, gin.H{
				"error":   "Insufficient permissions",
				"message": "The review feed is limited to supervisors and admins",
			})
			return
		}

		ws.ServeWebSocket(hub, c.Writer, c.Request, user.ID)
	})
}
