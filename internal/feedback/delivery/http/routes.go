package http

import "github.com/gin-gonic/gin"

// RegisterWebhookRoutes mounts POST <rg>/calendar/outcome.
func RegisterWebhookRoutes(rg *gin.RouterGroup, h *handler) {
	rg.POST("/calendar/outcome", h.HandleOutcome)
}

// RegisterRoutes mounts POST <rg>/users/:user_id/feedback/poll.
func RegisterRoutes(rg *gin.RouterGroup, h *handler) {
	rg.POST("/users/:user_id/feedback/poll", h.Poll)
}
