package http

import "github.com/gin-gonic/gin"

// RegisterRoutes maps the per-user schedule and task routes under rg.
func RegisterRoutes(rg *gin.RouterGroup, h *handler) {
	users := rg.Group("/users/:user_id")
	{
		users.POST("/schedule", h.RunPass)
		users.POST("/tasks", h.CreateTask)
		users.GET("/tasks", h.ListTasks)
	}
}
