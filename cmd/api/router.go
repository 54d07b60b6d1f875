package api

import (
	"net/http"

	assistantDelivery "tasko-backend/internal/assistant/delivery"
	notificationDelivery "tasko-backend/internal/notification/delivery"
	scheduleDelivery "tasko-backend/internal/schedule/delivery"
	taskDelivery "tasko-backend/internal/task/delivery"

	"github.com/gin-gonic/gin"
)

// Routes groups every handler mounted under /api.
type Routes struct {
	Tasks         *taskDelivery.TaskHandler
	Schedules     *scheduleDelivery.ScheduleHandler
	Notifications *notificationDelivery.NotificationHandler
	Assistant     *assistantDelivery.AssistantHandler
	Settings      *SettingsHandler
}

func SetupRoutes(r *gin.Engine, routes Routes) {
	api := r.Group("/api")

	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if routes.Tasks != nil {
		routes.Tasks.RegisterRoutes(api)
	}
	if routes.Schedules != nil {
		routes.Schedules.RegisterRoutes(api)
	}
	if routes.Notifications != nil {
		routes.Notifications.RegisterRoutes(api)
	}
	if routes.Assistant != nil {
		routes.Assistant.RegisterRoutes(api)
	}
	if routes.Settings != nil {
		routes.Settings.RegisterRoutes(api)
	}
}

// corsMiddleware lets the configured frontend origin call the API. "*"
// allows any origin.
func corsMiddleware(allowedOrigin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" && (allowedOrigin == "*" || origin == allowedOrigin) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Vary", "Origin")
		}
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
