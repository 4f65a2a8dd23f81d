package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all API routes.
func SetupRoutes(router *gin.Engine, handler *Handler, metrics http.Handler) {
	// Health and readiness checks
	router.GET("/health", handler.HealthCheck)
	router.GET("/ready", handler.ReadyCheck)

	if metrics != nil {
		router.GET("/metrics", gin.WrapH(metrics))
	}

	api := router.Group("/api")
	{
		// Message ingest and history
		messages := api.Group("/messages")
		{
			messages.GET("", handler.ListMessages) // GET /api/messages
			messages.POST("", handler.AddMessage)  // POST /api/messages
		}

		// Analytics endpoints
		analytics := api.Group("/analytics")
		{
			analytics.GET("/sentiment-stats", handler.GetSentimentStats) // GET /api/analytics/sentiment-stats
			analytics.POST("/root-cause", handler.AnalyzeRootCause)      // POST /api/analytics/root-cause
		}

		// Alerting endpoints
		alerts := api.Group("/alerts")
		{
			alerts.GET("", handler.ListAlerts)                     // GET /api/alerts
			alerts.GET("/config", handler.ListRuleConfigs)         // GET /api/alerts/config
			alerts.POST("/config", handler.SaveRuleConfig)         // POST /api/alerts/config
			alerts.DELETE("/config/:id", handler.DeleteRuleConfig) // DELETE /api/alerts/config/:id
		}
	}
}
