package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes はAPIのルーティングを登録する
func RegisterRoutes(r *gin.Engine, workflow *WorkflowHandler, selection *SpotSelectionHandler, gatherer prometheus.Gatherer) {
	r.GET("/api/health", HealthCheck)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	plans := r.Group("/plans/:plan_id")
	{
		plans.POST("/chat", workflow.PostChat)
		plans.GET("/recommendations", selection.GetRecommendations)
		plans.PUT("/recommendations", selection.PutRecommendations)
		plans.PATCH("/spots/:spot_id/selection", selection.PatchSelection)
		plans.GET("/route", selection.GetRoute)
	}
}

// HealthCheck GET /api/health
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "TripPlanner-App",
	})
}
