package api

import (
	"github.com/gin-gonic/gin"

	"github.com/vitasana/review-risk/internal/telemetry"
)

// SetupRoutes configures all API routes.
func SetupRoutes(router *gin.Engine, handler *Handler) {
	router.GET("/health", handler.HealthCheck)
	router.GET("/metrics", gin.WrapH(telemetry.Handler()))

	v1 := router.Group("/api/v1")
	{
		analyze := v1.Group("/analyze")
		{
			analyze.POST("", handler.Analyze)            // POST /api/v1/analyze
			analyze.POST("/seo", handler.AnalyzeSEO)     // POST /api/v1/analyze/seo
			analyze.POST("/batch", handler.AnalyzeBatch) // POST /api/v1/analyze/batch
		}

		v1.POST("/classify/batch", handler.ClassifyBatch)      // POST /api/v1/classify/batch
		v1.POST("/reviews/:id/reviewed", handler.MarkReviewed) // POST /api/v1/reviews/:id/reviewed
		v1.GET("/report/export", handler.ExportReport)         // GET  /api/v1/report/export
	}
}
