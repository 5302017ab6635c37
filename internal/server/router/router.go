package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/herdadvisor/internal/metrics"
	"github.com/mamadbah2/herdadvisor/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares.
func New(handler *handlers.AdvisoryHandler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	api := r.Group("/api/v1")
	{
		api.POST("/feeding/recommendations", handler.FeedingRecommendations)
		api.GET("/livestock/:id/feeding", handler.FeedingSummary)

		api.POST("/health/diagnose", handler.Diagnose)
		api.POST("/health/alerts", handler.CriticalAlerts)
		api.POST("/health/records", handler.RecordDiagnosis)
		api.GET("/animal-types/:id/prevention", handler.PreventionAdvice)
		api.GET("/animal-types/:id/symptoms", handler.SymptomSuggestions)

		api.POST("/market/analyze", handler.AnalyzeMarket)
		api.GET("/livestock/:id/profitability", handler.Profitability)
		api.GET("/farmers/:id/selling-recommendations", handler.SellingRecommendations)
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", metrics.Handler())

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
