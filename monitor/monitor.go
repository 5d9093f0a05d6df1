package monitor

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterMonitorRoutes exposes /metrics and /api/health on the router.
// ping may be nil when the store has no connection to check.
func RegisterMonitorRoutes(router *gin.Engine, gatherer prometheus.Gatherer, ping func(ctx context.Context) error) {
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	router.GET("/api/health", func(c *gin.Context) {
		status := gin.H{
			"status":  "ok",
			"message": "Innovation Portal API is running",
		}
		if ping != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":   "degraded",
					"database": "unreachable",
				})
				return
			}
			status["database"] = "ok"
		}
		c.JSON(http.StatusOK, status)
	})
}
