package middleware

import (
	"strconv"
	"time"

	"innovation-portal-api/monitor"

	"github.com/gin-gonic/gin"
)

// HTTPMetrics records request counts and latency per matched route.
func HTTPMetrics(metrics *monitor.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metrics == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		metrics.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}
