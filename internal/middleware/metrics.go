package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/taptosell-catalog/internal/metrics"
)

// Metrics records the count and duration of every request by route pattern.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.ObserveHTTP(c.Request.Method, path, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
