package config

import (
	"log"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Requests slower than this are flagged in the log. The order stream
// is exempt: SSE connections stay open for the dashboard's lifetime.
const slowRequestThreshold = 200 * time.Millisecond

func PerformanceLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)

		log.Printf("[PERF] %s %s | Status: %d | Time: %v",
			c.Request.Method,
			c.Request.URL.Path,
			c.Writer.Status(),
			latency)

		if strings.HasSuffix(c.Request.URL.Path, "/orders/stream") {
			return
		}
		if latency > slowRequestThreshold {
			log.Printf("🐌 SLOW REQUEST: %s %s took %v",
				c.Request.Method, c.Request.URL.Path, latency)
		}
	}
}
