package middleware

import (
	"strconv"
	"time"

	"feedbackapp/internal/observability"

	"github.com/gin-gonic/gin"
)

// Metrics records a request counter and latency histogram for every
// request, including aborted and unmatched ones. The route template from
// FullPath keeps the label cardinality bounded.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		observability.ObserveHTTPRequest(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(c.Writer.Status()),
			time.Since(start),
		)
	}
}
