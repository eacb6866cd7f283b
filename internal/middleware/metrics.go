package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

// RequestObserver receives one sample per finished request.
type RequestObserver interface {
	ObserveHTTPRequest(method, path string, status int, duration time.Duration)
}

const unmatchedRoute = "unmatched"

// probe routes are scraped constantly and would drown the latency histogram.
var skipMetrics = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

// Metrics records latency and status per route template. Requests that match
// no route share a single label so scanners cannot inflate series cardinality.
func Metrics(observer RequestObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if observer == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if _, skip := skipMetrics[path]; skip {
			return
		}
		if path == "" {
			path = unmatchedRoute
		}
		observer.ObserveHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
