package middleware

import (
	"net/http"
	"time"

	"github.com/contentdee/contentdee/internal/metrics"
)

// Metrics records response status and latency for every request.
func Metrics(collector *metrics.Collector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rw := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(rw, r)

			collector.RecordHTTPStatus(rw.statusCode)
			collector.RecordHTTPLatency(time.Since(start))
		})
	}
}
