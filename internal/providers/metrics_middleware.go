package providers

import (
	"net/http"
	"time"
)

// statusWriter records the status code written by the wrapped handler.
// Handlers that never call WriteHeader count as 200.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// MetricsMiddleware counts every API request and times it. Quota denials
// and submission counters are recorded by the controllers themselves,
// this layer only sees paths and status codes.
func MetricsMiddleware(metrics MetricsProviderInterface, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		defer func() {
			metrics.IncRequestsTotal(r.URL.Path, sw.status)
			metrics.ObserveRequestDuration(r.URL.Path, time.Since(start))
		}()

		next.ServeHTTP(sw, r)
	})
}
