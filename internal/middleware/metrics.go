package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/breaders/whatsapp-bot/pkg/metrics"
)

// Metrics reports request counts and latency to Prometheus.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		metrics.RecordHTTPRequest(r.URL.Path, r.Method, strconv.Itoa(recorder.status), time.Since(start))
	})
}
