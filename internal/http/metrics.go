package http

import (
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	globalHTTPMetrics *HTTPMetrics
	httpMetricsOnce   sync.Once
)

// HTTPMetrics holds all HTTP-related metrics.
type HTTPMetrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ActiveRequests  prometheus.Gauge
}

// NewHTTPMetrics returns the process-wide HTTP metrics.
func NewHTTPMetrics() *HTTPMetrics {
	httpMetricsOnce.Do(func() {
		globalHTTPMetrics = &HTTPMetrics{
			RequestsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "holidaze_http_requests_total",
					Help: "Total HTTP requests by method, route and status code",
				},
				[]string{"method", "endpoint", "status"},
			),
			RequestDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "holidaze_http_request_duration_seconds",
					Help:    "HTTP request duration in seconds",
					Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
				},
				[]string{"method", "endpoint"},
			),
			ActiveRequests: promauto.NewGauge(
				prometheus.GaugeOpts{
					Name: "holidaze_http_active_requests",
					Help: "Number of in-flight HTTP requests",
				},
			),
		}
	})
	return globalHTTPMetrics
}

// Middleware returns an echo middleware that records request metrics.
func (m *HTTPMetrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			m.ActiveRequests.Inc()
			defer m.ActiveRequests.Dec()

			err := next(c)

			status := c.Response().Status
			var he *echo.HTTPError
			if err != nil {
				status = http.StatusInternalServerError
				if errors.As(err, &he) {
					status = he.Code
				}
			}
			endpoint := normalizePath(c.Path())
			m.RequestsTotal.WithLabelValues(c.Request().Method, endpoint, strconv.Itoa(status)).Inc()
			m.RequestDuration.WithLabelValues(c.Request().Method, endpoint).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// normalizePath returns the route template, e.g. /api/v1/itineraries/:key,
// so itinerary keys do not become label values. Unmatched requests share
// one label.
func normalizePath(path string) string {
	if path == "" {
		return "unmatched"
	}
	return path
}
