package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	ReservationTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resort_reservation_transitions_total",
			Help: "Reservation status changes, by target status",
		},
		[]string{"status"},
	)
	ReservationConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "resort_reservation_conflicts_total",
			Help: "Reservation requests rejected because the room was taken",
		},
	)
	ConsumptionItems = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resort_consumption_items_total",
			Help: "Consumption item changes, by category and resulting status",
		},
		[]string{"category", "status"},
	)
	CheckoutRevenue = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "resort_checkout_revenue_total",
			Help: "Sum of grand totals billed at checkout",
		},
	)
)

// NormalizePath keeps the first two segments ("/api/reservations/12" -> "api/reservations")
// so ids do not explode label cardinality.
func NormalizePath(p string) string {
	p = strings.Trim(p, "/")
	if p == "" {
		return "root"
	}
	parts := strings.SplitN(p, "/", 3)
	if len(parts) > 2 {
		parts = parts[:2]
	}
	return strings.Join(parts, "/")
}

func Middleware(c *gin.Context) {
	if c.Request.URL.Path == "/metrics" {
		c.Next()
		return
	}
	start := time.Now()
	c.Next()
	duration := time.Since(start).Seconds()
	path := NormalizePath(c.Request.URL.Path)
	status := strconv.Itoa(c.Writer.Status())
	RequestTotal.WithLabelValues(c.Request.Method, path, status).Inc()
	RequestDuration.WithLabelValues(c.Request.Method, path).Observe(duration)
}
