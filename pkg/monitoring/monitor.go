package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	// SettlementCounter 积分结算次数，result 为 awarded / skipped / below_threshold
	SettlementCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "doe_settlements_total",
			Help: "Content settlements by kind and result",
		},
		[]string{"kind", "result"},
	)

	PointsAwarded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "doe_points_awarded_total",
			Help: "Points awarded to users by content kind",
		},
		[]string{"kind"},
	)
)

var once sync.Once

// Init 可重复调用，只注册一次
func Init() {
	once.Do(func() {
		prometheus.MustRegister(RequestCounter)
		prometheus.MustRegister(RequestDuration)
		prometheus.MustRegister(SettlementCounter)
		prometheus.MustRegister(PointsAwarded)
	})
}

// ObserveSettlement 记录一次结算结果
func ObserveSettlement(kind, result string, points int) {
	SettlementCounter.WithLabelValues(kind, result).Inc()
	if result == "awarded" && points > 0 {
		PointsAwarded.WithLabelValues(kind).Add(float64(points))
	}
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
