package monitoring

import (
	"strconv"
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
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	QuestionsServed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_questions_served_total",
			Help: "Questions delivered to users through feeds and sessions",
		},
		[]string{"category"},
	)

	AnswersGraded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_answers_graded_total",
			Help: "Graded answer submissions by outcome",
		},
		[]string{"outcome"},
	)

	SessionsFinished = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "quiz_sessions_finished_total",
			Help: "Quiz sessions that reached a summary",
		},
	)

	FeedCacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_cache_requests_total",
			Help: "Feed cache lookups by result",
		},
		[]string{"result"},
	)

	ThrottleDenials = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "throttle_denials_total",
			Help: "Requests rejected by per-user action quotas",
		},
		[]string{"action"},
	)
)

func Init() {
	prometheus.MustRegister(RequestCounter)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(QuestionsServed)
	prometheus.MustRegister(AnswersGraded)
	prometheus.MustRegister(SessionsFinished)
	prometheus.MustRegister(FeedCacheHits)
	prometheus.MustRegister(ThrottleDenials)
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
