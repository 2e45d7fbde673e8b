package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pesantren",
		Name:      "http_requests_total",
		Help:      "HTTP requests by route and status.",
	}, []string{"method", "route", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "pesantren",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	enrollmentOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pesantren",
		Name:      "enrollment_operations_total",
		Help:      "Enrollment operations by op and result.",
	}, []string{"op", "result"})

	examAttemptEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pesantren",
		Name:      "exam_attempt_events_total",
		Help:      "Exam attempt lifecycle events (started, submitted, graded, expired, rejected).",
	}, []string{"event"})

	attendanceRecords = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "pesantren",
		Name:      "attendance_records_written_total",
		Help:      "Attendance rows inserted or updated by batch recording.",
	})

	attendanceCache = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pesantren",
		Name:      "attendance_summary_cache_total",
		Help:      "Monthly attendance summary cache lookups by result.",
	}, []string{"result"})
)

// ObserveEnrollment: result "ok" atau nama error domain.
func ObserveEnrollment(op, result string) {
	enrollmentOps.WithLabelValues(op, result).Inc()
}

func ObserveExamAttempt(event string) {
	examAttemptEvents.WithLabelValues(event).Inc()
}

func AddAttendanceRecords(n int) {
	if n > 0 {
		attendanceRecords.Add(float64(n))
	}
}

func ObserveAttendanceCache(hit bool) {
	if hit {
		attendanceCache.WithLabelValues("hit").Inc()
		return
	}
	attendanceCache.WithLabelValues("miss").Inc()
}

// HTTPMiddleware mencatat jumlah & latensi per route (pakai pola route, bukan path mentah).
func HTTPMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		route := c.Route().Path
		if route == "" {
			route = "unmatched"
		}
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		httpRequests.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		httpDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler: GET /metrics
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
