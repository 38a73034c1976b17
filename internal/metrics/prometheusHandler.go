package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var HttpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "http_requests_total",
	Help: "Total number of requests labelled by path and status",
}, []string{"path", "status"})

var activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "active_sessions",
	Help: "Number of open chat sessions",
})

var turnDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "turn_duration_seconds",
	Help:    "Time spent answering one chat turn.",
	Buckets: []float64{.1, .5, 1, 2, 5, 10, 30, 60},
}, []string{"status"})

var dependencyLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "dependency_latency_seconds",
	Help:    "Latency of external service calls.",
	Buckets: []float64{.05, .1, .25, .5, 1, 2, 5, 10},
}, []string{"service"})

type HttpStatusRecorder struct {
	http.ResponseWriter
	Status int
}

func (r *HttpStatusRecorder) WriteHeader(code int) {
	r.Status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush keeps streaming handlers (the MCP endpoint) working behind the recorder.
func (r *HttpStatusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func SessionOpened() {
	activeSessions.Inc()
}

func SessionClosed() {
	activeSessions.Dec()
}

func CaptureExecutionMetrics(label string, timeElapsed time.Duration) {
	dependencyLatency.WithLabelValues(label).Observe(timeElapsed.Seconds())
}

func CaptureTurnMetrics(status string, timeElapsed time.Duration) {
	turnDuration.WithLabelValues(status).Observe(timeElapsed.Seconds())
}
