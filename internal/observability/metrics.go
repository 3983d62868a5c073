package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/danmuck/camelwire/internal/protocol/ros"
)

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "camelwire",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"service", "method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "camelwire",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path", "status"},
	)
	components = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "camelwire",
			Subsystem: "decode",
			Name:      "components_total",
			Help:      "Decoded ROS components by operation and outcome.",
		},
		[]string{"protocol", "kind", "operation", "status"},
	)
	payloadBytes = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "camelwire",
			Subsystem: "decode",
			Name:      "payload_bytes",
			Help:      "Size of component payloads in bytes.",
			Buckets:   prometheus.ExponentialBuckets(8, 2, 10),
		},
		[]string{"protocol", "kind"},
	)
	messages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "camelwire",
			Subsystem: "decode",
			Name:      "messages_total",
			Help:      "Decoded TCAP messages by type and success.",
		},
		[]string{"type", "success"},
	)
	messageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "camelwire",
			Subsystem: "decode",
			Name:      "message_duration_seconds",
			Help:      "Time spent decoding one message.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 8),
		},
		[]string{"type"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, components, payloadBytes, messages, messageDuration)
	})
}

func RecordHTTPRequest(service, method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(service, method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(service, method, path, statusLabel).Observe(duration.Seconds())
}

// RecordMessage counts one decoded message. typ is the TCAP message type
// or "component" for bare components.
func RecordMessage(typ string, success bool, duration time.Duration) {
	RegisterMetrics()
	messages.WithLabelValues(typ, strconv.FormatBool(success)).Inc()
	messageDuration.WithLabelValues(typ).Observe(duration.Seconds())
}

// MetricsObserver counts operation events.
type MetricsObserver struct{}

func (MetricsObserver) Observe(ev ros.OperationEvent) {
	RegisterMetrics()
	kind := ev.Kind.String()
	components.WithLabelValues(ev.Protocol, kind, operationLabel(ev), ev.Status.String()).Inc()
	if ev.PayloadBytes > 0 {
		payloadBytes.WithLabelValues(ev.Protocol, kind).Observe(float64(ev.PayloadBytes))
	}
}

// operationLabel keeps label cardinality bounded: unnamed codes collapse
// to "unknown".
func operationLabel(ev ros.OperationEvent) string {
	switch {
	case ev.ErrorName != "":
		return ev.ErrorName
	case ev.OperationName != "":
		return ev.OperationName
	case ev.Operation == nil && ev.Error == nil:
		return "none"
	default:
		return "unknown"
	}
}
