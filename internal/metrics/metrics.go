// Package metrics exposes Prometheus counters and a histogram for the
// protocol-domain events the core's callers care about: frames sent and
// received, decode failures, and discovery round-trip latency. Purely
// observational — never read back by protocol logic, per SPEC_FULL's
// ambient-stack note. Grounded on the teacher's
// internal/observability/metrics.go (CounterVec/HistogramVec pair,
// sync.Once registration, package-level recorder functions), with the
// HTTP/seed-proxy label set replaced by this domain's frame/opcode
// labels.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	framesSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "slimproto",
			Subsystem: "session",
			Name:      "frames_sent_total",
			Help:      "Total CS frames sent to the server, by opcode.",
		},
		[]string{"opcode"},
	)
	framesReceived = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "slimproto",
			Subsystem: "session",
			Name:      "frames_received_total",
			Help:      "Total SC frames received from the server, by opcode.",
		},
		[]string{"opcode"},
	)
	decodeErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "slimproto",
			Subsystem: "codec",
			Name:      "decode_errors_total",
			Help:      "Total decode failures, by error kind.",
		},
		[]string{"kind"},
	)
	discoveryRoundTrip = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "slimproto",
			Subsystem: "discovery",
			Name:      "round_trip_seconds",
			Help:      "Time from the first broadcast to a matching discovery response.",
			Buckets:   prometheus.DefBuckets,
		},
	)
)

// Register registers every collector exactly once, safe to call from
// multiple recorder call sites.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(framesSent, framesReceived, decodeErrors, discoveryRoundTrip)
	})
}

// RecordFrameSent increments the sent-frame counter for opcode.
func RecordFrameSent(opcode string) {
	Register()
	framesSent.WithLabelValues(opcode).Inc()
}

// RecordFrameReceived increments the received-frame counter for opcode.
func RecordFrameReceived(opcode string) {
	Register()
	framesReceived.WithLabelValues(opcode).Inc()
}

// RecordDecodeError increments the decode-error counter for kind (the
// sentinel error's short name, e.g. "malformed", "truncated").
func RecordDecodeError(kind string) {
	Register()
	decodeErrors.WithLabelValues(kind).Inc()
}

// RecordDiscoveryRoundTrip observes the elapsed time between a
// discovery broadcast and the response that resolved it.
func RecordDiscoveryRoundTrip(d time.Duration) {
	Register()
	discoveryRoundTrip.Observe(d.Seconds())
}
