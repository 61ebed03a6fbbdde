package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain repository.Metrics using Prometheus.
type Recorder struct {
	commandsTotal    *prometheus.CounterVec
	providerRequests *prometheus.CounterVec
	providerLatency  *prometheus.HistogramVec
	gatewayLatency   prometheus.Gauge
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		commandsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "memewatch_commands_total",
				Help: "Total number of commands handled, by command and outcome",
			},
			[]string{"command", "status"},
		),
		providerRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "memewatch_provider_requests_total",
				Help: "Total number of upstream provider requests, by provider and outcome",
			},
			[]string{"provider", "status"},
		),
		providerLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "memewatch_provider_request_duration_seconds",
				Help:    "Duration of upstream provider requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"provider"},
		),
		gatewayLatency: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "memewatch_gateway_latency_seconds",
				Help: "Last measured Discord gateway heartbeat latency",
			},
		),
	}
}

// RecordCommand records a handled command and its outcome.
func (r *Recorder) RecordCommand(command, status string) {
	r.commandsTotal.WithLabelValues(command, status).Inc()
}

// RecordProviderRequest records an upstream request outcome.
func (r *Recorder) RecordProviderRequest(provider, status string) {
	r.providerRequests.WithLabelValues(provider, status).Inc()
}

// RecordProviderLatency records upstream request latency in seconds.
func (r *Recorder) RecordProviderLatency(provider string, seconds float64) {
	r.providerLatency.WithLabelValues(provider).Observe(seconds)
}

// RecordGatewayLatency records the gateway heartbeat latency.
func (r *Recorder) RecordGatewayLatency(seconds float64) {
	r.gatewayLatency.Set(seconds)
}
