package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	InboundMessagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_inbound_messages_total",
			Help: "Total number of inbound text messages routed into the pipeline (count)",
		},
		[]string{"source"},
	)

	RelayOutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_outcomes_total",
			Help: "Total number of pipeline runs by outcome (count)",
		},
		[]string{"outcome"},
	)

	PipelineDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "relay_pipeline_duration_ms",
			Help:    "Pipeline duration from inbound text to last reply in milliseconds",
			Buckets: []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000},
		},
		[]string{"outcome"},
	)

	LookupDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "relay_lookup_duration_ms",
			Help:    "GSTIN status lookup duration in milliseconds",
			Buckets: []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		},
		[]string{"result"},
	)

	LookupCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_lookup_cache_total",
			Help: "Lookup cache reads by result (count)",
		},
		[]string{"result"},
	)

	OutboundMessagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_outbound_messages_total",
			Help: "Total number of outbound messages by status (count)",
		},
		[]string{"status"},
	)

	AlertsSentTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "relay_alerts_total",
			Help: "Total number of urgency alerts emitted (count)",
		},
	)

	WebhookVerificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_webhook_verifications_total",
			Help: "Webhook verification handshakes by result (count)",
		},
		[]string{"result"},
	)

	WebhookEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_webhook_events_total",
			Help: "Webhook POST events by result (count)",
		},
		[]string{"result"},
	)

	PollTicksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_poll_ticks_total",
			Help: "Poll ticks by result (count)",
		},
		[]string{"result"},
	)

	NotificationDeletesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_notification_deletes_total",
			Help: "Notification queue delete calls by status (count)",
		},
		[]string{"status"},
	)

	DedupSetSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "relay_dedup_set_size",
			Help: "Number of message ids held in the processed-message set (count)",
		},
	)

	DedupDuplicatesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "relay_dedup_duplicates_total",
			Help: "Total number of notifications skipped as already processed (count)",
		},
	)

	CircuitBreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open) (state code)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker (count)",
		},
		[]string{"name", "state"},
	)

	CircuitBreakerFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_failures_total",
			Help: "Total number of failures through circuit breaker (count)",
		},
		[]string{"name"},
	)

	RateLimitRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limit_requests_total",
			Help: "Total number of requests checked against rate limit (count)",
		},
		[]string{"status"},
	)

	KafkaMessagesWrittenTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_written_total",
			Help: "Total number of messages written to Kafka (count)",
		},
		[]string{"topic", "status"},
	)

	KafkaWriteDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kafka_write_duration_ms",
			Help:    "Duration of Kafka write operations in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
		[]string{"topic"},
	)
)

var registerOnce sync.Once

// Register adds every collector to the default registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			InboundMessagesTotal,
			RelayOutcomesTotal,
			PipelineDuration,
			LookupDuration,
			LookupCacheTotal,
			OutboundMessagesTotal,
			AlertsSentTotal,
			WebhookVerificationsTotal,
			WebhookEventsTotal,
			PollTicksTotal,
			NotificationDeletesTotal,
			DedupSetSize,
			DedupDuplicatesTotal,
			CircuitBreakerState,
			CircuitBreakerRequests,
			CircuitBreakerFailures,
			RateLimitRequestsTotal,
			KafkaMessagesWrittenTotal,
			KafkaWriteDuration,
		)
	})
}

func ObservePipelineDuration(duration time.Duration, outcome string) {
	PipelineDuration.WithLabelValues(outcome).Observe(float64(duration.Milliseconds()))
}

func ObserveLookupDuration(duration time.Duration, result string) {
	LookupDuration.WithLabelValues(result).Observe(float64(duration.Milliseconds()))
}

func ObserveKafkaWriteDuration(topic string, duration time.Duration) {
	KafkaWriteDuration.WithLabelValues(topic).Observe(float64(duration.Milliseconds()))
}

func SetDedupSetSize(size int) {
	DedupSetSize.Set(float64(size))
}
