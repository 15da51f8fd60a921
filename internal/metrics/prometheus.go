package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MessagesConsumed полученные из очереди сообщения
	MessagesConsumed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "messages_consumed_total",
			Help: "Total number of messages received from the queue",
		},
	)

	// MessagesAcked подтвержденные сообщения
	MessagesAcked = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "messages_acked_total",
			Help: "Total number of messages acknowledged",
		},
	)

	// MessagesRejected отклоненные сообщения по причинам
	MessagesRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_rejected_total",
			Help: "Total number of messages rejected without requeue",
		},
		[]string{"reason"},
	)

	// NonNumericPayloads пропущенные нечисловые payload
	NonNumericPayloads = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "non_numeric_payloads_total",
			Help: "Total number of messages skipped due to non-numeric payload",
		},
	)

	// AnomaliesDetected обнаруженные аномалии
	AnomaliesDetected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "anomalies_detected_total",
			Help: "Total number of anomalies detected",
		},
		[]string{"device_id", "metric_type"},
	)

	// EventsPublished опубликованные события об аномалиях
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "anomaly_events_published_total",
			Help: "Total number of anomaly events published to the exchange",
		},
		[]string{"status"},
	)

	// RedisOperations операции с Redis
	RedisOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redis_operations_total",
			Help: "Total number of Redis operations",
		},
		[]string{"operation", "status"},
	)

	// WindowAverage текущее среднее скользящего окна
	WindowAverage = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "window_average",
			Help: "Current sliding window average per device and metric",
		},
		[]string{"device_id", "metric_type"},
	)

	// ProcessingLatency задержка обработки одного сообщения
	ProcessingLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "message_processing_latency_seconds",
			Help:    "Message processing latency in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
	)

	// BrokerConnectAttempts попытки подключения к RabbitMQ
	BrokerConnectAttempts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "broker_connect_attempts_total",
			Help: "Total number of RabbitMQ connection attempts",
		},
	)

	// BrokerReconnects переподключения после обрыва соединения
	BrokerReconnects = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "broker_reconnects_total",
			Help: "Total number of reconnects after a lost broker connection",
		},
	)
)
