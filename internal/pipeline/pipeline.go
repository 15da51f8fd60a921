package pipeline

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/trnvdn/OmniStream/internal/broker"
	"github.com/trnvdn/OmniStream/internal/metrics"
	"github.com/trnvdn/OmniStream/internal/models"
)

// WindowStore доступ к скользящему окну метрик
type WindowStore interface {
	Append(ctx context.Context, deviceID, metricType string, value float64, now time.Time) error
	Average(ctx context.Context, deviceID, metricType string) (float64, error)
}

// Publisher публикует события об аномалиях в exchange
type Publisher interface {
	Publish(ctx context.Context, body []byte) error
}

// Pipeline обрабатывает сообщения по одному:
// decode -> extract -> append -> average -> detect -> ack/reject
type Pipeline struct {
	store     WindowStore
	publisher Publisher
	threshold float64
	now       func() time.Time
}

// New создает pipeline с порогом срабатывания аномалии
func New(store WindowStore, publisher Publisher, threshold float64) *Pipeline {
	return &Pipeline{
		store:     store,
		publisher: publisher,
		threshold: threshold,
		now:       time.Now,
	}
}

// Handle обрабатывает одно сообщение и возвращает решение ack/reject.
// Ошибки декодирования и хранилища ведут к reject без requeue;
// нечисловой payload — валидное, но неинтересное сообщение, ack.
func (p *Pipeline) Handle(ctx context.Context, body []byte) broker.Disposition {
	start := time.Now()
	metrics.MessagesConsumed.Inc()
	defer func() {
		metrics.ProcessingLatency.Observe(time.Since(start).Seconds())
	}()

	var envelope models.MetricEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		log.Printf("Failed to decode message: %v", err)
		metrics.MessagesRejected.WithLabelValues("decode_error").Inc()
		return broker.Reject
	}

	value, ok := models.ExtractValue(envelope.Payload)
	if !ok {
		log.Printf("Skipping non-numeric metric: %s", envelope.MetricType)
		metrics.NonNumericPayloads.Inc()
		metrics.MessagesAcked.Inc()
		return broker.Ack
	}

	// время поступления, не timestamp производителя
	now := p.now()
	if err := p.store.Append(ctx, envelope.DeviceID, envelope.MetricType, value, now); err != nil {
		log.Printf("Failed to store metric for device %s: %v", envelope.DeviceID, err)
		metrics.RedisOperations.WithLabelValues("append", "error").Inc()
		metrics.MessagesRejected.WithLabelValues("store_error").Inc()
		return broker.Reject
	}
	metrics.RedisOperations.WithLabelValues("append", "success").Inc()

	avg, err := p.store.Average(ctx, envelope.DeviceID, envelope.MetricType)
	if err != nil {
		log.Printf("Failed to read window average for device %s: %v", envelope.DeviceID, err)
		metrics.RedisOperations.WithLabelValues("average", "error").Inc()
		metrics.MessagesRejected.WithLabelValues("store_error").Inc()
		return broker.Reject
	}
	metrics.RedisOperations.WithLabelValues("average", "success").Inc()
	metrics.WindowAverage.WithLabelValues(envelope.DeviceID, envelope.MetricType).Set(avg)

	log.Printf("Device %s | %s: %v | Avg: %.2f", envelope.DeviceID, envelope.MetricType, value, avg)

	if value > p.threshold {
		p.publishAnomaly(ctx, envelope, value, avg)
	}

	metrics.MessagesAcked.Inc()
	return broker.Ack
}

// publishAnomaly публикует событие об аномалии; ошибка публикации
// логируется, но не влияет на судьбу сообщения
func (p *Pipeline) publishAnomaly(ctx context.Context, envelope models.MetricEnvelope, value, avg float64) {
	log.Printf("ANOMALY DETECTED: Device=%s, Metric=%s, Value=%v, Avg=%.2f",
		envelope.DeviceID, envelope.MetricType, value, avg)
	metrics.AnomaliesDetected.WithLabelValues(envelope.DeviceID, envelope.MetricType).Inc()

	event := models.NewAnomalyEvent(envelope.DeviceID, envelope.MetricType, value, avg)
	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal anomaly event: %v", err)
		metrics.EventsPublished.WithLabelValues("error").Inc()
		return
	}

	if err := p.publisher.Publish(ctx, body); err != nil {
		log.Printf("Failed to publish anomaly event: %v", err)
		metrics.EventsPublished.WithLabelValues("error").Inc()
		return
	}
	metrics.EventsPublished.WithLabelValues("success").Inc()
}
