package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Severity уровень серьезности события об аномалии
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// MetricEnvelope входящее сообщение с метрикой от IoT устройства
type MetricEnvelope struct {
	DeviceID   string    `json:"deviceId"`
	MetricType string    `json:"metricType"`
	Timestamp  time.Time `json:"timestamp"`
	Payload    any       `json:"payload"`
}

// AnomalyEvent исходящее событие об обнаруженной аномалии
type AnomalyEvent struct {
	EventID    string    `json:"eventId"`
	DeviceID   string    `json:"deviceId"`
	MetricType string    `json:"metricType"`
	Value      float64   `json:"value"`
	Message    string    `json:"message"`
	DetectedAt time.Time `json:"detectedAt"`
	Severity   Severity  `json:"severity"`
}

// NewAnomalyEvent создает событие для значения, превысившего порог
func NewAnomalyEvent(deviceID, metricType string, value, avg float64) AnomalyEvent {
	return AnomalyEvent{
		EventID:    uuid.NewString(),
		DeviceID:   deviceID,
		MetricType: metricType,
		Value:      value,
		Message:    fmt.Sprintf("Threshold exceeded! Value: %v, Avg: %.2f", value, avg),
		DetectedAt: time.Now().UTC(),
		Severity:   SeverityCritical,
	}
}
