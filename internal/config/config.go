package config

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// Config конфигурация worker'а
type Config struct {
	RabbitHost     string
	RabbitUsername string
	RabbitPassword string
	QueueName      string
	ExchangeName   string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	WindowSeconds    int
	TTLMinutes       int
	AnomalyThreshold float64
	ReconnectDelay   time.Duration
	MetricsPort      string
}

// Load загружает конфигурацию из environment
func Load() Config {
	return Config{
		RabbitHost:       getEnv("RABBITMQ_HOST", "localhost"),
		RabbitUsername:   getEnv("RABBITMQ_USERNAME", "guest"),
		RabbitPassword:   getEnv("RABBITMQ_PASSWORD", "guest"),
		QueueName:        getEnv("RABBITMQ_QUEUE", ""),
		ExchangeName:     getEnv("RABBITMQ_EXCHANGE", ""),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		RedisDB:          getEnvAsInt("REDIS_DB", 0),
		WindowSeconds:    getEnvAsInt("WINDOW_SECONDS", 300),
		TTLMinutes:       getEnvAsInt("TTL_MINUTES", 10),
		AnomalyThreshold: getEnvAsFloat("ANOMALY_THRESHOLD", 80.0),
		ReconnectDelay:   time.Duration(getEnvAsInt("RECONNECT_DELAY_SECONDS", 3)) * time.Second,
		MetricsPort:      getEnv("METRICS_PORT", "8081"),
	}
}

// Validate проверяет обязательные поля и инварианты окна
func (c Config) Validate() error {
	if c.RabbitHost == "" {
		return errors.New("RABBITMQ_HOST is required")
	}
	if c.QueueName == "" {
		return errors.New("RABBITMQ_QUEUE is required")
	}
	if c.ExchangeName == "" {
		return errors.New("RABBITMQ_EXCHANGE is required")
	}
	if c.RedisAddr == "" {
		return errors.New("REDIS_ADDR is required")
	}
	if c.WindowSeconds <= 0 {
		return fmt.Errorf("WINDOW_SECONDS must be positive, got %d", c.WindowSeconds)
	}
	if c.TTLMinutes <= 0 {
		return fmt.Errorf("TTL_MINUTES must be positive, got %d", c.TTLMinutes)
	}
	// ключ не должен истекать раньше, чем состарится его собственное окно
	if c.TTLMinutes*60 <= c.WindowSeconds {
		return fmt.Errorf("TTL_MINUTES (%d) must exceed WINDOW_SECONDS (%d)", c.TTLMinutes, c.WindowSeconds)
	}
	if c.AnomalyThreshold <= 0 {
		return fmt.Errorf("ANOMALY_THRESHOLD must be positive, got %f", c.AnomalyThreshold)
	}
	return nil
}

// getEnv получает environment variable или возвращает default
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvAsInt получает environment variable как int
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var value int
	if _, err := fmt.Sscanf(valueStr, "%d", &value); err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsFloat получает environment variable как float64
func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var value float64
	if _, err := fmt.Sscanf(valueStr, "%f", &value); err != nil {
		return defaultValue
	}
	return value
}
