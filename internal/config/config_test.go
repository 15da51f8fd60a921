package config

import (
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		RabbitHost:       "localhost",
		RabbitUsername:   "guest",
		RabbitPassword:   "guest",
		QueueName:        "metrics",
		ExchangeName:     "anomalies",
		RedisAddr:        "localhost:6379",
		WindowSeconds:    300,
		TTLMinutes:       10,
		AnomalyThreshold: 80.0,
		ReconnectDelay:   3 * time.Second,
		MetricsPort:      "8081",
	}
}

func TestValidateAcceptsValidConfig(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestValidateRejectsInvalidConfig(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing queue", func(c *Config) { c.QueueName = "" }},
		{"missing exchange", func(c *Config) { c.ExchangeName = "" }},
		{"missing redis addr", func(c *Config) { c.RedisAddr = "" }},
		{"zero window", func(c *Config) { c.WindowSeconds = 0 }},
		{"zero ttl", func(c *Config) { c.TTLMinutes = 0 }},
		{"ttl equal to window", func(c *Config) { c.WindowSeconds = 600; c.TTLMinutes = 10 }},
		{"ttl below window", func(c *Config) { c.WindowSeconds = 900; c.TTLMinutes = 10 }},
		{"zero threshold", func(c *Config) { c.AnomalyThreshold = 0 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Errorf("Validate() = nil, want error")
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"RABBITMQ_HOST", "RABBITMQ_USERNAME", "RABBITMQ_PASSWORD", "RABBITMQ_QUEUE",
		"RABBITMQ_EXCHANGE", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
		"WINDOW_SECONDS", "TTL_MINUTES", "ANOMALY_THRESHOLD", "RECONNECT_DELAY_SECONDS", "METRICS_PORT",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.RabbitHost != "localhost" {
		t.Errorf("RabbitHost = %q, want localhost", cfg.RabbitHost)
	}
	if cfg.WindowSeconds != 300 || cfg.TTLMinutes != 10 {
		t.Errorf("window/ttl = %d/%d, want 300/10", cfg.WindowSeconds, cfg.TTLMinutes)
	}
	if cfg.AnomalyThreshold != 80.0 {
		t.Errorf("AnomalyThreshold = %v, want 80.0", cfg.AnomalyThreshold)
	}
	if cfg.ReconnectDelay != 3*time.Second {
		t.Errorf("ReconnectDelay = %v, want 3s", cfg.ReconnectDelay)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("RABBITMQ_HOST", "rabbit.internal")
	t.Setenv("RABBITMQ_QUEUE", "metrics-queue")
	t.Setenv("RABBITMQ_EXCHANGE", "anomaly-exchange")
	t.Setenv("WINDOW_SECONDS", "120")
	t.Setenv("TTL_MINUTES", "5")
	t.Setenv("ANOMALY_THRESHOLD", "95.5")
	t.Setenv("RECONNECT_DELAY_SECONDS", "7")

	cfg := Load()
	if cfg.RabbitHost != "rabbit.internal" {
		t.Errorf("RabbitHost = %q, want rabbit.internal", cfg.RabbitHost)
	}
	if cfg.QueueName != "metrics-queue" || cfg.ExchangeName != "anomaly-exchange" {
		t.Errorf("queue/exchange = %q/%q", cfg.QueueName, cfg.ExchangeName)
	}
	if cfg.WindowSeconds != 120 || cfg.TTLMinutes != 5 {
		t.Errorf("window/ttl = %d/%d, want 120/5", cfg.WindowSeconds, cfg.TTLMinutes)
	}
	if cfg.AnomalyThreshold != 95.5 {
		t.Errorf("AnomalyThreshold = %v, want 95.5", cfg.AnomalyThreshold)
	}
	if cfg.ReconnectDelay != 7*time.Second {
		t.Errorf("ReconnectDelay = %v, want 7s", cfg.ReconnectDelay)
	}
}
