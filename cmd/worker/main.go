package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/trnvdn/OmniStream/internal/broker"
	"github.com/trnvdn/OmniStream/internal/config"
	"github.com/trnvdn/OmniStream/internal/handlers"
	"github.com/trnvdn/OmniStream/internal/pipeline"
	"github.com/trnvdn/OmniStream/internal/store"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	log.Println("Starting OmniStream Analytics Worker...")

	// Конфигурация из environment variables
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Инициализация Redis
	redisStore, err := store.NewRedisStore(
		cfg.RedisAddr,
		cfg.RedisPassword,
		cfg.RedisDB,
		cfg.WindowSeconds,
		cfg.TTLMinutes,
	)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisStore.Close()
	log.Println("Connected to Redis")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Подключение к RabbitMQ, блокируется до успеха
	connector := broker.NewConnector(
		cfg.RabbitHost,
		cfg.RabbitUsername,
		cfg.RabbitPassword,
		cfg.QueueName,
		cfg.ExchangeName,
		cfg.ReconnectDelay,
	)
	if err := connector.Connect(ctx); err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer connector.Close()

	worker := pipeline.New(redisStore, connector, cfg.AnomalyThreshold)
	log.Printf("Pipeline started with window: %ds, TTL: %dmin, threshold: %.2f",
		cfg.WindowSeconds, cfg.TTLMinutes, cfg.AnomalyThreshold)

	// Служебные endpoints: health и Prometheus
	handler := handlers.NewHandler(redisStore)
	mux := http.NewServeMux()
	mux.HandleFunc("/health", handler.HealthCheck)
	mux.HandleFunc("/stats", handler.GetStats)
	mux.Handle("/prometheus", promhttp.Handler())

	metricsServer := &http.Server{
		Addr:         ":" + cfg.MetricsPort,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		log.Printf("Metrics server listening on port %s", cfg.MetricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Metrics server error: %v", err)
		}
	}()

	// Потребление сообщений
	done := make(chan error, 1)
	go func() {
		done <- connector.Consume(ctx, worker.Handle)
	}()
	log.Printf("Consuming from queue %q", cfg.QueueName)

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		log.Println("Shutting down worker...")
		cancel()
		// даем текущему сообщению завершиться
		<-done
	case err := <-done:
		if err != nil && err != context.Canceled {
			log.Fatalf("Consumer error: %v", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Metrics server forced to shutdown: %v", err)
	}

	log.Println("Worker stopped gracefully")
}
