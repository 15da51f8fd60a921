package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/trnvdn/OmniStream/internal/store"
)

// Handler обработчик служебных HTTP запросов worker'а
type Handler struct {
	store *store.RedisStore
}

// NewHandler создает новый обработчик
func NewHandler(store *store.RedisStore) *Handler {
	return &Handler{store: store}
}

// HealthCheck обрабатывает GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	redisOK := h.store.Ping(r.Context()) == nil

	status := "healthy"
	httpStatus := http.StatusOK

	if !redisOK {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    status,
		"redis":     redisOK,
		"timestamp": time.Now(),
	})
}

// GetStats обрабатывает GET /stats
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"redis":     h.store.GetStats(),
		"timestamp": time.Now(),
	})
}
