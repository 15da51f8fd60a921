package store

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore хранилище скользящих окон метрик в Redis sorted sets
type RedisStore struct {
	client        *redis.Client
	windowSeconds int64
	ttl           time.Duration
}

// NewRedisStore создает хранилище и проверяет подключение
func NewRedisStore(addr, password string, db, windowSeconds, ttlMinutes int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		PoolSize:     100,
		MinIdleConns: 10,
		MaxRetries:   3,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{
		client:        client,
		windowSeconds: int64(windowSeconds),
		ttl:           time.Duration(ttlMinutes) * time.Minute,
	}, nil
}

// Key формат ключа окна для пары (устройство, метрика)
func Key(deviceID, metricType string) string {
	return fmt.Sprintf("metrics:%s:%s", deviceID, metricType)
}

// Append добавляет значение в окно, обновляет TTL ключа и вырезает
// элементы старше границы окна. Граница считается от того же now,
// что и score нового элемента, поэтому сам элемент не вырезается;
// элемент со score ровно на границе остается в окне.
func (s *RedisStore) Append(ctx context.Context, deviceID, metricType string, value float64, now time.Time) error {
	key := Key(deviceID, metricType)
	score := now.Unix()
	cutoff := score - s.windowSeconds

	pipe := s.client.Pipeline()
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(score), Member: value})
	pipe.Expire(ctx, key, s.ttl)
	pipe.ZRemRangeByScore(ctx, key, "-inf", fmt.Sprintf("(%d", cutoff))

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to append metric: %w", err)
	}
	return nil
}

// Average среднее по текущим элементам окна, 0 если ключа нет или он пуст
func (s *RedisStore) Average(ctx context.Context, deviceID, metricType string) (float64, error) {
	members, err := s.client.ZRange(ctx, Key(deviceID, metricType), 0, -1).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to read window: %w", err)
	}
	if len(members) == 0 {
		return 0, nil
	}

	sum := 0.0
	for _, m := range members {
		v, err := strconv.ParseFloat(m, 64)
		if err != nil {
			return 0, fmt.Errorf("failed to parse window member %q: %w", m, err)
		}
		sum += v
	}
	return sum / float64(len(members)), nil
}

// Ping проверяет доступность Redis
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close закрывает соединение с Redis
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// GetStats возвращает статистику пула соединений
func (s *RedisStore) GetStats() map[string]interface{} {
	stats := s.client.PoolStats()

	return map[string]interface{}{
		"hits":        stats.Hits,
		"misses":      stats.Misses,
		"timeouts":    stats.Timeouts,
		"total_conns": stats.TotalConns,
		"idle_conns":  stats.IdleConns,
		"stale_conns": stats.StaleConns,
	}
}
