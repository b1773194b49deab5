package exchangelog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"marketingcoach/internal/models"
	"marketingcoach/internal/redis"
)

// RedisRecorder keeps the newest exchanges as JSON in a capped redis list.
type RedisRecorder struct {
	client     *redis.Client
	key        string
	maxEntries int64
}

func NewRedisRecorder(client *redis.Client, key string, maxEntries int64) *RedisRecorder {
	return &RedisRecorder{client: client, key: key, maxEntries: maxEntries}
}

func (r *RedisRecorder) Record(ctx context.Context, ex models.Exchange) error {
	if ex.CreatedAt.IsZero() {
		ex.CreatedAt = time.Now().UTC()
	}
	payload, err := json.Marshal(ex)
	if err != nil {
		return fmt.Errorf("encode exchange: %w", err)
	}
	if err := r.client.PushCapped(ctx, r.key, payload, r.maxEntries); err != nil {
		return fmt.Errorf("push exchange: %w", err)
	}
	return nil
}

// Recent returns up to limit exchanges, newest first.
func (r *RedisRecorder) Recent(ctx context.Context, limit int) ([]models.Exchange, error) {
	if limit <= 0 {
		limit = 50
	}
	raw, err := r.client.Range(ctx, r.key, 0, int64(limit)-1)
	if err != nil {
		return nil, fmt.Errorf("read exchanges: %w", err)
	}
	out := make([]models.Exchange, 0, len(raw))
	for _, item := range raw {
		var ex models.Exchange
		if err := json.Unmarshal([]byte(item), &ex); err != nil {
			return nil, fmt.Errorf("decode exchange: %w", err)
		}
		out = append(out, ex)
	}
	return out, nil
}

func (r *RedisRecorder) Close() error {
	return r.client.Close()
}
