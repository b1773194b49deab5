// Package exchangelog keeps an audit trail of mediation calls. Records carry
// outcome and timing metadata only, never conversation content.
package exchangelog

import (
	"context"
	"fmt"

	"marketingcoach/internal/config"
	"marketingcoach/internal/models"
	"marketingcoach/internal/redis"
	"marketingcoach/internal/storage"
)

// Recorder persists one exchange record.
type Recorder interface {
	Record(ctx context.Context, ex models.Exchange) error
}

// Store is a Recorder that can also list what it recorded.
type Store interface {
	Recorder
	Recent(ctx context.Context, limit int) ([]models.Exchange, error)
	Close() error
}

// Nop discards every record.
type Nop struct{}

func (Nop) Record(context.Context, models.Exchange) error { return nil }

func (Nop) Recent(context.Context, int) ([]models.Exchange, error) { return nil, nil }

func (Nop) Close() error { return nil }

// Open builds the store selected by cfg.ExchangeLog.Backend.
func Open(cfg *config.Config) (Store, error) {
	switch cfg.ExchangeLog.Backend {
	case "", "none":
		return Nop{}, nil
	case "sqlite", "sqlite3", "mysql":
		db, err := storage.Open(cfg.ExchangeLog.Backend, cfg)
		if err != nil {
			return nil, err
		}
		if err := storage.Migrate(db, cfg.ExchangeLog.Backend); err != nil {
			db.Close()
			return nil, err
		}
		return NewSQLRecorder(db), nil
	case "redis":
		client, err := redis.NewRedisClient(cfg)
		if err != nil {
			return nil, err
		}
		return NewRedisRecorder(client, cfg.ExchangeLog.RedisKey, cfg.ExchangeLog.MaxEntries), nil
	default:
		return nil, fmt.Errorf("unsupported exchange log backend %q", cfg.ExchangeLog.Backend)
	}
}
