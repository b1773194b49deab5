package exchangelog

import (
	"context"
	"net"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketingcoach/internal/config"
	"marketingcoach/internal/models"
	"marketingcoach/internal/redis"
)

func TestOpenDefaultsToNop(t *testing.T) {
	store, err := Open(&config.Config{})
	require.NoError(t, err)
	assert.IsType(t, Nop{}, store)
	assert.NoError(t, store.Record(context.Background(), models.Exchange{}))
}

func TestOpenRejectsUnknownBackend(t *testing.T) {
	_, err := Open(&config.Config{ExchangeLog: config.ExchangeLogConfig{Backend: "kafka"}})
	assert.ErrorContains(t, err, "unsupported exchange log backend")
}

func TestSQLRecorderRecordAndRecent(t *testing.T) {
	store := openSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, store.Record(ctx, models.Exchange{
		RequestID:    "req-1",
		Mode:         "offers",
		Provider:     "claude",
		Model:        config.DefaultModel,
		MessageCount: 2,
		Outcome:      models.OutcomeOK,
		LatencyMs:    120,
	}))
	require.NoError(t, store.Record(ctx, models.Exchange{
		RequestID:      "req-2",
		Mode:           "pain-points",
		Provider:       "claude",
		Model:          config.DefaultModel,
		MessageCount:   4,
		Outcome:        models.OutcomeUpstream,
		UpstreamStatus: 529,
		LatencyMs:      30,
		Detail:         "provider returned status 529",
	}))

	got, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "req-2", got[0].RequestID)
	assert.Equal(t, models.OutcomeUpstream, got[0].Outcome)
	assert.Equal(t, 529, got[0].UpstreamStatus)
	assert.False(t, got[0].CreatedAt.IsZero())
	assert.Equal(t, "req-1", got[1].RequestID)

	got, err = store.Recent(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestRedisRecorderCapsList(t *testing.T) {
	client := newTestRedisClient(t)
	rec := NewRedisRecorder(client, "coach:test:exchanges", 2)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, rec.Record(ctx, models.Exchange{
			RequestID: "req-" + strconv.Itoa(i),
			Mode:      "offers",
			Outcome:   models.OutcomeOK,
		}))
	}
	got, err := rec.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "req-2", got[0].RequestID)
	assert.Equal(t, "req-1", got[1].RequestID)
}

func openSQLiteStore(t *testing.T) Store {
	t.Helper()
	cfg := &config.Config{
		ExchangeLog: config.ExchangeLogConfig{Backend: "sqlite3"},
		Databases: map[string]config.DatabaseConfig{
			"sqlite3": {DSN: ":memory:"},
		},
	}
	store, err := Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func newTestRedisClient(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("set TEST_REDIS_ADDR to run redis-backed exchange log tests")
	}
	host, portStr, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	client, err := redis.NewRedisClient(&config.Config{Redis: config.RedisConfig{Host: host, Port: port}})
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, client.Del(ctx, "coach:test:exchanges"))
	t.Cleanup(func() { client.Close() })
	return client
}
