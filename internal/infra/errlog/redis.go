package errlog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisConfig holds Redis sink configuration.
type RedisConfig struct {
	URL        string `yaml:"url"`
	Password   string `yaml:"password"`
	RetentionS int    `yaml:"retention_s"` // 0 = 24h
}

// RedisLog stores failure summaries in Redis: one TTL'd key per entry plus a
// time-scored sorted set for ordered retrieval.
type RedisLog struct {
	rdb       *redis.Client
	retention time.Duration
	now       func() time.Time
}

// NewRedisLog connects to Redis and verifies the connection.
func NewRedisLog(cfg RedisConfig) (*RedisLog, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	retention := time.Duration(cfg.RetentionS) * time.Second
	if retention == 0 {
		retention = 24 * time.Hour
	}

	return &RedisLog{rdb: rdb, retention: retention, now: time.Now}, nil
}

// Key helpers
func (l *RedisLog) queueKey() string {
	return "rpc_errors"
}

func (l *RedisLog) entryKey(id string) string {
	return fmt.Sprintf("rpc_error:%s", id)
}

// Append records one failure summary.
func (l *RedisLog) Append(ctx context.Context, message string) error {
	entry := Entry{
		ID:      uuid.NewString(),
		Message: message,
		At:      l.now().UTC(),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal error entry: %w", err)
	}

	if err := l.rdb.Set(ctx, l.entryKey(entry.ID), data, l.retention).Err(); err != nil {
		return fmt.Errorf("failed to set error entry: %w", err)
	}

	// Score by timestamp so ranges come back oldest-first.
	if err := l.rdb.ZAdd(ctx, l.queueKey(), redis.Z{
		Score:  float64(entry.At.UnixNano()),
		Member: entry.ID,
	}).Err(); err != nil {
		return fmt.Errorf("failed to add to error queue: %w", err)
	}

	return nil
}

// Recent returns up to n most recent entries, newest first. Entries whose
// backing key expired are pruned from the queue as they are encountered.
func (l *RedisLog) Recent(ctx context.Context, n int) ([]Entry, error) {
	ids, err := l.rdb.ZRevRange(ctx, l.queueKey(), 0, int64(n)-1).Result()
	if err != nil {
		return nil, fmt.Errorf("zrevrange failed: %w", err)
	}

	entries := make([]Entry, 0, len(ids))
	for _, id := range ids {
		data, err := l.rdb.Get(ctx, l.entryKey(id)).Bytes()
		if err == redis.Nil {
			l.rdb.ZRem(ctx, l.queueKey(), id)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get error entry: %w", err)
		}

		var entry Entry
		if err := json.Unmarshal(data, &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// Close closes the Redis connection.
func (l *RedisLog) Close() error {
	return l.rdb.Close()
}
