package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/99minutos/backend-boilerplate/internal/core/domain"
)

const (
	statsKey        = "users:stats"
	statsVersionKey = "users:stats:version"
	defaultStatsTTL = 30 * time.Second
)

// StatsCache keeps the latest user stats snapshot in Redis as JSON.
// Entries expire after the configured TTL. Every invalidation bumps a
// version counter, and a snapshot is only written if the version it was
// computed under is still current.
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStatsCache creates a StatsCache. A non-positive ttl falls back to
// defaultStatsTTL.
func NewStatsCache(client *redis.Client, ttl time.Duration) *StatsCache {
	if ttl <= 0 {
		ttl = defaultStatsTTL
	}
	return &StatsCache{client: client, ttl: ttl}
}

// Get returns the cached stats. A missing key is a miss, not an error.
func (c *StatsCache) Get(ctx context.Context) (*domain.UserStats, bool, error) {
	raw, err := c.client.Get(ctx, statsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("stats cache get: %w", err)
	}
	stats, err := decodeStats(raw)
	if err != nil {
		return nil, false, err
	}
	return stats, true, nil
}

// Version returns the current invalidation counter, 0 before the first
// invalidation.
func (c *StatsCache) Version(ctx context.Context) (int64, error) {
	v, err := readVersion(ctx, c.client)
	if err != nil {
		return 0, fmt.Errorf("stats cache version: %w", err)
	}
	return v, nil
}

// Set stores stats unless the cache was invalidated after version was read.
// A skipped write is not an error.
func (c *StatsCache) Set(ctx context.Context, stats *domain.UserStats, version int64) error {
	raw, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("stats cache encode: %w", err)
	}

	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := readVersion(ctx, tx)
		if err != nil {
			return err
		}
		if current != version {
			return errStaleStats
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, statsKey, raw, c.ttl)
			return nil
		})
		return err
	}, statsVersionKey)

	switch {
	case err == nil, errors.Is(err, errStaleStats), errors.Is(err, redis.TxFailedErr):
		return nil
	default:
		return fmt.Errorf("stats cache set: %w", err)
	}
}

// Invalidate drops the snapshot and bumps the version in one transaction.
func (c *StatsCache) Invalidate(ctx context.Context) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, statsVersionKey)
		pipe.Del(ctx, statsKey)
		return nil
	})
	if err != nil {
		return fmt.Errorf("stats cache invalidate: %w", err)
	}
	return nil
}

var errStaleStats = errors.New("stats snapshot is stale")

// stringGetter is satisfied by both *redis.Client and *redis.Tx.
type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func readVersion(ctx context.Context, c stringGetter) (int64, error) {
	v, err := c.Get(ctx, statsVersionKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

func decodeStats(raw []byte) (*domain.UserStats, error) {
	var stats domain.UserStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil, fmt.Errorf("stats cache decode: %w", err)
	}
	if stats.ByRole == nil {
		stats.ByRole = map[string]int64{}
	}
	return &stats, nil
}
