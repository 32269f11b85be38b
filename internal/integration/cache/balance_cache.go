// Package cache provides Redis-backed caching for computed group balances.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/cashsplit/backend/config"
	"github.com/cashsplit/backend/internal/application/adapter"
	"github.com/cashsplit/backend/internal/domain/entity"
)

const defaultKeyPrefix = "ledger:balances:"

// RedisBalanceCache implements adapter.BalanceCache using Redis. Entries are
// keyed by group and version, so a mutation never needs to invalidate
// anything: the next read simply asks for the new version.
type RedisBalanceCache struct {
	client    *redis.Client
	ttl       time.Duration
	keyPrefix string
}

// NewRedisBalanceCache connects to Redis and verifies the connection.
func NewRedisBalanceCache(cfg config.RedisConfig) (*RedisBalanceCache, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	if cfg.DB != 0 {
		opts.DB = cfg.DB
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisBalanceCacheWithClient(client, cfg.BalanceTTL), nil
}

// NewRedisBalanceCacheWithClient creates a cache with an existing Redis client.
func NewRedisBalanceCacheWithClient(client *redis.Client, ttl time.Duration) *RedisBalanceCache {
	return &RedisBalanceCache{
		client:    client,
		ttl:       ttl,
		keyPrefix: defaultKeyPrefix,
	}
}

type cachedTransaction struct {
	From   uuid.UUID `json:"from"`
	To     uuid.UUID `json:"to"`
	Amount int64     `json:"amount"`
}

type cachedBalances struct {
	GroupID      uuid.UUID           `json:"group_id"`
	Version      int64               `json:"version"`
	Balances     map[uuid.UUID]int64 `json:"balances"`
	Transactions []cachedTransaction `json:"transactions"`
}

func (c *RedisBalanceCache) key(groupID uuid.UUID, version int64) string {
	return fmt.Sprintf("%s%s:%d", c.keyPrefix, groupID, version)
}

// Get returns the cached balances for the version, or nil on a miss.
func (c *RedisBalanceCache) Get(ctx context.Context, groupID uuid.UUID, version int64) (*entity.GroupBalances, error) {
	raw, err := c.client.Get(ctx, c.key(groupID, version)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read cached balances: %w", err)
	}

	var cached cachedBalances
	if err := json.Unmarshal(raw, &cached); err != nil {
		return nil, fmt.Errorf("failed to decode cached balances: %w", err)
	}

	out := &entity.GroupBalances{
		GroupID:      cached.GroupID,
		Version:      cached.Version,
		Balances:     cached.Balances,
		Transactions: make([]entity.SettlementTransaction, len(cached.Transactions)),
	}
	for i, tx := range cached.Transactions {
		out.Transactions[i] = entity.SettlementTransaction{From: tx.From, To: tx.To, Amount: tx.Amount}
	}
	return out, nil
}

// Set stores balances under their group version.
func (c *RedisBalanceCache) Set(ctx context.Context, balances *entity.GroupBalances) error {
	cached := cachedBalances{
		GroupID:      balances.GroupID,
		Version:      balances.Version,
		Balances:     balances.Balances,
		Transactions: make([]cachedTransaction, len(balances.Transactions)),
	}
	for i, tx := range balances.Transactions {
		cached.Transactions[i] = cachedTransaction{From: tx.From, To: tx.To, Amount: tx.Amount}
	}

	raw, err := json.Marshal(cached)
	if err != nil {
		return fmt.Errorf("failed to encode balances: %w", err)
	}

	if err := c.client.Set(ctx, c.key(balances.GroupID, balances.Version), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache balances: %w", err)
	}
	return nil
}

// Ping checks that Redis is reachable.
func (c *RedisBalanceCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (c *RedisBalanceCache) Close() error {
	return c.client.Close()
}

// NoopBalanceCache is used when Redis is disabled. Every lookup misses.
type NoopBalanceCache struct{}

// Get always misses.
func (NoopBalanceCache) Get(context.Context, uuid.UUID, int64) (*entity.GroupBalances, error) {
	return nil, nil
}

// Set discards the balances.
func (NoopBalanceCache) Set(context.Context, *entity.GroupBalances) error {
	return nil
}

// Ensure implementations satisfy interfaces.
var (
	_ adapter.BalanceCache = (*RedisBalanceCache)(nil)
	_ adapter.BalanceCache = NoopBalanceCache{}
)
