package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// BookRecord is the cached top-of-book view for one CLOB token.
type BookRecord struct {
	BestBid  *float64  `json:"best_bid,omitempty"`
	BestAsk  *float64  `json:"best_ask,omitempty"`
	CachedAt time.Time `json:"cached_at"`
}

// BookCache stores recent best bid/ask per token so a refresh can skip
// re-fetching books it priced moments ago. A nil cache is a no-op.
type BookCache interface {
	Get(ctx context.Context, tokenID string) (*BookRecord, bool, error)
	Set(ctx context.Context, tokenID string, record BookRecord) error
	Close() error
}

type redisBookCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisBookCache builds a short-TTL cache keyed by CLOB token ID.
func NewRedisBookCache(addr, password string, db int, ttl time.Duration, prefix string) (BookCache, error) {
	if addr == "" {
		return nil, fmt.Errorf("redis addr is required")
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if prefix == "" {
		prefix = "clob_book"
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &redisBookCache{client: client, ttl: ttl, prefix: prefix}, nil
}

func (c *redisBookCache) key(tokenID string) string {
	return fmt.Sprintf("%s:%s", c.prefix, tokenID)
}

func (c *redisBookCache) Get(ctx context.Context, tokenID string) (*BookRecord, bool, error) {
	if c == nil || c.client == nil {
		return nil, false, nil
	}
	raw, err := c.client.Get(ctx, c.key(tokenID)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var record BookRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, false, err
	}
	return &record, true, nil
}

func (c *redisBookCache) Set(ctx context.Context, tokenID string, record BookRecord) error {
	if c == nil || c.client == nil {
		return nil
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(tokenID), payload, c.ttl).Err()
}

func (c *redisBookCache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
