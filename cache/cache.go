// Package cache provides an optional redis-backed cache of per-query
// listings so identical searches within the TTL skip the browser entirely.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"flight-monitor/config"
	"flight-monitor/models"
)

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(cfg config.RedisConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisCache{
		client: client,
		ttl:    time.Duration(cfg.TTLMinutes) * time.Minute,
	}, nil
}

func (c *RedisCache) Get(ctx context.Context, q models.FlightQuery) ([]models.RawListing, bool) {
	data, err := c.client.Get(ctx, queryKey(q)).Bytes()
	if err != nil {
		return nil, false
	}

	var listings []models.RawListing
	if err := json.Unmarshal(data, &listings); err != nil {
		return nil, false
	}
	return listings, true
}

func (c *RedisCache) Set(ctx context.Context, q models.FlightQuery, listings []models.RawListing) error {
	data, err := json.Marshal(listings)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, queryKey(q), data, c.ttl).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// NoOpCache always misses; used when redis is not configured.
type NoOpCache struct{}

func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

func (c *NoOpCache) Get(ctx context.Context, q models.FlightQuery) ([]models.RawListing, bool) {
	return nil, false
}

func (c *NoOpCache) Set(ctx context.Context, q models.FlightQuery, listings []models.RawListing) error {
	return nil
}

func queryKey(q models.FlightQuery) string {
	data, _ := json.Marshal(q)
	hash := sha256.Sum256(data)
	return "listings:" + hex.EncodeToString(hash[:])
}
