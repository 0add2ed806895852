package redisstore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"evmarket/internal/models"
)

const activeStationsKey = "stations:active"

// StationCache caches the active station listing.
type StationCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStationCache returns redis-backed cache.
func NewStationCache(client *redis.Client, ttl time.Duration) *StationCache {
	return &StationCache{client: client, ttl: ttl}
}

// GetActive returns the cached listing. redis.Nil when cold.
func (c *StationCache) GetActive(ctx context.Context) ([]models.Station, error) {
	result, err := c.client.Get(ctx, activeStationsKey).Result()
	if err != nil {
		return nil, err
	}
	var stations []models.Station
	if err := json.Unmarshal([]byte(result), &stations); err != nil {
		return nil, err
	}
	return stations, nil
}

// SetActive caches the listing.
func (c *StationCache) SetActive(ctx context.Context, stations []models.Station) error {
	data, err := json.Marshal(stations)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, activeStationsKey, data, c.ttl).Err()
}

// Invalidate drops the cached listing. Called after reseeding.
func (c *StationCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, activeStationsKey).Err()
}
