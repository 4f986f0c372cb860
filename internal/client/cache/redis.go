// Package cache keeps gateway responses in Redis so repeated planning
// sessions do not hit the remote API for the same country or airport.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophtrip/internal/client/models"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "gophtrip"

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(addr, password string, db int, ttl time.Duration) *RedisCache {
	return NewRedisCacheWithClient(
		redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db}), ttl)
}

func NewRedisCacheWithClient(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Airports returns the cached airport list for country. A miss is reported
// as (nil, false, nil).
func (c *RedisCache) Airports(ctx context.Context, country string) ([]models.Airport, bool, error) {
	var airports []models.Airport
	ok, err := c.get(ctx, airportsKey(country), &airports)
	return airports, ok, err
}

func (c *RedisCache) SetAirports(ctx context.Context, country string, airports []models.Airport) error {
	return c.set(ctx, airportsKey(country), airports)
}

func (c *RedisCache) Routes(ctx context.Context, sourceID models.AirportID) ([]models.Route, bool, error) {
	var routes []models.Route
	ok, err := c.get(ctx, routesKey(sourceID), &routes)
	return routes, ok, err
}

func (c *RedisCache) SetRoutes(ctx context.Context, sourceID models.AirportID, routes []models.Route) error {
	return c.set(ctx, routesKey(sourceID), routes)
}

func (c *RedisCache) get(ctx context.Context, key string, v any) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("redis get %s: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (c *RedisCache) set(ctx context.Context, key string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func airportsKey(country string) string {
	return fmt.Sprintf("%s:airports:%s", keyPrefix, strings.ToLower(strings.TrimSpace(country)))
}

func routesKey(sourceID models.AirportID) string {
	return fmt.Sprintf("%s:routes:%s", keyPrefix, sourceID)
}
